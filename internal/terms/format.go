package terms

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a term as Erlang source text. Output is deterministic for
// a given term: no whitespace beyond single separators, keys in the order
// they appear in the term.
func Format(t Term) string {
	var b strings.Builder
	formatTerm(&b, t)
	return b.String()
}

func formatTerm(b *strings.Builder, t Term) {
	switch v := t.(type) {
	case Atom:
		b.WriteString(formatAtom(string(v)))
	case String:
		b.WriteByte('"')
		b.WriteString(escapeString(string(v)))
		b.WriteByte('"')
	case Binary:
		if v == "" {
			b.WriteString("<<>>")
			return
		}
		b.WriteString(`<<"`)
		b.WriteString(escapeString(string(v)))
		b.WriteString(`">>`)
	case Int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case Float:
		// Erlang floats require a digit on both sides of the point.
		s := strconv.FormatFloat(float64(v), 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		b.WriteString(s)
	case Tuple:
		b.WriteByte('{')
		formatSeq(b, v)
		b.WriteByte('}')
	case List:
		b.WriteByte('[')
		formatSeq(b, v)
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%v", t)
	}
}

func formatSeq(b *strings.Builder, items []Term) {
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		formatTerm(b, item)
	}
}

// formatAtom quotes an atom unless it is a plain lowercase identifier.
func formatAtom(name string) string {
	if isPlainAtom(name) {
		return name
	}
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range name {
		switch r {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func isPlainAtom(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case i > 0 && (r == '_' || r == '@' || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
