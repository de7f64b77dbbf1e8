package terms

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a syntax error with its byte offset in the input.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("term syntax error at offset %d: %s", e.Offset, e.Msg)
}

// Parse reads a sequence of dot-terminated terms, as found in application
// resource files and config files. Comments (% to end of line) are skipped.
func Parse(src string) ([]Term, error) {
	p := &parser{src: src}
	var result []Term
	for {
		p.skipSpace()
		if p.eof() {
			return result, nil
		}
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() || p.src[p.pos] != '.' {
			return nil, p.errf("expected '.' after term")
		}
		p.pos++
		result = append(result, t)
	}
}

// ParseOne reads a single dot-terminated term.
func ParseOne(src string) (Term, error) {
	all, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if len(all) != 1 {
		return nil, fmt.Errorf("expected exactly one term, got %d", len(all))
	}
	return all[0], nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) errf(format string, args ...interface{}) error {
	return &ParseError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '%':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) term() (Term, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errf("unexpected end of input")
	}

	c := p.src[p.pos]
	switch {
	case c == '{':
		items, err := p.seq('{', '}')
		return Tuple(items), err
	case c == '[':
		items, err := p.seq('[', ']')
		return List(items), err
	case c == '"':
		s, err := p.quoted('"')
		return String(s), err
	case c == '\'':
		s, err := p.quoted('\'')
		return Atom(s), err
	case c == '<':
		return p.binary()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.number()
	case c >= 'a' && c <= 'z':
		return Atom(p.bareAtom()), nil
	default:
		return nil, p.errf("unexpected character %q", c)
	}
}

func (p *parser) seq(open, close byte) ([]Term, error) {
	p.pos++ // consume open
	var items []Term
	p.skipSpace()
	if !p.eof() && p.src[p.pos] == close {
		p.pos++
		return items, nil
	}
	for {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		items = append(items, t)
		p.skipSpace()
		if p.eof() {
			return nil, p.errf("unterminated %q", open)
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case close:
			p.pos++
			return items, nil
		default:
			return nil, p.errf("expected ',' or %q", close)
		}
	}
}

func (p *parser) quoted(quote byte) (string, error) {
	p.pos++ // consume opening quote
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.eof() {
				return "", p.errf("unterminated escape")
			}
			b.WriteByte(unescape(p.src[p.pos]))
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errf("unterminated quote")
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	default:
		return c
	}
}

func (p *parser) binary() (Term, error) {
	if !strings.HasPrefix(p.src[p.pos:], "<<") {
		return nil, p.errf("expected '<<'")
	}
	p.pos += 2
	p.skipSpace()
	if p.eof() {
		return nil, p.errf("unterminated binary")
	}

	var content string
	if p.src[p.pos] == '"' {
		s, err := p.quoted('"')
		if err != nil {
			return nil, err
		}
		content = s
		p.skipSpace()
	}
	if !strings.HasPrefix(p.src[p.pos:], ">>") {
		return nil, p.errf("expected '>>'")
	}
	p.pos += 2
	return Binary(content), nil
}

func (p *parser) number() (Term, error) {
	start := p.pos
	if p.src[p.pos] == '-' || p.src[p.pos] == '+' {
		p.pos++
	}
	digits := func() {
		for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
	}
	digits()

	isFloat := false
	if !p.eof() && p.src[p.pos] == '.' && p.pos+1 < len(p.src) &&
		p.src[p.pos+1] >= '0' && p.src[p.pos+1] <= '9' {
		isFloat = true
		p.pos++
		digits()
	}
	if !p.eof() && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		isFloat = true
		p.pos++
		if !p.eof() && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
			p.pos++
		}
		digits()
	}

	text := p.src[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errf("bad float %q", text)
		}
		return Float(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errf("bad integer %q", text)
	}
	return Int(n), nil
}

func (p *parser) bareAtom() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '@' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}
