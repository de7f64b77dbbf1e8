package archive

import "strings"

// DefaultShebang is the interpreter directive used when no override is set.
const DefaultShebang = "#!/usr/bin/env escript"

// Header holds the overridable pieces of the three-line artifact header.
// Zero values select the defaults.
type Header struct {
	// Shebang overrides the interpreter directive line.
	Shebang string

	// Comment overrides the second line's comment text.
	Comment string

	// EmuArgs are extra runtime arguments appended after the bootstrap
	// module on the third line.
	EmuArgs string
}

// Lines renders the three header lines, each newline-terminated, naming the
// bootstrap module on the runtime-argument line. Overrides are collapsed to
// a single line each so the archive always starts at byte offset
// len(Lines()).
func (h Header) Lines(bootstrapModule string) string {
	shebang := h.Shebang
	if shebang == "" {
		shebang = DefaultShebang
	}
	if !strings.HasPrefix(shebang, "#!") {
		shebang = "#!" + shebang
	}

	comment := "%%"
	if text := singleLine(h.Comment); text != "" {
		comment = "%% " + text
	}

	emuArgs := "%%! -escript main " + bootstrapModule
	if extra := singleLine(h.EmuArgs); extra != "" {
		emuArgs += " " + extra
	}

	return singleLine(shebang) + "\n" + comment + "\n" + emuArgs + "\n"
}

// singleLine collapses any embedded newlines into spaces and trims the
// result.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
