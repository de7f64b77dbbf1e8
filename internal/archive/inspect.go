package archive

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Artifact is a decoded executable archive: the three header lines and the
// unpacked entries in container order.
type Artifact struct {
	Shebang string
	Comment string
	EmuArgs string
	Entries []Entry
}

// Read decodes an artifact produced by Assemble: three newline-terminated
// header lines followed by the zip container.
func Read(data []byte) (*Artifact, error) {
	lines := make([]string, 0, 3)
	rest := data
	for i := 0; i < 3; i++ {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			return nil, fmt.Errorf("artifact header: expected 3 lines, got %d", len(lines))
		}
		lines = append(lines, string(rest[:idx]))
		rest = rest[idx+1:]
	}

	if !strings.HasPrefix(lines[0], "#!") {
		return nil, fmt.Errorf("artifact header: missing interpreter directive")
	}
	if !strings.HasPrefix(lines[2], "%%!") {
		return nil, fmt.Errorf("artifact header: missing runtime-argument line")
	}

	r, err := zip.NewReader(bytes.NewReader(rest), int64(len(rest)))
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	a := &Artifact{
		Shebang: lines[0],
		Comment: lines[1],
		EmuArgs: lines[2],
	}
	for _, zf := range r.File {
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("unpacking %s: %w", zf.Name, err)
		}
		payload, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("unpacking %s: %w", zf.Name, err)
		}
		a.Entries = append(a.Entries, Entry{Name: zf.Name, Data: payload})
	}
	return a, nil
}

// Entry returns the named entry's payload and whether it exists.
func (a *Artifact) Entry(name string) ([]byte, bool) {
	for _, e := range a.Entries {
		if e.Name == name {
			return e.Data, true
		}
	}
	return nil, false
}
