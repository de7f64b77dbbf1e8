// Package beam reads and writes the compiled-unit container format: an
// IFF-style "FOR1"/"BEAM" file holding an ordered list of named chunks.
// Chunks are treated as opaque byte payloads; the package never rewrites
// chunk contents, only drops whole chunks.
package beam

import (
	"encoding/binary"
	"fmt"
)

const (
	formMagic = "FOR1"
	beamType  = "BEAM"

	// Extension is the file extension of compiled units.
	Extension = ".beam"
)

// Chunk is one named chunk of a compiled unit.
type Chunk struct {
	// Name is the 4-character chunk identifier, e.g. "Code" or "AtU8".
	Name string

	// Data is the raw chunk payload, excluding padding.
	Data []byte
}

// File is a parsed compiled-unit container.
type File struct {
	// Chunks in file order.
	Chunks []Chunk
}

// FormatError indicates bytes that are not a valid container.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid beam container: " + e.Reason
}

// Parse decodes a compiled-unit container. The input bytes are not retained;
// chunk data aliases the input slice.
func Parse(data []byte) (*File, error) {
	if len(data) < 12 {
		return nil, &FormatError{Reason: "shorter than header"}
	}
	if string(data[0:4]) != formMagic {
		return nil, &FormatError{Reason: "missing FOR1 magic"}
	}
	size := binary.BigEndian.Uint32(data[4:8])
	if int(size) < 4 || int(size) > len(data)-8 {
		return nil, &FormatError{Reason: fmt.Sprintf("form size %d out of range", size)}
	}
	if string(data[8:12]) != beamType {
		return nil, &FormatError{Reason: "form type is not BEAM"}
	}

	// The form size bounds the chunk region; trailing bytes beyond it are
	// ignored, matching loader behavior.
	body := data[12 : 8+int(size)]

	f := &File{}
	for len(body) > 0 {
		if len(body) < 8 {
			return nil, &FormatError{Reason: "truncated chunk header"}
		}
		name := string(body[0:4])
		length := binary.BigEndian.Uint32(body[4:8])
		if int(length) > len(body)-8 {
			return nil, &FormatError{Reason: fmt.Sprintf("chunk %s length %d exceeds container", name, length)}
		}
		f.Chunks = append(f.Chunks, Chunk{
			Name: name,
			Data: body[8 : 8+int(length)],
		})
		// The final chunk's trailing padding may be absent when the form
		// ends at the chunk data.
		next := 8 + int(length) + padding(int(length))
		if next > len(body) {
			next = len(body)
		}
		body = body[next:]
	}
	return f, nil
}

// Encode serializes the container back to bytes. Chunk order and payloads
// are preserved exactly; sizes and padding are recomputed.
func (f *File) Encode() []byte {
	total := 4 // form type
	for _, c := range f.Chunks {
		total += 8 + len(c.Data) + padding(len(c.Data))
	}

	out := make([]byte, 8, 8+total)
	copy(out[0:4], formMagic)
	binary.BigEndian.PutUint32(out[4:8], uint32(total))
	out = append(out, beamType...)

	var header [8]byte
	for _, c := range f.Chunks {
		copy(header[0:4], c.Name)
		binary.BigEndian.PutUint32(header[4:8], uint32(len(c.Data)))
		out = append(out, header[:]...)
		out = append(out, c.Data...)
		for i := 0; i < padding(len(c.Data)); i++ {
			out = append(out, 0)
		}
	}
	return out
}

// Chunk returns the named chunk, or nil if absent.
func (f *File) Chunk(name string) *Chunk {
	for i := range f.Chunks {
		if f.Chunks[i].Name == name {
			return &f.Chunks[i]
		}
	}
	return nil
}

// ChunkNames returns the chunk names in file order.
func (f *File) ChunkNames() []string {
	names := make([]string, len(f.Chunks))
	for i, c := range f.Chunks {
		names[i] = c.Name
	}
	return names
}

// padding returns the number of zero bytes needed to align a chunk of the
// given length to a 4-byte boundary.
func padding(length int) int {
	return (4 - length%4) % 4
}
