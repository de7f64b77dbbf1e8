package archive

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
)

// zipEpoch is the fixed modification time stamped on every archive entry.
// Using a constant keeps repeated builds of identical inputs byte-identical.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Pack writes all entries into an in-memory zip container. No temporary
// files are involved; a packing failure is fatal to the build and returned
// verbatim.
func Pack(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, entry := range entries {
		f, err := w.CreateHeader(&zip.FileHeader{
			Name:     entry.Name,
			Method:   zip.Deflate,
			Modified: zipEpoch,
		})
		if err != nil {
			return nil, fmt.Errorf("packing %s: %w", entry.Name, err)
		}
		if _, err := f.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("packing %s: %w", entry.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Assemble concatenates the header lines and the packed entries into the
// final artifact bytes.
func Assemble(set *EntrySet, h Header, bootstrapModule string) ([]byte, error) {
	packed, err := Pack(set.Entries())
	if err != nil {
		return nil, err
	}
	header := h.Lines(bootstrapModule)

	out := make([]byte, 0, len(header)+len(packed))
	out = append(out, header...)
	out = append(out, packed...)
	return out, nil
}

// WriteFile writes the artifact atomically: the bytes land in a temporary
// file beside the target which is then renamed over it. Parent directories
// are created as needed and execute permission is added for all roles on
// top of the file's default mode.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o666); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	info, err := os.Stat(tmp)
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, info.Mode().Perm()|0o111); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("setting execute permission: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}
