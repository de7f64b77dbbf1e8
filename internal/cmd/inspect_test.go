package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamtools/arx/internal/archive"
	"github.com/beamtools/arx/internal/beam"
)

// captureStdout runs fn with stdout redirected to a pipe and returns what
// was written.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	prev := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = prev }()

	runErr := fn()
	require.NoError(t, w.Close())

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data), runErr
}

// writeArtifact assembles a small artifact on disk and returns its path.
func writeArtifact(t *testing.T) string {
	t.Helper()

	unit := &beam.File{Chunks: []beam.Chunk{
		{Name: "AtU8", Data: []byte("atoms")},
		{Name: "Code", Data: []byte("bytecode")},
	}}

	set := archive.NewEntrySet()
	set.Add("myapp/ebin/Elixir.MyApp.beam", unit.Encode())
	set.Add("myapp/priv/data.txt", []byte("resource"))

	data, err := archive.Assemble(set, archive.Header{Comment: "packed by arx"}, "myapp_escript")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "myapp")
	require.NoError(t, archive.WriteFile(path, data))
	return path
}

func TestInspectCommand(t *testing.T) {
	path := writeArtifact(t)

	out, err := captureStdout(t, func() error {
		return execute("inspect", path)
	})
	require.NoError(t, err)

	assert.Contains(t, out, "#!/usr/bin/env escript")
	assert.Contains(t, out, "%% packed by arx")
	assert.Contains(t, out, "%%! -escript main myapp_escript")
	assert.Contains(t, out, "myapp/ebin/Elixir.MyApp.beam")
	assert.Contains(t, out, "myapp/priv/data.txt")
	assert.Contains(t, out, "2 entries")
}

func TestInspectCommandChunks(t *testing.T) {
	path := writeArtifact(t)

	out, err := captureStdout(t, func() error {
		return execute("inspect", path, "--chunks")
	})
	require.NoError(t, err)

	assert.Contains(t, out, "AtU8 Code")
}

func TestInspectCommandMissingArtifact(t *testing.T) {
	err := execute("inspect", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, ExitCodeFromError(err))
}

func TestInspectCommandMalformedArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk")
	require.NoError(t, os.WriteFile(path, []byte("not an artifact"), 0o755))

	err := execute("inspect", path)
	require.Error(t, err)
	assert.Equal(t, ExitGeneralError, ExitCodeFromError(err))
}

func TestEntryDetail(t *testing.T) {
	unit := &beam.File{Chunks: []beam.Chunk{
		{Name: "AtU8", Data: []byte("a")},
		{Name: "Code", Data: []byte("c")},
	}}
	entry := archive.Entry{Name: "m.beam", Data: unit.Encode()}

	assert.Empty(t, entryDetail(entry, false))
	assert.Equal(t, "AtU8 Code", entryDetail(entry, true))

	plain := archive.Entry{Name: "data.txt", Data: []byte("x")}
	assert.Empty(t, entryDetail(plain, true))

	corrupt := archive.Entry{Name: "bad.beam", Data: []byte("nope")}
	assert.Contains(t, entryDetail(corrupt, true), "unreadable")
}
