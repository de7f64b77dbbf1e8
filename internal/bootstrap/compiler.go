package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Compiler turns generated source into a compiled unit. The upstream
// compiler is an external collaborator; builds inject either the erlc
// implementation or a test double.
type Compiler interface {
	Compile(ctx context.Context, module string, source []byte) ([]byte, error)
}

// ErlcCompiler shells out to the Erlang compiler.
type ErlcCompiler struct {
	// Path is the erlc executable.
	Path string
}

// NewErlcCompiler locates erlc on PATH.
func NewErlcCompiler() (*ErlcCompiler, error) {
	path, err := exec.LookPath("erlc")
	if err != nil {
		return nil, fmt.Errorf("erlc not found in PATH: %w", err)
	}
	return &ErlcCompiler{Path: path}, nil
}

// Compile writes the source to a scratch directory, invokes erlc, and reads
// back the compiled unit.
func (c *ErlcCompiler) Compile(ctx context.Context, module string, source []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "arx-bootstrap-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	sourceFile := filepath.Join(dir, module+".erl")
	if err := os.WriteFile(sourceFile, source, 0o644); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, c.Path, "-o", dir, sourceFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("erlc: %w\n%s", err, out)
	}

	return os.ReadFile(filepath.Join(dir, module+".beam"))
}
