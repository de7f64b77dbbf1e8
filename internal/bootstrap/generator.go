// Package bootstrap synthesizes the archive's entry-point unit: a generated
// module that loads configuration into the application environment, starts
// the target application, and invokes the user's entry function.
//
// Two explicit code-generation variants exist. The Elixir variant verifies
// the language runtime started, converts raw arguments to binaries, and runs
// the entry function under the runtime's CLI supervision wrapper. The Erlang
// variant skips all of that and calls the entry function directly with the
// unconverted argument list.
package bootstrap

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/beamtools/arx/internal/archive"
	"github.com/beamtools/arx/internal/beam"
	"github.com/beamtools/arx/internal/terms"
)

//go:embed templates/*.erl.tmpl
var templateFS embed.FS

// Variant selects the code-generation template.
type Variant string

const (
	// VariantElixir is the managed-runtime bootstrap.
	VariantElixir Variant = "elixir"

	// VariantErlang is the unmanaged-runtime bootstrap.
	VariantErlang Variant = "erlang"
)

// Params describe the bootstrap unit to generate.
type Params struct {
	// App is the project application name; the bootstrap module identifier
	// is derived from it deterministically.
	App string

	// MainModule is the user's entry module.
	MainModule string

	// StartApp is the application to start before invoking the entry
	// function. Empty means no application is started.
	StartApp string

	// Variant selects the managed (Elixir) or unmanaged (Erlang) template.
	Variant Variant

	// CompileConfig is the build-time configuration layer, embedded as a
	// literal.
	CompileConfig terms.List

	// RuntimeSource is runtime configuration source text, embedded verbatim
	// and re-evaluated when the artifact starts. Empty means only the
	// compile-time layer applies.
	RuntimeSource string

	// Env and Target are the build's recorded environment name and target
	// tag, bound during runtime config evaluation.
	Env    string
	Target string
}

// ModuleName returns the synthesized bootstrap module identifier.
func (p Params) ModuleName() string {
	return strings.ReplaceAll(p.App, "-", "_") + "_escript"
}

// templateData carries pre-formatted Erlang fragments into the template.
type templateData struct {
	Module        string
	MainModule    string
	StartApp      string
	CompileConfig string
	RuntimeSource string
	Env           string
	Target        string
}

// Source renders the bootstrap module's source code.
func Source(p Params) ([]byte, error) {
	if p.MainModule == "" {
		return nil, fmt.Errorf("bootstrap: main module is required")
	}

	name := string(p.Variant)
	if p.Variant != VariantElixir && p.Variant != VariantErlang {
		return nil, fmt.Errorf("bootstrap: unknown variant %q", name)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/"+name+".erl.tmpl")
	if err != nil {
		return nil, fmt.Errorf("bootstrap: loading template: %w", err)
	}

	compileConfig := p.CompileConfig
	if compileConfig == nil {
		compileConfig = terms.List{}
	}

	data := templateData{
		Module:        terms.Format(terms.Atom(p.ModuleName())),
		MainModule:    terms.Format(terms.Atom(p.MainModule)),
		CompileConfig: terms.Format(compileConfig),
		Env:           terms.Format(terms.Atom(p.Env)),
		Target:        terms.Format(terms.Atom(p.Target)),
	}
	if p.StartApp != "" {
		data.StartApp = terms.Format(terms.Atom(p.StartApp))
	}
	if src := strings.TrimSpace(p.RuntimeSource); src != "" {
		// erl_parse:parse_exprs needs a dot-terminated expression sequence.
		if !strings.HasSuffix(src, ".") {
			src += "."
		}
		data.RuntimeSource = terms.Format(terms.String(src))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("bootstrap: rendering: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate renders and compiles the bootstrap unit, returning the archive
// entry that shadows any same-named unit.
func Generate(ctx context.Context, compiler Compiler, p Params) (archive.Entry, error) {
	source, err := Source(p)
	if err != nil {
		return archive.Entry{}, err
	}

	module := p.ModuleName()
	payload, err := compiler.Compile(ctx, module, source)
	if err != nil {
		return archive.Entry{}, fmt.Errorf("compiling bootstrap unit %s: %w", module, err)
	}
	return archive.Entry{Name: module + beam.Extension, Data: payload}, nil
}
