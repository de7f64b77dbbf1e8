package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamtools/arx/internal/terms"
)

func elixirParams() Params {
	return Params{
		App:        "myapp",
		MainModule: "Elixir.MyApp.CLI",
		StartApp:   "myapp",
		Variant:    VariantElixir,
		CompileConfig: terms.List{
			terms.Tuple{terms.Atom("myapp"), terms.List{
				terms.Tuple{terms.Atom("port"), terms.Int(8080)},
			}},
		},
		Env:    "prod",
		Target: "host",
	}
}

func TestModuleNameIsDeterministic(t *testing.T) {
	assert.Equal(t, "myapp_escript", Params{App: "myapp"}.ModuleName())
	assert.Equal(t, "my_app_escript", Params{App: "my-app"}.ModuleName())
}

func TestSourceElixirVariant(t *testing.T) {
	src, err := Source(elixirParams())
	require.NoError(t, err)
	text := string(src)

	assert.Contains(t, text, "-module(myapp_escript).")
	assert.Contains(t, text, "-export([main/1]).")

	// Managed runtime: startup verification, argument conversion, and the
	// runtime's own supervision wrapper around the user entry point.
	assert.Contains(t, text, "application:ensure_all_started(elixir)")
	assert.Contains(t, text, "unicode:characters_to_binary(Arg)")
	assert.Contains(t, text, "'Elixir.System':argv(BinArgs)")
	assert.Contains(t, text, "'Elixir.Kernel.CLI':run(fun(_) -> 'Elixir.MyApp.CLI':main(BinArgs) end)")

	// Compile-time config embedded as a literal, applied persistently.
	assert.Contains(t, text, "[{myapp,[{port,8080}]}]")
	assert.Contains(t, text, "application:set_env(App, Key, Value, [{persistent, true}])")

	// App start failure names the component and halts non-zero.
	assert.Contains(t, text, "application:ensure_all_started(myapp)")
	assert.Contains(t, text, "Could not start application ~s: ~p~n")
	assert.Contains(t, text, "erlang:halt(1)")

	// No runtime config file: only the compile-time layer is used.
	assert.Contains(t, text, "runtime_config() ->\n    [].")
	assert.NotContains(t, text, "erl_eval")
}

func TestSourceErlangVariant(t *testing.T) {
	p := Params{
		App:        "tool",
		MainModule: "tool_cli",
		Variant:    VariantErlang,
	}
	src, err := Source(p)
	require.NoError(t, err)
	text := string(src)

	// Unmanaged runtime: no startup verification, no argument conversion,
	// entry point called directly with the raw argument list.
	assert.Contains(t, text, "tool_cli:main(Args)")
	assert.NotContains(t, text, "ensure_all_started(elixir)")
	assert.NotContains(t, text, "characters_to_binary")
	assert.NotContains(t, text, "Kernel.CLI")

	// No app to start.
	assert.Contains(t, text, "start_apps() ->\n    ok.")
}

func TestSourceEmbedsRuntimeConfigText(t *testing.T) {
	p := elixirParams()
	p.RuntimeSource = `[{myapp, [{port, list_to_integer(os:getenv("PORT", "4000"))}]}]`

	src, err := Source(p)
	require.NoError(t, err)
	text := string(src)

	// The original source text is embedded (escaped) and re-evaluated with
	// the recorded environment name and target tag.
	assert.Contains(t, text, `os:getenv(\"PORT\", \"4000\")`)
	assert.Contains(t, text, "eval_config(")
	assert.Contains(t, text, "erl_eval:exprs(Exprs, Bindings)")
	assert.Contains(t, text, "'Env', Env")
	assert.Contains(t, text, "prod, host)")
}

func TestSourceRequiresMainModule(t *testing.T) {
	_, err := Source(Params{App: "x", Variant: VariantElixir})
	assert.Error(t, err)

	_, err = Source(Params{App: "x", MainModule: "m", Variant: Variant("ruby")})
	assert.Error(t, err)
}

// fakeCompiler records the source it was given and returns a fixed payload.
type fakeCompiler struct {
	module string
	source []byte
	err    error
}

func (f *fakeCompiler) Compile(_ context.Context, module string, source []byte) ([]byte, error) {
	f.module = module
	f.source = source
	if f.err != nil {
		return nil, f.err
	}
	return []byte("compiled:" + module), nil
}

func TestGenerateCompilesRenderedSource(t *testing.T) {
	fake := &fakeCompiler{}

	entry, err := Generate(context.Background(), fake, elixirParams())
	require.NoError(t, err)

	assert.Equal(t, "myapp_escript.beam", entry.Name)
	assert.Equal(t, []byte("compiled:myapp_escript"), entry.Data)
	assert.Equal(t, "myapp_escript", fake.module)
	assert.True(t, strings.Contains(string(fake.source), "-module(myapp_escript)."))
}

func TestGenerateSurfacesCompilerFailure(t *testing.T) {
	fake := &fakeCompiler{err: errors.New("syntax error")}

	_, err := Generate(context.Background(), fake, elixirParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "myapp_escript")
}
