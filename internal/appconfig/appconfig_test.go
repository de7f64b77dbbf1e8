package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beamtools/arx/internal/terms"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
myapp:
  port: 8080
  host: localhost
logger:
  level: info
`)

	config, err := Read(path, "prod", "host")
	require.NoError(t, err)

	assert.Equal(t,
		`[{logger,[{level,<<"info">>}]},{myapp,[{host,<<"localhost">>},{port,8080}]}]`,
		terms.Format(config))
}

func TestReadJavaScript(t *testing.T) {
	path := writeFile(t, "config.js", `
({
  myapp: {
    debug: env !== "prod",
    pool_size: env === "prod" ? 32 : 2,
    target: target,
  },
})
`)

	prod, err := Read(path, "prod", "x86_64")
	require.NoError(t, err)
	assert.Equal(t,
		`[{myapp,[{debug,false},{pool_size,32},{target,<<"x86_64">>}]}]`,
		terms.Format(prod))

	dev, err := Read(path, "dev", "x86_64")
	require.NoError(t, err)
	assert.Equal(t,
		`[{myapp,[{debug,true},{pool_size,2},{target,<<"x86_64">>}]}]`,
		terms.Format(dev))
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "config.toml", `x = 1`)
	_, err := Read(path, "prod", "host")
	assert.Error(t, err)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.yaml"), "prod", "host")
	assert.Error(t, err)
}

func TestEvalMustYieldObject(t *testing.T) {
	_, err := Eval(`42`, nil, "prod", "host")
	assert.Error(t, err)

	_, err = Eval(`throw new Error("boom")`, nil, "prod", "host")
	assert.Error(t, err)
}

func TestEvalMergesOverPrior(t *testing.T) {
	prior := terms.List{
		terms.Tuple{terms.Atom("myapp"), terms.List{
			terms.Tuple{terms.Atom("a"), terms.Int(1)},
			terms.Tuple{terms.Atom("b"), terms.Int(2)},
		}},
	}

	merged, err := Eval(`({myapp: {b: 3, c: 4}})`, prior, "prod", "host")
	require.NoError(t, err)
	assert.Equal(t, `[{myapp,[{a,1},{b,3},{c,4}]}]`, terms.Format(merged))
}

func TestMergeRuntimeKeysWin(t *testing.T) {
	compile := terms.List{
		terms.Tuple{terms.Atom("myapp"), terms.List{
			terms.Tuple{terms.Atom("a"), terms.Int(1)},
			terms.Tuple{terms.Atom("b"), terms.Int(2)},
		}},
	}
	runtime := terms.List{
		terms.Tuple{terms.Atom("myapp"), terms.List{
			terms.Tuple{terms.Atom("b"), terms.Int(3)},
			terms.Tuple{terms.Atom("c"), terms.Int(4)},
		}},
		terms.Tuple{terms.Atom("other"), terms.List{
			terms.Tuple{terms.Atom("x"), terms.Atom("true")},
		}},
	}

	merged := Merge(compile, runtime)
	assert.Equal(t,
		`[{myapp,[{a,1},{b,3},{c,4}]},{other,[{x,true}]}]`,
		terms.Format(merged))
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := terms.List{
		terms.Tuple{terms.Atom("app"), terms.List{
			terms.Tuple{terms.Atom("k"), terms.Int(1)},
		}},
	}
	overlay := terms.List{
		terms.Tuple{terms.Atom("app"), terms.List{
			terms.Tuple{terms.Atom("k"), terms.Int(2)},
		}},
	}

	before := terms.Format(base)
	Merge(base, overlay)
	assert.Equal(t, before, terms.Format(base))
}
