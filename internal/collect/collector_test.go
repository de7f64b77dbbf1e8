package collect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeApp lays out a fake application build directory and returns its
// Component. deps go into the applications list of the .app resource.
func writeApp(t *testing.T, root, app string, deps []string, privFiles ...string) Component {
	t.Helper()
	dir := filepath.Join(root, app)
	ebin := filepath.Join(dir, "ebin")
	require.NoError(t, os.MkdirAll(ebin, 0o755))

	appSpec := "{application, " + app + ",\n [{vsn, \"0.1.0\"},\n  {applications, ["
	for i, dep := range deps {
		if i > 0 {
			appSpec += ", "
		}
		appSpec += dep
	}
	appSpec += "]}]}.\n"
	require.NoError(t, os.WriteFile(filepath.Join(ebin, app+".app"), []byte(appSpec), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ebin, app+".beam"), []byte("FOR1"), 0o644))

	for _, pf := range privFiles {
		target := filepath.Join(dir, "priv", filepath.FromSlash(pf))
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(t, os.WriteFile(target, []byte("resource"), 0o644))
	}
	return Component{App: app, Dir: dir}
}

func archivePaths(sources []Source) []string {
	paths := make([]string, len(sources))
	for i, s := range sources {
		paths[i] = s.ArchivePath
	}
	return paths
}

func TestUnitsIncludesEbinFiles(t *testing.T) {
	c := writeApp(t, t.TempDir(), "myapp", nil, "static/logo.png")

	sources, err := Units(c, false)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"myapp/ebin/myapp.app", "myapp/ebin/myapp.beam"},
		archivePaths(sources))
}

func TestUnitsIncludePrivControlsResourcesOnly(t *testing.T) {
	c := writeApp(t, t.TempDir(), "myapp", nil, "static/logo.png", "data.txt")

	// Outside the inclusion set: compiled units present, resources absent.
	excluded, err := Units(c, false)
	require.NoError(t, err)
	assert.NotContains(t, archivePaths(excluded), "myapp/priv/data.txt")
	assert.Contains(t, archivePaths(excluded), "myapp/ebin/myapp.beam")

	// Inside the inclusion set: resources appear with tree-relative paths.
	included, err := Units(c, true)
	require.NoError(t, err)
	assert.Contains(t, archivePaths(included), "myapp/priv/data.txt")
	assert.Contains(t, archivePaths(included), "myapp/priv/static/logo.png")
}

func TestUnitsMissingPrivIsNotAnError(t *testing.T) {
	c := writeApp(t, t.TempDir(), "nopriv", nil)

	sources, err := Units(c, true)
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}

func TestUnitsMissingEbinFails(t *testing.T) {
	_, err := Units(Component{App: "ghost", Dir: t.TempDir()}, false)
	assert.Error(t, err)
}

func TestLocatePrefersExactThenHighestVersion(t *testing.T) {
	lib := t.TempDir()
	writeApp(t, lib, "logger-1.9.0", nil)
	writeApp(t, lib, "logger-1.18.2", nil)

	r := &Resolver{LibDirs: []string{lib}}
	c, err := r.Locate("logger")
	require.NoError(t, err)
	// String sort: "1.18.2" < "1.9.0", so 1.9.0 wins here.
	assert.Equal(t, filepath.Join(lib, "logger-1.9.0"), c.Dir)

	writeApp(t, lib, "logger", nil)
	c, err = r.Locate("logger")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(lib, "logger"), c.Dir)
}

func TestTransitiveWalksDeclaredDeps(t *testing.T) {
	build := t.TempDir()
	lib := t.TempDir()

	project := writeApp(t, build, "myapp", []string{"kernel", "stdlib", "web", "crypto"})
	writeApp(t, lib, "web", []string{"kernel", "crypto"})
	writeApp(t, lib, "crypto", []string{"kernel"})

	r := &Resolver{LibDirs: []string{lib}}
	known := map[string]Component{"myapp": project}

	components, err := r.Transitive("myapp", known, false)
	require.NoError(t, err)

	apps := make([]string, len(components))
	for i, c := range components {
		apps[i] = c.App
	}
	// web and crypto resolve from the search path; crypto appears once even
	// though two dependency paths reach it; base apps are never listed.
	assert.Equal(t, []string{"web", "crypto"}, apps)
}

func TestTransitiveEmbedRuntimeAddsFixedExtras(t *testing.T) {
	lib := t.TempDir()
	for _, app := range []string{"elixir", "iex", "ex_unit", "logger", "mix"} {
		writeApp(t, lib, app, []string{"kernel", "stdlib"})
	}

	r := &Resolver{LibDirs: []string{lib}}

	components, err := r.Transitive("", nil, true)
	require.NoError(t, err)

	apps := make([]string, len(components))
	for i, c := range components {
		apps[i] = c.App
	}
	assert.Equal(t, []string{"elixir", "iex", "ex_unit", "logger", "mix"}, apps)
}

func TestTransitiveWithoutEmbedSkipsRuntime(t *testing.T) {
	build := t.TempDir()
	project := writeApp(t, build, "myapp", []string{"kernel", "stdlib", "elixir"})

	r := &Resolver{LibDirs: nil}
	known := map[string]Component{"myapp": project}

	components, err := r.Transitive("myapp", known, false)
	require.NoError(t, err)
	assert.Empty(t, components)
}

func TestTransitiveMissingAppIsFatal(t *testing.T) {
	build := t.TempDir()
	project := writeApp(t, build, "myapp", []string{"nosuchapp"})

	r := &Resolver{LibDirs: []string{t.TempDir()}}
	known := map[string]Component{"myapp": project}

	_, err := r.Transitive("myapp", known, false)
	require.Error(t, err)

	var missing *MissingAppError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "nosuchapp", missing.App)
	assert.Contains(t, missing.Error(), "nosuchapp")
}
