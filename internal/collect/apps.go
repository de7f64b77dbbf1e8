package collect

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beamtools/arx/internal/terms"
)

// baseApps are the runtime components treated as always present on the
// target: traversal stops at them and they are never listed explicitly.
// elixir is the exception: it is bundled when the full runtime is embedded.
var baseApps = map[string]bool{
	"kernel": true,
	"stdlib": true,
	"elixir": true,
}

// runtimeExtras are bundled in addition to the transitive closure when the
// full runtime is embedded: the interactive shell, the test framework, the
// logger, and the build tool itself.
var runtimeExtras = []string{"elixir", "iex", "ex_unit", "logger", "mix"}

// MissingAppError indicates a declared runtime component could not be
// located on the library search path. This aborts the whole build: it means
// the environment is broken, not the project.
type MissingAppError struct {
	App      string
	Searched []string
}

func (e *MissingAppError) Error() string {
	return fmt.Sprintf("application %s not found in any of: %s",
		e.App, strings.Join(e.Searched, ", "))
}

// Resolver locates runtime-library components and walks their declared
// dependencies.
type Resolver struct {
	// LibDirs are searched in order for <app> or <app>-<vsn> directories.
	LibDirs []string
}

// Locate finds an application's build output below the library search path.
// Versioned directories win over bare ones only when no exact match exists;
// among versioned candidates the highest-sorting version is used.
func (r *Resolver) Locate(app string) (Component, error) {
	for _, libDir := range r.LibDirs {
		exact := filepath.Join(libDir, app)
		if dirExists(filepath.Join(exact, "ebin")) {
			return Component{App: app, Dir: exact}, nil
		}

		matches, _ := filepath.Glob(filepath.Join(libDir, app+"-*"))
		sort.Strings(matches)
		for i := len(matches) - 1; i >= 0; i-- {
			if dirExists(filepath.Join(matches[i], "ebin")) {
				return Component{App: app, Dir: matches[i]}, nil
			}
		}
	}
	return Component{}, &MissingAppError{App: app, Searched: r.LibDirs}
}

// Transitive resolves the runtime-library components reachable from the
// root application's declared dependencies. known maps applications whose
// build output is already part of the archive (the project and its
// dependencies); they are traversed but not returned. Re-visits are
// de-duplicated by identifier, so shared dependencies resolve once.
func (r *Resolver) Transitive(root string, known map[string]Component, embedRuntime bool) ([]Component, error) {
	var queue []string
	if root != "" {
		queue = append(queue, root)
	}
	if embedRuntime {
		queue = append(queue, runtimeExtras...)
	}

	visited := make(map[string]bool)
	var result []Component
	for len(queue) > 0 {
		app := queue[0]
		queue = queue[1:]

		if visited[app] {
			continue
		}
		visited[app] = true

		if baseApps[app] && !(embedRuntime && app == "elixir") {
			continue
		}

		component, fromSearchPath := known[app], false
		if _, ok := known[app]; !ok {
			located, err := r.Locate(app)
			if err != nil {
				return nil, err
			}
			component, fromSearchPath = located, true
		}

		deps, err := declaredDeps(component)
		if err != nil {
			return nil, err
		}
		queue = append(queue, deps...)

		if fromSearchPath {
			result = append(result, component)
		}
	}
	return result, nil
}

// declaredDeps reads the component's .app resource file and returns its
// applications and included_applications lists, in declared order.
func declaredDeps(c Component) ([]string, error) {
	appFile := filepath.Join(c.Dir, "ebin", c.App+".app")
	data, err := os.ReadFile(appFile)
	if err != nil {
		return nil, fmt.Errorf("reading app resource of %s: %w", c.App, err)
	}

	term, err := terms.ParseOne(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", appFile, err)
	}

	// {application, Name, [{Key, Value}, ...]}
	spec, ok := term.(terms.Tuple)
	if !ok || len(spec) != 3 {
		return nil, fmt.Errorf("%s: not an application resource", appFile)
	}
	props, ok := spec[2].(terms.List)
	if !ok {
		return nil, fmt.Errorf("%s: malformed property list", appFile)
	}

	var deps []string
	for _, key := range []string{"applications", "included_applications"} {
		deps = append(deps, atomList(props, key)...)
	}
	return deps, nil
}

// atomList extracts a list of atoms stored under key in a property list.
func atomList(props terms.List, key string) []string {
	for _, prop := range props {
		pair, ok := prop.(terms.Tuple)
		if !ok || len(pair) != 2 || pair[0] != terms.Atom(key) {
			continue
		}
		list, ok := pair[1].(terms.List)
		if !ok {
			return nil
		}
		var names []string
		for _, item := range list {
			if atom, ok := item.(terms.Atom); ok {
				names = append(names, string(atom))
			}
		}
		return names
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
