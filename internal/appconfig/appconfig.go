// Package appconfig loads the application configuration that gets embedded
// into the bootstrap unit. Configuration is component→key→value: a keyword
// list of {App, [{Key, Value}]} pairs.
//
// Two source forms are supported at build time: plain YAML mappings and
// JavaScript expression files, evaluated with the build's environment name
// and target tag bound. Runtime configuration is never evaluated here: its
// source text is embedded verbatim and re-evaluated when the artifact
// starts.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dop251/goja"
	"gopkg.in/yaml.v3"

	"github.com/beamtools/arx/internal/terms"
)

// Read loads and resolves a configuration file. .yaml/.yml files are static
// mappings; .js files are evaluated with env and target in scope and must
// yield an object of the same shape.
func Read(path, env, target string) (terms.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		var raw map[string]interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return fromMapping(raw)
	case ".js":
		return Eval(string(data), nil, env, target)
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .js)", ext)
	}
}

// Eval evaluates a JavaScript configuration expression with env and target
// bound, converts the resulting object, and merges it over prior (evaluated
// keys win). It is a pure function of its inputs.
func Eval(source string, prior terms.List, env, target string) (terms.List, error) {
	vm := goja.New()
	if err := vm.Set("env", env); err != nil {
		return nil, err
	}
	if err := vm.Set("target", target); err != nil {
		return nil, err
	}

	value, err := vm.RunString(source)
	if err != nil {
		return nil, fmt.Errorf("evaluating config: %w", err)
	}

	raw, ok := value.Export().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("config script must evaluate to an object, got %s", value.ExportType())
	}

	evaluated, err := fromMapping(raw)
	if err != nil {
		return nil, err
	}
	return Merge(prior, evaluated), nil
}

// Merge layers overlay over base. Components are merged by identifier; for
// a shared component, overlay keys win over same-named base keys and new
// keys append in overlay order.
func Merge(base, overlay terms.List) terms.List {
	result := make(terms.List, len(base))
	copy(result, base)

	for _, item := range overlay {
		pair, ok := item.(terms.Tuple)
		if !ok || len(pair) != 2 {
			result = append(result, item)
			continue
		}

		idx := findComponent(result, pair[0])
		if idx < 0 {
			result = append(result, item)
			continue
		}

		basePairs, _ := result[idx].(terms.Tuple)[1].(terms.List)
		overlayPairs, _ := pair[1].(terms.List)
		result[idx] = terms.Tuple{pair[0], mergePairs(basePairs, overlayPairs)}
	}
	return result
}

// mergePairs applies overlay key-value pairs over base in listed order:
// last write per key wins, new keys append.
func mergePairs(base, overlay terms.List) terms.List {
	result := make(terms.List, len(base))
	copy(result, base)

	for _, item := range overlay {
		pair, ok := item.(terms.Tuple)
		if !ok || len(pair) != 2 {
			result = append(result, item)
			continue
		}
		replaced := false
		for i, existing := range result {
			if existingPair, ok := existing.(terms.Tuple); ok && len(existingPair) == 2 && existingPair[0] == pair[0] {
				result[i] = pair
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, pair)
		}
	}
	return result
}

func findComponent(config terms.List, app terms.Term) int {
	for i, item := range config {
		if pair, ok := item.(terms.Tuple); ok && len(pair) == 2 && pair[0] == app {
			return i
		}
	}
	return -1
}

// fromMapping converts a decoded app→keys mapping into configuration terms,
// with components and keys sorted for deterministic embedding.
func fromMapping(raw map[string]interface{}) (terms.List, error) {
	value, err := terms.FromValue(raw)
	if err != nil {
		return nil, err
	}

	config, ok := value.(terms.List)
	if !ok {
		return nil, fmt.Errorf("config must be a mapping of applications")
	}
	for _, item := range config {
		pair, ok := item.(terms.Tuple)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("config must be a mapping of applications")
		}
		if _, ok := pair[1].(terms.List); !ok {
			return nil, fmt.Errorf("config for %v must be a mapping of keys", pair[0])
		}
	}
	return config, nil
}
