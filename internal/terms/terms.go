// Package terms models the subset of Erlang terms that appears in
// application resource files and configuration: atoms, strings, binaries,
// numbers, tuples, and lists. It provides parsing for that subset and
// deterministic formatting back to Erlang source.
package terms

import (
	"fmt"
	"sort"
)

// Term is an Erlang term.
type Term interface {
	isTerm()
}

// Atom is an Erlang atom.
type Atom string

// String is an Erlang double-quoted string (a charlist in source form).
type String string

// Binary is an Erlang binary written as <<"...">>.
type Binary string

// Int is an Erlang integer.
type Int int64

// Float is an Erlang float.
type Float float64

// Tuple is an Erlang tuple.
type Tuple []Term

// List is an Erlang list.
type List []Term

func (Atom) isTerm()   {}
func (String) isTerm() {}
func (Binary) isTerm() {}
func (Int) isTerm()    {}
func (Float) isTerm()  {}
func (Tuple) isTerm()  {}
func (List) isTerm()   {}

// FromValue converts a decoded configuration value (from YAML or JavaScript)
// into a Term. Mappings become keyword lists [{atom(Key), Value}] with keys
// sorted for deterministic output; strings become binaries; booleans and nil
// become atoms.
func FromValue(v interface{}) (Term, error) {
	switch val := v.(type) {
	case nil:
		return Atom("undefined"), nil
	case bool:
		if val {
			return Atom("true"), nil
		}
		return Atom("false"), nil
	case string:
		return Binary(val), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint64:
		return Int(val), nil
	case float32:
		return Float(val), nil
	case float64:
		return Float(val), nil
	case []interface{}:
		list := make(List, 0, len(val))
		for _, item := range val {
			t, err := FromValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, t)
		}
		return list, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		list := make(List, 0, len(keys))
		for _, k := range keys {
			t, err := FromValue(val[k])
			if err != nil {
				return nil, err
			}
			list = append(list, Tuple{Atom(k), t})
		}
		return list, nil
	case Term:
		return val, nil
	default:
		return nil, fmt.Errorf("cannot represent %T as an Erlang term", v)
	}
}
