package beam

// PolicyMode selects how metadata chunks are stripped from compiled units.
type PolicyMode int

const (
	// PolicyDisabled passes units through untouched.
	PolicyDisabled PolicyMode = iota

	// PolicyDefault strips the default auxiliary chunk set.
	PolicyDefault

	// PolicyKeepList strips the default set except explicitly kept chunks.
	PolicyKeepList
)

// Policy is a resolved strip policy.
type Policy struct {
	Mode PolicyMode

	// Keep lists chunk names exempt from stripping. Only meaningful with
	// PolicyKeepList.
	Keep []string
}

// CriticalChunks are execution-critical and never stripped.
var CriticalChunks = []string{
	"AtU8", "Atom", "Code", "StrT", "ImpT", "ExpT", "FunT", "LitT", "Line", "Attr",
}

// DefaultStripChunks is the auxiliary chunk set removed by PolicyDefault:
// debug info, embedded docs, and compile-time metadata the loader never
// reads.
var DefaultStripChunks = []string{
	"Abst", "Dbgi", "Docs", "ExCk", "CInf", "LocT",
}

// Strip removes auxiliary chunks from a compiled unit according to the
// policy and re-serializes it. Returns an error if the payload is not a
// valid container; callers are expected to pass such units through
// unmodified rather than failing the build.
func Strip(payload []byte, policy Policy) ([]byte, error) {
	if policy.Mode == PolicyDisabled {
		return payload, nil
	}

	f, err := Parse(payload)
	if err != nil {
		return nil, err
	}

	drop := make(map[string]bool, len(DefaultStripChunks))
	for _, name := range DefaultStripChunks {
		drop[name] = true
	}
	if policy.Mode == PolicyKeepList {
		for _, name := range policy.Keep {
			delete(drop, name)
		}
	}

	kept := f.Chunks[:0]
	for _, c := range f.Chunks {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	f.Chunks = kept

	return f.Encode(), nil
}
