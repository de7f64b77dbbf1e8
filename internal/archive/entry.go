// Package archive packs named entries into the executable archive artifact:
// three header lines followed by a zip container, written once, atomically,
// with execute permission.
package archive

// Entry is one (name, payload) pair in the archive.
type Entry struct {
	Name string
	Data []byte
}

// EntrySet is an ordered set of entries keyed by archive path. Adding an
// existing path overwrites its payload in place, which is how specialized
// units and the bootstrap unit shadow earlier entries. Insertion order is
// preserved so output byte layout is deterministic.
type EntrySet struct {
	index   map[string]int
	entries []Entry
}

// NewEntrySet returns an empty entry set.
func NewEntrySet() *EntrySet {
	return &EntrySet{index: make(map[string]int)}
}

// Add inserts an entry, overwriting the payload if the name is present.
func (s *EntrySet) Add(name string, data []byte) {
	if i, ok := s.index[name]; ok {
		s.entries[i].Data = data
		return
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, Entry{Name: name, Data: data})
}

// Get returns the payload for name and whether it exists.
func (s *EntrySet) Get(name string) ([]byte, bool) {
	if i, ok := s.index[name]; ok {
		return s.entries[i].Data, true
	}
	return nil, false
}

// Entries returns all entries in insertion order. The returned slice is
// shared with the set; callers must not modify it.
func (s *EntrySet) Entries() []Entry {
	return s.entries
}

// Len returns the number of entries.
func (s *EntrySet) Len() int {
	return len(s.entries)
}
