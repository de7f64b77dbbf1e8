// Package specialize substitutes consolidated interface-dispatch units for
// their generic counterparts. Consolidated units dispatch faster and are
// smaller; bundling both variants would bloat the artifact and make load
// order ambiguous, so exactly one wins per base name.
package specialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beamtools/arx/internal/beam"
	"github.com/beamtools/arx/internal/collect"
)

// Map lists the consolidated-output directory and returns base file name →
// consolidated unit path. A missing directory yields an empty mapping:
// consolidation was enabled but produced nothing.
func Map(consolidatedDir string) (map[string]string, error) {
	entries, err := os.ReadDir(consolidatedDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading consolidated dir: %w", err)
	}

	mapping := make(map[string]string)
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), beam.Extension) {
			continue
		}
		mapping[entry.Name()] = filepath.Join(consolidatedDir, entry.Name())
	}
	return mapping, nil
}

// Apply rewrites sources so that every entry whose base name has a
// consolidated variant takes its payload from the consolidated file.
// Archive paths are unchanged, so the substituted unit loads in place of
// the generic one.
func Apply(sources []collect.Source, mapping map[string]string) []collect.Source {
	if len(mapping) == 0 {
		return sources
	}

	result := make([]collect.Source, len(sources))
	for i, s := range sources {
		if specialized, ok := mapping[filepath.Base(s.Path)]; ok {
			s.Path = specialized
		}
		result[i] = s
	}
	return result
}
