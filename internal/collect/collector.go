// Package collect walks build output trees and resolves the set of
// compiled units and resource files that belong in an archive.
package collect

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Component is one application's build output: a directory containing an
// ebin/ directory with compiled units and optionally a priv/ resource
// directory.
type Component struct {
	// App is the application identifier.
	App string

	// Dir is the application root directory.
	Dir string
}

// Source pairs an archive path with the file that provides its payload.
type Source struct {
	// ArchivePath is the entry path inside the archive, relative to the
	// shared output tree, always forward-slashed.
	ArchivePath string

	// Path is the absolute or working-directory-relative file path.
	Path string
}

// Units returns every compiled-unit and resource file of a component as
// ordered (archive path, source path) pairs. Files under ebin/ are always
// included; files under priv/ only when includePriv is set.
func Units(c Component, includePriv bool) ([]Source, error) {
	ebinDir := filepath.Join(c.Dir, "ebin")
	entries, err := os.ReadDir(ebinDir)
	if err != nil {
		return nil, fmt.Errorf("reading ebin of %s: %w", c.App, err)
	}

	var sources []Source
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		sources = append(sources, Source{
			ArchivePath: path.Join(c.App, "ebin", entry.Name()),
			Path:        filepath.Join(ebinDir, entry.Name()),
		})
	}

	if includePriv {
		privSources, err := privFiles(c)
		if err != nil {
			return nil, err
		}
		sources = append(sources, privSources...)
	}
	return sources, nil
}

// privFiles walks the component's priv/ directory. A missing priv/
// directory is not an error: the component simply declares no resources.
func privFiles(c Component) ([]Source, error) {
	privDir := filepath.Join(c.Dir, "priv")
	if _, err := os.Stat(privDir); os.IsNotExist(err) {
		return nil, nil
	}

	var sources []Source
	err := filepath.WalkDir(privDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(privDir, p)
		if err != nil {
			return err
		}
		sources = append(sources, Source{
			ArchivePath: path.Join(c.App, "priv", filepath.ToSlash(rel)),
			Path:        p,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking priv of %s: %w", c.App, err)
	}
	return sources, nil
}
