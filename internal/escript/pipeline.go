// Package escript orchestrates the executable-archive build pipeline.
package escript

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/beamtools/arx/internal/appconfig"
	"github.com/beamtools/arx/internal/archive"
	"github.com/beamtools/arx/internal/beam"
	"github.com/beamtools/arx/internal/bootstrap"
	"github.com/beamtools/arx/internal/collect"
	"github.com/beamtools/arx/internal/config"
	"github.com/beamtools/arx/internal/output"
	"github.com/beamtools/arx/internal/specialize"
	"github.com/beamtools/arx/internal/terms"
)

// Result describes a completed build.
type Result struct {
	// Path is the written artifact.
	Path string

	// Bootstrap is the synthesized bootstrap module identifier.
	Bootstrap string

	// Entries is the number of archive entries.
	Entries int

	// Bytes is the artifact size.
	Bytes int
}

// Build runs the whole pipeline and writes the artifact.
//
// Phase sequence:
//  1. COLLECT:    project, dependency, and runtime-library units
//  2. SPECIALIZE: consolidated units substitute generic ones
//  3. STRIP:      load payloads, strip metadata chunks per policy
//  4. BOOTSTRAP:  generate and compile the entry-point unit
//  5. ASSEMBLE:   pack in memory, write once, mark executable
//
// The pipeline is strictly sequential and keeps everything in memory until
// the single final write, so a fatal error in any phase leaves no partial
// output behind. A nil compiler selects the erlc implementation.
func Build(ctx context.Context, cfg *config.Config, compiler bootstrap.Compiler) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if compiler == nil {
		erlc, err := bootstrap.NewErlcCompiler()
		if err != nil {
			return nil, err
		}
		compiler = erlc
	}

	// Phase 1: COLLECT
	sources, err := collectSources(cfg)
	if err != nil {
		return nil, err
	}
	output.Debug("collected units", "count", len(sources))

	// Phase 2: SPECIALIZE
	if cfg.Specialize {
		mapping, err := specialize.Map(cfg.ConsolidatedDir)
		if err != nil {
			return nil, err
		}
		sources = specialize.Apply(sources, mapping)
		output.Debug("specialized units", "count", len(mapping))
	}

	// Phase 3: STRIP (and load payloads)
	set, err := loadEntries(sources, cfg.StripPolicy())
	if err != nil {
		return nil, err
	}

	// Phase 4: BOOTSTRAP
	params, err := bootstrapParams(cfg)
	if err != nil {
		return nil, err
	}
	entry, err := bootstrap.Generate(ctx, compiler, params)
	if err != nil {
		return nil, err
	}
	set.Add(entry.Name, entry.Data)
	output.Debug("generated bootstrap unit", "module", params.ModuleName())

	// Phase 5: ASSEMBLE
	header := archive.Header{
		Shebang: cfg.Shebang,
		Comment: cfg.Comment,
		EmuArgs: cfg.EmuArgs,
	}
	data, err := archive.Assemble(set, header, params.ModuleName())
	if err != nil {
		return nil, &AssembleError{Err: err}
	}
	if err := archive.WriteFile(cfg.Output, data); err != nil {
		return nil, &AssembleError{Err: err}
	}

	return &Result{
		Path:      cfg.Output,
		Bootstrap: params.ModuleName(),
		Entries:   set.Len(),
		Bytes:     len(data),
	}, nil
}

// collectSources gathers (archive path, source path) pairs for the project,
// its dependencies, and the runtime-library components reachable from the
// target application.
func collectSources(cfg *config.Config) ([]collect.Source, error) {
	project := collect.Component{App: cfg.Name, Dir: cfg.ProjectDir}
	known := map[string]collect.Component{project.App: project}

	sources, err := collect.Units(project, cfg.IncludesPriv(project.App))
	if err != nil {
		return nil, err
	}

	for _, dep := range cfg.Deps {
		component := collect.Component{App: dep.App, Dir: dep.Dir}
		known[dep.App] = component

		depSources, err := collect.Units(component, cfg.IncludesPriv(dep.App))
		if err != nil {
			return nil, err
		}
		sources = append(sources, depSources...)
	}

	resolver := &collect.Resolver{LibDirs: cfg.LibDirs}
	runtimeComponents, err := resolver.Transitive(cfg.StartApp(), known, cfg.EmbedRuntime)
	if err != nil {
		return nil, err
	}
	for _, component := range runtimeComponents {
		componentSources, err := collect.Units(component, cfg.IncludesPriv(component.App))
		if err != nil {
			return nil, err
		}
		sources = append(sources, componentSources...)
	}
	return sources, nil
}

// loadEntries reads every source payload into the entry set, stripping
// compiled units per policy. A unit that fails to parse passes through
// unmodified: one corrupt unit must never abort the build.
func loadEntries(sources []collect.Source, policy beam.Policy) (*archive.EntrySet, error) {
	set := archive.NewEntrySet()
	for _, s := range sources {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.Path, err)
		}

		if policy.Mode != beam.PolicyDisabled && strings.HasSuffix(s.ArchivePath, beam.Extension) {
			stripped, err := beam.Strip(data, policy)
			if err != nil {
				output.Debug("strip skipped", "entry", s.ArchivePath, "error", err)
			} else {
				data = stripped
			}
		}
		set.Add(s.ArchivePath, data)
	}
	return set, nil
}

// bootstrapParams resolves the configuration layers feeding the bootstrap
// unit.
func bootstrapParams(cfg *config.Config) (bootstrap.Params, error) {
	params := bootstrap.Params{
		App:        cfg.Name,
		MainModule: cfg.MainModule,
		StartApp:   cfg.StartApp(),
		Variant:    bootstrap.Variant(cfg.Language),
		Env:        cfg.Env,
		Target:     cfg.Target,
	}

	if cfg.ConfigPath != "" {
		compileConfig, err := appconfig.Read(cfg.ConfigPath, cfg.Env, cfg.Target)
		if err != nil {
			return bootstrap.Params{}, err
		}
		params.CompileConfig = compileConfig
	}
	if params.CompileConfig == nil {
		params.CompileConfig = terms.List{}
	}

	if cfg.RuntimeConfigPath != "" {
		source, err := os.ReadFile(cfg.RuntimeConfigPath)
		if err != nil {
			return bootstrap.Params{}, fmt.Errorf("reading runtime config: %w", err)
		}
		params.RuntimeSource = string(source)
	}
	return params, nil
}
