// Package config provides build configuration loading and validation.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/beamtools/arx/internal/beam"
)

// Strip policy mode names as they appear in configuration.
const (
	StripDisabled = "disabled"
	StripDefault  = "default"
	StripKeepList = "keep"
)

// Language names for the bootstrap variant.
const (
	LanguageElixir = "elixir"
	LanguageErlang = "erlang"
)

// Dependency is one resolved project dependency's build output.
type Dependency struct {
	// App is the dependency's application identifier.
	App string `mapstructure:"app" yaml:"app"`

	// Dir is the dependency's build output directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// StripConfig selects the metadata strip policy.
type StripConfig struct {
	// Mode is one of disabled, default, keep.
	Mode string `mapstructure:"mode" yaml:"mode"`

	// Keep lists chunk names to retain in keep mode.
	Keep []string `mapstructure:"keep" yaml:"keep"`
}

// Config is the resolved build configuration. It is read once at build
// start and immutable afterwards.
type Config struct {
	// Name is the project application name; it also names the output
	// artifact and the synthesized bootstrap module.
	Name string `mapstructure:"name" yaml:"name"`

	// MainModule is the user's entry module. Required.
	MainModule string `mapstructure:"main_module" yaml:"main_module"`

	// App is the application to start when the artifact runs. Unset means
	// the project application; an explicit empty string means no application
	// is started.
	App *string `mapstructure:"app" yaml:"app"`

	// Language selects the bootstrap variant: elixir or erlang.
	Language string `mapstructure:"language" yaml:"language"`

	// ProjectDir is the project's own build output directory.
	ProjectDir string `mapstructure:"project_dir" yaml:"project_dir"`

	// Deps are the resolved dependency build outputs.
	Deps []Dependency `mapstructure:"deps" yaml:"deps"`

	// LibDirs are searched for runtime-library components.
	LibDirs []string `mapstructure:"lib_dirs" yaml:"lib_dirs"`

	// EmbedRuntime bundles the full language runtime into the artifact.
	EmbedRuntime bool `mapstructure:"embed_runtime" yaml:"embed_runtime"`

	// Specialize substitutes consolidated interface units when enabled.
	Specialize bool `mapstructure:"specialize" yaml:"specialize"`

	// ConsolidatedDir holds the consolidated interface units.
	ConsolidatedDir string `mapstructure:"consolidated_dir" yaml:"consolidated_dir"`

	// IncludePrivFor lists applications whose priv/ resources are bundled.
	IncludePrivFor []string `mapstructure:"include_priv_for" yaml:"include_priv_for"`

	// Strip is the metadata strip policy.
	Strip StripConfig `mapstructure:"strip" yaml:"strip"`

	// ConfigPath is the compile-time configuration file (.yaml or .js).
	ConfigPath string `mapstructure:"config" yaml:"config"`

	// RuntimeConfigPath is the runtime configuration source file, embedded
	// verbatim and re-evaluated when the artifact starts.
	RuntimeConfigPath string `mapstructure:"runtime_config" yaml:"runtime_config"`

	// Env and Target are recorded into the artifact for runtime config
	// evaluation.
	Env    string `mapstructure:"env" yaml:"env"`
	Target string `mapstructure:"target" yaml:"target"`

	// Shebang, Comment, and EmuArgs override the artifact header lines.
	Shebang string `mapstructure:"shebang" yaml:"shebang"`
	Comment string `mapstructure:"comment" yaml:"comment"`
	EmuArgs string `mapstructure:"emu_args" yaml:"emu_args"`

	// Output is the artifact path.
	Output string `mapstructure:"output" yaml:"output"`
}

// WithDefaults returns a copy with unset fields resolved to defaults.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.Language == "" {
		out.Language = LanguageElixir
	}
	if out.Env == "" {
		out.Env = "prod"
	}
	if out.Target == "" {
		out.Target = "host"
	}
	if out.Strip.Mode == "" {
		out.Strip.Mode = StripDefault
	}
	if out.ProjectDir == "" && out.Name != "" {
		out.ProjectDir = filepath.Join("_build", out.Env, "lib", out.Name)
	}
	if out.Output == "" && out.Name != "" {
		out.Output = out.Name
	}
	return &out
}

// ValidationError is a fatal configuration error, reported before any file
// work begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration for fatal errors.
func (c *Config) Validate() error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "project name is required"}
	}
	if c.MainModule == "" {
		return &ValidationError{Field: "main_module", Reason: "entry module is required"}
	}
	switch c.Language {
	case LanguageElixir, LanguageErlang:
	default:
		return &ValidationError{Field: "language", Reason: fmt.Sprintf("unknown language %q", c.Language)}
	}
	switch c.Strip.Mode {
	case StripDisabled, StripDefault, StripKeepList:
	default:
		return &ValidationError{Field: "strip.mode", Reason: fmt.Sprintf("unknown strip mode %q", c.Strip.Mode)}
	}
	return nil
}

// StripPolicy converts the configured strip settings to a beam policy.
// Call only after Validate.
func (c *Config) StripPolicy() beam.Policy {
	switch c.Strip.Mode {
	case StripDisabled:
		return beam.Policy{Mode: beam.PolicyDisabled}
	case StripKeepList:
		return beam.Policy{Mode: beam.PolicyKeepList, Keep: c.Strip.Keep}
	default:
		return beam.Policy{Mode: beam.PolicyDefault}
	}
}

// StartApp resolves the application to start: the project application by
// default, none when app is explicitly set to the empty string.
func (c *Config) StartApp() string {
	if c.App == nil {
		return c.Name
	}
	return *c.App
}

// IncludesPriv reports whether an application's resources are in the
// inclusion set.
func (c *Config) IncludesPriv(app string) bool {
	for _, name := range c.IncludePrivFor {
		if name == app {
			return true
		}
	}
	return false
}
