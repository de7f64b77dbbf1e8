package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beamtools/arx/internal/bootstrap"
	"github.com/beamtools/arx/internal/config"
	"github.com/beamtools/arx/internal/escript"
	"github.com/beamtools/arx/internal/output"
	"github.com/beamtools/arx/internal/version"
)

// newCompiler resolves the bootstrap compiler. Tests substitute a fake so
// builds run without an Erlang installation.
var newCompiler = func() (bootstrap.Compiler, error) {
	erlang := version.DetectErlang()
	if !erlang.Found {
		return nil, NewExitError(
			fmt.Errorf("erlang toolchain not found: %s", erlang.Message),
			ExitToolchainError)
	}
	output.Debug("detected erlang toolchain", "release", erlang.Release, "path", erlang.Path)
	return bootstrap.NewErlcCompiler()
}

// buildFlags holds the build command's flag values.
type buildFlags struct {
	name            string
	mainModule      string
	app             string
	language        string
	projectDir      string
	libDirs         []string
	embedRuntime    bool
	specialize      bool
	consolidatedDir string
	includePrivFor  []string
	stripMode       string
	stripKeep       []string
	appConfig       string
	runtimeConfig   string
	env             string
	target          string
	outputPath      string
}

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	var bf buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build an executable archive",
		Long: `Build a self-contained executable archive from compiled BEAM applications.

The build collects compiled units from the project and its dependencies,
strips metadata chunks, generates a bootstrap unit, and packs everything
into a single executable file.

Examples:
  # Build using arx.yaml in the current directory
  arx build

  # Build with an explicit output path and environment
  arx build -o bin/myapp --env staging

  # Build embedding the Elixir runtime, keeping doc chunks
  arx build --embed-runtime --strip keep --keep Docs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, &bf)
		},
	}

	cmd.Flags().StringVar(&bf.name, "name", "", "Project name")
	cmd.Flags().StringVar(&bf.mainModule, "main-module", "", "Entry-point module invoked by the artifact")
	cmd.Flags().StringVar(&bf.app, "app", "", "Application started before the entry point runs (empty for none)")
	cmd.Flags().StringVar(&bf.language, "language", "", "Project language: elixir, erlang")
	cmd.Flags().StringVar(&bf.projectDir, "project-dir", "", "Directory holding the project's compiled output")
	cmd.Flags().StringSliceVar(&bf.libDirs, "lib-dir", nil, "Directory searched for runtime libraries (repeatable)")
	cmd.Flags().BoolVar(&bf.embedRuntime, "embed-runtime", false, "Embed the Elixir runtime applications")
	cmd.Flags().BoolVar(&bf.specialize, "specialize", false, "Substitute consolidated protocol units")
	cmd.Flags().StringVar(&bf.consolidatedDir, "consolidated-dir", "", "Directory holding consolidated units")
	cmd.Flags().StringSliceVar(&bf.includePrivFor, "include-priv-for", nil, "Applications whose priv/ resources are packed")
	cmd.Flags().StringVar(&bf.stripMode, "strip", "", "Strip mode: disabled, default, keep")
	cmd.Flags().StringSliceVar(&bf.stripKeep, "keep", nil, "Chunk names to keep in addition to the critical set")
	cmd.Flags().StringVar(&bf.appConfig, "app-config", "", "Compile-time application config file (.yaml or .js)")
	cmd.Flags().StringVar(&bf.runtimeConfig, "runtime-config", "", "Runtime config source embedded verbatim")
	cmd.Flags().StringVar(&bf.env, "env", "", "Build environment (env: ARX_ENV)")
	cmd.Flags().StringVar(&bf.target, "target", "", "Build target (env: ARX_TARGET)")
	cmd.Flags().StringVarP(&bf.outputPath, "output", "o", "", "Output path for the artifact (env: ARX_OUTPUT)")

	return cmd
}

// runBuild executes the build command.
func runBuild(cmd *cobra.Command, bf *buildFlags) error {
	cfg, err := config.NewLoader().Load(configFlag)
	if err != nil {
		return NewExitError(err, ExitConfigError)
	}
	applyBuildFlags(cmd, bf, cfg)
	cfg = cfg.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return NewExitError(err, ExitConfigError)
	}

	compiler, err := newCompiler()
	if err != nil {
		return err
	}

	var result *escript.Result
	buildErr := output.RunWithSpinner(cmd.Context(), "Building "+cfg.Output, func() error {
		var err error
		result, err = escript.Build(cmd.Context(), cfg, compiler)
		return err
	})
	if buildErr != nil {
		return NewExitError(buildErr, ExitCodeFromError(buildErr))
	}

	output.Println(output.FormatCheckmark(fmt.Sprintf(
		"built %s (%d entries, %d bytes, bootstrap %s)",
		result.Path, result.Entries, result.Bytes, result.Bootstrap)))
	return nil
}

// applyBuildFlags overlays explicitly set flags onto the loaded config.
func applyBuildFlags(cmd *cobra.Command, bf *buildFlags, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("name") {
		cfg.Name = bf.name
	}
	if flags.Changed("main-module") {
		cfg.MainModule = bf.mainModule
	}
	if flags.Changed("app") {
		cfg.App = &bf.app
	}
	if flags.Changed("language") {
		cfg.Language = bf.language
	}
	if flags.Changed("project-dir") {
		cfg.ProjectDir = bf.projectDir
	}
	if flags.Changed("lib-dir") {
		cfg.LibDirs = bf.libDirs
	}
	if flags.Changed("embed-runtime") {
		cfg.EmbedRuntime = bf.embedRuntime
	}
	if flags.Changed("specialize") {
		cfg.Specialize = bf.specialize
	}
	if flags.Changed("consolidated-dir") {
		cfg.ConsolidatedDir = bf.consolidatedDir
	}
	if flags.Changed("include-priv-for") {
		cfg.IncludePrivFor = bf.includePrivFor
	}
	if flags.Changed("strip") {
		cfg.Strip.Mode = bf.stripMode
	}
	if flags.Changed("keep") {
		cfg.Strip.Keep = bf.stripKeep
	}
	if flags.Changed("app-config") {
		cfg.ConfigPath = bf.appConfig
	}
	if flags.Changed("runtime-config") {
		cfg.RuntimeConfigPath = bf.runtimeConfig
	}
	if flags.Changed("env") {
		cfg.Env = bf.env
	}
	if flags.Changed("target") {
		cfg.Target = bf.target
	}
	if flags.Changed("output") {
		cfg.Output = bf.outputPath
	}
}
