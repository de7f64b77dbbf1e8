// Package cmd provides command implementations for the arx CLI.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/beamtools/arx/internal/output"
	"github.com/beamtools/arx/internal/version"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool
)

// NewRootCmd creates the root command for the arx CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "arx",
		Short:         "Executable archive builder for BEAM projects",
		Long:          `arx packs compiled BEAM applications into self-contained executable archives.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (default: arx.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", false, "Show timestamps in log output")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging from the global flags.
func initializeGlobals(cmd *cobra.Command) error {
	logCfg := output.LogConfig{
		Verbose: verboseFlag,
	}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	}
	output.SetupLogging(logCfg)

	if verboseFlag {
		info := version.GetInfo()
		output.Debug("initializing CLI",
			"version", info.Version,
			"commit", info.GitCommit,
			"config", configFlag,
		)
	}
	return nil
}
