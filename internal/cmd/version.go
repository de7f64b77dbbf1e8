package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beamtools/arx/internal/output"
	"github.com/beamtools/arx/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show arx version information.

Displays:
  - arx version, commit, and build date
  - Erlang/OTP toolchain release and location`,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.GetInfo()

	output.Println(fmt.Sprintf("arx version %s", info.Version))
	output.Println(fmt.Sprintf("  Commit:  %s", info.GitCommit))
	output.Println(fmt.Sprintf("  Built:   %s", info.BuildDate))
	output.Println(fmt.Sprintf("  Go:      %s", info.GoVersion))

	erlang := version.DetectErlang()
	if erlang.Found {
		output.Println(fmt.Sprintf("  Erlang:  OTP %s (%s)", erlang.Release, erlang.Path))
	} else {
		output.Println("  Erlang:  not found")
	}
	return nil
}
