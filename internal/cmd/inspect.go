package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beamtools/arx/internal/archive"
	"github.com/beamtools/arx/internal/beam"
	"github.com/beamtools/arx/internal/output"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	var chunksFlag bool

	cmd := &cobra.Command{
		Use:   "inspect <artifact>",
		Short: "List the contents of an executable archive",
		Long: `List the header and entries of an executable archive.

Examples:
  # List the entries of an artifact
  arx inspect bin/myapp

  # Include the chunk layout of each compiled unit
  arx inspect bin/myapp --chunks`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], chunksFlag)
		},
	}

	cmd.Flags().BoolVar(&chunksFlag, "chunks", false, "Show the chunk layout of compiled units")
	return cmd
}

// runInspect executes the inspect command.
func runInspect(path string, showChunks bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewExitError(err, ExitNotFound)
		}
		return NewExitError(err, ExitGeneralError)
	}

	artifact, err := archive.Read(data)
	if err != nil {
		return NewExitError(fmt.Errorf("inspecting %s: %w", path, err), ExitGeneralError)
	}

	output.Println(artifact.Shebang)
	output.Println(artifact.Comment)
	output.Println(artifact.EmuArgs)
	output.Println("")

	total := 0
	for _, entry := range artifact.Entries {
		total += len(entry.Data)
		output.Println(output.FormatEntryLine(entry.Name, len(entry.Data), entryDetail(entry, showChunks)))
	}

	output.Println("")
	output.Println(output.StyleSummary.Render(fmt.Sprintf(
		"%d entries, %d bytes unpacked", len(artifact.Entries), total)))
	return nil
}

// entryDetail describes a compiled unit's chunk layout when requested.
// Units that fail to parse are reported, not fatal.
func entryDetail(entry archive.Entry, showChunks bool) string {
	if !showChunks || !strings.HasSuffix(entry.Name, beam.Extension) {
		return ""
	}
	f, err := beam.Parse(entry.Data)
	if err != nil {
		return "unreadable: " + err.Error()
	}
	return strings.Join(f.ChunkNames(), " ")
}
