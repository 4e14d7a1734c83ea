package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Llucs/TurboZip/internal/errkind"
	"github.com/Llucs/TurboZip/pkg/progress"
	"github.com/Llucs/TurboZip/pkg/turbozip"
)

// DecompressCommand holds the flags for the decompress subcommand.
type DecompressCommand struct {
	threads int
	force   bool
	verbose bool
}

// NewDecompressCommand creates and configures the decompress command.
func NewDecompressCommand() *cobra.Command {
	cmd := &DecompressCommand{}

	cobraCmd := &cobra.Command{
		Use:   "decompress <input> [output]",
		Short: "Restore the original file from a TurboZip container",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().IntVar(&cmd.threads, "threads", 0, "worker count (0 = automatic)")
	cobraCmd.Flags().BoolVar(&cmd.force, "force", false, "overwrite an existing output file")
	cobraCmd.Flags().BoolVarP(&cmd.verbose, "verbose", "v", false, "print progress and a summary on completion")

	return cobraCmd
}

// Run executes the decompress command.
func (c *DecompressCommand) Run(cobraCmd *cobra.Command, args []string) error {
	input := args[0]
	output := strings.TrimSuffix(input, ".tzp")
	if output == input {
		output = input + ".out"
	}
	if len(args) == 2 {
		output = args[1]
	}

	if !c.force {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("%w: %s already exists (use --force to overwrite)", errkind.ErrUsage, output)
		}
	}

	cfg, err := loadConfig(cobraCmd)
	if err != nil {
		return fmt.Errorf("%w: %v", errkind.ErrUsage, err)
	}

	workers := cfg.Engine.Workers
	if cobraCmd.Flags().Changed("threads") {
		workers = c.threads
	}

	var tracker *progress.Tracker
	if info, infoErr := turbozip.Inspect(input); infoErr == nil {
		tracker = progress.New(info.OriginalLength)
		tracker.SetQuiet(!c.verbose)
	}

	return turbozip.Decompress(cobraCmd.Context(), input, output, turbozip.DecompressOptions{
		Workers:  workers,
		Progress: tracker,
	})
}
