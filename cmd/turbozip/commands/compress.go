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

// CompressCommand holds the flags for the compress subcommand.
type CompressCommand struct {
	profile string
	threads int
	force   bool
	verbose bool
}

// NewCompressCommand creates and configures the compress command.
func NewCompressCommand() *cobra.Command {
	cmd := &CompressCommand{}

	cobraCmd := &cobra.Command{
		Use:   "compress <input> [output]",
		Short: "Compress a file into a TurboZip container",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.profile, "profile", "balanced", "compression profile: lightning|fast|balanced|high|max")
	cobraCmd.Flags().IntVar(&cmd.threads, "threads", 0, "worker count (0 = automatic)")
	cobraCmd.Flags().BoolVar(&cmd.force, "force", false, "overwrite an existing output file")
	cobraCmd.Flags().BoolVarP(&cmd.verbose, "verbose", "v", false, "print progress and a summary on completion")

	return cobraCmd
}

// Run executes the compress command.
func (c *CompressCommand) Run(cobraCmd *cobra.Command, args []string) error {
	input := args[0]
	output := input + ".tzp"
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

	profileName := cfg.Engine.DefaultProfile
	if cobraCmd.Flags().Changed("profile") {
		profileName = c.profile
	}
	profile, err := parseProfile(profileName)
	if err != nil {
		return err
	}

	workers := cfg.Engine.Workers
	if cobraCmd.Flags().Changed("threads") {
		workers = c.threads
	}

	logger := newLogger(cfg, c.verbose)

	var tracker *progress.Tracker
	if info, statErr := os.Stat(input); statErr == nil {
		tracker = progress.New(uint64(info.Size()))
		tracker.SetQuiet(!c.verbose)
	}

	stats, err := turbozip.Compress(cobraCmd.Context(), input, output, turbozip.Options{
		Profile:         profile,
		Workers:         workers,
		SampleThreshold: int(cfg.Engine.SampleThresholdBytes()),
		Logger:          logger,
		Progress:        tracker,
	})
	if err != nil {
		return err
	}

	if c.verbose {
		ratio := 1.0
		if stats.OriginalLength > 0 {
			ratio = float64(stats.CompressedLength) / float64(stats.OriginalLength)
		}
		fmt.Fprintf(cobraCmd.OutOrStdout(), "wrote %s: %d bytes -> %d bytes (%.1f%%), %d blocks\n",
			output, stats.OriginalLength, stats.CompressedLength, ratio*100, stats.BlockCount)
	}
	return nil
}

func parseProfile(name string) (turbozip.Profile, error) {
	switch strings.ToLower(name) {
	case "lightning":
		return turbozip.Lightning, nil
	case "fast":
		return turbozip.Fast, nil
	case "balanced":
		return turbozip.Balanced, nil
	case "high":
		return turbozip.High, nil
	case "max":
		return turbozip.Max, nil
	default:
		return "", fmt.Errorf("%w: unknown profile %q", errkind.ErrUsage, name)
	}
}
