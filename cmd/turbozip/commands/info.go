package commands

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Llucs/TurboZip/pkg/turbozip"
)

// InfoCommand holds the flags for the info subcommand.
type InfoCommand struct {
	asJSON bool
}

// NewInfoCommand creates and configures the info command.
func NewInfoCommand() *cobra.Command {
	cmd := &InfoCommand{}

	cobraCmd := &cobra.Command{
		Use:   "info <container>",
		Short: "Show header, metadata, and block statistics for a TurboZip file",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().BoolVar(&cmd.asJSON, "json", false, "print machine-readable JSON instead of a summary")

	return cobraCmd
}

// Run executes the info command.
func (c *InfoCommand) Run(cobraCmd *cobra.Command, args []string) error {
	info, err := turbozip.Inspect(args[0])
	if err != nil {
		return err
	}

	out := cobraCmd.OutOrStdout()

	if c.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	ratio := 1.0
	if info.OriginalLength > 0 {
		ratio = float64(info.CompressedLength) / float64(info.OriginalLength)
	}

	fmt.Fprintf(out, "file:            %s\n", args[0])
	fmt.Fprintf(out, "original size:   %s (%d bytes)\n", humanize.Bytes(info.OriginalLength), info.OriginalLength)
	fmt.Fprintf(out, "compressed size: %s (%d bytes)\n", humanize.Bytes(info.CompressedLength), info.CompressedLength)
	fmt.Fprintf(out, "ratio:           %.3f (%.1f%% reduction)\n", ratio, 100*(1-ratio))
	fmt.Fprintf(out, "blocks:          %d\n", info.BlockCount)
	fmt.Fprintf(out, "base block size: %s\n", humanize.Bytes(uint64(info.BaseBlockSize)))
	fmt.Fprintf(out, "profile:         %s\n", info.Profile)
	fmt.Fprintf(out, "content class:   %s\n", info.ContentClass)
	fmt.Fprintf(out, "entropy:         %.3f\n", info.Entropy)
	fmt.Fprintf(out, "compressibility: %.3f\n", info.CompressibilityEstimate)
	for algo, count := range info.AlgorithmHistogram {
		fmt.Fprintf(out, "  %-16s %d\n", algo, count)
	}
	return nil
}
