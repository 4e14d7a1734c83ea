// Command turbozip is the command-line front end for the TurboZip
// compression engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Llucs/TurboZip/cmd/turbozip/commands"
	"github.com/Llucs/TurboZip/internal/errkind"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "turbozip",
		Short: "TurboZip - adaptive block compression",
		Long: `TurboZip partitions input into adaptively sized blocks, analyzes
their content, and compresses each with the codec best suited to it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a config file (default: search ./turbozip.yaml and $HOME/.config/turbozip)")

	rootCmd.AddCommand(commands.NewCompressCommand())
	rootCmd.AddCommand(commands.NewDecompressCommand())
	rootCmd.AddCommand(commands.NewInfoCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "turbozip: %v\n", err)
		os.Exit(errkind.ExitCode(err))
	}
}
