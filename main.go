package main

import (
	"os"

	"github.com/gusakk/fluxsem/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "fluxsem [subcommand]",
	Short:        "fluxsem infers the types of a Flux standard library",
	SilenceUsage: true,
}

func init() {
	cmd.Register(rootCmd)
}
