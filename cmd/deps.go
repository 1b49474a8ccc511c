package cmd

import (
	"fmt"

	"github.com/gusakk/fluxsem/bootstrap"
	"github.com/spf13/cobra"
)

func newDepsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deps package...",
		Short: "Print the transitive imports of packages, dependencies first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := bootstrap.ParseCorpus(opts.corpus())
			if err != nil {
				return fmt.Errorf("could not read corpus: %w", err)
			}
			deps, err := bootstrap.Dependencies(files, args...)
			if err != nil {
				return fmt.Errorf("could not resolve imports: %w", codedError{err})
			}
			for _, dep := range deps {
				fmt.Fprintln(cmd.OutOrStdout(), dep)
			}
			return nil
		},
		SilenceUsage: true,
	}
}
