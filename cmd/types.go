package cmd

import (
	"fmt"

	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/spf13/cobra"
)

func newTypesCmd(opts *options) *cobra.Command {
	var showPrelude bool
	cmd := &cobra.Command{
		Use:   "types [package...]",
		Short: "Print the inferred record type of standard library packages",
		Long: "Print the inferred record type of the given packages, or of every package when none is given.\n" +
			"With --show-prelude, print the values every program sees without importing anything.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(cmd, opts, args, showPrelude)
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVarP(&showPrelude, "show-prelude", "p", false, "print the prelude instead of packages")
	return cmd
}

func runTypes(cmd *cobra.Command, opts *options, args []string, showPrelude bool) error {
	res, err := opts.bootstrap()
	if err != nil {
		return err
	}
	if showPrelude {
		printValues(cmd, res.Prelude, "")
		return nil
	}
	if len(args) == 0 {
		printValues(cmd, res.Stdlib, "")
		return nil
	}
	for _, path := range args {
		t, ok := res.Stdlib.Lookup(path)
		if !ok {
			return fmt.Errorf("could not print types: %w", fluxerr.PackageNotFound{Package: path})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, t.Normal())
	}
	return nil
}
