package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gusakk/fluxsem/semantic/types"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file.flux...]",
		Short: "Type check the standard library, then each given program against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
		SilenceUsage: true,
	}
}

func runCheck(cmd *cobra.Command, opts *options, args []string) error {
	res, err := opts.bootstrap()
	if err != nil {
		return fmt.Errorf("standard library does not type check:\n%w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ok: %d packages, %d prelude values\n", res.Stdlib.Len(), res.Prelude.Len())

	failed := 0
	for _, arg := range args {
		src, err := os.ReadFile(arg)
		if err != nil {
			return fmt.Errorf("could not read program: %w", err)
		}
		values, err := res.Analyze(filepath.Base(arg), string(src))
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", arg, describe(err))
			continue
		}
		fmt.Fprintf(out, "%s:\n", arg)
		printValues(cmd, values, "  ")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d programs do not type check", failed, len(args))
	}
	return nil
}

func printValues(cmd *cobra.Command, values types.PolyTypeMap, indent string) {
	for name, t := range values.All() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s: %s\n", indent, name, t.Normal())
	}
}
