package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gusakk/fluxsem/bootstrap"
	"github.com/gusakk/fluxsem/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDocsCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Print the documentation of the standard library",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = opts.cfg.Docs.Format
			}
			return runDocs(cmd.OutOrStdout(), opts, format)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatJSON, "output format: json or yaml")
	return cmd
}

func runDocs(w io.Writer, opts *options, format string) error {
	res, err := opts.bootstrap()
	if err != nil {
		return err
	}
	docs, err := bootstrap.StdlibDocs(res.Stdlib, res.Files)
	if err != nil {
		return fmt.Errorf("could not generate docs: %w", err)
	}

	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return fmt.Errorf("could not encode docs: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown docs format %q", format)
	}
}
