package cmd

import (
	"io/fs"
	"os"

	"github.com/gusakk/fluxsem/bootstrap"
	"github.com/gusakk/fluxsem/frontend/fluxerr"
	"github.com/gusakk/fluxsem/internal/config"
	"github.com/gusakk/fluxsem/internal/log"
	"github.com/gusakk/fluxsem/stdlib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var logger = log.Section("cmd")

// options are shared by every subcommand. Flags override the config file.
type options struct {
	root       string
	configPath string
	logLevel   string
	prelude    []string

	cfg *config.Config
}

// Register adds the global flags and every subcommand to root.
func Register(root *cobra.Command) {
	opts := &options{}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.root, "root", "r", "", "directory holding the standard library (default: the embedded one)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "path of fluxsem.yaml (default: searched from the working directory up)")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "", "log level: debug, info, warn or error")
	flags.StringSliceVar(&opts.prelude, "prelude", nil, "packages making up the prelude, in inference order")
	root.PersistentPreRunE = opts.setup

	root.AddCommand(
		newCheckCmd(opts),
		newTypesCmd(opts),
		newDepsCmd(opts),
		newDocsCmd(opts),
		newWatchCmd(opts),
	)
}

func (o *options) setup(cmd *cobra.Command, _ []string) error {
	path := o.configPath
	if path == "" {
		path = config.FindConfig(".")
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return errors.Wrap(err, "could not load config")
		}
		cfg = loaded
	}
	o.cfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("root") {
		o.root = cfg.Root
	}
	if !flags.Changed("log-level") {
		o.logLevel = cfg.LogLevel
	}
	if !flags.Changed("prelude") {
		o.prelude = cfg.Prelude
	}

	level, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	logger.Debug("configured", "config", path, "root", o.root, "prelude", o.prelude)
	return nil
}

// corpus is the file system the standard library is read from.
func (o *options) corpus() fs.FS {
	if o.root == "" {
		return stdlib.FS()
	}
	return os.DirFS(o.root)
}

func (o *options) bootstrap() (*bootstrap.Result, error) {
	res, err := bootstrap.BootstrapFS(o.corpus(), bootstrap.Options{
		Prelude: o.prelude,
		Root:    o.root,
	})
	if err != nil {
		return nil, codedError{err}
	}
	return res, nil
}

// codedError prints like describe and keeps err reachable through
// errors.As.
type codedError struct {
	err error
}

func (e codedError) Error() string { return describe(e.err) }
func (e codedError) Unwrap() error { return e.err }

// describe renders err with the code of the outermost fluxerr.Error it wraps.
func describe(err error) string {
	var fe fluxerr.Error
	if errors.As(err, &fe) {
		return fluxerr.FormatWithCode(fe)
	}
	return err.Error()
}
