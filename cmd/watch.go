package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/gusakk/fluxsem/internal/log"
	"github.com/spf13/cobra"
)

var watchLogger = log.Section("watch")

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Type check the standard library under --root again whenever one of its files changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.root == "" {
				return fmt.Errorf("watch needs a corpus on disk: set --root or root in fluxsem.yaml")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), opts)
		},
		SilenceUsage: true,
	}
}

// watcher re-bootstraps sequentially. Each run's rebuild triggers replace
// the watched set, so new packages are picked up.
type watcher struct {
	opts    *options
	out     io.Writer
	fs      *fsnotify.Watcher
	watched map[string]bool
}

func runWatch(ctx context.Context, out io.Writer, opts *options) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not start watcher: %w", err)
	}
	defer fw.Close()

	w := &watcher{opts: opts, out: out, fs: fw, watched: map[string]bool{}}
	w.rebuild()
	// the root is watched even when the corpus does not parse
	if err := w.add(opts.root); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				// fsnotify drops the watch of a removed directory
				delete(w.watched, ev.Name)
			}
			if !relevant(ev) {
				continue
			}
			watchLogger.Debug("change", "path", ev.Name, "op", ev.Op.String())
			w.rebuild()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			watchLogger.Warn("watch error", "err", err)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	// directories have no extension; a new one may hold a new package
	return filepath.Ext(base) == ".flux" || filepath.Ext(base) == ""
}

func (w *watcher) rebuild() {
	res, err := w.opts.bootstrap()
	if err != nil {
		fmt.Fprintf(w.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w.out, "ok: %d packages, %d prelude values\n", res.Stdlib.Len(), res.Prelude.Len())

	for _, trigger := range res.RebuildTriggers {
		info, err := os.Stat(trigger)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := w.add(trigger); err != nil {
			watchLogger.Warn("could not watch directory", "dir", trigger, "err", err)
		}
	}
}

func (w *watcher) add(dir string) error {
	if w.watched[dir] {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}
	w.watched[dir] = true
	return nil
}
