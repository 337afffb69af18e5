package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/phanxgames/canopy"
)

// settleDelay coalesces the burst of events an editor save produces.
const settleDelay = 100 * time.Millisecond

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <document>",
		Short: "Rebuild a document whenever a file under the root changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			l, err := newLoader(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watch(ctx, l, cfg.Root, args[0], cmd.OutOrStdout())
		},
	}
}

// watch dumps name, then rebuilds and dumps it again after every change to a
// document in dir or any directory below it until ctx is done. Sub-graphs
// may have changed too, so the cache is purged before each rebuild.
func watch(ctx context.Context, l *canopy.Loader, dir, name string, out io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := addTree(w, dir); err != nil {
		return err
	}

	rebuild := func() {
		l.Cache().Purge()
		res, err := l.LoadFile(name)
		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)
			return
		}
		writeResult(out, res)
	}
	rebuild()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(w, event.Name); err != nil {
						fmt.Fprintf(out, "! %v\n", err)
					}
				}
			}
			if !isDocumentEvent(event) {
				continue
			}
			settle = time.After(settleDelay)
		case <-settle:
			settle = nil
			fmt.Fprintf(out, "--- %s ---\n", time.Now().Format(time.TimeOnly))
			rebuild()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "! watch: %v\n", err)
		}
	}
}

// addTree watches dir and every directory below it. fsnotify watches are
// not recursive.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

func isDocumentEvent(e fsnotify.Event) bool {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Rename) && !e.Has(fsnotify.Remove) {
		return false
	}
	switch filepath.Ext(e.Name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
