package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pthm/hxfacet"
	"github.com/zoobzio/capitan"
)

// runWatch streams model changes into the facet: the model file is loaded
// into a Model bound with Minder, and reloaded on every write.
func runWatch(args []string) error {
	opts, err := parseOptions("watch", args)
	if err != nil {
		return err
	}
	facet, err := setup(opts)
	if err != nil {
		return err
	}
	defer capitan.Shutdown()

	model := hxfacet.NewModel()
	conn, err := hxfacet.Minder(model, hxfacet.ModelToView, facet)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	target := filepath.Clean(opts.model)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.model, err)
	}

	reload := func() {
		doc, err := os.ReadFile(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			return
		}
		if err := model.LoadJSON(string(doc)); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", opts.model, err)
			return
		}
		fmt.Println(facet.Element().String())
	}
	reload()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "warning: watch: %v\n", err)
		}
	}
}
