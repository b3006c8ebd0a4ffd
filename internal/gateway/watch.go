package gateway

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/sih3rron/boardcall/internal/taxonomy"
)

// WatchTaxonomy reloads the category catalog whenever the file at path
// changes, until ctx is cancelled. A catalog that fails to parse is
// logged and skipped; the gateway keeps serving the previous one.
// Editors typically replace files rather than write in place, so the
// watch is on the parent directory.
func (g *Gateway) WatchTaxonomy(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			tax, err := taxonomy.Load(path)
			if err != nil {
				g.logger.Warn("taxonomy reload failed, keeping previous catalog",
					"path", path, "error", err)
				continue
			}
			g.SetTaxonomy(tax)
			g.logger.Info("taxonomy reloaded",
				"path", path, "categories", len(tax.Categories))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Warn("taxonomy watch error", "error", err)
		}
	}
}
