package runtimeconfig

import (
	"context"
	"fmt"
	"log"

	"github.com/fsnotify/fsnotify"
)

// Watch watches path for changes and invokes onReload with the freshly
// parsed Config each time the file is written. It never touches a
// CompiledSchema: hot-reload here only replaces the Config value a
// running server reads timeouts/rate-limits/audit-level through (§6,
// §9 "schemas are immutable post-compile"). Watch blocks until ctx is
// canceled or the watcher fails to initialize.
func Watch(ctx context.Context, path string, onReload func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("runtimeconfig: watch %s: %w", path, err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("runtimeconfig: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				log.Printf("runtimeconfig: reload %s failed, keeping previous config: %v", path, err)
				continue
			}
			onReload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("runtimeconfig: watch %s: %v", path, err)
		}
	}
}
