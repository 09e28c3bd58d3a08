package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/samkirk/gca-bridge/internal/registry"
)

// WatchModelOverrides watches path for changes and, on each debounced
// write, reloads it and pushes the result into resolver's alias table and
// table's fallback chains. It runs until ctx is canceled. Grounded on the
// debounced fsnotify watch-loop shape used elsewhere in the example
// corpus for config hot-reload, adapted here to drive the registry's two
// atomically-swappable tables instead of a generic reload signal.
func WatchModelOverrides(ctx context.Context, path string, resolver *registry.Resolver, table *registry.FallbackTable, log *logrus.Logger) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	reload := func() {
		ov, err := LoadModelOverrides(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("model overrides reload failed, keeping previous tables")
			return
		}
		if ov.Aliases != nil {
			registry.SetAliasTable(ov.Aliases)
		}
		if ov.Fallbacks != nil {
			table.Set(ov.Fallbacks)
		}
		log.WithField("path", path).Info("model overrides reloaded")
	}

	reload()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Warn("fsnotify unavailable, model overrides will not hot-reload")
		return
	}
	if err := watcher.Add(path); err != nil {
		log.WithError(err).WithField("path", path).Debug("model overrides file not present yet, watching directory only")
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			log.WithError(err).WithField("path", path).Warn("cannot watch model overrides directory, overrides will not hot-reload")
		}
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		const debounce = refreshInterval

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) {
					continue
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, reload)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("model overrides watcher error")
			}
		}
	}()
}
