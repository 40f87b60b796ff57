package theme

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher owns the three file watches spec.md §4.6 lists as Theme
// Engine state: the user settings file (global plasmarc), the current
// theme's metadata file, and the system icon-theme metadata file. Each
// fires a distinct Engine notification.
type Watcher struct {
	fs     *fsnotify.Watcher
	engine *Engine

	settingsPath string
	metadataPath string
	iconPath     string

	done chan struct{}
}

// WatchSettings starts watching globalSettingsPath (the file holding
// `[Theme] name=`) for changes, calling engine.SetTheme with the newly
// configured theme name whenever it changes.
func WatchSettings(engine *Engine, globalSettingsPath string, readThemeName func(path string) (string, error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(globalSettingsPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", globalSettingsPath, err)
	}

	w := &Watcher{fs: fsw, engine: engine, settingsPath: globalSettingsPath, done: make(chan struct{})}
	go w.loop(func(path string) {
		if path != globalSettingsPath {
			return
		}
		name, err := readThemeName(path)
		if err != nil || name == "" {
			return
		}
		if current := engine.Current(); current != nil && current.Name == name {
			return
		}
		_ = engine.SetTheme(name)
	})
	return w, nil
}

// WatchTheme adds a watch on the current theme's metadata file and the
// system icon-theme metadata file, invalidating the appropriate caches
// when either changes (spec.md §4.6).
func (w *Watcher) WatchTheme(themeMetadataPath, iconThemeMetadataPath string) error {
	w.metadataPath = themeMetadataPath
	w.iconPath = iconThemeMetadataPath
	if themeMetadataPath != "" {
		if err := w.fs.Add(filepath.Dir(themeMetadataPath)); err != nil {
			return fmt.Errorf("watching %s: %w", themeMetadataPath, err)
		}
	}
	if iconThemeMetadataPath != "" {
		if err := w.fs.Add(filepath.Dir(iconThemeMetadataPath)); err != nil {
			return fmt.Errorf("watching %s: %w", iconThemeMetadataPath, err)
		}
	}
	return nil
}

func (w *Watcher) loop(onSettingsChanged func(path string)) {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			switch ev.Name {
			case w.settingsPath:
				onSettingsChanged(ev.Name)
			case w.metadataPath:
				w.engine.NotifyMetadataChange()
			case w.iconPath:
				w.engine.NotifyIconThemePathChanged()
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher and releases its file descriptors.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
