// Package xdg resolves the XDG Base Directory locations plasmasvg reads
// theme trees from and writes its pixmap/rects cache to. The fallback
// chain (env var, then os.UserHomeDir-relative default) mirrors
// imagecache.DefaultCacheDir in the teacher repo.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DataHome returns $XDG_DATA_HOME, defaulting to ~/.local/share.
func DataHome() (string, error) {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine data home: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

// ConfigHome returns $XDG_CONFIG_HOME, defaulting to ~/.config.
func ConfigHome() (string, error) {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config home: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

// CacheHome returns $XDG_CACHE_HOME when set; otherwise os.UserCacheDir,
// the way imagecache.DefaultCacheDir does, and ~/.cache only when
// os.UserCacheDir fails.
func CacheHome() (string, error) {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v, nil
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine cache home: %w", err)
	}
	return filepath.Join(home, ".cache"), nil
}

// DataDirs returns the ordered list of generic data directories to search
// for theme trees: $XDG_DATA_HOME first, then each entry of
// $XDG_DATA_DIRS (default /usr/local/share:/usr/share).
func DataDirs() ([]string, error) {
	home, err := DataHome()
	if err != nil {
		return nil, err
	}
	dirs := []string{home}

	extra := os.Getenv("XDG_DATA_DIRS")
	if extra == "" {
		extra = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(extra, string(filepath.ListSeparator)) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs, nil
}
