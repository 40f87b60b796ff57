package main

import (
	"fmt"
	"path/filepath"

	"github.com/kdeframe/plasmasvg/internal/renderer"
	"github.com/kdeframe/plasmasvg/internal/theme"
	"github.com/kdeframe/plasmasvg/internal/xdg"
)

// themeBase is the data-directory subtree plasmasvg's theme packs live
// under, matching KDE Plasma's own "desktoptheme" convention.
const themeBase = "desktoptheme"

// buildEngine wires a Theme Engine rooted at the XDG data directories
// and a cache directory under XDG_CACHE_HOME/plasmasvg, the same
// directories cmd/plasmasvg's pack/cache subcommands operate on.
func buildEngine() (*theme.Engine, error) {
	dataDirs, err := xdg.DataDirs()
	if err != nil {
		return nil, fmt.Errorf("resolving data directories: %w", err)
	}
	cacheHome, err := xdg.CacheHome()
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}
	cacheDir := filepath.Join(cacheHome, "plasmasvg")

	return theme.New(themeBase, dataDirs, cacheDir, logger)
}

func buildPool() *renderer.Pool {
	return renderer.New(logger)
}

// themePackRoot returns the directory theme packs are installed into:
// the most-specific (first) XDG data directory's desktoptheme subtree.
func themePackRoot() (string, error) {
	dataDirs, err := xdg.DataDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDirs[0], themeBase), nil
}

// themePackManifestPath returns the path of the theme pack install
// manifest, kept alongside the engine's cache rather than the theme
// tree itself so it survives a tree wipe.
func themePackManifestPath() (string, error) {
	cacheHome, err := xdg.CacheHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheHome, "plasmasvg", "themepacks.json"), nil
}
