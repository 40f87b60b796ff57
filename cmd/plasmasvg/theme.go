package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kdeframe/plasmasvg/internal/cliutil"
	"github.com/kdeframe/plasmasvg/internal/iniconf"
	"github.com/kdeframe/plasmasvg/internal/resolver"
	"github.com/kdeframe/plasmasvg/internal/theme"
	"github.com/kdeframe/plasmasvg/internal/xdg"
	"github.com/spf13/cobra"
)

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Inspect installed themes",
	}
	cmd.AddCommand(themeListCmd())
	cmd.AddCommand(themeWatchCmd())
	return cmd
}

func themeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List themes available across the XDG data directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDirs, err := xdg.DataDirs()
			if err != nil {
				return err
			}
			names := resolver.ListThemes(dataDirs, themeBase)

			table := cliutil.NewTable([]string{"THEME"})
			for _, n := range names {
				table.AddRow([]string{n})
			}
			fmt.Print(table.Render())
			return nil
		},
	}
}

// globalSettingsPath is $XDG_CONFIG_HOME/plasmarc, the file holding the
// `[Theme]\nname=` the system-wide theme selection lives in.
func globalSettingsPath() (string, error) {
	configHome, err := xdg.ConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "plasmarc"), nil
}

// readThemeName reads the `[Theme]` section's `name` key out of an
// INI-style settings file such as plasmarc.
func readThemeName(path string) (string, error) {
	doc, err := iniconf.Parse(path)
	if err != nil {
		return "", err
	}
	name, ok := doc.Get("Theme", "name")
	if !ok {
		return "", fmt.Errorf("no [Theme] name= in %s", path)
	}
	return name, nil
}

// defaultIconThemeMetadataPath returns the first data directory's
// default icon theme index file, or "" if none is present — Watcher
// simply skips watching an empty path.
func defaultIconThemeMetadataPath(dataDirs []string) string {
	if len(dataDirs) == 0 {
		return ""
	}
	candidate := filepath.Join(dataDirs[0], "icons", "default", "index.theme")
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	return candidate
}

func themeWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow theme/settings/icon-theme file changes and print engine events",
		Long: `Starts the Theme Engine's three file watches (global settings,
current theme metadata, system icon-theme metadata) and prints each
Engine event as it fires, until interrupted. Grounded on
ThemePrivate's three KDirWatch registrations and its debounced
themeChanged notification.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			settingsPath, err := globalSettingsPath()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			startName, err := readThemeName(settingsPath)
			if err != nil || startName == "" {
				startName = "default"
			}
			if err := engine.SetTheme(startName); err != nil {
				return fmt.Errorf("setting initial theme %q: %w", startName, err)
			}

			engine.Subscribe(func(ev theme.Event) {
				fmt.Fprintf(cmd.OutOrStdout(), "event: %s theme=%s\n", eventKindName(ev.Kind), ev.Theme)
			})

			watcher, err := theme.WatchSettings(engine, settingsPath, readThemeName)
			if err != nil {
				return fmt.Errorf("starting settings watch: %w", err)
			}
			defer watcher.Close()

			dataDirs, err := xdg.DataDirs()
			if err != nil {
				return err
			}
			current := engine.Current()
			metadataPath := ""
			if current != nil && current.BasePath != "" {
				metadataPath = filepath.Join(current.BasePath, "metadata.json")
			}
			if err := watcher.WatchTheme(metadataPath, defaultIconThemeMetadataPath(dataDirs)); err != nil {
				return fmt.Errorf("starting theme watch: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "watching %s (theme %s), press Ctrl-C to stop\n", settingsPath, startName)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
}

func eventKindName(k theme.EventKind) string {
	switch k {
	case theme.ThemeChanged:
		return "themeChanged"
	case theme.ApplicationPaletteChange:
		return "applicationPaletteChange"
	case theme.IconThemePathChanged:
		return "iconThemePathChanged"
	case theme.MetadataChanged:
		return "metadataChanged"
	default:
		return "unknown"
	}
}
