package main

import (
	"context"
	"fmt"

	"github.com/kdeframe/plasmasvg/internal/cliutil"
	"github.com/kdeframe/plasmasvg/internal/themepack"
	"github.com/spf13/cobra"
)

func packCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Install and manage theme packs from GitHub releases",
	}
	cmd.AddCommand(packInstallCmd())
	cmd.AddCommand(packListCmd())
	cmd.AddCommand(packRemoveCmd())
	return cmd
}

func openPackManager() (*themepack.Manager, error) {
	root, err := themePackRoot()
	if err != nil {
		return nil, err
	}
	manifestPath, err := themePackManifestPath()
	if err != nil {
		return nil, err
	}
	return themepack.NewManager(root, manifestPath)
}

func packInstallCmd() *cobra.Command {
	var version string
	cmd := &cobra.Command{
		Use:   "install <owner/repo>",
		Short: "Download and extract a theme pack release",
		Long: `Install a theme pack archive from a GitHub release, extracting it
into the local desktoptheme tree.

Examples:
  plasmasvg pack install kde/breeze-plasma-theme
  plasmasvg pack install kde/breeze-plasma-theme --version v6.1.0
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := openPackManager()
			if err != nil {
				return err
			}
			entry, err := mgr.Install(context.Background(), args[0], version)
			if err != nil {
				return err
			}
			fmt.Printf("installed %s %s -> %s\n", entry.Name, entry.Version, entry.ThemeDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&version, "version", "latest", `release to install ("latest" or an exact tag)`)
	return cmd
}

func packListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed theme packs",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := openPackManager()
			if err != nil {
				return err
			}
			table := cliutil.NewTable([]string{"NAME", "SOURCE", "VERSION", "DIRECTORY"})
			for _, e := range mgr.List() {
				table.AddRow([]string{e.Name, e.SourceRepo, e.Version, e.ThemeDir})
			}
			fmt.Print(table.Render())
			return nil
		},
	}
}

func packRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an installed theme pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := openPackManager()
			if err != nil {
				return err
			}
			if err := mgr.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		},
	}
}
