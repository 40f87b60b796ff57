package main

import (
	"fmt"

	"github.com/kdeframe/plasmasvg/internal/cliutil"
	"github.com/spf13/cobra"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the Pixmap Cache for a theme",
	}
	cmd.AddCommand(cacheStatsCmd())
	cmd.AddCommand(cacheFlushCmd())
	return cmd
}

func cacheStatsCmd() *cobra.Command {
	var themeName string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report pending and on-disk Pixmap Cache size for a theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			if err := engine.SetTheme(themeName); err != nil {
				return fmt.Errorf("setting theme %q: %w", themeName, err)
			}

			pixmaps := engine.Pixmaps()
			table := cliutil.NewTable([]string{"METRIC", "VALUE"})
			table.AddRow([]string{"pending entries", fmt.Sprintf("%d", pixmaps.PendingLen())})
			table.AddRow([]string{"disk bytes", fmt.Sprintf("%d", pixmaps.DiskSize())})
			fmt.Print(table.Render())
			return nil
		},
	}
	cmd.Flags().StringVarP(&themeName, "theme", "t", "default", "theme whose cache to inspect")
	return cmd
}

func cacheFlushCmd() *cobra.Command {
	var themeName string
	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Force the pending tier to drain into the persistent store",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			if err := engine.SetTheme(themeName); err != nil {
				return fmt.Errorf("setting theme %q: %w", themeName, err)
			}
			engine.Pixmaps().Flush()
			fmt.Println("flushed")
			return nil
		},
	}
	cmd.Flags().StringVarP(&themeName, "theme", "t", "default", "theme whose cache to flush")
	return cmd
}
