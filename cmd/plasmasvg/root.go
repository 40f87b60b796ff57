// Command plasmasvg exercises the themed SVG rendering engine end to
// end: rasterize a themed or absolute SVG to a PNG, list installed
// themes, inspect cache state, and install theme packs from GitHub
// releases. It is a consumer of the plasmasvg library, grounded on the
// teacher's internal/cli/root.go Cobra wiring.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/kdeframe/plasmasvg/internal/version"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  hclog.Logger

	rootCmd = &cobra.Command{
		Use:   "plasmasvg",
		Short: "Render and manage Plasma-style themed SVG assets",
		Long: `plasmasvg renders themed SVG assets (KDE Plasma style) to raster
images, manages the pixmap/rects caches the engine maintains, and
installs theme packs from GitHub releases into the local theme tree.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := hclog.Info
			if verbose {
				level = hclog.Debug
			}
			logger = hclog.New(&hclog.LoggerOptions{Name: "plasmasvg", Level: level})
		},
	}
)

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(paintCmd())
	rootCmd.AddCommand(themeCmd())
	rootCmd.AddCommand(cacheCmd())
	rootCmd.AddCommand(packCmd())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func main() {
	Execute()
}
