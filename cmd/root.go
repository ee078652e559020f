package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/solution-finder/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "solfinder",
	Short: "Guided solution finder for business categories",
	Long: `Solution Finder walks a visitor from a business category, through the
needs they care about, to a ranked list of matching solutions. It also
offers keyword search across the whole catalog, a REST/WebSocket server
for the web wizard, and an MCP server for AI agents.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
