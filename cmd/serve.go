package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/solution-finder/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing catalog, ranking and search tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.loader.Load(cmd.Context())
		if err != nil {
			// Keep serving; every tool reports the catalog as unavailable.
			fmt.Fprintf(os.Stderr, "Warning: could not load catalog from %s: %v\n", describeSource(a.cfg), err)
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		solutions := 0
		if c != nil {
			solutions = len(c.Solutions)
		}
		fmt.Fprintf(os.Stderr, "solfinder MCP server started on stdio (catalog=%s, solutions=%d)\n", describeSource(a.cfg), solutions)

		srv := mcpserver.NewServer(a.loader)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
