package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/solution-finder/internal/admin"
)

var publishCmd = &cobra.Command{
	Use:   "publish [file]",
	Short: "Validate a catalog document and publish it",
	Long:  `Validates the given catalog JSON, writes it to the configured catalog path and records the publication in the audit trail. Nothing is written when validation fails.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, _ := cmd.Flags().GetString("actor")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		if dryRun {
			c, err := admin.Check(data)
			if err != nil {
				return err
			}
			color.Green("✓ %s is valid: %d categories, %d solutions", args[0], len(c.Categories), len(c.Solutions))
			return nil
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		publisher := admin.NewPublisher(a.cfg.Catalog.Path, a.loader, a.audit, a.logger)
		receipt, err := publisher.Publish(cmd.Context(), data, actor)
		if err != nil {
			return err
		}

		color.Green("✓ Published %d solutions in %d categories", receipt.Solutions, receipt.Categories)
		fmt.Printf("  Path:   %s\n", receipt.Path)
		fmt.Printf("  Digest: %s\n", receipt.Digest)
		return nil
	},
}

func init() {
	publishCmd.Flags().String("actor", "cli", "name recorded in the audit trail")
	publishCmd.Flags().Bool("dry-run", false, "validate only, write nothing")
	rootCmd.AddCommand(publishCmd)
}
