package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/solution-finder/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent audit trail entries",
	Long:  `Lists publications, preview changes and version changes recorded in the local database, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, _ := cmd.Flags().GetString("actor")
		action, _ := cmd.Flags().GetString("action")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.audit.Query(cmd.Context(), audit.QueryFilter{
			Actor:  actor,
			Action: audit.Action(action),
			Limit:  limit,
		})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No audit entries.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, e := range entries {
			faint.Printf("%s  ", e.Timestamp.Local().Format(time.DateTime))
			color.New(color.Bold).Printf("%-18s", e.Action)
			fmt.Printf(" %s  %s\n", e.Actor, e.Summary)
			if e.CatalogDigest != "" {
				faint.Printf("                     digest %s\n", truncate(e.CatalogDigest, 16))
			}
		}
		return nil
	},
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit entries older than a given age",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")
		if age <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.audit.DeleteBefore(cmd.Context(), time.Now().Add(-age))
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d audit entries.\n", n)
		return nil
	},
}

func init() {
	auditCmd.Flags().String("actor", "", "only entries by this actor")
	auditCmd.Flags().String("action", "", "only entries with this action")
	auditCmd.Flags().Int("limit", 20, "maximum number of entries")
	auditPruneCmd.Flags().Duration("older-than", 90*24*time.Hour, "minimum age of deleted entries")
	auditCmd.AddCommand(auditPruneCmd)
	rootCmd.AddCommand(auditCmd)
}
