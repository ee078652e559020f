package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/solution-finder/internal/admin"
	"github.com/ziadkadry99/solution-finder/internal/audit"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Manage the local preview catalog",
	Long: `A preview catalog is stored in the local database and, while enabled,
takes precedence over the configured catalog source. It is discarded
automatically when the app version changes.`,
}

var previewEnableCmd = &cobra.Command{
	Use:   "enable [file]",
	Short: "Store a catalog document as the preview and turn it on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, _ := cmd.Flags().GetString("actor")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		c, err := admin.Check(data)
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.preview.Enable(cmd.Context(), data); err != nil {
			return fmt.Errorf("enabling preview: %w", err)
		}
		if err := a.audit.Log(cmd.Context(), audit.Entry{
			Actor:         actor,
			Action:        audit.ActionPreviewEnabled,
			Summary:       fmt.Sprintf("Preview enabled from %s (%d solutions)", args[0], len(c.Solutions)),
			CatalogDigest: admin.Digest(data),
		}); err != nil {
			return err
		}

		color.Green("✓ Preview enabled: %d categories, %d solutions", len(c.Categories), len(c.Solutions))
		return nil
	},
}

var previewDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn the preview off, keeping the stored document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, _ := cmd.Flags().GetString("actor")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.preview.Disable(cmd.Context()); err != nil {
			return fmt.Errorf("disabling preview: %w", err)
		}
		if err := a.audit.Log(cmd.Context(), audit.Entry{
			Actor:   actor,
			Action:  audit.ActionPreviewDisabled,
			Summary: "Preview disabled",
		}); err != nil {
			return err
		}

		color.Green("✓ Preview disabled; the configured catalog source is in effect")
		return nil
	},
}

var previewStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a preview is in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		enabled, err := a.preview.Enabled(cmd.Context())
		if err != nil {
			return err
		}
		data, err := a.preview.Data(cmd.Context())
		if err != nil {
			return err
		}

		if enabled {
			color.Yellow("Preview: enabled")
		} else {
			fmt.Println("Preview: disabled")
		}
		if len(data) > 0 {
			fmt.Printf("  Stored document: %d bytes, digest %s\n", len(data), admin.Digest(data))
		} else {
			fmt.Println("  No stored document")
		}
		fmt.Printf("  App version: %s\n", a.cfg.AppVersion)
		return nil
	},
}

func init() {
	previewEnableCmd.Flags().String("actor", "cli", "name recorded in the audit trail")
	previewDisableCmd.Flags().String("actor", "cli", "name recorded in the audit trail")
	previewCmd.AddCommand(previewEnableCmd, previewDisableCmd, previewStatusCmd)
	rootCmd.AddCommand(previewCmd)
}
