package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/solution-finder/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize solfinder configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks where the catalog lives and how the server should run, then writes a .solfinder.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
