package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/solution-finder/internal/scoring"
	"github.com/ziadkadry99/solution-finder/internal/wizard"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a category's solutions against selected needs",
	Long:  `Scores every solution of a category by the share of the selected feature labels it covers and prints them best first.`,
	Args:  cobra.NoArgs,
	RunE:  runRank,
}

func init() {
	rankCmd.Flags().String("category", "", "business category (required)")
	rankCmd.Flags().StringSlice("feature", nil, "selected feature label, repeatable")
	rankCmd.Flags().Bool("json", false, "output results as JSON")
	rankCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	features, _ := cmd.Flags().GetStringSlice("feature")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.loader.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading catalog from %s: %w", describeSource(a.cfg), err)
	}
	if !c.HasCategory(category) {
		return fmt.Errorf("unknown category %q (have %v)", category, c.Categories)
	}

	ranked := scoring.Rank(c, category, scoring.NewSelection(features...))
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	if len(ranked) == 0 {
		fmt.Println(wizard.EmptyResultsNotice)
		return nil
	}
	printRanked(ranked)
	return nil
}

func printRanked(ranked []scoring.Ranked) {
	for i, r := range ranked {
		fmt.Printf("  %d. %s ", i+1, r.Solution.Name)
		scoreColor(r.Score).Printf("%d%%\n", r.Score)
		if r.Solution.Summary != "" {
			fmt.Printf("     %s\n", truncate(r.Solution.Summary, 120))
		}
	}
}

// scoreColor shades a match percentage the way the result cards do.
func scoreColor(score int) *color.Color {
	switch {
	case score >= 75:
		return color.New(color.FgGreen, color.Bold)
	case score >= 40:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
