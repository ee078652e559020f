package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/solution-finder/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [keywords]",
	Short: "Keyword search across every solution",
	Long:  `Counts case-insensitive occurrences of the keywords in solution names, summaries, details, features and special blocks, and lists matching solutions with the most mentions first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 10, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
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

	results := search.Search(args[0], c)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	printSearchResults(results)
	return nil
}

func printSearchResults(results []search.Result) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("  %d. ", i+1)
		bold.Print(r.Solution.Name)
		color.Cyan(" [%s] %d mentions", r.Solution.Category, r.MatchCount)
		for _, h := range r.Hits {
			faint.Printf("     %s: %s\n", h.Field, truncate(h.Text, 100))
		}
		fmt.Println()
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
