package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
	"github.com/ziadkadry99/solution-finder/internal/render"
	"github.com/ziadkadry99/solution-finder/internal/scoring"
	"github.com/ziadkadry99/solution-finder/internal/search"
)

const unavailableText = "The solution catalog is not loaded yet. Check the catalog source and try again."

// handleListCategories returns every category with its feature count.
func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := s.provider.Current()
	if err != nil {
		return mcp.NewToolResultError(unavailableText), nil
	}
	if len(c.Categories) == 0 {
		return mcp.NewToolResultText("The catalog has no categories."), nil
	}

	var b strings.Builder
	b.WriteString("# Categories\n\n")
	for _, name := range c.Categories {
		fmt.Fprintf(&b, "- **%s** (%d features, %d solutions)\n",
			name, len(c.FeaturesFor(name)), len(c.SolutionsIn(name)))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleListFeatures returns the feature labels of one category.
func (s *Server) handleListFeatures(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: category"), nil
	}

	c, err := s.provider.Current()
	if err != nil {
		return mcp.NewToolResultError(unavailableText), nil
	}
	if !c.HasCategory(category) {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown category %q. Use list_categories to see valid names.", category)), nil
	}

	features := c.FeaturesFor(category)
	if len(features) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Category %q has no features.", category)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Features: %s\n\n", category)
	for _, f := range features {
		fmt.Fprintf(&b, "- %s (`%s`)\n", f.Label, f.ID)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// handleRankSolutions scores a category's solutions against the selected features.
func (s *Server) handleRankSolutions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := request.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: category"), nil
	}
	selection := scoring.NewSelection(splitLabels(request.GetString("features", ""))...)

	c, err := s.provider.Current()
	if err != nil {
		return mcp.NewToolResultError(unavailableText), nil
	}
	if !c.HasCategory(category) {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown category %q. Use list_categories to see valid names.", category)), nil
	}

	ranked := scoring.Rank(c, category, selection)
	if len(ranked) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No solutions found in category %q.", category)), nil
	}
	return mcp.NewToolResultText(formatRanked(category, selection, ranked)), nil
}

// handleSearchSolutions runs a keyword search over the whole catalog.
func (s *Server) handleSearchSolutions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	c, err := s.provider.Current()
	if err != nil {
		return mcp.NewToolResultError(unavailableText), nil
	}

	results := search.Search(query, c)
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No solutions match %q.", strings.TrimSpace(query))), nil
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return mcp.NewToolResultText(formatSearchResults(query, results)), nil
}

// handleGetSolution renders one solution's detail as Markdown.
func (s *Server) handleGetSolution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	selection := scoring.NewSelection(splitLabels(request.GetString("features", ""))...)

	c, err := s.provider.Current()
	if err != nil {
		return mcp.NewToolResultError(unavailableText), nil
	}

	sol, err := c.Solution(catalog.SolutionID(id))
	if errors.Is(err, catalog.ErrUnknownSolution) {
		return mcp.NewToolResultError(fmt.Sprintf("No solution with id %q.", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}

	return mcp.NewToolResultText(render.Markdown(scoring.Analyze(c, sol, selection))), nil
}

func formatRanked(category string, selection scoring.Selection, ranked []scoring.Ranked) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s solutions\n\n", category)
	if len(selection) == 0 {
		b.WriteString("No features selected.\n\n")
	} else {
		fmt.Fprintf(&b, "Selected: %s\n\n", strings.Join(selection, ", "))
	}
	for i, r := range ranked {
		fmt.Fprintf(&b, "%d. **%s** (`%s`) %d%% match\n", i+1, r.Solution.Name, r.Solution.ID, r.Score)
		if r.Solution.Summary != "" {
			fmt.Fprintf(&b, "   %s\n", r.Solution.Summary)
		}
	}
	return b.String()
}

func formatSearchResults(query string, results []search.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Results for %q\n\n", strings.TrimSpace(query))
	for i, r := range results {
		fmt.Fprintf(&b, "## %d. %s (`%s`)\n\n", i+1, r.Solution.Name, r.Solution.ID)
		fmt.Fprintf(&b, "**Category:** %s | **Matches:** %d\n\n", r.Solution.Category, r.MatchCount)
		for _, h := range r.Hits {
			fmt.Fprintf(&b, "- %s: %s (%d)\n", h.Field, h.Text, h.Count)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// splitLabels parses a comma-separated feature list.
func splitLabels(raw string) []string {
	var out []string
	for _, l := range strings.Split(raw, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
