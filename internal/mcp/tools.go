package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listCategoriesTool defines the list_categories MCP tool.
var listCategoriesTool = mcp.NewTool("list_categories",
	mcp.WithDescription("List the business categories of the solution catalog, in catalog order."),
)

// listFeaturesTool defines the list_features MCP tool.
var listFeaturesTool = mcp.NewTool("list_features",
	mcp.WithDescription("List the selectable features (needs) of a category. Feature labels are what rank_solutions and get_solution accept."),
	mcp.WithString("category",
		mcp.Required(),
		mcp.Description("Category name exactly as returned by list_categories"),
	),
)

// rankSolutionsTool defines the rank_solutions MCP tool.
var rankSolutionsTool = mcp.NewTool("rank_solutions",
	mcp.WithDescription("Rank the solutions of a category by how many of the selected features they cover. Returns a match percentage per solution, best first."),
	mcp.WithString("category",
		mcp.Required(),
		mcp.Description("Category name"),
	),
	mcp.WithString("features",
		mcp.Description("Comma-separated feature labels. Empty means no needs selected and every solution scores 100%."),
	),
)

// searchSolutionsTool defines the search_solutions MCP tool.
var searchSolutionsTool = mcp.NewTool("search_solutions",
	mcp.WithDescription("Keyword search across solution names, summaries, details, features and special blocks. Case-insensitive substring match."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search keywords"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)

// getSolutionTool defines the get_solution MCP tool.
var getSolutionTool = mcp.NewTool("get_solution",
	mcp.WithDescription("Get the full detail of one solution as Markdown, including which of the selected features it matches and misses."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Solution id"),
	),
	mcp.WithString("features",
		mcp.Description("Comma-separated feature labels to compare against"),
	),
)
