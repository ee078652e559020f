package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/solution-finder/internal/catalog"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes catalog lookup, ranking and
// search tools.
type Server struct {
	provider catalog.Provider
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server reading from the given catalog provider.
func NewServer(provider catalog.Provider) *Server {
	s := &Server{provider: provider}

	s.mcp = server.NewMCPServer(
		"solfinder",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listCategoriesTool, s.handleListCategories)
	s.mcp.AddTool(listFeaturesTool, s.handleListFeatures)
	s.mcp.AddTool(rankSolutionsTool, s.handleRankSolutions)
	s.mcp.AddTool(searchSolutionsTool, s.handleSearchSolutions)
	s.mcp.AddTool(getSolutionTool, s.handleGetSolution)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
