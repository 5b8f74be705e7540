package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rmax-ai/budgetlord/pkg/client"
)

// Server adapts budgetlord-d to the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	apiClient *client.Client
}

// NewServer creates a new MCP server instance.
func NewServer(apiURL string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"budgetlord",
			"1.0.0",
		),
		apiClient: client.NewClient(apiURL),
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	// budgetlord://categories
	s.mcpServer.AddResource(mcp.NewResource(
		"budgetlord://categories",
		"Budget Categories",
		mcp.WithResourceDescription("All spending categories known to the daemon"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadCategories)

	// budgetlord://cycles
	s.mcpServer.AddResource(mcp.NewResource(
		"budgetlord://cycles",
		"Goal Dependency Cycles",
		mcp.WithResourceDescription("Groups of savings goals whose dependencies are circular"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadCycles)
}

// --- Tools ---

func (s *Server) registerTools() {
	// category_rollup
	s.mcpServer.AddTool(mcp.NewTool(
		"category_rollup",
		mcp.WithDescription("Sum spending across a category and every category linked under it."),
		mcp.WithNumber("root_id", mcp.Required(), mcp.Description("The root category ID")),
		mcp.WithString("mode", mcp.Description("Traversal order: 'bfs' (default) or 'dfs'")),
	), s.handleCategoryRollup)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"budgetlord-aware",
		mcp.WithPromptDescription("Provides context about budgetlord concepts (Categories, Goals, Rollups)"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadCategories(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cats, err := s.apiClient.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	data, err := json.MarshalIndent(cats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal categories: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleReadCycles(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	report, err := s.apiClient.Cycles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cycles: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cycle report: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleCategoryRollup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rootID := mcp.ParseInt64(request, "root_id", 0)
	mode := mcp.ParseString(request, "mode", "bfs")

	res, err := s.apiClient.Rollup(ctx, rootID, mode)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	resultMsg := fmt.Sprintf("Category %d subtree: %d categories, total %d cents",
		res.RootID, len(res.CategoryIDs), res.TotalCents)
	return mcp.NewToolResultText(resultMsg), nil
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != "budgetlord-aware" {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are interacting with Budgetlord, a local-first personal budgeting daemon.

Concepts:
- Category: A spending bucket (e.g., 'food'). Categories form a hierarchy via parent/child links.
- Transaction: A monetary movement (in cents) tagged with one category.
- Rollup: The spending total across a category and everything linked under it.
- Goal: A savings goal. Goals can depend on other goals.
- Cycle: A group of goals whose dependencies are circular; these can never all complete.

When the user asks "how much did I spend on X", use the 'category_rollup' tool with X's category ID.
When the user asks about goal ordering, read the 'budgetlord://cycles' resource first; circular
groups must be broken before a plan exists.
`

	return mcp.NewGetPromptResult(
		"budgetlord-aware",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}
