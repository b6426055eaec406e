package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/league-mcp-server/internal/handlers"
	"github.com/sam-maryland/league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

const serverVersion = "1.0.0"

// ToolHandler handles one tool call
type ToolHandler func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error)

// Registry pairs tool definitions with their handlers, in listing order
type Registry struct {
	tools    []mcp.Tool
	handlers map[string]ToolHandler
}

// Register adds a tool
func (r *Registry) Register(tool mcp.Tool, handler ToolHandler) {
	if r.handlers == nil {
		r.handlers = make(map[string]ToolHandler)
	}
	r.tools = append(r.tools, tool)
	r.handlers[tool.Name] = handler
}

// Tools lists every registered tool
func (r *Registry) Tools() []mcp.Tool {
	return append([]mcp.Tool(nil), r.tools...)
}

// Call routes a tool call by name. Unknown tools produce an error result.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Type: "text",
					Text: "Unknown tool: " + name,
				},
			},
			IsError: true,
		}, nil
	}
	return handler(ctx, args)
}

// NewRegistry registers the playoff and season tools for service
func NewRegistry(service *league.Service, leagueName string, logger *logrus.Logger) *Registry {
	playoffHandler := handlers.NewPlayoffHandler(service, leagueName, logger)
	seasonHandler := handlers.NewSeasonHandler(service, leagueName, logger)

	r := &Registry{}
	r.Register(playoffHandler.StartPlayoffsTool(), playoffHandler.HandleStartPlayoffs)
	r.Register(playoffHandler.SubmitResultTool(), playoffHandler.HandleSubmitResult)
	r.Register(playoffHandler.GetBracketTool(), playoffHandler.HandleGetBracket)
	r.Register(playoffHandler.GetChampionTool(), playoffHandler.HandleGetChampion)
	r.Register(playoffHandler.ResetPlayoffsTool(), playoffHandler.HandleResetPlayoffs)
	r.Register(seasonHandler.GetStandingsTool(), seasonHandler.HandleGetStandings)
	r.Register(seasonHandler.ArchiveSeasonTool(), seasonHandler.HandleArchiveSeason)
	r.Register(seasonHandler.ListArchivesTool(), seasonHandler.HandleListArchives)
	return r
}

// NewLeagueMCPServer builds the MCP server for one league session
func NewLeagueMCPServer(service *league.Service, leagueName string, logger *logrus.Logger) *server.DefaultServer {
	registry := NewRegistry(service, leagueName, logger)

	// Create MCP server
	s := server.NewDefaultServer(leagueName+" Playoffs", serverVersion)

	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	s.HandleListTools(func(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
		tools := registry.Tools()

		logger.WithField("tools_count", len(tools)).Info("Listing available tools")

		return &mcp.ListToolsResult{
			Tools: tools,
		}, nil
	})

	s.HandleCallTool(func(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		logger.WithFields(logrus.Fields{
			"tool": name,
			"args": arguments,
		}).Info("Tool called")

		result, err := registry.Call(ctx, name, arguments)
		if result != nil && result.IsError && err == nil {
			logger.WithField("tool", name).Warn("Tool returned an error result")
		}
		return result, err
	})

	logger.Info("All tools registered successfully")
	return s
}
