package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// SeasonHandler handles standings and season archive tools
type SeasonHandler struct {
	service    *league.Service
	logger     *logrus.Logger
	leagueName string
}

// NewSeasonHandler creates a new season handler
func NewSeasonHandler(service *league.Service, leagueName string, logger *logrus.Logger) *SeasonHandler {
	return &SeasonHandler{
		service:    service,
		logger:     logger,
		leagueName: leagueName,
	}
}

// GetStandingsTool returns the MCP tool definition for get_standings
func (h *SeasonHandler) GetStandingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_standings",
		Description: "Rank teams by wins, then run differential, the same order used to seed playoffs",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"teams": teamsSchema(),
			},
		},
	}
}

// HandleGetStandings handles the get_standings tool call
func (h *SeasonHandler) HandleGetStandings(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_standings")

	teams, err := teamsArg(args)
	if err != nil {
		return nil, err
	}

	table := league.Standings(teams)
	summary := "No teams in the league"
	if len(table) > 0 {
		leader := table[0]
		summary = fmt.Sprintf("%d teams; %s lead at %d-%d (%+d)",
			len(table), leader.TeamName, leader.Wins, leader.Losses, leader.RunDifferential)
	}
	return successResult(h.leagueName, summary, table), nil
}

// ArchiveSeasonTool returns the MCP tool definition for archive_season
func (h *SeasonHandler) ArchiveSeasonTool() mcp.Tool {
	return mcp.Tool{
		Name:        "archive_season",
		Description: "Archive the finished season (champion, golden boot, totals) and reset for the next one. Requires a champion.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"total_matches": map[string]interface{}{
					"type":        "integer",
					"description": "Regular-season matches played",
					"required":    false,
				},
			},
		},
	}
}

// HandleArchiveSeason handles the archive_season tool call
func (h *SeasonHandler) HandleArchiveSeason(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling archive_season")

	total, err := intArg(args, "total_matches")
	if err != nil {
		return nil, err
	}
	totalMatches := 0
	if total != nil {
		if *total < 0 {
			return nil, fmt.Errorf("total_matches must not be negative")
		}
		totalMatches = *total
	}

	archive, err := h.service.ArchiveSeason(ctx, totalMatches)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to archive season")
		return errorResult("Failed to archive season: %s", err.Error()), nil
	}

	summary := fmt.Sprintf("Season archived: %s champions, golden boot %s (%d runs)",
		archive.Champion, archive.GoldenBoot.Name, archive.GoldenBoot.Runs)
	return successResult(h.leagueName, summary, archive), nil
}

// ListArchivesTool returns the MCP tool definition for list_archives
func (h *SeasonHandler) ListArchivesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_archives",
		Description: "List archived seasons, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleListArchives handles the list_archives tool call
func (h *SeasonHandler) HandleListArchives(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.Info("Handling list_archives")

	archives := h.service.Archives()
	summary := fmt.Sprintf("%d archived seasons", len(archives))
	return successResult(h.leagueName, summary, archives), nil
}
