package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/league-mcp-server/internal/bracket"
	"github.com/sam-maryland/league-mcp-server/internal/league"
	"github.com/sirupsen/logrus"
)

// BracketView is the bracket as returned to tool callers
type BracketView struct {
	Phase          bracket.Phase  `json:"phase"`
	PlayoffsActive bool           `json:"playoffs_active"`
	Champion       *string        `json:"champion"`
	Bracket        *bracket.State `json:"bracket"`
}

// PlayoffHandler handles bracket-related MCP tools
type PlayoffHandler struct {
	service    *league.Service
	logger     *logrus.Logger
	leagueName string
}

// NewPlayoffHandler creates a new playoff handler
func NewPlayoffHandler(service *league.Service, leagueName string, logger *logrus.Logger) *PlayoffHandler {
	return &PlayoffHandler{
		service:    service,
		logger:     logger,
		leagueName: leagueName,
	}
}

func (h *PlayoffHandler) view() BracketView {
	state := h.service.Bracket()
	return BracketView{
		Phase:          state.Phase(),
		PlayoffsActive: h.service.PlayoffsActive(),
		Champion:       state.Champion,
		Bracket:        state,
	}
}

// StartPlayoffsTool returns the MCP tool definition for start_playoffs
func (h *PlayoffHandler) StartPlayoffsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "start_playoffs",
		Description: "Seed a single-elimination bracket from the roster and lock the regular season. Teams are ranked by wins, then run differential; the field is padded with byes to a power of two.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"teams": teamsSchema(),
			},
		},
	}
}

// HandleStartPlayoffs handles the start_playoffs tool call
func (h *PlayoffHandler) HandleStartPlayoffs(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling start_playoffs")

	teams, err := teamsArg(args)
	if err != nil {
		return nil, err
	}

	state, err := h.service.StartPlayoffs(ctx, teams)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to start playoffs")
		return errorResult("Failed to start playoffs: %s", err.Error()), nil
	}

	summary := fmt.Sprintf("Playoffs started with %d teams; %d first-round matches",
		len(teams), len(state.MainRounds[0]))
	return successResult(h.leagueName, summary, h.view()), nil
}

// SubmitResultTool returns the MCP tool definition for submit_playoff_result
func (h *PlayoffHandler) SubmitResultTool() mcp.Tool {
	return mcp.Tool{
		Name:        "submit_playoff_result",
		Description: "Record the score of a playoff match. The winner advances; semifinal losers move to the third-place match. Ties are not allowed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"match_id": map[string]interface{}{
					"type":        "string",
					"description": "Match identifier, e.g. R1-M2 or M-3rd",
					"required":    true,
				},
				"round_index": map[string]interface{}{
					"type":        "integer",
					"description": "Zero-based round of the match. Required for main-bracket matches.",
					"required":    false,
				},
				"match_type": map[string]interface{}{
					"type":        "string",
					"description": "'main' (default) or 'thirdPlace'",
					"required":    false,
				},
				"home_score": map[string]interface{}{
					"type":        "integer",
					"description": "Runs scored by the home team",
					"required":    true,
				},
				"away_score": map[string]interface{}{
					"type":        "integer",
					"description": "Runs scored by the away team",
					"required":    true,
				},
			},
		},
	}
}

// HandleSubmitResult handles the submit_playoff_result tool call
func (h *PlayoffHandler) HandleSubmitResult(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling submit_playoff_result")

	result, err := parseResult(args)
	if err != nil {
		return nil, err
	}

	state, err := h.service.SubmitResult(ctx, result)
	if err != nil {
		if errors.Is(err, bracket.ErrMatchNotFound) {
			if result.Type == bracket.MatchTypeThirdPlace {
				return errorResult("The third-place match has not been set; the bracket was not changed"), nil
			}
			return errorResult("Match %s is not part of round %d; the bracket was not changed", result.MatchID, result.Round), nil
		}
		return errorResult("Result rejected: %s", err.Error()), nil
	}

	summary := fmt.Sprintf("Result recorded for %s (%d-%d)", result.MatchID, *result.HomeScore, *result.AwayScore)
	if state.Champion != nil && result.Type == bracket.MatchTypeMain {
		// every earlier main match is decided once a champion exists
		summary = fmt.Sprintf("%s won the championship", *state.Champion)
	}
	return successResult(h.leagueName, summary, h.view()), nil
}

func parseResult(args map[string]interface{}) (bracket.Result, error) {
	var r bracket.Result

	matchType, _ := args["match_type"].(string)
	t, err := bracket.ParseMatchType(matchType)
	if err != nil {
		return r, err
	}
	r.Type = t

	matchID, _ := args["match_id"].(string)
	if matchID == "" && t == bracket.MatchTypeMain {
		return r, fmt.Errorf("match_id is required and must be a string")
	}
	r.MatchID = matchID

	round, err := intArg(args, "round_index")
	if err != nil {
		return r, err
	}
	switch {
	case round != nil:
		if *round < 0 {
			return r, fmt.Errorf("round_index must not be negative")
		}
		r.Round = *round
	case t == bracket.MatchTypeMain:
		return r, fmt.Errorf("round_index is required for main bracket matches")
	}

	for _, key := range []string{"home_score", "away_score"} {
		s, err := intArg(args, key)
		if err != nil {
			return r, err
		}
		if s != nil && *s < 0 {
			return r, fmt.Errorf("%s must not be negative", key)
		}
		if key == "home_score" {
			r.HomeScore = s
		} else {
			r.AwayScore = s
		}
	}
	return r, nil
}

// GetBracketTool returns the MCP tool definition for get_bracket
func (h *PlayoffHandler) GetBracketTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_bracket",
		Description: "Get the current playoff bracket, its phase and the champion if decided",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleGetBracket handles the get_bracket tool call
func (h *PlayoffHandler) HandleGetBracket(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.Info("Handling get_bracket")

	v := h.view()
	var summary string
	switch v.Phase {
	case bracket.PhaseEmpty:
		summary = "Playoffs have not started"
	case bracket.PhaseComplete:
		summary = fmt.Sprintf("Playoffs complete; %s are champions", *v.Champion)
	default:
		summary = fmt.Sprintf("Playoffs %s: %d matches across %d rounds",
			v.Phase, v.Bracket.MatchCount(), len(v.Bracket.MainRounds))
	}
	return successResult(h.leagueName, summary, v), nil
}

// ResetPlayoffsTool returns the MCP tool definition for reset_playoffs
func (h *PlayoffHandler) ResetPlayoffsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reset_playoffs",
		Description: "Discard the playoff bracket and unlock the regular season. Safe to call when no playoffs are running.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleResetPlayoffs handles the reset_playoffs tool call
func (h *PlayoffHandler) HandleResetPlayoffs(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.Info("Handling reset_playoffs")

	h.service.ResetPlayoffs(ctx)
	return successResult(h.leagueName, "Playoffs reset; the season is unlocked", h.view()), nil
}

// GetChampionTool returns the MCP tool definition for get_champion
func (h *PlayoffHandler) GetChampionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_champion",
		Description: "Get the playoff champion, or null while the final is undecided",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// HandleGetChampion handles the get_champion tool call
func (h *PlayoffHandler) HandleGetChampion(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.Info("Handling get_champion")

	data := map[string]interface{}{"champion": nil}
	summary := "No champion yet"
	if champion, ok := h.service.Champion(); ok {
		data["champion"] = champion
		summary = fmt.Sprintf("%s are champions", champion)
	}
	return successResult(h.leagueName, summary, data), nil
}
