package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/league-mcp-server/internal/league"
)

const responseSource = "league_session"

// APIResponse represents the standard response format for our tools
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Summary  string      `json:"summary"`
	Error    string      `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata contains response metadata
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	League    string    `json:"league,omitempty"`
}

// formatJSONResponse converts a response struct to a formatted JSON string
func formatJSONResponse(response interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(jsonBytes), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

func errorResult(format string, a ...interface{}) *mcp.CallToolResult {
	result := textResult(fmt.Sprintf(format, a...))
	result.IsError = true
	return result
}

// successResult wraps data in an APIResponse
func successResult(leagueName, summary string, data interface{}) *mcp.CallToolResult {
	response := APIResponse{
		Success: true,
		Data:    data,
		Summary: summary,
		Metadata: Metadata{
			Timestamp: time.Now(),
			Source:    responseSource,
			League:    leagueName,
		},
	}

	jsonResponse, err := formatJSONResponse(response)
	if err != nil {
		return errorResult("Error formatting response: %s", err.Error())
	}
	return textResult(jsonResponse)
}

// intArg reads an optional whole number. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (*int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}

	var n int
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) || v < math.MinInt || v >= math.MaxInt {
			return nil, fmt.Errorf("%s must be a whole number", key)
		}
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number", key)
		}
		n = int(i)
	default:
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &n, nil
}

// teamsArg decodes the teams array into roster records
func teamsArg(args map[string]interface{}) ([]league.Team, error) {
	raw, ok := args["teams"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("teams is required and must be an array")
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("teams could not be read: %w", err)
	}
	var teams []league.Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("teams must be an array of team objects: %w", err)
	}
	return teams, nil
}

// teamsSchema describes the teams argument shared by several tools
func teamsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": "Roster teams with their regular-season record",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":          map[string]interface{}{"type": "string"},
				"teamName":    map[string]interface{}{"type": "string"},
				"wins":        map[string]interface{}{"type": "integer"},
				"losses":      map[string]interface{}{"type": "integer"},
				"runsScored":  map[string]interface{}{"type": "integer"},
				"runsAllowed": map[string]interface{}{"type": "integer"},
				"players": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name": map[string]interface{}{"type": "string"},
							"runs": map[string]interface{}{"type": "integer"},
						},
					},
				},
			},
		},
		"required": true,
	}
}
