package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/league-mcp-server/internal/league"
	"github.com/sam-maryland/league-mcp-server/internal/metrics"
	"github.com/sam-maryland/league-mcp-server/internal/store"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger, _ := test.NewNullLogger()
	service := league.NewService(store.NewMemoryStore(), nil, metrics.New(), logger)
	return NewRegistry(service, "Test League", logger)
}

func TestRegistry_Tools(t *testing.T) {
	registry := newTestRegistry(t)

	want := []string{
		"start_playoffs",
		"submit_playoff_result",
		"get_bracket",
		"get_champion",
		"reset_playoffs",
		"get_standings",
		"archive_season",
		"list_archives",
	}

	tools := registry.Tools()
	if len(tools) != len(want) {
		t.Fatalf("Expected %d tools, got %d", len(want), len(tools))
	}
	for i, name := range want {
		if tools[i].Name != name {
			t.Errorf("Expected tool %d to be '%s', got '%s'", i, name, tools[i].Name)
		}
	}
}

func TestRegistry_Call(t *testing.T) {
	tests := []struct {
		name      string
		tool      string
		args      map[string]interface{}
		wantError bool
		isError   bool
	}{
		{
			name: "known tool",
			tool: "get_bracket",
		},
		{
			name:    "unknown tool",
			tool:    "get_roster",
			isError: true,
		},
		{
			name:      "malformed arguments",
			tool:      "start_playoffs",
			args:      map[string]interface{}{"teams": 4},
			wantError: true,
		},
		{
			name:    "domain error",
			tool:    "archive_season",
			isError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := newTestRegistry(t)

			result, err := registry.Call(context.Background(), tt.tool, tt.args)
			if tt.wantError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.IsError != tt.isError {
				t.Errorf("Expected IsError %v, got %v", tt.isError, result.IsError)
			}
			if _, ok := result.Content[0].(*mcp.TextContent); !ok {
				t.Errorf("Expected text content, got %T", result.Content[0])
			}
		})
	}
}

func TestNewLeagueMCPServer(t *testing.T) {
	logger, _ := test.NewNullLogger()
	service := league.NewService(store.NewMemoryStore(), nil, metrics.New(), logger)

	if s := NewLeagueMCPServer(service, "Test League", logger); s == nil {
		t.Error("Expected server instance")
	}
}
