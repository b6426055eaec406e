package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestClient(serverURL string) *HTTPClient {
	logger, _ := test.NewNullLogger()
	return &HTTPClient{
		baseURL:    serverURL + restPath,
		apiKey:     "anon-key",
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func TestHTTPClient_FetchRows(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse string
		serverStatus   int
		wantError      bool
		wantRows       int
	}{
		{
			name:         "successful request",
			serverStatus: http.StatusOK,
			serverResponse: `[
				{"id": "current", "playoffs_active": true, "state": {"mainRounds": [], "thirdPlaceMatch": null, "champion": null}, "updated_at": "2026-05-01T12:00:00Z"}
			]`,
			wantError: false,
			wantRows:  1,
		},
		{
			name:           "unauthorized",
			serverStatus:   http.StatusUnauthorized,
			serverResponse: `{"message": "Invalid API key"}`,
			wantError:      true,
			wantRows:       0,
		},
		{
			name:           "malformed body",
			serverStatus:   http.StatusOK,
			serverResponse: `not json`,
			wantError:      true,
			wantRows:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("Expected GET, got %s", r.Method)
				}
				if r.URL.Path != "/rest/v1/"+TablePlayoffState {
					t.Errorf("Expected path /rest/v1/%s, got %s", TablePlayoffState, r.URL.Path)
				}
				if r.Header.Get("apikey") != "anon-key" {
					t.Errorf("Expected apikey header, got %q", r.Header.Get("apikey"))
				}
				if r.Header.Get("Authorization") != "Bearer anon-key" {
					t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
				}
				w.WriteHeader(tt.serverStatus)
				w.Write([]byte(tt.serverResponse))
			}))
			defer server.Close()

			client := newTestClient(server.URL)

			var rows []StateRow
			err := client.FetchRows(context.Background(), TablePlayoffState, &rows)

			if tt.wantError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if len(rows) != tt.wantRows {
				t.Errorf("Expected %d rows, got %d", tt.wantRows, len(rows))
			}
			if tt.wantRows > 0 {
				if rows[0].ID != CurrentStateID || !rows[0].PlayoffsActive {
					t.Errorf("Unexpected row: %+v", rows[0])
				}
			}
		})
	}
}

func TestHTTPClient_UpsertRows(t *testing.T) {
	var gotBody []StateRow
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.Header.Get("Prefer") != "resolution=merge-duplicates,return=minimal" {
			t.Errorf("Expected merge-duplicates preference, got %q", r.Header.Get("Prefer"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	rows := []StateRow{{
		ID:        CurrentStateID,
		State:     json.RawMessage(`{"mainRounds":[],"thirdPlaceMatch":null,"champion":"Hawks"}`),
		UpdatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}}

	if err := client.UpsertRows(context.Background(), TablePlayoffState, rows); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(gotBody) != 1 || gotBody[0].ID != CurrentStateID {
		t.Errorf("Unexpected upsert body: %+v", gotBody)
	}
}

func TestHTTPClient_DeleteFilters(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *HTTPClient) error
		wantFilter string
		wantCalled bool
	}{
		{
			name: "delete listed ids",
			call: func(c *HTTPClient) error {
				return c.DeleteRows(context.Background(), TablePlayoffState, []string{CurrentStateID})
			},
			wantFilter: `in.("current")`,
			wantCalled: true,
		},
		{
			name: "delete ids not listed",
			call: func(c *HTTPClient) error {
				return c.DeleteRowsNotIn(context.Background(), TableSeasonArchives, []string{"a", "b"})
			},
			wantFilter: `not.in.("a","b")`,
			wantCalled: true,
		},
		{
			name: "empty keep list never deletes",
			call: func(c *HTTPClient) error {
				return c.DeleteRowsNotIn(context.Background(), TableSeasonArchives, nil)
			},
			wantCalled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				if r.Method != http.MethodDelete {
					t.Errorf("Expected DELETE, got %s", r.Method)
				}
				if got := r.URL.Query().Get("id"); got != tt.wantFilter {
					t.Errorf("Expected filter %s, got %s", tt.wantFilter, got)
				}
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			if err := tt.call(newTestClient(server.URL)); err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if called != tt.wantCalled {
				t.Errorf("Expected server called=%v, got %v", tt.wantCalled, called)
			}
		})
	}
}

func TestHTTPClient_ErrorType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate key"}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpsertRows(context.Background(), TableSeasonArchives, []StateRow{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", apiErr.StatusCode)
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{
		Type:    "api_error",
		Message: "Table not found",
	}

	expected := "Table not found"
	if err.Error() != expected {
		t.Errorf("Expected error message %s, got %s", expected, err.Error())
	}
}

func TestNewHTTPClient(t *testing.T) {
	logger := logrus.New()
	client := NewHTTPClient("https://example.supabase.co/", "key", 0, logger)

	if client == nil {
		t.Fatal("Expected client to be created, got nil")
	}

	httpClient := client.(*HTTPClient)
	if httpClient.baseURL != "https://example.supabase.co/rest/v1" {
		t.Errorf("Unexpected base URL %s", httpClient.baseURL)
	}
	if httpClient.httpClient.Timeout != DefaultTimeout {
		t.Errorf("Expected default timeout, got %s", httpClient.httpClient.Timeout)
	}

	// Ensure it implements the Client interface
	var _ Client = client
}
