package remote

import (
	"encoding/json"
	"time"
)

// Remote tables
const (
	TablePlayoffState   = "playoff_state"
	TableSeasonArchives = "season_archives"

	// CurrentStateID is the single playoff_state row
	CurrentStateID = "current"
)

// StateRow mirrors the persisted bracket in the playoff_state table
type StateRow struct {
	ID             string          `json:"id"`
	PlayoffsActive bool            `json:"playoffs_active"`
	State          json.RawMessage `json:"state"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// APIError represents an error from the remote backend
type APIError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}
