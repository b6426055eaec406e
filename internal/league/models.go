package league

import (
	"errors"
	"time"

	"github.com/sam-maryland/league-mcp-server/internal/bracket"
)

var (
	ErrPlayoffsActive = errors.New("season is locked: playoffs already started")
	ErrNoPlayoffs     = errors.New("playoffs have not started")
	ErrNoChampion     = errors.New("no champion yet")
	ErrInvalidRoster  = errors.New("invalid roster")
)

// Player is a roster member; only run totals matter here
type Player struct {
	Name string `json:"name"`
	Runs int    `json:"runs"`
}

// Team is a roster record as supplied by the roster collaborator
type Team struct {
	ID          string   `json:"id"`
	Name        string   `json:"teamName"`
	Wins        int      `json:"wins"`
	Losses      int      `json:"losses"`
	RunsScored  int      `json:"runsScored"`
	RunsAllowed int      `json:"runsAllowed"`
	Players     []Player `json:"players,omitempty"`
}

// Seed converts the record to the snapshot the bracket engine ranks
func (t Team) Seed() bracket.Team {
	return bracket.Team{
		ID:          t.ID,
		Name:        t.Name,
		Wins:        t.Wins,
		Losses:      t.Losses,
		RunsScored:  t.RunsScored,
		RunsAllowed: t.RunsAllowed,
	}
}

// Standing is one row of the league table
type Standing struct {
	Rank            int     `json:"rank"`
	TeamID          string  `json:"team_id"`
	TeamName        string  `json:"team_name"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinPct          float64 `json:"win_pct"`
	RunsScored      int     `json:"runs_scored"`
	RunsAllowed     int     `json:"runs_allowed"`
	RunDifferential int     `json:"run_differential"`
}

// GoldenBoot is the season's top run scorer
type GoldenBoot struct {
	Name string `json:"name"`
	Runs int    `json:"runs"`
	Team string `json:"team"`
}

// Archive summarizes a finished season
type Archive struct {
	ID             string     `json:"id"`
	Date           string     `json:"date"`
	ArchivedAt     time.Time  `json:"archivedAt"`
	Champion       string     `json:"champion"`
	TotalTeams     int        `json:"totalTeams"`
	TotalMatches   int        `json:"totalMatches"`
	PlayoffMatches int        `json:"playoffMatches"`
	GoldenBoot     GoldenBoot `json:"goldenBoot"`
}
