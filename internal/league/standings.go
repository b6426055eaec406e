package league

import (
	"fmt"
	"strings"

	"github.com/sam-maryland/league-mcp-server/internal/bracket"
)

// Standings ranks teams the same way playoffs are seeded
func Standings(teams []Team) []Standing {
	seeds := make([]bracket.Team, len(teams))
	for i, t := range teams {
		seeds[i] = t.Seed()
	}

	ranked := bracket.RankTeams(seeds)
	table := make([]Standing, len(ranked))
	for i, t := range ranked {
		table[i] = Standing{
			Rank:            i + 1,
			TeamID:          t.ID,
			TeamName:        t.Name,
			Wins:            t.Wins,
			Losses:          t.Losses,
			WinPct:          t.WinPct(),
			RunsScored:      t.RunsScored,
			RunsAllowed:     t.RunsAllowed,
			RunDifferential: t.RunDifferential(),
		}
	}
	return table
}

// ValidateRoster rejects unnamed or duplicate teams. The champion is
// recorded by name, so names must be unique.
func ValidateRoster(teams []Team) error {
	seen := make(map[string]bool, len(teams))
	for i, t := range teams {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" {
			return fmt.Errorf("%w: team %d has no name", ErrInvalidRoster, i+1)
		}
		if strings.EqualFold(name, bracket.ByeName) {
			return fmt.Errorf("%w: %q is reserved", ErrInvalidRoster, t.Name)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate team %q", ErrInvalidRoster, t.Name)
		}
		seen[name] = true
	}
	return nil
}

// goldenBoot finds the player with the most runs; earlier players win ties
func goldenBoot(teams []Team) GoldenBoot {
	top := GoldenBoot{Name: "N/A"}
	for _, t := range teams {
		for _, p := range t.Players {
			if p.Runs > top.Runs {
				top = GoldenBoot{Name: p.Name, Runs: p.Runs, Team: t.Name}
			}
		}
	}
	return top
}
