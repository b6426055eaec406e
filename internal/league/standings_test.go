package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandings(t *testing.T) {
	teams := []Team{
		{ID: "1", Name: "Owls", Wins: 3, Losses: 2, RunsScored: 20, RunsAllowed: 25},
		{ID: "2", Name: "Hawks", Wins: 4, Losses: 1, RunsScored: 30, RunsAllowed: 10},
		{ID: "3", Name: "Crows", Wins: 3, Losses: 2, RunsScored: 28, RunsAllowed: 20},
		{ID: "4", Name: "Jays", Wins: 0, Losses: 0},
	}

	table := Standings(teams)
	require.Len(t, table, 4)

	var order []string
	for _, row := range table {
		order = append(order, row.TeamName)
	}
	assert.Equal(t, []string{"Hawks", "Crows", "Owls", "Jays"}, order)

	assert.Equal(t, Standing{
		Rank:            2,
		TeamID:          "3",
		TeamName:        "Crows",
		Wins:            3,
		Losses:          2,
		WinPct:          0.6,
		RunsScored:      28,
		RunsAllowed:     20,
		RunDifferential: 8,
	}, table[1])
	assert.Zero(t, table[3].WinPct)
}

func TestStandings_Empty(t *testing.T) {
	assert.Empty(t, Standings(nil))
}

func TestGoldenBoot(t *testing.T) {
	tests := []struct {
		name  string
		teams []Team
		want  GoldenBoot
	}{
		{
			name: "no players",
			want: GoldenBoot{Name: "N/A"},
		},
		{
			name: "players without runs",
			teams: []Team{
				{Name: "Owls", Players: []Player{{Name: "Ava"}}},
			},
			want: GoldenBoot{Name: "N/A"},
		},
		{
			name: "top scorer",
			teams: []Team{
				{Name: "Owls", Players: []Player{{Name: "Ava", Runs: 4}}},
				{Name: "Hawks", Players: []Player{{Name: "Ben", Runs: 9}, {Name: "Cal", Runs: 2}}},
			},
			want: GoldenBoot{Name: "Ben", Runs: 9, Team: "Hawks"},
		},
		{
			name: "first scorer keeps a tie",
			teams: []Team{
				{Name: "Owls", Players: []Player{{Name: "Ava", Runs: 9}}},
				{Name: "Hawks", Players: []Player{{Name: "Ben", Runs: 9}}},
			},
			want: GoldenBoot{Name: "Ava", Runs: 9, Team: "Owls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, goldenBoot(tt.teams))
		})
	}
}

func TestValidateRoster(t *testing.T) {
	assert.NoError(t, ValidateRoster([]Team{{Name: "Owls"}, {Name: "Hawks"}}))
	assert.ErrorIs(t, ValidateRoster([]Team{{Name: "Owls"}, {Name: "owls "}}), ErrInvalidRoster)
}
