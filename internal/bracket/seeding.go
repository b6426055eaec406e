package bracket

import (
	"fmt"
	"sort"
)

// RankTeams orders teams by wins, then run differential, both descending.
// Teams tied on both keep their input order.
func RankTeams(teams []Team) []Team {
	ranked := make([]Team, len(teams))
	copy(ranked, teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Wins != ranked[j].Wins {
			return ranked[i].Wins > ranked[j].Wins
		}
		return ranked[i].RunDifferential() > ranked[j].RunDifferential()
	})
	return ranked
}

// BracketSize returns the smallest power of two that holds n entrants
func BracketSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// SeedOrder returns the slot permutation for a balanced bracket of the given
// size. Consecutive pairs are first-round opponents, so seed 1 meets the last
// seed and the top two seeds can only meet in the final.
func SeedOrder(size int) ([]int, error) {
	if size < 1 || size&(size-1) != 0 {
		return nil, fmt.Errorf("bracket size %d is not a power of two", size)
	}
	order := []int{0}
	for n := 2; n <= size; n <<= 1 {
		next := make([]int, 0, n)
		for _, slot := range order {
			next = append(next, slot, n-1-slot)
		}
		order = next
	}
	return order, nil
}

// seedField ranks the teams and pads the field with byes up to the bracket size
func seedField(teams []Team) []Entrant {
	ranked := RankTeams(teams)
	size := BracketSize(len(ranked))
	field := make([]Entrant, 0, size)
	for i, t := range ranked {
		field = append(field, TeamRef{ID: t.ID, TeamName: t.Name, Seed: i + 1})
	}
	for len(field) < size {
		field = append(field, Bye{})
	}
	return field
}
