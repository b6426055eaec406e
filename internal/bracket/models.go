package bracket

import (
	"encoding/json"
	"fmt"
)

// ByeName is the display name carried by bye entrants on the wire.
const ByeName = "BYE"

// ThirdPlaceMatchID identifies the third-place match.
const ThirdPlaceMatchID = "M-3rd"

// Team is a roster snapshot used for seeding
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"teamName"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	RunsScored  int    `json:"runsScored"`
	RunsAllowed int    `json:"runsAllowed"`
}

// RunDifferential returns runs scored minus runs allowed
func (t Team) RunDifferential() int {
	return t.RunsScored - t.RunsAllowed
}

// WinPct returns the share of games won, 0 when no games were played
func (t Team) WinPct() float64 {
	games := t.Wins + t.Losses
	if games == 0 {
		return 0
	}
	return float64(t.Wins) / float64(games)
}

// Entrant occupies a bracket slot. It is either a TeamRef or a Bye.
type Entrant interface {
	DisplayName() string
	isEntrant()
}

// TeamRef is a real team placed in the bracket
type TeamRef struct {
	ID       string
	TeamName string
	Seed     int
}

func (t TeamRef) DisplayName() string { return t.TeamName }
func (TeamRef) isEntrant() {}

// Bye fills a slot when the field is not a power of two
type Bye struct{}

func (Bye) DisplayName() string { return ByeName }
func (Bye) isEntrant() {}

// IsBye reports whether e is a bye entrant
func IsBye(e Entrant) bool {
	_, ok := e.(Bye)
	return ok
}

// MatchType selects the main bracket or the third-place match
type MatchType string

const (
	MatchTypeMain       MatchType = "main"
	MatchTypeThirdPlace MatchType = "thirdPlace"
)

// ParseMatchType accepts the wire names of the two match types
func ParseMatchType(s string) (MatchType, error) {
	switch MatchType(s) {
	case MatchTypeMain, "":
		return MatchTypeMain, nil
	case MatchTypeThirdPlace, "third_place":
		return MatchTypeThirdPlace, nil
	default:
		return "", fmt.Errorf("unknown match type %q", s)
	}
}

// Match is a single pairing. Away stays nil until an earlier round resolves it.
type Match struct {
	ID        string
	Home      Entrant
	Away      Entrant
	HomeScore *int
	AwayScore *int
	Winner    Entrant
}

// Decided reports whether the match already has a winner
func (m *Match) Decided() bool {
	return m.Winner != nil
}

// Ready reports whether both slots are filled
func (m *Match) Ready() bool {
	return m.Home != nil && m.Away != nil
}

// Round is one elimination stage
type Round []*Match

// Phase names the lifecycle stage of a bracket
type Phase string

const (
	PhaseEmpty      Phase = "empty"
	PhaseSeeded     Phase = "seeded"
	PhaseInProgress Phase = "in_progress"
	PhaseComplete   Phase = "complete"
)

// State is the whole playoff bracket of a season
type State struct {
	MainRounds []Round `json:"mainRounds"`
	ThirdPlace *Match  `json:"thirdPlaceMatch"`
	Champion   *string `json:"champion"`
}

// NewState returns an empty bracket
func NewState() *State {
	return &State{MainRounds: []Round{}}
}

// Phase derives the lifecycle stage from the bracket contents
func (s *State) Phase() Phase {
	switch {
	case s.Champion != nil:
		return PhaseComplete
	case len(s.MainRounds) == 0:
		return PhaseEmpty
	case len(s.MainRounds) == 1:
		for _, m := range s.MainRounds[0] {
			if m.Decided() && m.HomeScore != nil {
				return PhaseInProgress
			}
		}
		return PhaseSeeded
	default:
		return PhaseInProgress
	}
}

// MatchCount returns the number of matches across all rounds, third place included
func (s *State) MatchCount() int {
	n := 0
	for _, r := range s.MainRounds {
		n += len(r)
	}
	if s.ThirdPlace != nil {
		n++
	}
	return n
}

// Clone returns a deep copy safe to hand to readers
func (s *State) Clone() *State {
	out := &State{MainRounds: make([]Round, len(s.MainRounds))}
	for i, r := range s.MainRounds {
		nr := make(Round, len(r))
		for j, m := range r {
			nr[j] = m.clone()
		}
		out.MainRounds[i] = nr
	}
	if s.ThirdPlace != nil {
		out.ThirdPlace = s.ThirdPlace.clone()
	}
	if s.Champion != nil {
		c := *s.Champion
		out.Champion = &c
	}
	return out
}

func (m *Match) clone() *Match {
	c := *m
	if m.HomeScore != nil {
		v := *m.HomeScore
		c.HomeScore = &v
	}
	if m.AwayScore != nil {
		v := *m.AwayScore
		c.AwayScore = &v
	}
	return &c
}

// entrantJSON is the persisted shape shared by teams and byes
type entrantJSON struct {
	ID       teamID `json:"id,omitempty"`
	TeamName string `json:"teamName"`
	Seed     int    `json:"seed,omitempty"`
	IsBye    bool   `json:"isBye,omitempty"`
}

type matchJSON struct {
	ID        string       `json:"id"`
	Home      *entrantJSON `json:"home"`
	Away      *entrantJSON `json:"away"`
	HomeScore *int         `json:"homeScore"`
	AwayScore *int         `json:"awayScore"`
	Winner    *entrantJSON `json:"winner"`
}

func encodeEntrant(e Entrant) *entrantJSON {
	switch v := e.(type) {
	case nil:
		return nil
	case Bye:
		return &entrantJSON{TeamName: ByeName, IsBye: true}
	case TeamRef:
		return &entrantJSON{ID: teamID(v.ID), TeamName: v.TeamName, Seed: v.Seed}
	default:
		return nil
	}
}

func decodeEntrant(e *entrantJSON) Entrant {
	if e == nil {
		return nil
	}
	if e.IsBye {
		return Bye{}
	}
	return TeamRef{ID: string(e.ID), TeamName: e.TeamName, Seed: e.Seed}
}

// teamID accepts both string and numeric ids; saves written by the browser
// app used millisecond timestamps.
type teamID string

func (id *teamID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = teamID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = teamID(n.String())
	return nil
}

// MarshalJSON writes the persisted match shape
func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(matchJSON{
		ID:        m.ID,
		Home:      encodeEntrant(m.Home),
		Away:      encodeEntrant(m.Away),
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		Winner:    encodeEntrant(m.Winner),
	})
}

// UnmarshalJSON reads the persisted match shape
func (m *Match) UnmarshalJSON(data []byte) error {
	var raw matchJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Match{
		ID:        raw.ID,
		Home:      decodeEntrant(raw.Home),
		Away:      decodeEntrant(raw.Away),
		HomeScore: raw.HomeScore,
		AwayScore: raw.AwayScore,
		Winner:    decodeEntrant(raw.Winner),
	}
	return nil
}

// UnmarshalJSON keeps MainRounds non-nil so an empty bracket round-trips
// unchanged. Rounds with no matches or null match entries are rejected.
func (s *State) UnmarshalJSON(data []byte) error {
	type plain State
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.MainRounds == nil {
		raw.MainRounds = []Round{}
	}
	for i, r := range raw.MainRounds {
		if len(r) == 0 {
			return fmt.Errorf("round %d has no matches", i+1)
		}
		for j, m := range r {
			if m == nil {
				return fmt.Errorf("round %d match %d is null", i+1, j+1)
			}
		}
	}
	*s = State(raw)
	return nil
}
