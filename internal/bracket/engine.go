package bracket

import (
	"fmt"
	"math/bits"
)

// DefaultMinTeams is the smallest field that can start playoffs
const DefaultMinTeams = 3

// Result is an operator-submitted score for one match
type Result struct {
	MatchID   string
	Round     int
	Type      MatchType
	HomeScore *int
	AwayScore *int
}

// Listener receives a copy of the bracket after every mutation
type Listener func(*State)

// Option configures an Engine
type Option func(*Engine)

// WithMinTeams overrides the minimum field size
func WithMinTeams(n int) Option {
	return func(e *Engine) {
		if n >= 2 {
			e.minTeams = n
		}
	}
}

// Engine owns one season's bracket. It is not safe for concurrent use; the
// session that owns it serializes every mutation.
type Engine struct {
	state     *State
	minTeams  int
	listeners []Listener
}

// NewEngine creates an engine holding an empty bracket
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		state:    NewState(),
		minTeams: DefaultMinTeams,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnChange registers a listener for state changes
func (e *Engine) OnChange(l Listener) {
	e.listeners = append(e.listeners, l)
}

// Load replaces the current bracket with a persisted one. Listeners are not notified.
func (e *Engine) Load(s *State) {
	if s == nil {
		e.state = NewState()
		return
	}
	e.state = s.Clone()
}

// State returns a copy of the current bracket
func (e *Engine) State() *State {
	return e.state.Clone()
}

// Champion returns the champion's name once the final is decided
func (e *Engine) Champion() (string, bool) {
	if e.state.Champion == nil {
		return "", false
	}
	return *e.state.Champion, true
}

// Start seeds a new bracket from the given teams, replacing any existing one.
// Byes are resolved immediately and their winners placed in round two.
func (e *Engine) Start(teams []Team) (*State, error) {
	if len(teams) < e.minTeams {
		return nil, fmt.Errorf("%w: need at least %d, got %d", ErrNotEnoughTeams, e.minTeams, len(teams))
	}

	field := seedField(teams)
	order, err := SeedOrder(len(field))
	if err != nil {
		return nil, err
	}

	first := make(Round, 0, len(order)/2)
	for i := 0; i < len(order); i += 2 {
		m := &Match{
			ID:   fmt.Sprintf("R1-M%d", i/2+1),
			Home: field[order[i]],
			Away: field[order[i+1]],
		}
		switch {
		case IsBye(m.Away) && !IsBye(m.Home):
			m.Winner = m.Home
		case IsBye(m.Home) && !IsBye(m.Away):
			m.Winner = m.Away
		}
		first = append(first, m)
	}

	e.state = &State{MainRounds: []Round{first}}
	for _, m := range first {
		if m.Winner != nil {
			e.advance(m.Winner, 0)
		}
	}

	e.notify()
	return e.State(), nil
}

// SubmitResult records a score, advances the winner and routes a semifinal
// loser to the third-place match.
func (e *Engine) SubmitResult(r Result) (*State, error) {
	if r.HomeScore == nil || r.AwayScore == nil {
		return nil, ErrMissingScore
	}
	if *r.HomeScore == *r.AwayScore {
		return nil, ErrTiedScore
	}

	m, err := e.findMatch(r)
	if err != nil {
		return nil, err
	}
	if m.Decided() {
		return nil, fmt.Errorf("%w: %s", ErrMatchDecided, m.ID)
	}
	if !m.Ready() {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotReady, m.ID)
	}

	home, away := *r.HomeScore, *r.AwayScore
	m.HomeScore = &home
	m.AwayScore = &away
	winner, loser := m.Home, m.Away
	if away > home {
		winner, loser = m.Away, m.Home
	}
	m.Winner = winner

	if r.Type != MatchTypeThirdPlace {
		e.advance(winner, r.Round)
		if r.Round == e.semifinalRound() {
			e.addThirdPlaceEntrant(loser)
		}
	}

	e.notify()
	return e.State(), nil
}

// Reset discards the bracket
func (e *Engine) Reset() {
	e.state = NewState()
	e.notify()
}

func (e *Engine) findMatch(r Result) (*Match, error) {
	if r.Type == MatchTypeThirdPlace {
		tp := e.state.ThirdPlace
		if tp == nil || (r.MatchID != "" && r.MatchID != tp.ID) {
			return nil, fmt.Errorf("%w: third place %q", ErrMatchNotFound, r.MatchID)
		}
		return tp, nil
	}
	if r.Round < 0 || r.Round >= len(e.state.MainRounds) {
		return nil, fmt.Errorf("%w: round %d does not exist", ErrMatchNotFound, r.Round)
	}
	for _, m := range e.state.MainRounds[r.Round] {
		if m.ID == r.MatchID {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in round %d", ErrMatchNotFound, r.MatchID, r.Round)
}

// advance places winner in the next round. Winners fill open away slots in
// the order their matches resolve; a winner of a single-match round is champion.
func (e *Engine) advance(winner Entrant, round int) {
	rounds := e.state.MainRounds
	if round+1 >= len(rounds) {
		if len(rounds[round]) == 1 {
			name := winner.DisplayName()
			e.state.Champion = &name
			return
		}
		e.state.MainRounds = append(rounds, Round{})
	}

	next := e.state.MainRounds[round+1]
	for _, m := range next {
		if m.Away == nil && m.Home != nil {
			m.Away = winner
			return
		}
	}
	e.state.MainRounds[round+1] = append(next, &Match{
		ID:   fmt.Sprintf("R%d-M%d", round+2, len(next)+1),
		Home: winner,
	})
}

func (e *Engine) addThirdPlaceEntrant(loser Entrant) {
	tp := e.state.ThirdPlace
	switch {
	case tp == nil:
		e.state.ThirdPlace = &Match{ID: ThirdPlaceMatchID, Home: loser}
	case tp.Home == nil:
		tp.Home = loser
	default:
		tp.Away = loser
	}
}

// semifinalRound is the index of the round whose winners meet in the final,
// or -1 when the bracket is too small to have one. It is derived from the
// seeded first round because later rounds are created lazily.
func (e *Engine) semifinalRound() int {
	if len(e.state.MainRounds) == 0 {
		return -1
	}
	total := bits.Len(uint(len(e.state.MainRounds[0]))) // log2(size)
	return total - 2
}

func (e *Engine) notify() {
	for _, l := range e.listeners {
		l(e.State())
	}
}
