package bracket

import "errors"

// Invalid input. No state is changed when these are returned.
var (
	ErrNotEnoughTeams = errors.New("not enough teams for playoffs")
	ErrMissingScore   = errors.New("enter scores for both teams")
	ErrTiedScore      = errors.New("no ties allowed in playoffs")
	ErrMatchDecided   = errors.New("match already has a winner")
	ErrMatchNotReady  = errors.New("match is still waiting for an opponent")
)

// ErrMatchNotFound marks a structural inconsistency: the caller referenced a
// match that is not in the requested round.
var ErrMatchNotFound = errors.New("match not found")

// IsInvalidInput reports whether err is an operator input error as opposed
// to a structural one.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrNotEnoughTeams) ||
		errors.Is(err, ErrMissingScore) ||
		errors.Is(err, ErrTiedScore) ||
		errors.Is(err, ErrMatchDecided) ||
		errors.Is(err, ErrMatchNotReady)
}
