package league

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sam-maryland/league-mcp-server/internal/bracket"
	"github.com/sam-maryland/league-mcp-server/internal/metrics"
	"github.com/sam-maryland/league-mcp-server/internal/remote"
	"github.com/sam-maryland/league-mcp-server/internal/store"
	"github.com/sirupsen/logrus"
)

// Store keys
const (
	KeyBracket  = "bracket_state_v2"
	KeyPlayoffs = "playoff_mode"
	KeyRoster   = "playoff_roster"
	KeyArchives = "season_archives"
)

const persistTimeout = 5 * time.Second

// Service is the session context for one league. It owns the bracket engine
// and writes every change through to the store.
type Service struct {
	mu sync.Mutex

	engine  *bracket.Engine
	store   store.Store
	remote  remote.Client
	metrics *metrics.Metrics
	logger  *logrus.Logger
	now     func() time.Time

	playoffsActive bool
	roster         []Team
	archives       []Archive
}

// NewService wires the engine to the store. rc may be nil when remote sync
// is disabled.
func NewService(st store.Store, rc remote.Client, m *metrics.Metrics, logger *logrus.Logger, opts ...bracket.Option) *Service {
	if m == nil {
		m = metrics.New()
	}
	s := &Service{
		engine:  bracket.NewEngine(opts...),
		store:   st,
		remote:  rc,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
	s.engine.OnChange(s.persistBracket)
	return s
}

// Load restores the session from the store, falling back to the remote
// backend when the store has no bracket. A bracket restored from the remote
// backend is written back to the store. Unreadable entries are logged and
// treated as absent.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := bracket.NewState()
	found, err := s.loadJSON(ctx, KeyBracket, state)
	if err != nil {
		return err
	}
	var row *remote.StateRow
	if !found && s.remote != nil {
		state, row = s.fetchRemoteState(ctx)
		found = row != nil
	}
	if !found {
		state = bracket.NewState()
	}
	s.engine.Load(state)

	raw, err := s.store.Get(ctx, KeyPlayoffs)
	switch {
	case err == nil:
		s.playoffsActive = string(raw) == "true"
	case errors.Is(err, store.ErrNotFound) && row != nil:
		s.playoffsActive = row.PlayoffsActive
	case errors.Is(err, store.ErrNotFound):
		s.playoffsActive = state.Phase() != bracket.PhaseEmpty
	default:
		return fmt.Errorf("failed to read %s: %w", KeyPlayoffs, err)
	}

	if row != nil {
		if raw, err := json.Marshal(state); err == nil {
			s.setBestEffort(ctx, KeyBracket, raw)
		}
		s.setBestEffort(ctx, KeyPlayoffs, []byte(strconv.FormatBool(s.playoffsActive)))
		s.logger.WithField("phase", state.Phase()).Info("Restored bracket from remote backend")
	}

	var roster []Team
	if _, err := s.loadJSON(ctx, KeyRoster, &roster); err != nil {
		return err
	}
	s.roster = roster

	var archives []Archive
	found, err = s.loadJSON(ctx, KeyArchives, &archives)
	if err != nil {
		return err
	}
	if !found && s.remote != nil {
		if err := s.remote.FetchRows(ctx, remote.TableSeasonArchives, &archives); err != nil {
			s.logger.WithError(err).Warn("Failed to fetch remote archives")
		}
	}
	s.archives = archives

	s.metrics.BracketTeams.Set(float64(len(s.roster)))
	s.logger.WithFields(logrus.Fields{
		"phase":           state.Phase(),
		"playoffs_active": s.playoffsActive,
		"archives":        len(s.archives),
	}).Info("League session loaded")
	return nil
}

// loadJSON decodes key into v. A missing or corrupt entry reports false.
func (s *Service) loadJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Discarding unreadable stored value")
		return false, nil
	}
	return true, nil
}

// fetchRemoteState returns the decoded bracket and its row, or a nil row
// when the backend has no readable current state.
func (s *Service) fetchRemoteState(ctx context.Context) (*bracket.State, *remote.StateRow) {
	var rows []remote.StateRow
	if err := s.remote.FetchRows(ctx, remote.TablePlayoffState, &rows); err != nil {
		s.logger.WithError(err).Warn("Failed to fetch remote bracket")
		return nil, nil
	}
	for i, row := range rows {
		if row.ID != remote.CurrentStateID || len(row.State) == 0 {
			continue
		}
		state := bracket.NewState()
		if err := json.Unmarshal(row.State, state); err != nil {
			s.logger.WithError(err).Warn("Discarding unreadable remote bracket")
			return nil, nil
		}
		return state, &rows[i]
	}
	return nil, nil
}

// StartPlayoffs seeds a bracket from the roster and locks the season
func (s *Service) StartPlayoffs(ctx context.Context, teams []Team) (*bracket.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playoffsActive {
		return nil, ErrPlayoffsActive
	}
	if err := ValidateRoster(teams); err != nil {
		return nil, err
	}

	seeds := make([]bracket.Team, len(teams))
	for i, t := range teams {
		seeds[i] = t.Seed()
	}

	s.playoffsActive = true
	state, err := s.engine.Start(seeds)
	if err != nil {
		s.playoffsActive = false
		return nil, err
	}

	s.roster = append([]Team(nil), teams...)
	s.setBestEffort(ctx, KeyPlayoffs, []byte("true"))
	if raw, err := json.Marshal(s.roster); err == nil {
		s.setBestEffort(ctx, KeyRoster, raw)
	}

	s.metrics.PlayoffsStarted.Inc()
	s.metrics.BracketTeams.Set(float64(len(teams)))
	s.logger.WithFields(logrus.Fields{
		"teams":  len(teams),
		"rounds": len(state.MainRounds),
	}).Info("Playoffs started")
	return state, nil
}

// SubmitResult records a playoff score. Structural errors are logged as
// warnings and leave the bracket untouched.
func (s *Service) SubmitResult(ctx context.Context, r bracket.Result) (*bracket.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.State().Phase() == bracket.PhaseEmpty {
		s.metrics.ResultsRejected.WithLabelValues(rejectReason(ErrNoPlayoffs)).Inc()
		return nil, ErrNoPlayoffs
	}

	_, hadChampion := s.engine.Champion()
	state, err := s.engine.SubmitResult(r)
	if err != nil {
		s.metrics.ResultsRejected.WithLabelValues(rejectReason(err)).Inc()
		if errors.Is(err, bracket.ErrMatchNotFound) {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"match_id":   r.MatchID,
				"round":      r.Round,
				"match_type": r.Type,
			}).Warn("Result references a match outside the bracket")
		}
		return nil, err
	}

	s.metrics.ResultsSubmitted.WithLabelValues(string(r.Type)).Inc()
	entry := s.logger.WithFields(logrus.Fields{
		"match_id":   r.MatchID,
		"round":      r.Round,
		"match_type": r.Type,
		"home_score": *r.HomeScore,
		"away_score": *r.AwayScore,
	})
	if !hadChampion && state.Champion != nil {
		s.metrics.Champions.Inc()
		entry.WithField("champion", *state.Champion).Info("Champion crowned")
	} else {
		entry.Info("Result recorded")
	}
	return state, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNoPlayoffs):
		return "no_playoffs"
	case errors.Is(err, bracket.ErrMissingScore):
		return "missing_score"
	case errors.Is(err, bracket.ErrTiedScore):
		return "tied_score"
	case errors.Is(err, bracket.ErrMatchDecided):
		return "decided"
	case errors.Is(err, bracket.ErrMatchNotReady):
		return "not_ready"
	case errors.Is(err, bracket.ErrMatchNotFound):
		return "not_found"
	default:
		return "other"
	}
}

// ResetPlayoffs discards the bracket and unlocks the season. Safe to call
// when no playoffs are running.
func (s *Service) ResetPlayoffs(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(ctx)
}

func (s *Service) resetLocked(ctx context.Context) {
	s.engine.Reset()
	s.playoffsActive = false
	s.roster = nil

	for _, key := range []string{KeyBracket, KeyPlayoffs, KeyRoster} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.persistFailed(metrics.TargetStore, err, key)
		}
	}
	if s.remote != nil {
		if err := s.remote.DeleteRows(ctx, remote.TablePlayoffState, []string{remote.CurrentStateID}); err != nil {
			s.persistFailed(metrics.TargetRemote, err, remote.TablePlayoffState)
		}
	}

	s.metrics.BracketTeams.Set(0)
	s.logger.Info("Playoffs reset")
}

// Champion returns the recorded champion, if the final has been played
func (s *Service) Champion() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Champion()
}

// Bracket returns a copy of the current bracket
func (s *Service) Bracket() *bracket.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// PlayoffsActive reports whether the season is locked for playoffs
func (s *Service) PlayoffsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playoffsActive
}

// Roster returns the teams seeded into the current bracket
func (s *Service) Roster() []Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Team(nil), s.roster...)
}

// ArchiveSeason records the finished season and resets for the next one.
// totalMatches is the regular-season match count kept by the schedule.
func (s *Service) ArchiveSeason(ctx context.Context, totalMatches int) (Archive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	champion, ok := s.engine.Champion()
	if !ok {
		return Archive{}, ErrNoChampion
	}

	now := s.now().UTC()
	archive := Archive{
		ID:             uuid.NewString(),
		Date:           now.Format("2006-01-02"),
		ArchivedAt:     now,
		Champion:       champion,
		TotalTeams:     len(s.roster),
		TotalMatches:   totalMatches,
		PlayoffMatches: s.engine.State().MatchCount(),
		GoldenBoot:     goldenBoot(s.roster),
	}

	archives := append([]Archive{archive}, s.archives...)
	raw, err := json.Marshal(archives)
	if err != nil {
		return Archive{}, fmt.Errorf("failed to encode archives: %w", err)
	}
	if err := s.store.Set(ctx, KeyArchives, raw); err != nil {
		return Archive{}, fmt.Errorf("failed to save archive: %w", err)
	}
	s.archives = archives

	if s.remote != nil {
		s.syncArchives(ctx)
	}

	s.metrics.SeasonsArchived.Inc()
	s.logger.WithFields(logrus.Fields{
		"archive_id":  archive.ID,
		"champion":    archive.Champion,
		"golden_boot": archive.GoldenBoot.Name,
	}).Info("Season archived")

	s.resetLocked(ctx)
	return archive, nil
}

// syncArchives mirrors the whole archive list to the remote table
func (s *Service) syncArchives(ctx context.Context) {
	ids := make([]string, len(s.archives))
	for i, a := range s.archives {
		ids[i] = a.ID
	}
	if err := s.remote.UpsertRows(ctx, remote.TableSeasonArchives, s.archives); err != nil {
		s.persistFailed(metrics.TargetRemote, err, remote.TableSeasonArchives)
		return
	}
	if err := s.remote.DeleteRowsNotIn(ctx, remote.TableSeasonArchives, ids); err != nil {
		s.persistFailed(metrics.TargetRemote, err, remote.TableSeasonArchives)
	}
}

// Archives lists past seasons, newest first
func (s *Service) Archives() []Archive {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Archive(nil), s.archives...)
}

// persistBracket is the engine listener. Writes are best-effort: failures
// are logged and counted, never returned. An empty bracket is left to
// resetLocked, which removes the entries instead.
func (s *Service) persistBracket(state *bracket.State) {
	if state.Phase() == bracket.PhaseEmpty {
		return
	}

	raw, err := json.Marshal(state)
	if err != nil {
		s.persistFailed(metrics.TargetStore, err, KeyBracket)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	s.setBestEffort(ctx, KeyBracket, raw)
	if s.remote == nil {
		return
	}
	row := remote.StateRow{
		ID:             remote.CurrentStateID,
		PlayoffsActive: s.playoffsActive,
		State:          raw,
		UpdatedAt:      s.now().UTC(),
	}
	if err := s.remote.UpsertRows(ctx, remote.TablePlayoffState, []remote.StateRow{row}); err != nil {
		s.persistFailed(metrics.TargetRemote, err, remote.TablePlayoffState)
	}
}

func (s *Service) setBestEffort(ctx context.Context, key string, value []byte) {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.persistFailed(metrics.TargetStore, err, key)
	}
}

func (s *Service) persistFailed(target string, err error, key string) {
	s.metrics.PersistFailures.WithLabelValues(target).Inc()
	s.logger.WithError(err).WithFields(logrus.Fields{
		"target": target,
		"key":    key,
	}).Warn("Failed to persist league state")
}
