package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sam-maryland/league-mcp-server/internal/bracket"
	"github.com/sirupsen/logrus"
)

// BracketSource exposes the current bracket for read-only display
type BracketSource interface {
	Bracket() *bracket.State
	PlayoffsActive() bool
}

type bracketView struct {
	PlayoffsActive bool           `json:"playoffs_active"`
	Phase          bracket.Phase  `json:"phase"`
	Bracket        *bracket.State `json:"bracket"`
}

// Routes serves /healthz, /metrics and /bracket
func Routes(m *Metrics, source BracketSource, logger *logrus.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	r.Get("/bracket", func(w http.ResponseWriter, r *http.Request) {
		state := source.Bracket()
		view := bracketView{
			PlayoffsActive: source.PlayoffsActive(),
			Phase:          state.Phase(),
			Bracket:        state,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			logger.WithError(err).Warn("Failed to encode bracket view")
		}
	})
	return r
}

// NewStatusServer builds the HTTP server for the status routes
func NewStatusServer(addr string, m *Metrics, source BracketSource, logger *logrus.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           Routes(m, source, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
