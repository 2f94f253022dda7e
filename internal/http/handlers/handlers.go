package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/golf-league-service/internal/app/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/app/handicaps"
	"github.com/preston-bernstein/golf-league-service/internal/app/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/app/scores"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
)

// Pinger reports whether the backing store can serve traffic.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps wires a Handler.
type Deps struct {
	Rounds    *rounds.Service
	Foursomes *foursomes.Service
	Scores    *scores.Service
	Handicaps *handicaps.Service
	Store     Pinger
	Logger    *slog.Logger
}

// Handler wires HTTP routes to the league services.
type Handler struct {
	rounds    *rounds.Service
	foursomes *foursomes.Service
	scores    *scores.Service
	handicaps *handicaps.Service
	store     Pinger
	logger    *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		rounds:    d.Rounds,
		foursomes: d.Foursomes,
		scores:    d.Scores,
		handicaps: d.Handicaps,
		store:     d.Store,
		logger:    d.Logger,
	}
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	mux.HandleFunc("POST /rounds", h.CreateRound)
	mux.HandleFunc("GET /rounds", h.ListRounds)
	mux.HandleFunc("GET /rounds/{roundID}", h.GetRound)
	mux.HandleFunc("PATCH /rounds/{roundID}/status", h.SetRoundStatus)
	mux.HandleFunc("PUT /rounds/{roundID}/availability/{golferID}", h.DeclareAvailability)
	mux.HandleFunc("PUT /rounds/{roundID}/substitutes/{teamID}", h.SetSubstitute)

	mux.HandleFunc("GET /rounds/{roundID}/foursomes", h.ListFoursomes)
	mux.HandleFunc("PUT /rounds/{roundID}/foursomes", h.UpdateFoursomes)
	mux.HandleFunc("POST /rounds/{roundID}/foursomes/generate", h.GenerateFoursomes)
	mux.HandleFunc("POST /rounds/{roundID}/foursomes/patch", h.PatchFoursomes)

	mux.HandleFunc("GET /rounds/{roundID}/scores", h.ListScores)
	mux.HandleFunc("PUT /rounds/{roundID}/scores", h.SaveScore)
	mux.HandleFunc("PUT /rounds/{roundID}/scores/me", h.SubmitScore)
	mux.HandleFunc("POST /scores/{scoreID}/lock", h.LockScore)
	mux.HandleFunc("POST /scores/{scoreID}/unlock", h.UnlockScore)

	mux.HandleFunc("POST /rounds/{roundID}/finalize", h.Finalize)
	mux.HandleFunc("POST /rounds/{roundID}/points/recalculate", h.RecalculatePoints)
	mux.HandleFunc("GET /rounds/{roundID}/points", h.RoundPoints)
	mux.HandleFunc("GET /rounds/{roundID}/archive", h.RoundArchive)
	mux.HandleFunc("GET /seasons/{season}/standings", h.SeasonStandings)

	mux.HandleFunc("GET /handicaps/{golferID}", h.GetHandicap)
	mux.HandleFunc("PUT /handicaps/{golferID}", h.SetHandicap)
	mux.HandleFunc("GET /handicaps/{golferID}/history", h.HandicapHistory)
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			logging.Warn(loggerFromContext(r, h.logger), "store not ready", logging.FieldError, err)
			writeError(w, r, http.StatusServiceUnavailable, "store unavailable", h.logger)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}
