package handlers

import (
	"net/http"
	"strconv"

	"github.com/preston-bernstein/golf-league-service/internal/app/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/domain/availability"
	model "github.com/preston-bernstein/golf-league-service/internal/domain/rounds"
	"github.com/preston-bernstein/golf-league-service/internal/http/middleware"
)

// CreateRound schedules a round.
func (h *Handler) CreateRound(w http.ResponseWriter, r *http.Request) {
	var in rounds.CreateInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	round, err := h.rounds.Create(r.Context(), middleware.CallerFromContext(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, round, h.logger)
}

// ListRounds returns rounds, optionally filtered by ?season=.
func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	season := 0
	if raw := r.URL.Query().Get("season"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, r, http.StatusBadRequest, "season must be a positive year", h.logger)
			return
		}
		season = v
	}
	list, err := h.rounds.List(r.Context(), season)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rounds": list, "count": len(list)}, h.logger)
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.rounds.Get(r.Context(), r.PathValue("roundID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, round, h.logger)
}

func (h *Handler) SetRoundStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status model.Status `json:"status"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	round, err := h.rounds.SetStatus(r.Context(), middleware.CallerFromContext(r.Context()), r.PathValue("roundID"), body.Status)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, round, h.logger)
}

// DeclareAvailability records a golfer in or out for the round.
func (h *Handler) DeclareAvailability(w http.ResponseWriter, r *http.Request) {
	var d availability.Declaration
	if err := decodeBody(w, r, &d); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	d.RoundID = r.PathValue("roundID")
	d.GolferID = r.PathValue("golferID")
	out, err := h.rounds.DeclareAvailability(r.Context(), middleware.CallerFromContext(r.Context()), d)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, out, h.logger)
}

func (h *Handler) SetSubstitute(w http.ResponseWriter, r *http.Request) {
	var sub availability.Substitution
	if err := decodeBody(w, r, &sub); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	sub.RoundID = r.PathValue("roundID")
	sub.TeamID = r.PathValue("teamID")
	out, err := h.rounds.SetSubstitute(r.Context(), middleware.CallerFromContext(r.Context()), sub)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, out, h.logger)
}

// Finalize computes points, recalculates handicaps and completes the round.
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	out, err := h.rounds.Finalize(r.Context(), middleware.CallerFromContext(r.Context()), r.PathValue("roundID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, out, h.logger)
}

func (h *Handler) RecalculatePoints(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("roundID")
	points, err := h.rounds.RecalculatePoints(r.Context(), middleware.CallerFromContext(r.Context()), roundID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roundId": roundID, "points": points}, h.logger)
}

func (h *Handler) RoundPoints(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("roundID")
	points, err := h.rounds.Points(r.Context(), roundID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roundId": roundID, "points": points}, h.logger)
}

// RoundArchive serves the snapshot written when the round was finalized.
func (h *Handler) RoundArchive(w http.ResponseWriter, r *http.Request) {
	archive, err := h.rounds.Archive(r.Context(), r.PathValue("roundID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, archive, h.logger)
}

func (h *Handler) SeasonStandings(w http.ResponseWriter, r *http.Request) {
	season, err := strconv.Atoi(r.PathValue("season"))
	if err != nil {
		writeServiceError(w, r, domain.Validation("season", "season must be a year"), h.logger)
		return
	}
	table, err := h.rounds.SeasonStandings(r.Context(), season)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"season": season, "standings": table}, h.logger)
}
