package handlers

import (
	"net/http"

	"github.com/preston-bernstein/golf-league-service/internal/app/scores"
	"github.com/preston-bernstein/golf-league-service/internal/http/middleware"
)

func (h *Handler) ListScores(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("roundID")
	list, err := h.scores.List(r.Context(), roundID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roundId": roundID, "scores": list, "count": len(list)}, h.logger)
}

// SubmitScore records the calling golfer's own card.
func (h *Handler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Holes []int `json:"holes"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	view, err := h.scores.Submit(r.Context(), middleware.CallerFromContext(r.Context()), r.PathValue("roundID"), body.Holes)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}

// SaveScore records a card for any player in the round.
func (h *Handler) SaveScore(w http.ResponseWriter, r *http.Request) {
	var in scores.SaveInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	in.RoundID = r.PathValue("roundID")
	view, err := h.scores.Save(r.Context(), middleware.CallerFromContext(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}

func (h *Handler) LockScore(w http.ResponseWriter, r *http.Request) {
	view, err := h.scores.Lock(r.Context(), middleware.CallerFromContext(r.Context()), r.PathValue("scoreID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}

func (h *Handler) UnlockScore(w http.ResponseWriter, r *http.Request) {
	view, err := h.scores.Unlock(r.Context(), middleware.CallerFromContext(r.Context()), r.PathValue("scoreID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}
