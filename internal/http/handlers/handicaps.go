package handlers

import (
	"net/http"

	"github.com/preston-bernstein/golf-league-service/internal/http/middleware"
)

func (h *Handler) GetHandicap(w http.ResponseWriter, r *http.Request) {
	hc, err := h.handicaps.Get(r.Context(), r.PathValue("golferID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, hc, h.logger)
}

// SetHandicap applies a manual override.
func (h *Handler) SetHandicap(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Handicap *float64 `json:"handicap"`
		Reason   string   `json:"reason"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	if body.Handicap == nil {
		writeError(w, r, http.StatusBadRequest, "handicap: value is required", h.logger)
		return
	}
	hc, err := h.handicaps.Set(r.Context(), middleware.CallerFromContext(r.Context()), r.PathValue("golferID"), *body.Handicap, body.Reason)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, hc, h.logger)
}

func (h *Handler) HandicapHistory(w http.ResponseWriter, r *http.Request) {
	golferID := r.PathValue("golferID")
	list, err := h.handicaps.History(r.Context(), golferID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"golferId": golferID, "history": list}, h.logger)
}
