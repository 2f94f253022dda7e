package handlers

import (
	"net/http"

	"github.com/preston-bernstein/golf-league-service/internal/app/foursomes"
	"github.com/preston-bernstein/golf-league-service/internal/http/middleware"
)

func (h *Handler) ListFoursomes(w http.ResponseWriter, r *http.Request) {
	roundID := r.PathValue("roundID")
	list, err := h.foursomes.List(r.Context(), roundID)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roundId": roundID, "foursomes": list}, h.logger)
}

// GenerateFoursomes runs the generator over the round's available golfers.
func (h *Handler) GenerateFoursomes(w http.ResponseWriter, r *http.Request) {
	out, err := h.foursomes.Generate(r.Context(), middleware.CallerFromContext(r.Context()), r.PathValue("roundID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, out, h.logger)
}

// PatchFoursomes swaps approved substitutes into the existing foursomes.
func (h *Handler) PatchFoursomes(w http.ResponseWriter, r *http.Request) {
	out, err := h.foursomes.Patch(r.Context(), middleware.CallerFromContext(r.Context()), r.PathValue("roundID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, out, h.logger)
}

// UpdateFoursomes replaces the foursome members wholesale.
func (h *Handler) UpdateFoursomes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Foursomes []foursomes.FoursomeInput `json:"foursomes"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	roundID := r.PathValue("roundID")
	list, err := h.foursomes.Update(r.Context(), middleware.CallerFromContext(r.Context()), roundID, body.Foursomes)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roundId": roundID, "foursomes": list}, h.logger)
}
