package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type tokenInput struct {
	PlayerID string `json:"playerId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type courtView struct {
	Tokens   any  `json:"tokens"`
	Loaded   any  `json:"loaded"`
	Modified bool `json:"modified"`
}

// GetCourt returns the live court joined with the editor state.
func (h *Handlers) GetCourt(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, courtView{
		Tokens:   h.formation.CourtSnapshot(),
		Loaded:   h.formation.Loaded(),
		Modified: h.formation.Modified(),
	})
}

// DropToken resolves a raw drop coordinate: clamp-and-place inside the
// court space, remove when fully outside it.
func (h *Handlers) DropToken(w http.ResponseWriter, r *http.Request) {
	var input tokenInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.formation.DropToken(r.Context(), input.PlayerID, input.X, input.Y)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, outcome)
}

// MoveToken tracks a token mid-drag.
func (h *Handlers) MoveToken(w http.ResponseWriter, r *http.Request) {
	var input tokenInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.formation.MoveToken(r.Context(), input.PlayerID, input.X, input.Y); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// RemoveToken takes a player's token off the court.
func (h *Handlers) RemoveToken(w http.ResponseWriter, r *http.Request) {
	h.formation.RemoveToken(r.Context(), chi.URLParam(r, "playerID"))
	h.respondJSON(w, http.StatusNoContent, nil)
}

// ClearCourt empties the court and returns to edit-from-scratch mode.
func (h *Handlers) ClearCourt(w http.ResponseWriter, r *http.Request) {
	if err := h.formation.ClearCourt(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}
