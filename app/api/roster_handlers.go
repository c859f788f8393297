package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type playerInput struct {
	Jersey string `json:"jersey"`
	Name   string `json:"name"`
}

type reorderInput struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// GetPlayers returns the roster in display order.
func (h *Handlers) GetPlayers(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, h.roster.ListPlayers())
}

// CreatePlayer adds a player to the roster.
func (h *Handlers) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input playerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	player, err := h.roster.CreatePlayer(r.Context(), input.Jersey, input.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, player)
}

// UpdatePlayer renames or re-jerseys a player.
func (h *Handlers) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var input playerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	player, err := h.roster.UpdatePlayer(r.Context(), chi.URLParam(r, "playerID"), input.Jersey, input.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, player)
}

// DeletePlayer removes a player and cascades into saved positions.
func (h *Handlers) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.DeletePlayer(r.Context(), chi.URLParam(r, "playerID")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// ReorderPlayers moves a roster entry to a new list position.
func (h *Handlers) ReorderPlayers(w http.ResponseWriter, r *http.Request) {
	var input reorderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	players, err := h.roster.ReorderPlayers(r.Context(), input.From, input.To)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, players)
}
