// Package api exposes the board operations over HTTP. Handlers stay thin:
// decode, call the owning service, translate the error, encode.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	formationservice "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/application"
	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	"github.com/Harbor-City-Volleyball/courtplan/app/modules/playback"
	rosterservice "github.com/Harbor-City-Volleyball/courtplan/app/modules/roster/application"
)

// Handlers holds the services the HTTP surface fronts.
type Handlers struct {
	roster    *rosterservice.RosterService
	formation *formationservice.FormationService
	playback  *playback.Controller
	logger    *slog.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(
	roster *rosterservice.RosterService,
	formation *formationservice.FormationService,
	pb *playback.Controller,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		roster:    roster,
		formation: formation,
		playback:  pb,
		logger:    logger,
	}
}

// Router assembles the full route tree.
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/players", func(r chi.Router) {
		r.Get("/", h.GetPlayers)
		r.Post("/", h.CreatePlayer)
		r.Put("/{playerID}", h.UpdatePlayer)
		r.Delete("/{playerID}", h.DeletePlayer)
		r.Post("/reorder", h.ReorderPlayers)
	})

	r.Route("/positions", func(r chi.Router) {
		r.Get("/", h.GetPositions)
		r.Post("/", h.SavePosition)
		r.Post("/empty", h.CreateEmptyPosition)
		r.Post("/{positionID}/resave", h.ResavePosition)
		r.Post("/{positionID}/load", h.LoadPosition)
		r.Delete("/{positionID}", h.DeletePosition)
		r.Post("/reorder", h.ReorderPositions)
	})

	r.Route("/scenarios", func(r chi.Router) {
		r.Get("/", h.GetScenarios)
		r.Post("/", h.SaveScenario)
		r.Put("/selection", h.SetScenarioSelection)
		r.Post("/{scenarioID}/load", h.LoadScenario)
		r.Post("/{scenarioID}/play", h.PlayScenario)
		r.Delete("/{scenarioID}", h.DeleteScenario)
		r.Post("/reorder", h.ReorderScenarios)
	})

	r.Route("/sequences", func(r chi.Router) {
		r.Get("/", h.GetSequences)
		r.Post("/", h.SaveSequence)
		r.Post("/{sequenceID}/load", h.LoadSequence)
		r.Post("/{sequenceID}/items/reorder", h.ReorderSequenceItems)
		r.Delete("/{sequenceID}", h.DeleteSequence)
		r.Post("/reorder", h.ReorderSequences)
	})

	r.Route("/court", func(r chi.Router) {
		r.Get("/", h.GetCourt)
		r.Post("/drop", h.DropToken)
		r.Post("/move", h.MoveToken)
		r.Delete("/tokens/{playerID}", h.RemoveToken)
		r.Post("/clear", h.ClearCourt)
	})

	r.Route("/playback", func(r chi.Router) {
		r.Get("/", h.GetPlaybackState)
		r.Post("/next", h.PlayNext)
		r.Post("/prev", h.PlayPrev)
		r.Post("/reset", h.ResetToStart)
		r.Post("/cancel", h.CancelPlayback)
		r.Post("/animate", h.PlayAnimation)
	})

	r.Route("/bundle", func(r chi.Router) {
		r.Post("/import", h.ImportBundle)
	})

	return r
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("error", err))
	}
}

// respondError maps domain errors onto HTTP statuses.
func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	var verr *formationdomain.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, formationdomain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, formationdomain.ErrBusy), errors.Is(err, playback.ErrBusy):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, playback.ErrNotLoaded),
		errors.Is(err, playback.ErrAtStart),
		errors.Is(err, playback.ErrEmptySequence):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("internal error: %v", err), http.StatusInternalServerError)
	}
}
