package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
)

type playbackView struct {
	State     string                 `json:"state"`
	StepIndex int                    `json:"stepIndex"`
	Steps     []formationdomain.Step `json:"steps"`
}

type animateInput struct {
	StartPositionID string `json:"startPositionId"`
	EndPositionID   string `json:"endPositionId"`
}

// GetPlaybackState reports the controller state and timeline.
func (h *Handlers) GetPlaybackState(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, playbackView{
		State:     string(h.playback.State()),
		StepIndex: h.playback.Index(),
		Steps:     h.playback.Steps(),
	})
}

// LoadSequence flattens a sequence and shows its first step.
func (h *Handlers) LoadSequence(w http.ResponseWriter, r *http.Request) {
	if err := h.playback.LoadSequence(r.Context(), chi.URLParam(r, "sequenceID")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, playbackView{
		State:     string(h.playback.State()),
		StepIndex: h.playback.Index(),
		Steps:     h.playback.Steps(),
	})
}

// PlayNext advances the timeline one step.
func (h *Handlers) PlayNext(w http.ResponseWriter, r *http.Request) {
	if err := h.playback.PlayNext(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, nil)
}

// PlayPrev steps the timeline backward.
func (h *Handlers) PlayPrev(w http.ResponseWriter, r *http.Request) {
	if err := h.playback.PlayPrev(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, nil)
}

// PlayScenario runs a scenario's start-to-end animation.
func (h *Handlers) PlayScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.playback.PlayScenario(r.Context(), chi.URLParam(r, "scenarioID")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, nil)
}

// PlayAnimation runs a standalone start-to-end animation between two
// positions without loading anything.
func (h *Handlers) PlayAnimation(w http.ResponseWriter, r *http.Request) {
	var input animateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.playback.PlayAnimation(r.Context(), input.StartPositionID, input.EndPositionID); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, nil)
}

// ResetToStart animates back to the loaded item's start position.
func (h *Handlers) ResetToStart(w http.ResponseWriter, r *http.Request) {
	if err := h.playback.ResetToStartPosition(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, nil)
}

// CancelPlayback aborts an in-flight transition.
func (h *Handlers) CancelPlayback(w http.ResponseWriter, r *http.Request) {
	h.playback.Cancel(r.Context())
	h.respondJSON(w, http.StatusOK, nil)
}
