package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

type savePositionInput struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type saveScenarioInput struct {
	ScenarioID string   `json:"scenarioId"`
	Name       string   `json:"name"`
	Tags       []string `json:"tags"`
}

type scenarioSelectionInput struct {
	StartPositionID string `json:"startPositionId"`
	EndPositionID   string `json:"endPositionId"`
}

type saveSequenceInput struct {
	SequenceID string                     `json:"sequenceId"`
	Name       string                     `json:"name"`
	Items      []sharedtypes.SequenceItem `json:"items"`
}

type reorderItemsInput struct {
	From      int  `json:"from"`
	DropIndex int  `json:"dropIndex"`
	After     bool `json:"after"`
}

// GetPositions returns the saved positions in display order.
func (h *Handlers) GetPositions(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, h.formation.ListPositions())
}

// SavePosition snapshots the live court as a new named position.
func (h *Handlers) SavePosition(w http.ResponseWriter, r *http.Request) {
	var input savePositionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pos, err := h.formation.SavePositionFromCourt(r.Context(), input.Name, input.Tags)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, pos)
}

// CreateEmptyPosition saves a named shell with no placements.
func (h *Handlers) CreateEmptyPosition(w http.ResponseWriter, r *http.Request) {
	var input savePositionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pos, err := h.formation.CreateEmptyPosition(r.Context(), input.Name, input.Tags)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, pos)
}

// ResavePosition overwrites a saved position with the live court.
func (h *Handlers) ResavePosition(w http.ResponseWriter, r *http.Request) {
	pos, err := h.formation.ResavePosition(r.Context(), chi.URLParam(r, "positionID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, pos)
}

// LoadPosition puts a saved position on the court.
func (h *Handlers) LoadPosition(w http.ResponseWriter, r *http.Request) {
	if err := h.formation.LoadPosition(r.Context(), chi.URLParam(r, "positionID")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, h.formation.CourtSnapshot())
}

// DeletePosition removes a position with its cascade.
func (h *Handlers) DeletePosition(w http.ResponseWriter, r *http.Request) {
	if err := h.formation.DeletePosition(r.Context(), chi.URLParam(r, "positionID")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// ReorderPositions moves a position to a new list index.
func (h *Handlers) ReorderPositions(w http.ResponseWriter, r *http.Request) {
	var input reorderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	positions, err := h.formation.ReorderPositions(r.Context(), input.From, input.To)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, positions)
}

// GetScenarios returns the saved scenarios in display order.
func (h *Handlers) GetScenarios(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, h.formation.ListScenarios())
}

// SaveScenario creates or overwrites a scenario from the editor selection.
func (h *Handlers) SaveScenario(w http.ResponseWriter, r *http.Request) {
	var input saveScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sc, err := h.formation.SaveScenario(r.Context(), input.ScenarioID, input.Name, input.Tags)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, sc)
}

// SetScenarioSelection fills the editor's start/end slots.
func (h *Handlers) SetScenarioSelection(w http.ResponseWriter, r *http.Request) {
	var input scenarioSelectionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.formation.SetScenarioSelection(r.Context(), input.StartPositionID, input.EndPositionID); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"modified": h.formation.Modified()})
}

// LoadScenario makes a scenario the loaded item.
func (h *Handlers) LoadScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.formation.LoadScenario(r.Context(), chi.URLParam(r, "scenarioID")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, h.formation.CourtSnapshot())
}

// DeleteScenario removes a scenario with its sequence pruning.
func (h *Handlers) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.formation.DeleteScenario(r.Context(), chi.URLParam(r, "scenarioID")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// ReorderScenarios moves a scenario to a new list index.
func (h *Handlers) ReorderScenarios(w http.ResponseWriter, r *http.Request) {
	var input reorderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	scenarios, err := h.formation.ReorderScenarios(r.Context(), input.From, input.To)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, scenarios)
}

// GetSequences returns the saved sequences in display order.
func (h *Handlers) GetSequences(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, h.formation.ListSequences())
}

// SaveSequence creates or overwrites a sequence.
func (h *Handlers) SaveSequence(w http.ResponseWriter, r *http.Request) {
	var input saveSequenceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	seq, err := h.formation.SaveSequence(r.Context(), input.SequenceID, input.Name, input.Items)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, seq)
}

// ReorderSequenceItems moves an item inside one sequence.
func (h *Handlers) ReorderSequenceItems(w http.ResponseWriter, r *http.Request) {
	var input reorderItemsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	seq, err := h.formation.ReorderSequenceItems(r.Context(), chi.URLParam(r, "sequenceID"), input.From, input.DropIndex, input.After)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, seq)
}

// DeleteSequence removes a sequence.
func (h *Handlers) DeleteSequence(w http.ResponseWriter, r *http.Request) {
	if err := h.formation.DeleteSequence(r.Context(), chi.URLParam(r, "sequenceID")); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusNoContent, nil)
}

// ReorderSequences moves a sequence to a new list index.
func (h *Handlers) ReorderSequences(w http.ResponseWriter, r *http.Request) {
	var input reorderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sequences, err := h.formation.ReorderSequences(r.Context(), input.From, input.To)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, sequences)
}

// ImportBundle ingests a raw data bundle, current or legacy shape.
func (h *Handlers) ImportBundle(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	bundle, err := h.formation.ImportBundle(r.Context(), raw)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, bundle)
}
