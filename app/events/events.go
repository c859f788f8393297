// Package events defines the topics and JSON payloads published on the
// internal event bus. The board UI subscribes to these instead of polling.
package events

import sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"

// Topics.
const (
	PlayerCreatedTopic = "roster.player.created"
	PlayerUpdatedTopic = "roster.player.updated"
	PlayerDeletedTopic = "roster.player.deleted"

	PositionSavedTopic   = "formation.position.saved"
	PositionDeletedTopic = "formation.position.deleted"
	ScenarioSavedTopic   = "formation.scenario.saved"
	ScenarioDeletedTopic = "formation.scenario.deleted"
	SequenceSavedTopic   = "formation.sequence.saved"
	SequenceDeletedTopic = "formation.sequence.deleted"

	ItemLoadedTopic      = "formation.item.loaded"
	ModifiedChangedTopic = "formation.modified.changed"

	StepChangedTopic       = "playback.step.changed"
	SequenceCompletedTopic = "playback.sequence.completed"
	PlaybackCancelledTopic = "playback.cancelled"
)

// PlayerCreatedPayload is published when a player joins the roster.
type PlayerCreatedPayload struct {
	Player sharedtypes.Player `json:"player"`
}

// PlayerUpdatedPayload is published on rename or re-jersey.
type PlayerUpdatedPayload struct {
	Player sharedtypes.Player `json:"player"`
}

// PlayerDeletedPayload is published after a player delete has cascaded.
type PlayerDeletedPayload struct {
	PlayerID string `json:"playerId"`
	// PrunedPositionIDs are the positions that lost a placement.
	PrunedPositionIDs []string `json:"prunedPositionIds"`
}

// PositionSavedPayload is published when a position is created or re-saved.
type PositionSavedPayload struct {
	Position sharedtypes.Position `json:"position"`
}

// PositionDeletedPayload carries the cascade a position delete produced.
type PositionDeletedPayload struct {
	PositionID         string   `json:"positionId"`
	DeletedScenarioIDs []string `json:"deletedScenarioIds"`
	PrunedSequenceIDs  []string `json:"prunedSequenceIds"`
}

// ScenarioSavedPayload is published when a scenario is created or re-saved.
type ScenarioSavedPayload struct {
	Scenario sharedtypes.Scenario `json:"scenario"`
}

// ScenarioDeletedPayload is published when a scenario is deleted.
type ScenarioDeletedPayload struct {
	ScenarioID        string   `json:"scenarioId"`
	PrunedSequenceIDs []string `json:"prunedSequenceIds"`
}

// SequenceSavedPayload is published when a sequence is created or re-saved.
type SequenceSavedPayload struct {
	Sequence sharedtypes.Sequence `json:"sequence"`
}

// SequenceDeletedPayload is published when a sequence is deleted.
type SequenceDeletedPayload struct {
	SequenceID string `json:"sequenceId"`
}

// ItemLoadedPayload is published when the active editor item changes.
type ItemLoadedPayload struct {
	Loaded *sharedtypes.LoadedItem `json:"loaded"`
}

// ModifiedChangedPayload is published when the dirty flag flips.
type ModifiedChangedPayload struct {
	Modified bool `json:"modified"`
}

// StepChangedPayload is published every time the court settles on a new
// formation step, including the instantaneous first display after a load.
type StepChangedPayload struct {
	StepIndex  int    `json:"stepIndex"`
	StepCount  int    `json:"stepCount"`
	PositionID string `json:"positionId"`
	ItemIndex  int    `json:"itemIndex"`
	Role       string `json:"role"`
	ScenarioID string `json:"scenarioId,omitempty"`
}

// SequenceCompletedPayload is published when playback walks past the final
// step and the controller drops back to edit mode.
type SequenceCompletedPayload struct {
	SequenceID string `json:"sequenceId"`
	StepCount  int    `json:"stepCount"`
}

// PlaybackCancelledPayload is published when an in-flight transition is
// cancelled before its join completed.
type PlaybackCancelledPayload struct {
	FromIndex int `json:"fromIndex"`
}
