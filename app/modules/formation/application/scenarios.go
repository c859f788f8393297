package formationservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Harbor-City-Volleyball/courtplan/app/events"
	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// ListScenarios returns the in-session scenario collection.
func (s *FormationService) ListScenarios() []sharedtypes.Scenario {
	return s.store.Scenarios()
}

// SaveScenario creates or overwrites a scenario from the editor's current
// start/end selection. Both endpoints must name existing, distinct
// positions.
func (s *FormationService) SaveScenario(ctx context.Context, scenarioID, name string, tags []string) (sharedtypes.Scenario, error) {
	ctx, span := s.tracer.Start(ctx, "formation.SaveScenario")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return sharedtypes.Scenario{}, formationdomain.NewValidationError("name", "scenario name is required")
	}

	startID, endID := s.store.ScenarioSelection()
	if startID == "" || endID == "" {
		return sharedtypes.Scenario{}, formationdomain.NewValidationError("selection", "scenario needs both a start and an end position")
	}
	if startID == endID {
		return sharedtypes.Scenario{}, formationdomain.NewValidationError("selection", "start and end must be different positions")
	}
	if _, ok := s.store.PositionByID(startID); !ok {
		return sharedtypes.Scenario{}, formationdomain.NewValidationError("selection", "start position no longer exists")
	}
	if _, ok := s.store.PositionByID(endID); !ok {
		return sharedtypes.Scenario{}, formationdomain.NewValidationError("selection", "end position no longer exists")
	}

	sortOrder := len(s.store.Scenarios())
	if scenarioID == "" {
		scenarioID = uuid.New().String()
	} else {
		if _, ok := s.store.ScenarioByID(scenarioID); !ok {
			return sharedtypes.Scenario{}, fmt.Errorf("scenario %s: %w", scenarioID, formationdomain.ErrNotFound)
		}
		for i, sc := range s.store.Scenarios() {
			if sc.ID == scenarioID {
				sortOrder = i
				break
			}
		}
	}

	sc := sharedtypes.Scenario{
		ID:              scenarioID,
		Name:            name,
		StartPositionID: startID,
		EndPositionID:   endID,
		Tags:            tags,
	}
	if err := s.db.SaveScenario(ctx, sc, sortOrder); err != nil {
		return sharedtypes.Scenario{}, fmt.Errorf("failed to save scenario: %w", err)
	}

	s.store.UpsertScenario(sc)
	s.store.SetLoaded(&sharedtypes.LoadedItem{
		Kind: sharedtypes.LoadedScenario,
		ID:   sc.ID,
		Name: sc.Name,
	})
	s.metrics.EntityOperations.WithLabelValues("scenario", "save").Inc()
	s.publish(ctx, events.ScenarioSavedTopic, events.ScenarioSavedPayload{Scenario: sc})
	s.publishLoaded(ctx)
	s.refreshModified(ctx)

	s.logger.Info("Scenario saved",
		slog.String("scenario_id", sc.ID),
		slog.String("name", sc.Name),
	)
	return sc, nil
}

// LoadScenario makes a scenario the loaded item and fills the editor's
// start/end slots from it. The court shows the start position.
func (s *FormationService) LoadScenario(ctx context.Context, scenarioID string) error {
	ctx, span := s.tracer.Start(ctx, "formation.LoadScenario")
	defer span.End()

	if s.playback.Busy() {
		return formationdomain.ErrBusy
	}

	sc, ok := s.store.ScenarioByID(scenarioID)
	if !ok {
		return fmt.Errorf("scenario %s: %w", scenarioID, formationdomain.ErrNotFound)
	}

	if start, found := s.store.PositionByID(sc.StartPositionID); found {
		s.store.LoadPositionTokens(start)
	}
	s.store.SetScenarioSelection(sc.StartPositionID, sc.EndPositionID)
	s.store.SetLoaded(&sharedtypes.LoadedItem{
		Kind: sharedtypes.LoadedScenario,
		ID:   sc.ID,
		Name: sc.Name,
	})
	s.publishLoaded(ctx)
	s.refreshModified(ctx)
	return nil
}

// SetScenarioSelection updates the editor's start/end drop zones and
// re-derives the dirty flag against the loaded scenario, if any.
func (s *FormationService) SetScenarioSelection(ctx context.Context, startID, endID string) error {
	if startID != "" {
		if _, ok := s.store.PositionByID(startID); !ok {
			return fmt.Errorf("position %s: %w", startID, formationdomain.ErrNotFound)
		}
	}
	if endID != "" {
		if _, ok := s.store.PositionByID(endID); !ok {
			return fmt.Errorf("position %s: %w", endID, formationdomain.ErrNotFound)
		}
	}
	s.store.SetScenarioSelection(startID, endID)
	s.refreshModified(ctx)
	return nil
}

// DeleteScenario removes a scenario and prunes it out of every sequence.
func (s *FormationService) DeleteScenario(ctx context.Context, scenarioID string) error {
	ctx, span := s.tracer.Start(ctx, "formation.DeleteScenario")
	defer span.End()

	if s.playback.Busy() {
		return formationdomain.ErrBusy
	}
	if _, ok := s.store.ScenarioByID(scenarioID); !ok {
		return fmt.Errorf("scenario %s: %w", scenarioID, formationdomain.ErrNotFound)
	}

	prunedSeqs := s.store.PlanScenarioDelete(scenarioID)
	if err := s.db.DeleteScenarioCascade(ctx, scenarioID, prunedSeqs); err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}

	s.store.ApplyScenarioDelete(scenarioID, prunedSeqs)

	prunedIDs := make([]string, len(prunedSeqs))
	for i, seq := range prunedSeqs {
		prunedIDs[i] = seq.ID
	}
	s.metrics.EntityOperations.WithLabelValues("scenario", "delete").Inc()
	s.publish(ctx, events.ScenarioDeletedTopic, events.ScenarioDeletedPayload{
		ScenarioID:        scenarioID,
		PrunedSequenceIDs: prunedIDs,
	})

	if loaded := s.store.Loaded(); loaded != nil && loaded.Kind == sharedtypes.LoadedScenario && loaded.ID == scenarioID {
		s.store.SetLoaded(nil)
		s.store.SetScenarioSelection("", "")
		s.publishLoaded(ctx)
	}
	s.refreshModified(ctx)

	s.logger.Info("Scenario deleted",
		slog.String("scenario_id", scenarioID),
		slog.Int("pruned_sequences", len(prunedIDs)),
	)
	return nil
}

// ReorderScenarios moves a scenario list entry from one index to another.
func (s *FormationService) ReorderScenarios(ctx context.Context, from, to int) ([]sharedtypes.Scenario, error) {
	ctx, span := s.tracer.Start(ctx, "formation.ReorderScenarios")
	defer span.End()

	scenarios := s.store.Scenarios()
	if from < 0 || from >= len(scenarios) || to < 0 || to >= len(scenarios) {
		return nil, formationdomain.NewValidationError("index", "reorder index out of range")
	}

	reordered := formationdomain.Move(scenarios, from, to)
	ids := make([]string, len(reordered))
	for i, sc := range reordered {
		ids[i] = sc.ID
	}
	if err := s.db.SaveScenarioOrder(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to persist scenario order: %w", err)
	}

	s.store.ReplaceScenarios(reordered)
	return reordered, nil
}
