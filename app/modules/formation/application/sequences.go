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

// ListSequences returns the in-session sequence collection.
func (s *FormationService) ListSequences() []sharedtypes.Sequence {
	return s.store.Sequences()
}

// SaveSequence creates or overwrites a sequence. Items must reference
// existing positions and scenarios; the list may be empty, an empty
// sequence just has nothing to play.
func (s *FormationService) SaveSequence(ctx context.Context, sequenceID, name string, items []sharedtypes.SequenceItem) (sharedtypes.Sequence, error) {
	ctx, span := s.tracer.Start(ctx, "formation.SaveSequence")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return sharedtypes.Sequence{}, formationdomain.NewValidationError("name", "sequence name is required")
	}
	for i, item := range items {
		switch item.Type {
		case sharedtypes.ItemTypePosition:
			if _, ok := s.store.PositionByID(item.ID); !ok {
				return sharedtypes.Sequence{}, formationdomain.NewValidationError("items", fmt.Sprintf("item %d references unknown position %s", i, item.ID))
			}
		case sharedtypes.ItemTypeScenario:
			if _, ok := s.store.ScenarioByID(item.ID); !ok {
				return sharedtypes.Sequence{}, formationdomain.NewValidationError("items", fmt.Sprintf("item %d references unknown scenario %s", i, item.ID))
			}
		default:
			return sharedtypes.Sequence{}, formationdomain.NewValidationError("items", fmt.Sprintf("item %d has unknown type %q", i, item.Type))
		}
	}

	sortOrder := len(s.store.Sequences())
	if sequenceID == "" {
		sequenceID = uuid.New().String()
	} else {
		if _, ok := s.store.SequenceByID(sequenceID); !ok {
			return sharedtypes.Sequence{}, fmt.Errorf("sequence %s: %w", sequenceID, formationdomain.ErrNotFound)
		}
		for i, seq := range s.store.Sequences() {
			if seq.ID == sequenceID {
				sortOrder = i
				break
			}
		}
	}

	seq := sharedtypes.Sequence{
		ID:    sequenceID,
		Name:  name,
		Items: items,
	}
	if err := s.db.SaveSequence(ctx, seq, sortOrder); err != nil {
		return sharedtypes.Sequence{}, fmt.Errorf("failed to save sequence: %w", err)
	}

	s.store.UpsertSequence(seq)
	s.metrics.EntityOperations.WithLabelValues("sequence", "save").Inc()
	s.publish(ctx, events.SequenceSavedTopic, events.SequenceSavedPayload{Sequence: seq})

	s.logger.Info("Sequence saved",
		slog.String("sequence_id", seq.ID),
		slog.String("name", seq.Name),
		slog.Int("items", len(seq.Items)),
	)
	return seq, nil
}

// DeleteSequence removes a sequence. Nothing references sequences, so
// there is no cascade.
func (s *FormationService) DeleteSequence(ctx context.Context, sequenceID string) error {
	ctx, span := s.tracer.Start(ctx, "formation.DeleteSequence")
	defer span.End()

	if s.playback.Busy() {
		return formationdomain.ErrBusy
	}
	if _, ok := s.store.SequenceByID(sequenceID); !ok {
		return fmt.Errorf("sequence %s: %w", sequenceID, formationdomain.ErrNotFound)
	}

	if err := s.db.DeleteSequence(ctx, sequenceID); err != nil {
		return fmt.Errorf("failed to delete sequence: %w", err)
	}

	s.store.RemoveSequence(sequenceID)
	s.metrics.EntityOperations.WithLabelValues("sequence", "delete").Inc()
	s.publish(ctx, events.SequenceDeletedTopic, events.SequenceDeletedPayload{SequenceID: sequenceID})

	if loaded := s.store.Loaded(); loaded != nil && loaded.Kind == sharedtypes.LoadedSequence && loaded.ID == sequenceID {
		s.store.SetLoaded(nil)
		s.publishLoaded(ctx)
	}
	s.refreshModified(ctx)
	return nil
}

// ReorderSequenceItems moves an item inside one sequence from one index
// to a drop slot. Rejected while an animation is running so the step list
// the controller flattened cannot change underneath it.
func (s *FormationService) ReorderSequenceItems(ctx context.Context, sequenceID string, from, dropIndex int, after bool) (sharedtypes.Sequence, error) {
	ctx, span := s.tracer.Start(ctx, "formation.ReorderSequenceItems")
	defer span.End()

	if s.playback.Busy() {
		return sharedtypes.Sequence{}, formationdomain.ErrBusy
	}

	seq, ok := s.store.SequenceByID(sequenceID)
	if !ok {
		return sharedtypes.Sequence{}, fmt.Errorf("sequence %s: %w", sequenceID, formationdomain.ErrNotFound)
	}
	if from < 0 || from >= len(seq.Items) {
		return sharedtypes.Sequence{}, formationdomain.NewValidationError("index", "reorder index out of range")
	}

	to := formationdomain.InsertionIndex(from, dropIndex, after)
	if to < 0 || to >= len(seq.Items) {
		return sharedtypes.Sequence{}, formationdomain.NewValidationError("index", "drop target out of range")
	}

	seq.Items = formationdomain.Move(seq.Items, from, to)

	sortOrder := 0
	for i, existing := range s.store.Sequences() {
		if existing.ID == sequenceID {
			sortOrder = i
			break
		}
	}
	if err := s.db.SaveSequence(ctx, seq, sortOrder); err != nil {
		return sharedtypes.Sequence{}, fmt.Errorf("failed to save sequence: %w", err)
	}

	s.store.UpsertSequence(seq)
	s.publish(ctx, events.SequenceSavedTopic, events.SequenceSavedPayload{Sequence: seq})
	return seq, nil
}

// ReorderSequences moves a sequence list entry from one index to another.
func (s *FormationService) ReorderSequences(ctx context.Context, from, to int) ([]sharedtypes.Sequence, error) {
	ctx, span := s.tracer.Start(ctx, "formation.ReorderSequences")
	defer span.End()

	sequences := s.store.Sequences()
	if from < 0 || from >= len(sequences) || to < 0 || to >= len(sequences) {
		return nil, formationdomain.NewValidationError("index", "reorder index out of range")
	}

	reordered := formationdomain.Move(sequences, from, to)
	ids := make([]string, len(reordered))
	for i, seq := range reordered {
		ids[i] = seq.ID
	}
	if err := s.db.SaveSequenceOrder(ctx, ids); err != nil {
		return nil, fmt.Errorf("failed to persist sequence order: %w", err)
	}

	s.store.ReplaceSequences(reordered)
	return reordered, nil
}
