// Package formationstore holds the in-session projection of the coach's
// data: the roster, the saved positions/scenarios/sequences, and the live
// court state with whichever item is active in the editor. All mutation
// routes through the owning service for the operation in flight; the store
// itself only guards against torn reads.
package formationstore

import (
	"sync"

	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// Store is the shared in-memory substrate the core components work on.
type Store struct {
	mu sync.RWMutex

	players   []sharedtypes.Player
	positions []sharedtypes.Position
	scenarios []sharedtypes.Scenario
	sequences []sharedtypes.Sequence

	live       map[string]sharedtypes.Coord
	liveOrder  []string
	loaded     *sharedtypes.LoadedItem
	modified   bool
	selStartID string
	selEndID   string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		live: make(map[string]sharedtypes.Coord),
	}
}

// ReplaceAll swaps in freshly loaded collections, e.g. after a bulk import.
// The live court and loaded pointer are reset.
func (s *Store) ReplaceAll(players []sharedtypes.Player, positions []sharedtypes.Position, scenarios []sharedtypes.Scenario, sequences []sharedtypes.Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = append([]sharedtypes.Player(nil), players...)
	s.positions = append([]sharedtypes.Position(nil), positions...)
	s.scenarios = append([]sharedtypes.Scenario(nil), scenarios...)
	s.sequences = append([]sharedtypes.Sequence(nil), sequences...)
	s.live = make(map[string]sharedtypes.Coord)
	s.liveOrder = nil
	s.loaded = nil
	s.modified = false
	s.selStartID = ""
	s.selEndID = ""
}

// --- collection accessors ---

func (s *Store) Players() []sharedtypes.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]sharedtypes.Player(nil), s.players...)
}

func (s *Store) Positions() []sharedtypes.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sharedtypes.Position, len(s.positions))
	for i, p := range s.positions {
		out[i] = copyPosition(p)
	}
	return out
}

func (s *Store) Scenarios() []sharedtypes.Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]sharedtypes.Scenario(nil), s.scenarios...)
}

func (s *Store) Sequences() []sharedtypes.Sequence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sharedtypes.Sequence, len(s.sequences))
	for i, seq := range s.sequences {
		out[i] = copySequence(seq)
	}
	return out
}

// PlayerByID looks a player up by id.
func (s *Store) PlayerByID(id string) (sharedtypes.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return sharedtypes.Player{}, false
}

// PositionByID looks a position up by id.
func (s *Store) PositionByID(id string) (sharedtypes.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.positions {
		if p.ID == id {
			return copyPosition(p), true
		}
	}
	return sharedtypes.Position{}, false
}

// ScenarioByID looks a scenario up by id.
func (s *Store) ScenarioByID(id string) (sharedtypes.Scenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.scenarios {
		if sc.ID == id {
			return sc, true
		}
	}
	return sharedtypes.Scenario{}, false
}

// SequenceByID looks a sequence up by id.
func (s *Store) SequenceByID(id string) (sharedtypes.Sequence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, seq := range s.sequences {
		if seq.ID == id {
			return copySequence(seq), true
		}
	}
	return sharedtypes.Sequence{}, false
}

// JerseyTaken reports whether another player already wears the jersey.
func (s *Store) JerseyTaken(jersey, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.Jersey == jersey && p.ID != excludeID {
			return true
		}
	}
	return false
}

// PositionNameTaken reports whether another position already uses the name.
func (s *Store) PositionNameTaken(name, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.positions {
		if p.Name == name && p.ID != excludeID {
			return true
		}
	}
	return false
}

// --- collection mutation (applied only after a successful persist) ---

// ReplacePlayers swaps in a reordered roster.
func (s *Store) ReplacePlayers(players []sharedtypes.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append([]sharedtypes.Player(nil), players...)
}

// ReplacePositions swaps in a reordered position list.
func (s *Store) ReplacePositions(positions []sharedtypes.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = make([]sharedtypes.Position, len(positions))
	for i, p := range positions {
		s.positions[i] = copyPosition(p)
	}
}

// ReplaceScenarios swaps in a reordered scenario list.
func (s *Store) ReplaceScenarios(scenarios []sharedtypes.Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios = append([]sharedtypes.Scenario(nil), scenarios...)
}

// ReplaceSequences swaps in a reordered sequence list.
func (s *Store) ReplaceSequences(sequences []sharedtypes.Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences = make([]sharedtypes.Sequence, len(sequences))
	for i, seq := range sequences {
		s.sequences[i] = copySequence(seq)
	}
}

// UpsertPlayer adds or replaces a player.
func (s *Store) UpsertPlayer(player sharedtypes.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.players {
		if p.ID == player.ID {
			s.players[i] = player
			return
		}
	}
	s.players = append(s.players, player)
}

// RemovePlayer deletes a player and cascades: the player is pruned from
// every position's placement list and from the live court. Returns the ids
// of positions that lost a placement.
func (s *Store) RemovePlayer(playerID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.players {
		if p.ID == playerID {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}

	var pruned []string
	for i := range s.positions {
		kept := s.positions[i].PlayerPositions[:0]
		removed := false
		for _, pp := range s.positions[i].PlayerPositions {
			if pp.PlayerID == playerID {
				removed = true
				continue
			}
			kept = append(kept, pp)
		}
		if removed {
			s.positions[i].PlayerPositions = kept
			pruned = append(pruned, s.positions[i].ID)
		}
	}

	s.removeTokenLocked(playerID)
	return pruned
}

// UpsertPosition adds or replaces a position.
func (s *Store) UpsertPosition(pos sharedtypes.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.positions {
		if p.ID == pos.ID {
			s.positions[i] = copyPosition(pos)
			return
		}
	}
	s.positions = append(s.positions, copyPosition(pos))
}

// PositionCascade is the plan for deleting one position: scenarios that
// reference it are deleted outright, and sequence items referencing either
// the position or a doomed scenario are pruned.
type PositionCascade struct {
	ScenarioIDs     []string
	PrunedSequences []sharedtypes.Sequence
}

// PlanPositionDelete computes the cascade a position delete will cause
// without mutating anything, so the service can persist the whole plan
// before applying it.
func (s *Store) PlanPositionDelete(positionID string) PositionCascade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var plan PositionCascade
	doomed := map[string]bool{}
	for _, sc := range s.scenarios {
		if sc.StartPositionID == positionID || sc.EndPositionID == positionID {
			plan.ScenarioIDs = append(plan.ScenarioIDs, sc.ID)
			doomed[sc.ID] = true
		}
	}

	for _, seq := range s.sequences {
		kept := make([]sharedtypes.SequenceItem, 0, len(seq.Items))
		changed := false
		for _, item := range seq.Items {
			drop := (item.Type == sharedtypes.ItemTypePosition && item.ID == positionID) ||
				(item.Type == sharedtypes.ItemTypeScenario && doomed[item.ID])
			if drop {
				changed = true
				continue
			}
			kept = append(kept, item)
		}
		if changed {
			pruned := copySequence(seq)
			pruned.Items = kept
			plan.PrunedSequences = append(plan.PrunedSequences, pruned)
		}
	}
	return plan
}

// ApplyPositionDelete applies a previously computed cascade plan.
func (s *Store) ApplyPositionDelete(positionID string, plan PositionCascade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.positions {
		if p.ID == positionID {
			s.positions = append(s.positions[:i], s.positions[i+1:]...)
			break
		}
	}

	doomed := map[string]bool{}
	for _, id := range plan.ScenarioIDs {
		doomed[id] = true
	}
	kept := s.scenarios[:0]
	for _, sc := range s.scenarios {
		if !doomed[sc.ID] {
			kept = append(kept, sc)
		}
	}
	s.scenarios = kept

	for _, pruned := range plan.PrunedSequences {
		for i, seq := range s.sequences {
			if seq.ID == pruned.ID {
				s.sequences[i] = copySequence(pruned)
				break
			}
		}
	}
}

// UpsertScenario adds or replaces a scenario.
func (s *Store) UpsertScenario(sc sharedtypes.Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.scenarios {
		if existing.ID == sc.ID {
			s.scenarios[i] = sc
			return
		}
	}
	s.scenarios = append(s.scenarios, sc)
}

// PlanScenarioDelete computes which sequences lose items when a scenario
// is deleted.
func (s *Store) PlanScenarioDelete(scenarioID string) []sharedtypes.Sequence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prunedSeqs []sharedtypes.Sequence
	for _, seq := range s.sequences {
		kept := make([]sharedtypes.SequenceItem, 0, len(seq.Items))
		changed := false
		for _, item := range seq.Items {
			if item.Type == sharedtypes.ItemTypeScenario && item.ID == scenarioID {
				changed = true
				continue
			}
			kept = append(kept, item)
		}
		if changed {
			pruned := copySequence(seq)
			pruned.Items = kept
			prunedSeqs = append(prunedSeqs, pruned)
		}
	}
	return prunedSeqs
}

// ApplyScenarioDelete removes the scenario and swaps in the pruned
// sequences.
func (s *Store) ApplyScenarioDelete(scenarioID string, prunedSeqs []sharedtypes.Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sc := range s.scenarios {
		if sc.ID == scenarioID {
			s.scenarios = append(s.scenarios[:i], s.scenarios[i+1:]...)
			break
		}
	}
	for _, pruned := range prunedSeqs {
		for i, seq := range s.sequences {
			if seq.ID == pruned.ID {
				s.sequences[i] = copySequence(pruned)
				break
			}
		}
	}
}

// UpsertSequence adds or replaces a sequence.
func (s *Store) UpsertSequence(seq sharedtypes.Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.sequences {
		if existing.ID == seq.ID {
			s.sequences[i] = copySequence(seq)
			return
		}
	}
	s.sequences = append(s.sequences, copySequence(seq))
}

// RemoveSequence deletes a sequence. No cascade; nothing references one.
func (s *Store) RemoveSequence(sequenceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, seq := range s.sequences {
		if seq.ID == sequenceID {
			s.sequences = append(s.sequences[:i], s.sequences[i+1:]...)
			return
		}
	}
}

// --- live court ---

// PlaceToken puts a player's token at a coordinate, replacing any existing
// token for that player. Unknown players are rejected so a stale drag
// cannot resurrect a deleted player.
func (s *Store) PlaceToken(playerID string, x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := false
	for _, p := range s.players {
		if p.ID == playerID {
			known = true
			break
		}
	}
	if !known {
		return false
	}

	if _, exists := s.live[playerID]; !exists {
		s.liveOrder = append(s.liveOrder, playerID)
	}
	s.live[playerID] = sharedtypes.Coord{X: x, Y: y}
	return true
}

// RemoveToken takes a player's token off the court.
func (s *Store) RemoveToken(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeTokenLocked(playerID)
}

func (s *Store) removeTokenLocked(playerID string) {
	if _, exists := s.live[playerID]; !exists {
		return
	}
	delete(s.live, playerID)
	for i, id := range s.liveOrder {
		if id == playerID {
			s.liveOrder = append(s.liveOrder[:i], s.liveOrder[i+1:]...)
			break
		}
	}
}

// LiveCourt returns a copy of the live token coordinates.
func (s *Store) LiveCourt() map[string]sharedtypes.Coord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]sharedtypes.Coord, len(s.live))
	for id, c := range s.live {
		out[id] = c
	}
	return out
}

// SnapshotLiveCourt reads the live court joined with player metadata, in
// placement order. The snapshot is what gets saved as a Position and what
// the modification tracker compares against a saved one.
func (s *Store) SnapshotLiveCourt() []sharedtypes.PlacedPlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]sharedtypes.PlacedPlayer, 0, len(s.liveOrder))
	for _, playerID := range s.liveOrder {
		coord, ok := s.live[playerID]
		if !ok {
			continue
		}
		for _, p := range s.players {
			if p.ID == playerID {
				out = append(out, sharedtypes.PlacedPlayer{
					PlayerID: p.ID,
					Jersey:   p.Jersey,
					Name:     p.Name,
					X:        coord.X,
					Y:        coord.Y,
				})
				break
			}
		}
	}
	return out
}

// LoadPositionTokens clears the court and places one token per saved
// placement whose player still exists on the roster. Stale placements are
// silently dropped. The caller decides what the loaded pointer becomes.
func (s *Store) LoadPositionTokens(pos sharedtypes.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.live = make(map[string]sharedtypes.Coord, len(pos.PlayerPositions))
	s.liveOrder = s.liveOrder[:0]

	roster := make(map[string]bool, len(s.players))
	for _, p := range s.players {
		roster[p.ID] = true
	}

	for _, pp := range pos.PlayerPositions {
		if !roster[pp.PlayerID] {
			continue
		}
		s.live[pp.PlayerID] = sharedtypes.Coord{X: pp.X, Y: pp.Y}
		s.liveOrder = append(s.liveOrder, pp.PlayerID)
	}
}

// --- loaded item, selections, modified flag ---

// Loaded returns the active editor item, or nil in edit-from-scratch mode.
func (s *Store) Loaded() *sharedtypes.LoadedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.loaded == nil {
		return nil
	}
	cp := *s.loaded
	return &cp
}

// SetLoaded replaces the active editor item pointer.
func (s *Store) SetLoaded(item *sharedtypes.LoadedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item == nil {
		s.loaded = nil
		return
	}
	cp := *item
	s.loaded = &cp
}

// ScenarioSelection returns the current start/end drop-zone position ids.
func (s *Store) ScenarioSelection() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selStartID, s.selEndID
}

// SetScenarioSelection records which positions sit in the scenario editor's
// start and end slots.
func (s *Store) SetScenarioSelection(startID, endID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selStartID = startID
	s.selEndID = endID
}

// Modified reports whether the live state has drifted from the loaded item.
func (s *Store) Modified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// SetModified sets the dirty flag, reporting whether it changed.
func (s *Store) SetModified(modified bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modified == modified {
		return false
	}
	s.modified = modified
	return true
}

// RecomputeModified re-derives the dirty flag from the loaded item and the
// live court, returning the new value and whether it flipped. Unsaved items
// are always dirty.
func (s *Store) RecomputeModified() (modified, changed bool) {
	loaded := s.Loaded()

	dirty := false
	switch {
	case loaded == nil:
		dirty = false
	case loaded.ID == "":
		dirty = true
	case loaded.Kind == sharedtypes.LoadedPosition:
		if pos, ok := s.PositionByID(loaded.ID); ok {
			dirty = formationdomain.PositionDirty(s.SnapshotLiveCourt(), pos.PlayerPositions)
		} else {
			dirty = true
		}
	case loaded.Kind == sharedtypes.LoadedScenario:
		if sc, ok := s.ScenarioByID(loaded.ID); ok {
			start, end := s.ScenarioSelection()
			dirty = formationdomain.ScenarioDirty(start, end, sc)
		} else {
			dirty = true
		}
	case loaded.Kind == sharedtypes.LoadedSequence:
		// Playback walks the court through saved positions; that drift is
		// not editing, so loaded sequences never mark the editor dirty.
		dirty = false
	}

	changed = s.SetModified(dirty)
	return dirty, changed
}

func copyPosition(p sharedtypes.Position) sharedtypes.Position {
	cp := p
	cp.Tags = append([]string(nil), p.Tags...)
	cp.PlayerPositions = append([]sharedtypes.PlacedPlayer(nil), p.PlayerPositions...)
	return cp
}

func copySequence(seq sharedtypes.Sequence) sharedtypes.Sequence {
	cp := seq
	cp.Items = append([]sharedtypes.SequenceItem(nil), seq.Items...)
	return cp
}
