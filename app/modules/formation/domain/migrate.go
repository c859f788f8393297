package formationdomain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// Bundle is the current import/persistence shape.
type Bundle struct {
	Positions []sharedtypes.Position `json:"positions"`
	Scenarios []sharedtypes.Scenario `json:"scenarios"`
	Sequences []sharedtypes.Sequence `json:"sequences"`
}

// LegacyBundle is the old flat shape: position name -> placements.
type LegacyBundle map[string][]sharedtypes.PlacedPlayer

// legacy position names look like "Rotation 2 - Serve Receive"; the text
// before the separator grouped one rotation's formations together.
const legacyGroupSeparator = " - "

// ParseBundle decodes raw bundle bytes into the current shape, migrating a
// legacy bundle when it finds one. The two shapes are told apart by the
// presence of the top-level "positions" array, which also makes migration
// idempotent: running it on already-migrated data is a pass-through.
func ParseBundle(raw []byte) (Bundle, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Bundle{}, fmt.Errorf("failed to decode bundle: %w", err)
	}

	if _, ok := probe["positions"]; ok {
		var b Bundle
		if err := json.Unmarshal(raw, &b); err != nil {
			return Bundle{}, fmt.Errorf("failed to decode current bundle: %w", err)
		}
		return b, nil
	}

	var legacy LegacyBundle
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return Bundle{}, fmt.Errorf("failed to decode legacy bundle: %w", err)
	}
	return MigrateLegacy(legacy), nil
}

// MigrateLegacy converts the flat name->placements mapping into the current
// entity shapes. Each entry becomes a Position; the rotation grouping the
// old format encoded in name prefixes is preserved as a tag. Scenario and
// sequence collections start empty; the coach rebuilds those from the
// migrated positions.
func MigrateLegacy(legacy LegacyBundle) Bundle {
	names := make([]string, 0, len(legacy))
	for name := range legacy {
		names = append(names, name)
	}
	// Map iteration order is random; the migration must not be.
	sort.Strings(names)

	positions := make([]sharedtypes.Position, 0, len(names))
	for _, name := range names {
		placements := make([]sharedtypes.PlacedPlayer, len(legacy[name]))
		copy(placements, legacy[name])

		var tags []string
		if prefix, _, ok := strings.Cut(name, legacyGroupSeparator); ok && prefix != "" {
			tags = []string{prefix}
		}

		positions = append(positions, sharedtypes.Position{
			ID:              uuid.New().String(),
			Name:            name,
			Tags:            tags,
			PlayerPositions: placements,
		})
	}

	return Bundle{
		Positions: positions,
		Scenarios: []sharedtypes.Scenario{},
		Sequences: []sharedtypes.Sequence{},
	}
}
