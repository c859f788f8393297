package sharedtypes

// Player is a rostered player. Jersey numbers are unique across the roster.
type Player struct {
	ID     string `json:"id"`
	Jersey string `json:"jersey"`
	Name   string `json:"name"`
}

// Coord is an on-court placement in the 600x600 logical space.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PlacedPlayer is one player's placement inside a saved Position, joined
// with the player metadata that was current at save time.
type PlacedPlayer struct {
	PlayerID string `json:"playerId"`
	Jersey   string `json:"jersey"`
	Name     string `json:"name"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// Position is a named snapshot of every player's court placement.
type Position struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Tags            []string       `json:"tags"`
	PlayerPositions []PlacedPlayer `json:"playerPositions"`
}

// Scenario is a named start->end pair of Positions, one rotation.
type Scenario struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	StartPositionID string   `json:"startPositionId"`
	EndPositionID   string   `json:"endPositionId"`
	Tags            []string `json:"tags"`
}

// ItemType tags a SequenceItem as a position or scenario reference.
type ItemType string

const (
	ItemTypePosition ItemType = "position"
	ItemTypeScenario ItemType = "scenario"
)

// SequenceItem references a position or scenario by id. The same id may
// appear more than once in a sequence; items are addressed by list
// position, never by id.
type SequenceItem struct {
	Type ItemType `json:"type"`
	ID   string   `json:"id"`
}

// Sequence is an ordered list mixing position and scenario references.
type Sequence struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Items []SequenceItem `json:"items"`
}

// LoadedKind names which entity kind is active in the editor.
type LoadedKind string

const (
	LoadedPosition LoadedKind = "position"
	LoadedScenario LoadedKind = "scenario"
	LoadedSequence LoadedKind = "sequence"
)

// LoadedItem points at whichever entity is currently active in the editor.
// An empty ID marks an unsaved item (e.g. two positions dropped into the
// scenario slots but never named and saved); unsaved items are always
// considered modified.
type LoadedItem struct {
	Kind LoadedKind `json:"kind"`
	ID   string     `json:"id"`
	Name string     `json:"name"`
}
