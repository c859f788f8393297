package formationdomain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

func TestParseBundle_CurrentShape(t *testing.T) {
	want := Bundle{
		Positions: []sharedtypes.Position{
			{ID: "pos-1", Name: "Base Defense", PlayerPositions: []sharedtypes.PlacedPlayer{
				{PlayerID: "p1", Jersey: "7", Name: "Ada", X: 100, Y: 150},
			}},
		},
		Scenarios: []sharedtypes.Scenario{
			{ID: "sc-1", Name: "Rotate", StartPositionID: "pos-1", EndPositionID: "pos-1"},
		},
		Sequences: []sharedtypes.Sequence{
			{ID: "seq-1", Name: "Set One", Items: []sharedtypes.SequenceItem{
				{Type: sharedtypes.ItemTypePosition, ID: "pos-1"},
			}},
		},
	}

	raw, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ParseBundle(raw)
	if err != nil {
		t.Fatalf("ParseBundle() error = %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ParseBundle() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBundle_LegacyShape(t *testing.T) {
	raw := []byte(`{
		"Rotation 2 - Serve Receive": [
			{"playerId": "p1", "jersey": "7", "name": "Ada", "x": 120, "y": 340}
		],
		"Rotation 1 - Serve Receive": [
			{"playerId": "p2", "jersey": "9", "name": "Bea", "x": 60, "y": 80}
		],
		"Free Ball": []
	}`)

	got, err := ParseBundle(raw)
	if err != nil {
		t.Fatalf("ParseBundle() error = %v", err)
	}

	if len(got.Positions) != 3 {
		t.Fatalf("expected 3 migrated positions, got %d", len(got.Positions))
	}

	// Map iteration is random; migration output must be name-sorted.
	wantNames := []string{"Free Ball", "Rotation 1 - Serve Receive", "Rotation 2 - Serve Receive"}
	for i, name := range wantNames {
		if got.Positions[i].Name != name {
			t.Errorf("position %d name = %q, want %q", i, got.Positions[i].Name, name)
		}
		if got.Positions[i].ID == "" {
			t.Errorf("position %d was not assigned an id", i)
		}
	}

	if tags := got.Positions[1].Tags; len(tags) != 1 || tags[0] != "Rotation 1" {
		t.Errorf("expected rotation prefix tag, got %v", got.Positions[1].Tags)
	}
	if tags := got.Positions[0].Tags; len(tags) != 0 {
		t.Errorf("expected no tag for unprefixed name, got %v", tags)
	}

	placements := got.Positions[2].PlayerPositions
	if len(placements) != 1 || placements[0].PlayerID != "p1" || placements[0].X != 120 {
		t.Errorf("placements were not carried over: %+v", placements)
	}

	if len(got.Scenarios) != 0 || len(got.Sequences) != 0 {
		t.Errorf("legacy migration should start scenarios and sequences empty")
	}
}

func TestParseBundle_MigrationIsIdempotent(t *testing.T) {
	legacy := []byte(`{"Rotation 1 - Base": [{"playerId": "p1", "jersey": "7", "name": "Ada", "x": 10, "y": 20}]}`)

	once, err := ParseBundle(legacy)
	if err != nil {
		t.Fatalf("first ParseBundle() error = %v", err)
	}

	reencoded, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	twice, err := ParseBundle(reencoded)
	if err != nil {
		t.Fatalf("second ParseBundle() error = %v", err)
	}
	if diff := cmp.Diff(once, twice, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("re-parsing migrated data changed it (-first +second):\n%s", diff)
	}
}

func TestParseBundle_InvalidJSON(t *testing.T) {
	if _, err := ParseBundle([]byte(`{`)); err == nil {
		t.Error("expected an error for malformed input")
	}
}
