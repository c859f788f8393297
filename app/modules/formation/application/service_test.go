package formationservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	formationstore "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/store"
	"github.com/Harbor-City-Volleyball/courtplan/app/shared/courtgeom"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

func seedRoster(store *formationstore.Store) {
	store.UpsertPlayer(sharedtypes.Player{ID: "p1", Jersey: "7", Name: "Ada"})
	store.UpsertPlayer(sharedtypes.Player{ID: "p2", Jersey: "9", Name: "Bea"})
}

func TestSavePositionFromCourt(t *testing.T) {
	svc, store, db, _ := newTestService(t)
	seedRoster(store)
	ctx := context.Background()

	store.PlaceToken("p1", 100, 150)
	store.PlaceToken("p2", 200, 250)

	pos, err := svc.SavePositionFromCourt(ctx, "Base Defense", []string{"Rotation 1"})
	if err != nil {
		t.Fatalf("SavePositionFromCourt() error = %v", err)
	}
	if pos.ID == "" {
		t.Error("position was not assigned an id")
	}
	if len(pos.PlayerPositions) != 2 {
		t.Fatalf("snapshot has %d placements, want 2", len(pos.PlayerPositions))
	}
	if pos.PlayerPositions[0].PlayerID != "p1" || pos.PlayerPositions[0].Jersey != "7" {
		t.Errorf("snapshot not joined with player metadata: %+v", pos.PlayerPositions[0])
	}

	if len(db.savedPositions) != 1 {
		t.Fatalf("expected one persisted position, got %d", len(db.savedPositions))
	}

	loaded := store.Loaded()
	if loaded == nil || loaded.Kind != sharedtypes.LoadedPosition || loaded.ID != pos.ID {
		t.Errorf("loaded pointer = %+v, want the saved position", loaded)
	}
	if store.Modified() {
		t.Error("a freshly saved position should be clean")
	}
}

func TestSavePositionFromCourt_Validation(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	seedRoster(store)
	ctx := context.Background()

	if _, err := svc.SavePositionFromCourt(ctx, "  ", nil); !formationdomain.IsValidation(err) {
		t.Errorf("blank name error = %v, want validation error", err)
	}

	if _, err := svc.SavePositionFromCourt(ctx, "Base", nil); err != nil {
		t.Fatalf("SavePositionFromCourt() error = %v", err)
	}
	if _, err := svc.SavePositionFromCourt(ctx, "Base", nil); !formationdomain.IsValidation(err) {
		t.Errorf("duplicate name error = %v, want validation error", err)
	}
}

func TestSavePositionFromCourt_PersistenceFailure(t *testing.T) {
	svc, store, db, _ := newTestService(t)
	seedRoster(store)
	db.savePositionFunc = func(context.Context, sharedtypes.Position, int) error {
		return errors.New("connection refused")
	}

	if _, err := svc.SavePositionFromCourt(context.Background(), "Base", nil); err == nil {
		t.Fatal("expected an error when persistence fails")
	}
	if got := store.Positions(); len(got) != 0 {
		t.Errorf("failed save mutated the store: %+v", got)
	}
	if store.Loaded() != nil {
		t.Error("failed save moved the loaded pointer")
	}
}

func TestDeletePosition_Cascades(t *testing.T) {
	svc, store, db, _ := newTestService(t)
	seedRoster(store)
	ctx := context.Background()

	store.UpsertPosition(sharedtypes.Position{ID: "pos-a", Name: "A"})
	store.UpsertPosition(sharedtypes.Position{ID: "pos-b", Name: "B"})
	store.UpsertScenario(sharedtypes.Scenario{ID: "sc-1", Name: "Rotate", StartPositionID: "pos-a", EndPositionID: "pos-b"})
	store.UpsertSequence(sharedtypes.Sequence{ID: "seq-1", Name: "Set", Items: []sharedtypes.SequenceItem{
		{Type: sharedtypes.ItemTypePosition, ID: "pos-a"},
		{Type: sharedtypes.ItemTypeScenario, ID: "sc-1"},
		{Type: sharedtypes.ItemTypePosition, ID: "pos-b"},
	}})

	if err := svc.DeletePosition(ctx, "pos-a"); err != nil {
		t.Fatalf("DeletePosition() error = %v", err)
	}

	if diff := cmp.Diff([]string{"pos-a"}, db.deletedPositions); diff != "" {
		t.Errorf("persisted position deletes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"sc-1"}, db.deletedScenarios); diff != "" {
		t.Errorf("persisted scenario deletes mismatch (-want +got):\n%s", diff)
	}

	if _, ok := store.ScenarioByID("sc-1"); ok {
		t.Error("referencing scenario survived the cascade")
	}
	seq, _ := store.SequenceByID("seq-1")
	want := []sharedtypes.SequenceItem{{Type: sharedtypes.ItemTypePosition, ID: "pos-b"}}
	if diff := cmp.Diff(want, seq.Items); diff != "" {
		t.Errorf("sequence items mismatch (-want +got):\n%s", diff)
	}
}

func TestDeletePosition_BusyRejection(t *testing.T) {
	svc, store, _, guard := newTestService(t)
	store.UpsertPosition(sharedtypes.Position{ID: "pos-a", Name: "A"})
	guard.busy = true

	if err := svc.DeletePosition(context.Background(), "pos-a"); !errors.Is(err, formationdomain.ErrBusy) {
		t.Errorf("error = %v, want ErrBusy", err)
	}
	if _, ok := store.PositionByID("pos-a"); !ok {
		t.Error("rejected delete still removed the position")
	}
}

func TestSaveScenario(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	store.UpsertPosition(sharedtypes.Position{ID: "pos-a", Name: "A"})
	store.UpsertPosition(sharedtypes.Position{ID: "pos-b", Name: "B"})

	if _, err := svc.SaveScenario(ctx, "", "Rotate", nil); !formationdomain.IsValidation(err) {
		t.Errorf("empty selection error = %v, want validation error", err)
	}

	store.SetScenarioSelection("pos-a", "pos-a")
	if _, err := svc.SaveScenario(ctx, "", "Rotate", nil); !formationdomain.IsValidation(err) {
		t.Errorf("identical endpoints error = %v, want validation error", err)
	}

	store.SetScenarioSelection("pos-a", "pos-b")
	sc, err := svc.SaveScenario(ctx, "", "Rotate", nil)
	if err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}
	if sc.StartPositionID != "pos-a" || sc.EndPositionID != "pos-b" {
		t.Errorf("scenario endpoints = %+v, want selection", sc)
	}
	if store.Modified() {
		t.Error("a freshly saved scenario should be clean")
	}
}

func TestReorderSequenceItems(t *testing.T) {
	svc, store, db, guard := newTestService(t)
	ctx := context.Background()

	store.UpsertPosition(sharedtypes.Position{ID: "pos-a", Name: "A"})
	store.UpsertPosition(sharedtypes.Position{ID: "pos-b", Name: "B"})
	store.UpsertPosition(sharedtypes.Position{ID: "pos-c", Name: "C"})
	store.UpsertSequence(sharedtypes.Sequence{ID: "seq-1", Name: "Set", Items: []sharedtypes.SequenceItem{
		{Type: sharedtypes.ItemTypePosition, ID: "pos-a"},
		{Type: sharedtypes.ItemTypePosition, ID: "pos-b"},
		{Type: sharedtypes.ItemTypePosition, ID: "pos-c"},
	}})

	// Drag the first item onto the back half of the last one.
	seq, err := svc.ReorderSequenceItems(ctx, "seq-1", 0, 2, true)
	if err != nil {
		t.Fatalf("ReorderSequenceItems() error = %v", err)
	}
	want := []sharedtypes.SequenceItem{
		{Type: sharedtypes.ItemTypePosition, ID: "pos-b"},
		{Type: sharedtypes.ItemTypePosition, ID: "pos-c"},
		{Type: sharedtypes.ItemTypePosition, ID: "pos-a"},
	}
	if diff := cmp.Diff(want, seq.Items); diff != "" {
		t.Errorf("reorder mismatch (-want +got):\n%s", diff)
	}
	if len(db.savedSequences) != 1 {
		t.Errorf("reorder was not persisted")
	}

	guard.busy = true
	if _, err := svc.ReorderSequenceItems(ctx, "seq-1", 0, 1, false); !errors.Is(err, formationdomain.ErrBusy) {
		t.Errorf("error during animation = %v, want ErrBusy", err)
	}
}

func TestDropToken(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	seedRoster(store)
	ctx := context.Background()

	// Inside the court clamps into the playable area.
	outcome, err := svc.DropToken(ctx, "p1", 590, 2)
	if err != nil {
		t.Fatalf("DropToken() error = %v", err)
	}
	if !outcome.OnCourt || outcome.X != courtgeom.MaxX || outcome.Y != courtgeom.MinY {
		t.Errorf("outcome = %+v, want clamped placement", outcome)
	}

	// Fully outside removes the token.
	outcome, err = svc.DropToken(ctx, "p1", 700, 700)
	if err != nil {
		t.Fatalf("DropToken() error = %v", err)
	}
	if outcome.OnCourt {
		t.Error("drop outside the court should signal removal")
	}
	if len(store.SnapshotLiveCourt()) != 0 {
		t.Error("token survived an off-court drop")
	}

	if _, err := svc.DropToken(ctx, "ghost", 100, 100); !errors.Is(err, formationdomain.ErrNotFound) {
		t.Errorf("unknown player error = %v, want ErrNotFound", err)
	}
}

func TestImportBundle_Legacy(t *testing.T) {
	svc, store, db, _ := newTestService(t)
	seedRoster(store)
	ctx := context.Background()

	raw := []byte(`{
		"Rotation 1 - Base": [{"playerId": "p1", "jersey": "7", "name": "Ada", "x": 10, "y": 20}],
		"Rotation 2 - Base": []
	}`)

	bundle, err := svc.ImportBundle(ctx, raw)
	if err != nil {
		t.Fatalf("ImportBundle() error = %v", err)
	}
	if len(bundle.Positions) != 2 {
		t.Fatalf("expected 2 migrated positions, got %d", len(bundle.Positions))
	}
	if len(db.imported) != 1 {
		t.Error("bundle was not persisted")
	}
	if got := store.Positions(); len(got) != 2 {
		t.Errorf("store not hydrated from the import: %d positions", len(got))
	}
	// The roster is not part of the bundle and survives the import.
	if got := store.Players(); len(got) != 2 {
		t.Errorf("import disturbed the roster: %+v", got)
	}
}

func TestImportBundle_Invalid(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	store.UpsertPosition(sharedtypes.Position{ID: "pos-a", Name: "A"})

	if _, err := svc.ImportBundle(context.Background(), []byte(`{`)); err == nil {
		t.Fatal("expected an error for malformed input")
	}
	if got := store.Positions(); len(got) != 1 {
		t.Errorf("failed import mutated the store: %+v", got)
	}
}
