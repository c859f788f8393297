package rosterservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	formationdomain "github.com/Harbor-City-Volleyball/courtplan/app/modules/formation/domain"
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

func TestCreatePlayer(t *testing.T) {
	svc, store, playerDB, _ := newTestService(t)
	ctx := context.Background()

	player, err := svc.CreatePlayer(ctx, " 7 ", " Ada ")
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}
	if player.Jersey != "7" || player.Name != "Ada" {
		t.Errorf("inputs not trimmed: %+v", player)
	}
	if player.ID == "" {
		t.Error("player was not assigned an id")
	}

	if len(playerDB.saved) != 1 {
		t.Fatalf("expected 1 persisted player, got %d", len(playerDB.saved))
	}
	if got := store.Players(); len(got) != 1 || got[0].ID != player.ID {
		t.Errorf("store roster = %+v, want the created player", got)
	}
}

func TestCreatePlayer_Validation(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreatePlayer(ctx, "", "Ada"); !formationdomain.IsValidation(err) {
		t.Errorf("missing jersey error = %v, want validation error", err)
	}
	if _, err := svc.CreatePlayer(ctx, "7", ""); !formationdomain.IsValidation(err) {
		t.Errorf("missing name error = %v, want validation error", err)
	}

	if _, err := svc.CreatePlayer(ctx, "7", "Ada"); err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}
	if _, err := svc.CreatePlayer(ctx, "7", "Bea"); !formationdomain.IsValidation(err) {
		t.Errorf("duplicate jersey error = %v, want validation error", err)
	}

	if got := store.Players(); len(got) != 1 {
		t.Errorf("rejected creations reached the store: %+v", got)
	}
}

func TestCreatePlayer_PersistenceFailureLeavesStoreUnchanged(t *testing.T) {
	svc, store, playerDB, _ := newTestService(t)
	playerDB.saveFunc = func(context.Context, sharedtypes.Player, int) error {
		return errors.New("connection refused")
	}

	if _, err := svc.CreatePlayer(context.Background(), "7", "Ada"); err == nil {
		t.Fatal("expected an error when persistence fails")
	}
	if got := store.Players(); len(got) != 0 {
		t.Errorf("failed create mutated the store: %+v", got)
	}
}

func TestUpdatePlayer(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePlayer(ctx, "7", "Ada")
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}

	updated, err := svc.UpdatePlayer(ctx, created.ID, "12", "Ada Q")
	if err != nil {
		t.Fatalf("UpdatePlayer() error = %v", err)
	}
	if updated.Jersey != "12" || updated.Name != "Ada Q" {
		t.Errorf("update not applied: %+v", updated)
	}
	if got, _ := store.PlayerByID(created.ID); got.Jersey != "12" {
		t.Errorf("store not updated: %+v", got)
	}

	if _, err := svc.UpdatePlayer(ctx, "ghost", "1", "X"); !errors.Is(err, formationdomain.ErrNotFound) {
		t.Errorf("unknown player error = %v, want ErrNotFound", err)
	}
}

func TestDeletePlayer_Cascades(t *testing.T) {
	svc, store, playerDB, positionDB := newTestService(t)
	ctx := context.Background()

	doomed, err := svc.CreatePlayer(ctx, "7", "Ada")
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}
	keeper, err := svc.CreatePlayer(ctx, "9", "Bea")
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}

	store.UpsertPosition(sharedtypes.Position{
		ID:   "pos-1",
		Name: "Base",
		PlayerPositions: []sharedtypes.PlacedPlayer{
			{PlayerID: doomed.ID, X: 100, Y: 100},
			{PlayerID: keeper.ID, X: 200, Y: 200},
		},
	})
	store.PlaceToken(doomed.ID, 50, 50)

	if err := svc.DeletePlayer(ctx, doomed.ID); err != nil {
		t.Fatalf("DeletePlayer() error = %v", err)
	}

	if diff := cmp.Diff([]string{doomed.ID}, playerDB.deleted); diff != "" {
		t.Errorf("deleted ids mismatch (-want +got):\n%s", diff)
	}
	if len(positionDB.saved) != 1 || len(positionDB.saved[0]) != 1 {
		t.Fatalf("expected one pruned position write, got %+v", positionDB.saved)
	}
	if got := positionDB.saved[0][0].PlayerPositions; len(got) != 1 || got[0].PlayerID != keeper.ID {
		t.Errorf("persisted placements not pruned: %+v", got)
	}

	pos, _ := store.PositionByID("pos-1")
	if len(pos.PlayerPositions) != 1 {
		t.Errorf("store placements not pruned: %+v", pos.PlayerPositions)
	}
	if len(store.SnapshotLiveCourt()) != 0 {
		t.Error("live token survived the delete")
	}
}

func TestDeletePlayer_PersistenceFailureLeavesStoreUnchanged(t *testing.T) {
	svc, store, _, positionDB := newTestService(t)
	ctx := context.Background()

	player, err := svc.CreatePlayer(ctx, "7", "Ada")
	if err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}
	store.UpsertPosition(sharedtypes.Position{
		ID:   "pos-1",
		Name: "Base",
		PlayerPositions: []sharedtypes.PlacedPlayer{
			{PlayerID: player.ID, X: 100, Y: 100},
		},
	})

	positionDB.saveFunc = func(context.Context, []sharedtypes.Position) error {
		return errors.New("connection refused")
	}

	if err := svc.DeletePlayer(ctx, player.ID); err == nil {
		t.Fatal("expected an error when persistence fails")
	}

	if _, ok := store.PlayerByID(player.ID); !ok {
		t.Error("player removed despite persistence failure")
	}
	pos, _ := store.PositionByID("pos-1")
	if len(pos.PlayerPositions) != 1 {
		t.Error("placements pruned despite persistence failure")
	}
}

func TestReorderPlayers(t *testing.T) {
	svc, store, playerDB, _ := newTestService(t)
	ctx := context.Background()

	var ids []string
	for _, p := range []struct{ jersey, name string }{{"1", "A"}, {"2", "B"}, {"3", "C"}, {"4", "D"}} {
		created, err := svc.CreatePlayer(ctx, p.jersey, p.name)
		if err != nil {
			t.Fatalf("CreatePlayer() error = %v", err)
		}
		ids = append(ids, created.ID)
	}

	reordered, err := svc.ReorderPlayers(ctx, 0, 2)
	if err != nil {
		t.Fatalf("ReorderPlayers() error = %v", err)
	}

	want := []string{ids[1], ids[2], ids[0], ids[3]}
	got := make([]string, len(reordered))
	for i, p := range reordered {
		got[i] = p.ID
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reorder mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, playerDB.savedOrder); diff != "" {
		t.Errorf("persisted order mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.ReorderPlayers(ctx, 0, 9); !formationdomain.IsValidation(err) {
		t.Errorf("out-of-range reorder error = %v, want validation error", err)
	}
	if got := store.Players(); got[0].ID != ids[1] {
		t.Errorf("store order not updated: %+v", got)
	}
}
