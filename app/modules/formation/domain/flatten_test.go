package formationdomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

func TestFlatten(t *testing.T) {
	scenarios := []sharedtypes.Scenario{
		{ID: "sc-1", Name: "Serve to Receive", StartPositionID: "pos-a", EndPositionID: "pos-b"},
		{ID: "sc-2", Name: "Rotate", StartPositionID: "pos-b", EndPositionID: "pos-c"},
	}

	tests := []struct {
		name string
		seq  sharedtypes.Sequence
		want []Step
	}{
		{
			name: "empty sequence flattens to nothing",
			seq:  sharedtypes.Sequence{ID: "seq-1"},
			want: nil,
		},
		{
			name: "position item becomes one step",
			seq: sharedtypes.Sequence{
				ID: "seq-1",
				Items: []sharedtypes.SequenceItem{
					{Type: sharedtypes.ItemTypePosition, ID: "pos-a"},
				},
			},
			want: []Step{
				{PositionID: "pos-a", ItemIndex: 0, Role: RolePosition},
			},
		},
		{
			name: "scenario item becomes two steps sharing the item index",
			seq: sharedtypes.Sequence{
				ID: "seq-1",
				Items: []sharedtypes.SequenceItem{
					{Type: sharedtypes.ItemTypeScenario, ID: "sc-1"},
				},
			},
			want: []Step{
				{PositionID: "pos-a", ItemIndex: 0, Role: RoleScenarioStart, ScenarioID: "sc-1"},
				{PositionID: "pos-b", ItemIndex: 0, Role: RoleScenarioEnd, ScenarioID: "sc-1"},
			},
		},
		{
			name: "mixed items keep source ordering",
			seq: sharedtypes.Sequence{
				ID: "seq-1",
				Items: []sharedtypes.SequenceItem{
					{Type: sharedtypes.ItemTypePosition, ID: "pos-a"},
					{Type: sharedtypes.ItemTypeScenario, ID: "sc-2"},
					{Type: sharedtypes.ItemTypePosition, ID: "pos-c"},
				},
			},
			want: []Step{
				{PositionID: "pos-a", ItemIndex: 0, Role: RolePosition},
				{PositionID: "pos-b", ItemIndex: 1, Role: RoleScenarioStart, ScenarioID: "sc-2"},
				{PositionID: "pos-c", ItemIndex: 1, Role: RoleScenarioEnd, ScenarioID: "sc-2"},
				{PositionID: "pos-c", ItemIndex: 2, Role: RolePosition},
			},
		},
		{
			name: "unresolvable scenario reference is skipped",
			seq: sharedtypes.Sequence{
				ID: "seq-1",
				Items: []sharedtypes.SequenceItem{
					{Type: sharedtypes.ItemTypeScenario, ID: "sc-gone"},
					{Type: sharedtypes.ItemTypePosition, ID: "pos-a"},
				},
			},
			want: []Step{
				{PositionID: "pos-a", ItemIndex: 1, Role: RolePosition},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(tt.seq, scenarios)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
