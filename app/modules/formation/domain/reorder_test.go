package formationdomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMove(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		from  int
		to    int
		want  []string
	}{
		{
			name:  "move forward",
			items: []string{"A", "B", "C", "D"},
			from:  0,
			to:    2,
			want:  []string{"B", "C", "A", "D"},
		},
		{
			name:  "move backward",
			items: []string{"A", "B", "C", "D"},
			from:  3,
			to:    1,
			want:  []string{"A", "D", "B", "C"},
		},
		{
			name:  "move to same index is a no-op",
			items: []string{"A", "B", "C"},
			from:  1,
			to:    1,
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "from out of range leaves list untouched",
			items: []string{"A", "B"},
			from:  5,
			to:    0,
			want:  []string{"A", "B"},
		},
		{
			name:  "to out of range leaves list untouched",
			items: []string{"A", "B"},
			from:  0,
			to:    -1,
			want:  []string{"A", "B"},
		},
		{
			name:  "duplicate entries move by list position",
			items: []string{"X", "X", "Y"},
			from:  2,
			to:    0,
			want:  []string{"Y", "X", "X"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := append([]string(nil), tt.items...)
			got := Move(tt.items, tt.from, tt.to)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Move() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(original, tt.items); diff != "" {
				t.Errorf("Move() mutated its input (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInsertionIndex(t *testing.T) {
	tests := []struct {
		name      string
		from      int
		dropIndex int
		after     bool
		want      int
	}{
		{name: "drop before a later element adjusts down", from: 0, dropIndex: 2, after: false, want: 1},
		{name: "drop after a later element", from: 0, dropIndex: 2, after: true, want: 2},
		{name: "drop before an earlier element", from: 3, dropIndex: 1, after: false, want: 1},
		{name: "drop after an earlier element", from: 3, dropIndex: 1, after: true, want: 2},
		{name: "drop on itself", from: 2, dropIndex: 2, after: false, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsertionIndex(tt.from, tt.dropIndex, tt.after); got != tt.want {
				t.Errorf("InsertionIndex(%d, %d, %v) = %d, want %d", tt.from, tt.dropIndex, tt.after, got, tt.want)
			}
		})
	}
}
