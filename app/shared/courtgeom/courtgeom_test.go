package courtgeom

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
	}{
		{"inside untouched", 120, 300, 120, 300},
		{"overshoot both axes", 700, -10, 550, 4},
		{"left of court", -40, 200, 0, 200},
		{"above net line", 200, 0, 200, 4},
		{"bottom right corner", 600, 600, 550, 550},
		{"exact bounds kept", 550, 550, 550, 550},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := Clamp(tt.x, tt.y)
			if gotX != tt.wantX || gotY != tt.wantY {
				t.Errorf("Clamp(%d, %d) = (%d, %d), want (%d, %d)",
					tt.x, tt.y, gotX, gotY, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestResolveDrop(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		onCourt bool
		wantX   int
		wantY   int
	}{
		{"in bounds", 100, 100, true, 100, 100},
		{"in court but past token bound clamps", 580, 580, true, 550, 550},
		{"fully outside right", 700, 300, false, 0, 0},
		{"fully outside top", 300, -10, false, 0, 0},
		{"fully outside both", 900, 900, false, 0, 0},
		{"edge of court still on court", 600, 600, true, 550, 550},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveDrop(tt.x, tt.y)
			if got.OnCourt != tt.onCourt {
				t.Fatalf("ResolveDrop(%d, %d).OnCourt = %v, want %v", tt.x, tt.y, got.OnCourt, tt.onCourt)
			}
			if got.OnCourt && (got.X != tt.wantX || got.Y != tt.wantY) {
				t.Errorf("ResolveDrop(%d, %d) = (%d, %d), want (%d, %d)",
					tt.x, tt.y, got.X, got.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPercentRoundTrip(t *testing.T) {
	for v := 0; v <= CourtSize; v += 7 {
		got := FromPercent(ToPercent(v))
		diff := got - v
		if diff < -1 || diff > 1 {
			t.Errorf("round trip of %d drifted to %d", v, got)
		}
	}
}
