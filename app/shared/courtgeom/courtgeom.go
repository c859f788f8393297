// Package courtgeom converts between the fixed 600x600 logical court space
// and the responsive presentation units the board uses, and enforces the
// spatial bounds a token placement must satisfy.
package courtgeom

import "math"

const (
	// CourtSize is the side length of the logical court space.
	CourtSize = 600
	// TokenSize is the footprint of one player token in logical units.
	TokenSize = 50

	// MinX and MaxX bound a token's x coordinate. MaxX accounts for the
	// token footprint so the token never overhangs the right boundary.
	MinX = 0
	MaxX = CourtSize - TokenSize

	// MinY keeps tokens below the net line; MaxY keeps them above the
	// bottom boundary.
	MinY = 4
	MaxY = CourtSize - TokenSize
)

// Clamp forces a coordinate pair into the playable area.
func Clamp(x, y int) (int, int) {
	if x < MinX {
		x = MinX
	}
	if x > MaxX {
		x = MaxX
	}
	if y < MinY {
		y = MinY
	}
	if y > MaxY {
		y = MaxY
	}
	return x, y
}

// DropOutcome is the result of resolving a raw drop coordinate.
type DropOutcome struct {
	X, Y int
	// OnCourt is false when the drop landed fully outside the court, which
	// means "remove the token" rather than a clamped placement.
	OnCourt bool
}

// ResolveDrop decides what a raw drop coordinate means. A drop anywhere
// inside the 600x600 space is clamped into the playable area; a drop fully
// outside the court signals removal.
func ResolveDrop(x, y int) DropOutcome {
	if x < 0 || x > CourtSize || y < 0 || y > CourtSize {
		return DropOutcome{OnCourt: false}
	}
	cx, cy := Clamp(x, y)
	return DropOutcome{X: cx, Y: cy, OnCourt: true}
}

// ToPercent converts a logical coordinate to a percentage of the court so
// the same saved Position renders correctly at any viewport size.
func ToPercent(v int) float64 {
	return float64(v) / CourtSize * 100
}

// FromPercent converts a percentage back to the logical space. The round
// trip FromPercent(ToPercent(v)) holds within +/-1 unit.
func FromPercent(p float64) int {
	return int(math.Round(p / 100 * CourtSize))
}
