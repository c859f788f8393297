package formationdomain

import (
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// PositionDirty compares the live court snapshot against a position's saved
// placements. Dirty when the token counts differ or any token sits at a
// different coordinate than the saved value for the same player. Exact
// integer equality; the comparison is O(tokens) so it can run on every
// pointer-move tick.
func PositionDirty(live, saved []sharedtypes.PlacedPlayer) bool {
	if len(live) != len(saved) {
		return true
	}

	savedByPlayer := make(map[string]sharedtypes.PlacedPlayer, len(saved))
	for _, pp := range saved {
		savedByPlayer[pp.PlayerID] = pp
	}

	for _, pp := range live {
		want, ok := savedByPlayer[pp.PlayerID]
		if !ok {
			return true
		}
		if pp.X != want.X || pp.Y != want.Y {
			return true
		}
	}
	return false
}

// ScenarioDirty compares the drop-zone selections against a scenario's
// saved start/end position ids.
func ScenarioDirty(selectedStart, selectedEnd string, saved sharedtypes.Scenario) bool {
	return selectedStart != saved.StartPositionID || selectedEnd != saved.EndPositionID
}
