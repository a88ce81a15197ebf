package tower

// Scaling contains difficulty scaling formulas for tower floors

// ScalePercentPerFloor is how much every enemy stat grows per floor above the first.
const ScalePercentPerFloor = 8

// FloorsPerRosterStep is how many floors share one roster entry.
const FloorsPerRosterStep = 2

// ScaleFactor returns the stat multiplier for a floor.
// Formula: 1 + (floor - 1) * 0.08
func ScaleFactor(floor int) float64 {
	if floor <= 1 {
		return 1.0
	}
	return 1.0 + float64(floor-1)*ScalePercentPerFloor/100
}

// ScaleStat scales a base enemy stat to a floor, rounding down.
// Integer arithmetic avoids float rounding below whole values.
func ScaleStat(base, floor int) int {
	if floor <= 1 {
		return base
	}
	return base * (100 + (floor-1)*ScalePercentPerFloor) / 100
}

// RosterIndex returns which roster entry fights on a floor. A stronger enemy
// unlocks every FloorsPerRosterStep floors, capped at the last entry.
func RosterIndex(floor, rosterSize int) int {
	if rosterSize <= 0 {
		return -1
	}
	if floor < 1 {
		floor = 1
	}
	return min(rosterSize-1, (floor-1)/FloorsPerRosterStep)
}

// IsFinalTier returns true once the floor has reached the strongest roster entry.
func IsFinalTier(floor, rosterSize int) bool {
	return rosterSize > 0 && RosterIndex(floor, rosterSize) == rosterSize-1
}
