package gamification

import "math"

// LevelForXP maps cumulative XP to a level: floor(sqrt(xp/100)) + 1.
// Monotonic non-decreasing; LevelForXP(0) == 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Sqrt(float64(xp)/100)) + 1
}

// XPFloorForLevel returns the lowest XP total that maps to the given level:
// (level-1)^2 * 100. XPFloorForLevel(level+1) is the next-level threshold.
func XPFloorForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return (level - 1) * (level - 1) * 100
}

// LevelProgress returns the fraction of the way from the current level's XP
// floor to the next level's, clamped to [0,1].
func LevelProgress(xp int) float64 {
	level := LevelForXP(xp)
	floor := XPFloorForLevel(level)
	ceil := XPFloorForLevel(level + 1)
	if ceil <= floor {
		return 0
	}
	frac := float64(xp-floor) / float64(ceil-floor)
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}
