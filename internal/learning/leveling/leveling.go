// Package leveling maps accumulated XP to levels. Every level spans XPPerLevel points.
package leveling

const XPPerLevel = 100

// LevelForXP returns floor(xp/XPPerLevel)+1; negative xp counts as zero.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// XPForLevel is the total xp at which level starts.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return (level - 1) * XPPerLevel
}

// XPProgressWithinLevel is the fraction of the current level already earned, in [0,1].
func XPProgressWithinLevel(xp, level int) float64 {
	p := float64(xp-XPForLevel(level)) / float64(XPPerLevel)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Award is the outcome of adding xp to a running total.
type Award struct {
	PreviousXP    int
	TotalXP       int
	PreviousLevel int
	Level         int
}

func (a Award) LeveledUp() bool { return a.Level > a.PreviousLevel }

// Apply adds gained to total and relevels. Non-positive gains leave the total unchanged.
func Apply(total, level, gained int) Award {
	out := Award{PreviousXP: total, TotalXP: total, PreviousLevel: level, Level: level}
	if gained <= 0 {
		return out
	}
	out.TotalXP = total + gained
	out.Level = LevelForXP(out.TotalXP)
	return out
}
