package progression

// LevelCost returns the XP needed to go from level to level+1.
func LevelCost(level int) int {
	switch {
	case level <= 5:
		return 1000 * level
	case level <= 10:
		return 5000 + 1500*(level-5)
	default:
		return 12500 + 2000*(level-10)
	}
}

// LevelFor returns the level reached with totalXP and the XP earned
// inside that level.
func LevelFor(totalXP int) (level, intoLevel int) {
	level = 1
	spent := 0
	for spent+LevelCost(level) <= totalXP {
		spent += LevelCost(level)
		level++
	}
	return level, totalXP - spent
}

// DrillDifficulty maps a per-drill level to its difficulty.
func DrillDifficulty(level int) int {
	return min(10, max(1, (level+1)/2))
}
