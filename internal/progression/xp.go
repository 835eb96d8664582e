package progression

// XP constants.
const (
	StarXP          = 20
	StreakXPPerDay  = 50
	MaxStreakBonus  = 500
	DailyGoalBonus  = 100
	DailyGoalDrills = 3 // distinct drills
	DailyGoalPerDay = 2 // sessions per drill
)

// SessionXP is the XP for one session before the streak bonus:
// floor((floor(score/10) + stars*20) * (1 + difficulty/10)).
func SessionXP(score, stars, difficulty int) int {
	base := max(0, score)/10 + stars*StarXP
	return base * (10 + difficulty) / 10
}

// StreakBonus is the flat bonus for the current streak.
func StreakBonus(streak int) int {
	return min(MaxStreakBonus, max(0, streak)*StreakXPPerDay)
}

// XP is the full session award.
func XP(score, stars, difficulty, streak int) int {
	return SessionXP(score, stars, difficulty) + StreakBonus(streak)
}
