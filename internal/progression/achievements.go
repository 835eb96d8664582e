package progression

import (
	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/profile"
	"github.com/abhisek/tramind/internal/session"
)

// Achievement is a one-time unlock with an XP reward.
type Achievement struct {
	ID          string
	Title       string
	Description string
	XPReward    int

	unlocked func(c achievementContext) bool
}

// achievementContext is what an unlock rule may inspect: the profile
// after the session was applied and the session's attempt.
type achievementContext struct {
	user    *profile.User
	attempt session.Attempt
}

var achievements = []Achievement{
	{
		ID: "first_session", Title: "First Steps",
		Description: "Complete your first training session", XPReward: 50,
		unlocked: func(c achievementContext) bool { return c.user.TotalSessions >= 1 },
	},
	{
		ID: "week_streak", Title: "Week Warrior",
		Description: "Maintain a 7-day training streak", XPReward: 200,
		unlocked: func(c achievementContext) bool { return c.user.CurrentStreak >= 7 },
	},
	{
		ID: "reflex_master", Title: "Lightning Reflexes",
		Description: "Average under 200ms in a reflex drill", XPReward: 300,
		unlocked: func(c achievementContext) bool {
			r := c.attempt.Metrics.Reflex
			return r != nil && len(r.ReactionTimesMs) > 0 && r.MeanMs < 200
		},
	},
	{
		ID: "discipline_iron", Title: "Iron Discipline",
		Description: "Resist every urge in 10 consecutive impulse sessions", XPReward: 500,
		unlocked: func(c achievementContext) bool { return c.user.PerfectImpulseRun >= 10 },
	},
	{
		ID: "eagle_eye", Title: "Eagle Eye",
		Description: "95% accuracy in the awareness drill", XPReward: 400,
		unlocked: func(c achievementContext) bool {
			a := c.attempt.Metrics.Awareness
			return a != nil && a.TotalTargets > 0 && a.Accuracy >= 0.95
		},
	},
	{
		ID: "zen_master", Title: "Zen Master",
		Description: "Stay on target for 120 seconds straight", XPReward: 1000,
		unlocked: func(c achievementContext) bool {
			f := c.attempt.Metrics.Focus
			return f != nil && f.LongestStreakSeconds >= 120
		},
	},
	{
		ID: "month_streak", Title: "Monthly Monk",
		Description: "Maintain a 30-day training streak", XPReward: 1000,
		unlocked: func(c achievementContext) bool { return c.user.CurrentStreak >= 30 },
	},
	{
		ID: "level_10", Title: "Mind Athlete",
		Description: "Reach level 10", XPReward: 500,
		unlocked: func(c achievementContext) bool { return c.user.Level >= 10 },
	},
	{
		ID: "hundred_sessions", Title: "Centurion",
		Description: "Complete 100 sessions", XPReward: 750,
		unlocked: func(c achievementContext) bool { return c.user.TotalSessions >= 100 },
	},
}

// Achievements returns the catalog.
func Achievements() []Achievement {
	out := make([]Achievement, len(achievements))
	copy(out, achievements)
	return out
}

// LookupAchievement returns the catalog entry for id.
func LookupAchievement(id string) (Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// unlockAchievements unlocks every achievement whose rule now holds and
// returns the new ones. Each achievement unlocks at most once.
func unlockAchievements(u *profile.User, a session.Attempt, today profile.Day) []Achievement {
	ctx := achievementContext{user: u, attempt: a}
	var unlocked []Achievement
	for _, def := range achievements {
		if u.HasAchievement(def.ID) || !def.unlocked(ctx) {
			continue
		}
		u.Achievements = append(u.Achievements, profile.Achievement{ID: def.ID, UnlockedAt: today})
		unlocked = append(unlocked, def)
	}
	return unlocked
}

// perfectImpulse reports whether the attempt resisted every round.
func perfectImpulse(a session.Attempt) bool {
	i := a.Metrics.Impulse
	return a.DrillID == drill.Impulse && i != nil && i.TotalRounds > 0 && i.RoundsResisted == i.TotalRounds
}
