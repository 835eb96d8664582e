package progression

import "github.com/abhisek/tramind/internal/profile"

// FreezeEvery is the streak length interval that earns a freeze day.
const FreezeEvery = 7

// StreakChange describes what UpdateStreak did.
type StreakChange int

const (
	StreakUnchanged StreakChange = iota
	StreakStarted
	StreakExtended
	StreakFrozen // a freeze day covered the gap
	StreakReset
)

// UpdateStreak applies one active day to u. A gap of more than one day
// consumes a freeze day when one is banked and otherwise restarts the
// streak at 1. A first-ever session starts the streak at 1.
func UpdateStreak(u *profile.User, today profile.Day) StreakChange {
	change := StreakUnchanged
	days, ok := profile.DaysBetween(u.LastActiveDate, today)
	switch {
	case u.LastActiveDate.IsZero() || !ok:
		u.CurrentStreak = 1
		change = StreakStarted
	case days <= 0:
		// Same day, or the clock went backwards.
	case days == 1:
		u.CurrentStreak++
		if u.CurrentStreak%FreezeEvery == 0 {
			u.FreezeDaysAvailable++
		}
		change = StreakExtended
	case u.FreezeDaysAvailable > 0:
		u.FreezeDaysAvailable--
		change = StreakFrozen
	default:
		u.CurrentStreak = 1
		change = StreakReset
	}

	u.LongestStreak = max(u.LongestStreak, u.CurrentStreak)
	if ok && days < 0 {
		return change
	}
	u.LastActiveDate = today
	return change
}
