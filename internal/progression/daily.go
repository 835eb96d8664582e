package progression

import (
	"time"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/profile"
)

// DailyGoalMet reports whether the day has at least DailyGoalPerDay
// sessions in each of DailyGoalDrills different drills.
func DailyGoalMet(day *profile.DailyActivity) bool {
	if day == nil {
		return false
	}
	n := 0
	for _, count := range day.DrillSessions {
		if count >= DailyGoalPerDay {
			n++
		}
	}
	return n >= DailyGoalDrills
}

// DailyStatus is today's progress against the recommended counts.
type DailyStatus struct {
	Day      profile.Day
	Sessions map[drill.ID]int
	GoalMet  bool
}

// TodayStatus summarizes activity for today.
func TodayStatus(a profile.Activity, today profile.Day) DailyStatus {
	st := DailyStatus{Day: today, Sessions: map[drill.ID]int{}}
	if e := a.Day(today); e != nil {
		for id, n := range e.DrillSessions {
			st.Sessions[id] = n
		}
		st.GoalMet = DailyGoalMet(e)
	}
	return st
}

var quotes = []string{
	"Your mind is a muscle. Train it like one.",
	"Discipline equals freedom.",
	"The only way out is through.",
	"Excellence is a habit, not an act.",
	"Comfort is the enemy of progress.",
	"Every master was once a disaster.",
	"Small daily improvements over time lead to stunning results.",
	"You don't have to be great to start, but you have to start to be great.",
	"The difference between who you are and who you want to be is what you do.",
	"Champions aren't made in the ring, they're made in training.",
	"Embrace the grind. Trust the process.",
	"Your future self will thank you.",
	"Strength comes from overcoming what you thought you couldn't.",
	"Cold, focused, relentless.",
}

// DailyQuote returns the quote of the day. It changes once per day.
func DailyQuote(t time.Time) string {
	return quotes[(t.YearDay()-1)%len(quotes)]
}
