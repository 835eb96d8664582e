package profile

import (
	"slices"

	"github.com/abhisek/tramind/internal/drill"
)

// RetentionDays is how long daily activity is kept.
const RetentionDays = 90

// DailyActivity aggregates one calendar day.
type DailyActivity struct {
	Date              Day              `json:"date"`
	SessionsCompleted int              `json:"sessionsCompleted"`
	PointsEarned      int              `json:"pointsEarned"`
	DrillsCompleted   []drill.ID       `json:"drillsCompleted"`
	DrillSessions     map[drill.ID]int `json:"drillSessions"`
}

// Activity is the daily-activity log, oldest day first, at most one entry
// per day.
type Activity []DailyActivity

// Day returns the entry for day, or nil.
func (a Activity) Day(day Day) *DailyActivity {
	for i := range a {
		if a[i].Date == day {
			return &a[i]
		}
	}
	return nil
}

// Record merges one completed session into the entry for day, creating
// the entry if needed, and prunes entries older than RetentionDays
// relative to day.
func (a Activity) Record(day Day, id drill.ID, points int) Activity {
	out := slices.Clone(a)
	entry := out.Day(day)
	if entry == nil {
		out = append(out, DailyActivity{Date: day, DrillsCompleted: []drill.ID{}, DrillSessions: map[drill.ID]int{}})
		entry = &out[len(out)-1]
	} else {
		// Detach the entry's reference fields from a.
		entry.DrillsCompleted = slices.Clone(entry.DrillsCompleted)
		sessions := make(map[drill.ID]int, len(entry.DrillSessions)+1)
		for k, v := range entry.DrillSessions {
			sessions[k] = v
		}
		entry.DrillSessions = sessions
	}

	entry.SessionsCompleted++
	entry.PointsEarned += points
	if !slices.Contains(entry.DrillsCompleted, id) {
		entry.DrillsCompleted = append(entry.DrillsCompleted, id)
		slices.Sort(entry.DrillsCompleted)
	}
	entry.DrillSessions[id]++

	return out.Prune(day)
}

// AddPoints adds bonus points to an existing entry for day.
func (a Activity) AddPoints(day Day, points int) Activity {
	out := slices.Clone(a)
	if entry := out.Day(day); entry != nil {
		entry.PointsEarned += points
	}
	return out
}

// Prune drops entries more than RetentionDays before today and any entry
// whose date does not parse, and sorts the rest by date.
func (a Activity) Prune(today Day) Activity {
	cutoff := today.AddDays(-RetentionDays)
	out := make(Activity, 0, len(a))
	for _, e := range a {
		if _, err := e.Date.Time(); err != nil {
			continue
		}
		if e.Date < cutoff {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(x, y DailyActivity) int {
		switch {
		case x.Date < y.Date:
			return -1
		case x.Date > y.Date:
			return 1
		}
		return 0
	})
	return out
}

// Last returns the entries for the n days ending at today, oldest first.
// Days without activity are returned as empty entries.
func (a Activity) Last(today Day, n int) []DailyActivity {
	out := make([]DailyActivity, n)
	for i := 0; i < n; i++ {
		day := today.AddDays(i - n + 1)
		if e := a.Day(day); e != nil {
			out[i] = *e
		} else {
			out[i] = DailyActivity{Date: day}
		}
	}
	return out
}
