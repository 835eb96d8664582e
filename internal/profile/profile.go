// Package profile defines the persistent user profile: global XP, level
// and streak state, one entry per drill, unlocked achievements and the
// daily-activity log. The progression engine is the only writer.
package profile

import (
	"math"
	"slices"

	"github.com/abhisek/tramind/internal/drill"
)

const (
	// RecentScoresCap bounds Drill.RecentScores.
	RecentScoresCap = 10
	// AppliedSessionsCap bounds the remembered applied session ids.
	AppliedSessionsCap = 200
	// MinDifficulty and MaxDifficulty bound Drill.Difficulty.
	MinDifficulty = 1
	MaxDifficulty = 10
)

// User is the profile of the single local user.
type User struct {
	TotalXP             int `json:"totalXp"`
	Level               int `json:"level"`
	CurrentLevelXP      int `json:"currentLevelXp"`
	CurrentStreak       int `json:"currentStreak"`
	LongestStreak       int `json:"longestStreak"`
	FreezeDaysAvailable int `json:"freezeDaysAvailable"`
	LastActiveDate      Day `json:"lastActiveDate,omitempty"`
	SessionsToday       int `json:"sessionsToday"`
	TotalSessions       int `json:"totalSessions"`

	// DailyGoalDate is the last day the daily goal bonus was awarded.
	DailyGoalDate Day `json:"dailyGoalDate,omitempty"`
	// PerfectImpulseRun counts consecutive impulse sessions with every
	// round resisted.
	PerfectImpulseRun int `json:"perfectImpulseRun"`

	Drills       []Drill       `json:"drills"`
	Achievements []Achievement `json:"achievements"`
	// AppliedSessions holds the most recent applied session ids, oldest
	// first.
	AppliedSessions []string `json:"appliedSessions"`
}

// Drill is the per-drill progress entry.
type Drill struct {
	DrillID               drill.ID `json:"drillId"`
	SessionsCompleted     int      `json:"sessionsCompleted"`
	BestScore             int      `json:"bestScore"`
	AverageScore          float64  `json:"averageScore"`
	TotalScore            int      `json:"totalScore"`
	TotalTimeSpentSeconds int      `json:"totalTimeSpentSeconds"`
	Difficulty            int      `json:"difficulty"`
	Level                 int      `json:"level"`
	LastPlayedDate        Day      `json:"lastPlayedDate,omitempty"`
	RecentScores          []int    `json:"recentScores"`
}

// Achievement records an unlocked achievement.
type Achievement struct {
	ID         string `json:"id"`
	UnlockedAt Day    `json:"unlockedAt"`
}

// NewDrill returns the starting entry for drill id.
func NewDrill(id drill.ID) Drill {
	return Drill{
		DrillID:      id,
		Difficulty:   MinDifficulty,
		Level:        1,
		RecentScores: []int{},
	}
}

// Default returns the profile of a brand-new user.
func Default() User {
	u := User{
		Level:           1,
		Drills:          []Drill{},
		Achievements:    []Achievement{},
		AppliedSessions: []string{},
	}
	u.Backfill()
	return u
}

// Drill returns the entry for id, or nil.
func (u *User) Drill(id drill.ID) *Drill {
	for i := range u.Drills {
		if u.Drills[i].DrillID == id {
			return &u.Drills[i]
		}
	}
	return nil
}

// HasAchievement reports whether id is unlocked.
func (u *User) HasAchievement(id string) bool {
	return slices.ContainsFunc(u.Achievements, func(a Achievement) bool { return a.ID == id })
}

// Applied reports whether the session id was already applied.
func (u *User) Applied(id string) bool {
	return slices.Contains(u.AppliedSessions, id)
}

// MarkApplied remembers the session id, evicting the oldest ids beyond
// AppliedSessionsCap.
func (u *User) MarkApplied(id string) {
	u.AppliedSessions = append(u.AppliedSessions, id)
	if over := len(u.AppliedSessions) - AppliedSessionsCap; over > 0 {
		u.AppliedSessions = slices.Clone(u.AppliedSessions[over:])
	}
}

// Backfill repairs a loaded profile: it adds default entries for missing
// drills, drops duplicate or unknown drill entries and restores the
// numeric invariants. It returns the ids of the drills it added.
func (u *User) Backfill() []drill.ID {
	if u.Level < 1 {
		u.Level = 1
	}
	u.LongestStreak = max(u.LongestStreak, u.CurrentStreak)
	if u.Achievements == nil {
		u.Achievements = []Achievement{}
	}
	if u.AppliedSessions == nil {
		u.AppliedSessions = []string{}
	}

	seen := make(map[drill.ID]bool, len(u.Drills))
	kept := make([]Drill, 0, len(drill.IDs()))
	for _, d := range u.Drills {
		if !d.DrillID.Valid() || seen[d.DrillID] {
			continue
		}
		seen[d.DrillID] = true
		d.repair()
		kept = append(kept, d)
	}

	var added []drill.ID
	for _, id := range drill.IDs() {
		if !seen[id] {
			kept = append(kept, NewDrill(id))
			added = append(added, id)
		}
	}
	u.Drills = kept
	return added
}

func (d *Drill) repair() {
	d.Difficulty = min(MaxDifficulty, max(MinDifficulty, d.Difficulty))
	if d.Level < 1 {
		d.Level = 1
	}
	// Entries written before the running total existed.
	if d.TotalScore == 0 && d.SessionsCompleted > 0 {
		d.TotalScore = int(math.Round(d.AverageScore * float64(d.SessionsCompleted)))
	}
	if d.RecentScores == nil {
		d.RecentScores = []int{}
	}
	if over := len(d.RecentScores) - RecentScoresCap; over > 0 {
		d.RecentScores = slices.Clone(d.RecentScores[over:])
	}
}

// PushScore appends score to the recent window, evicting the oldest score
// on overflow.
func (d *Drill) PushScore(score int) {
	d.RecentScores = append(d.RecentScores, score)
	if over := len(d.RecentScores) - RecentScoresCap; over > 0 {
		d.RecentScores = slices.Clone(d.RecentScores[over:])
	}
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	c := u
	c.Drills = make([]Drill, len(u.Drills))
	for i, d := range u.Drills {
		d.RecentScores = slices.Clone(d.RecentScores)
		c.Drills[i] = d
	}
	c.Achievements = slices.Clone(u.Achievements)
	c.AppliedSessions = slices.Clone(u.AppliedSessions)
	return c
}
