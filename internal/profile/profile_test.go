package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tramind/internal/drill"
)

func TestDefault(t *testing.T) {
	u := Default()
	assert.Equal(t, 1, u.Level)
	assert.Zero(t, u.TotalXP)
	require.Len(t, u.Drills, len(drill.IDs()))
	for _, id := range drill.IDs() {
		d := u.Drill(id)
		require.NotNil(t, d, "drill %s", id)
		assert.Equal(t, 1, d.Difficulty)
		assert.Equal(t, 1, d.Level)
	}
}

func TestBackfill(t *testing.T) {
	u := User{
		CurrentStreak: 4,
		LongestStreak: 2,
		Drills: []Drill{
			{DrillID: drill.Reflex, Difficulty: 14, Level: 0, RecentScores: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
			{DrillID: drill.Reflex, Difficulty: 3},
			{DrillID: "retired", Difficulty: 3},
		},
	}

	added := u.Backfill()

	assert.ElementsMatch(t, []drill.ID{drill.KeyboardReflex, drill.Awareness, drill.Impulse, drill.Focus}, added)
	assert.Len(t, u.Drills, len(drill.IDs()))
	assert.Equal(t, 1, u.Level)
	assert.Equal(t, 4, u.LongestStreak)

	r := u.Drill(drill.Reflex)
	require.NotNil(t, r)
	assert.Equal(t, 10, r.Difficulty)
	assert.Equal(t, 1, r.Level)
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, r.RecentScores)
	assert.Nil(t, u.Drill("retired"))
}

func TestBackfill_RestoresTotalScore(t *testing.T) {
	u := Default()
	d := u.Drill(drill.Focus)
	d.SessionsCompleted = 3
	d.AverageScore = 412.5

	u.Backfill()

	assert.Equal(t, 1238, u.Drill(drill.Focus).TotalScore)
}

func TestPushScore_EvictsOldest(t *testing.T) {
	d := NewDrill(drill.Focus)
	for i := 1; i <= 12; i++ {
		d.PushScore(i * 100)
	}
	assert.Len(t, d.RecentScores, RecentScoresCap)
	assert.Equal(t, 300, d.RecentScores[0])
	assert.Equal(t, 1200, d.RecentScores[9])
}

func TestClone_IsDeep(t *testing.T) {
	u := Default()
	u.Drill(drill.Reflex).PushScore(500)
	u.Achievements = append(u.Achievements, Achievement{ID: "first_session"})

	c := u.Clone()
	c.Drill(drill.Reflex).RecentScores[0] = 1
	c.Drill(drill.Reflex).BestScore = 999
	c.Achievements[0].ID = "changed"

	assert.Equal(t, 500, u.Drill(drill.Reflex).RecentScores[0])
	assert.Zero(t, u.Drill(drill.Reflex).BestScore)
	assert.Equal(t, "first_session", u.Achievements[0].ID)
}

func TestMarkApplied(t *testing.T) {
	u := Default()
	for i := 0; i < AppliedSessionsCap+5; i++ {
		u.MarkApplied(fmt.Sprintf("session-%d", i))
	}
	assert.Len(t, u.AppliedSessions, AppliedSessionsCap)
	assert.False(t, u.Applied("session-0"), "oldest id evicted")
	assert.True(t, u.Applied("session-5"))
	assert.True(t, u.Applied(u.AppliedSessions[len(u.AppliedSessions)-1]))
}

func TestDays(t *testing.T) {
	day := DayOf(time.Date(2025, 2, 27, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, Day("2025-02-27"), day)
	assert.Equal(t, Day("2025-03-01"), day.AddDays(2))

	n, ok := DaysBetween("2025-02-27", "2025-03-02")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = DaysBetween("2025-03-02", "2025-03-02")
	assert.True(t, ok)
	assert.Zero(t, n)

	_, ok = DaysBetween("", "2025-03-02")
	assert.False(t, ok)
	assert.True(t, Day("").IsZero())
}

func TestActivity_RecordMerges(t *testing.T) {
	var a Activity
	a = a.Record("2025-03-01", drill.Reflex, 100)
	a = a.Record("2025-03-01", drill.Focus, 50)
	a = a.Record("2025-03-01", drill.Reflex, 20)
	a = a.Record("2025-03-02", drill.Impulse, 10)

	require.Len(t, a, 2)
	day := a.Day("2025-03-01")
	require.NotNil(t, day)
	assert.Equal(t, 3, day.SessionsCompleted)
	assert.Equal(t, 170, day.PointsEarned)
	assert.Equal(t, []drill.ID{drill.Focus, drill.Reflex}, day.DrillsCompleted)
	assert.Equal(t, 2, day.DrillSessions[drill.Reflex])
}

func TestActivity_RecordDoesNotAlias(t *testing.T) {
	a := Activity{}.Record("2025-03-01", drill.Reflex, 100)
	b := a.Record("2025-03-01", drill.Reflex, 100)

	assert.Equal(t, 1, a.Day("2025-03-01").SessionsCompleted)
	assert.Equal(t, 1, a.Day("2025-03-01").DrillSessions[drill.Reflex])
	assert.Equal(t, 2, b.Day("2025-03-01").SessionsCompleted)
}

func TestActivity_Prune(t *testing.T) {
	a := Activity{
		{Date: "2025-06-01"},
		{Date: "2025-01-01"},
		{Date: "2025-03-03"},
		{Date: "2025-03-02"},
		{Date: "garbage"},
	}
	got := a.Prune("2025-06-01")

	var dates []Day
	for _, e := range got {
		dates = append(dates, e.Date)
	}
	assert.Equal(t, []Day{"2025-03-03", "2025-06-01"}, dates)
}

func TestActivity_Last(t *testing.T) {
	a := Activity{}.Record("2025-03-05", drill.Reflex, 10)
	last := a.Last("2025-03-06", 3)
	require.Len(t, last, 3)
	assert.Equal(t, Day("2025-03-04"), last[0].Date)
	assert.Equal(t, 1, last[1].SessionsCompleted)
	assert.Zero(t, last[2].SessionsCompleted)
}

func TestDecodeUser(t *testing.T) {
	u := Default()
	u.TotalXP = 4200
	u.Level = 4
	u.LastActiveDate = "2025-03-01"
	raw, err := json.Marshal(u)
	require.NoError(t, err)

	got, err := DecodeUser(raw)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestDecodeUser_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"totalXp":`},
		{"negative xp", `{"totalXp":-5,"level":1,"currentStreak":0,"longestStreak":0}`},
		{"wrong type", `{"totalXp":"lots","level":1,"currentStreak":0,"longestStreak":0}`},
		{"missing level", `{"totalXp":0,"currentStreak":0,"longestStreak":0}`},
		{"bad date", `{"totalXp":0,"level":1,"currentStreak":0,"longestStreak":0,"lastActiveDate":"yesterday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeUser([]byte(tt.raw))
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}
}

func TestDecodeUser_BackfillsMissingDrills(t *testing.T) {
	raw := `{"totalXp":10,"level":1,"currentStreak":1,"longestStreak":1,
		"drills":[{"drillId":"reflex","sessionsCompleted":3,"difficulty":2,"level":2,"recentScores":[1,2,3]}]}`
	u, err := DecodeUser([]byte(raw))
	require.NoError(t, err)
	assert.Len(t, u.Drills, len(drill.IDs()))
	assert.Equal(t, 3, u.Drill(drill.Reflex).SessionsCompleted)
	assert.NotNil(t, u.Drill(drill.Focus))
}

func TestDecodeActivity(t *testing.T) {
	a := Activity{}.Record("2025-03-01", drill.Reflex, 10)
	raw, err := json.Marshal(a)
	require.NoError(t, err)

	got, err := DecodeActivity(raw)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = DecodeActivity([]byte(`[{"date":"2025-03-01","sessionsCompleted":-1}]`))
	assert.Error(t, err)
}
