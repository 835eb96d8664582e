// Package session holds the records that cross from a finished drill run
// into progression: the Attempt produced by the state machine and the
// immutable Session the progression engine derives from it.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/metrics"
)

// Attempt is one completed drill run. ID is the idempotence key: the
// progression engine applies a given ID at most once.
type Attempt struct {
	ID         uuid.UUID            `json:"id"`
	DrillID    drill.ID             `json:"drillId"`
	Difficulty int                  `json:"difficulty"`
	Start      time.Time            `json:"start"`
	End        time.Time            `json:"end"`
	Outcomes   []drill.RoundOutcome `json:"outcomes"`
	Metrics    metrics.Summary      `json:"metrics"`
	Score      int                  `json:"score"`
	Stars      int                  `json:"stars"`
}

// Duration is the wall time of the attempt, never negative.
func (a Attempt) Duration() time.Duration {
	if a.End.Before(a.Start) {
		return 0
	}
	return a.End.Sub(a.Start)
}

// Session is the record of an applied attempt.
type Session struct {
	ID         uuid.UUID       `json:"id"`
	DrillID    drill.ID        `json:"drillId"`
	Difficulty int             `json:"difficulty"`
	StartTime  time.Time       `json:"startTime"`
	EndTime    time.Time       `json:"endTime"`
	Score      int             `json:"score"`
	Stars      int             `json:"stars"`
	XPAwarded  int             `json:"xpAwarded"`
	Metrics    metrics.Summary `json:"metrics"`
}

// New builds the session for attempt a. An end time before the start is
// clamped to the start.
func New(a Attempt, xp int) Session {
	end := a.End
	if end.Before(a.Start) {
		end = a.Start
	}
	return Session{
		ID:         a.ID,
		DrillID:    a.DrillID,
		Difficulty: a.Difficulty,
		StartTime:  a.Start,
		EndTime:    end,
		Score:      a.Score,
		Stars:      a.Stars,
		XPAwarded:  xp,
		Metrics:    a.Metrics,
	}
}

// Duration is EndTime minus StartTime.
func (s Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
