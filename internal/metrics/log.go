package metrics

import "github.com/abhisek/tramind/internal/drill"

// Log is the append-only round history of one attempt. The summary is
// cached and recomputed only after a new outcome is appended.
type Log struct {
	drill    drill.ID
	outcomes []drill.RoundOutcome
	cached   *Summary
}

// NewLog creates an empty log for drill id.
func NewLog(id drill.ID) *Log {
	return &Log{drill: id}
}

// Append records a resolved round.
func (l *Log) Append(o drill.RoundOutcome) {
	l.outcomes = append(l.outcomes, o)
	l.cached = nil
}

// Len returns the number of recorded rounds.
func (l *Log) Len() int {
	return len(l.outcomes)
}

// Last returns the most recent outcome.
func (l *Log) Last() (drill.RoundOutcome, bool) {
	if len(l.outcomes) == 0 {
		return drill.RoundOutcome{}, false
	}
	return l.outcomes[len(l.outcomes)-1], true
}

// Outcomes returns a copy of the recorded rounds.
func (l *Log) Outcomes() []drill.RoundOutcome {
	out := make([]drill.RoundOutcome, len(l.outcomes))
	copy(out, l.outcomes)
	return out
}

// Summary returns the aggregate over every recorded round.
func (l *Log) Summary() Summary {
	if l.cached == nil {
		s := Aggregate(l.drill, l.outcomes)
		l.cached = &s
	}
	return *l.cached
}
