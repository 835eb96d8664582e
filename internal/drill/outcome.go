package drill

import "time"

// NoReaction is the sentinel reaction time recorded when a round has no
// valid latency (false start, timeout, miss).
const NoReaction time.Duration = -1

// Result classifies how a round ended.
type Result string

const (
	ResultHit         Result = "hit"          // reflex, awareness
	ResultFalseStart  Result = "false_start"  // reflex: input before arming
	ResultTimeout     Result = "timeout"      // reflex: no input before deadline
	ResultWrongTarget Result = "wrong_target" // awareness: a decoy was chosen
	ResultMiss        Result = "miss"         // awareness: display time elapsed
	ResultResisted    Result = "resisted"     // impulse: no input during resist window
	ResultEarly       Result = "early"        // impulse: input while the urge was rising
	ResultGaveIn      Result = "gave_in"      // impulse: input during resist window
	ResultFocused     Result = "focused"      // focus: sample inside the target
	ResultBroken      Result = "broken"       // focus: sample outside the target
)

// Success reports whether the result counts as a successful round.
func (r Result) Success() bool {
	switch r {
	case ResultHit, ResultResisted, ResultFocused:
		return true
	}
	return false
}

// RoundOutcome is the immutable record of one resolved round. Fields that
// do not apply to a drill are left zero.
type RoundOutcome struct {
	Round        int           `json:"round"`
	Result       Result        `json:"result"`
	ReactionTime time.Duration `json:"reactionTime"`

	Delay      time.Duration `json:"delay,omitempty"`      // reflex: arming delay
	UrgeLevel  float64       `json:"urgeLevel,omitempty"`  // impulse: urge at resolution (0-100)
	ResistTime time.Duration `json:"resistTime,omitempty"` // impulse: time held in resist window
}

// Success reports whether the round succeeded.
func (o RoundOutcome) Success() bool {
	return o.Result.Success()
}

// HasReaction reports whether the round carries a valid latency. A zero
// latency is treated as missing.
func (o RoundOutcome) HasReaction() bool {
	return o.ReactionTime > 0
}
