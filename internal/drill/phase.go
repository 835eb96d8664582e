package drill

// Phase is a step in the shared drill lifecycle.
type Phase int

const (
	PhaseIntro     Phase = iota // Waiting for the start action
	PhaseCountdown              // 3, 2, 1
	PhaseWaiting                // Stimulus scheduled but not yet armed
	PhaseActive                 // Stimulus armed, response window open
	PhaseRising                 // Impulse: urge climbing to its peak
	PhaseResisting              // Impulse: resist window open
	PhaseFeedback               // Round outcome on display, input ignored
	PhaseResults                // Terminal
)

var phaseNames = [...]string{
	PhaseIntro:     "intro",
	PhaseCountdown: "countdown",
	PhaseWaiting:   "waiting",
	PhaseActive:    "active",
	PhaseRising:    "rising",
	PhaseResisting: "resisting",
	PhaseFeedback:  "feedback",
	PhaseResults:   "results",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Stimulus reports whether the phase is one in which a round is open and
// waiting to be resolved.
func (p Phase) Stimulus() bool {
	switch p {
	case PhaseWaiting, PhaseActive, PhaseRising, PhaseResisting:
		return true
	}
	return false
}
