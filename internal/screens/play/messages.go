package play

import (
	"github.com/google/uuid"

	"github.com/abhisek/tramind/internal/engine"
	"github.com/abhisek/tramind/internal/progression"
)

// snapshotMsg carries a machine state change into the update loop.
type snapshotMsg struct {
	machine *engine.Machine
	snap    engine.Snapshot
}

// awardMsg is sent when a finished attempt has been applied to the profile.
type awardMsg struct {
	attempt uuid.UUID
	award   progression.Award
	err     error
}
