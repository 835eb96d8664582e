package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/profile"
	"github.com/abhisek/tramind/internal/session"
)

// Keys of the logical records kept in the KV.
const (
	ProfileKey  = "tramind.profile"
	ActivityKey = "tramind.activity"

	// corruptSuffix marks the backup of a record that failed to load.
	corruptSuffix = ".corrupt"
)

// Snapshot is the persisted state: the user profile and the activity log.
type Snapshot struct {
	User     profile.User
	Activity profile.Activity

	// Recovered lists the records that failed to load and were replaced
	// by defaults. Each entry is a *CorruptRecordError.
	Recovered []error
}

// ProfileRepo loads and saves the profile and activity log.
type ProfileRepo interface {
	// Load returns the persisted state. Missing records load as defaults;
	// corrupt records are backed up, logged and replaced by defaults.
	Load(ctx context.Context) (Snapshot, error)

	// Save writes the profile and the activity log in one atomic write.
	// The activity log is pruned to the retention window first.
	Save(ctx context.Context, u profile.User, a profile.Activity) error

	// Reset deletes both records.
	Reset(ctx context.Context) error
}

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	From    time.Time // start time >= From
	DrillID drill.ID  // only this drill when set
}

// SessionRecord is a session as stored in the history.
type SessionRecord struct {
	Sequence int64
	session.Session
}

// HistoryRepo is the append-only log of applied sessions.
type HistoryRepo interface {
	// AppendSession records s. Recording the same session twice is a no-op.
	AppendSession(ctx context.Context, s session.Session) error

	// Recorded reports whether a session with id has been appended.
	Recorded(ctx context.Context, id uuid.UUID) (bool, error)

	// QuerySessions returns matching sessions, newest first.
	QuerySessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)

	// Summaries aggregates the whole history per drill.
	Summaries(ctx context.Context) ([]DrillSummary, error)

	// ClearHistory deletes every session.
	ClearHistory(ctx context.Context) error
}

// CorruptRecordError reports a persisted record that could not be decoded.
type CorruptRecordError struct {
	Key string
	Err error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("corrupt record %q: %v", e.Key, e.Err)
}

func (e *CorruptRecordError) Unwrap() error { return e.Err }
