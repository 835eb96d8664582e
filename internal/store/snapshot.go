package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/tramind/internal/profile"
)

// profileRepo implements ProfileRepo on top of a KV.
type profileRepo struct {
	kv     KV
	logger *slog.Logger
	now    func() time.Time
}

// RepoOption configures NewProfileRepo.
type RepoOption func(*profileRepo)

// WithLogger sets the logger used to report recovered records.
func WithLogger(l *slog.Logger) RepoOption {
	return func(r *profileRepo) { r.logger = l }
}

// WithNow sets the clock used for activity pruning.
func WithNow(now func() time.Time) RepoOption {
	return func(r *profileRepo) { r.now = now }
}

// NewProfileRepo returns a ProfileRepo backed by kv.
func NewProfileRepo(kv KV, opts ...RepoOption) ProfileRepo {
	r := &profileRepo{kv: kv, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *profileRepo) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	raw, ok, err := r.kv.Read(ctx, ProfileKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load profile: %w", err)
	}
	snap.User = profile.Default()
	if ok {
		u, err := profile.DecodeUser([]byte(raw))
		if err != nil {
			if err := r.quarantine(ctx, ProfileKey, raw, err, &snap); err != nil {
				return Snapshot{}, err
			}
		} else {
			snap.User = u
		}
	}

	raw, ok, err = r.kv.Read(ctx, ActivityKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load activity: %w", err)
	}
	snap.Activity = profile.Activity{}
	if ok {
		a, err := profile.DecodeActivity([]byte(raw))
		if err != nil {
			if err := r.quarantine(ctx, ActivityKey, raw, err, &snap); err != nil {
				return Snapshot{}, err
			}
		} else if a != nil {
			snap.Activity = a
		}
	}

	return snap, nil
}

// quarantine copies a record that failed to decode to its backup key so
// the next save does not destroy it.
func (r *profileRepo) quarantine(ctx context.Context, key, raw string, cause error, snap *Snapshot) error {
	cerr := &CorruptRecordError{Key: key, Err: cause}
	r.logger.Warn("recovering corrupt record",
		"key", key,
		"backup", key+corruptSuffix,
		"error", cause)
	if err := r.kv.Write(ctx, key+corruptSuffix, raw); err != nil {
		return fmt.Errorf("back up %q: %w", key, err)
	}
	snap.Recovered = append(snap.Recovered, cerr)
	return nil
}

func (r *profileRepo) Save(ctx context.Context, u profile.User, a profile.Activity) error {
	a = a.Prune(profile.DayOf(r.now()))

	userJSON, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	activityJSON, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}

	err = r.kv.WriteAll(ctx, map[string]string{
		ProfileKey:  string(userJSON),
		ActivityKey: string(activityJSON),
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *profileRepo) Reset(ctx context.Context) error {
	if err := r.kv.Delete(ctx, ProfileKey, ActivityKey); err != nil {
		return fmt.Errorf("reset profile: %w", err)
	}
	return nil
}
