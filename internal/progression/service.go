// Package progression turns completed attempts into XP, streak, level and
// per-drill difficulty updates, and persists the result. Every attempt is
// applied at most once, and as a single all-or-nothing profile transition.
package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/profile"
	"github.com/abhisek/tramind/internal/session"
	"github.com/abhisek/tramind/internal/store"
)

// ErrUnknownDrill is returned by Apply for an attempt of an unregistered
// drill.
var ErrUnknownDrill = errors.New("progression: unknown drill")

// LevelUpWindow is the number of recent scores compared against the
// all-time average when deciding a drill level-up.
const LevelUpWindow = 5

// SessionsPerDrillLevel is how many sessions each drill level requires.
const SessionsPerDrillLevel = 5

// Repo persists the profile. store.ProfileRepo satisfies it.
type Repo interface {
	Load(ctx context.Context) (store.Snapshot, error)
	Save(ctx context.Context, u profile.User, a profile.Activity) error
	Reset(ctx context.Context) error
}

// History records applied sessions. store.HistoryRepo satisfies it.
type History interface {
	AppendSession(ctx context.Context, s session.Session) error
	Recorded(ctx context.Context, id uuid.UUID) (bool, error)
	ClearHistory(ctx context.Context) error
}

// Option configures NewService.
type Option func(*Service)

// WithHistory records every applied session in h and consults it for
// attempts too old for the profile's applied-id window. History failures
// are logged and do not fail Apply.
func WithHistory(h History) Option {
	return func(s *Service) { s.history = h }
}

// Award is the result of applying one attempt.
type Award struct {
	Session session.Session
	// Duplicate is true when the attempt had already been applied; nothing
	// else is set in that case.
	Duplicate bool

	StreakBonus   int
	Streak        StreakChange
	CurrentStreak int
	AchievementXP int
	DailyGoalXP   int
	// TotalXP is everything added to the profile by this attempt.
	TotalXP int

	LevelBefore int
	LevelAfter  int

	DrillLevelUp bool
	DrillLevel   int
	Difficulty   int

	Achievements []Achievement
}

// LeveledUp reports whether the user level increased.
func (a Award) LeveledUp() bool { return a.LevelAfter > a.LevelBefore }

// Service owns the in-memory profile and is its only writer.
type Service struct {
	mu       sync.Mutex
	repo     Repo
	history  History
	logger   *slog.Logger
	user     profile.User
	activity profile.Activity
}

// NewService loads the persisted state through repo.
func NewService(ctx context.Context, repo Repo, logger *slog.Logger, opts ...Option) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	for _, rerr := range snap.Recovered {
		logger.Warn("profile record replaced by defaults", "error", rerr)
	}
	s := &Service{
		repo:     repo,
		logger:   logger,
		user:     snap.User,
		activity: snap.Activity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Profile returns a copy of the current profile.
func (s *Service) Profile() profile.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// Activity returns a copy of the activity log.
func (s *Service) Activity() profile.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(profile.Activity, len(s.activity))
	copy(out, s.activity)
	return out
}

// Difficulty returns the current difficulty of drill id.
func (s *Service) Difficulty(id drill.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d := s.user.Drill(id); d != nil {
		return d.Difficulty
	}
	return profile.MinDifficulty
}

// Reset clears the persisted state and returns to a default profile. The
// history goes first: if it cannot be cleared the profile is left as it
// was, on disk and in memory.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.history != nil {
		if err := s.history.ClearHistory(ctx); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
	}
	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	s.user = profile.Default()
	s.activity = profile.Activity{}
	s.logger.Info("profile reset")
	return nil
}

// Apply applies a completed attempt. An attempt whose ID was already
// applied is ignored and reported as Duplicate. The new profile is
// persisted before it becomes visible; if saving fails the in-memory
// profile is unchanged.
func (s *Service) Apply(ctx context.Context, a session.Attempt) (Award, error) {
	if !a.DrillID.Valid() {
		return Award{}, fmt.Errorf("%w: %q", ErrUnknownDrill, a.DrillID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := a.ID.String()
	if s.applied(ctx, a.ID) {
		s.logger.Debug("duplicate attempt ignored", "attempt", key)
		return Award{Duplicate: true}, nil
	}

	u := s.user.Clone()
	award, activity := apply(&u, s.activity, a)

	if err := s.repo.Save(ctx, u, activity); err != nil {
		return Award{}, fmt.Errorf("save progression: %w", err)
	}
	s.user = u
	s.activity = activity

	if s.history != nil {
		if err := s.history.AppendSession(ctx, award.Session); err != nil {
			s.logger.Warn("session not recorded in history", "attempt", key, "error", err)
		}
	}

	s.logger.Info("attempt applied",
		"attempt", key,
		"drill", string(a.DrillID),
		"score", a.Score,
		"stars", a.Stars,
		"xp", award.TotalXP,
		"level", award.LevelAfter,
		"streak", u.CurrentStreak)
	return award, nil
}

// applied reports whether attempt id was applied before: the profile keeps
// the most recent ids, the history every recorded one.
func (s *Service) applied(ctx context.Context, id uuid.UUID) bool {
	if s.user.Applied(id.String()) {
		return true
	}
	if s.history == nil {
		return false
	}
	ok, err := s.history.Recorded(ctx, id)
	if err != nil {
		s.logger.Warn("history lookup failed", "attempt", id.String(), "error", err)
		return false
	}
	return ok
}

// apply runs the full transition on u and returns the award and the new
// activity log. It does not touch the inputs other than u.
func apply(u *profile.User, activity profile.Activity, a session.Attempt) (Award, profile.Activity) {
	end := a.End
	if end.IsZero() {
		end = time.Now()
	}
	today := profile.DayOf(end)
	award := Award{LevelBefore: u.Level}

	// Only a later day starts a new count; UpdateStreak keeps a future
	// LastActiveDate when the clock moves back.
	if days, ok := profile.DaysBetween(u.LastActiveDate, today); !ok || days > 0 {
		u.SessionsToday = 0
	}
	award.Streak = UpdateStreak(u, today)
	award.CurrentStreak = u.CurrentStreak
	u.SessionsToday++
	u.TotalSessions++

	award.StreakBonus = StreakBonus(u.CurrentStreak)
	xp := SessionXP(a.Score, a.Stars, a.Difficulty) + award.StreakBonus
	award.Session = session.New(a, xp)

	d := u.Drill(a.DrillID)
	if d == nil {
		u.Drills = append(u.Drills, profile.NewDrill(a.DrillID))
		d = u.Drill(a.DrillID)
	}
	updateDrill(d, award.Session, today)
	if shouldLevelUp(d) {
		d.Level++
		d.Difficulty = DrillDifficulty(d.Level)
		award.DrillLevelUp = true
	}
	award.DrillLevel = d.Level
	award.Difficulty = d.Difficulty

	if a.DrillID == drill.Impulse {
		if perfectImpulse(a) {
			u.PerfectImpulseRun++
		} else {
			u.PerfectImpulseRun = 0
		}
	}

	activity = activity.Record(today, a.DrillID, xp)

	// Level must be current before achievements that look at it.
	setXP(u, u.TotalXP+xp)
	award.Achievements = unlockAchievements(u, a, today)
	for _, ach := range award.Achievements {
		award.AchievementXP += ach.XPReward
	}

	if u.DailyGoalDate != today && DailyGoalMet(activity.Day(today)) {
		u.DailyGoalDate = today
		award.DailyGoalXP = DailyGoalBonus
	}

	bonus := award.AchievementXP + award.DailyGoalXP
	if bonus > 0 {
		setXP(u, u.TotalXP+bonus)
		activity = activity.AddPoints(today, bonus)
		// A bonus can push the level over 10.
		for _, ach := range unlockAchievements(u, a, today) {
			award.Achievements = append(award.Achievements, ach)
			award.AchievementXP += ach.XPReward
			setXP(u, u.TotalXP+ach.XPReward)
			activity = activity.AddPoints(today, ach.XPReward)
		}
	}

	u.MarkApplied(a.ID.String())

	award.TotalXP = xp + award.AchievementXP + award.DailyGoalXP
	award.LevelAfter = u.Level
	return award, activity
}

func setXP(u *profile.User, total int) {
	u.TotalXP = total
	u.Level, u.CurrentLevelXP = LevelFor(total)
}

// updateDrill folds one session into the drill entry.
func updateDrill(d *profile.Drill, s session.Session, today profile.Day) {
	d.SessionsCompleted++
	d.BestScore = max(d.BestScore, s.Score)
	d.TotalScore += s.Score
	d.AverageScore = float64(d.TotalScore) / float64(d.SessionsCompleted)
	d.PushScore(s.Score)
	d.TotalTimeSpentSeconds += int(s.Duration().Seconds())
	d.LastPlayedDate = today
}

// shouldLevelUp reports whether the drill has enough sessions for its
// level and its last LevelUpWindow scores average at least its all-time
// average.
func shouldLevelUp(d *profile.Drill) bool {
	if d.SessionsCompleted < d.Level*SessionsPerDrillLevel {
		return false
	}
	if len(d.RecentScores) < LevelUpWindow {
		return false
	}
	recent := d.RecentScores[len(d.RecentScores)-LevelUpWindow:]
	sum := 0
	for _, s := range recent {
		sum += s
	}
	return float64(sum)/LevelUpWindow >= d.AverageScore
}
