package screen

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/engine"
	"github.com/abhisek/tramind/internal/profile"
	"github.com/abhisek/tramind/internal/progression"
	"github.com/abhisek/tramind/internal/session"
	"github.com/abhisek/tramind/internal/stimulus"
	"github.com/abhisek/tramind/internal/store"
)

// Progress is the part of progression.Service the screens use.
type Progress interface {
	Profile() profile.User
	Activity() profile.Activity
	Difficulty(id drill.ID) int
	Apply(ctx context.Context, a session.Attempt) (progression.Award, error)
}

var _ Progress = (*progression.Service)(nil)

// SessionQuerier reads the session history. store.HistoryRepo satisfies it.
type SessionQuerier interface {
	QuerySessions(ctx context.Context, opts store.QueryOpts) ([]store.SessionRecord, error)
}

// Env carries the dependencies shared by every screen.
type Env struct {
	Progress Progress
	// History is optional; without it the history screen says so.
	History SessionQuerier
	Curves  *stimulus.Curves
	Clock   engine.Clock
	// NewSource returns the random source for one drill attempt. Nil
	// means a fresh unseeded source.
	NewSource func() stimulus.Source
	Logger    *slog.Logger
	// Send delivers a message to the running program. It is called from
	// timer goroutines and from inside Update, so it must not block.
	Send func(tea.Msg)
}

// WithDefaults fills unset optional fields.
func (e Env) WithDefaults() Env {
	if e.Curves == nil {
		e.Curves = stimulus.Default()
	}
	if e.Clock == nil {
		e.Clock = engine.SystemClock()
	}
	if e.NewSource == nil {
		e.NewSource = func() stimulus.Source { return stimulus.NewRandomSource() }
	}
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	if e.Send == nil {
		e.Send = func(tea.Msg) {}
	}
	return e
}
