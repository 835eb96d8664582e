// Package play is the screen that runs one drill attempt.
package play

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/engine"
	"github.com/abhisek/tramind/internal/progression"
	"github.com/abhisek/tramind/internal/screen"
	"github.com/abhisek/tramind/internal/stimulus"
	"github.com/abhisek/tramind/internal/ui/layout"
)

// Screen drives one engine.Machine and renders its snapshots. Restarting
// replaces the machine; snapshots from a replaced machine are dropped.
type Screen struct {
	env  screen.Env
	cfg  drill.Config
	keys keyMap

	machine *engine.Machine
	snap    engine.Snapshot

	submitted bool
	award     *progression.Award
	err       error
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates the screen for drill id in its intro phase.
func New(env screen.Env, id drill.ID) (*Screen, error) {
	cfg, ok := drill.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", engine.ErrUnknownDrill, id)
	}
	if env.Progress == nil {
		return nil, errors.New("play: progress is required")
	}
	s := &Screen{
		env:  env.WithDefaults(),
		cfg:  cfg,
		keys: keysFor(id),
	}
	if err := s.reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// reset replaces the machine with a fresh one at the drill's current
// difficulty.
func (s *Screen) reset() error {
	if s.machine != nil {
		s.machine.Dispose()
	}

	var m *engine.Machine
	send := s.env.Send
	opts := engine.Options{
		Clock:  s.env.Clock,
		Source: s.env.NewSource(),
		Curves: s.env.Curves,
		Logger: s.env.Logger,
		OnChange: func(snap engine.Snapshot) {
			send(snapshotMsg{machine: m, snap: snap})
		},
	}
	m, err := engine.New(s.cfg.ID, s.env.Progress.Difficulty(s.cfg.ID), opts)
	if err != nil {
		return err
	}

	s.machine = m
	s.snap = m.Snapshot()
	s.submitted = false
	s.award = nil
	s.err = nil
	return nil
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return s.cfg.Name
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return s.keys.hints(s.snap.Phase)
}

// Close stops the running attempt.
func (s *Screen) Close() {
	if s.machine != nil {
		s.machine.Dispose()
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.machine != s.machine {
			return s, nil
		}
		return s, s.apply(msg.snap)

	case awardMsg:
		if s.snap.Attempt == nil || msg.attempt != s.snap.Attempt.ID {
			return s, nil
		}
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		award := msg.award
		s.award = &award
		return s, nil

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

// apply adopts snap unless a newer one has already been seen.
func (s *Screen) apply(snap engine.Snapshot) tea.Cmd {
	if snap.Seq < s.snap.Seq {
		return nil
	}
	s.snap = snap
	if snap.Phase == drill.PhaseResults && snap.Attempt != nil && !s.submitted {
		s.submitted = true
		return s.submit()
	}
	return nil
}

// submit hands the finished attempt to the progression engine.
func (s *Screen) submit() tea.Cmd {
	attempt := *s.snap.Attempt
	progress := s.env.Progress
	logger := s.env.Logger
	return func() tea.Msg {
		award, err := progress.Apply(context.Background(), attempt)
		if err != nil {
			logger.Error("apply attempt", "drill", string(attempt.DrillID), "error", err)
		}
		return awardMsg{attempt: attempt.ID, award: award, err: err}
	}
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	phase := s.snap.Phase
	switch {
	case phase == drill.PhaseIntro:
		if key.Matches(msg, s.keys.Start) {
			s.machine.Start()
			return s.apply(s.machine.Snapshot())
		}

	case phase == drill.PhaseResults:
		if key.Matches(msg, s.keys.Restart) {
			if err := s.reset(); err != nil {
				s.err = err
				return nil
			}
			s.machine.Start()
			return s.apply(s.machine.Snapshot())
		}

	case phase.Stimulus():
		if in, ok := s.input(msg); ok {
			s.machine.Activate(in)
			return s.apply(s.machine.Snapshot())
		}
	}
	return nil
}

// input translates a key press into a machine input for the current drill.
func (s *Screen) input(msg tea.KeyPressMsg) (engine.Input, bool) {
	switch s.cfg.ID {
	case drill.Awareness:
		if !key.Matches(msg, s.keys.Choose) {
			return engine.Input{}, false
		}
		idx, ok := choice(msg)
		return engine.Input{Choice: idx}, ok

	case drill.Focus:
		dx, dy, ok := s.keys.move(msg)
		if !ok {
			return engine.Input{}, false
		}
		p := s.snap.Stimulus.Pointer
		return engine.Input{
			X: clamp(p.X+dx, 0, stimulus.FieldSize),
			Y: clamp(p.Y+dy, 0, stimulus.FieldSize),
		}, true
	}
	return engine.Input{}, key.Matches(msg, s.keys.Activate)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func (s *Screen) View(width, height int) string {
	return s.render(width, height)
}
