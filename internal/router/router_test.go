package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/tramind/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	closed  int
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { s.updates++; return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }
func (s *stubScreen) Close()                                  { s.closed++ }

// plainScreen does not implement screen.Closer.
type plainScreen struct{}

func (p plainScreen) Init() tea.Cmd                           { return nil }
func (p plainScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return p, nil }
func (p plainScreen) View(int, int) string                    { return "plain" }
func (p plainScreen) Title() string                           { return "plain" }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "first"})

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "second", r.Active().Title())
	assert.True(t, s2.initRan)
}

func TestPopClosesScreen(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "first", r.Active().Title())
	assert.Equal(t, 1, s2.closed)
	assert.Zero(t, s1.closed)
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	assert.Equal(t, 1, r.Depth())
	assert.Zero(t, s1.closed)
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "second", r.Active().Title())
	assert.True(t, s2.initRan)
	assert.Equal(t, 1, s1.closed)
}

func TestReplacePreservesStackDepth(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Push(&stubScreen{title: "second"})
	r.Replace(&stubScreen{title: "third"})

	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "third", r.Active().Title())
}

func TestUpdateForwardsToActive(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)
	s2 := &stubScreen{title: "second"}
	r.Update(PushScreenMsg{Screen: s2})

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.Equal(t, 1, s2.updates)
	assert.Zero(t, s1.updates)

	r.Update(PopScreenMsg{})
	assert.Equal(t, "first", r.View(80, 24))
}

func TestCloseAll(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)
	r.Push(plainScreen{})
	s3 := &stubScreen{title: "third"}
	r.Push(s3)

	r.Close()
	assert.Equal(t, 1, s1.closed)
	assert.Equal(t, 1, s3.closed)
}
