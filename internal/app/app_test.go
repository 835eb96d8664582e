package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/engine"
	"github.com/abhisek/tramind/internal/platform/logger"
	"github.com/abhisek/tramind/internal/progression"
	"github.com/abhisek/tramind/internal/router"
	"github.com/abhisek/tramind/internal/screen"
	"github.com/abhisek/tramind/internal/screens/play"
	"github.com/abhisek/tramind/internal/store"
)

func testEnv(t *testing.T) (screen.Env, *engine.FakeClock) {
	t.Helper()
	clk := engine.NewFakeClock(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	repo := store.NewProfileRepo(store.NewMemory(), store.WithNow(clk.Now))
	svc, err := progression.NewService(context.Background(), repo, logger.Discard())
	require.NoError(t, err)
	return screen.Env{Progress: svc, Clock: clk, Logger: logger.Discard()}, clk
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestNewAppModel_OpensDrill(t *testing.T) {
	env, _ := testEnv(t)
	m, err := newAppModel(Options{Env: env, Drill: drill.Impulse})
	require.NoError(t, err)
	assert.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Impulse Control", m.router.Active().Title())
	m.router.Close()

	_, err = newAppModel(Options{Env: env, Drill: "nope"})
	assert.ErrorIs(t, err, engine.ErrUnknownDrill)
}

func TestView_TooSmall(t *testing.T) {
	env, _ := testEnv(t)
	m, err := newAppModel(Options{Env: env})
	require.NoError(t, err)
	m, _ = update(m, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.render(), "Terminal too small")
}

func TestView_Frame(t *testing.T) {
	env, _ := testEnv(t)
	m, err := newAppModel(Options{Env: env})
	require.NoError(t, err)
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	content := m.render()
	assert.Contains(t, content, "TRAMIND")
	assert.Contains(t, content, "Lv 1")
	assert.Contains(t, content, "Navigate")
}

func TestEscPopsAndDisposesDrill(t *testing.T) {
	env, clk := testEnv(t)
	m, err := newAppModel(Options{Env: env, Drill: drill.Reflex})
	require.NoError(t, err)

	m, _ = update(m, tea.KeyPressMsg{Code: 's', Text: "s"})
	require.Positive(t, clk.Pending(), "countdown is running")

	m, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, router.PopScreenMsg{}, msg)

	m, _ = update(m, msg)
	assert.Equal(t, 1, m.router.Depth())
	assert.Zero(t, clk.Pending(), "popping the drill disposes its machine")
}

func TestEscAtHomeDoesNothing(t *testing.T) {
	env, _ := testEnv(t)
	m, err := newAppModel(Options{Env: env})
	require.NoError(t, err)
	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
}

func TestCtrlCClosesScreens(t *testing.T) {
	env, clk := testEnv(t)
	m, err := newAppModel(Options{Env: env, Drill: drill.Focus})
	require.NoError(t, err)
	_, ok := m.router.Active().(*play.Screen)
	require.True(t, ok)

	m, _ = update(m, tea.KeyPressMsg{Code: 's', Text: "s"})
	require.Positive(t, clk.Pending())

	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.Zero(t, clk.Pending())
}
