package play

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tramind/internal/drill"
	"github.com/abhisek/tramind/internal/engine"
	"github.com/abhisek/tramind/internal/platform/logger"
	"github.com/abhisek/tramind/internal/progression"
	"github.com/abhisek/tramind/internal/screen"
	"github.com/abhisek/tramind/internal/stimulus"
	"github.com/abhisek/tramind/internal/store"
)

var start = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// lowSource pins every random draw to the bottom of its range.
type lowSource struct{}

func (lowSource) Float64() float64 { return 0 }
func (lowSource) IntN(int) int     { return 0 }

// harness delivers machine snapshots to the screen the way the program
// loop would, but synchronously.
type harness struct {
	t        *testing.T
	clk      *engine.FakeClock
	progress *progression.Service
	s        *Screen

	mu   sync.Mutex
	msgs []tea.Msg
	cmds []tea.Cmd
}

func newHarness(t *testing.T, id drill.ID) *harness {
	t.Helper()
	h := &harness{t: t, clk: engine.NewFakeClock(start)}

	repo := store.NewProfileRepo(store.NewMemory(), store.WithNow(h.clk.Now))
	progress, err := progression.NewService(context.Background(), repo, logger.Discard())
	require.NoError(t, err)
	h.progress = progress

	s, err := New(screen.Env{
		Progress:  progress,
		Clock:     h.clk,
		NewSource: func() stimulus.Source { return lowSource{} },
		Logger:    logger.Discard(),
		Send:      h.send,
	}, id)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	h.s = s
	return h
}

func (h *harness) send(msg tea.Msg) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
}

func (h *harness) update(msg tea.Msg) {
	_, cmd := h.s.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
}

// pump feeds queued snapshot messages into the screen.
func (h *harness) pump() {
	for {
		h.mu.Lock()
		msgs := h.msgs
		h.msgs = nil
		h.mu.Unlock()
		if len(msgs) == 0 {
			return
		}
		for _, msg := range msgs {
			h.update(msg)
		}
	}
}

// runCmds executes returned commands and feeds their results back.
func (h *harness) runCmds() {
	for len(h.cmds) > 0 {
		cmd := h.cmds[0]
		h.cmds = h.cmds[1:]
		h.update(cmd())
	}
}

func (h *harness) advance(d time.Duration) {
	h.clk.Advance(d)
	h.pump()
}

func (h *harness) press(k tea.KeyPressMsg) {
	h.update(k)
	h.pump()
}

func (h *harness) phase() drill.Phase { return h.s.snap.Phase }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var space = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}

func (h *harness) startRound() {
	h.press(keyPress('s'))
	require.Equal(h.t, drill.PhaseCountdown, h.phase())
	h.advance(engine.CountdownStart * engine.CountdownTick)
}

func TestNew_UnknownDrill(t *testing.T) {
	_, err := New(screen.Env{}, drill.ID("juggling"))
	assert.ErrorIs(t, err, engine.ErrUnknownDrill)
}

func TestIntro(t *testing.T) {
	h := newHarness(t, drill.KeyboardReflex)
	assert.Equal(t, "Keyboard Reflex", h.s.Title())
	assert.Equal(t, drill.PhaseIntro, h.phase())

	view := h.s.View(100, 30)
	assert.Contains(t, view, "KEYBOARD REFLEX")
	assert.Contains(t, view, "Difficulty 1")
	assert.Contains(t, view, "11 rounds")

	h.press(space)
	assert.Equal(t, drill.PhaseIntro, h.phase(), "space does not start")
	assert.Zero(t, h.clk.Pending())
}

func TestStartAndCountdown(t *testing.T) {
	h := newHarness(t, drill.KeyboardReflex)
	h.press(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, drill.PhaseCountdown, h.phase())
	assert.Contains(t, h.s.View(100, 30), "3")

	h.advance(time.Second)
	assert.Equal(t, 2, h.s.snap.Countdown)

	h.advance(2 * time.Second)
	assert.Equal(t, drill.PhaseWaiting, h.phase())
	assert.Contains(t, h.s.View(100, 30), "Round 1/11")
}

func TestKeyboardReflex_HitAndFalseStart(t *testing.T) {
	h := newHarness(t, drill.KeyboardReflex)
	h.startRound()

	h.press(space)
	require.Equal(t, drill.PhaseFeedback, h.phase())
	assert.Equal(t, drill.ResultFalseStart, h.s.snap.Last.Result)
	assert.Contains(t, h.s.View(100, 30), "Too early!")

	h.advance(800 * time.Millisecond)
	require.Equal(t, drill.PhaseWaiting, h.phase())

	h.advance(900 * time.Millisecond)
	require.Equal(t, drill.PhaseActive, h.phase())
	assert.Contains(t, h.s.View(100, 30), "PRESS SPACE")

	h.advance(180 * time.Millisecond)
	h.press(space)
	require.Equal(t, drill.PhaseFeedback, h.phase())
	assert.Equal(t, drill.ResultHit, h.s.snap.Last.Result)
	assert.Contains(t, h.s.View(100, 30), "Hit! 180 ms")
}

func TestReflex_EnterActivates(t *testing.T) {
	h := newHarness(t, drill.Reflex)
	h.startRound()
	h.advance(900 * time.Millisecond)
	require.Equal(t, drill.PhaseActive, h.phase())

	h.press(space)
	assert.Equal(t, drill.PhaseActive, h.phase(), "space is not the reflex key")

	h.press(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, drill.ResultHit, h.s.snap.Last.Result)
}

// playReflex runs a full keyboard-reflex attempt with a fixed reaction.
func (h *harness) playReflex(reaction time.Duration) {
	h.startRound()
	for h.phase() != drill.PhaseResults {
		h.advance(900 * time.Millisecond)
		require.Equal(h.t, drill.PhaseActive, h.phase())
		h.advance(reaction)
		h.press(space)
		h.advance(800 * time.Millisecond)
	}
}

func TestFullRun_AppliesOnce(t *testing.T) {
	h := newHarness(t, drill.KeyboardReflex)
	h.playReflex(200 * time.Millisecond)

	require.NotNil(t, h.s.snap.Attempt)
	assert.Equal(t, 1040, h.s.snap.Attempt.Score)
	assert.Contains(t, h.s.View(100, 40), "Saving...")
	require.Len(t, h.cmds, 1, "one submission per attempt")

	h.update(engine.Snapshot{}) // unrelated message
	h.update(snapshotMsg{machine: h.s.machine, snap: h.s.snap})
	require.Len(t, h.cmds, 1, "re-delivered results do not resubmit")

	h.runCmds()
	require.NotNil(t, h.s.award)
	assert.False(t, h.s.award.Duplicate)
	assert.Positive(t, h.s.award.TotalXP)

	p := h.progress.Profile()
	assert.Equal(t, 1, p.TotalSessions)
	assert.Equal(t, 1040, p.Drill(drill.KeyboardReflex).BestScore)

	view := h.s.View(100, 40)
	assert.Contains(t, view, "1040")
	assert.Contains(t, view, "Achievement: First Steps")
}

func TestRestart_NewMachine(t *testing.T) {
	h := newHarness(t, drill.KeyboardReflex)
	h.playReflex(200 * time.Millisecond)
	h.runCmds()
	old := h.s.machine
	oldAttempt := h.s.snap.Attempt.ID

	h.press(keyPress('r'))
	assert.NotSame(t, old, h.s.machine)
	assert.Equal(t, drill.PhaseCountdown, h.phase())
	assert.Nil(t, h.s.award)

	// Late messages from the previous attempt are ignored.
	h.update(snapshotMsg{machine: old, snap: old.Snapshot()})
	assert.Equal(t, drill.PhaseCountdown, h.phase())
	h.update(awardMsg{attempt: oldAttempt})
	assert.Nil(t, h.s.award)
}

func TestStaleSnapshotDropped(t *testing.T) {
	h := newHarness(t, drill.KeyboardReflex)
	h.startRound()
	stale := h.s.snap
	stale.Seq--
	stale.Phase = drill.PhaseCountdown

	h.update(snapshotMsg{machine: h.s.machine, snap: stale})
	assert.Equal(t, drill.PhaseWaiting, h.phase())
}

func TestClose_StopsTimers(t *testing.T) {
	h := newHarness(t, drill.KeyboardReflex)
	h.startRound()
	require.Positive(t, h.clk.Pending())

	h.s.Close()
	assert.Zero(t, h.clk.Pending())
	h.advance(10 * time.Second)
	assert.Equal(t, drill.PhaseWaiting, h.phase())
}

func TestAwareness_DigitPicksDot(t *testing.T) {
	h := newHarness(t, drill.Awareness)
	h.startRound()
	h.advance(500 * time.Millisecond)
	require.Equal(t, drill.PhaseActive, h.phase())

	target := -1
	for i, d := range h.s.snap.Stimulus.Dots {
		if d.Target {
			target = i
		}
	}
	require.GreaterOrEqual(t, target, 0)

	h.press(keyPress('9'))
	assert.Equal(t, drill.PhaseActive, h.phase(), "no ninth dot at difficulty 1")

	h.press(keyPress(rune('1' + target)))
	require.Equal(t, drill.PhaseFeedback, h.phase())
	assert.Equal(t, drill.ResultHit, h.s.snap.Last.Result)
}

func TestImpulse_SpaceWhileRising(t *testing.T) {
	h := newHarness(t, drill.Impulse)
	h.startRound()
	h.advance(time.Second)
	require.Equal(t, drill.PhaseRising, h.phase())
	assert.Contains(t, h.s.View(100, 30), "Urge")

	h.press(space)
	require.Equal(t, drill.PhaseFeedback, h.phase())
	assert.Equal(t, drill.ResultEarly, h.s.snap.Last.Result)
	assert.Contains(t, h.s.View(100, 30), "Pressed early")
}

func TestFocus_ArrowsMovePointer(t *testing.T) {
	h := newHarness(t, drill.Focus)
	h.startRound()
	require.Equal(t, drill.PhaseActive, h.phase())
	before := h.s.snap.Stimulus.Pointer

	h.press(tea.KeyPressMsg{Code: tea.KeyRight})
	h.press(keyPress('j'))
	after := h.s.snap.Stimulus.Pointer
	assert.InDelta(t, before.X+focusStep, after.X, 1e-9)
	assert.InDelta(t, before.Y+focusStep, after.Y, 1e-9)

	for i := 0; i < 40; i++ {
		h.press(keyPress('h'))
	}
	assert.Zero(t, h.s.snap.Stimulus.Pointer.X, "pointer stays in the field")
}

func TestKeyHintsFollowPhase(t *testing.T) {
	h := newHarness(t, drill.Awareness)
	assert.Equal(t, "S/Enter", h.s.KeyHints()[0].Key)

	h.startRound()
	var keys []string
	for _, k := range h.s.KeyHints() {
		keys = append(keys, k.Key)
	}
	assert.Equal(t, "1-9 Esc", strings.Join(keys, " "))
}

func TestCanvasMapsCorners(t *testing.T) {
	c := newCanvas(20, 10)
	x, y := c.cell(stimulus.Point{})
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y})
	x, y = c.cell(stimulus.Point{X: stimulus.FieldSize, Y: stimulus.FieldSize})
	assert.Equal(t, [2]int{19, 9}, [2]int{x, y})
	x, y = c.cell(stimulus.Point{X: -5, Y: 500})
	assert.Equal(t, [2]int{0, 9}, [2]int{x, y})

	c.set(stimulus.Center, "+")
	assert.Equal(t, 1, strings.Count(c.String(), "+"))
	assert.Equal(t, 10, len(strings.Split(c.String(), "\n")))
}
