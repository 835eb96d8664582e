// Package stimulus turns a difficulty level into the randomized timing,
// position and intensity parameters each drill needs. All functions are
// pure given a random source.
package stimulus

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/tramind/internal/drill"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

//go:embed curves.yaml
var defaultCurvesYAML []byte

// Linear is a difficulty curve: Base + Step*difficulty, clamped to
// [Min, Max] when set.
type Linear struct {
	Base float64  `yaml:"base"`
	Step float64  `yaml:"step"`
	Min  *float64 `yaml:"min"`
	Max  *float64 `yaml:"max"`
}

// At evaluates the curve at difficulty d.
func (l Linear) At(d int) float64 {
	v := l.Base + l.Step*float64(d)
	if l.Min != nil && v < *l.Min {
		v = *l.Min
	}
	if l.Max != nil && v > *l.Max {
		v = *l.Max
	}
	return v
}

// Int evaluates the curve and rounds to the nearest integer.
func (l Linear) Int(d int) int {
	return int(math.Round(l.At(d)))
}

// Millis evaluates the curve as a number of milliseconds.
func (l Linear) Millis(d int) time.Duration {
	return time.Duration(l.At(d) * float64(time.Millisecond))
}

// ReflexCurve tunes the reflex and keyboard-reflex drills.
type ReflexCurve struct {
	Rounds           Linear  `yaml:"rounds"`
	DelayMinMs       Linear  `yaml:"delay_min_ms"`
	DelayMaxMs       Linear  `yaml:"delay_max_ms"`
	DelaySpreadMs    float64 `yaml:"delay_spread_ms"`
	TargetSize       Linear  `yaml:"target_size"`
	ResponseWindowMs Linear  `yaml:"response_window_ms"`
	FeedbackMs       Linear  `yaml:"feedback_ms"`
	MarginFraction   float64 `yaml:"margin_fraction"`
}

// AwarenessCurve tunes the awareness drill.
type AwarenessCurve struct {
	Rounds           Linear  `yaml:"rounds"`
	Decoys           Linear  `yaml:"decoys"`
	DisplayMs        Linear  `yaml:"display_ms"`
	WaitMinMs        Linear  `yaml:"wait_min_ms"`
	WaitMaxMs        Linear  `yaml:"wait_max_ms"`
	FeedbackMs       Linear  `yaml:"feedback_ms"`
	InnerRadius      float64 `yaml:"inner_radius"`
	OuterRadius      float64 `yaml:"outer_radius"`
	MinSeparation    float64 `yaml:"min_separation"`
	PlacementRetries int     `yaml:"placement_retries"`
}

// ImpulseCurve tunes the impulse-control drill.
type ImpulseCurve struct {
	Rounds      Linear   `yaml:"rounds"`
	RiseMs      Linear   `yaml:"rise_ms"`
	ResistMs    Linear   `yaml:"resist_ms"`
	WaitMinMs   Linear   `yaml:"wait_min_ms"`
	WaitMaxMs   Linear   `yaml:"wait_max_ms"`
	FeedbackMs  Linear   `yaml:"feedback_ms"`
	FrameMs     int      `yaml:"frame_ms"`
	Temptations []string `yaml:"temptations"`
}

// FocusCurve tunes the focus drill.
type FocusCurve struct {
	DurationMs         Linear  `yaml:"duration_ms"`
	TargetRadius       Linear  `yaml:"target_radius"`
	Distractors        Linear  `yaml:"distractors"`
	SampleMs           int     `yaml:"sample_ms"`
	FrameMs            int     `yaml:"frame_ms"`
	DistractorSpeedMin float64 `yaml:"distractor_speed_min"`
	DistractorSpeedMax float64 `yaml:"distractor_speed_max"`
}

// Curves is the declarative difficulty table for every drill.
type Curves struct {
	Reflex         ReflexCurve    `yaml:"reflex"`
	KeyboardReflex ReflexCurve    `yaml:"keyboard_reflex"`
	Awareness      AwarenessCurve `yaml:"awareness"`
	Impulse        ImpulseCurve   `yaml:"impulse"`
	Focus          FocusCurve     `yaml:"focus"`
}

var (
	defaultOnce   sync.Once
	defaultCurves Curves
)

// Default returns a copy of the built-in curve table.
func Default() *Curves {
	defaultOnce.Do(func() {
		if err := yaml.Unmarshal(defaultCurvesYAML, &defaultCurves); err != nil {
			panic(fmt.Sprintf("stimulus: embedded curves.yaml: %v", err))
		}
	})
	return defaultCurves.clone()
}

func (l Linear) clone() Linear {
	if l.Min != nil {
		v := *l.Min
		l.Min = &v
	}
	if l.Max != nil {
		v := *l.Max
		l.Max = &v
	}
	return l
}

// clone deep-copies the table so decoding an override never writes
// through to the shared defaults.
func (c Curves) clone() *Curves {
	for _, r := range []*ReflexCurve{&c.Reflex, &c.KeyboardReflex} {
		r.Rounds = r.Rounds.clone()
		r.DelayMinMs = r.DelayMinMs.clone()
		r.DelayMaxMs = r.DelayMaxMs.clone()
		r.TargetSize = r.TargetSize.clone()
		r.ResponseWindowMs = r.ResponseWindowMs.clone()
		r.FeedbackMs = r.FeedbackMs.clone()
	}
	a := &c.Awareness
	a.Rounds, a.Decoys, a.DisplayMs = a.Rounds.clone(), a.Decoys.clone(), a.DisplayMs.clone()
	a.WaitMinMs, a.WaitMaxMs, a.FeedbackMs = a.WaitMinMs.clone(), a.WaitMaxMs.clone(), a.FeedbackMs.clone()
	i := &c.Impulse
	i.Rounds, i.RiseMs, i.ResistMs = i.Rounds.clone(), i.RiseMs.clone(), i.ResistMs.clone()
	i.WaitMinMs, i.WaitMaxMs, i.FeedbackMs = i.WaitMinMs.clone(), i.WaitMaxMs.clone(), i.FeedbackMs.clone()
	i.Temptations = append([]string(nil), i.Temptations...)
	f := &c.Focus
	f.DurationMs, f.TargetRadius, f.Distractors = f.DurationMs.clone(), f.TargetRadius.clone(), f.Distractors.clone()
	return &c
}

// Parse decodes a YAML curve table on top of the defaults, so an override
// only needs to name the values it changes.
func Parse(data []byte) (*Curves, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse curves: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a curve override file. An empty path returns the defaults.
func Load(path string) (*Curves, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curves file: %w", err)
	}
	return Parse(data)
}

func (c *Curves) validate() error {
	for d := MinDifficulty; d <= MaxDifficulty; d++ {
		for _, id := range []drill.ID{drill.Reflex, drill.KeyboardReflex, drill.Awareness, drill.Impulse} {
			if n := c.Rounds(id, d); n <= 0 {
				return fmt.Errorf("curves: %s has %d rounds at difficulty %d", id, n, d)
			}
		}
		if c.Focus.DurationMs.At(d) <= 0 {
			return fmt.Errorf("curves: focus duration must be positive at difficulty %d", d)
		}
	}
	if c.Focus.SampleMs <= 0 || c.Focus.FrameMs <= 0 || c.Impulse.FrameMs <= 0 {
		return fmt.Errorf("curves: frame and sample intervals must be positive")
	}
	return nil
}

// ClampDifficulty forces d into [MinDifficulty, MaxDifficulty].
func ClampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}

// Rounds returns the number of rounds an attempt at difficulty d runs.
// Focus is continuous and reports the number of samples instead.
func (c *Curves) Rounds(id drill.ID, d int) int {
	switch id {
	case drill.Reflex:
		return c.Reflex.Rounds.Int(d)
	case drill.KeyboardReflex:
		return c.KeyboardReflex.Rounds.Int(d)
	case drill.Awareness:
		return c.Awareness.Rounds.Int(d)
	case drill.Impulse:
		return c.Impulse.Rounds.Int(d)
	case drill.Focus:
		return c.FocusParams(d).Samples()
	}
	return 0
}
