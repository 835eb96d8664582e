package stimulus

import (
	"math"
	"time"
)

// FieldSize is the side of the square play field in field units.
const FieldSize = 100.0

// Center is the middle of the play field.
var Center = Point{X: FieldSize / 2, Y: FieldSize / 2}

// Point is a position in field units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Dot is one awareness stimulus.
type Dot struct {
	Pos    Point
	Target bool
}

// polar draws a point uniformly in angle and radius within the annulus
// [inner, outer) around Center.
func polar(src Source, inner, outer float64) Point {
	angle := src.Float64() * 2 * math.Pi
	r := inner + src.Float64()*(outer-inner)
	return Point{X: Center.X + math.Cos(angle)*r, Y: Center.Y + math.Sin(angle)*r}
}

// PlaceDots lays out one target and the configured number of decoys.
// Each decoy is redrawn up to PlacementRetries times while it lands within
// MinSeparation of an already placed dot; after that it is kept anyway.
// The slice order is shuffled and the index of the target is returned.
func (p AwarenessParams) PlaceDots(src Source) ([]Dot, int) {
	dots := make([]Dot, 0, p.Decoys+1)
	dots = append(dots, Dot{Pos: polar(src, p.InnerRadius, p.OuterRadius), Target: true})

	for i := 0; i < p.Decoys; i++ {
		var pos Point
		for attempt := 0; ; attempt++ {
			pos = polar(src, p.InnerRadius, p.OuterRadius)
			if attempt+1 >= p.PlacementRetries || !crowded(dots, pos, p.MinSeparation) {
				break
			}
		}
		dots = append(dots, Dot{Pos: pos})
	}

	for i := len(dots) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		dots[i], dots[j] = dots[j], dots[i]
	}

	target := 0
	for i, d := range dots {
		if d.Target {
			target = i
			break
		}
	}
	return dots, target
}

func crowded(dots []Dot, pos Point, minSep float64) bool {
	for _, d := range dots {
		if d.Pos.Dist(pos) < minSep {
			return true
		}
	}
	return false
}

// FocusTarget returns the position of the moving focus target after
// elapsed time. The path is a slowly breathing loop around Center.
func FocusTarget(elapsed time.Duration) Point {
	t := elapsed.Seconds()
	r := 25 + math.Sin(t*0.3)*15
	angle := t*0.5 + math.Sin(t*0.2)*2
	return Point{X: Center.X + math.Cos(angle)*r, Y: Center.Y + math.Sin(angle)*r}
}

// Distractor is a point drifting in a straight line and bouncing off the
// field edges.
type Distractor struct {
	Pos   Point
	Speed float64
	Angle float64
}

// NewDistractors scatters n distractors over the field.
func (p FocusParams) NewDistractors(src Source) []Distractor {
	out := make([]Distractor, p.Distractors)
	for i := range out {
		out[i] = Distractor{
			Pos:   Point{X: src.Float64() * FieldSize, Y: src.Float64() * FieldSize},
			Speed: p.DistractorSpeedMin + src.Float64()*(p.DistractorSpeedMax-p.DistractorSpeedMin),
			Angle: src.Float64() * 2 * math.Pi,
		}
	}
	return out
}

// Step advances the distractor by one frame.
func (d Distractor) Step() Distractor {
	x := d.Pos.X + math.Cos(d.Angle)*d.Speed
	y := d.Pos.Y + math.Sin(d.Angle)*d.Speed
	angle := d.Angle
	if x < 0 || x > FieldSize {
		angle = math.Pi - angle
		x = math.Max(0, math.Min(FieldSize, x))
	}
	if y < 0 || y > FieldSize {
		angle = -angle
		y = math.Max(0, math.Min(FieldSize, y))
	}
	return Distractor{Pos: Point{X: x, Y: y}, Speed: d.Speed, Angle: angle}
}
