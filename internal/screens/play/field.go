package play

import (
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tramind/internal/stimulus"
)

// canvas maps the square play field onto a grid of terminal cells. Cells
// are about twice as tall as they are wide, so the grid has two columns
// per row.
type canvas struct {
	w, h  int
	cells [][]string
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: max(w, 2), h: max(h, 1)}
	c.cells = make([][]string, c.h)
	for y := range c.cells {
		row := make([]string, c.w)
		for x := range row {
			row[x] = " "
		}
		c.cells[y] = row
	}
	return c
}

// fitCanvas sizes a canvas to the space available on screen.
func fitCanvas(width, height int) *canvas {
	h := max(min(height, (width-2)/2), 4)
	return newCanvas(2*h, h)
}

// cell returns the grid coordinates of p.
func (c *canvas) cell(p stimulus.Point) (int, int) {
	x := int(math.Round(p.X / stimulus.FieldSize * float64(c.w-1)))
	y := int(math.Round(p.Y / stimulus.FieldSize * float64(c.h-1)))
	return min(max(x, 0), c.w-1), min(max(y, 0), c.h-1)
}

// point returns the field position at the center of cell (x, y).
func (c *canvas) point(x, y int) stimulus.Point {
	return stimulus.Point{
		X: float64(x) / float64(c.w-1) * stimulus.FieldSize,
		Y: float64(y) / float64(c.h-1) * stimulus.FieldSize,
	}
}

func (c *canvas) set(p stimulus.Point, glyph string) {
	x, y := c.cell(p)
	c.cells[y][x] = glyph
}

// fill sets every cell whose center satisfies in.
func (c *canvas) fill(glyph string, in func(stimulus.Point) bool) {
	for y := range c.cells {
		for x := range c.cells[y] {
			if in(c.point(x, y)) {
				c.cells[y][x] = glyph
			}
		}
	}
}

func (c *canvas) String() string {
	rows := make([]string, len(c.cells))
	for y, row := range c.cells {
		rows[y] = strings.Join(row, "")
	}
	return strings.Join(rows, "\n")
}

// square reports whether p lies in the axis-aligned square of side size
// centered on center.
func square(center stimulus.Point, size float64) func(stimulus.Point) bool {
	half := size / 2
	return func(p stimulus.Point) bool {
		return math.Abs(p.X-center.X) <= half && math.Abs(p.Y-center.Y) <= half
	}
}

// disc reports whether p lies within radius of center.
func disc(center stimulus.Point, radius float64) func(stimulus.Point) bool {
	return func(p stimulus.Point) bool { return p.Dist(center) <= radius }
}

func glyph(s string, style lipgloss.Style) string {
	return style.Render(s)
}
