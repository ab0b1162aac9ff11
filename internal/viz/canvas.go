package viz

import (
	"math"
	"strings"

	"github.com/san-kum/drivetrain/internal/geom"
	"github.com/san-kum/drivetrain/internal/motion"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
	return c
}

// Set lights the sub-pixel at (x, y). The canvas is Width*2 by Height*4
// sub-pixels with the origin at the top left.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// PathMap draws the field positions in samples onto a w by h cell canvas,
// +Y up, scaled to fit with equal units on both axes.
func PathMap(samples []motion.Sample, w, h int) string {
	c := NewCanvas(w, h)
	if len(samples) == 0 || w < 1 || h < 1 {
		return c.String()
	}

	lo, hi := samples[0].Position, samples[0].Position
	for _, s := range samples {
		lo = geom.Pt(math.Min(lo.X, s.Position.X), math.Min(lo.Y, s.Position.Y))
		hi = geom.Pt(math.Max(hi.X, s.Position.X), math.Max(hi.Y, s.Position.Y))
	}
	pw, ph := float64(w*2-1), float64(h*4-1)
	span := math.Max(hi.X-lo.X, hi.Y-lo.Y)
	scale := 1.0
	if span > 0 {
		scale = math.Min(pw, ph) / span
	}

	px := func(p geom.Coordinate) (int, int) {
		x := int(math.Round((p.X - lo.X) * scale))
		y := int(math.Round(ph - (p.Y-lo.Y)*scale))
		return x, y
	}

	x0, y0 := px(samples[0].Position)
	c.Set(x0, y0)
	for _, s := range samples[1:] {
		x1, y1 := px(s.Position)
		c.DrawLine(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
	return c.String()
}
