// Package export renders recorded runs to files outside the terminal.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/san-kum/drivetrain/internal/motion"
)

// primitiveColors cycles per primitive run so consecutive segments of the
// path are told apart.
var primitiveColors = []string{"#00ff88", "#00ccff", "#ffcc00", "#ff00ff", "#ff8844"}

// PathSVG draws the driven path of samples, one polyline per primitive run,
// with +Y up and equal units on both axes. It returns "" for fewer than two
// samples.
func PathSVG(samples []motion.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}

	minX, maxX := samples[0].Position.X, samples[0].Position.X
	minY, maxY := samples[0].Position.Y, samples[0].Position.Y
	for _, s := range samples {
		minX = math.Min(minX, s.Position.X)
		maxX = math.Max(maxX, s.Position.X)
		minY = math.Min(minY, s.Position.Y)
		maxY = math.Max(maxY, s.Position.Y)
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	pad := span * 0.1
	span += 2 * pad
	scale := math.Min(float64(width), float64(height)) / span
	px := func(x float64) float64 { return (x - minX + pad) * scale }
	py := func(y float64) float64 { return float64(height) - (y-minY+pad)*scale }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	seg := 0
	open := false
	for i, s := range samples {
		if i == 0 || s.Primitive != samples[i-1].Primitive || s.Tick == 0 {
			if open {
				sb.WriteString(`"/>` + "\n")
			}
			color := primitiveColors[seg%len(primitiveColors)]
			seg++
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" data-primitive="%s" d="M%.1f,%.1f`,
				color, s.Primitive, px(s.Position.X), py(s.Position.Y)))
			open = true
			continue
		}
		sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(s.Position.X), py(s.Position.Y)))
	}
	if open {
		sb.WriteString(`"/>` + "\n")
	}

	first, last := samples[0].Position, samples[len(samples)-1].Position
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="#ffffff"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="#ff4444"/>
</svg>`, px(first.X), py(first.Y), px(last.X), py(last.Y)))
	return sb.String()
}

// WritePathSVG writes PathSVG to w.
func WritePathSVG(w io.Writer, samples []motion.Sample, width, height int) error {
	svg := PathSVG(samples, width, height)
	if svg == "" {
		return fmt.Errorf("need at least two samples, got %d", len(samples))
	}
	_, err := io.WriteString(w, svg)
	return err
}

func SavePathSVG(path string, samples []motion.Sample, width, height int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return WritePathSVG(f, samples, width, height)
}
