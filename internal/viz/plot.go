package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/drivetrain/internal/motion"
)

const (
	plotHeight = 10
	plotWidth  = 70
)

// downsample keeps at most n evenly spaced points of data.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n || n < 2 {
		return data
	}
	out := make([]float64, n)
	last := float64(len(data) - 1)
	for i := range out {
		out[i] = data[int(float64(i)*last/float64(n-1))]
	}
	return out
}

func column(samples []motion.Sample, f func(motion.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = f(s)
	}
	return out
}

func plot(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(downsample(data, plotWidth),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption))
}

func PlotError(samples []motion.Sample) string {
	return plot(column(samples, func(s motion.Sample) float64 { return s.Error }), "error")
}

func PlotHeading(samples []motion.Sample) string {
	return plot(column(samples, func(s motion.Sample) float64 { return s.Heading }), "heading (deg)")
}

// PlotCommands overlays the left and right wheel commands.
func PlotCommands(samples []motion.Sample) string {
	if len(samples) == 0 {
		return ""
	}
	left := downsample(column(samples, func(s motion.Sample) float64 { return s.Command.Left }), plotWidth)
	right := downsample(column(samples, func(s motion.Sample) float64 { return s.Command.Right }), plotWidth)
	return asciigraph.PlotMany([][]float64{left, right},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption("left (green) / right (red)"))
}
