package analysis

import (
	"math"
	"math/cmplx"
	"time"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the one-sided spectrum of data
// after removing its mean. Bin i corresponds to i/(len(data)*tick) Hz.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency is the strongest non-DC frequency, in Hz, of data
// sampled every tick. It returns 0 when there is nothing to find.
func DominantFrequency(data []float64, tick time.Duration) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || tick <= 0 {
		return 0
	}
	best, bestIdx := 0.0, 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, bestIdx = ps[i], i
		}
	}
	if bestIdx == 0 || best < 1e-9 {
		return 0
	}
	return float64(bestIdx) / (float64(len(data)) * tick.Seconds())
}

func round(v, places float64) float64 {
	p := math.Pow(10, places)
	return math.Round(v*p) / p
}
