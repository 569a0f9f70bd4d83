package filter

import (
	"fmt"

	"github.com/biosignalsplux/biosignals-go/dsp/window"
)

// Smooth smooths the signal by convolving it with a normalized window of the
// given length. The signal is extended on both ends with odd-reflected copies
// of itself so transients at the edges are minimized.
//
// Window lengths below 3 return an unmodified copy of the input. The signal
// must be at least as long as the window.
func Smooth(signal []float64, windowLen int, winType window.Type) ([]float64, error) {
	if len(signal) < windowLen {
		return nil, fmt.Errorf("signal length %d must be >= window length %d", len(signal), windowLen)
	}

	if windowLen < 3 {
		out := make([]float64, len(signal))
		copy(out, signal)
		return out, nil
	}

	// The reflection can span at most n-1 samples.
	n := len(signal)
	span := windowLen
	if span > n-1 {
		span = n - 1
	}
	ext := make([]float64, n+2*span)

	first := signal[0]
	last := signal[n-1]
	for i := 0; i < span; i++ {
		ext[i] = 2*first - signal[span-i]
		ext[n+span+i] = 2*last - signal[n-2-i]
	}
	copy(ext[span:], signal)

	coeffs := window.Generate(winType, windowLen)
	norm := window.Sum(coeffs)
	if norm == 0 {
		return nil, fmt.Errorf("window %q sums to zero", winType.Name())
	}
	kernel := make([]float64, windowLen)
	for i, c := range coeffs {
		kernel[i] = c / norm
	}

	smoothed := convolveSame(ext, kernel)
	out := make([]float64, n)
	copy(out, smoothed[span:n+span])
	return out, nil
}

// SmoothByName is Smooth with the window given by name
// ("flat", "hanning", "hamming", "bartlett", "blackman").
func SmoothByName(signal []float64, windowLen int, name string) ([]float64, error) {
	winType, err := window.FromName(name)
	if err != nil {
		return nil, err
	}
	return Smooth(signal, windowLen, winType)
}

// MovingAverage applies a centered moving-average of the given width and
// returns a slice of the same length. Edges use the available overlap.
func MovingAverage(signal []float64, width int) []float64 {
	if width < 1 {
		width = 1
	}

	kernel := make([]float64, width)
	for i := range kernel {
		kernel[i] = 1 / float64(width)
	}
	return convolveSame(signal, kernel)
}

// convolveSame convolves signal with kernel and returns the centered segment
// with the same length as signal, matching "same" mode convolution.
func convolveSame(signal, kernel []float64) []float64 {
	n := len(signal)
	m := len(kernel)
	out := make([]float64, n)
	offset := (m - 1) / 2

	for i := 0; i < n; i++ {
		acc := 0.0
		for k := 0; k < m; k++ {
			j := i + offset - k
			if j >= 0 && j < n {
				acc += kernel[k] * signal[j]
			}
		}
		out[i] = acc
	}
	return out
}
