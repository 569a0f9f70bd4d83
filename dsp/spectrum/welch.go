package spectrum

import (
	"fmt"

	"github.com/biosignalsplux/biosignals-go/dsp/window"
)

const defaultSegmentLength = 256

// WelchOption configures the Welch estimator.
type WelchOption func(*welchConfig)

type welchConfig struct {
	segmentLength int
	overlap       int
	hasOverlap    bool
	windowType    window.Type
}

// WithSegmentLength sets the per-segment sample count. The default is
// min(256, len(signal)).
func WithSegmentLength(n int) WelchOption {
	return func(c *welchConfig) { c.segmentLength = n }
}

// WithOverlap sets the number of overlapping samples between consecutive
// segments. The default is half the segment length.
func WithOverlap(n int) WelchOption {
	return func(c *welchConfig) {
		c.overlap = n
		c.hasOverlap = true
	}
}

// WithWindowType selects the segment window. The default is Hann.
func WithWindowType(t window.Type) WelchOption {
	return func(c *welchConfig) { c.windowType = t }
}

// Welch estimates the one-sided power spectral density of a real signal by
// averaging windowed, overlapped segment periodograms.
//
// It returns the frequency axis [0, sampleRate/2] and the density in units of
// signal²/Hz. Each segment is mean-detrended before windowing.
func Welch(signal []float64, sampleRate float64, opts ...WelchOption) (freqs, density []float64, err error) {
	if sampleRate <= 0 {
		return nil, nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	cfg := welchConfig{
		segmentLength: defaultSegmentLength,
		windowType:    window.TypeHann,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.segmentLength <= 0 {
		return nil, nil, fmt.Errorf("segment length must be > 0: %d", cfg.segmentLength)
	}
	if cfg.segmentLength > len(signal) {
		cfg.segmentLength = len(signal)
	}
	if cfg.segmentLength < 2 {
		return nil, nil, fmt.Errorf("welch requires at least 2 samples: %d", len(signal))
	}
	if !cfg.hasOverlap {
		cfg.overlap = cfg.segmentLength / 2
	}
	if cfg.overlap < 0 || cfg.overlap >= cfg.segmentLength {
		return nil, nil, fmt.Errorf("overlap must be in [0, segment): %d", cfg.overlap)
	}

	seg := cfg.segmentLength
	step := seg - cfg.overlap
	fftSize := nextPowerOf2(seg)
	half := fftSize/2 + 1

	coeffs := window.Generate(cfg.windowType, seg, window.WithPeriodic())
	winPower := window.SumSquares(coeffs)
	if winPower == 0 {
		return nil, nil, fmt.Errorf("window %q has zero power", cfg.windowType.Name())
	}
	scale := 1 / (sampleRate * winPower)

	density = make([]float64, half)
	buf := make([]float64, seg)
	segments := 0

	for start := 0; start+seg <= len(signal); start += step {
		copy(buf, signal[start:start+seg])
		detrendMean(buf)
		if err := window.ApplyCoefficientsInPlace(buf, coeffs); err != nil {
			return nil, nil, err
		}

		bins, err := fft(buf, fftSize)
		if err != nil {
			return nil, nil, err
		}

		power := Power(bins[:half])
		for i, p := range power {
			density[i] += p * scale
		}
		segments++
	}

	if segments == 0 {
		return nil, nil, fmt.Errorf("signal of length %d yields no full segment of %d", len(signal), seg)
	}

	inv := 1 / float64(segments)
	for i := range density {
		density[i] *= inv
		// One-sided: double everything except DC and Nyquist.
		if i != 0 && i != half-1 {
			density[i] *= 2
		}
	}

	freqs = make([]float64, half)
	for i := range freqs {
		freqs[i] = float64(i) * sampleRate / float64(fftSize)
	}
	return freqs, density, nil
}

func detrendMean(buf []float64) {
	sum := 0.0
	for _, x := range buf {
		sum += x
	}
	mean := sum / float64(len(buf))
	for i := range buf {
		buf[i] -= mean
	}
}
