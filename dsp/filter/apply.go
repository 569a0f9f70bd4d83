package filter

import (
	"fmt"
)

const defaultSampleRate = 1000.0

// Option configures the high-level filtering helpers.
type Option func(*config)

type config struct {
	order      int
	sampleRate float64
	zeroPhase  bool
	padLen     int
}

func defaultConfig() config {
	return config{
		order:      2,
		sampleRate: defaultSampleRate,
	}
}

// WithOrder sets the Butterworth filter order. Default is 2.
func WithOrder(order int) Option {
	return func(c *config) { c.order = order }
}

// WithSampleRate sets the acquisition sampling rate in Hz. Default is 1000.
func WithSampleRate(rate float64) Option {
	return func(c *config) { c.sampleRate = rate }
}

// WithZeroPhase enables forward-backward filtering. The result has zero phase
// distortion and twice the attenuation of the chosen order.
func WithZeroPhase() Option {
	return func(c *config) { c.zeroPhase = true }
}

// WithEdgePadding sets the reflected-edge padding length used by zero-phase
// filtering. Zero selects an automatic value from the cascade length.
func WithEdgePadding(n int) Option {
	return func(c *config) { c.padLen = n }
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Lowpass attenuates frequencies above cutoffHz with a Butterworth filter.
func Lowpass(signal []float64, cutoffHz float64, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts)

	sections, err := ButterworthLP(cutoffHz, cfg.order, cfg.sampleRate)
	if err != nil {
		return nil, err
	}
	return run(signal, sections, cfg)
}

// Highpass attenuates frequencies below cutoffHz with a Butterworth filter.
func Highpass(signal []float64, cutoffHz float64, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts)

	sections, err := ButterworthHP(cutoffHz, cfg.order, cfg.sampleRate)
	if err != nil {
		return nil, err
	}
	return run(signal, sections, cfg)
}

// Bandpass passes frequencies between lowHz and highHz with a Butterworth filter.
func Bandpass(signal []float64, lowHz, highHz float64, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts)

	sections, err := ButterworthBP(lowHz, highHz, cfg.order, cfg.sampleRate)
	if err != nil {
		return nil, err
	}
	return run(signal, sections, cfg)
}

// Bandstop attenuates frequencies between lowHz and highHz.
func Bandstop(signal []float64, lowHz, highHz float64, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts)

	sections, err := ButterworthBS(lowHz, highHz, cfg.order, cfg.sampleRate)
	if err != nil {
		return nil, err
	}
	return run(signal, sections, cfg)
}

func run(signal []float64, sections []Coefficients, cfg config) ([]float64, error) {
	if cfg.zeroPhase {
		return ApplyForwardBackward(signal, sections, cfg.padLen)
	}
	return Apply(signal, sections), nil
}

// Apply filters the signal through the cascade in a single forward pass and
// returns a new slice. The input is not modified.
func Apply(signal []float64, sections []Coefficients) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)
	NewChain(sections).ProcessBlock(out)
	return out
}

// ApplyForwardBackward filters the signal forward and then backward so the
// phase response cancels out. The signal is extended on both ends with
// odd-reflected copies of length padLen to reduce startup transients.
//
// padLen <= 0 selects 3 times the cascade coefficient count. The signal must
// be longer than the padding.
func ApplyForwardBackward(signal []float64, sections []Coefficients, padLen int) ([]float64, error) {
	if padLen <= 0 {
		padLen = 3 * (2*len(sections) + 1)
	}
	if len(signal) <= padLen {
		return nil, fmt.Errorf("signal length %d must exceed edge padding %d", len(signal), padLen)
	}

	n := len(signal)
	ext := make([]float64, n+2*padLen)

	// Odd reflection about the first and last samples.
	first := signal[0]
	last := signal[n-1]
	for i := 0; i < padLen; i++ {
		ext[i] = 2*first - signal[padLen-i]
		ext[n+padLen+i] = 2*last - signal[n-2-i]
	}
	copy(ext[padLen:], signal)

	NewChain(sections).ProcessBlock(ext)
	reverse(ext)
	NewChain(sections).ProcessBlock(ext)
	reverse(ext)

	out := make([]float64, n)
	copy(out, ext[padLen:n+padLen])
	return out, nil
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
