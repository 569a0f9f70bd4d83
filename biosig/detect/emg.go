package detect

import (
	"fmt"
	"math"

	"github.com/biosignalsplux/biosignals-go/dsp/filter"
	statstime "github.com/biosignalsplux/biosignals-go/stats/time"
)

// EMG surface activity concentrates in the 10-300 Hz band.
const (
	emgBandLowHz  = 10
	emgBandHighHz = 300
)

// ActivationOption configures muscular activation detection.
type ActivationOption func(*activationConfig)

type activationConfig struct {
	smoothLevel    float64
	thresholdLevel float64
}

// WithSmoothLevel sets the smoothing percentage: the envelope averaging
// window spans smoothLevel percent of one second. The default is 20.
func WithSmoothLevel(percent float64) ActivationOption {
	return func(c *activationConfig) { c.smoothLevel = percent }
}

// WithThresholdLevel sets the detection threshold as a percentage between
// the baseline (0) and the envelope maximum (100). The default is 10.
func WithThresholdLevel(percent float64) ActivationOption {
	return func(c *activationConfig) { c.thresholdLevel = percent }
}

// Activations holds detected muscular activation bursts.
type Activations struct {
	// Onsets and Offsets are sample positions where bursts begin and end.
	// A burst still active at the end of the signal has no offset.
	Onsets  []int
	Offsets []int

	// Envelope is the smoothed energy envelope the detection ran on.
	Envelope []float64

	// Threshold is the absolute envelope level separating activity from rest.
	Threshold float64
}

// DetectActivations locates muscular activation bursts in an EMG signal
// using the Teager-Kaiser energy operator: baseline removal, 10-300 Hz
// bandpass, TKEO, rectification and two smoothing stages, followed by a
// single threshold placed by linear regression between the envelope
// baseline and maximum.
func DetectActivations(emg []float64, sampleRate float64, opts ...ActivationOption) (Activations, error) {
	if sampleRate <= 0 {
		return Activations{}, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	if len(emg) < int(sampleRate) {
		return Activations{}, fmt.Errorf("%w: %d samples at %f Hz", ErrSignalTooShort, len(emg), sampleRate)
	}

	cfg := activationConfig{smoothLevel: 20, thresholdLevel: 10}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.smoothLevel <= 0 || cfg.smoothLevel > 100 {
		return Activations{}, fmt.Errorf("smooth level must be in (0, 100]: %f", cfg.smoothLevel)
	}
	if cfg.thresholdLevel < 0 || cfg.thresholdLevel > 100 {
		return Activations{}, fmt.Errorf("threshold level must be in [0, 100]: %f", cfg.thresholdLevel)
	}

	// Baseline removal.
	pre := make([]float64, len(emg))
	mean := statstime.Mean(emg)
	for i, x := range emg {
		pre[i] = x - mean
	}

	pre, err := filter.Bandpass(pre, emgBandLowHz, emgBandHighHz,
		filter.WithOrder(6),
		filter.WithSampleRate(sampleRate))
	if err != nil {
		return Activations{}, fmt.Errorf("emg bandpass: %w", err)
	}

	envelope := smoothEnvelope(tkeo(pre), sampleRate, cfg.smoothLevel)

	threshold, err := regressionThreshold(cfg.thresholdLevel, envelope, pre)
	if err != nil {
		return Activations{}, err
	}

	act := Activations{Envelope: envelope, Threshold: threshold}
	active := false
	for i, x := range envelope {
		switch {
		case x >= threshold && !active:
			// The onset marks the last rest sample before the burst.
			onset := i - 1
			if onset < 0 {
				onset = 0
			}
			act.Onsets = append(act.Onsets, onset)
			active = true
		case x < threshold && active:
			act.Offsets = append(act.Offsets, i)
			active = false
		}
	}
	return act, nil
}

// tkeo applies the Teager-Kaiser energy operator x[i]^2 - x[i+1]*x[i-1].
// The first and last samples pass through unchanged.
func tkeo(signal []float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)
	for i := 1; i+1 < len(signal); i++ {
		out[i] = signal[i]*signal[i] - signal[i+1]*signal[i-1]
	}
	return out
}

// smoothEnvelope rectifies the energy signal and smooths it twice: a
// causal 100 ms moving average followed by a centered window spanning
// smoothLevel percent of one second. The centered pass zeroes the edges
// it cannot fill.
func smoothEnvelope(energy []float64, sampleRate, smoothLevel float64) []float64 {
	for i, x := range energy {
		energy[i] = math.Abs(x)
	}

	rect := causalMovingAverage(energy, int(sampleRate/10))

	half := int(smoothLevel / 100 * sampleRate)
	out := make([]float64, len(rect))
	if half < 1 {
		copy(out, rect)
		return out
	}

	sum := 0.0
	for _, x := range rect[:min(2*half, len(rect))] {
		sum += x
	}
	for i := range rect {
		if i > half && i < len(rect)-half {
			out[i] = sum / float64(2*half)
		}
		// Slide the [i-half, i+half) window one step right.
		if i+half < len(rect) && i-half >= 0 {
			sum += rect[i+half] - rect[i-half]
		}
	}
	return out
}

// causalMovingAverage averages the trailing wind samples; the first wind-1
// outputs are zero.
func causalMovingAverage(signal []float64, wind int) []float64 {
	if wind < 1 {
		wind = 1
	}

	out := make([]float64, len(signal))
	sum := 0.0
	for i, x := range signal {
		sum += x
		if i >= wind {
			sum -= signal[i-wind]
		}
		if i >= wind-1 {
			out[i] = sum / float64(wind)
		}
	}
	return out
}

// regressionThreshold converts a percent threshold into an absolute
// envelope level. 0 percent maps to the filtered-signal baseline and 100
// percent to the envelope maximum, in baseline standard deviations.
func regressionThreshold(level float64, envelope, filtered []float64) (float64, error) {
	avg := statstime.Mean(filtered)
	std := statstime.StdDev(filtered)
	if std == 0 {
		return 0, fmt.Errorf("threshold regression over constant signal: %f", avg)
	}

	maxEnv := envelope[0]
	for _, x := range envelope[1:] {
		if x > maxEnv {
			maxEnv = x
		}
	}

	slope, intercept, err := statstime.LinearFit(
		[]float64{0, 100},
		[]float64{-avg / std, (maxEnv - avg) / std})
	if err != nil {
		return 0, fmt.Errorf("threshold regression: %w", err)
	}
	return avg + (slope*level+intercept)*std, nil
}
