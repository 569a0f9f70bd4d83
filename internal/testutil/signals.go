package testutil

import (
	"math"
	"math/rand"
)

// Sine generates a deterministic sine wave sampled at sampleRate.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise generates white noise with a fixed seed for reproducibility.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// SyntheticECG generates a crude ECG-like trace at the given heart rate:
// a low-amplitude baseline wander with a narrow raised-cosine spike per
// beat. Good enough to exercise peak detection deterministically.
func SyntheticECG(sampleRate, beatsPerMinute float64, length int) []float64 {
	out := make([]float64, length)
	beatPeriod := 60 / beatsPerMinute * sampleRate
	spikeHalf := int(0.02 * sampleRate)
	if spikeHalf < 1 {
		spikeHalf = 1
	}

	for i := range out {
		// Baseline wander at 0.3 Hz.
		out[i] = 0.05 * math.Sin(2*math.Pi*0.3*float64(i)/sampleRate)
	}

	for beat := 1.0; ; beat++ {
		center := int(beat * beatPeriod)
		if center >= length {
			break
		}
		for k := -spikeHalf; k <= spikeHalf; k++ {
			idx := center + k
			if idx < 0 || idx >= length {
				continue
			}
			out[idx] += 0.5 * (1 + math.Cos(math.Pi*float64(k)/float64(spikeHalf)))
		}
	}
	return out
}

// Constant generates a constant-valued signal.
func Constant(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
