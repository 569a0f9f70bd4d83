package time

import (
	"fmt"
	"math"
)

// Stats holds time-domain signal statistics.
type Stats struct {
	Length        int
	Mean          float64
	RMS           float64
	Max           float64
	MaxPos        int
	Min           float64
	MinPos        int
	Range         float64 // max - min
	Energy        float64 // sum of squares
	Power         float64 // energy / length
	ZeroCrossings int
	Variance      float64 // population variance
	StdDev        float64
	Skewness      float64
	Kurtosis      float64 // excess kurtosis
}

// Calculate computes all time-domain statistics in a single pass using
// Welford's online algorithm for numerical stability on higher-order moments.
func Calculate(signal []float64) Stats {
	var acc Accumulator
	acc.Update(signal)
	return acc.Result()
}

// Mean returns the arithmetic mean of the signal using Kahan summation.
func Mean(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// StdDev returns the population standard deviation of the signal.
func StdDev(signal []float64) float64 {
	_, variance, _, _ := Moments(signal)
	return math.Sqrt(variance)
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	peak := math.Abs(signal[0])
	for _, x := range signal[1:] {
		a := math.Abs(x)
		if a > peak {
			peak = a
		}
	}

	return peak
}

// ZeroCrossings returns the number of zero crossings in the signal.
// A crossing is counted when consecutive samples have opposite signs.
func ZeroCrossings(signal []float64) int {
	if len(signal) < 2 {
		return 0
	}

	var count int
	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}

	return count
}

// Diff returns the successive differences signal[i+1] - signal[i].
// The result has length len(signal)-1; fewer than 2 samples yield nil.
func Diff(signal []float64) []float64 {
	if len(signal) < 2 {
		return nil
	}

	out := make([]float64, len(signal)-1)
	for i := range out {
		out[i] = signal[i+1] - signal[i]
	}

	return out
}

// Moments returns the mean, population variance, skewness, and excess kurtosis
// of the signal using Welford's online algorithm for numerical stability.
func Moments(signal []float64) (mean, variance, skewness, kurtosis float64) {
	n := len(signal)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var m2, m3, m4 float64

	for i, x := range signal {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN
	}

	nf := float64(n)

	variance = m2 / nf
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return mean, variance, skewness, kurtosis
}

// LinearFit returns the least-squares line y = slope*x + intercept through
// the given points. At least 2 points with non-constant x are required.
func LinearFit(x, y []float64) (slope, intercept float64, err error) {
	if len(x) != len(y) {
		return 0, 0, fmt.Errorf("linear fit axis length mismatch: %d != %d", len(x), len(y))
	}
	if len(x) < 2 {
		return 0, 0, fmt.Errorf("linear fit requires at least 2 points: %d", len(x))
	}

	meanX := Mean(x)
	meanY := Mean(y)

	var sxx, sxy float64
	for i := range x {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
	}
	if sxx == 0 {
		return 0, 0, fmt.Errorf("linear fit over constant x: %f", x[0])
	}

	slope = sxy / sxx
	return slope, meanY - slope*meanX, nil
}
