package spectrum

import (
	"fmt"
)

// Simpson integrates y over x using the composite Simpson rule. Unevenly
// spaced points are handled with the quadratic-fit formulation; when the
// point count is even the final interval falls back to a trapezoid.
//
// Fewer than 2 points integrate to 0; 2 points reduce to a trapezoid.
func Simpson(y, x []float64) (float64, error) {
	if len(y) != len(x) {
		return 0, fmt.Errorf("simpson axis length mismatch: %d != %d", len(y), len(x))
	}
	if len(y) < 2 {
		return 0, nil
	}
	if len(y) == 2 {
		return (x[1] - x[0]) * (y[0] + y[1]) / 2, nil
	}

	total := 0.0
	i := 0
	for ; i+2 < len(y); i += 2 {
		h0 := x[i+1] - x[i]
		h1 := x[i+2] - x[i+1]
		if h0 <= 0 || h1 <= 0 {
			return 0, fmt.Errorf("simpson x must be strictly increasing at index %d", i+1)
		}

		hsum := h0 + h1
		total += hsum / 6 * (y[i]*(2-h1/h0) + y[i+1]*hsum*hsum/(h0*h1) + y[i+2]*(2-h0/h1))
	}

	// Leftover interval for even point counts.
	if i+1 < len(y) {
		h := x[i+1] - x[i]
		if h <= 0 {
			return 0, fmt.Errorf("simpson x must be strictly increasing at index %d", i)
		}
		total += h * (y[i] + y[i+1]) / 2
	}
	return total, nil
}

// CumTrapz returns the cumulative trapezoid integral of y over x, starting
// at 0. The result has the same length as the inputs.
func CumTrapz(y, x []float64) ([]float64, error) {
	if len(y) != len(x) {
		return nil, fmt.Errorf("cumtrapz axis length mismatch: %d != %d", len(y), len(x))
	}
	if len(y) == 0 {
		return nil, nil
	}

	out := make([]float64, len(y))
	for i := 1; i < len(y); i++ {
		out[i] = out[i-1] + (x[i]-x[i-1])*(y[i]+y[i-1])/2
	}
	return out, nil
}

// BandPower integrates the spectral density over [lowHz, highHz].
//
// Bins with freqs inside the closed band contribute; an empty band
// integrates to 0.
func BandPower(freqs, density []float64, lowHz, highHz float64) (float64, error) {
	if len(freqs) != len(density) {
		return 0, fmt.Errorf("band power axis length mismatch: %d != %d", len(freqs), len(density))
	}
	if lowHz > highHz {
		return 0, fmt.Errorf("band edges must satisfy low <= high: %f > %f", lowHz, highHz)
	}

	var bandF, bandP []float64
	for i, f := range freqs {
		if f >= lowHz && f <= highHz {
			bandF = append(bandF, f)
			bandP = append(bandP, density[i])
		}
	}
	if len(bandF) < 2 {
		return 0, nil
	}
	return Simpson(bandP, bandF)
}

// TotalPower integrates the full spectral density via cumulative trapezoid.
func TotalPower(freqs, density []float64) (float64, error) {
	cum, err := CumTrapz(density, freqs)
	if err != nil {
		return 0, err
	}
	if len(cum) == 0 {
		return 0, nil
	}
	return cum[len(cum)-1], nil
}

// MedianFrequency returns the frequency that splits the spectral power into
// two halves of equal area.
func MedianFrequency(freqs, density []float64) (float64, error) {
	cum, err := CumTrapz(density, freqs)
	if err != nil {
		return 0, err
	}
	if len(cum) == 0 {
		return 0, fmt.Errorf("median frequency of empty spectrum")
	}

	half := cum[len(cum)-1] / 2
	for i, c := range cum {
		if c >= half {
			return freqs[i], nil
		}
	}
	return freqs[len(freqs)-1], nil
}

// PeakFrequency returns the frequency of the largest density bin.
func PeakFrequency(freqs, density []float64) (float64, error) {
	if len(freqs) != len(density) {
		return 0, fmt.Errorf("peak frequency axis length mismatch: %d != %d", len(freqs), len(density))
	}
	if len(freqs) == 0 {
		return 0, fmt.Errorf("peak frequency of empty spectrum")
	}

	best := 0
	for i, p := range density {
		if p > density[best] {
			best = i
		}
	}
	return freqs[best], nil
}
