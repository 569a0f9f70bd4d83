package hrv

import (
	"fmt"
	"math"

	"github.com/biosignalsplux/biosignals-go/dsp/interp"
	"github.com/biosignalsplux/biosignals-go/dsp/spectrum"
)

// Tachograms are resampled onto an even 4 Hz grid before spectral analysis.
const interpolationRateHz = 4

// Spectral content above 0.5 Hz carries no HRV information.
const maxHRVFrequencyHz = 0.5

// PSD estimates the power spectral density of a tachogram. The unevenly
// sampled RR series is cubic-interpolated onto an even 4 Hz grid and fed to
// a Welch estimator with a Hann window of up to 1000 samples. Only the
// frequency axis below 0.5 Hz is returned.
func PSD(times, intervals []float64) (freqs, power []float64, err error) {
	_, even, err := interp.Resample(times, intervals, interpolationRateHz, interp.Cubic)
	if err != nil {
		return nil, nil, fmt.Errorf("tachogram resampling: %w", err)
	}

	seg := len(even)
	if seg > 1000 {
		seg = 1000
	}

	allFreqs, allPower, err := spectrum.Welch(even, interpolationRateHz,
		spectrum.WithSegmentLength(seg))
	if err != nil {
		return nil, nil, fmt.Errorf("tachogram psd: %w", err)
	}

	for i, f := range allFreqs {
		if f >= maxHRVFrequencyHz {
			break
		}
		freqs = append(freqs, f)
		power = append(power, allPower[i])
	}
	return freqs, power, nil
}

// bandPower integrates the density over a band and rounds to 5 decimals.
func bandPower(freqs, power []float64, band [2]float64) (float64, error) {
	p, err := spectrum.BandPower(freqs, power, band[0], band[1])
	if err != nil {
		return 0, err
	}
	return math.Round(p*1e5) / 1e5, nil
}
