package emg

import (
	"fmt"

	"github.com/biosignalsplux/biosignals-go/biosig/conv"
	"github.com/biosignalsplux/biosignals-go/biosig/detect"
	"github.com/biosignalsplux/biosignals-go/dsp/spectrum"
	statstime "github.com/biosignalsplux/biosignals-go/stats/time"
)

// Spectra of EMG signals use 256-sample Hann segments without overlap.
const welchSegmentLength = 256

// Params aggregates time-domain and frequency-domain EMG descriptors.
type Params struct {
	// Burst statistics, durations in seconds.
	ActivationCount  int
	MaxBurstDuration float64
	MinBurstDuration float64
	AvgBurstDuration float64
	StdBurstDuration float64

	// Sample amplitude statistics in the input units.
	MaxSample float64
	MinSample float64
	AvgSample float64
	StdSample float64

	// Signal intensity estimators.
	RMS  float64
	Area float64

	// Spectral reference points.
	TotalPower   float64
	MedianFreq   float64
	MaxPowerFreq float64
}

// ParametersFromRaw converts a raw ADC EMG channel to millivolt before
// extraction.
func ParametersFromRaw(raw []float64, device conv.Device, resolution int, sampleRate float64) (Params, error) {
	mv, err := conv.RawToPhysical(conv.SensorEMG, device, raw, resolution, conv.UnitMillivolt)
	if err != nil {
		return Params{}, err
	}
	return Parameters(mv, sampleRate)
}

// Parameters extracts the full EMG descriptor set from a signal in physical
// units. Burst boundaries come from Teager-Kaiser activation detection; the
// spectral descriptors from a Welch estimate of the whole record.
func Parameters(signal []float64, sampleRate float64) (Params, error) {
	act, err := detect.DetectActivations(signal, sampleRate)
	if err != nil {
		return Params{}, err
	}
	if len(act.Onsets) == 0 || len(act.Offsets) == 0 {
		return Params{}, fmt.Errorf("%w in %d samples", detect.ErrNoPeaks, len(signal))
	}

	n := len(act.Onsets)
	if len(act.Offsets) < n {
		n = len(act.Offsets)
	}
	durations := make([]float64, n)
	for i := 0; i < n; i++ {
		durations[i] = float64(act.Offsets[i]-act.Onsets[i]) / sampleRate
	}

	var p Params
	p.ActivationCount = len(act.Onsets)

	durStats := statstime.Calculate(durations)
	p.MaxBurstDuration = durStats.Max
	p.MinBurstDuration = durStats.Min
	p.AvgBurstDuration = durStats.Mean
	p.StdBurstDuration = durStats.StdDev

	sigStats := statstime.Calculate(signal)
	p.MaxSample = sigStats.Max
	p.MinSample = sigStats.Min
	p.AvgSample = sigStats.Mean
	p.StdSample = sigStats.StdDev
	p.RMS = sigStats.RMS

	// Area under the curve over the sample index axis.
	axis := make([]float64, len(signal))
	for i := range axis {
		axis[i] = float64(i)
	}
	area, err := spectrum.CumTrapz(signal, axis)
	if err != nil {
		return Params{}, err
	}
	p.Area = area[len(area)-1]

	freqs, power, err := spectrum.Welch(signal, sampleRate,
		spectrum.WithSegmentLength(welchSegmentLength),
		spectrum.WithOverlap(0))
	if err != nil {
		return Params{}, fmt.Errorf("emg power spectrum: %w", err)
	}

	if p.TotalPower, err = spectrum.TotalPower(freqs, power); err != nil {
		return Params{}, err
	}
	if p.MedianFreq, err = spectrum.MedianFrequency(freqs, power); err != nil {
		return Params{}, err
	}
	if p.MaxPowerFreq, err = spectrum.PeakFrequency(freqs, power); err != nil {
		return Params{}, err
	}
	return p, nil
}

// MedianFreqSample is one median frequency observation centered on a burst.
type MedianFreqSample struct {
	// Time is the burst center in seconds.
	Time float64

	// Frequency is the burst median frequency in Hz.
	Frequency float64
}

// FatigueMedianFrequency tracks the median frequency of each muscular
// activation along the record. A drop of the series over time is a common
// indicator of muscular fatigue.
func FatigueMedianFrequency(signal []float64, sampleRate float64) ([]MedianFreqSample, error) {
	act, err := detect.DetectActivations(signal, sampleRate)
	if err != nil {
		return nil, err
	}

	n := len(act.Onsets)
	if len(act.Offsets) < n {
		n = len(act.Offsets)
	}

	out := make([]MedianFreqSample, 0, n)
	for i := 0; i < n; i++ {
		begin, end := act.Onsets[i], act.Offsets[i]
		if end-begin < 2 {
			continue
		}

		freqs, power, err := spectrum.Welch(signal[begin:end], sampleRate,
			spectrum.WithSegmentLength(welchSegmentLength),
			spectrum.WithOverlap(0))
		if err != nil {
			return nil, fmt.Errorf("burst %d power spectrum: %w", i, err)
		}

		median, err := spectrum.MedianFrequency(freqs, power)
		if err != nil {
			return nil, err
		}

		out = append(out, MedianFreqSample{
			Time:      float64(begin+end) / 2 / sampleRate,
			Frequency: median,
		})
	}
	return out, nil
}
