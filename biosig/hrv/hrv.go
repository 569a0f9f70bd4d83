package hrv

import (
	"fmt"
	"math"

	"github.com/biosignalsplux/biosignals-go/biosig/conv"
	"github.com/biosignalsplux/biosignals-go/biosig/detect"
	statstime "github.com/biosignalsplux/biosignals-go/stats/time"
)

// Params aggregates time-domain, Poincaré and frequency-domain heart rate
// variability parameters extracted from a tachogram.
type Params struct {
	// RR interval extremes and mean, in seconds.
	MaxRR float64
	MinRR float64
	AvgRR float64

	// Heart rate extremes and mean, in beats per minute.
	MaxBPM float64
	MinBPM float64
	AvgBPM float64

	// SDNN is the standard deviation of normal-to-normal intervals.
	SDNN float64

	// Poincaré plot descriptors.
	SD1    float64
	SD2    float64
	SD1SD2 float64

	// Counts of successive interval differences above 20 ms and 50 ms,
	// with their percentages truncated to whole percent.
	NN20  int
	PNN20 int
	NN50  int
	PNN50 int

	// Spectral band powers in s²/Hz integrated over the standard HRV bands.
	ULFPower   float64
	VLFPower   float64
	LFPower    float64
	HFPower    float64
	LFHFRatio  float64
	TotalPower float64
}

// Standard HRV frequency bands in Hz.
var (
	bandULF = [2]float64{0, 0.003}
	bandVLF = [2]float64{0.003, 0.04}
	bandLF  = [2]float64{0.04, 0.15}
	bandHF  = [2]float64{0.15, 0.40}
)

// FromECG detects R peaks in the ECG signal, builds the tachogram and
// extracts the full HRV parameter set.
func FromECG(ecg []float64, sampleRate float64) (Params, error) {
	intervals, times, err := detect.Tachogram(ecg, sampleRate)
	if err != nil {
		return Params{}, err
	}
	return FromTachogram(intervals, times)
}

// FromRawECG converts a raw ADC ECG channel to millivolt before detection.
func FromRawECG(raw []float64, device conv.Device, resolution int, sampleRate float64) (Params, error) {
	ecg, err := conv.RawToPhysical(conv.SensorECG, device, raw, resolution, conv.UnitMillivolt)
	if err != nil {
		return Params{}, err
	}
	return FromECG(ecg, sampleRate)
}

// FromTachogram extracts HRV parameters from an RR interval series and the
// cycle end instants, both in seconds. Ectopic beats are removed before the
// time-domain statistics; Poincaré and NN counts use the raw successive
// differences.
func FromTachogram(intervals, times []float64) (Params, error) {
	if len(intervals) != len(times) {
		return Params{}, fmt.Errorf("tachogram axis length mismatch: %d != %d", len(intervals), len(times))
	}
	if len(intervals) < 4 {
		return Params{}, fmt.Errorf("tachogram too short for hrv analysis: %d", len(intervals))
	}

	nn, _ := RemoveEctopy(intervals, times)
	if len(nn) == 0 {
		return Params{}, fmt.Errorf("no intervals left after ectopy removal: %d in", len(intervals))
	}

	var p Params
	nnStats := statstime.Calculate(nn)
	p.MaxRR = nnStats.Max
	p.MinRR = nnStats.Min
	p.AvgRR = nnStats.Mean
	p.MaxBPM = 60 / p.MinRR
	p.MinBPM = 60 / p.MaxRR
	p.AvgBPM = 60 / p.AvgRR
	p.SDNN = nnStats.StdDev

	diff := statstime.Diff(intervals)
	sdsd := statstime.StdDev(diff)
	p.SD1 = math.Sqrt(0.5 * sdsd * sdsd)
	p.SD2 = math.Sqrt(2*p.SDNN*p.SDNN - p.SD1*p.SD1)
	if p.SD2 != 0 {
		p.SD1SD2 = p.SD1 / p.SD2
	}

	for _, d := range diff {
		if math.Abs(d) > 0.02 {
			p.NN20++
		}
		if math.Abs(d) > 0.05 {
			p.NN50++
		}
	}
	p.PNN20 = int(float64(p.NN20) / float64(len(diff)) * 100)
	p.PNN50 = int(float64(p.NN50) / float64(len(diff)) * 100)

	freqs, power, err := PSD(times, intervals)
	if err != nil {
		return Params{}, err
	}

	if p.ULFPower, err = bandPower(freqs, power, bandULF); err != nil {
		return Params{}, err
	}
	if p.VLFPower, err = bandPower(freqs, power, bandVLF); err != nil {
		return Params{}, err
	}
	if p.LFPower, err = bandPower(freqs, power, bandLF); err != nil {
		return Params{}, err
	}
	if p.HFPower, err = bandPower(freqs, power, bandHF); err != nil {
		return Params{}, err
	}
	if p.HFPower != 0 {
		p.LFHFRatio = p.LFPower / p.HFPower
	}
	p.TotalPower = p.ULFPower + p.VLFPower + p.LFPower + p.HFPower

	return p, nil
}

// RemoveEctopy drops ectopic beats from a tachogram. An interval deviating
// more than 20 percent from its predecessor is considered ectopic and is
// removed together with the interval that follows it, excluding the RR
// spans before and after the ectopic beat from analysis.
func RemoveEctopy(intervals, times []float64) (nnIntervals, nnTimes []float64) {
	nnIntervals = append([]float64(nil), intervals...)
	nnTimes = append([]float64(nil), times...)

	remove := func(xs []float64, i int) []float64 {
		return append(xs[:i], xs[i+1:]...)
	}

	const margin = 0.20
	for beat := 1; beat < len(nnIntervals); beat++ {
		prev := nnIntervals[beat-1]
		if dev := math.Abs(nnIntervals[beat] - prev); dev > margin*prev {
			if beat <= len(nnIntervals)-2 {
				nnIntervals = remove(nnIntervals, beat)
				nnIntervals = remove(nnIntervals, beat)
				nnTimes = remove(nnTimes, beat)
				nnTimes = remove(nnTimes, beat)
			}
		}
	}
	return nnIntervals, nnTimes
}
