package hrv

import (
	"math"
	"testing"

	"github.com/biosignalsplux/biosignals-go/biosig/conv"
	"github.com/biosignalsplux/biosignals-go/internal/testutil"
)

// sineTachogram builds n RR intervals oscillating gently around 1 s, with
// the matching cycle end instants.
func sineTachogram(n int) (intervals, times []float64) {
	intervals = make([]float64, n)
	times = make([]float64, n)
	t := 0.0
	for i := range intervals {
		intervals[i] = 1 + 0.05*math.Sin(2*math.Pi*0.1*float64(i))
		t += intervals[i]
		times[i] = t
	}
	return intervals, times
}

func TestFromTachogramTimeDomain(t *testing.T) {
	intervals, times := sineTachogram(120)

	p, err := FromTachogram(intervals, times)
	if err != nil {
		t.Fatalf("FromTachogram: %v", err)
	}

	testutil.RequireNearlyEqual(t, p.AvgRR, 1.0, 0.01)
	testutil.RequireNearlyEqual(t, p.AvgBPM, 60, 1)
	testutil.RequireNearlyEqual(t, p.MaxRR, 1.05, 0.01)
	testutil.RequireNearlyEqual(t, p.MinRR, 0.95, 0.01)
	testutil.RequireNearlyEqual(t, p.MaxBPM, 60/p.MinRR, 1e-9)
	testutil.RequireNearlyEqual(t, p.MinBPM, 60/p.MaxRR, 1e-9)

	// A 0.05 amplitude sine has standard deviation 0.05/sqrt(2).
	testutil.RequireNearlyEqual(t, p.SDNN, 0.05/math.Sqrt2, 0.005)
}

func TestFromTachogramPoincareAndCounts(t *testing.T) {
	intervals, times := sineTachogram(120)

	p, err := FromTachogram(intervals, times)
	if err != nil {
		t.Fatalf("FromTachogram: %v", err)
	}

	if p.SD1 <= 0 || p.SD2 <= 0 {
		t.Fatalf("SD1 = %v, SD2 = %v, want both > 0", p.SD1, p.SD2)
	}
	testutil.RequireNearlyEqual(t, p.SD1SD2, p.SD1/p.SD2, 1e-12)

	if p.NN50 > p.NN20 {
		t.Fatalf("NN50 %d > NN20 %d", p.NN50, p.NN20)
	}
	if p.PNN20 < 0 || p.PNN20 > 100 || p.PNN50 < 0 || p.PNN50 > 100 {
		t.Fatalf("percentages out of range: pNN20 %d, pNN50 %d", p.PNN20, p.PNN50)
	}
}

func TestFromTachogramSpectral(t *testing.T) {
	intervals, times := sineTachogram(240)

	p, err := FromTachogram(intervals, times)
	if err != nil {
		t.Fatalf("FromTachogram: %v", err)
	}

	// The 0.1 cycles-per-beat modulation at ~1 s per beat lands in LF.
	if p.LFPower <= p.ULFPower || p.LFPower <= p.HFPower {
		t.Fatalf("LF power %v should dominate (ULF %v, HF %v)", p.LFPower, p.ULFPower, p.HFPower)
	}
	testutil.RequireNearlyEqual(t, p.TotalPower, p.ULFPower+p.VLFPower+p.LFPower+p.HFPower, 1e-9)
	if p.HFPower != 0 {
		testutil.RequireNearlyEqual(t, p.LFHFRatio, p.LFPower/p.HFPower, 1e-9)
	}
}

func TestFromTachogramValidation(t *testing.T) {
	if _, err := FromTachogram([]float64{1, 1}, []float64{1}); err == nil {
		t.Fatal("expected length-mismatch error")
	}
	if _, err := FromTachogram([]float64{1, 1, 1}, []float64{1, 2, 3}); err == nil {
		t.Fatal("expected too-short error")
	}
}

func TestRemoveEctopyDropsOutlierPair(t *testing.T) {
	intervals := []float64{1.0, 1.0, 1.5, 1.0, 1.0}
	times := []float64{1, 2, 3.5, 4.5, 5.5}

	nn, nnTimes := RemoveEctopy(intervals, times)
	testutil.RequireSliceNearlyEqual(t, nn, []float64{1, 1, 1}, 0)
	testutil.RequireSliceNearlyEqual(t, nnTimes, []float64{1, 2, 5.5}, 0)

	// Inputs are not mutated.
	testutil.RequireSliceNearlyEqual(t, intervals, []float64{1.0, 1.0, 1.5, 1.0, 1.0}, 0)
}

func TestRemoveEctopyCleanTachogramUntouched(t *testing.T) {
	intervals, times := sineTachogram(50)
	nn, nnTimes := RemoveEctopy(intervals, times)
	testutil.RequireSliceNearlyEqual(t, nn, intervals, 0)
	testutil.RequireSliceNearlyEqual(t, nnTimes, times, 0)
}

func TestRemoveEctopyTrailingOutlierKept(t *testing.T) {
	// An ectopic final interval cannot be paired and stays in place.
	intervals := []float64{1.0, 1.0, 1.5}
	times := []float64{1, 2, 3.5}
	nn, _ := RemoveEctopy(intervals, times)
	testutil.RequireSliceNearlyEqual(t, nn, intervals, 0)
}

func TestPSDFrequencyCeiling(t *testing.T) {
	intervals, times := sineTachogram(200)
	freqs, power, err := PSD(times, intervals)
	if err != nil {
		t.Fatalf("PSD: %v", err)
	}
	if len(freqs) != len(power) {
		t.Fatalf("axis mismatch: %d vs %d", len(freqs), len(power))
	}
	for _, f := range freqs {
		if f >= 0.5 {
			t.Fatalf("frequency %v above the 0.5 Hz ceiling", f)
		}
	}
	testutil.RequireFinite(t, power)
}

func TestFromRawECGMatchesConverted(t *testing.T) {
	const (
		sampleRate = 250.0
		resolution = 16
		gain       = 1.019
	)
	ecg := testutil.SyntheticECG(sampleRate, 60, int(30*sampleRate))

	// Invert the plux ECG transfer so the raw channel converts back to
	// the same millivolt trace.
	raw := make([]float64, len(ecg))
	for i, mv := range ecg {
		raw[i] = (mv*gain/3.0 + 0.5) * 65536.0
	}

	want, err := FromECG(ecg, sampleRate)
	if err != nil {
		t.Fatalf("FromECG: %v", err)
	}
	got, err := FromRawECG(raw, conv.DeviceBiosignalsplux, resolution, sampleRate)
	if err != nil {
		t.Fatalf("FromRawECG: %v", err)
	}

	testutil.RequireNearlyEqual(t, got.AvgRR, want.AvgRR, 1e-6)
	testutil.RequireNearlyEqual(t, got.SDNN, want.SDNN, 1e-6)
	if got.NN50 != want.NN50 {
		t.Fatalf("NN50 mismatch: %d vs %d", got.NN50, want.NN50)
	}
}

func TestFromRawECGUnknownDevice(t *testing.T) {
	raw := make([]float64, 1000)
	if _, err := FromRawECG(raw, conv.Device("toaster"), 16, 100); err == nil {
		t.Fatal("expected device error")
	}
}
