package time

import (
	"math"
	"testing"

	"github.com/biosignalsplux/biosignals-go/internal/testutil"
)

func TestCalculateKnownSignal(t *testing.T) {
	signal := []float64{1, -2, 3, -4}
	s := Calculate(signal)

	if s.Length != 4 {
		t.Fatalf("Length = %d, want 4", s.Length)
	}
	testutil.RequireNearlyEqual(t, s.Mean, -0.5, 1e-12)
	testutil.RequireNearlyEqual(t, s.RMS, math.Sqrt(30.0/4), 1e-12)
	if s.Max != 3 || s.MaxPos != 2 {
		t.Fatalf("Max = %v at %d, want 3 at 2", s.Max, s.MaxPos)
	}
	if s.Min != -4 || s.MinPos != 3 {
		t.Fatalf("Min = %v at %d, want -4 at 3", s.Min, s.MinPos)
	}
	testutil.RequireNearlyEqual(t, s.Range, 7, 1e-12)
	testutil.RequireNearlyEqual(t, s.Energy, 30, 1e-12)
	if s.ZeroCrossings != 3 {
		t.Fatalf("ZeroCrossings = %d, want 3", s.ZeroCrossings)
	}
	// Population variance about the mean of -0.5.
	testutil.RequireNearlyEqual(t, s.Variance, 7.25, 1e-12)
	testutil.RequireNearlyEqual(t, s.StdDev, math.Sqrt(7.25), 1e-12)
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Length != 0 || s.Mean != 0 || s.RMS != 0 {
		t.Fatalf("empty stats not zero: %+v", s)
	}
}

func TestStdDevPopulation(t *testing.T) {
	// Population std, not sample std.
	signal := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	testutil.RequireNearlyEqual(t, StdDev(signal), 2, 1e-12)
}

func TestMeanKahan(t *testing.T) {
	signal := testutil.Constant(0.1, 1000)
	testutil.RequireNearlyEqual(t, Mean(signal), 0.1, 1e-14)
}

func TestDiff(t *testing.T) {
	testutil.RequireSliceNearlyEqual(t, Diff([]float64{1, 4, 2, 2}), []float64{3, -2, 0}, 0)
	if Diff([]float64{1}) != nil {
		t.Fatal("Diff of single sample should be nil")
	}
}

func TestPeak(t *testing.T) {
	testutil.RequireNearlyEqual(t, Peak([]float64{0.5, -3, 2}), 3, 0)
	testutil.RequireNearlyEqual(t, Peak(nil), 0, 0)
}

func TestMomentsGaussianish(t *testing.T) {
	signal := testutil.Noise(99, 1.0, 100000)
	mean, variance, skewness, kurtosis := Moments(signal)

	// Uniform [-1, 1]: mean 0, var 1/3, skew 0, excess kurtosis -1.2.
	testutil.RequireNearlyEqual(t, mean, 0, 0.02)
	testutil.RequireNearlyEqual(t, variance, 1.0/3.0, 0.02)
	testutil.RequireNearlyEqual(t, skewness, 0, 0.05)
	testutil.RequireNearlyEqual(t, kurtosis, -1.2, 0.05)
}

func TestLinearFit(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{1, 3, 5, 7}
	slope, intercept, err := LinearFit(x, y)
	if err != nil {
		t.Fatalf("LinearFit: %v", err)
	}
	testutil.RequireNearlyEqual(t, slope, 2, 1e-12)
	testutil.RequireNearlyEqual(t, intercept, 1, 1e-12)

	if _, _, err := LinearFit([]float64{1}, []float64{1}); err == nil {
		t.Fatal("expected error for single point")
	}
	if _, _, err := LinearFit([]float64{1, 1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for constant x")
	}
	if _, _, err := LinearFit([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected length-mismatch error")
	}
}

func TestAccumulatorMatchesCalculate(t *testing.T) {
	signal := testutil.Noise(5, 2.0, 997)

	var acc Accumulator
	acc.Update(signal[:100])
	acc.Update(signal[100:613])
	acc.Update(signal[613:])

	got := acc.Result()
	want := Calculate(signal)
	if got != want {
		t.Fatalf("streaming result diverged:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestAccumulatorReset(t *testing.T) {
	var acc Accumulator
	acc.Update([]float64{1, 2, 3})
	acc.Reset()
	if acc.Result() != (Stats{}) {
		t.Fatal("Reset did not clear accumulator")
	}
}
