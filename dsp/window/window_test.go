package window

import (
	"math"
	"testing"
)

func TestGenerateHannEndpoints(t *testing.T) {
	coeffs := Generate(TypeHann, 9)
	if len(coeffs) != 9 {
		t.Fatalf("length mismatch: got %d", len(coeffs))
	}

	if math.Abs(coeffs[0]) > 1e-15 || math.Abs(coeffs[8]) > 1e-15 {
		t.Fatalf("symmetric Hann endpoints must be 0: %v, %v", coeffs[0], coeffs[8])
	}

	if math.Abs(coeffs[4]-1) > 1e-15 {
		t.Fatalf("Hann midpoint must be 1: %v", coeffs[4])
	}
}

func TestGeneratePeriodicHann(t *testing.T) {
	coeffs := Generate(TypeHann, 8, WithPeriodic())

	// Periodic form: w[n] = 0.5 - 0.5*cos(2*pi*n/N).
	for i, c := range coeffs {
		want := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/8)
		if math.Abs(c-want) > 1e-15 {
			t.Fatalf("periodic hann[%d]=%v want=%v", i, c, want)
		}
	}
}

func TestGenerateHammingEndpoints(t *testing.T) {
	coeffs := Generate(TypeHamming, 11)
	if math.Abs(coeffs[0]-0.08) > 1e-12 {
		t.Fatalf("Hamming endpoint: got %v want 0.08", coeffs[0])
	}
}

func TestGenerateBartlett(t *testing.T) {
	coeffs := Generate(TypeBartlett, 5)
	want := []float64{0, 0.5, 1, 0.5, 0}
	for i := range want {
		if math.Abs(coeffs[i]-want[i]) > 1e-15 {
			t.Fatalf("bartlett[%d]=%v want=%v", i, coeffs[i], want[i])
		}
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("expected nil for zero length")
	}

	if _, err := Hann(-1); err == nil {
		t.Fatal("expected error for negative size")
	}
}

func TestWithInvert(t *testing.T) {
	plain := Generate(TypeHann, 7)
	inverted := Generate(TypeHann, 7, WithInvert())

	for i := range plain {
		if math.Abs((1-plain[i])-inverted[i]) > 1e-15 {
			t.Fatalf("invert mismatch at %d", i)
		}
	}
}

func TestFromName(t *testing.T) {
	cases := map[string]Type{
		"hanning":  TypeHann,
		"Hann":     TypeHann,
		"flat":     TypeRectangular,
		"blackman": TypeBlackman,
		"bartlett": TypeBartlett,
		"hamming":  TypeHamming,
	}

	for name, want := range cases {
		got, err := FromName(name)
		if err != nil {
			t.Fatalf("FromName(%q) error: %v", name, err)
		}
		if got != want {
			t.Fatalf("FromName(%q)=%v want=%v", name, got, want)
		}
	}

	if _, err := FromName("kaiser-bessel-oddity"); err == nil {
		t.Fatal("expected error for unknown window")
	}
}

func TestApplyCoefficientsMismatch(t *testing.T) {
	if _, err := ApplyCoefficients([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected mismatch error")
	}

	if err := ApplyCoefficientsInPlace([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestSumSquares(t *testing.T) {
	coeffs := []float64{1, 2, 3}
	if got := Sum(coeffs); got != 6 {
		t.Fatalf("Sum=%v want=6", got)
	}
	if got := SumSquares(coeffs); got != 14 {
		t.Fatalf("SumSquares=%v want=14", got)
	}
}
