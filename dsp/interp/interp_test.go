package interp

import (
	"math"
	"testing"
)

func TestAtLinearExact(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{0, 2, 4, 6}

	out, err := At(x, y, []float64{0.5, 1.5, 2.25}, Linear)
	if err != nil {
		t.Fatalf("At error: %v", err)
	}

	want := []float64{1, 3, 4.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("out[%d]=%v want=%v", i, out[i], want[i])
		}
	}
}

func TestAtClampsOutOfRange(t *testing.T) {
	x := []float64{1, 2}
	y := []float64{10, 20}

	out, err := At(x, y, []float64{0, 5}, Linear)
	if err != nil {
		t.Fatalf("At error: %v", err)
	}
	if out[0] != 10 || out[1] != 20 {
		t.Fatalf("clamping failed: %v", out)
	}
}

func TestAtRejectsNonMonotonicX(t *testing.T) {
	if _, err := At([]float64{0, 2, 1}, []float64{0, 0, 0}, []float64{1}, Linear); err == nil {
		t.Fatal("expected error for non-increasing x")
	}
	if _, err := At([]float64{0, 1}, []float64{0}, []float64{0.5}, Linear); err == nil {
		t.Fatal("expected error for length mismatch")
	}
	if _, err := At(nil, nil, []float64{0.5}, Linear); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestCubicReproducesLine(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{0, 1, 2, 3, 4, 5}

	out, err := At(x, y, []float64{0.5, 2.5, 4.5}, Cubic)
	if err != nil {
		t.Fatalf("At error: %v", err)
	}

	// Catmull-Rom interpolation is exact for linear data.
	want := []float64{0.5, 2.5, 4.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("cubic out[%d]=%v want=%v", i, out[i], want[i])
		}
	}
}

func TestResampleGridSpacing(t *testing.T) {
	x := []float64{0, 0.8, 1.9, 3.1, 4}
	y := []float64{1, 2, 1, 2, 1}

	gridX, gridY, err := Resample(x, y, 4, Linear)
	if err != nil {
		t.Fatalf("Resample error: %v", err)
	}

	if len(gridX) != len(gridY) {
		t.Fatalf("axis length mismatch: %d != %d", len(gridX), len(gridY))
	}
	if gridX[0] != 0 || math.Abs(gridX[len(gridX)-1]-4) > 1e-12 {
		t.Fatalf("grid must span input range: %v..%v", gridX[0], gridX[len(gridX)-1])
	}

	step := gridX[1] - gridX[0]
	for i := 2; i < len(gridX); i++ {
		if math.Abs((gridX[i]-gridX[i-1])-step) > 1e-12 {
			t.Fatalf("uneven grid spacing at %d", i)
		}
	}
}

func TestResampleInvalidRate(t *testing.T) {
	x := []float64{0, 1}
	y := []float64{0, 1}
	if _, _, err := Resample(x, y, 0, Linear); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestHermite4Midpoint(t *testing.T) {
	// Midpoint of a symmetric neighborhood lands between the inner samples.
	got := Hermite4(0.5, 0, 1, 1, 0)
	if math.Abs(got-1.125) > 1e-12 {
		t.Fatalf("Hermite4 midpoint=%v want=1.125", got)
	}
}
