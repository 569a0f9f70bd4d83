package interp

import (
	"fmt"
	"math"
	"sort"
)

// Method selects the interpolation kernel.
type Method int

const (
	Linear Method = iota
	Cubic
)

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

func validateAxes(x, y []float64) error {
	if len(x) == 0 || len(y) == 0 {
		return fmt.Errorf("interpolate requires non-empty x and y")
	}
	if len(x) != len(y) {
		return fmt.Errorf("interpolate x/y length mismatch: %d != %d", len(x), len(y))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return fmt.Errorf("interpolate x must be strictly increasing at index %d", i)
		}
	}
	return nil
}

// At evaluates the interpolant of (x, y) at every query point.
//
// x must be strictly increasing and have the same length as y. Queries
// outside the x range clamp to the boundary values.
func At(x, y, queryX []float64, method Method) ([]float64, error) {
	if err := validateAxes(x, y); err != nil {
		return nil, err
	}

	out := make([]float64, len(queryX))
	for i, q := range queryX {
		out[i] = evalAt(x, y, q, method)
	}
	return out, nil
}

// Resample evaluates the interpolant of (x, y) on an evenly spaced grid of
// rate points per unit of x, spanning [x[0], x[len-1]]. It returns the grid
// and the interpolated values.
func Resample(x, y []float64, rate float64, method Method) (gridX, gridY []float64, err error) {
	if err := validateAxes(x, y); err != nil {
		return nil, nil, err
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, nil, fmt.Errorf("resample rate must be > 0: %f", rate)
	}

	span := x[len(x)-1] - x[0]
	count := int(span * rate)
	if count < 2 {
		count = 2
	}

	gridX = make([]float64, count)
	gridY = make([]float64, count)
	step := span / float64(count-1)
	for i := range gridX {
		q := x[0] + float64(i)*step
		gridX[i] = q
		gridY[i] = evalAt(x, y, q, method)
	}
	return gridX, gridY, nil
}

func evalAt(x, y []float64, q float64, method Method) float64 {
	n := len(x)
	if q <= x[0] {
		return y[0]
	}
	if q >= x[n-1] {
		return y[n-1]
	}

	j := sort.SearchFloat64s(x, q)
	// x[j-1] < q <= x[j]
	x0, x1 := x[j-1], x[j]
	t := (q - x0) / (x1 - x0)

	if method == Linear || n < 4 {
		return y[j-1] + t*(y[j]-y[j-1])
	}

	// Cubic: extrapolate the phantom neighbor at the boundaries so the
	// endpoint tangents keep the local slope.
	var ym1 float64
	if j-2 < 0 {
		ym1 = 2*y[0] - y[1]
	} else {
		ym1 = y[j-2]
	}
	var y2 float64
	if j+1 > n-1 {
		y2 = 2*y[n-1] - y[n-2]
	} else {
		y2 = y[j+1]
	}
	return Hermite4(t, ym1, y[j-1], y[j], y2)
}
