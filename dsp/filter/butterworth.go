package filter

import (
	"fmt"
	"math"
)

// validateCutoff checks a single cutoff against the Nyquist limit.
func validateCutoff(freq, sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	if freq <= 0 || freq >= sampleRate/2 {
		return fmt.Errorf("cutoff must be in (0, Nyquist): %f at %f Hz", freq, sampleRate)
	}
	return nil
}

// butterworthQ returns the quality factor for a Butterworth filter section.
// index ranges from 0 to (order/2 - 1) for the biquad sections.
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}

	return 1 / (2 * s)
}

// lowpassRBJ designs a lowpass biquad at freq (Hz) with quality factor q.
func lowpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b1 := 1 - cw
	b0 := b1 / 2
	a0 := 1 + alpha

	return normalizeBiquad(b0, b1, b0, a0, -2*cw, 1-alpha)
}

// highpassRBJ designs a highpass biquad at freq (Hz) with quality factor q.
func highpassRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 + cw) / 2
	a0 := 1 + alpha

	return normalizeBiquad(b0, -(1 + cw), b0, a0, -2*cw, 1-alpha)
}

// notchRBJ designs a notch biquad centered at freq (Hz) with quality factor q.
func notchRBJ(freq, q, sampleRate float64) Coefficients {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	return normalizeBiquad(1, -2*cw, 1, 1+alpha, -2*cw, 1-alpha)
}

// firstOrderLP designs a first-order lowpass section used by odd orders.
func firstOrderLP(freq, sampleRate float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return Coefficients{
		B0: k * norm,
		B1: k * norm,
		A1: (k - 1) * norm,
	}
}

// firstOrderHP designs a first-order highpass section used by odd orders.
func firstOrderHP(freq, sampleRate float64) Coefficients {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	return Coefficients{
		B0: norm,
		B1: -norm,
		A1: (k - 1) * norm,
	}
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Coefficients{}
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// ButterworthLP designs a lowpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthLP(freq float64, order int, sampleRate float64) ([]Coefficients, error) {
	if order <= 0 {
		return nil, fmt.Errorf("filter order must be > 0: %d", order)
	}
	if err := validateCutoff(freq, sampleRate); err != nil {
		return nil, err
	}

	sections := make([]Coefficients, 0, (order+1)/2)

	n2 := order / 2
	for i := n2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		sections = append(sections, lowpassRBJ(freq, q, sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderLP(freq, sampleRate))
	}
	return sections, nil
}

// ButterworthHP designs a highpass Butterworth cascade.
//
// For odd orders, the final section is first-order (B2=A2=0).
func ButterworthHP(freq float64, order int, sampleRate float64) ([]Coefficients, error) {
	if order <= 0 {
		return nil, fmt.Errorf("filter order must be > 0: %d", order)
	}
	if err := validateCutoff(freq, sampleRate); err != nil {
		return nil, err
	}

	sections := make([]Coefficients, 0, (order+1)/2)

	n2 := order / 2
	for i := n2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		sections = append(sections, highpassRBJ(freq, q, sampleRate))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderHP(freq, sampleRate))
	}
	return sections, nil
}

// ButterworthBP designs a bandpass cascade as a highpass at the lower edge
// followed by a lowpass at the upper edge, each of the given order.
func ButterworthBP(lowFreq, highFreq float64, order int, sampleRate float64) ([]Coefficients, error) {
	if lowFreq >= highFreq {
		return nil, fmt.Errorf("band edges must satisfy low < high: %f >= %f", lowFreq, highFreq)
	}

	hp, err := ButterworthHP(lowFreq, order, sampleRate)
	if err != nil {
		return nil, err
	}
	lp, err := ButterworthLP(highFreq, order, sampleRate)
	if err != nil {
		return nil, err
	}

	return append(hp, lp...), nil
}

// ButterworthBS designs a bandstop cascade of notch sections centered at the
// geometric mean of the band edges, with Q derived from the band width. One
// notch section is used per Butterworth section pair of the requested order.
func ButterworthBS(lowFreq, highFreq float64, order int, sampleRate float64) ([]Coefficients, error) {
	if order <= 0 {
		return nil, fmt.Errorf("filter order must be > 0: %d", order)
	}
	if lowFreq >= highFreq {
		return nil, fmt.Errorf("band edges must satisfy low < high: %f >= %f", lowFreq, highFreq)
	}
	if err := validateCutoff(lowFreq, sampleRate); err != nil {
		return nil, err
	}
	if err := validateCutoff(highFreq, sampleRate); err != nil {
		return nil, err
	}

	center := math.Sqrt(lowFreq * highFreq)
	q := center / (highFreq - lowFreq)

	count := (order + 1) / 2
	sections := make([]Coefficients, 0, count)
	for i := 0; i < count; i++ {
		sections = append(sections, notchRBJ(center, q, sampleRate))
	}
	return sections, nil
}
