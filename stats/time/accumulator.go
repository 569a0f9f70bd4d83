package time

import "math"

// Accumulator builds time-domain statistics incrementally across blocks of
// samples. Results are bit-for-bit identical to [Calculate] on the
// concatenated input, which lets long recordings be summarized without
// loading them whole.
type Accumulator struct {
	n             int
	mean          float64
	m2            float64
	m3            float64
	m4            float64
	sumSq         float64
	maxVal        float64
	maxPos        int
	minVal        float64
	minPos        int
	zeroCrossings int
	hasData       bool
	lastSample    float64
}

// Update adds a block of samples to the running statistics.
func (s *Accumulator) Update(samples []float64) {
	for _, x := range samples {
		s.n++
		ni := float64(s.n)

		delta := x - s.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(s.n-1)

		// M4 must be updated before M3, and M3 before M2.
		s.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*s.m2 - 4*deltaN*s.m3
		s.m3 += term1*deltaN*(float64(s.n-1)-1) - 3*deltaN*s.m2
		s.m2 += term1
		s.mean += deltaN

		s.sumSq += x * x

		if !s.hasData {
			s.maxVal = x
			s.maxPos = s.n - 1
			s.minVal = x
			s.minPos = s.n - 1
			s.hasData = true
		} else {
			if x > s.maxVal {
				s.maxVal = x
				s.maxPos = s.n - 1
			}
			if x < s.minVal {
				s.minVal = x
				s.minPos = s.n - 1
			}
		}

		if s.n > 1 && s.lastSample*x < 0 {
			s.zeroCrossings++
		}
		s.lastSample = x
	}
}

// Result computes the final statistics from accumulated data.
func (s *Accumulator) Result() Stats {
	if s.n == 0 {
		return Stats{}
	}

	nf := float64(s.n)
	variance := s.m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (s.m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (s.m4/nf)/(variance*variance) - 3
	}

	return Stats{
		Length:        s.n,
		Mean:          s.mean,
		RMS:           math.Sqrt(s.sumSq / nf),
		Max:           s.maxVal,
		MaxPos:        s.maxPos,
		Min:           s.minVal,
		MinPos:        s.minPos,
		Range:         s.maxVal - s.minVal,
		Energy:        s.sumSq,
		Power:         s.sumSq / nf,
		ZeroCrossings: s.zeroCrossings,
		Variance:      variance,
		StdDev:        math.Sqrt(variance),
		Skewness:      skewness,
		Kurtosis:      kurtosis,
	}
}

// Reset clears all accumulated data so the Accumulator can be reused.
func (s *Accumulator) Reset() {
	*s = Accumulator{}
}
