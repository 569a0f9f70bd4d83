package detect

import (
	"fmt"

	"github.com/biosignalsplux/biosignals-go/dsp/filter"
)

// RPeaks holds the outcome of QRS detection on an ECG trace.
type RPeaks struct {
	// Indices are the R peak sample positions in the input signal.
	Indices []int

	// Amplitudes are the input signal values at each peak index.
	Amplitudes []float64
}

// Times converts the peak indices to seconds at the given sampling rate.
func (r RPeaks) Times(sampleRate float64) []float64 {
	out := make([]float64, len(r.Indices))
	for i, idx := range r.Indices {
		out[i] = float64(idx) / sampleRate
	}
	return out
}

const (
	// QRS energy lives in the 5-15 Hz band.
	qrsBandLowHz  = 5
	qrsBandHighHz = 15

	// Moving-window integration width in seconds.
	integrationWindowSec = 0.080

	// Physiological floor for the RR interval.
	minRRMilliseconds = 200

	// Group delay compensation applied to accepted peaks.
	peakDelaySamples    = 6
	rephaseMilliseconds = 30
)

// DetectRPeaks locates R peaks in an ECG signal using the Pan-Tompkins
// algorithm: zero-phase 5-15 Hz bandpass, differentiation, squaring,
// moving-window integration and adaptive double thresholding.
//
// At least two seconds of signal are required to seed the detector
// thresholds.
func DetectRPeaks(ecg []float64, sampleRate float64) (RPeaks, error) {
	if sampleRate <= 0 {
		return RPeaks{}, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	fs := int(sampleRate)
	if len(ecg) < 2*fs {
		return RPeaks{}, fmt.Errorf("%w: %d samples at %d Hz", ErrSignalTooShort, len(ecg), fs)
	}

	filtered, err := filter.Bandpass(ecg, qrsBandLowHz, qrsBandHighHz,
		filter.WithOrder(2),
		filter.WithSampleRate(sampleRate),
		filter.WithZeroPhase(),
		filter.WithEdgePadding(150))
	if err != nil {
		return RPeaks{}, fmt.Errorf("qrs bandpass: %w", err)
	}

	integrated := integrate(square(differentiate(filtered)), sampleRate)

	det := newThresholds(integrated, fs)
	candidates, err := localMaximaSpaced(integrated, sampleRate)
	if err != nil {
		return RPeaks{}, err
	}

	accepted := det.screen(candidates, integrated, sampleRate)

	// The integration stage delays peaks; shift back onto the QRS complex.
	rephase := int(rephaseMilliseconds * sampleRate / 1000)
	peaks := RPeaks{
		Indices:    make([]int, 0, len(accepted)),
		Amplitudes: make([]float64, 0, len(accepted)),
	}
	for _, p := range accepted {
		idx := p - rephase
		if idx < 0 {
			idx = 0
		}
		peaks.Indices = append(peaks.Indices, idx)
		peaks.Amplitudes = append(peaks.Amplitudes, ecg[idx])
	}
	return peaks, nil
}

// differentiate returns consecutive differences, emphasizing QRS slopes.
func differentiate(signal []float64) []float64 {
	out := make([]float64, len(signal)-1)
	for i := range out {
		out[i] = signal[i+1] - signal[i]
	}
	return out
}

func square(signal []float64) []float64 {
	for i, x := range signal {
		signal[i] = x * x
	}
	return signal
}

// integrate applies a causal moving-window integrator. The warmup region
// averages over the samples seen so far.
func integrate(signal []float64, sampleRate float64) []float64 {
	wind := int(integrationWindowSec * sampleRate)
	if wind < 1 {
		wind = 1
	}

	out := make([]float64, len(signal))
	sum := 0.0
	for i, x := range signal {
		sum += x
		if i >= wind {
			sum -= signal[i-wind]
			out[i] = sum / float64(wind)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}

// localMaximaSpaced finds local maxima of the integrated signal and keeps,
// within every 200 ms refractory span, only the tallest one. The retained
// peaks are reported with the integrator delay removed.
func localMaximaSpaced(integrated []float64, sampleRate float64) ([]int, error) {
	minRR := sampleRate / 1000 * minRRMilliseconds

	var maxima []int
	for i := 1; i+1 < len(integrated); i++ {
		if integrated[i-1] < integrated[i] && integrated[i] > integrated[i+1] {
			maxima = append(maxima, i)
		}
	}
	if len(maxima) == 0 {
		return nil, ErrNoPeaks
	}

	var chosen []int
	candidate := maxima[0]
	candidateAmp := integrated[candidate]
	for _, peak := range maxima {
		switch {
		case float64(peak-candidate) <= minRR && integrated[peak] > candidateAmp:
			candidate = peak
			candidateAmp = integrated[peak]
		case float64(peak-candidate) > minRR:
			idx := candidate - peakDelaySamples
			if idx < 0 {
				idx = 0
			}
			chosen = append(chosen, idx)
			candidate = peak
			candidateAmp = integrated[peak]
		}
	}
	return chosen, nil
}

// thresholds carries the adaptive Pan-Tompkins detector state: running
// signal and noise peak estimates plus the last eight RR intervals.
type thresholds struct {
	spk1      float64
	npk1      float64
	threshold float64
	rrBuffer  []float64
	accepted  []int
}

// newThresholds seeds the signal peak estimate from the second second of
// the integrated signal.
func newThresholds(integrated []float64, fs int) *thresholds {
	end := 2 * fs
	if end > len(integrated) {
		end = len(integrated)
	}
	spk1 := integrated[fs]
	for _, x := range integrated[fs:end] {
		if x > spk1 {
			spk1 = x
		}
	}

	det := &thresholds{spk1: spk1, rrBuffer: make([]float64, 8)}
	for i := range det.rrBuffer {
		det.rrBuffer[i] = 1
	}
	det.update()
	return det
}

func (d *thresholds) update() {
	d.threshold = d.npk1 + 0.25*(d.spk1-d.npk1)
}

// screen classifies each candidate as QRS or noise. A candidate above the
// threshold is accepted outright; one above half the threshold is accepted
// through searchback when more than 360 ms have passed since the last QRS
// and the next candidate is over 1.5 mean RR intervals away.
func (d *thresholds) screen(candidates []int, integrated []float64, sampleRate float64) []int {
	for i, peak := range candidates {
		amp := integrated[peak]

		switch {
		case amp > d.threshold:
			d.accept(peak, amp)
		case amp > d.threshold/2 && len(d.accepted) > 0 && i+1 < len(candidates):
			last := d.accepted[len(d.accepted)-1]
			sinceQRSMs := float64(peak-last) * 1000 / sampleRate
			nextGap := float64(candidates[i+1] - last)

			if sinceQRSMs > 360 && nextGap > 1.5*d.meanRR() {
				d.accept(peak, amp)
			} else {
				d.noise(amp)
			}
		default:
			d.noise(amp)
		}
		d.update()
	}
	return d.accepted
}

func (d *thresholds) accept(peak int, amp float64) {
	d.accepted = append(d.accepted, peak)
	d.spk1 = 0.125*amp + 0.875*d.spk1
	if n := len(d.accepted); n > 1 {
		d.rrBuffer = append(d.rrBuffer[1:], float64(d.accepted[n-1]-d.accepted[n-2]))
	}
}

func (d *thresholds) noise(amp float64) {
	d.npk1 = 0.125*amp + 0.875*d.npk1
}

func (d *thresholds) meanRR() float64 {
	sum := 0.0
	for _, rr := range d.rrBuffer {
		sum += rr
	}
	return sum / float64(len(d.rrBuffer))
}
