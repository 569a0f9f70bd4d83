package spectrum

import (
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex spectrum bin. Scratch buffers are
// pooled internally, so in steady state this allocates only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// nextPowerOf2 returns the smallest power of two >= n.
func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// fft runs a forward transform of the real signal at the given size,
// zero-padding as needed.
func fft(signal []float64, size int) ([]complex128, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("fft plan of size %d: %w", size, err)
	}

	in := make([]complex128, size)
	for i, x := range signal {
		in[i] = complex(x, 0)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("forward fft: %w", err)
	}
	return out, nil
}

// MagnitudeSpectrum computes the magnitude spectrum of a real signal.
//
// It returns the frequency axis spanning (0, sampleRate/2) and the matching
// magnitudes. The DC bin is dropped, so both slices have len(signal)/2 - 1
// entries for the natural FFT size.
func MagnitudeSpectrum(signal []float64, sampleRate float64) (freqs, mags []float64, err error) {
	if len(signal) < 2 {
		return nil, nil, fmt.Errorf("magnitude spectrum requires at least 2 samples: %d", len(signal))
	}
	if sampleRate <= 0 {
		return nil, nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	size := nextPowerOf2(len(signal))
	bins, err := fft(signal, size)
	if err != nil {
		return nil, nil, err
	}

	half := size / 2
	all := Magnitude(bins[:half])

	// Drop the DC bin; the axis runs up to (but not including) Nyquist.
	freqs = make([]float64, half-1)
	for i := range freqs {
		freqs[i] = float64(i+1) * sampleRate / float64(size)
	}
	return freqs, all[1:], nil
}
