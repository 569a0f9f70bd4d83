package detect

import "fmt"

// Tachogram runs R peak detection on an ECG signal and returns the series
// of RR intervals in seconds together with the time instant, also in
// seconds, at which each cardiac cycle ends.
func Tachogram(ecg []float64, sampleRate float64) (intervals, times []float64, err error) {
	peaks, err := DetectRPeaks(ecg, sampleRate)
	if err != nil {
		return nil, nil, err
	}
	return TachogramFromPeaks(peaks.Indices, sampleRate)
}

// TachogramFromPeaks builds the RR interval series from already detected
// R peak sample positions. At least two peaks are required.
func TachogramFromPeaks(peaks []int, sampleRate float64) (intervals, times []float64, err error) {
	if sampleRate <= 0 {
		return nil, nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	if len(peaks) < 2 {
		return nil, nil, fmt.Errorf("tachogram requires at least 2 peaks: %d", len(peaks))
	}

	intervals = make([]float64, len(peaks)-1)
	times = make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		if peaks[i] <= peaks[i-1] {
			return nil, nil, fmt.Errorf("peak positions must be strictly increasing at index %d", i)
		}
		intervals[i-1] = float64(peaks[i]-peaks[i-1]) / sampleRate
		times[i-1] = float64(peaks[i]) / sampleRate
	}
	return intervals, times, nil
}
