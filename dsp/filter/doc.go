// Package filter provides IIR filtering for biosignal conditioning.
//
// Filters are built from cascaded biquad second-order sections. Butterworth
// lowpass, highpass, bandpass, and bandstop designs cover the conditioning
// stages used across the processing routines, and a forward-backward
// application mode gives zero-phase results for morphology-sensitive signals
// such as ECG. The package also carries window-based smoothing and a centered
// moving average.
package filter
