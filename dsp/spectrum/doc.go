// Package spectrum provides frequency-domain analysis for biosignals:
// magnitude spectra, Welch power spectral density estimation and band
// power integration.
//
// Spectra are computed with power-of-two FFT plans; scratch buffers are
// pooled so repeated calls on same-sized inputs do not allocate.
package spectrum
