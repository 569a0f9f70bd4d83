// Package hrv extracts heart rate variability parameters from tachograms:
// time-domain statistics over normal-to-normal intervals, Poincaré plot
// descriptors, NN20/NN50 counts and spectral power in the standard ULF,
// VLF, LF and HF bands.
package hrv
