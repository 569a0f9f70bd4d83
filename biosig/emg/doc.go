// Package emg extracts electromyography descriptors: burst duration and
// amplitude statistics, intensity estimators, spectral reference points and
// the median frequency evolution used for fatigue evaluation.
package emg
