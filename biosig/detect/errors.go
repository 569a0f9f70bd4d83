package detect

import "errors"

var (
	// ErrSignalTooShort reports an input shorter than the detector warmup.
	ErrSignalTooShort = errors.New("signal too short for detection")

	// ErrNoPeaks reports that no local maxima were found.
	ErrNoPeaks = errors.New("no peaks detected")
)
