package samples

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// edfHeader is the metadata block of an EDF file. The edf library reads
// signal data; it does not expose the parsed header, so the fixed-width
// fields are decoded here for cataloguing.
type edfHeader struct {
	patientID      string
	recordingID    string
	startTime      time.Time
	dataRecords    int
	recordDuration float64
	signals        []edfSignalHeader
}

type edfSignalHeader struct {
	label            string
	transducer       string
	dimension        string
	prefiltering     string
	samplesPerRecord int
}

func parseHeader(r io.Reader) (*edfHeader, error) {
	b := make([]byte, 256)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("reading edf header: %w", err)
	}

	field := func(lo, hi int) string { return strings.TrimSpace(string(b[lo:hi])) }

	hdr := &edfHeader{
		patientID:   field(8, 88),
		recordingID: field(88, 168),
	}

	start, err := time.Parse("02.01.06 15.04.05", field(168, 176)+" "+field(176, 184))
	if err != nil {
		return nil, fmt.Errorf("parsing edf start time: %w", err)
	}
	hdr.startTime = start

	if hdr.dataRecords, err = strconv.Atoi(field(236, 244)); err != nil {
		return nil, fmt.Errorf("parsing data record count: %w", err)
	}
	if hdr.recordDuration, err = strconv.ParseFloat(field(244, 252), 64); err != nil {
		return nil, fmt.Errorf("parsing record duration: %w", err)
	}

	signalCount, err := strconv.Atoi(field(252, 256))
	if err != nil {
		return nil, fmt.Errorf("parsing signal count: %w", err)
	}
	if signalCount < 0 || signalCount > 9999 {
		return nil, fmt.Errorf("implausible signal count: %d", signalCount)
	}

	sb := make([]byte, signalCount*256)
	if _, err := io.ReadFull(r, sb); err != nil {
		return nil, fmt.Errorf("reading edf signal headers: %w", err)
	}

	// Signal header fields are stored column-wise: all labels, then all
	// transducers, and so on.
	column := func(offset, width, index int) string {
		lo := offset*signalCount + index*width
		return strings.TrimSpace(string(sb[lo : lo+width]))
	}

	hdr.signals = make([]edfSignalHeader, signalCount)
	for i := range hdr.signals {
		sig := &hdr.signals[i]
		sig.label = column(0, 16, i)
		sig.transducer = column(16, 80, i)
		sig.dimension = column(96, 8, i)
		sig.prefiltering = column(136, 80, i)

		spr, err := strconv.Atoi(column(216, 8, i))
		if err != nil {
			return nil, fmt.Errorf("parsing samples per record of signal %d: %w", i, err)
		}
		sig.samplesPerRecord = spr
	}
	return hdr, nil
}

// sampleRate returns the sampling rate of signal i in Hz.
func (h *edfHeader) sampleRate(i int) float64 {
	if h.recordDuration <= 0 {
		return 0
	}
	return float64(h.signals[i].samplesPerRecord) / h.recordDuration
}
