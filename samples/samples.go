package samples

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/OpenPSG/edf"

	statstime "github.com/biosignalsplux/biosignals-go/stats/time"
)

// Channel describes one signal of a sample recording, with summary
// statistics over its physical values.
type Channel struct {
	Label        string  `json:"label"`
	Transducer   string  `json:"transducer,omitempty"`
	Dimension    string  `json:"dimension,omitempty"`
	Prefiltering string  `json:"prefiltering,omitempty"`
	SampleRate   float64 `json:"sample_rate"`
	SampleCount  int     `json:"sample_count"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"std_dev"`
}

// Record is the catalogued metadata of one sample recording file.
type Record struct {
	File            string    `json:"file"`
	PatientID       string    `json:"patient_id,omitempty"`
	RecordingID     string    `json:"recording_id,omitempty"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	Channels        []Channel `json:"channels"`
}

// statsBlockSize is the number of samples pulled per read while summarizing
// a channel.
const statsBlockSize = 4096

// Describe opens an EDF recording and catalogues its header metadata plus
// per-channel summary statistics.
func Describe(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	hdr, err := parseHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding %s: %w", path, err)
	}
	reader, err := edf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("opening edf %s: %w", path, err)
	}

	rec := &Record{
		File:            filepath.Base(path),
		PatientID:       hdr.patientID,
		RecordingID:     hdr.recordingID,
		StartTime:       hdr.startTime,
		DurationSeconds: float64(hdr.dataRecords) * hdr.recordDuration,
		Channels:        make([]Channel, len(hdr.signals)),
	}

	for i := range hdr.signals {
		ch, err := summarizeChannel(reader, hdr, i)
		if err != nil {
			return nil, fmt.Errorf("channel %d of %s: %w", i, path, err)
		}
		rec.Channels[i] = ch
	}
	return rec, nil
}

// summarizeChannel streams one signal block-wise through a statistics
// accumulator so long recordings never sit in memory whole.
func summarizeChannel(reader *edf.Reader, hdr *edfHeader, index int) (Channel, error) {
	sr, err := reader.Signal(index)
	if err != nil {
		return Channel{}, err
	}

	var acc statstime.Accumulator
	buf := make([]float64, statsBlockSize)
	for {
		n, err := sr.Read(buf)
		acc.Update(buf[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return Channel{}, err
		}
	}

	sig := hdr.signals[index]
	stats := acc.Result()
	return Channel{
		Label:        sig.label,
		Transducer:   sig.transducer,
		Dimension:    sig.dimension,
		Prefiltering: sig.prefiltering,
		SampleRate:   hdr.sampleRate(index),
		SampleCount:  stats.Length,
		Min:          stats.Min,
		Max:          stats.Max,
		Mean:         stats.Mean,
		StdDev:       stats.StdDev,
	}, nil
}

// ReadChannel loads the full physical-value series of one channel together
// with its sampling rate.
func ReadChannel(path string, index int) (signal []float64, sampleRate float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	hdr, err := parseHeader(f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	if index < 0 || index >= len(hdr.signals) {
		return nil, 0, fmt.Errorf("channel index out of range: %d of %d", index, len(hdr.signals))
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("rewinding %s: %w", path, err)
	}
	reader, err := edf.Open(f)
	if err != nil {
		return nil, 0, fmt.Errorf("opening edf %s: %w", path, err)
	}

	sr, err := reader.Signal(index)
	if err != nil {
		return nil, 0, err
	}

	total := hdr.dataRecords * hdr.signals[index].samplesPerRecord
	signal = make([]float64, total)
	n, err := readFull(sr, signal)
	if err != nil && err != io.EOF {
		return nil, 0, err
	}
	return signal[:n], hdr.sampleRate(index), nil
}

// readFull mirrors the io.ReadFull contract for float64 sample readers.
func readFull(sr *edf.SignalReader, buf []float64) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := sr.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Scan catalogues every EDF recording under dir, sorted by file name.
func Scan(dir string) ([]*Record, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".edf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(paths)

	records := make([]*Record, 0, len(paths))
	for _, path := range paths {
		rec, err := Describe(path)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteInfoJSON writes the catalogue entry next to the recording as
// <name>_info.json and returns the written path.
func WriteInfoJSON(rec *Record, dir string) (string, error) {
	base := strings.TrimSuffix(rec.File, filepath.Ext(rec.File))
	path := filepath.Join(dir, base+"_info.json")

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
