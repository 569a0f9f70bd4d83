package samples

import "sort"

// Sample describes one recording bundled with the notebook environment's
// signal library.
type Sample struct {
	Name       string  `json:"name"`
	SignalType string  `json:"signal_type"`
	Duration   float64 `json:"duration_seconds"`
	SampleRate float64 `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Conditions string  `json:"conditions"`
}

var catalog = []Sample{
	{Name: "bvp_sample", SignalType: "BVP", Duration: 27.3, SampleRate: 1000, Channels: 1, Conditions: "At rest"},
	{Name: "ecg_20_sec_100_Hz", SignalType: "ECG", Duration: 19.7, SampleRate: 100, Channels: 1, Conditions: "At rest, lead II"},
	{Name: "ecg_20_sec_1000_Hz", SignalType: "ECG", Duration: 20.4, SampleRate: 1000, Channels: 1, Conditions: "At rest, lead II"},
	{Name: "ecg_20_sec_10_Hz", SignalType: "ECG", Duration: 20.0, SampleRate: 10, Channels: 1, Conditions: "At rest, lead II"},
	{Name: "ecg_4000_Hz", SignalType: "ECG", Duration: 12.4, SampleRate: 4000, Channels: 1, Conditions: "At rest"},
	{Name: "ecg_5_min", SignalType: "ECG", Duration: 300.0, SampleRate: 1000, Channels: 1, Conditions: "At rest"},
	{Name: "ecg_sample", SignalType: "ECG", Duration: 11.9, SampleRate: 200, Channels: 1, Conditions: "At rest"},
	{Name: "eeg_sample_closed_open_eyes", SignalType: "EEG", Duration: 242.0, SampleRate: 1000, Channels: 2, Conditions: "Alpha waves with eyes opened or closed"},
	{Name: "emg_bursts", SignalType: "EMG", Duration: 28.5, SampleRate: 1000, Channels: 1, Conditions: "Biceps brachii, cyclic contraction"},
	{Name: "emg_fatigue", SignalType: "EMG", Duration: 126.9, SampleRate: 1000, Channels: 1, Conditions: "Biceps brachii, cyclic flexion and extension for fatigue induction"},
	{Name: "temp_res_8_16", SignalType: "TEMP", Duration: 233.1, SampleRate: 1000, Channels: 2, Conditions: "Temperature increase and decrease, 8 and 16 bit channels"},
}

// Catalog lists the bundled sample recordings, sorted by name.
func Catalog() []Sample {
	out := make([]Sample, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupSample finds a bundled recording by name.
func LookupSample(name string) (Sample, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return Sample{}, false
}
