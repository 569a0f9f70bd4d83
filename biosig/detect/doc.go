// Package detect implements event detection on biosignals: Pan-Tompkins
// R peak detection and tachogram generation for ECG, and Teager-Kaiser
// energy operator burst detection for EMG.
package detect
