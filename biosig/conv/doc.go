// Package conv converts raw ADC samples from plux and BITalino acquisition
// devices to physical units, applying the per-sensor transfer functions for
// ECG, EMG, BVP, SpO2, accelerometer and temperature channels. It also
// generates time axes for acquired signals.
package conv
