package conv

import (
	"fmt"
	"math"
)

// Sensor identifies the sensor whose transfer function applies.
type Sensor string

const (
	SensorECG      Sensor = "ECG"
	SensorEMG      Sensor = "EMG"
	SensorTemp     Sensor = "TEMP"
	SensorBVP      Sensor = "BVP"
	SensorSpO2Arm  Sensor = "SpO2.ARM"
	SensorSpO2Head Sensor = "SpO2.HEAD"
	SensorSpO2Fing Sensor = "SpO2.FING"
	SensorACC      Sensor = "ACC"
)

// Device identifies the acquisition device family member.
type Device string

const (
	DeviceBioplux        Device = "bioplux"
	DeviceBiopluxExp     Device = "bioplux_exp"
	DeviceBiosignalsplux Device = "biosignalsplux"
	DeviceRachimeter     Device = "rachimeter"
	DeviceChanneller     Device = "channeller"
	DeviceSwifter        Device = "swifter"
	DeviceDDMEOpenban    Device = "ddme_openbanplux"
	DeviceBitalino       Device = "bitalino"
	DeviceBitalinoRev    Device = "bitalino_rev"
	DeviceBitalinoRIOT   Device = "bitalino_riot"
)

// Unit is the physical output unit of a conversion.
type Unit string

const (
	UnitMillivolt     Unit = "mV"
	UnitVolt          Unit = "V"
	UnitCelsius       Unit = "C"
	UnitKelvin        Unit = "K"
	UnitOhm           Unit = "Ohm"
	UnitAmpere        Unit = "A"
	UnitMicroampere   Unit = "uA"
	UnitGravitational Unit = "g"
)

// Supply voltage shared by all supported devices.
const vcc = 3.0

// Steinhart-Hart coefficients of the NTC temperature sensor.
const (
	ntcA0 = 1.12764514e-3
	ntcA1 = 2.34282709e-4
	ntcA2 = 8.77303013e-8
)

// Accelerometer calibration counts at -1 g and +1 g, referred to 16 bit.
const (
	accCm = 28000.0
	accCM = 38000.0
)

func isPluxDevice(d Device) bool {
	switch d {
	case DeviceBioplux, DeviceBiopluxExp, DeviceBiosignalsplux, DeviceRachimeter,
		DeviceChanneller, DeviceSwifter, DeviceDDMEOpenban:
		return true
	}
	return false
}

func isBitalinoDevice(d Device) bool {
	switch d {
	case DeviceBitalino, DeviceBitalinoRev, DeviceBitalinoRIOT:
		return true
	}
	return false
}

func isSpO2Device(d Device) bool {
	switch d {
	case DeviceChanneller, DeviceBiosignalsplux, DeviceSwifter:
		return true
	}
	return false
}

// RawToPhysical converts raw ADC samples to physical units using the
// transfer function of the given sensor and device.
//
// Supported units per sensor: ECG and EMG accept mV and V; BVP and the
// SpO2 variants accept uA and A; TEMP accepts Ohm, K and C; ACC accepts g.
func RawToPhysical(sensor Sensor, device Device, raw []float64, resolution int, unit Unit) ([]float64, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("resolution must be > 0: %d", resolution)
	}

	switch sensor {
	case SensorECG:
		return voltageSensor(device, raw, resolution, unit, 1.019, 1.1)
	case SensorEMG:
		return emg(device, raw, resolution, unit)
	case SensorBVP:
		return bvp(device, raw, resolution, unit)
	case SensorSpO2Arm, SensorSpO2Head, SensorSpO2Fing:
		return spo2(sensor, device, raw, resolution, unit)
	case SensorTemp:
		return temperature(device, raw, resolution, unit)
	case SensorACC:
		return accelerometer(device, raw, resolution, unit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSensor, sensor)
	}
}

// voltageSensor handles sensors whose transfer is the shared
// (raw*vcc/2^res - vcc*0.5)/gain form with per-family gain.
func voltageSensor(device Device, raw []float64, resolution int, unit Unit, pluxGain, bitalinoGain float64) ([]float64, error) {
	switch unit {
	case UnitMillivolt:
		var gain float64
		switch {
		case isPluxDevice(device):
			gain = pluxGain
		case isBitalinoDevice(device):
			gain = bitalinoGain
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, device)
		}
		return scaleOffset(raw, resolution, 0.5, gain), nil
	case UnitVolt:
		out, err := voltageSensor(device, raw, resolution, UnitMillivolt, pluxGain, bitalinoGain)
		if err != nil {
			return nil, err
		}
		scaleInPlace(out, 1e-3)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
}

func emg(device Device, raw []float64, resolution int, unit Unit) ([]float64, error) {
	switch unit {
	case UnitMillivolt:
		var gain float64
		switch {
		case isPluxDevice(device):
			gain = 1
		case device == DeviceBitalino:
			gain = 1.008
		case device == DeviceBitalinoRev || device == DeviceBitalinoRIOT:
			gain = 1.009
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, device)
		}
		return scaleOffset(raw, resolution, 0.5, gain), nil
	case UnitVolt:
		out, err := emg(device, raw, resolution, UnitMillivolt)
		if err != nil {
			return nil, err
		}
		scaleInPlace(out, 1e-3)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
}

func bvp(device Device, raw []float64, resolution int, unit Unit) ([]float64, error) {
	switch unit {
	case UnitMicroampere:
		if !isPluxDevice(device) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, device)
		}
		return scaleOffset(raw, resolution, 0, 0.190060606), nil
	case UnitAmpere:
		out, err := bvp(device, raw, resolution, UnitMicroampere)
		if err != nil {
			return nil, err
		}
		scaleInPlace(out, 1e-6)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
}

func spo2(sensor Sensor, device Device, raw []float64, resolution int, unit Unit) ([]float64, error) {
	scale := 1.2
	if sensor == SensorSpO2Head {
		scale = 0.15
	}

	switch unit {
	case UnitMicroampere:
		if !isSpO2Device(device) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, device)
		}
		out := make([]float64, len(raw))
		full := math.Exp2(float64(resolution))
		for i, r := range raw {
			out[i] = scale * r / full
		}
		return out, nil
	case UnitAmpere:
		out, err := spo2(sensor, device, raw, resolution, UnitMicroampere)
		if err != nil {
			return nil, err
		}
		scaleInPlace(out, 1e-6)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
}

func temperature(device Device, raw []float64, resolution int, unit Unit) ([]float64, error) {
	switch unit {
	case UnitOhm:
		if !isPluxDevice(device) {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, device)
		}
		out := make([]float64, len(raw))
		full := math.Exp2(float64(resolution))
		for i, r := range raw {
			out[i] = 1e4 * r / (full - r)
		}
		return out, nil
	case UnitKelvin:
		ohm, err := temperature(device, raw, resolution, UnitOhm)
		if err != nil {
			return nil, err
		}
		for i, r := range ohm {
			lnR := math.Log(r)
			ohm[i] = 1 / (ntcA0 + ntcA1*lnR + ntcA2*lnR*lnR*lnR)
		}
		return ohm, nil
	case UnitCelsius:
		if isPluxDevice(device) {
			out, err := temperature(device, raw, resolution, UnitKelvin)
			if err != nil {
				return nil, err
			}
			for i := range out {
				out[i] -= 273.15
			}
			return out, nil
		}
		if isBitalinoDevice(device) {
			out := make([]float64, len(raw))
			full := math.Exp2(float64(resolution))
			for i, r := range raw {
				out[i] = (r/full*vcc - 0.5) * 100
			}
			return out, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, device)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
}

func accelerometer(device Device, raw []float64, resolution int, unit Unit) ([]float64, error) {
	if unit != UnitGravitational {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedUnit, unit)
	}
	if !isPluxDevice(device) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, device)
	}

	out := make([]float64, len(raw))
	up := math.Exp2(16 - float64(resolution))
	for i, r := range raw {
		out[i] = 2*((up*r-accCm)/(accCM-accCm)) - 1
	}
	return out, nil
}

// scaleOffset applies the shared (raw*vcc/2^res - vcc*offset)/gain transfer.
func scaleOffset(raw []float64, resolution int, offset, gain float64) []float64 {
	out := make([]float64, len(raw))
	full := math.Exp2(float64(resolution))
	for i, r := range raw {
		out[i] = (r*vcc/full - vcc*offset) / gain
	}
	return out
}

func scaleInPlace(signal []float64, factor float64) {
	for i := range signal {
		signal[i] *= factor
	}
}

// GenerateTime returns a time axis in seconds for n samples acquired at the
// given sampling rate. The axis spans [0, n/sampleRate] inclusive, matching
// an evenly spaced grid of n points.
func GenerateTime(n int, sampleRate float64) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample count must be >= 0: %d", n)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	out := make([]float64, n)
	if n < 2 {
		return out, nil
	}

	end := float64(n) / sampleRate
	step := end / float64(n-1)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out, nil
}
