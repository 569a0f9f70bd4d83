package conv

import "errors"

var (
	// ErrUnknownSensor reports a sensor with no transfer function.
	ErrUnknownSensor = errors.New("unknown sensor")

	// ErrUnsupportedDevice reports a device the sensor transfer function
	// is not defined for.
	ErrUnsupportedDevice = errors.New("transfer function not defined for device")

	// ErrUnsupportedUnit reports an output unit the sensor cannot produce.
	ErrUnsupportedUnit = errors.New("output unit not available for sensor")
)
