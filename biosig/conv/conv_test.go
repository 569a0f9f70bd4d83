package conv

import (
	"errors"
	"math"
	"testing"

	"github.com/biosignalsplux/biosignals-go/internal/testutil"
)

func TestRawToPhysicalECG(t *testing.T) {
	// Mid-scale raw value maps to 0 mV regardless of gain.
	raw := []float64{32768}
	out, err := RawToPhysical(SensorECG, DeviceBiosignalsplux, raw, 16, UnitMillivolt)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, out[0], 0, 1e-12)

	// Full scale: (3.0 - 1.5) / 1.019.
	out, err = RawToPhysical(SensorECG, DeviceBiosignalsplux, []float64{65536}, 16, UnitMillivolt)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, out[0], 1.5/1.019, 1e-12)

	// BITalino family uses gain 1.1.
	out, err = RawToPhysical(SensorECG, DeviceBitalino, []float64{1024}, 10, UnitMillivolt)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, out[0], 1.5/1.1, 1e-12)
}

func TestRawToPhysicalVoltScalesMillivolt(t *testing.T) {
	raw := []float64{50000}
	mv, err := RawToPhysical(SensorECG, DeviceSwifter, raw, 16, UnitMillivolt)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	v, err := RawToPhysical(SensorECG, DeviceSwifter, raw, 16, UnitVolt)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, v[0], mv[0]/1000, 1e-15)
}

func TestRawToPhysicalEMGGains(t *testing.T) {
	raw := []float64{65536}
	cases := []struct {
		device Device
		gain   float64
	}{
		{DeviceBioplux, 1},
		{DeviceBitalino, 1.008},
		{DeviceBitalinoRev, 1.009},
		{DeviceBitalinoRIOT, 1.009},
	}
	for _, tc := range cases {
		out, err := RawToPhysical(SensorEMG, tc.device, raw, 16, UnitMillivolt)
		if err != nil {
			t.Fatalf("%s: %v", tc.device, err)
		}
		testutil.RequireNearlyEqual(t, out[0], 1.5/tc.gain, 1e-12)
	}
}

func TestRawToPhysicalBVP(t *testing.T) {
	out, err := RawToPhysical(SensorBVP, DeviceChanneller, []float64{32768}, 16, UnitMicroampere)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, out[0], 1.5/0.190060606, 1e-9)

	amp, err := RawToPhysical(SensorBVP, DeviceChanneller, []float64{32768}, 16, UnitAmpere)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, amp[0], out[0]*1e-6, 1e-18)

	if _, err := RawToPhysical(SensorBVP, DeviceBitalino, []float64{1}, 10, UnitMicroampere); !errors.Is(err, ErrUnsupportedDevice) {
		t.Fatalf("err = %v, want ErrUnsupportedDevice", err)
	}
}

func TestRawToPhysicalSpO2(t *testing.T) {
	raw := []float64{32768}

	arm, err := RawToPhysical(SensorSpO2Arm, DeviceBiosignalsplux, raw, 16, UnitMicroampere)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, arm[0], 1.2*0.5, 1e-12)

	head, err := RawToPhysical(SensorSpO2Head, DeviceBiosignalsplux, raw, 16, UnitMicroampere)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, head[0], 0.15*0.5, 1e-12)

	// SpO2 is only available on three devices.
	if _, err := RawToPhysical(SensorSpO2Fing, DeviceBioplux, raw, 16, UnitMicroampere); !errors.Is(err, ErrUnsupportedDevice) {
		t.Fatalf("err = %v, want ErrUnsupportedDevice", err)
	}
}

func TestRawToPhysicalTemperature(t *testing.T) {
	// 10 kOhm at half scale.
	ohm, err := RawToPhysical(SensorTemp, DeviceBiosignalsplux, []float64{32768}, 16, UnitOhm)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, ohm[0], 1e4, 1e-9)

	// 10 kOhm NTC should read near 25 degrees Celsius.
	celsius, err := RawToPhysical(SensorTemp, DeviceBiosignalsplux, []float64{32768}, 16, UnitCelsius)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, celsius[0], 25, 0.5)

	kelvin, err := RawToPhysical(SensorTemp, DeviceBiosignalsplux, []float64{32768}, 16, UnitKelvin)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, kelvin[0], celsius[0]+273.15, 1e-9)

	// BITalino uses the linear Celsius transfer instead.
	bital, err := RawToPhysical(SensorTemp, DeviceBitalino, []float64{512}, 10, UnitCelsius)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, bital[0], (0.5*3.0-0.5)*100, 1e-9)

	if _, err := RawToPhysical(SensorTemp, DeviceBitalino, []float64{1}, 10, UnitOhm); !errors.Is(err, ErrUnsupportedDevice) {
		t.Fatalf("err = %v, want ErrUnsupportedDevice", err)
	}
}

func TestRawToPhysicalAccelerometer(t *testing.T) {
	// Calibration midpoint 33000 counts maps to 0 g at 16 bit.
	out, err := RawToPhysical(SensorACC, DeviceBiosignalsplux, []float64{33000}, 16, UnitGravitational)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, out[0], 0, 1e-12)

	// Lower resolutions are referred to the 16 bit calibration.
	out, err = RawToPhysical(SensorACC, DeviceBiosignalsplux, []float64{33000.0 / 64}, 10, UnitGravitational)
	if err != nil {
		t.Fatalf("RawToPhysical: %v", err)
	}
	testutil.RequireNearlyEqual(t, out[0], 0, 1e-12)
}

func TestRawToPhysicalErrors(t *testing.T) {
	if _, err := RawToPhysical("EEG", DeviceBioplux, []float64{1}, 16, UnitMillivolt); !errors.Is(err, ErrUnknownSensor) {
		t.Fatalf("err = %v, want ErrUnknownSensor", err)
	}
	if _, err := RawToPhysical(SensorECG, DeviceBioplux, []float64{1}, 16, UnitOhm); !errors.Is(err, ErrUnsupportedUnit) {
		t.Fatalf("err = %v, want ErrUnsupportedUnit", err)
	}
	if _, err := RawToPhysical(SensorECG, DeviceBioplux, []float64{1}, 0, UnitMillivolt); err == nil {
		t.Fatal("expected resolution error")
	}
}

func TestGenerateTime(t *testing.T) {
	axis, err := GenerateTime(5, 100)
	if err != nil {
		t.Fatalf("GenerateTime: %v", err)
	}
	if len(axis) != 5 {
		t.Fatalf("len = %d, want 5", len(axis))
	}
	testutil.RequireNearlyEqual(t, axis[0], 0, 0)
	testutil.RequireNearlyEqual(t, axis[4], 0.05, 1e-12)

	// Even spacing.
	step := axis[1] - axis[0]
	for i := 1; i < len(axis); i++ {
		if math.Abs((axis[i]-axis[i-1])-step) > 1e-12 {
			t.Fatalf("uneven spacing at %d", i)
		}
	}

	if _, err := GenerateTime(10, 0); err == nil {
		t.Fatal("expected sample-rate error")
	}
	if _, err := GenerateTime(-1, 100); err == nil {
		t.Fatal("expected negative-count error")
	}
}
