package exercise

import (
	"encoding/json"
	"testing"
)

func sweepJSON(t *testing.T, angles []float64) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(AngleSweep{Angles: angles, Timestamp: 0})
	if err != nil {
		t.Fatalf("marshal sweep: %v", err)
	}
	return data
}

func TestCalibrate_DerivesThresholds(t *testing.T) {
	c := NewCalibrator()
	p := PushupProfile()

	samples := []json.RawMessage{
		sweepJSON(t, []float64{175, 150, 110, 70, 60, 70, 110, 150, 175}),
		sweepJSON(t, []float64{170, 140, 100, 65, 55, 65, 100, 140, 170}),
	}

	calibrated, err := c.Calibrate(p, samples)
	if err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}

	if calibrated.ContractThreshold >= calibrated.ExtendThreshold {
		t.Errorf("thresholds not ordered for push motion: contract %f, extend %f",
			calibrated.ContractThreshold, calibrated.ExtendThreshold)
	}
	if gap := calibrated.ExtendThreshold - calibrated.ContractThreshold; gap < p.MinThresholdGap {
		t.Errorf("calibrated gap %f below minimum %f", gap, p.MinThresholdGap)
	}

	// The original profile is untouched
	if p.ContractThreshold != 90 || p.ExtendThreshold != 160 {
		t.Error("Calibrate mutated the input profile")
	}
}

func TestCalibrate_SmoothsSpikes(t *testing.T) {
	c := NewCalibrator()
	p := PushupProfile()

	// One wild low reading in an otherwise shallow sweep must not
	// manufacture a deep range on its own.
	shallow := sweepJSON(t, []float64{170, 168, 165, 5, 165, 168, 170})

	if _, err := c.Calibrate(p, []json.RawMessage{shallow}); err == nil {
		t.Error("expected error for a sweep whose depth is a single spike")
	}
}

func TestCalibrate_ShallowMotionFails(t *testing.T) {
	c := NewCalibrator()
	p := PushupProfile()

	// Range of 30 degrees cannot honor the 70 degree minimum gap
	samples := []json.RawMessage{
		sweepJSON(t, []float64{170, 155, 140, 155, 170}),
	}

	if _, err := c.Calibrate(p, samples); err == nil {
		t.Error("expected error for motion too shallow for the threshold gap")
	}
}

func TestCalibrate_EmptyAndInvalidSamples(t *testing.T) {
	c := NewCalibrator()
	p := SitupProfile()

	if _, err := c.Calibrate(p, nil); err == nil {
		t.Error("expected error for no samples")
	}

	if _, err := c.Calibrate(p, []json.RawMessage{json.RawMessage(`{bad`)}); err == nil {
		t.Error("expected error for malformed sample")
	}

	short := sweepJSON(t, []float64{10, 20})
	if _, err := c.Calibrate(p, []json.RawMessage{short}); err == nil {
		t.Error("expected error for too few readings")
	}
}

func TestCalibrate_SitupDirection(t *testing.T) {
	c := NewCalibrator()
	p := SitupProfile()

	samples := []json.RawMessage{
		sweepJSON(t, []float64{10, 30, 60, 100, 115, 100, 60, 30, 10}),
	}

	calibrated, err := c.Calibrate(p, samples)
	if err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}

	if calibrated.ContractThreshold <= calibrated.ExtendThreshold {
		t.Errorf("thresholds not ordered for sit motion: contract %f, extend %f",
			calibrated.ContractThreshold, calibrated.ExtendThreshold)
	}
}
