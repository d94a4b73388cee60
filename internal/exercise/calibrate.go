package exercise

import (
	"encoding/json"
	"fmt"
)

// Calibrator derives personalized hysteresis thresholds from recorded
// repetition sweeps.
type Calibrator struct{}

// NewCalibrator creates a new Calibrator instance.
func NewCalibrator() *Calibrator {
	return &Calibrator{}
}

// AngleSweep is one recorded repetition: the primary movement angle sampled
// over a full extend-contract-extend cycle.
type AngleSweep struct {
	Angles    []float64 `json:"angles"`
	Timestamp int64     `json:"timestamp"`
}

// calibrationMargin is the fraction of the observed motion range kept clear
// of each extreme when placing a threshold. Thresholds sitting on the
// extremes themselves would require a perfect rep to ever trigger.
const calibrationMargin = 0.1

// Calibrate computes contract and extend thresholds for the profile from
// recorded sweeps. Each sweep's angle extremes are averaged across samples
// after light smoothing, and the thresholds are placed a margin inside the
// averaged range. The result is returned as a copy of the profile; the input
// profile is not modified.
//
// Fails when the recorded motion is too shallow to honor the profile's
// minimum threshold gap, so a calibrated profile can never violate the
// hysteresis invariant.
func (c *Calibrator) Calibrate(p *Profile, samples []json.RawMessage) (*Profile, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples provided")
	}

	var sumMin, sumMax float64
	for i, raw := range samples {
		var sweep AngleSweep
		if err := json.Unmarshal(raw, &sweep); err != nil {
			return nil, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}
		if len(sweep.Angles) < 3 {
			return nil, fmt.Errorf("sample %d has insufficient angle readings", i)
		}

		smoothed := smoothAngles(sweep.Angles)
		lo, hi := smoothed[0], smoothed[0]
		for _, a := range smoothed[1:] {
			if a < lo {
				lo = a
			}
			if a > hi {
				hi = a
			}
		}
		sumMin += lo
		sumMax += hi
	}

	n := float64(len(samples))
	avgMin := sumMin / n
	avgMax := sumMax / n
	span := avgMax - avgMin

	lower := avgMin + calibrationMargin*span
	upper := avgMax - calibrationMargin*span

	calibrated := *p
	if p.ContractBelow {
		calibrated.ContractThreshold = lower
		calibrated.ExtendThreshold = upper
	} else {
		calibrated.ContractThreshold = upper
		calibrated.ExtendThreshold = lower
	}

	if upper-lower < p.MinThresholdGap {
		return nil, fmt.Errorf("recorded motion spans %.1f°, too shallow for the required %.1f° threshold gap",
			span, p.MinThresholdGap)
	}

	if err := calibrated.Validate(); err != nil {
		return nil, err
	}
	return &calibrated, nil
}

// smoothAngles applies a three-point moving average so a single-frame spike
// cannot set a threshold.
func smoothAngles(angles []float64) []float64 {
	if len(angles) < 3 {
		return angles
	}

	smoothed := make([]float64, len(angles))
	smoothed[0] = angles[0]
	smoothed[len(angles)-1] = angles[len(angles)-1]
	for i := 1; i < len(angles)-1; i++ {
		smoothed[i] = (angles[i-1] + angles[i] + angles[i+1]) / 3
	}
	return smoothed
}
