package exercise

// Phase is the repetition phase the counter is currently in.
type Phase string

const (
	// PhaseExtended is the resting phase: arms straight for the push motion,
	// lying down for the sit motion.
	PhaseExtended Phase = "extended"
	// PhaseContracted is the peak phase of the movement.
	PhaseContracted Phase = "contracted"
)

// Counter is the repetition state machine for one exercise session.
//
// It consumes (angle, form-valid) observations in time order and advances
// between the two phases with hysteresis: the contract and extend thresholds
// are separated by the profile's minimum gap, so a noisy reading near one
// threshold can never bounce a full cycle. A repetition is counted only on
// the Contracted->Extended transition, and no transition at all happens while
// form is invalid, so a badly formed movement can neither start nor finish a
// rep.
//
// A Counter is owned by a single session and is not safe for concurrent use.
type Counter struct {
	profile   *Profile
	phase     Phase
	count     uint64
	lastAngle float64
}

// NewCounter creates a Counter in the profile's resting phase with count 0.
func NewCounter(p *Profile) *Counter {
	return &Counter{
		profile: p,
		phase:   PhaseExtended,
	}
}

// Observe feeds one movement angle observation into the state machine and
// reports whether it completed a repetition.
//
// Threshold comparisons are strict: an angle exactly on a threshold does not
// transition, only crossing beyond it does.
func (c *Counter) Observe(angle float64, formValid bool) bool {
	c.lastAngle = angle

	if !formValid {
		// Freeze until form is regained. Bad-form motion must not advance
		// the cycle in either direction.
		return false
	}

	switch c.phase {
	case PhaseExtended:
		if c.crossedContract(angle) {
			c.phase = PhaseContracted
		}
	case PhaseContracted:
		if c.crossedExtend(angle) {
			c.phase = PhaseExtended
			c.count++
			return true
		}
	}

	return false
}

func (c *Counter) crossedContract(angle float64) bool {
	if c.profile.ContractBelow {
		return angle < c.profile.ContractThreshold
	}
	return angle > c.profile.ContractThreshold
}

func (c *Counter) crossedExtend(angle float64) bool {
	if c.profile.ContractBelow {
		return angle > c.profile.ExtendThreshold
	}
	return angle < c.profile.ExtendThreshold
}

// Count returns the number of completed repetitions. It never decreases
// except through Reset.
func (c *Counter) Count() uint64 {
	return c.count
}

// Phase returns the current repetition phase.
func (c *Counter) Phase() Phase {
	return c.phase
}

// LastAngle returns the most recently observed movement angle, for status
// reporting only.
func (c *Counter) LastAngle() float64 {
	return c.lastAngle
}

// Reset returns the counter to the resting phase with count 0. The profile
// is untouched.
func (c *Counter) Reset() {
	c.phase = PhaseExtended
	c.count = 0
	c.lastAngle = 0
}
