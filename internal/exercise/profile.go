package exercise

import (
	"errors"
	"fmt"

	"github.com/ayusman/vyayam/internal/pose"
)

// Kind identifies an exercise.
type Kind string

const (
	// KindPushup is the push-motion exercise.
	KindPushup Kind = "pushup"
	// KindSitup is the sit-motion exercise.
	KindSitup Kind = "situp"
)

// ErrInvalidProfile is returned when a profile fails construction-time validation.
var ErrInvalidProfile = errors.New("invalid exercise profile")

// AngleKind selects how a profile's primary movement angle is measured.
type AngleKind string

const (
	// AngleJointTriple measures the angle at joint B between segments B-A and B-C.
	AngleJointTriple AngleKind = "joint_triple"
	// AngleTorsoIncline measures the inclination of the segment A-B against
	// the horizontal, oriented away from reference joint C.
	AngleTorsoIncline AngleKind = "torso_incline"
)

// AngleSpec designates the joints whose geometry yields the primary movement
// angle. Joints are given as left-side identifiers; when Bilateral is set both
// sides are measured and averaged, falling back to whichever side is visible.
type AngleSpec struct {
	Kind      AngleKind  `json:"kind" yaml:"kind"`
	A         pose.Joint `json:"a" yaml:"a"`
	B         pose.Joint `json:"b" yaml:"b"`
	C         pose.Joint `json:"c" yaml:"c"`
	Bilateral bool       `json:"bilateral" yaml:"bilateral"`
}

// ConstraintKind selects the geometric check a structural constraint performs.
type ConstraintKind string

const (
	// ConstraintAngleRange requires the angle at joint B (between B-A and B-C)
	// to fall within [Min, Max] degrees.
	ConstraintAngleRange ConstraintKind = "angle_range"
	// ConstraintMinElevation requires joint A to sit above joint B by at least
	// Min torso lengths (image y axis grows downward).
	ConstraintMinElevation ConstraintKind = "min_elevation"
	// ConstraintLineAlignment requires joint C to lie within Max torso lengths
	// of the line through A and B.
	ConstraintLineAlignment ConstraintKind = "line_alignment"
)

// ViolationKind identifies a failed form check.
type ViolationKind string

const (
	// ViolationMissingLandmark means a required joint was absent or below the
	// confidence floor; no structural checks were run.
	ViolationMissingLandmark ViolationKind = "missing_landmark"
	// ViolationBodyLine means the shoulder-hip-knee line is bent out of range.
	ViolationBodyLine ViolationKind = "body_line"
	// ViolationHipsDropped means the hips sagged toward the ground.
	ViolationHipsDropped ViolationKind = "hips_dropped"
	// ViolationKneesNotBent means the hip-knee-ankle angle is out of range.
	ViolationKneesNotBent ViolationKind = "knees_not_bent"
	// ViolationHeadMisaligned means the head strayed from the torso line.
	ViolationHeadMisaligned ViolationKind = "head_misaligned"
)

// Constraint is one structural form check, evaluated independently per frame.
// Angle units are degrees; elevation and alignment units are torso lengths,
// which keeps thresholds independent of image resolution.
type Constraint struct {
	Kind      ConstraintKind `json:"kind" yaml:"kind"`
	Violation ViolationKind  `json:"violation" yaml:"violation"`
	Message   string         `json:"message" yaml:"message"`
	A         pose.Joint     `json:"a" yaml:"a"`
	B         pose.Joint     `json:"b" yaml:"b"`
	C         pose.Joint     `json:"c" yaml:"c"`
	Bilateral bool           `json:"bilateral" yaml:"bilateral"`
	Min       float64        `json:"min" yaml:"min"`
	Max       float64        `json:"max" yaml:"max"`
}

// JointRequirement names a joint that must be visible for a frame to be
// analyzable. With EitherSide set, the joint or its mirrored counterpart
// satisfies the requirement.
type JointRequirement struct {
	Joint      pose.Joint `json:"joint" yaml:"joint"`
	EitherSide bool       `json:"either_side" yaml:"either_side"`
}

// Profile is the immutable configuration for one exercise kind: which joints
// must be visible, how the primary movement angle is measured, the hysteresis
// thresholds that drive repetition counting, and the structural form checks.
type Profile struct {
	Kind            Kind               `json:"kind" yaml:"kind"`
	Name            string             `json:"name" yaml:"name"`
	ConfidenceFloor float64            `json:"confidence_floor" yaml:"confidence_floor"`
	Primary         AngleSpec          `json:"primary" yaml:"primary"`
	Required        []JointRequirement `json:"required" yaml:"required"`
	Constraints     []Constraint       `json:"constraints" yaml:"constraints"`

	// ContractBelow selects the movement direction: when true the counter
	// enters Contracted as the angle drops below ContractThreshold (push
	// motion); when false as it rises above it (sit motion).
	ContractBelow     bool    `json:"contract_below" yaml:"contract_below"`
	ContractThreshold float64 `json:"contract_threshold" yaml:"contract_threshold"`
	ExtendThreshold   float64 `json:"extend_threshold" yaml:"extend_threshold"`
	// MinThresholdGap is the smallest allowed separation between the two
	// thresholds. The gap is what keeps a single noisy borderline reading
	// from oscillating into double counts.
	MinThresholdGap float64 `json:"min_threshold_gap" yaml:"min_threshold_gap"`

	// Coaching messages surfaced through the session status.
	MissingMessage    string `json:"missing_message" yaml:"missing_message"`
	ExtendedMessage   string `json:"extended_message" yaml:"extended_message"`
	ContractedMessage string `json:"contracted_message" yaml:"contracted_message"`
}

// Validate checks the profile's internal consistency. It is called at
// construction time so a broken configuration fails before any session
// starts, never during per-frame analysis.
func (p *Profile) Validate() error {
	if p.Kind == "" {
		return fmt.Errorf("%w: kind is required", ErrInvalidProfile)
	}
	if p.ConfidenceFloor <= 0 || p.ConfidenceFloor >= 1 {
		return fmt.Errorf("%w: confidence floor %.2f outside (0,1)", ErrInvalidProfile, p.ConfidenceFloor)
	}

	gap := p.ExtendThreshold - p.ContractThreshold
	if !p.ContractBelow {
		gap = p.ContractThreshold - p.ExtendThreshold
	}
	if gap < p.MinThresholdGap {
		return fmt.Errorf("%w: threshold gap %.1f° below required %.1f°",
			ErrInvalidProfile, gap, p.MinThresholdGap)
	}
	if p.MinThresholdGap <= 0 {
		return fmt.Errorf("%w: minimum threshold gap must be positive", ErrInvalidProfile)
	}

	required := make(map[pose.Joint]bool, len(p.Required))
	for _, r := range p.Required {
		if !r.Joint.Valid() {
			return fmt.Errorf("%w: required joint %d undefined", ErrInvalidProfile, r.Joint)
		}
		required[r.Joint] = true
		if r.EitherSide {
			required[pose.Mirror(r.Joint)] = true
		}
	}

	checkCovered := func(ctx string, joints ...pose.Joint) error {
		for _, j := range joints {
			if !j.Valid() {
				return fmt.Errorf("%w: %s references undefined joint %d", ErrInvalidProfile, ctx, j)
			}
			if !required[j] && !required[pose.Mirror(j)] {
				return fmt.Errorf("%w: %s references joint %s not in required set",
					ErrInvalidProfile, ctx, j)
			}
		}
		return nil
	}

	if err := checkCovered("primary angle", p.Primary.A, p.Primary.B, p.Primary.C); err != nil {
		return err
	}
	for i, c := range p.Constraints {
		joints := []pose.Joint{c.A, c.B}
		if c.Kind != ConstraintMinElevation {
			joints = append(joints, c.C)
		}
		if err := checkCovered(fmt.Sprintf("constraint %d", i), joints...); err != nil {
			return err
		}
		if c.Violation == "" {
			return fmt.Errorf("%w: constraint %d has no violation kind", ErrInvalidProfile, i)
		}
	}

	return nil
}

// torsoLength returns the shoulder-hip distance used to normalize positional
// thresholds, preferring the left side and falling back to the right.
func torsoLength(f *pose.Frame, floor float64) (float64, bool) {
	for _, side := range [][2]pose.Joint{
		{pose.LeftShoulder, pose.LeftHip},
		{pose.RightShoulder, pose.RightHip},
	} {
		s, okS := f.Position(side[0], floor)
		h, okH := f.Position(side[1], floor)
		if okS && okH {
			if d := Distance(s, h); d > 0 {
				return d, true
			}
		}
	}
	return 0, false
}

// sides returns the joint set itself and, when bilateral, its mirrored
// counterpart.
func sides(bilateral bool, joints ...pose.Joint) [][]pose.Joint {
	out := [][]pose.Joint{joints}
	if !bilateral {
		return out
	}
	mirrored := make([]pose.Joint, len(joints))
	changed := false
	for i, j := range joints {
		mirrored[i] = pose.Mirror(j)
		if mirrored[i] != j {
			changed = true
		}
	}
	if changed {
		out = append(out, mirrored)
	}
	return out
}

// MovementAngle computes the profile's primary movement angle for the frame.
// Bilateral measurements are averaged across the sides whose joints all pass
// the confidence floor; the second return is false when no side is measurable.
func (p *Profile) MovementAngle(f *pose.Frame) (float64, bool) {
	var sum float64
	var n int

	for _, side := range sides(p.Primary.Bilateral, p.Primary.A, p.Primary.B, p.Primary.C) {
		a, okA := f.Position(side[0], p.ConfidenceFloor)
		b, okB := f.Position(side[1], p.ConfidenceFloor)
		c, okC := f.Position(side[2], p.ConfidenceFloor)
		if !okA || !okB || !okC {
			continue
		}

		switch p.Primary.Kind {
		case AngleTorsoIncline:
			sum += inclineFromHorizontal(a, b, c)
		default:
			sum += AngleAt(a, b, c)
		}
		n++
	}

	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// PushupProfile returns the built-in push-motion profile: the elbow angle
// drives counting (down below 90°, up above 160°) and form requires a
// straight shoulder-hip-knee line with the hips held off the ground.
func PushupProfile() *Profile {
	return &Profile{
		Kind:            KindPushup,
		Name:            "Push-ups",
		ConfidenceFloor: 0.25,
		Primary: AngleSpec{
			Kind:      AngleJointTriple,
			A:         pose.LeftShoulder,
			B:         pose.LeftElbow,
			C:         pose.LeftWrist,
			Bilateral: true,
		},
		Required: []JointRequirement{
			{Joint: pose.LeftShoulder, EitherSide: true},
			{Joint: pose.LeftElbow, EitherSide: true},
			{Joint: pose.LeftWrist, EitherSide: true},
			{Joint: pose.LeftHip, EitherSide: true},
			{Joint: pose.LeftKnee, EitherSide: true},
			{Joint: pose.LeftAnkle, EitherSide: true},
		},
		Constraints: []Constraint{
			{
				Kind:      ConstraintAngleRange,
				Violation: ViolationBodyLine,
				Message:   "Keep your body in a straight line",
				A:         pose.LeftShoulder,
				B:         pose.LeftHip,
				C:         pose.LeftKnee,
				Bilateral: true,
				Min:       150,
				Max:       180,
			},
			{
				Kind:      ConstraintMinElevation,
				Violation: ViolationHipsDropped,
				Message:   "Lift your hips off the ground",
				A:         pose.LeftHip,
				B:         pose.LeftAnkle,
				Bilateral: true,
				Min:       0.3,
			},
		},
		ContractBelow:     true,
		ContractThreshold: 90,
		ExtendThreshold:   160,
		MinThresholdGap:   70,
		MissingMessage:    "Make sure your whole body is in view",
		ExtendedMessage:   "Lower your chest",
		ContractedMessage: "Push back up",
	}
}

// SitupProfile returns the built-in sit-motion profile: the torso's incline
// against the horizontal drives counting (lying below 45°, sat up above 90°)
// and form requires bent knees and the head held in line with the torso.
func SitupProfile() *Profile {
	return &Profile{
		Kind:            KindSitup,
		Name:            "Sit-ups",
		ConfidenceFloor: 0.3,
		Primary: AngleSpec{
			Kind:      AngleTorsoIncline,
			A:         pose.LeftShoulder,
			B:         pose.LeftHip,
			C:         pose.LeftAnkle,
			Bilateral: true,
		},
		Required: []JointRequirement{
			{Joint: pose.LeftEar, EitherSide: true},
			{Joint: pose.LeftShoulder, EitherSide: true},
			{Joint: pose.LeftHip, EitherSide: true},
			{Joint: pose.LeftKnee, EitherSide: true},
			{Joint: pose.LeftAnkle, EitherSide: true},
		},
		Constraints: []Constraint{
			{
				Kind:      ConstraintAngleRange,
				Violation: ViolationKneesNotBent,
				Message:   "Keep your knees bent",
				A:         pose.LeftHip,
				B:         pose.LeftKnee,
				C:         pose.LeftAnkle,
				Bilateral: true,
				Min:       60,
				Max:       120,
			},
			{
				Kind:      ConstraintLineAlignment,
				Violation: ViolationHeadMisaligned,
				Message:   "Keep your head in line with your torso",
				A:         pose.LeftShoulder,
				B:         pose.LeftHip,
				C:         pose.LeftEar,
				Bilateral: true,
				Max:       0.35,
			},
		},
		ContractBelow:     false,
		ContractThreshold: 90,
		ExtendThreshold:   45,
		MinThresholdGap:   25,
		MissingMessage:    "Make sure your whole body is in view",
		ExtendedMessage:   "Sit all the way up",
		ContractedMessage: "Lower back down",
	}
}

// BuiltinProfile returns the built-in profile for the given exercise kind.
func BuiltinProfile(kind Kind) (*Profile, error) {
	switch kind {
	case KindPushup:
		return PushupProfile(), nil
	case KindSitup:
		return SitupProfile(), nil
	default:
		return nil, fmt.Errorf("%w: unknown exercise kind %q", ErrInvalidProfile, kind)
	}
}
