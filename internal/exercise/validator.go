package exercise

import (
	"github.com/ayusman/vyayam/internal/pose"
)

// Violation is one failed form check with its presentation message.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

// Verdict is the outcome of validating one frame against a profile.
// It is recomputed every frame and never persisted.
type Verdict struct {
	IsValid    bool        `json:"is_valid"`
	Violations []Violation `json:"violations,omitempty"`
}

// Validate checks a frame against the profile's form requirements.
//
// If any required joint is absent or below the confidence floor the frame is
// invalid with a single missing-landmark violation and no structural checks
// run; geometry computed from unreliable landmarks is worse than no answer.
// Otherwise each structural constraint is evaluated independently and every
// failing one appends a violation. The function is pure: it never mutates the
// frame and has no side effects.
func Validate(f *pose.Frame, p *Profile) Verdict {
	for _, r := range p.Required {
		if f.Visible(r.Joint, p.ConfidenceFloor) {
			continue
		}
		if r.EitherSide && f.Visible(pose.Mirror(r.Joint), p.ConfidenceFloor) {
			continue
		}
		return Verdict{
			IsValid: false,
			Violations: []Violation{
				{Kind: ViolationMissingLandmark, Message: p.MissingMessage},
			},
		}
	}

	verdict := Verdict{IsValid: true}
	for _, c := range p.Constraints {
		if !constraintHolds(f, p, c) {
			verdict.IsValid = false
			verdict.Violations = append(verdict.Violations, Violation{
				Kind:    c.Violation,
				Message: c.Message,
			})
		}
	}

	return verdict
}

// constraintHolds evaluates one structural constraint. Bilateral constraints
// are measured on every side whose joints all pass the confidence floor and
// the measurements averaged; a constraint with no measurable side fails,
// though profile validation guarantees its joints are in the required set so
// the missing-landmark short circuit normally fires first.
func constraintHolds(f *pose.Frame, p *Profile, c Constraint) bool {
	var sum float64
	var n int

	for _, side := range sides(c.Bilateral, c.A, c.B, c.C) {
		a, okA := f.Position(side[0], p.ConfidenceFloor)
		b, okB := f.Position(side[1], p.ConfidenceFloor)

		var cp pose.Point
		okC := true
		if c.Kind != ConstraintMinElevation {
			cp, okC = f.Position(side[2], p.ConfidenceFloor)
		}
		if !okA || !okB || !okC {
			continue
		}

		switch c.Kind {
		case ConstraintAngleRange:
			sum += AngleAt(a, b, cp)
		case ConstraintMinElevation:
			torso, ok := torsoLength(f, p.ConfidenceFloor)
			if !ok {
				continue
			}
			// y grows downward, so elevation of A above B is B.y - A.y.
			sum += (b.Y - a.Y) / torso
		case ConstraintLineAlignment:
			torso, ok := torsoLength(f, p.ConfidenceFloor)
			if !ok {
				continue
			}
			sum += lineDistance(cp, a, b) / torso
		default:
			continue
		}
		n++
	}

	if n == 0 {
		return false
	}
	measured := sum / float64(n)

	switch c.Kind {
	case ConstraintAngleRange:
		return measured >= c.Min && measured <= c.Max
	case ConstraintMinElevation:
		return measured >= c.Min
	case ConstraintLineAlignment:
		return measured <= c.Max
	default:
		return false
	}
}
