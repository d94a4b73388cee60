package exercise

import (
	"testing"

	"github.com/ayusman/vyayam/internal/pose"
)

func TestValidate_MissingJointShortCircuits(t *testing.T) {
	p := PushupProfile()

	// Good plank pose with both ankles removed
	frame := pose.PushupUpFrame(0)
	delete(frame.Samples, pose.LeftAnkle)
	delete(frame.Samples, pose.RightAnkle)

	verdict := Validate(frame, p)

	if verdict.IsValid {
		t.Error("frame missing a required joint validated as true")
	}
	if len(verdict.Violations) != 1 {
		t.Fatalf("violations = %d, want 1 (structural checks must not run)", len(verdict.Violations))
	}
	if verdict.Violations[0].Kind != ViolationMissingLandmark {
		t.Errorf("violation = %s, want %s", verdict.Violations[0].Kind, ViolationMissingLandmark)
	}
	if verdict.Violations[0].Message != p.MissingMessage {
		t.Errorf("message = %q, want %q", verdict.Violations[0].Message, p.MissingMessage)
	}
}

func TestValidate_LowConfidenceCountsAsMissing(t *testing.T) {
	p := PushupProfile()

	frame := pose.PushupUpFrame(0)
	for _, j := range []pose.Joint{pose.LeftKnee, pose.RightKnee} {
		s := frame.Samples[j]
		s.Confidence = 0.1 // below the 0.25 floor
		frame.Samples[j] = s
	}

	verdict := Validate(frame, p)

	if verdict.IsValid {
		t.Error("frame with below-floor confidence validated as true")
	}
	if len(verdict.Violations) != 1 || verdict.Violations[0].Kind != ViolationMissingLandmark {
		t.Errorf("violations = %+v, want single missing landmark", verdict.Violations)
	}
}

func TestValidate_EitherSideSatisfiesRequirement(t *testing.T) {
	p := PushupProfile()

	// Side view with the right side fully occluded: left side alone suffices
	frame := pose.PushupUpFrame(0)
	for j := range frame.Samples {
		switch j {
		case pose.RightShoulder, pose.RightElbow, pose.RightWrist,
			pose.RightHip, pose.RightKnee, pose.RightAnkle:
			delete(frame.Samples, j)
		}
	}

	verdict := Validate(frame, p)
	if !verdict.IsValid {
		t.Errorf("one-sided frame invalid: %+v", verdict.Violations)
	}
}

func TestValidate_GoodPushupForm(t *testing.T) {
	p := PushupProfile()

	for _, tc := range []struct {
		name  string
		frame *pose.Frame
	}{
		{"top of the rep", pose.PushupUpFrame(0)},
		{"bottom of the rep", pose.PushupDownFrame(0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			verdict := Validate(tc.frame, p)
			if !verdict.IsValid {
				t.Errorf("verdict invalid: %+v", verdict.Violations)
			}
		})
	}
}

func TestValidate_SaggingHips(t *testing.T) {
	p := PushupProfile()

	verdict := Validate(pose.PushupSaggingFrame(0), p)

	if verdict.IsValid {
		t.Fatal("sagging pose validated as true")
	}

	// Both structural checks fail independently, in profile order
	kinds := make([]ViolationKind, len(verdict.Violations))
	for i, v := range verdict.Violations {
		kinds[i] = v.Kind
	}
	if len(kinds) != 2 || kinds[0] != ViolationBodyLine || kinds[1] != ViolationHipsDropped {
		t.Errorf("violations = %v, want [%s %s]", kinds, ViolationBodyLine, ViolationHipsDropped)
	}
}

func TestValidate_GoodSitupForm(t *testing.T) {
	p := SitupProfile()

	for _, tc := range []struct {
		name  string
		frame *pose.Frame
	}{
		{"lying", pose.SitupDownFrame(0)},
		{"sat up", pose.SitupUpFrame(0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			verdict := Validate(tc.frame, p)
			if !verdict.IsValid {
				t.Errorf("verdict invalid: %+v", verdict.Violations)
			}
		})
	}
}

func TestValidate_SitupLegsStraight(t *testing.T) {
	p := SitupProfile()

	verdict := Validate(pose.SitupLegsStraightFrame(0), p)

	if verdict.IsValid {
		t.Fatal("straight-legged pose validated as true")
	}
	if verdict.Violations[0].Kind != ViolationKneesNotBent {
		t.Errorf("violation = %s, want %s", verdict.Violations[0].Kind, ViolationKneesNotBent)
	}
}

func TestValidate_HeadMisaligned(t *testing.T) {
	p := SitupProfile()

	// Pull the head far off the shoulder-hip line
	frame := pose.SitupDownFrame(0)
	for _, j := range []pose.Joint{pose.LeftEar, pose.RightEar} {
		s := frame.Samples[j]
		s.Position = pose.Point{X: s.Position.X, Y: s.Position.Y - 0.2}
		frame.Samples[j] = s
	}

	verdict := Validate(frame, p)

	if verdict.IsValid {
		t.Fatal("misaligned head validated as true")
	}
	found := false
	for _, v := range verdict.Violations {
		if v.Kind == ViolationHeadMisaligned {
			found = true
		}
	}
	if !found {
		t.Errorf("violations = %+v, want %s", verdict.Violations, ViolationHeadMisaligned)
	}
}

func TestValidate_IsPure(t *testing.T) {
	p := PushupProfile()
	frame := pose.PushupUpFrame(42)

	before := len(frame.Samples)
	Validate(frame, p)
	Validate(frame, p)

	if len(frame.Samples) != before {
		t.Error("Validate mutated the frame")
	}
	if frame.Timestamp != 42 {
		t.Error("Validate mutated the frame timestamp")
	}
}
