package exercise

import (
	"errors"
	"testing"

	"github.com/ayusman/vyayam/internal/pose"
)

func newPushupSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(PushupProfile())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

func TestNewSession_RejectsInvalidProfile(t *testing.T) {
	p := PushupProfile()
	p.ExtendThreshold = 95 // gap collapses below the minimum

	if _, err := NewSession(p); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("NewSession() error = %v, want ErrInvalidProfile", err)
	}
}

func TestSession_IgnoresFramesWhileStopped(t *testing.T) {
	s := newPushupSession(t)

	status := s.OnFrame(pose.PushupDownFrame(100))
	if status.Count != 0 || status.Phase != PhaseExtended {
		t.Errorf("stopped session changed state: %+v", status)
	}

	s.Start()
	s.Stop()

	s.OnFrame(pose.PushupDownFrame(200))
	if got := s.Status(); got.Timestamp == 200 {
		t.Error("stopped session processed a frame")
	}
}

func TestSession_CountsFullPushupRep(t *testing.T) {
	s := newPushupSession(t)
	s.Start()

	s.OnFrame(pose.PushupUpFrame(100))
	mid := s.OnFrame(pose.PushupDownFrame(200))
	if mid.Phase != PhaseContracted {
		t.Fatalf("phase at bottom = %s, want %s", mid.Phase, PhaseContracted)
	}

	status := s.OnFrame(pose.PushupUpFrame(300))

	if status.Count != 1 {
		t.Errorf("count = %d, want 1", status.Count)
	}
	if status.Phase != PhaseExtended {
		t.Errorf("phase = %s, want %s", status.Phase, PhaseExtended)
	}
	if !status.FormValid {
		t.Errorf("form invalid: %+v", status.Violations)
	}
	if status.Timestamp != 300 {
		t.Errorf("timestamp = %d, want 300", status.Timestamp)
	}
}

func TestSession_CountsFullSitupRep(t *testing.T) {
	s, err := NewSession(SitupProfile())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	s.Start()

	s.OnFrame(pose.SitupDownFrame(100))
	s.OnFrame(pose.SitupUpFrame(200))
	status := s.OnFrame(pose.SitupDownFrame(300))

	if status.Count != 1 {
		t.Errorf("count = %d, want 1", status.Count)
	}
}

func TestSession_BadFormFreezesCounting(t *testing.T) {
	s := newPushupSession(t)
	s.Start()

	s.OnFrame(pose.PushupUpFrame(100))
	// The sagging frame has straight arms; replace the elbow to simulate a
	// bottom position reached with broken form.
	bad := pose.PushupSaggingFrame(200)
	for _, j := range []pose.Joint{pose.LeftElbow, pose.RightElbow} {
		s2 := bad.Samples[j]
		s2.Position = pose.Point{X: 0.78, Y: 0.55}
		bad.Samples[j] = s2
	}
	status := s.OnFrame(bad)
	if status.FormValid {
		t.Fatal("sagging frame reported valid form")
	}

	status = s.OnFrame(pose.PushupUpFrame(300))
	if status.Count != 0 {
		t.Errorf("count = %d, want 0 after invalid-form cycle", status.Count)
	}
	if status.Phase != PhaseExtended {
		t.Errorf("phase = %s, want %s", status.Phase, PhaseExtended)
	}
}

func TestSession_MissingJointLeavesStateUnchanged(t *testing.T) {
	s := newPushupSession(t)
	s.Start()

	s.OnFrame(pose.PushupUpFrame(100))
	phaseBefore := s.Status().Phase
	countBefore := s.Status().Count

	empty := pose.NewFrame(200, nil)
	status := s.OnFrame(empty)

	if status.FormValid {
		t.Error("empty frame reported valid form")
	}
	if status.Message == "" {
		t.Error("missing-landmark frame produced no message")
	}
	if status.Phase != phaseBefore || status.Count != countBefore {
		t.Errorf("phase/count changed on missing input: %+v", status)
	}
}

func TestSession_MessageFollowsPhaseAndViolations(t *testing.T) {
	s := newPushupSession(t)
	p := s.Profile()
	s.Start()

	status := s.OnFrame(pose.PushupUpFrame(100))
	if status.Message != p.ExtendedMessage {
		t.Errorf("message = %q, want %q", status.Message, p.ExtendedMessage)
	}

	status = s.OnFrame(pose.PushupDownFrame(200))
	if status.Message != p.ContractedMessage {
		t.Errorf("message = %q, want %q", status.Message, p.ContractedMessage)
	}

	status = s.OnFrame(pose.PushupSaggingFrame(300))
	if status.Message != p.Constraints[0].Message {
		t.Errorf("message = %q, want first violation %q", status.Message, p.Constraints[0].Message)
	}
}

func TestSession_StartResetsCounter(t *testing.T) {
	s := newPushupSession(t)
	s.Start()

	for i := 0; i < 3; i++ {
		s.OnFrame(pose.PushupDownFrame(int64(i * 100)))
		s.OnFrame(pose.PushupUpFrame(int64(i*100 + 50)))
	}
	if got := s.Status().Count; got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}

	s.Start()
	if got := s.Status(); got.Count != 0 || got.Phase != PhaseExtended {
		t.Errorf("restart did not reset: %+v", got)
	}
}

func TestSession_ResetIndependentOfHistory(t *testing.T) {
	s := newPushupSession(t)
	s.Start()

	s.OnFrame(pose.PushupDownFrame(100)) // mid-cycle
	s.Reset()

	status := s.Status()
	if status.Count != 0 || status.Phase != PhaseExtended {
		t.Errorf("reset state = %+v, want count 0 and extended phase", status)
	}
}
