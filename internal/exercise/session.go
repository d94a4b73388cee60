package exercise

import (
	"log"
	"sync"

	"github.com/ayusman/vyayam/internal/pose"
)

// Status is the per-frame output of a session, consumed by the presentation
// layer. It is a plain value: rendering, sound, or any other effect of a
// phase change is the caller's decision.
type Status struct {
	Exercise   Kind        `json:"exercise"`
	Phase      Phase       `json:"phase"`
	Count      uint64      `json:"count"`
	FormValid  bool        `json:"form_valid"`
	Message    string      `json:"message"`
	Angle      float64     `json:"angle"`
	AngleKnown bool        `json:"angle_known"`
	Violations []Violation `json:"violations,omitempty"`
	Timestamp  int64       `json:"timestamp"`
}

// Session composes the validator, geometry and counter for one exercise. It
// processes each frame to completion before the next and owns the only
// mutable counting state; the mutex exists because the HTTP layer reads the
// latest status while the pipeline feeds frames.
type Session struct {
	profile *Profile
	counter *Counter
	running bool
	status  Status
	mu      sync.RWMutex
}

// NewSession creates a stopped session for the given profile. The profile
// must already be validated; NewSession returns the validation error
// otherwise, so a broken configuration can never reach per-frame analysis.
func NewSession(p *Profile) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		profile: p,
		counter: NewCounter(p),
		status: Status{
			Exercise: p.Kind,
			Phase:    PhaseExtended,
		},
	}, nil
}

// Profile returns the session's exercise profile.
func (s *Session) Profile() *Profile {
	return s.profile
}

// Start resets the counter and begins accepting frames.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter.Reset()
	s.running = true
	s.status = Status{
		Exercise: s.profile.Kind,
		Phase:    s.counter.Phase(),
		Message:  s.profile.MissingMessage,
	}
}

// Stop stops accepting frames. Counting state is kept until the next Start.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Running reports whether the session is accepting frames.
func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Reset zeroes the repetition count and returns to the resting phase.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter.Reset()
	s.status = Status{
		Exercise: s.profile.Kind,
		Phase:    s.counter.Phase(),
	}
}

// Status returns the most recent session status.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// OnFrame analyzes one frame: form validation, primary angle, counter
// transition, and a human-readable status. The per-frame path is total; a
// frame with missing joints or degenerate geometry downgrades the verdict
// but never fails. Frames arriving while the session is stopped are ignored.
func (s *Session) OnFrame(f *pose.Frame) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return s.status
	}

	verdict := Validate(f, s.profile)
	angle, known := s.profile.MovementAngle(f)

	if known && angle == 0 {
		// A true 0° reading with passing confidence is almost certainly a
		// detector glitch (coincident landmarks). Log it, don't act on it.
		log.Printf("suspicious 0° %s angle at t=%d despite confident landmarks",
			s.profile.Kind, f.Timestamp)
		known = false
	}

	if known {
		s.counter.Observe(angle, verdict.IsValid)
	}

	s.status = Status{
		Exercise:   s.profile.Kind,
		Phase:      s.counter.Phase(),
		Count:      s.counter.Count(),
		FormValid:  verdict.IsValid,
		Message:    s.message(verdict),
		Angle:      s.counter.LastAngle(),
		AngleKnown: known,
		Violations: verdict.Violations,
		Timestamp:  f.Timestamp,
	}
	return s.status
}

// message derives the coaching line shown to the user: the first violation
// when form is invalid, otherwise the cue for the current phase.
func (s *Session) message(v Verdict) string {
	if !v.IsValid && len(v.Violations) > 0 {
		return v.Violations[0].Message
	}
	if s.counter.Phase() == PhaseContracted {
		return s.profile.ContractedMessage
	}
	return s.profile.ExtendedMessage
}
