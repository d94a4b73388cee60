package pose

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	frames []*Frame
	next   int
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrame sets a single frame that will be returned by every Detect call.
func (m *MockDetector) SetFrame(frame *Frame) {
	m.frames = []*Frame{frame}
	m.next = 0
}

// SetFrames sets a sequence of frames returned by successive Detect calls.
// The last frame repeats once the sequence is exhausted.
func (m *MockDetector) SetFrames(frames []*Frame) {
	m.frames = frames
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured frame or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.frames) == 0 {
		return nil, nil
	}
	f := m.frames[m.next]
	if m.next < len(m.frames)-1 {
		m.next++
	}
	return f, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// sideViewFrame builds a frame from left-side joint positions, placing each
// right-side counterpart at the same position. In a side view both sides of
// the body overlap, so this matches what the detector reports.
func sideViewFrame(timestamp int64, points map[Joint]Point) *Frame {
	samples := make(map[Joint]LandmarkSample, len(points)*2)
	for j, p := range points {
		samples[j] = LandmarkSample{Position: p, Confidence: 0.95}
		if mirrored := Mirror(j); mirrored != j {
			samples[mirrored] = LandmarkSample{Position: p, Confidence: 0.95}
		}
	}
	return NewFrame(timestamp, samples)
}

// PushupUpFrame returns a preset frame for the top of a push-up:
// arms straight, body in a straight plank line, hips elevated.
func PushupUpFrame(timestamp int64) *Frame {
	return sideViewFrame(timestamp, map[Joint]Point{
		Nose:         {X: 0.68, Y: 0.36},
		LeftShoulder: {X: 0.60, Y: 0.40},
		LeftElbow:    {X: 0.60, Y: 0.55},
		LeftWrist:    {X: 0.60, Y: 0.70},
		LeftHip:      {X: 0.40, Y: 0.45},
		LeftKnee:     {X: 0.28, Y: 0.50},
		LeftAnkle:    {X: 0.15, Y: 0.60},
	})
}

// PushupDownFrame returns a preset frame for the bottom of a push-up:
// elbows bent well past ninety degrees, body line still straight.
func PushupDownFrame(timestamp int64) *Frame {
	return sideViewFrame(timestamp, map[Joint]Point{
		Nose:         {X: 0.68, Y: 0.50},
		LeftShoulder: {X: 0.60, Y: 0.52},
		LeftElbow:    {X: 0.70, Y: 0.55},
		LeftWrist:    {X: 0.60, Y: 0.66},
		LeftHip:      {X: 0.40, Y: 0.55},
		LeftKnee:     {X: 0.28, Y: 0.58},
		LeftAnkle:    {X: 0.15, Y: 0.66},
	})
}

// PushupSaggingFrame returns a preset frame with dropped hips: the
// shoulder-hip-knee line is badly bent while the arms are straight.
func PushupSaggingFrame(timestamp int64) *Frame {
	return sideViewFrame(timestamp, map[Joint]Point{
		Nose:         {X: 0.68, Y: 0.36},
		LeftShoulder: {X: 0.60, Y: 0.40},
		LeftElbow:    {X: 0.60, Y: 0.55},
		LeftWrist:    {X: 0.60, Y: 0.70},
		LeftHip:      {X: 0.40, Y: 0.58},
		LeftKnee:     {X: 0.28, Y: 0.50},
		LeftAnkle:    {X: 0.15, Y: 0.60},
	})
}

// SitupDownFrame returns a preset frame for the lying phase of a sit-up:
// torso near horizontal, knees bent, head in line with the torso.
func SitupDownFrame(timestamp int64) *Frame {
	return sideViewFrame(timestamp, map[Joint]Point{
		Nose:         {X: 0.83, Y: 0.59},
		LeftEar:      {X: 0.80, Y: 0.60},
		LeftShoulder: {X: 0.75, Y: 0.62},
		LeftHip:      {X: 0.50, Y: 0.65},
		LeftKnee:     {X: 0.38, Y: 0.50},
		LeftAnkle:    {X: 0.30, Y: 0.65},
	})
}

// SitupUpFrame returns a preset frame for the sat-up phase: torso past
// vertical toward the knees, legs unchanged.
func SitupUpFrame(timestamp int64) *Frame {
	return sideViewFrame(timestamp, map[Joint]Point{
		Nose:         {X: 0.44, Y: 0.31},
		LeftEar:      {X: 0.46, Y: 0.33},
		LeftShoulder: {X: 0.47, Y: 0.38},
		LeftHip:      {X: 0.50, Y: 0.65},
		LeftKnee:     {X: 0.38, Y: 0.50},
		LeftAnkle:    {X: 0.30, Y: 0.65},
	})
}

// SitupLegsStraightFrame returns a preset lying frame with the legs flat on
// the ground instead of bent.
func SitupLegsStraightFrame(timestamp int64) *Frame {
	return sideViewFrame(timestamp, map[Joint]Point{
		Nose:         {X: 0.83, Y: 0.59},
		LeftEar:      {X: 0.80, Y: 0.60},
		LeftShoulder: {X: 0.75, Y: 0.62},
		LeftHip:      {X: 0.50, Y: 0.65},
		LeftKnee:     {X: 0.38, Y: 0.66},
		LeftAnkle:    {X: 0.26, Y: 0.67},
	})
}
