package pose

// Point represents a 2D landmark position in image space.
// Positions may be pixel coordinates or normalized to [0,1]; all downstream
// angle computation is scale-invariant, so either works.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkSample is one observed joint position with its detection confidence.
type LandmarkSample struct {
	Position   Point   `json:"position"`
	Confidence float64 `json:"confidence"` // 0.0-1.0
}

// Frame is one time-stamped snapshot of the visible joints.
// The sample map is partial: a joint the detector did not see is absent.
// A Frame is immutable once built and is discarded after processing.
type Frame struct {
	Timestamp int64                    `json:"timestamp"` // milliseconds since epoch
	Samples   map[Joint]LandmarkSample `json:"samples"`
}

// NewFrame creates a Frame with the given timestamp and samples.
// The samples map is used as-is; callers must not mutate it afterwards.
func NewFrame(timestamp int64, samples map[Joint]LandmarkSample) *Frame {
	if samples == nil {
		samples = make(map[Joint]LandmarkSample)
	}
	return &Frame{
		Timestamp: timestamp,
		Samples:   samples,
	}
}

// Sample returns the sample for the given joint and whether it is present.
func (f *Frame) Sample(j Joint) (LandmarkSample, bool) {
	s, ok := f.Samples[j]
	return s, ok
}

// Visible reports whether the joint is present with confidence at or above floor.
func (f *Frame) Visible(j Joint, floor float64) bool {
	s, ok := f.Samples[j]
	return ok && s.Confidence >= floor
}

// Position returns the joint position, and false if the joint is absent
// or its confidence is below floor.
func (f *Frame) Position(j Joint, floor float64) (Point, bool) {
	s, ok := f.Samples[j]
	if !ok || s.Confidence < floor {
		return Point{}, false
	}
	return s.Position, true
}
