// Package pose provides body pose detection interfaces and types for exercise analysis.
package pose

// Joint identifies a tracked body landmark.
type Joint int

// Body joint indices following the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           Joint = 0
	LeftEyeInner   Joint = 1
	LeftEye        Joint = 2
	LeftEyeOuter   Joint = 3
	RightEyeInner  Joint = 4
	RightEye       Joint = 5
	RightEyeOuter  Joint = 6
	LeftEar        Joint = 7
	RightEar       Joint = 8
	MouthLeft      Joint = 9
	MouthRight     Joint = 10
	LeftShoulder   Joint = 11
	RightShoulder  Joint = 12
	LeftElbow      Joint = 13
	RightElbow     Joint = 14
	LeftWrist      Joint = 15
	RightWrist     Joint = 16
	LeftPinky      Joint = 17
	RightPinky     Joint = 18
	LeftIndex      Joint = 19
	RightIndex     Joint = 20
	LeftThumb      Joint = 21
	RightThumb     Joint = 22
	LeftHip        Joint = 23
	RightHip       Joint = 24
	LeftKnee       Joint = 25
	RightKnee      Joint = 26
	LeftAnkle      Joint = 27
	RightAnkle     Joint = 28
	LeftHeel       Joint = 29
	RightHeel      Joint = 30
	LeftFootIndex  Joint = 31
	RightFootIndex Joint = 32
	NumJoints            = 33
)

var jointNames = map[Joint]string{
	Nose:           "nose",
	LeftEyeInner:   "left_eye_inner",
	LeftEye:        "left_eye",
	LeftEyeOuter:   "left_eye_outer",
	RightEyeInner:  "right_eye_inner",
	RightEye:       "right_eye",
	RightEyeOuter:  "right_eye_outer",
	LeftEar:        "left_ear",
	RightEar:       "right_ear",
	MouthLeft:      "mouth_left",
	MouthRight:     "mouth_right",
	LeftShoulder:   "left_shoulder",
	RightShoulder:  "right_shoulder",
	LeftElbow:      "left_elbow",
	RightElbow:     "right_elbow",
	LeftWrist:      "left_wrist",
	RightWrist:     "right_wrist",
	LeftPinky:      "left_pinky",
	RightPinky:     "right_pinky",
	LeftIndex:      "left_index",
	RightIndex:     "right_index",
	LeftThumb:      "left_thumb",
	RightThumb:     "right_thumb",
	LeftHip:        "left_hip",
	RightHip:       "right_hip",
	LeftKnee:       "left_knee",
	RightKnee:      "right_knee",
	LeftAnkle:      "left_ankle",
	RightAnkle:     "right_ankle",
	LeftHeel:       "left_heel",
	RightHeel:      "right_heel",
	LeftFootIndex:  "left_foot_index",
	RightFootIndex: "right_foot_index",
}

// String returns the lowercase snake_case name of the joint,
// or "unknown" for values outside the defined set.
func (j Joint) String() string {
	if name, ok := jointNames[j]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether j is one of the defined joints.
func (j Joint) Valid() bool {
	return j >= Nose && j < NumJoints
}

// mirrorPairs maps each left-side joint to its right-side counterpart.
var mirrorPairs = map[Joint]Joint{
	LeftEyeInner:  RightEyeInner,
	LeftEye:       RightEye,
	LeftEyeOuter:  RightEyeOuter,
	LeftEar:       RightEar,
	MouthLeft:     MouthRight,
	LeftShoulder:  RightShoulder,
	LeftElbow:     RightElbow,
	LeftWrist:     RightWrist,
	LeftPinky:     RightPinky,
	LeftIndex:     RightIndex,
	LeftThumb:     RightThumb,
	LeftHip:       RightHip,
	LeftKnee:      RightKnee,
	LeftAnkle:     RightAnkle,
	LeftHeel:      RightHeel,
	LeftFootIndex: RightFootIndex,
}

// Mirror returns the opposite-side counterpart of a bilateral joint.
// Midline joints (nose) mirror to themselves.
func Mirror(j Joint) Joint {
	if right, ok := mirrorPairs[j]; ok {
		return right
	}
	for left, right := range mirrorPairs {
		if right == j {
			return left
		}
	}
	return j
}
