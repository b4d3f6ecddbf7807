package pose

import "fmt"

// Joint indexes a landmark in a Pose. The numbering follows the 33-point
// body model produced by the landmark detector and never changes.
type Joint int

const (
	Nose Joint = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

// NumJoints is the fixed number of landmarks in a Pose.
const NumJoints = 33

var jointNames = [NumJoints]string{
	"NOSE",
	"LEFT_EYE_INNER",
	"LEFT_EYE",
	"LEFT_EYE_OUTER",
	"RIGHT_EYE_INNER",
	"RIGHT_EYE",
	"RIGHT_EYE_OUTER",
	"LEFT_EAR",
	"RIGHT_EAR",
	"MOUTH_LEFT",
	"MOUTH_RIGHT",
	"LEFT_SHOULDER",
	"RIGHT_SHOULDER",
	"LEFT_ELBOW",
	"RIGHT_ELBOW",
	"LEFT_WRIST",
	"RIGHT_WRIST",
	"LEFT_PINKY",
	"RIGHT_PINKY",
	"LEFT_INDEX",
	"RIGHT_INDEX",
	"LEFT_THUMB",
	"RIGHT_THUMB",
	"LEFT_HIP",
	"RIGHT_HIP",
	"LEFT_KNEE",
	"RIGHT_KNEE",
	"LEFT_ANKLE",
	"RIGHT_ANKLE",
	"LEFT_HEEL",
	"RIGHT_HEEL",
	"LEFT_FOOT_INDEX",
	"RIGHT_FOOT_INDEX",
}

var jointsByName = func() map[string]Joint {
	m := make(map[string]Joint, NumJoints)
	for i, name := range jointNames {
		m[name] = Joint(i)
	}
	return m
}()

// String returns the detector's upper-snake-case landmark name.
func (j Joint) String() string {
	if !j.Valid() {
		return fmt.Sprintf("Joint(%d)", int(j))
	}
	return jointNames[j]
}

// Valid reports whether j is one of the 33 known landmarks.
func (j Joint) Valid() bool {
	return j >= 0 && int(j) < NumJoints
}

// ParseJoint resolves a landmark name such as "LEFT_SHOULDER".
func ParseJoint(name string) (Joint, error) {
	j, ok := jointsByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown joint %q", name)
	}
	return j, nil
}

// ParseJoints resolves a list of landmark names, preserving order.
func ParseJoints(names []string) ([]Joint, error) {
	out := make([]Joint, len(names))
	for i, n := range names {
		j, err := ParseJoint(n)
		if err != nil {
			return nil, err
		}
		out[i] = j
	}
	return out, nil
}
