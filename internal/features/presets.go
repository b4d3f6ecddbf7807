package features

// HighPlankJoints are the twelve limb and trunk joints tracked for the
// high plank exercise.
var HighPlankJoints = []string{
	"LEFT_WRIST", "RIGHT_WRIST",
	"LEFT_ELBOW", "RIGHT_ELBOW",
	"LEFT_SHOULDER", "RIGHT_SHOULDER",
	"LEFT_HIP", "RIGHT_HIP",
	"LEFT_KNEE", "RIGHT_KNEE",
	"LEFT_ANKLE", "RIGHT_ANKLE",
}

// HighPlankAngles is the full-body triplet list the high plank statistical
// models are trained on.
var HighPlankAngles = [][3]string{
	{"LEFT_WRIST", "LEFT_ELBOW", "LEFT_SHOULDER"},
	{"RIGHT_WRIST", "RIGHT_ELBOW", "RIGHT_SHOULDER"},
	{"LEFT_WRIST", "LEFT_ELBOW", "RIGHT_ELBOW"},
	{"RIGHT_WRIST", "RIGHT_ELBOW", "LEFT_ELBOW"},
	{"LEFT_WRIST", "LEFT_SHOULDER", "RIGHT_SHOULDER"},
	{"RIGHT_WRIST", "RIGHT_SHOULDER", "LEFT_SHOULDER"},
	{"LEFT_ELBOW", "LEFT_SHOULDER", "RIGHT_SHOULDER"},
	{"RIGHT_ELBOW", "RIGHT_SHOULDER", "LEFT_SHOULDER"},

	{"LEFT_WRIST", "LEFT_SHOULDER", "LEFT_HIP"},
	{"RIGHT_WRIST", "RIGHT_SHOULDER", "RIGHT_HIP"},

	{"LEFT_SHOULDER", "LEFT_HIP", "LEFT_KNEE"},
	{"RIGHT_SHOULDER", "RIGHT_HIP", "RIGHT_KNEE"},
	{"LEFT_HIP", "LEFT_KNEE", "LEFT_ANKLE"},
	{"RIGHT_HIP", "RIGHT_KNEE", "RIGHT_ANKLE"},
	{"LEFT_ANKLE", "LEFT_HIP", "RIGHT_HIP"},
	{"RIGHT_ANKLE", "RIGHT_HIP", "LEFT_HIP"},
	{"LEFT_ANKLE", "LEFT_KNEE", "RIGHT_KNEE"},
	{"RIGHT_ANKLE", "RIGHT_KNEE", "LEFT_KNEE"},

	{"LEFT_FOOT_INDEX", "LEFT_WRIST", "LEFT_ELBOW"},
	{"RIGHT_FOOT_INDEX", "RIGHT_WRIST", "RIGHT_ELBOW"},
	{"LEFT_FOOT_INDEX", "LEFT_WRIST", "LEFT_SHOULDER"},
	{"RIGHT_FOOT_INDEX", "RIGHT_WRIST", "RIGHT_SHOULDER"},
	{"LEFT_FOOT_INDEX", "LEFT_WRIST", "RIGHT_WRIST"},
	{"RIGHT_FOOT_INDEX", "RIGHT_WRIST", "LEFT_WRIST"},
}

// HighPlankPointsSpec projects the tracked joints into a body frame rooted
// between the feet, with x pointing at the wrists and y towards the
// shoulders, scaled by the shoulder-to-ankle length.
func HighPlankPointsSpec() Spec {
	return Spec{
		Points: HighPlankJoints,
		Axes: &AxesSpec{
			Origin: []string{"LEFT_FOOT_INDEX", "RIGHT_FOOT_INDEX"},
			X:      []string{"LEFT_WRIST", "RIGHT_WRIST"},
			Y:      []string{"LEFT_SHOULDER", "RIGHT_SHOULDER"},
		},
		Scale: &ScaleSpec{
			From: []string{"LEFT_SHOULDER", "RIGHT_SHOULDER"},
			To:   []string{"LEFT_ANKLE", "RIGHT_ANKLE"},
		},
	}
}
