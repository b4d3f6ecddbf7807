package pose

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/formcheck/internal/geom"
)

func tupleJSON(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("[%d, %d.5, -%d]", i, i, i)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestJointIndexStability(t *testing.T) {
	assert.Equal(t, Joint(0), Nose)
	assert.Equal(t, Joint(11), LeftShoulder)
	assert.Equal(t, Joint(16), RightWrist)
	assert.Equal(t, Joint(23), LeftHip)
	assert.Equal(t, Joint(32), RightFootIndex)
	assert.Equal(t, "LEFT_SHOULDER", LeftShoulder.String())
	assert.Equal(t, "Joint(40)", Joint(40).String())
}

func TestParseJoint(t *testing.T) {
	j, err := ParseJoint("RIGHT_ANKLE")
	require.NoError(t, err)
	assert.Equal(t, RightAnkle, j)

	_, err = ParseJoint("LEFT_TAIL")
	assert.Error(t, err)

	js, err := ParseJoints([]string{"LEFT_WRIST", "LEFT_ELBOW", "LEFT_SHOULDER"})
	require.NoError(t, err)
	assert.Equal(t, []Joint{LeftWrist, LeftElbow, LeftShoulder}, js)
}

func TestDecode_Tuples(t *testing.T) {
	p, err := Decode([]byte(tupleJSON(NumJoints)))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, geom.P(11, 11.5, -11), p.At(LeftShoulder))
}

func TestDecode_Objects(t *testing.T) {
	parts := make([]string, NumJoints)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"x": %d, "y": 1, "z": 2, "visibility": 0.9}`, i)
	}
	p, err := Decode([]byte("[" + strings.Join(parts, ",") + "]"))
	require.NoError(t, err)
	assert.Equal(t, geom.P(32, 1, 2), p.At(RightFootIndex))
}

func TestDecode_NoPose(t *testing.T) {
	for _, in := range []string{"null", "[]"} {
		p, err := Decode([]byte(in))
		require.NoError(t, err, in)
		assert.Nil(t, p, in)
	}
}

func TestDecode_WrongLength(t *testing.T) {
	_, err := Decode([]byte(tupleJSON(12)))
	assert.Error(t, err)

	_, err = Decode([]byte(`[[1, 2]]`))
	assert.Error(t, err)
}

func TestMidpoint(t *testing.T) {
	var p Pose
	p[LeftWrist] = geom.P(0, 0, 0)
	p[RightWrist] = geom.P(2, 4, 6)
	assert.Equal(t, geom.P(1, 2, 3), p.Midpoint(LeftWrist, RightWrist))
	assert.Equal(t, geom.P(2, 4, 6), p.Midpoint(RightWrist))
}

func TestFrame_RoundTripAndMissing(t *testing.T) {
	p, err := Decode([]byte(tupleJSON(NumJoints)))
	require.NoError(t, err)

	data, err := json.Marshal(Frame{Device: "cam-1", Seq: 7, Landmarks: p})
	require.NoError(t, err)

	var got Frame
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "cam-1", got.Device)
	assert.Equal(t, int64(7), got.Seq)
	require.NotNil(t, got.Landmarks)
	assert.Equal(t, *p, *got.Landmarks)

	require.NoError(t, json.Unmarshal([]byte(`{"seq": 8, "landmarks": null}`), &got))
	assert.Nil(t, got.Landmarks)
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantSeq   int64
		wantPose  bool
		wantError bool
	}{
		{"frame object", `{"seq":3,"landmarks":` + tupleJSON(NumJoints) + `}`, 3, true, false},
		{"bare list", tupleJSON(NumJoints), 0, true, false},
		{"leading whitespace", "\n  " + tupleJSON(NumJoints), 0, true, false},
		{"null", `null`, 0, false, false},
		{"short list", tupleJSON(3), 0, false, true},
		{"bad object", `{"seq":`, 0, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeFrame([]byte(tt.input))
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSeq, f.Seq)
			assert.Equal(t, tt.wantPose, f.Landmarks != nil)
		})
	}
}
