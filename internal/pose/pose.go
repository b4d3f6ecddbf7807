// Package pose holds one frame of body landmarks as delivered by the
// external landmark detector.
package pose

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/abhisek/formcheck/internal/geom"
)

// Pose is one frame's full set of joint coordinates, indexed by Joint.
type Pose [NumJoints]geom.Point3

// At returns the coordinates of joint j.
func (p *Pose) At(j Joint) geom.Point3 {
	return p[j]
}

// Midpoint returns the centroid of the given joints. For two joints this
// is their midpoint; for one it is the joint itself.
func (p *Pose) Midpoint(joints ...Joint) geom.Point3 {
	if len(joints) == 0 {
		return geom.Point3{}
	}
	var sum geom.Point3
	for _, j := range joints {
		sum = sum.Add(p[j])
	}
	return sum.Scale(1 / float64(len(joints)))
}

// landmark accepts both the detector's object form {"x":..,"y":..,"z":..}
// and the compact [x, y, z] tuple form.
type landmark geom.Point3

func (l *landmark) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var tuple []float64
		if err := json.Unmarshal(data, &tuple); err != nil {
			return err
		}
		if len(tuple) != 3 {
			return fmt.Errorf("landmark tuple has %d coordinates, want 3", len(tuple))
		}
		*l = landmark{X: tuple[0], Y: tuple[1], Z: tuple[2]}
		return nil
	}
	var obj struct {
		X, Y, Z float64
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*l = landmark{X: obj.X, Y: obj.Y, Z: obj.Z}
	return nil
}

// Decode parses a JSON landmark list. A JSON null or an empty list means
// the detector found no body in the frame and yields (nil, nil).
func Decode(data []byte) (*Pose, error) {
	var raw []landmark
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode landmarks: %w", err)
	}
	return fromLandmarks(raw)
}

// FromPoints builds a Pose from exactly NumJoints points. An empty slice
// means no pose.
func FromPoints(points []geom.Point3) (*Pose, error) {
	if len(points) == 0 {
		return nil, nil
	}
	if len(points) != NumJoints {
		return nil, fmt.Errorf("pose has %d landmarks, want %d", len(points), NumJoints)
	}
	var p Pose
	for i, pt := range points {
		if !pt.IsFinite() {
			return nil, fmt.Errorf("landmark %s has non-finite coordinates", Joint(i))
		}
		p[i] = pt
	}
	return &p, nil
}

func fromLandmarks(raw []landmark) (*Pose, error) {
	points := make([]geom.Point3, len(raw))
	for i, l := range raw {
		points[i] = geom.Point3(l)
	}
	return FromPoints(points)
}

// MarshalJSON writes the pose as a list of [x, y, z] tuples.
func (p *Pose) MarshalJSON() ([]byte, error) {
	out := make([][3]float64, NumJoints)
	for i, pt := range p {
		out[i] = [3]float64{pt.X, pt.Y, pt.Z}
	}
	return json.Marshal(out)
}

// Frame is one detector sample as carried by replay files and the pose
// stream. A nil Landmarks means no body was detected.
type Frame struct {
	Session   string `json:"session,omitempty"`
	Device    string `json:"device,omitempty"`
	Seq       int64  `json:"seq"`
	Landmarks *Pose  `json:"landmarks"`
}

// UnmarshalJSON decodes the landmark list through Decode so both
// coordinate forms and the null/empty "no pose" encodings are accepted.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var raw struct {
		Session   string          `json:"session"`
		Device    string          `json:"device"`
		Seq       int64           `json:"seq"`
		Landmarks json.RawMessage `json:"landmarks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Session, f.Device, f.Seq = raw.Session, raw.Device, raw.Seq
	f.Landmarks = nil
	if len(raw.Landmarks) == 0 {
		return nil
	}
	p, err := Decode(raw.Landmarks)
	if err != nil {
		return err
	}
	f.Landmarks = p
	return nil
}

// DecodeFrame parses either a frame object or a bare landmark list, the
// two forms detectors publish.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		if err := json.Unmarshal(data, &f); err != nil {
			return Frame{}, fmt.Errorf("decode frame: %w", err)
		}
		return f, nil
	}
	p, err := Decode(data)
	if err != nil {
		return Frame{}, err
	}
	f.Landmarks = p
	return f, nil
}
