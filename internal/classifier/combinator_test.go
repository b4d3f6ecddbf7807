package classifier

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
	"github.com/abhisek/formcheck/internal/verdict"
)

func mockOf(name, label string) *MockClassifier {
	return NewMockClassifier(name, MockResponse{Label: label})
}

func loadAllOrFail(t *testing.T, cs ...Classifier) {
	t.Helper()
	for _, c := range cs {
		require.NoError(t, c.Load(context.Background()))
	}
}

func TestEnsemble_MajorityVote(t *testing.T) {
	tests := []struct {
		name       string
		labels     []string
		want       string
		confidence float64
	}{
		{"two of three correct", []string{"correct", "correct", "incorrect"}, "correct", 2.0 / 3.0},
		{"even split is incorrect", []string{"correct", "incorrect"}, "incorrect", 0.5},
		{"unanimous incorrect", []string{"incorrect", "incorrect", "incorrect"}, "incorrect", 1},
		{"unknown label votes incorrect", []string{"correct", "wobbly", "correct"}, "correct", 2.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var members []Classifier
			for i, l := range tt.labels {
				members = append(members, mockOf(string(rune('a'+i)), l))
			}
			e, err := NewEnsemble("ensemble", members...)
			require.NoError(t, err)
			require.NoError(t, e.Load(context.Background()))

			res, err := e.Predict(plankPose(0.2, 0))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Label)
			assert.InDelta(t, tt.confidence, res.Confidence, 1e-12)
			assert.Equal(t, "ensemble", res.Model)
			assert.Len(t, res.Members, len(tt.labels))
			for _, m := range members {
				assert.Equal(t, 1, m.(*MockClassifier).CallCount())
			}
		})
	}
}

func TestEnsemble_NotLoaded(t *testing.T) {
	e, err := NewEnsemble("ensemble", mockOf("a", "correct"))
	require.NoError(t, err)

	_, err = e.Predict(plankPose(0.2, 0))
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestEnsemble_MemberErrorPropagates(t *testing.T) {
	boom := errors.New("backend crashed")
	a := mockOf("a", "correct")
	b := NewMockClassifier("b", MockResponse{Err: boom})
	e, err := NewEnsemble("ensemble", a, b)
	require.NoError(t, err)
	require.NoError(t, e.Load(context.Background()))

	_, err = e.Predict(plankPose(0.2, 0))
	assert.ErrorIs(t, err, boom)
}

func TestEnsemble_LoadJoinsErrors(t *testing.T) {
	a := mockOf("a", "correct")
	b := mockOf("b", "correct")
	c := mockOf("c", "correct")
	b.LoadErr = errors.New("b failed")
	c.LoadErr = errors.New("c failed")

	e, err := NewEnsemble("ensemble", a, b, c)
	require.NoError(t, err)

	err = e.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, b.LoadErr)
	assert.ErrorIs(t, err, c.LoadErr)
	assert.True(t, a.Loaded())
	assert.False(t, e.Loaded())
}

func TestEnsemble_NoMembers(t *testing.T) {
	_, err := NewEnsemble("empty")
	assert.Error(t, err)
}

func TestHybrid(t *testing.T) {
	const ruleText = "Keep your knees aligned with your hips and shoulders"

	tests := []struct {
		name          string
		primary       string
		fallback      string
		wantLabel     string
		wantModel     string
		wantText      string
		fallbackCalls int
	}{
		{"primary correct", "correct", "incorrect", "correct", "random-forest", verdict.TextCorrect, 0},
		{"fallback recovers", "incorrect", "correct", "correct", "empirical", verdict.TextCorrect, 1},
		{"both incorrect keeps primary text", "incorrect", "incorrect", "incorrect", "random-forest", verdict.TextIncorrect, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := mockOf("random-forest", tt.primary)
			resp := MockResponse{Label: tt.fallback}
			if tt.fallback == verdict.LabelIncorrect {
				resp.Message = ruleText
			}
			fallback := NewMockClassifier("empirical", resp)
			h, err := NewHybrid("hybrid", primary, fallback)
			require.NoError(t, err)
			require.NoError(t, h.Load(context.Background()))

			res, err := h.Predict(plankPose(0.2, 0))
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, res.Label)
			assert.Equal(t, tt.wantModel, res.Model)
			assert.Equal(t, tt.wantText, res.Presentation.Text)
			assert.Equal(t, tt.fallbackCalls, fallback.CallCount())
			assert.Equal(t, 1, primary.CallCount())
		})
	}
}

func TestHybrid_WithRuleEngine(t *testing.T) {
	h, err := NewHybrid("hybrid", mockOf("random-forest", "incorrect"), NewEmpiricalModel("empirical", HighPlankChecks))
	require.NoError(t, err)
	require.NoError(t, h.Load(context.Background()))

	res, err := h.Predict(plankPose(0.2, 0))
	require.NoError(t, err)
	assert.True(t, res.Correct())
	assert.Equal(t, "empirical", res.Model)

	res, err = h.Predict(plankPose(0.2, 0.3))
	require.NoError(t, err)
	assert.False(t, res.Correct())
	assert.Equal(t, verdict.TextIncorrect, res.Presentation.Text)
	require.Len(t, res.Members, 2)
	assert.Equal(t, "shoulder_hip_knee", res.Members[1].Check)
}

func TestCombinators_ShareMemberInstance(t *testing.T) {
	var loads atomic.Int32
	e, err := NewEmpirical(HighPlankChecks)
	require.NoError(t, err)
	shared := NewModelFunc("empirical", descriptor.KindEmpirical, func(context.Context) (Engine, features.Spec, error) {
		loads.Add(1)
		return e, e.FeatureSpec(), nil
	})

	ens, err := NewEnsemble("ensemble", shared, mockOf("knn", "correct"), mockOf("svm", "correct"))
	require.NoError(t, err)
	hyb, err := NewHybrid("hybrid", mockOf("random-forest", "incorrect"), shared)
	require.NoError(t, err)

	loadAllOrFail(t, ens, hyb)
	assert.Equal(t, int32(1), loads.Load())
	assert.True(t, ens.Loaded())
	assert.True(t, hyb.Loaded())
}
