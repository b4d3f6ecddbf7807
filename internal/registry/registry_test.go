package registry

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
	"github.com/abhisek/formcheck/internal/geom"
	"github.com/abhisek/formcheck/internal/pose"
)

// All test descriptors read one feature: the left elbow angle in degrees.
const elbowFeatures = `{"angles": [["LEFT_WRIST", "LEFT_ELBOW", "LEFT_SHOULDER"]], "degrees": true, "normalize": false}`

func testModels() fstest.MapFS {
	file := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	return fstest.MapFS{
		"high_plank/knn.json": file(`{"params": {"n_neighbors": 1}, "features": ` + elbowFeatures + `,
			"classes": ["correct", "incorrect"], "model_data": {"X": [[0], [60]], "y": [0, 1]}}`),
		"high_plank/random_forest.json": file(`{"features": ` + elbowFeatures + `,
			"classes": ["correct", "incorrect"], "model_data": {"forest": [{
				"children_left": [1, -1, -1], "children_right": [2, -1, -1],
				"feature": [0, -2, -2], "threshold": [30, -2, -2],
				"value": [[1, 1], [4, 0], [0, 4]]}]}}`),
		"high_plank/logistic_regression.json": file(`{"features": ` + elbowFeatures + `,
			"classes": ["correct", "incorrect"], "model_data": {"coef": [[0.2]], "intercept": [-6]}}`),
		"high_plank/svm.json": file(`{"features": ` + elbowFeatures + `,
			"classes": ["correct", "incorrect"], "model_data": {"kernel": "linear",
				"support_vectors": [[1]], "dual_coef": [[1]], "intercept": [-30], "n_support": [1, 0]}}`),
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(DefaultCatalog(), descriptor.FSSource{FS: testModels()})
	require.NoError(t, err)
	return r
}

func straightPlank() *pose.Pose {
	var p pose.Pose
	set := func(l, r pose.Joint, pt geom.Point3) {
		p[l] = pt.Add(geom.P(0, 0, 0.2))
		p[r] = pt.Add(geom.P(0, 0, -0.2))
	}
	set(pose.LeftWrist, pose.RightWrist, geom.P(0, 0, 0))
	set(pose.LeftElbow, pose.RightElbow, geom.P(0, 0.25, 0))
	set(pose.LeftShoulder, pose.RightShoulder, geom.P(0, 0.5, 0))
	set(pose.LeftHip, pose.RightHip, geom.P(0.6, 0.5, 0))
	set(pose.LeftKnee, pose.RightKnee, geom.P(1.1, 0.5, 0))
	set(pose.LeftAnkle, pose.RightAnkle, geom.P(1.6, 0.5, 0))
	set(pose.LeftFootIndex, pose.RightFootIndex, geom.P(1.7, 0.45, 0))
	return &p
}

func TestDefaultCatalogIsValid(t *testing.T) {
	require.NoError(t, DefaultCatalog().Validate())
	require.NoError(t, NeuralCatalog().Validate())
}

func TestCatalogEnsemblesHaveOddMembers(t *testing.T) {
	for name, c := range map[string]Catalog{"default": DefaultCatalog(), "neural": NeuralCatalog()} {
		t.Run(name, func(t *testing.T) {
			e, ok := c.Entry(HighPlank, "ensemble")
			require.True(t, ok)
			assert.Equal(t, 1, len(e.Members)%2, "members %v", e.Members)
		})
	}

	e, _ := NeuralCatalog().Entry(HighPlank, "ensemble")
	assert.Equal(t, []string{"fcnn", "knn", "random-forest", "logistic-regression", "svm"}, e.Members)
}

// fixedScorer always returns scores, whatever the input.
func fixedScorer(scores ...float64) ScorerLoaderFunc {
	return func(context.Context, string) (classifier.Scorer, error) {
		return classifier.ScorerFunc(func([]float64) ([]float64, error) { return scores, nil }), nil
	}
}

func TestRegistry_NeuralEntry(t *testing.T) {
	var gotPath string
	load := func(ctx context.Context, path string) (classifier.Scorer, error) {
		gotPath = path
		return fixedScorer(0.9, 0.1)(ctx, path)
	}
	r, err := New(NeuralCatalog(), descriptor.FSSource{FS: testModels()}, WithScorerLoader(load))
	require.NoError(t, err)

	c, err := r.Load(context.Background(), HighPlank, "fcnn")
	require.NoError(t, err)
	assert.Equal(t, "high_plank/fcnn.json", gotPath)

	res, err := c.Predict(straightPlank())
	require.NoError(t, err)
	assert.Equal(t, "correct", res.Label)
	assert.InDelta(t, 0.9, res.Confidence, 1e-9)
}

func TestRegistry_EnsembleThreeToTwo(t *testing.T) {
	models := testModels()
	models["high_plank/logistic_regression.json"] = &fstest.MapFile{Data: []byte(`{"features": ` + elbowFeatures + `,
		"classes": ["correct", "incorrect"], "model_data": {"coef": [[0]], "intercept": [6]}}`)}

	tests := []struct {
		name       string
		fcnn       []float64
		label      string
		confidence float64
	}{
		// knn, forest and svm say correct; logistic regression says incorrect.
		{"network sides with the minority", []float64{0.2, 0.8}, "correct", 0.6},
		{"network sides with the majority", []float64{0.7, 0.3}, "correct", 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(NeuralCatalog(), descriptor.FSSource{FS: models}, WithScorerLoader(fixedScorer(tt.fcnn...)))
			require.NoError(t, err)

			c, err := r.Load(context.Background(), HighPlank, "ensemble")
			require.NoError(t, err)
			res, err := c.Predict(straightPlank())
			require.NoError(t, err)

			assert.Equal(t, tt.label, res.Label)
			assert.InDelta(t, tt.confidence, res.Confidence, 1e-9)
			require.Len(t, res.Members, 5)
			assert.Equal(t, "fcnn", res.Members[0].Model)
		})
	}
}

func TestRegistry_NeuralNeedsScorerLoader(t *testing.T) {
	_, err := New(NeuralCatalog(), descriptor.FSSource{FS: testModels()})
	assert.ErrorIs(t, err, ErrNoScorerLoader)

	failing := func(context.Context, string) (classifier.Scorer, error) {
		return nil, errors.New("weights missing")
	}
	r, err := New(NeuralCatalog(), descriptor.FSSource{FS: testModels()}, WithScorerLoader(failing))
	require.NoError(t, err)
	_, err = r.Load(context.Background(), HighPlank, "ensemble")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights missing")
}

// widthScorer reports the input width it was trained on.
type widthScorer struct{ width int }

func (s widthScorer) InputWidth() int { return s.width }

func (s widthScorer) Scores([]float64) ([]float64, error) { return []float64{1, 0}, nil }

func TestRegistry_NeuralWidthChecked(t *testing.T) {
	width := len(features.HighPlankJoints) * 3
	tests := []struct {
		name    string
		width   int
		wantErr bool
	}{
		{"matching width", width, false},
		{"network trained on another width", width - 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			load := func(context.Context, string) (classifier.Scorer, error) { return widthScorer{tt.width}, nil }
			r, err := New(NeuralCatalog(), descriptor.FSSource{FS: testModels()}, WithScorerLoader(load))
			require.NoError(t, err)

			_, err = r.Load(context.Background(), HighPlank, "fcnn")
			if tt.wantErr {
				assert.True(t, classifier.IsConfigError(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRegistry_ExercisesAndNames(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []string{HighPlank}, r.Exercises())

	names, err := r.Names(HighPlank)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"empirical", "ensemble", "hybrid", "knn", "logistic-regression", "random-forest", "svm",
	}, names)

	_, err = r.Names("squat")
	assert.ErrorIs(t, err, ErrUnknownExercise)
}

func TestRegistry_UnknownModel(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Get(HighPlank, "transformer")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestRegistry_SingleInstancePerName(t *testing.T) {
	r := newTestRegistry(t)

	a, err := r.Get(HighPlank, "knn")
	require.NoError(t, err)
	b, err := r.Get(HighPlank, "knn")
	require.NoError(t, err)
	assert.Same(t, a, b)

	ens, err := r.Get(HighPlank, "ensemble")
	require.NoError(t, err)
	members := ens.(*classifier.Ensemble).Members()
	require.Len(t, members, 3)
	assert.Same(t, a, members[0])
	assert.False(t, a.Loaded())
}

func TestRegistry_LoadSharesMembers(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	hybrid, err := r.Load(ctx, HighPlank, "hybrid")
	require.NoError(t, err)
	assert.True(t, hybrid.Loaded())

	forest, err := r.Get(HighPlank, "random-forest")
	require.NoError(t, err)
	assert.True(t, forest.Loaded(), "hybrid load must load the shared member")

	knn, err := r.Get(HighPlank, "knn")
	require.NoError(t, err)
	assert.False(t, knn.Loaded())
}

func TestRegistry_EveryModelPredicts(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	names, err := r.Names(HighPlank)
	require.NoError(t, err)
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			c, err := r.Load(ctx, HighPlank, name)
			require.NoError(t, err)

			res, err := c.Predict(straightPlank())
			require.NoError(t, err)
			assert.True(t, res.Correct(), "%s said %q", name, res.Label)
		})
	}
}

func TestRegistry_MissingDescriptor(t *testing.T) {
	r, err := New(DefaultCatalog(), descriptor.FSSource{FS: fstest.MapFS{}})
	require.NoError(t, err)

	_, err = r.Load(context.Background(), HighPlank, "knn")
	require.Error(t, err)

	// The rule engine needs no descriptor.
	c, err := r.Load(context.Background(), HighPlank, "empirical")
	require.NoError(t, err)
	assert.True(t, c.Loaded())
}

func TestCatalogValidate(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    string
	}{
		{"dangling member", []Entry{
			{Name: "ens", Type: TypeEnsemble, Members: []string{"ghost"}},
		}, `nonexistent member "ghost"`},
		{"hybrid arity", []Entry{
			{Name: "empirical", Type: TypeModel, Kind: descriptor.KindEmpirical},
			{Name: "hyb", Type: TypeHybrid, Members: []string{"empirical"}},
		}, "hybrid needs 2 members"},
		{"cycle", []Entry{
			{Name: "a", Type: TypeEnsemble, Members: []string{"b"}},
			{Name: "b", Type: TypeEnsemble, Members: []string{"a"}},
		}, "member cycle"},
		{"duplicate", []Entry{
			{Name: "empirical", Type: TypeModel, Kind: descriptor.KindEmpirical},
			{Name: "empirical", Type: TypeModel, Kind: descriptor.KindEmpirical},
		}, "duplicate entry"},
		{"descriptor required", []Entry{
			{Name: "knn", Type: TypeModel, Kind: descriptor.KindKNN},
		}, "needs a descriptor"},
		{"neural without features", []Entry{
			{Name: "fcnn", Type: TypeModel, Kind: classifier.KindNeural, Descriptor: "fcnn.json"},
		}, "neural model needs features"},
		{"unknown kind", []Entry{
			{Name: "x", Type: TypeModel, Kind: "transformer", Descriptor: "x.json"},
		}, "unknown kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Catalog{"ex": tt.entries}.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
