package registry

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
)

// EntryType says how an entry is built.
type EntryType string

const (
	TypeModel    EntryType = "model"
	TypeEnsemble EntryType = "ensemble"
	TypeHybrid   EntryType = "hybrid"
)

// Entry is one named classifier of an exercise.
type Entry struct {
	Name string
	Type EntryType

	// Kind and Descriptor describe a single model. An empirical model
	// without a descriptor uses the built-in rule set.
	Kind       descriptor.Kind
	Descriptor string

	// Features and Classes are set only for neural models, whose weights
	// file carries neither. Descriptor then names the weights.
	Features *features.Spec
	Classes  []string

	// Members are entry names of the same exercise. A hybrid has exactly
	// two: the statistical primary, then the rule-based fallback.
	Members []string
}

// Catalog maps an exercise to its ordered entries. It is static
// configuration, built once at startup.
type Catalog map[string][]Entry

// Exercise names.
const (
	HighPlank = "high_plank"
)

// DefaultCatalog returns the classifiers shipped for each exercise. The
// ensemble votes with the three statistical models that disagree least
// often; an odd member count keeps it free of ties.
func DefaultCatalog() Catalog {
	return Catalog{
		HighPlank: {
			{Name: "empirical", Type: TypeModel, Kind: descriptor.KindEmpirical},
			{Name: "knn", Type: TypeModel, Kind: descriptor.KindKNN, Descriptor: "high_plank/knn.json"},
			{Name: "random-forest", Type: TypeModel, Kind: descriptor.KindRandomForest, Descriptor: "high_plank/random_forest.json"},
			{Name: "logistic-regression", Type: TypeModel, Kind: descriptor.KindLogisticRegression, Descriptor: "high_plank/logistic_regression.json"},
			{Name: "svm", Type: TypeModel, Kind: descriptor.KindSVM, Descriptor: "high_plank/svm.json"},
			{Name: "ensemble", Type: TypeEnsemble, Members: []string{"knn", "random-forest", "svm"}},
			{Name: "hybrid", Type: TypeHybrid, Members: []string{"random-forest", "empirical"}},
		},
	}
}

// NeuralCatalog extends DefaultCatalog with the fully connected network
// over body-frame joint positions. Its ensemble votes with all five
// statistical models. The network runs on the runtime bound with
// WithScorerLoader, which receives the entry's Descriptor as the weights
// location.
func NeuralCatalog() Catalog {
	c := DefaultCatalog()
	spec := features.HighPlankPointsSpec()
	entries := make([]Entry, 0, len(c[HighPlank])+1)
	for _, e := range c[HighPlank] {
		if e.Name == "ensemble" {
			e.Members = []string{"fcnn", "knn", "random-forest", "logistic-regression", "svm"}
		}
		entries = append(entries, e)
	}
	entries = append(entries, Entry{
		Name:       "fcnn",
		Type:       TypeModel,
		Kind:       classifier.KindNeural,
		Descriptor: "high_plank/fcnn.json",
		Features:   &spec,
		Classes:    []string{"correct", "incorrect"},
	})
	c[HighPlank] = entries
	return c
}

// Entry looks up one entry of an exercise.
func (c Catalog) Entry(exercise, name string) (Entry, bool) {
	for _, e := range c[exercise] {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func (c Catalog) firstNeural() (string, bool) {
	for exercise, entries := range c {
		for _, e := range entries {
			if e.Kind == classifier.KindNeural {
				return exercise + "/" + e.Name, true
			}
		}
	}
	return "", false
}

// Validate checks every exercise for duplicate names, unknown kinds,
// dangling or malformed member lists, and member cycles. It returns a
// combined error describing all problems found, or nil if valid.
func (c Catalog) Validate() error {
	var errs []string
	for exercise, entries := range c {
		errs = append(errs, validateExercise(exercise, entries)...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateExercise(exercise string, entries []Entry) []string {
	var errs []string
	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if _, dup := byName[e.Name]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate entry %q", exercise, e.Name))
		}
		byName[e.Name] = e
	}

	for _, e := range entries {
		switch e.Type {
		case TypeModel:
			if e.Kind == classifier.KindNeural {
				if e.Features == nil || len(e.Classes) < 2 {
					errs = append(errs, fmt.Sprintf("%s/%s: neural model needs features and at least 2 classes", exercise, e.Name))
				}
			} else if !slices.Contains(descriptor.Kinds, e.Kind) {
				errs = append(errs, fmt.Sprintf("%s/%s: unknown kind %q", exercise, e.Name, e.Kind))
			}
			if e.Descriptor == "" && e.Kind != descriptor.KindEmpirical {
				errs = append(errs, fmt.Sprintf("%s/%s: %s model needs a descriptor", exercise, e.Name, e.Kind))
			}
		case TypeEnsemble:
			if len(e.Members) == 0 {
				errs = append(errs, fmt.Sprintf("%s/%s: ensemble has no members", exercise, e.Name))
			}
		case TypeHybrid:
			if len(e.Members) != 2 {
				errs = append(errs, fmt.Sprintf("%s/%s: hybrid needs 2 members, has %d", exercise, e.Name, len(e.Members)))
			}
		default:
			errs = append(errs, fmt.Sprintf("%s/%s: unknown type %q", exercise, e.Name, e.Type))
		}
		for _, m := range e.Members {
			if _, ok := byName[m]; !ok {
				errs = append(errs, fmt.Sprintf("%s/%s: references nonexistent member %q", exercise, e.Name, m))
			}
		}
	}

	// Kahn's algorithm over member edges.
	inDegree := make(map[string]int, len(entries))
	users := make(map[string][]string)
	for _, e := range entries {
		for _, m := range e.Members {
			if _, ok := byName[m]; !ok {
				continue
			}
			inDegree[e.Name]++
			users[m] = append(users[m], e.Name)
		}
	}
	var queue []string
	for _, e := range entries {
		if inDegree[e.Name] == 0 {
			queue = append(queue, e.Name)
		}
	}
	visited := 0
	seen := make(map[string]bool)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		visited++
		for _, u := range users[name] {
			inDegree[u]--
			if inDegree[u] == 0 {
				queue = append(queue, u)
			}
		}
	}
	if visited < len(byName) {
		var cycle []string
		for _, e := range entries {
			if !seen[e.Name] {
				cycle = append(cycle, e.Name)
			}
		}
		errs = append(errs, fmt.Sprintf("%s: member cycle involving %s", exercise, strings.Join(cycle, ", ")))
	}
	return errs
}
