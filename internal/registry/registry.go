// Package registry owns the classifier instances of a process. Each
// (exercise, name) pair maps to exactly one lazily constructed instance,
// so combinators that share a member share its loaded state too.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/descriptor"
)

var (
	// ErrUnknownExercise is returned for an exercise missing from the catalog.
	ErrUnknownExercise = errors.New("unknown exercise")

	// ErrUnknownModel is returned for a model name missing from an exercise.
	ErrUnknownModel = errors.New("unknown model")

	// ErrNoScorerLoader is returned when a catalog has a neural entry but
	// no network runtime was bound with WithScorerLoader.
	ErrNoScorerLoader = errors.New("neural entry without a scorer loader")
)

type key struct {
	exercise, name string
}

// ScorerLoaderFunc produces the network named by a neural entry's
// Descriptor.
type ScorerLoaderFunc func(ctx context.Context, path string) (classifier.Scorer, error)

// Option configures a Registry.
type Option func(*Registry)

// WithScorerLoader binds the network runtime for neural entries. A catalog
// with neural entries needs one.
func WithScorerLoader(load ScorerLoaderFunc) Option {
	return func(r *Registry) {
		r.loadScorer = load
	}
}

// Registry constructs classifiers from a Catalog on first use.
type Registry struct {
	catalog    Catalog
	source     descriptor.Source
	loadScorer ScorerLoaderFunc

	mu        sync.Mutex
	instances map[key]classifier.Classifier
}

// New creates a registry over catalog, fetching descriptors from src.
func New(catalog Catalog, src descriptor.Source, opts ...Option) (*Registry, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	r := &Registry{
		catalog:   catalog,
		source:    src,
		instances: make(map[key]classifier.Classifier),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.loadScorer == nil {
		if name, ok := catalog.firstNeural(); ok {
			return nil, fmt.Errorf("%w: %s", ErrNoScorerLoader, name)
		}
	}
	return r, nil
}

// Exercises returns the catalog's exercises, sorted.
func (r *Registry) Exercises() []string {
	out := make([]string, 0, len(r.catalog))
	for ex := range r.catalog {
		out = append(out, ex)
	}
	sort.Strings(out)
	return out
}

// Names returns the classifier names of an exercise, sorted.
func (r *Registry) Names(exercise string) ([]string, error) {
	entries, ok := r.catalog[exercise]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExercise, exercise)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out, nil
}

// Entry returns the catalog entry for (exercise, name).
func (r *Registry) Entry(exercise, name string) (Entry, error) {
	entries, ok := r.catalog[exercise]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownExercise, exercise)
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q for exercise %q", ErrUnknownModel, name, exercise)
}

// Get returns the classifier for (exercise, name), constructing it and its
// members on first use. The result is not loaded.
func (r *Registry) Get(exercise, name string) (classifier.Classifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(exercise, name)
}

// Load returns the classifier for (exercise, name) after loading it.
func (r *Registry) Load(ctx context.Context, exercise, name string) (classifier.Classifier, error) {
	c, err := r.Get(exercise, name)
	if err != nil {
		return nil, err
	}
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Registry) getLocked(exercise, name string) (classifier.Classifier, error) {
	k := key{exercise, name}
	if c, ok := r.instances[k]; ok {
		return c, nil
	}

	entry, err := r.Entry(exercise, name)
	if err != nil {
		return nil, err
	}

	// Validate rejected cycles, so member recursion terminates.
	members := make([]classifier.Classifier, 0, len(entry.Members))
	for _, m := range entry.Members {
		c, err := r.getLocked(exercise, m)
		if err != nil {
			return nil, fmt.Errorf("%s member: %w", name, err)
		}
		members = append(members, c)
	}

	var c classifier.Classifier
	switch entry.Type {
	case TypeModel:
		c = r.newModel(entry)
	case TypeEnsemble:
		c, err = classifier.NewEnsemble(name, members...)
	case TypeHybrid:
		c, err = classifier.NewHybrid(name, members[0], members[1])
	default:
		err = fmt.Errorf("%s: unknown entry type %q", name, entry.Type)
	}
	if err != nil {
		return nil, err
	}

	r.instances[k] = c
	return c, nil
}

func (r *Registry) newModel(e Entry) *classifier.Model {
	if e.Kind == descriptor.KindEmpirical && e.Descriptor == "" {
		return classifier.NewEmpiricalModel(e.Name, classifier.HighPlankChecks)
	}
	if e.Kind == classifier.KindNeural {
		load, path := r.loadScorer, e.Descriptor
		return classifier.NewNeuralModel(e.Name, *e.Features, e.Classes, func(ctx context.Context) (classifier.Scorer, error) {
			return load(ctx, path)
		})
	}
	return classifier.NewModel(e.Name, e.Kind, r.source, e.Descriptor)
}
