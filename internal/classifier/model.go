package classifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
	"github.com/abhisek/formcheck/internal/pose"
)

// State is a model's load state.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// LoadFunc produces a ready engine and the feature spec it was trained on.
type LoadFunc func(ctx context.Context) (Engine, features.Spec, error)

// Model is a single classifier: an engine plus its feature extractor.
type Model struct {
	name string
	kind descriptor.Kind
	load LoadFunc

	mu      sync.Mutex // guards the fields below
	state   State
	done    chan struct{}
	loadErr error
	engine  Engine
	extract *features.Compiled

	// predictMu serializes predictions against this instance.
	predictMu sync.Mutex
}

// NewModelFunc creates an unloaded model around an arbitrary loader.
func NewModelFunc(name string, kind descriptor.Kind, load LoadFunc) *Model {
	return &Model{name: name, kind: kind, load: load}
}

// NewModel creates an unloaded model whose descriptor is fetched from src
// at path and validated against the schema for kind.
func NewModel(name string, kind descriptor.Kind, src descriptor.Source, path string) *Model {
	return NewModelFunc(name, kind, func(ctx context.Context) (Engine, features.Spec, error) {
		raw, err := src.Fetch(ctx, path)
		if err != nil {
			return nil, features.Spec{}, fmt.Errorf("fetch descriptor %s: %w", path, err)
		}
		d, err := descriptor.Decode(kind, raw)
		if err != nil {
			return nil, features.Spec{}, &ConfigError{Kind: kind, Field: "descriptor", Err: err}
		}
		engine, err := NewEngine(d)
		if err != nil {
			return nil, features.Spec{}, err
		}
		spec := d.Features
		if sp, ok := engine.(specProvider); ok {
			spec = sp.FeatureSpec()
		}
		return engine, spec, nil
	})
}

// NewEmpiricalModel creates the rule-engine model for checks.
func NewEmpiricalModel(name string, checks []descriptor.Check) *Model {
	return NewModelFunc(name, descriptor.KindEmpirical, func(context.Context) (Engine, features.Spec, error) {
		e, err := NewEmpirical(checks)
		if err != nil {
			return nil, features.Spec{}, err
		}
		return e, e.FeatureSpec(), nil
	})
}

// NewNeuralModel creates a model scored by a network obtained from loader.
func NewNeuralModel(name string, spec features.Spec, classes []string, loader ScorerLoader) *Model {
	return NewModelFunc(name, KindNeural, func(ctx context.Context) (Engine, features.Spec, error) {
		scorer, err := loader(ctx)
		if err != nil {
			return nil, features.Spec{}, fmt.Errorf("load scorer: %w", err)
		}
		n, err := NewNeural(classes, scorer)
		if err != nil {
			return nil, features.Spec{}, err
		}
		return n, spec, nil
	})
}

func (m *Model) Name() string { return m.name }

// Kind returns the engine kind this model loads.
func (m *Model) Kind() descriptor.Kind { return m.kind }

// State returns the current load state.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Model) Loaded() bool { return m.State() == StateLoaded }

// Err returns the error of the last failed load, if any.
func (m *Model) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}

// Load runs the loader once. Callers that arrive while a load is in
// flight wait for that attempt and share its outcome. A failed load
// returns the model to StateUnloaded so a later call can retry.
func (m *Model) Load(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case StateLoaded:
		m.mu.Unlock()
		return nil
	case StateLoading:
		done := m.done
		m.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state == StateLoaded {
			return nil
		}
		return m.loadErr
	}
	m.state = StateLoading
	m.done = make(chan struct{})
	m.mu.Unlock()

	engine, spec, err := m.load(ctx)
	var compiled *features.Compiled
	if err == nil {
		compiled, err = spec.Compile()
		if err != nil {
			err = &ConfigError{Kind: m.kind, Field: "features", Err: err}
		} else if wc, ok := engine.(widthChecker); ok {
			err = wc.CheckWidth(compiled.Len())
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		err = fmt.Errorf("load %s: %w", m.name, err)
		m.state = StateUnloaded
		m.loadErr = err
	} else {
		m.state = StateLoaded
		m.loadErr = nil
		m.engine = engine
		m.extract = compiled
	}
	close(m.done)
	return err
}

// Engine returns the loaded engine, or nil before Load completes.
func (m *Model) Engine() Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine
}

func (m *Model) Predict(p *pose.Pose) (*Result, error) {
	m.mu.Lock()
	state, engine, extract := m.state, m.engine, m.extract
	m.mu.Unlock()
	if state != StateLoaded {
		return nil, fmt.Errorf("%s: %w", m.name, ErrNotLoaded)
	}
	if p == nil {
		return nil, ErrMissingPose
	}

	m.predictMu.Lock()
	defer m.predictMu.Unlock()

	x, err := extract.Extract(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.name, err)
	}
	pred, err := engine.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.name, err)
	}
	return newResult(m.name, pred), nil
}
