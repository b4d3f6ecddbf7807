package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/registry"
	"github.com/abhisek/formcheck/internal/store"
)

// descriptorSource picks the HTTP source when a models URL is configured,
// the models directory otherwise.
func descriptorSource() descriptor.Source {
	if cfg.ModelsURL != "" {
		return descriptor.NewHTTPSource(cfg.ModelsURL)
	}
	return descriptor.FSSource{FS: os.DirFS(cfg.ModelsDir)}
}

func newRegistry() (*registry.Registry, error) {
	reg, err := registry.New(registry.DefaultCatalog(), descriptorSource())
	if err != nil {
		return nil, fmt.Errorf("build model registry: %w", err)
	}
	return reg, nil
}

// session is a loaded classifier wired to the verdict event log.
type session struct {
	ID         string
	Classifier classifier.Classifier
	store      *store.Store
}

func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
}

// openSession loads the configured classifier and wraps it so that every
// prediction is recorded. When the event log cannot be opened, the
// classifier still runs without recording.
func openSession(ctx context.Context) (*session, error) {
	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}

	loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()
	c, err := reg.Load(loadCtx, cfg.Exercise, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}

	s := &session{ID: uuid.New().String(), Classifier: c}

	dbPath, err := resolveDBPath()
	if err == nil {
		s.store, err = store.Open(dbPath)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Event log unavailable:", err)
		fmt.Fprintln(os.Stderr, "Verdicts will not be recorded.")
		return s, nil
	}

	s.Classifier = classifier.WithLogging(c, s.store.EventRepo(), s.ID, cfg.Exercise)
	return s, nil
}
