package classifier

import (
	"context"
	"sync"

	"github.com/abhisek/formcheck/internal/pose"
)

// MockResponse is a canned verdict for the MockClassifier.
type MockResponse struct {
	Label   string
	Message string
	Err     error
}

// MockClassifier is a deterministic Classifier for testing. It returns
// canned responses in FIFO order, repeating the last one once the queue
// is down to a single entry, and counts calls.
type MockClassifier struct {
	name string

	mu        sync.Mutex
	responses []MockResponse
	loaded    bool
	LoadErr   error
	calls     int
	loads     int
}

// NewMockClassifier creates a loaded-on-demand mock with canned responses.
func NewMockClassifier(name string, responses ...MockResponse) *MockClassifier {
	return &MockClassifier{name: name, responses: responses}
}

func (m *MockClassifier) Name() string { return m.name }

func (m *MockClassifier) Load(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.LoadErr != nil {
		return m.LoadErr
	}
	m.loaded = true
	return nil
}

func (m *MockClassifier) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Predict returns the next canned response. An empty queue yields
// ErrNotLoaded so that a misconfigured test fails loudly.
func (m *MockClassifier) Predict(p *pose.Pose) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if !m.loaded || len(m.responses) == 0 {
		return nil, ErrNotLoaded
	}
	if p == nil {
		return nil, ErrMissingPose
	}

	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return newResult(m.name, Prediction{Index: -1, Label: resp.Label, Message: resp.Message}), nil
}

// CallCount returns the number of Predict calls made.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LoadCount returns the number of Load calls made.
func (m *MockClassifier) LoadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}
