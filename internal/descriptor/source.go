package descriptor

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

// Source fetches raw descriptor documents by relative path.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FSSource reads descriptors from a file system, typically os.DirFS of
// the models directory or an embedded FS in tests.
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.FS, path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor %s: %w", path, err)
	}
	return data, nil
}

// HTTPSource fetches descriptors relative to a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource creates an HTTPSource with a bounded client timeout.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	url := strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch descriptor %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch descriptor %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read descriptor body: %w", err)
	}
	return data, nil
}

// MapSource serves descriptors from memory.
type MapSource map[string][]byte

func (m MapSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("descriptor %s: %w", path, fs.ErrNotExist)
	}
	return data, nil
}
