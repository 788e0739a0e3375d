package analysis

import (
	"context"
	"sync"
)

// Mock is a mock implementation of Analyzer for testing.
type Mock struct {
	mu sync.Mutex

	// Result is returned by Analyze when AnalyzeFunc is not set.
	Result string

	// Configurable behavior
	AnalyzeFunc func(ctx context.Context, image []byte, mimeType string) (string, error)

	// Captured calls for assertions
	Images    [][]byte
	MimeTypes []string
}

// NewMock creates a Mock analyzer returning the given result.
func NewMock(result string) *Mock {
	return &Mock{Result: result}
}

// Analyze implements Analyzer.
func (m *Mock) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	m.mu.Lock()
	m.Images = append(m.Images, image)
	m.MimeTypes = append(m.MimeTypes, mimeType)
	fn := m.AnalyzeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, image, mimeType)
	}
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if m.Result == "" {
		return FallbackText, nil
	}
	return m.Result, nil
}

// Calls returns how many times Analyze was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Images)
}
