package camera

import (
	"context"
	"sync"
)

// MockSource is a mock implementation of Source for testing.
type MockSource struct {
	mu   sync.Mutex
	open bool

	// Frame is returned by ReadFrame when ReadFrameFunc is not set.
	Frame []byte

	// Configurable behavior
	OpenFunc      func(ctx context.Context, cfg Config) error
	ReadFrameFunc func() ([]byte, error)
	CloseFunc     func() error

	// Captured calls for assertions
	OpenCalls  int
	CloseCalls int
	LastConfig Config
}

// NewMockSource creates a MockSource that serves the given frame.
func NewMockSource(frame []byte) *MockSource {
	return &MockSource{Frame: frame}
}

// Open implements Source.
func (m *MockSource) Open(ctx context.Context, cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OpenCalls++
	m.LastConfig = cfg

	if m.OpenFunc != nil {
		if err := m.OpenFunc(ctx, cfg); err != nil {
			return err
		}
	} else if m.open {
		return ErrAlreadyAcquired
	}
	m.open = true
	return nil
}

// ReadFrame implements Source.
func (m *MockSource) ReadFrame() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadFrameFunc != nil {
		return m.ReadFrameFunc()
	}
	if !m.open {
		return nil, ErrDeviceUnavailable
	}
	return m.Frame, nil
}

// Close implements Source.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	m.open = false
	return nil
}

// IsOpen implements Source.
func (m *MockSource) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}
