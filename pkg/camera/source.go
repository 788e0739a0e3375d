package camera

import "context"

// Source abstracts the underlying capture device so the Controller can be
// tested without hardware. The production implementation is backed by gocv;
// tests use MockSource.
type Source interface {
	// Open acquires the device and applies the configured resolution hint.
	// Returns ErrDeviceUnavailable if the device is absent or cannot be
	// opened. Opening an already-open source is an error.
	Open(ctx context.Context, cfg Config) error

	// ReadFrame reads the current frame and returns it JPEG-encoded at the
	// stream's native resolution. Requires an open source.
	ReadFrame() ([]byte, error)

	// Close releases the device. Safe to call when not open.
	Close() error

	// IsOpen reports whether the device is currently held.
	IsOpen() bool
}
