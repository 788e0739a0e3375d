package camera

import (
	"context"
	"fmt"
	"sync"

	"github.com/lenscribe/lenscribe/internal/log"
)

// Controller owns one live capture device at a time. A frame capture always
// releases the device; re-acquisition is the caller's job.
type Controller struct {
	mu     sync.Mutex
	source Source
	cfg    Config
	live   bool
}

// NewController creates a Controller over the given source.
// Returns ErrInvalidConfig when the configuration fails validation.
func NewController(source Source, cfg Config) (*Controller, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, errs)
	}
	return &Controller{source: source, cfg: cfg}, nil
}

// Acquire opens the capture device with the configured resolution hint.
// Returns ErrAlreadyAcquired while a handle is live, ErrDeviceUnavailable
// when the device is absent or denied. No automatic retry.
func (c *Controller) Acquire(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live {
		return ErrAlreadyAcquired
	}
	if err := c.source.Open(ctx, c.cfg); err != nil {
		return err
	}
	c.live = true
	log.Debug("camera acquired", "device", c.cfg.Device,
		"width", c.cfg.Width, "height", c.cfg.Height)
	return nil
}

// Release stops the device if one is held. Idempotent; a no-op when nothing
// is held.
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()
}

func (c *Controller) releaseLocked() {
	if !c.live {
		return
	}
	if err := c.source.Close(); err != nil {
		log.Warn("camera close failed", "error", err)
	}
	c.live = false
	log.Debug("camera released")
}

// CaptureFrame freezes the current frame as a JPEG at the stream's native
// resolution and releases the device. When no ready stream is held the call
// is a tolerated no-op returning (nil, false); callers must not depend on
// this path reporting failure.
func (c *Controller) CaptureFrame() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.live {
		// Tolerates a capture racing a release or a denied acquisition.
		log.Debug("capture skipped: no ready stream")
		return nil, false
	}

	frame, err := c.source.ReadFrame()
	if err != nil {
		// Keep the stream live so the user can try again.
		log.Warn("frame read failed", "error", err)
		return nil, false
	}

	c.releaseLocked()
	return frame, true
}

// IsLive reports whether a device handle is currently held.
func (c *Controller) IsLive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}
