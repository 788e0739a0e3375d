// Package camera manages the live capture device for lenscribe.
// It owns the full device lifecycle: acquisition, live preview frames,
// and the one-shot still capture that always terminates the session.
package camera

// Config holds the capture device configuration.
type Config struct {
	// Device is the capture device index (e.g. 0 for /dev/video0).
	Device int `json:"device"`

	// Width and Height are the preferred stream resolution. They are a
	// hint to the device; the actual stream may differ, and captures are
	// encoded at the stream's native resolution.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Quality is the JPEG encode quality 1-100.
	Quality int `json:"quality"`
}

// DefaultConfig returns the standard 720p capture configuration.
func DefaultConfig() Config {
	return Config{
		Device:  0,
		Width:   1280,
		Height:  720,
		Quality: 85,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device < 0 {
		errors = append(errors, "device index must not be negative")
	}
	if c.Width < 160 || c.Width > 4096 {
		errors = append(errors, "width must be between 160 and 4096")
	}
	if c.Height < 120 || c.Height > 4096 {
		errors = append(errors, "height must be between 120 and 4096")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}
