package camera

import "errors"

// Sentinel errors for the camera package.
var (
	// ErrDeviceUnavailable indicates the capture device is absent or
	// access to it was denied.
	ErrDeviceUnavailable = errors.New("camera: device unavailable")

	// ErrAlreadyAcquired indicates Acquire was called while a device
	// handle is still live.
	ErrAlreadyAcquired = errors.New("camera: device already acquired")

	// ErrInvalidConfig indicates the capture configuration failed validation.
	ErrInvalidConfig = errors.New("camera: invalid configuration")
)
