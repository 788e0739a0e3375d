package session

import "errors"

// Sentinel errors for the session package.
var (
	// ErrNotReady indicates capture was requested without a ready stream.
	ErrNotReady = errors.New("session: camera stream not ready")

	// ErrBusy indicates an analysis request is already in flight.
	ErrBusy = errors.New("session: analysis in flight")

	// ErrNoImage indicates analysis was requested without a held image.
	ErrNoImage = errors.New("session: no captured image")

	// ErrClosed indicates the session has been shut down.
	ErrClosed = errors.New("session: closed")
)

// User-facing messages for the two recoverable failure categories.
const (
	// DeviceUnavailableMessage is shown persistently while camera access
	// is denied or no device is present.
	DeviceUnavailableMessage = "Unable to access the camera. Check that a camera is connected and permission is granted."

	// AnalysisFailedMessage suggests a retry; the captured image is kept.
	AnalysisFailedMessage = "Analysis failed. Please try again."
)
