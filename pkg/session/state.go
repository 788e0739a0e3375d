package session

import "time"

// State is the session-level capture/analysis state.
type State string

const (
	// StateLive means the camera is streaming (or attempting to) and no
	// image is held.
	StateLive State = "live"
	// StateCaptured means an image is held and analysis is idle.
	StateCaptured State = "captured"
	// StateAnalyzing means an image is held and a request is in flight.
	StateAnalyzing State = "analyzing"
	// StateExplained means an image is held and result text is present.
	StateExplained State = "explained"
	// StateAnalysisError means an image is held and the last analysis
	// failed.
	StateAnalysisError State = "analysis_error"
)

// String returns the state name.
func (s State) String() string {
	return string(s)
}

// Snapshot is an immutable view of the session published to observers.
type Snapshot struct {
	State       State     `json:"state"`
	CaptureID   string    `json:"capture_id,omitempty"`
	HasImage    bool      `json:"has_image"`
	CameraReady bool      `json:"camera_ready"`
	CameraError string    `json:"camera_error,omitempty"`
	Explanation string    `json:"explanation,omitempty"`
	AnalysisErr string    `json:"analysis_error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
