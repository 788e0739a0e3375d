// Package session orchestrates one indefinitely-restartable capture cycle:
// live camera → captured frame → analysis → explanation, and back to live
// on retake. All transitions are serialized; observers receive immutable
// snapshots after every change.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lenscribe/lenscribe/internal/log"
	"github.com/lenscribe/lenscribe/pkg/analysis"
	"github.com/lenscribe/lenscribe/pkg/camera"
)

// Session owns the capture state and the single live device handle. It is
// safe for concurrent use; at most one analysis request is in flight and at
// most one acquisition is pending at any time.
type Session struct {
	mu       sync.Mutex
	cam      *camera.Controller
	analyzer analysis.Analyzer

	state       State
	frame       []byte
	captureID   string
	explanation string
	analysisErr string
	cameraErr   string
	cameraReady bool
	closed      bool

	baseCtx       context.Context
	acquireCancel context.CancelFunc

	onChange func(Snapshot)

	wg sync.WaitGroup
}

// New creates a Session over the given camera controller and analyzer.
func New(cam *camera.Controller, analyzer analysis.Analyzer) *Session {
	return &Session{
		cam:      cam,
		analyzer: analyzer,
		state:    StateLive,
	}
}

// OnChange registers the observer. Call before Start; the callback runs
// outside the session lock after every state change.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Start begins the session: state Live, camera acquisition pending. The
// context bounds every asynchronous operation the session starts.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.state = StateLive
	snap := s.beginAcquireLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// beginAcquireLocked cancels any pending acquisition and starts a new one.
// A superseded acquisition that still wins the device releases it instead
// of leaking the handle.
func (s *Session) beginAcquireLocked() Snapshot {
	if s.acquireCancel != nil {
		s.acquireCancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.acquireCancel = cancel

	s.cameraReady = false
	s.cameraErr = ""

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.cam.Acquire(ctx)

		// Release outside the session lock: a successor Acquire may hold
		// the controller lock and need the session lock next.
		if ctx.Err() != nil {
			if err == nil {
				s.cam.Release()
			}
			return
		}

		s.mu.Lock()
		if ctx.Err() != nil {
			// Superseded between the first check and here.
			s.mu.Unlock()
			if err == nil {
				s.cam.Release()
			}
			return
		}
		if err == nil {
			s.cameraReady = true
		} else {
			s.cameraErr = DeviceUnavailableMessage
			if errors.Is(err, camera.ErrDeviceUnavailable) {
				log.Warn("camera acquisition failed", "error", err)
			} else {
				log.Error("camera acquisition error", "error", err)
			}
		}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
	}()

	return s.snapshotLocked()
}

// Capture freezes the current frame and releases the camera. Requires the
// Live state with a ready stream; otherwise ErrNotReady.
func (s *Session) Capture() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state != StateLive || !s.cameraReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	frame, ok := s.cam.CaptureFrame()
	if !ok {
		// The controller tolerates this race silently; surface it to the
		// API caller as not-ready.
		s.mu.Unlock()
		return ErrNotReady
	}

	s.frame = frame
	s.captureID = uuid.NewString()
	s.state = StateCaptured
	s.cameraReady = false
	s.explanation = ""
	s.analysisErr = ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	log.Info("frame captured", "capture_id", snap.CaptureID, "bytes", len(frame))
	s.notify(snap)
	return nil
}

// Analyze sends the held image to the inference endpoint. The transition to
// Analyzing is immediate; the result lands asynchronously as Explained or
// AnalysisError. Rejected with ErrBusy while a request is in flight and
// ErrNoImage without a held image. A failed analysis keeps the image, so
// Analyze may be called again without limit.
func (s *Session) Analyze() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == StateAnalyzing {
		s.mu.Unlock()
		return ErrBusy
	}
	if len(s.frame) == 0 {
		s.mu.Unlock()
		return ErrNoImage
	}

	s.state = StateAnalyzing
	s.analysisErr = ""
	s.explanation = ""
	frame := s.frame
	captureID := s.captureID
	ctx := s.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		text, err := s.analyzer.Analyze(ctx, frame, analysis.DefaultMimeType)

		s.mu.Lock()
		if s.state != StateAnalyzing || s.captureID != captureID {
			// Superseded; drop the result.
			s.mu.Unlock()
			return
		}
		if err != nil {
			s.state = StateAnalysisError
			s.analysisErr = AnalysisFailedMessage
			log.Warn("analysis failed", "capture_id", captureID, "error", err)
		} else {
			s.state = StateExplained
			s.explanation = text
			log.Info("analysis complete", "capture_id", captureID)
		}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)
	}()

	return nil
}

// Reset discards the held image and result, returns to Live, and requests a
// new acquisition. Rejected with ErrBusy while analysis is in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == StateAnalyzing {
		s.mu.Unlock()
		return ErrBusy
	}

	s.frame = nil
	s.captureID = ""
	s.explanation = ""
	s.analysisErr = ""
	s.state = StateLive
	wasReady := s.cameraReady
	s.cameraReady = false
	s.mu.Unlock()

	// Reset from a still-live stream (retrying a denied grant does not hit
	// this) must release before re-acquiring: one handle at a time.
	if wasReady {
		s.cam.Release()
	}

	s.mu.Lock()
	snap := s.beginAcquireLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Close ends the session: pending acquisition is cancelled and the camera
// is released. An in-flight analysis request is not aborted beyond the
// cancellation of the session context.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.acquireCancel != nil {
		s.acquireCancel()
	}
	s.mu.Unlock()

	s.cam.Release()
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Frame returns the held encoded image, if any.
func (s *Session) Frame() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frame) == 0 {
		return nil, false
	}
	frame := make([]byte, len(s.frame))
	copy(frame, s.frame)
	return frame, true
}

// Wait blocks until all asynchronous session work has finished. Intended
// for tests and shutdown paths.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		State:       s.state,
		CaptureID:   s.captureID,
		HasImage:    len(s.frame) > 0,
		CameraReady: s.cameraReady,
		CameraError: s.cameraErr,
		Explanation: s.explanation,
		AnalysisErr: s.analysisErr,
		UpdatedAt:   time.Now(),
	}
}

func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}
