package camera

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// DeviceSource is the gocv-backed Source for real capture hardware.
type DeviceSource struct {
	mu      sync.Mutex
	cap     *gocv.VideoCapture
	quality int
}

// NewDeviceSource creates a Source for a local video capture device.
func NewDeviceSource() *DeviceSource {
	return &DeviceSource{}
}

// Open implements Source.
func (d *DeviceSource) Open(ctx context.Context, cfg Config) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cap != nil {
		return ErrAlreadyAcquired
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	webcam, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return fmt.Errorf("%w: open device %d: %v", ErrDeviceUnavailable, cfg.Device, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return fmt.Errorf("%w: device %d did not open", ErrDeviceUnavailable, cfg.Device)
	}

	// Resolution is a hint; the driver may pick the nearest supported mode.
	webcam.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	webcam.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))

	// The platform grant may have resolved after the caller gave up.
	if err := ctx.Err(); err != nil {
		webcam.Close()
		return err
	}

	d.cap = webcam
	d.quality = cfg.Quality
	return nil
}

// ReadFrame implements Source.
func (d *DeviceSource) ReadFrame() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cap == nil {
		return nil, ErrDeviceUnavailable
	}

	img := gocv.NewMat()
	defer img.Close()

	if ok := d.cap.Read(&img); !ok || img.Empty() {
		return nil, fmt.Errorf("camera: failed to read frame")
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img,
		[]int{gocv.IMWriteJpegQuality, d.quality})
	if err != nil {
		return nil, fmt.Errorf("camera: jpeg encode: %w", err)
	}
	defer buf.Close()

	frame := make([]byte, len(buf.GetBytes()))
	copy(frame, buf.GetBytes())
	return frame, nil
}

// Close implements Source.
func (d *DeviceSource) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cap == nil {
		return nil
	}
	err := d.cap.Close()
	d.cap = nil
	return err
}

// IsOpen implements Source.
func (d *DeviceSource) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cap != nil
}
