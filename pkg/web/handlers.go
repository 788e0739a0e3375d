package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/lenscribe/lenscribe/pkg/hub"
	"github.com/lenscribe/lenscribe/pkg/session"
)

// handleStatus returns the current session snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.sess.Snapshot())
}

// handleFrame serves the held captured image, or 404 when none is held.
func (s *Server) handleFrame(c *fiber.Ctx) error {
	frame, ok := s.sess.Frame()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no captured image",
		})
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(frame)
}

// handleCapture freezes the current frame. 409 when the stream is not ready,
// mirroring a disabled capture button.
func (s *Server) handleCapture(c *fiber.Ctx) error {
	if err := s.sess.Capture(); err != nil {
		return actionError(c, err)
	}
	return c.JSON(s.sess.Snapshot())
}

// handleAnalyze requests an explanation for the held image. The transition
// to analyzing is immediate; the result arrives on the status feed.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	if err := s.sess.Analyze(); err != nil {
		return actionError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(s.sess.Snapshot())
}

// handleReset discards the held image and restarts the live camera.
func (s *Server) handleReset(c *fiber.Ctx) error {
	if err := s.sess.Reset(); err != nil {
		return actionError(c, err)
	}
	return c.JSON(s.sess.Snapshot())
}

// actionError maps session errors onto HTTP statuses: state-machine refusals
// are 409, a closed session is 503.
func actionError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotReady),
		errors.Is(err, session.ErrBusy),
		errors.Is(err, session.ErrNoImage):
		status = fiber.StatusConflict
	case errors.Is(err, session.ErrClosed):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// handleStatusWS streams session snapshots to a websocket client. The
// current snapshot is sent on connect so late subscribers start in sync.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	if err := c.WriteJSON(s.sess.Snapshot()); err != nil {
		c.Close()
		return
	}
	client := hub.NewClient(s.statusHub, c)
	client.Run()
}
