// Package web exposes the lenscribe session over HTTP: REST actions for
// capture/analyze/reset and a websocket status feed that mirrors every
// state change.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/lenscribe/lenscribe/internal/log"
	"github.com/lenscribe/lenscribe/pkg/hub"
	"github.com/lenscribe/lenscribe/pkg/session"
)

// Server serves the session API and the status websocket feed.
type Server struct {
	app  *fiber.App
	port string
	sess *session.Session

	// Hub for websocket status broadcast
	statusHub *hub.Hub
}

// NewServer creates a web server bound to the given session. The server
// subscribes to the session's state changes and rebroadcasts them to every
// connected status client.
func NewServer(port string, sess *session.Session) *Server {
	s := &Server{
		port:      port,
		sess:      sess,
		statusHub: hub.New("status"),
	}

	sess.OnChange(func(snap session.Snapshot) {
		if err := s.statusHub.BroadcastJSON(snap); err != nil {
			log.Warn("status broadcast failed", "error", err)
		}
	})

	app := fiber.New(fiber.Config{
		AppName:               "lenscribe",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/frame", s.handleFrame)
	api.Post("/capture", s.handleCapture)
	api.Post("/analyze", s.handleAnalyze)
	api.Post("/reset", s.handleReset)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// Start starts the hub and the web server. Blocks.
func (s *Server) Start() error {
	go s.statusHub.Run()
	log.Info("web server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying fiber app, for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// StatusHub returns the status broadcast hub.
func (s *Server) StatusHub() *hub.Hub {
	return s.statusHub
}
