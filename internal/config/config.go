// Package config provides environment configuration helpers for lenscribe
// commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the lenscribe service.
const (
	DefaultPort         = "8090"
	DefaultCameraDevice = 0
	DefaultLogLevel     = "info"
)

// Port returns the HTTP listen port from LENSCRIBE_PORT.
// Falls back to the default if not set.
func Port() string {
	if p := os.Getenv("LENSCRIBE_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// CameraDevice returns the capture device index from CAMERA_DEVICE.
// Falls back to device 0 if not set or not a number.
func CameraDevice() int {
	if d := os.Getenv("CAMERA_DEVICE"); d != "" {
		if idx, err := strconv.Atoi(d); err == nil {
			return idx
		}
	}
	return DefaultCameraDevice
}

// GeminiAPIKey returns the Gemini API key from GEMINI_API_KEY.
// An empty return is not an error here; the analysis client validates
// the key explicitly at construction.
func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

// OpenAIAPIKey returns the OpenAI-compatible API key from OPENAI_API_KEY.
func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// LogLevel returns the log level from LOG_LEVEL or the default.
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}
