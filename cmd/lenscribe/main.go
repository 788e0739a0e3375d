// lenscribe - capture a webcam frame and explain it with a multimodal model.
//
// Owns the camera session and serves the capture/analyze/reset API plus a
// websocket status feed.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lenscribe/lenscribe/internal/config"
	"github.com/lenscribe/lenscribe/internal/log"
	"github.com/lenscribe/lenscribe/pkg/analysis"
	"github.com/lenscribe/lenscribe/pkg/camera"
	"github.com/lenscribe/lenscribe/pkg/session"
	"github.com/lenscribe/lenscribe/pkg/web"
)

func main() {
	// A .env file is optional; real env vars win.
	_ = godotenv.Load()

	port := flag.String("port", config.Port(), "HTTP listen port")
	device := flag.Int("device", config.CameraDevice(), "capture device index")
	provider := flag.String("provider", "gemini", "analysis provider: gemini, openai")
	model := flag.String("model", "", "override the provider's default model")
	logLevel := flag.String("log-level", config.LogLevel(), "log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	camCfg := camera.DefaultConfig()
	camCfg.Device = *device
	cam, err := camera.NewController(camera.NewDeviceSource(), camCfg)
	if err != nil {
		log.Error("invalid camera configuration", "error", err)
		os.Exit(1)
	}

	analyzer, err := newAnalyzer(*provider, *model)
	if err != nil {
		log.Error("analyzer setup failed", "provider", *provider, "error", err)
		os.Exit(1)
	}

	sess := session.New(cam, analyzer)
	srv := web.NewServer(*port, sess)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess.Start(ctx)
	srv.StartAsync()

	log.Info("lenscribe running", "port", *port, "device", *device, "provider", *provider)

	<-ctx.Done()

	log.Info("shutting down")
	sess.Close()
	if err := srv.Shutdown(); err != nil {
		log.Warn("web shutdown error", "error", err)
	}
}

// newAnalyzer builds the configured analysis provider. Key validation
// happens here, before any camera work starts.
func newAnalyzer(provider, model string) (analysis.Analyzer, error) {
	switch provider {
	case "openai":
		return analysis.NewOpenAI(analysis.OpenAIConfig{
			APIKey: config.OpenAIAPIKey(),
			Model:  model,
		})
	default:
		return analysis.NewGemini(analysis.GeminiConfig{
			APIKey: config.GeminiAPIKey(),
			Model:  model,
		})
	}
}
