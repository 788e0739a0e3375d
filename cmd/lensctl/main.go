// lensctl - command-line companion for a running lenscribe service.
//
// Watches the websocket status feed and prints state transitions and
// explanations; can also trigger capture/analyze/reset first.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lenscribe/lenscribe/internal/httpc"
	"github.com/lenscribe/lenscribe/pkg/session"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "lenscribe host:port")
	action := flag.String("do", "", "optional action before watching: capture, analyze, reset")
	watch := flag.Bool("watch", true, "stay subscribed to the status feed")
	flag.Parse()

	if *action != "" {
		if err := trigger(*addr, *action); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if !*watch {
		return
	}
	if err := watchStatus(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// trigger posts an action to the REST API. State-machine refusals come back
// as 409 with an error body.
func trigger(addr, action string) error {
	switch action {
	case "capture", "analyze", "reset":
	default:
		return fmt.Errorf("unknown action %q", action)
	}

	url := fmt.Sprintf("http://%s/api/%s", addr, action)
	resp, err := httpc.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("%s failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s rejected (HTTP %d): %s", action, resp.StatusCode, body)
	}
	fmt.Printf("%s accepted\n", action)
	return nil
}

// watchStatus subscribes to the status feed and prints every snapshot until
// interrupted.
func watchStatus(addr string) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(fmt.Sprintf("ws://%s/ws/status", addr), nil)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		conn.Close()
	}()

	fmt.Printf("watching %s (Ctrl+C to stop)\n", addr)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil
		}

		var snap session.Snapshot
		if err := json.Unmarshal(msg, &snap); err != nil {
			continue
		}
		printSnapshot(snap)
	}
}

func printSnapshot(snap session.Snapshot) {
	fmt.Printf("[%s] state=%s", snap.UpdatedAt.Format("15:04:05"), snap.State)
	if snap.CameraError != "" {
		fmt.Printf(" camera_error=%q", snap.CameraError)
	}
	if snap.AnalysisErr != "" {
		fmt.Printf(" analysis_error=%q", snap.AnalysisErr)
	}
	fmt.Println()

	if snap.State == session.StateExplained && snap.Explanation != "" {
		fmt.Println("╭───────────────────────────────────────────")
		fmt.Printf("│ %s\n", snap.Explanation)
		fmt.Println("╰───────────────────────────────────────────")
	}
}
