package server

import (
	"fmt"
	"time"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

// ConsoleMessage is one renderer log line with its timestamp.
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by mirroring log lines to stdout and to a
// console channel the SSE stream drains.
type WebLogger struct {
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for one render's console stream. A nil
// channel yields a stdout-only logger.
func NewWebLogger(consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{consoleChan: consoleChan}
}

// Printf implements the core.Logger interface.
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Keep server-side logs intact
	fmt.Print(message)

	if wl.consoleChan == nil {
		return
	}

	// Never block the render on a slow console consumer
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	}:
	default:
	}
}
