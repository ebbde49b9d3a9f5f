package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/tracelab/go-path-tracer/pkg/integrator"
	"github.com/tracelab/go-path-tracer/pkg/renderer"
)

// PassUpdate is sent after every completed pass, carrying a full-frame
// snapshot and the accumulated statistics.
type PassUpdate struct {
	RenderID       string  `json:"renderId"`
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	IsComplete     bool    `json:"isComplete"`
}

// TileUpdate is sent when a single tile finishes within a pass.
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`
	TotalTiles  int    `json:"totalTiles"`
	TotalPasses int    `json:"totalPasses"`
}

// SSEEvent is the unit of the outgoing stream. All goroutines funnel their
// events through one channel so a single writer owns the ResponseWriter.
type SSEEvent struct {
	Type string // "console", "tile", "pass", "error", "complete"
	Data string // JSON-encoded payload
}

// handleRender runs one progressive render and streams its progress via SSE.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	// The request context cancels the render when the client disconnects.
	ctx := r.Context()

	events := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, events)
	}()

	// consoleChan is never closed: a render goroutine cancelled mid-frame may
	// still log after the handler unwinds. consoleStop tells the forwarder to
	// flush and quit instead.
	consoleChan := make(chan ConsoleMessage, 50)
	consoleStop := make(chan struct{})
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, consoleStop, events)
	}()

	// The ResponseWriter is only valid until this handler returns, so queued
	// events must be flushed before then. Senders stop first, then the
	// writer drains whatever is buffered.
	defer func() {
		close(consoleStop)
		<-consoleDone
		close(events)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendError(ctx, events, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	uniforms, err := s.buildUniforms(req)
	if err != nil {
		s.sendError(ctx, events, fmt.Sprintf("Invalid configuration: %v", err))
		return
	}

	world, err := s.createWorld(req.Scene, uniforms.Time)
	if err != nil {
		s.sendError(ctx, events, err.Error())
		return
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = req.MaxPasses

	pr := renderer.NewProgressiveRenderer(&uniforms, world, req.Width, req.Height,
		integrator.DefaultConfig(), config, NewWebLogger(consoleChan))

	startTime := time.Now()
	passChan, tileChan, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})

	s.streamRenderEvents(ctx, events, pr.ID(), req, startTime, passChan, tileChan, errChan)
}

// setSSEHeaders sets the required headers for Server-Sent Events.
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents is the single goroutine allowed to touch the ResponseWriter.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent) {
	flusher, canFlush := w.(http.Flusher)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if canFlush {
				flusher.Flush()
			}
		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards renderer log lines to the event stream until
// stop is closed, then flushes whatever is already buffered and returns.
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, stop <-chan struct{}, events chan<- SSEEvent) {
	forward := func(msg ConsoleMessage) {
		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			return
		}
		select {
		case events <- SSEEvent{Type: "console", Data: string(data)}:
		default:
			// Channel full, drop the log line rather than stall the render
		}
	}

	for {
		select {
		case msg := <-consoleChan:
			forward(msg)
		case <-stop:
			for {
				select {
				case msg := <-consoleChan:
					forward(msg)
				default:
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// streamRenderEvents drains the renderer's channels and translates pass and
// tile results into SSE events until the render completes or fails.
func (s *Server) streamRenderEvents(ctx context.Context, events chan<- SSEEvent,
	renderID string, req *RenderRequest, startTime time.Time,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error) {

	for passChan != nil || tileChan != nil {
		select {
		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.sendPassUpdate(ctx, events, renderID, req, startTime, pass)

		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.sendTileUpdate(ctx, events, tile)

		case err := <-errChan:
			if err != nil {
				s.sendError(ctx, events, fmt.Sprintf("Rendering failed: %v", err))
				return
			}
			errChan = nil

		case <-ctx.Done():
			return
		}
	}

	select {
	case events <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// sendPassUpdate encodes a pass snapshot and queues it on the event stream.
func (s *Server) sendPassUpdate(ctx context.Context, events chan<- SSEEvent,
	renderID string, req *RenderRequest, startTime time.Time, pass renderer.PassResult) {

	imageData, err := imageToBase64PNG(pass.Image)
	if err != nil {
		log.Printf("Error encoding pass %d image: %v", pass.PassNumber, err)
		return
	}

	update := PassUpdate{
		RenderID:       renderID,
		PassNumber:     pass.PassNumber,
		TotalPasses:    req.MaxPasses,
		ImageData:      imageData,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    pass.Stats.TotalPixels,
		TotalSamples:   pass.Stats.TotalSamples,
		AverageSamples: pass.Stats.AverageSamples,
		MinSamples:     pass.Stats.MinSamples,
		MaxSamplesUsed: pass.Stats.MaxSamplesUsed,
		IsComplete:     pass.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling pass update: %v", err)
		return
	}

	select {
	case events <- SSEEvent{Type: "pass", Data: string(data)}:
	case <-ctx.Done():
	}
}

// sendTileUpdate encodes a finished tile and queues it on the event stream.
func (s *Server) sendTileUpdate(ctx context.Context, events chan<- SSEEvent, tile renderer.TileCompletionResult) {
	tileData, err := imageToBase64PNG(tile.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tile.TileX, tile.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:       tile.TileX,
		TileY:       tile.TileY,
		ImageData:   tileData,
		PassNumber:  tile.PassNumber,
		TileNumber:  tile.TileNumber,
		TotalTiles:  tile.TotalTiles,
		TotalPasses: tile.TotalPasses,
	}

	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Error marshaling tile update: %v", err)
		return
	}

	select {
	case events <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	}
}

// sendError queues an error event without blocking past disconnection.
func (s *Server) sendError(ctx context.Context, events chan<- SSEEvent, message string) {
	select {
	case events <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to a base64-encoded PNG.
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
