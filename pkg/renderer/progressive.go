package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/tracelab/go-path-tracer/pkg/core"
	"github.com/tracelab/go-path-tracer/pkg/integrator"
)

// DefaultLogger implements core.Logger by writing to stdout.
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger.
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering.
type ProgressiveConfig struct {
	TileSize       int // Size of each tile (64x64 recommended)
	InitialSamples int // Samples for the first preview pass
	MaxPasses      int // Number of passes splitting the sample budget
	NumWorkers     int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values.
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:       64,
		InitialSamples: 1,
		MaxPasses:      5,
		NumWorkers:     0,
	}
}

// ProgressiveRenderer renders one frame as a sequence of refinement passes.
// The per-pixel sample budget comes from the uniform block; each pass raises
// every pixel toward its share of the budget and emits a snapshot, so a host
// can show a quick preview that sharpens in place.
type ProgressiveRenderer struct {
	id            string // render job id, for log correlation
	raytracer     *Raytracer
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	pixelStats    [][]PixelStats // shared accumulators in image coordinates
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRenderer creates a progressive renderer for one frame.
func NewProgressiveRenderer(uniforms *core.Uniforms, tracer core.Tracer, width, height int, shading integrator.Config, config ProgressiveConfig, logger core.Logger) *ProgressiveRenderer {
	raytracer := NewRaytracer(uniforms, tracer, width, height, shading)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &ProgressiveRenderer{
		id:         uuid.NewString(),
		raytracer:  raytracer,
		width:      width,
		height:     height,
		config:     config,
		tiles:      NewTileGrid(width, height, config.TileSize),
		pixelStats: pixelStats,
		workerPool: NewWorkerPool(raytracer, width, height, config.TileSize, config.NumWorkers),
		logger:     logger,
	}
}

// ID returns the unique identifier of this render job.
func (pr *ProgressiveRenderer) ID() string {
	return pr.id
}

// maxSamples is the frame's total per-pixel budget from the uniform block.
func (pr *ProgressiveRenderer) maxSamples() int {
	return int(pr.raytracer.Uniforms().Samples)
}

// getSamplesForPass calculates the cumulative sample target for a pass: a
// quick preview first, then the remaining budget split evenly, with the last
// pass absorbing the remainder.
func (pr *ProgressiveRenderer) getSamplesForPass(passNumber int) int {
	budget := pr.maxSamples()
	if pr.config.MaxPasses <= 1 || budget <= pr.config.InitialSamples {
		return budget
	}

	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	remaining := budget - pr.config.InitialSamples
	perPass := remaining / (pr.config.MaxPasses - 1)
	target := pr.config.InitialSamples + (passNumber-1)*perPass

	if passNumber == pr.config.MaxPasses {
		target = budget
	}
	return target
}

// RenderPass runs one pass over all tiles in parallel and returns the
// current image snapshot.
func (pr *ProgressiveRenderer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("[%s] Pass %d: target %d samples per pixel (%d workers)\n",
		pr.id, passNumber, targetSamples, pr.workerPool.NumWorkers())

	if passNumber == 1 {
		pr.workerPool.Start()
	}

	for i, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        i,
			PixelStats:    pr.pixelStats,
		})
	}

	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// extractTileImage snapshots one tile from the shared accumulators.
func (pr *ProgressiveRenderer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pr.pixelStats[y][x]
			if ps.SampleCount > 0 {
				img.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, pr.raytracer.pixelColor(ps))
			}
		}
	}
	return img
}

// PassResult contains the result of a single pass.
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult reports a completed tile for streaming callbacks.
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA
	PassNumber int

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int
	TotalPasses int
}

// RenderOptions configures progressive rendering behavior.
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders all passes, reporting progress over channels.
// The caller reads the channels from its own goroutines; cancelling the
// context abandons the frame between passes.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()

		pr.logger.Printf("[%s] Starting progressive render: %d passes, %d samples/pixel\n",
			pr.id, pr.config.MaxPasses, pr.maxSamples())

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("[%s] Render cancelled before pass %d\n", pr.id, pass)
				errChan <- ctx.Err()
				return
			default:
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full; the pass snapshot will carry the pixels
					}
				}
			}

			startTime := time.Now()
			img, stats, err := pr.RenderPass(pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("[%s] Pass %d completed in %v (avg %.1f samples/pixel)\n",
				pr.id, pass, time.Since(startTime), stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.maxSamples()
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				return
			}

			if isLast {
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage builds a full-frame snapshot and its statistics from
// the shared accumulators.
func (pr *ProgressiveRenderer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))

	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			ps := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, pr.raytracer.pixelColor(ps))

			stats.TotalSamples += ps.SampleCount
			stats.MinSamples = min(stats.MinSamples, ps.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, ps.SampleCount)
		}
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)

	return img, stats
}
