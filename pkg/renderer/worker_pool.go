package renderer

import (
	"runtime"
	"sync"
)

// TileTask is one unit of work for the pool: bring a tile up to the pass's
// sample target.
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int
	PixelStats    [][]PixelStats // shared accumulator, partitioned by tile bounds
}

// TileResult reports a finished tile.
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool renders tiles in parallel. Workers share one Raytracer: it holds
// only read-only frame state, and every pixel evaluation creates its own RNG
// session, so the pool adds no nondeterminism to the image.
type WorkerPool struct {
	raytracer   *Raytracer
	taskQueue   chan TileTask
	resultQueue chan TileResult
	numWorkers  int
	wg          sync.WaitGroup
}

// NewWorkerPool creates a pool sized to numWorkers, or the CPU count when
// numWorkers <= 0.
func NewWorkerPool(rt *Raytracer, width, height, tileSize, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	// Buffer both queues for the worst-case tile count so submission and
	// collection never block each other.
	maxTiles := ((width + tileSize - 1) / tileSize) * ((height + tileSize - 1) / tileSize)

	return &WorkerPool{
		raytracer:   rt,
		taskQueue:   make(chan TileTask, maxTiles),
		resultQueue: make(chan TileResult, maxTiles),
		numWorkers:  numWorkers,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop drains the pool: no further tasks are accepted, workers finish what is
// queued, then the result queue closes.
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues one tile.
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result, blocking until one is ready.
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers returns the pool size.
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) run() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		stats := wp.raytracer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, task.TargetSamples)
		wp.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}
	}
}
