package renderer

import (
	"image"
)

// Tile is a rectangular region of the image. Tiles only partition the work;
// pixel seeding is position-based, so tile shape and scheduling never change
// the rendered result.
type Tile struct {
	ID              int
	Bounds          image.Rectangle
	PassesCompleted int
}

// NewTileGrid covers the image with tiles of the given size, clipping the
// right and bottom edges.
func NewTileGrid(width, height, tileSize int) []*Tile {
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	var tiles []*Tile
	id := 0
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tileSize
			y0 := ty * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)
			tiles = append(tiles, &Tile{ID: id, Bounds: image.Rect(x0, y0, x1, y1)})
			id++
		}
	}
	return tiles
}

// RenderTileBounds advances every pixel inside bounds to targetSamples,
// writing into the shared stats array. Bounds never overlap between
// concurrent calls, so no locking is needed on the array.
func (rt *Raytracer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, targetSamples int) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			used := rt.SamplePixel(x, y, &pixelStats[y][x], targetSamples)
			stats.TotalSamples += used
			stats.MinSamples = min(stats.MinSamples, used)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, used)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return stats
}
