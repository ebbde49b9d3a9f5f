package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tracelab/go-path-tracer/pkg/core"
	"github.com/tracelab/go-path-tracer/pkg/integrator"
	"github.com/tracelab/go-path-tracer/pkg/renderer"
	"github.com/tracelab/go-path-tracer/pkg/scene"
)

func main() {
	sceneType := flag.String("scene", "default", "Scene type: 'default' or 'orbit'")
	width := flag.Int("width", 400, "Image width in pixels")
	height := flag.Int("height", 300, "Image height in pixels")
	samples := flag.Uint("samples", 64, "Samples per pixel")
	bounces := flag.Uint("bounces", 3, "Maximum bounces per path")
	mode := flag.String("mode", "pathtrace", "Render mode: 'pathtrace' or 'normals'")
	aperture := flag.Float64("aperture", 0, "Lens aperture diameter (0 disables depth of field)")
	focalLength := flag.Float64("focal-length", 4, "Distance to the plane of perfect focus")
	exposure := flag.Float64("exposure", 1, "Exposure multiplier applied to output radiance")
	seed := flag.Uint("seed", 0, "Frame seed (0 picks one from the clock)")
	frameTime := flag.Float64("time", 0, "Frame time in seconds, used by animated scenes")
	passes := flag.Int("passes", 5, "Number of progressive passes")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Progressive Path Tracer")
		fmt.Println("Usage: pathtracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default - Ground plane with three spheres")
		fmt.Println("  orbit   - Spheres orbiting the origin, driven by -time")
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene_type>/render_<timestamp>.png")
		return
	}

	uniforms, err := buildUniforms(*width, *height, uint32(*samples), uint32(*bounces),
		*mode, float32(*aperture), float32(*focalLength), float32(*exposure),
		uint32(*seed), float32(*frameTime))
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	world, err := createScene(*sceneType, uniforms.Time)
	if err != nil {
		fmt.Printf("Error creating scene: %v\n", err)
		os.Exit(1)
	}

	outputDir, err := createOutputDir(*sceneType)
	if err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = *passes

	pr := renderer.NewProgressiveRenderer(&uniforms, world, *width, *height,
		integrator.DefaultConfig(), config, renderer.NewDefaultLogger())

	startTime := time.Now()
	passChan, _, errChan := pr.RenderProgressive(context.Background(), renderer.RenderOptions{})

	var final renderer.PassResult
	for pass := range passChan {
		final = pass
	}
	if err := <-errChan; err != nil {
		fmt.Printf("Render failed: %v\n", err)
		os.Exit(1)
	}
	if final.Image == nil {
		fmt.Println("Render produced no passes; check -passes")
		os.Exit(1)
	}

	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Samples per pixel: %.1f average (range %d to %d)\n",
		final.Stats.AverageSamples, final.Stats.MinSamples, final.Stats.MaxSamplesUsed)

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Error creating file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	if err := png.Encode(file, final.Image); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// buildUniforms assembles and validates the frame's uniform block from the
// command line options, the way a host application would before a frame.
func buildUniforms(width, height int, samples, bounces uint32, mode string,
	aperture, focalLength, exposure float32, seed uint32, frameTime float32) (core.Uniforms, error) {

	if width <= 0 || height <= 0 {
		return core.Uniforms{}, fmt.Errorf("image size %dx%d must be positive", width, height)
	}

	modeValue, err := parseMode(mode)
	if err != nil {
		return core.Uniforms{}, err
	}

	if seed == 0 {
		// Fresh entropy per frame unless the caller pinned a seed
		seed = uint32(time.Now().UnixNano())
	}

	u := core.DefaultUniforms()
	u.Seed = seed
	u.Samples = samples
	u.Bounces = bounces
	u.Mode = modeValue
	u.FocalLength = focalLength
	u.Aperture = aperture
	u.Exposure = exposure
	u.Time = frameTime

	aspect := float32(width) / float32(height)
	renderer.SetCameraTransform(&u,
		mgl32.Vec3{0, 0, -4}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0},
		60, aspect, 0.01, 100)

	if err := u.Validate(); err != nil {
		return core.Uniforms{}, err
	}
	return u, nil
}

// parseMode maps a mode name to its uniform value.
func parseMode(mode string) (uint32, error) {
	switch mode {
	case "pathtrace":
		return core.ModePathTracing, nil
	case "normals":
		return core.ModeNormals, nil
	default:
		return 0, fmt.Errorf("unknown render mode %q", mode)
	}
}

// createScene builds the tracer for the named scene.
func createScene(sceneType string, frameTime float32) (core.Tracer, error) {
	switch sceneType {
	case "default":
		return scene.NewDefaultScene(), nil
	case "orbit":
		return scene.NewOrbitScene(frameTime), nil
	default:
		return nil, fmt.Errorf("unknown scene type %q", sceneType)
	}
}

// createOutputDir ensures the per-scene output directory exists.
func createOutputDir(sceneType string) (string, error) {
	dir := filepath.Join("output", sceneType)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
