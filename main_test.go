package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracelab/go-path-tracer/pkg/core"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name      string
		sceneType string
		wantErr   bool
	}{
		{"default scene", "default", false},
		{"orbit scene", "orbit", false},
		{"unknown scene", "cornell", true},
		{"empty scene", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world, err := createScene(tt.sceneType, 0)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, world)
		})
	}
}

func TestParseMode(t *testing.T) {
	mode, err := parseMode("pathtrace")
	require.NoError(t, err)
	assert.Equal(t, core.ModePathTracing, mode)

	mode, err = parseMode("normals")
	require.NoError(t, err)
	assert.Equal(t, core.ModeNormals, mode)

	_, err = parseMode("wireframe")
	assert.Error(t, err)
}

func TestBuildUniforms(t *testing.T) {
	u, err := buildUniforms(400, 300, 16, 4, "pathtrace", 0.5, 8, 1.5, 7, 2.5)
	require.NoError(t, err)

	assert.Equal(t, uint32(7), u.Seed)
	assert.Equal(t, uint32(16), u.Samples)
	assert.Equal(t, uint32(4), u.Bounces)
	assert.Equal(t, core.ModePathTracing, u.Mode)
	assert.Equal(t, float32(0.5), u.Aperture)
	assert.Equal(t, float32(8), u.FocalLength)
	assert.Equal(t, float32(1.5), u.Exposure)
	assert.Equal(t, float32(2.5), u.Time)

	// The camera sits behind the origin looking down +Z
	pos := u.Position()
	assert.InDelta(t, 0, float64(pos.X()), 1e-6)
	assert.InDelta(t, 0, float64(pos.Y()), 1e-6)
	assert.InDelta(t, -4, float64(pos.Z()), 1e-6)
}

func TestBuildUniformsPicksSeed(t *testing.T) {
	u, err := buildUniforms(64, 64, 1, 1, "normals", 0, 4, 1, 0, 0)
	require.NoError(t, err)
	assert.NotZero(t, u.Seed, "a zero seed flag should be replaced with clock entropy")
}

func TestBuildUniformsRejectsBadInput(t *testing.T) {
	_, err := buildUniforms(0, 300, 16, 4, "pathtrace", 0, 4, 1, 1, 0)
	assert.Error(t, err, "zero width")

	_, err = buildUniforms(400, -1, 16, 4, "pathtrace", 0, 4, 1, 1, 0)
	assert.Error(t, err, "negative height")

	_, err = buildUniforms(400, 300, 16, 4, "slices", 0, 4, 1, 1, 0)
	assert.Error(t, err, "unknown mode")

	_, err = buildUniforms(400, 300, 16, 4, "pathtrace", -0.5, 4, 1, 1, 0)
	assert.Error(t, err, "negative aperture fails validation")
}

func TestCreateOutputDir(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(origDir)

	dir, err := createOutputDir("default")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("output", "default"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on an existing directory
	_, err = createOutputDir("default")
	assert.NoError(t, err)
}
