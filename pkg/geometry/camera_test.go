package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-pathtracer/pkg/core"
)

func testCameraConfig() CameraConfig {
	return CameraConfig{
		Center:      core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 2.0,
		VFov:        90.0,
	}
}

func TestCameraGetCameraForward(t *testing.T) {
	camera := NewCamera(testCameraConfig())
	assertVecNear(t, core.NewVec3(0, 0, -1), camera.GetCameraForward(), 1e-12)
}

func TestCameraConfigHeight(t *testing.T) {
	assert.Equal(t, 200, testCameraConfig().Height())
	assert.Equal(t, 1, CameraConfig{Width: 1, AspectRatio: 16.0 / 9.0}.Height())
	assert.Equal(t, 10, CameraConfig{Width: 10}.Height())
}

func TestCameraGetRay_Corners(t *testing.T) {
	camera := NewCamera(testCameraConfig())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// 90° vertical fov at focus distance 1: the viewport is 4×2
	tests := []struct {
		name      string
		s, t      float64
		direction core.Vec3
	}{
		{"center", 0.5, 0.5, core.NewVec3(0, 0, -1)},
		{"bottom-left", 0, 0, core.NewVec3(-2, -1, -1)},
		{"top-right", 1, 1, core.NewVec3(2, 1, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := camera.GetRay(tt.s, tt.t, sampler)
			assertVecNear(t, core.Vec3{}, ray.Origin, 1e-12)
			assertVecNear(t, tt.direction, ray.Direction, 1e-9)
			assert.Zero(t, ray.Time)
		})
	}
}

func TestCameraGetRay_DefocusAndShutter(t *testing.T) {
	config := testCameraConfig()
	config.Aperture = 0.5
	config.FocusDistance = 3
	config.Time0, config.Time1 = 0.25, 0.75
	camera := NewCamera(config)
	sampler := core.NewSeededSampler(5)

	focusPoint := core.NewVec3(0, 0, -3)
	for i := 0; i < 200; i++ {
		ray := camera.GetRay(0.5, 0.5, sampler)

		// Rays leave from the lens disk
		assert.InDelta(t, 0, ray.Origin.Z, 1e-12)
		assert.LessOrEqual(t, math.Hypot(ray.Origin.X, ray.Origin.Y), 0.25+1e-12)

		// ...and all pass through the same point on the focus plane
		assertVecNear(t, focusPoint, ray.At(1), 1e-9)

		assert.GreaterOrEqual(t, ray.Time, 0.25)
		assert.Less(t, ray.Time, 0.75)
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := testCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{Width: 64, VFov: 30})

	assert.Equal(t, 64, merged.Width)
	assert.Equal(t, 30.0, merged.VFov)
	assert.Equal(t, base.Center, merged.Center)
	assert.Equal(t, base.LookAt, merged.LookAt)
	assert.Equal(t, base.AspectRatio, merged.AspectRatio)

	assert.Equal(t, base, MergeCameraConfig(base, CameraConfig{}))
}
