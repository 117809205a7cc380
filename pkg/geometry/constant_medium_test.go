package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestConstantMedium_FreeFlightDistance(t *testing.T) {
	// A huge, thin medium: every ray scatters inside, at an exponential distance
	boundary := NewSphere(core.Vec3{}, 1000, gray)
	density := 0.5
	medium := NewConstantMedium(boundary, density, core.NewVec3(1, 1, 1))
	sampler := core.NewSeededSampler(42)

	ray := core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0))
	distances := make([]float64, 0, 20000)
	for i := 0; i < 20000; i++ {
		hit, ok := medium.Hit(ray, 0.001, math.Inf(1), sampler)
		require.True(t, ok)
		distances = append(distances, hit.T)

		assert.True(t, hit.FrontFace)
		assert.Equal(t, core.NewVec3(1, 0, 0), hit.Normal)
		assert.IsType(t, &material.Isotropic{}, hit.Material)
	}

	// Starting inside, t0 clamps to tMin so the mean is tMin + 1/density
	assert.InDelta(t, 0.001+1/density, stat.Mean(distances, nil), 0.05)
}

func TestConstantMedium_DenseBoxAlwaysScatters(t *testing.T) {
	medium := NewConstantMedium(NewBox(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1), gray), 1e6, core.NewVec3(0.2, 0.4, 0.9))
	sampler := core.NewSeededSampler(1)
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	for i := 0; i < 100; i++ {
		hit, ok := medium.Hit(ray, 0.001, math.Inf(1), sampler)
		require.True(t, ok)
		assert.InDelta(t, 4, hit.T, 1e-4, "dense medium scatters right at the boundary")
	}
}

func TestConstantMedium_RayStartingOnBoundaryFace(t *testing.T) {
	// Floor bounces under the Cornell smoke boxes start exactly on the bottom face
	medium := NewConstantMedium(NewBox(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), gray), 1e6, core.NewVec3(1, 1, 1))
	sampler := core.NewSeededSampler(3)
	ray := core.NewRay(core.NewVec3(0.5, 0, 0.5), core.NewVec3(0, 1, 0))

	for i := 0; i < 100; i++ {
		hit, ok := medium.Hit(ray, 0.001, math.Inf(1), sampler)
		require.True(t, ok)
		assert.InDelta(t, 0.001, hit.T, 1e-4)
	}
}

func TestConstantMedium_Misses(t *testing.T) {
	medium := NewConstantMedium(NewSphere(core.Vec3{}, 1, gray), 1, core.NewVec3(1, 1, 1))
	sampler := core.NewSeededSampler(2)

	// Ray that never meets the boundary
	_, ok := medium.Hit(core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(1, 0, 0)), 0.001, math.Inf(1), sampler)
	assert.False(t, ok)

	// Boundary entirely behind the ray's interval
	_, ok = medium.Hit(core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0)), 0.001, 2, sampler)
	assert.False(t, ok)

	// Zero density is transparent
	clear := NewConstantMedium(NewSphere(core.Vec3{}, 1, gray), 0, core.NewVec3(1, 1, 1))
	for i := 0; i < 100; i++ {
		_, ok := clear.Hit(core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0)), 0.001, math.Inf(1), sampler)
		assert.False(t, ok)
	}
}

func TestConstantMedium_BoxAndSampling(t *testing.T) {
	medium := NewConstantMedium(NewSphere(core.NewVec3(1, 2, 3), 2, gray), 1, core.NewVec3(1, 1, 1))
	box, ok := medium.BoundingBox(0, 1)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(-1, 0, 1), box.Min)
	assert.Equal(t, core.NewVec3(3, 4, 5), box.Max)
	assert.Zero(t, medium.PDFValue(core.Vec3{}, core.NewVec3(1, 2, 3)))
}
