package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestTranslate(t *testing.T) {
	sphere := NewSphere(core.Vec3{}, 1, gray)
	moved := NewTranslate(sphere, core.NewVec3(10, 0, 0))

	ray := core.NewRay(core.NewVec3(10, 0, 5), core.NewVec3(0, 0, -1))
	hit, ok := moved.Hit(ray, 0.001, math.Inf(1), nil)
	require.True(t, ok)
	assert.InDelta(t, 4, hit.T, 1e-12)
	assertVecNear(t, core.NewVec3(10, 0, 1), hit.Point, 1e-12)
	assertVecNear(t, core.NewVec3(0, 0, 1), hit.Normal, 1e-12)
	assert.True(t, hit.FrontFace)

	_, ok = moved.Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	assert.False(t, ok)

	box, ok := moved.BoundingBox(0, 1)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(9, -1, -1), box.Min)
	assert.Equal(t, core.NewVec3(11, 1, 1), box.Max)
}

func TestTranslate_KeepsBackFace(t *testing.T) {
	moved := NewTranslate(NewSphere(core.Vec3{}, 1, gray), core.NewVec3(0, 3, 0))

	// From inside the translated sphere the hit is on the back face
	ray := core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(1, 0, 0))
	hit, ok := moved.Hit(ray, 0.001, math.Inf(1), nil)
	require.True(t, ok)
	assert.False(t, hit.FrontFace)
	assertVecNear(t, core.NewVec3(-1, 0, 0), hit.Normal, 1e-12)
}

func TestRotateY(t *testing.T) {
	// A box spanning x in [0, 2] rotated 90° about Y ends up spanning z in [-2, 0]
	box := NewBox(core.NewVec3(0, 0, -0.5), core.NewVec3(2, 1, 0.5), gray)
	rotated := NewRotateY(box, 90)

	bbox, ok := rotated.BoundingBox(0, 1)
	require.True(t, ok)
	assertVecNear(t, core.NewVec3(-0.5, 0, -2), bbox.Min, 1e-9)
	assertVecNear(t, core.NewVec3(0.5, 1, 0), bbox.Max, 1e-9)

	// A ray down the -Z side hits the rotated box
	ray := core.NewRay(core.NewVec3(0, 0.5, -5), core.NewVec3(0, 0, 1))
	hit, ok := rotated.Hit(ray, 0.001, math.Inf(1), nil)
	require.True(t, ok)
	assert.InDelta(t, 3, hit.T, 1e-9)
	assertVecNear(t, core.NewVec3(0, 0.5, -2), hit.Point, 1e-9)
	assertVecNear(t, core.NewVec3(0, 0, -1), hit.Normal, 1e-9)
	assert.True(t, hit.FrontFace)

	// Where the unrotated box was, there is nothing now
	_, ok = rotated.Hit(core.NewRay(core.NewVec3(1.5, 0.5, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	assert.False(t, ok)
}

func TestRotateY_ForwardsLightSampling(t *testing.T) {
	light := NewXZRect(-1, 1, -1, 1, 1, gray)
	rotated := NewRotateY(light, 45)
	origin := core.Vec3{}

	// Straight up is unaffected by a rotation about Y
	assert.InDelta(t, light.PDFValue(origin, core.NewVec3(0, 1, 0)), rotated.PDFValue(origin, core.NewVec3(0, 1, 0)), 1e-12)

	sampler := core.NewSeededSampler(3)
	for i := 0; i < 200; i++ {
		direction := rotated.Random(origin, sampler)
		_, ok := rotated.Hit(core.NewRay(origin, direction), 0.001, math.Inf(1), nil)
		require.True(t, ok)
		assert.Greater(t, rotated.PDFValue(origin, direction), 0.0)
	}
}

func TestFlipFace(t *testing.T) {
	light := material.NewDiffuseLight(core.NewVec3(15, 15, 15))
	ceiling := NewFlipFace(NewXZRect(-1, 1, -1, 1, 2, light))

	// Looking up at the ceiling from below now sees the front face
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))
	hit, ok := ceiling.Hit(ray, 0.001, math.Inf(1), nil)
	require.True(t, ok)
	assert.True(t, hit.FrontFace)
	assert.Equal(t, core.NewVec3(15, 15, 15), hit.Material.Emitted(ray, *hit))

	// From above it is dark
	down := core.NewRay(core.NewVec3(0, 4, 0), core.NewVec3(0, -1, 0))
	hit, ok = ceiling.Hit(down, 0.001, math.Inf(1), nil)
	require.True(t, ok)
	assert.False(t, hit.FrontFace)
	assert.Equal(t, core.Vec3{}, hit.Material.Emitted(down, *hit))

	assert.InDelta(t, 0.25*4, ceiling.PDFValue(core.Vec3{}, core.NewVec3(0, 1, 0)), 1e-12)
}
