package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Step past the entry point when searching for the exit of the boundary
const mediumExitEpsilon = 1e-4

// ConstantMedium is a homogeneous participating medium such as smoke or fog
// filling a closed boundary
type ConstantMedium struct {
	unsampled
	Boundary      Hittable
	Density       float64
	PhaseFunction material.Material
}

// NewConstantMedium fills boundary with a medium of the given density and color
func NewConstantMedium(boundary Hittable, density float64, albedo core.Vec3) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		Density:       density,
		PhaseFunction: material.NewIsotropic(albedo),
	}
}

// NewTexturedConstantMedium fills boundary with a medium whose color comes from a texture
func NewTexturedConstantMedium(boundary Hittable, density float64, albedo material.ColorSource) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		Density:       density,
		PhaseFunction: material.NewTexturedIsotropic(albedo),
	}
}

// Hit samples a free-flight distance through the medium. The ray scatters
// inside when that distance is shorter than the path through the boundary.
func (m *ConstantMedium) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	enter, ok := m.Boundary.Hit(ray, math.Inf(-1), math.Inf(1), sampler)
	if !ok {
		return nil, false
	}
	exit, ok := m.Boundary.Hit(ray, enter.T+mediumExitEpsilon, math.Inf(1), sampler)
	if !ok {
		return nil, false
	}

	t0 := math.Max(enter.T, tMin)
	t1 := math.Min(exit.T, tMax)
	if t0 >= t1 {
		return nil, false
	}
	t0 = math.Max(t0, 0)

	rayLength := ray.Direction.Length()
	distanceInside := (t1 - t0) * rayLength

	// U in (0, 1] keeps the log finite
	u := 1 - sampler.Get1D()
	hitDistance := -math.Log(u) / m.Density
	// Negated so a NaN distance from a zero density counts as passing through
	if !(hitDistance <= distanceInside) {
		return nil, false
	}

	t := t0 + hitDistance/rayLength
	return &material.HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    core.NewVec3(1, 0, 0), // arbitrary
		FrontFace: true,                  // also arbitrary
		Material:  m.PhaseFunction,
	}, true
}

// BoundingBox is the boundary's box
func (m *ConstantMedium) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return m.Boundary.BoundingBox(time0, time1)
}

func (*ConstantMedium) isHittable() {}
