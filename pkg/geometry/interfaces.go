package geometry

import (
	"errors"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

var (
	// ErrEmptyBVH is returned when a BVH is built from no objects
	ErrEmptyBVH = errors.New("bvh: no objects")
	// ErrNoBoundingBox is returned when a BVH member cannot be bounded
	ErrNoBoundingBox = errors.New("bvh: object has no bounding box")
)

// Hittable is anything a ray can intersect. Every hittable can also be used as
// a sampling target; shapes that cannot be sampled report zero density.
// The set of hittables is closed; all implementations live in this package.
type Hittable interface {
	// Hit returns the closest intersection with t in [tMin, tMax].
	// The sampler is only consumed by participating media.
	Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool)

	// BoundingBox returns a box enclosing the object over the shutter interval,
	// or false if the object is unbounded
	BoundingBox(time0, time1 float64) (core.AABB, bool)

	pdf.Target
	isHittable()
}

// unsampled supplies the Target methods for hittables that cannot be light-sampled
type unsampled struct{}

func (unsampled) PDFValue(origin, direction core.Vec3) float64 {
	return 0
}

func (unsampled) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return core.NewVec3(1, 0, 0)
}

func (unsampled) cannotSample() {}

// CanSample reports whether h gives a usable light-sampling density.
// Wrappers and lists can sample only when everything they contain can.
func CanSample(h Hittable) bool {
	switch obj := h.(type) {
	case interface{ cannotSample() }:
		return false
	case *Translate:
		return CanSample(obj.Object)
	case *RotateY:
		return CanSample(obj.Object)
	case *FlipFace:
		return CanSample(obj.Object)
	case *HittableList:
		if obj.Len() == 0 {
			return false
		}
		for _, child := range obj.Objects {
			if !CanSample(child) {
				return false
			}
		}
	}
	return true
}

// Shadow ray epsilon used when a target checks whether a direction reaches it
const targetEpsilon = 0.001
