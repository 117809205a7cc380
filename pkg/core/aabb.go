package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that acts as the identity for Union.
// It only exists as a fold accumulator and must not be stored on a shape.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: NewVec3(inf, inf, inf),
		Max: NewVec3(-inf, -inf, -inf),
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	box := AABB{Min: points[0], Max: points[0]}
	for _, point := range points[1:] {
		box.Min = box.Min.Min(point)
		box.Max = box.Max.Max(point)
	}
	return box
}

// Hit tests if a ray intersects with this AABB within [tMin, tMax] using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Component(axis)
		direction := ray.Direction.Component(axis)
		if math.IsNaN(origin) || math.IsNaN(direction) {
			return false
		}

		// A zero direction gives ±Inf here: a parallel ray inside the slab keeps the
		// full interval, one outside collapses it.
		invDirection := 1.0 / direction
		t0 := (aabb.Min.Component(axis) - origin) * invDirection
		t1 := (aabb.Max.Component(axis) - origin) * invDirection
		if invDirection < 0 {
			t0, t1 = t1, t0
		}

		// 0*Inf: parallel ray lying exactly on a slab face counts as inside
		if math.IsNaN(t0) {
			t0 = math.Inf(-1)
		}
		if math.IsNaN(t1) {
			t1 = math.Inf(1)
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return false
		}
	}

	return true
}

// SurroundingBox returns the smallest box containing both a and b
func SurroundingBox(a, b AABB) AABB {
	return AABB{
		Min: a.Min.Min(b.Min),
		Max: a.Max.Max(b.Max),
	}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return SurroundingBox(aabb, other)
}

// Contains reports whether point lies inside the box (boundary inclusive)
func (aabb AABB) Contains(point Vec3) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y &&
		point.Z >= aabb.Min.Z && point.Z <= aabb.Max.Z
}

// ContainsBox reports whether other lies entirely inside this box
func (aabb AABB) ContainsBox(other AABB) bool {
	return aabb.Contains(other.Min) && aabb.Contains(other.Max)
}

// Corners returns the 8 corners of the box
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := 0; i < 8; i++ {
		corners[i] = NewVec3(
			pick(i&1 != 0, aabb.Max.X, aabb.Min.X),
			pick(i&2 != 0, aabb.Max.Y, aabb.Min.Y),
			pick(i&4 != 0, aabb.Max.Z, aabb.Min.Z),
		)
	}
	return corners
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// Translate returns the box moved by offset
func (aabb AABB) Translate(offset Vec3) AABB {
	return AABB{Min: aabb.Min.Add(offset), Max: aabb.Max.Add(offset)}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}
