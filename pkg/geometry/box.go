package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Box is an axis-aligned box made up of 6 rectangles
type Box struct {
	Min, Max core.Vec3
	sides    *HittableList
}

// NewBox creates the box spanning the corners p0 and p1
func NewBox(p0, p1 core.Vec3, mat material.Material) *Box {
	lo := p0.Min(p1)
	hi := p0.Max(p1)

	sides := NewHittableList(
		NewXYRect(lo.X, hi.X, lo.Y, hi.Y, hi.Z, mat),
		NewXYRect(lo.X, hi.X, lo.Y, hi.Y, lo.Z, mat),
		NewXZRect(lo.X, hi.X, lo.Z, hi.Z, hi.Y, mat),
		NewXZRect(lo.X, hi.X, lo.Z, hi.Z, lo.Y, mat),
		NewYZRect(lo.Y, hi.Y, lo.Z, hi.Z, hi.X, mat),
		NewYZRect(lo.Y, hi.Y, lo.Z, hi.Z, lo.X, mat),
	)

	return &Box{Min: lo, Max: hi, sides: sides}
}

// Hit returns the closest hit among the six faces
func (b *Box) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return b.sides.Hit(ray, tMin, tMax, sampler)
}

// BoundingBox returns the exact box extent
func (b *Box) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return core.NewAABB(b.Min, b.Max), true
}

// PDFValue averages the densities of the six faces
func (b *Box) PDFValue(origin, direction core.Vec3) float64 {
	return b.sides.PDFValue(origin, direction)
}

// Random samples a direction toward one of the six faces
func (b *Box) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return b.sides.Random(origin, sampler)
}

func (*Box) isHittable() {}
