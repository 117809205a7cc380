package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// reorient recomputes the front-facing normal of a child hit against the world ray.
// The child stored a normal facing its own ray, so the outward normal is recovered first.
func reorient(hit *material.HitRecord, ray core.Ray) {
	outward := hit.Normal
	if !hit.FrontFace {
		outward = outward.Negate()
	}
	hit.SetFaceNormal(ray, outward)
}

// Translate moves an object by a fixed offset
type Translate struct {
	Object Hittable
	Offset core.Vec3
}

// NewTranslate wraps object so it appears displaced by offset
func NewTranslate(object Hittable, offset core.Vec3) *Translate {
	return &Translate{Object: object, Offset: offset}
}

// Hit intersects the object with the ray moved into object space
func (t *Translate) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	moved := core.NewRayAt(ray.Origin.Subtract(t.Offset), ray.Direction, ray.Time)
	hit, ok := t.Object.Hit(moved, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}

	hit.Point = hit.Point.Add(t.Offset)
	reorient(hit, ray)
	return hit, true
}

// BoundingBox returns the object's box shifted by the offset
func (t *Translate) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	box, ok := t.Object.BoundingBox(time0, time1)
	if !ok {
		return core.AABB{}, false
	}
	return box.Translate(t.Offset), true
}

// PDFValue evaluates the object's density from the origin moved into object space
func (t *Translate) PDFValue(origin, direction core.Vec3) float64 {
	return t.Object.PDFValue(origin.Subtract(t.Offset), direction)
}

// Random samples a direction toward the object from the origin moved into object space
func (t *Translate) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return t.Object.Random(origin.Subtract(t.Offset), sampler)
}

func (*Translate) isHittable() {}

// RotateY rotates an object about the Y axis
type RotateY struct {
	Object   Hittable
	sinTheta float64
	cosTheta float64
	box      core.AABB
	hasBox   bool
}

// NewRotateY wraps object rotated by angle degrees about +Y
func NewRotateY(object Hittable, angle float64) *RotateY {
	radians := angle * math.Pi / 180
	r := &RotateY{
		Object:   object,
		sinTheta: math.Sin(radians),
		cosTheta: math.Cos(radians),
	}

	box, ok := object.BoundingBox(0, 1)
	r.hasBox = ok
	if ok {
		corners := box.Corners()
		rotated := make([]core.Vec3, len(corners))
		for i, corner := range corners {
			rotated[i] = r.toWorld(corner)
		}
		r.box = core.NewAABBFromPoints(rotated...)
	}
	return r
}

// toObject rotates a world-space vector by -θ
func (r *RotateY) toObject(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		r.cosTheta*v.X-r.sinTheta*v.Z,
		v.Y,
		r.sinTheta*v.X+r.cosTheta*v.Z,
	)
}

// toWorld rotates an object-space vector by +θ
func (r *RotateY) toWorld(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		r.cosTheta*v.X+r.sinTheta*v.Z,
		v.Y,
		-r.sinTheta*v.X+r.cosTheta*v.Z,
	)
}

// Hit intersects the object with the ray rotated into object space
func (r *RotateY) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	rotated := core.NewRayAt(r.toObject(ray.Origin), r.toObject(ray.Direction), ray.Time)
	hit, ok := r.Object.Hit(rotated, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}

	hit.Point = r.toWorld(hit.Point)
	hit.Normal = r.toWorld(hit.Normal)
	reorient(hit, ray)
	return hit, true
}

// BoundingBox returns the box around the eight rotated corners of the object's box
func (r *RotateY) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return r.box, r.hasBox
}

// PDFValue evaluates the object's density for the origin and direction rotated into object space
func (r *RotateY) PDFValue(origin, direction core.Vec3) float64 {
	return r.Object.PDFValue(r.toObject(origin), r.toObject(direction))
}

// Random samples a direction in object space and rotates it back to world space
func (r *RotateY) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return r.toWorld(r.Object.Random(r.toObject(origin), sampler))
}

func (*RotateY) isHittable() {}

// FlipFace reverses which side of its object counts as the front.
// Used to make one-sided lights face the other way.
type FlipFace struct {
	Object Hittable
}

// NewFlipFace wraps object with its front face inverted
func NewFlipFace(object Hittable) *FlipFace {
	return &FlipFace{Object: object}
}

// Hit returns the object's hit with FrontFace inverted
func (f *FlipFace) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	hit, ok := f.Object.Hit(ray, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}
	hit.FrontFace = !hit.FrontFace
	return hit, true
}

// BoundingBox is the object's box
func (f *FlipFace) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return f.Object.BoundingBox(time0, time1)
}

// PDFValue is the object's density, which does not depend on orientation
func (f *FlipFace) PDFValue(origin, direction core.Vec3) float64 {
	return f.Object.PDFValue(origin, direction)
}

// Random samples a direction toward the object
func (f *FlipFace) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return f.Object.Random(origin, sampler)
}

func (*FlipFace) isHittable() {}
