package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3         // The three vertices, counter-clockwise seen from the front
	Material   material.Material // Material of the triangle
	edge1      core.Vec3
	edge2      core.Vec3
	normal     core.Vec3 // Cached unit normal
	area       float64
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
		edge1:    v1.Subtract(v0),
		edge2:    v2.Subtract(v0),
	}

	cross := t.edge1.Cross(t.edge2)
	t.area = cross.Length() / 2
	if t.area > 0 {
		t.normal = cross.Divide(2 * t.area)
	}
	return t
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm.
// UV holds the barycentric coordinates of V1 and V2.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	const epsilon = 1e-12

	h := ray.Direction.Cross(t.edge2)
	a := t.edge1.Dot(h)

	// Ray lies in the plane of the triangle, or the triangle is degenerate
	if math.Abs(a) < epsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return nil, false
	}

	q := s.Cross(t.edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return nil, false
	}

	hitT := f * t.edge2.Dot(q)
	if hitT < tMin || hitT > tMax {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        hitT,
		Point:    ray.At(hitT),
		UV:       core.NewVec2(u, v),
		Material: t.Material,
	}
	hitRecord.SetFaceNormal(ray, t.normal)
	return hitRecord, true
}

// BoundingBox returns the box around the vertices, padded so axis-aligned triangles have volume
func (t *Triangle) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	box := core.NewAABBFromPoints(t.V0, t.V1, t.V2)
	pad := core.NewVec3(rectPadding, rectPadding, rectPadding)
	return core.NewAABB(box.Min.Subtract(pad), box.Max.Add(pad)), true
}

// Normal returns the triangle's unit normal, zero for a degenerate triangle
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Area returns the triangle's surface area
func (t *Triangle) Area() float64 {
	return t.area
}

// PDFValue converts the uniform area density to solid angle: dist²/(|cosθ|·area)
func (t *Triangle) PDFValue(origin, direction core.Vec3) float64 {
	hit, ok := t.Hit(core.NewRay(origin, direction), targetEpsilon, math.Inf(1), nil)
	if !ok || t.area == 0 {
		return 0
	}

	length := direction.Length()
	distanceSquared := hit.T * hit.T * length * length
	cosine := math.Abs(direction.Dot(t.normal)) / length
	if cosine == 0 {
		return 0
	}
	return distanceSquared / (cosine * t.area)
}

// Random returns the direction from origin to a uniform point on the triangle
func (t *Triangle) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	s := sampler.Get2D()
	// Fold the unit square onto the triangle
	u, v := s.X, s.Y
	if u+v > 1 {
		u, v = 1-u, 1-v
	}
	point := t.V0.Add(t.edge1.Multiply(u)).Add(t.edge2.Multiply(v))
	return point.Subtract(origin)
}

func (*Triangle) isHittable() {}
