package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Half-thickness given to rectangle bounding boxes along their fixed axis
const rectPadding = 1e-4

// aaRect is a rectangle perpendicular to axis k, spanning [a0,a1]×[b0,b1] on axes a and b.
// Its outward normal is +k.
type aaRect struct {
	a0, a1, b0, b1, k float64
	axisA, axisB      int
	axisK             int
	Material          material.Material
}

func (r *aaRect) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	t := (r.k - ray.Origin.Component(r.axisK)) / ray.Direction.Component(r.axisK)
	// Parallel rays give ±Inf, or NaN when the ray lies in the plane
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return nil, false
	}
	if t < tMin || t > tMax {
		return nil, false
	}

	a := ray.Origin.Component(r.axisA) + t*ray.Direction.Component(r.axisA)
	b := ray.Origin.Component(r.axisB) + t*ray.Direction.Component(r.axisB)
	if a < r.a0 || a > r.a1 || b < r.b0 || b > r.b1 {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    ray.At(t),
		UV:       core.NewVec2((a-r.a0)/(r.a1-r.a0), (b-r.b0)/(r.b1-r.b0)),
		Material: r.Material,
	}
	hitRecord.SetFaceNormal(ray, core.Vec3{}.WithComponent(r.axisK, 1))
	return hitRecord, true
}

func (r *aaRect) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	lo := core.Vec3{}.
		WithComponent(r.axisA, r.a0).
		WithComponent(r.axisB, r.b0).
		WithComponent(r.axisK, r.k-rectPadding)
	hi := core.Vec3{}.
		WithComponent(r.axisA, r.a1).
		WithComponent(r.axisB, r.b1).
		WithComponent(r.axisK, r.k+rectPadding)
	return core.NewAABB(lo, hi), true
}

// Area returns the rectangle's surface area
func (r *aaRect) Area() float64 {
	return (r.a1 - r.a0) * (r.b1 - r.b0)
}

// PDFValue converts the uniform area density to solid angle: dist²/(|cosθ|·area)
func (r *aaRect) PDFValue(origin, direction core.Vec3) float64 {
	hit, ok := r.Hit(core.NewRay(origin, direction), targetEpsilon, math.Inf(1), nil)
	if !ok {
		return 0
	}

	length := direction.Length()
	distanceSquared := hit.T * hit.T * length * length
	cosine := math.Abs(direction.Dot(hit.Normal)) / length
	if cosine == 0 {
		return 0
	}
	return distanceSquared / (cosine * r.Area())
}

// Random returns the direction from origin to a uniform point on the rectangle
func (r *aaRect) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	s := sampler.Get2D()
	point := core.Vec3{}.
		WithComponent(r.axisA, r.a0+s.X*(r.a1-r.a0)).
		WithComponent(r.axisB, r.b0+s.Y*(r.b1-r.b0)).
		WithComponent(r.axisK, r.k)
	return point.Subtract(origin)
}

func (*aaRect) isHittable() {}

// XYRect is a rectangle in the plane z = k facing +Z
type XYRect struct{ aaRect }

// NewXYRect creates a rectangle spanning [x0,x1]×[y0,y1] at z = k
func NewXYRect(x0, x1, y0, y1, k float64, mat material.Material) *XYRect {
	return &XYRect{aaRect{a0: x0, a1: x1, b0: y0, b1: y1, k: k, axisA: 0, axisB: 1, axisK: 2, Material: mat}}
}

// XZRect is a rectangle in the plane y = k facing +Y
type XZRect struct{ aaRect }

// NewXZRect creates a rectangle spanning [x0,x1]×[z0,z1] at y = k
func NewXZRect(x0, x1, z0, z1, k float64, mat material.Material) *XZRect {
	return &XZRect{aaRect{a0: x0, a1: x1, b0: z0, b1: z1, k: k, axisA: 0, axisB: 2, axisK: 1, Material: mat}}
}

// YZRect is a rectangle in the plane x = k facing +X
type YZRect struct{ aaRect }

// NewYZRect creates a rectangle spanning [y0,y1]×[z0,z1] at x = k
func NewYZRect(y0, y1, z0, z1, k float64, mat material.Material) *YZRect {
	return &YZRect{aaRect{a0: y0, a1: y1, b0: z0, b1: z1, k: k, axisA: 1, axisB: 2, axisK: 0, Material: mat}}
}
