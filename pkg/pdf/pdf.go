// Package pdf provides the direction probability densities used to importance
// sample scattered rays: a cosine lobe, a uniform sphere, a density toward a
// sampleable target such as a light, and a mixture of two densities.
package pdf

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PDF is a probability density over directions.
// The set of implementations is closed; all of them live in this package.
type PDF interface {
	// Value returns the solid-angle density of direction
	Value(direction core.Vec3) float64
	// Generate draws a direction distributed according to the density
	Generate(sampler core.Sampler) core.Vec3

	isPDF()
}

// Target is something that can be sampled by direction from a point, typically a light
type Target interface {
	// PDFValue returns the solid-angle density of sampling direction from origin
	PDFValue(origin, direction core.Vec3) float64
	// Random returns a direction from origin toward a sampled point on the target
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// CosinePDF is a cosine-weighted hemisphere around a surface normal
type CosinePDF struct {
	uvw core.ONB
}

// NewCosinePDF creates a cosine density around normal
func NewCosinePDF(normal core.Vec3) *CosinePDF {
	return &CosinePDF{uvw: core.NewONBFromW(normal)}
}

// Value returns max(0, cosθ)/π
func (p *CosinePDF) Value(direction core.Vec3) float64 {
	cosine := direction.Normalize().Dot(p.uvw.W)
	if cosine <= 0 {
		return 0
	}
	return cosine / math.Pi
}

// Generate draws a cosine-weighted direction in the hemisphere around the normal
func (p *CosinePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.uvw.Local(core.SampleCosineDirection(sampler.Get2D()))
}

func (*CosinePDF) isPDF() {}

// SpherePDF is the uniform density over all directions
type SpherePDF struct{}

// NewSpherePDF creates a uniform sphere density
func NewSpherePDF() *SpherePDF {
	return &SpherePDF{}
}

// Value returns 1/4π for every direction
func (*SpherePDF) Value(direction core.Vec3) float64 {
	return 1 / (4 * math.Pi)
}

// Generate draws a uniform direction on the unit sphere
func (*SpherePDF) Generate(sampler core.Sampler) core.Vec3 {
	return core.SampleOnUnitSphere(sampler.Get2D())
}

func (*SpherePDF) isPDF() {}

// HittablePDF samples directions from an origin toward a target
type HittablePDF struct {
	origin core.Vec3
	target Target
}

// NewHittablePDF creates a density toward target as seen from origin
func NewHittablePDF(target Target, origin core.Vec3) *HittablePDF {
	return &HittablePDF{origin: origin, target: target}
}

// Value delegates to the target's own density
func (p *HittablePDF) Value(direction core.Vec3) float64 {
	return p.target.PDFValue(p.origin, direction)
}

// Generate delegates to the target's own sampling
func (p *HittablePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.target.Random(p.origin, sampler)
}

func (*HittablePDF) isPDF() {}

// MixturePDF picks between two densities with a fixed weight
type MixturePDF struct {
	p0, p1 PDF
	weight float64 // probability of sampling p0
}

// NewMixturePDF creates an even 50/50 mixture
func NewMixturePDF(p0, p1 PDF) *MixturePDF {
	return NewWeightedMixturePDF(p0, p1, 0.5)
}

// NewWeightedMixturePDF creates a mixture sampling p0 with probability weight,
// clamped to [0, 1]
func NewWeightedMixturePDF(p0, p1 PDF, weight float64) *MixturePDF {
	return &MixturePDF{p0: p0, p1: p1, weight: max(0, min(1, weight))}
}

// Value returns weight*p0 + (1-weight)*p1
func (p *MixturePDF) Value(direction core.Vec3) float64 {
	return p.weight*p.p0.Value(direction) + (1-p.weight)*p.p1.Value(direction)
}

// Generate samples p0 with probability weight, otherwise p1
func (p *MixturePDF) Generate(sampler core.Sampler) core.Vec3 {
	if sampler.Get1D() < p.weight {
		return p.p0.Generate(sampler)
	}
	return p.p1.Generate(sampler)
}

func (*MixturePDF) isPDF() {}
