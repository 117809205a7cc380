package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Material interface for surfaces and media that interact with rays.
// The set of materials is closed; all implementations live in this package.
type Material interface {
	// Scatter returns how an incoming ray leaves the hit point.
	// false means the ray was absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterRecord, bool)

	// ScatteringPDF is the density the material itself assigns to the scattered
	// direction. It must match what its PDF samples so the weights cancel.
	ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64

	// Emitted returns the light leaving the hit point. Non-emitters return black.
	Emitted(rayIn core.Ray, hit HitRecord) core.Vec3

	isMaterial()
}

// ScatterRecord contains the result of material scattering
type ScatterRecord struct {
	SpecularRay *core.Ray // Follow-up ray for specular paths, nil otherwise
	Attenuation core.Vec3 // Color attenuation
	PDF         pdf.PDF   // Direction density for non-specular paths, nil otherwise
}

// IsSpecular returns true if the scattered direction is deterministic and
// bypasses importance sampling
func (s ScatterRecord) IsSpecular() bool {
	return s.SpecularRay != nil
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the incoming ray
	T         float64   // Parameter t along the ray
	UV        core.Vec2 // Surface coordinates at the hit point
	FrontFace bool      // Whether the ray hit the outward-facing side
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// nonEmitter gives the black emission shared by every material that is not a light
type nonEmitter struct{}

func (nonEmitter) Emitted(rayIn core.Ray, hit HitRecord) core.Vec3 {
	return core.Vec3{}
}
