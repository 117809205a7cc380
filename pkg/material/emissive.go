package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// DiffuseLight is a one-sided area light material
type DiffuseLight struct {
	Emission ColorSource // Emitted light color/intensity
}

// NewDiffuseLight creates a light emitting a constant color
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emission: NewSolidColor(emission)}
}

// NewTexturedDiffuseLight creates a light whose emission varies over the surface
func NewTexturedDiffuseLight(emission ColorSource) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// Scatter never scatters: lights absorb every incoming ray
func (e *DiffuseLight) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterRecord, bool) {
	return ScatterRecord{}, false
}

// ScatteringPDF is zero since lights never scatter
func (e *DiffuseLight) ScatteringPDF(rayIn core.Ray, hit HitRecord, scattered core.Ray) float64 {
	return 0
}

// Emitted returns the emission on the front face and black on the back face
func (e *DiffuseLight) Emitted(rayIn core.Ray, hit HitRecord) core.Vec3 {
	if !hit.FrontFace {
		return core.Vec3{}
	}
	return e.Emission.Evaluate(hit.UV, hit.Point)
}

func (*DiffuseLight) isMaterial() {}
