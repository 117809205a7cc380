package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const (
	// rayEpsilon offsets secondary rays from the surface they leave
	rayEpsilon = 0.001
	// minPDF is the smallest mixture density a path may continue with
	minPDF = 1e-12
)

// PathTracingIntegrator implements unidirectional path tracing with a mixture of light
// sampling and material sampling at every diffuse bounce
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes the color for a single ray, following the path iteratively for at most
// MaxDepth intersections
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	world := s.Root()
	lights := s.LightTarget()

	radiance := core.Vec3{}
	throughput := core.NewVec3(1, 1, 1)

	for depth := pt.config.MaxDepth; depth > 0; depth-- {
		hit, isHit := world.Hit(ray, rayEpsilon, math.Inf(1), sampler)
		if !isHit {
			radiance = radiance.Add(throughput.MultiplyVec(s.Background))
			break
		}

		radiance = radiance.Add(throughput.MultiplyVec(hit.Material.Emitted(ray, *hit)))

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			break
		}

		if scatter.IsSpecular() {
			throughput = throughput.MultiplyVec(scatter.Attenuation)
			ray = *scatter.SpecularRay
			continue
		}

		scattered, weight, ok := pt.sampleScatter(ray, hit, scatter, lights, sampler)
		if !ok {
			break
		}
		throughput = throughput.MultiplyVec(scatter.Attenuation).Multiply(weight)
		ray = scattered
	}

	return finiteOrBlack(radiance)
}

// RayColorRecursive is the direct recursive form of RayColor. It consumes the sampler in the
// same order and returns the same estimate up to floating-point rounding.
func (pt *PathTracingIntegrator) RayColorRecursive(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	return finiteOrBlack(pt.rayColor(ray, s, s.Root(), s.LightTarget(), sampler, pt.config.MaxDepth))
}

func (pt *PathTracingIntegrator) rayColor(ray core.Ray, s *scene.Scene, world geometry.Hittable, lights pdf.Target, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, rayEpsilon, math.Inf(1), sampler)
	if !isHit {
		return s.Background
	}

	emitted := hit.Material.Emitted(ray, *hit)
	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return emitted
	}

	if scatter.IsSpecular() {
		incoming := pt.rayColor(*scatter.SpecularRay, s, world, lights, sampler, depth-1)
		return emitted.Add(scatter.Attenuation.MultiplyVec(incoming))
	}

	scattered, weight, ok := pt.sampleScatter(ray, hit, scatter, lights, sampler)
	if !ok {
		return emitted
	}
	incoming := pt.rayColor(scattered, s, world, lights, sampler, depth-1)
	return emitted.Add(scatter.Attenuation.MultiplyVec(incoming).Multiply(weight))
}

// sampleScatter draws the next direction from the mixture of light and material densities and
// returns the ray with its importance weight scatteringPDF/mixturePDF. ok is false when the
// density is too small or not finite to divide by.
func (pt *PathTracingIntegrator) sampleScatter(rayIn core.Ray, hit *material.HitRecord, scatter material.ScatterRecord, lights pdf.Target, sampler core.Sampler) (core.Ray, float64, bool) {
	density := scatter.PDF
	if lights != nil {
		density = pdf.NewMixturePDF(pdf.NewHittablePDF(lights, hit.Point), scatter.PDF)
	}

	direction := density.Generate(sampler)
	scattered := core.NewRayAt(hit.Point, direction, rayIn.Time)

	pdfValue := density.Value(direction)
	if math.IsNaN(pdfValue) || math.IsInf(pdfValue, 0) || pdfValue <= minPDF {
		return core.Ray{}, 0, false
	}

	scatteringPDF := hit.Material.ScatteringPDF(rayIn, *hit, scattered)
	return scattered, scatteringPDF / pdfValue, true
}

// finiteOrBlack discards samples poisoned by NaN or infinity
func finiteOrBlack(c core.Vec3) core.Vec3 {
	if !c.IsFinite() {
		return core.Vec3{}
	}
	return c
}
