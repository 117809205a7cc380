package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// skyBackground is the pale blue used by the outdoor scenes
var skyBackground = core.NewVec3(0.7, 0.8, 1.0)

// outdoorCamera is the camera shared by the sphere scenes, looking at the origin from (13, 2, 3)
func outdoorCamera() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:      core.NewVec3(13, 2, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        20.0,
		Time0:       0,
		Time1:       1,
	}
}

// NewRandomSpheresScene creates a checkered ground covered in a grid of small random spheres,
// some of them moving, around three large feature spheres
func NewRandomSpheresScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := outdoorCamera()
	cameraConfig.Aperture = 0.1
	cameraConfig.FocusDistance = 10.0

	s := newScene("random-spheres", cameraConfig, SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}, skyBackground, cameraOverrides)

	checker := material.NewCheckerTexture(core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(checker)))

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(b)+0.9*sampler.Get1D())
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				// Diffuse, bouncing upward during the shutter interval
				albedo := sampler.Get3D().MultiplyVec(sampler.Get3D())
				center1 := center.Add(core.NewVec3(0, core.SampleRange(sampler, 0, 0.5), 0))
				s.Add(geometry.NewMovingSphere(center, center1, 0, 1, 0.2, material.NewLambertian(albedo)))
			case chooseMat < 0.95:
				albedo := core.SampleVec3Range(sampler, 0.5, 1)
				fuzz := core.SampleRange(sampler, 0, 0.5)
				s.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				s.Add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	s.Add(geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)))
	s.Add(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))))
	s.Add(geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)))

	return s
}
