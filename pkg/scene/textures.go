package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// EarthTexturePath is the equirectangular image wrapped around the globe in the earth scene
var EarthTexturePath = "assets/earthmap.jpg"

// LoadImageTexture loads an image file as a texture
func LoadImageTexture(path string) (*material.ImageTexture, error) {
	imageData, err := loaders.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return material.NewImageTexture(imageData.Width, imageData.Height, imageData.Pixels), nil
}

// earthTexture returns the earth image, or a blue and green checkerboard when it cannot be loaded
func earthTexture() material.ColorSource {
	texture, err := LoadImageTexture(EarthTexturePath)
	if err != nil {
		return material.NewCheckerboardTexture(256, 128, 16,
			core.NewVec3(0.1, 0.2, 0.6), core.NewVec3(0.2, 0.5, 0.2))
	}
	return texture
}

// NewTwoPerlinSpheresScene creates a marbled ground and sphere textured with Perlin turbulence
func NewTwoPerlinSpheresScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	s := newScene("two-perlin-spheres", outdoorCamera(), SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}, skyBackground, cameraOverrides)

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, sampler))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble))
	s.Add(geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble))

	return s
}

// NewEarthScene creates a single globe textured with an image map
func NewEarthScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	s := newScene("earth", outdoorCamera(), SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}, skyBackground, cameraOverrides)

	globe := material.NewTexturedLambertian(earthTexture())
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 2, globe))

	return s
}

// NewSimpleLightScene creates the Perlin spheres lit only by a rectangular area light
func NewSimpleLightScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := outdoorCamera()
	cameraConfig.Center = core.NewVec3(26, 3, 6)
	cameraConfig.LookAt = core.NewVec3(0, 2, 0)

	s := newScene("simple-light", cameraConfig, SamplingConfig{
		SamplesPerPixel: 400,
		MaxDepth:        50,
	}, core.Vec3{}, cameraOverrides)

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, sampler))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble))
	s.Add(geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble))

	// The rectangle faces +Z, toward the spheres
	light := geometry.NewXYRect(3, 5, 1, 3, -2, material.NewDiffuseLight(core.NewVec3(4, 4, 4)))
	s.AddLight(light, light)

	return s
}
