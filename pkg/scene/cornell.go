package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Cornell box dimensions (standard 555x555x555 units)
const boxSize = 555.0

// cornellCamera looks into the open side of the box
func cornellCamera() geometry.CameraConfig {
	return geometry.CameraConfig{
		Center:      core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:      core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0,
		VFov:        40.0,
		Time0:       0,
		Time1:       1,
	}
}

type cornellMaterials struct {
	red, white, green material.Material
}

// newCornellRoom creates the five walls of the box and a ceiling light of the given size and power
func newCornellRoom(name string, light *geometry.XZRect, sampling SamplingConfig, overrides []geometry.CameraConfig) (*Scene, cornellMaterials) {
	s := newScene(name, cornellCamera(), sampling, core.Vec3{}, overrides)

	mats := cornellMaterials{
		red:   material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05)),
		white: material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73)),
		green: material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15)),
	}

	s.Add(geometry.NewYZRect(0, boxSize, 0, boxSize, boxSize, mats.green)) // Left wall, seen from the camera
	s.Add(geometry.NewYZRect(0, boxSize, 0, boxSize, 0, mats.red))
	// The light emits from its front face, which must point down into the room
	s.AddLight(geometry.NewFlipFace(light), light)
	s.Add(geometry.NewXZRect(0, boxSize, 0, boxSize, 0, mats.white))       // Floor
	s.Add(geometry.NewXZRect(0, boxSize, 0, boxSize, boxSize, mats.white)) // Ceiling
	s.Add(geometry.NewXYRect(0, boxSize, 0, boxSize, boxSize, mats.white)) // Back wall

	return s, mats
}

// tallBox returns the rotated 165x330x165 block at the back right
func tallBox(mat material.Material) geometry.Hittable {
	box := geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 330, 165), mat)
	return geometry.NewTranslate(geometry.NewRotateY(box, 15), core.NewVec3(265, 0, 295))
}

// shortBox returns the rotated 165 unit cube at the front left
func shortBox(mat material.Material) geometry.Hittable {
	box := geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(165, 165, 165), mat)
	return geometry.NewTranslate(geometry.NewRotateY(box, -18), core.NewVec3(130, 0, 65))
}

// NewCornellScene creates a classic Cornell box scene with two rotated blocks
func NewCornellScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	light := geometry.NewXZRect(213, 343, 227, 332, 554, material.NewDiffuseLight(core.NewVec3(15, 15, 15)))
	s, mats := newCornellRoom("cornell-box", light, SamplingConfig{
		SamplesPerPixel: 200,
		MaxDepth:        50,
	}, cameraOverrides)

	s.Add(tallBox(mats.white))
	s.Add(shortBox(mats.white))

	return s
}

// NewCornellSmokeScene creates the Cornell box with both blocks replaced by smoke, dark and light
func NewCornellSmokeScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	light := geometry.NewXZRect(113, 443, 127, 432, 554, material.NewDiffuseLight(core.NewVec3(7, 7, 7)))
	s, mats := newCornellRoom("cornell-smoke", light, SamplingConfig{
		SamplesPerPixel: 200,
		MaxDepth:        50,
	}, cameraOverrides)

	s.Add(geometry.NewConstantMedium(tallBox(mats.white), 0.01, core.NewVec3(0, 0, 0)))
	s.Add(geometry.NewConstantMedium(shortBox(mats.white), 0.01, core.NewVec3(1, 1, 1)))

	return s
}

// NewCornellGlassScene creates the Cornell box with an aluminium block and a glass sphere.
// The sphere is sampled as a light so caustics beneath it converge.
func NewCornellGlassScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	light := geometry.NewXZRect(213, 343, 227, 332, 554, material.NewDiffuseLight(core.NewVec3(15, 15, 15)))
	s, _ := newCornellRoom("cornell-glass", light, SamplingConfig{
		SamplesPerPixel: 200,
		MaxDepth:        50,
	}, cameraOverrides)

	aluminium := material.NewMetal(core.NewVec3(0.8, 0.85, 0.88), 0.0)
	s.Add(tallBox(aluminium))

	glass := geometry.NewSphere(core.NewVec3(190, 90, 190), 90, material.NewDielectric(1.5))
	s.AddLight(glass, glass)

	return s
}
