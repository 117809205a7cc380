package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewFinalScene creates the showcase scene: a field of boxes, a moving sphere, glass, metal,
// subsurface-like fog inside glass, global haze, an image-mapped globe and a cluster of
// small spheres under a rotated instance transform
func NewFinalScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := geometry.CameraConfig{
		Center:      core.NewVec3(478, 278, -600),
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0,
		VFov:        40.0,
		Time0:       0,
		Time1:       1,
	}

	s := newScene("final-scene", cameraConfig, SamplingConfig{
		SamplesPerPixel: 1000,
		MaxDepth:        50,
	}, core.Vec3{}, cameraOverrides)

	// Ground: a 20x20 grid of boxes of random height, in their own BVH
	ground := material.NewLambertian(core.NewVec3(0.48, 0.83, 0.53))
	const boxesPerSide = 20
	boxes := make([]geometry.Hittable, 0, boxesPerSide*boxesPerSide)
	for i := 0; i < boxesPerSide; i++ {
		for j := 0; j < boxesPerSide; j++ {
			w := 100.0
			x0 := -1000.0 + float64(i)*w
			z0 := -1000.0 + float64(j)*w
			y1 := core.SampleRange(sampler, 1, 101)
			boxes = append(boxes, geometry.NewBox(core.NewVec3(x0, 0, z0), core.NewVec3(x0+w, y1, z0+w), ground))
		}
	}
	s.Add(mustBVH(boxes, cameraConfig, sampler))

	light := geometry.NewXZRect(123, 423, 147, 412, 554, material.NewDiffuseLight(core.NewVec3(7, 7, 7)))
	s.AddLight(geometry.NewFlipFace(light), light)

	center0 := core.NewVec3(400, 400, 200)
	center1 := center0.Add(core.NewVec3(25, 0, 0))
	s.Add(geometry.NewMovingSphere(center0, center1, 0, 1, 50, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.1))))

	s.Add(geometry.NewSphere(core.NewVec3(260, 150, 45), 50, material.NewDielectric(1.5)))
	s.Add(geometry.NewSphere(core.NewVec3(0, 150, 145), 50, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 1.0)))

	// Blue fog inside a glass shell
	boundary := geometry.NewSphere(core.NewVec3(360, 150, 145), 70, material.NewDielectric(1.5))
	s.Add(boundary)
	s.Add(geometry.NewConstantMedium(boundary, 0.2, core.NewVec3(0.2, 0.4, 0.9)))

	// Thin haze over everything
	haze := geometry.NewSphere(core.NewVec3(0, 0, 0), 5000, material.NewDielectric(1.5))
	s.Add(geometry.NewConstantMedium(haze, 0.0001, core.NewVec3(1, 1, 1)))

	s.Add(geometry.NewSphere(core.NewVec3(400, 200, 400), 100, material.NewTexturedLambertian(earthTexture())))
	s.Add(geometry.NewSphere(core.NewVec3(220, 280, 300), 80,
		material.NewTexturedLambertian(material.NewNoiseTexture(0.1, sampler))))

	// A cube of small white spheres, rotated and moved into place as one instance
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	const clusterSize = 1000
	cluster := make([]geometry.Hittable, 0, clusterSize)
	for i := 0; i < clusterSize; i++ {
		cluster = append(cluster, geometry.NewSphere(core.SampleVec3Range(sampler, 0, 165), 10, white))
	}
	s.Add(geometry.NewTranslate(
		geometry.NewRotateY(mustBVH(cluster, cameraConfig, sampler), 15),
		core.NewVec3(-100, 270, 395),
	))

	return s
}

// mustBVH builds a nested BVH over objects that are bounded by construction
func mustBVH(objects []geometry.Hittable, camera geometry.CameraConfig, sampler core.Sampler) *geometry.BVHNode {
	bvh, err := geometry.NewBVHNode(objects, camera.Time0, camera.Time1, sampler)
	if err != nil {
		panic(err)
	}
	return bvh
}
