package scene

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	World          *geometry.HittableList // Objects in the scene
	Lights         *geometry.HittableList // Emitters sampled explicitly, a subset of World
	Background     core.Vec3              // Radiance returned by rays that escape
	SamplingConfig SamplingConfig
	BVH            *geometry.BVHNode // Acceleration structure over World, nil until Build
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// newScene creates a scene with the camera built from base merged with any overrides.
// Width and Height of the sampling config follow the final camera.
func newScene(name string, base geometry.CameraConfig, sampling SamplingConfig, background core.Vec3, overrides []geometry.CameraConfig) *Scene {
	config := base
	for _, override := range overrides {
		config = geometry.MergeCameraConfig(config, override)
	}
	sampling.Width = config.Width
	sampling.Height = config.Height()

	return &Scene{
		Name:           name,
		Camera:         geometry.NewCamera(config),
		CameraConfig:   config,
		World:          geometry.NewHittableList(),
		Lights:         geometry.NewHittableList(),
		Background:     background,
		SamplingConfig: sampling,
	}
}

// Add appends objects to the world
func (s *Scene) Add(objects ...geometry.Hittable) {
	s.World.Add(objects...)
}

// AddLight appends an emitter to the world and registers target for explicit light sampling.
// target is usually the emitter itself; one-sided ceiling lights pass the unflipped rectangle.
// Targets without a sampling density (media, moving spheres, BVHs) are only added to the
// world, since sampling them would send rays in a fixed direction.
func (s *Scene) AddLight(emitter geometry.Hittable, target geometry.Hittable) {
	s.World.Add(emitter)
	if geometry.CanSample(target) {
		s.Lights.Add(target)
	}
}

// Build prepares the scene for rendering by constructing the BVH over the world
// for the camera's shutter interval
func (s *Scene) Build(sampler core.Sampler) error {
	bvh, err := geometry.NewBVHNode(s.World.Objects, s.CameraConfig.Time0, s.CameraConfig.Time1, sampler)
	if err != nil {
		return fmt.Errorf("building scene %q: %w", s.Name, err)
	}
	s.BVH = bvh
	return nil
}

// Root returns the hittable rays are traced against: the BVH once built, otherwise the flat world
func (s *Scene) Root() geometry.Hittable {
	if s.BVH != nil {
		return s.BVH
	}
	return s.World
}

// LightTarget returns the light list for importance sampling, or nil when the scene has no lights
func (s *Scene) LightTarget() pdf.Target {
	if s.Lights == nil || s.Lights.Len() == 0 {
		return nil
	}
	return s.Lights
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, object := range s.World.Objects {
		count += countPrimitives(object)
	}
	return count
}

// countPrimitives counts primitives in a single hittable, looking through wrappers and aggregates
func countPrimitives(object geometry.Hittable) int {
	switch obj := object.(type) {
	case *geometry.HittableList:
		count := 0
		for _, child := range obj.Objects {
			count += countPrimitives(child)
		}
		return count
	case *geometry.BVHNode:
		if obj.Left == obj.Right {
			return countPrimitives(obj.Left)
		}
		return countPrimitives(obj.Left) + countPrimitives(obj.Right)
	case *geometry.Translate:
		return countPrimitives(obj.Object)
	case *geometry.RotateY:
		return countPrimitives(obj.Object)
	case *geometry.FlipFace:
		return countPrimitives(obj.Object)
	case *geometry.ConstantMedium:
		return countPrimitives(obj.Boundary)
	case *geometry.Box:
		return 6
	case *geometry.TriangleMesh:
		return obj.TriangleCount()
	case *geometry.Sphere, *geometry.MovingSphere, *geometry.XYRect, *geometry.XZRect, *geometry.YZRect, *geometry.Triangle:
		return 1
	default:
		return 1
	}
}
