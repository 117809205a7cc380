package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// MeshModelPath is the PLY model placed in the cornell-mesh scene
var MeshModelPath = "assets/model.ply"

// meshHeight is the height the model is scaled to inside the box
const meshHeight = 220.0

// icosahedron returns a unit-radius icosahedron, used when the model file cannot be loaded
func icosahedron() *loaders.PLYData {
	g := (1 + math.Sqrt(5)) / 2
	raw := [][3]float64{
		{-1, g, 0}, {1, g, 0}, {-1, -g, 0}, {1, -g, 0},
		{0, -1, g}, {0, 1, g}, {0, -1, -g}, {0, 1, -g},
		{g, 0, -1}, {g, 0, 1}, {-g, 0, -1}, {-g, 0, 1},
	}
	vertices := make([]core.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = core.NewVec3(v[0], v[1], v[2]).Normalize()
	}

	return &loaders.PLYData{
		Vertices: vertices,
		Faces: []int{
			0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
			1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
			3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
			4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
		},
	}
}

// meshModel returns the PLY model at MeshModelPath, or an icosahedron when it cannot be loaded
func meshModel() *loaders.PLYData {
	data, err := loaders.LoadPLY(MeshModelPath)
	if err != nil || data.TriangleCount() == 0 {
		return icosahedron()
	}
	return data
}

// meshAlbedo averages the per-vertex colors, falling back to the given color
func meshAlbedo(data *loaders.PLYData, fallback core.Vec3) core.Vec3 {
	if len(data.Colors) == 0 {
		return fallback
	}
	sum := core.Vec3{}
	for _, c := range data.Colors {
		sum = sum.Add(c)
	}
	return sum.Divide(float64(len(data.Colors)))
}

// fitToFloor scales vertices uniformly to the given height and stands them on y=0 centered at base
func fitToFloor(vertices []core.Vec3, height float64, base core.Vec3) []core.Vec3 {
	box := core.NewAABBFromPoints(vertices...)
	size := box.Max.Subtract(box.Min)
	scale := 1.0
	if size.Y > 0 {
		scale = height / size.Y
	}
	center := core.NewVec3((box.Min.X+box.Max.X)/2, box.Min.Y, (box.Min.Z+box.Max.Z)/2)

	fitted := make([]core.Vec3, len(vertices))
	for i, v := range vertices {
		fitted[i] = v.Subtract(center).Multiply(scale).Add(base)
	}
	return fitted
}

// NewCornellMeshScene creates the Cornell box with the tall block replaced by a triangle mesh
func NewCornellMeshScene(sampler core.Sampler, cameraOverrides ...geometry.CameraConfig) *Scene {
	light := geometry.NewXZRect(213, 343, 227, 332, 554, material.NewDiffuseLight(core.NewVec3(15, 15, 15)))
	s, mats := newCornellRoom("cornell-mesh", light, SamplingConfig{
		SamplesPerPixel: 200,
		MaxDepth:        50,
	}, cameraOverrides)

	s.Add(shortBox(mats.white))

	data := meshModel()
	vertices := fitToFloor(data.Vertices, meshHeight, core.NewVec3(370, 0, 370))
	albedo := meshAlbedo(data, core.NewVec3(0.73, 0.73, 0.73))
	mesh, err := geometry.NewTriangleMesh(vertices, data.Faces, material.NewLambertian(albedo), sampler)
	if err != nil {
		// The file parsed but describes no usable triangles
		data = icosahedron()
		vertices = fitToFloor(data.Vertices, meshHeight, core.NewVec3(370, 0, 370))
		mesh, _ = geometry.NewTriangleMesh(vertices, data.Faces, material.NewLambertian(albedo), sampler)
	}
	s.Add(mesh)

	return s
}
