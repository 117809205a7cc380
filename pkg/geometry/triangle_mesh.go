package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrInvalidMesh is returned for face lists that do not describe triangles over the given vertices
var ErrInvalidMesh = errors.New("invalid triangle mesh")

// TriangleMesh represents a collection of triangles with efficient ray intersection.
// It uses an internal BVH for fast intersection tests.
type TriangleMesh struct {
	unsampled
	triangles []*Triangle
	bvh       *BVHNode
	box       core.AABB
}

// NewTriangleMesh creates a mesh from vertices and face indices, three per triangle.
// Degenerate triangles are dropped. The sampler drives BVH construction.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material, sampler core.Sampler) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: %d face indices is not a multiple of 3", ErrInvalidMesh, len(faces))
	}

	triangles := make([]*Triangle, 0, len(faces)/3)
	for i := 0; i < len(faces); i += 3 {
		i0, i1, i2 := faces[i], faces[i+1], faces[i+2]
		for _, index := range [3]int{i0, i1, i2} {
			if index < 0 || index >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidMesh, i/3, index, len(vertices))
			}
		}

		triangle := NewTriangle(vertices[i0], vertices[i1], vertices[i2], mat)
		if triangle.Area() == 0 {
			continue
		}
		triangles = append(triangles, triangle)
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("%w: no non-degenerate triangles", ErrInvalidMesh)
	}

	objects := make([]Hittable, len(triangles))
	for i, triangle := range triangles {
		objects[i] = triangle
	}
	bvh, err := NewBVHNode(objects, 0, 0, sampler)
	if err != nil {
		return nil, err
	}
	box, _ := bvh.BoundingBox(0, 0)

	return &TriangleMesh{
		triangles: triangles,
		bvh:       bvh,
		box:       box,
	}, nil
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return tm.bvh.Hit(ray, tMin, tMax, sampler)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return tm.box, true
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// Triangles returns the individual triangles
func (tm *TriangleMesh) Triangles() []*Triangle {
	return tm.triangles
}

func (*TriangleMesh) isHittable() {}
