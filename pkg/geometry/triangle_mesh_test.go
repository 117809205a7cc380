package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
)

// unitCube returns the 8 corners and 12 outward-facing triangles of [0,1]³
func unitCube() ([]core.Vec3, []int) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 1), core.NewVec3(1, 1, 1), core.NewVec3(0, 1, 1),
	}
	faces := []int{
		0, 2, 1, 0, 3, 2, // z = 0
		4, 5, 6, 4, 6, 7, // z = 1
		0, 1, 5, 0, 5, 4, // y = 0
		3, 7, 6, 3, 6, 2, // y = 1
		0, 4, 7, 0, 7, 3, // x = 0
		1, 2, 6, 1, 6, 5, // x = 1
	}
	return vertices, faces
}

func TestTriangleMesh_Creation(t *testing.T) {
	vertices, faces := unitCube()
	mesh, err := NewTriangleMesh(vertices, faces, gray, core.NewSeededSampler(1))
	require.NoError(t, err)

	assert.Equal(t, 12, mesh.TriangleCount())
	assert.Len(t, mesh.Triangles(), 12)

	box, ok := mesh.BoundingBox(0, 1)
	require.True(t, ok)
	assert.InDelta(t, 0, box.Min.X, 1e-3)
	assert.InDelta(t, 1, box.Max.Z, 1e-3)
}

func TestTriangleMesh_Hit(t *testing.T) {
	vertices, faces := unitCube()
	mesh, err := NewTriangleMesh(vertices, faces, gray, core.NewSeededSampler(1))
	require.NoError(t, err)

	// From outside, the front faces of the cube point toward the ray
	hit, ok := mesh.Hit(core.NewRay(core.NewVec3(0.3, 0.6, -2), core.NewVec3(0, 0, 1)), 0.001, math.Inf(1), nil)
	require.True(t, ok)
	assert.InDelta(t, 2, hit.T, 1e-12)
	assert.True(t, hit.FrontFace)
	assert.Equal(t, core.NewVec3(0, 0, -1), hit.Normal)

	// From inside, the far wall is hit from behind
	hit, ok = mesh.Hit(core.NewRay(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(1, 0, 0)), 0.001, math.Inf(1), nil)
	require.True(t, ok)
	assert.InDelta(t, 0.5, hit.T, 1e-12)
	assert.False(t, hit.FrontFace)

	_, ok = mesh.Hit(core.NewRay(core.NewVec3(2, 2, -2), core.NewVec3(0, 0, 1)), 0.001, math.Inf(1), nil)
	assert.False(t, ok)
}

func TestTriangleMesh_ErrorHandling(t *testing.T) {
	vertices, _ := unitCube()
	sampler := core.NewSeededSampler(1)

	tests := []struct {
		name  string
		faces []int
	}{
		{"not a multiple of 3", []int{0, 1}},
		{"index out of range", []int{0, 1, 8}},
		{"negative index", []int{0, -1, 2}},
		{"only degenerate triangles", []int{0, 0, 1}},
		{"no faces", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangleMesh(vertices, tt.faces, gray, sampler)
			assert.ErrorIs(t, err, ErrInvalidMesh)
		})
	}
}

func TestTriangleMesh_DropsDegenerateTriangles(t *testing.T) {
	vertices, faces := unitCube()
	faces = append(faces, 0, 1, 1)

	mesh, err := NewTriangleMesh(vertices, faces, gray, core.NewSeededSampler(1))
	require.NoError(t, err)
	assert.Equal(t, 12, mesh.TriangleCount())
}
