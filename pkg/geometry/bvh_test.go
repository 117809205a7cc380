package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
)

func randomScene(sampler core.Sampler, n int) []Hittable {
	objects := make([]Hittable, 0, n)
	for i := 0; i < n; i++ {
		center := core.SampleVec3Range(sampler, -10, 10)
		switch i % 4 {
		case 0:
			objects = append(objects, NewSphere(center, core.SampleRange(sampler, 0.2, 1.5), gray))
		case 1:
			size := core.SampleVec3Range(sampler, 0.2, 2)
			objects = append(objects, NewBox(center, center.Add(size), gray))
		case 2:
			objects = append(objects, NewXZRect(center.X, center.X+1, center.Z, center.Z+2, center.Y, gray))
		default:
			end := center.Add(core.NewVec3(0, 1, 0))
			objects = append(objects, NewMovingSphere(center, end, 0, 1, 0.5, gray))
		}
	}
	return objects
}

func TestBVH_MatchesHittableList(t *testing.T) {
	sampler := core.NewSeededSampler(42)
	objects := randomScene(sampler, 200)

	list := NewHittableList(objects...)
	bvh, err := NewBVHNode(objects, 0, 1, sampler)
	require.NoError(t, err)

	hits := 0
	for i := 0; i < 5000; i++ {
		origin := core.SampleVec3Range(sampler, -15, 15)
		direction := core.SampleOnUnitSphere(sampler.Get2D())
		ray := core.NewRayAt(origin, direction, sampler.Get1D())

		listHit, listOK := list.Hit(ray, 0.001, math.Inf(1), nil)
		bvhHit, bvhOK := bvh.Hit(ray, 0.001, math.Inf(1), nil)
		require.Equal(t, listOK, bvhOK, "ray %d: %+v", i, ray)
		if !listOK {
			continue
		}
		hits++
		assert.InDelta(t, listHit.T, bvhHit.T, 1e-9, "ray %d", i)
		assertVecNear(t, listHit.Normal, bvhHit.Normal, 1e-9)
	}
	assert.Greater(t, hits, 500, "the random scene should be hit by a fair share of rays")
}

func TestBVH_BoxContainsChildren(t *testing.T) {
	sampler := core.NewSeededSampler(7)
	objects := randomScene(sampler, 50)
	bvh, err := NewBVHNode(objects, 0, 1, sampler)
	require.NoError(t, err)

	root, ok := bvh.BoundingBox(0, 1)
	require.True(t, ok)
	for _, object := range objects {
		box, ok := object.BoundingBox(0, 1)
		require.True(t, ok)
		assert.True(t, root.ContainsBox(box))
	}
	assert.LessOrEqual(t, bvh.Depth(), 12)
}

func TestBVH_SmallInputs(t *testing.T) {
	sampler := core.NewSeededSampler(1)
	a := NewSphere(core.NewVec3(-3, 0, 0), 1, gray)
	b := NewSphere(core.NewVec3(3, 0, 0), 1, gray)

	single, err := NewBVHNode([]Hittable{a}, 0, 1, sampler)
	require.NoError(t, err)
	assert.Same(t, a, single.Left)
	assert.Same(t, a, single.Right)

	pair, err := NewBVHNode([]Hittable{b, a}, 0, 1, sampler)
	require.NoError(t, err)
	hit, ok := pair.Hit(core.NewRay(core.NewVec3(-10, 0, 0), core.NewVec3(1, 0, 0)), 0.001, math.Inf(1), nil)
	require.True(t, ok)
	assert.InDelta(t, 6, hit.T, 1e-12)
}

func TestBVH_DoesNotReorderInput(t *testing.T) {
	sampler := core.NewSeededSampler(3)
	objects := randomScene(sampler, 20)
	before := append([]Hittable(nil), objects...)

	_, err := NewBVHNode(objects, 0, 1, sampler)
	require.NoError(t, err)
	assert.Equal(t, before, objects)
}

func TestBVH_Errors(t *testing.T) {
	sampler := core.NewSeededSampler(1)

	_, err := NewBVHNode(nil, 0, 1, sampler)
	assert.ErrorIs(t, err, ErrEmptyBVH)

	objects := []Hittable{
		NewSphere(core.Vec3{}, 1, gray),
		NewHittableList(), // empty lists have no box
	}
	_, err = NewBVHNode(objects, 0, 1, sampler)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBoundingBox))
	assert.Contains(t, err.Error(), "object 1")
}

func TestHittableList(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -2), 0.5, gray)
	far := NewSphere(core.NewVec3(0, 0, -10), 3, gray)
	list := NewHittableList(far)
	list.Add(near)
	assert.Equal(t, 2, list.Len())

	hit, ok := list.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	require.True(t, ok)
	assert.InDelta(t, 1.5, hit.T, 1e-12)

	box, ok := list.BoundingBox(0, 1)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(-3, -3, -13), box.Min)
	assert.Equal(t, core.NewVec3(3, 3, -1.5), box.Max)

	_, ok = NewHittableList().BoundingBox(0, 1)
	assert.False(t, ok)
	_, ok = NewHittableList().Hit(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, 0)), 0, 1, nil)
	assert.False(t, ok)
}

func TestHittableList_LightSampling(t *testing.T) {
	left := NewXZRect(-3, -1, -1, 1, 2, gray)
	right := NewXZRect(1, 3, -1, 1, 2, gray)
	lights := NewHittableList(left, right)
	origin := core.Vec3{}

	// The density averages the children
	toLeft := core.NewVec3(-2, 2, 0)
	assert.InDelta(t, 0.5*left.PDFValue(origin, toLeft), lights.PDFValue(origin, toLeft), 1e-12)

	sampler := core.NewSeededSampler(9)
	leftCount := 0
	for i := 0; i < 4000; i++ {
		direction := lights.Random(origin, sampler)
		if direction.X < 0 {
			leftCount++
		}
		assert.Greater(t, lights.PDFValue(origin, direction), 0.0)
	}
	assert.InDelta(t, 2000, leftCount, 200)

	empty := NewHittableList()
	assert.Zero(t, empty.PDFValue(origin, toLeft))
	assert.Equal(t, core.NewVec3(1, 0, 0), empty.Random(origin, sampler))
}
