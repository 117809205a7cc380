package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		tMin     float64
		tMax     float64
		expected bool
	}{
		{"through center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), 0, 100, true},
		{"negative direction", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), 0, 100, true},
		{"misses to the side", NewRay(NewVec3(3, 0, -5), NewVec3(0, 0, 1)), 0, 100, false},
		{"box behind ray", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), 0, 100, false},
		{"interval ends before box", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), 0, 3, false},
		{"origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 1, 1)), 0, 100, true},
		{"diagonal", NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)), 0, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, box.Hit(tt.ray, tt.tMin, tt.tMax))
		})
	}
}

func TestAABB_HitParallelRays(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))

	// Zero X and Y direction components: the slab test must decide consistently
	inside := NewRay(NewVec3(0.5, 0.5, -2), NewVec3(0, 0, 1))
	assert.True(t, box.Hit(inside, 0, 10), "parallel ray inside the slabs must hit")

	outside := NewRay(NewVec3(1.5, 0.5, -2), NewVec3(0, 0, 1))
	assert.False(t, box.Hit(outside, 0, 10), "parallel ray outside a slab must miss")

	negZero := NewRay(NewVec3(0.5, 0.5, -2), NewVec3(math.Copysign(0, -1), 0, 1))
	assert.True(t, box.Hit(negZero, 0, 10))

	onFace := NewRay(NewVec3(0, 0.5, -2), NewVec3(0, 0, 1))
	assert.True(t, box.Hit(onFace, 0, 10), "ray lying on a face counts as inside")

	nanDirection := NewRay(NewVec3(0.5, 0.5, -2), NewVec3(math.NaN(), 0, 1))
	assert.False(t, box.Hit(nanDirection, 0, 10), "NaN direction must never report a hit")
}

func TestSurroundingBox_ContainsBoth(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	randomBox := func() AABB {
		a := NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		b := NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		return NewAABBFromPoints(a, b)
	}

	for i := 0; i < 500; i++ {
		a, b := randomBox(), randomBox()
		union := SurroundingBox(a, b)
		for _, corner := range a.Corners() {
			assert.True(t, union.Contains(corner), "corner %v of a outside %v", corner, union)
		}
		for _, corner := range b.Corners() {
			assert.True(t, union.Contains(corner), "corner %v of b outside %v", corner, union)
		}
		assert.True(t, union.IsValid())
	}
}

func TestEmptyAABB_IsUnionIdentity(t *testing.T) {
	box := NewAABB(NewVec3(-1, 2, -3), NewVec3(4, 5, 6))
	assert.Equal(t, box, EmptyAABB().Union(box))
	assert.False(t, EmptyAABB().IsValid())
}

func TestAABB_CornersAndTranslate(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 2, 3))
	corners := box.Corners()
	assert.Equal(t, box, NewAABBFromPoints(corners[:]...))

	moved := box.Translate(NewVec3(1, 1, 1))
	assert.Equal(t, NewVec3(1, 1, 1), moved.Min)
	assert.Equal(t, NewVec3(2, 3, 4), moved.Max)
	assert.Equal(t, NewVec3(1.5, 2, 2.5), moved.Center())
}
