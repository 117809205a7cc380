package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestRandomSampler_Range(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		v := sampler.Get1D()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(7)
	b := NewSeededSampler(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Get3D(), b.Get3D())
	}
}

func TestSampleIntRange_Bounds(t *testing.T) {
	sampler := NewSeededSampler(42)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		n := SampleIntRange(sampler, 0, 2)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 2)
		seen[n] = true
	}
	assert.Len(t, seen, 3)
}

func TestSampleCosineDirection_UpperHemisphere(t *testing.T) {
	sampler := NewSeededSampler(42)
	zs := make([]float64, 0, 10000)
	for i := 0; i < 10000; i++ {
		d := SampleCosineDirection(sampler.Get2D())
		assert.InDelta(t, 1.0, d.Length(), 1e-9)
		assert.GreaterOrEqual(t, d.Z, 0.0)
		zs = append(zs, d.Z)
	}

	// E[cosθ] under a cos/π density is 2/3
	assert.InDelta(t, 2.0/3.0, stat.Mean(zs, nil), 0.01)
}

func TestSampleCosineHemisphere_AroundNormal(t *testing.T) {
	sampler := NewSeededSampler(42)
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 1, 1).Normalize(),
	}
	for _, normal := range normals {
		for i := 0; i < 200; i++ {
			d := SampleCosineHemisphere(normal, sampler.Get2D())
			assert.GreaterOrEqual(t, d.Dot(normal), -1e-12)
		}
	}
}

func TestSampleOnUnitSphere_Uniform(t *testing.T) {
	sampler := NewSeededSampler(42)
	xs := make([]float64, 0, 20000)
	for i := 0; i < 20000; i++ {
		d := SampleOnUnitSphere(sampler.Get2D())
		assert.InDelta(t, 1.0, d.Length(), 1e-9)
		xs = append(xs, d.X)
	}
	mean, variance := stat.MeanVariance(xs, nil)
	assert.InDelta(t, 0.0, mean, 0.02)
	// Uniform on the sphere: Var[x] = 1/3
	assert.InDelta(t, 1.0/3.0, variance, 0.02)
}

func TestSamplePointInUnitSphere_Inside(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		p := SamplePointInUnitSphere(sampler.Get3D())
		assert.LessOrEqual(t, p.Length(), 1.0+1e-12)
	}
}

func TestSamplePointInUnitDisk_Inside(t *testing.T) {
	sampler := NewSeededSampler(42)
	for i := 0; i < 1000; i++ {
		p := SamplePointInUnitDisk(sampler.Get2D())
		assert.LessOrEqual(t, p.Length(), 1.0+1e-12)
		assert.Equal(t, 0.0, p.Z)
	}
}

func TestSampleToSphere_WithinCone(t *testing.T) {
	sampler := NewSeededSampler(42)
	radius, distance := 1.0, 4.0
	cosThetaMax := math.Sqrt(1 - radius*radius/(distance*distance))
	for i := 0; i < 1000; i++ {
		d := SampleToSphere(radius, distance*distance, sampler.Get2D())
		assert.InDelta(t, 1.0, d.Length(), 1e-9)
		assert.GreaterOrEqual(t, d.Z, cosThetaMax-1e-12)
	}
}

func TestONB_Orthonormal(t *testing.T) {
	for _, n := range []Vec3{NewVec3(0, 1, 0), NewVec3(1, 0, 0), NewVec3(0.3, -0.2, 0.9)} {
		basis := NewONBFromW(n)
		assert.InDelta(t, 1.0, basis.U.Length(), 1e-12)
		assert.InDelta(t, 1.0, basis.V.Length(), 1e-12)
		assert.InDelta(t, 1.0, basis.W.Length(), 1e-12)
		assert.InDelta(t, 0.0, basis.U.Dot(basis.V), 1e-12)
		assert.InDelta(t, 0.0, basis.U.Dot(basis.W), 1e-12)
		assert.InDelta(t, 0.0, basis.V.Dot(basis.W), 1e-12)

		local := basis.Local(NewVec3(0, 0, 1))
		assert.InDelta(t, 0.0, local.Subtract(n.Normalize()).Length(), 1e-12)
	}
}
