package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBBoxUnionAndCombine(t *testing.T) {
	b := EmptyBBox()
	b = b.Union(r3.Vector{X: 1, Y: 2, Z: 3})
	b = b.Union(r3.Vector{X: -1, Y: 0, Z: 5})

	test.That(t, b.Min, test.ShouldResemble, r3.Vector{X: -1, Y: 0, Z: 3})
	test.That(t, b.Max, test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 5})

	other := NewBBox(r3.Vector{X: 0, Y: -4, Z: 0}, r3.Vector{X: 2, Y: 1, Z: 1})
	c := b.Combine(other)
	test.That(t, c.Contains(r3.Vector{X: 2, Y: -4, Z: 5}), test.ShouldBeTrue)
	test.That(t, c.Contains(r3.Vector{X: 3, Y: 0, Z: 4}), test.ShouldBeFalse)
}

func TestBBoxGeometry(t *testing.T) {
	b := NewBBox(r3.Vector{}, r3.Vector{X: 2, Y: 1, Z: 4})

	test.That(t, b.MaximumExtent(), test.ShouldEqual, 2)
	test.That(t, b.SurfaceArea(), test.ShouldAlmostEqual, 2.0*(2*1+2*4+1*4))
	test.That(t, b.Centroid(), test.ShouldResemble, r3.Vector{X: 1, Y: 0.5, Z: 2})

	off := b.RelativeOffset(r3.Vector{X: 1, Y: 1, Z: 0})
	test.That(t, off.X, test.ShouldAlmostEqual, 0.5)
	test.That(t, off.Y, test.ShouldAlmostEqual, 1.0)
	test.That(t, off.Z, test.ShouldAlmostEqual, 0.0)

	test.That(t, EmptyBBox().SurfaceArea(), test.ShouldEqual, 0.0)
}

func TestBBoxIntersectRay(t *testing.T) {
	b := NewBBox(r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1})

	hit := NewRay(r3.Vector{Z: 5}, r3.Vector{Z: -1})
	test.That(t, b.IntersectRay(hit, NewRayData(hit), math.MaxFloat64), test.ShouldBeTrue)

	// Too short to reach the box.
	test.That(t, b.IntersectRay(hit, NewRayData(hit), 1.0), test.ShouldBeFalse)

	miss := NewRay(r3.Vector{X: 5, Z: 5}, r3.Vector{Z: -1})
	test.That(t, b.IntersectRay(miss, NewRayData(miss), math.MaxFloat64), test.ShouldBeFalse)

	// A ray starting inside always hits.
	inside := NewRay(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, b.IntersectRay(inside, NewRayData(inside), math.MaxFloat64), test.ShouldBeTrue)

	// The box is behind the ray.
	behind := NewRay(r3.Vector{Z: 5}, r3.Vector{Z: 1})
	test.That(t, b.IntersectRay(behind, NewRayData(behind), math.MaxFloat64), test.ShouldBeFalse)
}

func TestBBoxIntersectRandomRaysThroughCenter(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := NewBBox(r3.Vector{X: -0.5, Y: -0.5, Z: -0.5}, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})

	for i := 0; i < 1000; i++ {
		dir := UniformSampleSphere(rng)
		r := NewRay(dir.Mul(10.0), dir.Mul(-1.0))
		test.That(t, b.IntersectRay(r, NewRayData(r), math.MaxFloat64), test.ShouldBeTrue)
	}
}
