package geometry

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/material"
	"go.viam.com/test"
)

func randomSpheres(rng *rand.Rand, n int) []Primitive {
	mat := material.Disney().Build()
	prims := make([]Primitive, n)
	for i := range prims {
		center := r3.Vector{
			X: 20.0*rng.Float64() - 10.0,
			Y: 20.0*rng.Float64() - 10.0,
			Z: 20.0*rng.Float64() - 10.0,
		}
		prims[i] = NewSphere(mat, center, 0.1+rng.Float64())
	}
	return prims
}

// bruteForceIntersect scans every component of every primitive linearly.
func bruteForceIntersect(prims []Primitive, ray core.Ray) (Intersection, bool) {
	var closest Intersection
	found := false
	for _, prim := range prims {
		for c := 0; c < prim.NumComponents(); c++ {
			dist, sp := prim.IntersectWorld(ray, c)
			if dist != 0.0 && (!found || dist < closest.Dist) {
				closest = Intersection{Dist: dist, SurfaceProps: sp, Prim: prim}
				found = true
			}
		}
	}
	return closest, found
}

func TestBuildContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 20; trial++ {
		prims := randomSpheres(rng, 1+rng.Intn(300))
		bvh := Build(prims)

		// The root box is the union of all component boxes.
		union := core.EmptyBBox()
		for _, prim := range prims {
			for c := 0; c < prim.NumComponents(); c++ {
				union = union.Combine(prim.BBoxWorld(c))
			}
		}
		root := bvh.nodes[0].bbox
		test.That(t, root.Min.X, test.ShouldAlmostEqual, union.Min.X)
		test.That(t, root.Max.Z, test.ShouldAlmostEqual, union.Max.Z)

		// Every leaf box contains every member component's box.
		for _, node := range bvh.nodes {
			if node.numComponents == 0 {
				continue
			}
			for i := node.offset; i < node.offset+node.numComponents; i++ {
				ref := bvh.components[i]
				cb := prims[ref.prim].BBoxWorld(ref.component)
				test.That(t, node.bbox.Contains(cb.Min), test.ShouldBeTrue)
				test.That(t, node.bbox.Contains(cb.Max), test.ShouldBeTrue)
			}
		}
	}
}

func TestIntersectMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	prims := randomSpheres(rng, 200)
	bvh := Build(prims)

	hits := 0
	for i := 0; i < 2000; i++ {
		origin := r3.Vector{
			X: 40.0*rng.Float64() - 20.0,
			Y: 40.0*rng.Float64() - 20.0,
			Z: 40.0*rng.Float64() - 20.0,
		}
		ray := core.Ray{Origin: origin, Direction: core.UniformSampleSphere(rng)}

		got, gotHit := bvh.Intersect(ray)
		want, wantHit := bruteForceIntersect(prims, ray)

		test.That(t, gotHit, test.ShouldEqual, wantHit)
		if gotHit {
			hits++
			test.That(t, got.Dist, test.ShouldAlmostEqual, want.Dist, 1e-9)
			test.That(t, got.Prim, test.ShouldEqual, want.Prim)
		}
	}
	test.That(t, hits, test.ShouldBeGreaterThan, 100)
}

func TestIntersectEmptyScene(t *testing.T) {
	bvh := Build(nil)
	_, hit := bvh.Intersect(core.Ray{Direction: r3.Vector{Z: -1}})
	test.That(t, hit, test.ShouldBeFalse)
	_, ok := bvh.SampleLight(rand.New(rand.NewSource(1)))
	test.That(t, ok, test.ShouldBeFalse)
}

func TestSphereRoundTrip(t *testing.T) {
	mat := material.Disney().Build()
	sphere := NewSphere(mat, r3.Vector{Z: -100}, 5.0)

	ray := core.Ray{Origin: r3.Vector{}, Direction: r3.Vector{Z: -1}}
	dist, sp := sphere.IntersectWorld(ray, 0)
	test.That(t, dist, test.ShouldAlmostEqual, 95.0, 1e-9)
	test.That(t, sp.Normal.Norm(), test.ShouldAlmostEqual, 1.0, 1e-12)
	test.That(t, sp.Normal.Z, test.ShouldAlmostEqual, 1.0, 1e-9)

	// Restarting just past the first hit reaches the far side, with an
	// antipodal normal.
	inside := core.Ray{Origin: ray.At(dist + core.RayPushDist), Direction: ray.Direction}
	farDist, farSp := sphere.IntersectWorld(inside, 0)
	test.That(t, dist+core.RayPushDist+farDist, test.ShouldAlmostEqual, 105.0, 1e-6)
	test.That(t, farSp.Normal.Z, test.ShouldAlmostEqual, -1.0, 1e-6)

	// Behind the ray: no hit.
	away := core.Ray{Origin: r3.Vector{}, Direction: r3.Vector{Z: 1}}
	dist, _ = sphere.IntersectWorld(away, 0)
	test.That(t, dist, test.ShouldEqual, 0.0)
}

func TestVisibility(t *testing.T) {
	mat := material.Disney().Build()
	bvh := Build([]Primitive{NewSphere(mat, r3.Vector{}, 1.0)})

	a := r3.Vector{X: -5}
	blocked := r3.Vector{X: 5}
	clear := r3.Vector{X: -5, Y: 5}

	test.That(t, bvh.Visible(a, blocked), test.ShouldBeFalse)
	test.That(t, bvh.Visible(a, clear), test.ShouldBeTrue)
	test.That(t, bvh.Visible(a, a), test.ShouldBeFalse)

	// Points just off opposite sides of the sphere are occluded by it.
	test.That(t, bvh.Visible(r3.Vector{X: -1.01}, r3.Vector{X: 1.01}), test.ShouldBeFalse)
}

func TestSampleLight(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	diffuse := material.Disney().Build()
	emissive := material.NewDiffuseLight(core.NewColor(2, 2, 2))

	bvh := Build([]Primitive{
		NewSphere(diffuse, r3.Vector{Z: -100}, 5.0),
		NewSphere(emissive, r3.Vector{X: 15, Z: -100}, 5.0),
	})
	test.That(t, bvh.NumLights(), test.ShouldEqual, 1)

	for i := 0; i < 200; i++ {
		ls, ok := bvh.SampleLight(rng)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, ls.PrimIndex, test.ShouldEqual, 1)

		// The sample point sits on the emissive sphere's surface.
		fromCenter := ls.Ray.Origin.Sub(r3.Vector{X: 15, Z: -100})
		test.That(t, fromCenter.Norm(), test.ShouldAlmostEqual, 5.0, 1e-9)

		// Emission leaves on the outward side.
		test.That(t, ls.Ray.Direction.Dot(ls.SurfaceProps.Normal), test.ShouldBeGreaterThanOrEqualTo, 0.0)
		test.That(t, ls.PointPdf, test.ShouldBeGreaterThan, 0.0)
		test.That(t, ls.DirPdf, test.ShouldBeGreaterThan, 0.0)
	}
}
