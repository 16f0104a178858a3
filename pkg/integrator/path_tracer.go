package integrator

import (
	"math"
	"math/rand"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/geometry"
)

const (
	// Russian roulette starts once a path exceeds this depth.
	rrStartDepth = 10
	// Past this depth the survival floor drops so stubborn paths die off.
	rrDeepDepth = 20
)

// PathTracer is the unidirectional camera-to-light integrator. At every
// bounce it importance-samples the hit material, accumulates any emission
// weighted by the path throughput, and continues until the path escapes
// the scene or Russian roulette terminates it.
type PathTracer struct{}

// NewPathTracer returns the path-tracing integrator.
func NewPathTracer() PathTracer {
	return PathTracer{}
}

func (PathTracer) Integrate(initial core.Ray, bvh *geometry.BVH, rng *rand.Rand) core.Color {
	var light core.Color
	throughput := core.White()
	ray := initial

	for depth := 0; ; depth++ {
		isect, hit := bvh.Intersect(ray)
		if !hit {
			break
		}

		incoming := ray.Direction.Mul(-1.0)
		sample := isect.Prim.Material().SampleWorld(incoming, isect.SurfaceProps, true, rng)

		light = light.Add(throughput.Mul(sample.Emission))

		cosOut := math.Abs(sample.Outgoing.Dot(isect.SurfaceProps.Normal))
		throughput = throughput.Mul(sample.Result.Scale(cosOut / sample.Pdf))
		// Only an exactly dead path terminates here; faint paths survive
		// until Russian roulette so no energy is dropped unweighted.
		if throughput.IsBlack() {
			break
		}

		point := ray.At(isect.Dist)
		ray = core.Ray{
			Origin:    point.Add(sample.Outgoing.Mul(core.RayPushDist)),
			Direction: sample.Outgoing,
		}

		if depth > rrStartDepth {
			floor := 0.25
			if depth > rrDeepDepth {
				floor = 0.10
			}
			probSurvive := core.ClampedLerp(floor, 1.0, throughput.Luminance())
			if rng.Float64() > probSurvive {
				break
			}
			throughput = throughput.Scale(1.0 / probSurvive)
		}
	}

	return light
}
