package integrator

import (
	"math"
	"math/rand"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/geometry"
	"github.com/lumen-render/lumen/pkg/material"
)

const (
	// Maximum vertices recorded per subpath.
	maxWalkDepth = 10
	// BDPT walks cut paths earlier and harder than the unidirectional
	// tracer; depth pays off twice here.
	bdptRRStartDepth = 4
)

// pathVertex is one node of a camera or light subpath. Throughput is the
// path weight accumulated before this vertex's scattering event.
type pathVertex struct {
	point        r3.Vector
	incoming     r3.Vector
	surfaceProps core.SurfaceProperties
	throughput   core.Color
	emission     core.Color
	// connectable is false when a specular lobe was sampled here; delta
	// events cannot be joined by an explicit shadow ray.
	connectable bool
	// emitter marks the vertex sampled directly on a light source.
	emitter bool
	mat     *material.Material
}

var vertexPool = sync.Pool{
	New: func() interface{} {
		buf := make([]pathVertex, 0, maxWalkDepth+1)
		return &buf
	},
}

// Bdpt is the bidirectional integrator. It walks one subpath from the
// camera and one from a sampled light, then connects every compatible
// (cameraLen, lightLen) split with a shadow ray.
type Bdpt struct{}

// NewBdpt returns the bidirectional integrator.
func NewBdpt() Bdpt {
	return Bdpt{}
}

func (Bdpt) Integrate(initial core.Ray, bvh *geometry.BVH, rng *rand.Rand) core.Color {
	cameraBuf := vertexPool.Get().(*[]pathVertex)
	lightBuf := vertexPool.Get().(*[]pathVertex)
	defer func() {
		*cameraBuf = (*cameraBuf)[:0]
		*lightBuf = (*lightBuf)[:0]
		vertexPool.Put(cameraBuf)
		vertexPool.Put(lightBuf)
	}()

	cameraPath := randomWalk(initial, core.White(), true, bvh, rng, (*cameraBuf)[:0])

	var lightPath []pathVertex
	if ls, ok := bvh.SampleLight(rng); ok {
		lightMat := lightPrimMaterial(bvh, ls)
		emission := lightMat.LightWorld(ls.Ray.Direction, ls.SurfaceProps)

		// The emitter itself is the first light vertex; its throughput
		// carries only the point density so connections can evaluate the
		// directional emission themselves.
		lightPath = append((*lightBuf)[:0], pathVertex{
			point:        ls.Ray.Origin,
			surfaceProps: ls.SurfaceProps,
			throughput:   core.White().Scale(1.0 / ls.PointPdf),
			connectable:  true,
			emitter:      true,
			mat:          lightMat,
		})

		cosLight := math.Abs(ls.Ray.Direction.Dot(ls.SurfaceProps.Normal))
		walkThroughput := emission.Scale(cosLight / (ls.PointPdf * ls.DirPdf))
		if !walkThroughput.IsBlack() {
			start := core.Ray{
				Origin:    ls.Ray.Origin.Add(ls.Ray.Direction.Mul(core.RayPushDist)),
				Direction: ls.Ray.Direction,
			}
			lightPath = randomWalk(start, walkThroughput, false, bvh, rng, lightPath)
		}
	}

	var radiance core.Color
	for cameraLen := 1; cameraLen <= len(cameraPath); cameraLen++ {
		for lightLen := 0; lightLen <= len(lightPath); lightLen++ {
			contribution := connect(bvh, cameraPath, lightPath, cameraLen, lightLen)
			if contribution.IsBlack() {
				continue
			}
			radiance = radiance.Add(contribution.Scale(weightForPath(cameraLen, lightLen)))
		}
	}
	return radiance
}

// weightForPath averages uniformly over the strategies that can produce a
// path of this length.
// TODO: weight strategies by their sampling densities via core.PowerHeuristic.
func weightForPath(cameraLen, lightLen int) float64 {
	return 1.0 / float64(cameraLen+lightLen)
}

func lightPrimMaterial(bvh *geometry.BVH, ls geometry.LightSample) *material.Material {
	return bvh.Prim(ls.PrimIndex).Material()
}

// randomWalk traces a subpath, appending one vertex per bounce to buf.
// cameraToLight selects the transport direction; light-to-camera walks get
// the shading-normal adjoint correction inside the material sampling.
func randomWalk(initial core.Ray, throughput core.Color, cameraToLight bool,
	bvh *geometry.BVH, rng *rand.Rand, buf []pathVertex) []pathVertex {

	ray := initial
	for depth := 0; depth < maxWalkDepth; depth++ {
		isect, hit := bvh.Intersect(ray)
		if !hit {
			break
		}

		incoming := ray.Direction.Mul(-1.0)
		mat := isect.Prim.Material()
		sample := mat.SampleWorld(incoming, isect.SurfaceProps, cameraToLight, rng)

		buf = append(buf, pathVertex{
			point:        ray.At(isect.Dist),
			incoming:     incoming,
			surfaceProps: isect.SurfaceProps,
			throughput:   throughput,
			emission:     sample.Emission,
			connectable:  !sample.Kind.Contains(material.LobeSpecular),
			mat:          mat,
		})

		cosOut := math.Abs(sample.Outgoing.Dot(isect.SurfaceProps.Normal))
		throughput = throughput.Mul(sample.Result.Scale(cosOut / sample.Pdf))
		if throughput.IsBlack() {
			break
		}

		ray = core.Ray{
			Origin:    ray.At(isect.Dist).Add(sample.Outgoing.Mul(core.RayPushDist)),
			Direction: sample.Outgoing,
		}

		if depth >= bdptRRStartDepth {
			probSurvive := core.ClampedLerp(0.25, 0.75, throughput.Luminance())
			if rng.Float64() > probSurvive {
				break
			}
			throughput = throughput.Scale(1.0 / probSurvive)
		}
	}
	return buf
}

// connect joins a cameraLen-vertex camera prefix with a lightLen-vertex
// light prefix. lightLen 0 uses only the camera vertex's own emission.
func connect(bvh *geometry.BVH, cameraPath, lightPath []pathVertex, cameraLen, lightLen int) core.Color {
	camV := &cameraPath[cameraLen-1]

	if lightLen == 0 {
		return camV.throughput.Mul(camV.emission)
	}

	lightV := &lightPath[lightLen-1]
	if !camV.connectable || !lightV.connectable {
		return core.Color{}
	}

	delta := lightV.point.Sub(camV.point)
	dist2 := delta.Norm2()
	if dist2 == 0 {
		return core.Color{}
	}
	dir := delta.Mul(1.0 / math.Sqrt(dist2))

	fCamera := camV.mat.FWorld(camV.incoming, dir, camV.surfaceProps, true)
	if fCamera.IsBlack() {
		return core.Color{}
	}

	toCamera := dir.Mul(-1.0)
	var fLight core.Color
	if lightV.emitter {
		fLight = lightV.mat.LightWorld(toCamera, lightV.surfaceProps)
	} else {
		fLight = lightV.mat.FWorld(lightV.incoming, toCamera, lightV.surfaceProps, false)
	}
	if fLight.IsBlack() {
		return core.Color{}
	}

	geom := math.Abs(dir.Dot(camV.surfaceProps.Normal)) *
		math.Abs(toCamera.Dot(lightV.surfaceProps.Normal)) / dist2

	if !bvh.Visible(camV.point, lightV.point) {
		return core.Color{}
	}

	return camV.throughput.Mul(fCamera).Mul(fLight).Mul(lightV.throughput).Scale(geom)
}
