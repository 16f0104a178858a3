package geometry

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
)

// The bounding-volume hierarchy in this file follows PBRT, 3rd edition,
// section 4.3 (starting around page 256).

const (
	numSAHBuckets        = 12
	maxComponentsPerNode = 255

	// Point pairs closer than this are numerically unreliable for
	// visibility tests.
	minVisibilityDist = 1e-6
)

// Intersection describes the closest hit found by a traversal.
type Intersection struct {
	Dist         float64
	SurfaceProps core.SurfaceProperties
	Prim         Primitive
}

// LightSample is a ray leaving a randomly chosen emissive primitive.
type LightSample struct {
	Ray          core.Ray
	SurfaceProps core.SurfaceProperties
	PrimIndex    int
	PointPdf     float64
	DirPdf       float64
}

type componentRef struct {
	prim      int
	component int
}

type componentInfo struct {
	primIndex      int
	componentIndex int
	bbox           core.BBox
	centroid       r3.Vector
}

type buildNode struct {
	bbox                 core.BBox
	children             [2]int
	splitAxis            int
	firstComponentOffset int
	numComponents        int
}

type linearNode struct {
	bbox          core.BBox
	offset        int
	numComponents int
	axis          int
}

// BVH owns a primitive collection and a linearized hierarchy over their
// components. It is immutable after Build and safe for concurrent reads.
type BVH struct {
	prims      []Primitive
	components []componentRef
	nodes      []linearNode
	lights     []int
}

// Build constructs the hierarchy over all components of all primitives
// and caches which primitives are emissive for light sampling.
func Build(prims []Primitive) *BVH {
	var info []componentInfo
	for primIndex, prim := range prims {
		for componentIndex := 0; componentIndex < prim.NumComponents(); componentIndex++ {
			bbox := prim.BBoxWorld(componentIndex)
			info = append(info, componentInfo{
				primIndex:      primIndex,
				componentIndex: componentIndex,
				bbox:           bbox,
				centroid:       bbox.Centroid(),
			})
		}
	}

	var lights []int
	for primIndex, prim := range prims {
		if prim.Material().IsEmissive() {
			lights = append(lights, primIndex)
		}
	}

	bvh := &BVH{prims: prims, lights: lights}
	if len(info) == 0 {
		return bvh
	}

	arena := make([]buildNode, 0, 2*len(info))
	bvh.components = make([]componentRef, 0, len(info))
	root := bvh.recurseBuild(&arena, info)

	bvh.nodes = make([]linearNode, 0, len(arena))
	bvh.flattenTree(arena, root)
	return bvh
}

func newLeaf(arena *[]buildNode, first, n int, bbox core.BBox) int {
	*arena = append(*arena, buildNode{
		bbox:                 bbox,
		firstComponentOffset: first,
		numComponents:        n,
	})
	return len(*arena) - 1
}

func newInterior(arena *[]buildNode, axis, c0, c1 int) int {
	bbox := (*arena)[c0].bbox.Combine((*arena)[c1].bbox)
	*arena = append(*arena, buildNode{
		bbox:      bbox,
		children:  [2]int{c0, c1},
		splitAxis: axis,
	})
	return len(*arena) - 1
}

func (b *BVH) pushOrdered(info []componentInfo) int {
	first := len(b.components)
	for i := range info {
		b.components = append(b.components, componentRef{
			prim:      info[i].primIndex,
			component: info[i].componentIndex,
		})
	}
	return first
}

func (b *BVH) recurseBuild(arena *[]buildNode, info []componentInfo) int {
	bbox := core.EmptyBBox()
	for i := range info {
		bbox = bbox.Combine(info[i].bbox)
	}

	numComponents := len(info)
	if numComponents == 1 {
		return newLeaf(arena, b.pushOrdered(info), 1, bbox)
	}

	centroidBBox := core.EmptyBBox()
	for i := range info {
		centroidBBox = centroidBBox.Union(info[i].centroid)
	}
	dim := centroidBBox.MaximumExtent()
	if core.VectorComp(centroidBBox.Min, dim) == core.VectorComp(centroidBBox.Max, dim) {
		// Components overlay one another; cannot partition.
		return newLeaf(arena, b.pushOrdered(info), numComponents, bbox)
	}

	var mid int
	if numComponents <= 4 {
		// Too small for SAH, partition into equally-sized subsets.
		mid = numComponents / 2
		nthElement(info, mid, func(lhs, rhs *componentInfo) bool {
			return core.VectorComp(lhs.centroid, dim) < core.VectorComp(rhs.centroid, dim)
		})
	} else {
		bucketOf := func(ci *componentInfo) int {
			rel := centroidBBox.RelativeOffset(ci.centroid)
			return core.ClampInt(int(numSAHBuckets*core.VectorComp(rel, dim)), 0, numSAHBuckets-1)
		}

		var buckets [numSAHBuckets]struct {
			count int
			bbox  core.BBox
		}
		for i := range buckets {
			buckets[i].bbox = core.EmptyBBox()
		}
		for i := range info {
			bk := bucketOf(&info[i])
			buckets[bk].count++
			buckets[bk].bbox = buckets[bk].bbox.Combine(info[i].bbox)
		}

		// Cost of splitting after each bucket.
		var cost [numSAHBuckets - 1]float64
		for i := 0; i < numSAHBuckets-1; i++ {
			b0, b1 := core.EmptyBBox(), core.EmptyBBox()
			count0, count1 := 0, 0
			for j := 0; j <= i; j++ {
				b0 = b0.Combine(buckets[j].bbox)
				count0 += buckets[j].count
			}
			for j := i + 1; j < numSAHBuckets; j++ {
				b1 = b1.Combine(buckets[j].bbox)
				count1 += buckets[j].count
			}
			cost[i] = 1.0 + (float64(count0)*b0.SurfaceArea()+
				float64(count1)*b1.SurfaceArea())/bbox.SurfaceArea()
		}

		minCost := cost[0]
		minCostSplitBucket := 0
		for i := 1; i < numSAHBuckets-1; i++ {
			if cost[i] < minCost {
				minCost = cost[i]
				minCostSplitBucket = i
			}
		}

		// A leaf might be cheaper than the best split.
		leafCost := float64(numComponents)
		if numComponents > maxComponentsPerNode || minCost < leafCost {
			mid = partition(info, func(ci *componentInfo) bool {
				return bucketOf(ci) <= minCostSplitBucket
			})
		} else {
			return newLeaf(arena, b.pushOrdered(info), numComponents, bbox)
		}
	}

	if mid <= 0 || mid >= numComponents {
		// Degenerate partition; fall back to halving.
		mid = numComponents / 2
	}
	c0 := b.recurseBuild(arena, info[:mid])
	c1 := b.recurseBuild(arena, info[mid:])
	return newInterior(arena, dim, c0, c1)
}

// flattenTree emits a depth-first layout where a node's first child
// immediately follows it and interior nodes record their second child's
// index.
func (b *BVH) flattenTree(arena []buildNode, root int) int {
	node := arena[root]
	index := len(b.nodes)
	b.nodes = append(b.nodes, linearNode{})

	if node.numComponents > 0 {
		b.nodes[index] = linearNode{
			bbox:          node.bbox,
			offset:        node.firstComponentOffset,
			numComponents: node.numComponents,
		}
		return index
	}

	b.flattenTree(arena, node.children[0])
	secondChildOffset := b.flattenTree(arena, node.children[1])
	b.nodes[index] = linearNode{
		bbox:   node.bbox,
		offset: secondChildOffset,
		axis:   node.splitAxis,
	}
	return index
}

// Prim returns the primitive at the given index.
func (b *BVH) Prim(index int) Primitive {
	return b.prims[index]
}

// NumPrims returns the number of primitives the hierarchy was built over.
func (b *BVH) NumPrims() int {
	return len(b.prims)
}

// NumLights returns the number of cached emissive primitives.
func (b *BVH) NumLights() int {
	return len(b.lights)
}

// Intersect returns the closest hit of the ray against any component.
// The ray should be unit length so that distances are metric, though
// parametric distances work as well.
func (b *BVH) Intersect(ray core.Ray) (Intersection, bool) {
	if len(b.nodes) == 0 {
		return Intersection{}, false
	}

	closestDist := math.MaxFloat64
	var closest Intersection
	found := false
	data := core.NewRayData(ray)

	current := 0
	nodesToVisit := make([]int, 0, 64)
	for {
		node := &b.nodes[current]

		if node.bbox.IntersectRay(ray, data, closestDist) {
			if node.numComponents > 0 {
				for i := node.offset; i < node.offset+node.numComponents; i++ {
					ref := b.components[i]
					prim := b.prims[ref.prim]
					dist, sp := prim.IntersectWorld(ray, ref.component)
					if dist != 0.0 && dist < closestDist {
						closest = Intersection{Dist: dist, SurfaceProps: sp, Prim: prim}
						closestDist = dist
						found = true
					}
				}
				if len(nodesToVisit) == 0 {
					break
				}
				current = nodesToVisit[len(nodesToVisit)-1]
				nodesToVisit = nodesToVisit[:len(nodesToVisit)-1]
			} else {
				// Advance to the near child, stack the far one.
				if data.DirIsNeg[node.axis] {
					nodesToVisit = append(nodesToVisit, current+1)
					current = node.offset
				} else {
					nodesToVisit = append(nodesToVisit, node.offset)
					current = current + 1
				}
			}
		} else {
			if len(nodesToVisit) == 0 {
				break
			}
			current = nodesToVisit[len(nodesToVisit)-1]
			nodesToVisit = nodesToVisit[:len(nodesToVisit)-1]
		}
	}

	return closest, found
}

// Visible reports whether nothing occludes the open segment between two
// points. Points closer together than a small epsilon are not reliably
// testable and report false.
func (b *BVH) Visible(p, q r3.Vector) bool {
	delta := q.Sub(p)
	dist := delta.Norm()
	if dist < minVisibilityDist {
		return false
	}
	dir := delta.Mul(1.0 / dist)

	shadow := core.Ray{Origin: p.Add(dir.Mul(core.RayPushDist)), Direction: dir}
	isect, hit := b.Intersect(shadow)
	return !hit || isect.Dist >= dist-2.0*core.RayPushDist
}

// SampleLight chooses uniformly among the cached emissive primitives and
// draws an emission ray from it. Returns false when the scene has no
// lights.
func (b *BVH) SampleLight(rng *rand.Rand) (LightSample, bool) {
	if len(b.lights) == 0 {
		return LightSample{}, false
	}

	primIndex := b.lights[rng.Intn(len(b.lights))]
	ray, sp, pointPdf, dirPdf := b.prims[primIndex].SampleRayWorld(rng)
	return LightSample{
		Ray:          ray,
		SurfaceProps: sp,
		PrimIndex:    primIndex,
		PointPdf:     pointPdf / float64(len(b.lights)),
		DirPdf:       dirPdf,
	}, true
}
