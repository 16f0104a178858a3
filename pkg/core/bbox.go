package core

import (
	"math"

	"github.com/golang/geo/r3"
)

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min r3.Vector
	Max r3.Vector
}

// EmptyBBox returns an inverted box that unions correctly with any point.
func EmptyBBox() BBox {
	return BBox{
		Min: r3.Vector{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: r3.Vector{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// NewBBox builds a box from two corner points in any order.
func NewBBox(a, b r3.Vector) BBox {
	return BBox{
		Min: r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// Union grows the box to contain the point p.
func (b BBox) Union(p r3.Vector) BBox {
	return BBox{
		Min: r3.Vector{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: r3.Vector{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

// Combine grows the box to contain the other box.
func (b BBox) Combine(other BBox) BBox {
	return BBox{
		Min: r3.Vector{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y), Z: math.Min(b.Min.Z, other.Min.Z)},
		Max: r3.Vector{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y), Z: math.Max(b.Max.Z, other.Max.Z)},
	}
}

// Contains reports whether p is inside the box, boundary included.
func (b BBox) Contains(p r3.Vector) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Centroid returns the box center.
func (b BBox) Centroid() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Diagonal returns the vector from the min corner to the max corner.
func (b BBox) Diagonal() r3.Vector {
	return b.Max.Sub(b.Min)
}

// MaximumExtent returns the axis (0=X, 1=Y, 2=Z) along which the box is
// longest.
func (b BBox) MaximumExtent() int {
	d := b.Diagonal()
	if d.X > d.Y && d.X > d.Z {
		return 0
	}
	if d.Y > d.Z {
		return 1
	}
	return 2
}

// RelativeOffset returns the position of p relative to the box corners,
// (0,0,0) at the min corner and (1,1,1) at the max corner.
func (b BBox) RelativeOffset(p r3.Vector) r3.Vector {
	o := p.Sub(b.Min)
	d := b.Diagonal()
	if d.X > 0 {
		o.X /= d.X
	}
	if d.Y > 0 {
		o.Y /= d.Y
	}
	if d.Z > 0 {
		o.Z /= d.Z
	}
	return o
}

// SurfaceArea returns the total surface area of the box faces.
func (b BBox) SurfaceArea() float64 {
	d := b.Diagonal()
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return 2.0 * (d.X*d.Y + d.X*d.Z + d.Y*d.Z)
}

// IntersectRay reports whether the ray hits the box at a parameter distance
// no greater than maxDist. The slab intervals are widened by a conservative
// floating-point error bound so that true hits are never missed.
func (b BBox) IntersectRay(r Ray, data RayData, maxDist float64) bool {
	tMin, tMax := b.slab(r, data, 0)
	tyMin, tyMax := b.slab(r, data, 1)

	// Widen to guarantee the intervals overlap when they should.
	errPad := 1.0 + 2.0*Gamma(3)
	tMax *= errPad
	tyMax *= errPad
	if tMin > tyMax || tyMin > tMax {
		return false
	}
	if tyMin > tMin {
		tMin = tyMin
	}
	if tyMax < tMax {
		tMax = tyMax
	}

	tzMin, tzMax := b.slab(r, data, 2)
	tzMax *= errPad
	if tMin > tzMax || tzMin > tMax {
		return false
	}
	if tzMin > tMin {
		tMin = tzMin
	}
	if tzMax < tMax {
		tMax = tzMax
	}

	return tMin < maxDist && tMax > 0
}

func (b BBox) slab(r Ray, data RayData, axis int) (float64, float64) {
	near, far := b.Min, b.Max
	if data.DirIsNeg[axis] {
		near, far = far, near
	}
	inv := VectorComp(data.InvDir, axis)
	o := VectorComp(r.Origin, axis)
	return (VectorComp(near, axis) - o) * inv, (VectorComp(far, axis) - o) * inv
}
