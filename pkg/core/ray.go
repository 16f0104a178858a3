package core

import (
	"math"

	"github.com/golang/geo/r3"
)

// RayPushDist is how far rays are offset along their direction at spawn
// time to avoid re-intersecting the surface they originate from.
const RayPushDist = 1e-3

// Ray is a half-line with unit direction.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// NewRay builds a ray, normalizing the direction.
func NewRay(origin, direction r3.Vector) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter distance t along the ray.
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}

// RayData caches per-ray values used repeatedly during traversal.
type RayData struct {
	InvDir   r3.Vector
	DirIsNeg [3]bool
}

// NewRayData precomputes reciprocal directions and sign bits for a ray.
func NewRayData(r Ray) RayData {
	return RayData{
		InvDir: r3.Vector{
			X: 1.0 / r.Direction.X,
			Y: 1.0 / r.Direction.Y,
			Z: 1.0 / r.Direction.Z,
		},
		DirIsNeg: [3]bool{r.Direction.X < 0, r.Direction.Y < 0, r.Direction.Z < 0},
	}
}

// VectorComp returns the named component of v, with axis 0=X, 1=Y, 2=Z.
func VectorComp(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// VectorIsFinite reports whether all components of v are finite numbers.
func VectorIsFinite(v r3.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}
