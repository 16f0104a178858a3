// Package integrator estimates the radiance arriving along camera rays by
// simulating light transport against a scene hierarchy.
package integrator

import (
	"math/rand"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/geometry"
)

// Integrator produces one RGB radiance estimate for one camera ray. The
// hierarchy is shared read-only; the generator is private to the caller.
type Integrator interface {
	Integrate(ray core.Ray, bvh *geometry.BVH, rng *rand.Rand) core.Color
}

// DisplayColor shades hits with their material's preview color, with no
// light transport. Useful for checking scene composition quickly.
type DisplayColor struct{}

func (DisplayColor) Integrate(ray core.Ray, bvh *geometry.BVH, rng *rand.Rand) core.Color {
	isect, hit := bvh.Intersect(ray)
	if !hit {
		return core.Color{}
	}
	return isect.Prim.Material().DisplayColor()
}
