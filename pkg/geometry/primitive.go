// Package geometry provides the primitive shapes and the bounding volume
// hierarchy that accelerates ray queries over them.
package geometry

import (
	"math/rand"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/material"
)

// Primitive is a renderable shape. Composite shapes such as triangle
// meshes expose their parts as numbered components so the hierarchy can
// index them individually.
type Primitive interface {
	// Material returns the shared material of every component.
	Material() *material.Material

	// NumComponents returns how many independently-boundable parts the
	// primitive has. Simple shapes return 1.
	NumComponents() int

	// BBoxWorld returns the world-space bounding box of one component.
	BBoxWorld(component int) core.BBox

	// IntersectWorld intersects a world-space ray with one component. A
	// returned distance of 0.0 means no hit; the ray direction need not
	// be unit length, in which case the distance is parametric.
	IntersectWorld(r core.Ray, component int) (float64, core.SurfaceProperties)

	// SampleRayWorld draws a ray leaving the primitive's surface, for
	// emission sampling: a uniform area point with a cosine-weighted
	// direction. Returns the surface frame at the point plus the area and
	// direction densities.
	SampleRayWorld(rng *rand.Rand) (core.Ray, core.SurfaceProperties, float64, float64)
}
