package material

import (
	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
)

// Light is the emissive component of a material. The direction i is given
// in the local shading frame and points away from the surface.
type Light interface {
	L(i r3.Vector) core.Color
}

// DiffuseAreaLight emits a constant radiance toward the hemisphere on the
// normal side of the surface.
type DiffuseAreaLight struct {
	Color core.Color
}

func (l *DiffuseAreaLight) L(i r3.Vector) core.Color {
	if i.Z > 0 {
		return l.Color
	}
	return core.Color{}
}

// nullLight never emits.
type nullLight struct{}

func (nullLight) L(i r3.Vector) core.Color {
	return core.Color{}
}
