// Package scene assembles primitive collections and cameras for the
// renderer driver.
package scene

import (
	"github.com/golang/geo/r3"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/geometry"
	"github.com/lumen-render/lumen/pkg/material"
)

// Scene is a primitive collection plus the camera observing it.
type Scene struct {
	Name   string
	Prims  []geometry.Primitive
	Camera core.Camera
}

// Default is a minimal two-sphere scene: a matte sphere straight ahead of
// the camera and an emissive sphere beside it.
func Default() *Scene {
	white := material.Disney().
		BaseColor(core.NewColor(0.9, 0.9, 0.9)).
		Roughness(1.0).
		Build()
	lamp := material.NewDiffuseLight(core.NewColor(2, 2, 2))

	return &Scene{
		Name: "default",
		Prims: []geometry.Primitive{
			geometry.NewSphere(white, r3.Vector{Z: -100}, 5.0),
			geometry.NewSphere(lamp, r3.Vector{X: 15, Z: -100}, 5.0),
		},
		Camera: core.DefaultCamera(),
	}
}

// Showcase exercises the whole material palette: matte, metal, glass,
// clearcoat, and mirror spheres on a large matte floor under one lamp.
func Showcase() *Scene {
	floor := material.Disney().
		BaseColor(core.NewColor(0.7, 0.7, 0.7)).
		Roughness(0.9).
		Build()
	matte := material.Disney().
		BaseColor(core.NewColor(0.8, 0.3, 0.25)).
		Roughness(0.8).
		Build()
	metal := material.Disney().
		BaseColor(core.NewColor(0.95, 0.78, 0.45)).
		Metallic(1.0).
		Roughness(0.25).
		Build()
	glass := material.Disney().
		BaseColor(core.NewColor(0.9, 0.95, 1.0)).
		SpecularTrans(1.0).
		Roughness(0.05).
		Ior(1.5).
		Build()
	coated := material.Disney().
		BaseColor(core.NewColor(0.2, 0.4, 0.75)).
		Roughness(0.5).
		Clearcoat(1.0).
		ClearcoatGloss(0.9).
		Sheen(0.4).
		Build()
	lamp := material.NewDiffuseLight(core.NewColor(8, 8, 8))

	return &Scene{
		Name: "showcase",
		Prims: []geometry.Primitive{
			geometry.NewSphere(floor, r3.Vector{Y: -1005, Z: -40}, 1000.0),
			geometry.NewSphere(matte, r3.Vector{X: -9, Z: -40}, 4.0),
			geometry.NewSphere(metal, r3.Vector{Z: -40}, 4.0),
			geometry.NewSphere(glass, r3.Vector{X: 9, Z: -40}, 4.0),
			geometry.NewSphere(coated, r3.Vector{X: -4.5, Y: -2.5, Z: -30}, 1.5),
			geometry.NewSphere(material.NewMirror(), r3.Vector{X: 4.5, Y: -2.5, Z: -30}, 1.5),
			geometry.NewSphere(lamp, r3.Vector{Y: 25, Z: -40}, 10.0),
		},
		Camera: core.LookAtCamera(
			5.0, core.HorizontalAperture35mm, core.VerticalAperture35mm, 8.0,
			r3.Vector{Y: 2, Z: 5}, r3.Vector{Z: -40}, r3.Vector{Y: 1}),
	}
}

// ByName looks up a built-in scene.
func ByName(name string) (*Scene, bool) {
	switch name {
	case "default":
		return Default(), true
	case "showcase":
		return Showcase(), true
	default:
		return nil, false
	}
}
