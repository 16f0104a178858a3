package render

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/film"
	"github.com/lumen-render/lumen/pkg/geometry"
	"github.com/lumen-render/lumen/pkg/integrator"
	"github.com/lumen-render/lumen/pkg/material"
	"go.viam.com/test"
)

func testPrims() []geometry.Primitive {
	diffuse := material.Disney().BaseColor(core.NewColor(0.8, 0.2, 0.2)).Build()
	emissive := material.NewDiffuseLight(core.NewColor(2, 2, 2))
	return []geometry.Primitive{
		geometry.NewSphere(diffuse, r3.Vector{Z: -100}, 5.0),
		geometry.NewSphere(emissive, r3.Vector{X: 15, Z: -100}, 5.0),
	}
}

func TestStageTrace(t *testing.T) {
	stage := NewStage(testPrims(), 4)
	test.That(t, stage.Workers(), test.ShouldEqual, 4)
	test.That(t, stage.BVH().NumPrims(), test.ShouldEqual, 2)

	f := film.New(32, 24)
	camera := core.DefaultCamera()

	err := stage.Trace(context.Background(), camera, integrator.DisplayColor{}, f)
	test.That(t, err, test.ShouldBeNil)

	// Every pixel has been touched by at least one filtered sample.
	covered := 0
	for _, p := range f.Pixels {
		if p.Weight != 0 {
			covered++
		}
	}
	test.That(t, covered, test.ShouldEqual, len(f.Pixels))

	// The sphere in front of the camera shows up in the image center.
	center := f.PixelColor(12, 16)
	test.That(t, center.R, test.ShouldBeGreaterThan, 0.0)
}

func TestStageTraceProgressive(t *testing.T) {
	stage := NewStage(testPrims(), 2)
	f := film.New(16, 16)
	camera := core.DefaultCamera()

	err := stage.Trace(context.Background(), camera, integrator.NewPathTracer(), f)
	test.That(t, err, test.ShouldBeNil)
	firstWeight := f.Pixels[core.Index(8, 8, 16)].Weight

	err = stage.Trace(context.Background(), camera, integrator.NewPathTracer(), f)
	test.That(t, err, test.ShouldBeNil)

	// Weights keep accumulating across passes.
	test.That(t, f.Pixels[core.Index(8, 8, 16)].Weight, test.ShouldBeGreaterThan, firstWeight)
}

func TestStageTraceCancelled(t *testing.T) {
	stage := NewStage(testPrims(), 2)
	f := film.New(64, 64)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := stage.Trace(ctx, core.DefaultCamera(), integrator.NewBdpt(), f)
	test.That(t, err, test.ShouldBeError, context.Canceled)

	// The film stays untouched when a pass is abandoned.
	for _, p := range f.Pixels {
		test.That(t, p.Weight, test.ShouldEqual, 0.0)
	}
}
