package film

import (
	"math/rand"
	"testing"

	"github.com/lumen-render/lumen/pkg/core"
	"go.viam.com/test"
)

func TestComputeSamplePoints(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	f := New(16, 9)

	samples := f.ComputeSamplePoints(rng, nil)
	test.That(t, len(samples), test.ShouldEqual, 16*9)

	for _, s := range samples {
		// Jitter can push positions past the lens window by up to the
		// filter width in pixel units.
		test.That(t, s.S, test.ShouldBeBetween, -1.5, 1.5)
		test.That(t, s.T, test.ShouldBeBetween, -2.0, 2.0)
		test.That(t, s.Color.IsBlack(), test.ShouldBeTrue)
	}

	// The buffer is reused across passes.
	again := f.ComputeSamplePoints(rng, samples)
	test.That(t, len(again), test.ShouldEqual, 16*9)
	test.That(t, cap(again), test.ShouldEqual, cap(samples))
}

// A single sample at an exact pixel center reconstructs to exactly its
// own color; the filter self-normalizes for one contributor.
func TestFilterMassConservation(t *testing.T) {
	f := New(8, 8)
	color := core.NewColor(0.25, 0.5, 0.75)

	// Lens position of the center of pixel (4, 4).
	s := core.Lerp(-1.0, 1.0, (0.5+4.0)/8.0)
	f.ReportSamples([]Sample{{Color: color, S: s, T: s}})

	got := f.PixelColor(4, 4)
	test.That(t, got.R, test.ShouldAlmostEqual, color.R)
	test.That(t, got.G, test.ShouldAlmostEqual, color.G)
	test.That(t, got.B, test.ShouldAlmostEqual, color.B)

	// Neighbors inside the filter support share the same normalized
	// color.
	neighbor := f.PixelColor(4, 5)
	test.That(t, neighbor.R, test.ShouldAlmostEqual, color.R)

	// Pixels outside the support stay untouched.
	test.That(t, f.PixelColor(0, 0).IsBlack(), test.ShouldBeTrue)
	test.That(t, f.Pixels[core.Index(0, 0, 8)].Weight, test.ShouldEqual, 0.0)
}

func TestProgressiveAccumulation(t *testing.T) {
	f := New(4, 4)
	s := core.Lerp(-1.0, 1.0, (0.5+2.0)/4.0)

	bright := Sample{Color: core.NewColor(1, 1, 1), S: s, T: s}
	dark := Sample{Color: core.Color{}, S: s, T: s}

	f.ReportSamples([]Sample{bright})
	test.That(t, f.PixelColor(2, 2).R, test.ShouldAlmostEqual, 1.0)

	// A second pass with a black sample averages the pixel down.
	f.ReportSamples([]Sample{dark})
	test.That(t, f.PixelColor(2, 2).R, test.ShouldAlmostEqual, 0.5)
}
