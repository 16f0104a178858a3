package core

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestClamp(t *testing.T) {
	test.That(t, Clamp(0.5, 0, 1), test.ShouldEqual, 0.5)
	test.That(t, Clamp(-2, 0, 1), test.ShouldEqual, 0.0)
	test.That(t, Clamp(3, 0, 1), test.ShouldEqual, 1.0)
	test.That(t, ClampInt(7, 0, 4), test.ShouldEqual, 4)
	test.That(t, ClampInt(-1, 0, 4), test.ShouldEqual, 0)
}

func TestLerp(t *testing.T) {
	test.That(t, Lerp(2, 6, 0), test.ShouldEqual, 2.0)
	test.That(t, Lerp(2, 6, 1), test.ShouldEqual, 6.0)
	test.That(t, Lerp(2, 6, 0.5), test.ShouldEqual, 4.0)
	test.That(t, Lerp(2, 6, 2), test.ShouldEqual, 10.0)
	test.That(t, ClampedLerp(2, 6, 2), test.ShouldEqual, 6.0)
	test.That(t, ClampedLerp(2, 6, -1), test.ShouldEqual, 2.0)
}

func TestMitchellFilter(t *testing.T) {
	// The filter peaks at the center and decays monotonically over [0, 1].
	prev := MitchellFilter1(0)
	test.That(t, prev, test.ShouldBeGreaterThan, 0.0)
	for x := 0.05; x <= 1.0; x += 0.05 {
		cur := MitchellFilter1(x)
		test.That(t, cur, test.ShouldBeLessThan, prev)
		prev = cur
	}

	// Symmetric about zero.
	test.That(t, MitchellFilter1(0.3), test.ShouldAlmostEqual, MitchellFilter1(-0.3))

	// Separable form agrees with the product of the 1-d evaluations.
	got := MitchellFilter2(0.5, -0.25, 2.0)
	want := MitchellFilter1(0.25) * MitchellFilter1(-0.125)
	test.That(t, got, test.ShouldAlmostEqual, want)
}

func TestPowerHeuristic(t *testing.T) {
	// Symmetric strategies get equal weight.
	test.That(t, PowerHeuristic(1, 0.5, 1, 0.5), test.ShouldAlmostEqual, 0.5)
	// Weights for complementary orderings sum to one.
	a := PowerHeuristic(1, 0.8, 1, 0.2)
	b := PowerHeuristic(1, 0.2, 1, 0.8)
	test.That(t, a+b, test.ShouldAlmostEqual, 1.0)
	test.That(t, a, test.ShouldBeGreaterThan, b)
}

func TestGamma(t *testing.T) {
	g := Gamma(3)
	test.That(t, g, test.ShouldBeGreaterThan, 0.0)
	test.That(t, g, test.ShouldBeLessThan, 1e-14)
}

func TestRowColIndex(t *testing.T) {
	row, col := RowCol(17, 5)
	test.That(t, row, test.ShouldEqual, 3)
	test.That(t, col, test.ShouldEqual, 2)
	test.That(t, Index(row, col, 5), test.ShouldEqual, 17)
}

func TestColor(t *testing.T) {
	c := NewColor(0.2, 0.4, 0.8)
	test.That(t, c.Add(NewColor(0.1, 0.1, 0.1)).R, test.ShouldAlmostEqual, 0.3)
	test.That(t, c.Scale(2).G, test.ShouldAlmostEqual, 0.8)
	test.That(t, c.Mul(NewColor(0.5, 0.5, 0.5)).B, test.ShouldAlmostEqual, 0.4)

	test.That(t, NewColor(0, 0, 0).IsBlack(), test.ShouldBeTrue)
	test.That(t, c.IsBlack(), test.ShouldBeFalse)
	test.That(t, c.IsFinite(), test.ShouldBeTrue)
	test.That(t, NewColor(math.Inf(1), 0, 0).IsFinite(), test.ShouldBeFalse)

	test.That(t, White().Luminance(), test.ShouldAlmostEqual, 1.0)
	test.That(t, NewColor(0.25, 0.25, 0.25).Sqrt().R, test.ShouldAlmostEqual, 0.5)
}
