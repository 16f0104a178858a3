package core

import "math"

const epsilon = 1e-9

// Clamp limits x to the interval [a, b].
func Clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// ClampInt limits x to the interval [a, b].
func ClampInt(x, a, b int) int {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

// ClampUnit limits x to [0, 1].
func ClampUnit(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Lerp linearly interpolates between x and y. Where a = 0, x is returned,
// and where a = 1, y is returned. Values outside [0, 1] extrapolate.
func Lerp(x, y, a float64) float64 {
	return x + a*(y-x)
}

// ClampedLerp interpolates between x and y without extrapolating.
func ClampedLerp(x, y, a float64) float64 {
	return Lerp(x, y, ClampUnit(a))
}

// IsNearlyZero reports whether x is zero within a small epsilon.
func IsNearlyZero(x float64) bool {
	return math.Abs(x) < epsilon
}

// IsPositive reports whether x is positive beyond a small epsilon.
func IsPositive(x float64) bool {
	return x > epsilon
}

// Gamma computes the floating-point error bound term (n*eps)/(1-n*eps)
// used to stabilize slab tests. See PBRT 3e, section 3.9.
func Gamma(n float64) float64 {
	machEps := math.Nextafter(1, 2) - 1
	return (n * machEps) / (1 - n*machEps)
}

// MitchellFilter1 computes the 1-dimensional Mitchell-Netravali filter with
// B = C = 1/3 for a scaled offset from the pixel center, -1 <= x <= 1.
// The values are not normalized; use the weights relative to each other.
func MitchellFilter1(x float64) float64 {
	const b = 1.0 / 3.0
	const c = 1.0 / 3.0

	twoX := math.Abs(2.0 * x) // Convert to the range [0, 2].

	if twoX > 1.0 {
		return ((-b-6.0*c)*(twoX*twoX*twoX) +
			(6.0*b+30.0*c)*(twoX*twoX) +
			(-12.0*b-48.0*c)*twoX +
			(8.0*b + 24.0*c)) * (1.0 / 6.0)
	}
	return ((12.0-9.0*b-6.0*c)*(twoX*twoX*twoX) +
		(-18.0+12.0*b+6.0*c)*(twoX*twoX) +
		(6.0 - 2.0*b)) * (1.0 / 6.0)
}

// MitchellFilter2 evaluates the separable 2-dimensional Mitchell filter at
// an offset from the pixel center, where width is the maximum x- or y-
// offset sampled from the pixel center.
func MitchellFilter2(x, y, width float64) float64 {
	return MitchellFilter1(x/width) * MitchellFilter1(y/width)
}

// PowerHeuristic computes the power-heuristic weight for combining two
// sampling strategies. See PBRT 3e, page 798.
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	return (f * f) / (f*f + g*g)
}

// RowCol converts a flat pixel index into (row, col) coordinates.
func RowCol(index, width int) (int, int) {
	return index / width, index % width
}

// Index converts (row, col) coordinates into a flat pixel index.
func Index(row, col, width int) int {
	return row*width + col
}
