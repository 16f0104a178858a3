package core

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// CoordSystem builds two unit vectors that form a right-handed orthonormal
// basis together with the given unit vector.
func CoordSystem(v r3.Vector) (r3.Vector, r3.Vector) {
	var t r3.Vector
	if math.Abs(v.X) > math.Abs(v.Y) {
		inv := 1.0 / math.Sqrt(v.X*v.X+v.Z*v.Z)
		t = r3.Vector{X: -v.Z * inv, Z: v.X * inv}
	} else {
		inv := 1.0 / math.Sqrt(v.Y*v.Y+v.Z*v.Z)
		t = r3.Vector{Y: v.Z * inv, Z: -v.Y * inv}
	}
	return t, v.Cross(t)
}

// WorldToLocal expresses v in the frame whose z-axis is normal. The tangent
// and binormal must be orthonormal with the normal.
func WorldToLocal(v, tangent, binormal, normal r3.Vector) r3.Vector {
	return r3.Vector{X: v.Dot(tangent), Y: v.Dot(binormal), Z: v.Dot(normal)}
}

// LocalToWorld transforms v out of the frame whose z-axis is normal.
func LocalToWorld(v, tangent, binormal, normal r3.Vector) r3.Vector {
	return tangent.Mul(v.X).Add(binormal.Mul(v.Y)).Add(normal.Mul(v.Z))
}

// Local-frame trig helpers. All assume a unit vector in a frame where the
// surface normal is +z.

func CosTheta(v r3.Vector) float64    { return v.Z }
func AbsCosTheta(v r3.Vector) float64 { return math.Abs(v.Z) }
func Cos2Theta(v r3.Vector) float64   { return v.Z * v.Z }

func Sin2Theta(v r3.Vector) float64 { return math.Max(0, 1.0-Cos2Theta(v)) }
func SinTheta(v r3.Vector) float64  { return math.Sqrt(Sin2Theta(v)) }

func TanTheta(v r3.Vector) float64  { return SinTheta(v) / CosTheta(v) }
func Tan2Theta(v r3.Vector) float64 { return Sin2Theta(v) / Cos2Theta(v) }

func CosPhi(v r3.Vector) float64 {
	s := SinTheta(v)
	if s == 0 {
		return 1
	}
	return Clamp(v.X/s, -1, 1)
}

func SinPhi(v r3.Vector) float64 {
	s := SinTheta(v)
	if s == 0 {
		return 0
	}
	return Clamp(v.Y/s, -1, 1)
}

func Cos2Phi(v r3.Vector) float64 { c := CosPhi(v); return c * c }
func Sin2Phi(v r3.Vector) float64 { s := SinPhi(v); return s * s }

// SameHemisphere reports whether two local-frame vectors point into the
// same side of the surface.
func SameHemisphere(a, b r3.Vector) bool {
	return a.Z*b.Z > 0
}

// ConcentricDiskSample maps two uniform [0,1) samples onto the unit disk
// with low distortion.
func ConcentricDiskSample(rng *rand.Rand) (float64, float64) {
	uX := 2.0*rng.Float64() - 1.0
	uY := 2.0*rng.Float64() - 1.0
	if uX == 0 && uY == 0 {
		return 0, 0
	}

	var r, theta float64
	if math.Abs(uX) > math.Abs(uY) {
		r = uX
		theta = (math.Pi / 4.0) * (uY / uX)
	} else {
		r = uY
		theta = math.Pi/2.0 - (math.Pi/4.0)*(uX/uY)
	}
	return r * math.Cos(theta), r * math.Sin(theta)
}

// CosineSampleHemisphere draws a direction in the +z hemisphere with
// probability density cos(theta)/pi, optionally flipped into -z.
func CosineSampleHemisphere(rng *rand.Rand, flipped bool) r3.Vector {
	x, y := ConcentricDiskSample(rng)
	z := math.Sqrt(math.Max(0, 1.0-x*x-y*y))
	if flipped {
		z = -z
	}
	return r3.Vector{X: x, Y: y, Z: z}
}

// CosineSampleHemispherePdf is the density of CosineSampleHemisphere for a
// direction making angle theta with the +z axis.
func CosineSampleHemispherePdf(cosTheta float64) float64 {
	return math.Abs(cosTheta) / math.Pi
}

// UniformSampleSphere draws a direction uniformly over the unit sphere.
func UniformSampleSphere(rng *rand.Rand) r3.Vector {
	z := 1.0 - 2.0*rng.Float64()
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * rng.Float64()
	return r3.Vector{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
}

// UniformSampleSpherePdf is the density of UniformSampleSphere.
func UniformSampleSpherePdf() float64 {
	return 1.0 / (4.0 * math.Pi)
}
