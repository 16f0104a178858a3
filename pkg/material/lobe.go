// Package material implements the Disney principled BSDF as a weighted
// collection of lobes, following Burley's 2012 and 2015 SIGGRAPH course
// notes:
// http://blog.selfshadow.com/publications/s2012-shading-course/burley/s2012_pbs_disney_brdf_notes_v3.pdf
// http://blog.selfshadow.com/publications/s2015-shading-course/burley/s2015_pbs_disney_bsdf_notes.pdf
//
// All lobe computations happen in the local shading frame, where the
// surface normal is +z and both the incoming and outgoing directions point
// away from the surface.
package material

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
)

// LobeKind tags a lobe with its scattering capabilities.
type LobeKind int

const (
	LobeDiffuse LobeKind = 1 << iota
	LobeGlossy
	LobeSpecular
	LobeReflection
	LobeTransmission
)

// Contains reports whether all bits of other are set on k.
func (k LobeKind) Contains(other LobeKind) bool {
	return k&other == other
}

// LobeSample is the transient result of importance-sampling one lobe.
type LobeSample struct {
	Result   core.Color
	Outgoing r3.Vector
	Pdf      float64
}

// Lobe is one additive term of a material's BSDF. Implementations are
// stateless pure evaluators over local-frame directions.
type Lobe interface {
	Kind() LobeKind

	// F evaluates the BSDF for an (incoming, outgoing) direction pair.
	F(i, o r3.Vector) core.Color

	// PDF returns the sampling density of SampleF for the pair.
	PDF(i, o r3.Vector) float64

	// SampleF draws an outgoing direction for the incoming one and
	// evaluates the lobe for the pair.
	SampleF(i r3.Vector, rng *rand.Rand) LobeSample
}

// cosineHemispherePDF is the default density for lobes that sample the
// cosine-weighted hemisphere on the incoming direction's side.
func cosineHemispherePDF(i, o r3.Vector) float64 {
	if !core.SameHemisphere(i, o) {
		return 0
	}
	return core.CosineSampleHemispherePdf(core.CosTheta(o))
}

// cosineHemisphereSampleF is the default importance sampler shared by the
// non-specular reflection lobes.
func cosineHemisphereSampleF(l Lobe, i r3.Vector, rng *rand.Rand) LobeSample {
	o := core.CosineSampleHemisphere(rng, i.Z < 0)
	return LobeSample{
		Result:   l.F(i, o),
		Outgoing: o,
		Pdf:      cosineHemispherePDF(i, o),
	}
}

// schlickWeight is the (1 - cos(theta))^5 Fresnel interpolation weight.
func schlickWeight(cosTheta float64) float64 {
	x := core.ClampUnit(1.0 - cosTheta)
	return x * x * x * x * x
}

// frDielectric computes the exact Fresnel reflectance of a dielectric
// boundary. See PBRT 3e, page 518. cosThetaI may be on either side.
func frDielectric(cosThetaI, etaI, etaT float64) float64 {
	cosThetaI = core.Clamp(cosThetaI, -1, 1)
	if cosThetaI < 0 {
		etaI, etaT = etaT, etaI
		cosThetaI = -cosThetaI
	}

	sinThetaI := math.Sqrt(math.Max(0, 1.0-cosThetaI*cosThetaI))
	sinThetaT := etaI / etaT * sinThetaI
	if sinThetaT >= 1 {
		// Total internal reflection.
		return 1
	}
	cosThetaT := math.Sqrt(math.Max(0, 1.0-sinThetaT*sinThetaT))

	rParl := ((etaT * cosThetaI) - (etaI * cosThetaT)) /
		((etaT * cosThetaI) + (etaI * cosThetaT))
	rPerp := ((etaI * cosThetaI) - (etaT * cosThetaT)) /
		((etaI * cosThetaI) + (etaT * cosThetaT))
	return (rParl*rParl + rPerp*rPerp) / 2.0
}

// schlickR0FromEta converts a relative index of refraction into the
// normal-incidence reflectance used by the Schlick approximation.
func schlickR0FromEta(eta float64) float64 {
	r := (eta - 1.0) / (eta + 1.0)
	return r * r
}

// reflect mirrors v about the unit vector n.
func reflect(v, n r3.Vector) r3.Vector {
	return v.Mul(-1.0).Add(n.Mul(2.0 * v.Dot(n)))
}

// refract bends v about the unit normal n for the relative index eta,
// returning false on total internal reflection. v points away from the
// surface and must be on the same side as n.
func refract(v, n r3.Vector, eta float64) (r3.Vector, bool) {
	cosThetaI := n.Dot(v)
	sin2ThetaI := math.Max(0, 1.0-cosThetaI*cosThetaI)
	sin2ThetaT := eta * eta * sin2ThetaI
	if sin2ThetaT >= 1 {
		return r3.Vector{}, false
	}
	cosThetaT := math.Sqrt(1.0 - sin2ThetaT)
	return v.Mul(-eta).Add(n.Mul(eta*cosThetaI - cosThetaT)), true
}
