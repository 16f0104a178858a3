package material

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
)

// DisneySpecularTrans is a microfacet BTDF for refraction through a rough
// dielectric boundary. The relative index of refraction flips depending on
// which side the incoming direction lies.
type DisneySpecularTrans struct {
	color core.Color
	dist  *GGX
	etaA  float64
	etaB  float64
}

// NewDisneySpecularTrans builds the transmission lobe. etaB is the index
// of refraction inside the surface; outside is assumed to be vacuum.
func NewDisneySpecularTrans(color core.Color, roughness, ior float64) *DisneySpecularTrans {
	return &DisneySpecularTrans{
		color: color,
		dist:  NewGGX(roughness, 0),
		etaA:  1.0,
		etaB:  ior,
	}
}

func (t *DisneySpecularTrans) Kind() LobeKind {
	return LobeGlossy | LobeTransmission
}

func (t *DisneySpecularTrans) F(i, o r3.Vector) core.Color {
	if core.SameHemisphere(i, o) {
		return core.Color{}
	}

	cosIn := core.CosTheta(i)
	cosOut := core.CosTheta(o)
	if cosIn == 0 || cosOut == 0 {
		return core.Color{}
	}

	eta := t.etaB / t.etaA
	if cosIn <= 0 {
		eta = t.etaA / t.etaB
	}
	half := i.Add(o.Mul(eta)).Normalize()
	if half.Z < 0 {
		half = half.Mul(-1.0)
	}
	if i.Dot(half)*o.Dot(half) > 0 {
		return core.Color{}
	}

	fr := frDielectric(i.Dot(half), t.etaA, t.etaB)
	sqrtDenom := i.Dot(half) + eta*o.Dot(half)

	scale := (1.0 - fr) * math.Abs(
		t.dist.D(half)*t.dist.G(i, o)*eta*eta*
			math.Abs(o.Dot(half))*math.Abs(i.Dot(half))/
			(cosIn*cosOut*sqrtDenom*sqrtDenom))
	// The 1/eta^2 radiance compression factor cancels one eta^2 above for
	// camera-to-light transport.
	scale /= eta * eta
	return t.color.Scale(scale)
}

func (t *DisneySpecularTrans) PDF(i, o r3.Vector) float64 {
	if core.SameHemisphere(i, o) {
		return 0
	}

	eta := t.etaB / t.etaA
	if core.CosTheta(i) <= 0 {
		eta = t.etaA / t.etaB
	}
	half := i.Add(o.Mul(eta)).Normalize()
	if i.Dot(half)*o.Dot(half) > 0 {
		return 0
	}

	sqrtDenom := i.Dot(half) + eta*o.Dot(half)
	dHalfDOut := math.Abs(eta * eta * o.Dot(half) / (sqrtDenom * sqrtDenom))
	return t.dist.Pdf(i, half) * dHalfDOut
}

func (t *DisneySpecularTrans) SampleF(i r3.Vector, rng *rand.Rand) LobeSample {
	if core.CosTheta(i) == 0 {
		return LobeSample{Pdf: 0}
	}

	half := t.dist.SampleHalf(i, rng)
	if i.Dot(half) < 0 {
		return LobeSample{Pdf: 0}
	}

	eta := t.etaA / t.etaB
	if core.CosTheta(i) <= 0 {
		eta = t.etaB / t.etaA
	}
	o, ok := refract(i, half, eta)
	if !ok {
		return LobeSample{Pdf: 0}
	}

	return LobeSample{
		Result:   t.F(i, o),
		Outgoing: o,
		Pdf:      t.PDF(i, o),
	}
}
