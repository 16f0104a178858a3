package material

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
)

// DisneyDiffuseRefl combines the Lambertian base, the retro-reflection
// term, and the sheen term of the Disney BRDF in one closed form.
type DisneyDiffuseRefl struct {
	color      core.Color
	sheenColor core.Color
	roughness  float64
}

// NewDisneyDiffuseRefl builds the diffuse lobe. The sheen color may be
// black when the material has no sheen.
func NewDisneyDiffuseRefl(color, sheenColor core.Color, roughness float64) *DisneyDiffuseRefl {
	return &DisneyDiffuseRefl{color: color, sheenColor: sheenColor, roughness: roughness}
}

func (d *DisneyDiffuseRefl) Kind() LobeKind {
	return LobeDiffuse | LobeReflection
}

func (d *DisneyDiffuseRefl) F(i, o r3.Vector) core.Color {
	if !core.SameHemisphere(i, o) {
		return core.Color{}
	}

	half := i.Add(o)
	if half.Norm2() == 0 {
		return core.Color{}
	}
	// Could equally use o here.
	cosThetaD := i.Dot(half.Normalize())

	fIn := schlickWeight(core.AbsCosTheta(i))
	fOut := schlickWeight(core.AbsCosTheta(o))

	lambert := d.color.Scale((1.0 / math.Pi) * (1.0 - 0.5*fIn) * (1.0 - 0.5*fOut))

	rr := 2.0 * d.roughness * cosThetaD * cosThetaD
	retro := d.color.Scale((1.0 / math.Pi) * rr * (fOut + fIn + fOut*fIn*(rr-1.0)))

	sheen := d.sheenColor.Scale(schlickWeight(cosThetaD))

	return lambert.Add(retro).Add(sheen)
}

func (d *DisneyDiffuseRefl) PDF(i, o r3.Vector) float64 {
	return cosineHemispherePDF(i, o)
}

func (d *DisneyDiffuseRefl) SampleF(i r3.Vector, rng *rand.Rand) LobeSample {
	return cosineHemisphereSampleF(d, i, rng)
}
