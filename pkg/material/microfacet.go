package material

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
)

// Distribution is a microfacet normal distribution with Smith shadowing.
type Distribution interface {
	// D evaluates the differential area of microfacets oriented along the
	// half-vector.
	D(half r3.Vector) float64

	// G is the bidirectional shadowing-masking term.
	G(i, o r3.Vector) float64

	// SampleHalf draws a half-vector on the same side as i with density
	// Pdf.
	SampleHalf(i r3.Vector, rng *rand.Rand) r3.Vector

	// Pdf is the density of SampleHalf with respect to solid angle.
	Pdf(i, half r3.Vector) float64
}

// Fresnel computes the reflectance fraction for a given cosine of the
// angle between the incoming direction and the half-vector.
type Fresnel interface {
	Evaluate(cosI float64) core.Color
}

// GGX is the Trowbridge-Reitz distribution, optionally anisotropic.
type GGX struct {
	alphaX float64
	alphaY float64
}

// NewGGX maps perceptual roughness and anisotropy onto distribution
// widths.
func NewGGX(roughness, anisotropic float64) *GGX {
	aspect := math.Sqrt(1.0 - 0.9*anisotropic)
	a2 := roughness * roughness
	return &GGX{
		alphaX: math.Max(1e-3, a2/aspect),
		alphaY: math.Max(1e-3, a2*aspect),
	}
}

func (g *GGX) D(half r3.Vector) float64 {
	tan2Theta := core.Tan2Theta(half)
	if math.IsInf(tan2Theta, 0) {
		return 0
	}
	cos2Theta := core.Cos2Theta(half)
	cos4Theta := cos2Theta * cos2Theta

	e := (core.Cos2Phi(half)/(g.alphaX*g.alphaX) +
		core.Sin2Phi(half)/(g.alphaY*g.alphaY)) * tan2Theta
	return 1.0 / (math.Pi * g.alphaX * g.alphaY * cos4Theta * (1.0 + e) * (1.0 + e))
}

func (g *GGX) lambda(v r3.Vector) float64 {
	absTanTheta := math.Abs(core.TanTheta(v))
	if math.IsInf(absTanTheta, 0) {
		return 0
	}
	alpha := math.Sqrt(core.Cos2Phi(v)*g.alphaX*g.alphaX +
		core.Sin2Phi(v)*g.alphaY*g.alphaY)
	a2Tan2 := (alpha * absTanTheta) * (alpha * absTanTheta)
	return (-1.0 + math.Sqrt(1.0+a2Tan2)) / 2.0
}

func (g *GGX) G(i, o r3.Vector) float64 {
	return 1.0 / (1.0 + g.lambda(i) + g.lambda(o))
}

func (g *GGX) SampleHalf(i r3.Vector, rng *rand.Rand) r3.Vector {
	u0, u1 := rng.Float64(), rng.Float64()

	var phi float64
	if g.alphaX == g.alphaY {
		phi = 2.0 * math.Pi * u1
	} else {
		phi = math.Atan(g.alphaY / g.alphaX * math.Tan(2.0*math.Pi*u1+0.5*math.Pi))
		if u1 > 0.5 {
			phi += math.Pi
		}
	}

	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
	alpha2 := 1.0 / (cosPhi*cosPhi/(g.alphaX*g.alphaX) + sinPhi*sinPhi/(g.alphaY*g.alphaY))
	tan2Theta := alpha2 * u0 / (1.0 - u0)

	cosTheta := 1.0 / math.Sqrt(1.0+tan2Theta)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	half := r3.Vector{X: sinTheta * cosPhi, Y: sinTheta * sinPhi, Z: cosTheta}
	if !core.SameHemisphere(i, half) {
		half = half.Mul(-1.0)
	}
	return half
}

func (g *GGX) Pdf(i, half r3.Vector) float64 {
	return g.D(half) * core.AbsCosTheta(half)
}

// GTR1 is the Berry distribution used by the Disney clearcoat lobe. Its
// long tails give the coat a soft halo.
type GTR1 struct {
	alpha float64
}

// NewGTR1 maps clearcoat gloss onto the distribution width.
func NewGTR1(gloss float64) *GTR1 {
	return &GTR1{alpha: core.Lerp(0.1, 1e-3, gloss)}
}

func (g *GTR1) D(half r3.Vector) float64 {
	a2 := g.alpha * g.alpha
	return (a2 - 1.0) /
		(math.Pi * math.Log(a2) * (1.0 + (a2-1.0)*core.Cos2Theta(half)))
}

func (g *GTR1) lambda(v r3.Vector) float64 {
	// The clearcoat layer always uses a fixed 0.25 roughness for
	// shadowing, per Burley's notes.
	const alpha = 0.25
	absTanTheta := math.Abs(core.TanTheta(v))
	if math.IsInf(absTanTheta, 0) {
		return 0
	}
	a2Tan2 := (alpha * absTanTheta) * (alpha * absTanTheta)
	return (-1.0 + math.Sqrt(1.0+a2Tan2)) / 2.0
}

func (g *GTR1) G(i, o r3.Vector) float64 {
	return 1.0 / (1.0 + g.lambda(i) + g.lambda(o))
}

func (g *GTR1) SampleHalf(i r3.Vector, rng *rand.Rand) r3.Vector {
	u0, u1 := rng.Float64(), rng.Float64()
	a2 := g.alpha * g.alpha

	cosTheta := math.Sqrt(math.Max(0, (1.0-math.Pow(a2, 1.0-u0))/(1.0-a2)))
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * u1

	half := r3.Vector{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: cosTheta}
	if !core.SameHemisphere(i, half) {
		half = half.Mul(-1.0)
	}
	return half
}

func (g *GTR1) Pdf(i, half r3.Vector) float64 {
	return g.D(half) * core.AbsCosTheta(half)
}

// DisneyFresnel blends the exact dielectric reflectance with a tinted
// Schlick metallic reflectance.
type DisneyFresnel struct {
	r0       core.Color
	metallic float64
	eta      float64
}

// NewDisneyFresnel derives the normal-incidence reflectance color from the
// base color, specular tint, metallic blend, and index of refraction.
func NewDisneyFresnel(baseColor core.Color, metallic, specularTint, eta float64) *DisneyFresnel {
	specColor := core.White().Lerp(baseColor.Tint(), specularTint).Scale(schlickR0FromEta(eta))
	return &DisneyFresnel{
		r0:       specColor.Lerp(baseColor, metallic),
		metallic: metallic,
		eta:      eta,
	}
}

func (f *DisneyFresnel) Evaluate(cosI float64) core.Color {
	dielectric := core.White().Scale(frDielectric(cosI, 1.0, f.eta))
	metallic := f.r0.Lerp(core.White(), schlickWeight(cosI))
	return dielectric.Lerp(metallic, f.metallic)
}

// SchlickFresnel is the fixed-reflectance Schlick approximation used by
// the clearcoat lobe.
type SchlickFresnel struct {
	r0 float64
}

// NewSchlickFresnel builds a Schlick Fresnel with the given
// normal-incidence reflectance.
func NewSchlickFresnel(r0 float64) *SchlickFresnel {
	return &SchlickFresnel{r0: r0}
}

func (f *SchlickFresnel) Evaluate(cosI float64) core.Color {
	return core.White().Scale(f.r0 + (1.0-f.r0)*schlickWeight(cosI))
}

// StandardMicrofacetRefl is the torrance-sparrow reflection BRDF
// F*D*G/(4*cosIn*cosOut) over any distribution and Fresnel pairing.
type StandardMicrofacetRefl struct {
	color   core.Color
	dist    Distribution
	fresnel Fresnel
}

// NewStandardMicrofacetRefl builds a microfacet reflection lobe.
func NewStandardMicrofacetRefl(color core.Color, dist Distribution, fresnel Fresnel) *StandardMicrofacetRefl {
	return &StandardMicrofacetRefl{color: color, dist: dist, fresnel: fresnel}
}

func (m *StandardMicrofacetRefl) Kind() LobeKind {
	return LobeGlossy | LobeReflection
}

func (m *StandardMicrofacetRefl) F(i, o r3.Vector) core.Color {
	cosIn := core.AbsCosTheta(i)
	cosOut := core.AbsCosTheta(o)
	half := i.Add(o)
	if cosIn == 0 || cosOut == 0 || half.Norm2() == 0 {
		return core.Color{}
	}
	if !core.SameHemisphere(i, o) {
		return core.Color{}
	}

	half = half.Normalize()
	fr := m.fresnel.Evaluate(i.Dot(half))
	scale := m.dist.D(half) * m.dist.G(i, o) / (4.0 * cosIn * cosOut)
	return m.color.Mul(fr).Scale(scale)
}

func (m *StandardMicrofacetRefl) PDF(i, o r3.Vector) float64 {
	if !core.SameHemisphere(i, o) {
		return 0
	}
	half := i.Add(o)
	if half.Norm2() == 0 {
		return 0
	}
	half = half.Normalize()
	return m.dist.Pdf(i, half) / (4.0 * i.Dot(half))
}

func (m *StandardMicrofacetRefl) SampleF(i r3.Vector, rng *rand.Rand) LobeSample {
	if core.CosTheta(i) == 0 {
		return LobeSample{Pdf: 0}
	}

	half := m.dist.SampleHalf(i, rng)
	if i.Dot(half) < 0 {
		return LobeSample{Pdf: 0}
	}

	o := reflect(i, half)
	if !core.SameHemisphere(i, o) {
		return LobeSample{Pdf: 0}
	}

	return LobeSample{
		Result:   m.F(i, o),
		Outgoing: o,
		Pdf:      m.dist.Pdf(i, half) / (4.0 * i.Dot(half)),
	}
}
