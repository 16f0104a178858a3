package material

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
)

// Sample is the result of importance-sampling a material at a hit point.
// All directions are world-space.
type Sample struct {
	Result   core.Color
	Outgoing r3.Vector
	Pdf      float64
	Kind     LobeKind
	Emission core.Color
}

// Material aggregates an ordered list of lobes plus an optional emitter.
// The lobe list is never mutated after construction.
type Material struct {
	display  core.Color
	light    Light
	lobes    []Lobe
	emissive bool
}

// NewDiffuseLight builds a pure emitter with no scattering lobes.
func NewDiffuseLight(incandescence core.Color) *Material {
	return &Material{
		display:  incandescence,
		light:    &DiffuseAreaLight{Color: incandescence},
		lobes:    nil,
		emissive: true,
	}
}

// NewMirror builds a perfectly specular reflector.
func NewMirror() *Material {
	return &Material{
		display: core.White(),
		light:   nullLight{},
		lobes:   []Lobe{NewPerfectMirror()},
	}
}

// DisplayColor returns a representative color for previews.
func (m *Material) DisplayColor() core.Color {
	return m.display
}

// IsEmissive reports whether the material carries a light emitter.
func (m *Material) IsEmissive() bool {
	return m.emissive
}

// LightWorld returns the emitted radiance toward the world-space incoming
// direction, which must be on the emitting side of the geometric normal.
func (m *Material) LightWorld(in r3.Vector, sp core.SurfaceProperties) core.Color {
	if in.Dot(sp.GeomNormal) <= 0 {
		return core.Color{}
	}
	return m.light.L(sp.WorldToLocal(in))
}

// FWorld evaluates the combined BSDF for a world-space direction pair,
// summing every lobe whose reflect/transmit capability matches which side
// of the geometric normal the two directions lie on.
func (m *Material) FWorld(in, out r3.Vector, sp core.SurfaceProperties, cameraToLight bool) core.Color {
	localIn := sp.WorldToLocal(in)
	localOut := sp.WorldToLocal(out)
	reflecting := in.Dot(sp.GeomNormal)*out.Dot(sp.GeomNormal) > 0

	var result core.Color
	for _, lobe := range m.lobes {
		if lobeMatchesSide(lobe, reflecting) {
			result = result.Add(lobe.F(localIn, localOut))
		}
	}
	return result.Scale(adjointFactor(in, out, sp, cameraToLight))
}

// PdfWorld returns the unweighted average of all lobes' densities.
func (m *Material) PdfWorld(in, out r3.Vector, sp core.SurfaceProperties) float64 {
	if len(m.lobes) == 0 {
		return 0
	}

	localIn := sp.WorldToLocal(in)
	localOut := sp.WorldToLocal(out)

	pdf := 0.0
	for _, lobe := range m.lobes {
		pdf += lobe.PDF(localIn, localOut)
	}
	return pdf / float64(len(m.lobes))
}

// SampleWorld picks one lobe uniformly at random and importance-samples
// it, folding in the density and BSDF contributions of every other
// compatible lobe. See PBRT 3e, page 832. A zero density is rewritten to
// (black, pdf=1) so downstream divisions stay well-defined.
func (m *Material) SampleWorld(in r3.Vector, sp core.SurfaceProperties, cameraToLight bool, rng *rand.Rand) Sample {
	emission := m.LightWorld(in, sp)
	if len(m.lobes) == 0 {
		return Sample{Pdf: 1.0, Emission: emission}
	}

	localIn := sp.WorldToLocal(in)

	r := rng.Intn(len(m.lobes))
	chosen := m.lobes[r]
	lobeSample := chosen.SampleF(localIn, rng)

	result := lobeSample.Result
	pdf := lobeSample.Pdf
	out := sp.LocalToWorld(lobeSample.Outgoing)

	if !chosen.Kind().Contains(LobeSpecular) {
		reflecting := in.Dot(sp.GeomNormal)*out.Dot(sp.GeomNormal) > 0
		for idx, lobe := range m.lobes {
			if idx == r {
				continue
			}
			pdf += lobe.PDF(localIn, lobeSample.Outgoing)
			if lobeMatchesSide(lobe, reflecting) {
				result = result.Add(lobe.F(localIn, lobeSample.Outgoing))
			}
		}
	}
	pdf /= float64(len(m.lobes))

	if pdf == 0 {
		return Sample{Pdf: 1.0, Kind: chosen.Kind(), Emission: emission}
	}

	result = result.Scale(adjointFactor(in, out, sp, cameraToLight))
	return Sample{
		Result:   result,
		Outgoing: out,
		Pdf:      pdf,
		Kind:     chosen.Kind(),
		Emission: emission,
	}
}

func lobeMatchesSide(lobe Lobe, reflecting bool) bool {
	if reflecting {
		return lobe.Kind().Contains(LobeReflection)
	}
	return lobe.Kind().Contains(LobeTransmission)
}

// adjointFactor is Veach's shading-normal correction for light-to-camera
// transport; it is 1 for camera-to-light transport.
func adjointFactor(in, out r3.Vector, sp core.SurfaceProperties, cameraToLight bool) float64 {
	if cameraToLight {
		return 1.0
	}
	denom := in.Dot(sp.GeomNormal) * out.Dot(sp.Normal)
	if denom == 0 {
		return 0
	}
	return math.Abs(in.Dot(sp.Normal)*out.Dot(sp.GeomNormal)) / math.Abs(denom)
}

// DisneyBuilder assembles a Material from the Disney principled
// parameters. All parameters default to a matte white surface.
type DisneyBuilder struct {
	baseColor      core.Color
	roughness      float64
	ior            float64
	metallic       float64
	specularTrans  float64
	specularTint   float64
	anisotropic    float64
	sheen          float64
	sheenTint      float64
	clearcoat      float64
	clearcoatGloss float64
}

// Disney starts a builder for the principled shader.
func Disney() *DisneyBuilder {
	return &DisneyBuilder{
		baseColor: core.White(),
		roughness: 0.5,
		ior:       1.5,
	}
}

func (b *DisneyBuilder) BaseColor(c core.Color) *DisneyBuilder   { b.baseColor = c; return b }
func (b *DisneyBuilder) Roughness(v float64) *DisneyBuilder      { b.roughness = v; return b }
func (b *DisneyBuilder) Ior(v float64) *DisneyBuilder            { b.ior = v; return b }
func (b *DisneyBuilder) Metallic(v float64) *DisneyBuilder       { b.metallic = v; return b }
func (b *DisneyBuilder) SpecularTrans(v float64) *DisneyBuilder  { b.specularTrans = v; return b }
func (b *DisneyBuilder) SpecularTint(v float64) *DisneyBuilder   { b.specularTint = v; return b }
func (b *DisneyBuilder) Anisotropic(v float64) *DisneyBuilder    { b.anisotropic = v; return b }
func (b *DisneyBuilder) Sheen(v float64) *DisneyBuilder          { b.sheen = v; return b }
func (b *DisneyBuilder) SheenTint(v float64) *DisneyBuilder      { b.sheenTint = v; return b }
func (b *DisneyBuilder) Clearcoat(v float64) *DisneyBuilder      { b.clearcoat = v; return b }
func (b *DisneyBuilder) ClearcoatGloss(v float64) *DisneyBuilder { b.clearcoatGloss = v; return b }

// Build instantiates the lobe list. The three scattering models share the
// energy budget: diffuseWeight + transWeight + metallic = 1.
func (b *DisneyBuilder) Build() *Material {
	diffuseWeight := (1.0 - b.metallic) * (1.0 - b.specularTrans)
	transWeight := (1.0 - b.metallic) * b.specularTrans

	var lobes []Lobe

	if diffuseWeight > 0 {
		diffuseColor := b.baseColor.Scale(diffuseWeight)

		sheenColor := core.Color{}
		if b.sheen > 0 {
			sheenColor = core.White().Lerp(b.baseColor.Tint(), b.sheenTint).
				Scale(diffuseWeight * b.sheen)
		}

		lobes = append(lobes, NewDisneyDiffuseRefl(diffuseColor, sheenColor, b.roughness))
	}

	if b.ior > 1.0 {
		lobes = append(lobes, NewStandardMicrofacetRefl(
			core.White(),
			NewGGX(b.roughness, b.anisotropic),
			NewDisneyFresnel(b.baseColor, b.metallic, b.specularTint, b.ior)))
	}

	if b.clearcoat > 0 {
		lobes = append(lobes, NewStandardMicrofacetRefl(
			core.White().Scale(b.clearcoat),
			NewGTR1(b.clearcoatGloss),
			NewSchlickFresnel(0.04)))
	}

	if transWeight > 0 {
		// Scaling up to the square root keeps light that enters and exits
		// at the base color instead of darker.
		lobes = append(lobes, NewDisneySpecularTrans(
			b.baseColor.Sqrt().Scale(transWeight), b.roughness, b.ior))
	}

	return &Material{
		display: b.baseColor,
		light:   nullLight{},
		lobes:   lobes,
	}
}
