package material

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
	"go.viam.com/test"
)

func testSurfaceProps() core.SurfaceProperties {
	return core.SurfacePropsFromNormal(r3.Vector{Z: 1})
}

func TestDiffuseLightMaterial(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	emit := core.NewColor(2, 2, 2)
	mat := NewDiffuseLight(emit)
	sp := testSurfaceProps()

	test.That(t, mat.IsEmissive(), test.ShouldBeTrue)

	above := r3.Vector{X: 0.1, Z: 0.9}.Normalize()
	test.That(t, mat.LightWorld(above, sp), test.ShouldResemble, emit)

	below := r3.Vector{X: 0.1, Z: -0.9}.Normalize()
	test.That(t, mat.LightWorld(below, sp).IsBlack(), test.ShouldBeTrue)

	// No lobes: sampling yields black with pdf 1 so callers terminate.
	s := mat.SampleWorld(above, sp, true, rng)
	test.That(t, s.Pdf, test.ShouldEqual, 1.0)
	test.That(t, s.Result.IsBlack(), test.ShouldBeTrue)
	test.That(t, s.Emission, test.ShouldResemble, emit)
}

func TestDisneyBuilderLobeCounts(t *testing.T) {
	// Default: diffuse + specular reflection.
	matte := Disney().Build()
	test.That(t, len(matte.lobes), test.ShouldEqual, 2)
	test.That(t, matte.IsEmissive(), test.ShouldBeFalse)

	// Full metal drops the diffuse lobe.
	metal := Disney().Metallic(1.0).Build()
	test.That(t, len(metal.lobes), test.ShouldEqual, 1)

	// Glass gains the transmission lobe.
	glass := Disney().SpecularTrans(1.0).Ior(1.5).Build()
	test.That(t, len(glass.lobes), test.ShouldEqual, 2)

	// Clearcoat adds a lobe on top of the default pair.
	coated := Disney().Clearcoat(1.0).ClearcoatGloss(0.9).Build()
	test.That(t, len(coated.lobes), test.ShouldEqual, 3)
}

func TestMaterialSampleWorld(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	mat := Disney().BaseColor(core.NewColor(0.7, 0.5, 0.3)).Roughness(0.6).Build()
	sp := testSurfaceProps()
	in := r3.Vector{X: 0.2, Y: -0.3, Z: 0.9}.Normalize()

	for n := 0; n < 200; n++ {
		s := mat.SampleWorld(in, sp, true, rng)
		test.That(t, s.Pdf, test.ShouldBeGreaterThan, 0.0)
		test.That(t, s.Result.IsFinite(), test.ShouldBeTrue)
		test.That(t, s.Emission.IsBlack(), test.ShouldBeTrue)

		if s.Result.IsBlack() {
			continue
		}
		// Non-degenerate samples must agree with direct evaluation.
		f := mat.FWorld(in, s.Outgoing, sp, true)
		test.That(t, f.R, test.ShouldAlmostEqual, s.Result.R, 1e-9)
		pdf := mat.PdfWorld(in, s.Outgoing, sp)
		test.That(t, pdf, test.ShouldAlmostEqual, s.Pdf, 1e-9)
	}
}

func TestMirrorMaterialSample(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	mat := NewMirror()
	sp := testSurfaceProps()
	in := r3.Vector{X: 0.5, Z: 0.7}.Normalize()

	s := mat.SampleWorld(in, sp, true, rng)
	test.That(t, s.Kind.Contains(LobeSpecular), test.ShouldBeTrue)
	test.That(t, s.Pdf, test.ShouldEqual, 1.0)
	test.That(t, s.Outgoing.X, test.ShouldAlmostEqual, -in.X)
	test.That(t, s.Outgoing.Z, test.ShouldAlmostEqual, in.Z)
}

func TestAdjointFactor(t *testing.T) {
	// When shading and geometric normals agree the correction is 1.
	sp := testSurfaceProps()
	in := r3.Vector{X: 0.3, Z: 0.9}.Normalize()
	out := r3.Vector{X: -0.4, Z: 0.8}.Normalize()
	test.That(t, adjointFactor(in, out, sp, false), test.ShouldAlmostEqual, 1.0)
	test.That(t, adjointFactor(in, out, sp, true), test.ShouldEqual, 1.0)

	// A tilted shading normal changes the light-transport weight.
	tilted := sp
	tilted.Normal = r3.Vector{X: 0.2, Z: 0.98}.Normalize()
	factor := adjointFactor(in, out, tilted, false)
	test.That(t, factor, test.ShouldBeGreaterThan, 0.0)
	test.That(t, factor, test.ShouldNotAlmostEqual, 1.0)
}
