package material

import (
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
)

// PerfectMirror is a delta-distribution specular reflector. F and PDF are
// zero for any explicitly supplied direction pair; only sampling can
// produce the single valid outgoing direction.
type PerfectMirror struct{}

// NewPerfectMirror returns the mirror lobe.
func NewPerfectMirror() *PerfectMirror {
	return &PerfectMirror{}
}

func (m *PerfectMirror) Kind() LobeKind {
	return LobeSpecular | LobeReflection
}

func (m *PerfectMirror) F(i, o r3.Vector) core.Color {
	return core.Color{}
}

func (m *PerfectMirror) PDF(i, o r3.Vector) float64 {
	return 0
}

func (m *PerfectMirror) SampleF(i r3.Vector, rng *rand.Rand) LobeSample {
	o := r3.Vector{X: -i.X, Y: -i.Y, Z: i.Z}
	cosOut := core.AbsCosTheta(o)
	if cosOut == 0 {
		return LobeSample{Pdf: 0}
	}

	// The delta distribution cancels against the |cos| factor applied by
	// the integrators, leaving 1/|cosOut| here.
	return LobeSample{
		Result:   core.White().Scale(1.0 / cosOut),
		Outgoing: o,
		Pdf:      1.0,
	}
}
