// Package film accumulates radiance samples into pixels through a
// windowed reconstruction filter.
package film

import (
	"math"
	"math/rand"

	"github.com/lumen-render/lumen/pkg/core"
)

// FilterWidth is the reconstruction filter support radius in pixels.
const FilterWidth = 2.0

// Sample is one radiance estimate positioned in lens space. Positions may
// extend slightly beyond [-1, 1] because of filter jitter.
type Sample struct {
	Color core.Color
	S     float64
	T     float64
}

// Pixel is the persistent accumulated state of one image pixel. Its final
// value is Accum/Weight.
type Pixel struct {
	Accum  core.Color
	Weight float64
}

// Film maps continuous lens-space samples onto a discrete pixel grid.
// Progressive refinement works by repeating the sample/report cycle
// without resetting pixels.
type Film struct {
	Width  int
	Height int
	Pixels []Pixel
}

// New builds a film with all pixels zeroed.
func New(width, height int) *Film {
	return &Film{
		Width:  width,
		Height: height,
		Pixels: make([]Pixel, width*height),
	}
}

// ComputeSamplePoints fills buf with one lens-space position per pixel,
// jittered within the filter support, and returns it. buf is reused when
// large enough.
func (f *Film) ComputeSamplePoints(rng *rand.Rand, buf []Sample) []Sample {
	buf = buf[:0]

	widthf, heightf := float64(f.Width), float64(f.Height)
	for rowDiscr := 0; rowDiscr < f.Height; rowDiscr++ {
		rowCont := 0.5 + float64(rowDiscr)
		for colDiscr := 0; colDiscr < f.Width; colDiscr++ {
			colCont := 0.5 + float64(colDiscr)

			rowJitter := rowCont + (2.0*rng.Float64()-1.0)*FilterWidth
			colJitter := colCont + (2.0*rng.Float64()-1.0)*FilterWidth

			buf = append(buf, Sample{
				S: core.Lerp(-1.0, 1.0, colJitter/widthf),
				T: core.Lerp(-1.0, 1.0, rowJitter/heightf),
			})
		}
	}
	return buf
}

// ReportSamples scatters each sample's color into every pixel within the
// filter support, weighted by the Mitchell-Netravali filter. Not safe for
// concurrent use; callers report sequentially after the parallel phase.
func (f *Film) ReportSamples(samples []Sample) {
	widthf, heightf := float64(f.Width), float64(f.Height)
	lastCol, lastRow := f.Width-1, f.Height-1

	for i := range samples {
		sample := &samples[i]
		colDiscr := core.Lerp(0.0, widthf, 0.5*(sample.S+1.0)) - 0.5
		rowDiscr := core.Lerp(0.0, heightf, 0.5*(sample.T+1.0)) - 0.5

		minCol := core.ClampInt(int(math.Ceil(colDiscr-FilterWidth)), 0, lastCol)
		maxCol := core.ClampInt(int(math.Floor(colDiscr+FilterWidth)), 0, lastCol)
		minRow := core.ClampInt(int(math.Ceil(rowDiscr-FilterWidth)), 0, lastRow)
		maxRow := core.ClampInt(int(math.Floor(rowDiscr+FilterWidth)), 0, lastRow)

		for y := minRow; y <= maxRow; y++ {
			for x := minCol; x <= maxCol; x++ {
				weight := core.MitchellFilter2(
					float64(x)-colDiscr,
					float64(y)-rowDiscr,
					FilterWidth)

				pixel := &f.Pixels[core.Index(y, x, f.Width)]
				pixel.Accum = pixel.Accum.Add(sample.Color.Scale(weight))
				pixel.Weight += weight
			}
		}
	}
}

// PixelColor returns the reconstructed color of a pixel, black when no
// sample has touched it yet.
func (f *Film) PixelColor(row, col int) core.Color {
	pixel := f.Pixels[core.Index(row, col, f.Width)]
	if pixel.Weight == 0 {
		return core.Color{}
	}
	return pixel.Accum.Scale(1.0 / pixel.Weight)
}
