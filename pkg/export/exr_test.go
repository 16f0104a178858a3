package export

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/film"
	"go.viam.com/test"
)

func solidFilm(width, height int, c core.Color) *film.Film {
	f := film.New(width, height)
	for i := range f.Pixels {
		f.Pixels[i].Accum = c
		f.Pixels[i].Weight = 1.0
	}
	return f
}

func TestExrHeaderBytes(t *testing.T) {
	w := NewExrWriter()
	w.Update(solidFilm(4, 2, core.NewColor(0.5, 0.25, 0.125)))
	data := w.Bytes()

	test.That(t, binary.LittleEndian.Uint32(data[0:4]), test.ShouldEqual, uint32(20000630))
	test.That(t, binary.LittleEndian.Uint32(data[4:8]), test.ShouldEqual, uint32(2))

	// The first attribute is the channel list.
	test.That(t, string(data[8:16]), test.ShouldEqual, "channels")
	test.That(t, data[16], test.ShouldEqual, byte(0))
	test.That(t, string(data[17:23]), test.ShouldEqual, "chlist")
}

func TestExrScanlines(t *testing.T) {
	color := core.NewColor(0.5, 0.25, 0.125)
	w := NewExrWriter()
	w.Update(solidFilm(4, 2, color))
	data := w.Bytes()

	// Locate the data section through the line offset table: the first
	// entry follows the header's closing null byte and points at the
	// first scanline record.
	lineBytes := 4 + 4 + 4*4*3
	var tableStart int
	for i := 0; i+8 <= len(data); i++ {
		first := binary.LittleEndian.Uint64(data[i : i+8])
		second := binary.LittleEndian.Uint64(data[i+8 : i+16])
		if first == uint64(i+16) && second == first+uint64(lineBytes) {
			tableStart = i
			break
		}
	}
	test.That(t, tableStart, test.ShouldBeGreaterThan, 0)

	dataStart := tableStart + 8*2
	line := data[dataStart : dataStart+lineBytes]

	test.That(t, int32(binary.LittleEndian.Uint32(line[0:4])), test.ShouldEqual, int32(0))
	test.That(t, binary.LittleEndian.Uint32(line[4:8]), test.ShouldEqual, uint32(lineBytes-8))

	// Channels are planar in B, G, R order.
	b := float64(math.Float32frombits(binary.LittleEndian.Uint32(line[8:12])))
	g := float64(math.Float32frombits(binary.LittleEndian.Uint32(line[8+16 : 12+16])))
	r := float64(math.Float32frombits(binary.LittleEndian.Uint32(line[8+32 : 12+32])))
	test.That(t, b, test.ShouldAlmostEqual, color.B, 1e-7)
	test.That(t, g, test.ShouldAlmostEqual, color.G, 1e-7)
	test.That(t, r, test.ShouldAlmostEqual, color.R, 1e-7)
}

func TestExrUpdateInPlace(t *testing.T) {
	w := NewExrWriter()
	w.Update(solidFilm(8, 8, core.NewColor(1, 0, 0)))
	size := len(w.Bytes())

	// Same dimensions rewrite pixels without changing the layout.
	w.Update(solidFilm(8, 8, core.NewColor(0, 1, 0)))
	test.That(t, len(w.Bytes()), test.ShouldEqual, size)

	// New dimensions rebuild the whole buffer.
	w.Update(solidFilm(4, 4, core.NewColor(0, 0, 1)))
	test.That(t, len(w.Bytes()), test.ShouldNotEqual, size)
}

func TestToRGBA(t *testing.T) {
	f := solidFilm(2, 2, core.NewColor(1, 0, 0))
	img := ToRGBA(f)

	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 2)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 2)

	c := img.RGBAAt(0, 0)
	test.That(t, c.R, test.ShouldEqual, uint8(255))
	test.That(t, c.G, test.ShouldEqual, uint8(0))
	test.That(t, c.A, test.ShouldEqual, uint8(255))
}
