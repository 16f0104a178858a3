// Package export converts film pixels into on-disk and in-memory image
// formats.
package export

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/lumen-render/lumen/pkg/film"
)

// The writer emits the OpenEXR subset most readers accept: three float32
// channels named B, G, R, no compression, increasing scanline order.
const (
	exrMagicNumber        = 20000630
	exrVersion            = 2
	exrPixelTypeFloat     = 2
	exrCompressionNone    = 0
	exrLineOrderIncreaseY = 0
)

// ExrWriter serializes a film into an OpenEXR image. The header and line
// offset table are laid out once per film size; pixel data is overwritten
// in place on every update, which keeps progressive re-exports cheap.
type ExrWriter struct {
	buffer     []byte
	width      int
	height     int
	dataOffset int
}

// NewExrWriter returns an empty writer.
func NewExrWriter() *ExrWriter {
	return &ExrWriter{}
}

func (w *ExrWriter) appendI32(v int32) {
	w.buffer = binary.LittleEndian.AppendUint32(w.buffer, uint32(v))
}

func (w *ExrWriter) appendU64(v uint64) {
	w.buffer = binary.LittleEndian.AppendUint64(w.buffer, v)
}

func (w *ExrWriter) appendF32(v float32) {
	w.buffer = binary.LittleEndian.AppendUint32(w.buffer, math.Float32bits(v))
}

func (w *ExrWriter) appendStr(s string) {
	w.buffer = append(w.buffer, s...)
	w.buffer = append(w.buffer, 0)
}

func (w *ExrWriter) writeChannelsAttr() {
	w.appendStr("channels")
	w.appendStr("chlist")

	// Three channels named B, G, R with a null terminator each, four
	// ints of data per channel, one closing null byte.
	w.appendI32(2*3 + 16*3 + 1)

	for _, channel := range []string{"B", "G", "R"} {
		w.appendStr(channel)
		w.appendI32(exrPixelTypeFloat)
		w.appendI32(0) // pLinear and reserved
		w.appendI32(1) // xSampling
		w.appendI32(1) // ySampling
	}
	w.buffer = append(w.buffer, 0)
}

func (w *ExrWriter) writeHeader(width, height int) {
	w.appendI32(exrMagicNumber)
	w.appendI32(exrVersion)

	w.writeChannelsAttr()

	w.appendStr("compression")
	w.appendStr("compression")
	w.appendI32(1)
	w.buffer = append(w.buffer, exrCompressionNone)

	window := [4]int32{0, 0, int32(width) - 1, int32(height) - 1}
	for _, name := range []string{"dataWindow", "displayWindow"} {
		w.appendStr(name)
		w.appendStr("box2i")
		w.appendI32(4 * 4)
		for _, v := range window {
			w.appendI32(v)
		}
	}

	w.appendStr("lineOrder")
	w.appendStr("lineOrder")
	w.appendI32(1)
	w.buffer = append(w.buffer, exrLineOrderIncreaseY)

	w.appendStr("pixelAspectRatio")
	w.appendStr("float")
	w.appendI32(4)
	w.appendF32(1.0)

	w.appendStr("screenWindowCenter")
	w.appendStr("v2f")
	w.appendI32(8)
	w.appendF32(0.0)
	w.appendF32(0.0)

	w.appendStr("screenWindowWidth")
	w.appendStr("float")
	w.appendI32(4)
	w.appendF32(float32(width))

	w.buffer = append(w.buffer, 0) // End of header.
}

// lineSize is the byte length of one scanline record: line number, byte
// count, then three float32 planes.
func lineSize(width int) int {
	return 4 + 4 + width*4*3
}

func (w *ExrWriter) writeLineOffsetTable(width, height int) {
	dataOffset := len(w.buffer) + 8*height
	for y := 0; y < height; y++ {
		w.appendU64(uint64(dataOffset + y*lineSize(width)))
	}
}

func (w *ExrWriter) writeChannels(f *film.Film) {
	size := lineSize(f.Width)
	dataSize := f.Height * size
	if len(w.buffer) < w.dataOffset+dataSize {
		w.buffer = append(w.buffer[:w.dataOffset], make([]byte, dataSize)...)
	}

	for y := 0; y < f.Height; y++ {
		line := w.buffer[w.dataOffset+y*size : w.dataOffset+(y+1)*size]
		binary.LittleEndian.PutUint32(line[0:4], uint32(int32(y)))
		binary.LittleEndian.PutUint32(line[4:8], uint32(size-8))

		// EXR scanlines increase downward while film rows start at the
		// bottom of the lens window, so emit rows bottom-up.
		row := f.Height - y - 1
		for i := 0; i < f.Width; i++ {
			c := f.PixelColor(row, i)
			b := 8 + (0*f.Width+i)*4
			g := 8 + (1*f.Width+i)*4
			r := 8 + (2*f.Width+i)*4
			binary.LittleEndian.PutUint32(line[b:b+4], math.Float32bits(float32(c.B)))
			binary.LittleEndian.PutUint32(line[g:g+4], math.Float32bits(float32(c.G)))
			binary.LittleEndian.PutUint32(line[r:r+4], math.Float32bits(float32(c.R)))
		}
	}
}

// Update refreshes the serialized image from the film. The layout is
// rebuilt only when the film size changes.
func (w *ExrWriter) Update(f *film.Film) {
	if w.width != f.Width || w.height != f.Height {
		w.buffer = w.buffer[:0]
		w.width = f.Width
		w.height = f.Height

		w.writeHeader(f.Width, f.Height)
		w.writeLineOffsetTable(f.Width, f.Height)
		w.dataOffset = len(w.buffer)
	}
	w.writeChannels(f)
}

// WriteTo emits the serialized image.
func (w *ExrWriter) WriteTo(out io.Writer) (int64, error) {
	n, err := out.Write(w.buffer)
	return int64(n), errors.Wrap(err, "writing exr data")
}

// WriteFile saves the serialized image to a file.
func (w *ExrWriter) WriteFile(path string) error {
	if err := os.WriteFile(path, w.buffer, 0o644); err != nil {
		return errors.Wrapf(err, "writing exr file %q", path)
	}
	return nil
}

// Bytes exposes the serialized image without copying.
func (w *ExrWriter) Bytes() []byte {
	return w.buffer
}
