package export

import (
	"image"
	"image/png"
	"os"

	"github.com/pkg/errors"

	"github.com/lumen-render/lumen/pkg/film"
)

// ToRGBA converts a film to an 8-bit gamma-corrected preview image. Rows
// are flipped so the image matches the EXR orientation.
func ToRGBA(f *film.Film) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		row := f.Height - y - 1
		for x := 0; x < f.Width; x++ {
			rgba := f.PixelColor(row, x).GammaCorrect(2.2).ToRGBA8()
			offset := img.PixOffset(x, y)
			copy(img.Pix[offset:offset+4], rgba[:])
		}
	}
	return img
}

// WritePNG saves the preview image to a file.
func WritePNG(f *film.Film, path string) error {
	handle, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating png file %q", path)
	}
	defer handle.Close()

	if err := png.Encode(handle, ToRGBA(f)); err != nil {
		return errors.Wrapf(err, "encoding png %q", path)
	}
	return nil
}
