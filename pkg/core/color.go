package core

import "math"

// Color is an RGB radiance triple. It deliberately has no alpha and no
// clamped range: intermediate radiance values routinely exceed 1.
type Color struct {
	R, G, B float64
}

// NewColor creates a color from its three channels.
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// White returns a color with every channel at 1.
func White() Color {
	return Color{R: 1, G: 1, B: 1}
}

// Add returns the channel-wise sum of two colors.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Scale returns the color with every channel multiplied by k.
func (c Color) Scale(k float64) Color {
	return Color{c.R * k, c.G * k, c.B * k}
}

// Mul returns the channel-wise (Hadamard) product of two colors.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Sqrt returns the channel-wise square root.
func (c Color) Sqrt() Color {
	return Color{math.Sqrt(c.R), math.Sqrt(c.G), math.Sqrt(c.B)}
}

// Luminance returns the perceptual luminance of the color.
func (c Color) Luminance() float64 {
	return 0.21*c.R + 0.71*c.G + 0.08*c.B
}

// IsBlack reports whether every channel is exactly zero.
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// IsFinite reports whether no channel is NaN or infinite.
func (c Color) IsFinite() bool {
	return !math.IsNaN(c.R) && !math.IsInf(c.R, 0) &&
		!math.IsNaN(c.G) && !math.IsInf(c.G, 0) &&
		!math.IsNaN(c.B) && !math.IsInf(c.B, 0)
}

// Tint returns the color normalized by luminance, isolating hue and
// saturation. Black maps to white so tinting never zeroes a fresnel term.
func (c Color) Tint() Color {
	lum := c.Luminance()
	if lum > 0 {
		return c.Scale(1.0 / lum)
	}
	return White()
}

// Lerp linearly interpolates between c and o.
func (c Color) Lerp(o Color, a float64) Color {
	return Color{
		R: Lerp(c.R, o.R, a),
		G: Lerp(c.G, o.G, a),
		B: Lerp(c.B, o.B, a),
	}
}

// GammaCorrect applies gamma correction for display output.
func (c Color) GammaCorrect(gamma float64) Color {
	inv := 1.0 / gamma
	return Color{math.Pow(c.R, inv), math.Pow(c.G, inv), math.Pow(c.B, inv)}
}

// ToRGBA8 converts the color to an 8-bit RGBA pixel, clamping to [0, 1].
func (c Color) ToRGBA8() [4]uint8 {
	return [4]uint8{
		uint8(ClampUnit(c.R) * 255.99999),
		uint8(ClampUnit(c.G) * 255.99999),
		uint8(ClampUnit(c.B) * 255.99999),
		255,
	}
}
