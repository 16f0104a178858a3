package core

import "github.com/golang/geo/r3"

// Apertures of a standard full-frame 35mm film back, in the same length
// units as the rest of the scene.
const (
	HorizontalAperture35mm = 2.2
	VerticalAperture35mm   = 1.6
)

// Camera is a perspective camera. Rays leave the eye through a window on
// the plane one focal length in front of it.
type Camera struct {
	// FocalLength is the distance from the eye to the focal plane. A
	// longer focal length gives greater magnification.
	FocalLength float64
	// HorizontalAperture is the width of the projector aperture, in scene
	// units.
	HorizontalAperture float64
	// VerticalAperture is the height of the projector aperture.
	VerticalAperture float64
	// FStop is the focal ratio. A larger f-stop brings more of the scene
	// into focus.
	FStop float64

	eye     r3.Vector
	right   r3.Vector
	up      r3.Vector
	forward r3.Vector
}

// DefaultCamera returns a camera at the origin looking down -z.
func DefaultCamera() Camera {
	return LookAtCamera(5.0, HorizontalAperture35mm, VerticalAperture35mm, 8.0,
		r3.Vector{}, r3.Vector{Z: -1.0}, r3.Vector{Y: 1.0})
}

// LookAtCamera builds a camera at eye, aimed at target, with the film
// rolled so that its up direction is as close as possible to up.
func LookAtCamera(focalLength, horizAperture, vertAperture, fStop float64, eye, target, up r3.Vector) Camera {
	forward := target.Sub(eye).Normalize()
	right := forward.Cross(up).Normalize()

	return Camera{
		FocalLength:        focalLength,
		HorizontalAperture: horizAperture,
		VerticalAperture:   vertAperture,
		FStop:              fStop,
		eye:                eye,
		right:              right,
		up:                 right.Cross(forward),
		forward:            forward,
	}
}

// PupilRadius returns the radius of the entrance pupil.
func (c Camera) PupilRadius() float64 {
	return 0.5 * (c.FocalLength / c.FStop)
}

// AspectRatio returns the horizontal to vertical aperture ratio.
func (c Camera) AspectRatio() float64 {
	return c.HorizontalAperture / c.VerticalAperture
}

// WindowMax returns the half-extents of the camera window on the plane one
// unit in front of the eye.
func (c Camera) WindowMax() (float64, float64) {
	return c.HorizontalAperture / (c.FocalLength * 2.0),
		c.VerticalAperture / (c.FocalLength * 2.0)
}

// ComputeRay returns the ray from the eye through the window position
// (s, t), given in normalized coordinates in [-1, 1] where (0, 0) is the
// window center and (1, 1) is the upper-right corner.
func (c Camera) ComputeRay(s, t float64) Ray {
	wx, wy := c.WindowMax()
	dir := c.right.Mul(wx * s).Add(c.up.Mul(wy * t)).Add(c.forward)
	return Ray{Origin: c.eye, Direction: dir.Normalize()}
}
