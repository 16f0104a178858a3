package geometry

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/material"
)

// Sphere is a sphere positioned in world space.
type Sphere struct {
	mat    *material.Material
	center r3.Vector
	radius float64
}

// NewSphere builds a sphere.
func NewSphere(mat *material.Material, center r3.Vector, radius float64) *Sphere {
	return &Sphere{mat: mat, center: center, radius: radius}
}

func (s *Sphere) Material() *material.Material {
	return s.mat
}

func (s *Sphere) NumComponents() int {
	return 1
}

func (s *Sphere) BBoxWorld(int) core.BBox {
	r := r3.Vector{X: s.radius, Y: s.radius, Z: s.radius}
	return core.BBox{Min: s.center.Sub(r), Max: s.center.Add(r)}
}

func (s *Sphere) IntersectWorld(ray core.Ray, _ int) (float64, core.SurfaceProperties) {
	// See <http://en.wikipedia.org/wiki/Line%E2%80%93sphere_intersection>.
	origin := ray.Origin.Sub(s.center)
	l := ray.Direction

	a := l.Dot(l)
	b := l.Dot(origin)
	c := origin.Dot(origin) - s.radius*s.radius

	discriminant := b*b - a*c
	if discriminant <= 0 {
		return 0, core.SurfaceProperties{}
	}

	sqrtDisc := math.Sqrt(discriminant)
	// Nearest root first.
	for _, dist := range [2]float64{(-b - sqrtDisc) / a, (-b + sqrtDisc) / a} {
		if core.IsPositive(dist) {
			normal := ray.At(dist).Sub(s.center).Normalize()
			return dist, core.SurfacePropsFromNormal(normal)
		}
	}

	// No hit, or the sphere is behind the ray.
	return 0, core.SurfaceProperties{}
}

func (s *Sphere) SampleRayWorld(rng *rand.Rand) (core.Ray, core.SurfaceProperties, float64, float64) {
	normal := core.UniformSampleSphere(rng)
	point := s.center.Add(normal.Mul(s.radius))
	sp := core.SurfacePropsFromNormal(normal)

	localDir := core.CosineSampleHemisphere(rng, false)
	dir := sp.LocalToWorld(localDir)

	pointPdf := 1.0 / (4.0 * math.Pi * s.radius * s.radius)
	dirPdf := core.CosineSampleHemispherePdf(core.CosTheta(localDir))
	return core.Ray{Origin: point, Direction: dir}, sp, pointPdf, dirPdf
}
