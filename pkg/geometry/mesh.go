package geometry

import (
	"math"
	"math/rand"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/lumen-render/lumen/pkg/core"
	"github.com/lumen-render/lumen/pkg/material"
)

// Mesh is an indexed triangle mesh. Each triangle is one component of the
// primitive. Vertex normals are optional; when present they are
// interpolated into the shading normal while the geometric normal stays
// the face normal.
type Mesh struct {
	mat      *material.Material
	vertices []r3.Vector
	normals  []r3.Vector
	faces    [][3]int

	cumAreas  []float64
	totalArea float64
}

// NewMesh builds a mesh. normals may be nil or must match vertices in
// length.
func NewMesh(mat *material.Material, vertices, normals []r3.Vector, faces [][3]int) *Mesh {
	m := &Mesh{
		mat:      mat,
		vertices: vertices,
		normals:  normals,
		faces:    faces,
		cumAreas: make([]float64, len(faces)),
	}
	for i := range faces {
		m.totalArea += m.faceArea(i)
		m.cumAreas[i] = m.totalArea
	}
	return m
}

func (m *Mesh) Material() *material.Material {
	return m.mat
}

func (m *Mesh) NumComponents() int {
	return len(m.faces)
}

func (m *Mesh) triangle(component int) (r3.Vector, r3.Vector, r3.Vector) {
	f := m.faces[component]
	return m.vertices[f[0]], m.vertices[f[1]], m.vertices[f[2]]
}

func (m *Mesh) faceArea(component int) float64 {
	a, b, c := m.triangle(component)
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Norm()
}

func (m *Mesh) BBoxWorld(component int) core.BBox {
	a, b, c := m.triangle(component)
	return core.NewBBox(a, b).Union(c)
}

func (m *Mesh) IntersectWorld(ray core.Ray, component int) (float64, core.SurfaceProperties) {
	// Moller-Trumbore.
	a, b, c := m.triangle(component)
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)

	p := ray.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if core.IsNearlyZero(det) {
		return 0, core.SurfaceProperties{}
	}
	invDet := 1.0 / det

	t := ray.Origin.Sub(a)
	u := t.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, core.SurfaceProperties{}
	}

	q := t.Cross(edge1)
	v := ray.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, core.SurfaceProperties{}
	}

	dist := edge2.Dot(q) * invDet
	if !core.IsPositive(dist) {
		return 0, core.SurfaceProperties{}
	}

	geomNormal := edge1.Cross(edge2).Normalize()
	shadingNormal := geomNormal
	if m.normals != nil {
		f := m.faces[component]
		shadingNormal = m.normals[f[0]].Mul(1.0 - u - v).
			Add(m.normals[f[1]].Mul(u)).
			Add(m.normals[f[2]].Mul(v)).
			Normalize()
	}

	sp := core.SurfacePropsFromNormal(shadingNormal)
	sp.GeomNormal = geomNormal
	return dist, sp
}

func (m *Mesh) SampleRayWorld(rng *rand.Rand) (core.Ray, core.SurfaceProperties, float64, float64) {
	// Pick a triangle proportionally to its area, then a uniform point on
	// it.
	target := rng.Float64() * m.totalArea
	component := sort.SearchFloat64s(m.cumAreas, target)
	if component >= len(m.faces) {
		component = len(m.faces) - 1
	}

	a, b, c := m.triangle(component)
	su := math.Sqrt(rng.Float64())
	sv := rng.Float64()
	point := a.Mul(1.0 - su).Add(b.Mul(su * (1.0 - sv))).Add(c.Mul(su * sv))

	normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
	sp := core.SurfacePropsFromNormal(normal)

	localDir := core.CosineSampleHemisphere(rng, false)
	dir := sp.LocalToWorld(localDir)

	pointPdf := 1.0 / m.totalArea
	dirPdf := core.CosineSampleHemispherePdf(core.CosTheta(localDir))
	return core.Ray{Origin: point, Direction: dir}, sp, pointPdf, dirPdf
}
