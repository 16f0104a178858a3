package core

import "github.com/golang/geo/r3"

// SurfaceProperties describes the local geometry at an intersection point.
// Normal, Tangent, and Binormal form the shading frame; GeomNormal is the
// true geometric normal, which may differ when shading normals are
// interpolated.
type SurfaceProperties struct {
	Normal     r3.Vector
	Tangent    r3.Vector
	Binormal   r3.Vector
	GeomNormal r3.Vector
}

// SurfacePropsFromNormal builds a surface frame around a unit normal,
// choosing an arbitrary tangent and binormal.
func SurfacePropsFromNormal(normal r3.Vector) SurfaceProperties {
	tangent, binormal := CoordSystem(normal)
	return SurfaceProperties{
		Normal:     normal,
		Tangent:    tangent,
		Binormal:   binormal,
		GeomNormal: normal,
	}
}

// WorldToLocal expresses a world-space vector in the shading frame.
func (sp SurfaceProperties) WorldToLocal(v r3.Vector) r3.Vector {
	return WorldToLocal(v, sp.Tangent, sp.Binormal, sp.Normal)
}

// LocalToWorld transforms a shading-frame vector into world space.
func (sp SurfaceProperties) LocalToWorld(v r3.Vector) r3.Vector {
	return LocalToWorld(v, sp.Tangent, sp.Binormal, sp.Normal)
}
