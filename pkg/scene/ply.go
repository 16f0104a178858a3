package scene

import (
	"io"
	"os"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/lumen-render/lumen/pkg/geometry"
	"github.com/lumen-render/lumen/pkg/material"
)

// LoadPLYMesh reads a polygon mesh from a PLY file and wraps it as a
// renderable primitive. Quads and larger polygons are fanned into
// triangles; vertex normals are used when the file carries them.
func LoadPLYMesh(path string, mat *material.Material) (*geometry.Mesh, error) {
	handle, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening mesh %q", path)
	}
	defer handle.Close()

	mesh, err := ReadPLYMesh(handle, mat)
	return mesh, errors.Wrapf(err, "reading mesh %q", path)
}

// ReadPLYMesh parses PLY data from a reader.
func ReadPLYMesh(r io.Reader, mat *material.Material) (*geometry.Mesh, error) {
	ply := goply.New(r)

	vertexElems := ply.Elements("vertex")
	if len(vertexElems) == 0 {
		return nil, errors.New("ply: no vertex element")
	}

	vertices := make([]r3.Vector, len(vertexElems))
	var normals []r3.Vector
	_, hasNormals := vertexElems[0]["nx"]
	if hasNormals {
		normals = make([]r3.Vector, len(vertexElems))
	}

	for i, elem := range vertexElems {
		vertices[i] = r3.Vector{
			X: numberValue(elem["x"]),
			Y: numberValue(elem["y"]),
			Z: numberValue(elem["z"]),
		}
		if hasNormals {
			normals[i] = r3.Vector{
				X: numberValue(elem["nx"]),
				Y: numberValue(elem["ny"]),
				Z: numberValue(elem["nz"]),
			}.Normalize()
		}
	}

	faceElems := ply.Elements("face")
	if len(faceElems) == 0 {
		return nil, errors.New("ply: no face element")
	}

	var faces [][3]int
	for _, elem := range faceElems {
		indices, err := faceIndices(elem)
		if err != nil {
			return nil, err
		}
		for _, f := range indices {
			for _, idx := range f {
				if idx < 0 || idx >= len(vertices) {
					return nil, errors.Errorf("ply: vertex index %d out of range", idx)
				}
			}
		}
		faces = append(faces, indices...)
	}

	return geometry.NewMesh(mat, vertices, normals, faces), nil
}

// faceIndices extracts a face's vertex list and fans polygons into
// triangles.
func faceIndices(elem map[string]interface{}) ([][3]int, error) {
	raw, ok := elem["vertex_indices"]
	if !ok {
		raw, ok = elem["vertex_index"]
	}
	if !ok {
		return nil, errors.New("ply: face without vertex indices")
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, errors.Errorf("ply: unexpected face index type %T", raw)
	}
	if len(list) < 3 {
		return nil, errors.Errorf("ply: face with %d vertices", len(list))
	}

	indices := make([]int, len(list))
	for i, v := range list {
		indices[i] = int(numberValue(v))
	}

	faces := make([][3]int, 0, len(indices)-2)
	for i := 1; i < len(indices)-1; i++ {
		faces = append(faces, [3]int{indices[0], indices[i], indices[i+1]})
	}
	return faces, nil
}

// numberValue coerces the numeric types PLY properties decode into.
func numberValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	default:
		return 0
	}
}
