package geometry

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/skylinker5/primview/pkg/math3d"
)

// LoadGLB loads a glTF or binary glTF (.glb) file into a viewer mesh.
// Only triangle geometry is imported: positions, normals, texture
// coordinates and indices. Normals are recomputed when the file carries
// none. The result is recentered on the origin and rescaled to the same
// bounding radius as the generated primitives, so camera framing and
// zoom clamps behave identically for imported models.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var (
		positions []math3d.Vec3
		normals   []math3d.Vec3
		uvs       []math3d.Vec2
		indices   []int
	)

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				// Skip non-triangle primitives (lines, points, etc).
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			pos, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read positions: %w", m.Name, err)
			}

			var nrm []math3d.Vec3
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				nrm, err = readVec3Accessor(doc, normIdx)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read normals: %w", m.Name, err)
				}
			}

			var tex []math3d.Vec2
			if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				tex, err = readVec2Accessor(doc, uvIdx)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read uvs: %w", m.Name, err)
				}
			}

			base := len(positions)
			for i := range pos {
				positions = append(positions, pos[i])
				if i < len(nrm) {
					normals = append(normals, nrm[i])
				} else {
					normals = append(normals, math3d.Zero3())
				}
				if i < len(tex) {
					// glTF uses a top-left UV origin; flip V.
					uvs = append(uvs, math3d.V2(tex[i].X, 1.0-tex[i].Y))
				} else {
					uvs = append(uvs, math3d.Vec2{})
				}
			}

			// glTF front faces are CCW, same as the engine convention.
			if prim.Indices != nil {
				idx, err := readIndices(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read indices: %w", m.Name, err)
				}
				for i := 0; i+2 < len(idx); i += 3 {
					indices = append(indices, base+idx[i], base+idx[i+1], base+idx[i+2])
				}
			} else {
				for i := 0; i+2 < len(pos); i += 3 {
					indices = append(indices, base+i, base+i+1, base+i+2)
				}
			}
		}
	}

	if len(positions) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("no triangle geometry in %s", path)
	}

	normalizeModel(positions)

	mesh := &Mesh{
		Positions: positions,
		UVs:       uvs,
		Indices:   indices,
	}
	if hasUsableNormals(normals) {
		for i := range normals {
			normals[i] = normals[i].Normalize()
		}
		mesh.Normals = normals
	} else {
		mesh.Normals = smoothNormals(positions, indices)
	}
	mesh.Center, mesh.Radius = boundingSphere(positions)
	return mesh, nil
}

// normalizeModel recenters the vertices on the origin and scales them to
// a bounding radius of 0.5, matching the generated primitives.
func normalizeModel(positions []math3d.Vec3) {
	center, radius := boundingSphere(positions)
	if radius == 0 {
		return
	}
	scale := 0.5 / radius
	for i := range positions {
		positions[i] = positions[i].Sub(center).Scale(scale)
	}
}

// hasUsableNormals reports whether any loaded normal has meaningful length.
func hasUsableNormals(normals []math3d.Vec3) bool {
	for _, n := range normals {
		if n.Len() > 1e-3 {
			return true
		}
	}
	return false
}

// readVec3Accessor reads Vec3 data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a glTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}
	return result, nil
}

// readIndices reads index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint16:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint32:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

// readAccessorData reads raw data from a glTF accessor. Only embedded
// (GLB) buffers are supported.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.URI != "" {
		return nil, fmt.Errorf("external buffers not supported")
	}
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8 // 2 floats * 4 bytes
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint16(bufData[offset]) | uint16(bufData[offset+1])<<8
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint32(bufData[offset]) |
					uint32(bufData[offset+1])<<8 |
					uint32(bufData[offset+2])<<16 |
					uint32(bufData[offset+3])<<24
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
