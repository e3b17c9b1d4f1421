package grove

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// --- Box ---

// BoxBuilder builds an axis-aligned box centered on the origin.
type BoxBuilder struct {
	Material   Material
	HalfWidth  float32
	HalfHeight float32
	HalfDepth  float32
}

// NewBoxMesh creates a box mesh component of the given full dimensions.
func NewBoxMesh(mat Material, width, height, depth float32) *MeshComponent {
	return NewMeshComponent(&BoxBuilder{
		Material:   mat,
		HalfWidth:  width / 2,
		HalfHeight: height / 2,
		HalfDepth:  depth / 2,
	}, DefaultUpdateOrder)
}

// CacheKey implements MeshBuilder.
func (b *BoxBuilder) CacheKey(*GameObject) string {
	return fmt.Sprintf("Box %f %f %f %d", b.HalfWidth, b.HalfHeight, b.HalfDepth, b.Material.ID)
}

// BuildMesh implements MeshBuilder. Each face has its own four vertices so
// normals and texture coordinates stay per-face; the top face repeats the
// texture twice and the bottom face 1.33 times in each direction.
func (b *BoxBuilder) BuildMesh(*GameObject) (*MeshData, error) {
	hw, hh, hd := b.HalfWidth, b.HalfHeight, b.HalfDepth

	v1 := mgl32.Vec4{-hw, -hh, hd, 1}
	v2 := mgl32.Vec4{hw, -hh, hd, 1}
	v3 := mgl32.Vec4{hw, hh, hd, 1}
	v4 := mgl32.Vec4{-hw, hh, hd, 1}
	v5 := mgl32.Vec4{-hw, -hh, -hd, 1}
	v6 := mgl32.Vec4{hw, -hh, -hd, 1}
	v7 := mgl32.Vec4{hw, hh, -hd, 1}
	v8 := mgl32.Vec4{-hw, hh, -hd, 1}

	nPosZ := mgl32.Vec3{0, 0, 1}
	nNegZ := mgl32.Vec3{0, 0, -1}
	nPosX := mgl32.Vec3{1, 0, 0}
	nNegX := mgl32.Vec3{-1, 0, 0}
	nNegY := mgl32.Vec3{0, -1, 0}
	nPosY := mgl32.Vec3{0, 1, 0}

	t1 := mgl32.Vec2{0, 1} // top-left
	t2 := mgl32.Vec2{1, 1} // top-right
	t3 := mgl32.Vec2{1, 0} // bottom-right
	t4 := mgl32.Vec2{0, 0} // bottom-left

	vert := func(p mgl32.Vec4, n mgl32.Vec3, t mgl32.Vec2) Vertex {
		return Vertex{Position: p, Normal: n, TexCoord: t}
	}

	verts := []Vertex{
		// front (+Z)
		vert(v1, nPosZ, t4), vert(v2, nPosZ, t3), vert(v3, nPosZ, t2), vert(v4, nPosZ, t1),
		// right (+X)
		vert(v2, nPosX, t1), vert(v6, nPosX, t2), vert(v7, nPosX, t3), vert(v3, nPosX, t4),
		// left (-X)
		vert(v5, nNegX, t1), vert(v1, nNegX, t2), vert(v4, nNegX, t3), vert(v8, nNegX, t4),
		// back (-Z)
		vert(v8, nNegZ, t1), vert(v7, nNegZ, t2), vert(v6, nNegZ, t3), vert(v5, nNegZ, t4),
		// top (+Y)
		vert(v4, nPosY, t4.Mul(2)), vert(v3, nPosY, t3.Mul(2)), vert(v7, nPosY, t2.Mul(2)), vert(v8, nPosY, t1.Mul(2)),
		// bottom (-Y)
		vert(v6, nNegY, t1.Mul(1.33)), vert(v2, nNegY, t2.Mul(1.33)), vert(v1, nNegY, t3.Mul(1.33)), vert(v5, nNegY, t4.Mul(1.33)),
	}

	indices := make([]uint32, 0, 36)
	for face := uint32(0); face < 6; face++ {
		base := face * 4
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	return &MeshData{
		SubMeshes: []SubMesh{{Vertices: verts, Indices: indices, Material: b.Material}},
		Shape:     &BoxShape{HalfExtents: mgl32.Vec3{hw, hh, hd}},
	}, nil
}

// --- Sphere ---

// SphereBuilder builds a UV sphere centered on the origin.
type SphereBuilder struct {
	Material Material
	Radius   float32
	Stacks   int
	Slices   int
}

// NewSphereMesh creates a sphere mesh component.
func NewSphereMesh(mat Material, radius float32, stacks, slices int) *MeshComponent {
	return NewMeshComponent(&SphereBuilder{
		Material: mat,
		Radius:   radius,
		Stacks:   max(stacks, 2),
		Slices:   max(slices, 3),
	}, DefaultUpdateOrder)
}

// CacheKey implements MeshBuilder.
func (b *SphereBuilder) CacheKey(*GameObject) string {
	return fmt.Sprintf("Sphere %f %d %d %d", b.Radius, b.Stacks, b.Slices, b.Material.ID)
}

// BuildMesh implements MeshBuilder.
func (b *SphereBuilder) BuildMesh(*GameObject) (*MeshData, error) {
	stacks, slices := b.Stacks, b.Slices
	verts := make([]Vertex, 0, (stacks+1)*(slices+1))
	for st := 0; st <= stacks; st++ {
		theta := math.Pi * float64(st) / float64(stacks)
		sinT, cosT := math.Sincos(theta)
		for sl := 0; sl <= slices; sl++ {
			phi := 2 * math.Pi * float64(sl) / float64(slices)
			sinP, cosP := math.Sincos(phi)
			n := mgl32.Vec3{float32(sinT * cosP), float32(cosT), float32(-sinT * sinP)}
			verts = append(verts, Vertex{
				Position: n.Mul(b.Radius).Vec4(1),
				Normal:   n,
				TexCoord: mgl32.Vec2{float32(sl) / float32(slices), 1 - float32(st)/float32(stacks)},
				Tangent:  mgl32.Vec3{float32(-sinP), 0, float32(-cosP)},
			})
		}
	}

	indices := make([]uint32, 0, stacks*slices*6)
	ring := uint32(slices + 1)
	for st := uint32(0); st < uint32(stacks); st++ {
		for sl := uint32(0); sl < uint32(slices); sl++ {
			a := st*ring + sl
			c := a + ring
			indices = append(indices, a, c, a+1, a+1, c, c+1)
		}
	}

	return &MeshData{
		SubMeshes: []SubMesh{{Vertices: verts, Indices: indices, Material: b.Material}},
		Shape:     &SphereShape{Radius: b.Radius},
	}, nil
}

// --- Cylinder ---

// CylinderBuilder builds a capped, Y-aligned cylinder centered on the origin.
type CylinderBuilder struct {
	Material Material
	Radius   float32
	Height   float32
	Slices   int
}

// NewCylinderMesh creates a cylinder mesh component.
func NewCylinderMesh(mat Material, radius, height float32, slices int) *MeshComponent {
	return NewMeshComponent(&CylinderBuilder{
		Material: mat,
		Radius:   radius,
		Height:   height,
		Slices:   max(slices, 3),
	}, DefaultUpdateOrder)
}

// CacheKey implements MeshBuilder.
func (b *CylinderBuilder) CacheKey(*GameObject) string {
	return fmt.Sprintf("Cylinder %f %f %d %d", b.Radius, b.Height, b.Slices, b.Material.ID)
}

// BuildMesh implements MeshBuilder.
func (b *CylinderBuilder) BuildMesh(*GameObject) (*MeshData, error) {
	hh := b.Height / 2
	slices := b.Slices
	verts := make([]Vertex, 0, 4*(slices+1)+2)
	var indices []uint32

	// side
	for sl := 0; sl <= slices; sl++ {
		phi := 2 * math.Pi * float64(sl) / float64(slices)
		sinP, cosP := math.Sincos(phi)
		n := mgl32.Vec3{float32(cosP), 0, float32(-sinP)}
		u := float32(sl) / float32(slices)
		verts = append(verts,
			Vertex{Position: mgl32.Vec4{n[0] * b.Radius, -hh, n[2] * b.Radius, 1}, Normal: n, TexCoord: mgl32.Vec2{u, 0}},
			Vertex{Position: mgl32.Vec4{n[0] * b.Radius, hh, n[2] * b.Radius, 1}, Normal: n, TexCoord: mgl32.Vec2{u, 1}},
		)
	}
	for sl := uint32(0); sl < uint32(slices); sl++ {
		a := sl * 2
		indices = append(indices, a, a+2, a+1, a+1, a+2, a+3)
	}

	// caps
	for _, y := range []float32{hh, -hh} {
		n := mgl32.Vec3{0, 1, 0}
		if y < 0 {
			n = mgl32.Vec3{0, -1, 0}
		}
		center := uint32(len(verts))
		verts = append(verts, Vertex{Position: mgl32.Vec4{0, y, 0, 1}, Normal: n, TexCoord: mgl32.Vec2{0.5, 0.5}})
		for sl := 0; sl <= slices; sl++ {
			phi := 2 * math.Pi * float64(sl) / float64(slices)
			sinP, cosP := math.Sincos(phi)
			verts = append(verts, Vertex{
				Position: mgl32.Vec4{float32(cosP) * b.Radius, y, float32(-sinP) * b.Radius, 1},
				Normal:   n,
				TexCoord: mgl32.Vec2{0.5 + float32(cosP)/2, 0.5 + float32(sinP)/2},
			})
		}
		for sl := uint32(0); sl < uint32(slices); sl++ {
			if y > 0 {
				indices = append(indices, center, center+1+sl, center+2+sl)
			} else {
				indices = append(indices, center, center+2+sl, center+1+sl)
			}
		}
	}

	return &MeshData{
		SubMeshes: []SubMesh{{Vertices: verts, Indices: indices, Material: b.Material}},
		Shape:     &CylinderShape{Radius: b.Radius, HalfHeight: hh},
	}, nil
}

// --- Model ---

// ModelMesh is one mesh of a loaded model.
type ModelMesh struct {
	Vertices []Vertex
	Indices  []uint32
	Material Material
}

// ModelLoader reads a model file. Parsing asset formats is left to the
// caller; grove only consumes the result.
type ModelLoader interface {
	LoadModel(path string) ([]ModelMesh, error)
}

// ModelLoaderFunc adapts a function to ModelLoader.
type ModelLoaderFunc func(path string) ([]ModelMesh, error)

// LoadModel calls f(path).
func (f ModelLoaderFunc) LoadModel(path string) ([]ModelMesh, error) {
	return f(path)
}

// ModelBuilder builds a multi-part mesh from a model file. Its collision
// shape is a compound of one convex hull per part, sized by the owner's
// world scale at build time; later scale changes do not resize it.
type ModelBuilder struct {
	Path   string
	Loader ModelLoader
}

// NewModelMesh creates a model mesh component reading path through loader.
func NewModelMesh(path string, loader ModelLoader) *MeshComponent {
	return NewMeshComponent(&ModelBuilder{Path: path, Loader: loader}, DefaultUpdateOrder)
}

// CacheKey implements MeshBuilder. The owner's world scale is part of the
// key because it is baked into the collision shape.
func (b *ModelBuilder) CacheKey(owner *GameObject) string {
	s := owner.Scale(World)
	return fmt.Sprintf("%s %f %f %f", b.Path, s[0], s[1], s[2])
}

// BuildMesh implements MeshBuilder.
func (b *ModelBuilder) BuildMesh(owner *GameObject) (*MeshData, error) {
	if b.Loader == nil {
		return nil, fmt.Errorf("load model %s: no loader", b.Path)
	}
	parts, err := b.Loader.LoadModel(b.Path)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", b.Path, err)
	}

	modelScale := owner.ScaleMatrix(World)
	compound := &CompoundShape{}
	data := &MeshData{Shape: compound}

	for _, part := range parts {
		hull := &ConvexHullShape{Points: make([]mgl32.Vec3, 0, len(part.Vertices))}
		for _, v := range part.Vertices {
			p := v.Position
			p[3] = 1
			hull.AddPoint(modelScale.Mul4x1(p).Vec3())
		}
		compound.AddChildShape(mgl32.Ident4(), hull)
		data.SubMeshes = append(data.SubMeshes, SubMesh{
			Vertices: part.Vertices,
			Indices:  part.Indices,
			Material: part.Material,
		})
	}
	return data, nil
}
