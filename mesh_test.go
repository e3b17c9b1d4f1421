package grove

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMesh attaches m to a fresh object in a started scene.
func buildMesh(t *testing.T, s *Scene, m *MeshComponent) *GameObject {
	t.Helper()
	g := NewGameObject("mesh")
	g.AddComponent(m)
	s.AddChild(g)
	require.NoError(t, g.Initialize())
	return g
}

func TestBoxMesh(t *testing.T) {
	s := newTestScene()
	m := NewBoxMesh(NewMaterial(), 2, 4, 6)
	buildMesh(t, s, m)

	require.True(t, m.Built())
	subs := m.SubMeshes()
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].Vertices, 24)
	assert.Len(t, subs[0].Indices, 36)
	assert.Equal(t, 12, subs[0].NumTriangles())

	// Top face repeats the texture twice, bottom face 1.33 times.
	assert.Equal(t, mgl32.Vec2{2, 2}, subs[0].Vertices[18].TexCoord)
	assertNear(t, "bottom v", subs[0].Vertices[20].TexCoord[1], 1.33)

	shape, ok := m.CollisionShape().(*BoxShape)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, shape.HalfExtents)

	for i, v := range subs[0].Vertices {
		for k := 0; k < 3; k++ {
			assert.LessOrEqual(t, abs32(v.Position[k]), shape.HalfExtents[k], "vertex %d", i)
		}
	}
}

func TestBoxFacesPointOutward(t *testing.T) {
	m := NewBoxMesh(NewMaterial(), 2, 2, 2)
	data, err := m.Builder().BuildMesh(nil)
	require.NoError(t, err)
	sub := data.SubMeshes[0]
	for i := 0; i+2 < len(sub.Indices); i += 3 {
		a := sub.Vertices[sub.Indices[i]]
		b := sub.Vertices[sub.Indices[i+1]]
		c := sub.Vertices[sub.Indices[i+2]]
		face := b.Position.Vec3().Sub(a.Position.Vec3()).Cross(c.Position.Vec3().Sub(a.Position.Vec3()))
		assert.Greater(t, face.Dot(a.Normal), float32(0), "triangle %d winds inward", i/3)
	}
}

func TestSphereMesh(t *testing.T) {
	s := newTestScene()
	m := NewSphereMesh(NewMaterial(), 3, 4, 8)
	buildMesh(t, s, m)

	sub := m.SubMeshes()[0]
	assert.Len(t, sub.Vertices, 5*9)
	assert.Len(t, sub.Indices, 4*8*6)
	for _, v := range sub.Vertices {
		assertNear(t, "radius", v.Position.Vec3().Len(), 3)
		assertNear(t, "normal length", v.Normal.Len(), 1)
	}
	shape, ok := m.CollisionShape().(*SphereShape)
	require.True(t, ok)
	assert.Equal(t, float32(3), shape.Radius)
}

func TestSphereMeshClampsTessellation(t *testing.T) {
	b := NewSphereMesh(NewMaterial(), 1, 0, 1).Builder().(*SphereBuilder)
	assert.Equal(t, 2, b.Stacks)
	assert.Equal(t, 3, b.Slices)
}

func TestCylinderMesh(t *testing.T) {
	s := newTestScene()
	m := NewCylinderMesh(NewMaterial(), 2, 6, 6)
	buildMesh(t, s, m)

	sub := m.SubMeshes()[0]
	assert.Len(t, sub.Vertices, 2*7+2*(1+7))
	assert.Len(t, sub.Indices, 6*6+2*6*3)

	shape, ok := m.CollisionShape().(*CylinderShape)
	require.True(t, ok)
	assert.Equal(t, CylinderShape{Radius: 2, HalfHeight: 3}, *shape)
}

func TestMeshCacheSharesGeometry(t *testing.T) {
	s := newTestScene()
	mat := NewMaterial()
	a := NewBoxMesh(mat, 1, 1, 1)
	b := NewBoxMesh(mat, 1, 1, 1)
	c := NewBoxMesh(NewMaterial(), 1, 1, 1)
	buildMesh(t, s, a)
	buildMesh(t, s, b)
	buildMesh(t, s, c)

	assert.False(t, a.FromCache())
	assert.True(t, b.FromCache())
	assert.False(t, c.FromCache(), "different material means a different key")
	assert.Same(t, &a.SubMeshes()[0], &b.SubMeshes()[0])
	assert.Equal(t, 2, s.MeshCache().Len())

	s.MeshCache().Clear()
	assert.Zero(t, s.MeshCache().Len())
	_, ok := s.MeshCache().Lookup(a.Builder().CacheKey(nil))
	assert.False(t, ok)
}

func TestMeshWithoutSceneBuildsUncached(t *testing.T) {
	g := NewGameObject("loose")
	m := NewBoxMesh(NewMaterial(), 1, 1, 1)
	g.AddComponent(m)
	require.NoError(t, g.Initialize())
	assert.True(t, m.Built())
	assert.False(t, m.FromCache())
}

func TestUnattachedMeshFailsToInitialize(t *testing.T) {
	err := NewBoxMesh(NewMaterial(), 1, 1, 1).Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not attached")
}

func TestNewMeshComponentNeedsBuilder(t *testing.T) {
	assert.Panics(t, func() { NewMeshComponent(nil, 0) })
}

func TestModelMeshScalesHullByWorldScale(t *testing.T) {
	calls := 0
	loader := ModelLoaderFunc(func(path string) ([]ModelMesh, error) {
		calls++
		assert.Equal(t, "assets/rock.obj", path)
		return []ModelMesh{{
			Vertices: []Vertex{
				{Position: mgl32.Vec4{1, 1, 1, 1}},
				{Position: mgl32.Vec4{-1, 0, 0, 1}},
				{Position: mgl32.Vec4{0, -1, 0, 1}},
			},
			Indices:  []uint32{0, 1, 2},
			Material: NewMaterial(),
		}}, nil
	})

	s := newTestScene()
	parent := NewGameObject("parent")
	parent.SetScale(mgl32.Vec3{2, 2, 2}, Local)
	s.AddChild(parent)

	rock := NewGameObject("rock")
	m := NewModelMesh("assets/rock.obj", loader)
	rock.AddComponent(m)
	parent.AddChild(rock)
	require.NoError(t, s.Start())

	compound, ok := m.CollisionShape().(*CompoundShape)
	require.True(t, ok)
	require.Len(t, compound.Children, 1)
	assert.Equal(t, mgl32.Ident4(), compound.Children[0].Transform)
	hull, ok := compound.Children[0].Shape.(*ConvexHullShape)
	require.True(t, ok)
	assert.Equal(t, []mgl32.Vec3{{2, 2, 2}, {-2, 0, 0}, {0, -2, 0}}, hull.Points)
	assert.Len(t, m.SubMeshes(), 1)

	// Same path at another scale is built again; same scale is shared.
	other := NewGameObject("other")
	m2 := NewModelMesh("assets/rock.obj", loader)
	other.AddComponent(m2)
	s.AddChild(other)
	s.Maintain()
	same := NewGameObject("same")
	m3 := NewModelMesh("assets/rock.obj", loader)
	same.AddComponent(m3)
	parent.AddChild(same)
	s.Maintain()

	assert.Equal(t, 2, calls)
	assert.False(t, m2.FromCache())
	assert.True(t, m3.FromCache())
}

func TestModelMeshLoadError(t *testing.T) {
	errMissing := errors.New("file not found")
	s := newTestScene()
	g := NewGameObject("broken")
	g.AddComponent(NewModelMesh("missing.obj", ModelLoaderFunc(func(string) ([]ModelMesh, error) {
		return nil, errMissing
	})))
	s.AddChild(g)

	err := s.Start()
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissing)
	assert.Contains(t, err.Error(), "load model missing.obj")
	assert.True(t, s.Running(), "scene starts despite build errors")
	assert.Same(t, s.Root(), g.Parent())
}

func TestModelMeshWithoutLoader(t *testing.T) {
	g := NewGameObject("g")
	m := NewModelMesh("x.obj", nil)
	g.AddComponent(m)
	err := g.Initialize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no loader")
	assert.False(t, m.Built())
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
