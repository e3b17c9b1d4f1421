package grove

import (
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Vertex is one mesh vertex: position, normal, texture coordinate and the
// tangent frame used for normal mapping.
type Vertex struct {
	Position  mgl32.Vec4
	Normal    mgl32.Vec3
	TexCoord  mgl32.Vec2
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// SubMesh is an indexed triangle list drawn with a single material.
type SubMesh struct {
	Vertices []Vertex
	Indices  []uint32
	Material Material
}

// NumTriangles returns the number of triangles in the index list.
func (m *SubMesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// MeshData is the output of a MeshBuilder. Cached instances are shared
// between components and must be treated as read-only.
type MeshData struct {
	SubMeshes []SubMesh
	Shape     CollisionShape
}

// MeshBuilder produces the geometry and collision shape for a MeshComponent.
type MeshBuilder interface {
	// CacheKey identifies the geometry this builder would produce for owner.
	// Builders with equal keys share one MeshData per scene.
	CacheKey(owner *GameObject) string
	// BuildMesh builds the geometry. owner's world transform is valid.
	BuildMesh(owner *GameObject) (*MeshData, error)
}

// MeshComponent is a renderable component whose geometry is produced by a
// MeshBuilder when the component is initialized. Meshes register with the
// scene's MeshRegistry while their GameObject is linked into the scene.
type MeshComponent struct {
	BaseComponent

	builder MeshBuilder
	data    *MeshData
	cached  bool
}

// NewMeshComponent creates a mesh component that builds its geometry with b.
func NewMeshComponent(b MeshBuilder, updateOrder int) *MeshComponent {
	if b == nil {
		panic("grove: mesh component needs a builder")
	}
	return &MeshComponent{
		BaseComponent: newKindComponent(updateOrder, KindMesh),
		builder:       b,
	}
}

// Initialize builds the geometry, reusing a previously built mesh with the
// same cache key when the owner belongs to a scene.
func (m *MeshComponent) Initialize() error {
	if m.data != nil {
		return nil
	}
	owner := m.owner
	if owner == nil {
		return errors.New("mesh component is not attached")
	}
	key := m.builder.CacheKey(owner)

	var cache *MeshCache
	if s := owner.owningScene(); s != nil {
		cache = s.meshCache
	}
	if cache != nil {
		if data, ok := cache.Lookup(key); ok {
			m.data = data
			m.cached = true
			owner.logger().Debug("mesh previously loaded", zap.String("key", key))
			return nil
		}
	}

	data, err := m.builder.BuildMesh(owner)
	if err != nil {
		return fmt.Errorf("build mesh %q: %w", key, err)
	}
	m.data = data
	if cache != nil {
		cache.Store(key, data)
	}
	return nil
}

// OnSceneAttach registers the mesh with s.
func (m *MeshComponent) OnSceneAttach(s *Scene) {
	s.meshes.Register(m)
}

// OnSceneDetach unregisters the mesh from s.
func (m *MeshComponent) OnSceneDetach(s *Scene) {
	s.meshes.Unregister(m)
}

// Builder returns the component's mesh builder.
func (m *MeshComponent) Builder() MeshBuilder {
	return m.builder
}

// Built reports whether the geometry is available.
func (m *MeshComponent) Built() bool {
	return m.data != nil
}

// FromCache reports whether the geometry was reused from the mesh cache.
func (m *MeshComponent) FromCache() bool {
	return m.cached
}

// SubMeshes returns the built sub-meshes, or nil before initialization.
func (m *MeshComponent) SubMeshes() []SubMesh {
	if m.data == nil {
		return nil
	}
	return m.data.SubMeshes
}

// CollisionShape returns the built collision shape, or nil.
func (m *MeshComponent) CollisionShape() CollisionShape {
	if m.data == nil {
		return nil
	}
	return m.data.Shape
}

// --- Cache ---

type meshCacheEntry struct {
	key  string
	data *MeshData
}

// MeshCache remembers built meshes by cache key so identical geometry is
// built once per scene.
type MeshCache struct {
	entries map[uint64][]meshCacheEntry
	size    int
}

func newMeshCache() *MeshCache {
	return &MeshCache{entries: make(map[uint64][]meshCacheEntry)}
}

// Lookup returns the mesh stored under key.
func (c *MeshCache) Lookup(key string) (*MeshData, bool) {
	for _, e := range c.entries[xxhash.Sum64String(key)] {
		if e.key == key {
			return e.data, true
		}
	}
	return nil, false
}

// Store saves data under key, replacing any previous entry.
func (c *MeshCache) Store(key string, data *MeshData) {
	h := xxhash.Sum64String(key)
	bucket := c.entries[h]
	for i := range bucket {
		if bucket[i].key == key {
			bucket[i].data = data
			return
		}
	}
	c.entries[h] = append(bucket, meshCacheEntry{key: key, data: data})
	c.size++
}

// Len returns the number of cached meshes.
func (c *MeshCache) Len() int {
	return c.size
}

// Clear drops every cached mesh.
func (c *MeshCache) Clear() {
	clear(c.entries)
	c.size = 0
}
