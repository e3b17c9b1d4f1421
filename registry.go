package grove

import "slices"

// CameraRegistry holds the cameras of a scene ordered by ascending depth.
// The renderer draws cameras in this order, so a higher depth draws on top.
type CameraRegistry struct {
	cameras []*CameraComponent
}

// Register adds cam and restores depth order. Cameras with equal depth keep
// their registration order. Registering a camera twice is a no-op.
func (r *CameraRegistry) Register(cam *CameraComponent) {
	if slices.Contains(r.cameras, cam) {
		return
	}
	r.cameras = append(r.cameras, cam)
	r.sort()
}

// Unregister removes cam. Reports whether it was registered.
func (r *CameraRegistry) Unregister(cam *CameraComponent) bool {
	i := slices.Index(r.cameras, cam)
	if i < 0 {
		return false
	}
	r.cameras = slices.Delete(r.cameras, i, i+1)
	return true
}

// Active returns the registered cameras in depth order. The returned slice
// MUST NOT be mutated by the caller.
func (r *CameraRegistry) Active() []*CameraComponent {
	return r.cameras
}

// Len returns the number of registered cameras.
func (r *CameraRegistry) Len() int {
	return len(r.cameras)
}

func (r *CameraRegistry) sort() {
	slices.SortStableFunc(r.cameras, func(a, b *CameraComponent) int {
		return a.depth - b.depth
	})
}

// MeshRegistry holds the renderable meshes of a scene in registration order.
type MeshRegistry struct {
	meshes []*MeshComponent
}

// Register adds m. Registering a mesh twice is a no-op.
func (r *MeshRegistry) Register(m *MeshComponent) {
	if slices.Contains(r.meshes, m) {
		return
	}
	r.meshes = append(r.meshes, m)
}

// Unregister removes m. Reports whether it was registered.
func (r *MeshRegistry) Unregister(m *MeshComponent) bool {
	i := slices.Index(r.meshes, m)
	if i < 0 {
		return false
	}
	r.meshes = slices.Delete(r.meshes, i, i+1)
	return true
}

// Active returns the registered meshes. The returned slice MUST NOT be
// mutated by the caller.
func (r *MeshRegistry) Active() []*MeshComponent {
	return r.meshes
}

// Len returns the number of registered meshes.
func (r *MeshRegistry) Len() int {
	return len(r.meshes)
}
