package grove

import "github.com/go-gl/mathgl/mgl32"

// Transform math for GameObject. Each object stores a single local matrix;
// position, rotation and scale are read back by decomposing it so that
// matrices produced by reparenting (which may carry shear under non-uniform
// parent scale) survive untouched until a setter overwrites them.

// invertOrIdentity inverts m. Returns the identity matrix if m is singular.
func invertOrIdentity(m mgl32.Mat4) mgl32.Mat4 {
	det := m.Det()
	if det > -1e-12 && det < 1e-12 {
		return mgl32.Ident4()
	}
	return m.Inv()
}

// decompose splits an affine matrix into translation, rotation and scale.
func decompose(m mgl32.Mat4) (t mgl32.Vec3, r mgl32.Mat4, s mgl32.Vec3) {
	t = m.Col(3).Vec3()
	r = mgl32.Ident4()
	for i := 0; i < 3; i++ {
		col := m.Col(i).Vec3()
		l := col.Len()
		s[i] = l
		if l > 0 {
			col = col.Mul(1 / l)
		}
		r.SetCol(i, col.Vec4(0))
	}
	return t, r, s
}

// compose builds Translate(t) * r * Scale(s).
func compose(t mgl32.Vec3, r mgl32.Mat4, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(rotationPart(r)).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// rotationPart strips any translation from r.
func rotationPart(r mgl32.Mat4) mgl32.Mat4 {
	r.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return r
}

// parentWorld returns the parent's cached world transform.
func (g *GameObject) parentWorld() mgl32.Mat4 {
	if g.parent == nil {
		return mgl32.Ident4()
	}
	return g.parent.world
}

// freshWorld composes local transforms up to the root without relying on
// the per-frame cache.
func (g *GameObject) freshWorld() mgl32.Mat4 {
	if g.parent == nil {
		return g.local
	}
	return g.parent.freshWorld().Mul4(g.local)
}

func (g *GameObject) freshParentWorld() mgl32.Mat4 {
	if g.parent == nil {
		return mgl32.Ident4()
	}
	return g.parent.freshWorld()
}

// updateModelingTransformation recomputes the world transform from the
// parent's world transform and the local transform.
func (g *GameObject) updateModelingTransformation() {
	g.world = g.parentWorld().Mul4(g.local)
}

// refreshWorld recomputes world transforms for g and its whole subtree.
func refreshWorld(g *GameObject) {
	g.updateModelingTransformation()
	for _, child := range g.children {
		refreshWorld(child)
	}
}

// setWorld stores the local transform that yields w in world space.
func (g *GameObject) setWorld(w mgl32.Mat4) {
	g.local = invertOrIdentity(g.freshParentWorld()).Mul4(w)
}

// --- Accessors ---

// LocalTransform returns the transform relative to the parent.
func (g *GameObject) LocalTransform() mgl32.Mat4 {
	return g.local
}

// SetLocalTransform replaces the local transform.
func (g *GameObject) SetLocalTransform(m mgl32.Mat4) {
	g.local = m
}

// WorldTransform returns the world transform computed on the most recent
// update (or initialize, attach or reparent).
func (g *GameObject) WorldTransform() mgl32.Mat4 {
	return g.world
}

func (g *GameObject) frameMatrix(frame Frame) mgl32.Mat4 {
	if frame == World {
		return g.freshWorld()
	}
	return g.local
}

// Position returns the origin of the object in the given frame.
func (g *GameObject) Position(frame Frame) mgl32.Vec3 {
	return g.frameMatrix(frame).Col(3).Vec3()
}

// SetPosition moves the object so its origin is at p in the given frame.
func (g *GameObject) SetPosition(p mgl32.Vec3, frame Frame) {
	if frame == World {
		w := g.freshWorld()
		w.SetCol(3, p.Vec4(1))
		g.setWorld(w)
		return
	}
	g.local.SetCol(3, p.Vec4(1))
}

// Rotation returns the pure rotation part of the transform in the given frame.
func (g *GameObject) Rotation(frame Frame) mgl32.Mat4 {
	_, r, _ := decompose(g.frameMatrix(frame))
	return r
}

// SetRotation replaces the orientation in the given frame, keeping position
// and scale.
func (g *GameObject) SetRotation(r mgl32.Mat4, frame Frame) {
	t, _, s := decompose(g.frameMatrix(frame))
	m := compose(t, r, s)
	if frame == World {
		g.setWorld(m)
		return
	}
	g.local = m
}

// Scale returns the scale factors along the object's axes in the given frame.
func (g *GameObject) Scale(frame Frame) mgl32.Vec3 {
	_, _, s := decompose(g.frameMatrix(frame))
	return s
}

// ScaleMatrix returns the scale factors as a diagonal matrix. Collision
// shape builders size their shapes with the World variant.
func (g *GameObject) ScaleMatrix(frame Frame) mgl32.Mat4 {
	s := g.Scale(frame)
	return mgl32.Scale3D(s[0], s[1], s[2])
}

// SetScale replaces the scale in the given frame, keeping position and
// orientation.
func (g *GameObject) SetScale(s mgl32.Vec3, frame Frame) {
	t, r, _ := decompose(g.frameMatrix(frame))
	m := compose(t, r, s)
	if frame == World {
		g.setWorld(m)
		return
	}
	g.local = m
}

// Rotate applies an additional rotation of angle radians about axis, expressed
// in the given frame, on top of the current orientation.
func (g *GameObject) Rotate(angle float32, axis mgl32.Vec3, frame Frame) {
	delta := mgl32.HomogRotate3D(angle, axis.Normalize())
	g.SetRotation(delta.Mul4(g.Rotation(frame)), frame)
}
