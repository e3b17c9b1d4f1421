package grove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSetPositionLocal(t *testing.T) {
	g := NewGameObject("g")
	g.SetPosition(mgl32.Vec3{1, 2, 3}, Local)
	assertVec3Near(t, "local", g.Position(Local), mgl32.Vec3{1, 2, 3})
	assertVec3Near(t, "world", g.Position(World), mgl32.Vec3{1, 2, 3})
}

func TestSetPositionWorldUnderTranslatedParent(t *testing.T) {
	p := NewGameObject("p")
	c := NewGameObject("c")
	p.AddChild(c)
	p.SetPosition(mgl32.Vec3{10, 0, 0}, Local)

	c.SetPosition(mgl32.Vec3{1, 1, 1}, World)
	assertVec3Near(t, "local", c.Position(Local), mgl32.Vec3{-9, 1, 1})
	assertVec3Near(t, "world", c.Position(World), mgl32.Vec3{1, 1, 1})
}

func TestSetPositionWorldUnderRotatedParent(t *testing.T) {
	p := NewGameObject("p")
	c := NewGameObject("c")
	p.AddChild(c)
	p.SetRotation(mgl32.HomogRotate3DY(mgl32.DegToRad(90)), Local)

	c.SetPosition(mgl32.Vec3{1, 0, 0}, World)
	assertVec3Near(t, "local", c.Position(Local), mgl32.Vec3{0, 0, 1})
}

func TestDecomposeTransform(t *testing.T) {
	g := NewGameObject("g")
	rot := mgl32.HomogRotate3DX(0.5)
	g.SetLocalTransform(mgl32.Translate3D(4, 5, 6).Mul4(rot).Mul4(mgl32.Scale3D(2, 3, 4)))

	assertVec3Near(t, "position", g.Position(Local), mgl32.Vec3{4, 5, 6})
	assertMat4Near(t, "rotation", g.Rotation(Local), rot)
	assertVec3Near(t, "scale", g.Scale(Local), mgl32.Vec3{2, 3, 4})
	assertMat4Near(t, "scale matrix", g.ScaleMatrix(Local), mgl32.Scale3D(2, 3, 4))
}

func TestSettersKeepOtherParts(t *testing.T) {
	g := NewGameObject("g")
	g.SetPosition(mgl32.Vec3{1, 2, 3}, Local)
	g.SetScale(mgl32.Vec3{2, 2, 2}, Local)
	g.SetRotation(mgl32.HomogRotate3DZ(0.25), Local)

	assertVec3Near(t, "position", g.Position(Local), mgl32.Vec3{1, 2, 3})
	assertVec3Near(t, "scale", g.Scale(Local), mgl32.Vec3{2, 2, 2})
	assertMat4Near(t, "rotation", g.Rotation(Local), mgl32.HomogRotate3DZ(0.25))
}

func TestWorldScaleCompounds(t *testing.T) {
	p := NewGameObject("p")
	c := NewGameObject("c")
	p.AddChild(c)
	p.SetScale(mgl32.Vec3{2, 2, 2}, Local)
	c.SetScale(mgl32.Vec3{3, 3, 3}, Local)

	assertVec3Near(t, "world scale", c.Scale(World), mgl32.Vec3{6, 6, 6})

	c.SetScale(mgl32.Vec3{1, 1, 1}, World)
	assertVec3Near(t, "local scale", c.Scale(Local), mgl32.Vec3{0.5, 0.5, 0.5})
}

func TestRotateAccumulates(t *testing.T) {
	g := NewGameObject("g")
	g.SetPosition(mgl32.Vec3{1, 0, 0}, Local)
	g.Rotate(pi/4, UnitY, Local)
	g.Rotate(pi/4, UnitY, Local)

	assertMat4Near(t, "rotation", g.Rotation(Local), mgl32.HomogRotate3DY(pi/2))
	assertVec3Near(t, "position unchanged", g.Position(Local), mgl32.Vec3{1, 0, 0})
}

func TestWorldAccessorsIgnoreStaleCache(t *testing.T) {
	p := NewGameObject("p")
	c := NewGameObject("c")
	p.AddChild(c)
	p.SetPosition(mgl32.Vec3{0, 3, 0}, Local)

	// No update has run, so the cached world transform is still identity.
	assertMat4Near(t, "cached", c.WorldTransform(), mgl32.Ident4())
	assertVec3Near(t, "fresh", c.Position(World), mgl32.Vec3{0, 3, 0})
}

func TestInvertOrIdentity(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), invertOrIdentity(mgl32.Mat4{}))

	m := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	assertMat4Near(t, "m * inv(m)", m.Mul4(invertOrIdentity(m)), mgl32.Ident4())
}
