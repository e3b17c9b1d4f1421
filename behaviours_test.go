package grove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arrowScene(t *testing.T, rate float32) (*Scene, *ScriptedInput, *GameObject) {
	t.Helper()
	in := NewScriptedInput()
	s := NewScene(WithInput(in))
	obj := NewGameObject("steered")
	obj.AddComponent(NewArrowRotate(rate, DefaultUpdateOrder))
	obj.SetPosition(mgl32.Vec3{0, 0, -40}, World)
	s.AddChild(obj)
	require.NoError(t, s.Start())
	return s, in, obj
}

func TestArrowRotateYaw(t *testing.T) {
	s, in, obj := arrowScene(t, 1)

	in.Press(ebiten.KeyArrowLeft)
	s.Frame(0.5)
	assertMat4Near(t, "left", obj.Rotation(Local), mgl32.HomogRotate3DY(-0.5))

	in.Release(ebiten.KeyArrowLeft)
	in.Press(ebiten.KeyArrowRight)
	s.Frame(0.5)
	assertMat4Near(t, "back to start", obj.Rotation(Local), mgl32.Ident4())
	assertVec3Near(t, "position kept", obj.Position(Local), mgl32.Vec3{0, 0, -40})
}

func TestArrowRotatePitchAndYawCombine(t *testing.T) {
	s, in, obj := arrowScene(t, 2)

	in.Press(ebiten.KeyArrowUp, ebiten.KeyArrowRight)
	s.Frame(0.25)
	want := mgl32.HomogRotate3DY(0.5).Mul4(mgl32.HomogRotate3DX(-0.5))
	assertMat4Near(t, "up+right", obj.Rotation(Local), want)
}

func TestArrowRotateUpWinsOverDown(t *testing.T) {
	s, in, obj := arrowScene(t, 1)
	in.Press(ebiten.KeyArrowUp, ebiten.KeyArrowDown)
	s.Frame(0.1)
	assertMat4Near(t, "up wins", obj.Rotation(Local), mgl32.HomogRotate3DX(-0.1))
}

func TestArrowRotateIdleWithoutKeys(t *testing.T) {
	s, _, obj := arrowScene(t, 1)
	s.Frame(1)
	assertMat4Near(t, "idle", obj.Rotation(Local), mgl32.Ident4())
}

func TestArrowRotatePausedIgnoresKeys(t *testing.T) {
	s, in, obj := arrowScene(t, 1)
	obj.SetState(StatePaused)
	in.Press(ebiten.KeyArrowLeft)
	s.Frame(0.5)
	assertMat4Near(t, "paused", obj.Rotation(Local), mgl32.Ident4())
}

func TestNewArrowRotate(t *testing.T) {
	a := NewArrowRotate(DefaultRotationRate, 7)
	assert.Equal(t, KindBehaviour, a.Kind())
	assert.Equal(t, 7, a.UpdateOrder())
	assertNear(t, "rate", a.Rate(), mgl32.DegToRad(5))
}

func TestSpin(t *testing.T) {
	s := newTestScene()
	obj := NewGameObject("spinner")
	obj.AddComponent(NewSpin(UnitZ, pi, DefaultUpdateOrder))
	s.AddChild(obj)
	require.NoError(t, s.Start())

	s.Frame(0.5)
	assertMat4Near(t, "half turn rate", obj.Rotation(Local), mgl32.HomogRotate3DZ(pi/2))
}

func TestSpinDefaultsToYAxis(t *testing.T) {
	sp := NewSpin(mgl32.Vec3{}, 1, 0)
	assert.Equal(t, UnitY, sp.Axis)
	assert.Equal(t, Local, sp.Frame)
}
