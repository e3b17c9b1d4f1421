package grove

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultRotationRate is the ArrowRotateComponent rate used by scene files
// that do not give one, in radians per second.
var DefaultRotationRate = mgl32.DegToRad(5)

// ArrowRotateComponent rotates its GameObject with the arrow keys: up and
// down pitch about the X axis, left and right yaw about the Y axis. The
// rotation is applied in the local frame, yaw outermost.
type ArrowRotateComponent struct {
	BaseComponent

	rate       float32 // radians per second
	rotX, rotY float32
}

// NewArrowRotate creates an arrow-key rotation component.
func NewArrowRotate(rateRadians float32, updateOrder int) *ArrowRotateComponent {
	return &ArrowRotateComponent{
		BaseComponent: newKindComponent(updateOrder, KindBehaviour),
		rate:          rateRadians,
	}
}

// ProcessInput samples the arrow keys. Up wins over down and right over left.
func (a *ArrowRotateComponent) ProcessInput() {
	in := a.input()
	if in == nil {
		return
	}
	switch {
	case in.KeyPressed(ebiten.KeyArrowUp):
		a.rotX = -a.rate
	case in.KeyPressed(ebiten.KeyArrowDown):
		a.rotX = a.rate
	default:
		a.rotX = 0
	}
	switch {
	case in.KeyPressed(ebiten.KeyArrowRight):
		a.rotY = a.rate
	case in.KeyPressed(ebiten.KeyArrowLeft):
		a.rotY = -a.rate
	default:
		a.rotY = 0
	}
}

// Update applies rotY(rotY*dt) * rotX(rotX*dt) * R to the local rotation.
func (a *ArrowRotateComponent) Update(dt float32) {
	if a.owner == nil || (a.rotX == 0 && a.rotY == 0) {
		return
	}
	r := mgl32.HomogRotate3DY(a.rotY * dt).
		Mul4(mgl32.HomogRotate3DX(a.rotX * dt)).
		Mul4(a.owner.Rotation(Local))
	a.owner.SetRotation(r, Local)
}

// Rate returns the rotation rate in radians per second.
func (a *ArrowRotateComponent) Rate() float32 {
	return a.rate
}

func (a *ArrowRotateComponent) input() Input {
	if a.owner == nil {
		return nil
	}
	if s := a.owner.owningScene(); s != nil {
		return s.input
	}
	return nil
}

// SpinComponent turns its GameObject at a constant angular velocity.
type SpinComponent struct {
	BaseComponent

	Axis  mgl32.Vec3
	Rate  float32 // radians per second
	Frame Frame
}

// NewSpin creates a component spinning about axis in the local frame.
func NewSpin(axis mgl32.Vec3, rateRadians float32, updateOrder int) *SpinComponent {
	if axis.Len() == 0 {
		axis = UnitY
	}
	return &SpinComponent{
		BaseComponent: newKindComponent(updateOrder, KindBehaviour),
		Axis:          axis,
		Rate:          rateRadians,
		Frame:         Local,
	}
}

// Update rotates the owner by Rate*dt.
func (sp *SpinComponent) Update(dt float32) {
	if sp.owner == nil || sp.Rate == 0 || dt == 0 {
		return
	}
	sp.owner.Rotate(sp.Rate*dt, sp.Axis, sp.Frame)
}
