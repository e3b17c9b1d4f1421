package grove

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default material and clear color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorGray is the default camera clear color.
var ColorGray = Color{0.5, 0.5, 0.5, 1}

// Vec3 returns the RGB part of the color.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// toRGBA converts to a premultiplied color.RGBA for ebiten.
func (c Color) toRGBA() color.RGBA {
	clamp := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

// Rect is an axis-aligned rectangle. Camera viewports use normalized
// coordinates with the origin at the lower-left corner of the window.
type Rect struct {
	X, Y, Width, Height float32
}

// FullViewport covers the whole window.
var FullViewport = Rect{0, 0, 1, 1}

// State is the lifecycle state of a GameObject.
type State uint8

const (
	StateActive State = iota // in the scene graph, updated and rendered
	StatePaused              // in the scene graph, neither updated nor rendered
	StateDead                // destroyed, or skipped like a paused object
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Frame selects the reference frame for transform accessors.
type Frame uint8

const (
	Local Frame = iota // relative to the parent GameObject
	World              // relative to the scene root
)

// ComponentKind tags a component for logging and scene files. Registry
// membership is decided by the SceneRegistrant interface, not the tag.
type ComponentKind uint8

const (
	KindGeneric   ComponentKind = iota // plain behaviour with no registry
	KindMesh                           // renderable mesh
	KindCamera                         // camera viewpoint
	KindBehaviour                      // movement or control
	KindScript                         // scripted behaviour
)

// String returns the kind name.
func (k ComponentKind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindMesh:
		return "mesh"
	case KindCamera:
		return "camera"
	case KindBehaviour:
		return "behaviour"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// Unit axes.
var (
	UnitX = mgl32.Vec3{1, 0, 0}
	UnitY = mgl32.Vec3{0, 1, 0}
	UnitZ = mgl32.Vec3{0, 0, 1}
)
