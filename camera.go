package grove

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults.
const (
	DefaultCameraFOV  = 45   // degrees
	DefaultNearClip   = 0.1  // world units
	DefaultFarClip    = 1000 // world units
	cameraUpdateOrder = DefaultUpdateOrder
)

// CameraComponent turns its GameObject into a viewpoint. The camera looks
// down the owner's -Z axis; its view transform is the inverse of the
// owner's world transform.
//
// Cameras register themselves with the scene's CameraRegistry while their
// GameObject is linked into the scene graph.
type CameraComponent struct {
	BaseComponent

	depth    int
	fovY     float32 // radians
	nearClip float32
	farClip  float32

	// viewport is normalized to the window, origin at the lower-left corner.
	viewport   Rect
	clearColor Color
}

// NewCamera creates a camera. Cameras with a higher depth are drawn after
// (on top of) cameras with a lower depth. vertFovDegrees is the vertical
// field of view.
func NewCamera(depth int, vertFovDegrees, nearClip, farClip float32) *CameraComponent {
	return &CameraComponent{
		BaseComponent: newKindComponent(cameraUpdateOrder, KindCamera),
		depth:         depth,
		fovY:          mgl32.DegToRad(vertFovDegrees),
		nearClip:      nearClip,
		farClip:       farClip,
		viewport:      FullViewport,
		clearColor:    ColorGray,
	}
}

// NewDefaultCamera creates a depth-0 camera with the default lens.
func NewDefaultCamera() *CameraComponent {
	return NewCamera(0, DefaultCameraFOV, DefaultNearClip, DefaultFarClip)
}

// OnSceneAttach registers the camera with s.
func (c *CameraComponent) OnSceneAttach(s *Scene) {
	s.cameras.Register(c)
}

// OnSceneDetach unregisters the camera from s.
func (c *CameraComponent) OnSceneDetach(s *Scene) {
	s.cameras.Unregister(c)
}

// Depth returns the draw-order key.
func (c *CameraComponent) Depth() int {
	return c.depth
}

// SetDepth changes the draw-order key and re-sorts the scene's cameras.
func (c *CameraComponent) SetDepth(depth int) {
	c.depth = depth
	if c.owner != nil && c.owner.scene != nil {
		c.owner.scene.cameras.sort()
	}
}

// FieldOfView returns the vertical field of view in radians.
func (c *CameraComponent) FieldOfView() float32 {
	return c.fovY
}

// ClipPlanes returns the near and far clip distances.
func (c *CameraComponent) ClipPlanes() (nearClip, farClip float32) {
	return c.nearClip, c.farClip
}

// SetViewport sets the rendering area for the camera in normalized window
// coordinates: (xLowerLeft, yLowerLeft) is the lower-left corner and a
// width or height of 1 spans the whole window.
func (c *CameraComponent) SetViewport(xLowerLeft, yLowerLeft, width, height float32) {
	c.viewport = Rect{X: xLowerLeft, Y: yLowerLeft, Width: width, Height: height}
}

// Viewport returns the normalized viewport.
func (c *CameraComponent) Viewport() Rect {
	return c.viewport
}

// SetClearColor sets the color the camera's viewport is cleared to.
func (c *CameraComponent) SetClearColor(col Color) {
	c.clearColor = col
}

// ClearColor returns the viewport clear color.
func (c *CameraComponent) ClearColor() Color {
	return c.clearColor
}

// ViewportPixels converts the normalized viewport to a screen rectangle for
// a window of the given size. The result uses screen coordinates (origin at
// the top-left, Y down).
func (c *CameraComponent) ViewportPixels(windowW, windowH int) image.Rectangle {
	w, h := float32(windowW), float32(windowH)
	x0 := int(c.viewport.X * w)
	x1 := int((c.viewport.X + c.viewport.Width) * w)
	y0 := int((1 - c.viewport.Y - c.viewport.Height) * h)
	y1 := int((1 - c.viewport.Y) * h)
	return image.Rect(x0, y0, x1, y1)
}

// ViewMatrix returns the viewing transformation: the inverse of the owner's
// world transform. Identity for a detached camera.
func (c *CameraComponent) ViewMatrix() mgl32.Mat4 {
	if c.owner == nil {
		return mgl32.Ident4()
	}
	return invertOrIdentity(c.owner.WorldTransform())
}

// ProjectionMatrix returns the perspective projection for the given aspect
// ratio (width / height).
func (c *CameraComponent) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(c.fovY, aspect, c.nearClip, c.farClip)
}

// CameraTransformations returns the viewport rectangle, projection and view
// matrices for a window of the given size.
func (c *CameraComponent) CameraTransformations(windowW, windowH int) (viewport image.Rectangle, projection, view mgl32.Mat4) {
	viewport = c.ViewportPixels(windowW, windowH)
	aspect := float32(1)
	if viewport.Dy() > 0 {
		aspect = float32(viewport.Dx()) / float32(viewport.Dy())
	}
	return viewport, c.ProjectionMatrix(aspect), c.ViewMatrix()
}
