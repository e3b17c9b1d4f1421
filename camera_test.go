package grove

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCamera(t *testing.T) {
	cam := NewCamera(3, 90, 1, 500)
	assert.Equal(t, 3, cam.Depth())
	assertNear(t, "fov", cam.FieldOfView(), pi/2)
	near, far := cam.ClipPlanes()
	assert.Equal(t, float32(1), near)
	assert.Equal(t, float32(500), far)
	assert.Equal(t, FullViewport, cam.Viewport())
	assert.Equal(t, ColorGray, cam.ClearColor())
	assert.Equal(t, KindCamera, cam.Kind())
	assert.Equal(t, DefaultUpdateOrder, cam.UpdateOrder())
}

func TestViewportPixels(t *testing.T) {
	cam := NewDefaultCamera()
	assert.Equal(t, image.Rect(0, 0, 800, 600), cam.ViewportPixels(800, 600))

	// Lower-right quarter: normalized origin is bottom-left.
	cam.SetViewport(0.5, 0, 0.5, 0.5)
	assert.Equal(t, image.Rect(400, 300, 800, 600), cam.ViewportPixels(800, 600))

	// Upper-left quarter.
	cam.SetViewport(0, 0.5, 0.5, 0.5)
	assert.Equal(t, image.Rect(0, 0, 400, 300), cam.ViewportPixels(800, 600))
}

func TestViewMatrixInvertsOwnerWorld(t *testing.T) {
	obj := NewGameObject("cam")
	cam := NewDefaultCamera()
	obj.AddComponent(cam)
	obj.SetPosition(mgl32.Vec3{0, 0, 10}, Local)
	require.NoError(t, obj.Initialize())

	origin := cam.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assertVec3Near(t, "origin in view space", origin.Vec3(), mgl32.Vec3{0, 0, -10})
}

func TestDetachedCameraViewIsIdentity(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), NewDefaultCamera().ViewMatrix())
}

func TestCameraTransformations(t *testing.T) {
	cam := NewCamera(0, 60, 0.5, 200)
	cam.SetViewport(0, 0, 0.5, 1)

	vp, proj, view := cam.CameraTransformations(800, 600)
	assert.Equal(t, image.Rect(0, 0, 400, 600), vp)
	assertMat4Near(t, "projection", proj, mgl32.Perspective(mgl32.DegToRad(60), 400.0/600.0, 0.5, 200))
	assert.Equal(t, mgl32.Ident4(), view)

	assertMat4Near(t, "bad aspect", cam.ProjectionMatrix(0), mgl32.Perspective(mgl32.DegToRad(60), 1, 0.5, 200))
}
