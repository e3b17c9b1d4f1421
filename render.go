package grove

import (
	"image"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// The renderer is a small software pipeline on top of ebiten's 2D triangle
// API: vertices are projected on the CPU, back faces are culled, triangles
// are depth-sorted far to near and submitted with DrawTriangles32, batched
// by source image. There is no depth buffer, so intersecting geometry can
// draw in the wrong order.

// lightDir is the world-space direction towards the single directional light.
var lightDir = mgl32.Vec3{0.3, 1, 0.5}.Normalize()

// --- White pixel singleton (no sync.Once: grove is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Used by untextured materials.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// renderTriangle is one projected, shaded triangle waiting to be drawn.
type renderTriangle struct {
	verts   [3]ebiten.Vertex
	depth   float32 // mean NDC depth, larger is farther
	texture *ebiten.Image
}

// renderer holds the per-frame buffers reused between frames.
type renderer struct {
	tris  []renderTriangle
	verts []ebiten.Vertex
	inds  []uint32
}

// drawScene renders every registered camera in depth order.
func (r *renderer) drawScene(screen *ebiten.Image, s *Scene) {
	w, h := s.WindowSize()
	for _, cam := range s.cameras.Active() {
		if cam.owner == nil || !visible(cam.owner) {
			continue
		}
		r.drawCamera(screen, cam, s.meshes.Active(), w, h)
	}
}

func (r *renderer) drawCamera(screen *ebiten.Image, cam *CameraComponent, meshes []*MeshComponent, w, h int) {
	vp, proj, view := cam.CameraTransformations(w, h)
	vp = vp.Intersect(screen.Bounds())
	if vp.Empty() {
		return
	}
	target := screen.SubImage(vp).(*ebiten.Image)
	target.Fill(cam.clearColor.toRGBA())

	viewProj := proj.Mul4(view)
	r.tris = r.tris[:0]
	for _, m := range meshes {
		if m.owner == nil || !m.Built() || !visible(m.owner) {
			continue
		}
		r.tris = appendMeshTriangles(r.tris, m, viewProj, vp)
	}
	sortTriangles(r.tris)
	r.submit(target)
}

// submit draws the sorted triangles, one DrawTriangles32 call per run of
// triangles sharing a source image.
func (r *renderer) submit(target *ebiten.Image) {
	var current *ebiten.Image
	for i := range r.tris {
		t := &r.tris[i]
		if t.texture != current {
			r.flush(target, current)
			current = t.texture
		}
		base := uint32(len(r.verts))
		r.verts = append(r.verts, t.verts[0], t.verts[1], t.verts[2])
		r.inds = append(r.inds, base, base+1, base+2)
	}
	r.flush(target, current)
}

func (r *renderer) flush(target *ebiten.Image, img *ebiten.Image) {
	if len(r.verts) == 0 || img == nil {
		r.verts = r.verts[:0]
		r.inds = r.inds[:0]
		return
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	target.DrawTriangles32(r.verts, r.inds, img, &triOp)
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}

// visible reports whether g and all its ancestors are active.
func visible(g *GameObject) bool {
	for p := g; p != nil; p = p.parent {
		if p.state != StateActive {
			return false
		}
	}
	return true
}

// projectPoint maps a model-space position through mvp into the pixel
// rectangle vp. ok is false for points at or behind the eye (clip w <= 0).
func projectPoint(mvp mgl32.Mat4, p mgl32.Vec4, vp image.Rectangle) (x, y, depth float32, ok bool) {
	c := mvp.Mul4x1(p)
	if c[3] <= 0 {
		return 0, 0, 0, false
	}
	ndc := c.Vec3().Mul(1 / c[3])
	x = float32(vp.Min.X) + (ndc[0]+1)/2*float32(vp.Dx())
	y = float32(vp.Min.Y) + (1-ndc[1])/2*float32(vp.Dy())
	return x, y, ndc[2], true
}

// appendMeshTriangles projects, culls and shades the triangles of m.
func appendMeshTriangles(dst []renderTriangle, m *MeshComponent, viewProj mgl32.Mat4, vp image.Rectangle) []renderTriangle {
	model := m.owner.WorldTransform()
	mvp := viewProj.Mul4(model)
	normalMat := model.Mat3().Inv().Transpose()

	for si := range m.data.SubMeshes {
		sub := &m.data.SubMeshes[si]
		mat := &sub.Material
		tex, texW, texH := materialTexture(mat)

		for i := 0; i+2 < len(sub.Indices); i += 3 {
			var t renderTriangle
			t.texture = tex
			ok := true
			for k := 0; k < 3; k++ {
				idx := sub.Indices[i+k]
				if int(idx) >= len(sub.Vertices) {
					ok = false
					break
				}
				v := &sub.Vertices[idx]
				x, y, z, vis := projectPoint(mvp, v.Position, vp)
				if !vis || z < -1 || z > 1 {
					ok = false
					break
				}
				t.depth += z / 3

				shade := shadeVertex(mat, normalMat.Mul3x1(v.Normal))
				t.verts[k] = ebiten.Vertex{
					DstX:   x,
					DstY:   y,
					SrcX:   v.TexCoord[0] * texW,
					SrcY:   (1 - v.TexCoord[1]) * texH,
					ColorR: shade.R,
					ColorG: shade.G,
					ColorB: shade.B,
					ColorA: shade.A,
				}
			}
			if !ok || !frontFacing(&t) {
				continue
			}
			dst = append(dst, t)
		}
	}
	return dst
}

// frontFacing reports whether the projected triangle winds counter-clockwise
// as seen by the camera. Screen Y points down, so that is a negative signed
// area in pixel coordinates.
func frontFacing(t *renderTriangle) bool {
	a, b, c := t.verts[0], t.verts[1], t.verts[2]
	area := (b.DstX-a.DstX)*(c.DstY-a.DstY) - (c.DstX-a.DstX)*(b.DstY-a.DstY)
	return area < 0
}

// sortTriangles orders triangles far to near.
func sortTriangles(tris []renderTriangle) {
	slices.SortStableFunc(tris, func(a, b renderTriangle) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		default:
			return 0
		}
	})
}

// materialTexture returns the source image for a material and the scale
// applied to its texture coordinates.
func materialTexture(mat *Material) (img *ebiten.Image, w, h float32) {
	if mat.DiffuseTexture != nil && mat.TextureMode != TextureNone {
		b := mat.DiffuseTexture.Bounds()
		return mat.DiffuseTexture, float32(b.Dx()), float32(b.Dy())
	}
	return ensureWhitePixel(), 1, 1
}

// shadeVertex computes a Lambert color for a world-space normal.
func shadeVertex(mat *Material, n mgl32.Vec3) Color {
	if n.Len() > 0 {
		n = n.Normalize()
	}
	diffuse := max(n.Dot(lightDir), 0)

	base := mat.DiffuseColor
	ambient := mat.AmbientColor
	if mat.DiffuseTexture != nil {
		switch mat.TextureMode {
		case TextureReplaceAmbientDiffuse, TextureDecal:
			base = ColorWhite
			ambient = Color{0.2, 0.2, 0.2, 1}
		}
	}
	c := Color{
		R: min(ambient.R+base.R*diffuse+mat.EmissiveColor.R, 1),
		G: min(ambient.G+base.G*diffuse+mat.EmissiveColor.G, 1),
		B: min(ambient.B+base.B*diffuse+mat.EmissiveColor.B, 1),
		A: mat.Alpha,
	}
	return c
}
