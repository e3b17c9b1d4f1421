package grove

import "github.com/hajimehoshi/ebiten/v2"

// TextureMode selects how a material's diffuse texture combines with its
// lighting colors.
type TextureMode uint8

const (
	TextureNone                  TextureMode = iota // colors only
	TextureDecal                                    // texture over lit color, blended by texture alpha
	TextureReplaceAmbientDiffuse                    // texture replaces ambient and diffuse colors
	TextureModulate                                 // texture multiplies the lit color
)

// materialIDCounter is a plain counter (no atomic: scenes are built and run
// on one goroutine).
var materialIDCounter uint32

func nextMaterialID() uint32 {
	materialIDCounter++
	return materialIDCounter
}

// Material is the surface description a sub-mesh is drawn with. Materials
// are values; ID distinguishes materials in mesh cache keys.
type Material struct {
	ID uint32

	AmbientColor  Color
	DiffuseColor  Color
	SpecularColor Color
	EmissiveColor Color

	SpecularExponent float32
	Alpha            float32

	DiffuseTexture  *ebiten.Image
	SpecularTexture *ebiten.Image
	NormalMap       *ebiten.Image

	TextureMode TextureMode
}

// NewMaterial returns a white, opaque material with a fresh ID.
func NewMaterial() Material {
	return Material{
		ID:               nextMaterialID(),
		AmbientColor:     Color{0.1, 0.1, 0.1, 1},
		DiffuseColor:     ColorWhite,
		SpecularColor:    ColorWhite,
		EmissiveColor:    Color{0, 0, 0, 1},
		SpecularExponent: 64,
		Alpha:            1,
	}
}

// SetDiffuseTexture sets the diffuse texture and enables it. A material
// without a texture mode switches to TextureReplaceAmbientDiffuse.
func (m *Material) SetDiffuseTexture(img *ebiten.Image) {
	m.DiffuseTexture = img
	if img != nil && m.TextureMode == TextureNone {
		m.TextureMode = TextureReplaceAmbientDiffuse
	}
}

// DiffuseTextureEnabled reports whether a diffuse texture is set.
func (m *Material) DiffuseTextureEnabled() bool { return m.DiffuseTexture != nil }

// SpecularTextureEnabled reports whether a specular texture is set.
func (m *Material) SpecularTextureEnabled() bool { return m.SpecularTexture != nil }

// NormalMapEnabled reports whether a normal map is set.
func (m *Material) NormalMapEnabled() bool { return m.NormalMap != nil }
