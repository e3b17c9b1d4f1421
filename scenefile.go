package grove

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"gopkg.in/yaml.v3"
)

// SceneDef is the YAML description of a scene:
//
//	title: Scene 2
//	clear_color: [0.1, 0.1, 0.2, 1]
//	objects:
//	  - name: camera
//	    components:
//	      - {type: camera, fov: 45}
//	  - name: box
//	    position: [0, 0, -40]
//	    components:
//	      - {type: box, size: [10, 10, 10], material: {texture: brick.png}}
//	      - {type: arrow_rotate, rate: 45}
type SceneDef struct {
	Title      string      `yaml:"title"`
	ClearColor []float32   `yaml:"clear_color,omitempty"`
	Objects    []ObjectDef `yaml:"objects"`
}

// ObjectDef describes one GameObject and its subtree.
type ObjectDef struct {
	Name       string         `yaml:"name"`
	Position   []float32      `yaml:"position,omitempty"`
	Rotation   *RotationDef   `yaml:"rotation,omitempty"`
	Scale      []float32      `yaml:"scale,omitempty"`
	State      string         `yaml:"state,omitempty"` // active (default) or paused
	Components []ComponentDef `yaml:"components,omitempty"`
	Children   []ObjectDef    `yaml:"children,omitempty"`
}

// RotationDef is an axis-angle rotation.
type RotationDef struct {
	Axis    []float32 `yaml:"axis"`
	Degrees float32   `yaml:"degrees"`
}

// ComponentDef is one component entry. Type selects the factory; the
// factory decodes the remaining keys with Decode.
type ComponentDef struct {
	Type  string
	Order *int

	node *yaml.Node
}

// UnmarshalYAML keeps the raw node so the factory can decode its own keys.
func (d *ComponentDef) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Type  string `yaml:"type"`
		Order *int   `yaml:"order"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}
	if head.Type == "" {
		return fmt.Errorf("line %d: component without type", value.Line)
	}
	d.Type = head.Type
	d.Order = head.Order
	d.node = value
	return nil
}

// Decode decodes the component's keys into v.
func (d ComponentDef) Decode(v any) error {
	if d.node == nil {
		return nil
	}
	return d.node.Decode(v)
}

// UpdateOrder returns the component's "order" key, or def.
func (d ComponentDef) UpdateOrder(def int) int {
	if d.Order != nil {
		return *d.Order
	}
	return def
}

// MaterialDef describes a Material in a scene file.
type MaterialDef struct {
	Diffuse     []float32 `yaml:"color,omitempty"`
	Ambient     []float32 `yaml:"ambient,omitempty"`
	Specular    []float32 `yaml:"specular,omitempty"`
	Emissive    []float32 `yaml:"emissive,omitempty"`
	Shininess   *float32  `yaml:"shininess,omitempty"`
	Alpha       *float32  `yaml:"alpha,omitempty"`
	Texture     string    `yaml:"texture,omitempty"`
	TextureMode string    `yaml:"texture_mode,omitempty"` // decal, replace, modulate
}

// ComponentFactory creates a component from its scene file entry.
type ComponentFactory func(def ComponentDef, b *SceneBuilder) (Component, error)

// SceneBuilder turns SceneDefs into GameObject trees. Paths in the scene
// file (textures, scripts, models) are resolved against BaseDir.
type SceneBuilder struct {
	BaseDir     string
	ModelLoader ModelLoader

	factories map[string]ComponentFactory
	textures  map[string]*ebiten.Image
	clear     *Color
}

// NewSceneBuilder returns a builder with the built-in component types:
// box, sphere, cylinder, model, camera, arrow_rotate, spin, tween and lua.
func NewSceneBuilder() *SceneBuilder {
	b := &SceneBuilder{
		factories: make(map[string]ComponentFactory),
		textures:  make(map[string]*ebiten.Image),
	}
	b.Register("box", boxFactory)
	b.Register("sphere", sphereFactory)
	b.Register("cylinder", cylinderFactory)
	b.Register("model", modelFactory)
	b.Register("camera", cameraFactory)
	b.Register("arrow_rotate", arrowRotateFactory)
	b.Register("spin", spinFactory)
	b.Register("tween", tweenFactory)
	b.Register("lua", luaFactory)
	return b
}

// Register adds or replaces the factory for a component type.
func (b *SceneBuilder) Register(typ string, f ComponentFactory) {
	if f == nil {
		panic("grove: nil component factory for " + typ)
	}
	b.factories[typ] = f
}

// ComponentTypes returns the registered component type names, sorted.
func (b *SceneBuilder) ComponentTypes() []string {
	names := make([]string, 0, len(b.factories))
	for name := range b.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadSceneFile reads and parses a YAML scene file.
func LoadSceneFile(path string) (*SceneDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	def, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return def, nil
}

// ParseScene parses a YAML scene definition.
func ParseScene(data []byte) (*SceneDef, error) {
	var def SceneDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &def, nil
}

// BuildScene adds the objects of def under the root of s using the
// built-in component types. Paths resolve against the working directory.
func BuildScene(def *SceneDef, s *Scene) error {
	return NewSceneBuilder().Build(def, s)
}

// Build adds the objects of def under the root of s. Nothing is added if
// any object fails to build.
func (b *SceneBuilder) Build(def *SceneDef, s *Scene) error {
	b.clear = nil
	if def.ClearColor != nil {
		c, err := toColor(def.ClearColor)
		if err != nil {
			return fmt.Errorf("clear_color: %w", err)
		}
		b.clear = &c
	}

	objects := make([]*GameObject, 0, len(def.Objects))
	for i := range def.Objects {
		g, err := b.buildObject(&def.Objects[i])
		if err != nil {
			return err
		}
		objects = append(objects, g)
	}
	for _, g := range objects {
		s.AddChild(g)
	}
	return nil
}

func (b *SceneBuilder) buildObject(def *ObjectDef) (*GameObject, error) {
	g := NewGameObject(def.Name)
	fail := func(err error) (*GameObject, error) {
		return nil, fmt.Errorf("object %q: %w", g.Name, err)
	}

	if def.Rotation != nil {
		axis, err := toVec3(def.Rotation.Axis)
		if err != nil {
			return fail(fmt.Errorf("rotation axis: %w", err))
		}
		if axis.Len() == 0 {
			return fail(fmt.Errorf("rotation axis is zero"))
		}
		g.SetRotation(mgl32.HomogRotate3D(mgl32.DegToRad(def.Rotation.Degrees), axis.Normalize()), Local)
	}
	if def.Scale != nil {
		sc, err := toVec3(def.Scale)
		if err != nil {
			return fail(fmt.Errorf("scale: %w", err))
		}
		g.SetScale(sc, Local)
	}
	if def.Position != nil {
		p, err := toVec3(def.Position)
		if err != nil {
			return fail(fmt.Errorf("position: %w", err))
		}
		g.SetPosition(p, Local)
	}

	switch def.State {
	case "", "active":
	case "paused":
		g.SetState(StatePaused)
	default:
		return fail(fmt.Errorf("unknown state %q", def.State))
	}

	for _, cd := range def.Components {
		f, ok := b.factories[cd.Type]
		if !ok {
			return fail(fmt.Errorf("unknown component type %q", cd.Type))
		}
		c, err := f(cd, b)
		if err != nil {
			return fail(fmt.Errorf("%s component: %w", cd.Type, err))
		}
		g.AddComponent(c)
	}

	for i := range def.Children {
		child, err := b.buildObject(&def.Children[i])
		if err != nil {
			return fail(err)
		}
		g.AddChild(child)
	}
	return g, nil
}

// Path resolves a scene file path against BaseDir.
func (b *SceneBuilder) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || b.BaseDir == "" {
		return p
	}
	return filepath.Join(b.BaseDir, p)
}

// Material builds a Material from its definition, loading any texture.
func (b *SceneBuilder) Material(def *MaterialDef) (Material, error) {
	m := NewMaterial()
	if def == nil {
		return m, nil
	}
	var err error
	set := func(dst *Color, src []float32) {
		if src == nil || err != nil {
			return
		}
		*dst, err = toColor(src)
	}
	set(&m.DiffuseColor, def.Diffuse)
	set(&m.AmbientColor, def.Ambient)
	set(&m.SpecularColor, def.Specular)
	set(&m.EmissiveColor, def.Emissive)
	if err != nil {
		return m, err
	}
	if def.Shininess != nil {
		m.SpecularExponent = *def.Shininess
	}
	if def.Alpha != nil {
		m.Alpha = *def.Alpha
	}
	if def.Texture != "" {
		img, err := b.texture(def.Texture)
		if err != nil {
			return m, err
		}
		m.SetDiffuseTexture(img)
	}
	switch def.TextureMode {
	case "":
	case "decal":
		m.TextureMode = TextureDecal
	case "replace":
		m.TextureMode = TextureReplaceAmbientDiffuse
	case "modulate":
		m.TextureMode = TextureModulate
	default:
		return m, fmt.Errorf("unknown texture mode %q", def.TextureMode)
	}
	return m, nil
}

// texture loads an image file once per builder.
func (b *SceneBuilder) texture(path string) (*ebiten.Image, error) {
	full := b.Path(path)
	if img, ok := b.textures[full]; ok {
		return img, nil
	}
	img, _, err := ebitenutil.NewImageFromFile(full)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", full, err)
	}
	b.textures[full] = img
	return img, nil
}

// --- Built-in factories ---

func boxFactory(def ComponentDef, b *SceneBuilder) (Component, error) {
	var p struct {
		Size     []float32    `yaml:"size"`
		Material *MaterialDef `yaml:"material"`
	}
	if err := def.Decode(&p); err != nil {
		return nil, err
	}
	size := mgl32.Vec3{1, 1, 1}
	if p.Size != nil {
		var err error
		if size, err = toVec3(p.Size); err != nil {
			return nil, fmt.Errorf("size: %w", err)
		}
	}
	mat, err := b.Material(p.Material)
	if err != nil {
		return nil, err
	}
	m := NewBoxMesh(mat, size[0], size[1], size[2])
	m.updateOrder = def.UpdateOrder(DefaultUpdateOrder)
	return m, nil
}

func sphereFactory(def ComponentDef, b *SceneBuilder) (Component, error) {
	p := struct {
		Radius   float32      `yaml:"radius"`
		Stacks   int          `yaml:"stacks"`
		Slices   int          `yaml:"slices"`
		Material *MaterialDef `yaml:"material"`
	}{Radius: 1, Stacks: 16, Slices: 16}
	if err := def.Decode(&p); err != nil {
		return nil, err
	}
	if p.Radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %v", p.Radius)
	}
	mat, err := b.Material(p.Material)
	if err != nil {
		return nil, err
	}
	m := NewSphereMesh(mat, p.Radius, p.Stacks, p.Slices)
	m.updateOrder = def.UpdateOrder(DefaultUpdateOrder)
	return m, nil
}

func cylinderFactory(def ComponentDef, b *SceneBuilder) (Component, error) {
	p := struct {
		Radius   float32      `yaml:"radius"`
		Height   float32      `yaml:"height"`
		Slices   int          `yaml:"slices"`
		Material *MaterialDef `yaml:"material"`
	}{Radius: 1, Height: 2, Slices: 16}
	if err := def.Decode(&p); err != nil {
		return nil, err
	}
	if p.Radius <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("radius and height must be positive, got %v and %v", p.Radius, p.Height)
	}
	mat, err := b.Material(p.Material)
	if err != nil {
		return nil, err
	}
	m := NewCylinderMesh(mat, p.Radius, p.Height, p.Slices)
	m.updateOrder = def.UpdateOrder(DefaultUpdateOrder)
	return m, nil
}

func modelFactory(def ComponentDef, b *SceneBuilder) (Component, error) {
	var p struct {
		Path string `yaml:"path"`
	}
	if err := def.Decode(&p); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, fmt.Errorf("missing path")
	}
	if b.ModelLoader == nil {
		return nil, fmt.Errorf("no model loader configured for %s", p.Path)
	}
	m := NewModelMesh(b.Path(p.Path), b.ModelLoader)
	m.updateOrder = def.UpdateOrder(DefaultUpdateOrder)
	return m, nil
}

func cameraFactory(def ComponentDef, b *SceneBuilder) (Component, error) {
	p := struct {
		Depth      int       `yaml:"depth"`
		FOV        float32   `yaml:"fov"`
		Near       float32   `yaml:"near"`
		Far        float32   `yaml:"far"`
		Viewport   []float32 `yaml:"viewport"`
		ClearColor []float32 `yaml:"clear_color"`
	}{FOV: DefaultCameraFOV, Near: DefaultNearClip, Far: DefaultFarClip}
	if err := def.Decode(&p); err != nil {
		return nil, err
	}
	if p.Near <= 0 || p.Far <= p.Near {
		return nil, fmt.Errorf("invalid clip planes %v..%v", p.Near, p.Far)
	}
	cam := NewCamera(p.Depth, p.FOV, p.Near, p.Far)
	cam.updateOrder = def.UpdateOrder(cameraUpdateOrder)
	if p.Viewport != nil {
		if len(p.Viewport) != 4 {
			return nil, fmt.Errorf("viewport needs 4 values, got %d", len(p.Viewport))
		}
		cam.SetViewport(p.Viewport[0], p.Viewport[1], p.Viewport[2], p.Viewport[3])
	}
	switch {
	case p.ClearColor != nil:
		c, err := toColor(p.ClearColor)
		if err != nil {
			return nil, fmt.Errorf("clear_color: %w", err)
		}
		cam.SetClearColor(c)
	case b.clear != nil:
		cam.SetClearColor(*b.clear)
	}
	return cam, nil
}

func arrowRotateFactory(def ComponentDef, b *SceneBuilder) (Component, error) {
	var p struct {
		Rate *float32 `yaml:"rate"` // degrees per second
	}
	if err := def.Decode(&p); err != nil {
		return nil, err
	}
	rate := DefaultRotationRate
	if p.Rate != nil {
		rate = mgl32.DegToRad(*p.Rate)
	}
	return NewArrowRotate(rate, def.UpdateOrder(DefaultUpdateOrder)), nil
}

func spinFactory(def ComponentDef, b *SceneBuilder) (Component, error) {
	p := struct {
		Axis  []float32 `yaml:"axis"`
		Rate  float32   `yaml:"rate"` // degrees per second
		World bool      `yaml:"world"`
	}{Axis: []float32{0, 1, 0}}
	if err := def.Decode(&p); err != nil {
		return nil, err
	}
	axis, err := toVec3(p.Axis)
	if err != nil {
		return nil, fmt.Errorf("axis: %w", err)
	}
	sp := NewSpin(axis, mgl32.DegToRad(p.Rate), def.UpdateOrder(DefaultUpdateOrder))
	if p.World {
		sp.Frame = World
	}
	return sp, nil
}

func tweenFactory(def ComponentDef, b *SceneBuilder) (Component, error) {
	p := struct {
		Property string    `yaml:"property"` // position or scale
		To       []float32 `yaml:"to"`
		Duration float32   `yaml:"duration"`
		Ease     string    `yaml:"ease"`
		Yoyo     bool      `yaml:"yoyo"`
	}{Property: "position", Duration: 1}
	if err := def.Decode(&p); err != nil {
		return nil, err
	}
	to, err := toVec3(p.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	var target TweenTarget
	switch p.Property {
	case "position":
		target = TweenPosition
	case "scale":
		target = TweenScale
	default:
		return nil, fmt.Errorf("unknown tween property %q", p.Property)
	}
	fn, err := EaseByName(p.Ease)
	if err != nil {
		return nil, err
	}
	t := NewTween(target, to, p.Duration, fn, def.UpdateOrder(DefaultUpdateOrder))
	t.Yoyo = p.Yoyo
	return t, nil
}

func luaFactory(def ComponentDef, b *SceneBuilder) (Component, error) {
	var p struct {
		Path   string `yaml:"path"`
		Source string `yaml:"source"`
	}
	if err := def.Decode(&p); err != nil {
		return nil, err
	}
	order := def.UpdateOrder(DefaultUpdateOrder)
	switch {
	case p.Path != "":
		return NewLuaScript(b.Path(p.Path), order), nil
	case p.Source != "":
		return NewLuaScriptString(p.Source, order), nil
	default:
		return nil, fmt.Errorf("lua component needs path or source")
	}
}

// --- Value helpers ---

func toVec3(v []float32) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("need 3 values, got %d", len(v))
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

func toColor(v []float32) (Color, error) {
	switch len(v) {
	case 3:
		return Color{v[0], v[1], v[2], 1}, nil
	case 4:
		return Color{v[0], v[1], v[2], v[3]}, nil
	default:
		return Color{}, fmt.Errorf("color needs 3 or 4 values, got %d", len(v))
	}
}
