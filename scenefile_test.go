package grove

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSceneYAML = `
title: test
clear_color: [0.1, 0.2, 0.3]
objects:
  - name: camera
    position: [0, 2, 20]
    components:
      - {type: camera, fov: 60, depth: 1}
  - name: hud camera
    components:
      - {type: camera, viewport: [0, 0, 0.25, 0.25], clear_color: [1, 0, 0, 1]}
  - name: pivot
    position: [0, 0, -10]
    rotation: {axis: [0, 1, 0], degrees: 90}
    components:
      - {type: spin, rate: 180, axis: [0, 0, 1]}
    children:
      - name: ball
        position: [3, 0, 0]
        scale: [2, 2, 2]
        components:
          - type: sphere
            radius: 0.5
            stacks: 4
            slices: 6
            material: {color: [1, 0, 0], alpha: 0.5, shininess: 8}
          - {type: tween, property: scale, to: [4, 4, 4], duration: 2, ease: in_out_quad, yoyo: true}
      - name: paused crate
        state: paused
        components:
          - {type: box, size: [1, 2, 3], order: 7}
  - name: scripted
    components:
      - {type: arrow_rotate, rate: 90, order: 5}
      - type: lua
        source: |
          function update(dt) set_position(0, 1, 0) end
`

func TestBuildScene(t *testing.T) {
	def, err := ParseScene([]byte(testSceneYAML))
	require.NoError(t, err)
	assert.Equal(t, "test", def.Title)

	s := newTestScene()
	require.NoError(t, BuildScene(def, s))
	require.NoError(t, s.Start())

	assert.Equal(t, []string{"camera", "hud camera", "pivot", "scripted"}, childNames(s.Root()))
	require.Equal(t, 2, s.Cameras().Len())
	hud, main := s.Cameras().Active()[0], s.Cameras().Active()[1]
	assert.Equal(t, 1, main.Depth())
	assertNear(t, "fov", main.FieldOfView(), mgl32.DegToRad(60))
	assert.Equal(t, Color{0.1, 0.2, 0.3, 1}, main.ClearColor(), "scene clear color applies")
	assert.Equal(t, Color{1, 0, 0, 1}, hud.ClearColor(), "own clear color wins")
	assert.Equal(t, Rect{0, 0, 0.25, 0.25}, hud.Viewport())

	pivot := s.FindGameObject("pivot")
	require.NotNil(t, pivot)
	assertVec3Near(t, "pivot position", pivot.Position(Local), mgl32.Vec3{0, 0, -10})
	assertMat4Near(t, "pivot rotation", pivot.Rotation(Local), mgl32.HomogRotate3DY(pi/2))
	assert.Equal(t, []string{"ball", "paused crate"}, childNames(pivot))

	ball := s.FindGameObject("ball")
	assertVec3Near(t, "ball scale", ball.Scale(Local), mgl32.Vec3{2, 2, 2})
	require.Len(t, ball.Components(), 2)
	sphere := ball.Components()[0].(*MeshComponent)
	assert.True(t, sphere.Built())
	mat := sphere.SubMeshes()[0].Material
	assert.Equal(t, Color{1, 0, 0, 1}, mat.DiffuseColor)
	assert.Equal(t, float32(0.5), mat.Alpha)
	assert.Equal(t, float32(8), mat.SpecularExponent)
	tw := ball.Components()[1].(*TweenComponent)
	assert.Equal(t, TweenScale, tw.Target)
	assert.True(t, tw.Yoyo)
	assert.Equal(t, float32(2), tw.Duration)

	crate := s.FindGameObject("paused crate")
	assert.Equal(t, StatePaused, crate.State())
	assert.Equal(t, 7, crate.Components()[0].UpdateOrder())
	assert.Equal(t, 2, s.Meshes().Len())

	scripted := s.FindGameObject("scripted")
	require.Len(t, scripted.Components(), 2)
	arrow := scripted.Components()[0].(*ArrowRotateComponent)
	assertNear(t, "arrow rate", arrow.Rate(), pi/2)
	assert.Equal(t, 5, arrow.UpdateOrder())
	assert.Equal(t, KindScript, scripted.Components()[1].Kind())

	s.Frame(0.5)
	assertVec3Near(t, "lua moved object", scripted.Position(Local), mgl32.Vec3{0, 1, 0})
}

func TestBuildSceneErrorsAddNothing(t *testing.T) {
	tests := []struct {
		name, yaml, want string
	}{
		{"unknown type", "objects:\n  - name: ok\n  - name: bad\n    components:\n      - {type: teleporter}\n", `object "bad": unknown component type "teleporter"`},
		{"bad position", "objects:\n  - name: bad\n    position: [1, 2]\n", "position: need 3 values, got 2"},
		{"zero axis", "objects:\n  - name: bad\n    rotation: {axis: [0, 0, 0], degrees: 10}\n", "rotation axis is zero"},
		{"bad state", "objects:\n  - name: bad\n    state: sleeping\n", `unknown state "sleeping"`},
		{"bad child", "objects:\n  - name: parent\n    children:\n      - name: child\n        scale: [1]\n", `object "parent": object "child": scale`},
		{"bad camera", "objects:\n  - name: cam\n    components:\n      - {type: camera, near: 5, far: 1}\n", "invalid clip planes"},
		{"bad tween", "objects:\n  - name: t\n    components:\n      - {type: tween, to: [1, 1, 1], property: color}\n", `unknown tween property "color"`},
		{"bad ease", "objects:\n  - name: t\n    components:\n      - {type: tween, to: [1, 1, 1], ease: wobble}\n", "unknown easing function"},
		{"empty lua", "objects:\n  - name: l\n    components:\n      - {type: lua}\n", "needs path or source"},
		{"no model loader", "objects:\n  - name: m\n    components:\n      - {type: model, path: rock.obj}\n", "no model loader"},
		{"bad texture mode", "objects:\n  - name: b\n    components:\n      - {type: box, material: {texture_mode: emboss}}\n", `unknown texture mode "emboss"`},
		{"missing texture", "objects:\n  - name: b\n    components:\n      - {type: box, material: {texture: nope.png}}\n", "load texture"},
		{"bad clear color", "clear_color: [1, 2]\nobjects: []\n", "clear_color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := ParseScene([]byte(tt.yaml))
			require.NoError(t, err)
			s := newTestScene()
			b := NewSceneBuilder()
			b.BaseDir = t.TempDir()
			err = b.Build(def, s)
			assert.ErrorContains(t, err, tt.want)
			assert.Empty(t, s.Root().Children())
		})
	}
}

func TestParseSceneRejectsUntypedComponent(t *testing.T) {
	_, err := ParseScene([]byte("objects:\n  - name: x\n    components:\n      - {rate: 1}\n"))
	assert.ErrorContains(t, err, "component without type")
}

func TestSceneBuilderRegister(t *testing.T) {
	b := NewSceneBuilder()
	assert.Equal(t, []string{"arrow_rotate", "box", "camera", "cylinder", "lua", "model", "sphere", "spin", "tween"}, b.ComponentTypes())

	type markerParams struct {
		Label string `yaml:"label"`
	}
	var labels []string
	b.Register("marker", func(def ComponentDef, _ *SceneBuilder) (Component, error) {
		var p markerParams
		if err := def.Decode(&p); err != nil {
			return nil, err
		}
		labels = append(labels, p.Label)
		return newRecorder(p.Label, def.UpdateOrder(3), nil), nil
	})
	assert.Contains(t, b.ComponentTypes(), "marker")
	assert.Panics(t, func() { b.Register("broken", nil) })

	def, err := ParseScene([]byte("objects:\n  - name: x\n    components:\n      - {type: marker, label: here}\n"))
	require.NoError(t, err)
	s := newTestScene()
	require.NoError(t, b.Build(def, s))
	assert.Equal(t, []string{"here"}, labels)
	assert.Equal(t, 3, s.FindGameObject("x").Components()[0].UpdateOrder())
}

func TestSceneBuilderModelsUseLoaderAndBaseDir(t *testing.T) {
	var loaded []string
	b := NewSceneBuilder()
	b.BaseDir = "assets"
	b.ModelLoader = ModelLoaderFunc(func(path string) ([]ModelMesh, error) {
		loaded = append(loaded, path)
		return []ModelMesh{{
			Vertices: []Vertex{{Position: mgl32.Vec4{0, 0, 0, 1}}, {Position: mgl32.Vec4{1, 0, 0, 1}}, {Position: mgl32.Vec4{0, 1, 0, 1}}},
			Indices:  []uint32{0, 1, 2},
			Material: NewMaterial(),
		}}, nil
	})

	def, err := ParseScene([]byte("objects:\n  - name: dino\n    components:\n      - {type: model, path: Dinosaur/Trex.obj}\n"))
	require.NoError(t, err)
	s := newTestScene()
	require.NoError(t, b.Build(def, s))
	require.NoError(t, s.Start())
	assert.Equal(t, []string{filepath.Join("assets", "Dinosaur", "Trex.obj")}, loaded)
}

func TestLoadSceneFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: from file\nobjects:\n  - name: a\n"), 0o644))

	def, err := LoadSceneFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from file", def.Title)
	require.Len(t, def.Objects, 1)

	_, err = LoadSceneFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read scene")

	require.NoError(t, os.WriteFile(path, []byte("objects: {"), 0o644))
	_, err = LoadSceneFile(path)
	assert.ErrorContains(t, err, "parse scene")
}

func TestSceneBuilderPath(t *testing.T) {
	b := NewSceneBuilder()
	assert.Equal(t, "a.png", b.Path("a.png"))
	b.BaseDir = "base"
	assert.Equal(t, filepath.Join("base", "a.png"), b.Path("a.png"))
	assert.Equal(t, "", b.Path(""))
	abs := filepath.Join(string(filepath.Separator), "abs", "a.png")
	assert.Equal(t, abs, b.Path(abs))
}

func TestToColor(t *testing.T) {
	c, err := toColor([]float32{0.1, 0.2, 0.3})
	require.NoError(t, err)
	assert.Equal(t, Color{0.1, 0.2, 0.3, 1}, c)
	_, err = toColor([]float32{1})
	assert.ErrorContains(t, err, "3 or 4 values")
}
