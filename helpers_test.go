package grove

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const epsilon = 1e-4

const pi = float32(math.Pi)

func assertNear(t *testing.T, name string, got, want float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec3Near(t *testing.T, name string, got, want mgl32.Vec3) {
	t.Helper()
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > epsilon {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

func assertMat4Near(t *testing.T, name string, got, want mgl32.Mat4) {
	t.Helper()
	assertMat4Within(t, name, got, want, epsilon)
}

func assertMat4Within(t *testing.T, name string, got, want mgl32.Mat4, tol float64) {
	t.Helper()
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > tol {
			t.Errorf("%s =\n%v\nwant\n%v", name, got, want)
			return
		}
	}
}

// newTestScene returns a scene reading scripted input instead of the
// keyboard.
func newTestScene(opts ...SceneOption) *Scene {
	return NewScene(append([]SceneOption{WithInput(NewScriptedInput())}, opts...)...)
}

// newObservedScene returns a test scene whose logger records every entry.
func newObservedScene(opts ...SceneOption) (*Scene, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return newTestScene(append([]SceneOption{WithLogger(zap.New(core))}, opts...)...), logs
}

// recorder is a component that counts and logs its lifecycle calls.
type recorder struct {
	BaseComponent

	id  string
	log *[]string

	initErr  error
	onInit   func()
	onUpdate func(dt float32)
	onInput  func()

	inits, updates, inputs int
	disposed               bool
}

func newRecorder(id string, order int, log *[]string) *recorder {
	return &recorder{BaseComponent: NewBaseComponent(order), id: id, log: log}
}

func (r *recorder) record(event string) {
	if r.log != nil {
		*r.log = append(*r.log, event+":"+r.id)
	}
}

func (r *recorder) Initialize() error {
	r.inits++
	r.record("init")
	if r.onInit != nil {
		r.onInit()
	}
	return r.initErr
}

func (r *recorder) Update(dt float32) {
	r.updates++
	r.record("update")
	if r.onUpdate != nil {
		r.onUpdate(dt)
	}
}

func (r *recorder) ProcessInput() {
	r.inputs++
	r.record("input")
	if r.onInput != nil {
		r.onInput()
	}
}

func (r *recorder) Dispose() {
	r.disposed = true
}

// eventRecorder collects scene events.
type eventRecorder struct {
	events []SceneEvent
}

func (e *eventRecorder) EmitSceneEvent(ev SceneEvent) {
	e.events = append(e.events, ev)
}

func (e *eventRecorder) count(typ SceneEventType) int {
	n := 0
	for _, ev := range e.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func childNames(g *GameObject) []string {
	names := make([]string, 0, len(g.Children()))
	for _, c := range g.Children() {
		names = append(names, c.Name)
	}
	return names
}
