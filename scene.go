package grove

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var nopLogger = zap.NewNop()

// SceneEventType identifies a structural change applied by the maintenance pass.
type SceneEventType uint8

const (
	EventAttached   SceneEventType = iota // a pending object, or one of its descendants, was linked into the tree
	EventRemoved                          // a dead object was detached and destroyed
	EventReparented                       // an object moved under a new parent
)

// String returns the event name.
func (t SceneEventType) String() string {
	switch t {
	case EventAttached:
		return "attached"
	case EventRemoved:
		return "removed"
	case EventReparented:
		return "reparented"
	default:
		return "unknown"
	}
}

// SceneEvent describes one applied structural change.
type SceneEvent struct {
	Type     SceneEventType
	ObjectID uuid.UUID
	Name     string
	// ParentID is the parent after the change (the former parent for EventRemoved).
	ParentID uuid.UUID
}

// EventSink receives scene events. When set on a Scene, every change applied
// by the maintenance pass is forwarded to it.
type EventSink interface {
	EmitSceneEvent(event SceneEvent)
}

// Scene is the context object that owns the GameObject tree together with
// everything the tree shares: the camera and mesh registries, the mesh build
// cache, the deferred mutation queues, the input source and the logger.
// Independent scenes share no state.
type Scene struct {
	root    *GameObject
	running bool
	debug   bool

	// Window dimensions in pixels, reported by the game loop.
	width, height int

	cameras   CameraRegistry
	meshes    MeshRegistry
	meshCache *MeshCache

	// Deferred mutation queues, consumed by Maintain.
	pending   []pendingAttachment
	removed   []*GameObject
	reparents []reparentRequest

	input Input
	log   *zap.Logger
	sink  EventSink

	stats debugStats
}

// SceneOption configures a Scene.
type SceneOption func(*Scene)

// WithLogger sets the scene logger. The default discards everything.
func WithLogger(log *zap.Logger) SceneOption {
	return func(s *Scene) {
		if log != nil {
			s.log = log
		}
	}
}

// WithInput sets the input source read by input-driven components.
// The default reads the live keyboard through ebiten.
func WithInput(in Input) SceneOption {
	return func(s *Scene) {
		if in != nil {
			s.input = in
		}
	}
}

// WithEventSink sets the sink that receives maintenance events.
func WithEventSink(sink EventSink) SceneOption {
	return func(s *Scene) {
		s.sink = sink
	}
}

// WithDebug enables tree depth and child count warnings.
func WithDebug(enabled bool) SceneOption {
	return func(s *Scene) {
		s.debug = enabled
	}
}

// NewScene creates a scene with a pre-created root GameObject.
func NewScene(opts ...SceneOption) *Scene {
	s := &Scene{
		width:     defaultWindowWidth,
		height:    defaultWindowHeight,
		meshCache: newMeshCache(),
		input:     EbitenInput{},
		log:       nopLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	root := NewGameObject("root")
	root.scene = s
	s.root = root
	return s
}

// Root returns the scene's root GameObject.
func (s *Scene) Root() *GameObject {
	return s.root
}

// AddChild adds a top-level object under the root.
func (s *Scene) AddChild(g *GameObject) {
	s.root.AddChild(g)
}

// FindGameObject searches the whole tree. See GameObject.FindGameObject.
func (s *Scene) FindGameObject(name string) *GameObject {
	return s.root.FindGameObject(name)
}

// FindAllGameObjects searches the whole tree. See GameObject.FindAllGameObjects.
func (s *Scene) FindAllGameObjects(name string) []*GameObject {
	return s.root.FindAllGameObjects(name)
}

// Running reports whether the game loop is running. While it is, structural
// changes are deferred to the maintenance pass.
func (s *Scene) Running() bool {
	return s.running
}

// SetRunning sets the running flag.
func (s *Scene) SetRunning(running bool) {
	s.running = running
}

// Start initializes the tree and marks the scene running. Initialization
// errors from components are returned, but the scene starts regardless.
func (s *Scene) Start() error {
	err := s.root.Initialize()
	s.running = true
	if err != nil {
		s.log.Error("scene initialize", zap.Error(err))
	}
	return err
}

// Frame runs one frame: input for the whole tree, then update for the whole
// tree, then the maintenance pass.
func (s *Scene) Frame(dt float32) {
	if st, ok := s.input.(inputStepper); ok {
		st.step()
	}
	if !s.debug {
		s.root.ProcessInput()
		s.root.Update(dt)
		s.Maintain()
		return
	}

	t0 := time.Now()
	s.root.ProcessInput()
	t1 := time.Now()
	s.root.Update(dt)
	t2 := time.Now()
	s.Maintain()
	t3 := time.Now()
	s.stats = debugStats{
		inputTime:    t1.Sub(t0),
		updateTime:   t2.Sub(t1),
		maintainTime: t3.Sub(t2),
	}
}

// Cameras returns the camera registry.
func (s *Scene) Cameras() *CameraRegistry {
	return &s.cameras
}

// Meshes returns the mesh registry.
func (s *Scene) Meshes() *MeshRegistry {
	return &s.meshes
}

// MeshCache returns the cache of built meshes shared by mesh components.
func (s *Scene) MeshCache() *MeshCache {
	return s.meshCache
}

// Input returns the scene's input source.
func (s *Scene) Input() Input {
	return s.input
}

// Logger returns the scene logger.
func (s *Scene) Logger() *zap.Logger {
	return s.log
}

// SetEventSink sets the optional event sink.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebugMode enables or disables debug checks.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// WindowSize returns the window dimensions in pixels.
func (s *Scene) WindowSize() (width, height int) {
	return s.width, s.height
}

// SetWindowSize records the window dimensions. Called by the game loop.
func (s *Scene) SetWindowSize(width, height int) {
	s.width, s.height = width, height
}

func (s *Scene) emit(typ SceneEventType, g *GameObject, parent *GameObject) {
	if s.sink == nil {
		return
	}
	ev := SceneEvent{Type: typ, ObjectID: g.ID, Name: g.Name}
	if parent != nil {
		ev.ParentID = parent.ID
	}
	s.sink.EmitSceneEvent(ev)
}
