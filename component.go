package grove

import "slices"

// DefaultUpdateOrder is the update order used by the built-in components.
const DefaultUpdateOrder = 100

// Component is a behavior or capability attached to exactly one GameObject.
// Concrete components embed BaseComponent and override the hooks they need.
//
// Components within one GameObject run in ascending UpdateOrder for both
// ProcessInput and Update. A component never reaches into its siblings;
// shared state lives on the owning GameObject (its transform, for example).
type Component interface {
	// Initialize runs once after the component is attached and before its
	// first Update. The owner's transform is already default-initialized.
	Initialize() error
	// Update advances the component by dt seconds.
	Update(dt float32)
	// ProcessInput reacts to the current input state.
	ProcessInput()
	// UpdateOrder is the sequencing key among sibling components.
	UpdateOrder() int
	// Kind reports the component's kind tag.
	Kind() ComponentKind
	// Owner returns the GameObject this component is attached to, or nil.
	Owner() *GameObject

	bind(owner *GameObject)
}

// SceneRegistrant is implemented by components that keep themselves in a
// scene-wide registry (cameras, meshes). GameObject calls the hooks when the
// component joins or leaves a linked scene graph.
type SceneRegistrant interface {
	OnSceneAttach(s *Scene)
	OnSceneDetach(s *Scene)
}

// Disposer is implemented by components holding resources that must be
// released when the component is removed or its GameObject is destroyed.
type Disposer interface {
	Dispose()
}

// BaseComponent provides the bookkeeping shared by every component and
// no-op lifecycle hooks.
type BaseComponent struct {
	updateOrder int
	kind        ComponentKind
	owner       *GameObject
}

// NewBaseComponent returns a generic BaseComponent with the given update order.
func NewBaseComponent(updateOrder int) BaseComponent {
	return BaseComponent{updateOrder: updateOrder, kind: KindGeneric}
}

func newKindComponent(updateOrder int, kind ComponentKind) BaseComponent {
	return BaseComponent{updateOrder: updateOrder, kind: kind}
}

// Initialize is a no-op.
func (b *BaseComponent) Initialize() error { return nil }

// Update is a no-op.
func (b *BaseComponent) Update(dt float32) {}

// ProcessInput is a no-op.
func (b *BaseComponent) ProcessInput() {}

// UpdateOrder returns the component's update order.
func (b *BaseComponent) UpdateOrder() int { return b.updateOrder }

// Kind returns the component's kind tag.
func (b *BaseComponent) Kind() ComponentKind { return b.kind }

// Owner returns the owning GameObject.
func (b *BaseComponent) Owner() *GameObject { return b.owner }

func (b *BaseComponent) bind(owner *GameObject) {
	if b.owner != nil && b.owner != owner {
		panic("grove: component is already attached to another game object")
	}
	b.owner = owner
}

// sortComponents stable-sorts by ascending update order; equal orders keep
// their insertion order.
func sortComponents(cs []Component) {
	slices.SortStableFunc(cs, func(a, b Component) int {
		return a.UpdateOrder() - b.UpdateOrder()
	})
}
