package grove

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameObject is a node in the scene tree. It owns its components and its
// child GameObjects and carries the local/world transform pair every other
// subsystem reads.
//
// Structural changes requested while the scene loop is running (AddChild,
// RemoveAndDelete, Reparent) are queued on the Scene and applied by the
// maintenance pass after the frame's traversals, so a traversal always sees
// the child list it started with.
type GameObject struct {
	// Identity
	ID   uuid.UUID
	Name string

	state State

	// Transform
	local mgl32.Mat4
	world mgl32.Mat4

	// Hierarchy
	scene      *Scene
	parent     *GameObject
	children   []*GameObject
	components []Component

	initialized bool
	destroyed   bool
}

// NewGameObject creates a detached, active GameObject with an identity
// transform. An empty name defaults to "GameObject".
func NewGameObject(name string) *GameObject {
	if name == "" {
		name = "GameObject"
	}
	return &GameObject{
		ID:    uuid.New(),
		Name:  name,
		state: StateActive,
		local: mgl32.Ident4(),
		world: mgl32.Ident4(),
	}
}

// --- Lifecycle ---

// Initialize initializes the attached components in update order, refreshes
// the world transform so pose changes made by components are visible on the
// first frame, then initializes the children. Components are initialized at
// most once per GameObject; calling Initialize again only reaches children
// that have not been initialized yet.
//
// Collaborator failures are collected and returned together. Parent/child
// links are never touched here, so a failing component leaves the tree
// fully linked.
func (g *GameObject) Initialize() error {
	var errs []error
	if !g.initialized {
		g.initialized = true
		for _, c := range slices.Clone(g.components) {
			if err := c.Initialize(); err != nil {
				errs = append(errs, fmt.Errorf("initialize %s component on %q: %w", c.Kind(), g.Name, err))
			}
		}
	}

	g.updateModelingTransformation()

	for _, child := range g.children {
		if err := child.Initialize(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Update advances the components in update order, recomputes the world
// transform and recurses into the children. Objects that are not active are
// skipped together with their whole subtree. Components added or removed
// during the loop take effect on the next call.
func (g *GameObject) Update(dt float32) {
	if g.state != StateActive {
		return
	}
	for _, c := range slices.Clone(g.components) {
		c.Update(dt)
	}

	g.updateModelingTransformation()

	for _, child := range g.children {
		child.Update(dt)
	}
}

// ProcessInput dispatches input to the components when the object is
// active, and always recurses into the children: a paused object may still
// have children (a pause-menu camera, say) that react to input.
func (g *GameObject) ProcessInput() {
	if g.state == StateActive {
		for _, c := range slices.Clone(g.components) {
			c.ProcessInput()
		}
	}
	for _, child := range g.children {
		child.ProcessInput()
	}
}

// --- Components ---

// AddComponent attaches c to this object and re-sorts the components by
// update order (equal orders keep insertion order). Registrant components
// join the scene registries once the object is linked into a scene. If this
// object has already been initialized, c is initialized immediately.
// Panics if c is nil or belongs to another GameObject.
func (g *GameObject) AddComponent(c Component) {
	if c == nil {
		panic("grove: cannot add nil component")
	}
	if g.destroyed {
		panic(fmt.Sprintf("grove: AddComponent on destroyed game object %q", g.Name))
	}
	if slices.Contains(g.components, c) {
		return
	}
	c.bind(g)
	g.components = append(g.components, c)
	sortComponents(g.components)

	if g.scene != nil {
		if r, ok := c.(SceneRegistrant); ok {
			r.OnSceneAttach(g.scene)
		}
	}
	if g.initialized {
		if err := c.Initialize(); err != nil {
			g.logger().Error("initialize component",
				zap.String("object", g.Name),
				zap.Stringer("kind", c.Kind()),
				zap.Error(err))
		}
	}
}

// RemoveComponent detaches c from this object, leaving any scene registry
// it had joined and releasing its resources. Reports whether c was attached.
func (g *GameObject) RemoveComponent(c Component) bool {
	i := slices.Index(g.components, c)
	if i < 0 {
		return false
	}
	if g.scene != nil {
		if r, ok := c.(SceneRegistrant); ok {
			r.OnSceneDetach(g.scene)
		}
	}

	last := len(g.components) - 1
	g.components[i] = g.components[last]
	g.components[last] = nil
	g.components = g.components[:last]
	sortComponents(g.components)

	if d, ok := c.(Disposer); ok {
		d.Dispose()
	}
	return true
}

// Components returns the attached components in update order. The returned
// slice MUST NOT be mutated by the caller.
func (g *GameObject) Components() []Component {
	return g.components
}

// --- Hierarchy ---

// AddChild makes child a child of this object. While the scene loop is
// running the attachment is queued and applied by the next maintenance
// pass; otherwise (scene construction) it happens immediately.
// Panics if child is nil, is this object, already has a parent, has been
// destroyed, or is an ancestor of this object.
func (g *GameObject) AddChild(child *GameObject) {
	if child == nil {
		panic("grove: cannot add nil child")
	}
	if child == g {
		panic(fmt.Sprintf("grove: game object %q cannot be its own child", g.Name))
	}
	if child.parent != nil {
		panic(fmt.Sprintf("grove: game object %q already has parent %q", child.Name, child.parent.Name))
	}
	if g.destroyed || child.destroyed {
		panic(fmt.Sprintf("grove: AddChild with destroyed game object (%q, %q)", g.Name, child.Name))
	}
	if isAncestor(child, g) {
		panic("grove: adding child would create a cycle")
	}

	child.parent = g

	if s := g.scene; s != nil && s.running {
		s.log.Debug("pending add", zap.String("object", child.Name), zap.String("parent", g.Name))
		s.pending = append(s.pending, pendingAttachment{child: child, parent: g})
		return
	}

	g.linkChild(child)
}

// RemoveAndDelete queues this object for removal. Its state is left alone:
// the object stays in the tree, and keeps updating and receiving input,
// until the next maintenance pass detaches and destroys it. Calling it again
// before that pass queues a request that resolves to a no-op.
//
// An object that belongs to no scene has no pass to wait for and is
// detached and destroyed at once.
func (g *GameObject) RemoveAndDelete() {
	if g.destroyed {
		return
	}
	if s := g.owningScene(); s != nil {
		s.removed = append(s.removed, g)
		return
	}
	if g.parent != nil {
		removeGameObject(&g.parent.children, g)
	}
	g.destroy(nil)
}

// Reparent queues child to be moved under this object. The move keeps the
// child's world pose: its local transform becomes
// inverse(newParentWorld) * oldChildWorld.
func (g *GameObject) Reparent(child *GameObject) {
	if child == nil {
		panic("grove: cannot reparent nil child")
	}
	req := reparentRequest{newParent: g, child: child}
	s := g.owningScene()
	if s == nil {
		s = child.owningScene()
	}
	if s == nil {
		applyReparent(nil, req)
		return
	}
	s.reparents = append(s.reparents, req)
}

// Children returns the child list. The returned slice MUST NOT be mutated
// by the caller.
func (g *GameObject) Children() []*GameObject {
	return g.children
}

// NumChildren returns the number of linked children.
func (g *GameObject) NumChildren() int {
	return len(g.children)
}

// ChildAt returns the child at the given index.
func (g *GameObject) ChildAt(index int) *GameObject {
	return g.children[index]
}

// Parent returns the parent, or nil for the root and detached objects.
func (g *GameObject) Parent() *GameObject {
	return g.parent
}

// Scene returns the scene this object is linked into, or nil.
func (g *GameObject) Scene() *Scene {
	return g.scene
}

// State returns the lifecycle state.
func (g *GameObject) State() State {
	return g.state
}

// SetState sets the lifecycle state. Only active objects are updated and
// rendered. Use RemoveAndDelete rather than StateDead to delete an object.
func (g *GameObject) SetState(state State) {
	g.state = state
}

// IsDestroyed reports whether the object has been removed and destroyed.
func (g *GameObject) IsDestroyed() bool {
	return g.destroyed
}

// String returns the object name.
func (g *GameObject) String() string {
	return g.Name
}

// --- Search ---

// FindGameObject returns the first object named name in the subtree rooted
// at g, searching depth-first with parents before children. Returns nil if
// none matches.
func (g *GameObject) FindGameObject(name string) *GameObject {
	if g.Name == name {
		return g
	}
	for _, child := range g.children {
		if found := child.FindGameObject(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAllGameObjects returns every object named name in the subtree rooted
// at g, in the same order FindGameObject visits them.
func (g *GameObject) FindAllGameObjects(name string) []*GameObject {
	return g.appendMatches(nil, name)
}

func (g *GameObject) appendMatches(found []*GameObject, name string) []*GameObject {
	if g.Name == name {
		found = append(found, g)
	}
	for _, child := range g.children {
		found = child.appendMatches(found, name)
	}
	return found
}

// --- Helpers ---

// linkChild appends child to g's children and, if g is in a scene, brings
// the child's subtree into it.
func (g *GameObject) linkChild(child *GameObject) {
	child.parent = g
	g.children = append(g.children, child)
	if g.scene != nil {
		if child.scene != g.scene {
			child.joinScene(g.scene)
		}
		if g.scene.debug {
			g.scene.debugCheckTreeDepth(child)
			g.scene.debugCheckChildCount(g)
		}
	}
}

// joinScene links the subtree into s and attaches registrant components.
func (g *GameObject) joinScene(s *Scene) {
	g.scene = s
	for _, c := range g.components {
		if r, ok := c.(SceneRegistrant); ok {
			r.OnSceneAttach(s)
		}
	}
	for _, child := range g.children {
		child.joinScene(s)
	}
}

// leaveScene detaches registrant components of the subtree from its scene.
func (g *GameObject) leaveScene() {
	if g.scene == nil {
		return
	}
	for _, c := range g.components {
		if r, ok := c.(SceneRegistrant); ok {
			r.OnSceneDetach(g.scene)
		}
	}
	for _, child := range g.children {
		child.leaveScene()
	}
	g.scene = nil
}

// destroy releases the subtree rooted at g: components leave their
// registries and are disposed, children are destroyed. The caller has
// already unlinked g from its parent.
func (g *GameObject) destroy(s *Scene) {
	for _, child := range g.children {
		child.destroy(s)
	}
	g.leaveScene()
	for _, c := range g.components {
		if d, ok := c.(Disposer); ok {
			d.Dispose()
		}
	}
	g.components = nil
	g.children = nil
	g.parent = nil
	g.state = StateDead
	g.destroyed = true
}

// owningScene returns the scene g is linked into, or the scene of the
// nearest linked ancestor for objects still waiting in the pending queue.
func (g *GameObject) owningScene() *Scene {
	for p := g; p != nil; p = p.parent {
		if p.scene != nil {
			return p.scene
		}
	}
	return nil
}

func (g *GameObject) logger() *zap.Logger {
	if s := g.owningScene(); s != nil {
		return s.log
	}
	return nopLogger
}

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *GameObject) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeGameObject erases target from list by swapping it with the last
// element. Reports whether it was found.
func removeGameObject(list *[]*GameObject, target *GameObject) bool {
	l := *list
	i := slices.Index(l, target)
	if i < 0 {
		return false
	}
	last := len(l) - 1
	l[i] = l[last]
	l[last] = nil
	*list = l[:last]
	return true
}
