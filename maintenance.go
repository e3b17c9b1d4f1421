package grove

import (
	"slices"

	"go.uber.org/zap"
)

// pendingAttachment is a child queued for linking under parent.
type pendingAttachment struct {
	child  *GameObject
	parent *GameObject
}

// reparentRequest moves child under newParent.
type reparentRequest struct {
	newParent *GameObject
	child     *GameObject
}

// Maintain runs the scene-graph maintenance pass: pending attachments are
// linked, dead objects are removed, then reparenting is applied. It runs
// once per frame after all updates, even when every queue is empty.
//
// All three queues are taken before the first step runs, so requests made
// from inside the pass (a component adding a child or removing itself
// during its Initialize, say) wait for the next pass.
func (s *Scene) Maintain() {
	pending, removed, reparents := s.pending, s.removed, s.reparents
	s.pending, s.removed, s.reparents = nil, nil, nil

	s.addPendingGameObjects(pending)
	s.removeDeletedGameObjects(removed)
	s.reparentGameObjects(reparents)
}

// PendingCount returns the number of queued attachments, removals and
// reparent requests.
func (s *Scene) PendingCount() (attach, remove, reparent int) {
	return len(s.pending), len(s.removed), len(s.reparents)
}

func (s *Scene) addPendingGameObjects(pending []pendingAttachment) {
	for _, p := range pending {
		child, parent := p.child, p.parent
		if child.destroyed || parent.destroyed || child.parent != parent {
			continue
		}
		s.log.Debug("delayed addition of pending object",
			zap.String("object", child.Name), zap.String("parent", parent.Name))

		parent.linkChild(child)
		s.emit(EventAttached, child, parent)
		s.emitAttachedSubtree(child)

		if err := child.Initialize(); err != nil {
			s.log.Error("initialize pending object", zap.String("object", child.Name), zap.Error(err))
		}
		// One zero-length update gives the object a valid world transform
		// before it is first rendered.
		child.Update(0)
	}
}

// emitAttachedSubtree reports the descendants that were already linked
// under g before g itself was attached.
func (s *Scene) emitAttachedSubtree(g *GameObject) {
	if s.sink == nil {
		return
	}
	for _, child := range g.children {
		s.emit(EventAttached, child, g)
		s.emitAttachedSubtree(child)
	}
}

func (s *Scene) removeDeletedGameObjects(removed []*GameObject) {
	for _, g := range removed {
		parent := g.parent
		found := parent != nil && removeGameObject(&parent.children, g)
		if !found {
			found = s.removePending(g)
		}
		if !found {
			s.log.Debug("removal target not in scene graph", zap.String("object", g.Name))
			continue
		}
		s.log.Debug("found and removing", zap.String("object", g.Name))
		s.emit(EventRemoved, g, parent)
		g.destroy(s)
	}
}

func (s *Scene) removePending(g *GameObject) bool {
	i := slices.IndexFunc(s.pending, func(p pendingAttachment) bool { return p.child == g })
	if i < 0 {
		return false
	}
	last := len(s.pending) - 1
	s.pending[i] = s.pending[last]
	s.pending[last] = pendingAttachment{}
	s.pending = s.pending[:last]
	return true
}

func (s *Scene) reparentGameObjects(reparents []reparentRequest) {
	for _, r := range reparents {
		applyReparent(s, r)
	}
}

// applyReparent moves r.child under r.newParent keeping its world pose.
// Requests naming destroyed objects, the current parent, or a descendant of
// the child as the new parent are dropped. s may be nil for objects outside
// any scene.
func applyReparent(s *Scene, r reparentRequest) {
	child, newParent := r.child, r.newParent
	log := nopLogger
	if s != nil {
		log = s.log
	}
	if child.destroyed || newParent.destroyed {
		log.Debug("reparent of destroyed object ignored", zap.String("object", child.Name))
		return
	}
	if child.parent == newParent {
		return
	}
	if isAncestor(child, newParent) {
		log.Warn("reparent would create a cycle",
			zap.String("object", child.Name), zap.String("parent", newParent.Name))
		return
	}
	log.Debug("reparenting game object",
		zap.String("object", child.Name), zap.String("parent", newParent.Name))

	oldWorld := child.freshWorld()
	newParentWorld := newParent.freshWorld()
	child.local = invertOrIdentity(newParentWorld).Mul4(oldWorld)

	if old := child.parent; old != nil {
		if !removeGameObject(&old.children, child) && s != nil {
			s.removePending(child)
		}
	}
	child.parent = nil

	wasInitialized := child.initialized
	if child.scene != nil && child.scene != newParent.scene {
		child.leaveScene()
	}
	newParent.linkChild(child)
	refreshWorld(child)

	if s != nil {
		s.emit(EventReparented, child, newParent)
	}
	if child.scene != nil && !wasInitialized {
		if err := child.Initialize(); err != nil {
			log.Error("initialize reparented object", zap.String("object", child.Name), zap.Error(err))
		}
		child.Update(0)
	}
}
