package ecs

import (
	"github.com/google/uuid"
	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for grove scene events.
var SceneEventType = events.NewEventType[grove.SceneEvent]()

// SceneObjectData mirrors the identity and parent link of a GameObject.
type SceneObjectData struct {
	ID       uuid.UUID
	Name     string
	ParentID uuid.UUID
}

// SceneObject is the component carried by mirror entities.
var SceneObject = donburi.NewComponentType[SceneObjectData]()

// DonburiSink publishes scene events into a Donburi world and keeps one
// entity per attached GameObject.
type DonburiSink struct {
	world    donburi.World
	entities map[uuid.UUID]donburi.Entity
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to SceneEventType and can be consumed with events.Subscribe and
// ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world, entities: make(map[uuid.UUID]donburi.Entity)}
}

// EmitSceneEvent implements grove.EventSink.
func (s *DonburiSink) EmitSceneEvent(event grove.SceneEvent) {
	switch event.Type {
	case grove.EventAttached:
		e := s.world.Create(SceneObject)
		SceneObject.SetValue(s.world.Entry(e), SceneObjectData{
			ID:       event.ObjectID,
			Name:     event.Name,
			ParentID: event.ParentID,
		})
		s.entities[event.ObjectID] = e
	case grove.EventReparented:
		if entry := s.entry(event.ObjectID); entry != nil {
			SceneObject.Get(entry).ParentID = event.ParentID
		}
	case grove.EventRemoved:
		s.removeSubtree(event.ObjectID)
	}
	SceneEventType.Publish(s.world, event)
}

// Track mirrors every object in the subtree rooted at g that is not yet
// mirrored. Objects linked before the scene started never pass through the
// maintenance pass, so call Track on the root once after building a scene.
func (s *DonburiSink) Track(g *grove.GameObject) {
	if _, ok := s.entities[g.ID]; !ok {
		data := SceneObjectData{ID: g.ID, Name: g.Name}
		if p := g.Parent(); p != nil {
			data.ParentID = p.ID
		}
		e := s.world.Create(SceneObject)
		SceneObject.SetValue(s.world.Entry(e), data)
		s.entities[g.ID] = e
	}
	for _, child := range g.Children() {
		s.Track(child)
	}
}

// Entity returns the mirror entity of the GameObject with the given ID.
func (s *DonburiSink) Entity(id uuid.UUID) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Len returns the number of mirrored objects.
func (s *DonburiSink) Len() int {
	return len(s.entities)
}

// removeSubtree drops the mirror of id and of every object mirrored below it;
// the scene destroys a removed object's whole subtree but reports only its root.
func (s *DonburiSink) removeSubtree(id uuid.UUID) {
	e, ok := s.entities[id]
	if !ok {
		return
	}
	delete(s.entities, id)
	if s.world.Valid(e) {
		s.world.Remove(e)
	}
	for childID := range s.entities {
		if entry := s.entry(childID); entry != nil && SceneObject.Get(entry).ParentID == id {
			s.removeSubtree(childID)
		}
	}
}

func (s *DonburiSink) entry(id uuid.UUID) *donburi.Entry {
	e, ok := s.entities[id]
	if !ok || !s.world.Valid(e) {
		return nil
	}
	return s.world.Entry(e)
}
