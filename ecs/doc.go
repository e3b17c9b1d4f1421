// Package ecs provides ECS adapters for grove.
//
// [NewDonburiSink] bridges grove scene events (objects attached, removed and
// reparented by the maintenance pass) into a [Donburi] world as typed
// events, and mirrors every live GameObject as an entity carrying a
// [SceneObject] component. Subscribe to [SceneEventType] in your ECS systems
// to receive the events.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
