// Package grove is a component-based 3D scene graph for [Ebitengine].
//
// Grove provides the GameObject tree, hierarchical transforms, ordered
// components, deferred structural mutation, camera and mesh registries, and
// a game loop that drives them.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := grove.NewScene()
//	// ... add objects ...
//	grove.Run(scene, grove.DefaultConfig())
//
// For full control, call [Scene.Start] once and [Scene.Frame] every tick,
// or wrap the scene with [NewGame] and hand it to ebiten yourself.
//
// # Scene graph
//
// Every entity is a [GameObject]. Objects form a tree rooted at
// [Scene.Root]. A child's world transform is its parent's world transform
// times its own local transform.
//
// Behavior lives in components attached with [GameObject.AddComponent].
// Components of one object run in ascending update order; equal orders keep
// insertion order.
//
//	box := grove.NewGameObject("box")
//	box.AddComponent(grove.NewBoxMesh(grove.NewMaterial(), 10, 10, 10))
//	box.AddComponent(grove.NewArrowRotate(mgl32.DegToRad(25), grove.DefaultUpdateOrder))
//	box.SetPosition(mgl32.Vec3{0, 0, -40}, grove.World)
//	scene.AddChild(box)
//
// # Frames and deferred mutation
//
// [Scene.Frame] runs input for the whole tree, then update for the whole
// tree, then the maintenance pass. While the scene is running, AddChild,
// [GameObject.RemoveAndDelete] and [GameObject.Reparent] only queue the
// change; the maintenance pass applies the queues in a fixed order
// (attach, remove, reparent) so traversals never see a child list change
// under them. Reparenting keeps the object's world pose.
//
// Paused objects skip Update together with their subtree but still pass
// ProcessInput down to their children.
//
// # Scene files
//
// Scenes can be described in YAML and built with [LoadSceneFile] and
// [BuildScene]. [SceneBuilder.Register] adds component types.
//
// Logging goes through [zap]; scripted components run [gopher-lua]; tweens
// use [gween]; scene events can be bridged into a [Donburi] world with the
// grove/ecs package.
//
// [Ebitengine]: https://ebitengine.org
// [zap]: https://github.com/uber-go/zap
// [gopher-lua]: https://github.com/yuin/gopher-lua
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package grove
