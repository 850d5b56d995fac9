// Package ecs provides ECS adapters for arbor's gesture events.
//
// The primary adapter is [NewDonburiStore], which bridges arbor gesture
// events (drag and pinch start, update and end) into a [Donburi] world as
// typed events. Subscribe to [GestureEventType] in your ECS systems to
// receive them. Only events on nodes with a non-zero EntityID are forwarded.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
