// Package arbor anchors 3D content to tracked image markers and lets users
// manipulate it with touch gestures, on top of [Ebitengine].
//
// The host (a camera/tracking service, or a synthetic source in tests and on
// desktop) delivers a per-frame [TrackingBatch] of added, updated, and removed
// markers. A [MarkerBridge] creates an anchor node per marker and asks the
// [Spawner] to instantiate the [Prefab] registered for the marker name.
// Spawned content receives the two stock gesture handlers, [RotateOnDrag] and
// [ScaleOnPinch].
//
// Each frame the [GestureDispatcher] classifies the current touches into drag
// and pinch sessions, ray-casts from the [Camera] through the touch point to
// find the target, and forwards callbacks to every [GestureHandler] on it.
// Handlers mutate transforms through [Command] values run by an [Invoker].
//
// # Quick start
//
//	reg, err := arbor.LoadRegistryFile("markers.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	queue := &arbor.TrackingQueue{}
//	scene := arbor.NewScene(arbor.SceneConfig{
//		Registry: reg,
//		Tracking: queue,
//		Touches:  arbor.NewEbitenTouchSource(true),
//	})
//	queue.Push(arbor.TrackingBatch{Added: []arbor.TrackedMarker{{
//		Name: "astronaut", Pose: arbor.PoseAt(0, 0, -2), State: arbor.TrackingTracking,
//	}}})
//	log.Fatal(arbor.Run(scene, arbor.RunConfig{Title: "markers", Width: 640, Height: 480}))
//
// For full control, implement [ebiten.Game] yourself and call [Scene.Update]
// and [Scene.Draw], or drive [GestureDispatcher.Advance] directly with your
// own [Raycaster] and touch samples.
//
// # Gesture sessions
//
// A drag starts when exactly one touch begins over a node on the
// interactable layer that carries at least one handler. The session stays
// locked to that node until the touch ends. A pinch starts when exactly two
// touches hit the same node; [GestureHandler.OnPinch] receives the ratio of
// the current finger distance to the distance at pinch start.
//
// ECS integration is available through the donburi adapter in arbor/ecs.
//
// [Ebitengine]: https://ebitengine.org
package arbor
