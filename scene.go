package arbor

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// Default screen size used when SceneConfig.Viewport is empty.
const (
	defaultViewportWidth  = 800
	defaultViewportHeight = 600
)

// SceneConfig wires a Scene's collaborators. Every field is optional.
type SceneConfig struct {
	// Registry maps marker names to prefabs.
	Registry *Registry
	// Tracking is polled once per Update for marker changes.
	Tracking TrackingSource
	// Touches is polled once per Update unless injected frames are pending.
	Touches TouchSource
	// Mask selects the layers gestures may target. Zero means
	// MaskOf(LayerInteractable).
	Mask LayerMask
	// RotationSpeed is degrees per pixel for spawned RotateOnDrag handlers.
	RotationSpeed float64
	// FadeSeconds is the spawn fade duration; negative disables fading.
	FadeSeconds  float64
	RemovePolicy RemovePolicy
	// Viewport is the initial camera viewport; Run keeps it in sync with
	// the window.
	Viewport Rect
	Logger   *slog.Logger
}

// Scene is the top-level object that owns the node tree, the AR camera,
// the marker bridge and the gesture dispatcher. The host calls Update and
// Draw once per frame from the same goroutine.
type Scene struct {
	root   *Node
	camera *Camera
	logger *slog.Logger
	debug  bool

	dispatcher *GestureDispatcher
	invoker    *CommandInvoker
	spawner    *Spawner
	bridge     *MarkerBridge
	tweens     TweenSet

	touches  TouchSource
	tracking TrackingSource
	scripted TrackingQueue

	hitBuf []*Node
	frame  uint64

	// ClearColor fills the screen before the wireframe is drawn.
	ClearColor Color

	// Automation
	injectQueue     [][]Touch
	nextInjectID    int
	testRunner      *TestRunner
	screenshotQueue []string
	// ScreenshotDir is the directory screenshots are written to.
	ScreenshotDir string
}

// NewScene creates a scene from cfg.
func NewScene(cfg SceneConfig) *Scene {
	vp := cfg.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = Rect{Width: defaultViewportWidth, Height: defaultViewportHeight}
	}
	logger := loggerOrDiscard(cfg.Logger)

	s := &Scene{
		root:          NewNode("root"),
		camera:        NewCamera(vp),
		logger:        logger,
		invoker:       &CommandInvoker{Logger: logger},
		touches:       cfg.Touches,
		tracking:      cfg.Tracking,
		nextInjectID:  syntheticTouchBase,
		ScreenshotDir: "screenshots",
	}
	s.dispatcher = NewGestureDispatcher(s, DispatcherConfig{Mask: cfg.Mask, Logger: logger})

	layer := uint8(LayerInteractable)
	if cfg.Mask != 0 {
		layer = lowestLayer(cfg.Mask)
	}
	s.spawner = NewSpawner(SpawnerConfig{
		Registry:      cfg.Registry,
		Invoker:       s.invoker,
		RotationSpeed: cfg.RotationSpeed,
		Layer:         layer,
		LayerSet:      true,
		FadeSeconds:   cfg.FadeSeconds,
		Tweens:        &s.tweens,
		Logger:        logger,
	})
	s.bridge = NewMarkerBridge(s.root, s.spawner, cfg.RemovePolicy, logger)
	return s
}

// lowestLayer returns the lowest layer set in m. m must be non-zero.
func lowestLayer(m LayerMask) uint8 {
	for l := uint8(0); l < 32; l++ {
		if m.Has(l) {
			return l
		}
	}
	return LayerInteractable
}

// Root returns the scene's root node. Marker anchors are its children.
func (s *Scene) Root() *Node { return s.root }

// Camera returns the AR camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Dispatcher returns the gesture dispatcher.
func (s *Scene) Dispatcher() *GestureDispatcher { return s.dispatcher }

// Spawner returns the content spawner.
func (s *Scene) Spawner() *Spawner { return s.spawner }

// Bridge returns the marker bridge.
func (s *Scene) Bridge() *MarkerBridge { return s.bridge }

// Invoker returns the command invoker shared by spawned handlers.
func (s *Scene) Invoker() *CommandInvoker { return s.invoker }

// Tweens returns the scene's running animations.
func (s *Scene) Tweens() *TweenSet { return &s.tweens }

// Logger returns the scene logger.
func (s *Scene) Logger() *slog.Logger { return s.logger }

// SetTouchSource replaces the touch feed.
func (s *Scene) SetTouchSource(src TouchSource) { s.touches = src }

// SetTrackingSource replaces the marker tracking feed.
func (s *Scene) SetTrackingSource(src TrackingSource) { s.tracking = src }

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) { s.dispatcher.SetEntityStore(store) }

// On registers a scene-level gesture listener. See GestureDispatcher.On.
func (s *Scene) On(event EventType, fn func(GestureEvent)) CallbackHandle {
	return s.dispatcher.On(event, fn)
}

// Frame returns the number of completed Update calls.
func (s *Scene) Frame() uint64 { return s.frame }

// Update runs one frame: scripted steps, tracking changes, animations,
// world transforms, then gesture dispatch.
func (s *Scene) Update() {
	dt := float32(1.0 / float64(ebiten.TPS()))
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}

	if s.tracking != nil {
		s.applyTracking(s.tracking.Poll())
	}
	s.applyTracking(s.scripted.Poll())

	s.tweens.Update(dt)

	// Hit testing needs this frame's world transforms.
	updateWorldTransform(s.root, mgl64.Ident4(), 1.0, false)

	s.dispatcher.Advance(s.frameTouches())
	s.frame++

	if s.debug {
		s.debugLog(debugStats{
			updateTime:  time.Since(t0),
			anchorCount: s.bridge.Len(),
			tweenCount:  s.tweens.Len(),
			activeDrags: s.dispatcher.ActiveDrags(),
			pinchActive: s.dispatcher.PinchActive(),
		})
	}
}

func (s *Scene) applyTracking(b TrackingBatch) {
	if b.Empty() {
		return
	}
	s.bridge.Apply(b)
}

// frameTouches returns the next injected frame if one is queued, otherwise
// the live touches. Injected input suppresses live input for that frame.
func (s *Scene) frameTouches() []Touch {
	if frame, ok := s.popInjected(); ok {
		return frame
	}
	if s.touches == nil {
		return nil
	}
	return s.touches.Touches()
}

// Pause ends every gesture in progress. Hosts call it when the app loses
// focus so handlers see their end callbacks.
func (s *Scene) Pause() {
	s.dispatcher.Reset()
	if c, ok := s.touches.(interface{ Cancel() []Touch }); ok {
		c.Cancel()
	}
	s.injectQueue = s.injectQueue[:0]
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if enabled {
		debugLogger = s.logger
	}
}

// DebugMode reports whether debug mode is on.
func (s *Scene) DebugMode() bool { return s.debug }

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
