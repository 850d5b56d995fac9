package arbor

import (
	"log/slog"
)

// DefaultFadeSeconds is the spawn fade-in duration used when none is configured.
const DefaultFadeSeconds = 0.25

// SpawnerConfig configures a Spawner.
type SpawnerConfig struct {
	Registry *Registry
	// Invoker runs the transform commands of the attached gesture handlers.
	// Nil executes commands directly.
	Invoker Invoker
	// RotationSpeed is degrees per pixel for RotateOnDrag. Zero means
	// DefaultRotationSpeed.
	RotationSpeed float64
	// Layer is the layer spawned content is placed on. Zero means
	// LayerInteractable unless LayerSet is true.
	Layer    uint8
	LayerSet bool
	// FadeSeconds is the spawn fade-in duration. Negative disables fading,
	// zero means DefaultFadeSeconds.
	FadeSeconds float64
	// Tweens receives fade-in animations. Nil disables fading.
	Tweens *TweenSet
	Logger *slog.Logger
}

// Spawner instantiates registered prefabs for recognized markers and wires
// them for gestures.
type Spawner struct {
	registry *Registry
	invoker  Invoker
	speed    float64
	layer    uint8
	fade     float64
	tweens   *TweenSet
	logger   *slog.Logger

	spawned       map[string]*Node
	missingLogged bool
}

// NewSpawner creates a spawner. A nil Registry is allowed; Create then
// fails until SetRegistry is called.
func NewSpawner(cfg SpawnerConfig) *Spawner {
	sp := &Spawner{
		registry: cfg.Registry,
		invoker:  cfg.Invoker,
		speed:    cfg.RotationSpeed,
		layer:    cfg.Layer,
		fade:     cfg.FadeSeconds,
		tweens:   cfg.Tweens,
		logger:   loggerOrDiscard(cfg.Logger),
		spawned:  make(map[string]*Node),
	}
	if sp.speed == 0 {
		sp.speed = DefaultRotationSpeed
	}
	if sp.layer == 0 && !cfg.LayerSet {
		sp.layer = LayerInteractable
	}
	if sp.fade == 0 {
		sp.fade = DefaultFadeSeconds
	}
	return sp
}

// SetRegistry attaches or replaces the marker registry.
func (sp *Spawner) SetRegistry(r *Registry) {
	sp.registry = r
	sp.missingLogged = false
}

// Registry returns the attached registry, or nil.
func (sp *Spawner) Registry() *Registry {
	return sp.registry
}

// Create instantiates the prefab registered for marker as a child of anchor
// and returns it. It returns nil, after logging, when no registry is
// attached or the marker is unknown; nothing is instantiated in that case.
func (sp *Spawner) Create(marker string, anchor *Node) *Node {
	if sp.registry == nil {
		if !sp.missingLogged {
			sp.logger.Error("spawner has no registry attached", "marker", marker)
			sp.missingLogged = true
		}
		return nil
	}
	prefab, ok := sp.registry.Lookup(marker)
	if !ok {
		sp.logger.Warn("no prefab registered for marker", "marker", marker)
		return nil
	}
	content := prefab.Instantiate()
	if content == nil {
		sp.logger.Warn("prefab produced no content", "marker", marker)
		return nil
	}

	content.Layer = sp.layer
	content.Interactable = true
	EnsureGestureHandler(content, func(n *Node) *ScaleOnPinch {
		return NewScaleOnPinch(n, sp.invoker)
	})
	EnsureGestureHandler(content, func(n *Node) *RotateOnDrag {
		h := NewRotateOnDrag(n, sp.invoker)
		h.Speed = sp.speed
		return h
	})
	if anchor != nil {
		anchor.AddChild(content)
	}
	sp.FadeIn(content)

	if prev := sp.spawned[marker]; prev != nil && prev != content && !prev.IsDisposed() {
		sp.logger.Debug("replacing spawned content", "marker", marker, "node", prev.Name)
	}
	sp.spawned[marker] = content
	sp.logger.Info("spawned content", "marker", marker, "node", content.Name)
	return content
}

// FadeIn starts the spawn fade on n when fading is enabled.
func (sp *Spawner) FadeIn(n *Node) {
	if sp.tweens == nil || sp.fade < 0 || n == nil {
		return
	}
	sp.tweens.FadeIn(n, sp.fade)
}

// Spawned returns the content created for marker, if it is still alive.
func (sp *Spawner) Spawned(marker string) (*Node, bool) {
	n, ok := sp.spawned[marker]
	if !ok || n.IsDisposed() {
		return nil, false
	}
	return n, true
}

// Forget drops the record of content spawned for marker.
func (sp *Spawner) Forget(marker string) {
	delete(sp.spawned, marker)
}
