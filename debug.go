package arbor

import (
	"fmt"
	"log/slog"
	"time"
)

// debugStats holds per-frame timing and scene metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime  time.Duration
	anchorCount int
	tweenCount  int
	activeDrags int
	pinchActive bool
}

// drawStats holds per-frame draw metrics.
type drawStats struct {
	drawTime  time.Duration
	wireNodes int
	lineCount int
}

// debugLog logs update stats at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.logger.Debug("frame",
		"frame", s.frame,
		"update", stats.updateTime,
		"anchors", stats.anchorCount,
		"tweens", stats.tweenCount,
		"drags", stats.activeDrags,
		"pinch", stats.pinchActive,
	)
}

// debugLogDraw logs draw stats at debug level.
func (s *Scene) debugLogDraw(stats drawStats) {
	if !s.debug {
		return
	}
	s.logger.Debug("draw",
		"frame", s.frame,
		"draw", stats.drawTime,
		"nodes", stats.wireNodes,
		"lines", stats.lineCount,
	)
}

// debugLogger receives tree warnings from node operations in debug mode.
// It follows the logger of the scene that last called SetDebugMode.
var debugLogger *slog.Logger = discardLogger

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("arbor debug: %s on disposed node %q", op, n.Name))
	}
}

// debugMaxTreeDepth is the depth above which debugCheckTreeDepth warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds threshold", "depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugMaxChildCount is the child count above which debugCheckChildCount warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("child count exceeds threshold", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
