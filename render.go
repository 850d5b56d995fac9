package arbor

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const wireWidth = 1.5

// boxEdges indexes the corner pairs of a box, corners numbered by the bit
// pattern (x, y, z) of min/max.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along z
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along x
}

// Draw renders the collider wireframe of every visible node and, in debug
// mode, a status overlay.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA(1))
	}

	updateWorldTransform(s.root, mgl64.Ident4(), 1.0, false)

	var stats drawStats
	s.drawNode(screen, s.root, &stats)

	if s.debug {
		ebitenutil.DebugPrint(screen, s.overlayText())
		stats.drawTime = time.Since(t0)
		s.debugLogDraw(stats)
	}

	s.flushScreenshots(screen)
}

func (s *Scene) drawNode(screen *ebiten.Image, n *Node, stats *drawStats) {
	if !n.Visible || n.disposed {
		return
	}
	if n.Collider != nil && n.worldAlpha > 0 {
		clr := n.Color.toRGBA(n.worldAlpha)
		switch c := n.Collider.(type) {
		case BoxCollider:
			stats.lineCount += s.drawBox(screen, n, c, clr)
		case SphereCollider:
			stats.lineCount += s.drawSphere(screen, n, c, clr)
		}
		stats.wireNodes++
	}
	for _, child := range n.children {
		s.drawNode(screen, child, stats)
	}
}

func (s *Scene) drawBox(screen *ebiten.Image, n *Node, b BoxCollider, clr color.RGBA) int {
	lo, hi := b.Min(), b.Max()
	var pts [8]Vec2
	var ok [8]bool
	for i := range pts {
		corner := lo
		if i&4 != 0 {
			corner[0] = hi[0]
		}
		if i&2 != 0 {
			corner[1] = hi[1]
		}
		if i&1 != 0 {
			corner[2] = hi[2]
		}
		pts[i], ok[i] = s.camera.WorldToScreen(n.LocalToWorld(corner))
	}
	lines := 0
	for _, e := range boxEdges {
		if !ok[e[0]] || !ok[e[1]] {
			continue
		}
		a, c := pts[e[0]], pts[e[1]]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(c.X), float32(c.Y), wireWidth, clr, true)
		lines++
	}
	return lines
}

func (s *Scene) drawSphere(screen *ebiten.Image, n *Node, sp SphereCollider, clr color.RGBA) int {
	center := n.LocalToWorld(sp.Center)
	c, ok := s.camera.WorldToScreen(center)
	if !ok {
		return 0
	}
	// Project a point on the silhouette to get the screen radius.
	edge, ok := s.camera.WorldToScreen(center.Add(s.camera.Right().Mul(sp.Radius * maxScale(n.worldMatrix))))
	if !ok {
		return 0
	}
	r := Distance(c, edge)
	if r < 0.5 {
		return 0
	}
	vector.StrokeCircle(screen, float32(c.X), float32(c.Y), float32(r), wireWidth, clr, true)
	return 1
}

// maxScale returns the largest axis scale of m.
func maxScale(m mgl64.Mat4) float64 {
	return math.Max(m.Col(0).Vec3().Len(), math.Max(m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()))
}

func (s *Scene) overlayText() string {
	return fmt.Sprintf("%s\nanchors: %d  drags: %d  pinch: %v\nframe: %d",
		fpsText(), s.bridge.Len(), s.dispatcher.ActiveDrags(), s.dispatcher.PinchActive(), s.frame)
}
