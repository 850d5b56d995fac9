package arbor

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// OnUpdate, when set, runs before Scene.Update each frame. A non-nil
	// error stops the game loop and is returned by Run.
	OnUpdate func() error
}

// Run opens a window and drives scene with ebiten's game loop until the
// window closes or OnUpdate returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = defaultViewportWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultViewportHeight
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	return ebiten.RunGame(&game{scene: scene, cfg: cfg})
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene   *Scene
	cfg     RunConfig
	focused bool
}

func (g *game) Update() error {
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(); err != nil {
			return err
		}
	}
	focused := ebiten.IsFocused()
	if g.focused && !focused {
		g.scene.Pause()
	}
	g.focused = focused
	g.scene.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.cfg.ShowFPS && !g.scene.debug {
		ebitenutil.DebugPrint(screen, fpsText())
	}
}

// Layout keeps the camera viewport and the mouse pinch mirror in sync with
// the window size.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	g.scene.camera.Viewport = vp
	if src, ok := g.scene.touches.(*EbitenTouchSource); ok {
		src.MirrorCenter = vp.Center()
	}
	return outsideWidth, outsideHeight
}
