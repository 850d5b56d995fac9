package arbor

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// fpsText formats the current FPS and TPS for the on-screen counter.
func fpsText() string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}
