package arbor

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// Screenshot queues a labeled capture of the current frame. At the end of
// Draw the frame is written to ScreenshotDir as a PNG, together with a YAML
// file of the same name describing the AR session at that frame.
func (s *Scene) Screenshot(label string) {
	s.screenshotQueue = append(s.screenshotQueue, label)
}

// SessionSnapshot is the session state written beside every screenshot.
type SessionSnapshot struct {
	Label       string           `yaml:"label"`
	Frame       uint64           `yaml:"frame"`
	Time        time.Time        `yaml:"time"`
	Policy      string           `yaml:"policy"`
	ActiveDrags int              `yaml:"active_drags"`
	PinchActive bool             `yaml:"pinch_active"`
	Markers     []MarkerSnapshot `yaml:"markers"`
}

// MarkerSnapshot records one anchor and the content spawned on it.
type MarkerSnapshot struct {
	Name     string     `yaml:"name"`
	Visible  bool       `yaml:"visible"`
	Position [3]float64 `yaml:"position"`
	Content  string     `yaml:"content"`
	Scale    [3]float64 `yaml:"scale"`
	Alpha    float64    `yaml:"alpha"`
}

// Snapshot describes the current session: live anchors in marker order,
// their content and the gesture state.
func (s *Scene) Snapshot(label string) SessionSnapshot {
	snap := SessionSnapshot{
		Label:       label,
		Frame:       s.frame,
		Time:        time.Now(),
		Policy:      s.bridge.Policy().String(),
		ActiveDrags: s.dispatcher.ActiveDrags(),
		PinchActive: s.dispatcher.PinchActive(),
	}
	for _, name := range s.bridge.Markers() {
		anchor, _ := s.bridge.Anchor(name)
		m := MarkerSnapshot{
			Name:     name,
			Visible:  anchor.Visible,
			Position: anchor.Position,
		}
		if content, ok := s.spawner.Spawned(name); ok {
			m.Content = content.Name
			m.Scale = content.Scale
			m.Alpha = content.Alpha
		}
		snap.Markers = append(snap.Markers, m)
	}
	return snap
}

// flushScreenshots writes every queued capture. The file stem is
// <time>_f<frame>_<label>; a failed directory drops the whole queue.
func (s *Scene) flushScreenshots(screen *ebiten.Image) {
	if len(s.screenshotQueue) == 0 {
		return
	}
	defer func() { s.screenshotQueue = s.screenshotQueue[:0] }()

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		s.logger.Error("screenshot: create directory", "dir", s.ScreenshotDir, "err", err)
		return
	}

	img := straightAlpha(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range s.screenshotQueue {
		stem := filepath.Join(s.ScreenshotDir, fmt.Sprintf("%s_f%d_%s", stamp, s.frame, sanitizeLabel(label)))
		if err := writePNG(stem+".png", img); err != nil {
			s.logger.Error("screenshot", "label", label, "err", err)
			continue
		}
		if err := writeSnapshot(stem+".yaml", s.Snapshot(label)); err != nil {
			s.logger.Error("screenshot: session state", "label", label, "err", err)
		}
		s.logger.Info("screenshot saved", "path", stem+".png", "markers", s.bridge.Len())
	}
}

// straightAlpha reads the screen back and un-premultiplies its pixels.
func straightAlpha(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	screen.ReadPixels(img.Pix)
	for i := 0; i < len(img.Pix); i += 4 {
		a := int(img.Pix[i+3])
		if a == 0 || a == 255 {
			continue
		}
		for c := i; c < i+3; c++ {
			img.Pix[c] = uint8(min(int(img.Pix[c])*255/a, 255))
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func writeSnapshot(path string, snap SessionSnapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// sanitizeLabel keeps letters, digits, '-' and '.'; anything else becomes
// '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
