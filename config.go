package arbor

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-driven settings of an arbor host.
type Config struct {
	InteractableLayer uint8        `env:"ARBOR_INTERACTABLE_LAYER" envDefault:"8"`
	RotationSpeed     float64      `env:"ARBOR_ROTATION_SPEED" envDefault:"0.2"`
	RemovePolicy      RemovePolicy `env:"ARBOR_REMOVE_POLICY" envDefault:"deactivate"`
	FadeSeconds       float64      `env:"ARBOR_FADE_SECONDS" envDefault:"0.25"`
	RegistryPath      string       `env:"ARBOR_REGISTRY"`
	EmulateTouch      bool         `env:"ARBOR_EMULATE_TOUCH" envDefault:"true"`
	Debug             bool         `env:"ARBOR_DEBUG"`
	LogLevel          string       `env:"ARBOR_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads Config from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.InteractableLayer > 31 {
		errs = append(errs, fmt.Errorf("interactable layer %d out of range 0-31", c.InteractableLayer))
	}
	if c.RotationSpeed < 0 {
		errs = append(errs, fmt.Errorf("rotation speed %v must not be negative", c.RotationSpeed))
	}
	if c.FadeSeconds < 0 {
		errs = append(errs, fmt.Errorf("fade seconds %v must not be negative", c.FadeSeconds))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Logger builds the text logger described by LogLevel, or debug level when
// Debug is set.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level := c.LogLevel
	if c.Debug {
		level = "debug"
	}
	return NewLogger(w, level)
}

// SceneConfig maps the settings onto a SceneConfig. Registry and Tracking
// are left for the caller; LoadRegistryFile(c.RegistryPath) loads the
// registry when a path is set.
func (c Config) SceneConfig(logger *slog.Logger) SceneConfig {
	fade := c.FadeSeconds
	if fade == 0 {
		fade = -1
	}
	return SceneConfig{
		Mask:          MaskOf(c.InteractableLayer),
		RotationSpeed: c.RotationSpeed,
		FadeSeconds:   fade,
		RemovePolicy:  c.RemovePolicy,
		Touches:       NewEbitenTouchSource(c.EmulateTouch),
		Logger:        logger,
	}
}
