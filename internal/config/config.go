package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure from Load and Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all tunable parameters of the viewer and the formation.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Formation FormationConfig `yaml:"formation"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Session   SessionConfig   `yaml:"session"`
	Trace     TraceConfig     `yaml:"trace"`
}

// ScreenConfig is the logical playfield. Rendering scales it to the terminal.
type ScreenConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	Ground         float64 `yaml:"ground"`          // y of the ground line
	InvasionLine   float64 `yaml:"invasion_line"`   // wave is lost once the bottom row reaches this y
	TicksPerSecond int     `yaml:"ticks_per_second"`
	FramesPerSec   int     `yaml:"frames_per_second"`
	MaxTermWidth   int     `yaml:"max_term_width"`  // render area is clamped and centered beyond this
	MaxTermHeight  int     `yaml:"max_term_height"`
}

// FormationConfig describes the enemy grid and its movement rules.
type FormationConfig struct {
	Rows   int     `yaml:"rows"`
	Cols   int     `yaml:"cols"`
	StartX float64 `yaml:"start_x"`
	StartY float64 `yaml:"start_y"`
	StepX  float64 `yaml:"step_x"` // distance between column origins
	StepY  float64 `yaml:"step_y"` // distance between row origins

	EnemyWidth  float64 `yaml:"enemy_width"`
	EnemyHeight float64 `yaml:"enemy_height"`

	MinX   float64 `yaml:"min_x"`
	MaxX   float64 `yaml:"max_x"`
	ShiftX float64 `yaml:"shift_x"` // horizontal step of one row move
	DropY  float64 `yaml:"drop_y"`  // vertical step on reversal

	BaseMoveTicks     int     `yaml:"base_move_ticks"`
	BaseFireTicks     int     `yaml:"base_fire_ticks"`
	MoveTicksPerEnemy float64 `yaml:"move_ticks_per_enemy"`
	FireTicksPerEnemy float64 `yaml:"fire_ticks_per_enemy"`
}

// ViewerConfig tunes the interactive driver.
type ViewerConfig struct {
	CrosshairSpeed float64 `yaml:"crosshair_speed"` // logical units per tick
	AutoKillTicks  int     `yaml:"auto_kill_ticks"` // 0 disables
	ExplosionSize  int     `yaml:"explosion_size"`  // particles per removed enemy
	MarkerTicks    int     `yaml:"marker_ticks"`    // how long a bomber stays highlighted
}

// SessionConfig holds per-connection limits.
type SessionConfig struct {
	InactivityWarn       float64 `yaml:"inactivity_warn"`       // seconds
	InactivityDisconnect float64 `yaml:"inactivity_disconnect"` // seconds
}

// TraceConfig controls the formation move trace.
type TraceConfig struct {
	Path string `yaml:"path"` // empty disables tracing
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the embedded defaults and overlays the file at path, if any.
// Fields missing from the file keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parameters the formation and the loop rely on.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.TicksPerSecond <= 0 || c.Screen.FramesPerSec <= 0 {
		return fmt.Errorf("%w: ticks_per_second and frames_per_second must be positive", ErrInvalid)
	}
	return c.Formation.Validate()
}

// Validate checks the formation geometry.
func (f FormationConfig) Validate() error {
	switch {
	case f.Rows < 0 || f.Cols < 0:
		return fmt.Errorf("%w: formation %dx%d", ErrInvalid, f.Rows, f.Cols)
	case f.EnemyWidth <= 0 || f.EnemyHeight <= 0:
		return fmt.Errorf("%w: enemy size %vx%v", ErrInvalid, f.EnemyWidth, f.EnemyHeight)
	case f.MinX > f.MaxX:
		return fmt.Errorf("%w: min_x %v above max_x %v", ErrInvalid, f.MinX, f.MaxX)
	case f.ShiftX < 0 || f.DropY < 0:
		return fmt.Errorf("%w: shift_x and drop_y must not be negative", ErrInvalid)
	case f.MoveTicksPerEnemy < 0 || f.FireTicksPerEnemy < 0:
		return fmt.Errorf("%w: tick factors must not be negative", ErrInvalid)
	}
	return nil
}

// WriteYAML saves the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
