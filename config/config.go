// Package config holds the cascade configuration and its loaders.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/cascade/animation"
)

// Config is the effective configuration of the accordion example.
type Config struct {
	// Margin is the gap between sections, in rows.
	Margin float64 `toml:"margin" yaml:"margin"`
	// HeaderHeight is the default header height, in rows.
	HeaderHeight     float64   `toml:"header_height" yaml:"header_height"`
	ExpandDuration   Duration  `toml:"expand_duration" yaml:"expand_duration"`
	CollapseDuration Duration  `toml:"collapse_duration" yaml:"collapse_duration"`
	Curve            string    `toml:"curve" yaml:"curve"`
	TickRate         int       `toml:"tick_rate" yaml:"tick_rate"`
	Seed             uint64    `toml:"seed" yaml:"seed"`
	LogFile          string    `toml:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogLevel         string    `toml:"log_level" yaml:"log_level"`
	Sections         []Section `toml:"sections" yaml:"sections"`
}

// Section configures one accordion section.
type Section struct {
	Title string `toml:"title" yaml:"title"`
	// Body is Markdown. An empty body gets random blocks.
	Body string `toml:"body,omitempty" yaml:"body,omitempty"`
	// HeaderHeight overrides Config.HeaderHeight when positive.
	HeaderHeight float64 `toml:"header_height,omitempty" yaml:"header_height,omitempty"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Weekdays are the default section titles.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Default returns the classic measure example: five weekday sections with
// random bodies, margin 1, a 500ms expand and 100ms collapse on the ease curve.
func Default() Config {
	sections := make([]Section, len(Weekdays))
	for i, day := range Weekdays {
		sections[i] = Section{Title: day}
	}
	return Config{
		Margin:           1,
		HeaderHeight:     2,
		ExpandDuration:   Duration{500 * time.Millisecond},
		CollapseDuration: Duration{100 * time.Millisecond},
		Curve:            "ease",
		TickRate:         60,
		Seed:             1,
		LogLevel:         "info",
		Sections:         sections,
	}
}

// Load reads path on top of Default. The format follows the extension:
// .toml, or .yaml / .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Decode(data, filepath.Ext(path), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional returns Default when path is empty and Load otherwise. A
// named file that does not exist is an error wrapping os.ErrNotExist.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Decode unmarshals data in the format named by ext into cfg.
func Decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case "yaml", "yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// ErrUnknownFormat is returned for config files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("unknown config format")

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Margin < 0 || math.IsNaN(c.Margin) || math.IsInf(c.Margin, 0) {
		return fmt.Errorf("margin must be a non-negative number (got %v)", c.Margin)
	}
	if c.HeaderHeight < 1 || math.IsInf(c.HeaderHeight, 0) {
		return fmt.Errorf("header_height must be at least 1 (got %v)", c.HeaderHeight)
	}
	if c.ExpandDuration.Duration < 0 {
		return fmt.Errorf("expand_duration must not be negative (got %s)", c.ExpandDuration)
	}
	if c.CollapseDuration.Duration < 0 {
		return fmt.Errorf("collapse_duration must not be negative (got %s)", c.CollapseDuration)
	}
	if _, ok := animation.Named(c.Curve); !ok {
		return fmt.Errorf("unknown curve %q", c.Curve)
	}
	if c.TickRate < 1 || c.TickRate > 240 {
		return fmt.Errorf("tick_rate must be between 1 and 240 (got %d)", c.TickRate)
	}
	if len(c.Sections) == 0 {
		return errors.New("at least one section is required")
	}
	for i, s := range c.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("sections[%d]: title is required", i)
		}
		if s.HeaderHeight < 0 {
			return fmt.Errorf("sections[%d]: header_height must not be negative", i)
		}
	}
	return nil
}

// CurveFunc returns the configured easing curve, Ease when unknown.
func (c Config) CurveFunc() animation.Curve {
	if curve, ok := animation.Named(c.Curve); ok {
		return curve
	}
	return animation.Ease
}

// TickInterval is the frame period for TickRate.
func (c Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// SectionHeader returns the header height of section i.
func (c Config) SectionHeader(i int) float64 {
	if i >= 0 && i < len(c.Sections) && c.Sections[i].HeaderHeight > 0 {
		return c.Sections[i].HeaderHeight
	}
	return c.HeaderHeight
}

// TOML encodes the configuration.
func (c Config) TOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
