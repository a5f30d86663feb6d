package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeusync/toyfacade/internal/core/mathx"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
	"github.com/zeusync/toyfacade/internal/core/toys"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config drives the demo host: logging, the replication feed and the targets
// placed when the scene starts.
type Config struct {
	LogLevel   string       `json:"log_level" yaml:"log_level"`
	ListenAddr string       `json:"listen_addr" yaml:"listen_addr"`
	TickRate   int          `json:"tick_rate" yaml:"tick_rate"`
	Targets    []TargetSpec `json:"targets,omitempty" yaml:"targets,omitempty"`
}

// TargetSpec describes one shooting target to create at startup.
type TargetSpec struct {
	Type     toys.TargetType `json:"type" yaml:"type"`
	Position *mathx.Vector3  `json:"position,omitempty" yaml:"position,omitempty"`
	Rotation *mathx.Vector3  `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Scale    *mathx.Vector3  `json:"scale,omitempty" yaml:"scale,omitempty"`
	// Spawn defaults to true.
	Spawn *bool `json:"spawn,omitempty" yaml:"spawn,omitempty"`

	Synced        bool `json:"synced,omitempty" yaml:"synced,omitempty"`
	MaxHealth     int  `json:"max_health,omitempty" yaml:"max_health,omitempty"`
	AutoResetTime int  `json:"auto_reset_time,omitempty" yaml:"auto_reset_time,omitempty"`
}

// DefaultConfig returns a config with one sport target at the origin.
func DefaultConfig() Config {
	return Config{
		LogLevel:   "info",
		ListenAddr: "127.0.0.1:8080",
		TickRate:   30,
		Targets:    []TargetSpec{{Type: toys.TargetSport}},
	}
}

// Level parses LogLevel.
func (c Config) Level() (log.Level, error) {
	return log.ParseLevel(c.LogLevel)
}

func (c Config) Validate() error {
	var errs []error
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr is required"))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.TickRate))
	}
	for i, t := range c.Targets {
		if t.MaxHealth < 0 {
			errs = append(errs, fmt.Errorf("targets[%d]: max_health must not be negative", i))
		}
		if (t.MaxHealth != 0 || t.AutoResetTime != 0) && !t.Synced {
			errs = append(errs, fmt.Errorf("targets[%d]: max_health and auto_reset_time need synced: true", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Options converts the placement fields into factory options.
func (t TargetSpec) Options() []toys.CreateOption {
	var opts []toys.CreateOption
	if t.Position != nil {
		opts = append(opts, toys.WithPosition(*t.Position))
	}
	if t.Rotation != nil {
		opts = append(opts, toys.WithRotation(*t.Rotation))
	}
	if t.Scale != nil {
		opts = append(opts, toys.WithScale(*t.Scale))
	}
	if t.Spawn != nil {
		opts = append(opts, toys.WithSpawn(*t.Spawn))
	}
	return opts
}

// LoadJSON reads a config from r on top of DefaultConfig.
func LoadJSON(r io.Reader) (Config, error) {
	c := DefaultConfig()
	c.Targets = nil
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// LoadYAML reads a config from r on top of DefaultConfig.
func LoadYAML(r io.Reader) (Config, error) {
	c := DefaultConfig()
	c.Targets = nil
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return c, c.Validate()
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".json":
		return LoadJSON(f)
	default:
		return Config{}, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
}
