// Package config loads the optional ace.yaml engine configuration.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/property"
)

// FileName is the name LoadOptional looks for.
const FileName = "ace.yaml"

// Config represents ace.yaml.
type Config struct {
	App    AppConfig    `yaml:"app"`
	Engine EngineConfig `yaml:"engine"`
	Images ImageConfig  `yaml:"images"`
	Log    LogConfig    `yaml:"log"`
}

// AppConfig names the instance in logs.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// EngineConfig contains pipeline settings.
type EngineConfig struct {
	// Version is a semantic version or "latest".
	Version       string        `yaml:"version,omitempty"`
	FrameInterval time.Duration `yaml:"frame_interval,omitempty"`
	DipScale      float64       `yaml:"dip_scale,omitempty"`
	FontScale     float64       `yaml:"font_scale,omitempty"`
	RootWidth     float64       `yaml:"root_width,omitempty"`
	RootHeight    float64       `yaml:"root_height,omitempty"`
	// DebugAddr, when set, serves the node tree and frame timeline over HTTP.
	DebugAddr string `yaml:"debug_addr,omitempty"`
}

// ImageConfig contains image loading settings.
type ImageConfig struct {
	// CacheEntries bounds the decoded image cache; 0 disables it.
	CacheEntries *int `yaml:"cache_entries,omitempty"`
	// Resize shrinks decoded images to their drawn size. Defaults to true.
	Resize *bool `yaml:"resize,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Defaults.
const (
	DefaultFrameInterval = 16 * time.Millisecond
	DefaultRootWidth     = 720
	DefaultRootHeight    = 1280
	DefaultCacheEntries  = 64
	DefaultLogLevel      = "info"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Engine.Version) == "" {
		c.Engine.Version = "latest"
	}
	if c.Engine.FrameInterval == 0 {
		c.Engine.FrameInterval = DefaultFrameInterval
	}
	if c.Engine.DipScale == 0 {
		c.Engine.DipScale = 1
	}
	if c.Engine.FontScale == 0 {
		c.Engine.FontScale = 1
	}
	if c.Engine.RootWidth == 0 {
		c.Engine.RootWidth = DefaultRootWidth
	}
	if c.Engine.RootHeight == 0 {
		c.Engine.RootHeight = DefaultRootHeight
	}
	if c.Images.CacheEntries == nil {
		n := DefaultCacheEntries
		c.Images.CacheEntries = &n
	}
	if c.Images.Resize == nil {
		resize := true
		c.Images.Resize = &resize
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Load reads, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("config.Load", errors.KindConfig, fmt.Errorf("failed to read %s: %w", path, err))
	}
	return Parse(data)
}

// LoadOptional reads ace.yaml from dir if present and returns the defaults
// otherwise.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); stderrors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes, defaults and validates YAML data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New("config.Parse", errors.KindConfig, fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if v := c.Engine.Version; v != "latest" && !semver.IsValid(v) {
		problems = append(problems, fmt.Sprintf("engine.version %q is not a semantic version", v))
	}
	if c.Engine.FrameInterval <= 0 {
		problems = append(problems, "engine.frame_interval must be positive")
	}
	if c.Engine.DipScale <= 0 || c.Engine.FontScale <= 0 {
		problems = append(problems, "engine scales must be positive")
	}
	if c.Engine.RootWidth <= 0 || c.Engine.RootHeight <= 0 {
		problems = append(problems, "engine root size must be positive")
	}
	if c.Images.CacheEntries != nil && *c.Images.CacheEntries < 0 {
		problems = append(problems, "images.cache_entries cannot be negative")
	}
	if _, err := log.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is unknown", c.Log.Level))
	}
	if len(problems) > 0 {
		return errors.New("config.Validate", errors.KindConfig, stderrors.New(strings.Join(problems, "; ")))
	}
	return nil
}

// RootSize returns the configured root surface size.
func (c *Config) RootSize() graphics.Size {
	return graphics.Size{Width: c.Engine.RootWidth, Height: c.Engine.RootHeight}
}

// Scale returns the configured density factors.
func (c *Config) Scale() property.ScaleProperty {
	return property.ScaleProperty{DipScale: c.Engine.DipScale, FontScale: c.Engine.FontScale, LogicScale: 1}
}

// CacheEntries returns the image cache capacity.
func (c *Config) CacheEntries() int {
	if c.Images.CacheEntries == nil {
		return DefaultCacheEntries
	}
	return *c.Images.CacheEntries
}

// Resize reports whether decoded images are shrunk to their drawn size.
func (c *Config) Resize() bool {
	return c.Images.Resize == nil || *c.Images.Resize
}

// AppName returns app.name, falling back to the last element of the module
// path in dir/go.mod, then to the base name of dir.
func (c *Config) AppName(dir string) string {
	if name := strings.TrimSpace(c.App.Name); name != "" {
		return name
	}
	if data, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
		if path := modfile.ModulePath(data); path != "" {
			if prefix, _, ok := module.SplitPathVersion(path); ok {
				path = prefix
			}
			if i := strings.LastIndex(path, "/"); i >= 0 {
				path = path[i+1:]
			}
			if path != "" {
				return path
			}
		}
	}
	if base := filepath.Base(dir); base != "." && base != string(filepath.Separator) {
		return base
	}
	return "ace"
}
