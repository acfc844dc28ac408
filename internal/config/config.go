// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SHAPES_LOGGER_LEVEL.
const EnvPrefix = "SHAPES"

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Editor() EditorConfig
	Document() DocumentConfig
	Sync() SyncConfig
	Worker() WorkerConfig
	Browser() BrowserConfig

	// Editor Setters
	SetEditorDefaultRefBox(string)
	SetEditorEdgeTieBreak(string)

	// Worker Setters
	SetWorkerConcurrency(int)

	// Browser Setters
	SetBrowserHeadless(bool)
	SetBrowserTimeout(time.Duration)
}

// Config holds the entire application configuration.
// It uses private fields to enforce access through the Interface's getter methods.
type Config struct {
	logger   LoggerConfig
	editor   EditorConfig
	document DocumentConfig
	sync     SyncConfig
	worker   WorkerConfig
	browser  BrowserConfig
}

// fileConfig is the decode target for viper. mapstructure cannot reach
// unexported fields, so values land here and are copied into Config.
type fileConfig struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Editor   EditorConfig   `mapstructure:"editor" yaml:"editor"`
	Document DocumentConfig `mapstructure:"document" yaml:"document"`
	Sync     SyncConfig     `mapstructure:"sync" yaml:"sync"`
	Worker   WorkerConfig   `mapstructure:"worker" yaml:"worker"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
}

func (f fileConfig) config() *Config {
	return &Config{
		logger:   f.Logger,
		editor:   f.Editor,
		document: f.Document,
		sync:     f.Sync,
		worker:   f.Worker,
		browser:  f.Browser,
	}
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig     { return c.logger }
func (c *Config) Editor() EditorConfig     { return c.editor }
func (c *Config) Document() DocumentConfig { return c.document }
func (c *Config) Sync() SyncConfig         { return c.sync }
func (c *Config) Worker() WorkerConfig     { return c.worker }
func (c *Config) Browser() BrowserConfig   { return c.browser }

// --- Interface Method Implementations (Setters) ---

// Editor Setters
func (c *Config) SetEditorDefaultRefBox(b string) { c.editor.DefaultRefBox = b }
func (c *Config) SetEditorEdgeTieBreak(s string)  { c.editor.EdgeTieBreak = s }

// Worker Setters
func (c *Config) SetWorkerConcurrency(n int) { c.worker.Concurrency = n }

// Browser Setters
func (c *Config) SetBrowserHeadless(b bool)         { c.browser.Headless = b }
func (c *Config) SetBrowserTimeout(d time.Duration) { c.browser.Timeout = d }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EditorConfig tunes interactive editing.
type EditorConfig struct {
	DefaultRefBox string  `mapstructure:"default_ref_box" yaml:"default_ref_box"`
	PointRadius   float64 `mapstructure:"point_radius" yaml:"point_radius"`
	// EdgeTieBreak is "last" or "closest".
	EdgeTieBreak string `mapstructure:"edge_tiebreak" yaml:"edge_tiebreak"`
	// MinVertices guards double-click deletion. Zero disables the guard.
	MinVertices int      `mapstructure:"min_vertices" yaml:"min_vertices"`
	UnitCycle   []string `mapstructure:"unit_cycle" yaml:"unit_cycle"`
	Property    string   `mapstructure:"property" yaml:"property"`
}

// DocumentConfig describes the page static documents are laid out in.
type DocumentConfig struct {
	ViewportWidth  float64 `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64 `mapstructure:"viewport_height" yaml:"viewport_height"`
	RootFontSize   float64 `mapstructure:"root_font_size" yaml:"root_font_size"`
}

// SyncConfig limits how often shape changes are forwarded.
type SyncConfig struct {
	Throttle time.Duration `mapstructure:"throttle" yaml:"throttle"`
}

// WorkerConfig sizes the batch parse pool.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// BrowserConfig controls the headless browser used for live snapshots.
type BrowserConfig struct {
	Headless bool          `mapstructure:"headless" yaml:"headless"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Args     []string      `mapstructure:"args" yaml:"args"`
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return fc.config()
}

// SetDefaults initializes default values for all configuration parameters in Viper.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "shapes-cli")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Editor --
	v.SetDefault("editor.default_ref_box", "margin-box")
	v.SetDefault("editor.point_radius", 4.0)
	v.SetDefault("editor.edge_tiebreak", "last")
	v.SetDefault("editor.min_vertices", 0)
	v.SetDefault("editor.unit_cycle", []string{"px", "%", "em", "rem", "vw", "vh", "in", "cm", "mm", "pt", "pc"})
	v.SetDefault("editor.property", "shape-outside")

	// -- Document --
	v.SetDefault("document.viewport_width", 1280.0)
	v.SetDefault("document.viewport_height", 720.0)
	v.SetDefault("document.root_font_size", 16.0)

	// -- Sync --
	v.SetDefault("sync.throttle", "50ms")

	// -- Worker --
	v.SetDefault("worker.concurrency", 4)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout", "30s")
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg := fc.config()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load prepares v to read the config file and SHAPES_* environment
// overrides. With an empty path it searches ./shapes.yaml then
// ~/.shapes-cli/shapes.yaml. A missing file is not an error.
func Load(v *viper.Viper, path string) error {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".shapes-cli"))
		}
		v.SetConfigName("shapes")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars
	}
	return nil
}

// Validate checks the configuration for logical errors.
func (c *Config) Validate() error {
	switch c.editor.DefaultRefBox {
	case "margin-box", "border-box", "padding-box", "content-box":
	default:
		return fmt.Errorf("editor.default_ref_box %q is not a reference box", c.editor.DefaultRefBox)
	}
	if c.editor.PointRadius <= 0 {
		return fmt.Errorf("editor.point_radius must be positive")
	}
	if t := strings.ToLower(c.editor.EdgeTieBreak); t != "last" && t != "closest" {
		return fmt.Errorf("editor.edge_tiebreak must be 'last' or 'closest', got %q", c.editor.EdgeTieBreak)
	}
	if c.editor.MinVertices < 0 {
		return fmt.Errorf("editor.min_vertices cannot be negative")
	}
	if c.document.ViewportWidth < 0 || c.document.ViewportHeight < 0 {
		return fmt.Errorf("document viewport cannot be negative")
	}
	if c.sync.Throttle < 0 {
		return fmt.Errorf("sync.throttle cannot be negative")
	}
	if c.worker.Concurrency <= 0 {
		return fmt.Errorf("worker.concurrency must be a positive integer")
	}
	if c.browser.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be a positive duration")
	}
	return nil
}
