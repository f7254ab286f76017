// Package config provides layered configuration loading: defaults,
// then a YAML file, then environment variables, then validation.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Source kinds accepted by the configuration.
const (
	SourceV4L2    = "v4l2"
	SourceRTSP    = "rtsp"
	SourcePattern = "pattern"
)

// Mount backends accepted by the configuration.
const (
	BackendOS = "os"
	BackendS3 = "s3"
)

// Config represents the full configuration for camsnap.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Compressor CompressorConfig `yaml:"compressor"`
	Mounts     []MountConfig    `yaml:"mounts" validate:"dive"`
	Log        LogConfig        `yaml:"log"`
}

// SourceConfig selects and tunes the frame source.
type SourceConfig struct {
	Kind    string `yaml:"kind" env:"CAMSNAP_SOURCE_KIND" validate:"oneof=v4l2 rtsp pattern"`
	Device  string `yaml:"device" env:"CAMSNAP_SOURCE_DEVICE"`
	URL     string `yaml:"url" env:"CAMSNAP_SOURCE_URL"`
	Pattern string `yaml:"pattern" env:"CAMSNAP_SOURCE_PATTERN" validate:"omitempty,oneof=colorbars gradient grid"`

	Width  int     `yaml:"width" env:"CAMSNAP_SOURCE_WIDTH" validate:"gt=0"`
	Height int     `yaml:"height" env:"CAMSNAP_SOURCE_HEIGHT" validate:"gt=0"`
	FPS    float64 `yaml:"fps" env:"CAMSNAP_SOURCE_FPS" validate:"gt=0"`

	// Slots bounds concurrently borrowed frames; AcquireTimeoutMs
	// bounds the wait for a frame.
	Slots            int `yaml:"slots" env:"CAMSNAP_SOURCE_SLOTS" validate:"gt=0"`
	AcquireTimeoutMs int `yaml:"acquire_timeout_ms" env:"CAMSNAP_ACQUIRE_TIMEOUT_MS" validate:"gt=0"`
}

// CompressorConfig fixes the JPEG policy.
type CompressorConfig struct {
	Quality   int `yaml:"quality" env:"CAMSNAP_JPEG_QUALITY" validate:"min=1,max=100"`
	MaxWidth  int `yaml:"max_width" env:"CAMSNAP_JPEG_MAX_WIDTH" validate:"gte=0"`
	MaxHeight int `yaml:"max_height" env:"CAMSNAP_JPEG_MAX_HEIGHT" validate:"gte=0"`
}

// MountConfig maps one drive prefix to a storage backend.
type MountConfig struct {
	Prefix  string `yaml:"prefix" validate:"required,alphanum"`
	Backend string `yaml:"backend" validate:"oneof=os s3"`

	// Root is the local directory for the os backend.
	Root string `yaml:"root"`

	// S3 backend settings.
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	KeyPrefix       string `yaml:"key_prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// LogConfig selects the log adapter and level.
type LogConfig struct {
	Level  string `yaml:"level" env:"CAMSNAP_LOG_LEVEL" validate:"oneof=debug info warn error quiet"`
	Format string `yaml:"format" env:"CAMSNAP_LOG_FORMAT" validate:"oneof=console json"`
}

// Defaults returns a Config with default values: a color-bars pattern
// source so the tool works without camera hardware, and the current
// directory mounted as S:.
func Defaults() Config {
	return Config{
		Source: SourceConfig{
			Kind:             SourcePattern,
			Device:           "/dev/video0",
			Pattern:          "colorbars",
			Width:            640,
			Height:           480,
			FPS:              5.0,
			Slots:            2,
			AcquireTimeoutMs: 1000,
		},
		Compressor: CompressorConfig{
			Quality: 80,
		},
		Mounts: []MountConfig{
			{Prefix: "S", Backend: BackendOS, Root: "."},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Load layers the full configuration: defaults, the YAML file at path
// when one is given, environment variables, then validation.
func Load(ctx context.Context, path string) (Config, error) {
	var cfg Config
	var err error

	if path != "" {
		cfg, err = LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		cfg = Defaults()
	}

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration's structural constraints, plus the
// cross-field ones struct tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.Source.Kind == SourceRTSP && c.Source.URL == "" {
		return fmt.Errorf("config: source.url is required for kind %q", SourceRTSP)
	}
	for _, m := range c.Mounts {
		if m.Backend == BackendS3 && m.Bucket == "" {
			return fmt.Errorf("config: mount %q: bucket is required for the s3 backend", m.Prefix)
		}
		if m.Backend == BackendOS && m.Root == "" {
			return fmt.Errorf("config: mount %q: root is required for the os backend", m.Prefix)
		}
	}
	return nil
}
