// Package config loads the server configuration from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/image-tint-mcp/internal/imaging"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath = "IMAGE_TINT_CONFIG"
	EnvLogLevel   = "IMAGE_TINT_LOG_LEVEL"
)

const (
	appDir     = "image-tint-mcp"
	configFile = "config.toml"
)

// Config holds the tunables of the tint server.
type Config struct {
	// LogLevel is "info" or "debug".
	LogLevel string `toml:"log_level"`

	// HTTPTimeoutSeconds bounds each HTTP(S) image fetch. 0 disables the timeout.
	HTTPTimeoutSeconds int `toml:"http_timeout_seconds"`

	// MaxImageBytes caps the size of an encoded source image.
	MaxImageBytes int64 `toml:"max_image_bytes"`

	// AllowedSchemes lists the URI schemes images may be loaded from.
	AllowedSchemes []string `toml:"allowed_schemes"`

	// PNGCompression is one of "default", "speed", "best" or "none".
	PNGCompression string `toml:"png_compression"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:           "info",
		HTTPTimeoutSeconds: 30,
		MaxImageBytes:      imaging.DefaultMaxBytes,
		AllowedSchemes:     append([]string(nil), imaging.DefaultSchemes...),
		PNGCompression:     "default",
	}
}

// Path returns the configuration file location: $IMAGE_TINT_CONFIG if set,
// otherwise config.toml under $XDG_CONFIG_HOME (or ~/.config).
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, appDir, configFile)
}

// Load reads the configuration from Path. A missing file yields the defaults.
// IMAGE_TINT_LOG_LEVEL overrides the file's log level.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the configuration from path, layered over Default.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	conf := Default()

	if _, err := toml.DecodeFile(path, conf); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("couldn't read config file %s: %w", path, err)
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		conf.LogLevel = lvl
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "info", "debug":
	default:
		return fmt.Errorf("invalid log_level %q (want info or debug)", c.LogLevel)
	}
	if c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("http_timeout_seconds must not be negative")
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("max_image_bytes must be positive")
	}
	if len(c.AllowedSchemes) == 0 {
		return fmt.Errorf("allowed_schemes must not be empty")
	}
	if _, err := imaging.ParseCompression(c.PNGCompression); err != nil {
		return err
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

// HTTPTimeout returns the HTTP fetch timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Compression returns the configured PNG compression level.
// It assumes the config has been validated.
func (c *Config) Compression() png.CompressionLevel {
	level, _ := imaging.ParseCompression(c.PNGCompression)
	return level
}

// Loader builds the image loader described by the config.
func (c *Config) Loader() *imaging.URILoader {
	return imaging.NewURILoader(c.HTTPTimeout(), c.MaxImageBytes, c.AllowedSchemes)
}

// Encoder builds the image encoder described by the config.
func (c *Config) Encoder() imaging.PNGEncoder {
	return imaging.PNGEncoder{Compression: c.Compression()}
}

// Write saves the configuration to path as TOML, creating parent directories.
func Write(path string, conf *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("couldn't create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("couldn't write config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(conf); err != nil {
		return fmt.Errorf("couldn't write config file: %w", err)
	}
	return nil
}
