// Package config loads commitpulse settings from .commitpulse.yaml, the
// environment and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/commitpulse/internal/plotpage"
)

// Sentinel validation errors.
var (
	ErrInvalidCloudURL     = errors.New("cloud url must be an http(s) URL")
	ErrInvalidCloudTimeout = errors.New("cloud timeout must be positive")
	ErrInvalidCacheSize    = errors.New("avatar cache size must be positive")
	ErrInvalidAvatarTime   = errors.New("avatar timeout must be positive")
	ErrInvalidScanDepth    = errors.New("scan max depth must be positive")
	ErrInvalidTheme        = errors.New("unknown output theme")
	ErrInvalidLanguage     = errors.New("language mapping needs a language and exactly one of extension or file")
)

// Config holds all commitpulse settings.
type Config struct {
	Cloud     CloudConfig     `mapstructure:"cloud"`
	Avatars   AvatarsConfig   `mapstructure:"avatars"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Output    OutputConfig    `mapstructure:"output"`
	Languages LanguagesConfig `mapstructure:"languages"`
	Log       LogConfig       `mapstructure:"log"`
}

// CloudConfig configures the publish service.
type CloudConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AvatarsConfig configures contributor avatar lookup.
type AvatarsConfig struct {
	// GitHub enables the GitHub user search in cloud mode.
	GitHub    bool          `mapstructure:"github"`
	Token     string        `mapstructure:"token"`
	CacheSize int           `mapstructure:"cache_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ScanConfig configures --scan discovery.
type ScanConfig struct {
	MaxDepth int `mapstructure:"max_depth"`
}

// OutputConfig configures the local dashboard.
type OutputConfig struct {
	Dir   string `mapstructure:"dir"`
	Theme string `mapstructure:"theme"`
}

// LanguagesConfig extends language detection.
type LanguagesConfig struct {
	Extra []LanguageMapping `mapstructure:"extra"`
	// VendorFilter also skips paths recognized as vendored code.
	VendorFilter bool `mapstructure:"vendor_filter"`
}

// LanguageMapping maps one extension, or an exact file name, to a language.
// Exactly one of Extension and File is set. A missing leading dot on
// Extension is implied, so "zig" means ".zig".
type LanguageMapping struct {
	Extension string `mapstructure:"extension"`
	File      string `mapstructure:"file"`
	Language  string `mapstructure:"language"`
}

// Key returns the classifier table key of the mapping.
func (m LanguageMapping) Key() string {
	if m.File != "" {
		return strings.TrimSpace(m.File)
	}

	ext := strings.TrimSpace(m.Extension)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return ext
}

// LogConfig configures log output.
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}

// ExtraLanguages returns the configured mappings as a lookup table input.
func (c *Config) ExtraLanguages() map[string]string {
	extra := make(map[string]string, len(c.Languages.Extra))
	for _, m := range c.Languages.Extra {
		extra[m.Key()] = m.Language
	}

	return extra
}

// Theme returns the parsed output theme. Validate guarantees it is known.
func (c *Config) Theme() plotpage.Theme {
	theme, _ := plotpage.ParseTheme(c.Output.Theme)

	return theme
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Cloud.URL, "https://") && !strings.HasPrefix(c.Cloud.URL, "http://") {
		return fmt.Errorf("%w: %q", ErrInvalidCloudURL, c.Cloud.URL)
	}

	if c.Cloud.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCloudTimeout, c.Cloud.Timeout)
	}

	if c.Avatars.CacheSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.Avatars.CacheSize)
	}

	if c.Avatars.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidAvatarTime, c.Avatars.Timeout)
	}

	if c.Scan.MaxDepth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidScanDepth, c.Scan.MaxDepth)
	}

	if _, ok := plotpage.ParseTheme(c.Output.Theme); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, c.Output.Theme)
	}

	for _, m := range c.Languages.Extra {
		ext := strings.Trim(strings.TrimSpace(m.Extension), ".")
		file := strings.TrimSpace(m.File)

		if (ext == "") == (file == "") || strings.TrimSpace(m.Language) == "" {
			return fmt.Errorf("%w: %+v", ErrInvalidLanguage, m)
		}
	}

	return nil
}
