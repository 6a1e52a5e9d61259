// Package config provides configuration management for javaheaders.
// It supports multi-layer configuration with precedence:
//  1. Built-in defaults (lowest priority)
//  2. Global user config (~/.config/srcheaders/config.toml)
//  3. Project config (.srcheaders/config.toml or srcheaders.toml)
//  4. Environment variables (SRCHEADERS_*)
//  5. CLI flags (highest priority)
package config

import (
	"slices"
	"strings"

	"github.com/albertocavalcante/srcheaders/pkg/headers"
)

// DefaultExtensions are the source file extensions accepted out of the box.
var DefaultExtensions = []string{".java"}

// DefaultDebounceMs is the default watch debounce window.
const DefaultDebounceMs = 500

// Config is the main configuration struct.
type Config struct {
	// Extensions lists the accepted source file extensions (e.g. [".java"]).
	Extensions []string `toml:"extensions"`

	// StrictPackage requires a skipped leading statement to start with the
	// full "package" keyword.
	StrictPackage *bool `toml:"strict_package"`

	// Scan configures directory scans.
	Scan ScanConfig `toml:"scan"`

	// Watch configures watch mode.
	Watch WatchConfig `toml:"watch"`

	// Log configures logging defaults; CLI flags override them.
	Log LogConfig `toml:"log"`
}

// ScanConfig holds directory scan settings.
type ScanConfig struct {
	// Exclude is a list of doublestar globs matched against paths relative
	// to the scan root (e.g. "**/generated/**").
	Exclude []string `toml:"exclude"`

	// IgnoreDirs are extra directory names to skip.
	IgnoreDirs []string `toml:"ignore_dirs"`

	// Workers bounds concurrent file reads. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`
}

// WatchConfig holds watch mode settings.
type WatchConfig struct {
	// DebounceMs is the window used to coalesce bursts of file events.
	DebounceMs int `toml:"debounce_ms"`
}

// LogConfig holds logging defaults.
type LogConfig struct {
	Verbosity *int   `toml:"verbosity"`
	Format    string `toml:"format"`
}

// NewConfig creates a new Config with built-in defaults.
func NewConfig() *Config {
	falseVal := false
	return &Config{
		Extensions:    slices.Clone(DefaultExtensions),
		StrictPackage: &falseVal,
		Watch: WatchConfig{
			DebounceMs: DefaultDebounceMs,
		},
		Log: LogConfig{
			Format: "text",
		},
	}
}

// IsStrictPackage reports whether strict package matching is enabled.
func (c *Config) IsStrictPackage() bool {
	return c.StrictPackage != nil && *c.StrictPackage
}

// HeaderOptions returns the scanner options implied by the configuration.
func (c *Config) HeaderOptions() []headers.Option {
	if c.IsStrictPackage() {
		return []headers.Option{headers.WithStrictPackage()}
	}
	return nil
}

// Merge merges another config into this one (other takes precedence).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Extensions) > 0 {
		c.Extensions = NormalizeExtensions(other.Extensions)
	}
	if other.StrictPackage != nil {
		c.StrictPackage = other.StrictPackage
	}

	if len(other.Scan.Exclude) > 0 {
		c.Scan.Exclude = append(c.Scan.Exclude, other.Scan.Exclude...)
	}
	if len(other.Scan.IgnoreDirs) > 0 {
		c.Scan.IgnoreDirs = append(c.Scan.IgnoreDirs, other.Scan.IgnoreDirs...)
	}
	if other.Scan.Workers > 0 {
		c.Scan.Workers = other.Scan.Workers
	}

	if other.Watch.DebounceMs > 0 {
		c.Watch.DebounceMs = other.Watch.DebounceMs
	}

	if other.Log.Verbosity != nil {
		c.Log.Verbosity = other.Log.Verbosity
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}

// NormalizeExtensions lowercases extensions and adds a missing leading dot,
// so "java" and ".JAVA" both become ".java". Duplicates and blanks are dropped.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}
