package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the project-level config file.
const ConfigFileName = "srcheaders.toml"

// ConfigDirName is the name of the project-level config directory.
const ConfigDirName = ".srcheaders"

// GlobalConfigDir is the name of the global config directory inside the
// user's config directory.
const GlobalConfigDir = "srcheaders"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SRCHEADERS_"

// Load loads configuration from all layers starting at the working directory.
// CLI flags are applied separately after Load returns.
func Load() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return LoadFrom(wd)
}

// LoadFrom loads configuration, searching for a project config from dir
// upwards.
func LoadFrom(dir string) *Config {
	cfg := NewConfig()

	if globalCfg := loadConfigFile(GetGlobalConfigPath()); globalCfg != nil {
		cfg.Merge(globalCfg)
	}

	if projectCfg := loadProjectConfigFrom(dir); projectCfg != nil {
		cfg.Merge(projectCfg)
	}

	applyEnvironmentVariables(cfg)

	return cfg
}

// LoadFile loads defaults, then the given file, then the environment.
// Unlike the discovered layers, an explicit file must exist and parse.
func LoadFile(path string) (*Config, error) {
	fileCfg, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	cfg := NewConfig()
	cfg.Merge(fileCfg)
	applyEnvironmentVariables(cfg)
	return cfg, nil
}

// loadProjectConfigFrom searches dir and its parents for a project config,
// stopping at the first workspace root.
func loadProjectConfigFrom(dir string) *Config {
	current := dir
	for {
		for _, path := range GetProjectConfigPaths(current) {
			if cfg := loadConfigFile(path); cfg != nil {
				return cfg
			}
		}

		if isWorkspaceRoot(current) {
			break
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return nil
}

// isWorkspaceRoot checks for VCS or JVM build tool markers.
func isWorkspaceRoot(dir string) bool {
	markers := []string{".git", "pom.xml", "settings.gradle", "settings.gradle.kts", "MODULE.bazel", "WORKSPACE"}
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// loadConfigFile loads a discovered config file, ignoring missing or
// malformed files.
func loadConfigFile(path string) *Config {
	if path == "" {
		return nil
	}
	cfg, err := decodeFile(path)
	if err != nil {
		return nil
	}
	return cfg
}

func decodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyEnvironmentVariables applies SRCHEADERS_* environment variables.
func applyEnvironmentVariables(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "EXTENSIONS"); v != "" {
		cfg.Extensions = NormalizeExtensions(splitAndTrim(v))
	}
	applyBoolEnv(EnvPrefix+"STRICT_PACKAGE", &cfg.StrictPackage)

	if v := os.Getenv(EnvPrefix + "SCAN_EXCLUDE"); v != "" {
		cfg.Scan.Exclude = splitAndTrim(v)
	}
	if v := os.Getenv(EnvPrefix + "SCAN_IGNORE_DIRS"); v != "" {
		cfg.Scan.IgnoreDirs = splitAndTrim(v)
	}
	applyIntEnv(EnvPrefix+"SCAN_WORKERS", &cfg.Scan.Workers)
	applyIntEnv(EnvPrefix+"WATCH_DEBOUNCE_MS", &cfg.Watch.DebounceMs)

	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func applyBoolEnv(envVar string, target **bool) {
	v := strings.ToLower(os.Getenv(envVar))
	switch v {
	case "true", "1", "yes":
		t := true
		*target = &t
	case "false", "0", "no":
		f := false
		*target = &f
	}
}

func applyIntEnv(envVar string, target *int) {
	v := os.Getenv(envVar)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		*target = n
	}
}

// GetGlobalConfigPath returns the path to the global config file, or "" if
// the user config directory is unknown.
func GetGlobalConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, GlobalConfigDir, "config.toml")
}

// GetProjectConfigPaths returns the candidate project config paths for dir,
// in lookup order.
func GetProjectConfigPaths(dir string) []string {
	return []string{
		filepath.Join(dir, ConfigDirName, "config.toml"),
		filepath.Join(dir, ConfigFileName),
	}
}
