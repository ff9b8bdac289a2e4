// Package config handles configuration loading, validation, and management for officekeys.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Version is the current configuration schema version.
const Version = 1

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "officekeys.toml"

// Config holds the complete tool configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// DistDir is where generated packages are written and validated.
	DistDir string `toml:"dist_dir" json:"dist_dir" yaml:"dist_dir"`

	// Profiles lists the applications to generate packages for.
	Profiles []ProfileConfig `toml:"profiles" json:"profiles" yaml:"profiles"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`

	// Watch configuration for the watch command.
	Watch WatchConfig `toml:"watch" json:"watch" yaml:"watch"`

	// mu protects concurrent access to the config.
	mu sync.RWMutex `toml:"-" json:"-" yaml:"-"`
}

// ProfileConfig describes one application's mapping files and output package.
type ProfileConfig struct {
	// Name identifies the profile, e.g. "writer".
	Name string `toml:"name" json:"name" yaml:"name"`

	// Mapping is the custom mapping file (required to generate).
	Mapping string `toml:"mapping" json:"mapping" yaml:"mapping"`

	// Defaults is the optional default mapping file.
	Defaults string `toml:"defaults" json:"defaults" yaml:"defaults"`

	// Output is the package file name, relative to DistDir unless absolute.
	Output string `toml:"output" json:"output" yaml:"output"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is "stdout", "stderr" or "file".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the log file when Output is "file".
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// WatchConfig holds settings for regenerating packages on file changes.
type WatchConfig struct {
	// DebounceMs is how long mapping files must be quiet before regenerating.
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// DefaultProfiles returns the Writer, Calc and Impress profiles.
func DefaultProfiles() []ProfileConfig {
	return []ProfileConfig{
		{Name: "writer", Mapping: "mappings/writer.json", Defaults: "defaults/writer.json", Output: "Word_Shortcuts_for_Writer.cfg"},
		{Name: "calc", Mapping: "mappings/calc.json", Defaults: "defaults/calc.json", Output: "Excel_Shortcuts_for_Calc.cfg"},
		{Name: "impress", Mapping: "mappings/impress.json", Defaults: "defaults/impress.json", Output: "PowerPoint_Shortcuts_for_Impress.cfg"},
	}
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  Version,
		DistDir:  "dist",
		Profiles: DefaultProfiles(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Watch: WatchConfig{
			DebounceMs: 100,
		},
	}
}

// ConfigPath returns the default configuration file path: officekeys.toml in
// the working directory if present, else officekeys/officekeys.toml under
// the XDG config directories, else officekeys.toml.
func ConfigPath() string {
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}
	if p, err := xdg.SearchConfigFile(filepath.Join("officekeys", DefaultFileName)); err == nil {
		return p
	}
	return DefaultFileName
}

// Load reads configuration from the specified path.
// If the file doesn't exist, returns default configuration.
// Supports TOML, JSON, and YAML formats based on file extension.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// loadConfigFromFile reads and parses a config file based on its extension.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	// Decoders reuse existing slice elements, so start profiles empty to
	// keep default field values from leaking into configured profiles.
	cfg.Profiles = nil

	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	}

	if len(cfg.Profiles) == 0 {
		cfg.Profiles = DefaultProfiles()
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with OFFICEKEYS_ and use underscores.
func (c *Config) ApplyEnvOverrides() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v := os.Getenv("OFFICEKEYS_DIST_DIR"); v != "" {
		c.DistDir = v
	}
	if v := os.Getenv("OFFICEKEYS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OFFICEKEYS_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("OFFICEKEYS_LOG_FILE"); v != "" {
		c.Logging.Output = "file"
		c.Logging.FilePath = v
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Config{
		Version:  c.Version,
		DistDir:  c.DistDir,
		Profiles: append([]ProfileConfig{}, c.Profiles...),
		Logging:  c.Logging,
		Watch:    c.Watch,
	}
}

// Profile returns the profile with the given name, ignoring case.
func (c *Config) Profile(name string) (ProfileConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.Profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return ProfileConfig{}, false
}
