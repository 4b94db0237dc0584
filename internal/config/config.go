package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fls/internal/errors"
	"fls/internal/log"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names an environment variable that overrides the config
// file location.
const EnvConfigPath = "FLS_CONFIG"

// Config is the optional YAML configuration file. Command-line flags are
// applied on top of it.
type Config struct {
	Color    string `yaml:"color"`    // auto, always or never
	Suffixes string `yaml:"suffixes"` // none, dirs or all
	Sort     string `yaml:"sort"`     // name, none, size or time
	Time     string `yaml:"time"`     // mtime, ctime or atime
	Width    string `yaml:"width"`    // graphemes or cells

	// Extensions maps a file extension (without the dot) to a style name.
	Extensions map[string]string `yaml:"extensions"`

	Hide      []string `yaml:"hide"`      // Hidden unless -a or -A
	Ignore    []string `yaml:"ignore"`    // Always hidden
	GitIgnore bool     `yaml:"gitignore"` // Honor .gitignore files

	PasswdFile string `yaml:"passwd_file"`
	GroupFile  string `yaml:"group_file"`
	Timezone   string `yaml:"timezone"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"` // text or json
	LogFile    string `yaml:"log_file"`
}

// Path returns the config file location: $FLS_CONFIG, then
// $XDG_CONFIG_HOME/fls/config.yaml, then ~/.config/fls/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fls", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fls", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := Path()
	if err != nil {
		// No home directory is not an error for a listing tool.
		log.Debugf("no config path: %v", err)
		return defaultConfig(), nil
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("config file %s not found, using defaults", path)
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.InvalidConfig, err)
	}

	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	cfg.merge(&tempCfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.LogWithFields(log.F("path", path)).Debug("loaded config file")
	return cfg, nil
}

// merge copies every field set in other onto c.
func (c *Config) merge(other *Config) {
	if other.Color != "" {
		c.Color = other.Color
	}
	if other.Suffixes != "" {
		c.Suffixes = other.Suffixes
	}
	if other.Sort != "" {
		c.Sort = other.Sort
	}
	if other.Time != "" {
		c.Time = other.Time
	}
	if other.Width != "" {
		c.Width = other.Width
	}
	for ext, style := range other.Extensions {
		c.Extensions[ext] = style
	}
	c.Hide = append(c.Hide, other.Hide...)
	c.Ignore = append(c.Ignore, other.Ignore...)
	c.GitIgnore = c.GitIgnore || other.GitIgnore
	if other.PasswdFile != "" {
		c.PasswdFile = other.PasswdFile
	}
	if other.GroupFile != "" {
		c.GroupFile = other.GroupFile
	}
	if other.Timezone != "" {
		c.Timezone = other.Timezone
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.LogFile != "" {
		c.LogFile = other.LogFile
	}
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() *Config {
	return &Config{
		Color:      "auto",
		Suffixes:   "none",
		Sort:       "name",
		Time:       "mtime",
		Width:      "graphemes",
		Extensions: map[string]string{},
		Hide:       []string{},
		Ignore:     []string{},
		PasswdFile: "/etc/passwd",
		GroupFile:  "/etc/group",
		LogLevel:   "warn",
		LogFormat:  "text",
	}
}

// New returns the default configuration.
func New() *Config {
	return defaultConfig()
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every enumerated setting. Extension style names are
// checked when the style table is built.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("nil config")
	}

	invalid := func(param string, err error) error {
		return errors.NewConfigError("invalid value", param, errors.InvalidConfig, err)
	}

	if _, err := ParseColorMode(c.Color); err != nil {
		return invalid("color", err)
	}
	if _, err := ParseSuffixPolicy(c.Suffixes); err != nil {
		return invalid("suffixes", err)
	}
	if _, err := ParseSortField(c.Sort); err != nil {
		return invalid("sort", err)
	}
	if _, err := ParseTimeField(c.Time); err != nil {
		return invalid("time", err)
	}
	if _, err := ParseWidthMode(c.Width); err != nil {
		return invalid("width", err)
	}
	if c.LogLevel != "" && !log.ValidLevel(c.LogLevel) {
		return invalid("log_level", fmt.Errorf("unknown level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return invalid("log_format", fmt.Errorf("unknown format %q", c.LogFormat))
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return invalid("timezone", err)
		}
	}
	for ext := range c.Extensions {
		if ext == "" {
			return invalid("extensions", fmt.Errorf("empty extension"))
		}
	}
	for _, pattern := range append(append([]string{}, c.Hide...), c.Ignore...) {
		if pattern == "" {
			return invalid("hide", fmt.Errorf("empty pattern"))
		}
	}
	return nil
}

// Apply seeds opts from the file settings. Flags parsed afterwards override
// these values.
func (c *Config) Apply(opts *Options) {
	if v, err := ParseSuffixPolicy(c.Suffixes); err == nil {
		opts.Suffixes = v
	}
	if v, err := ParseSortField(c.Sort); err == nil {
		opts.Sort = v
	}
	if v, err := ParseTimeField(c.Time); err == nil {
		opts.Time = v
	}
	if v, err := ParseWidthMode(c.Width); err == nil {
		opts.WidthMode = v
	}
}

// Location returns the configured timezone, or the process local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
