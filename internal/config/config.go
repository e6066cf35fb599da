// Package config loads wikimatter's optional YAML configuration.
//
// Every setting has a built-in default, so a missing configuration file is not an
// error. Values may reference environment variables (${VAR}); a .env or .env.local
// file in the working directory is loaded first without overriding the process
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "wikimatter.yaml"

// Config represents the application configuration.
type Config struct {
	ContentDir    string          `yaml:"content_dir"`
	IndexName     string          `yaml:"index_name"`
	PublishKey    string          `yaml:"publish_key"`
	Extensions    []string        `yaml:"extensions"`
	BackupSuffix  string          `yaml:"backup_suffix"`
	OverlaySuffix string          `yaml:"overlay_suffix"`
	MaxDepth      int             `yaml:"max_depth"`
	Templates     TemplatesConfig `yaml:"templates"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// TemplatesConfig points at template files; empty paths select the built-ins.
type TemplatesConfig struct {
	Frontmatter string `yaml:"frontmatter,omitempty"`
	Overlay     string `yaml:"overlay,omitempty"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ContentDir:    "content",
		IndexName:     "_index.md",
		PublishKey:    "wiki",
		Extensions:    []string{".md"},
		BackupSuffix:  ".bak",
		OverlaySuffix: ".diff",
		MaxDepth:      10,
		Logging:       LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
	}
}

// Load reads configPath on top of the defaults. A missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	if configPath == "" {
		return cfg, cfg.Validate()
	}

	// #nosec G304 -- configuration path is supplied by the operator.
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, ferrors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, ferrors.ConfigError("failed to parse config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that would make the tree layout ambiguous.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.ContentDir) == "" {
		problems = append(problems, "content_dir must not be empty")
	}
	if strings.TrimSpace(c.IndexName) == "" || strings.ContainsAny(c.IndexName, `/\`) {
		problems = append(problems, "index_name must be a plain file name")
	}
	if strings.TrimSpace(c.PublishKey) == "" {
		problems = append(problems, "publish_key must not be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			problems = append(problems, fmt.Sprintf("extension %q must start with '.'", ext))
		}
	}
	for name, suffix := range map[string]string{"backup_suffix": c.BackupSuffix, "overlay_suffix": c.OverlaySuffix} {
		if !strings.HasPrefix(suffix, ".") {
			problems = append(problems, fmt.Sprintf("%s %q must start with '.'", name, suffix))
		}
	}
	if c.BackupSuffix == c.OverlaySuffix {
		problems = append(problems, "backup_suffix and overlay_suffix must differ")
	}
	if c.MaxDepth < 10 {
		problems = append(problems, "max_depth must be at least 10")
	}

	if len(problems) == 0 {
		return nil
	}
	return ferrors.ConfigError("invalid configuration").
		WithContext("problems", problems).
		WithCause(errors.New(strings.Join(problems, "; "))).
		Build()
}

// HasExtension reports whether path ends in one of the configured document extensions.
func (c *Config) HasExtension(path string) bool {
	for _, ext := range c.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.ContentDir == "" {
		cfg.ContentDir = def.ContentDir
	}
	if cfg.IndexName == "" {
		cfg.IndexName = def.IndexName
	}
	if cfg.PublishKey == "" {
		cfg.PublishKey = def.PublishKey
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = def.Extensions
	}
	if cfg.BackupSuffix == "" {
		cfg.BackupSuffix = def.BackupSuffix
	}
	if cfg.OverlaySuffix == "" {
		cfg.OverlaySuffix = def.OverlaySuffix
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
}

// loadEnvFiles loads .env then .env.local; existing process variables win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not load %s: %v\n", name, err)
		}
	}
}
