// Package config loads gitstage's configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig defines the gitstage configuration options.
type AppConfig struct {
	// RefreshInterval controls how often the refresh worker re-parses the
	// repository in the absence of a filesystem event. Zero falls back to
	// DefaultRefreshInterval.
	RefreshInterval time.Duration
	// Remote overrides the push remote derived from the upstream of HEAD.
	Remote string
	// Branch overrides the push branch derived from the upstream of HEAD.
	Branch string
	// Editor is passed to the commit handler's `git commit` as core.editor;
	// empty defers to git's own editor choice ($EDITOR).
	Editor string
	// Pager is reserved for future diff rendering; unused by the core engine.
	Pager string
	// DebugLog is a path to a debug log file; empty discards debug output.
	DebugLog string
	// DisableWatch turns off the fsnotify-driven refresh producer.
	DisableWatch bool
}

// DefaultRefreshInterval is used when AppConfig.RefreshInterval is zero.
const DefaultRefreshInterval = 5 * time.Second

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		RefreshInterval: DefaultRefreshInterval,
	}
}

// yamlConfig mirrors AppConfig's on-disk shape; RefreshInterval is stored as
// a string (e.g. "5s") to stay human-editable.
type yamlConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
	Remote          string `yaml:"remote"`
	Branch          string `yaml:"branch"`
	Editor          string `yaml:"editor"`
	Pager           string `yaml:"pager"`
	DebugLog        string `yaml:"debug_log"`
	DisableWatch    bool   `yaml:"disable_watch"`
}

// LoadConfig reads the configuration file at path. An empty path resolves
// the search order: $GITSTAGE_CONFIG, then ~/.config/gitstage/config.yaml.
// A missing file is not an error; it yields DefaultConfig().
func LoadConfig(path string) (*AppConfig, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if resolved == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %q: %w", resolved, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", resolved, err)
	}

	if raw.RefreshInterval != "" {
		d, err := time.ParseDuration(raw.RefreshInterval)
		if err != nil {
			return nil, fmt.Errorf("config %q: invalid refresh_interval %q: %w", resolved, raw.RefreshInterval, err)
		}
		cfg.RefreshInterval = d
	}
	cfg.Remote = raw.Remote
	cfg.Branch = raw.Branch
	cfg.Editor = raw.Editor
	cfg.Pager = raw.Pager
	cfg.DebugLog = raw.DebugLog
	cfg.DisableWatch = raw.DisableWatch

	return cfg, nil
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if env := os.Getenv("GITSTAGE_CONFIG"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory resolvable; treat as "no config file".
		return "", nil //nolint:nilerr
	}
	return filepath.Join(home, ".config", "gitstage", "config.yaml"), nil
}
