package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the user configuration file location
// ($XDG_CONFIG_HOME/webgme-setup/config.yaml or the platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "webgme-setup", "config.yaml")
}

// Loader reads the tool configuration.
type Loader struct {
	logger *slog.Logger
	env    *viper.Viper
}

// NewLoader creates a Loader. A nil logger uses slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	env := viper.New()
	env.SetEnvPrefix(EnvPrefix)
	for _, key := range []string{KeyPackageManager, KeyWebGMEVersion, KeyNoColor} {
		_ = env.BindEnv(key)
	}

	return &Loader{logger: logger, env: env}
}

// Load reads path (a missing file yields defaults), applies environment
// overrides, and validates the result.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	loaded, err := loadYAMLFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if !loaded {
		l.logger.Debug("config file not found, using defaults", "path", path)
	}

	l.applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	if l.env.IsSet(KeyPackageManager) {
		cfg.PackageManager = l.env.GetString(KeyPackageManager)
	}
	if l.env.IsSet(KeyWebGMEVersion) {
		cfg.WebGMEVersion = l.env.GetString(KeyWebGMEVersion)
	}
	if l.env.IsSet(KeyNoColor) {
		cfg.NoColor = l.env.GetBool(KeyNoColor)
	}
}

// loadYAMLFile unmarshals path into target. It reports false without error
// when the file does not exist.
func loadYAMLFile(path string, target any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("parse %s: %w: %v", path, ErrInvalidYAML, err)
	}

	return true, nil
}
