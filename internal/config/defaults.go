package config

import "github.com/webgme/webgme-setup-tool/internal/defs"

// NewDefaultConfig returns a Config populated with built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		PackageManager: defs.DefaultPackageManager,
		WebGMEVersion:  defs.DefaultWebGMEVersion,
	}
}
