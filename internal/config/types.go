package config

// Config is the tool configuration.
type Config struct {
	// PackageManager is the binary invoked for install and start.
	PackageManager string `yaml:"package_manager"`

	// WebGMEVersion is the version constraint written into new manifests.
	WebGMEVersion string `yaml:"webgme_version"`

	// NoColor disables styled terminal output.
	NoColor bool `yaml:"no_color"`
}

// Configuration keys, shared by the YAML file and the environment.
const (
	KeyPackageManager = "package_manager"
	KeyWebGMEVersion  = "webgme_version"
	KeyNoColor        = "no_color"
)

// EnvPrefix prefixes every environment override (WEBGME_SETUP_PACKAGE_MANAGER, ...).
const EnvPrefix = "WEBGME_SETUP"
