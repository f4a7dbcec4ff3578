package config

import (
	"errors"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Validate checks that every field holds a usable value. All problems are
// reported together; each one is a *FieldError.
func Validate(cfg *Config) error {
	var errs []error

	switch pm := cfg.PackageManager; {
	case strings.TrimSpace(pm) == "":
		errs = append(errs, &FieldError{Key: KeyPackageManager, Reason: "must not be empty"})
	case strings.ContainsAny(pm, " \t\n"):
		errs = append(errs, &FieldError{Key: KeyPackageManager, Reason: "must be a single executable name or path", Value: pm})
	}

	if _, err := semver.NewConstraint(cfg.WebGMEVersion); err != nil {
		errs = append(errs, &FieldError{Key: KeyWebGMEVersion, Reason: "must be a semver constraint: " + err.Error(), Value: cfg.WebGMEVersion})
	}

	return errors.Join(errs...)
}
