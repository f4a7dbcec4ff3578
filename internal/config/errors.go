// Package config loads the webgme-setup tool configuration: a YAML file
// with typed defaults, overridden by WEBGME_SETUP_* environment variables.
package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig matches every error returned by Validate.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrInvalidYAML is returned when the config file cannot be decoded.
	ErrInvalidYAML = errors.New("config: invalid YAML syntax")
)

// FieldError describes one rejected setting.
type FieldError struct {
	Key    string // viper key, e.g. "package_manager"
	Reason string
	Value  string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s %s (got %q)", e.Key, e.Reason, e.Value)
}

func (e *FieldError) Unwrap() error { return ErrInvalidConfig }
