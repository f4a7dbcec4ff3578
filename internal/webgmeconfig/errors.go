// Package webgmeconfig regenerates config/config.webgme.js from a
// project's webgme-setup.json.
package webgmeconfig

import "errors"

// ErrInvalidComponent indicates a descriptor component whose source path
// cannot be turned into a config entry.
var ErrInvalidComponent = errors.New("invalid component path")
