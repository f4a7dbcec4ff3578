// Package manifest models the npm package manifest (package.json) of a
// generated project and merges the bundled manifest template into an
// existing one.
package manifest

import "errors"

// Sentinel errors for the manifest package.
var (
	// ErrInvalidManifest indicates the manifest is not a JSON object or fails schema validation.
	ErrInvalidManifest = errors.New("invalid package manifest")

	// ErrInvalidDependencies indicates a dependency field is not an object of strings.
	ErrInvalidDependencies = errors.New("invalid dependency map")

	// ErrInvalidVersion indicates the framework version pin is not a semver constraint.
	ErrInvalidVersion = errors.New("invalid framework version constraint")
)
