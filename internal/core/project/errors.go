// Package project creates new WebGME projects: it checks the target,
// lays out the directory skeleton, merges the package manifest, copies the
// bundled boilerplate and writes the project descriptor.
package project

import "errors"

// Sentinel errors for the project package.
var (
	// ErrProjectExists indicates the working directory already holds a project descriptor.
	ErrProjectExists = errors.New("project already exists")

	// ErrTargetExists indicates the explicitly named target path already exists.
	ErrTargetExists = errors.New("target path already exists")

	// ErrInitFailed indicates a project initialization step failed.
	ErrInitFailed = errors.New("initialization failed")

	// ErrNotInProject indicates no project descriptor was found in the directory or its parents.
	ErrNotInProject = errors.New("not in a webgme project")

	// ErrInvalidDescriptor indicates webgme-setup.json is malformed or fails validation.
	ErrInvalidDescriptor = errors.New("invalid project descriptor")
)
