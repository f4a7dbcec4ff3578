package template

import "errors"

// Sentinel errors for the template package.
var (
	// ErrTemplateNotFound indicates the named resource is not bundled.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrMissingTemplateKey indicates the render data lacks a referenced key.
	ErrMissingTemplateKey = errors.New("missing template key")

	// ErrUnexpandedToken indicates rendered output still contains template tokens.
	ErrUnexpandedToken = errors.New("unexpanded template token")
)
