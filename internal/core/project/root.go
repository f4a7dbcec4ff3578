package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/webgme/webgme-setup-tool/internal/defs"
)

// FindProjectRoot locates the project root by searching dir and its
// parents for a project descriptor. The returned path is absolute.
func FindProjectRoot(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for {
		if info, err := os.Stat(filepath.Join(absDir, defs.SetupJSON)); err == nil && !info.IsDir() {
			return absDir, nil
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return "", fmt.Errorf("%w: no %s found in %s or any parent directory", ErrNotInProject, defs.SetupJSON, dir)
		}
		absDir = parent
	}
}

// FindProjectRootOrCurrent is like FindProjectRoot but falls back to the
// absolute form of dir when no descriptor is found.
func FindProjectRootOrCurrent(dir string) (string, error) {
	if root, err := FindProjectRoot(dir); err == nil {
		return root, nil
	}
	return filepath.Abs(dir)
}

// HasDescriptor reports whether dir directly contains a project descriptor.
func HasDescriptor(dir string) (bool, error) {
	_, err := os.Stat(filepath.Join(dir, defs.SetupJSON))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
