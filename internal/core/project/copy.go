package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/webgme/webgme-setup-tool/internal/defs"
)

// CopyFile copies the bundled resource name into root/subpath, keeping the
// resource's relative path. An existing destination is overwritten. Parent
// directories are not created.
//
// CopyFile(res, root, "", "config/config.default.js") writes
// root/config/config.default.js; CopyFile(res, root, "test", "globals.js")
// writes root/test/globals.js.
func CopyFile(res fs.FS, root, subpath, name string) error {
	data, err := fs.ReadFile(res, path.Clean(name))
	if err != nil {
		return fmt.Errorf("read resource %s: %w", name, err)
	}

	dst := destination(root, subpath, name)
	if err := os.WriteFile(dst, data, defs.FilePerm); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// CopyFileIfAbsent copies like CopyFile only when the destination does not
// exist yet. It reports whether a copy happened.
func CopyFileIfAbsent(res fs.FS, root, subpath, name string) (bool, error) {
	dst := destination(root, subpath, name)
	_, err := os.Stat(dst)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat %s: %w", dst, err)
	}

	if err := CopyFile(res, root, subpath, name); err != nil {
		return false, err
	}
	return true, nil
}

func destination(root, subpath, name string) string {
	return filepath.Join(root, subpath, filepath.FromSlash(name))
}
