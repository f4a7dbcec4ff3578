package defs

import "os"

// Filesystem permissions for generated files and directories.
const (
	DirPerm  os.FileMode = 0o755
	FilePerm os.FileMode = 0o644
)
