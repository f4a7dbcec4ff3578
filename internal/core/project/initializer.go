package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/webgme/webgme-setup-tool/internal/defs"
	"github.com/webgme/webgme-setup-tool/internal/manifest"
	"github.com/webgme/webgme-setup-tool/internal/ui"
)

// InitOptions configures project creation.
type InitOptions struct {
	// Name is the target directory, relative to the working directory or
	// absolute. Empty means the working directory itself.
	Name string
}

// InitResult summarizes the outcome of project initialization.
type InitResult struct {
	Root         string   // Absolute project root.
	ProjectName  string   // Package name written to package.json.
	CreatedDirs  []string // Directories ensured, relative to Root.
	CreatedFiles []string // Files written, relative to Root.
	SkippedFiles []string // Conditional copies left alone because the file existed.
}

// ConfigUpdater regenerates the framework config of a project from its
// descriptor.
type ConfigUpdater interface {
	Update(root string) error
}

// Initializer handles project scaffolding.
type Initializer interface {
	// Init creates a new project. Steps run in order and the first failure
	// is returned; nothing after it runs.
	Init(ctx context.Context, opts InitOptions) (*InitResult, error)
}

type projectInitializer struct {
	resources fs.FS
	merger    *manifest.Merger
	updater   ConfigUpdater
	out       ui.Logger
	logger    *slog.Logger
}

// NewInitializer creates an Initializer. resources holds the bundled
// boilerplate (see template.Resources). updater may be nil, in which case
// the config regeneration step is skipped.
func NewInitializer(resources fs.FS, merger *manifest.Merger, updater ConfigUpdater, out ui.Logger, logger *slog.Logger) Initializer {
	if out == nil {
		out = ui.Discard{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &projectInitializer{
		resources: resources,
		merger:    merger,
		updater:   updater,
		out:       out,
		logger:    logger,
	}
}

var projectNameCaser = cases.Lower(language.Und)

// ProjectName derives the package name from a project root: the last path
// segment, NFC-normalized and lower-cased.
func ProjectName(root string) string {
	return projectNameCaser.String(norm.NFC.String(filepath.Base(root)))
}

// Init creates a new project.
func (i *projectInitializer) Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		i.out.Error("Error: " + err.Error())
		return nil, fmt.Errorf("%w: get working directory: %w", ErrInitFailed, err)
	}
	root := cwd
	if opts.Name != "" {
		if root, err = filepath.Abs(opts.Name); err != nil {
			i.out.Error("Error: " + err.Error())
			return nil, fmt.Errorf("%w: resolve %s: %w", ErrInitFailed, opts.Name, err)
		}
	}
	result := &InitResult{Root: root, ProjectName: ProjectName(root)}

	i.out.Info("Creating new project at " + root)
	i.logger.Info("initializing project", "root", root, "name", result.ProjectName)

	// Step 1: Preconditions. Nothing is written when these fail.
	if err := i.checkTarget(cwd, root, opts.Name); err != nil {
		return nil, err
	}

	// Step 2: Project root
	if err := os.MkdirAll(root, defs.DirPerm); err != nil {
		i.out.Error("Error: " + err.Error())
		return nil, fmt.Errorf("%w: create %s: %w", ErrInitFailed, root, err)
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"write package.json", func() error { return i.writeManifest(result) }},
		{"create directories", func() error { return i.createBaseDirs(result) }},
		{"copy config files", func() error { return i.copyConfigFiles(result) }},
		{"copy boilerplate", func() error { return i.copyBoilerplate(result) }},
		{"write descriptor", func() error { return i.writeDescriptor(result) }},
		{"update config", func() error { return i.updateConfig(result) }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.run(); err != nil {
			i.logger.Error("init step failed", "step", step.name, "error", err)
			i.out.Error("Error: " + err.Error())
			return nil, fmt.Errorf("%w: %s: %w", ErrInitFailed, step.name, err)
		}
		i.logger.Debug("init step done", "step", step.name)
	}

	i.out.Write("Created project at " + root + ".\n\n" +
		"Please run 'npm init' from the within project to finish configuration.")
	i.logger.Info("project initialized",
		"dirs", len(result.CreatedDirs),
		"files", len(result.CreatedFiles),
		"skipped", len(result.SkippedFiles),
	)
	return result, nil
}

// checkTarget enforces the creation preconditions. Without a name the
// working directory must not already hold a descriptor; with a name the
// target path must not exist at all.
func (i *projectInitializer) checkTarget(cwd, root, name string) error {
	if name == "" {
		exists, err := HasDescriptor(cwd)
		if err != nil {
			i.out.Error("Error: " + err.Error())
			return fmt.Errorf("%w: stat descriptor: %w", ErrInitFailed, err)
		}
		if exists {
			i.out.Error("Cannot create project here. Project already exists.")
			return fmt.Errorf("%w: %s", ErrProjectExists, cwd)
		}
		return nil
	}

	_, err := os.Lstat(root)
	if err == nil {
		i.out.Error("Cannot create " + name + ". File exists.")
		return fmt.Errorf("%w: %s", ErrTargetExists, root)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		i.out.Error("Error: " + err.Error())
		return fmt.Errorf("%w: stat %s: %w", ErrInitFailed, root, err)
	}
	return nil
}

func (i *projectInitializer) writeManifest(result *InitResult) error {
	if i.merger == nil {
		return errors.New("manifest merger not configured")
	}
	if _, err := i.merger.WriteMerged(result.Root, result.ProjectName); err != nil {
		return err
	}
	result.CreatedFiles = append(result.CreatedFiles, defs.PackageJSON)
	return nil
}

// createBaseDirs ensures src/ and test/. Existing directories are fine so
// that init in a populated working directory succeeds.
func (i *projectInitializer) createBaseDirs(result *InitResult) error {
	for _, dir := range []string{defs.SrcDir, defs.TestDir} {
		if err := os.MkdirAll(filepath.Join(result.Root, dir), defs.DirPerm); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
		result.CreatedDirs = append(result.CreatedDirs, dir)
	}
	return nil
}

// copyConfigFiles copies every file of the bundled config/ directory.
func (i *projectInitializer) copyConfigFiles(result *InitResult) error {
	if err := os.MkdirAll(filepath.Join(result.Root, defs.ConfigDir), defs.DirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", defs.ConfigDir, err)
	}
	result.CreatedDirs = append(result.CreatedDirs, defs.ConfigDir)

	entries, err := fs.ReadDir(i.resources, defs.ConfigDir)
	if err != nil {
		return fmt.Errorf("list bundled config: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := path.Join(defs.ConfigDir, entry.Name())
		if err := CopyFile(i.resources, result.Root, "", name); err != nil {
			return err
		}
		result.CreatedFiles = append(result.CreatedFiles, filepath.FromSlash(name))
	}
	return nil
}

func (i *projectInitializer) copyBoilerplate(result *InitResult) error {
	if err := CopyFile(i.resources, result.Root, "", defs.AppJS); err != nil {
		return err
	}
	result.CreatedFiles = append(result.CreatedFiles, defs.AppJS)

	if err := CopyFile(i.resources, result.Root, defs.TestDir, defs.GlobalsJS); err != nil {
		return err
	}
	result.CreatedFiles = append(result.CreatedFiles, filepath.Join(defs.TestDir, defs.GlobalsJS))

	copied, err := CopyFileIfAbsent(i.resources, result.Root, "", defs.GitIgnore)
	if err != nil {
		return err
	}
	if copied {
		result.CreatedFiles = append(result.CreatedFiles, defs.GitIgnore)
	} else {
		i.logger.Debug("kept existing file", "file", defs.GitIgnore)
		result.SkippedFiles = append(result.SkippedFiles, defs.GitIgnore)
	}
	return nil
}

func (i *projectInitializer) writeDescriptor(result *InitResult) error {
	if err := WriteDescriptor(result.Root, NewDescriptor()); err != nil {
		return err
	}
	result.CreatedFiles = append(result.CreatedFiles, defs.SetupJSON)
	return nil
}

func (i *projectInitializer) updateConfig(result *InitResult) error {
	if i.updater == nil {
		i.logger.Debug("no config updater configured")
		return nil
	}
	if err := i.updater.Update(result.Root); err != nil {
		return err
	}
	result.CreatedFiles = append(result.CreatedFiles, filepath.Join(defs.ConfigDir, defs.WebGMEConfigJS))
	return nil
}
