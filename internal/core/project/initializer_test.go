package project

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/webgme/webgme-setup-tool/internal/defs"
	"github.com/webgme/webgme-setup-tool/internal/manifest"
	"github.com/webgme/webgme-setup-tool/internal/template"
	"github.com/webgme/webgme-setup-tool/internal/ui"
)

// --- Test doubles ---

type recordingUpdater struct {
	roots []string
	err   error
}

func (u *recordingUpdater) Update(root string) error {
	u.roots = append(u.roots, root)
	if u.err != nil {
		return u.err
	}
	return os.WriteFile(filepath.Join(root, defs.ConfigDir, defs.WebGMEConfigJS), []byte("// generated\n"), defs.FilePerm)
}

func newTestInitializer(t *testing.T) (Initializer, *ui.CaptureLogger, *recordingUpdater) {
	t.Helper()
	res, err := template.Resources()
	if err != nil {
		t.Fatalf("Resources() error = %v", err)
	}
	out := ui.NewCaptureLogger()
	updater := &recordingUpdater{}
	merger := manifest.NewMerger(template.NewRenderer(res), "", out, nil)
	return NewInitializer(res, merger, updater, out, nil), out, updater
}

// --- Init tests ---

func TestInit_NamedTargetLayout(t *testing.T) {
	parent := t.TempDir()
	t.Chdir(parent)
	init, out, updater := newTestInitializer(t)

	result, err := init.Init(context.Background(), InitOptions{Name: "InitProject"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	root := filepath.Join(parent, "InitProject")
	if result.Root != root {
		t.Errorf("Root = %q, want %q", result.Root, root)
	}
	if result.ProjectName != "initproject" {
		t.Errorf("ProjectName = %q, want %q", result.ProjectName, "initproject")
	}

	for _, dir := range []string{defs.SrcDir, defs.TestDir, defs.ConfigDir} {
		if !dirExists(filepath.Join(root, dir)) {
			t.Errorf("expected directory %s to exist", dir)
		}
	}
	for _, file := range []string{
		defs.AppJS,
		defs.GitIgnore,
		defs.PackageJSON,
		defs.SetupJSON,
		filepath.Join(defs.TestDir, defs.GlobalsJS),
		filepath.Join(defs.ConfigDir, "config.default.js"),
		filepath.Join(defs.ConfigDir, "config.test.js"),
		filepath.Join(defs.ConfigDir, "index.js"),
		filepath.Join(defs.ConfigDir, defs.WebGMEConfigJS),
	} {
		assertFileExists(t, filepath.Join(root, file))
	}

	if len(updater.roots) != 1 || updater.roots[0] != root {
		t.Errorf("updater called with %v, want [%s]", updater.roots, root)
	}

	writes := out.Messages(ui.LevelWrite)
	if len(writes) == 0 {
		t.Fatal("expected a completion message")
	}
	want := "Created project at " + root + ".\n\nPlease run 'npm init' from the within project to finish configuration."
	if got := writes[len(writes)-1]; got != want {
		t.Errorf("completion message = %q, want %q", got, want)
	}
}

func TestInit_PackageJSON(t *testing.T) {
	t.Chdir(t.TempDir())
	init, _, _ := newTestInitializer(t)

	result, err := init.Init(context.Background(), InitOptions{Name: "InitProject"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	var pkg struct {
		Name         string            `json:"name"`
		Dependencies map[string]string `json:"dependencies"`
	}
	readJSON(t, filepath.Join(result.Root, defs.PackageJSON), &pkg)

	if pkg.Name != "initproject" {
		t.Errorf("package name = %q, want %q", pkg.Name, "initproject")
	}
	if pkg.Dependencies["webgme"] == "" {
		t.Error("expected webgme dependency in package.json")
	}
}

func TestInit_Descriptor(t *testing.T) {
	t.Chdir(t.TempDir())
	init, _, _ := newTestInitializer(t)

	result, err := init.Init(context.Background(), InitOptions{Name: "proj"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(result.Root, defs.SetupJSON))
	if err != nil {
		t.Fatalf("read descriptor: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines < 3 {
		t.Errorf("descriptor has %d lines, want a multi-line document:\n%s", lines, data)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("descriptor is not valid JSON: %v", err)
	}
	if len(raw) != 2 {
		t.Errorf("descriptor has %d top-level fields, want 2", len(raw))
	}
	for _, field := range []string{"components", "dependencies"} {
		m, ok := raw[field]
		if !ok {
			t.Errorf("descriptor missing %q", field)
			continue
		}
		if len(m) != 0 {
			t.Errorf("descriptor %q = %v, want empty", field, m)
		}
	}
}

func TestInit_TargetExists(t *testing.T) {
	parent := t.TempDir()
	t.Chdir(parent)
	init, out, _ := newTestInitializer(t)

	if _, err := init.Init(context.Background(), InitOptions{Name: "proj"}); err != nil {
		t.Fatalf("first Init() error = %v", err)
	}

	root := filepath.Join(parent, "proj")
	appJS := filepath.Join(root, defs.AppJS)
	if err := os.WriteFile(appJS, []byte("// user code\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	before := listDir(t, root)

	_, err := init.Init(context.Background(), InitOptions{Name: "proj"})
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("second Init() error = %v, want ErrTargetExists", err)
	}
	if !out.Contains(ui.LevelError, "Cannot create proj. File exists.") {
		t.Errorf("error messages = %v", out.Messages(ui.LevelError))
	}

	if after := listDir(t, root); strings.Join(after, ",") != strings.Join(before, ",") {
		t.Errorf("directory contents changed: before %v, after %v", before, after)
	}
	data, _ := os.ReadFile(appJS)
	if string(data) != "// user code\n" {
		t.Errorf("app.js was rewritten: %q", data)
	}
}

func TestInit_TargetIsFile(t *testing.T) {
	parent := t.TempDir()
	t.Chdir(parent)
	if err := os.WriteFile(filepath.Join(parent, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	init, _, _ := newTestInitializer(t)

	_, err := init.Init(context.Background(), InitOptions{Name: "notes.txt"})
	if !errors.Is(err, ErrTargetExists) {
		t.Fatalf("Init() error = %v, want ErrTargetExists", err)
	}
}

func TestInit_CurrentDirWithDescriptor(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, defs.SetupJSON), []byte(`{"components":{},"dependencies":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	init, out, updater := newTestInitializer(t)

	_, err := init.Init(context.Background(), InitOptions{})
	if !errors.Is(err, ErrProjectExists) {
		t.Fatalf("Init() error = %v, want ErrProjectExists", err)
	}
	if !out.Contains(ui.LevelError, "Cannot create project here. Project already exists.") {
		t.Errorf("error messages = %v", out.Messages(ui.LevelError))
	}
	if fileExists(filepath.Join(dir, defs.AppJS)) {
		t.Error("app.js must not be written when the project already exists")
	}
	if fileExists(filepath.Join(dir, defs.PackageJSON)) {
		t.Error("package.json must not be written when the project already exists")
	}
	if len(updater.roots) != 0 {
		t.Error("config updater must not run")
	}
}

func TestInit_CurrentDirWithUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, defs.SrcDir), 0o755); err != nil {
		t.Fatal(err)
	}
	init, _, _ := newTestInitializer(t)

	result, err := init.Init(context.Background(), InitOptions{})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	d, err := ReadDescriptor(dir)
	if err != nil {
		t.Fatalf("ReadDescriptor() error = %v", err)
	}
	if len(d.Components) != 0 || len(d.Dependencies) != 0 {
		t.Errorf("descriptor = %+v, want empty", d)
	}
	if result.ProjectName != ProjectName(dir) {
		t.Errorf("ProjectName = %q, want %q", result.ProjectName, ProjectName(dir))
	}
	assertFileExists(t, filepath.Join(dir, "README.md"))
}

func TestInit_PreservesExistingGitIgnore(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	const sentinel = "# keep me\nnode_modules/\n"
	if err := os.WriteFile(filepath.Join(dir, defs.GitIgnore), []byte(sentinel), 0o644); err != nil {
		t.Fatal(err)
	}
	init, _, _ := newTestInitializer(t)

	result, err := init.Init(context.Background(), InitOptions{})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, defs.GitIgnore))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sentinel {
		t.Errorf(".gitignore = %q, want %q", data, sentinel)
	}
	if len(result.SkippedFiles) != 1 || result.SkippedFiles[0] != defs.GitIgnore {
		t.Errorf("SkippedFiles = %v, want [%s]", result.SkippedFiles, defs.GitIgnore)
	}
}

func TestInit_MergesExistingPackageJSON(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	existing := `{"name":"old","author":"me","dependencies":{"lodash":"^4.17.21"}}`
	if err := os.WriteFile(filepath.Join(dir, defs.PackageJSON), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}
	init, _, _ := newTestInitializer(t)

	if _, err := init.Init(context.Background(), InitOptions{}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	var pkg struct {
		Name         string            `json:"name"`
		Author       string            `json:"author"`
		Dependencies map[string]string `json:"dependencies"`
	}
	readJSON(t, filepath.Join(dir, defs.PackageJSON), &pkg)
	if pkg.Author != "me" {
		t.Errorf("author = %q, want preserved", pkg.Author)
	}
	if pkg.Name != ProjectName(dir) {
		t.Errorf("name = %q, want %q", pkg.Name, ProjectName(dir))
	}
	if pkg.Dependencies["lodash"] != "^4.17.21" || pkg.Dependencies["webgme"] == "" {
		t.Errorf("dependencies = %v, want lodash and webgme", pkg.Dependencies)
	}
}

func TestInit_UnconventionalDirectoryNames(t *testing.T) {
	for _, name := range []string{"_sandbox", ".hidden"} {
		t.Run(name, func(t *testing.T) {
			parent := t.TempDir()
			t.Chdir(parent)
			init, _, _ := newTestInitializer(t)

			result, err := init.Init(context.Background(), InitOptions{Name: name})
			if err != nil {
				t.Fatalf("Init(%q) error = %v", name, err)
			}
			if result.ProjectName != name {
				t.Errorf("ProjectName = %q, want %q", result.ProjectName, name)
			}

			var pkg map[string]any
			readJSON(t, filepath.Join(parent, name, defs.PackageJSON), &pkg)
			if pkg["name"] != name {
				t.Errorf("package.json name = %v, want %q", pkg["name"], name)
			}
			assertFileExists(t, filepath.Join(parent, name, defs.SetupJSON))
		})
	}
}

func TestInit_KeepsUserOwnedManifestFields(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	existing := `{"name":"old","version":1,"private":true,"engines":{"node":[">=18"]}}`
	if err := os.WriteFile(filepath.Join(dir, defs.PackageJSON), []byte(existing), defs.FilePerm); err != nil {
		t.Fatal(err)
	}
	init, _, _ := newTestInitializer(t)

	if _, err := init.Init(context.Background(), InitOptions{}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	var pkg map[string]any
	readJSON(t, filepath.Join(dir, defs.PackageJSON), &pkg)
	if pkg["private"] != true {
		t.Errorf("private = %v, want true", pkg["private"])
	}
	if _, ok := pkg["engines"].(map[string]any); !ok {
		t.Errorf("engines = %v, want the existing object", pkg["engines"])
	}
}

func TestInit_StepFailureShortCircuits(t *testing.T) {
	t.Chdir(t.TempDir())
	res, err := template.Resources()
	if err != nil {
		t.Fatal(err)
	}
	out := ui.NewCaptureLogger()
	updater := &recordingUpdater{err: errors.New("boom")}
	merger := manifest.NewMerger(template.NewRenderer(res), "", out, nil)
	init := NewInitializer(res, merger, updater, out, nil)

	_, err = init.Init(context.Background(), InitOptions{Name: "proj"})
	if !errors.Is(err, ErrInitFailed) {
		t.Fatalf("Init() error = %v, want ErrInitFailed", err)
	}
	if len(out.Messages(ui.LevelWrite)) != 0 {
		t.Error("completion message must not be logged after a failure")
	}
}

func TestInit_InvalidVersionStopsBeforeCopy(t *testing.T) {
	parent := t.TempDir()
	t.Chdir(parent)
	res, err := template.Resources()
	if err != nil {
		t.Fatal(err)
	}
	merger := manifest.NewMerger(template.NewRenderer(res), "not-a-version", nil, nil)
	init := NewInitializer(res, merger, nil, nil, nil)

	_, err = init.Init(context.Background(), InitOptions{Name: "proj"})
	if !errors.Is(err, manifest.ErrInvalidVersion) {
		t.Fatalf("Init() error = %v, want ErrInvalidVersion", err)
	}
	if fileExists(filepath.Join(parent, "proj", defs.AppJS)) {
		t.Error("app.js must not be written after the manifest step failed")
	}
}

func TestInit_ContextCancelled(t *testing.T) {
	parent := t.TempDir()
	t.Chdir(parent)
	init, _, _ := newTestInitializer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := init.Init(ctx, InitOptions{Name: "proj"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Init() error = %v, want context.Canceled", err)
	}
	if dirExists(filepath.Join(parent, "proj")) {
		t.Error("nothing should be created for a cancelled context")
	}
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		root string
		want string
	}{
		{"/tmp/InitProject", "initproject"},
		{"/tmp/my-app", "my-app"},
		{"/tmp/ÄPFEL", "äpfel"},
		{"/tmp/nested/Dir/", "dir"},
	}
	for _, tt := range tests {
		if got := ProjectName(tt.root); got != tt.want {
			t.Errorf("ProjectName(%q) = %q, want %q", tt.root, got, tt.want)
		}
	}
}

// --- Helpers ---

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if !fileExists(path) {
		t.Errorf("expected file %s to exist", path)
	}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	var names []string
	err := filepath.WalkDir(dir, func(path string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		names = append(names, rel)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return names
}
