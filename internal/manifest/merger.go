package manifest

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/webgme/webgme-setup-tool/internal/defs"
	"github.com/webgme/webgme-setup-tool/internal/template"
	"github.com/webgme/webgme-setup-tool/internal/ui"
)

// TemplateData is the data the package template is rendered with.
type TemplateData struct {
	Name          string
	WebGMEVersion string
}

// Merger renders the bundled package template and merges it into a
// project's package.json.
type Merger struct {
	renderer      template.Renderer
	webgmeVersion string
	out           ui.Logger
	logger        *slog.Logger
}

// NewMerger creates a Merger. webgmeVersion is the constraint written for
// the framework dependency; empty means defs.DefaultWebGMEVersion.
func NewMerger(renderer template.Renderer, webgmeVersion string, out ui.Logger, logger *slog.Logger) *Merger {
	if webgmeVersion == "" {
		webgmeVersion = defs.DefaultWebGMEVersion
	}
	if out == nil {
		out = ui.Discard{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Merger{renderer: renderer, webgmeVersion: webgmeVersion, out: out, logger: logger}
}

// Render produces the template manifest for a project name.
func (m *Merger) Render(name string) (*Manifest, error) {
	if _, err := semver.NewConstraint(m.webgmeVersion); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, m.webgmeVersion, err)
	}

	data, err := m.renderer.Render(defs.PackageTemplate, TemplateData{
		Name:          name,
		WebGMEVersion: m.webgmeVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("render package template: %w", err)
	}

	tmpl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("package template: %w", err)
	}
	return tmpl, nil
}

// WriteMerged merges the rendered template into root/package.json (or an
// empty manifest when the file is absent), validates the result and
// writes it back.
func (m *Merger) WriteMerged(root, name string) (*Manifest, error) {
	tmpl, err := m.Render(name)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(root, defs.PackageJSON)
	original, err := LoadOrEmpty(path)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("loaded existing manifest", "path", path, "fields", original.Len())

	merged, err := Merge(original, tmpl)
	if err != nil {
		return nil, err
	}
	if err := Validate(merged); err != nil {
		return nil, err
	}

	m.out.Info("Writing package.json to " + path)
	m.logger.Debug("writing merged manifest", "path", path, "fields", merged.Keys())
	if err := merged.Save(path, defs.FilePerm); err != nil {
		return nil, err
	}
	return merged, nil
}
