package webgmeconfig

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/webgme/webgme-setup-tool/internal/core/project"
	"github.com/webgme/webgme-setup-tool/internal/defs"
	"github.com/webgme/webgme-setup-tool/internal/template"
	"github.com/webgme/webgme-setup-tool/internal/ui"
)

//go:embed templates/config.webgme.js.tmpl
var templatesFS embed.FS

const configTemplate = "config.webgme.js.tmpl"

// MongoHost is the database server every generated project points at.
const MongoHost = "mongodb://127.0.0.1:27017"

// roleTargets maps a descriptor component role to the config array its
// base paths are pushed onto. Order is the order of the generated file.
type roleTarget struct {
	role   string
	target string
}

var roleTargets = []roleTarget{
	{"plugins", "config.plugin.basePaths"},
	{"addons", "config.addOn.basePaths"},
	{"layouts", "config.visualization.layout.basePaths"},
	{"decorators", "config.visualization.decoratorPaths"},
	{"seeds", "config.seedProjects.basePaths"},
	{"visualizers", "config.visualization.panelPaths"},
}

const (
	roleAddOns      = "addons"
	roleRouters     = "routers"
	roleVisualizers = "visualizers"
)

// BasePath is one push onto a config path array.
type BasePath struct {
	Target string
	Path   string
}

// Router is a REST component registration.
type Router struct {
	Mount string
	Path  string
}

// ConfigData is the data config.webgme.js is rendered from.
type ConfigData struct {
	BasePaths     []BasePath
	AddOnsEnabled bool
	Routers       []Router
	Visualizers   bool
	MongoURI      string
}

// Updater writes config/config.webgme.js.
type Updater struct {
	renderer template.Renderer
	out      ui.Logger
	logger   *slog.Logger
}

// NewUpdater creates an Updater.
func NewUpdater(out ui.Logger, logger *slog.Logger) *Updater {
	if out == nil {
		out = ui.Discard{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("webgmeconfig: embedded templates: %v", err))
	}
	return &Updater{renderer: template.NewRenderer(sub), out: out, logger: logger}
}

// Update regenerates root/config/config.webgme.js from root/webgme-setup.json.
func Update(root string) error {
	return NewUpdater(nil, nil).Update(root)
}

// Update regenerates root/config/config.webgme.js from root/webgme-setup.json.
func (u *Updater) Update(root string) error {
	d, err := project.ReadDescriptor(root)
	if err != nil {
		return err
	}

	for _, role := range d.Roles() {
		if !knownRole(role) {
			u.out.Info("Ignoring components with unknown role " + role)
		}
	}

	data, err := BuildConfigData(d, project.ProjectName(root))
	if err != nil {
		return err
	}
	content, err := u.Render(data)
	if err != nil {
		return err
	}

	dir := filepath.Join(root, defs.ConfigDir)
	if err := os.MkdirAll(dir, defs.DirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	dst := filepath.Join(dir, defs.WebGMEConfigJS)
	if err := os.WriteFile(dst, content, defs.FilePerm); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	u.out.Info("Updated config at " + dst)
	u.logger.Debug("config regenerated", "path", dst, "basePaths", len(data.BasePaths), "routers", len(data.Routers))
	return nil
}

// Render produces the contents of config.webgme.js.
func (u *Updater) Render(data *ConfigData) ([]byte, error) {
	content, err := u.renderer.Render(configTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", defs.WebGMEConfigJS, err)
	}
	return content, nil
}

// BuildConfigData turns a descriptor into template data. Base paths per
// role are the sorted, deduplicated parent directories of each
// component's src.
func BuildConfigData(d *project.Descriptor, projectName string) (*ConfigData, error) {
	data := &ConfigData{MongoURI: MongoHost + "/" + projectName}

	for _, rt := range roleTargets {
		paths, err := basePaths(d.Components[rt.role])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rt.role, err)
		}
		for _, p := range paths {
			data.BasePaths = append(data.BasePaths, BasePath{Target: rt.target, Path: p})
		}
	}
	data.AddOnsEnabled = len(d.Components[roleAddOns]) > 0
	data.Visualizers = len(d.Components[roleVisualizers]) > 0

	routers := d.Components[roleRouters]
	names := make([]string, 0, len(routers))
	for name := range routers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		src, err := cleanSrc(routers[name].Src)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", roleRouters, name, err)
		}
		data.Routers = append(data.Routers, Router{
			Mount: roleRouters + "/" + name,
			Path:  "/../" + src + "/" + name + ".js",
		})
	}

	return data, nil
}

func knownRole(role string) bool {
	if role == roleRouters {
		return true
	}
	return slices.ContainsFunc(roleTargets, func(rt roleTarget) bool { return rt.role == role })
}

func basePaths(components map[string]project.Component) ([]string, error) {
	var paths []string
	for name, c := range components {
		src, err := cleanSrc(c.Src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		paths = append(paths, path.Dir(src))
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}

// cleanSrc normalizes a descriptor src to a clean, slash-separated path
// relative to the project root.
func cleanSrc(src string) (string, error) {
	p := path.Clean(strings.ReplaceAll(src, `\`, "/"))
	if p == "." || path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidComponent, src)
	}
	return p, nil
}
