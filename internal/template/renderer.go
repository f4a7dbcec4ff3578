package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"
)

// Renderer expands bundled templates.
type Renderer interface {
	// Render executes the template stored at name with data. A field
	// missing from data yields ErrMissingTemplateKey; output still holding
	// ${VAR} or {{.Var}} yields ErrUnexpandedToken.
	Render(name string, data any) ([]byte, error)
}

// funcs are available to every template.
var funcs = template.FuncMap{
	"jsonEscape": jsonEscape,
	"jsString":   jsString,
}

// jsonEscape returns s encoded for use inside a JSON string literal,
// without the surrounding quotes.
func jsonEscape(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(b[1 : len(b)-1])
}

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// jsString returns s as a single-quoted JavaScript string literal.
func jsString(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}

var leftoverToken = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}|\{\{\.?[A-Za-z_][A-Za-z0-9_.]*\}\}`)

type fsRenderer struct {
	fsys fs.FS

	mu     sync.Mutex
	parsed map[string]*template.Template
}

// NewRenderer returns a Renderer reading templates from fsys. Each
// template is parsed once and reused.
func NewRenderer(fsys fs.FS) Renderer {
	return &fsRenderer{fsys: fsys, parsed: make(map[string]*template.Template)}
}

func (r *fsRenderer) lookup(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.parsed[name]; ok {
		return tmpl, nil
	}
	src, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
		}
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	r.parsed[name] = tmpl
	return tmpl, nil
}

func (r *fsRenderer) Render(name string, data any) ([]byte, error) {
	tmpl, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}
	if tok := leftoverToken.Find(out.Bytes()); tok != nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrUnexpandedToken, tok, name)
	}
	return out.Bytes(), nil
}
