package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Dependency fields are merged key-wise instead of being replaced.
const (
	FieldDependencies    = "dependencies"
	FieldDevDependencies = "devDependencies"
)

// DependencyFields lists the fields Merge unions key by key.
var DependencyFields = []string{FieldDependencies, FieldDevDependencies}

// Manifest is a package.json document that preserves top-level key order.
// Values are kept as raw JSON so nested objects round-trip untouched.
type Manifest struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{fields: orderedmap.New[string, json.RawMessage]()}
}

// Parse decodes a JSON object into a Manifest.
func Parse(data []byte) (*Manifest, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top level must be a JSON object", ErrInvalidManifest)
	}

	m := New()
	if err := json.Unmarshal(trimmed, m.fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return m, nil
}

// Load reads the manifest at path from disk. Every call reads the file
// afresh; nothing is cached between calls. The error wraps os.ErrNotExist
// when the file is absent.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadOrEmpty is Load, but an absent file yields an empty manifest.
func LoadOrEmpty(path string) (*Manifest, error) {
	m, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	return m, err
}

// Len returns the number of top-level fields.
func (m *Manifest) Len() int {
	return m.fields.Len()
}

// Keys returns the top-level field names in document order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, m.fields.Len())
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Get returns the raw JSON value of a top-level field.
func (m *Manifest) Get(key string) (json.RawMessage, bool) {
	return m.fields.Get(key)
}

// Set stores value (marshalled to JSON) under key. Existing keys keep
// their position; new keys are appended.
func (m *Manifest) Set(key string, value any) error {
	raw, ok := value.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		raw = b
	}
	m.fields.Set(key, raw)
	return nil
}

// String decodes a string field; ok is false when absent or not a string.
func (m *Manifest) String(key string) (string, bool) {
	raw, found := m.fields.Get(key)
	if !found {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Name returns the package name, or "" when unset.
func (m *Manifest) Name() string {
	name, _ := m.String("name")
	return name
}

// Dependencies decodes a dependency map field. An absent field yields an
// empty map.
func (m *Manifest) Dependencies(field string) (*orderedmap.OrderedMap[string, string], error) {
	deps := orderedmap.New[string, string]()
	raw, found := m.fields.Get(field)
	if !found || string(bytes.TrimSpace(raw)) == "null" {
		return deps, nil
	}
	if err := json.Unmarshal(raw, deps); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDependencies, field, err)
	}
	return deps, nil
}

// MarshalJSON encodes the manifest preserving key order. Values are
// emitted as stored, without HTML escaping.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var out bytes.Buffer
	out.WriteByte('{')
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		if out.Len() > 1 {
			out.WriteByte(',')
		}
		buf.Reset()
		if err := enc.Encode(pair.Key); err != nil {
			return nil, fmt.Errorf("encode key %q: %w", pair.Key, err)
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
		out.WriteByte(':')
		if err := json.Compact(&out, pair.Value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", pair.Key, err)
		}
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// Bytes encodes the manifest as two-space indented JSON with a trailing newline.
func (m *Manifest) Bytes() ([]byte, error) {
	compact, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("indent manifest: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Save writes the manifest to path, overwriting any existing file.
func (m *Manifest) Save(path string, perm os.FileMode) error {
	data, err := m.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
