package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/webgme/webgme-setup-tool/internal/defs"
)

//go:embed schema/descriptor.schema.json
var descriptorSchemaBytes []byte

var (
	descriptorSchema     *jsonschema.Schema
	descriptorSchemaOnce sync.Once
	descriptorSchemaErr  error
)

// Component is one entry of a component role in the descriptor.
type Component struct {
	Src  string `json:"src"`
	Test string `json:"test,omitempty"`
}

// Descriptor is the contents of webgme-setup.json. It records the
// components added to a project, grouped by role (plugins, addons, ...),
// and the dependencies they pull in.
type Descriptor struct {
	Components   map[string]map[string]Component `json:"components"`
	Dependencies map[string]string               `json:"dependencies"`
}

// NewDescriptor returns a descriptor with empty components and dependencies.
func NewDescriptor() *Descriptor {
	return &Descriptor{
		Components:   map[string]map[string]Component{},
		Dependencies: map[string]string{},
	}
}

// Roles returns the component roles that have at least one component, sorted.
func (d *Descriptor) Roles() []string {
	roles := make([]string, 0, len(d.Components))
	for role, comps := range d.Components {
		if len(comps) > 0 {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles
}

// Bytes encodes the descriptor as two-space indented JSON. Nil maps are
// written as empty objects.
func (d *Descriptor) Bytes() ([]byte, error) {
	out := *d
	if out.Components == nil {
		out.Components = map[string]map[string]Component{}
	}
	if out.Dependencies == nil {
		out.Dependencies = map[string]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseDescriptor decodes and validates descriptor JSON.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	if err := validateDescriptor(data); err != nil {
		return nil, err
	}

	d := NewDescriptor()
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	return d, nil
}

// ReadDescriptor loads root/webgme-setup.json.
func ReadDescriptor(root string) (*Descriptor, error) {
	p := filepath.Join(root, defs.SetupJSON)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	d, err := ParseDescriptor(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return d, nil
}

// WriteDescriptor writes d to root/webgme-setup.json, overwriting.
func WriteDescriptor(root string, d *Descriptor) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	p := filepath.Join(root, defs.SetupJSON)
	if err := os.WriteFile(p, data, defs.FilePerm); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}
	return nil
}

func getDescriptorSchema() (*jsonschema.Schema, error) {
	descriptorSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(descriptorSchemaBytes))
		if err != nil {
			descriptorSchemaErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("descriptor.schema.json", doc); err != nil {
			descriptorSchemaErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		descriptorSchema, descriptorSchemaErr = c.Compile("descriptor.schema.json")
	})
	return descriptorSchema, descriptorSchemaErr
}

func validateDescriptor(data []byte) error {
	schema, err := getDescriptorSchema()
	if err != nil {
		return fmt.Errorf("loading descriptor schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	return nil
}
