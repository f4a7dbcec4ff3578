package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Merge combines an existing manifest with a rendered template.
//
// Top-level fields form a shallow union where the template wins on
// collision. The fields in DependencyFields are instead unioned key by key,
// again with the template winning per key. Neither input is modified.
// Key order follows original first, then keys the template introduces.
func Merge(original, tmpl *Manifest) (*Manifest, error) {
	if original == nil {
		original = New()
	}
	if tmpl == nil {
		tmpl = New()
	}

	merged := New()
	for pair := original.fields.Oldest(); pair != nil; pair = pair.Next() {
		merged.fields.Set(pair.Key, pair.Value)
	}
	for pair := tmpl.fields.Oldest(); pair != nil; pair = pair.Next() {
		if slices.Contains(DependencyFields, pair.Key) {
			continue
		}
		merged.fields.Set(pair.Key, pair.Value)
	}

	for _, field := range DependencyFields {
		_, inOriginal := original.Get(field)
		_, inTemplate := tmpl.Get(field)
		if !inOriginal && !inTemplate {
			continue
		}

		deps, err := mergeDependencies(original, tmpl, field)
		if err != nil {
			return nil, err
		}
		raw, err := encodeStringMap(deps)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", field, err)
		}
		merged.fields.Set(field, raw)
	}

	return merged, nil
}

func mergeDependencies(original, tmpl *Manifest, field string) (*orderedmap.OrderedMap[string, string], error) {
	base, err := original.Dependencies(field)
	if err != nil {
		return nil, fmt.Errorf("existing manifest: %w", err)
	}
	overlay, err := tmpl.Dependencies(field)
	if err != nil {
		return nil, fmt.Errorf("template manifest: %w", err)
	}
	for pair := overlay.Oldest(); pair != nil; pair = pair.Next() {
		base.Set(pair.Key, pair.Value)
	}
	return base, nil
}

// encodeStringMap encodes an ordered string map as a compact JSON object
// without HTML escaping, so constraints such as ">=1.0.0 <2" stay readable.
func encodeStringMap(m *orderedmap.OrderedMap[string, string]) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	var out bytes.Buffer
	out.WriteByte('{')
	first := true
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			out.WriteByte(',')
		}
		first = false
		for i, s := range []string{pair.Key, pair.Value} {
			buf.Reset()
			if err := enc.Encode(s); err != nil {
				return nil, err
			}
			out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
			if i == 0 {
				out.WriteByte(':')
			}
		}
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}
