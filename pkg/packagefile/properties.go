package packagefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// PropertyMap maps property titles to their schemas and remembers the
// order in which the properties were declared.
type PropertyMap struct {
	keys   []string
	values map[string]*Schema
}

// NewPropertyMap creates an empty property map
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{values: make(map[string]*Schema)}
}

// Set adds or replaces a property. New keys are appended to the order.
func (m *PropertyMap) Set(key string, schema *Schema) {
	if m.values == nil {
		m.values = make(map[string]*Schema)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = schema
}

// Get returns the property with the given key
func (m *PropertyMap) Get(key string) (*Schema, bool) {
	if m == nil {
		return nil, false
	}
	s, ok := m.values[key]
	return s, ok
}

// Has reports whether key is present
func (m *PropertyMap) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the property keys in declaration order
func (m *PropertyMap) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Len returns the number of properties
func (m *PropertyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Reorder moves the listed keys to the front, in the given order. Keys not
// present are ignored; keys not listed keep their relative order at the end.
func (m *PropertyMap) Reorder(order []string) {
	if m == nil {
		return
	}
	seen := make(map[string]bool, len(m.keys))
	keys := make([]string, 0, len(m.keys))
	for _, k := range order {
		if _, ok := m.values[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	for _, k := range m.keys {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	m.keys = keys
}

// MarshalJSON writes properties in declaration order
func (m PropertyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads properties keeping document order
func (m *PropertyMap) UnmarshalJSON(data []byte) error {
	keys, raw, err := objectEntries(data)
	if err != nil {
		return fmt.Errorf("invalid properties: %w", err)
	}
	*m = PropertyMap{keys: make([]string, 0, len(keys)), values: make(map[string]*Schema, len(keys))}
	for _, key := range keys {
		var s Schema
		if err := json.Unmarshal(raw[key], &s); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		m.Set(key, &s)
	}
	return nil
}

// objectEntries decodes a JSON object into its keys, in document order, and
// the raw value of each key. Duplicate keys keep the last value and the first
// position.
func objectEntries(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}
