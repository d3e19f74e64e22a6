package packagefile

import (
	"encoding/json"
	"fmt"
)

// Decode converts a raw, current-version document into a PackageFile.
// Go maps carry no order, so properties come out sorted by key.
func Decode(doc map[string]any) (*PackageFile, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode package file: %w", err)
	}
	return DecodeJSON(data)
}

// DecodeJSON decodes a current-version package file, keeping property order
func DecodeJSON(data []byte) (*PackageFile, error) {
	var pf PackageFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to decode package file: %w", err)
	}
	return &pf, nil
}

// Encode writes a PackageFile as indented JSON
func Encode(pf *PackageFile) ([]byte, error) {
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode package file: %w", err)
	}
	return data, nil
}

// RestorePropertyOrder reorders the properties of pf to match the order in
// which they appear in the original document. Top-level schemas are matched
// by title, nested properties by key.
func RestorePropertyOrder(pf *PackageFile, original []byte) error {
	var doc struct {
		Schemas []json.RawMessage `json:"schemas"`
	}
	if err := json.Unmarshal(original, &doc); err != nil {
		return fmt.Errorf("failed to read property order: %w", err)
	}
	for _, raw := range doc.Schemas {
		var header struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(raw, &header); err != nil {
			return fmt.Errorf("failed to read property order: %w", err)
		}
		if schema, ok := pf.FindSchema(header.Title); ok {
			if err := restoreSchemaOrder(schema, raw); err != nil {
				return fmt.Errorf("schema %q: %w", header.Title, err)
			}
		}
	}
	return nil
}

func restoreSchemaOrder(schema *Schema, raw json.RawMessage) error {
	if schema.Properties == nil {
		return nil
	}
	var node struct {
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &node); err != nil {
		return err
	}
	if len(node.Properties) == 0 || string(node.Properties) == "null" {
		return nil
	}
	keys, values, err := objectEntries(node.Properties)
	if err != nil {
		return err
	}
	schema.Properties.Reorder(keys)
	for _, key := range keys {
		child, ok := schema.Properties.Get(key)
		if !ok || child == nil {
			continue
		}
		if err := restoreSchemaOrder(child, values[key]); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
	}
	return nil
}
