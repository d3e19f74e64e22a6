package migration

import (
	"strconv"
	"strings"

	"github.com/datapm/pkgcompat/pkg/packagefile"
)

// upgradeCountPrecision replaces the v0.1.0 "approximate" booleans with precision values
func upgradeCountPrecision(doc map[string]any) error {
	for _, schema := range schemasOf(doc) {
		walkSchema(schema, func(s map[string]any) {
			replaceApproximate(s, "recordCountApproximate", "recordCountPrecision")
			replaceApproximate(s, "byteCountApproximate", "byteCountPrecision")
		})
	}
	return nil
}

func replaceApproximate(s map[string]any, oldKey, newKey string) {
	raw, exists := s[oldKey]
	if !exists {
		return
	}
	delete(s, oldKey)
	if approximate, ok := raw.(bool); ok && approximate {
		s[newKey] = string(packagefile.CountPrecisionApproximate)
	} else {
		s[newKey] = string(packagefile.CountPrecisionExact)
	}
}

// upgradeInlineSources moves each schema's inline "source" into a top-level
// source with a single stream set producing that schema.
func upgradeInlineSources(doc map[string]any) error {
	sources, _ := doc["sources"].([]any)
	if sources == nil {
		sources = []any{}
	}

	for _, schema := range schemasOf(doc) {
		inline, ok := schema["source"].(map[string]any)
		delete(schema, "source")
		if !ok {
			continue
		}
		title, _ := schema["title"].(string)

		protocol := inline["protocol"]
		if protocol == nil {
			protocol = inline["type"]
		}
		stats := map[string]any{
			"inspectedCount": inspectedCount(schema),
		}
		if rc, ok := schema["recordCount"]; ok {
			stats["expectedRecordCount"] = rc
			if p, ok := schema["recordCountPrecision"]; ok {
				stats["expectedRecordCountPrecision"] = p
			}
		}
		if bc, ok := schema["byteCount"]; ok {
			stats["expectedBytesCount"] = bc
			if p, ok := schema["byteCountPrecision"]; ok {
				stats["expectedBytesCountPrecision"] = p
			}
		}

		streamSet := map[string]any{
			"slug":         title,
			"schemaTitles": []any{title},
			"streamStats":  stats,
		}
		if hash, ok := inline["lastUpdateHash"].(string); ok && hash != "" {
			streamSet["lastUpdateHash"] = hash
		}

		source := map[string]any{
			"slug":       title,
			"protocol":   protocol,
			"uri":        inline["uri"],
			"streamSets": []any{streamSet},
		}
		if configuration, ok := inline["configuration"].(map[string]any); ok && len(configuration) > 0 {
			source["configuration"] = configuration
		}
		sources = append(sources, source)
	}

	doc["sources"] = sources
	return nil
}

func inspectedCount(schema map[string]any) any {
	if v, ok := schema["recordsInspectedCount"]; ok {
		delete(schema, "recordsInspectedCount")
		return v
	}
	if v, ok := schema["recordCount"]; ok {
		return v
	}
	return 0
}

// upgradeNumericStatistics repairs number bounds that older writers
// serialized as strings. Values that do not parse are dropped.
func upgradeNumericStatistics(doc map[string]any) error {
	for _, schema := range schemasOf(doc) {
		walkSchema(schema, func(s map[string]any) {
			valueTypes, ok := s["valueTypes"].(map[string]any)
			if !ok {
				return
			}
			for _, vt := range valueTypes {
				stats, ok := vt.(map[string]any)
				if !ok {
					continue
				}
				repairNumber(stats, "numberMaxValue")
				repairNumber(stats, "numberMinValue")
			}
		})
	}
	return nil
}

func repairNumber(stats map[string]any, key string) {
	raw, ok := stats[key].(string)
	if !ok {
		return
	}
	raw = strings.TrimSpace(raw)
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		stats[key] = i
		return
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		stats[key] = f
		return
	}
	delete(stats, key)
}

// upgradeDerivedFrom turns plain URL entries into objects
func upgradeDerivedFrom(doc map[string]any) error {
	for _, schema := range schemasOf(doc) {
		walkSchema(schema, func(s map[string]any) {
			entries, ok := s["derivedFrom"].([]any)
			if !ok {
				return
			}
			for i, entry := range entries {
				if url, ok := entry.(string); ok {
					entries[i] = map[string]any{"url": url}
				}
			}
		})
	}
	return nil
}

// upgradeSourceURIs renames protocol to type and wraps the single uri
func upgradeSourceURIs(doc map[string]any) error {
	sources, _ := doc["sources"].([]any)
	for _, raw := range sources {
		source, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if protocol, exists := source["protocol"]; exists {
			if _, hasType := source["type"]; !hasType {
				source["type"] = protocol
			}
			delete(source, "protocol")
		}
		if uri, exists := source["uri"]; exists {
			if _, hasURIs := source["uris"]; !hasURIs {
				if s, ok := uri.(string); ok && s != "" {
					source["uris"] = []any{s}
				}
			}
			delete(source, "uri")
		}
		if _, hasURIs := source["uris"]; !hasURIs {
			source["uris"] = []any{}
		}
	}
	return nil
}

func schemasOf(doc map[string]any) []map[string]any {
	list, _ := doc["schemas"].([]any)
	schemas := make([]map[string]any, 0, len(list))
	for _, raw := range list {
		if s, ok := raw.(map[string]any); ok {
			schemas = append(schemas, s)
		}
	}
	return schemas
}

// walkSchema visits a schema and all of its nested properties, depth first
func walkSchema(schema map[string]any, visit func(map[string]any)) {
	visit(schema)
	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return
	}
	for _, raw := range properties {
		if child, ok := raw.(map[string]any); ok {
			walkSchema(child, visit)
		}
	}
}
