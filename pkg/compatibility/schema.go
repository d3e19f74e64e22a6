package compatibility

import (
	"errors"
	"fmt"

	"github.com/datapm/pkgcompat/pkg/packagefile"
)

// ErrPropertiesMissing is returned when an object schema is compared but one
// side carries no properties map
var ErrPropertiesMissing = errors.New("object schema has no properties")

// CompareSchemas pairs schemas by title. Schemas missing from next are
// reported as REMOVE_SCHEMA, or REMOVE_HIDDEN_SCHEMA when hidden. Null
// entries are skipped.
func (c *Comparator) CompareSchemas(prior, next []*packagefile.Schema) ([]Difference, error) {
	var diffs []Difference

	for _, p := range prior {
		if p == nil {
			continue
		}
		pointer := "#/" + p.Title
		n, found := findSchema(next, p.Title)
		if !found {
			t := RemoveSchema
			if p.Hidden {
				t = RemoveHiddenSchema
			}
			diffs = append(diffs, Difference{Type: t, Pointer: pointer})
			continue
		}

		schemaDiffs, err := c.CompareSchema(p, n, pointer)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, schemaDiffs...)
	}

	if c.schemaAdditions {
		for _, n := range next {
			if n == nil {
				continue
			}
			if _, found := findSchema(prior, n.Title); !found {
				diffs = append(diffs, Difference{Type: AddSchema, Pointer: "#/" + n.Title})
			}
		}
	}

	return diffs, nil
}

// CompareSchema compares two schema nodes and, for objects, their
// properties. Titles are not compared; callers pair nodes by title.
func (c *Comparator) CompareSchema(prior, next *packagefile.Schema, pointer string) ([]Difference, error) {
	if pointer == "" {
		pointer = "#"
	}

	var diffs []Difference

	if prior.Description != next.Description {
		diffs = append(diffs, Difference{Type: ChangePropertyDesc, Pointer: pointer})
	}

	if !typesCompatible(prior.Type, next.Type) {
		diffs = append(diffs, Difference{Type: ChangePropertyType, Pointer: pointer})
	}

	if prior.Hidden != next.Hidden {
		t := UnhideProperty
		if next.Hidden {
			t = HideProperty
		}
		diffs = append(diffs, Difference{Type: t, Pointer: pointer})
	}

	if prior.Type.Is("string") && prior.Format != next.Format {
		diffs = append(diffs, Difference{Type: ChangePropertyFormat, Pointer: pointer})
	}

	if prior.Unit != next.Unit {
		diffs = append(diffs, Difference{Type: ChangePropertyUnit, Pointer: pointer})
	}

	if prior.IsObject() {
		propertyDiffs, err := c.compareProperties(prior, next, pointer)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, propertyDiffs...)
	}

	return diffs, nil
}

func (c *Comparator) compareProperties(prior, next *packagefile.Schema, pointer string) ([]Difference, error) {
	if prior.Properties == nil {
		return nil, fmt.Errorf("%w: prior %s", ErrPropertiesMissing, pointer)
	}
	if next.Properties == nil {
		return nil, fmt.Errorf("%w: new %s", ErrPropertiesMissing, pointer)
	}

	var diffs []Difference

	for _, key := range prior.Properties.Keys() {
		propertyPointer := pointer + "/properties/" + key
		priorProperty, _ := prior.Properties.Get(key)

		nextProperty, found := next.Properties.Get(key)
		if !found {
			t := RemoveProperty
			if priorProperty != nil && priorProperty.Hidden {
				t = RemoveHiddenProperty
			}
			diffs = append(diffs, Difference{Type: t, Pointer: propertyPointer})
			if !c.allRemovedProperties {
				break
			}
			continue
		}

		if priorProperty == nil || nextProperty == nil {
			continue
		}
		propertyDiffs, err := c.CompareSchema(priorProperty, nextProperty, propertyPointer)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, propertyDiffs...)
	}

	for _, key := range next.Properties.Keys() {
		if !prior.Properties.Has(key) {
			diffs = append(diffs, Difference{Type: AddProperty, Pointer: pointer + "/properties/" + key})
		}
	}

	return diffs, nil
}

// typesCompatible compares JSON Schema types. When both are arrays, next
// must contain every prior type. A scalar and an array never match.
func typesCompatible(prior, next packagefile.TypeList) bool {
	switch {
	case prior.IsArray() && next.IsArray():
		for _, name := range prior.Names() {
			if !next.Contains(name) {
				return false
			}
		}
		return true
	case prior.IsArray() != next.IsArray():
		return false
	default:
		return prior.Scalar() == next.Scalar()
	}
}

func findSchema(schemas []*packagefile.Schema, title string) (*packagefile.Schema, bool) {
	for _, s := range schemas {
		if s != nil && s.Title == title {
			return s, true
		}
	}
	return nil, false
}
