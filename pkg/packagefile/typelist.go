package packagefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// TypeList is a JSON Schema "type" value, which is either a single type
// name or an array of type names. The two forms are kept distinct because
// comparison treats a scalar and a one-element array as different shapes.
type TypeList struct {
	names   []string
	isArray bool
}

// SingleType returns a scalar type
func SingleType(name string) TypeList {
	return TypeList{names: []string{name}}
}

// MultiType returns an array type
func MultiType(names ...string) TypeList {
	return TypeList{names: slices.Clone(names), isArray: true}
}

// IsArray reports whether the type was declared as an array of names
func (t TypeList) IsArray() bool {
	return t.isArray
}

// IsZero reports whether no type was declared
func (t TypeList) IsZero() bool {
	return !t.isArray && len(t.names) == 0
}

// Scalar returns the scalar type name, or "" for array and absent types
func (t TypeList) Scalar() string {
	if t.isArray || len(t.names) == 0 {
		return ""
	}
	return t.names[0]
}

// Names returns a copy of the declared type names
func (t TypeList) Names() []string {
	return slices.Clone(t.names)
}

// Is reports whether the type is the scalar name
func (t TypeList) Is(name string) bool {
	return !t.isArray && t.Scalar() == name
}

// Contains reports whether name appears in the type, scalar or array
func (t TypeList) Contains(name string) bool {
	return slices.Contains(t.names, name)
}

func (t TypeList) String() string {
	if t.isArray {
		return fmt.Sprintf("%v", t.names)
	}
	return t.Scalar()
}

// MarshalJSON implements json.Marshaler
func (t TypeList) MarshalJSON() ([]byte, error) {
	if t.isArray {
		if t.names == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(t.names)
	}
	if len(t.names) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(t.names[0])
}

// UnmarshalJSON implements json.Unmarshaler
func (t *TypeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = TypeList{}
		return nil
	case len(data) > 0 && data[0] == '[':
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("invalid type array: %w", err)
		}
		*t = TypeList{names: names, isArray: true}
		return nil
	default:
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("invalid type: %w", err)
		}
		*t = SingleType(name)
		return nil
	}
}
