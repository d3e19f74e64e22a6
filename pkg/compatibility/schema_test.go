package compatibility

import (
	"errors"
	"testing"

	"github.com/datapm/pkgcompat/pkg/packagefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prop struct {
	key    string
	schema *packagefile.Schema
}

func objectSchema(title string, props ...prop) *packagefile.Schema {
	pm := packagefile.NewPropertyMap()
	for _, p := range props {
		pm.Set(p.key, p.schema)
	}
	return &packagefile.Schema{Title: title, Type: packagefile.SingleType("object"), Properties: pm}
}

func scalar(title, typ string) prop {
	return prop{key: title, schema: &packagefile.Schema{Title: title, Type: packagefile.SingleType(typ)}}
}

func withSchema(title string, s *packagefile.Schema) prop {
	s.Title = title
	return prop{key: title, schema: s}
}

func TestCompareSchema_Identical(t *testing.T) {
	schema := objectSchema("SchemaA",
		scalar("string", "string"),
		scalar("number", "number"),
		withSchema("nested", objectSchema("", scalar("flag", "boolean"))),
	)

	diffs, err := CompareSchema(schema, schema, "#/SchemaA")
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestCompareSchema_FormatChanged(t *testing.T) {
	prior := objectSchema("SchemaA", withSchema("when", &packagefile.Schema{Type: packagefile.SingleType("string"), Format: "date-time"}))
	next := objectSchema("SchemaA", withSchema("when", &packagefile.Schema{Type: packagefile.SingleType("string"), Format: "date"}))

	diffs, err := CompareSchema(prior, next, "#/SchemaA")
	require.NoError(t, err)
	assert.Equal(t, []Difference{{Type: ChangePropertyFormat, Pointer: "#/SchemaA/properties/when"}}, diffs)

	level, err := DiffCompatibility(diffs)
	require.NoError(t, err)
	assert.Equal(t, BreakingChange, level)
}

func TestCompareSchema_FormatIgnoredForNonStrings(t *testing.T) {
	prior := &packagefile.Schema{Type: packagefile.SingleType("number"), Format: "integer"}
	next := &packagefile.Schema{Type: packagefile.SingleType("number"), Format: "float"}

	diffs, err := CompareSchema(prior, next, "#/n")
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestCompareSchema_PropertyAdded(t *testing.T) {
	prior := objectSchema("SchemaA", scalar("string", "string"), scalar("number", "number"))
	next := objectSchema("SchemaA", scalar("string", "string"), scalar("number", "number"), scalar("boolean", "boolean"))

	diffs, err := CompareSchema(prior, next, "#/SchemaA")
	require.NoError(t, err)
	assert.Equal(t, []Difference{{Type: AddProperty, Pointer: "#/SchemaA/properties/boolean"}}, diffs)

	level, err := DiffCompatibility(diffs)
	require.NoError(t, err)
	assert.Equal(t, CompatibleChange, level)
}

func TestCompareSchema_PropertyAddedAndRemoved(t *testing.T) {
	prior := objectSchema("SchemaA", scalar("string", "string"), scalar("number", "number"), scalar("date", "string"))
	next := objectSchema("SchemaA", scalar("string", "string"), scalar("number", "number"), scalar("boolean", "boolean"))

	diffs, err := CompareSchema(prior, next, "#/SchemaA")
	require.NoError(t, err)
	assert.Equal(t, []Difference{
		{Type: RemoveProperty, Pointer: "#/SchemaA/properties/date"},
		{Type: AddProperty, Pointer: "#/SchemaA/properties/boolean"},
	}, diffs)

	level, err := DiffCompatibility(diffs)
	require.NoError(t, err)
	assert.Equal(t, BreakingChange, level)
}

func TestCompareSchema_StopsAtFirstRemovedProperty(t *testing.T) {
	changed := &packagefile.Schema{Type: packagefile.SingleType("string"), Description: "changed"}
	prior := objectSchema("S", scalar("a", "string"), scalar("b", "string"), scalar("c", "string"), scalar("d", "string"))
	next := objectSchema("S", scalar("a", "string"), withSchema("d", changed))

	diffs, err := CompareSchema(prior, next, "#/S")
	require.NoError(t, err)
	assert.Equal(t, []Difference{
		{Type: RemoveProperty, Pointer: "#/S/properties/b"},
	}, diffs, "keys after the first removal are not compared")
}

func TestCompareSchema_AllRemovedProperties(t *testing.T) {
	changed := &packagefile.Schema{Type: packagefile.SingleType("string"), Description: "changed"}
	prior := objectSchema("S", scalar("a", "string"), scalar("b", "string"), scalar("c", "string"), scalar("d", "string"))
	next := objectSchema("S", scalar("a", "string"), withSchema("d", changed))

	cmp := NewComparator(WithAllRemovedProperties())
	diffs, err := cmp.CompareSchema(prior, next, "#/S")
	require.NoError(t, err)
	assert.Equal(t, []Difference{
		{Type: RemoveProperty, Pointer: "#/S/properties/b"},
		{Type: RemoveProperty, Pointer: "#/S/properties/c"},
		{Type: ChangePropertyDesc, Pointer: "#/S/properties/d"},
	}, diffs)
}

func TestCompareSchema_RemovedHiddenProperty(t *testing.T) {
	hidden := &packagefile.Schema{Type: packagefile.SingleType("string"), Hidden: true}
	prior := objectSchema("S", scalar("a", "string"), withSchema("secret", hidden))
	next := objectSchema("S", scalar("a", "string"))

	diffs, err := CompareSchema(prior, next, "#/S")
	require.NoError(t, err)
	assert.Equal(t, []Difference{{Type: RemoveHiddenProperty, Pointer: "#/S/properties/secret"}}, diffs)

	level, err := DiffCompatibility(diffs)
	require.NoError(t, err)
	assert.Equal(t, MinorChange, level)
}

func TestCompareSchema_HideAndUnhide(t *testing.T) {
	visible := &packagefile.Schema{Type: packagefile.SingleType("string")}
	hidden := &packagefile.Schema{Type: packagefile.SingleType("string"), Hidden: true}

	diffs, err := CompareSchema(visible, hidden, "#/p")
	require.NoError(t, err)
	assert.Equal(t, []Difference{{Type: HideProperty, Pointer: "#/p"}}, diffs)

	diffs, err = CompareSchema(hidden, visible, "#/p")
	require.NoError(t, err)
	assert.Equal(t, []Difference{{Type: UnhideProperty, Pointer: "#/p"}}, diffs)
}

func TestCompareSchema_MultipleFieldsOnOneNode(t *testing.T) {
	prior := &packagefile.Schema{Type: packagefile.SingleType("string"), Format: "date", Unit: "days", Description: "a"}
	next := &packagefile.Schema{Type: packagefile.SingleType("string"), Format: "date-time", Unit: "hours", Description: "b", Hidden: true}

	diffs, err := CompareSchema(prior, next, "")
	require.NoError(t, err)
	assert.Equal(t, []Difference{
		{Type: ChangePropertyDesc, Pointer: "#"},
		{Type: HideProperty, Pointer: "#"},
		{Type: ChangePropertyFormat, Pointer: "#"},
		{Type: ChangePropertyUnit, Pointer: "#"},
	}, diffs)
}

func TestTypesCompatible(t *testing.T) {
	tests := []struct {
		name  string
		prior packagefile.TypeList
		next  packagefile.TypeList
		want  bool
	}{
		{"same scalar", packagefile.SingleType("string"), packagefile.SingleType("string"), true},
		{"different scalar", packagefile.SingleType("string"), packagefile.SingleType("number"), false},
		{"array superset", packagefile.MultiType("string", "null"), packagefile.MultiType("null", "string", "number"), true},
		{"array reordered", packagefile.MultiType("string", "null"), packagefile.MultiType("null", "string"), true},
		{"array narrowed", packagefile.MultiType("string", "null"), packagefile.MultiType("string"), false},
		{"scalar to array", packagefile.SingleType("string"), packagefile.MultiType("string"), false},
		{"array to scalar", packagefile.MultiType("string"), packagefile.SingleType("string"), false},
		{"both absent", packagefile.TypeList{}, packagefile.TypeList{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, typesCompatible(tt.prior, tt.next))
		})
	}
}

func TestCompareSchema_PropertiesMissing(t *testing.T) {
	withProps := objectSchema("S", scalar("a", "string"))
	withoutProps := &packagefile.Schema{Title: "S", Type: packagefile.SingleType("object")}

	_, err := CompareSchema(withProps, withoutProps, "#/S")
	assert.True(t, errors.Is(err, ErrPropertiesMissing))

	_, err = CompareSchema(withoutProps, withProps, "#/S")
	assert.True(t, errors.Is(err, ErrPropertiesMissing))
}

func TestCompareSchema_NestedPointer(t *testing.T) {
	prior := objectSchema("S", withSchema("address", objectSchema("", scalar("zip", "string"))))
	next := objectSchema("S", withSchema("address", objectSchema("", scalar("zip", "integer"))))

	diffs, err := CompareSchema(prior, next, "#/S")
	require.NoError(t, err)
	assert.Equal(t, []Difference{{Type: ChangePropertyType, Pointer: "#/S/properties/address/properties/zip"}}, diffs)
}

func TestCompareSchemas_RemovedSchemas(t *testing.T) {
	hidden := objectSchema("internal")
	hidden.Hidden = true
	prior := []*packagefile.Schema{objectSchema("kept"), objectSchema("gone"), hidden}
	next := []*packagefile.Schema{objectSchema("kept"), objectSchema("brand-new")}

	diffs, err := CompareSchemas(prior, next)
	require.NoError(t, err)
	assert.Equal(t, []Difference{
		{Type: RemoveSchema, Pointer: "#/gone"},
		{Type: RemoveHiddenSchema, Pointer: "#/internal"},
	}, diffs, "new top-level schemas are not reported by default")

	cmp := NewComparator(WithSchemaAdditions())
	diffs, err = cmp.CompareSchemas(prior, next)
	require.NoError(t, err)
	assert.Contains(t, diffs, Difference{Type: AddSchema, Pointer: "#/brand-new"})
}

func TestCompareSchemas_PairsByTitleNotPosition(t *testing.T) {
	prior := []*packagefile.Schema{objectSchema("a"), objectSchema("b")}
	next := []*packagefile.Schema{objectSchema("b"), objectSchema("a")}

	diffs, err := CompareSchemas(prior, next)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestCompareSchema_Directional(t *testing.T) {
	small := objectSchema("S", scalar("a", "string"))
	large := objectSchema("S", scalar("a", "string"), scalar("b", "string"))

	forward, err := CompareSchema(small, large, "#/S")
	require.NoError(t, err)
	backward, err := CompareSchema(large, small, "#/S")
	require.NoError(t, err)

	assert.Equal(t, []Difference{{Type: AddProperty, Pointer: "#/S/properties/b"}}, forward)
	assert.Equal(t, []Difference{{Type: RemoveProperty, Pointer: "#/S/properties/b"}}, backward)
}
