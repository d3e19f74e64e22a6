package compatibility

import (
	"encoding/json"
	"testing"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var levels = []Compatibility{Identical, MinorChange, CompatibleChange, BreakingChange}

func TestNextVersion(t *testing.T) {
	tests := []struct {
		current string
		level   Compatibility
		want    string
	}{
		{"1.0.3", BreakingChange, "2.0.0"},
		{"1.0.3", CompatibleChange, "1.1.0"},
		{"1.0.3", MinorChange, "1.0.4"},
		{"1.0.3", Identical, "1.0.3"},
		{"0.9.9", BreakingChange, "1.0.0"},
		{"2.3.4-beta.1", MinorChange, "2.3.5"},
		{"2.3.4-beta.1+build.7", Identical, "2.3.4-beta.1+build.7"},
	}

	for _, tt := range tests {
		t.Run(tt.current+" "+tt.level.String(), func(t *testing.T) {
			got, err := NextVersion(semver.MustParse(tt.current), tt.level)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNextVersion_IdenticalIsACopy(t *testing.T) {
	current := semver.MustParse("1.0.3-rc.1")

	next, err := NextVersion(current, Identical)
	require.NoError(t, err)
	assert.True(t, next.Equals(current))

	next.Pre[0] = semver.PRVersion{VersionStr: "changed"}
	assert.Equal(t, "1.0.3-rc.1", current.String())
}

func TestNextVersion_Monotonic(t *testing.T) {
	current := semver.MustParse("3.4.5")

	for _, level := range levels {
		next, err := NextVersion(current, level)
		require.NoError(t, err)
		assert.True(t, next.GTE(current), "%s must not go backwards", level)
	}
}

func TestNextVersion_UnknownLevel(t *testing.T) {
	_, err := NextVersion(semver.MustParse("1.0.0"), Compatibility(42))
	assert.ErrorIs(t, err, ErrUnrecognizedCompatibility)
}

func TestLeastCompatible(t *testing.T) {
	assert.Equal(t, BreakingChange, LeastCompatible(CompatibleChange, BreakingChange))
	assert.Equal(t, MinorChange, LeastCompatible(MinorChange, Identical))

	for _, a := range levels {
		assert.Equal(t, a, LeastCompatible(a, a), "idempotent")
		assert.Equal(t, a, LeastCompatible(a, Identical), "Identical is the identity")
		for _, b := range levels {
			assert.Equal(t, LeastCompatible(a, b), LeastCompatible(b, a), "commutative")
			for _, c := range levels {
				assert.Equal(t,
					LeastCompatible(LeastCompatible(a, b), c),
					LeastCompatible(a, LeastCompatible(b, c)),
					"associative")
			}
		}
	}
}

func TestCompatibility_String(t *testing.T) {
	assert.Equal(t, "no", Identical.String())
	assert.Equal(t, "minor", MinorChange.String())
	assert.Equal(t, "compatible", CompatibleChange.String())
	assert.Equal(t, "breaking", BreakingChange.String())
	assert.Equal(t, "Compatibility(9)", Compatibility(9).String())
}

func TestParseCompatibility(t *testing.T) {
	tests := []struct {
		input   string
		want    Compatibility
		wantErr bool
	}{
		{"no", Identical, false},
		{"identical", Identical, false},
		{"Minor", MinorChange, false},
		{"compatible", CompatibleChange, false},
		{"compatibile", CompatibleChange, false},
		{" breaking ", BreakingChange, false},
		{"major", Identical, true},
		{"", Identical, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCompatibility(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnrecognizedCompatibility)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompatibility_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Compatibility{"level": CompatibleChange})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"compatible"}`, string(data))

	var decoded struct {
		Level Compatibility `json:"level"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"level":"breaking"}`), &decoded))
	assert.Equal(t, BreakingChange, decoded.Level)

	_, err = json.Marshal(Compatibility(-1))
	assert.Error(t, err)
}
