package compatibility

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/blang/semver/v4"
)

// ErrUnrecognizedCompatibility is returned for a Compatibility outside the four known levels
var ErrUnrecognizedCompatibility = errors.New("unrecognized compatibility")

// Compatibility is the impact of a set of changes on consumers of a package.
// Levels are ordered from least to most severe.
type Compatibility int

const (
	Identical Compatibility = iota
	MinorChange
	CompatibleChange
	BreakingChange
)

// String returns the user-facing word for the level. Older clients
// spelled the compatible level "compatibile"; ParseCompatibility still
// accepts that spelling.
func (c Compatibility) String() string {
	switch c {
	case Identical:
		return "no"
	case MinorChange:
		return "minor"
	case CompatibleChange:
		return "compatible"
	case BreakingChange:
		return "breaking"
	default:
		return fmt.Sprintf("Compatibility(%d)", int(c))
	}
}

// Valid reports whether c is one of the four known levels
func (c Compatibility) Valid() bool {
	return c >= Identical && c <= BreakingChange
}

// MarshalText implements encoding.TextMarshaler
func (c Compatibility) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnrecognizedCompatibility, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Compatibility) UnmarshalText(text []byte) error {
	parsed, err := ParseCompatibility(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCompatibility converts a level name to a Compatibility
func ParseCompatibility(s string) (Compatibility, error) {
	levels := map[string]Compatibility{
		"no":          Identical,
		"identical":   Identical,
		"minor":       MinorChange,
		"compatible":  CompatibleChange,
		"compatibile": CompatibleChange,
		"breaking":    BreakingChange,
	}

	if level, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level, nil
	}
	return Identical, fmt.Errorf("%w: %q", ErrUnrecognizedCompatibility, s)
}

// LeastCompatible returns the more severe of two levels. Despite the name it
// is the conservative merge of two independent assessments.
func LeastCompatible(a, b Compatibility) Compatibility {
	if a == b {
		return a
	}
	if a > b {
		return a
	}
	return b
}

// NextVersion derives the version that follows current for changes of the
// given level. The result never shares memory with current.
func NextVersion(current semver.Version, c Compatibility) (semver.Version, error) {
	next := semver.Version{
		Major: current.Major,
		Minor: current.Minor,
		Patch: current.Patch,
	}

	switch c {
	case BreakingChange:
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case CompatibleChange:
		next.Minor++
		next.Patch = 0
	case MinorChange:
		next.Patch++
	case Identical:
		next.Pre = slices.Clone(current.Pre)
		next.Build = slices.Clone(current.Build)
	default:
		return semver.Version{}, fmt.Errorf("%w: %d", ErrUnrecognizedCompatibility, int(c))
	}

	return next, nil
}
