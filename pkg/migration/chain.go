package migration

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/datapm/pkgcompat/pkg/packagefile"
)

// ErrParsingPackageFile is returned when a package file cannot be decoded
var ErrParsingPackageFile = errors.New("ERROR_PARSING_PACKAGE_FILE")

// Step upgrades a raw document from one schema version to the next
type Step struct {
	From    string
	To      string
	Upgrade func(doc map[string]any) error
}

// Transition names a step that was applied
type Transition struct {
	From string
	To   string
}

func (t Transition) String() string {
	return fmt.Sprintf("v%s->v%s", t.From, t.To)
}

// Steps is the ordered upgrade chain. Each step's To is the next step's From
// and the last To is packagefile.CurrentSchemaVersion.
var Steps = []Step{
	{From: "0.1.0", To: "0.2.0", Upgrade: upgradeCountPrecision},
	{From: "0.2.0", To: "0.3.0", Upgrade: upgradeInlineSources},
	{From: "0.3.0", To: "0.4.0", Upgrade: upgradeNumericStatistics},
	{From: "0.4.0", To: "0.5.0", Upgrade: upgradeDerivedFrom},
	{From: "0.5.0", To: "0.6.0", Upgrade: upgradeSourceURIs},
}

// UpgradeDocument brings a raw document forward to the current schema
// version, in place, and returns the steps applied. A document whose version
// no step starts from (already current, between steps or newer) passes
// through unchanged. Only a $schema that does not name a package file schema
// version fails. The document must not be shared with other goroutines while
// it is upgraded.
func UpgradeDocument(doc map[string]any) ([]Transition, error) {
	version, err := packagefile.SchemaVersion(doc)
	if err != nil {
		return nil, err
	}
	doc["$schema"] = packagefile.SchemaURL(version.String())

	var applied []Transition
	for _, step := range Steps {
		if doc["$schema"] != packagefile.SchemaURL(step.From) {
			continue
		}
		if err := step.Upgrade(doc); err != nil {
			return applied, fmt.Errorf("upgrade v%s to v%s: %w", step.From, step.To, err)
		}
		doc["$schema"] = packagefile.SchemaURL(step.To)
		applied = append(applied, Transition{From: step.From, To: step.To})
	}

	return applied, nil
}

// UpgradeBytes parses a JSON package file of any known schema version and
// returns it in the current shape. Property order follows the document.
func UpgradeBytes(data []byte) (*packagefile.PackageFile, []Transition, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParsingPackageFile, err)
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("%w: document is not an object", ErrParsingPackageFile)
	}

	applied, err := UpgradeDocument(doc)
	if err != nil {
		return nil, applied, err
	}

	if len(applied) == 0 {
		pf, err := packagefile.DecodeJSON(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrParsingPackageFile, err)
		}
		pf.SchemaURL, _ = doc["$schema"].(string)
		return pf, nil, nil
	}

	pf, err := packagefile.Decode(doc)
	if err != nil {
		return nil, applied, fmt.Errorf("%w: %v", ErrParsingPackageFile, err)
	}
	if err := packagefile.RestorePropertyOrder(pf, data); err != nil {
		return nil, applied, fmt.Errorf("%w: %v", ErrParsingPackageFile, err)
	}
	return pf, applied, nil
}
