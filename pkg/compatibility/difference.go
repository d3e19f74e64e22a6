package compatibility

// DifferenceType names one kind of change between two package file versions
type DifferenceType string

const (
	AddProperty              DifferenceType = "ADD_PROPERTY"
	AddSchema                DifferenceType = "ADD_SCHEMA"
	RemoveProperty           DifferenceType = "REMOVE_PROPERTY"
	RemoveHiddenProperty     DifferenceType = "REMOVE_HIDDEN_PROPERTY"
	RemoveSchema             DifferenceType = "REMOVE_SCHEMA"
	RemoveHiddenSchema       DifferenceType = "REMOVE_HIDDEN_SCHEMA"
	HideProperty             DifferenceType = "HIDE_PROPERTY"
	UnhideProperty           DifferenceType = "UNHIDE_PROPERTY"
	ChangePropertyType       DifferenceType = "CHANGE_PROPERTY_TYPE"
	ChangePropertyFormat     DifferenceType = "CHANGE_PROPERTY_FORMAT"
	ChangePropertyUnit       DifferenceType = "CHANGE_PROPERTY_UNIT"
	ChangePropertyDesc       DifferenceType = "CHANGE_PROPERTY_DESCRIPTION"
	ChangePackageDescription DifferenceType = "CHANGE_PACKAGE_DESCRIPTION"
	ChangePackageDisplayName DifferenceType = "CHANGE_PACKAGE_DISPLAY_NAME"
	ChangeVersion            DifferenceType = "CHANGE_VERSION"
	ChangeReadmeMarkdown     DifferenceType = "CHANGE_README_MARKDOWN"
	ChangeLicenseMarkdown    DifferenceType = "CHANGE_LICENSE_MARKDOWN"
	ChangeReadmeFile         DifferenceType = "CHANGE_README_FILE"
	ChangeLicenseFile        DifferenceType = "CHANGE_LICENSE_FILE"
	ChangeWebsite            DifferenceType = "CHANGE_WEBSITE"
	ChangeContactEmail       DifferenceType = "CHANGE_CONTACT_EMAIL"
	ChangeGeneratedBy        DifferenceType = "CHANGE_GENERATED_BY"
	ChangeUpdatedDate        DifferenceType = "CHANGE_UPDATED_DATE"
	RemoveSource             DifferenceType = "REMOVE_SOURCE"
	ChangeSource             DifferenceType = "CHANGE_SOURCE"
	ChangeSourceURIs         DifferenceType = "CHANGE_SOURCE_URIS"
	ChangeSourceConfig       DifferenceType = "CHANGE_SOURCE_CONFIGURATION"
	RemoveStreamSet          DifferenceType = "REMOVE_STREAM_SET"
	ChangeStreamStats        DifferenceType = "CHANGE_STREAM_STATS"
	ChangeStreamUpdateHash   DifferenceType = "CHANGE_STREAM_UPDATE_HASH"
)

// DifferenceTypes returns every known difference type
func DifferenceTypes() []DifferenceType {
	return []DifferenceType{
		AddProperty, AddSchema,
		RemoveProperty, RemoveHiddenProperty, RemoveSchema, RemoveHiddenSchema,
		HideProperty, UnhideProperty,
		ChangePropertyType, ChangePropertyFormat, ChangePropertyUnit, ChangePropertyDesc,
		ChangePackageDescription, ChangePackageDisplayName, ChangeVersion,
		ChangeReadmeMarkdown, ChangeLicenseMarkdown, ChangeReadmeFile, ChangeLicenseFile,
		ChangeWebsite, ChangeContactEmail, ChangeGeneratedBy, ChangeUpdatedDate,
		RemoveSource, ChangeSource, ChangeSourceURIs, ChangeSourceConfig,
		RemoveStreamSet, ChangeStreamStats, ChangeStreamUpdateHash,
	}
}

// Difference is one change found between two package files. Pointer is a
// JSON-Pointer-like path to the changed node and is informational only.
type Difference struct {
	Type    DifferenceType `json:"type"`
	Pointer string         `json:"pointer"`
}

func (d Difference) String() string {
	return string(d.Type) + " " + d.Pointer
}

// Description returns a short human readable sentence for a difference type
func Description(t DifferenceType) string {
	switch t {
	case AddProperty:
		return "Property added"
	case AddSchema:
		return "Schema added"
	case RemoveProperty:
		return "Property removed"
	case RemoveHiddenProperty:
		return "Hidden property removed"
	case RemoveSchema:
		return "Schema removed"
	case RemoveHiddenSchema:
		return "Hidden schema removed"
	case HideProperty:
		return "Property hidden"
	case UnhideProperty:
		return "Property no longer hidden"
	case ChangePropertyType:
		return "Property type changed"
	case ChangePropertyFormat:
		return "Property format changed"
	case ChangePropertyUnit:
		return "Property unit changed"
	case ChangePropertyDesc:
		return "Property description changed"
	case ChangePackageDescription:
		return "Package description changed"
	case ChangePackageDisplayName:
		return "Package display name changed"
	case ChangeVersion:
		return "Version changed"
	case ChangeReadmeMarkdown:
		return "README changed"
	case ChangeLicenseMarkdown:
		return "License changed"
	case ChangeReadmeFile:
		return "README file location changed"
	case ChangeLicenseFile:
		return "License file location changed"
	case ChangeWebsite:
		return "Website changed"
	case ChangeContactEmail:
		return "Contact email changed"
	case ChangeGeneratedBy:
		return "Generator changed"
	case ChangeUpdatedDate:
		return "Updated date changed"
	case RemoveSource:
		return "Source removed"
	case ChangeSource:
		return "Source type or URIs changed"
	case ChangeSourceURIs:
		return "Source URIs changed"
	case ChangeSourceConfig:
		return "Source configuration changed"
	case RemoveStreamSet:
		return "Stream set removed"
	case ChangeStreamStats:
		return "Stream statistics changed"
	case ChangeStreamUpdateHash:
		return "Stream data updated"
	default:
		return string(t)
	}
}
