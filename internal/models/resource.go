package models

import "time"

// ResourceType is the closed set of categories a resource can belong to.
// Values outside the three constants below are rejected at the boundary
// by ParseResourceType; nothing else should construct a ResourceType from
// raw input.
type ResourceType string

const (
	TypeApp        ResourceType = "app"
	TypeDataset    ResourceType = "dataset"
	TypeRepository ResourceType = "repository"
)

// TypeChoice pairs a stored type value with its display label.
type TypeChoice struct {
	Value ResourceType
	Label string
}

// typeLabels maps each valid type to the label shown in the UI.
var typeLabels = map[ResourceType]string{
	TypeApp:        "App",
	TypeDataset:    "Dataset",
	TypeRepository: "Repository",
}

// TypeChoices returns the valid types with their labels, in the fixed
// order used for form selects and for the grouped home-page view.
func TypeChoices() []TypeChoice {
	return []TypeChoice{
		{Value: TypeApp, Label: typeLabels[TypeApp]},
		{Value: TypeDataset, Label: typeLabels[TypeDataset]},
		{Value: TypeRepository, Label: typeLabels[TypeRepository]},
	}
}

// ParseResourceType validates a raw string against the closed type set.
// The boolean is false for any value that is not exactly one of the three
// stored forms.
func ParseResourceType(raw string) (ResourceType, bool) {
	rt := ResourceType(raw)
	if _, ok := typeLabels[rt]; !ok {
		return "", false
	}
	return rt, true
}

// IsValid reports whether the type is one of the three known values.
func (rt ResourceType) IsValid() bool {
	_, ok := typeLabels[rt]
	return ok
}

// Label returns the display label for the type, or the raw value if the
// type is somehow unknown (stored rows only ever hold valid types).
func (rt ResourceType) Label() string {
	if label, ok := typeLabels[rt]; ok {
		return label
	}
	return string(rt)
}

// Resource represents a cataloged home-lab entry (an app, a dataset or a
// repository) stored in the database.
type Resource struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	ResourceType ResourceType `gorm:"size:20;not null" json:"resource_type"`
	Description  string       `gorm:"not null" json:"description"`

	// Optional fields. A nil pointer means "absent": empty or
	// whitespace-only input is normalized to nil before it gets here.
	LinkURL  *string `json:"link_url"`
	Location *string `json:"location"`
	IconURL  *string `json:"icon_url"`
	RepoURL  *string `json:"repo_url"`

	// Both timestamps are set by the repository from a single UTC clock,
	// equal at creation; UpdatedAt is refreshed on every update.
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
