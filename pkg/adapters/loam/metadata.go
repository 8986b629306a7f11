package loam

// DocumentTypeCatalog marks the single document that holds the catalog header.
const DocumentTypeCatalog = "catalog"

// ActionMetadata is the frontmatter of a catalog document.
// Action documents use Name, Requires, Effects, Cost and Order; the catalog
// document (type: catalog) uses Name, Goal and Initial. The markdown body is the
// description in both cases.
type ActionMetadata struct {
	Type string `json:"type,omitempty" mapstructure:"type"`
	Name string `json:"name,omitempty" mapstructure:"name"`

	Requires map[string]any `json:"requires,omitempty" mapstructure:"requires"`
	Effects  map[string]any `json:"effects,omitempty" mapstructure:"effects"`
	Cost     *float64       `json:"cost,omitempty" mapstructure:"cost"`

	// Order fixes the registration position; lower first, ties by document ID.
	Order int `json:"order,omitempty" mapstructure:"order"`

	Goal    string         `json:"goal,omitempty" mapstructure:"goal"`
	Initial map[string]any `json:"initial,omitempty" mapstructure:"initial"`
}
