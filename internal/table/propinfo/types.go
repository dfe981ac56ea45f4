// Package propinfo builds the PropertyInfo list of a table: one fully
// resolved descriptor per declared column.
package propinfo

import "github.com/conduit-lang/gridmeta/internal/table/column"

// PropertyInfo is the derived descriptor of one column. Simple and composite
// columns use disjoint attribute subsets: Sortable, Filterable, Groupable and
// Key are nil for composite columns, PropertyInfos is empty for simple ones.
type PropertyInfo struct {
	Name         string `json:"name"`
	MetadataPath string `json:"metadataPath,omitempty"`
	Group        string `json:"group,omitempty"`
	GroupLabel   string `json:"groupLabel,omitempty"`
	Label        string `json:"label"`
	Tooltip      string `json:"tooltip,omitempty"`
	Visible      bool   `json:"visible"`
	Path         string `json:"path,omitempty"`

	TypeConfig     *column.TypeConfig     `json:"typeConfig,omitempty"`
	ExportSettings *column.ExportSettings `json:"exportSettings,omitempty"`
	VisualSettings *column.VisualSettings `json:"visualSettings,omitempty"`
	Unit           *column.UnitRef        `json:"unit,omitempty"`

	Sortable      *bool `json:"sortable,omitempty"`
	Filterable    *bool `json:"filterable,omitempty"`
	Groupable     *bool `json:"groupable,omitempty"`
	Key           *bool `json:"key,omitempty"`
	CaseSensitive bool  `json:"caseSensitive"`
	// MaxConditions is -1 when any number of filter conditions is allowed
	MaxConditions int `json:"maxConditions,omitempty"`

	// Text is the description property paired with Path
	Text            string                     `json:"text,omitempty"`
	TextArrangement column.TextArrangementMode `json:"textArrangement,omitempty"`

	Aggregatable bool       `json:"aggregatable,omitempty"`
	Extension    *Extension `json:"extension,omitempty"`

	PropertyInfos    []string `json:"propertyInfos,omitempty"`
	AdditionalLabels []string `json:"additionalLabels,omitempty"`
}

// Extension carries the analytical extension flags of a column
type Extension struct {
	TechnicallyGroupable    bool `json:"technicallyGroupable,omitempty"`
	TechnicallyAggregatable bool `json:"technicallyAggregatable,omitempty"`
}

// IsComposite reports whether the property bundles sub-properties.
func (p *PropertyInfo) IsComposite() bool {
	return len(p.PropertyInfos) > 0
}

// IsSortable reports whether the property can be sorted by
func (p *PropertyInfo) IsSortable() bool { return p.Sortable != nil && *p.Sortable }

// IsFilterable reports whether the property can be filtered on
func (p *PropertyInfo) IsFilterable() bool { return p.Filterable != nil && *p.Filterable }

// IsGroupable reports whether the property can be grouped by
func (p *PropertyInfo) IsGroupable() bool { return p.Groupable != nil && *p.Groupable }

// IsKey reports whether the property is a key of the table's entity type
func (p *PropertyInfo) IsKey() bool { return p.Key != nil && *p.Key }

// Find returns the property info with the given name.
func Find(infos []PropertyInfo, name string) (*PropertyInfo, bool) {
	for i := range infos {
		if infos[i].Name == name {
			return &infos[i], true
		}
	}
	return nil, false
}

func boolPtr(v bool) *bool {
	return &v
}
