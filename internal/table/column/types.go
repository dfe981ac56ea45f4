// Package column defines the static column declarations of a table: the
// closed set of column kinds and the value types shared with derived
// property infos.
package column

// Kind identifies the origin of a column declaration
type Kind int

const (
	// KindAnnotation is a column generated from a line item annotation
	KindAnnotation Kind = iota
	// KindSlot is a custom column contributed by an extension slot
	KindSlot
	// KindDefault is a custom column added by the table itself (e.g., a generated technical column)
	KindDefault
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindAnnotation:
		return "Annotation"
	case KindSlot:
		return "Slot"
	case KindDefault:
		return "Default"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "Annotation":
		return KindAnnotation, nil
	case "Slot":
		return KindSlot, nil
	case "Default":
		return KindDefault, nil
	default:
		return 0, &UnhandledColumnKindError{Kind: s}
	}
}

// Availability controls the initial visibility of a column
type Availability string

const (
	AvailabilityDefault    Availability = "Default"
	AvailabilityAdaptation Availability = "Adaptation"
	AvailabilityHidden     Availability = "Hidden"
)

// TypeConfig is the model type used to format and parse values of a column.
type TypeConfig struct {
	ClassName     string         `json:"className,omitempty" yaml:"className,omitempty"`
	FormatOptions map[string]any `json:"formatOptions,omitempty" yaml:"formatOptions,omitempty"`
	Constraints   Constraints    `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// Constraints are the facets of a type configuration.
type Constraints struct {
	MaxLength *int  `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Precision *int  `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     *int  `json:"scale,omitempty" yaml:"scale,omitempty"`
	Nullable  *bool `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// IsZero reports whether no type class has been configured.
func (t *TypeConfig) IsZero() bool {
	return t == nil || (t.ClassName == "" && len(t.FormatOptions) == 0 && t.Constraints == Constraints{})
}

// Clone returns a deep copy of the type configuration.
func (t *TypeConfig) Clone() *TypeConfig {
	if t == nil {
		return nil
	}
	clone := *t
	if t.FormatOptions != nil {
		clone.FormatOptions = make(map[string]any, len(t.FormatOptions))
		for k, v := range t.FormatOptions {
			clone.FormatOptions[k] = v
		}
	}
	return &clone
}

// WidthCalculation carries the hints used by the host to size a column.
type WidthCalculation struct {
	MinWidth            *float64 `json:"minWidth,omitempty" yaml:"minWidth,omitempty"`
	Gap                 *float64 `json:"gap,omitempty" yaml:"gap,omitempty"`
	VerticalArrangement bool     `json:"verticalArrangement,omitempty" yaml:"verticalArrangement,omitempty"`
}

// VisualSettings groups the rendering hints of a column.
type VisualSettings struct {
	WidthCalculation *WidthCalculation `json:"widthCalculation,omitempty" yaml:"widthCalculation,omitempty"`
}

// Clone returns a deep copy of the visual settings.
func (v *VisualSettings) Clone() *VisualSettings {
	if v == nil {
		return nil
	}
	clone := &VisualSettings{}
	if v.WidthCalculation != nil {
		wc := *v.WidthCalculation
		if wc.MinWidth != nil {
			minWidth := *wc.MinWidth
			wc.MinWidth = &minWidth
		}
		if wc.Gap != nil {
			gap := *wc.Gap
			wc.Gap = &gap
		}
		clone.WidthCalculation = &wc
	}
	return clone
}

// ExportSettings describes how a column is written to a spreadsheet export.
type ExportSettings struct {
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Property []string `json:"property,omitempty" yaml:"property,omitempty"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Template string   `json:"template,omitempty" yaml:"template,omitempty"`
	Unit     string   `json:"unitProperty,omitempty" yaml:"unitProperty,omitempty"`
	Scale    *int     `json:"scale,omitempty" yaml:"scale,omitempty"`
	Width    float64  `json:"width,omitempty" yaml:"width,omitempty"`
	Wrap     bool     `json:"wrap,omitempty" yaml:"wrap,omitempty"`
}

// UnitKind distinguishes the suffix attached to a measure column
type UnitKind string

const (
	// UnitText is a free-text unit whose rendered width depends on its text
	UnitText UnitKind = "Text"
	// UnitCurrency is an ISO currency code
	UnitCurrency UnitKind = "Currency"
	// UnitQuantity is a quantity unit code
	UnitQuantity UnitKind = "Quantity"
	// UnitTimezone is a timezone suffix rendered as text
	UnitTimezone UnitKind = "Timezone"
)

// UnitRef references the unit, currency or timezone shown next to a value.
type UnitRef struct {
	Path string   `json:"path,omitempty" yaml:"path,omitempty"`
	Text string   `json:"text,omitempty" yaml:"text,omitempty"` // Static display text, when known
	Kind UnitKind `json:"kind" yaml:"kind"`
}

// IsTextual reports whether the unit renders as variable-width text rather than a fixed code.
func (u *UnitRef) IsTextual() bool {
	return u != nil && (u.Kind == UnitText || u.Kind == UnitTimezone)
}

// TextArrangementMode controls how a value and its description are combined
type TextArrangementMode string

const (
	TextFirst    TextArrangementMode = "TextFirst"
	TextLast     TextArrangementMode = "TextLast"
	TextOnly     TextArrangementMode = "TextOnly"
	TextSeparate TextArrangementMode = "TextSeparate"
)

// TextArrangement pairs a value property with its description property.
type TextArrangement struct {
	Mode         TextArrangementMode `json:"mode" yaml:"mode"`
	TextProperty string              `json:"textProperty" yaml:"textProperty"`
}

// FormatOptions are the display options of an annotation column.
type FormatOptions struct {
	HasDraftIndicator                    bool   `json:"hasDraftIndicator,omitempty" yaml:"hasDraftIndicator,omitempty"`
	FieldGroupDraftIndicatorPropertyPath string `json:"fieldGroupDraftIndicatorPropertyPath,omitempty" yaml:"fieldGroupDraftIndicatorPropertyPath,omitempty"`
	TextLinesEdit                        int    `json:"textLinesEdit,omitempty" yaml:"textLinesEdit,omitempty"`
}

// HasDraftIndicatorEligibility reports whether the column can host the draft indicator.
func (f FormatOptions) HasDraftIndicatorEligibility() bool {
	return f.HasDraftIndicator || f.FieldGroupDraftIndicatorPropertyPath != ""
}

// FieldKind identifies the shape of a field group entry
type FieldKind string

const (
	// FieldData is a plain data field
	FieldData FieldKind = "DataField"
	// FieldAction is an action button inside the group
	FieldAction FieldKind = "Action"
	// FieldAnnotation references another annotation (e.g., a data point)
	FieldAnnotation FieldKind = "Annotation"
)

// FieldGroupField is one row of a field group column.
type FieldGroupField struct {
	Kind  FieldKind `json:"kind" yaml:"kind"`
	Label string    `json:"label,omitempty" yaml:"label,omitempty"`
	Path  string    `json:"path,omitempty" yaml:"path,omitempty"`
	// Type is the Edm business data type; looked up from sibling columns when empty
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// Visualization of an annotation reference ("Rating", "Progress", "Number")
	Visualization string  `json:"visualization,omitempty" yaml:"visualization,omitempty"`
	TargetValue   float64 `json:"targetValue,omitempty" yaml:"targetValue,omitempty"`
}

// FieldGroup is the composite annotation rendered as stacked rows in one column.
type FieldGroup struct {
	ShowLabels bool              `json:"showLabels,omitempty" yaml:"showLabels,omitempty"`
	Fields     []FieldGroupField `json:"fields" yaml:"fields"`
}

// Aggregation flags attached to an annotation column in analytical tables
type Aggregation struct {
	Aggregatable bool `json:"aggregatable,omitempty" yaml:"aggregatable,omitempty"`
	// TechnicallyGroupable is set under the extension marker for custom aggregates
	TechnicallyGroupable bool `json:"technicallyGroupable,omitempty" yaml:"technicallyGroupable,omitempty"`
	Extension            bool `json:"extension,omitempty" yaml:"extension,omitempty"`
}
