package column

// Declaration is the closed sum of column kinds. Only *AnnotationColumn,
// *SlotColumn and *DefaultColumn implement it; consumers switch on the
// concrete type and treat anything else as an UnhandledColumnKindError.
type Declaration interface {
	// Kind returns the column kind
	Kind() Kind
	// ColumnName returns the unique key of the column within its table
	ColumnName() string
	// DisplayLabel returns the declared (unlocalized) label
	DisplayLabel() string
	// IsHidden reports whether the column is declared hidden
	IsHidden() bool

	declaration()
}

// AnnotationColumn is a column derived from a line item annotation.
type AnnotationColumn struct {
	Name string
	// AnnotationPath is the metadata path of the column target, relative to the
	// table's entity type; defaults to RelativePath when empty
	AnnotationPath string
	// RelativePath is the data path bound by the column (e.g., "Customer/Name")
	RelativePath     string
	Label            string
	GroupLabel       string
	Group            string
	Tooltip          string
	IsPartOfLineItem bool
	Availability     Availability

	TypeConfig      *TypeConfig
	VisualSettings  *VisualSettings
	ExportSettings  *ExportSettings
	Unit            *UnitRef
	TextArrangement *TextArrangement
	FormatOptions   FormatOptions
	Aggregation     Aggregation

	// AdditionalLabels disambiguate colliding labels of navigated columns
	AdditionalLabels []string
	// PropertyInfos lists the sub-properties of a composite column
	PropertyInfos []string
	// FieldGroup is set for field group columns
	FieldGroup *FieldGroup
	// ValueHelp names the value help attached to the column, if any
	ValueHelp string
}

// Kind implements Declaration
func (c *AnnotationColumn) Kind() Kind { return KindAnnotation }

// ColumnName implements Declaration
func (c *AnnotationColumn) ColumnName() string { return c.Name }

// DisplayLabel implements Declaration
func (c *AnnotationColumn) DisplayLabel() string { return c.Label }

// IsHidden implements Declaration
func (c *AnnotationColumn) IsHidden() bool { return c.Availability == AvailabilityHidden }

func (c *AnnotationColumn) declaration() {}

// TargetPath returns the metadata path the column resolves against.
func (c *AnnotationColumn) TargetPath() string {
	if c.AnnotationPath != "" {
		return c.AnnotationPath
	}
	return c.RelativePath
}

// IsComposite reports whether the column bundles several sub-properties.
func (c *AnnotationColumn) IsComposite() bool {
	return len(c.PropertyInfos) > 0
}

// CustomColumn holds the fields shared by slot and default columns.
// It does not implement Declaration on its own.
type CustomColumn struct {
	Name           string
	Label          string
	Tooltip        string
	Availability   Availability
	ExportSettings *ExportSettings
	VisualSettings *VisualSettings
}

// ColumnName implements Declaration
func (c *CustomColumn) ColumnName() string { return c.Name }

// DisplayLabel implements Declaration
func (c *CustomColumn) DisplayLabel() string { return c.Label }

// IsHidden implements Declaration
func (c *CustomColumn) IsHidden() bool { return c.Availability == AvailabilityHidden }

func (c *CustomColumn) declaration() {}

// SlotColumn is a custom column contributed through an extension slot.
type SlotColumn struct {
	CustomColumn
}

// NewSlotColumn creates a slot column
func NewSlotColumn(name, label string) *SlotColumn {
	return &SlotColumn{CustomColumn{Name: name, Label: label, Availability: AvailabilityDefault}}
}

// Kind implements Declaration
func (c *SlotColumn) Kind() Kind { return KindSlot }

// DefaultColumn is a custom column generated by the table itself.
type DefaultColumn struct {
	CustomColumn
}

// NewDefaultColumn creates a default column
func NewDefaultColumn(name, label string) *DefaultColumn {
	return &DefaultColumn{CustomColumn{Name: name, Label: label, Availability: AvailabilityDefault}}
}

// Kind implements Declaration
func (c *DefaultColumn) Kind() Kind { return KindDefault }

// Find returns the declaration with the given name.
func Find(decls []Declaration, name string) (Declaration, bool) {
	for _, d := range decls {
		if d.ColumnName() == name {
			return d, true
		}
	}
	return nil, false
}

// IsNil reports whether d is nil or a typed nil of one of the column kinds.
func IsNil(d Declaration) bool {
	switch c := d.(type) {
	case nil:
		return true
	case *AnnotationColumn:
		return c == nil
	case *SlotColumn:
		return c == nil
	case *DefaultColumn:
		return c == nil
	}
	return false
}
