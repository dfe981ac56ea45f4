// Package definition loads declarative table definitions: the context path,
// the ordered column declarations and the initial column visibility of each
// table.
package definition

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/conduit-lang/gridmeta/internal/table/column"
	"github.com/conduit-lang/gridmeta/internal/table/filter"
)

// ErrInvalidDefinition is returned for structurally invalid table definitions
var ErrInvalidDefinition = errors.New("invalid table definition")

// Definition is a loaded table definition.
type Definition struct {
	ID          string
	ContextPath string
	ReadOnly    bool
	Analytics   filter.Analytics
	Columns     []column.Declaration
	// Visible lists the initially visible columns in display order
	Visible []string
}

// Column returns the declaration with the given name
func (d *Definition) Column(name string) (column.Declaration, bool) {
	return column.Find(d.Columns, name)
}

// ColumnNames returns the names of all declared columns in order
func (d *Definition) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.ColumnName()
	}
	return names
}

// file is the serialized form of a definition file.
type file struct {
	Tables []rawTable `json:"tables" yaml:"tables"`
}

type rawTable struct {
	ID          string       `json:"id" yaml:"id"`
	ContextPath string       `json:"contextPath" yaml:"contextPath"`
	ReadOnly    bool         `json:"readOnly" yaml:"readOnly"`
	Analytics   rawAnalytics `json:"analytics" yaml:"analytics"`
	Columns     []rawColumn  `json:"columns" yaml:"columns"`
	Visible     []string     `json:"visibleColumns" yaml:"visibleColumns"`
}

type rawAnalytics struct {
	Enabled    bool     `json:"enabled" yaml:"enabled"`
	Aggregates []string `json:"aggregates" yaml:"aggregates"`
}

type rawColumn struct {
	Kind             string                  `json:"kind" yaml:"kind"`
	Name             string                  `json:"name" yaml:"name"`
	AnnotationPath   string                  `json:"annotationPath" yaml:"annotationPath"`
	RelativePath     string                  `json:"relativePath" yaml:"relativePath"`
	Label            string                  `json:"label" yaml:"label"`
	GroupLabel       string                  `json:"groupLabel" yaml:"groupLabel"`
	Group            string                  `json:"group" yaml:"group"`
	Tooltip          string                  `json:"tooltip" yaml:"tooltip"`
	IsPartOfLineItem bool                    `json:"isPartOfLineItem" yaml:"isPartOfLineItem"`
	Availability     column.Availability     `json:"availability" yaml:"availability"`
	TypeConfig       *column.TypeConfig      `json:"typeConfig" yaml:"typeConfig"`
	VisualSettings   *column.VisualSettings  `json:"visualSettings" yaml:"visualSettings"`
	ExportSettings   *column.ExportSettings  `json:"exportSettings" yaml:"exportSettings"`
	Unit             *column.UnitRef         `json:"unit" yaml:"unit"`
	TextArrangement  *column.TextArrangement `json:"textArrangement" yaml:"textArrangement"`
	FormatOptions    column.FormatOptions    `json:"formatOptions" yaml:"formatOptions"`
	Aggregation      column.Aggregation      `json:"aggregation" yaml:"aggregation"`
	AdditionalLabels []string                `json:"additionalLabels" yaml:"additionalLabels"`
	PropertyInfos    []string                `json:"propertyInfos" yaml:"propertyInfos"`
	FieldGroup       *column.FieldGroup      `json:"fieldGroup" yaml:"fieldGroup"`
	ValueHelp        string                  `json:"valueHelp" yaml:"valueHelp"`
}

// declaration maps the serialized column onto the declaration sum type.
func (c rawColumn) declaration() (column.Declaration, error) {
	kind, err := column.ParseKind(c.Kind)
	if err != nil {
		var kindErr *column.UnhandledColumnKindError
		if errors.As(err, &kindErr) {
			kindErr.Column = c.Name
		}
		return nil, err
	}

	availability := c.Availability
	if availability == "" {
		availability = column.AvailabilityDefault
	}

	switch kind {
	case column.KindAnnotation:
		return &column.AnnotationColumn{
			Name:             c.Name,
			AnnotationPath:   c.AnnotationPath,
			RelativePath:     c.RelativePath,
			Label:            c.Label,
			GroupLabel:       c.GroupLabel,
			Group:            c.Group,
			Tooltip:          c.Tooltip,
			IsPartOfLineItem: c.IsPartOfLineItem,
			Availability:     availability,
			TypeConfig:       c.TypeConfig,
			VisualSettings:   c.VisualSettings,
			ExportSettings:   c.ExportSettings,
			Unit:             c.Unit,
			TextArrangement:  c.TextArrangement,
			FormatOptions:    c.FormatOptions,
			Aggregation:      c.Aggregation,
			AdditionalLabels: c.AdditionalLabels,
			PropertyInfos:    c.PropertyInfos,
			FieldGroup:       c.FieldGroup,
			ValueHelp:        c.ValueHelp,
		}, nil
	case column.KindSlot:
		return &column.SlotColumn{CustomColumn: c.custom(availability)}, nil
	case column.KindDefault:
		return &column.DefaultColumn{CustomColumn: c.custom(availability)}, nil
	}
	return nil, &column.UnhandledColumnKindError{Kind: c.Kind, Column: c.Name}
}

func (c rawColumn) custom(availability column.Availability) column.CustomColumn {
	return column.CustomColumn{
		Name:           c.Name,
		Label:          c.Label,
		Tooltip:        c.Tooltip,
		Availability:   availability,
		ExportSettings: c.ExportSettings,
		VisualSettings: c.VisualSettings,
	}
}

// definition validates the table and converts its columns.
func (t rawTable) definition() (*Definition, error) {
	if t.ContextPath == "" || t.ContextPath[0] != '/' {
		return nil, fmt.Errorf("%w: table %q: context path must start with '/'", ErrInvalidDefinition, t.ID)
	}

	def := &Definition{
		ID:          t.ID,
		ContextPath: t.ContextPath,
		ReadOnly:    t.ReadOnly,
		Analytics:   filter.Analytics{Enabled: t.Analytics.Enabled},
		Visible:     t.Visible,
	}
	if len(t.Analytics.Aggregates) > 0 {
		def.Analytics.Aggregates = make(map[string]bool, len(t.Analytics.Aggregates))
		for _, name := range t.Analytics.Aggregates {
			def.Analytics.Aggregates[name] = true
		}
	}

	seen := make(map[string]bool, len(t.Columns))
	for i, raw := range t.Columns {
		if raw.Name == "" {
			return nil, fmt.Errorf("%w: table %q: column %d has no name", ErrInvalidDefinition, t.ID, i)
		}
		if seen[raw.Name] {
			return nil, fmt.Errorf("%w: table %q: duplicate column %q", ErrInvalidDefinition, t.ID, raw.Name)
		}
		seen[raw.Name] = true

		decl, err := raw.declaration()
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", t.ID, err)
		}
		def.Columns = append(def.Columns, decl)
	}

	for _, name := range def.Visible {
		if !seen[name] {
			return nil, fmt.Errorf("%w: table %q: visible column %q is not declared", ErrInvalidDefinition, t.ID, name)
		}
	}

	return def, nil
}

// DecodeColumn decodes a single JSON column declaration.
func DecodeColumn(data []byte) (column.Declaration, error) {
	var raw rawColumn
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: column has no name", ErrInvalidDefinition)
	}
	return raw.declaration()
}
