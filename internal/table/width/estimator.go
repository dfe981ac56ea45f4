// Package width estimates the minimum width and gap hints of table columns.
package width

import (
	"github.com/conduit-lang/gridmeta/internal/table/column"
	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

// Config holds the constants used by the estimator, in character cells
type Config struct {
	// ReadOnly tables reserve no space for edit controls
	ReadOnly bool
	// ButtonPadding is added around the text of a button
	ButtonPadding float64
	// ValueHelpGap is reserved for the value help icon of editable columns
	ValueHelpGap float64
	// UnitEditGap is reserved for the unit input of editable measure columns
	UnitEditGap float64
	// MaxStringWidth caps the width derived from a string's max length
	MaxStringWidth float64
}

// DefaultConfig returns the default estimator configuration
func DefaultConfig() *Config {
	return &Config{
		ButtonPadding:  2,
		ValueHelpGap:   2,
		UnitEditGap:    3,
		MaxStringWidth: 20,
	}
}

// Estimator computes width hints for column declarations.
type Estimator struct {
	config *Config
}

// NewEstimator creates an estimator with the default configuration
func NewEstimator() *Estimator {
	return NewEstimatorWithConfig(DefaultConfig())
}

// NewEstimatorWithConfig creates an estimator with a custom configuration
func NewEstimatorWithConfig(config *Config) *Estimator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Estimator{config: config}
}

// ButtonWidth returns the width of a button showing label.
func (e *Estimator) ButtonWidth(label string) float64 {
	return TextWidth(label) + e.config.ButtonPadding
}

// Estimate computes the width hint of decl. allColumns is consulted to find
// the business data type of field group entries that do not declare one.
func (e *Estimator) Estimate(decl column.Declaration, allColumns []column.Declaration) Hint {
	col, ok := decl.(*column.AnnotationColumn)
	if !ok {
		// Custom columns size themselves
		return Empty()
	}

	hint := Empty()
	if col.FieldGroup != nil {
		hint = Merge(hint, e.fieldGroupHint(col.FieldGroup, allColumns))
	}

	var gap *float64
	add := func(v float64) {
		if gap == nil {
			gap = ptr(0)
		}
		*gap += ceil(v)
	}

	if col.ValueHelp != "" && !col.IsComposite() && !hasExplicitGap(col.VisualSettings) {
		if e.config.ReadOnly {
			add(0)
		} else {
			add(e.config.ValueHelpGap)
		}
	}

	if col.Unit != nil {
		switch {
		case col.Unit.IsTextual():
			add(e.ButtonWidth(unitText(col.Unit)))
		case e.config.ReadOnly:
			add(0)
		default:
			add(e.config.UnitEditGap)
		}
	}

	if gap != nil {
		hint = Merge(hint, Hint{Gap: gap})
	}
	return hint
}

// fieldGroupHint sizes a field group by its widest row.
func (e *Estimator) fieldGroupHint(group *column.FieldGroup, allColumns []column.Declaration) Hint {
	widest := 0.0
	for _, field := range group.Fields {
		var label, value float64
		switch field.Kind {
		case column.FieldAction:
			value = ceil(e.ButtonWidth(field.Label))
		case column.FieldAnnotation:
			value = ceil(annotationWidth(field))
			if group.ShowLabels {
				label = ceil(labelWidth(field.Label))
			}
		default:
			value = ceil(e.valueWidth(fieldType(field, allColumns)))
			if group.ShowLabels {
				label = ceil(labelWidth(field.Label))
			}
		}
		if label+value > widest {
			widest = label + value
		}
	}
	return Hint{MinWidth: ptr(widest), VerticalArrangement: true}
}

// labelWidth includes the trailing colon rendered after a field label.
func labelWidth(label string) float64 {
	if label == "" {
		return 0
	}
	return TextWidth(label) + 1
}

func annotationWidth(field column.FieldGroupField) float64 {
	switch field.Visualization {
	case "Rating":
		stars := field.TargetValue
		if stars <= 0 {
			stars = 5
		}
		return stars * 1.375
	case "Progress":
		return 5
	default:
		return 10
	}
}

type valueType struct {
	edmType   string
	maxLength *int
	precision *int
}

// fieldType looks up the business data type of a field group entry.
func fieldType(field column.FieldGroupField, allColumns []column.Declaration) valueType {
	if field.Type != "" {
		return valueType{edmType: field.Type}
	}
	for _, decl := range allColumns {
		col, ok := decl.(*column.AnnotationColumn)
		if !ok || col.RelativePath != field.Path || col.TypeConfig == nil {
			continue
		}
		return valueType{
			edmType:   col.TypeConfig.ClassName,
			maxLength: col.TypeConfig.Constraints.MaxLength,
			precision: col.TypeConfig.Constraints.Precision,
		}
	}
	return valueType{edmType: metamodel.EdmString}
}

// valueWidth is the expected rendered width of a value of the given type.
func (e *Estimator) valueWidth(t valueType) float64 {
	switch t.edmType {
	case metamodel.EdmBoolean, metamodel.EdmByte:
		return 3
	case metamodel.EdmSByte:
		return 4
	case metamodel.EdmInt16:
		return 6
	case metamodel.EdmInt32:
		return 11
	case metamodel.EdmInt64:
		return 20
	case metamodel.EdmDecimal:
		if t.precision != nil {
			return float64(*t.precision) + 2
		}
		return 17
	case metamodel.EdmDouble, metamodel.EdmSingle:
		return 14
	case metamodel.EdmDate:
		return 10
	case metamodel.EdmTimeOfDay:
		return 8
	case metamodel.EdmDateTimeOffset:
		return 20
	case metamodel.EdmGuid:
		return 36
	default:
		if t.maxLength != nil && float64(*t.maxLength) < e.config.MaxStringWidth {
			return float64(*t.maxLength)
		}
		return e.config.MaxStringWidth
	}
}

func hasExplicitGap(settings *column.VisualSettings) bool {
	return settings != nil && settings.WidthCalculation != nil && settings.WidthCalculation.Gap != nil
}

func unitText(unit *column.UnitRef) string {
	if unit.Text != "" {
		return unit.Text
	}
	return unit.Path
}
