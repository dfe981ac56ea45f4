package column

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, kind := range []Kind{KindAnnotation, KindSlot, KindDefault} {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	_, err := ParseKind("Chart")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnhandledColumnKind))

	var kindErr *UnhandledColumnKindError
	require.True(t, errors.As(err, &kindErr))
	assert.Equal(t, "Chart", kindErr.Kind)
}

func TestDeclarationKinds(t *testing.T) {
	decls := []Declaration{
		&AnnotationColumn{Name: "DataField::OrderNo", RelativePath: "OrderNo"},
		NewSlotColumn("Custom", "Custom Column"),
		NewDefaultColumn("Technical", ""),
	}

	assert.Equal(t, KindAnnotation, decls[0].Kind())
	assert.Equal(t, KindSlot, decls[1].Kind())
	assert.Equal(t, KindDefault, decls[2].Kind())

	found, ok := Find(decls, "Custom")
	require.True(t, ok)
	assert.Equal(t, "Custom Column", found.DisplayLabel())

	_, ok = Find(decls, "Missing")
	assert.False(t, ok)
}

func TestAnnotationColumn_TargetPath(t *testing.T) {
	col := &AnnotationColumn{RelativePath: "Customer/Name"}
	assert.Equal(t, "Customer/Name", col.TargetPath())

	col.AnnotationPath = "@UI.FieldGroup#Header"
	assert.Equal(t, "@UI.FieldGroup#Header", col.TargetPath())
}

func TestAnnotationColumn_IsHidden(t *testing.T) {
	col := &AnnotationColumn{Availability: AvailabilityHidden}
	assert.True(t, col.IsHidden())

	col.Availability = AvailabilityAdaptation
	assert.False(t, col.IsHidden())
}

func TestTypeConfig_Clone(t *testing.T) {
	maxLength := 10
	orig := &TypeConfig{
		ClassName:     "Edm.String",
		FormatOptions: map[string]any{"parseKeepsEmptyString": true},
		Constraints:   Constraints{MaxLength: &maxLength},
	}

	clone := orig.Clone()
	clone.FormatOptions["parseKeepsEmptyString"] = false

	assert.Equal(t, true, orig.FormatOptions["parseKeepsEmptyString"])
	assert.False(t, orig.IsZero())
	assert.True(t, (&TypeConfig{}).IsZero())
	assert.Nil(t, (*TypeConfig)(nil).Clone())
}

func TestVisualSettings_Clone(t *testing.T) {
	gap := 2.0
	orig := &VisualSettings{WidthCalculation: &WidthCalculation{Gap: &gap}}

	clone := orig.Clone()
	*clone.WidthCalculation.Gap = 5

	assert.Equal(t, 2.0, *orig.WidthCalculation.Gap)
}

func TestFormatOptions_DraftEligibility(t *testing.T) {
	assert.False(t, FormatOptions{}.HasDraftIndicatorEligibility())
	assert.True(t, FormatOptions{HasDraftIndicator: true}.HasDraftIndicatorEligibility())
	assert.True(t, FormatOptions{FieldGroupDraftIndicatorPropertyPath: "OrderNo"}.HasDraftIndicatorEligibility())
}

func TestUnitRef_IsTextual(t *testing.T) {
	assert.True(t, (&UnitRef{Kind: UnitText}).IsTextual())
	assert.True(t, (&UnitRef{Kind: UnitTimezone}).IsTextual())
	assert.False(t, (&UnitRef{Kind: UnitCurrency}).IsTextual())
	assert.False(t, (*UnitRef)(nil).IsTextual())
}

func TestIsNil(t *testing.T) {
	var annotation *AnnotationColumn
	var slot *SlotColumn
	var def *DefaultColumn

	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(annotation))
	assert.True(t, IsNil(slot))
	assert.True(t, IsNil(def))
	assert.False(t, IsNil(&AnnotationColumn{Name: "OrderNo"}))
	assert.False(t, IsNil(NewSlotColumn("Rating", "Rating")))
}
