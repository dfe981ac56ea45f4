package width

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/gridmeta/internal/table/column"
	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

func intPtr(v int) *int { return &v }

func TestTextWidth(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"ascii", "Status", 6},
		{"empty", "", 0},
		{"wide", "日本", 4},
		{"fullwidth", "ＡＢ", 4},
		{"halfwidth katakana", "ｶﾅ", 2},
		{"combining mark", "e\u0301", 1},
		{"mixed", "Name 名前", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TextWidth(tt.text))
		})
	}
}

func TestMerge_Monoid(t *testing.T) {
	a := Hint{MinWidth: ptr(10)}
	b := Hint{Gap: ptr(2), VerticalArrangement: true}
	c := Hint{MinWidth: ptr(12), Gap: ptr(1)}

	assert.Equal(t, a, Merge(Empty(), a))
	assert.Equal(t, a, Merge(a, Empty()))
	assert.Equal(t, Merge(Merge(a, b), c), Merge(a, Merge(b, c)))

	merged := Merge(Merge(a, b), c)
	require.NotNil(t, merged.MinWidth)
	require.NotNil(t, merged.Gap)
	assert.Equal(t, 12.0, *merged.MinWidth)
	assert.Equal(t, 2.0, *merged.Gap)
	assert.True(t, merged.VerticalArrangement)
}

func TestApply_Idempotent(t *testing.T) {
	hint := Hint{MinWidth: ptr(30), Gap: ptr(4), VerticalArrangement: true}

	once := Apply(nil, hint)
	twice := Apply(once, hint)
	assert.Equal(t, once, twice)
}

func TestApply_NeverShrinks(t *testing.T) {
	settings := &column.VisualSettings{WidthCalculation: &column.WidthCalculation{MinWidth: ptr(40)}}

	result := Apply(settings, Hint{MinWidth: ptr(30), Gap: ptr(2)})
	require.NotNil(t, result.WidthCalculation)
	assert.Equal(t, 40.0, *result.WidthCalculation.MinWidth)
	assert.Equal(t, 2.0, *result.WidthCalculation.Gap)

	// Input untouched
	assert.Nil(t, settings.WidthCalculation.Gap)
}

func TestApply_EmptyHint(t *testing.T) {
	assert.Nil(t, Apply(nil, Empty()))
}

func TestEstimate_FieldGroup(t *testing.T) {
	status := &column.AnnotationColumn{
		Name:         "Status",
		RelativePath: "Status",
		TypeConfig: &column.TypeConfig{
			ClassName:   metamodel.EdmString,
			Constraints: column.Constraints{MaxLength: intPtr(1)},
		},
	}
	header := &column.AnnotationColumn{
		Name:           "Header",
		AnnotationPath: "@UI.FieldGroup#Header",
		FieldGroup: &column.FieldGroup{
			ShowLabels: true,
			// Rows: 7+1, 0+9, 7+7, 13+17
			Fields: []column.FieldGroupField{
				{Kind: column.FieldData, Label: "Status", Path: "Status"},
				{Kind: column.FieldAction, Label: "Approve"},
				{Kind: column.FieldAnnotation, Label: "Rating", Visualization: "Rating"},
				{Kind: column.FieldData, Label: "Gross Amount", Type: metamodel.EdmDecimal},
			},
		},
	}
	all := []column.Declaration{status, header}

	hint := NewEstimator().Estimate(header, all)
	require.NotNil(t, hint.MinWidth)
	assert.Equal(t, 30.0, *hint.MinWidth)
	assert.True(t, hint.VerticalArrangement)
	assert.Nil(t, hint.Gap)
}

func TestEstimate_FieldGroupWithoutLabels(t *testing.T) {
	group := &column.AnnotationColumn{
		Name: "Group",
		FieldGroup: &column.FieldGroup{
			Fields: []column.FieldGroupField{
				{Kind: column.FieldData, Label: "A very long label", Type: metamodel.EdmDate},
				{Kind: column.FieldData, Label: "Id", Type: metamodel.EdmGuid},
			},
		},
	}

	hint := NewEstimator().Estimate(group, []column.Declaration{group})
	require.NotNil(t, hint.MinWidth)
	assert.Equal(t, 36.0, *hint.MinWidth)
}

func TestEstimate_ValueHelp(t *testing.T) {
	col := &column.AnnotationColumn{Name: "Status", RelativePath: "Status", ValueHelp: "StatusVH"}

	t.Run("editable", func(t *testing.T) {
		hint := NewEstimator().Estimate(col, nil)
		require.NotNil(t, hint.Gap)
		assert.Equal(t, 2.0, *hint.Gap)
	})

	t.Run("read-only", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ReadOnly = true
		hint := NewEstimatorWithConfig(cfg).Estimate(col, nil)
		require.NotNil(t, hint.Gap)
		assert.Equal(t, 0.0, *hint.Gap)
	})

	t.Run("explicit gap", func(t *testing.T) {
		explicit := *col
		explicit.VisualSettings = &column.VisualSettings{WidthCalculation: &column.WidthCalculation{Gap: ptr(5)}}
		assert.True(t, NewEstimator().Estimate(&explicit, nil).IsEmpty())
	})

	t.Run("composite", func(t *testing.T) {
		composite := *col
		composite.PropertyInfos = []string{"Status", "StatusText"}
		assert.True(t, NewEstimator().Estimate(&composite, nil).IsEmpty())
	})
}

func TestEstimate_Units(t *testing.T) {
	tests := []struct {
		name     string
		unit     *column.UnitRef
		readOnly bool
		expected float64
	}{
		{"textual unit", &column.UnitRef{Path: "WeightUnit", Text: "kg", Kind: column.UnitText}, false, 4},
		{"textual unit read-only", &column.UnitRef{Path: "WeightUnit", Text: "kg", Kind: column.UnitText}, true, 4},
		{"timezone", &column.UnitRef{Path: "TimeZone", Text: "Europe/Berlin", Kind: column.UnitTimezone}, false, 15},
		{"timezone falls back to path", &column.UnitRef{Path: "TimeZone", Kind: column.UnitTimezone}, false, 10},
		{"currency editable", &column.UnitRef{Path: "Currency", Kind: column.UnitCurrency}, false, 3},
		{"currency read-only", &column.UnitRef{Path: "Currency", Kind: column.UnitCurrency}, true, 0},
		{"quantity editable", &column.UnitRef{Path: "WeightUnit", Kind: column.UnitQuantity}, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.ReadOnly = tt.readOnly
			col := &column.AnnotationColumn{Name: "Measure", RelativePath: "Measure", Unit: tt.unit}

			hint := NewEstimatorWithConfig(cfg).Estimate(col, nil)
			require.NotNil(t, hint.Gap)
			assert.Equal(t, tt.expected, *hint.Gap)
		})
	}
}

func TestEstimate_ContributionsAdd(t *testing.T) {
	col := &column.AnnotationColumn{
		Name:         "Weight",
		RelativePath: "Weight",
		ValueHelp:    "UnitVH",
		Unit:         &column.UnitRef{Text: "kg", Kind: column.UnitText},
	}

	hint := NewEstimator().Estimate(col, nil)
	require.NotNil(t, hint.Gap)
	assert.Equal(t, 6.0, *hint.Gap)
}

func TestEstimate_CeilPerContribution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ButtonPadding = 0.5
	cfg.ValueHelpGap = 0.5
	col := &column.AnnotationColumn{
		Name:      "Weight",
		ValueHelp: "UnitVH",
		Unit:      &column.UnitRef{Text: "kg", Kind: column.UnitText},
	}

	hint := NewEstimatorWithConfig(cfg).Estimate(col, nil)
	require.NotNil(t, hint.Gap)
	// ceil(0.5) + ceil(2.5), not ceil(3.0)
	assert.Equal(t, 4.0, *hint.Gap)
}

func TestEstimate_EstimateThenApplyTwice(t *testing.T) {
	col := &column.AnnotationColumn{
		Name:      "Weight",
		ValueHelp: "UnitVH",
		Unit:      &column.UnitRef{Kind: column.UnitQuantity},
	}
	est := NewEstimator()

	first := Apply(col.VisualSettings, est.Estimate(col, nil))
	second := Apply(first, est.Estimate(col, nil))
	assert.Equal(t, first, second)
	assert.Equal(t, 5.0, *second.WidthCalculation.Gap)
}

func TestEstimate_CustomColumns(t *testing.T) {
	est := NewEstimator()
	assert.True(t, est.Estimate(column.NewSlotColumn("Rating", "Rating"), nil).IsEmpty())
	assert.True(t, est.Estimate(column.NewDefaultColumn("Draft", "Draft"), nil).IsEmpty())
}

func TestButtonWidth(t *testing.T) {
	assert.Equal(t, 9.0, NewEstimator().ButtonWidth("Approve"))
	assert.Equal(t, 6.0, NewEstimatorWithConfig(&Config{ButtonPadding: 2}).ButtonWidth("日本"))
}
