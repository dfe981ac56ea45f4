package width

import "github.com/conduit-lang/gridmeta/internal/table/column"

// Hint is a width contribution for one column. Hints form a monoid under
// Merge with Empty as identity.
type Hint struct {
	MinWidth            *float64
	Gap                 *float64
	VerticalArrangement bool
}

// Empty returns the identity hint
func Empty() Hint {
	return Hint{}
}

// IsEmpty reports whether the hint carries no contribution
func (h Hint) IsEmpty() bool {
	return h.MinWidth == nil && h.Gap == nil && !h.VerticalArrangement
}

// Merge combines two hints field by field: widths take the maximum,
// the vertical arrangement flag is or-ed.
func Merge(a, b Hint) Hint {
	return Hint{
		MinWidth:            maxPtr(a.MinWidth, b.MinWidth),
		Gap:                 maxPtr(a.Gap, b.Gap),
		VerticalArrangement: a.VerticalArrangement || b.VerticalArrangement,
	}
}

// FromSettings extracts the hint already recorded on visual settings.
func FromSettings(settings *column.VisualSettings) Hint {
	if settings == nil || settings.WidthCalculation == nil {
		return Empty()
	}
	wc := settings.WidthCalculation
	return Hint{
		MinWidth:            copyPtr(wc.MinWidth),
		Gap:                 copyPtr(wc.Gap),
		VerticalArrangement: wc.VerticalArrangement,
	}
}

// Apply merges the hint into a copy of settings and returns it. The input
// is never modified. Applying the same hint twice yields the same result.
func Apply(settings *column.VisualSettings, hint Hint) *column.VisualSettings {
	merged := Merge(FromSettings(settings), hint)
	if merged.IsEmpty() {
		return settings.Clone()
	}
	return &column.VisualSettings{
		WidthCalculation: &column.WidthCalculation{
			MinWidth:            merged.MinWidth,
			Gap:                 merged.Gap,
			VerticalArrangement: merged.VerticalArrangement,
		},
	}
}

func maxPtr(a, b *float64) *float64 {
	switch {
	case a == nil:
		return copyPtr(b)
	case b == nil:
		return copyPtr(a)
	case *a >= *b:
		return copyPtr(a)
	default:
		return copyPtr(b)
	}
}

func copyPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func ptr(v float64) *float64 {
	return &v
}
