package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/conduit-lang/gridmeta/internal/cli/ui"
	"github.com/conduit-lang/gridmeta/internal/table/column"
	"github.com/conduit-lang/gridmeta/internal/table/delegate"
	"github.com/conduit-lang/gridmeta/internal/table/propinfo"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (expected table or json)", format)
	}
}

// derivedTable is the JSON form of one derived table
type derivedTable struct {
	Table          string                  `json:"table"`
	ContextPath    string                  `json:"contextPath"`
	DraftIndicator string                  `json:"draftIndicator,omitempty"`
	Properties     []propinfo.PropertyInfo `json:"properties"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeDerivedTable renders one table's property infos
func writeDerivedTable(w io.Writer, info delegate.TableInfo, derived derivedTable, noColor bool) {
	ui.Header(w, info.ID, noColor)

	kv := ui.NewKeyValueTable(w, noColor)
	kv.AddRow("Context", info.ContextPath)
	kv.AddRow("Visible", strings.Join(info.Visible, ", "))
	if derived.DraftIndicator != "" {
		kv.AddRow("Draft indicator", derived.DraftIndicator)
	}
	kv.Render()
	fmt.Fprintln(w)

	table := ui.NewTable(w, []string{"Name", "Label", "Path", "Filter", "Sort", "Group", "Key", "Unit", "Width"}, &ui.TableOptions{NoColor: noColor})
	for i := range derived.Properties {
		p := &derived.Properties[i]
		path := p.Path
		if p.IsComposite() {
			path = "[" + strings.Join(p.PropertyInfos, ", ") + "]"
		}
		table.AddRow(
			p.Name,
			p.Label,
			path,
			yesNo(p.Filterable),
			yesNo(p.Sortable),
			yesNo(p.Groupable),
			yesNo(p.Key),
			unitText(p.Unit),
			widthText(p.VisualSettings),
		)
	}
	table.Render()
	fmt.Fprintln(w)
}

func yesNo(v *bool) string {
	switch {
	case v == nil:
		return "-"
	case *v:
		return "yes"
	default:
		return "no"
	}
}

func unitText(u *column.UnitRef) string {
	if u == nil {
		return ""
	}
	if u.Text != "" {
		return u.Text
	}
	return u.Path
}

// widthText renders a width calculation as "min/gap", e.g. "27/-" or "-/5".
func widthText(v *column.VisualSettings) string {
	if v == nil || v.WidthCalculation == nil {
		return ""
	}
	return floatText(v.WidthCalculation.MinWidth) + "/" + floatText(v.WidthCalculation.Gap)
}

func floatText(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
