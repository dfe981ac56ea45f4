package draft

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/gridmeta/internal/metrics"
	"github.com/conduit-lang/gridmeta/internal/table/column"
)

// Eligible returns the declarations able to host the draft indicator, either
// directly or through a field group sub-path.
func Eligible(decls []column.Declaration) []column.Declaration {
	var eligible []column.Declaration
	for _, decl := range decls {
		if isEligible(decl) {
			eligible = append(eligible, decl)
		}
	}
	return eligible
}

func isEligible(decl column.Declaration) bool {
	col, ok := decl.(*column.AnnotationColumn)
	return ok && col.FormatOptions.HasDraftIndicatorEligibility()
}

// Selector picks the draft indicator column of a table.
type Selector struct {
	logger *zap.Logger
}

// NewSelector creates a selector
func NewSelector(logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{logger: logger}
}

// Select assigns the draft indicator to the first visible eligible column.
// When none of the visible columns is eligible, an eligible column that is
// about to be added is recorded instead. Once the state holds an assignment
// the call is a no-op and returns the existing assignment.
func (s *Selector) Select(state *State, visibleInOrder []string, candidates []column.Declaration, adding string) (string, bool) {
	generation := state.Generation()
	if name, ok := state.Assignment(); ok {
		return name, true
	}

	eligible := make(map[string]bool)
	for _, decl := range Eligible(candidates) {
		eligible[decl.ColumnName()] = true
	}

	for _, name := range visibleInOrder {
		if eligible[name] {
			return s.record(state, generation, name, false)
		}
	}

	if adding != "" && eligible[adding] {
		return s.record(state, generation, adding, true)
	}

	return "", false
}

func (s *Selector) record(state *State, generation uint64, name string, speculative bool) (string, bool) {
	assigned, ok := state.assign(generation, name)
	if ok && assigned == name {
		metrics.DraftAssignments.Inc()
		s.logger.Debug("draft indicator assigned",
			zap.String("column", name),
			zap.String("state_path", state.Path()),
			zap.Bool("speculative", speculative))
	}
	return assigned, ok
}
