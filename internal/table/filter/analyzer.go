// Package filter decides whether a column may be used as a filter criterion.
package filter

import (
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/gridmeta/internal/table/column"
	"github.com/conduit-lang/gridmeta/internal/table/pathinfo"
	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

// Analytics describes the aggregation state of an analytical table.
type Analytics struct {
	Enabled bool
	// Aggregates holds the names of columns registered as server-side aggregates
	Aggregates map[string]bool
}

// IsAggregate reports whether the column is registered as a server-side aggregate.
func (a Analytics) IsAggregate(name string) bool {
	return a.Aggregates[name]
}

// Analyzer evaluates the filterability rules of annotation columns.
type Analyzer struct {
	store     metamodel.Store
	analytics Analytics
	logger    *zap.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithAnalytics enables the analytical exclusion rule
func WithAnalytics(a Analytics) Option {
	return func(an *Analyzer) { an.analytics = a }
}

// WithLogger sets the logger used for rule tracing
func WithLogger(logger *zap.Logger) Option {
	return func(an *Analyzer) { an.logger = logger }
}

// NewAnalyzer creates an analyzer over the given store
func NewAnalyzer(store metamodel.Store, opts ...Option) *Analyzer {
	a := &Analyzer{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IsFilterable returns true only when the base restriction check, the
// navigation cardinality rule and the analytical exclusion rule all pass.
// A nil resolved path (failed resolution) is never filterable.
func (a *Analyzer) IsFilterable(col *column.AnnotationColumn, resolved, root *pathinfo.DataModelPathInfo) bool {
	if col == nil || resolved == nil || root == nil {
		return false
	}

	if !a.isBaseFilterable(col, resolved, root) {
		return false
	}

	if !IsFilterableNavigation(col, resolved, root) {
		a.logger.Debug("column crosses a non-filterable navigation",
			zap.String("column", col.Name),
			zap.String("path", col.RelativePath))
		return false
	}

	// Ignoring aggregates and technically groupable extension columns for now;
	// a proper concept is still required.
	if a.analytics.Enabled {
		if a.analytics.IsAggregate(col.Name) {
			return false
		}
		if col.Aggregation.Extension && col.Aggregation.TechnicallyGroupable {
			return false
		}
	}

	return true
}

// isBaseFilterable applies the entity model's filter restrictions.
func (a *Analyzer) isBaseFilterable(col *column.AnnotationColumn, resolved, root *pathinfo.DataModelPathInfo) bool {
	prop := resolved.TargetProperty
	if prop == nil {
		// Annotation targets (field groups, data points) are never filter criteria
		return false
	}
	if prop.IsComplex() || !metamodel.IsFilterableType(prop.Type) {
		return false
	}

	tableSet := a.store.EntitySetPath("/" + root.TargetEntityType)
	if tableSet == "" {
		tableSet = root.StartEntitySet
	}
	if !a.store.FilterRestrictionsByPath(tableSet).IsFilterable(col.RelativePath) {
		return false
	}

	// The owning entity set may restrict the leaf property itself
	if resolved.IsRelative() {
		ownerSet := resolved.TargetEntitySetPath(a.store)
		if ownerSet != "" && !a.store.FilterRestrictionsByPath(ownerSet).IsFilterable(prop.Name) {
			return false
		}
	}

	return true
}

// RelativeHops drops every hop up to and including the hop that reaches the
// table's root entity type. When no hop reaches it, all hops are kept.
func RelativeHops(resolved, root *pathinfo.DataModelPathInfo) []pathinfo.Hop {
	hops := resolved.NavigationHops
	for i, hop := range hops {
		if hop.Kind == pathinfo.HopNavigation && hop.TargetType == root.TargetEntityType {
			return hops[i+1:]
		}
	}
	return hops
}

// IsFilterableNavigation applies the navigation cardinality rule: a column
// crossing a navigation is only filterable when it is part of the line item
// and no relative hop is a to-many navigation.
func IsFilterableNavigation(col *column.AnnotationColumn, resolved, root *pathinfo.DataModelPathInfo) bool {
	if !strings.Contains(col.RelativePath, "/") {
		return true
	}
	if !col.IsPartOfLineItem {
		return false
	}
	for _, hop := range RelativeHops(resolved, root) {
		if hop.Kind == pathinfo.HopNavigation && hop.IsCollection {
			return false
		}
	}
	return true
}
