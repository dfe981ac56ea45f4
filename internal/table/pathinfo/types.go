// Package pathinfo resolves column annotation paths against the metadata
// graph, recording every navigation hop crossed on the way.
package pathinfo

import "github.com/conduit-lang/gridmeta/runtime/metamodel"

// HopKind distinguishes navigation edges from structural (complex type) segments
type HopKind int

const (
	// HopNavigation crosses a navigation property to another entity type
	HopNavigation HopKind = iota
	// HopComplex descends into a complex-typed structural property
	HopComplex
)

// String returns the string representation of the hop kind
func (k HopKind) String() string {
	switch k {
	case HopNavigation:
		return "NavigationProperty"
	case HopComplex:
		return "Property"
	default:
		return "unknown"
	}
}

// Hop is one segment crossed between the root entity and the column's owner.
type Hop struct {
	Name         string
	Kind         HopKind
	TargetType   string // Entity or complex type reached by the hop
	IsCollection bool   // To-many navigation or collection-valued complex property
}

// DataModelPathInfo is the resolved form of a metadata path.
type DataModelPathInfo struct {
	// StartEntitySet is the entity set the path starts from (e.g., "/Orders")
	StartEntitySet string
	// StartEntityType is the entity type of StartEntitySet
	StartEntityType string
	// TargetEntityType is the last entity type reached
	TargetEntityType string
	// NavigationHops lists every hop from the start entity, in order
	NavigationHops []Hop
	// TargetProperty is the leaf property, nil for entity or annotation targets
	TargetProperty *metamodel.Property
	// TargetAnnotation is the annotation term of annotation targets
	TargetAnnotation string
	// PropertyPath is the column path relative to the table context, normalized
	PropertyPath string
}

// IsRelative reports whether the path crosses at least one navigation.
func (p *DataModelPathInfo) IsRelative() bool {
	for _, hop := range p.NavigationHops {
		if hop.Kind == HopNavigation {
			return true
		}
	}
	return false
}

// IsComplexType reports whether the path targets a complex-typed property.
func (p *DataModelPathInfo) IsComplexType() bool {
	return p.TargetProperty != nil && p.TargetProperty.IsComplex()
}

// TargetEntitySetPath returns the entity set path of the target entity type.
func (p *DataModelPathInfo) TargetEntitySetPath(store metamodel.Store) string {
	return store.EntitySetPath("/" + p.TargetEntityType)
}
