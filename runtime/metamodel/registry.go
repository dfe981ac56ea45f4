package metamodel

import (
	"fmt"
	"strings"
	"sync"
)

// Store is the read-only, path-addressable view of a metadata document.
// Paths are absolute and start with an entity set, entity type or complex type
// name (e.g., "/Orders", "/Sales.Order/Customer", "/Sales.Order/@UI.FieldGroup#Header").
type Store interface {
	// GetObject resolves a path to a metadata node.
	GetObject(path string) (Node, bool)

	// EntitySetPath returns the path of the first entity set exposing the
	// given entity type path, or "" when the type is not addressable.
	EntitySetPath(entityTypePath string) string

	// FilterRestrictionsByPath returns the filter restrictions of an entity set.
	FilterRestrictionsByPath(entitySetPath string) FilterRestrictions

	// SortRestrictionsByPath returns the sort restrictions of an entity set.
	SortRestrictionsByPath(entitySetPath string) SortRestrictions

	// IsCaseSensitive reports whether string filters on the entity set compare case-sensitively.
	IsCaseSensitive(entitySetPath string) bool
}

// NodeKind identifies what a metadata path resolved to.
type NodeKind int

const (
	NodeEntitySet NodeKind = iota
	NodeEntityType
	NodeComplexType
	NodeProperty
	NodeNavigationProperty
	NodeAnnotation
)

// String returns the string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case NodeEntitySet:
		return "entity_set"
	case NodeEntityType:
		return "entity_type"
	case NodeComplexType:
		return "complex_type"
	case NodeProperty:
		return "property"
	case NodeNavigationProperty:
		return "navigation_property"
	case NodeAnnotation:
		return "annotation"
	default:
		return "unknown"
	}
}

// Node is the result of a path lookup. Exactly the field matching Kind is set,
// except for members, where Owner names the type declaring them.
type Node struct {
	Kind        NodeKind
	Owner       string
	EntitySet   *EntitySet
	EntityType  *EntityType
	ComplexType *ComplexType
	Property    *Property
	Navigation  *NavigationProperty
	Annotation  string
}

// Registry is the in-memory Store implementation. It indexes a Document once
// at construction; the document never changes afterwards.
type Registry struct {
	mu       sync.RWMutex
	document *Document

	// Pre-computed indexes (built at initialization)
	typesByName   map[string]*EntityType
	complexByName map[string]*ComplexType
	setsByName    map[string]*EntitySet
	setsByType    map[string]*EntitySet
}

// NewRegistry creates a registry for the given document and builds its indexes.
func NewRegistry(doc *Document) (*Registry, error) {
	if doc == nil {
		return nil, fmt.Errorf("metadata document is nil")
	}
	r := &Registry{
		document:      doc,
		typesByName:   make(map[string]*EntityType),
		complexByName: make(map[string]*ComplexType),
		setsByName:    make(map[string]*EntitySet),
		setsByType:    make(map[string]*EntitySet),
	}
	if err := r.buildIndexes(); err != nil {
		return nil, err
	}
	return r, nil
}

// buildIndexes builds all lookup indexes and checks cross references.
func (r *Registry) buildIndexes() error {
	for i := range r.document.EntityTypes {
		et := &r.document.EntityTypes[i]
		if _, exists := r.typesByName[et.Name]; exists {
			return fmt.Errorf("duplicate entity type: %s", et.Name)
		}
		r.typesByName[et.Name] = et
	}

	for i := range r.document.ComplexTypes {
		ct := &r.document.ComplexTypes[i]
		r.complexByName[ct.Name] = ct
	}

	for i := range r.document.EntitySets {
		set := &r.document.EntitySets[i]
		if _, ok := r.typesByName[set.EntityType]; !ok {
			return fmt.Errorf("entity set %s references unknown entity type %s", set.Name, set.EntityType)
		}
		r.setsByName[set.Name] = set
		// First set wins for reverse lookup
		if _, exists := r.setsByType[set.EntityType]; !exists {
			r.setsByType[set.EntityType] = set
		}
	}

	for _, et := range r.typesByName {
		for _, nav := range et.NavigationProperties {
			if _, ok := r.typesByName[nav.TargetType]; !ok {
				return fmt.Errorf("navigation %s/%s targets unknown entity type %s", et.Name, nav.Name, nav.TargetType)
			}
		}
	}

	return nil
}

// Document returns the underlying metadata document.
func (r *Registry) Document() *Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.document
}

// EntityType finds an entity type by qualified name.
// Returns a copy to prevent external mutation.
func (r *Registry) EntityType(name string) (*EntityType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	et, ok := r.typesByName[name]
	if !ok {
		return nil, false
	}
	etCopy := *et
	return &etCopy, true
}

// ComplexType finds a complex type by qualified name.
func (r *Registry) ComplexType(name string) (*ComplexType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, ok := r.complexByName[name]
	if !ok {
		return nil, false
	}
	ctCopy := *ct
	return &ctCopy, true
}

// EntitySet finds an entity set by name.
func (r *Registry) EntitySet(name string) (*EntitySet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.setsByName[name]
	if !ok {
		return nil, false
	}
	setCopy := *set
	return &setCopy, true
}

// EntityTypeNames returns the names of all entity types in document order.
func (r *Registry) EntityTypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.document.EntityTypes))
	for _, et := range r.document.EntityTypes {
		names = append(names, et.Name)
	}
	return names
}

// GetObject resolves an absolute metadata path of at most two segments.
func (r *Registry) GetObject(path string) (Node, bool) {
	segments := splitPath(path)
	if len(segments) == 0 || len(segments) > 2 {
		return Node{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	head := segments[0]
	if len(segments) == 1 {
		if set, ok := r.setsByName[head]; ok {
			return Node{Kind: NodeEntitySet, EntitySet: set}, true
		}
		if et, ok := r.typesByName[head]; ok {
			return Node{Kind: NodeEntityType, EntityType: et}, true
		}
		if ct, ok := r.complexByName[head]; ok {
			return Node{Kind: NodeComplexType, ComplexType: ct}, true
		}
		return Node{}, false
	}

	member := segments[1]

	// Members of a complex type
	if ct, ok := r.complexByName[head]; ok {
		if prop, ok := ct.Property(member); ok {
			return Node{Kind: NodeProperty, Owner: ct.Name, Property: prop}, true
		}
		return Node{}, false
	}

	et, ok := r.typesByName[head]
	if !ok {
		set, ok := r.setsByName[head]
		if !ok {
			return Node{}, false
		}
		et = r.typesByName[set.EntityType]
	}

	if strings.HasPrefix(member, "@") {
		if et.HasAnnotation(member) {
			return Node{Kind: NodeAnnotation, Owner: et.Name, Annotation: member}, true
		}
		return Node{}, false
	}
	if prop, ok := et.Property(member); ok {
		return Node{Kind: NodeProperty, Owner: et.Name, Property: prop}, true
	}
	if nav, ok := et.Navigation(member); ok {
		return Node{Kind: NodeNavigationProperty, Owner: et.Name, Navigation: nav}, true
	}
	return Node{}, false
}

// EntitySetPath returns "/<SetName>" for the first set exposing the entity type.
func (r *Registry) EntitySetPath(entityTypePath string) string {
	name := strings.TrimPrefix(entityTypePath, "/")

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.setsByName[name]; ok {
		return "/" + name
	}
	if set, ok := r.setsByType[name]; ok {
		return "/" + set.Name
	}
	return ""
}

// FilterRestrictionsByPath returns the filter restrictions of an entity set.
// Unknown sets are unrestricted.
func (r *Registry) FilterRestrictionsByPath(entitySetPath string) FilterRestrictions {
	set, ok := r.EntitySet(strings.TrimPrefix(entitySetPath, "/"))
	if !ok {
		return FilterRestrictions{}
	}
	return set.FilterRestrictions
}

// SortRestrictionsByPath returns the sort restrictions of an entity set.
func (r *Registry) SortRestrictionsByPath(entitySetPath string) SortRestrictions {
	set, ok := r.EntitySet(strings.TrimPrefix(entitySetPath, "/"))
	if !ok {
		return SortRestrictions{}
	}
	return set.SortRestrictions
}

// IsCaseSensitive reports whether string filters on the set compare case-sensitively.
func (r *Registry) IsCaseSensitive(entitySetPath string) bool {
	set, ok := r.EntitySet(strings.TrimPrefix(entitySetPath, "/"))
	if !ok {
		return true
	}
	return !set.CaseInsensitive
}

// splitPath splits an absolute metadata path into its non-empty segments.
func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
