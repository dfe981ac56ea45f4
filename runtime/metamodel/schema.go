// Package metamodel provides the read-only metadata store consumed by the
// column derivation engine: entity types, complex types, entity sets and their
// capability restrictions, indexed for path-based lookup.
package metamodel

// Document is the top-level container of a service metadata document.
type Document struct {
	Version      string        `json:"version" yaml:"version"`             // Document schema version
	Namespace    string        `json:"namespace" yaml:"namespace"`         // Service namespace
	EntityTypes  []EntityType  `json:"entity_types" yaml:"entity_types"`   // All entity type definitions
	ComplexTypes []ComplexType `json:"complex_types" yaml:"complex_types"` // Structured (non-entity) types
	EntitySets   []EntitySet   `json:"entity_sets" yaml:"entity_sets"`     // Addressable collections
}

// EntityType describes a single entity type.
type EntityType struct {
	Name                 string               `json:"name" yaml:"name"`                                   // Qualified type name (e.g., "Sales.Order")
	Keys                 []string             `json:"keys,omitempty" yaml:"keys,omitempty"`               // Key property names
	Properties           []Property           `json:"properties" yaml:"properties"`                       // Structural properties
	NavigationProperties []NavigationProperty `json:"navigation_properties" yaml:"navigation_properties"` // Edges to other entity types
	Annotations          []string             `json:"annotations,omitempty" yaml:"annotations,omitempty"` // Annotation terms present (e.g., "@UI.FieldGroup#Address")
}

// ComplexType describes a structured type that is embedded in an entity type.
type ComplexType struct {
	Name       string     `json:"name" yaml:"name"`
	Properties []Property `json:"properties" yaml:"properties"`
}

// Property describes a structural property of an entity or complex type.
type Property struct {
	Name            string `json:"name" yaml:"name"`                                             // Property name
	Type            string `json:"type" yaml:"type"`                                             // Edm type or qualified complex type name
	MaxLength       *int   `json:"max_length,omitempty" yaml:"max_length,omitempty"`             // Edm.String facet
	Precision       *int   `json:"precision,omitempty" yaml:"precision,omitempty"`               // Edm.Decimal facet
	Scale           *int   `json:"scale,omitempty" yaml:"scale,omitempty"`                       // Edm.Decimal facet
	Nullable        *bool  `json:"nullable,omitempty" yaml:"nullable,omitempty"`                 // Nil means nullable
	Collection      bool   `json:"collection,omitempty" yaml:"collection,omitempty"`             // Collection(...) of Type
	Label           string `json:"label,omitempty" yaml:"label,omitempty"`                       // @Common.Label
	Hidden          bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`                     // @UI.Hidden
	Unit            string `json:"unit,omitempty" yaml:"unit,omitempty"`                         // @Measures.Unit path
	ISOCurrency     string `json:"iso_currency,omitempty" yaml:"iso_currency,omitempty"`         // @Measures.ISOCurrency path
	Timezone        string `json:"timezone,omitempty" yaml:"timezone,omitempty"`                 // @Common.Timezone path
	Text            string `json:"text,omitempty" yaml:"text,omitempty"`                         // @Common.Text path
	TextArrangement string `json:"text_arrangement,omitempty" yaml:"text_arrangement,omitempty"` // @UI.TextArrangement
	Groupable       bool   `json:"groupable,omitempty" yaml:"groupable,omitempty"`               // Analytics: groupable dimension
	Aggregatable    bool   `json:"aggregatable,omitempty" yaml:"aggregatable,omitempty"`         // Analytics: aggregatable measure
}

// NavigationProperty describes an edge from one entity type to another.
type NavigationProperty struct {
	Name         string `json:"name" yaml:"name"`                                       // Navigation property name
	TargetType   string `json:"target_type" yaml:"target_type"`                         // Qualified target entity type
	IsCollection bool   `json:"is_collection,omitempty" yaml:"is_collection,omitempty"` // To-many when true
	Partner      string `json:"partner,omitempty" yaml:"partner,omitempty"`             // Reverse navigation name
}

// EntitySet is an addressable collection of entities with capability restrictions.
type EntitySet struct {
	Name               string             `json:"name" yaml:"name"`
	EntityType         string             `json:"entity_type" yaml:"entity_type"`
	FilterRestrictions FilterRestrictions `json:"filter_restrictions" yaml:"filter_restrictions"`
	SortRestrictions   SortRestrictions   `json:"sort_restrictions" yaml:"sort_restrictions"`
	CaseInsensitive    bool               `json:"case_insensitive,omitempty" yaml:"case_insensitive,omitempty"` // Backend supports tolower() in filters
}

// FilterRestrictions mirrors @Capabilities.FilterRestrictions of an entity set.
type FilterRestrictions struct {
	NonFilterableProperties  []string            `json:"non_filterable_properties,omitempty" yaml:"non_filterable_properties,omitempty"`
	FilterAllowedExpressions map[string][]string `json:"filter_allowed_expressions,omitempty" yaml:"filter_allowed_expressions,omitempty"`
}

// SortRestrictions mirrors @Capabilities.SortRestrictions of an entity set.
type SortRestrictions struct {
	NonSortableProperties []string `json:"non_sortable_properties,omitempty" yaml:"non_sortable_properties,omitempty"`
}

// IsComplex reports whether the property is typed with a complex type rather than an Edm primitive.
func (p *Property) IsComplex() bool {
	return p.Type != "" && !IsPrimitiveType(p.Type)
}

// Property returns the named property of the entity type.
func (e *EntityType) Property(name string) (*Property, bool) {
	for i := range e.Properties {
		if e.Properties[i].Name == name {
			return &e.Properties[i], true
		}
	}
	return nil, false
}

// Navigation returns the named navigation property of the entity type.
func (e *EntityType) Navigation(name string) (*NavigationProperty, bool) {
	for i := range e.NavigationProperties {
		if e.NavigationProperties[i].Name == name {
			return &e.NavigationProperties[i], true
		}
	}
	return nil, false
}

// HasAnnotation reports whether the entity type carries the given annotation term.
func (e *EntityType) HasAnnotation(term string) bool {
	for _, a := range e.Annotations {
		if a == term {
			return true
		}
	}
	return false
}

// IsKey reports whether name is one of the entity type's key properties.
func (e *EntityType) IsKey(name string) bool {
	for _, k := range e.Keys {
		if k == name {
			return true
		}
	}
	return false
}

// Property returns the named property of the complex type.
func (c *ComplexType) Property(name string) (*Property, bool) {
	for i := range c.Properties {
		if c.Properties[i].Name == name {
			return &c.Properties[i], true
		}
	}
	return nil, false
}

// IsFilterable reports whether the property path is absent from the non-filterable list.
func (f FilterRestrictions) IsFilterable(path string) bool {
	for _, p := range f.NonFilterableProperties {
		if p == path {
			return false
		}
	}
	return true
}

// IsSortable reports whether the property path is absent from the non-sortable list.
func (s SortRestrictions) IsSortable(path string) bool {
	for _, p := range s.NonSortableProperties {
		if p == path {
			return false
		}
	}
	return true
}
