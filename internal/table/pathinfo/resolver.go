package pathinfo

import (
	"strings"

	"github.com/conduit-lang/gridmeta/runtime/metamodel"
)

// RootContext identifies the entity a table is bound to, as an absolute
// context path starting at an entity set (e.g., "/Orders" or "/Orders/Items").
type RootContext struct {
	ContextPath string
}

// Resolver walks metadata paths through a Store. It holds no state between calls.
type Resolver struct {
	store metamodel.Store
}

// NewResolver creates a resolver over the given store
func NewResolver(store metamodel.Store) *Resolver {
	return &Resolver{store: store}
}

// ResolveRoot resolves the table's own context path.
func (r *Resolver) ResolveRoot(root RootContext) (*DataModelPathInfo, error) {
	return r.walk(root.ContextPath, "")
}

// Resolve resolves a column path relative to the table's context path. The
// returned hops start at the context path's entity set, so they include the
// hops of the context path itself.
func (r *Resolver) Resolve(columnPath string, root RootContext) (*DataModelPathInfo, error) {
	return r.walk(root.ContextPath, columnPath)
}

// walk resolves contextPath followed by relativePath, segment by segment.
func (r *Resolver) walk(contextPath, relativePath string) (*DataModelPathInfo, error) {
	fullPath := joinPath(contextPath, relativePath)
	segments := split(contextPath)
	if len(segments) == 0 {
		return nil, &PathResolutionError{Path: fullPath, Segment: contextPath}
	}

	setNode, ok := r.store.GetObject("/" + segments[0])
	if !ok || setNode.Kind != metamodel.NodeEntitySet {
		return nil, &PathResolutionError{Path: fullPath, Segment: segments[0]}
	}

	info := &DataModelPathInfo{
		StartEntitySet:   "/" + setNode.EntitySet.Name,
		StartEntityType:  setNode.EntitySet.EntityType,
		TargetEntityType: setNode.EntitySet.EntityType,
	}

	rest := append(append([]string{}, segments[1:]...), split(relativePath)...)
	owner := setNode.EntitySet.EntityType
	ownerIsComplex := false
	var propertyPath []string

	for i, segment := range rest {
		last := i == len(rest)-1

		node, ok := r.store.GetObject("/" + owner + "/" + segment)
		if !ok {
			return nil, &PathResolutionError{Path: fullPath, Segment: segment, Owner: owner}
		}

		switch node.Kind {
		case metamodel.NodeNavigationProperty:
			if ownerIsComplex {
				return nil, &PathResolutionError{Path: fullPath, Segment: segment, Owner: owner}
			}
			info.NavigationHops = append(info.NavigationHops, Hop{
				Name:         segment,
				Kind:         HopNavigation,
				TargetType:   node.Navigation.TargetType,
				IsCollection: node.Navigation.IsCollection,
			})
			info.TargetEntityType = node.Navigation.TargetType
			owner = node.Navigation.TargetType
			propertyPath = append(propertyPath, segment)

		case metamodel.NodeProperty:
			propertyPath = append(propertyPath, segment)
			if last {
				info.TargetProperty = node.Property
				continue
			}
			if !node.Property.IsComplex() {
				// Primitive properties cannot be traversed
				return nil, &PathResolutionError{Path: fullPath, Segment: rest[i+1], Owner: owner + "/" + segment}
			}
			info.NavigationHops = append(info.NavigationHops, Hop{
				Name:         segment,
				Kind:         HopComplex,
				TargetType:   node.Property.Type,
				IsCollection: node.Property.Collection,
			})
			owner = node.Property.Type
			ownerIsComplex = true

		case metamodel.NodeAnnotation:
			if !last {
				return nil, &PathResolutionError{Path: fullPath, Segment: rest[i+1], Owner: owner + "/" + segment}
			}
			info.TargetAnnotation = node.Annotation

		default:
			return nil, &PathResolutionError{Path: fullPath, Segment: segment, Owner: owner}
		}
	}

	// Drop the context path's own segments
	contextHops := len(segments) - 1
	if contextHops < len(propertyPath) {
		info.PropertyPath = strings.Join(propertyPath[contextHops:], "/")
	}

	return info, nil
}

func split(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func joinPath(contextPath, relativePath string) string {
	if relativePath == "" {
		return contextPath
	}
	return strings.TrimSuffix(contextPath, "/") + "/" + relativePath
}
