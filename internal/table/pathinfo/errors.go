package pathinfo

import (
	"errors"
	"fmt"
)

// ErrPathResolution is matched by every PathResolutionError
var ErrPathResolution = errors.New("path resolution failed")

// PathResolutionError reports a path segment that does not exist in the metadata graph.
type PathResolutionError struct {
	Path    string // Full path being resolved
	Segment string // Offending segment
	Owner   string // Type on which the segment was looked up
}

func (e *PathResolutionError) Error() string {
	if e.Owner == "" {
		return fmt.Sprintf("cannot resolve %q: unknown segment %q", e.Path, e.Segment)
	}
	return fmt.Sprintf("cannot resolve %q: %s has no member %q", e.Path, e.Owner, e.Segment)
}

// Is makes errors.Is(err, ErrPathResolution) succeed
func (e *PathResolutionError) Is(target error) bool {
	return target == ErrPathResolution
}
