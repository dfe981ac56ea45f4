package column

import (
	"errors"
	"fmt"
)

// ErrUnhandledColumnKind is matched by every UnhandledColumnKindError
var ErrUnhandledColumnKind = errors.New("unhandled column kind")

// UnhandledColumnKindError reports a column declaration outside {Annotation, Slot, Default}.
// It is a configuration error and aborts the derivation pass.
type UnhandledColumnKindError struct {
	Kind   string
	Column string
}

func (e *UnhandledColumnKindError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("unhandled column kind %q for column %s", e.Kind, e.Column)
	}
	return fmt.Sprintf("unhandled column kind %q", e.Kind)
}

// Is makes errors.Is(err, ErrUnhandledColumnKind) succeed
func (e *UnhandledColumnKindError) Is(target error) bool {
	return target == ErrUnhandledColumnKind
}
