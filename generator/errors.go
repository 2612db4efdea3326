package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInfo is returned by ApplyBindings when the bindings carry no
	// info object.
	ErrMissingInfo = errors.New("openapi bindings: info is required")

	// ErrDuplicateOperationID is returned in strict mode when two operations
	// resolve to the same operationId.
	ErrDuplicateOperationID = errors.New("duplicate operationId")

	// ErrDuplicateOperation is returned in strict mode when two routes map
	// the same method on the same path.
	ErrDuplicateOperation = errors.New("duplicate operation")

	// ErrFinalized is returned when routes are processed after the document
	// was written.
	ErrFinalized = errors.New("document already written")
)

// RouteError reports a failure to map one method of one route.
type RouteError struct {
	Route  string
	Method string
	Err    error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route %q [%s]: %v", e.Route, e.Method, e.Err)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}
