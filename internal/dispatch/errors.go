package dispatch

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrLockContention is returned when a mutating command targets an entity
// that already has a command in flight. The duplicate attempt carries no
// new intent, so callers typically absorb it rather than surface it.
var ErrLockContention = errors.New("operation already in flight for entity")

// TransportError reports a failure reaching an actor endpoint or the
// store: a network error, a timeout, or a non-2xx response. Body holds
// the response body text when one was available.
type TransportError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
		}
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError reports a precondition failure detected before any
// external call is made, such as a missing image on product creation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
