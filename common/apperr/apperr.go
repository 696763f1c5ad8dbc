package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds. Callers match with errors.Is; the handler layer maps
// them to HTTP status codes via Status.
var (
	// ErrNotFound indicates an id or natural key with no matching row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates a malformed or out-of-range field.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCycleDetected indicates a tree mutation that would create a cycle.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrInvalidAssociation indicates a move that violates the
	// rooted/grouped exclusivity invariant.
	ErrInvalidAssociation = errors.New("invalid association")
	// ErrConflict indicates a natural-key race surfaced by a storage constraint.
	ErrConflict = errors.New("conflict")
	// ErrStorage indicates a backing-store failure. Never swallowed.
	ErrStorage = errors.New("storage failure")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// NotFound builds a NotFound error carrying the entity kind and id
func NotFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// NotFoundKey builds a NotFound error for a non-integer key
func NotFoundKey(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
}

// InvalidArgument builds an InvalidArgument error with a reason
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}

// Storage wraps a backing-store error so it keeps its cause but matches ErrStorage
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStorage)
}

// Status maps an error to its HTTP status code
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrCycleDetected),
		errors.Is(err, ErrInvalidAssociation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
