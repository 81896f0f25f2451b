package detect

import (
	"errors"
	"fmt"

	"github.com/netsig/netsig/pkg/signature"
)

// ErrInvalidQuery is returned when a detection query carries an out-of-range
// port or an unrecognized protocol token. It is the only error path out of
// Detect; zero matches is a successful result, not an error.
var ErrInvalidQuery = errors.New("invalid query")

// InvalidQueryError wraps ErrInvalidQuery with field-level detail.
type InvalidQueryError struct {
	Field  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query field %q: %s", e.Field, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

// Is checks if the error matches ErrInvalidQuery.
func (e *InvalidQueryError) Is(target error) bool { return target == ErrInvalidQuery }

// ExitCode maps engine errors to CLI exit codes.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch {
	case errors.Is(err, ErrInvalidQuery):
		return 2
	case errors.Is(err, signature.ErrSignatureNotFound):
		return 3
	case errors.Is(err, signature.ErrDuplicateSignature):
		return 4
	case errors.Is(err, signature.ErrPersistence):
		return 5
	default:
		return 1
	}
}
