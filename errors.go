package sparsebayes

import (
	"errors"
	"fmt"

	"github.com/hupe1980/sparsebayes/internal/fit"
)

var (
	// ErrNotFitted is returned when Predict, Report or Save is called on
	// a model without fitted state.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrInvalidSnapshot is returned when a persisted model cannot be
	// decoded (bad magic, unknown version, checksum mismatch or a
	// truncated payload).
	ErrInvalidSnapshot = errors.New("invalid model snapshot")
)

// ShapeMismatchError indicates inconsistent input dimensions. It is
// raised before any iteration starts and is fatal to that call only.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ShapeMismatchError struct {
	What     string
	Expected int
	Actual   int
	cause    error
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s: expected %d, got %d", e.What, e.Expected, e.Actual)
}

func (e *ShapeMismatchError) Unwrap() error { return e.cause }

// SingularSystemError indicates that the posterior precision matrix
// could not be factorized even after regularization. Fit returns it
// together with the best state obtained so far.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type SingularSystemError struct {
	Basis int
	cause error
}

func (e *SingularSystemError) Error() string {
	return fmt.Sprintf("singular posterior system over %d basis functions", e.Basis)
}

func (e *SingularSystemError) Unwrap() error { return e.cause }

// translateError normalizes internal errors into the public taxonomy.
func translateError(err error, basis int) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fit.ErrSingular) {
		return &SingularSystemError{Basis: basis, cause: err}
	}
	return err
}
