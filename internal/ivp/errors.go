package ivp

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrConfig indicates an invalid run configuration (rejected before stepping).
	ErrConfig = errors.New("ivp: invalid configuration")

	// ErrMissingParam indicates a parameter key required by the model is absent.
	ErrMissingParam = errors.New("ivp: missing required parameter")

	// ErrSingular indicates the model is undefined at the evaluated state.
	ErrSingular = errors.New("ivp: singular right-hand side")

	// ErrNonFinite indicates a computed state contains NaN or Inf.
	ErrNonFinite = errors.New("ivp: non-finite state")
)

// StepError tags a failure with the step index and state where it occurred.
// The driver returns it alongside the partial trajectory up to the last
// finite state.
type StepError struct {
	Step  int
	Time  float64
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
