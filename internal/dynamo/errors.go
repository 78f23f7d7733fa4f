package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation and tuning operations.
var (
	// ErrEmptyTrajectory indicates a simulation produced zero-length time
	// series; no metric or fitness is computable from it.
	ErrEmptyTrajectory = errors.New("dynamo: empty trajectory")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDimensionMismatch indicates mismatched state/control/gain dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)

// DivergenceError signals that the closed-loop simulation left the finite
// numeric domain (NaN/Inf state or control). Callers that reduce
// trajectories to scalars must propagate it rather than substitute a
// default value: a masked divergence looks identical to a genuinely good
// candidate and poisons any optimization built on top.
type DivergenceError struct {
	Step int
	Time float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("dynamo: simulation diverged at step %d (t=%.4f)", e.Step, e.Time)
}

// IsDivergence reports whether err wraps a DivergenceError.
func IsDivergence(err error) bool {
	var de *DivergenceError
	return errors.As(err, &de)
}
