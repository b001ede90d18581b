package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrParameterBounds indicates a constructor or setter received a value
	// outside its valid range (non-positive mass or radius, bad bounds).
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidTimestep indicates a step was requested with dt <= 0, NaN or Inf.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive and finite")

	// ErrInvalidState indicates a body reached a NaN or Inf position or velocity.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownScene indicates a scene name missing from the registry.
	ErrUnknownScene = errors.New("dynamo: unknown scene")

	// ErrUnknownIntegrator indicates an integrator name missing from the registry.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
