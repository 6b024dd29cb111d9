package engine

import "errors"

// Domain errors for engine operations.
var (
	// ErrPlatformNotFound indicates no platform is registered under the requested name.
	ErrPlatformNotFound = errors.New("engine: no registered platform with that name")

	// ErrDuplicatePlatform indicates a platform name is registered twice.
	ErrDuplicatePlatform = errors.New("engine: platform already registered")

	// ErrMalformedInput indicates a serialized system or state could not be parsed.
	ErrMalformedInput = errors.New("engine: malformed serialized input")

	// ErrIllegalProperty indicates a property name the platform does not know.
	ErrIllegalProperty = errors.New("engine: illegal property name")

	// ErrInvalidProperty indicates a known property with an unusable value.
	ErrInvalidProperty = errors.New("engine: invalid property value")

	// ErrParticleCount indicates a state whose particle count differs from the system.
	ErrParticleCount = errors.New("engine: particle count mismatch between state and system")

	// ErrIntegratorBound indicates an integrator that is already bound to a context.
	ErrIntegratorBound = errors.New("engine: integrator already bound to a context")

	// ErrNotBound indicates an integrator stepped before being bound to a context.
	ErrNotBound = errors.New("engine: integrator not bound to a context")

	// ErrUnsupported indicates a force or box the platform cannot evaluate.
	ErrUnsupported = errors.New("engine: unsupported by platform")

	// ErrInvalidState indicates positions diverged (NaN or Inf detected).
	ErrInvalidState = errors.New("engine: invalid state (NaN or Inf detected)")

	// ErrConstraints indicates the constraint solver did not converge.
	ErrConstraints = errors.New("engine: constraints did not converge")

	// ErrContextClosed indicates use of a context after Close.
	ErrContextClosed = errors.New("engine: context closed")
)

// SimulationError wraps an error with the operation that raised it.
type SimulationError struct {
	Op      string
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Op == "" {
		return e.Wrapped.Error()
	}
	return e.Op + ": " + e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// Wrap returns err as a *SimulationError for op. A nil err stays nil and an
// existing SimulationError is returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *SimulationError
	if errors.As(err, &se) {
		return err
	}
	return &SimulationError{Op: op, Wrapped: err}
}
