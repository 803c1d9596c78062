package oerror

import "fmt"

var (
	// ErrMissingCurve is returned when a launch enables an influence channel without a curve.
	ErrMissingCurve = New("controlled launch cannot be added: an enabled influence channel has no curve")
	// ErrNegligibleVelocity is returned when a launch velocity is zero or nearly zero.
	ErrNegligibleVelocity = New("controlled launch cannot be added: velocity is zero or nearly zero")
	// ErrUnknownAsset is returned when a named launch asset does not exist.
	ErrUnknownAsset = New("controlled launch asset not found")
	// ErrModeIndex is returned when a movement mode slot that was never registered is referenced.
	ErrModeIndex = New("movement mode index out of range")
)

type LocomotionError struct {
	Err string
}

// New formats a new LocomotionError.
func New(format string, args ...any) *LocomotionError {
	if len(args) == 0 {
		return &LocomotionError{Err: format}
	}
	return &LocomotionError{Err: fmt.Sprintf(format, args...)}
}

func (e *LocomotionError) Error() string {
	return e.Err
}
