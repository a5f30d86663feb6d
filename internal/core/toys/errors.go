package toys

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSynced matches every *PreconditionError.
	ErrNotSynced = errors.New("target is not in sync mode")
	// ErrStaleReference is returned once the native object behind a facade
	// has been destroyed.
	ErrStaleReference = errors.New("native object no longer exists")

	ErrNilNative         = errors.New("native object is nil")
	ErrNotATarget        = errors.New("native object is not a shooting target")
	ErrToyKindMismatch   = errors.New("native object is registered as a different toy kind")
	ErrAlreadyRegistered = errors.New("native object already has a facade")
	ErrIdentityConflict  = errors.New("native id is already bound to another native object")
	ErrUnknownTargetType = errors.New("unknown target type")
)

// PreconditionError reports a guarded write attempted outside sync mode.
type PreconditionError struct {
	ID    NativeID
	Field string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("toys: attempted to set %s on target %d while it was not in sync mode", e.Field, e.ID)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrNotSynced
}

func (e *PreconditionError) Unwrap() error {
	return ErrNotSynced
}

func staleError(id NativeID) error {
	return fmt.Errorf("toys: toy %d: %w", id, ErrStaleReference)
}
