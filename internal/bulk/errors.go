package bulk

import (
	"errors"
	"fmt"

	apperrors "github.com/mahmoud22020/Pvdmenus/pkg/errors"
)

// ValidationError is a required cell that is missing or malformed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return apperrors.ErrInvalidInput }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ResolutionError is a reference that matches no known entity.
type ResolutionError struct {
	Entity string // "Category", "Parent category", "Item"
	ID     int64
	Name   string
}

func (e *ResolutionError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s ID %d not found", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s %q not found", e.Entity, e.Name)
}

func (e *ResolutionError) Unwrap() error { return apperrors.ErrNotFound }

func unresolved(entity string, idCell, nameCell any) error {
	if id, ok := ParseID(idCell); ok {
		return &ResolutionError{Entity: entity, ID: id}
	}
	name := Text(nameCell)
	if name == "" {
		name = Text(idCell)
	}
	return &ResolutionError{Entity: entity, Name: name}
}

// errEmptyResponse marks a write the store acknowledged without returning the entity.
var errEmptyResponse = errors.New("empty response")

// RemoteError is a primary write the store rejected or never received.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }
func (e *RemoteError) Unwrap() error { return e.Err }

// CascadeError is a secondary write that failed after the primary write
// succeeded. The primary write stands.
type CascadeError struct {
	Step string
	Err  error
}

func (e *CascadeError) Error() string { return fmt.Sprintf("%s failed: %v", e.Step, e.Err) }
func (e *CascadeError) Unwrap() error { return e.Err }

// Kind names the taxonomy bucket of err for reporting.
func Kind(err error) string {
	var (
		ve *ValidationError
		re *ResolutionError
		ce *CascadeError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &re):
		return "resolution"
	case errors.As(err, &ce):
		return "cascade"
	}
	return "remote"
}
