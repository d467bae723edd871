package comparative

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSubject is the kind of UnknownSubjectError.
	ErrUnknownSubject = errors.New("unknown subject")
	// ErrInvalidGroupCount is returned for k < 1.
	ErrInvalidGroupCount = errors.New("group count must be at least 1")
	// ErrUnknownGroupMode is returned by ParseGroupMode.
	ErrUnknownGroupMode = errors.New("unknown group mode")
	// ErrInvalidSubject is returned by Add for an empty name.
	ErrInvalidSubject = errors.New("subject name is empty")
)

// UnknownSubjectError names a subject that was never added.
type UnknownSubjectError struct {
	Name string
}

func (e *UnknownSubjectError) Error() string {
	return fmt.Sprintf("unknown subject %q", e.Name)
}

// Is matches ErrUnknownSubject.
func (e *UnknownSubjectError) Is(target error) bool {
	return target == ErrUnknownSubject
}
