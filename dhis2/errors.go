package dhis2

import (
	"errors"
	"fmt"
)

// ErrCollaborator tags every failed external call for errors.Is checks.
var ErrCollaborator = errors.New("collaborator call failed")

// CollaboratorError is the opaque passthrough of an external call
// failure, carrying the path and whatever status the transport attached.
type CollaboratorError struct {
	Path   string
	Status int // 0 when the transport exposed no status
	Err    error
}

func (e *CollaboratorError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("collaborator call %s failed with status %d: %v", e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("collaborator call %s failed: %v", e.Path, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }

// StatusError lets a Fetch implementation attach an HTTP-ish status the
// gateway will surface on CollaboratorError.
type StatusError interface {
	error
	StatusCode() int
}

func wrapCollaborator(path string, err error) error {
	ce := &CollaboratorError{Path: path, Err: err}
	var se StatusError
	if errors.As(err, &se) {
		ce.Status = se.StatusCode()
	}
	return ce
}
