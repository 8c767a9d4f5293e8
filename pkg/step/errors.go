package step

import (
	"errors"
	"fmt"
)

// ErrShellNotFound is returned by Parse when the file contains no shell
// record. Without a shell there is no authoritative face order and nothing
// can be labeled.
var ErrShellNotFound = errors.New("step: no shell entity found")

// CountMismatchError reports a label sequence whose length does not match
// the shell's face-reference count. Nothing is written when it is raised.
type CountMismatchError struct {
	ShellFaces int
	Labels     int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("step: shell references %d faces but %d labels were supplied",
		e.ShellFaces, e.Labels)
}

// ShapeError reports an entity record that did not have the structure the
// injector requires (a face entity with a quoted name as first argument).
// It signals a parser assumption violation, not recoverable data.
type ShapeError struct {
	ID     int
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("step: entity #%d: %s", e.ID, e.Reason)
}
