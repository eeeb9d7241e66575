package canned

import (
	"errors"
	"fmt"
)

// ErrEmptyName is returned when a template name is blank.
var ErrEmptyName = errors.New("template name is empty")

// DuplicateNameError reports an add or rename onto a name already in use.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("template %q already exists", e.Name)
}

// NotFoundError reports an operation on a name that is not in the collection.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// ReservedNameError reports an attempt to change the sentinel entry.
type ReservedNameError struct {
	Name string
}

func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("template %q is reserved", e.Name)
}

// PersistenceError wraps a failed read or write of durable storage. The
// in-memory state stays usable when it is returned.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
