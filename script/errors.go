package script

import (
	"errors"
	"fmt"
)

var (
	ErrBindingNotFound  = errors.New("script: binding not found")
	ErrWrongMemberKind  = errors.New("script: wrong member kind")
	ErrDuplicateBinding = errors.New("script: duplicate binding")
	ErrNotBindable      = errors.New("script: entity does not support group")
	ErrStaleEntity      = errors.New("script: entity no longer exists")
)

// BindingError reports a failed name resolution or a group that cannot be
// bound to an entity. Scripts receive it as a catchable error.
type BindingError struct {
	Group string
	Name  string
	Err   error
}

func (e *BindingError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Group)
	}
	return fmt.Sprintf("%v: %s.%s", e.Err, e.Group, e.Name)
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// ArgumentError reports arguments that do not match a method's declared
// parameters. Index is zero based, or -1 for arity errors.
type ArgumentError struct {
	Group  string
	Name   string
	Index  int
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("script: %s.%s: %s", e.Group, e.Name, e.Reason)
	}
	return fmt.Sprintf("script: %s.%s: argument %d: %s", e.Group, e.Name, e.Index+1, e.Reason)
}

func notFound(group, name string) error {
	return &BindingError{Group: group, Name: name, Err: ErrBindingNotFound}
}
