// Package errkit defines the error taxonomy shared across the analyzer
// components: every component-level failure is tagged with a Kind so
// callers can decide whether it is fatal (Cancelled, Timeout) or should be
// recorded against the analysis and otherwise ignored.
package errkit

import (
	"errors"
	"fmt"
)

// Kind discriminates the class of failure a component reported.
type Kind string

const (
	ManifestParsing Kind = "manifest_parsing"
	FileSystem      Kind = "file_system"
	InvalidStructure Kind = "invalid_structure"
	PatternEngine   Kind = "pattern_engine"
	ExternalTool    Kind = "external_tool"
	Cancelled       Kind = "cancelled"
	Timeout         Kind = "timeout"
)

// Error is a component-tagged, chainable error. It implements Unwrap so
// errors.Is/errors.As see through to Cause.
type Error struct {
	Kind      Kind
	Component string
	Path      string
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Cause != nil:
		return fmt.Sprintf("%s[%s]: %s: %s: %v", e.Component, e.Kind, e.Path, e.Message, e.Cause)
	case e.Path != "":
		return fmt.Sprintf("%s[%s]: %s: %s", e.Component, e.Kind, e.Path, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s[%s]: %s: %v", e.Component, e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s[%s]: %s", e.Component, e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, errkit.Kind(...)) work by comparing Kind when the
// target is itself an *Error with no Cause/Path/Message set, i.e. a
// sentinel built with New(kind, "", "").
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error. cause may be nil.
func New(kind Kind, component, message string, cause error) *Error {
	return &Error{Kind: kind, Component: component, Message: message, Cause: cause}
}

// WithPath returns a copy of e with Path set, for attaching the specific
// file a component-level error applies to.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	cp.Path = path
	return &cp
}

// KindOf reports the Kind of err if it is (or wraps) an *Error, and false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err is (or wraps) an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
