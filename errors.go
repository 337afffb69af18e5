package canopy

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error in this package unwraps to one of them,
// so callers can branch with errors.Is.
var (
	// ErrParse marks a document that is not well-formed. Fatal for a load.
	ErrParse = errors.New("canopy: malformed document")

	// ErrUnknownType marks a record whose type tag has no constructor.
	ErrUnknownType = errors.New("canopy: unknown type")

	// ErrMissingParent marks a relative or percentage layout requested on a
	// node with no parent.
	ErrMissingParent = errors.New("canopy: layout requires a parent")

	// ErrConstruction marks a constructor that could not build its node.
	ErrConstruction = errors.New("canopy: construction failed")

	// ErrSourceNotFound is returned by a Source when a path does not exist.
	ErrSourceNotFound = errors.New("canopy: source not found")

	// ErrReferenceCycle marks a sub-graph that references itself,
	// directly or through other sub-graphs.
	ErrReferenceCycle = errors.New("canopy: sub-graph reference cycle")
)

// ParseError reports a document that could not be parsed.
type ParseError struct {
	Source string // path or "<content>"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("canopy: parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// UnknownTypeError reports a record whose type tag is not registered.
type UnknownTypeError struct {
	Type string
	Path string
}

func (e *UnknownTypeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("canopy: %s: record has no type tag", e.Path)
	}
	return fmt.Sprintf("canopy: %s: unknown type %q", e.Path, e.Type)
}

func (e *UnknownTypeError) Unwrap() error { return ErrUnknownType }

// MissingParentError reports a layout that needs a parent on a detached node.
type MissingParentError struct {
	Mode PositionMode
	Node string
}

func (e *MissingParentError) Error() string {
	return fmt.Sprintf("canopy: %s layout on %s: node has no parent", e.Mode, e.Node)
}

func (e *MissingParentError) Unwrap() error { return ErrMissingParent }

// ConstructionError reports a constructor failure for one record.
type ConstructionError struct {
	Type string
	Path string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("canopy: %s: construct %s: %v", e.Path, e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() []error { return []error{ErrConstruction, e.Err} }
