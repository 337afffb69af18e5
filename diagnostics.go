package canopy

import (
	"errors"
	"log/slog"
)

// DiagnosticKind classifies a non-fatal build problem.
type DiagnosticKind uint8

const (
	DiagUnknownType   DiagnosticKind = iota // subtree skipped: no constructor for its tag
	DiagConstruction                        // subtree skipped: constructor failed
	DiagMissingParent                       // layout left unresolved: node has no parent
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUnknownType:
		return "unknown-type"
	case DiagConstruction:
		return "construction"
	case DiagMissingParent:
		return "missing-parent"
	default:
		return "unknown"
	}
}

// Diagnostic is one non-fatal problem reported during a build.
type Diagnostic struct {
	Kind DiagnosticKind
	Path string // document path of the offending record, e.g. "$.children[2]"
	Err  error
}

func (d Diagnostic) Error() string {
	return d.Err.Error()
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", d.Kind.String()),
		slog.String("path", d.Path),
		slog.String("err", d.Err.Error()),
	)
}

// diagnosticKindOf maps an error returned by a build step to its kind. The
// outermost typed error decides: a constructor failing because a sub-graph
// had an unknown root type is a construction problem.
func diagnosticKindOf(err error) DiagnosticKind {
	switch err.(type) {
	case *UnknownTypeError:
		return DiagUnknownType
	case *MissingParentError:
		return DiagMissingParent
	case *ConstructionError:
		return DiagConstruction
	}
	switch {
	case errors.Is(err, ErrUnknownType):
		return DiagUnknownType
	case errors.Is(err, ErrMissingParent):
		return DiagMissingParent
	default:
		return DiagConstruction
	}
}

// Result is the outcome of a build that did not fail fatally. Root is nil
// when the root record itself could not be built; Diagnostics lists every
// skipped subtree and unresolved layout in the order they were met.
//
// A sub-graph whose own root cannot be built yields two diagnostics: the
// cause, at a path inside the sub-graph such as "hud.json:$", followed by
// a DiagConstruction for the referencing record. To count skipped
// references, count DiagConstruction entries whose Path has no source prefix.
type Result struct {
	Root        *Node
	Diagnostics []Diagnostic
}

// Err joins the diagnostics into one error, or returns nil when the build
// was clean.
func (r *Result) Err() error {
	if len(r.Diagnostics) == 0 {
		return nil
	}
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Count returns how many diagnostics of kind were reported.
func (r *Result) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
