package numdom

import "fmt"

// ErrorKind classifies the fatal domain-misuse errors of spec.md §7.
// Infeasibility and precision-loss are not represented as errors: the
// former collapses a domain value to bottom, the latter is a logged
// warning (see package diagnostics); neither aborts analysis.
type ErrorKind int

const (
	// ErrCellWithoutScalar: an array_expansion cell was inserted without a
	// scalar variable attached.
	ErrCellWithoutScalar ErrorKind = iota
	// ErrUnknownOperation: an operation code outside the fixed enumerations
	// of spec.md §6 was requested.
	ErrUnknownOperation
	// ErrExpandExistingTarget: expand(x, y) was called with y already bound.
	ErrExpandExistingTarget
)

func (k ErrorKind) String() string {
	switch k {
	case ErrCellWithoutScalar:
		return "cell without scalar"
	case ErrUnknownOperation:
		return "unknown operation code"
	case ErrExpandExistingTarget:
		return "expand into existing target"
	}
	return "domain error"
}

// DomainError is a fatal, implementation-bug-class error (spec.md §7,
// "domain misuse"). It is always raised via Fatal, which panics: these
// indicate a contract violation by the caller or a bug in the domain, not a
// normal analysis outcome, so there is nothing sound to return instead.
type DomainError struct {
	Kind ErrorKind
	Msg  string
}

func (e *DomainError) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Fatal aborts analysis by panicking with a *DomainError. Callers at trust
// boundaries (e.g. a fixpoint driver) may recover and translate this into
// their own fatal-error channel; the domain itself never recovers from it.
func Fatal(kind ErrorKind, format string, args ...interface{}) {
	panic(&DomainError{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}
