package codegen

import (
	"errors"
	"fmt"

	"github.com/sunhaibo2004/SOLL/report"
)

// Enumeration of the kinds of lowering faults.  Every fault aborts generation
// of the function being generated.  Match on them with `errors.Is`.
var (
	// ErrUnresolvedName is raised when an identifier names neither a local
	// variable nor a parameter.
	ErrUnresolvedName = errors.New("unresolved name")

	// ErrNotAssignable is raised when an assignment, compound assignment or
	// increment/decrement is applied to something other than local storage.
	ErrNotAssignable = errors.New("assignment to non-lvalue")

	// ErrOutsideLoop is raised by `continue` or `break` outside of any loop.
	ErrOutsideLoop = errors.New("control flow outside loop")

	// ErrUnsupportedCall is raised by any call which is not the assertion
	// intrinsic.
	ErrUnsupportedCall = errors.New("unsupported call")

	// ErrCacheMiss is an internal error: an expression's value was requested
	// before the expression was generated.
	ErrCacheMiss = errors.New("value cache miss")

	// ErrMissingReturnValue is raised when a function declared to return a
	// value returns (explicitly or by reaching its end) without one.
	ErrMissingReturnValue = errors.New("missing return value")

	// ErrUnexpectedReturnValue is raised when a function declared without a
	// return value returns one.
	ErrUnexpectedReturnValue = errors.New("unexpected return value")

	// ErrNoValue is raised when an expression which yields nothing (such as an
	// assertion) is used as a value.
	ErrNoValue = errors.New("expression yields no value")

	// ErrInvalidOperand is raised when a string literal is used anywhere other
	// than as the message of an assertion.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrMalformedTree is raised for trees missing required children.
	ErrMalformedTree = errors.New("malformed tree")

	// ErrFuncRedefined is raised when a function body is generated for a name
	// which already has a body in the module.
	ErrFuncRedefined = errors.New("function redefined")

	// ErrSignatureMismatch is raised when a previously declared function does
	// not match the declaration being generated.
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// LoweringError is the error returned when generating a function fails.
type LoweringError struct {
	// Kind is one of the enumerated lowering fault kinds.
	Kind error

	// Func is the name of the function being generated.
	Func string

	// Span is the span of the offending node.  It may be nil.
	Span *report.TextSpan

	// Message describes the fault.
	Message string
}

func (le *LoweringError) Error() string {
	return fmt.Sprintf("in function `%s`: %s", le.Func, le.Message)
}

func (le *LoweringError) Unwrap() error {
	return le.Kind
}

// ErrorSpan implements report.Spanned.
func (le *LoweringError) ErrorSpan() *report.TextSpan {
	return le.Span
}

// Internal returns whether the fault indicates a bug in the generator rather
// than a problem with the input tree.
func (le *LoweringError) Internal() bool {
	return le.Kind == ErrCacheMiss || le.Kind == ErrMalformedTree
}

// raise aborts generation of the current function with a lowering fault.  It
// is recovered at the boundary of GenerateFunc.
func (fg *funcGen) raise(kind error, span *report.TextSpan, msg string, args ...interface{}) {
	panic(&LoweringError{
		Kind:    kind,
		Func:    fg.decl.Name,
		Span:    span,
		Message: fmt.Sprintf(msg, args...),
	})
}
