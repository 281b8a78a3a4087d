package report

import (
	"fmt"
	"os"
)

// TextSpan represents a range or "span" of source text. It is used to point at
// erroneous or otherwise significant nodes of an input tree.  The line and
// column numbers are zero-indexed.  The end column is one past the last
// highlighted character.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

func (s *TextSpan) String() string {
	if s == nil {
		return "<unknown>"
	}

	return fmt.Sprintf("%d:%d", s.StartLine+1, s.StartCol+1)
}

// -----------------------------------------------------------------------------

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.
type LocalCompileError struct {
	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan
}

func (lce *LocalCompileError) Error() string {
	return lce.Message
}

// ErrorSpan implements Spanned.
func (lce *LocalCompileError) ErrorSpan() *TextSpan {
	return lce.Span
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// Spanned is implemented by errors which know where in the input they occurred.
type Spanned interface {
	error

	ErrorSpan() *TextSpan
}

// -----------------------------------------------------------------------------

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// generator: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// generation to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: unreadable input,
// bad configuration values, unwritable output, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports a compilation error: ie. an erroneous input tree.
// The absPath is the absolute path to the erroneous input file. The reprPath is
// the path displayed to the user.  The span may be nil in which case no
// position information will be printed.
func ReportCompileError(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayCompileMessage("error", absPath, reprPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportCompileWarning reports a compilation warning.  The arguments are of the
// same form as those to ReportCompileError.
func ReportCompileWarning(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warnCount++

	if rep.logLevel > LogLevelError {
		displayCompileMessage("warning", absPath, reprPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportStdError reports a non-fatal, standard Go error.  If the error carries
// a span, it is reported as a compile error over that span.
func ReportStdError(absPath, reprPath string, err error) {
	if serr, ok := err.(Spanned); ok {
		ReportCompileError(absPath, reprPath, serr.ErrorSpan(), "%s", serr.Error())
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayStdError(reprPath, err)
	}
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were detected.
func AnyErrors() bool {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount > 0
}

// ErrorCount returns the number of errors reported since the reporter was last
// initialized.
func ErrorCount() int {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.errorCount
}

// CatchErrors catches any errors thrown by a `panic` during a stage of
// generation. In effect, this handler determines when any errors
// "unrecoverable" within a given subsection of the generator should stop
// bubbling.
// NB: This function must ALWAYS be deferred.
func CatchErrors(absPath, reprPath string) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*LocalCompileError); ok {
			ReportCompileError(
				absPath,
				reprPath,
				cerr.Span,
				"%s",
				cerr.Message,
			)
		} else if serr, ok := x.(error); ok {
			ReportStdError(absPath, reprPath, serr)
		} else {
			ReportFatal("%s", x)
		}
	}
}
