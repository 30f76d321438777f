package lisp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatsuo/rlisp/parser/token"
)

// Error conditions signaled by the interpreter.  The condition of an LError
// is stored in its Str field.
const (
	CondError         = "error"
	CondSyntaxError   = "syntax-error"
	CondUnboundSymbol = "unbound-symbol"
	CondEvalError     = "eval-error"
	CondTypeError     = "type-error"
	CondIndexError    = "index-error"
	CondHostAccess    = "host-access-error"
	CondStackOverflow = "stack-overflow"
)

// condReturn marks the value of a return expression unwinding to the load
// boundary.  It never escapes LEnv.Load.
const condReturn = "return"

// ErrorVal implements the error interface so that errors can be first class lisp
// objects.  The condition is stored in the Str field while the message and
// contextual information (e.g. call stack) are stored in Cells and Native.
type ErrorVal LVal

// Error implements the error interface.
func (e *ErrorVal) Error() string {
	var buf strings.Builder
	if e.Source != nil && e.Source.Line > 0 {
		buf.WriteString(e.Source.String())
		buf.WriteString(": ")
	}
	buf.WriteString(e.Str)
	buf.WriteString(": ")
	buf.WriteString(e.Message())
	return buf.String()
}

// Condition returns the condition type of the error, one of the Cond
// constants or a user supplied condition.
func (e *ErrorVal) Condition() string {
	return e.Str
}

// Location returns the source location where the error was signaled, if
// known.
func (e *ErrorVal) Location() *token.Location {
	return e.Source
}

// Message returns the error message without location or condition.
func (e *ErrorVal) Message() string {
	return errorMessage((*LVal)(e))
}

// Stack returns the call stack at the time the error was signaled.
func (e *ErrorVal) Stack() *CallStack {
	return (*LVal)(e).CallStack()
}

// LVal returns the error as a lisp value.
func (e *ErrorVal) LVal() *LVal {
	return (*LVal)(e)
}

func errorMessage(v *LVal) string {
	var buf strings.Builder
	for i, c := range v.Cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		switch {
		case c.Type == LString:
			buf.WriteString(c.Str)
		case c.Type == LNative:
			if err, ok := c.Native.(error); ok {
				buf.WriteString(err.Error())
				continue
			}
			buf.WriteString(c.String())
		default:
			buf.WriteString(c.String())
		}
	}
	return buf.String()
}

// GoError returns an error that represents v.  If v is not LError then nil is
// returned.
func GoError(v *LVal) error {
	if v.Type != LError {
		return nil
	}
	return (*ErrorVal)(v)
}

// ConditionOf returns the condition of err if err wraps an *ErrorVal.
// ConditionOf returns the empty string otherwise.
func ConditionOf(err error) string {
	var lerr *ErrorVal
	if errors.As(err, &lerr) {
		return lerr.Condition()
	}
	return ""
}

// Error returns an LError with the condition "error" representing err.  When
// err wraps an *ErrorVal the wrapped lisp error is returned instead.
func Error(err error) *LVal {
	var lerr *ErrorVal
	if errors.As(err, &lerr) {
		return lerr.LVal()
	}
	return &LVal{
		Type:  LError,
		Str:   CondError,
		Cells: []*LVal{Native(err)},
	}
}

// ErrorConditionf returns an LError with the given condition and a formatted
// message.  The returned error has no call stack.  Code with access to an LEnv
// should use its ErrorConditionf method instead.
func ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return &LVal{
		Type:  LError,
		Str:   condition,
		Cells: []*LVal{String(fmt.Sprintf(format, v...))},
	}
}

// Errorf returns an LError with the condition "error" and a formatted
// message.
func Errorf(format string, v ...interface{}) *LVal {
	return ErrorConditionf(CondError, format, v...)
}
