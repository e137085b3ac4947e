package scripthost

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Error type constants for classification and matching
const (
	// ErrorTypeFile indicates a script file could not be opened or read.
	ErrorTypeFile = "file_error"

	// ErrorTypeCompile indicates malformed script or expression text.
	ErrorTypeCompile = "compile_error"

	// ErrorTypeRuntime indicates an error raised while a script was running.
	ErrorTypeRuntime = "runtime_error"

	// ErrorTypeResult indicates an expression produced a value of a kind that
	// is never accepted as a result, such as a function.
	ErrorTypeResult = "result_type_error"

	// ErrorTypePanic indicates an interpreter-internal fault: an error raised
	// outside any protected call, or a Go panic inside a native function.
	ErrorTypePanic = "panic_error"

	// ErrorTypeAssertion indicates the host violated the embedding contract,
	// for example by using the interpreter after Close.
	ErrorTypeAssertion = "assertion_error"
)

// RecoverableError is implemented by errors that know whether the operation
// that produced them may be retried or reported locally.
type RecoverableError interface {
	error
	IsRecoverable() bool
}

// ScriptError represents a structured error with classification
// It supports Go's error wrapping patterns with Unwrap() method
type ScriptError struct {
	Type    string `json:"type"`
	Cause   string `json:"cause"`
	Source  string `json:"source,omitempty"`
	Wrapped error  `json:"-"`
}

// Error implements the error interface
func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Cause)
}

// Unwrap implements the error unwrapping interface for Go's errors.Is and errors.As
func (e *ScriptError) Unwrap() error {
	return e.Wrapped
}

// IsRecoverable reports whether the error is handled at the point of
// occurrence (presented and turned into a false result). Fatal errors
// terminate the enclosing operation chain instead.
func (e *ScriptError) IsRecoverable() bool {
	switch e.Type {
	case ErrorTypeResult, ErrorTypePanic, ErrorTypeAssertion:
		return false
	default:
		return true
	}
}

// NewScriptError creates a new ScriptError with the specified type and cause.
func NewScriptError(errorType, cause string) *ScriptError {
	return &ScriptError{
		Type:  errorType,
		Cause: cause,
	}
}

func newFatalError(errorType, format string, args ...any) *ScriptError {
	return &ScriptError{
		Type:  errorType,
		Cause: fmt.Sprintf(format, args...),
	}
}

// ClassifyError converts an arbitrary error into a ScriptError. Interpreter
// errors are classified by their kind; anything else is a runtime error.
func ClassifyError(err error) *ScriptError {
	var scriptError *ScriptError
	if errors.As(err, &scriptError) {
		return scriptError
	}
	var apiError *lua.ApiError
	if errors.As(err, &apiError) {
		errorType := ErrorTypeRuntime
		switch apiError.Type {
		case lua.ApiErrorSyntax:
			errorType = ErrorTypeCompile
		case lua.ApiErrorFile:
			errorType = ErrorTypeFile
		case lua.ApiErrorPanic:
			errorType = ErrorTypePanic
		}
		return &ScriptError{
			Type:    errorType,
			Cause:   apiErrorMessage(apiError),
			Wrapped: err,
		}
	}
	return &ScriptError{
		Type:    ErrorTypeRuntime,
		Cause:   err.Error(),
		Wrapped: err,
	}
}

// IsFatal reports whether err is a ScriptError that must not be handled as a
// recoverable script failure.
func IsFatal(err error) bool {
	var scriptError *ScriptError
	if errors.As(err, &scriptError) {
		return !scriptError.IsRecoverable()
	}
	return false
}

// IsRecoverable checks if an error can be reported and handled locally
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	var recoverable RecoverableError
	if errors.As(err, &recoverable) {
		return recoverable.IsRecoverable()
	}
	return true
}

// Guard runs fn and converts a fatal ScriptError panic into a returned error.
// It is the top-level boundary for faults raised outside a protected call,
// such as assertion failures or errors raised by the interpreter's panic
// handler. Other panics propagate unchanged.
func Guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			scriptError, ok := r.(*ScriptError)
			if !ok || scriptError.IsRecoverable() {
				panic(r)
			}
			err = scriptError
		}
	}()
	fn()
	return nil
}

func apiErrorMessage(err *lua.ApiError) string {
	if err.Object != nil {
		return err.Object.String()
	}
	if err.Cause != nil {
		return err.Cause.Error()
	}
	return "unknown interpreter error"
}
