package scripthost

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestScriptError(t *testing.T) {
	cause := errors.New("disk on fire")
	err := &ScriptError{Type: ErrorTypeFile, Cause: "cannot read", Wrapped: cause}

	require.Equal(t, "file_error: cannot read", err.Error())
	require.ErrorIs(t, err, cause)
	require.True(t, err.IsRecoverable())

	wrapped := fmt.Errorf("loading: %w", err)
	var scriptError *ScriptError
	require.True(t, errors.As(wrapped, &scriptError))
	require.Equal(t, ErrorTypeFile, scriptError.Type)
}

func TestErrorRecoverability(t *testing.T) {
	tests := []struct {
		errorType   string
		recoverable bool
	}{
		{ErrorTypeFile, true},
		{ErrorTypeCompile, true},
		{ErrorTypeRuntime, true},
		{ErrorTypeResult, false},
		{ErrorTypePanic, false},
		{ErrorTypeAssertion, false},
	}
	for _, tt := range tests {
		t.Run(tt.errorType, func(t *testing.T) {
			err := NewScriptError(tt.errorType, "x")
			require.Equal(t, tt.recoverable, err.IsRecoverable())
			require.Equal(t, tt.recoverable, IsRecoverable(err))
			require.Equal(t, !tt.recoverable, IsFatal(err))
		})
	}

	require.False(t, IsRecoverable(nil))
	require.True(t, IsRecoverable(errors.New("plain")))
	require.False(t, IsFatal(errors.New("plain")))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
		cause    string
	}{
		{
			name:     "syntax",
			err:      &lua.ApiError{Type: lua.ApiErrorSyntax, Object: lua.LString("bad token")},
			expected: ErrorTypeCompile,
			cause:    "bad token",
		},
		{
			name:     "runtime",
			err:      &lua.ApiError{Type: lua.ApiErrorRun, Object: lua.LString("attempt to call a nil value")},
			expected: ErrorTypeRuntime,
			cause:    "attempt to call a nil value",
		},
		{
			name:     "file",
			err:      &lua.ApiError{Type: lua.ApiErrorFile, Cause: errors.New("no such file")},
			expected: ErrorTypeFile,
			cause:    "no such file",
		},
		{
			name:     "panic",
			err:      &lua.ApiError{Type: lua.ApiErrorPanic, Object: lua.LString("nil map")},
			expected: ErrorTypePanic,
			cause:    "nil map",
		},
		{
			name:     "nil error object",
			err:      &lua.ApiError{Type: lua.ApiErrorRun, Object: lua.LNil},
			expected: ErrorTypeRuntime,
			cause:    "nil",
		},
		{
			name:     "empty interpreter error",
			err:      &lua.ApiError{Type: lua.ApiErrorRun},
			expected: ErrorTypeRuntime,
			cause:    "unknown interpreter error",
		},
		{
			name:     "plain error",
			err:      errors.New("something else"),
			expected: ErrorTypeRuntime,
			cause:    "something else",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scriptError := ClassifyError(tt.err)
			require.Equal(t, tt.expected, scriptError.Type)
			require.Equal(t, tt.cause, scriptError.Cause)
			require.ErrorIs(t, scriptError, tt.err)
		})
	}

	original := NewScriptError(ErrorTypeResult, "function")
	require.Same(t, original, ClassifyError(fmt.Errorf("wrapped: %w", original)))
}

func TestGuard(t *testing.T) {
	require.NoError(t, Guard(func() {}))

	err := Guard(func() { panic(NewScriptError(ErrorTypeAssertion, "broken")) })
	require.EqualError(t, err, "assertion_error: broken")

	require.PanicsWithValue(t, "other", func() {
		_ = Guard(func() { panic("other") })
	})

	recoverable := NewScriptError(ErrorTypeRuntime, "local")
	require.PanicsWithValue(t, recoverable, func() {
		_ = Guard(func() { panic(recoverable) })
	})
}
