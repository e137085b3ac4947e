package scripthost

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// RunExpression evaluates text as the operand of an implicit return and
// leaves its single result on the stack.
//
// Failures follow RunScript. A function result is never accepted: it is
// removed from the stack and returned as a fatal result_type_error.
func (m *Manager) RunExpression(text string) (bool, error) {
	L := m.mustState()
	base := L.GetTop()

	ok, err := m.run("return "+text, text, 1)
	if !ok || err != nil {
		return ok, err
	}
	m.assertTop(L, base+1)

	// Convert functions explicitly before returning them as values.
	if L.Get(-1).Type() == lua.LTFunction {
		L.SetTop(base)
		return false, &ScriptError{
			Type:   ErrorTypeResult,
			Cause:  `result is a function; did you forget "()"?`,
			Source: text,
		}
	}
	return true, nil
}

// EvalBool evaluates text and returns its truthiness. A recoverable failure
// yields false.
func (m *Manager) EvalBool(text string) (bool, error) {
	L := m.mustState()
	base := L.GetTop()
	if ok, err := m.RunExpression(text); !ok {
		return false, err
	}
	result := L.ToBool(-1)
	L.SetTop(base)
	return result, nil
}

// EvalFloat evaluates text as a number. Strings convert as the interpreter
// would convert them; other values and recoverable failures yield 0.
func (m *Manager) EvalFloat(text string) (float64, error) {
	L := m.mustState()
	base := L.GetTop()
	if ok, err := m.RunExpression(text); !ok {
		return 0, err
	}
	result := float64(L.ToNumber(-1))
	L.SetTop(base)
	return result, nil
}

// EvalString evaluates text as a string. ok is false when evaluation failed
// recoverably, in which case the string is empty. Values that are neither
// strings nor numbers convert to the empty string.
func (m *Manager) EvalString(text string) (result string, ok bool, err error) {
	L := m.mustState()
	base := L.GetTop()
	if ok, err := m.RunExpression(text); !ok {
		return "", false, err
	}
	value := L.Get(-1)
	L.SetTop(base)
	if !lua.LVCanConvToString(value) {
		return "", true, nil
	}
	return lua.LVAsString(value), true, nil
}

// EvalAtPrefixed evaluates s in place when it starts with "@". The marker is
// stripped, the rest is evaluated with EvalString and s is replaced with the
// result. Without the marker s is left untouched and false is returned.
func (m *Manager) EvalAtPrefixed(s *string) (bool, error) {
	if !strings.HasPrefix(*s, "@") {
		return false, nil
	}
	result, _, err := m.EvalString((*s)[1:])
	if err != nil {
		return true, err
	}
	*s = result
	return true, nil
}
