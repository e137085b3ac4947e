package builtins

import (
	"github.com/deepnoodle-ai/scripthost"
	lua "github.com/yuin/gopher-lua"
)

func registerControl(reg *scripthost.Registry) {
	// Fail(message) raises message as a script error.
	reg.Register("Fail", func(L *lua.LState) int {
		message := L.OptString(1, "intentional failure")
		scripthost.Fail(L, message)
		return 0
	})

	// Evaluate(expression) evaluates expression on the same interpreter and
	// returns its value, or nil when evaluation failed.
	reg.Register("Evaluate", func(L *lua.LState) int {
		expression := L.CheckString(1)
		m, ok := scripthost.FromState(L)
		if !ok {
			L.RaiseError("Evaluate requires a managed interpreter")
			return 0
		}
		ok, err := m.RunExpression(expression)
		if err != nil {
			scripthost.Raise(L, err)
			return 0
		}
		if !ok {
			L.Push(lua.LNil)
		}
		return 1
	})

	// Nop() returns the shared no-op function.
	reg.Register("Nop", func(L *lua.LState) int {
		m, ok := scripthost.FromState(L)
		if !ok {
			L.RaiseError("Nop requires a managed interpreter")
			return 0
		}
		m.PushNop()
		return 1
	})
}
