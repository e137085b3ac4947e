package scripthost

import (
	"reflect"

	lua "github.com/yuin/gopher-lua"
)

// PushInt pushes an integer as a number.
func PushInt(L *lua.LState, v int) {
	L.Push(lua.LNumber(v))
}

// PushBool pushes a boolean.
func PushBool(L *lua.LState, v bool) {
	L.Push(lua.LBool(v))
}

// PushFloat pushes a floating-point number.
func PushFloat(L *lua.LState, v float64) {
	L.Push(lua.LNumber(v))
}

// PushString pushes a string.
func PushString(L *lua.LState, v string) {
	L.Push(lua.LString(v))
}

// PushNil pushes nil.
func PushNil(L *lua.LState) {
	L.Push(lua.LNil)
}

// PushPointer pushes an opaque host pointer wrapped in a userdata, or nil
// when p is nil or a nil pointer.
func PushPointer(L *lua.LState, p any) {
	if isNil(p) {
		L.Push(lua.LNil)
		return
	}
	ud := L.NewUserData()
	ud.Value = p
	L.Push(ud)
}

func isNil(p any) bool {
	if p == nil {
		return true
	}
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// PopString converts the top of the stack to a string and then truncates
// the stack to the current frame's baseline, not just by one slot. Callers
// get a clean stack back after extracting a result.
//
// The stack must not be empty and the top must be a string or a number;
// anything else is an assertion failure.
func PopString(L *lua.LState) string {
	if L.GetTop() < 1 {
		panic(newFatalError(ErrorTypeAssertion, "pop from an empty stack"))
	}
	v := L.Get(-1)
	if !lua.LVCanConvToString(v) {
		panic(newFatalError(ErrorTypeAssertion, "top of stack is a %s, not a string", v.Type()))
	}
	s := lua.LVAsString(v)
	L.SetTop(0)
	return s
}

// GetStackInt reads the number at pos as an int. Negative positions count
// from the top (-1 is the top). Positions that resolve outside the live
// stack are not present.
func GetStackInt(L *lua.LState, pos int) (int, bool) {
	top := L.GetTop()
	if pos < 0 {
		pos = top + pos + 1
	}
	if pos < 1 || pos > top {
		return 0, false
	}
	return int(L.ToNumber(pos)), true
}

// SetGlobal pops the top of the stack into the global name.
func SetGlobal(L *lua.LState, name string) {
	v := L.Get(-1)
	L.Pop(1)
	L.SetGlobal(name, v)
}

// popResult returns the string form of the top value and truncates the
// stack to base.
func popResult(L *lua.LState, base int) string {
	v := L.Get(-1)
	L.SetTop(base)
	if lua.LVCanConvToString(v) {
		return lua.LVAsString(v)
	}
	return v.String()
}

// Top returns the number of values on the live interpreter's stack.
func (m *Manager) Top() int {
	return m.mustState().GetTop()
}

func (m *Manager) PushInt(v int) {
	PushInt(m.mustState(), v)
}

func (m *Manager) PushBool(v bool) {
	PushBool(m.mustState(), v)
}

func (m *Manager) PushFloat(v float64) {
	PushFloat(m.mustState(), v)
}

func (m *Manager) PushString(v string) {
	PushString(m.mustState(), v)
}

func (m *Manager) PushNil() {
	PushNil(m.mustState())
}

func (m *Manager) PushPointer(p any) {
	PushPointer(m.mustState(), p)
}

func (m *Manager) PopString() string {
	return PopString(m.mustState())
}

func (m *Manager) GetStackInt(pos int) (int, bool) {
	return GetStackInt(m.mustState(), pos)
}

func (m *Manager) SetGlobal(name string) {
	SetGlobal(m.mustState(), name)
}
