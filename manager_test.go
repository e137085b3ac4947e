package scripthost

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestNewManager(t *testing.T) {
	m, presenter := newTestManager(t, nil)

	require.True(t, strings.HasPrefix(m.ID(), "lua_"))
	require.NotNil(t, m.State())
	require.Equal(t, 0, m.Top())
	require.True(t, m.NopRef().Valid())
	require.Equal(t, m.ID(), m.NopRef().Instance)
	require.Empty(t, presenter.alerts)
	require.Equal(t, DefaultAlertCategory, m.Options().AlertCategory)
}

func TestNewManagerRejectsUnknownLibrary(t *testing.T) {
	_, err := New(Options{Registry: NewRegistry(), Libraries: []string{"base", "nope"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown library "nope"`)
}

func TestConfiguredLibraries(t *testing.T) {
	m, err := New(Options{
		Registry:  NewRegistry(),
		Presenter: NewNullPresenter(),
		Libraries: []string{"base"},
	})
	require.NoError(t, err)
	defer m.Close()

	ok, err := m.RunExpression("math.floor(1.5)")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = m.RunExpression("table.concat({'a'}, ',')")
	require.NoError(t, err)
	require.False(t, ok)

	d, _ := newTestManager(t, nil)
	v, err := d.EvalFloat("math.floor(1.5)")
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
	s, ok, err := d.EvalString("string.upper('abc')")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ABC", s)
}

func TestResetReplaysNativeFunctions(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Double", func(L *lua.LState) int {
		PushFloat(L, float64(L.CheckNumber(1))*2)
		return 1
	})
	m, _ := newTestManager(t, reg)

	v, err := m.EvalFloat("Double(21)")
	require.NoError(t, err)
	require.Equal(t, 42.0, v)

	oldID := m.ID()
	mustRun(t, m, "leftover = 1")
	require.NoError(t, m.Reset())
	require.NotEqual(t, oldID, m.ID())

	v, err = m.EvalFloat("Double(4)")
	require.NoError(t, err)
	require.Equal(t, 8.0, v)

	// script state does not survive a reset
	ok, err := m.EvalBool("leftover == nil")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestResetOrder(t *testing.T) {
	var events []string
	reg := NewRegistry()
	reg.Register("First", func(L *lua.LState) int { return 0 })
	reg.Register("Second", func(L *lua.LState) int { return 0 })
	reg.RegisterActorType(func(L *lua.LState) {
		require.Equal(t, lua.LTFunction, L.GetGlobal("First").Type())
		require.Equal(t, lua.LTFunction, L.GetGlobal("Second").Type())
		m, ok := FromState(L)
		require.True(t, ok)
		require.Equal(t, lua.LTFunction, registryTable(L).RawGetInt(m.NopRef().Ref).Type())
		require.Equal(t, lua.LTTable, L.GetGlobal("string").Type())
		events = append(events, "actor-1")
	})
	reg.RegisterActorType(func(L *lua.LState) {
		events = append(events, "actor-2")
	})
	reg.RegisterResetHook(func(m *Manager) {
		require.True(t, m.NopRef().Valid())
		events = append(events, "hook")
	})

	m, _ := newTestManager(t, reg)
	require.Equal(t, []string{"actor-1", "actor-2", "hook"}, events)

	require.NoError(t, m.Reset())
	require.Equal(t, []string{"actor-1", "actor-2", "hook", "actor-1", "actor-2", "hook"}, events)
}

func TestEmptyRegistry(t *testing.T) {
	m, _ := newTestManager(t, NewRegistry())
	v, err := m.EvalFloat("1")
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestNopFunction(t *testing.T) {
	m, _ := newTestManager(t, nil)
	L := m.State()

	before := m.NopRef()
	m.PushNop()
	require.Equal(t, 1, L.GetTop())
	oldFn, ok := L.Get(-1).(*lua.LFunction)
	require.True(t, ok)
	require.NoError(t, L.PCall(0, lua.MultRet, nil))
	require.Equal(t, 0, L.GetTop())

	require.NoError(t, m.Reset())
	L = m.State()
	after := m.NopRef()
	require.True(t, after.Valid())
	require.NotEqual(t, before, after)

	m.PushNop()
	newFn, ok := L.Get(-1).(*lua.LFunction)
	require.True(t, ok)
	require.NotSame(t, oldFn, newFn)
	require.NoError(t, L.PCall(0, lua.MultRet, nil))
	require.Equal(t, 0, L.GetTop())
}

func TestPushNopMissingHandle(t *testing.T) {
	m, _ := newTestManager(t, nil)
	registryTable(m.State()).RawSetInt(m.NopRef().Ref, lua.LNil)

	err := Guard(func() { m.PushNop() })
	require.Error(t, err)
	require.True(t, IsFatal(err))
	require.Equal(t, ErrorTypeAssertion, ClassifyError(err).Type)
}

func TestClose(t *testing.T) {
	m, _ := newTestManager(t, nil)

	require.NoError(t, m.Close())
	require.Nil(t, m.State())
	require.Empty(t, m.ID())
	require.False(t, m.NopRef().Valid())
	require.NoError(t, m.Close())

	err := Guard(func() { m.PushNop() })
	require.True(t, IsFatal(err))

	err = Guard(func() { m.RunScript("x = 1", 0) })
	require.True(t, IsFatal(err))
	require.Contains(t, err.Error(), "not initialized")

	// Reset brings a destroyed manager back
	require.NoError(t, m.Reset())
	v, err := m.EvalFloat("3")
	require.NoError(t, err)
	require.Equal(t, 3.0, v)
}

func TestResetRejectedDuringEvaluation(t *testing.T) {
	reg := NewRegistry()
	reg.Register("DoReset", func(L *lua.LState) int {
		m, ok := FromState(L)
		require.True(t, ok)
		if err := m.Reset(); err != nil {
			Raise(L, err)
		}
		return 0
	})
	m, presenter := newTestManager(t, reg)
	id := m.ID()

	ok, err := m.RunScript("DoReset()", 0)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, id, m.ID())
	require.Len(t, presenter.alerts, 1)
	require.Contains(t, presenter.alerts[0].Message, "evaluation is in progress")
}

func TestPanicHandlerEscalates(t *testing.T) {
	m, presenter := newTestManager(t, nil)

	err := Guard(func() {
		m.State().RaiseError("unprotected boom")
	})
	require.Error(t, err)
	require.True(t, IsFatal(err))
	scriptError := ClassifyError(err)
	require.Equal(t, ErrorTypePanic, scriptError.Type)
	require.Contains(t, scriptError.Cause, "unprotected boom")
	require.Empty(t, presenter.alerts)
}
