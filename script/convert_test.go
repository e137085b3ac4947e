package script

import (
	"testing"

	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestKindOf(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	tests := []struct {
		value    lua.LValue
		expected Kind
	}{
		{lua.LNil, KindNil},
		{lua.LTrue, KindBool},
		{lua.LNumber(1), KindNumber},
		{lua.LString("s"), KindString},
		{L.NewFunction(func(L *lua.LState) int { return 0 }), KindFunction},
		{L.NewTable(), KindTable},
		{L.NewUserData(), KindUserData},
		{lua.LChannel(make(chan lua.LValue)), KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			require.Equal(t, tt.expected, KindOf(tt.value))
		})
	}
	require.Equal(t, KindNil, FromLua(nil).Kind())
	require.Equal(t, "unknown", Kind(99).String())
}

func TestLuaValueString(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	list := L.NewTable()
	list.Append(lua.LString("a"))
	list.Append(lua.LNumber(2))

	record := L.NewTable()
	record.RawSetString("b", lua.LNumber(2))
	record.RawSetString("a", lua.LString("x"))

	require.Equal(t, "hello", FromLua(lua.LString("hello")).String())
	require.Equal(t, "1.5", FromLua(lua.LNumber(1.5)).String())
	require.Equal(t, "false", FromLua(lua.LFalse).String())
	require.Equal(t, "", FromLua(lua.LNil).String())
	require.Equal(t, "a\n\n2", FromLua(list).String())
	require.Equal(t, "a: x\n\nb: 2", FromLua(record).String())
}

func TestLuaValueItems(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	list := L.NewTable()
	list.Append(lua.LString("a"))
	list.Append(lua.LString("b"))

	items, err := FromLua(list).Items()
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b"}, items)

	items, err = FromLua(lua.LNumber(3)).Items()
	require.NoError(t, err)
	require.Equal(t, []any{3.0}, items)

	items, err = FromLua(lua.LNil).Items()
	require.NoError(t, err)
	require.Nil(t, items)

	_, err = FromLua(L.NewFunction(func(L *lua.LState) int { return 0 })).Items()
	require.Error(t, err)
}

func TestTruthiness(t *testing.T) {
	require.False(t, FromLua(lua.LNil).IsTruthy())
	require.False(t, FromLua(lua.LFalse).IsTruthy())
	require.True(t, FromLua(lua.LNumber(0)).IsTruthy())
	require.True(t, FromLua(lua.LString("")).IsTruthy())
}

func TestConversions(t *testing.T) {
	b, err := ToBool(FromLua(lua.LTrue))
	require.NoError(t, err)
	require.True(t, b)

	b, err = ToBool(FromLua(lua.LNil))
	require.NoError(t, err)
	require.False(t, b)

	_, err = ToBool(FromLua(lua.LNumber(1)))
	var conversionError *ConversionError
	require.ErrorAs(t, err, &conversionError)
	require.Equal(t, KindNumber, conversionError.From)
	require.EqualError(t, err, "cannot convert number to bool")

	f, err := ToFloat(FromLua(lua.LNumber(2.5)))
	require.NoError(t, err)
	require.Equal(t, 2.5, f)

	f, err = ToFloat(FromLua(lua.LString(" 12 ")))
	require.NoError(t, err)
	require.Equal(t, 12.0, f)

	_, err = ToFloat(FromLua(lua.LString("twelve")))
	require.ErrorAs(t, err, &conversionError)

	s, err := ToString(FromLua(lua.LNumber(7)))
	require.NoError(t, err)
	require.Equal(t, "7", s)

	_, err = ToString(FromLua(lua.LTrue))
	require.ErrorAs(t, err, &conversionError)
}

func TestToLua(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	type point struct{ X, Y int }

	value := map[string]any{
		"name":   "widget",
		"count":  3,
		"ratio":  float32(0.5),
		"tags":   []string{"a", "b"},
		"nested": map[string]any{"ok": true},
		"ints":   []int{1, 2},
		"labels": map[string]string{"k": "v"},
		"none":   nil,
	}
	table, ok := ToLua(L, value).(*lua.LTable)
	require.True(t, ok)

	require.Equal(t, lua.LString("widget"), table.RawGetString("name"))
	require.Equal(t, lua.LNumber(3), table.RawGetString("count"))
	require.Equal(t, lua.LNumber(0.5), table.RawGetString("ratio"))
	require.Equal(t, lua.LNil, table.RawGetString("none"))

	got := ConvertLuaValueToGo(table)
	require.Equal(t, map[string]any{
		"name":   "widget",
		"count":  3.0,
		"ratio":  0.5,
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"ok": true},
		"ints":   []any{1.0, 2.0},
		"labels": map[string]any{"k": "v"},
	}, got)

	p := &point{X: 1, Y: 2}
	ud, ok := ToLua(L, p).(*lua.LUserData)
	require.True(t, ok)
	require.Same(t, p, ud.Value)
	require.Same(t, p, ConvertLuaValueToGo(ud))

	wrapped := FromLua(lua.LString("passthrough"))
	require.Equal(t, lua.LString("passthrough"), ToLua(L, wrapped))
}
