package script

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ConversionError is returned when a value cannot be converted to the
// requested host type.
type ConversionError struct {
	From Kind
	To   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

// LuaValue is a tagged interpreter value held on the host side.
type LuaValue struct {
	kind Kind
	lv   lua.LValue
}

// FromLua wraps an interpreter value.
func FromLua(lv lua.LValue) *LuaValue {
	if lv == nil {
		lv = lua.LNil
	}
	return &LuaValue{kind: KindOf(lv), lv: lv}
}

// KindOf returns the host-side kind of an interpreter value.
func KindOf(lv lua.LValue) Kind {
	switch lv.Type() {
	case lua.LTNil:
		return KindNil
	case lua.LTBool:
		return KindBool
	case lua.LTNumber:
		return KindNumber
	case lua.LTString:
		return KindString
	case lua.LTFunction:
		return KindFunction
	case lua.LTTable:
		return KindTable
	case lua.LTUserData:
		return KindUserData
	default:
		return KindOther
	}
}

func (v *LuaValue) Kind() Kind {
	return v.kind
}

// LValue returns the wrapped interpreter value.
func (v *LuaValue) LValue() lua.LValue {
	return v.lv
}

func (v *LuaValue) Value() any {
	return ConvertLuaValueToGo(v.lv)
}

func (v *LuaValue) IsTruthy() bool {
	return lua.LVAsBool(v.lv)
}

func (v *LuaValue) Items() ([]any, error) {
	switch o := v.lv.(type) {
	case *lua.LTable:
		if items, ok := tableArray(o); ok {
			return items, nil
		}
		keys, values := tableMap(o)
		items := make([]any, 0, len(keys))
		for _, key := range keys {
			items = append(items, values[key])
		}
		return items, nil
	case lua.LString, lua.LNumber, lua.LBool:
		return []any{ConvertLuaValueToGo(o)}, nil
	case *lua.LNilType:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported result type for items: %s", v.kind)
	}
}

func (v *LuaValue) String() string {
	switch o := v.lv.(type) {
	case lua.LString:
		return string(o)
	case lua.LNumber:
		return o.String()
	case lua.LBool:
		return strconv.FormatBool(bool(o))
	case *lua.LNilType:
		return ""
	case *lua.LTable:
		if items, ok := tableArray(o); ok {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = fmt.Sprintf("%v", item)
			}
			return strings.Join(parts, "\n\n")
		}
		keys, values := tableMap(o)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", key, values[key]))
		}
		return strings.Join(parts, "\n\n")
	default:
		return o.String()
	}
}

// ToBool converts a boolean or nil value. Other kinds fail; use IsTruthy for
// interpreter truthiness.
func ToBool(v Value) (bool, error) {
	switch v.Kind() {
	case KindBool:
		return v.IsTruthy(), nil
	case KindNil:
		return false, nil
	default:
		return false, &ConversionError{From: v.Kind(), To: "bool"}
	}
}

// ToFloat converts a number, or a string holding a number.
func ToFloat(v Value) (float64, error) {
	switch v.Kind() {
	case KindNumber:
		return v.Value().(float64), nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0, &ConversionError{From: KindString, To: "float"}
		}
		return f, nil
	default:
		return 0, &ConversionError{From: v.Kind(), To: "float"}
	}
}

// ToString converts a string or a number.
func ToString(v Value) (string, error) {
	switch v.Kind() {
	case KindString, KindNumber:
		return v.String(), nil
	default:
		return "", &ConversionError{From: v.Kind(), To: "string"}
	}
}

// ConvertLuaValueToGo converts an interpreter value to a Go value
func ConvertLuaValueToGo(lv lua.LValue) any {
	switch o := lv.(type) {
	case lua.LString:
		return string(o)
	case lua.LNumber:
		return float64(o)
	case lua.LBool:
		return bool(o)
	case *lua.LNilType:
		return nil
	case *lua.LTable:
		if items, ok := tableArray(o); ok {
			return items
		}
		_, values := tableMap(o)
		return values
	case *lua.LUserData:
		return o.Value
	default:
		return o
	}
}

// tableArray returns the elements of a table that is a non-empty sequence.
func tableArray(t *lua.LTable) ([]any, bool) {
	n := t.Len()
	if n == 0 {
		return nil, false
	}
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })
	if count != n {
		return nil, false
	}
	items := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, ConvertLuaValueToGo(t.RawGetInt(i)))
	}
	return items, true
}

// tableMap returns a table's entries keyed by their string form, with the
// keys sorted.
func tableMap(t *lua.LTable) ([]string, map[string]any) {
	values := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		values[k.String()] = ConvertLuaValueToGo(v)
	})
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, values
}

// ToLua converts a Go value to an interpreter value. Values with no natural
// interpreter form are wrapped in a userdata.
func ToLua(L *lua.LState, value any) lua.LValue {
	switch v := value.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return v
	case Value:
		if lv, ok := v.(*LuaValue); ok {
			return lv.lv
		}
		return ToLua(L, v.Value())
	case bool:
		return lua.LBool(v)
	case string:
		return lua.LString(v)
	case int:
		return lua.LNumber(v)
	case int8:
		return lua.LNumber(v)
	case int16:
		return lua.LNumber(v)
	case int32:
		return lua.LNumber(v)
	case int64:
		return lua.LNumber(v)
	case uint:
		return lua.LNumber(v)
	case uint8:
		return lua.LNumber(v)
	case uint16:
		return lua.LNumber(v)
	case uint32:
		return lua.LNumber(v)
	case uint64:
		return lua.LNumber(v)
	case float32:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case []any:
		t := L.CreateTable(len(v), 0)
		for _, item := range v {
			t.Append(ToLua(L, item))
		}
		return t
	case []string:
		t := L.CreateTable(len(v), 0)
		for _, item := range v {
			t.Append(lua.LString(item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(v))
		for key, item := range v {
			t.RawSetString(key, ToLua(L, item))
		}
		return t
	case map[string]string:
		t := L.CreateTable(0, len(v))
		for key, item := range v {
			t.RawSetString(key, lua.LString(item))
		}
		return t
	default:
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			t := L.CreateTable(rv.Len(), 0)
			for i := 0; i < rv.Len(); i++ {
				t.Append(ToLua(L, rv.Index(i).Interface()))
			}
			return t
		case reflect.Map:
			if rv.Type().Key().Kind() == reflect.String {
				t := L.CreateTable(0, rv.Len())
				iter := rv.MapRange()
				for iter.Next() {
					t.RawSetString(iter.Key().String(), ToLua(L, iter.Value().Interface()))
				}
				return t
			}
		}
		ud := L.NewUserData()
		ud.Value = value
		return ud
	}
}
