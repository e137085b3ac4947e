package builtins

import (
	"encoding/json"

	"github.com/deepnoodle-ai/scripthost"
	"github.com/deepnoodle-ai/scripthost/script"
	lua "github.com/yuin/gopher-lua"
)

func registerJSON(reg *scripthost.Registry) {
	// JsonEncode(value) returns value serialized as JSON.
	reg.Register("JsonEncode", func(L *lua.LState) int {
		value := script.ConvertLuaValueToGo(L.CheckAny(1))
		data, err := json.Marshal(value)
		if err != nil {
			L.RaiseError("failed to encode JSON: %v", err)
			return 0
		}
		scripthost.PushString(L, string(data))
		return 1
	})

	// JsonDecode(text) parses JSON into tables and scalars.
	reg.Register("JsonDecode", func(L *lua.LState) int {
		text := L.CheckString(1)
		var value any
		if err := json.Unmarshal([]byte(text), &value); err != nil {
			L.RaiseError("failed to decode JSON: %v", err)
			return 0
		}
		L.Push(script.ToLua(L, value))
		return 1
	})
}
