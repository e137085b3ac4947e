package builtins

import (
	"time"

	"github.com/deepnoodle-ai/scripthost"
	lua "github.com/yuin/gopher-lua"
)

const timerTypeName = "Timer"

// Timer measures elapsed time for scripts.
type Timer struct {
	now     func() time.Time
	started time.Time
}

// Ago returns the seconds since the timer was created or last touched.
func (t *Timer) Ago() float64 {
	return t.now().Sub(t.started).Seconds()
}

// Touch restarts the timer.
func (t *Timer) Touch() {
	t.started = t.now()
}

// timerType registers the Timer actor type: Timer.new() plus the methods
// Ago and Touch on its instances.
func timerType(opts Options) scripthost.ActorRegistrar {
	return func(L *lua.LState) {
		mt := L.NewTypeMetatable(timerTypeName)
		L.SetGlobal(timerTypeName, mt)
		L.SetField(mt, "new", L.NewFunction(func(L *lua.LState) int {
			timer := &Timer{now: opts.Now, started: opts.Now()}
			ud := L.NewUserData()
			ud.Value = timer
			L.SetMetatable(ud, L.GetTypeMetatable(timerTypeName))
			L.Push(ud)
			return 1
		}))
		L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"Ago": func(L *lua.LState) int {
				scripthost.PushFloat(L, checkTimer(L).Ago())
				return 1
			},
			"Touch": func(L *lua.LState) int {
				checkTimer(L).Touch()
				return 0
			},
		}))
	}
}

func checkTimer(L *lua.LState) *Timer {
	ud := L.CheckUserData(1)
	if timer, ok := ud.Value.(*Timer); ok {
		return timer
	}
	L.ArgError(1, "Timer expected")
	return nil
}
