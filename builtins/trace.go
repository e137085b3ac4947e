package builtins

import (
	"fmt"
	"log/slog"

	"github.com/deepnoodle-ai/scripthost"
	lua "github.com/yuin/gopher-lua"
)

func registerTrace(reg *scripthost.Registry, opts Options) {
	// Trace(message) writes message to the host log.
	reg.Register("Trace", func(L *lua.LState) int {
		message := L.CheckString(1)
		logger := scripthost.LoggerFromState(L)
		if m, ok := scripthost.FromState(L); ok {
			logger = logger.With(slog.String("instance_id", m.ID()))
		}
		logger.Info(message)
		scripthost.PushBool(L, true)
		return 1
	})

	// Print(...) writes its arguments to the builtins output, tab separated.
	reg.Register("Print", func(L *lua.LState) int {
		top := L.GetTop()
		for i := 1; i <= top; i++ {
			if i > 1 {
				fmt.Fprint(opts.Out, "\t")
			}
			fmt.Fprint(opts.Out, L.ToStringMeta(L.Get(i)).String())
		}
		fmt.Fprintln(opts.Out)
		return 0
	})
}
