package scripthost

import (
	"fmt"
	"log/slog"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// RunScriptFile reads a script through the manager's FileSystem and runs it
// with no return values. Open and read failures are presented as alerts and
// reported as a false result.
func (m *Manager) RunScriptFile(path string) (bool, error) {
	f, err := m.fs.Open(path)
	if err != nil {
		m.reportError(&ScriptError{
			Type:    ErrorTypeFile,
			Cause:   fmt.Sprintf("Couldn't open Lua script \"%s\": %v", path, err),
			Source:  path,
			Wrapped: err,
		})
		return false, nil
	}
	defer f.Close()

	body, err := f.ReadAll()
	if err != nil {
		m.reportError(&ScriptError{
			Type:    ErrorTypeFile,
			Cause:   fmt.Sprintf("Error reading Lua script \"%s\": %v", path, err),
			Source:  path,
			Wrapped: err,
		})
		return false, nil
	}

	m.logger.Debug("running script file",
		slog.String("path", path),
		slog.String("instance_id", m.id))
	return m.RunScript(string(body), 0)
}

// RunScript compiles text as one chunk and calls it, requesting nret
// results (lua.MultRet for all of them).
//
// On success it returns true and leaves exactly nret values above the
// caller's stack baseline. Compile and runtime errors are presented, leave
// the stack at its baseline and return false with a nil error. A non-nil
// error is always fatal and means the operation chain must be abandoned.
func (m *Manager) RunScript(text string, nret int) (bool, error) {
	return m.run(text, text, nret)
}

// run compiles source and calls it. display is the text quoted in error
// messages, which differs from source for expressions.
func (m *Manager) run(source, display string, nret int) (bool, error) {
	L := m.mustState()
	m.depth++
	defer func() { m.depth-- }()

	base := L.GetTop()

	fn, err := L.Load(NewChunkReader([]byte(source)), m.opts.ChunkName)
	if err != nil {
		L.Push(lua.LString(ClassifyError(err).Cause))
		m.report(L, base, ErrorTypeCompile, "Lua error parsing", display, err)
		return false, nil
	}
	L.Push(fn)
	m.assertTop(L, base+1)

	err = L.PCall(0, nret, nil)
	if fatal := m.takePending(); fatal != nil {
		L.SetTop(base)
		if fatal.Source == "" {
			fatal.Source = display
		}
		return false, fatal
	}
	if err != nil {
		scriptError := ClassifyError(err)
		if scriptError.Type == ErrorTypePanic {
			L.SetTop(base)
			scriptError.Source = display
			m.logger.Error("interpreter fault",
				slog.String("instance_id", m.id),
				slog.String("error", scriptError.Cause))
			return false, scriptError
		}
		L.Push(lua.LString(scriptError.Cause))
		m.report(L, base, ErrorTypeRuntime, "Lua runtime error evaluating", display, err)
		return false, nil
	}
	if nret >= 0 {
		m.assertTop(L, base+nret)
	}
	return true, nil
}

// report consumes the error message on top of the stack, restoring the
// stack to base, and presents it with the offending text.
func (m *Manager) report(L *lua.LState, base int, errorType, prefix, display string, wrapped error) {
	message := popResult(L, base)
	m.reportError(&ScriptError{
		Type:    errorType,
		Cause:   fmt.Sprintf("%s \"%s\": %s", prefix, display, message),
		Source:  display,
		Wrapped: wrapped,
	})
}

func (m *Manager) reportError(scriptError *ScriptError) {
	m.lastErr = scriptError
	alert := &Alert{
		ID:         newAlertID(),
		InstanceID: m.id,
		Category:   m.opts.AlertCategory,
		Message:    scriptError.Cause,
		ErrorType:  scriptError.Type,
		Time:       time.Now(),
	}
	if err := m.presenter.Present(alert); err != nil {
		m.logger.Warn("failed to present alert",
			slog.String("alert_id", alert.ID),
			slog.String("error", err.Error()))
	}
}
