package scripthost

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deepnoodle-ai/scripthost/script"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// CompiledScript is compiled bytecode that is not tied to one interpreter
// instance, so it stays usable across Reset.
type CompiledScript struct {
	manager *Manager
	proto   *lua.FunctionProto
	source  string
}

var _ script.Compiler = (*Manager)(nil)

// Compile compiles code for repeated evaluation. Code is first tried as an
// expression and, if that does not parse, as a block of statements. Errors
// are returned, not presented.
func (m *Manager) Compile(ctx context.Context, code string) (script.Script, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proto, err := compileChunk("return "+code, m.opts.ChunkName)
	if err != nil {
		var blockErr error
		proto, blockErr = compileChunk(code, m.opts.ChunkName)
		if blockErr != nil {
			return nil, &ScriptError{
				Type:    ErrorTypeCompile,
				Cause:   fmt.Sprintf("invalid expression %q: %v", code, blockErr),
				Source:  code,
				Wrapped: blockErr,
			}
		}
	}
	return &CompiledScript{manager: m, proto: proto, source: code}, nil
}

func compileChunk(source, name string) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(NewChunkReader([]byte(source)), name)
	if err != nil {
		return nil, err
	}
	return lua.Compile(chunk, name)
}

// Source returns the text the script was compiled from.
func (s *CompiledScript) Source() string {
	return s.source
}

// Evaluate runs the script on the manager's live interpreter with globals
// bound for the duration of the call, and returns its first result.
func (s *CompiledScript) Evaluate(ctx context.Context, globals map[string]any) (script.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := s.manager
	L := m.L
	if L == nil {
		return nil, newFatalError(ErrorTypeAssertion, "interpreter is not initialized")
	}
	m.depth++
	defer func() { m.depth-- }()

	previous := make(map[string]lua.LValue, len(globals))
	for name, value := range globals {
		previous[name] = L.GetGlobal(name)
		L.SetGlobal(name, script.ToLua(L, value))
	}
	defer func() {
		for name, value := range previous {
			L.SetGlobal(name, value)
		}
	}()

	base := L.GetTop()
	L.Push(L.NewFunctionFromProto(s.proto))
	err := L.PCall(0, 1, nil)
	if fatal := m.takePending(); fatal != nil {
		L.SetTop(base)
		return nil, fatal
	}
	if err != nil {
		scriptError := ClassifyError(err)
		scriptError.Source = s.source
		m.logger.Debug("script evaluation failed",
			slog.String("instance_id", m.id),
			slog.String("error", scriptError.Cause))
		return nil, scriptError
	}
	result := L.Get(-1)
	L.SetTop(base)
	return script.FromLua(result), nil
}
