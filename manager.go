package scripthost

import (
	"context"
	"fmt"
	"log/slog"

	lua "github.com/yuin/gopher-lua"
	"go.jetify.com/typeid"
)

// NewInstanceID returns a new ID for an interpreter instance
func NewInstanceID() string {
	id, err := typeid.WithPrefix("lua")
	if err != nil {
		panic(err)
	}
	return id.String()
}

func newAlertID() string {
	id, err := typeid.WithPrefix("alert")
	if err != nil {
		panic(err)
	}
	return id.String()
}

// NopRef identifies the cached no-op function inside one interpreter
// instance. A new handle is created by every Reset, so handles from
// different instances never compare equal.
type NopRef struct {
	Instance string
	Ref      int
}

// Valid reports whether the handle was ever assigned.
func (r NopRef) Valid() bool {
	return r.Instance != "" && r.Ref > 0
}

// Manager owns the single live interpreter instance. It creates and
// recreates the instance, replays its Registry into every new instance, and
// runs scripts and expressions against it.
//
// A Manager is not safe for concurrent use. Native functions may call back
// into it while a script is running, but Reset and Close are rejected until
// every in-flight evaluation has returned.
type Manager struct {
	opts      Options
	registry  *Registry
	logger    *slog.Logger
	presenter Presenter
	fs        FileSystem

	L   *lua.LState
	id  string
	nop NopRef

	depth   int
	pending *ScriptError
	lastErr *ScriptError
}

// New returns a Manager with a freshly initialized interpreter.
func New(opts Options) (*Manager, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	m := &Manager{
		opts:      opts,
		registry:  opts.Registry,
		logger:    opts.Logger,
		presenter: opts.Presenter,
		fs:        opts.FileSystem,
	}
	if err := m.Reset(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reset discards the current interpreter, if any, and builds a new one:
// base libraries, the no-op function, native functions, actor types and
// finally reset hooks, each in registration order. Values obtained from the
// previous instance, including its NopRef, are no longer valid.
func (m *Manager) Reset() error {
	if m.depth > 0 {
		return fmt.Errorf("cannot reset interpreter %s while an evaluation is in progress", m.id)
	}
	m.destroy()

	m.id = NewInstanceID()
	L := lua.NewState(m.opts.luaOptions())
	L.SetContext(WithLogger(WithManager(context.Background(), m), m.logger))
	L.Panic = m.handlePanic
	m.L = L

	if err := m.init(L); err != nil {
		m.logger.Error("interpreter initialization failed",
			slog.String("instance_id", m.id),
			slog.String("error", err.Error()))
		m.destroy()
		return err
	}

	m.logger.Debug("interpreter reset",
		slog.String("instance_id", m.id),
		slog.Int("functions", len(m.registry.functions)),
		slog.Int("actor_types", len(m.registry.actorTypes)))
	return nil
}

func (m *Manager) init(L *lua.LState) error {
	for _, name := range m.opts.Libraries {
		lib := libraries[name]
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    1,
			Protect: true,
		}, lua.LString(lib.module))
		if err != nil {
			return fmt.Errorf("failed to open library %q: %w", name, err)
		}
	}
	// the openers leave their module tables behind
	L.SetTop(0)

	ok, err := m.RunScript("return function() end", 1)
	if err != nil {
		return fmt.Errorf("failed to create no-op function: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to create no-op function: %s", m.lastErr.Cause)
	}
	m.nop = m.ref(L)

	m.registry.ReplayFunctions(L, m.wrapNative)
	m.registry.ReplayActorTypes(L)
	m.registry.runResetHooks(m)
	return nil
}

// Close releases the interpreter. It is safe to call when no interpreter
// exists. After Close every operation that needs an interpreter fails with
// an assertion until Reset is called again.
func (m *Manager) Close() error {
	if m.depth > 0 {
		return fmt.Errorf("cannot close interpreter %s while an evaluation is in progress", m.id)
	}
	if m.L != nil {
		m.logger.Debug("interpreter closed", slog.String("instance_id", m.id))
	}
	m.destroy()
	return nil
}

func (m *Manager) destroy() {
	if m.L != nil {
		m.L.Close()
	}
	m.L = nil
	m.id = ""
	m.nop = NopRef{}
	m.pending = nil
}

// State returns the live interpreter, or nil after Close.
func (m *Manager) State() *lua.LState {
	return m.L
}

// ID returns the ID of the live interpreter instance.
func (m *Manager) ID() string {
	return m.id
}

// Logger returns the manager's logger.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// Options returns the effective options, defaults applied.
func (m *Manager) Options() Options {
	return m.opts
}

// LastError returns the most recent recoverable error that was presented,
// or nil.
func (m *Manager) LastError() *ScriptError {
	return m.lastErr
}

// NopRef returns the handle of the cached no-op function.
func (m *Manager) NopRef() NopRef {
	return m.nop
}

// NopFunction returns the cached no-op function of the live instance.
func (m *Manager) NopFunction() lua.LValue {
	L := m.mustState()
	if !m.nop.Valid() || m.nop.Instance != m.id {
		panic(newFatalError(ErrorTypeAssertion, "no-op function handle %+v does not belong to instance %s", m.nop, m.id))
	}
	fn := registryTable(L).RawGetInt(m.nop.Ref)
	if fn == lua.LNil {
		panic(newFatalError(ErrorTypeAssertion, "no-op function %d missing from registry", m.nop.Ref))
	}
	return fn
}

// PushNop pushes the cached no-op function onto the stack.
func (m *Manager) PushNop() {
	fn := m.NopFunction()
	m.L.Push(fn)
}

func (m *Manager) mustState() *lua.LState {
	if m.L == nil {
		panic(newFatalError(ErrorTypeAssertion, "interpreter is not initialized"))
	}
	return m.L
}

// ref pops the top of the stack into the registry table.
func (m *Manager) ref(L *lua.LState) NopRef {
	reg := registryTable(L)
	value := L.Get(-1)
	L.Pop(1)
	ref := reg.Len() + 1
	reg.RawSetInt(ref, value)
	return NopRef{Instance: m.id, Ref: ref}
}

func registryTable(L *lua.LState) *lua.LTable {
	return L.Get(lua.RegistryIndex).(*lua.LTable)
}

// handlePanic is installed as the interpreter's panic function. It only runs
// for errors raised outside a protected call and escalates them as fatal.
func (m *Manager) handlePanic(L *lua.LState) {
	message := "unknown error"
	if L.GetTop() > 0 {
		message = L.Get(-1).String()
		L.Pop(1)
	}
	m.logger.Error("unprotected interpreter error",
		slog.String("instance_id", m.id),
		slog.String("error", message))
	panic(newFatalError(ErrorTypePanic, "%s", message))
}

// wrapNative decorates a registered function so fatal errors raised inside
// it survive the protected call that the interpreter wraps around it.
func (m *Manager) wrapNative(fn NativeFunction) lua.LGFunction {
	impl := fn.Fn
	return func(L *lua.LState) int {
		defer func() {
			if r := recover(); r != nil {
				switch v := r.(type) {
				case *lua.ApiError:
				case *ScriptError:
					if !v.IsRecoverable() {
						m.setPending(v)
					}
				default:
					m.setPending(newFatalError(ErrorTypePanic, "native function %s panicked: %v", fn.Name, r))
				}
				panic(r)
			}
		}()
		return impl(L)
	}
}

func (m *Manager) setPending(err *ScriptError) {
	if m.pending == nil {
		m.pending = err
	}
}

func (m *Manager) takePending() *ScriptError {
	err := m.pending
	m.pending = nil
	return err
}

func (m *Manager) assertTop(L *lua.LState, want int) {
	if top := L.GetTop(); top != want {
		panic(newFatalError(ErrorTypeAssertion, "stack top is %d, expected %d", top, want))
	}
}

// Raise reports err to the running script as a script error. When err is
// fatal the Manager also keeps it, so the outermost operation returns it even
// if the script catches the error with pcall.
func Raise(L *lua.LState, err error) {
	if m, ok := FromState(L); ok && IsFatal(err) {
		m.setPending(ClassifyError(err))
	}
	L.RaiseError("%s", err.Error())
}

// Fail raises message verbatim as a script error, without position
// information.
func Fail(L *lua.LState, message string) {
	L.Error(lua.LString(message), 0)
}
