package scripthost

import (
	lua "github.com/yuin/gopher-lua"
)

// NativeFunction is a host-implemented function exposed to scripts as a
// global under Name.
type NativeFunction struct {
	Name string
	Fn   lua.LGFunction
}

// ActorRegistrar binds a richer native type (usually a userdata metatable
// plus a constructor global) into a freshly created interpreter.
type ActorRegistrar func(L *lua.LState)

// ResetHook runs after every Reset, once both registries have been replayed.
// Hosts use it to rebuild anything that caches interpreter values.
type ResetHook func(m *Manager)

// Registry is an append-only, order-preserving set of bindings applied to
// every interpreter instance a Manager creates. Entries live as long as the
// Registry; there is no removal.
//
// A Registry is not synchronized. Populate it during startup, before any
// Manager using it starts evaluating.
type Registry struct {
	functions  []NativeFunction
	actorTypes []ActorRegistrar
	resetHooks []ResetHook
}

// DefaultRegistry is the process-wide registry used by managers that are not
// given one explicitly. Packages add to it from their init functions.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a native function.
func (r *Registry) Register(name string, fn lua.LGFunction) {
	r.functions = append(r.functions, NativeFunction{Name: name, Fn: fn})
}

// RegisterActorType appends an actor type registration callback.
func (r *Registry) RegisterActorType(fn ActorRegistrar) {
	r.actorTypes = append(r.actorTypes, fn)
}

// RegisterResetHook appends a hook run at the end of every Reset.
func (r *Registry) RegisterResetHook(fn ResetHook) {
	r.resetHooks = append(r.resetHooks, fn)
}

// Functions returns the registered native functions in registration order.
func (r *Registry) Functions() []NativeFunction {
	out := make([]NativeFunction, len(r.functions))
	copy(out, r.functions)
	return out
}

// ActorTypes returns the registered actor callbacks in registration order.
func (r *Registry) ActorTypes() []ActorRegistrar {
	out := make([]ActorRegistrar, len(r.actorTypes))
	copy(out, r.actorTypes)
	return out
}

// ReplayFunctions binds every native function into L as a global, in
// registration order. wrap, when non-nil, decorates each function first.
func (r *Registry) ReplayFunctions(L *lua.LState, wrap func(NativeFunction) lua.LGFunction) {
	for _, fn := range r.functions {
		impl := fn.Fn
		if wrap != nil {
			impl = wrap(fn)
		}
		L.SetGlobal(fn.Name, L.NewFunction(impl))
	}
}

// ReplayActorTypes invokes every actor callback against L, in registration
// order.
func (r *Registry) ReplayActorTypes(L *lua.LState) {
	for _, fn := range r.actorTypes {
		fn(L)
	}
}

func (r *Registry) runResetHooks(m *Manager) {
	for _, fn := range r.resetHooks {
		fn(m)
	}
}

// Register appends a native function to DefaultRegistry.
func Register(name string, fn lua.LGFunction) {
	DefaultRegistry.Register(name, fn)
}

// RegisterActorType appends an actor callback to DefaultRegistry.
func RegisterActorType(fn ActorRegistrar) {
	DefaultRegistry.RegisterActorType(fn)
}

// RegisterResetHook appends a reset hook to DefaultRegistry.
func RegisterResetHook(fn ResetHook) {
	DefaultRegistry.RegisterResetHook(fn)
}
