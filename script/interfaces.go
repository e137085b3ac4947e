package script

import (
	"context"
)

// Kind is the dynamic type of a script value as seen by the host.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindTable
	KindUserData
	KindOther
)

var kindNames = [...]string{
	KindNil:      "nil",
	KindBool:     "bool",
	KindNumber:   "number",
	KindString:   "string",
	KindFunction: "function",
	KindTable:    "table",
	KindUserData: "userdata",
	KindOther:    "other",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value represents the result of a script evaluation.
type Value interface {

	// Kind returns the dynamic type of this value
	Kind() Kind

	// Value returns the Go value for this value as an any
	Value() any

	// Items returns the items for this value as an array of any
	Items() ([]any, error)

	// String returns the string representation of this value
	String() string

	// IsTruthy returns true if this value is truthy
	IsTruthy() bool
}

// Script represents a compiled script that can be evaluated.
type Script interface {
	Evaluate(ctx context.Context, globals map[string]any) (Value, error)
}

// Compiler is an interface used to compile source code into a Script.
type Compiler interface {
	Compile(ctx context.Context, code string) (Script, error)
}
