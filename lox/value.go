package lox

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNative
	KindClass
	KindInstance

	// kindUnassigned marks a variable declared without an initializer. It
	// lives only in environments and never escapes a variable read.
	kindUnassigned
)

// Value is the tagged union of every runtime value.
type Value struct {
	kind ValueKind
	data any
}

var unassigned = Value{kind: kindUnassigned}

// NativeFunc implements a host-provided function.
type NativeFunc func(args []Value) (Value, error)

// Native is a callable implemented in Go, such as clock().
type Native struct {
	Name  string
	Arity int
	Fn    NativeFunc
}
