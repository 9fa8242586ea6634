package lox

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrUndefinedVariable reports a name bound in no frame of the chain.
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrUnassignedVariable reports a read of a variable declared without
	// an initializer and not yet assigned.
	ErrUnassignedVariable = errors.New("unassigned variable")
)

// Env is one frame of the scope chain. Frames are created for the globals,
// each block, each call and each class body.
type Env struct {
	id     int64
	parent *Env
	values map[string]Value
}

func newEnv(parent *Env) *Env {
	return &Env{id: envIDs.Add(1), parent: parent, values: make(map[string]Value)}
}

var envIDs atomic.Int64

// ID identifies the frame for debugging output.
func (e *Env) ID() int64 { return e.id }

// Define binds name in this frame, shadowing or replacing any previous
// binding.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

func (e *Env) declare(name string) {
	e.values[name] = unassigned
}

func (e *Env) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[name]; ok {
			return checkAssigned(name, val)
		}
	}
	return Value{}, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// Assign updates the nearest binding of name. It never creates one.
func (e *Env) Assign(name string, val Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = val
			return nil
		}
	}
	return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// GetAt reads name from the frame exactly distance hops out.
func (e *Env) GetAt(distance int, name string) (Value, error) {
	val, ok := e.ancestor(distance).values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
	}
	return checkAssigned(name, val)
}

// AssignAt writes name in the frame exactly distance hops out.
func (e *Env) AssignAt(distance int, name string, val Value) {
	e.ancestor(distance).values[name] = val
}

func (e *Env) ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance && env.parent != nil; i++ {
		env = env.parent
	}
	return env
}

func checkAssigned(name string, val Value) (Value, error) {
	if val.isUnassigned() {
		return Value{}, fmt.Errorf("%w '%s'", ErrUnassignedVariable, name)
	}
	return val, nil
}

// Names lists the bindings of this frame, skipping unassigned ones.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name, val := range e.values {
		if val.isUnassigned() {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Lookup reads a binding of this frame only.
func (e *Env) Lookup(name string) (Value, bool) {
	val, ok := e.values[name]
	if !ok || val.isUnassigned() {
		return Value{}, false
	}
	return val, true
}
