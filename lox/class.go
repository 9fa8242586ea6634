package lox

// Class holds instance methods and an optional superclass. A class is also
// an object in its own right: its class methods live on Metaclass and its
// fields in Fields, so class-level calls work exactly like instance calls
// with the class in the role of `this`.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
	Metaclass  *Class
	Fields     map[string]Value
}

type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func newClass(name string, superclass *Class, methods, classMethods map[string]*Function) *Class {
	meta := &Class{
		Name:    name + " metaclass",
		Methods: classMethods,
	}
	if superclass != nil {
		meta.Superclass = superclass.Metaclass
	}
	return &Class{
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
		Metaclass:  meta,
		Fields:     make(map[string]Value),
	}
}

func newInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

// FindMethod looks name up on c and then along the superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for class := c; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method, true
		}
	}
	return nil, false
}

// Arity reports the argument count instantiation expects.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// members returns the field map and method table used for property access
// on v, or false when v carries no properties.
func members(v Value) (map[string]Value, *Class, bool) {
	switch v.Kind() {
	case KindInstance:
		inst := v.Instance()
		return inst.Fields, inst.Class, true
	case KindClass:
		class := v.Class()
		return class.Fields, class.Metaclass, true
	default:
		return nil, nil, false
	}
}
