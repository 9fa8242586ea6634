package lox

func NewNil() Value             { return Value{kind: KindNil} }
func NewBool(b bool) Value      { return Value{kind: KindBool, data: b} }
func NewNumber(n float64) Value { return Value{kind: KindNumber, data: n} }
func NewString(s string) Value  { return Value{kind: KindString, data: s} }

func NewClass(c *Class) Value       { return Value{kind: KindClass, data: c} }
func NewInstance(i *Instance) Value { return Value{kind: KindInstance, data: i} }

func NewFunction(fn *Function) Value {
	return Value{kind: KindFunction, data: fn}
}

func NewNative(name string, arity int, fn NativeFunc) Value {
	return Value{kind: KindNative, data: &Native{Name: name, Arity: arity, Fn: fn}}
}

// literalValue converts a literal carried by a token or LiteralExpr.
func literalValue(v any) Value {
	switch lit := v.(type) {
	case bool:
		return NewBool(lit)
	case float64:
		return NewNumber(lit)
	case string:
		return NewString(lit)
	default:
		return NewNil()
	}
}
