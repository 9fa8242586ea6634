package lox

func (exec *execution) evalCall(expr *CallExpr, env *Env) (Value, error) {
	callee, err := exec.evalExpression(expr.Callee, env)
	if err != nil {
		return NewNil(), err
	}

	args := make([]Value, 0, len(expr.Args))
	for _, argExpr := range expr.Args {
		arg, err := exec.evalExpression(argExpr, env)
		if err != nil {
			return NewNil(), err
		}
		args = append(args, arg)
	}

	return exec.callValue(callee, args, expr.Paren)
}

func (exec *execution) callValue(callee Value, args []Value, paren Token) (Value, error) {
	if err := exec.step(paren.Pos); err != nil {
		return NewNil(), err
	}

	switch callee.Kind() {
	case KindFunction:
		fn := callee.Function()
		if err := exec.checkArity(fn.Arity(), len(args), paren); err != nil {
			return NewNil(), err
		}
		return exec.callFunction(fn, args, paren)
	case KindNative:
		native := callee.Native()
		if err := exec.checkArity(native.Arity, len(args), paren); err != nil {
			return NewNil(), err
		}
		result, err := native.Fn(args)
		if err != nil {
			return NewNil(), exec.wrapError(err, paren)
		}
		return result, nil
	case KindClass:
		return exec.instantiate(callee.Class(), args, paren)
	default:
		return NewNil(), exec.errorAt(ErrorTypeNotCallable, paren, "Can only call functions and classes.")
	}
}

// checkArity skips the check for getters and variadic natives, both of
// which report a negative arity.
func (exec *execution) checkArity(arity, got int, paren Token) error {
	if arity < 0 || arity == got {
		return nil
	}
	return exec.errorAt(ErrorTypeArity, paren, "Expected %d arguments but got %d.", arity, got)
}

// callFunction runs fn's body in a fresh frame whose parent is fn's closure.
// Initializers always yield the bound receiver.
func (exec *execution) callFunction(fn *Function, args []Value, at Token) (Value, error) {
	name := fn.Name
	if name == "" {
		name = "<fn>"
	}
	if err := exec.pushFrame(name, at); err != nil {
		return NewNil(), err
	}
	defer exec.popFrame()

	env := newEnv(fn.Closure)
	for i, param := range fn.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	if fn.locals != nil {
		callerLocals := exec.locals
		exec.locals = fn.locals
		defer func() { exec.locals = callerLocals }()
	}
	result, err := exec.executeBlock(fn.Decl.Body, env)
	if err != nil {
		return NewNil(), err
	}

	if fn.IsInitializer {
		this, err := fn.Closure.GetAt(0, "this")
		if err != nil {
			return NewNil(), exec.lookupError(err, at)
		}
		return this, nil
	}
	if result.kind == flowReturn {
		return result.value, nil
	}
	return NewNil(), nil
}

func (exec *execution) instantiate(class *Class, args []Value, paren Token) (Value, error) {
	instance := NewInstance(newInstance(class))

	init, ok := class.FindMethod("init")
	if !ok {
		if err := exec.checkArity(0, len(args), paren); err != nil {
			return NewNil(), err
		}
		return instance, nil
	}

	if err := exec.checkArity(init.Arity(), len(args), paren); err != nil {
		return NewNil(), err
	}
	if _, err := exec.callFunction(init.bind(instance), args, paren); err != nil {
		return NewNil(), err
	}
	return instance, nil
}

// getProperty reads a field, or else binds a method. Getters are invoked on
// the spot and their result is stored as a field, so later reads never call
// them again.
func (exec *execution) getProperty(object Value, name Token) (Value, error) {
	fields, class, ok := members(object)
	if !ok {
		return NewNil(), exec.errorAt(ErrorTypeType, name, "Only instances have properties.")
	}

	if val, ok := fields[name.Lexeme]; ok {
		return val, nil
	}

	method, ok := class.FindMethod(name.Lexeme)
	if !ok {
		return NewNil(), exec.errorAt(ErrorTypeUndefinedProperty, name, "Undefined property '%s'.", name.Lexeme)
	}

	bound := method.bind(object)
	if !bound.IsGetter() {
		return NewFunction(bound), nil
	}

	val, err := exec.callFunction(bound, nil, name)
	if err != nil {
		return NewNil(), err
	}
	fields[name.Lexeme] = val
	return val, nil
}

// evalSuper binds the superclass's method to the current receiver. Inside
// a class method the receiver is the class itself, so the lookup goes
// through the superclass's metaclass.
func (exec *execution) evalSuper(expr *SuperExpr, env *Env) (Value, error) {
	distance, ok := exec.locals[expr]
	if !ok {
		return NewNil(), exec.errorAt(ErrorTypeRuntime, expr.Keyword, "Can't use 'super' outside of a class.")
	}
	superVal, err := env.GetAt(distance, "super")
	if err != nil {
		return NewNil(), exec.lookupError(err, expr.Keyword)
	}
	receiver, err := env.GetAt(distance-1, "this")
	if err != nil {
		return NewNil(), exec.lookupError(err, expr.Keyword)
	}

	superclass := superVal.Class()
	if receiver.Kind() == KindClass {
		superclass = superclass.Metaclass
	}

	method, ok := superclass.FindMethod(expr.Method.Lexeme)
	if !ok {
		return NewNil(), exec.errorAt(ErrorTypeUndefinedProperty, expr.Method, "Undefined property '%s'.", expr.Method.Lexeme)
	}

	bound := method.bind(receiver)
	if bound.IsGetter() {
		return exec.callFunction(bound, nil, expr.Method)
	}
	return NewFunction(bound), nil
}
