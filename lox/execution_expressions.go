package lox

func (exec *execution) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return literalValue(e.Value), nil
	case *GroupingExpr:
		return exec.evalExpression(e.Inner, env)
	case *UnaryExpr:
		return exec.evalUnary(e, env)
	case *BinaryExpr:
		return exec.evalBinary(e, env)
	case *LogicalExpr:
		return exec.evalLogical(e, env)
	case *VariableExpr:
		return exec.lookupVariable(e.Name, e, env)
	case *AssignExpr:
		return exec.evalAssign(e, env)
	case *CallExpr:
		return exec.evalCall(e, env)
	case *GetExpr:
		object, err := exec.evalExpression(e.Object, env)
		if err != nil {
			return NewNil(), err
		}
		return exec.getProperty(object, e.Name)
	case *SetExpr:
		return exec.evalSet(e, env)
	case *ThisExpr:
		return exec.lookupVariable(e.Keyword, e, env)
	case *SuperExpr:
		return exec.evalSuper(e, env)
	case *FunctionExpr:
		return NewFunction(&Function{Decl: e, Closure: env, locals: exec.locals}), nil
	default:
		return NewNil(), exec.errorAt(ErrorTypeRuntime, Token{Pos: expr.Pos()}, "unsupported expression %T", expr)
	}
}

// lookupVariable reads name from the frame the resolver recorded for expr,
// or from the globals when expr was left unresolved.
func (exec *execution) lookupVariable(name Token, expr Expression, env *Env) (Value, error) {
	var (
		val Value
		err error
	)
	if distance, ok := exec.locals[expr]; ok {
		val, err = env.GetAt(distance, name.Lexeme)
	} else {
		val, err = exec.globals.Get(name.Lexeme)
	}
	if err != nil {
		return NewNil(), exec.lookupError(err, name)
	}
	return val, nil
}

func (exec *execution) evalAssign(expr *AssignExpr, env *Env) (Value, error) {
	val, err := exec.evalExpression(expr.Value, env)
	if err != nil {
		return NewNil(), err
	}
	if distance, ok := exec.locals[expr]; ok {
		env.AssignAt(distance, expr.Name.Lexeme, val)
		return val, nil
	}
	if err := exec.globals.Assign(expr.Name.Lexeme, val); err != nil {
		return NewNil(), exec.lookupError(err, expr.Name)
	}
	return val, nil
}

func (exec *execution) evalUnary(expr *UnaryExpr, env *Env) (Value, error) {
	right, err := exec.evalExpression(expr.Right, env)
	if err != nil {
		return NewNil(), err
	}
	switch expr.Operator.Type {
	case tokenBang:
		return NewBool(!right.Truthy()), nil
	case tokenMinus:
		if right.Kind() != KindNumber {
			return NewNil(), exec.errorAt(ErrorTypeType, expr.Operator, "Operand must be a number.")
		}
		return NewNumber(-right.Number()), nil
	default:
		return NewNil(), exec.errorAt(ErrorTypeRuntime, expr.Operator, "unsupported unary operator %s", expr.Operator.Lexeme)
	}
}

func (exec *execution) evalBinary(expr *BinaryExpr, env *Env) (Value, error) {
	left, err := exec.evalExpression(expr.Left, env)
	if err != nil {
		return NewNil(), err
	}
	right, err := exec.evalExpression(expr.Right, env)
	if err != nil {
		return NewNil(), err
	}

	op := expr.Operator
	switch op.Type {
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	case tokenPlus:
		switch {
		case left.Kind() == KindNumber && right.Kind() == KindNumber:
			return NewNumber(left.Number() + right.Number()), nil
		case left.Kind() == KindString || right.Kind() == KindString:
			return NewString(left.String() + right.String()), nil
		}
		return NewNil(), exec.errorAt(ErrorTypeType, op, "Operands must be two numbers or include a string.")
	}

	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return NewNil(), exec.errorAt(ErrorTypeType, op, "Operands must be numbers.")
	}
	l, r := left.Number(), right.Number()

	switch op.Type {
	case tokenMinus:
		return NewNumber(l - r), nil
	case tokenAsterisk:
		return NewNumber(l * r), nil
	case tokenSlash:
		if r == 0 {
			return NewNil(), exec.errorAt(ErrorTypeZeroDivision, op, "invalid division by 0")
		}
		return NewNumber(l / r), nil
	case tokenGT:
		return NewBool(l > r), nil
	case tokenGTE:
		return NewBool(l >= r), nil
	case tokenLT:
		return NewBool(l < r), nil
	case tokenLTE:
		return NewBool(l <= r), nil
	default:
		return NewNil(), exec.errorAt(ErrorTypeRuntime, op, "unsupported operator %s", op.Lexeme)
	}
}

func (exec *execution) evalLogical(expr *LogicalExpr, env *Env) (Value, error) {
	left, err := exec.evalExpression(expr.Left, env)
	if err != nil {
		return NewNil(), err
	}
	if expr.Operator.Type == tokenOr {
		if left.Truthy() {
			return left, nil
		}
	} else if !left.Truthy() {
		return left, nil
	}
	return exec.evalExpression(expr.Right, env)
}

func (exec *execution) evalSet(expr *SetExpr, env *Env) (Value, error) {
	object, err := exec.evalExpression(expr.Object, env)
	if err != nil {
		return NewNil(), err
	}
	fields, _, ok := members(object)
	if !ok {
		return NewNil(), exec.errorAt(ErrorTypeType, expr.Name, "Only instances have fields.")
	}
	val, err := exec.evalExpression(expr.Value, env)
	if err != nil {
		return NewNil(), err
	}
	fields[expr.Name.Lexeme] = val
	return val, nil
}
