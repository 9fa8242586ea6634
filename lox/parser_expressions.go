package lox

// Expression grammar, lowest precedence first:
//
//	assignment → ( call "." )? IDENT "=" assignment | or
//	or         → and ( "or" and )*
//	and        → equality ( "and" equality )*
//	equality   → comparison ( ( "!=" | "==" ) comparison )*
//	comparison → term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term       → factor ( ( "-" | "+" ) factor )*
//	factor     → unary ( ( "/" | "*" ) unary )*
//	unary      → ( "!" | "-" ) unary | call
//	call       → primary ( "(" arguments? ")" | "." IDENT )*
//
// Every parse function returns nil after recording an error that should
// abandon the current declaration.

func (p *parser) parseExpression() Expression {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() Expression {
	expr := p.parseOr()
	if expr == nil {
		return nil
	}

	if p.match(tokenAssign) {
		equals := p.previous()
		value := p.parseAssignment()
		if value == nil {
			return nil
		}

		switch target := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: target.Name, Value: value}
		case *GetExpr:
			return &SetExpr{Object: target.Object, Name: target.Name, Value: value}
		}
		p.errorAt(equals, "Invalid assignment target.")
	}
	return expr
}

func (p *parser) parseOr() Expression {
	return p.parseLogical(p.parseAnd, tokenOr)
}

func (p *parser) parseAnd() Expression {
	return p.parseLogical(p.parseEquality, tokenAnd)
}

func (p *parser) parseLogical(operand func() Expression, op TokenType) Expression {
	expr := operand()
	for expr != nil && p.match(op) {
		operator := p.previous()
		right := operand()
		if right == nil {
			return nil
		}
		expr = &LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *parser) parseEquality() Expression {
	return p.parseBinary(p.parseComparison, tokenNotEQ, tokenEQ)
}

func (p *parser) parseComparison() Expression {
	return p.parseBinary(p.parseTerm, tokenGT, tokenGTE, tokenLT, tokenLTE)
}

func (p *parser) parseTerm() Expression {
	return p.parseBinary(p.parseFactor, tokenMinus, tokenPlus)
}

func (p *parser) parseFactor() Expression {
	return p.parseBinary(p.parseUnary, tokenSlash, tokenAsterisk)
}

// parseBinary parses a left-associative chain of operand (op operand)*.
func (p *parser) parseBinary(operand func() Expression, ops ...TokenType) Expression {
	expr := operand()
	for expr != nil && p.match(ops...) {
		operator := p.previous()
		right := operand()
		if right == nil {
			return nil
		}
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *parser) parseUnary() Expression {
	if p.match(tokenBang, tokenMinus) {
		operator := p.previous()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		return &UnaryExpr{Operator: operator, Right: right}
	}
	return p.parseCall()
}

func (p *parser) parseCall() Expression {
	expr := p.parsePrimary()
	for expr != nil {
		switch {
		case p.match(tokenLParen):
			expr = p.finishCall(expr)
		case p.match(tokenDot):
			name, ok := p.consume(tokenIdent, "Expect property name after '.'.")
			if !ok {
				return nil
			}
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr
		}
	}
	return nil
}

func (p *parser) finishCall(callee Expression) Expression {
	var args []Expression
	if !p.check(tokenRParen) {
		for {
			if len(args) >= maxArguments {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			arg := p.parseExpression()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if !p.match(tokenComma) {
				break
			}
		}
	}

	paren, ok := p.consume(tokenRParen, "Expect ')' after arguments.")
	if !ok {
		return nil
	}
	return &CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) parsePrimary() Expression {
	tok := p.peek()
	switch {
	case p.match(tokenFalse):
		return &LiteralExpr{Value: false, position: tok.Pos}
	case p.match(tokenTrue):
		return &LiteralExpr{Value: true, position: tok.Pos}
	case p.match(tokenNil):
		return &LiteralExpr{Value: nil, position: tok.Pos}
	case p.match(tokenNumber, tokenString):
		return &LiteralExpr{Value: tok.Literal, position: tok.Pos}
	case p.match(tokenLParen):
		inner := p.parseExpression()
		if inner == nil {
			return nil
		}
		if _, ok := p.consume(tokenRParen, "Expect ')' after expression."); !ok {
			return nil
		}
		return &GroupingExpr{Inner: inner, position: tok.Pos}
	case p.match(tokenSuper):
		if _, ok := p.consume(tokenDot, "Expect '.' after 'super'."); !ok {
			return nil
		}
		method, ok := p.consume(tokenIdent, "Expect superclass method name.")
		if !ok {
			return nil
		}
		return &SuperExpr{Keyword: tok, Method: method}
	case p.match(tokenThis):
		return &ThisExpr{Keyword: tok}
	case p.match(tokenIdent):
		return &VariableExpr{Name: tok}
	case p.match(tokenFun):
		fn := p.parseFunctionBody("function", tok.Pos)
		if fn == nil {
			return nil
		}
		return fn
	case isBinaryOperator(tok.Type):
		p.errorAt(tok, "Expect left-hand operand.")
		return nil
	}

	p.errorAt(tok, "Expect expression.")
	return nil
}

func isBinaryOperator(tt TokenType) bool {
	switch tt {
	case tokenSlash, tokenAsterisk, tokenPlus, tokenGT, tokenGTE, tokenLT, tokenLTE, tokenNotEQ, tokenEQ:
		return true
	}
	return false
}
