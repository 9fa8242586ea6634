package lox

const (
	maxParams    = 8
	maxArguments = 255
)

type parser struct {
	tokens  []Token
	current int

	loopDepth int

	errors StaticErrors
}

func newParser(tokens []Token) *parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tokenEOF {
		var pos Position
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens, syntheticToken(tokenEOF, "", pos))
	}
	return &parser{tokens: tokens}
}

// Parse builds the statement list for a token sequence ending in EOF. A
// syntax error abandons only the declaration it occurs in; every
// declaration that parsed cleanly is returned alongside a StaticErrors
// value describing the rest.
func Parse(tokens []Token) ([]Statement, error) {
	p := newParser(tokens)
	stmts := p.parseProgram()
	if len(p.errors) > 0 {
		return stmts, p.errors
	}
	return stmts, nil
}

func (p *parser) parseProgram() []Statement {
	var stmts []Statement
	for !p.isAtEnd() {
		if stmt := p.parseDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().Type == tokenEOF
}

func (p *parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *parser) checkNext(tt TokenType) bool {
	if p.isAtEnd() || p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Type == tt
}

func (p *parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past a token of the given type or records msg at the
// current token and reports failure.
func (p *parser) consume(tt TokenType, msg string) (Token, bool) {
	if p.check(tt) {
		return p.advance(), true
	}
	p.errorAt(p.peek(), msg)
	return p.peek(), false
}

// synchronize discards tokens until a likely statement boundary.
func (p *parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == tokenSemicolon {
			return
		}
		switch p.peek().Type {
		case tokenClass, tokenFun, tokenVar, tokenFor, tokenIf, tokenWhile, tokenPrint, tokenReturn:
			return
		}
		p.advance()
	}
}

func (p *parser) parseDeclaration() Statement {
	var stmt Statement
	switch {
	case p.match(tokenClass):
		if class := p.parseClassDeclaration(); class != nil {
			stmt = class
		}
	case p.check(tokenFun) && p.checkNext(tokenIdent):
		p.advance()
		if fn := p.parseFunction("function"); fn != nil {
			stmt = fn
		}
	case p.match(tokenVar):
		stmt = p.parseVarDeclaration()
	default:
		stmt = p.parseStatement()
	}

	if stmt == nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *parser) parseClassDeclaration() *ClassStmt {
	name, ok := p.consume(tokenIdent, "Expect class name.")
	if !ok {
		return nil
	}
	class := &ClassStmt{Name: name}

	if p.match(tokenLT) {
		superName, ok := p.consume(tokenIdent, "Expect superclass name.")
		if !ok {
			return nil
		}
		class.Superclass = &VariableExpr{Name: superName}
	}

	if _, ok := p.consume(tokenLBrace, "Expect '{' before class body."); !ok {
		return nil
	}

	for !p.check(tokenRBrace) && !p.isAtEnd() {
		isClassMethod := p.match(tokenClass)
		method := p.parseFunction("method")
		if method == nil {
			return nil
		}
		if isClassMethod {
			class.ClassMethods = append(class.ClassMethods, method)
		} else {
			class.Methods = append(class.Methods, method)
		}
	}

	if _, ok := p.consume(tokenRBrace, "Expect '}' after class body."); !ok {
		return nil
	}
	return class
}

func (p *parser) parseFunction(kind string) *FunctionStmt {
	name, ok := p.consume(tokenIdent, "Expect "+kind+" name.")
	if !ok {
		return nil
	}
	fn := p.parseFunctionBody(kind, name.Pos)
	if fn == nil {
		return nil
	}
	return &FunctionStmt{Name: name, Function: fn}
}

// parseFunctionBody parses an optional parameter list and a block body. A
// missing parameter list declares a getter.
func (p *parser) parseFunctionBody(kind string, pos Position) *FunctionExpr {
	fn := &FunctionExpr{position: pos}

	if p.match(tokenLParen) {
		fn.Params = []Token{}
		if !p.check(tokenRParen) {
			for {
				if len(fn.Params) >= maxParams {
					p.errorAt(p.peek(), "Can't have more than 8 parameters.")
				}
				param, ok := p.consume(tokenIdent, "Expect parameter name.")
				if !ok {
					return nil
				}
				fn.Params = append(fn.Params, param)
				if !p.match(tokenComma) {
					break
				}
			}
		}
		if _, ok := p.consume(tokenRParen, "Expect ')' after parameters."); !ok {
			return nil
		}
	} else {
		fn.Getter = true
	}

	if _, ok := p.consume(tokenLBrace, "Expect '{' before "+kind+" body."); !ok {
		return nil
	}

	enclosingLoops := p.loopDepth
	p.loopDepth = 0
	body, ok := p.parseBlockBody()
	p.loopDepth = enclosingLoops
	if !ok {
		return nil
	}
	fn.Body = body
	return fn
}

func (p *parser) parseVarDeclaration() Statement {
	name, ok := p.consume(tokenIdent, "Expect variable name.")
	if !ok {
		return nil
	}

	stmt := &VarStmt{Name: name}
	if p.match(tokenAssign) {
		stmt.Initializer = p.parseExpression()
		if stmt.Initializer == nil {
			return nil
		}
	}

	if _, ok := p.consume(tokenSemicolon, "Expect ';' after variable declaration."); !ok {
		return nil
	}
	return stmt
}

func (p *parser) parseStatement() Statement {
	switch {
	case p.match(tokenFor):
		return p.parseForStatement()
	case p.match(tokenIf):
		return p.parseIfStatement()
	case p.match(tokenPrint):
		return p.parsePrintStatement()
	case p.match(tokenReturn):
		return p.parseReturnStatement()
	case p.match(tokenWhile):
		return p.parseWhileStatement()
	case p.match(tokenBreak):
		return p.parseBreakStatement()
	case p.match(tokenLBrace):
		pos := p.previous().Pos
		body, ok := p.parseBlockBody()
		if !ok {
			return nil
		}
		return &BlockStmt{Statements: body, position: pos}
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlockBody parses declarations up to the closing brace. Errors inside
// nested declarations are recovered locally; only a missing brace fails
// the block.
func (p *parser) parseBlockBody() ([]Statement, bool) {
	stmts := []Statement{}
	for !p.check(tokenRBrace) && !p.isAtEnd() {
		if stmt := p.parseDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, ok := p.consume(tokenRBrace, "Expect '}' after block."); !ok {
		return nil, false
	}
	return stmts, true
}

func (p *parser) parseBreakStatement() Statement {
	keyword := p.previous()
	if p.loopDepth == 0 {
		p.errorAt(keyword, "Must be inside a loop to use 'break'.")
	}
	if _, ok := p.consume(tokenSemicolon, "Expect ';' after 'break'."); !ok {
		return nil
	}
	return &BreakStmt{Keyword: keyword}
}

// parseForStatement desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`.
func (p *parser) parseForStatement() Statement {
	pos := p.previous().Pos
	if _, ok := p.consume(tokenLParen, "Expect '(' after 'for'."); !ok {
		return nil
	}

	var initializer Statement
	switch {
	case p.match(tokenSemicolon):
	case p.match(tokenVar):
		initializer = p.parseVarDeclaration()
		if initializer == nil {
			return nil
		}
	default:
		initializer = p.parseExpressionStatement()
		if initializer == nil {
			return nil
		}
	}

	var condition Expression
	if !p.check(tokenSemicolon) {
		if condition = p.parseExpression(); condition == nil {
			return nil
		}
	}
	if _, ok := p.consume(tokenSemicolon, "Expect ';' after loop condition."); !ok {
		return nil
	}

	var increment Expression
	if !p.check(tokenRParen) {
		if increment = p.parseExpression(); increment == nil {
			return nil
		}
	}
	if _, ok := p.consume(tokenRParen, "Expect ')' after for clauses."); !ok {
		return nil
	}

	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	if body == nil {
		return nil
	}

	if increment != nil {
		body = &BlockStmt{
			Statements: []Statement{body, &ExprStmt{Expr: increment}},
			position:   body.Pos(),
		}
	}
	if condition == nil {
		condition = &LiteralExpr{Value: true, position: pos}
	}
	var loop Statement = &WhileStmt{Condition: condition, Body: body, position: pos}
	if initializer != nil {
		loop = &BlockStmt{Statements: []Statement{initializer, loop}, position: pos}
	}
	return loop
}

func (p *parser) parseIfStatement() Statement {
	pos := p.previous().Pos
	if _, ok := p.consume(tokenLParen, "Expect '(' after 'if'."); !ok {
		return nil
	}
	condition := p.parseExpression()
	if condition == nil {
		return nil
	}
	if _, ok := p.consume(tokenRParen, "Expect ')' after if condition."); !ok {
		return nil
	}

	then := p.parseStatement()
	if then == nil {
		return nil
	}
	stmt := &IfStmt{Condition: condition, Then: then, position: pos}
	if p.match(tokenElse) {
		if stmt.Else = p.parseStatement(); stmt.Else == nil {
			return nil
		}
	}
	return stmt
}

func (p *parser) parsePrintStatement() Statement {
	keyword := p.previous()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	if _, ok := p.consume(tokenSemicolon, "Expect ';' after value."); !ok {
		return nil
	}
	return &PrintStmt{Keyword: keyword, Expr: value}
}

func (p *parser) parseReturnStatement() Statement {
	stmt := &ReturnStmt{Keyword: p.previous()}
	if !p.check(tokenSemicolon) {
		if stmt.Value = p.parseExpression(); stmt.Value == nil {
			return nil
		}
	}
	if _, ok := p.consume(tokenSemicolon, "Expect ';' after return value."); !ok {
		return nil
	}
	return stmt
}

func (p *parser) parseWhileStatement() Statement {
	pos := p.previous().Pos
	if _, ok := p.consume(tokenLParen, "Expect '(' after 'while'."); !ok {
		return nil
	}
	condition := p.parseExpression()
	if condition == nil {
		return nil
	}
	if _, ok := p.consume(tokenRParen, "Expect ')' after condition."); !ok {
		return nil
	}

	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	if body == nil {
		return nil
	}
	return &WhileStmt{Condition: condition, Body: body, position: pos}
}

func (p *parser) parseExpressionStatement() Statement {
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	if _, ok := p.consume(tokenSemicolon, "Expect ';' after expression."); !ok {
		return nil
	}
	return &ExprStmt{Expr: expr}
}
