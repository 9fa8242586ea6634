package lox

import (
	"strconv"
	"strings"
)

// PrintTree renders stmts as parenthesized prefix expressions, one
// top-level statement per line. It is a debugging aid and is not meant to
// be parsed back.
func PrintTree(stmts []Statement) string {
	var b strings.Builder
	for _, stmt := range stmts {
		printStatement(&b, stmt)
		b.WriteByte('\n')
	}
	return b.String()
}

// PrintExpression renders a single expression tree.
func PrintExpression(expr Expression) string {
	var b strings.Builder
	printExpression(&b, expr)
	return b.String()
}

func parenthesize(b *strings.Builder, name string, parts ...func()) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, part := range parts {
		b.WriteByte(' ')
		part()
	}
	b.WriteByte(')')
}

func exprPart(b *strings.Builder, expr Expression) func() {
	return func() { printExpression(b, expr) }
}

func stmtPart(b *strings.Builder, stmt Statement) func() {
	return func() { printStatement(b, stmt) }
}

func textPart(b *strings.Builder, text string) func() {
	return func() { b.WriteString(text) }
}

func printStatement(b *strings.Builder, stmt Statement) {
	switch s := stmt.(type) {
	case *ExprStmt:
		parenthesize(b, ";", exprPart(b, s.Expr))
	case *PrintStmt:
		parenthesize(b, "print", exprPart(b, s.Expr))
	case *VarStmt:
		if s.Initializer == nil {
			parenthesize(b, "var", textPart(b, s.Name.Lexeme))
			return
		}
		parenthesize(b, "var", textPart(b, s.Name.Lexeme), exprPart(b, s.Initializer))
	case *BlockStmt:
		parenthesize(b, "block", statementParts(b, s.Statements)...)
	case *IfStmt:
		parts := []func(){exprPart(b, s.Condition), stmtPart(b, s.Then)}
		if s.Else != nil {
			parts = append(parts, stmtPart(b, s.Else))
		}
		parenthesize(b, "if", parts...)
	case *WhileStmt:
		parenthesize(b, "while", exprPart(b, s.Condition), stmtPart(b, s.Body))
	case *BreakStmt:
		b.WriteString("(break)")
	case *ReturnStmt:
		if s.Value == nil {
			b.WriteString("(return)")
			return
		}
		parenthesize(b, "return", exprPart(b, s.Value))
	case *FunctionStmt:
		printFunction(b, "fun "+s.Name.Lexeme, s.Function)
	case *ClassStmt:
		name := "class " + s.Name.Lexeme
		if s.Superclass != nil {
			name += " < " + s.Superclass.Name.Lexeme
		}
		var parts []func()
		for _, method := range s.Methods {
			parts = append(parts, functionPart(b, "fun "+method.Name.Lexeme, method.Function))
		}
		for _, method := range s.ClassMethods {
			parts = append(parts, functionPart(b, "class fun "+method.Name.Lexeme, method.Function))
		}
		parenthesize(b, name, parts...)
	}
}

func statementParts(b *strings.Builder, stmts []Statement) []func() {
	parts := make([]func(), len(stmts))
	for i, stmt := range stmts {
		parts[i] = stmtPart(b, stmt)
	}
	return parts
}

func functionPart(b *strings.Builder, name string, fn *FunctionExpr) func() {
	return func() { printFunction(b, name, fn) }
}

func printFunction(b *strings.Builder, name string, fn *FunctionExpr) {
	params := "getter"
	if !fn.Getter {
		names := make([]string, len(fn.Params))
		for i, param := range fn.Params {
			names[i] = param.Lexeme
		}
		params = "(" + strings.Join(names, " ") + ")"
	}
	parts := append([]func(){textPart(b, params)}, statementParts(b, fn.Body)...)
	parenthesize(b, name, parts...)
}

func printExpression(b *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case *LiteralExpr:
		switch v := e.Value.(type) {
		case nil:
			b.WriteString("nil")
		case string:
			b.WriteString(strconv.Quote(v))
		default:
			b.WriteString(literalValue(v).String())
		}
	case *GroupingExpr:
		parenthesize(b, "group", exprPart(b, e.Inner))
	case *UnaryExpr:
		parenthesize(b, e.Operator.Lexeme, exprPart(b, e.Right))
	case *BinaryExpr:
		parenthesize(b, e.Operator.Lexeme, exprPart(b, e.Left), exprPart(b, e.Right))
	case *LogicalExpr:
		parenthesize(b, e.Operator.Lexeme, exprPart(b, e.Left), exprPart(b, e.Right))
	case *VariableExpr:
		b.WriteString(e.Name.Lexeme)
	case *AssignExpr:
		parenthesize(b, "=", textPart(b, e.Name.Lexeme), exprPart(b, e.Value))
	case *CallExpr:
		parts := []func(){exprPart(b, e.Callee)}
		for _, arg := range e.Args {
			parts = append(parts, exprPart(b, arg))
		}
		parenthesize(b, "call", parts...)
	case *GetExpr:
		parenthesize(b, ".", exprPart(b, e.Object), textPart(b, e.Name.Lexeme))
	case *SetExpr:
		parenthesize(b, "=", func() {
			parenthesize(b, ".", exprPart(b, e.Object), textPart(b, e.Name.Lexeme))
		}, exprPart(b, e.Value))
	case *ThisExpr:
		b.WriteString("this")
	case *SuperExpr:
		parenthesize(b, "super", textPart(b, e.Method.Lexeme))
	case *FunctionExpr:
		printFunction(b, "fun", e)
	}
}
