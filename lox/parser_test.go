package lox

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func parseSource(t *testing.T, source string) ([]Statement, StaticErrors) {
	t.Helper()
	tokens, err := Scan(source)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	stmts, err := Parse(tokens)
	if err == nil {
		return stmts, nil
	}
	var static StaticErrors
	if !errors.As(err, &static) {
		t.Fatalf("expected StaticErrors, got %T", err)
	}
	return stmts, static
}

func mustParse(t *testing.T, source string) []Statement {
	t.Helper()
	stmts, errs := parseSource(t, source)
	if errs != nil {
		t.Fatalf("parse failed: %v", errs)
	}
	return stmts
}

func TestParsePrecedence(t *testing.T) {
	stmts := mustParse(t, "print -1 + 2 * 3 == 7 or !false and nil;")
	got := PrintExpression(stmts[0].(*PrintStmt).Expr)
	want := "(or (== (+ (- 1) (* 2 3)) 7) (and (! false) nil))"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	stmts := mustParse(t, "8 - 4 - 2; 8 / 4 / 2;")
	if got := PrintExpression(stmts[0].(*ExprStmt).Expr); got != "(- (- 8 4) 2)" {
		t.Fatalf("unexpected subtraction tree %s", got)
	}
	if got := PrintExpression(stmts[1].(*ExprStmt).Expr); got != "(/ (/ 8 4) 2)" {
		t.Fatalf("unexpected division tree %s", got)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	stmts := mustParse(t, "a = b = 1; obj.field = 2;")
	assign, ok := stmts[0].(*ExprStmt).Expr.(*AssignExpr)
	if !ok || assign.Name.Lexeme != "a" {
		t.Fatalf("expected assignment to a, got %#v", stmts[0].(*ExprStmt).Expr)
	}
	if inner, ok := assign.Value.(*AssignExpr); !ok || inner.Name.Lexeme != "b" {
		t.Fatalf("expected nested assignment to b, got %#v", assign.Value)
	}
	set, ok := stmts[1].(*ExprStmt).Expr.(*SetExpr)
	if !ok || set.Name.Lexeme != "field" {
		t.Fatalf("expected property set, got %#v", stmts[1].(*ExprStmt).Expr)
	}
}

func TestParseInvalidAssignmentTargetContinues(t *testing.T) {
	stmts, errs := parseSource(t, "a + b = c; print 3;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Lexeme != "=" || errs[0].Message != "Invalid assignment target." {
		t.Fatalf("unexpected error %#v", errs[0])
	}
	if len(stmts) != 2 {
		t.Fatalf("expected parsing to continue past the bad target, got %d statements", len(stmts))
	}
}

func TestParseCallChains(t *testing.T) {
	stmts := mustParse(t, "a.b.c(1)(2);")
	got := PrintExpression(stmts[0].(*ExprStmt).Expr)
	want := "(call (call (. (. a b) c) 1) 2)"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseArgumentLimit(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = "1"
	}
	stmts, errs := parseSource(t, fmt.Sprintf("f(%s);", strings.Join(args, ", ")))
	if len(errs) != 1 || errs[0].Message != "Can't have more than 255 arguments." {
		t.Fatalf("expected argument limit error, got %v", errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected the call to still parse, got %d statements", len(stmts))
	}
	if call := stmts[0].(*ExprStmt).Expr.(*CallExpr); len(call.Args) != 256 {
		t.Fatalf("expected 256 arguments, got %d", len(call.Args))
	}
}

func TestParseParameterLimit(t *testing.T) {
	_, errs := parseSource(t, "fun f(a, b, c, d, e, f, g, h, i) {}")
	if len(errs) != 1 || errs[0].Message != "Can't have more than 8 parameters." {
		t.Fatalf("expected parameter limit error, got %v", errs)
	}
	if _, errs := parseSource(t, "fun f(a, b, c, d, e, f, g, h) {}"); errs != nil {
		t.Fatalf("eight parameters should be accepted: %v", errs)
	}
}

func TestParseRecoversAndReportsMultipleErrors(t *testing.T) {
	stmts, errs := parseSource(t, "var = 1;\nprint ;\nvar x = 2;")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Message != "Expect variable name." || errs[0].Pos.Line != 1 {
		t.Fatalf("unexpected first error %#v", errs[0])
	}
	if errs[1].Message != "Expect expression." || errs[1].Pos.Line != 2 {
		t.Fatalf("unexpected second error %#v", errs[1])
	}
	if len(stmts) != 1 {
		t.Fatalf("expected the valid declaration to survive, got %d statements", len(stmts))
	}
	if v, ok := stmts[0].(*VarStmt); !ok || v.Name.Lexeme != "x" {
		t.Fatalf("expected var x, got %#v", stmts[0])
	}
}

func TestParseErrorAtEnd(t *testing.T) {
	_, errs := parseSource(t, "print 1")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.HasPrefix(errs[0].Error(), "[line 1] Error at end: Expect ';' after value.") {
		t.Fatalf("unexpected message %q", errs[0].Error())
	}
}

func TestParseMissingLeftOperand(t *testing.T) {
	_, errs := parseSource(t, "* 3;")
	if len(errs) != 1 || errs[0].Message != "Expect left-hand operand." {
		t.Fatalf("expected missing operand error, got %v", errs)
	}
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	block, ok := stmts[0].(*BlockStmt)
	if !ok || len(block.Statements) != 2 {
		t.Fatalf("expected initializer block, got %#v", stmts[0])
	}
	if _, ok := block.Statements[0].(*VarStmt); !ok {
		t.Fatalf("expected var initializer, got %T", block.Statements[0])
	}
	loop, ok := block.Statements[1].(*WhileStmt)
	if !ok {
		t.Fatalf("expected while loop, got %T", block.Statements[1])
	}
	body, ok := loop.Body.(*BlockStmt)
	if !ok || len(body.Statements) != 2 {
		t.Fatalf("expected body with increment, got %#v", loop.Body)
	}
	if _, ok := body.Statements[1].(*ExprStmt); !ok {
		t.Fatalf("expected increment expression, got %T", body.Statements[1])
	}

	stmts = mustParse(t, "for (;;) {}")
	loop, ok = stmts[0].(*WhileStmt)
	if !ok {
		t.Fatalf("expected bare while loop, got %T", stmts[0])
	}
	if lit, ok := loop.Condition.(*LiteralExpr); !ok || lit.Value != true {
		t.Fatalf("expected literal true condition, got %#v", loop.Condition)
	}
}

func TestParseBreakOutsideLoop(t *testing.T) {
	cases := []string{
		"break;",
		"if (true) break;",
		"while (true) { fun f() { break; } }",
	}
	for _, source := range cases {
		_, errs := parseSource(t, source)
		if len(errs) != 1 || errs[0].Message != "Must be inside a loop to use 'break'." {
			t.Fatalf("%q: expected break error, got %v", source, errs)
		}
	}

	mustParse(t, "while (true) { if (true) break; }")
	mustParse(t, "for (;;) { { break; } }")
}

func TestParseFunctionDeclarationVersusExpression(t *testing.T) {
	stmts := mustParse(t, "fun named(a) { return a; }\nfun (b) { return b; };\nvar f = fun { return 1; };")
	if fn, ok := stmts[0].(*FunctionStmt); !ok || fn.Name.Lexeme != "named" || len(fn.Function.Params) != 1 {
		t.Fatalf("expected named function, got %#v", stmts[0])
	}
	if _, ok := stmts[1].(*ExprStmt).Expr.(*FunctionExpr); !ok {
		t.Fatalf("expected lambda expression statement, got %#v", stmts[1])
	}
	lambda := stmts[2].(*VarStmt).Initializer.(*FunctionExpr)
	if !lambda.Getter || lambda.Params != nil || lambda.Arity() != -1 {
		t.Fatalf("expected parameterless lambda to be a getter, got %#v", lambda)
	}
}

func TestParseClassDeclaration(t *testing.T) {
	stmts := mustParse(t, `class B < A {
  init(x) { this.x = x; }
  area { return 1; }
  class create() { return B(1); }
}`)
	class, ok := stmts[0].(*ClassStmt)
	if !ok {
		t.Fatalf("expected class, got %T", stmts[0])
	}
	if class.Name.Lexeme != "B" || class.Superclass == nil || class.Superclass.Name.Lexeme != "A" {
		t.Fatalf("unexpected class header %#v", class)
	}
	if len(class.Methods) != 2 || len(class.ClassMethods) != 1 {
		t.Fatalf("expected 2 methods and 1 class method, got %d and %d", len(class.Methods), len(class.ClassMethods))
	}
	if !class.Methods[1].Function.Getter {
		t.Fatalf("expected area to be a getter")
	}
	if class.ClassMethods[0].Name.Lexeme != "create" {
		t.Fatalf("unexpected class method %s", class.ClassMethods[0].Name.Lexeme)
	}
}

func TestParseSuperRequiresMethodName(t *testing.T) {
	_, errs := parseSource(t, "class B < A { m() { super; } }")
	if len(errs) == 0 || errs[0].Message != "Expect '.' after 'super'." {
		t.Fatalf("expected super error, got %v", errs)
	}
}

func TestParseAppendsMissingEOF(t *testing.T) {
	tokens := []Token{
		{Type: tokenPrint, Lexeme: "print", Pos: Position{Line: 1, Column: 1}},
		{Type: tokenNumber, Lexeme: "1", Literal: 1.0, Pos: Position{Line: 1, Column: 7}},
		{Type: tokenSemicolon, Lexeme: ";", Pos: Position{Line: 1, Column: 8}},
	}
	stmts, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
}
