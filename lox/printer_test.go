package lox

import "testing"

func TestPrintTreeStatements(t *testing.T) {
	stmts := mustParse(t, `var a = 1 + 2.5;
var x;
print "hi";
if (a) print 1; else { b = 2; }
while (true) break;
o.p = (1);`)

	want := `(var a (+ 1 2.5))
(var x)
(print "hi")
(if a (print 1) (block (; (= b 2))))
(while true (break))
(; (= (. o p) (group 1)))
`
	if got := PrintTree(stmts); got != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintTreeFunctionsAndClasses(t *testing.T) {
	stmts := mustParse(t, `fun add(a, b) { return a + b; }
var f = fun (x) { return; };
class B < A {
  m(x) { return super.m; }
  area { return 1; }
  class make() { return B(); }
}`)

	want := `(fun add (a b) (return (+ a b)))
(var f (fun (x) (return)))
(class B < A (fun m (x) (return (super m))) (fun area getter (return 1)) (class fun make () (return (call B))))
`
	if got := PrintTree(stmts); got != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintExpressionQuotesStrings(t *testing.T) {
	stmts := mustParse(t, `"a\"b" + nil;`)
	got := PrintExpression(stmts[0].(*ExprStmt).Expr)
	if want := `(+ "a\"b" nil)`; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
