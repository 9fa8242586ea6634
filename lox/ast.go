package lox

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

// Expression nodes are always handled through pointers; the resolver keys
// scope distances on node identity.
type Expression interface {
	Node
	exprNode()
}

type LiteralExpr struct {
	Value    any // nil, bool, float64 or string
	position Position
}

func (e *LiteralExpr) exprNode()     {}
func (e *LiteralExpr) Pos() Position { return e.position }

type GroupingExpr struct {
	Inner    Expression
	position Position
}

func (e *GroupingExpr) exprNode()     {}
func (e *GroupingExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator Token
	Right    Expression
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.Operator.Pos }

type BinaryExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.Operator.Pos }

// LogicalExpr is a short-circuiting `and` / `or`.
type LogicalExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (e *LogicalExpr) exprNode()     {}
func (e *LogicalExpr) Pos() Position { return e.Operator.Pos }

type VariableExpr struct {
	Name Token
}

func (e *VariableExpr) exprNode()     {}
func (e *VariableExpr) Pos() Position { return e.Name.Pos }

type AssignExpr struct {
	Name  Token
	Value Expression
}

func (e *AssignExpr) exprNode()     {}
func (e *AssignExpr) Pos() Position { return e.Name.Pos }

type CallExpr struct {
	Callee Expression
	Paren  Token
	Args   []Expression
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.Paren.Pos }

type GetExpr struct {
	Object Expression
	Name   Token
}

func (e *GetExpr) exprNode()     {}
func (e *GetExpr) Pos() Position { return e.Name.Pos }

type SetExpr struct {
	Object Expression
	Name   Token
	Value  Expression
}

func (e *SetExpr) exprNode()     {}
func (e *SetExpr) Pos() Position { return e.Name.Pos }

type ThisExpr struct {
	Keyword Token
}

func (e *ThisExpr) exprNode()     {}
func (e *ThisExpr) Pos() Position { return e.Keyword.Pos }

type SuperExpr struct {
	Keyword Token
	Method  Token
}

func (e *SuperExpr) exprNode()     {}
func (e *SuperExpr) Pos() Position { return e.Keyword.Pos }

// FunctionExpr is the shared body of named functions, methods and lambdas.
// A getter is declared without a parameter list; Params is nil and the
// function is invoked on property read.
type FunctionExpr struct {
	Params   []Token
	Body     []Statement
	Getter   bool
	position Position
}

func (e *FunctionExpr) exprNode()     {}
func (e *FunctionExpr) Pos() Position { return e.position }

// Arity reports the declared parameter count; getters report -1.
func (e *FunctionExpr) Arity() int {
	if e.Getter {
		return -1
	}
	return len(e.Params)
}
