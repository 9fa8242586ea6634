package lox

type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.Expr.Pos() }

type PrintStmt struct {
	Keyword Token
	Expr    Expression
}

func (s *PrintStmt) stmtNode()     {}
func (s *PrintStmt) Pos() Position { return s.Keyword.Pos }

// VarStmt declares a variable. A nil Initializer leaves the binding
// unassigned rather than nil.
type VarStmt struct {
	Name        Token
	Initializer Expression
}

func (s *VarStmt) stmtNode()     {}
func (s *VarStmt) Pos() Position { return s.Name.Pos }

type BlockStmt struct {
	Statements []Statement
	position   Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.position }

type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement
	position  Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

// WhileStmt is the only loop form; `for` loops are desugared into it.
type WhileStmt struct {
	Condition Expression
	Body      Statement
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

type BreakStmt struct {
	Keyword Token
}

func (s *BreakStmt) stmtNode()     {}
func (s *BreakStmt) Pos() Position { return s.Keyword.Pos }

type ReturnStmt struct {
	Keyword Token
	Value   Expression
}

func (s *ReturnStmt) stmtNode()     {}
func (s *ReturnStmt) Pos() Position { return s.Keyword.Pos }

type FunctionStmt struct {
	Name     Token
	Function *FunctionExpr
}

func (s *FunctionStmt) stmtNode()     {}
func (s *FunctionStmt) Pos() Position { return s.Name.Pos }

type ClassStmt struct {
	Name         Token
	Superclass   *VariableExpr
	Methods      []*FunctionStmt
	ClassMethods []*FunctionStmt
}

func (s *ClassStmt) stmtNode()     {}
func (s *ClassStmt) Pos() Position { return s.Name.Pos }
