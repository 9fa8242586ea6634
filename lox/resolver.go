package lox

// Locals maps variable, assignment, this and super expressions to the
// number of scopes between the reference and its declaration. Expressions
// missing from the map refer to globals.
type Locals map[Expression]int

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
	functionMethod
	functionInitializer
)

type classKind int

const (
	classNone classKind = iota
	classPlain
	classSubclass
)

type resolver struct {
	// scopes holds local scopes only, innermost last. The bool reports
	// whether the binding's initializer has finished.
	scopes []map[string]bool
	// globals tracks top-level names: those already bound before this
	// pass plus the declarations seen so far. A global initializer that
	// reads a name with no earlier binding is caught too. Globals are
	// never recorded in locals.
	globals map[string]bool

	locals Locals

	currentFunction functionKind
	currentClass    classKind

	errors StaticErrors
}

// Resolve computes scope distances for stmts. All resolution errors are
// collected; a non-nil error means stmts must not be interpreted.
func Resolve(stmts []Statement) (Locals, error) {
	return ResolveWithGlobals(stmts, nil)
}

// ResolveWithGlobals is Resolve for code that runs against globals that
// already exist, such as a REPL session. A top-level `var a = a + 1;` reads
// the existing binding instead of being rejected.
func ResolveWithGlobals(stmts []Statement, globals []string) (Locals, error) {
	r := &resolver{
		globals: make(map[string]bool, len(globals)),
		locals:  make(Locals),
	}
	for _, name := range globals {
		r.globals[name] = true
	}
	r.resolveStatements(stmts)
	if len(r.errors) > 0 {
		return r.locals, r.errors
	}
	return r.locals, nil
}

func (r *resolver) errorAt(tok Token, msg string) {
	r.errors = append(r.errors, staticErrorAt(StageResolve, tok, msg))
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) innermost() map[string]bool {
	if len(r.scopes) == 0 {
		return r.globals
	}
	return r.scopes[len(r.scopes)-1]
}

// declare marks name as not yet initialized. A global that is already
// bound stays readable, since its initializer sees the previous value.
func (r *resolver) declare(name Token) {
	scope := r.innermost()
	if len(r.scopes) == 0 && scope[name.Lexeme] {
		return
	}
	scope[name.Lexeme] = false
}

func (r *resolver) define(name Token) {
	r.innermost()[name.Lexeme] = true
}

func (r *resolver) resolveLocal(expr Expression, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) resolveStatements(stmts []Statement) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt)
	}
}

func (r *resolver) resolveStatement(stmt Statement) {
	switch s := stmt.(type) {
	case *BlockStmt:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpression(s.Initializer)
		}
		r.define(s.Name)
	case *FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Function, functionPlain)
	case *ClassStmt:
		r.resolveClass(s)
	case *ExprStmt:
		r.resolveExpression(s.Expr)
	case *PrintStmt:
		r.resolveExpression(s.Expr)
	case *IfStmt:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *WhileStmt:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)
	case *BreakStmt:
	case *ReturnStmt:
		if r.currentFunction == functionNone {
			r.errorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			r.resolveExpression(s.Value)
		}
	}
}

func (r *resolver) resolveClass(stmt *ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = classPlain
	defer func() { r.currentClass = enclosingClass }()

	r.declare(stmt.Name)
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Superclass.Name.Lexeme == stmt.Name.Lexeme {
			r.errorAt(stmt.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpression(stmt.Superclass)

		r.beginScope()
		r.innermost()["super"] = true
		defer r.endScope()
	}

	r.beginScope()
	r.innermost()["this"] = true
	for _, method := range stmt.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		r.resolveFunction(method.Function, kind)
	}
	for _, method := range stmt.ClassMethods {
		r.resolveFunction(method.Function, functionMethod)
	}
	r.endScope()
}

func (r *resolver) resolveFunction(fn *FunctionExpr, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *resolver) resolveExpression(expr Expression) {
	switch e := expr.(type) {
	case *VariableExpr:
		if ready, ok := r.innermost()[e.Name.Lexeme]; ok && !ready {
			r.errorAt(e.Name, "Can't read local variable in its own initializer.")
		}
		r.resolveLocal(e, e.Name.Lexeme)
	case *AssignExpr:
		r.resolveExpression(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)
	case *ThisExpr:
		if r.currentClass == classNone {
			r.errorAt(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, "this")
	case *SuperExpr:
		switch r.currentClass {
		case classNone:
			r.errorAt(e.Keyword, "Can't use 'super' outside of a class.")
			return
		case classPlain:
			r.errorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(e, "super")
	case *FunctionExpr:
		r.resolveFunction(e, functionPlain)
	case *BinaryExpr:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *LogicalExpr:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *UnaryExpr:
		r.resolveExpression(e.Right)
	case *GroupingExpr:
		r.resolveExpression(e.Inner)
	case *CallExpr:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpression(arg)
		}
	case *GetExpr:
		r.resolveExpression(e.Object)
	case *SetExpr:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Object)
	case *LiteralExpr:
	}
}
