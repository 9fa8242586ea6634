package lox

import (
	"fmt"
	"io"
)

// execution holds the state of a single Run: step accounting and the call
// stack used for traces and recursion limits.
type execution struct {
	source  string
	globals *Env
	locals  Locals
	out     io.Writer

	quota        int
	recursionCap int
	steps        int
	callStack    []callFrame
}

type callFrame struct {
	Function string
	Pos      Position
}

type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
	flowBreak
)

// flow is the outcome of executing a statement. Return and break unwind
// through it instead of through errors, so they can never surface as
// failures.
type flow struct {
	kind  flowKind
	value Value
}

var normal = flow{kind: flowNormal}

func (exec *execution) step(pos Position) error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return exec.errorAt(ErrorTypeStepQuota, Token{Pos: pos}, "step quota exceeded (%d)", exec.quota)
	}
	return nil
}

func (exec *execution) pushFrame(function string, tok Token) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.errorAt(ErrorTypeStackOverflow, tok, "Stack overflow (recursion limit %d).", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Pos: tok.Pos})
	return nil
}

func (exec *execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

func (exec *execution) execStatement(stmt Statement, env *Env) (flow, error) {
	if err := exec.step(stmt.Pos()); err != nil {
		return normal, err
	}

	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := exec.evalExpression(s.Expr, env)
		return normal, err
	case *PrintStmt:
		val, err := exec.evalExpression(s.Expr, env)
		if err != nil {
			return normal, err
		}
		if _, err := fmt.Fprintln(exec.out, val.String()); err != nil {
			return normal, exec.wrapError(err, s.Keyword)
		}
		return normal, nil
	case *VarStmt:
		if s.Initializer == nil {
			env.declare(s.Name.Lexeme)
			return normal, nil
		}
		val, err := exec.evalExpression(s.Initializer, env)
		if err != nil {
			return normal, err
		}
		env.Define(s.Name.Lexeme, val)
		return normal, nil
	case *BlockStmt:
		return exec.executeBlock(s.Statements, newEnv(env))
	case *IfStmt:
		cond, err := exec.evalExpression(s.Condition, env)
		if err != nil {
			return normal, err
		}
		if cond.Truthy() {
			return exec.execStatement(s.Then, env)
		}
		if s.Else != nil {
			return exec.execStatement(s.Else, env)
		}
		return normal, nil
	case *WhileStmt:
		return exec.execWhile(s, env)
	case *BreakStmt:
		return flow{kind: flowBreak}, nil
	case *ReturnStmt:
		val := NewNil()
		if s.Value != nil {
			var err error
			if val, err = exec.evalExpression(s.Value, env); err != nil {
				return normal, err
			}
		}
		return flow{kind: flowReturn, value: val}, nil
	case *FunctionStmt:
		fn := &Function{Name: s.Name.Lexeme, Decl: s.Function, Closure: env, locals: exec.locals}
		env.Define(s.Name.Lexeme, NewFunction(fn))
		return normal, nil
	case *ClassStmt:
		return normal, exec.execClass(s, env)
	default:
		return normal, exec.errorAt(ErrorTypeRuntime, Token{Pos: stmt.Pos()}, "unsupported statement %T", stmt)
	}
}

// executeBlock runs stmts in env and stops at the first return or break.
func (exec *execution) executeBlock(stmts []Statement, env *Env) (flow, error) {
	for _, stmt := range stmts {
		result, err := exec.execStatement(stmt, env)
		if err != nil || result.kind != flowNormal {
			return result, err
		}
	}
	return normal, nil
}

func (exec *execution) execWhile(stmt *WhileStmt, env *Env) (flow, error) {
	for {
		cond, err := exec.evalExpression(stmt.Condition, env)
		if err != nil {
			return normal, err
		}
		if !cond.Truthy() {
			return normal, nil
		}

		result, err := exec.execStatement(stmt.Body, env)
		if err != nil {
			return normal, err
		}
		switch result.kind {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return result, nil
		}
	}
}

func (exec *execution) execClass(stmt *ClassStmt, env *Env) error {
	var superclass *Class
	if stmt.Superclass != nil {
		val, err := exec.evalExpression(stmt.Superclass, env)
		if err != nil {
			return err
		}
		if superclass = val.Class(); superclass == nil {
			return exec.errorAt(ErrorTypeType, stmt.Superclass.Name, "Superclass must be a class.")
		}
	}

	env.Define(stmt.Name.Lexeme, NewNil())

	closure := env
	if superclass != nil {
		closure = newEnv(env)
		closure.Define("super", NewClass(superclass))
	}

	methods := make(map[string]*Function, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods[method.Name.Lexeme] = &Function{
			Name:          method.Name.Lexeme,
			Decl:          method.Function,
			Closure:       closure,
			IsInitializer: method.Name.Lexeme == "init",
			locals:        exec.locals,
		}
	}
	classMethods := make(map[string]*Function, len(stmt.ClassMethods))
	for _, method := range stmt.ClassMethods {
		classMethods[method.Name.Lexeme] = &Function{
			Name:    method.Name.Lexeme,
			Decl:    method.Function,
			Closure: closure,
			locals:  exec.locals,
		}
	}

	class := newClass(stmt.Name.Lexeme, superclass, methods, classMethods)
	env.Define(stmt.Name.Lexeme, NewClass(class))
	return nil
}
