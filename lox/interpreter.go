package lox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("lox")

const defaultRecursionLimit = 1024

// Config controls interpreter execution bounds and output.
type Config struct {
	// RecursionLimit caps nested calls; exceeding it is a StackOverflow
	// runtime error. Zero selects the default of 1024.
	RecursionLimit int
	// StepQuota caps executed statements and calls per run. Zero means
	// unlimited.
	StepQuota int
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout io.Writer
}

// Engine compiles Lox source and creates interpreters sharing its
// configuration and native functions.
type Engine struct {
	config  Config
	natives map[string]Value
}

// NewEngine constructs an Engine with defaults filled in and registers the
// built-in natives.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("recursion limit must be non-negative, got %d", cfg.RecursionLimit)
	}
	if cfg.StepQuota < 0 {
		return nil, fmt.Errorf("step quota must be non-negative, got %d", cfg.StepQuota)
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	engine := &Engine{
		config:  cfg,
		natives: make(map[string]Value),
	}
	engine.RegisterNative("clock", 0, nativeClock)
	return engine, nil
}

// MustNewEngine is NewEngine for configurations known to be valid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.config
}

// RegisterNative exposes fn as a global callable in every interpreter
// created afterwards. A negative arity disables argument count checks.
func (e *Engine) RegisterNative(name string, arity int, fn NativeFunc) {
	e.natives[name] = NewNative(name, arity, fn)
}

func nativeClock(args []Value) (Value, error) {
	return NewNumber(float64(time.Now().UnixNano()) / float64(time.Second)), nil
}

// Script is a scanned, parsed and resolved program ready to run.
type Script struct {
	source     string
	statements []Statement
	locals     Locals
}

func (s *Script) Source() string          { return s.source }
func (s *Script) Statements() []Statement { return s.statements }
func (s *Script) Locals() Locals          { return s.locals }

// EndsWithExpression reports whether the last statement is a bare
// expression, whose value Run returns.
func (s *Script) EndsWithExpression() bool {
	if len(s.statements) == 0 {
		return false
	}
	_, ok := s.statements[len(s.statements)-1].(*ExprStmt)
	return ok
}

// Compile scans, parses and resolves source. Any static error is returned
// as StaticErrors and no Script is produced.
func (e *Engine) Compile(source string) (*Script, error) {
	return e.compile(source, slices.Collect(maps.Keys(e.natives)))
}

// Compile is Engine.Compile against this session's globals, so a new entry
// may redeclare a global in terms of its current value.
func (in *Interpreter) Compile(source string) (*Script, error) {
	return in.engine.compile(source, in.globals.Names())
}

func (e *Engine) compile(source string, globals []string) (*Script, error) {
	start := time.Now()

	tokens, scanErr := Scan(source)
	stmts, parseErr := Parse(tokens)
	if err := combineStaticErrors(source, scanErr, parseErr); err != nil {
		log.Debugf("compile failed: %d static errors", len(err))
		return nil, err
	}

	locals, resolveErr := ResolveWithGlobals(stmts, globals)
	if err := combineStaticErrors(source, resolveErr); err != nil {
		log.Debugf("compile failed: %d resolution errors", len(err))
		return nil, err
	}

	log.Debugf("compiled %d statements, %d resolved locals in %s", len(stmts), len(locals), time.Since(start))
	return &Script{source: source, statements: stmts, locals: locals}, nil
}

func combineStaticErrors(source string, errs ...error) StaticErrors {
	var combined StaticErrors
	for _, err := range errs {
		var static StaticErrors
		if errors.As(err, &static) {
			combined = append(combined, static...)
		}
	}
	if len(combined) == 0 {
		return nil
	}
	return combined.withSource(source)
}

// Interpreter is an execution session. Globals persist across runs, so a
// REPL can feed it one line at a time. Resolution maps stay with the
// script (and the functions it declares), never with the session.
type Interpreter struct {
	engine  *Engine
	globals *Env
	out     io.Writer
}

// NewInterpreter returns a session with fresh globals holding the engine's
// natives.
func (e *Engine) NewInterpreter() *Interpreter {
	globals := newEnv(nil)
	for name, native := range e.natives {
		globals.Define(name, native)
	}
	return &Interpreter{
		engine:  e,
		globals: globals,
		out:     e.config.Stdout,
	}
}

// SetOutput redirects print output for subsequent runs.
func (in *Interpreter) SetOutput(w io.Writer) {
	in.out = w
}

// Globals exposes the global frame, mostly for REPL inspection.
func (in *Interpreter) Globals() *Env {
	return in.globals
}

// Run executes script. When the last statement is an expression its value
// is returned; otherwise the result is nil.
func (in *Interpreter) Run(ctx context.Context, script *Script) (Value, error) {
	if script == nil {
		return NewNil(), errors.New("lox: nil script")
	}
	return in.run(ctx, script.statements, script.locals, script.source)
}

// Interpret executes statements that were already parsed and resolved.
func (in *Interpreter) Interpret(ctx context.Context, stmts []Statement, locals Locals) error {
	_, err := in.run(ctx, stmts, locals, "")
	return err
}

func (in *Interpreter) run(ctx context.Context, stmts []Statement, locals Locals, source string) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if locals == nil {
		locals = make(Locals)
	}

	exec := &execution{
		source:       source,
		globals:      in.globals,
		locals:       locals,
		out:          in.out,
		quota:        in.engine.config.StepQuota,
		recursionCap: in.engine.config.RecursionLimit,
	}

	start := time.Now()
	result := NewNil()
	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return NewNil(), err
		}

		var err error
		if exprStmt, ok := stmt.(*ExprStmt); ok {
			if err = exec.step(stmt.Pos()); err == nil {
				result, err = exec.evalExpression(exprStmt.Expr, in.globals)
			}
		} else {
			result = NewNil()
			_, err = exec.execStatement(stmt, in.globals)
		}
		if err != nil {
			log.Debugf("runtime error after %d steps: %s", exec.steps, err)
			return NewNil(), err
		}
	}

	log.Debugf("ran %d statements in %d steps (%s)", len(stmts), exec.steps, time.Since(start))
	return result, nil
}
