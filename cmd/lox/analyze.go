package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/mgomes/golox/lox"
)

const scriptScope = "<script>"

type lintWarning struct {
	Function string
	Pos      lox.Position
	Message  string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var opts commonOptions
	opts.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return fmt.Errorf("%w: lox analyze: script path required", errUsage)
	}
	if _, err := opts.setup(); err != nil {
		return err
	}

	scriptPath, source, err := readScript(remaining[0])
	if err != nil {
		return err
	}

	engine := lox.MustNewEngine(lox.Config{})
	script, err := engine.Compile(source)
	if err != nil {
		return err
	}

	warnings := analyzeStatements(script.Statements())
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s (%s)\n", scriptPath, line, column, warning.Message, warning.Function)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// analyzeStatements reports statements that can never run because an
// earlier statement in the same block always returns or breaks.
func analyzeStatements(stmts []lox.Statement) []lintWarning {
	warnings := make([]lintWarning, 0)
	lintStatements(scriptScope, stmts, &warnings)

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Function < warnings[j].Function
	})

	return warnings
}

func lintStatements(function string, statements []lox.Statement, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Function: function,
				Pos:      stmt.Pos(),
				Message:  "unreachable statement",
			})
			lintNested(function, stmt, warnings)
			continue
		}
		if statementTerminates(function, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(function string, stmt lox.Statement, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *lox.ReturnStmt, *lox.BreakStmt:
		return true
	case *lox.BlockStmt:
		return lintStatements(function, typed.Statements, warnings)
	case *lox.IfStmt:
		thenTerminated := statementTerminates(function, typed.Then, warnings)
		if typed.Else == nil {
			return false
		}
		elseTerminated := statementTerminates(function, typed.Else, warnings)
		return thenTerminated && elseTerminated
	default:
		lintNested(function, stmt, warnings)
		return false
	}
}

// lintNested descends into bodies that start a new reachability scope:
// loop bodies, functions and class methods.
func lintNested(function string, stmt lox.Statement, warnings *[]lintWarning) {
	switch typed := stmt.(type) {
	case *lox.WhileStmt:
		statementTerminates(function, typed.Body, warnings)
	case *lox.FunctionStmt:
		lintStatements(typed.Name.Lexeme, typed.Function.Body, warnings)
	case *lox.VarStmt:
		if fn, ok := typed.Initializer.(*lox.FunctionExpr); ok {
			lintStatements(typed.Name.Lexeme, fn.Body, warnings)
		}
	case *lox.ClassStmt:
		for _, method := range typed.Methods {
			lintStatements(typed.Name.Lexeme+"."+method.Name.Lexeme, method.Function.Body, warnings)
		}
		for _, method := range typed.ClassMethods {
			lintStatements(typed.Name.Lexeme+"."+method.Name.Lexeme, method.Function.Body, warnings)
		}
	case *lox.BlockStmt:
		lintStatements(function, typed.Statements, warnings)
	case *lox.IfStmt:
		statementTerminates(function, typed.Then, warnings)
		if typed.Else != nil {
			statementTerminates(function, typed.Else, warnings)
		}
	}
}
