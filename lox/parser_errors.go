package lox

import (
	"fmt"
	"strings"
)

// Stage names the pass that reported a StaticError.
type Stage string

const (
	StageScan    Stage = "scan"
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
)

// StaticError is a scan, parse or resolve error. Static errors are collected
// rather than returned one at a time, and any of them prevents execution.
type StaticError struct {
	Stage   Stage
	Pos     Position
	Lexeme  string
	AtEnd   bool
	Message string
	source  string
}

func (e *StaticError) Error() string {
	var b strings.Builder
	switch {
	case e.AtEnd:
		fmt.Fprintf(&b, "[line %d] Error at end: %s", e.Pos.Line, e.Message)
	case e.Lexeme != "":
		fmt.Fprintf(&b, "[line %d] Error at '%s': %s", e.Pos.Line, e.Lexeme, e.Message)
	default:
		fmt.Fprintf(&b, "[line %d] Error: %s", e.Pos.Line, e.Message)
	}
	if frame := formatCodeFrame(e.source, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// StaticErrors is the error returned by Scan, Parse and Resolve.
type StaticErrors []*StaticError

func (errs StaticErrors) Error() string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n\n")
}

// withSource attaches source text so each error renders a code frame.
func (errs StaticErrors) withSource(source string) StaticErrors {
	for _, err := range errs {
		err.source = source
	}
	return errs
}

func staticErrorAt(stage Stage, tok Token, msg string) *StaticError {
	err := &StaticError{Stage: stage, Pos: tok.Pos, Lexeme: tok.Lexeme, Message: msg}
	if tok.Type == tokenEOF {
		err.AtEnd = true
		err.Lexeme = ""
	}
	return err
}

func (p *parser) errorAt(tok Token, msg string) {
	p.errors = append(p.errors, staticErrorAt(StageParse, tok, msg))
}
