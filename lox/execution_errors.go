package lox

import (
	"errors"
	"fmt"
	"strings"
)

// Runtime error types reported in RuntimeError.Type.
const (
	ErrorTypeRuntime            = "RuntimeError"
	ErrorTypeType               = "TypeError"
	ErrorTypeArity              = "ArityError"
	ErrorTypeZeroDivision       = "ZeroDivisionError"
	ErrorTypeUndefinedVariable  = "UndefinedVariable"
	ErrorTypeUnassignedVariable = "UnassignedVariable"
	ErrorTypeUndefinedProperty  = "UndefinedProperty"
	ErrorTypeNotCallable        = "NotCallable"
	ErrorTypeStackOverflow      = "StackOverflow"
	ErrorTypeStepQuota          = "StepQuotaExceeded"
)

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError aborts the current run. Token is the token the failing
// operation was reported at.
type RuntimeError struct {
	Type      string
	Token     Token
	Message   string
	CodeFrame string
	Frames    []StackFrame
}

func (re *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(re.Message)
	if re.Token.Pos.Line > 0 {
		fmt.Fprintf(&b, "\n[line %d]", re.Token.Pos.Line)
	}
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Pos.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}

	return b.String()
}

// Line reports the source line the error was raised at.
func (re *RuntimeError) Line() int {
	return re.Token.Pos.Line
}

func (exec *execution) errorAt(kind string, tok Token, format string, args ...any) error {
	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	if len(exec.callStack) > 0 {
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: tok.Pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			frames = append(frames, StackFrame(exec.callStack[i]))
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: tok.Pos})
	}

	return &RuntimeError{
		Type:      kind,
		Token:     tok,
		Message:   fmt.Sprintf(format, args...),
		CodeFrame: formatCodeFrame(exec.source, tok.Pos),
		Frames:    frames,
	}
}

// lookupError converts an environment failure into a RuntimeError at name.
func (exec *execution) lookupError(err error, name Token) error {
	switch {
	case errors.Is(err, ErrUnassignedVariable):
		return exec.errorAt(ErrorTypeUnassignedVariable, name, "Variable '%s' has not been assigned a value.", name.Lexeme)
	case errors.Is(err, ErrUndefinedVariable):
		return exec.errorAt(ErrorTypeUndefinedVariable, name, "Undefined variable '%s'.", name.Lexeme)
	default:
		return exec.errorAt(ErrorTypeRuntime, name, "%s", err.Error())
	}
}

// wrapError keeps RuntimeErrors intact and converts anything else, such as
// a native function failure, into one reported at tok.
func (exec *execution) wrapError(err error, tok Token) error {
	if err == nil {
		return nil
	}
	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		return err
	}
	return exec.errorAt(ErrorTypeRuntime, tok, "%s", err.Error())
}
