package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/mgomes/golox/lox"
)

type scriptedReader struct {
	lines   []string
	prompts []string
	history []string
}

func (r *scriptedReader) Prompt(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

func runPromptLines(t *testing.T, lines ...string) (*scriptedReader, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	engine := lox.MustNewEngine(lox.Config{Stdout: &out})
	reader := &scriptedReader{lines: lines}
	promptLoop(reader, engine, engine.NewInterpreter(), &out, &errOut, defaultPrompt)
	return reader, out.String(), errOut.String()
}

func TestPromptLoopPersistsGlobalsAndEchoes(t *testing.T) {
	_, out, errOut := runPromptLines(t, "var a = 1;", "a + 1", "print a;")
	if errOut != "" {
		t.Fatalf("unexpected errors: %s", errOut)
	}
	if out != "2\n1\n\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPromptLoopContinuesOpenBraces(t *testing.T) {
	reader, out, _ := runPromptLines(t, "fun f() {", "  return 3;", "}", "f()")
	if out != "3\n\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if len(reader.history) != 2 || reader.history[0] != "fun f() {   return 3; }" {
		t.Fatalf("unexpected history %q", reader.history)
	}
	if reader.prompts[1] != continuationPrompt || reader.prompts[3] != defaultPrompt {
		t.Fatalf("unexpected prompts %q", reader.prompts)
	}
}

func TestPromptLoopReportsErrorsAndContinues(t *testing.T) {
	_, out, errOut := runPromptLines(t, "print nope;", "print ;", "print 1;")
	if !strings.Contains(errOut, "Undefined variable 'nope'.") {
		t.Fatalf("expected runtime error, got %q", errOut)
	}
	if !strings.Contains(errOut, "Expect expression.") {
		t.Fatalf("expected static error, got %q", errOut)
	}
	if out != "1\n\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNeedsMoreInput(t *testing.T) {
	cases := map[string]bool{
		"{":                   true,
		"fun f(":              true,
		"print \"abc":         true,
		"class A { m() {}":    true,
		"print 1;":            false,
		"}":                   false,
		`print "a{";`:         false,
		"// {":                false,
		"fun f() { return; }": false,
	}
	for source, want := range cases {
		if got := needsMoreInput(source); got != want {
			t.Fatalf("needsMoreInput(%q) = %v, want %v", source, got, want)
		}
	}
}

func TestCompleteLine(t *testing.T) {
	got := completeLine("print cl", []string{"clock", "count"})
	if strings.Join(got, "|") != "print class|print clock" {
		t.Fatalf("unexpected completions %q", got)
	}
	if got := completeLine("print ", nil); len(got) != 0 {
		t.Fatalf("expected no completions for an empty word, got %q", got)
	}

	got = completeLine("var x = déjà", []string{"déjàvu", "dormir"})
	if strings.Join(got, "|") != "var x = déjàvu" {
		t.Fatalf("unexpected completions for a non-ASCII word %q", got)
	}
}
