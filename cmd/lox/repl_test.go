package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgomes/golox/lox"
)

func newTestREPLModel() replModel {
	return newREPLModel(lox.MustNewEngine(lox.Config{}), defaultPrompt)
}

func TestUpdateQuitCommandReturnsQuit(t *testing.T) {
	m := newTestREPLModel()
	m.textInput.SetValue(":quit")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if !rm.quitting {
		t.Fatalf("quitting flag not set")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after quit command")
	}
	if cmd == nil {
		t.Fatalf("expected tea.Quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", msg)
		}
	}
}

func TestUpdateNonQuitCommandDoesNotReturnCmd(t *testing.T) {
	m := newTestREPLModel()
	m.textInput.SetValue(":help")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm, ok := model.(replModel)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}

	if cmd != nil {
		t.Fatalf("expected no command for non-quit input")
	}
	if rm.quitting {
		t.Fatalf("quitting should remain false")
	}
	if !rm.showHelp {
		t.Fatalf("help toggle should be enabled")
	}
	if rm.textInput.Value() != "" {
		t.Fatalf("input not cleared after command")
	}
}

func TestUpdateEnterRecordsExpressionValue(t *testing.T) {
	m := newTestREPLModel()
	m.textInput.SetValue("1 + 2")

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)

	if len(rm.history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(rm.history))
	}
	entry := rm.history[0]
	if entry.isErr || entry.output != "3" || entry.input != "1 + 2" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if len(rm.cmdHistory) != 1 || rm.cmdHistory[0] != "1 + 2" {
		t.Fatalf("expected command history to record the input, got %v", rm.cmdHistory)
	}
}

func TestEvaluateKeepsGlobalsAcrossEntries(t *testing.T) {
	m := newTestREPLModel()

	output, isErr := m.evaluate("var score = 42;")
	if isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}
	if output != "" {
		t.Fatalf("declarations should not echo, got %q", output)
	}

	output, isErr = m.evaluate("score")
	if isErr || output != "42" {
		t.Fatalf("expected 42, got %q (err %v)", output, isErr)
	}
}

func TestEvaluateRedeclaresGlobalFromPreviousValue(t *testing.T) {
	m := newTestREPLModel()

	for _, entry := range []string{"var n = 1;", "var n = n + 1;"} {
		if output, isErr := m.evaluate(entry); isErr {
			t.Fatalf("%q: unexpected eval error: %s", entry, output)
		}
	}
	output, isErr := m.evaluate("n")
	if isErr || output != "2" {
		t.Fatalf("expected 2, got %q (err %v)", output, isErr)
	}
}

func TestEvaluateCapturesPrintOutput(t *testing.T) {
	m := newTestREPLModel()

	output, isErr := m.evaluate("print 1; print 2;")
	if isErr || output != "1\n2" {
		t.Fatalf("unexpected output %q (err %v)", output, isErr)
	}

	output, _ = m.evaluate(`print "again";`)
	if output != "again" {
		t.Fatalf("print buffer not reset between entries, got %q", output)
	}
}

func TestEvaluateReportsRuntimeErrors(t *testing.T) {
	m := newTestREPLModel()

	output, isErr := m.evaluate("print 1; print nope;")
	if !isErr {
		t.Fatalf("expected error")
	}
	if !strings.HasPrefix(output, "1\n") || !strings.Contains(output, "Undefined variable 'nope'.") {
		t.Fatalf("unexpected output %q", output)
	}
}

func TestEvaluateReportsStaticErrors(t *testing.T) {
	m := newTestREPLModel()

	output, isErr := m.evaluate("var = 1;")
	if !isErr || !strings.Contains(output, "Expect variable name.") {
		t.Fatalf("unexpected output %q (err %v)", output, isErr)
	}
}

func TestResetCommandDropsGlobals(t *testing.T) {
	m := newTestREPLModel()
	if output, isErr := m.evaluate("var x = 1;"); isErr {
		t.Fatalf("unexpected eval error: %s", output)
	}

	m.textInput.SetValue(":reset")
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	rm := model.(replModel)

	if _, isErr := rm.evaluate("x"); !isErr {
		t.Fatalf("expected x to be undefined after reset")
	}
	if _, isErr := rm.evaluate("clock"); isErr {
		t.Fatalf("natives should survive a reset")
	}
}

func TestGlobalBindingsSkipNatives(t *testing.T) {
	m := newTestREPLModel()
	m.evaluate("var b = 2; var a = 1;")

	bindings := m.globalBindings()
	if len(bindings) != 2 || bindings[0].name != "a" || bindings[1].name != "b" {
		t.Fatalf("unexpected bindings %#v", bindings)
	}
}

func TestAutocompleteSingleMatch(t *testing.T) {
	m := newTestREPLModel()
	m.evaluate("var counter = 0;")
	m.textInput.SetValue("print coun")

	m = m.handleAutocomplete()
	if got := m.textInput.Value(); got != "print counter" {
		t.Fatalf("unexpected completion %q", got)
	}
}

func TestReplSourceAddsSemicolon(t *testing.T) {
	cases := map[string]string{
		"1 + 2":          "1 + 2;",
		"print 1;":       "print 1;",
		"fun f() {}":     "fun f() {}",
		"class A { }   ": "class A { }   ",
	}
	for input, want := range cases {
		if got := replSource(input); got != want {
			t.Fatalf("replSource(%q) = %q, want %q", input, got, want)
		}
	}
}
