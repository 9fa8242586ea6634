package main

import (
	"strings"
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/mgomes/golox/lox"
)

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	engine := lox.MustNewEngine(lox.Config{})
	diags := diagnosticsForSource(engine, "var a = 1;\nprint a;\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestDiagnosticsForSourceWithParseErrors(t *testing.T) {
	engine := lox.MustNewEngine(lox.Config{})
	diags := diagnosticsForSource(engine, "print ;\nvar = 1;\n")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %#v", len(diags), diags)
	}

	first := diags[0]
	if first.Severity == nil || *first.Severity != protocol.DiagnosticSeverityError {
		t.Fatalf("expected error severity, got %#v", first.Severity)
	}
	if first.Message != "Expect expression." {
		t.Fatalf("unexpected message %q", first.Message)
	}
	wantStart := protocol.Position{Line: 0, Character: 6}
	if first.Range.Start != wantStart {
		t.Fatalf("expected start %#v, got %#v", wantStart, first.Range.Start)
	}

	second := diags[1]
	if second.Message != "Expect variable name." || second.Range.Start.Line != 1 || second.Range.Start.Character != 4 {
		t.Fatalf("unexpected second diagnostic %#v", second)
	}
}

func TestDiagnosticsForSourceSpanResolveErrorLexeme(t *testing.T) {
	engine := lox.MustNewEngine(lox.Config{})
	diags := diagnosticsForSource(engine, "return 1;")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	rng := diags[0].Range
	if rng.Start.Character != 0 || rng.End.Character != 6 {
		t.Fatalf("expected range over 'return', got %#v", rng)
	}
	if diags[0].Source == nil || *diags[0].Source != lspName {
		t.Fatalf("expected source %q", lspName)
	}
}

func TestDiagnosticsForSourceWarnsAboutUnreachableCode(t *testing.T) {
	engine := lox.MustNewEngine(lox.Config{})
	diags := diagnosticsForSource(engine, "fun f() {\n  return 1;\n  print 2;\n}\n")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if *diags[0].Severity != protocol.DiagnosticSeverityWarning {
		t.Fatalf("expected warning severity")
	}
	if diags[0].Range.Start != (protocol.Position{Line: 2, Character: 2}) {
		t.Fatalf("unexpected range %#v", diags[0].Range)
	}
}

func TestCompletionItemsAreSortedAndCategorized(t *testing.T) {
	items := completionItems("cl", "class Cake {}\nvar clue = 1;\n")

	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	if strings.Join(labels, ",") != "class,clock,clue" {
		t.Fatalf("unexpected labels %v", labels)
	}

	details := map[string]string{}
	for _, item := range items {
		details[item.Label] = *item.Detail
	}
	if details["class"] != "keyword" || details["clock"] != "native" || details["clue"] != "variable" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestCompletionItemsIncludeDeclarationsDespiteErrors(t *testing.T) {
	items := completionItems("Sh", "class Shape {}\nfun Show() {}\nprint ;\n")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %#v", items)
	}
	if *items[0].Kind != protocol.CompletionItemKindClass || *items[1].Kind != protocol.CompletionItemKindFunction {
		t.Fatalf("unexpected kinds %v %v", *items[0].Kind, *items[1].Kind)
	}
}

func TestHoverSummary(t *testing.T) {
	source := `class Cake < Base { bake() {} class make() {} }
fun add(a, b) { return a + b; }
fun answer { return 42; }
var total = 0;`

	cases := map[string]string{
		"Cake":   "class Cake < Base",
		"add":    "fun add(a, b)",
		"answer": "fun answer\n",
		"total":  "var total",
		"while":  "Lox keyword",
		"clock":  "fun clock()",
	}
	for word, want := range cases {
		if got := hoverSummary(word, source); !strings.Contains(got, want) {
			t.Fatalf("hover %q: expected %q in %q", word, want, got)
		}
	}
	if got := hoverSummary("Cake", source); !strings.Contains(got, "1 methods, 1 class methods") {
		t.Fatalf("unexpected class summary %q", got)
	}
	if got := hoverSummary("missing", source); got != "" {
		t.Fatalf("expected no hover for unknown word, got %q", got)
	}
}

func TestWordAtAndBefore(t *testing.T) {
	text := "var first = 1;\nprint first + second;"

	if got := wordAt(text, protocol.Position{Line: 1, Character: 8}); got != "first" {
		t.Fatalf("wordAt = %q", got)
	}
	if got := wordBefore(text, protocol.Position{Line: 1, Character: 8}); got != "fi" {
		t.Fatalf("wordBefore = %q", got)
	}
	if got := wordAt(text, protocol.Position{Line: 5, Character: 0}); got != "" {
		t.Fatalf("expected empty word past the end, got %q", got)
	}
	if got := wordBefore(text, protocol.Position{Line: 0, Character: 99}); got != "" {
		t.Fatalf("expected empty prefix after ';', got %q", got)
	}
}
