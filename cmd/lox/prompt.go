package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/peterh/liner"

	"github.com/mgomes/golox/lox"
)

const continuationPrompt = "...  "

// lineReader is the part of liner.State the prompt loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// promptCommand runs the line-mode prompt: one entry per line, with
// continuation lines while braces or a string literal are left open.
func promptCommand(args []string) error {
	fs := flag.NewFlagSet("prompt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var opts commonOptions
	opts.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	cfg, err := opts.setup()
	if err != nil {
		return err
	}
	engine, err := lox.NewEngine(cfg.engineConfig(os.Stdout))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	interp := engine.NewInterpreter()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		return completeLine(line, interp.Globals().Names())
	})

	histPath := cfg.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			} else {
				log.Warningf("cannot save history: %s", err)
			}
		}()
	}

	promptLoop(ln, engine, interp, os.Stdout, os.Stderr, cfg.REPL.Prompt)
	return nil
}

// promptLoop reads entries until EOF. Errors are reported and the session
// carries on with its globals intact.
func promptLoop(r lineReader, engine *lox.Engine, interp *lox.Interpreter, out, errOut io.Writer, prompt string) {
	for {
		source, ok := readEntry(r, prompt, continuationPrompt)
		if !ok {
			fmt.Fprintln(out)
			return
		}
		if strings.TrimSpace(source) == "" {
			continue
		}
		r.AppendHistory(strings.ReplaceAll(source, "\n", " "))

		script, err := interp.Compile(replSource(source))
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		result, err := interp.Run(context.Background(), script)
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		if script.EndsWithExpression() {
			fmt.Fprintln(out, result.String())
		}
	}
}

// readEntry collects lines until the accumulated source is balanced. The
// second result is false at end of input.
func readEntry(r lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := r.Prompt(p)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMoreInput(b.String()) {
			return b.String(), true
		}
	}
}

// needsMoreInput reports whether source leaves a brace, a parenthesis or a
// string literal open.
func needsMoreInput(source string) bool {
	tokens, err := lox.Scan(source)
	var static lox.StaticErrors
	if errors.As(err, &static) {
		for _, e := range static {
			if e.Message == "Unterminated string." {
				return true
			}
		}
	}

	depth := 0
	for _, tok := range tokens {
		switch tok.Lexeme {
		case "{", "(":
			depth++
		case "}", ")":
			depth--
		}
	}
	return depth > 0
}

// completeLine completes the last word of line for liner.
func completeLine(line string, names []string) []string {
	start := len(line)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	word := line[start:]
	matches := completeWord(word, names)
	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = line[:start] + match
	}
	return out
}
