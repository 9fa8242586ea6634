package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mgomes/golox/lox"
)

const indentUnit = "  "

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var opts commonOptions
	opts.register(fs)
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return fmt.Errorf("%w: lox fmt: path required", errUsage)
	}
	if _, err := opts.setup(); err != nil {
		return err
	}

	files, err := collectLoxFiles(targets)
	if err != nil {
		return err
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted, err := formatLoxSource(original)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		changed := formatted != original
		if changed {
			changedCount++
			log.Debugf("%s needs formatting", path)
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case !*write && !*check:
			fmt.Print(formatted)
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("lox fmt: %d file(s) need formatting", changedCount)
	}

	return nil
}

func collectLoxFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if filepath.Ext(path) != ".lox" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// formatLoxSource re-indents source by brace depth and strips trailing
// whitespace and blank lines at the end. Lines continuing a multi-line
// string literal are left exactly as written. Sources that fail to scan
// are rejected.
func formatLoxSource(source string) (string, error) {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	tokens, err := lox.Scan(normalized)
	if err != nil {
		return "", err
	}

	lines := strings.Split(normalized, "\n")
	depthAt := make([]int, len(lines))
	closesFirst := make([]bool, len(lines))
	opensString := make([]bool, len(lines))
	verbatim := make([]bool, len(lines))
	hasToken := make([]bool, len(lines))

	depth, next := 0, 0
	for _, tok := range tokens {
		idx := max(min(tok.Pos.Line-1, len(lines)-1), 0)
		for ; next <= idx; next++ {
			depthAt[next] = depth
		}
		if !hasToken[idx] {
			hasToken[idx] = true
			closesFirst[idx] = tok.Lexeme == "}"
		}
		switch tok.Lexeme {
		case "{":
			depth++
		case "}":
			depth = max(depth-1, 0)
		}
		if spans := strings.Count(tok.Lexeme, "\n"); spans > 0 {
			opensString[idx] = true
			for i := idx + 1; i <= idx+spans && i < len(lines); i++ {
				verbatim[i] = true
			}
		}
	}
	for ; next < len(lines); next++ {
		depthAt[next] = depth
	}

	for i, line := range lines {
		if verbatim[i] {
			continue
		}
		trimmed := strings.TrimLeft(line, " \t")
		if !opensString[i] {
			trimmed = strings.TrimRight(trimmed, " \t")
		}
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		indent := depthAt[i]
		if closesFirst[i] && indent > 0 {
			indent--
		}
		lines[i] = strings.Repeat(indentUnit, indent) + trimmed
	}

	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n", nil
}
