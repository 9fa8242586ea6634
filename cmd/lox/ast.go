package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/mgomes/golox/lox"
)

// astCommand prints the parenthesized syntax tree of a script. Resolution
// is skipped so trees can be inspected for programs with scoping errors.
func astCommand(args []string) error {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var opts commonOptions
	opts.register(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return fmt.Errorf("%w: lox ast: script path required", errUsage)
	}
	if _, err := opts.setup(); err != nil {
		return err
	}

	_, source, err := readScript(remaining[0])
	if err != nil {
		return err
	}
	tokens, scanErr := lox.Scan(source)
	stmts, parseErr := lox.Parse(tokens)
	if err := errors.Join(scanErr, parseErr); err != nil {
		return err
	}
	fmt.Print(lox.PrintTree(stmts))
	return nil
}
