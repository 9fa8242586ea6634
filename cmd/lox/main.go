package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/mgomes/golox/lox"
)

// Exit codes follow the BSD sysexits conventions.
const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
	exitIO      = 74
)

var log = commonlog.GetLogger("lox.cli")

var errUsage = errors.New("invalid command")

var errTimeout = errors.New("execution timed out")

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return promptCommand(nil)
	}
	log.Debugf("dispatching %q", args[1])
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "check":
		return runCommand(append([]string{"-check"}, args[2:]...))
	case "analyze":
		return analyzeCommand(args[2:])
	case "ast":
		return astCommand(args[2:])
	case "fmt":
		return fmtCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "prompt":
		return promptCommand(args[2:])
	case "lsp":
		return lspCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		if strings.HasSuffix(args[1], ".lox") {
			return runCommand(args[1:])
		}
		return usageError()
	}
}

// exitCode maps an error returned by runCLI to a process exit status.
func exitCode(err error) int {
	var static lox.StaticErrors
	var runtimeErr *lox.RuntimeError
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.As(err, &static):
		return exitStatic
	case errors.As(err, &runtimeErr), errors.Is(err, errTimeout):
		return exitRuntime
	case errors.As(err, &pathErr):
		return exitIO
	default:
		return 1
	}
}

// commonOptions are the flags every subcommand accepts.
type commonOptions struct {
	configPath string
	verbosity  verbosityFlag
}

func (o *commonOptions) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to a lox.toml configuration file")
	fs.Var(&o.verbosity, "v", "increase log verbosity (repeatable)")
}

// setup loads the configuration file and configures logging. It is called
// once flags have been parsed.
func (o *commonOptions) setup() (fileConfig, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return fileConfig{}, err
	}
	commonlog.Configure(cfg.LogVerbosity+int(o.verbosity), nil)
	return cfg, nil
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var opts commonOptions
	opts.register(fs)
	checkOnly := fs.Bool("check", false, "only compile the script without executing")
	recursionLimit := fs.Int("recursion-limit", 0, "maximum call depth (overrides the config file)")
	stepQuota := fs.Int("step-quota", 0, "maximum executed steps, 0 for unlimited (overrides the config file)")
	timeout := fs.Duration("timeout", 0, "give up on the script after this long (exit 70)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return fmt.Errorf("%w: lox run: script path required", errUsage)
	}

	cfg, err := opts.setup()
	if err != nil {
		return err
	}
	if *recursionLimit != 0 {
		cfg.RecursionLimit = *recursionLimit
	}
	if *stepQuota != 0 {
		cfg.StepQuota = *stepQuota
	}

	scriptPath, source, err := readScript(remaining[0])
	if err != nil {
		return err
	}
	engine, err := lox.NewEngine(cfg.engineConfig(os.Stdout))
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	script, err := engine.Compile(source)
	if err != nil {
		return err
	}
	log.Infof("compiled %s", scriptPath)
	if *checkOnly {
		return nil
	}

	start := time.Now()
	err = runWithTimeout(engine.NewInterpreter(), script, *timeout)
	log.Infof("ran %s in %s", scriptPath, time.Since(start))
	return err
}

// runWithTimeout runs script, giving up once timeout elapses. The
// interpreter only observes cancellation between top-level statements, so
// a statement still running at the deadline is abandoned in its goroutine
// and left for process exit to reclaim.
func runWithTimeout(interp *lox.Interpreter, script *lox.Script, timeout time.Duration) error {
	if timeout <= 0 {
		_, err := interp.Run(context.Background(), script)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := interp.Run(ctx, script)
		done <- err
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("lox run: %w after %s", errTimeout, timeout)
		}
		return err
	case <-ctx.Done():
		log.Warningf("script still running after %s", timeout)
		return fmt.Errorf("lox run: %w after %s", errTimeout, timeout)
	}
}

func readScript(path string) (string, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(abs)
	if err != nil {
		return "", "", fmt.Errorf("read script: %w", err)
	}
	return abs, string(input), nil
}

func usageError() error {
	printUsage()
	return errUsage
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s [command] [flags] <script>\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run      execute a script")
	fmt.Fprintln(os.Stderr, "  check    compile a script without executing it")
	fmt.Fprintln(os.Stderr, "  analyze  report unreachable statements")
	fmt.Fprintln(os.Stderr, "  ast      print the parsed syntax tree")
	fmt.Fprintln(os.Stderr, "  fmt      re-indent source files (-w to write, -check to verify)")
	fmt.Fprintln(os.Stderr, "  repl     start the interactive session")
	fmt.Fprintln(os.Stderr, "  prompt   start the line-mode prompt (the default with no arguments)")
	fmt.Fprintln(os.Stderr, "  lsp      serve diagnostics over the language server protocol")
	fmt.Fprintln(os.Stderr, "Common flags:")
	fmt.Fprintln(os.Stderr, "  -config <path>")
	fmt.Fprintln(os.Stderr, "    configuration file (default ./lox.toml when present)")
	fmt.Fprintln(os.Stderr, "  -v")
	fmt.Fprintln(os.Stderr, "    increase log verbosity (repeatable)")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -check, -recursion-limit n, -step-quota n, -timeout duration")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

// verbosityFlag counts occurrences of -v. An explicit value such as
// -v=2 sets the level directly.
type verbosityFlag int

func (v *verbosityFlag) String() string {
	return strconv.Itoa(int(*v))
}

func (v *verbosityFlag) Set(value string) error {
	if value == "true" {
		*v++
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid verbosity %q", value)
	}
	*v = verbosityFlag(n)
	return nil
}

func (v *verbosityFlag) IsBoolFlag() bool { return true }
