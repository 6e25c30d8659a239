package main

import (
	"context"
	"fmt"
	"os"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"

	"github.com/clasp-lang/clasp/clasp"

	_ "github.com/tliron/commonlog/simple"
)

const usage = `clasp

Usage:
  clasp run SCRIPT [--function=NAME] [--config=FILE] [--trace]
  clasp check SCRIPT
  clasp repl
  clasp -h | --help

Arguments:
  SCRIPT  Path to a clasp source unit.

Options:
  -f NAME, --function=NAME  Function to invoke after compilation [default: main].
  -c FILE, --config=FILE    Load runtime limits from a TOML file.
  -t, --trace               Log lifecycle events (construction, teardown, rebinding).
  -h, --help                Show this help.

Invoking clasp with no arguments on a TTY starts the REPL.
`

func main() {
	if err := runCLI(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI() error {
	if len(os.Args) == 1 && isatty.IsTerminal(os.Stdin.Fd()) {
		return runREPL()
	}

	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		return err
	}

	if repl, _ := opts.Bool("repl"); repl {
		return runREPL()
	}

	scriptPath, _ := opts.String("SCRIPT")
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	if check, _ := opts.Bool("check"); check {
		engine := clasp.NewEngine(clasp.Config{})
		if _, err := engine.Compile(string(input)); err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		fmt.Println("ok")
		return nil
	}

	cfg := defaultFileConfig()
	if path, _ := opts.String("--config"); path != "" {
		if err := loadFileConfig(path, &cfg); err != nil {
			return err
		}
	}
	if trace, _ := opts.Bool("--trace"); trace {
		cfg.Trace = true
	}

	verbosity := 0
	if cfg.Trace {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	engine := clasp.NewEngine(clasp.Config{
		StepQuota:      cfg.StepQuota,
		RecursionLimit: cfg.RecursionLimit,
		TraceLifecycle: cfg.Trace,
	})
	script, err := engine.Compile(string(input))
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}

	function, _ := opts.String("--function")
	result, err := script.Call(context.Background(), function)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	if !result.IsNil() {
		fmt.Println(result.String())
	}
	return nil
}
