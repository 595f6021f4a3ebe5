package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
	"github.com/takoeight0821/lox/config"
	"github.com/takoeight0821/lox/driver"
	"github.com/takoeight0821/lox/eval"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	const (
		inputUsage = "input file path"
	)
	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	var (
		inputPath  string
		configPath string
		dumpTokens bool
		dumpAST    bool
		dumpEnv    bool
	)
	fs.StringVar(&inputPath, "input", "", inputUsage)
	fs.StringVar(&inputPath, "i", "", inputUsage+" (shorthand)")
	fs.StringVar(&configPath, "config", "", "config file path")
	fs.BoolVar(&dumpTokens, "tokens", false, "print tokens before running")
	fs.BoolVar(&dumpAST, "ast", false, "print the syntax tree before running")
	fs.BoolVar(&dumpEnv, "env", false, "print the global bindings after running")

	if err := fs.Parse(args); err != nil {
		return driver.ExitUsage
	}

	switch {
	case fs.NArg() > 1, fs.NArg() == 1 && inputPath != "":
		fmt.Fprintln(os.Stderr, "Usage: lox [flags] [script]")
		return driver.ExitUsage
	case fs.NArg() == 1:
		inputPath = fs.Arg(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return driver.ExitUsage
	}
	cfg.DumpTokens = cfg.DumpTokens || dumpTokens
	cfg.DumpAST = cfg.DumpAST || dumpAST
	cfg.DumpEnv = cfg.DumpEnv || dumpEnv

	if inputPath == "" {
		if err := RunPrompt(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return driver.ExitOK
	}

	code, err := RunFile(cfg, inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return code
}

func newRunner(cfg config.Config, diag *driver.Diagnostics) *driver.PassRunner {
	r := driver.NewPassRunner(diag)
	if cfg.DumpTokens {
		r.TokenDump = os.Stdout
	}
	if cfg.DumpAST {
		r.AddPass(driver.ASTDumper{Out: os.Stdout})
	}
	interp := eval.NewInterpreter(os.Stdout)
	r.AddPass(interp)
	if cfg.DumpEnv {
		r.AddPass(driver.EnvDumper{Out: os.Stdout, Interp: interp})
	}
	return r
}

// RunPrompt reads and runs one line at a time until end of input.
// Bindings do not carry over from one line to the next.
func RunPrompt(cfg config.Config) error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer func() {
		if cfg.HistoryFile != "" {
			saveHistory(line, cfg.HistoryFile)
		}
		line.Close()
	}()

	if cfg.HistoryFile != "" {
		if f, err := os.Open(cfg.HistoryFile); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			f.Close()
		}
	}

	diag := driver.NewDiagnostics(os.Stderr)
	r := newRunner(cfg, diag)
	for {
		input, err := line.Prompt(cfg.Prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line.AppendHistory(input)
		// errors are already printed by diag.
		_, _ = r.RunSource(input)
		diag.Reset()
	}
}

func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// RunFile runs the script at path and returns the exit code its diagnostics call for.
func RunFile(cfg config.Config, path string) (int, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	diag := driver.NewDiagnostics(os.Stderr)
	_, _ = newRunner(cfg, diag).RunSource(string(bytes))
	return diag.ExitCode(), nil
}
