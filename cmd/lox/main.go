package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"treelox/internal"
)

const (
	exitUsage   = 64
	exitStatic  = 65
	exitNoInput = 66
	exitRuntime = 70
)

type stdPrinter struct{}

func (s stdPrinter) Println(a ...interface{}) (n int, err error) {
	return fmt.Println(a...)
}

func (s stdPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return fmt.Fprintf(w, format, a...)
}

func (s stdPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return fmt.Fprintln(w, a...)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("lox", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to a lox.toml file")
	printAst := flags.Bool("ast", false, "print the syntax tree instead of running")
	verbose := flags.Bool("v", false, "debug logging")
	noColor := flags.Bool("no-color", false, "disable colored diagnostics")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: lox [flags] [script]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return exitUsage
	}
	if *printAst && flags.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "-ast needs a script")
		return exitUsage
	}

	cwd, _ := os.Getwd()
	cfg, err := internal.ResolveConfig(*configPath, cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	if *noColor {
		cfg.Output.Color = false
	}

	log := newLogger(cfg, *verbose)
	if cfg.Path != "" {
		log.WithField("path", cfg.Path).Info("config loaded")
	}

	lox := internal.NewLox(cfg, stdPrinter{}, log)

	if flags.NArg() == 0 {
		return runPrompt(lox, cfg)
	}
	return runFile(lox, flags.Arg(0), *printAst)
}

func newLogger(cfg *internal.Config, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    !cfg.Output.Color,
		DisableTimestamp: true,
	})
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.WithField("level", cfg.Log.Level).Warn("unknown log level, using warning")
		level = logrus.WarnLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}

func runFile(lox *internal.Lox, path string, printAst bool) int {
	absPath, err := filepath.Abs(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitNoInput
	}

	b, err := os.ReadFile(absPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitNoInput
	}
	source := string(b)

	if printAst {
		tree, err := lox.Tree(source)
		if err != nil {
			return exitStatic
		}
		fmt.Print(tree)
		return 0
	}

	return exitCode(lox.Run(source))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, internal.ErrStatic):
		return exitStatic
	default:
		return exitRuntime
	}
}

// runPrompt reads one line at a time. Errors are reported and the session
// keeps going with whatever state the line left behind.
func runPrompt(lox *internal.Lox, cfg *internal.Config) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.Repl.History
	if histPath != "" && !filepath.IsAbs(histPath) {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, histPath)
		}
	}
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(cfg.Repl.Prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsage
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		_ = lox.Run(line)
	}
}
