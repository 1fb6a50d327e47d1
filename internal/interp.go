package internal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"
)

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
	Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error)
	Fprintln(w io.Writer, a ...interface{}) (n int, err error)
}

// ErrStatic is returned when scanning, parsing or resolving reported errors
var ErrStatic = errors.New("static error")

// ErrRuntime is returned when execution stopped on a runtime error
var ErrRuntime = errors.New("runtime error")

// Lox is an interpreter session. Globals and resolved locals survive
// between calls to Run, so a REPL can build a program line by line.
type Lox struct {
	cfg     *Config
	printer IPrinter
	log     logrus.FieldLogger
	errOut  io.Writer
	colors  *color.Color

	exec *exec
}

// NewLox creates a session. A nil cfg means DefaultConfig, a nil log
// discards debug output.
func NewLox(cfg *Config, p IPrinter, log logrus.FieldLogger) *Lox {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	colors := color.New()
	if !cfg.Output.Color {
		colors.Disable()
	}

	ex := newExec(log.WithField("component", "exec"))
	ex.nilMarker = cfg.Runtime.NilMarker
	ex.strictPlus = cfg.Runtime.StrictPlus

	return &Lox{
		cfg:     cfg,
		printer: p,
		log:     log,
		errOut:  os.Stderr,
		colors:  colors,
		exec:    ex,
	}
}

// SetErrOutput changes where diagnostics go, stderr by default
func (l *Lox) SetErrOutput(w io.Writer) {
	l.errOut = w
}

// front scans and parses source. Every static error found is printed before
// it returns.
func (l *Lox) front(source string) (*interpreterState, error) {
	state := newInterpreterState(source, l.printer, l.errOut, l.colors)

	lexer := &lexer{
		line:  1,
		state: state,
	}
	lexer.scan()

	parser := &parser{
		state: state,
	}
	parser.parse()

	if state.PrintErrors() {
		return state, ErrStatic
	}
	return state, nil
}

// Run executes source in this session
func (l *Lox) Run(source string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.log.WithField("panic", r).Error("interpreter crashed")
			err = fmt.Errorf("%w: %v", ErrRuntime, r)
		}
	}()

	state, err := l.front(source)
	if err != nil {
		return err
	}

	resolver := newResolver(state, l.log.WithField("component", "resolver"))
	resolver.resolve(state.stmts)
	if state.PrintErrors() {
		return ErrStatic
	}

	l.exec.state = state
	l.exec.resolve(resolver.locals)
	if err := l.exec.interpret(state.stmts); err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}
	return nil
}

// Tree parses source and returns its syntax tree, one statement per line
func (l *Lox) Tree(source string) (string, error) {
	state, err := l.front(source)
	if err != nil {
		return "", err
	}
	return state.printTree(), nil
}

// RunSourceWithPrinter runs source code on a fresh interpreter instance
func RunSourceWithPrinter(source string, p IPrinter) bool {
	cfg := DefaultConfig()
	cfg.Output.Color = false
	return NewLox(cfg, p, nil).Run(source) == nil
}
