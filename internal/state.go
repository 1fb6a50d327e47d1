package internal

import (
	"errors"
	"fmt"
	"io"

	"github.com/labstack/gommon/color"
)

type parseError struct {
	err   error
	line  int
	where string
}

func (e parseError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.line, e.where, e.err.Error())
}

func (e parseError) Unwrap() error {
	return e.err
}

type runtimeError struct {
	token   *token
	err     error
	message string
}

func newRuntimeError(tk *token, err error) *runtimeError {
	return &runtimeError{
		token:   tk,
		err:     err,
		message: err.Error(),
	}
}

func runtimeErrorf(tk *token, err error, format string, a ...interface{}) *runtimeError {
	return &runtimeError{
		token:   tk,
		err:     err,
		message: fmt.Sprintf(format, a...),
	}
}

func (e *runtimeError) Error() string {
	return e.message
}

func (e *runtimeError) Unwrap() error {
	return e.err
}

func (e *runtimeError) line() int {
	if e.token == nil {
		return 0
	}
	return e.token.line
}

// interpreterState stores the state of a single run: the source, what the
// front end produced from it and every diagnostic reported along the way.
type interpreterState struct {
	source string
	tokens []token
	stmts  []stmt

	errors []parseError

	logger IPrinter
	errOut io.Writer
	colors *color.Color
}

func newInterpreterState(source string, p IPrinter, errOut io.Writer, colors *color.Color) *interpreterState {
	return &interpreterState{
		source: source,
		errors: make([]parseError, 0),
		logger: p,
		errOut: errOut,
		colors: colors,
	}
}

func (s *interpreterState) setError(err error, line int, where string) {
	s.errors = append(s.errors, parseError{
		err:   err,
		line:  line,
		where: where,
	})
}

func (s *interpreterState) tokenError(tk *token, err error) parseError {
	where := fmt.Sprintf(" at '%s'", tk.lexeme)
	if tk.token == tkEOF {
		where = " at end"
	}
	s.setError(err, tk.line, where)
	return s.errors[len(s.errors)-1]
}

func (s *interpreterState) fatalError(tk *token, err error) {
	panic(s.tokenError(tk, err))
}

// Valid returns true if no static error was reported
func (s *interpreterState) Valid() bool {
	return len(s.errors) == 0
}

// PrintErrors prints all static errors, returns true if there was any
func (s *interpreterState) PrintErrors() bool {
	for _, e := range s.errors {
		s.logger.Fprintln(s.errOut, s.colors.Red(e.Error()))
	}
	return !s.Valid()
}

func (s *interpreterState) runtimeErr(err *runtimeError) {
	s.logger.Fprintln(s.errOut, s.colors.Red(fmt.Sprintf("%s\n[line %d]", err.Error(), err.line())))
}

// Lexer errors
var errUnexpectedChar = errors.New("Unexpected character.")
var errUnclosedString = errors.New("Unterminated string.")

// Parser errors
var errExpectedExpr = errors.New("Expect expression.")
var errUnclosedParen = errors.New("Expect ')' after expression.")
var errInvalidAssignTarget = errors.New("Invalid assignment target.")
var errMaxArguments = errors.New("Can't have more than 255 arguments.")
var errMaxParameters = errors.New("Can't have more than 255 parameters.")
var errExpectedArgsParen = errors.New("Expect ')' after arguments.")
var errExpectedParamsParen = errors.New("Expect ')' after parameters.")
var errExpectedParamName = errors.New("Expect parameter name.")
var errExpectedProp = errors.New("Expect property name after '.'.")
var errExpectedVarName = errors.New("Expect variable name.")
var errExpectedClassName = errors.New("Expect class name.")
var errExpectedSuperclass = errors.New("Expect superclass name.")
var errExpectedFunctionName = errors.New("Expect function name.")
var errExpectedMethodName = errors.New("Expect method name.")
var errExpectedSemicolon = errors.New("Expect ';' after statement.")
var errExpectedBodyBrace = errors.New("Expect '{' before body.")
var errUnclosedBlock = errors.New("Expect '}' after block.")
var errExpectedParen = errors.New("Expect '(' after keyword.")
var errUnclosedCondition = errors.New("Expect ')' after condition.")
var errExpectedSuperDot = errors.New("Expect '.' after 'super'.")
var errExpectedSuperMethod = errors.New("Expect superclass method name.")

// Resolver errors
var errOwnInitializer = errors.New("Can't read local variable in its own initializer.")
var errAlreadyDeclared = errors.New("Already a variable with this name in this scope.")
var errTopLevelReturn = errors.New("Can't return from top-level code.")
var errInitializerReturn = errors.New("Can't return a value from an initializer.")
var errThisOutsideClass = errors.New("Can't use 'this' outside of a class.")
var errSuperOutsideClass = errors.New("Can't use 'super' outside of a class.")
var errSuperWithoutSuperclass = errors.New("Can't use 'super' in a class with no superclass.")
var errInheritFromSelf = errors.New("A class can't inherit from itself.")

// Runtime errors
var errOnlyNumber = errors.New("Operand must be a number.")
var errOnlyNumbers = errors.New("Operands must be numbers.")
var errNumbersOrStrings = errors.New("Operands must be two numbers or two strings.")
var errDivisionByZero = errors.New("Division by zero.")
var errUndefinedVar = errors.New("Undefined variable.")
var errOnlyFunction = errors.New("Can only call functions and classes.")
var errInvalidNumberArguments = errors.New("Wrong number of arguments.")
var errOnlyInstanceProps = errors.New("Only instances have properties.")
var errOnlyInstanceFields = errors.New("Only instances have fields.")
var errUndefinedProp = errors.New("Undefined property.")
var errExpectedClass = errors.New("Superclass must be a class.")
var errUndefinedOp = errors.New("Undefined operator.")
var errStackOverflow = errors.New("Stack overflow.")
