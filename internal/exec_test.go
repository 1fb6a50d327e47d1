package internal

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPrinter struct {
	printed string
}

func (t *testPrinter) Println(a ...interface{}) (n int, err error) {
	for i, e := range a {
		if i != 0 {
			t.printed += " "
		}
		t.printed += fmt.Sprintf("%v", e)
	}
	t.printed += "\n"
	return 0, nil
}

func (t *testPrinter) Fprintf(w io.Writer, format string, a ...interface{}) (n int, err error) {
	return t.Println(fmt.Sprintf(format, a...))
}

func (t *testPrinter) Fprintln(w io.Writer, a ...interface{}) (n int, err error) {
	return t.Println(a...)
}

func (t *testPrinter) Equals(p string) bool {
	if t.printed == p+"\n" {
		t.Reset()
		return true
	}
	return false
}

func (t *testPrinter) Reset() {
	t.printed = ""
}

func newTestLox(tp *testPrinter) *Lox {
	cfg := DefaultConfig()
	cfg.Output.Color = false
	return NewLox(cfg, tp, nil)
}

func checkExpression(t *testing.T, exp string, result ...string) {
	t.Helper()
	source := "print " + exp + ";"
	tp := &testPrinter{}
	RunSourceWithPrinter(source, tp)
	for _, r := range result {
		if tp.Equals(r) {
			return
		}
	}
	t.Errorf(
		"Error on: \n%s\n\tResult should be equal to %s instead of %s",
		exp,
		result,
		tp.printed,
	)
}

func checkStatements(t *testing.T, code string, resultVar string, result string) {
	t.Helper()
	source := code + "\nprint " + resultVar + ";"
	tp := &testPrinter{}
	RunSourceWithPrinter(source, tp)
	assert.Equal(t, result+"\n", tp.printed, "Error on: \n%s\n\t%s", code, resultVar)
}

func checkErrorMsg(t *testing.T, source string, errorMsg string, line int) {
	t.Helper()
	result := fmt.Sprintf("%s\n[line %d]\n", errorMsg, line)

	tp := &testPrinter{}
	ok := RunSourceWithPrinter(source, tp)
	assert.False(t, ok, source)
	assert.Equal(t, result, tp.printed, "\nSource:\n----\n%s\n----", source)
}

func checkStaticError(t *testing.T, source string, errorMsg string) {
	t.Helper()
	tp := &testPrinter{}
	err := newTestLox(tp).Run(source)
	assert.ErrorIs(t, err, ErrStatic, source)
	assert.Equal(t, errorMsg+"\n", tp.printed, "\nSource:\n----\n%s\n----", source)
}

func TestExpressions(t *testing.T) {

	// Arithmethic
	{
		// Number
		checkExpression(t, "1", "1")

		// Fraction
		checkExpression(t, "1.5", "1.5")

		// Negative
		checkExpression(t, "-1", "-1")
		checkExpression(t, "--1", "1")

		// Add numbers
		checkExpression(t, "1 + 2 + 3", "6")

		// Subtract numbers
		checkExpression(t, "8 - 2", "6")

		// Multiply numbers
		checkExpression(t, "1 * 2 * 3", "6")
		checkExpression(t, "1.5 * 2", "3")

		// Divide numbers
		checkExpression(t, "12 / 2", "6")
		checkExpression(t, "7 / 2", "3.5")

		// Precedence
		checkExpression(t, "1 + 2 * 3", "7")
		checkExpression(t, "(1 + 2) * 3", "9")
	}

	// Logical
	{
		// 'true' literal
		checkExpression(t, "true", "true")

		// 'false' literal
		checkExpression(t, "false", "false")

		// not
		checkExpression(t, "!false", "true")
		checkExpression(t, "!true", "false")
		checkExpression(t, "!nil", "true")
		checkExpression(t, `!""`, "false")
		checkExpression(t, "!0", "false")

		// and
		checkExpression(t, "true and true", "true")
		checkExpression(t, "false and true", "false")
		checkExpression(t, "true and false", "false")
		checkExpression(t, "1 and 2", "2")
		checkExpression(t, "nil and undefined", "nil")

		// or
		checkExpression(t, "false or false", "false")
		checkExpression(t, "false or true", "true")
		checkExpression(t, "nil or 3", "3")
		checkExpression(t, `"a" or undefined`, "a")
	}

	// Strings
	{
		// String literal
		checkExpression(t, `"test"`, "test")

		// String concat
		checkExpression(t, `"te" + "st"`, "test")

		// Mixed concat
		checkExpression(t, `"a" + 1`, "a1")
		checkExpression(t, `1 + "a"`, "1a")
		checkExpression(t, `"x" + 2.5`, "x2.5")
	}

	// Comparisons
	{
		checkExpression(t, `"test" == "test"`, "true")
		checkExpression(t, `"test" != "test"`, "false")
		checkExpression(t, `2*2 == 8-4`, "true")
		checkExpression(t, `1 == "1"`, "false")
		checkExpression(t, `nil == nil`, "true")
		checkExpression(t, `nil == false`, "false")
		checkExpression(t, `true == true`, "true")
		checkExpression(t, `10 > 5`, "true")
		checkExpression(t, `10 < 5`, "false")
		checkExpression(t, `5 >= 5`, "true")
		checkExpression(t, `4 >= 5`, "false")
		checkExpression(t, `5 <= 5`, "true")
		checkExpression(t, `10 <= 5`, "false")

		// Grouping
		checkExpression(t, `(5 <= 5) and (!true or ((1*(1+4)) == 5))`, "true")
	}

	// Values
	{
		checkExpression(t, "nil", "nil")
		checkExpression(t, "clock", "<native fn>")
		checkExpression(t, "clock() > 0", "true")
	}
}

func TestStatements(t *testing.T) {

	// Variables
	{
		checkStatements(t, `var a;`, "a", "nil")
		checkStatements(t, `var a = 1; a = a + 1;`, "a", "2")
		checkStatements(t, `var a = 1; var a = 2;`, "a", "2")
		checkStatements(t, `var a = 1; { var a = 2; } var r = a;`, "r", "1")
		checkStatements(t, `var a; var b; a = b = 3;`, "a + b", "6")
	}

	// Control flow
	{
		checkStatements(t, `var r; if (1 < 2) r = "yes"; else r = "no";`, "r", "yes")
		checkStatements(t, `var r; if (nil) r = "yes"; else r = "no";`, "r", "no")
		checkStatements(t, `var r = 0; while (r < 10) r = r + 3;`, "r", "12")
		checkStatements(t, `var r = 0; for (var i = 0; i < 5; i = i + 1) r = r + i;`, "r", "10")
		checkStatements(t, `var r = 0; for (;r < 3;) r = r + 1;`, "r", "3")
	}

	// Functions
	{
		checkStatements(t, `fun f() {}`, "f", "<fn f>")
		checkStatements(t, `fun f() {} var r = f();`, "r", "nil")
		checkStatements(t, `fun f() { return; } var r = f();`, "r", "nil")
		checkStatements(t, `fun add(a, b) { return a + b; } var r = add(1, 2);`, "r", "3")
		checkStatements(
			t,
			`fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }`,
			"fib(15)",
			"610",
		)
		checkStatements(
			t,
			`fun f() { var i = 0; while (true) { i = i + 1; if (i == 4) return i; } }`,
			"f()",
			"4",
		)
		checkStatements(
			t,
			`fun f() { for (var i = 0; ; i = i + 1) { if (i == 3) { return "found " + i; } } }`,
			"f()",
			"found 3",
		)
	}

	// Closures
	{
		checkStatements(
			t,
			`
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}
var counter = makeCounter();
counter();
var r = counter();`,
			"r",
			"2",
		)
		checkStatements(
			t,
			`
var a = "global";
var r1;
var r2;
{
  fun showA() {
    return a;
  }
  r1 = showA();
  var a = "block";
  r2 = showA();
}
var r = r1 + " " + r2;`,
			"r",
			"global global",
		)
		checkStatements(
			t,
			`
fun outer() {
  var x = "outer";
  fun middle() {
    fun inner() {
      return x;
    }
    return inner;
  }
  return middle()();
}`,
			"outer()",
			"outer",
		)
	}

	// Classes
	{
		checkStatements(t, `class A {}`, "A", "A")
		checkStatements(t, `class A {}`, "A()", "A instance")
		checkStatements(t, `class A {} var a = A(); a.x = 3;`, "a.x", "3")
		checkStatements(
			t,
			`class A { init(x) { this.x = x; } get() { return this.x; } }`,
			"A(3).get()",
			"3",
		)
		checkStatements(
			t,
			`class A { init() { this.v = 7; } get() { return this.v; } } var g = A().get;`,
			"g()",
			"7",
		)
		checkStatements(
			t,
			`class A { m() { return 1; } } var a = A(); a.m = 2;`,
			"a.m",
			"2",
		)
		checkStatements(
			t,
			`class A { init() { this.n = 1; } } var a = A(); var b = a.init();`,
			"a == b",
			"true",
		)
		checkStatements(
			t,
			`class A { init() { this.n = 1; return; } } var a = A();`,
			"a.n",
			"1",
		)
		checkStatements(
			t,
			`class A { m() { return "A"; } } class B < A {}`,
			"B().m()",
			"A",
		)
		checkStatements(
			t,
			`class A { m() { return "A"; } } class B < A { m() { return "B" + super.m(); } }`,
			"B().m()",
			"BA",
		)
		checkStatements(
			t,
			`
class A { m() { return "A"; } }
class B < A { m() { return "B" + super.m(); } }
class C < B { m() { return "C" + super.m(); } }`,
			"C().m()",
			"CBA",
		)
		checkStatements(
			t,
			`
class A { init(n) { this.n = n; } }
class B < A { init(n) { super.init(n * 2); } }`,
			"B(4).n",
			"8",
		)
	}
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		source string
		output string
	}{
		{`{ var a = 1; { var a = 2; print a; } print a; }`, "2\n1"},
		{`fun make(){ var i = 0; fun inc(){ i = i + 1; return i; } return inc; } var c = make(); print c(); print c();`, "1\n2"},
		{`var a; print a = 3;`, "3"},
		{`print 1.0; print "3" + "4"; print "1" + 1;`, "1\n34\n11"},
		{`class Foo { init(x){ this.x = x; } } var f = Foo(42); print f.x;`, "42"},
		{
			`class A { greet(){ return "A" + this.x; } } class B < A { greet(){ return super.greet() + "B"; } } var b = B(); b.x = "!"; print b.greet();`,
			"A!B",
		},
		{`fun a() { return b(); } fun b() { return "late"; } print a();`, "late"},
	}
	for _, tt := range tests {
		tp := &testPrinter{}
		require.NoError(t, newTestLox(tp).Run(tt.source), tt.source)
		assert.Equal(t, tt.output+"\n", tp.printed, tt.source)
	}
}

func TestRuntimeErrors(t *testing.T) {
	checkErrorMsg(t, `1 / 0;`, "Division by zero.", 1)
	checkErrorMsg(t, `-"a";`, "Operand must be a number.", 1)
	checkErrorMsg(t, `1 < "a";`, "Operands must be numbers.", 1)
	checkErrorMsg(t, `true + 1;`, "Operands must be two numbers or two strings.", 1)
	checkErrorMsg(t, `x;`, "Undefined variable 'x'.", 1)
	checkErrorMsg(t, `x = 1;`, "Undefined variable 'x'.", 1)
	checkErrorMsg(t, `"a"();`, "Can only call functions and classes.", 1)
	checkErrorMsg(t, `fun f(a) {} f();`, "Expected 1 arguments but got 0.", 1)
	checkErrorMsg(t, `class A { init(a, b) {} } A(1);`, "Expected 2 arguments but got 1.", 1)
	checkErrorMsg(t, `clock(1);`, "Expected 0 arguments but got 1.", 1)
	checkErrorMsg(t, `var a = 1; a.x;`, "Only instances have properties.", 1)
	checkErrorMsg(t, `var a = 1; a.x = 2;`, "Only instances have fields.", 1)
	checkErrorMsg(t, `class A {} A().b;`, "Undefined property 'b'.", 1)
	checkErrorMsg(t, `class A {} class B < A { m() { return super.m(); } } B().m();`, "Undefined property 'm'.", 1)
	checkErrorMsg(t, `var NotClass = 1; class B < NotClass {}`, "Superclass must be a class.", 1)
	checkErrorMsg(t, "var a = 1;\nvar b = nil;\nprint a + b;", "Operands must be two numbers or two strings.", 3)
	checkErrorMsg(t, "fun f() {\n  return 1 / 0;\n}\nf();", "Division by zero.", 2)
	checkErrorMsg(t, "fun f(n) {\n  return f(n + 1);\n}\nf(0);", "Stack overflow.", 2)
}

func TestDeepRecursionKeepsSession(t *testing.T) {
	tp := &testPrinter{}
	lox := newTestLox(tp)

	err := lox.Run("class A { init() { A(); } }\nA();")
	assert.ErrorIs(t, err, errStackOverflow)
	assert.Equal(t, "Stack overflow.\n[line 1]\n", tp.printed)
	tp.Reset()

	// Depth unwinds with the error, so bounded recursion still runs
	require.NoError(t, lox.Run("fun down(n) { if (n == 0) return 0; return down(n - 1); } print down(5000); print \"after\";"))
	assert.True(t, tp.Equals("0\nafter"))
}

func TestRuntimeErrorStopsExecution(t *testing.T) {
	tp := &testPrinter{}
	err := newTestLox(tp).Run("print 1;\n1 / 0;\nprint 2;")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRuntime)
	assert.ErrorIs(t, err, errDivisionByZero)
	assert.Equal(t, "1\nDivision by zero.\n[line 2]\n", tp.printed)
}

func TestStaticErrors(t *testing.T) {

	// Resolver
	{
		checkStaticError(t, `{ var a = 1; var a = 2; }`, "[line 1] Error at 'a': Already a variable with this name in this scope.")
		checkStaticError(t, `fun f(a, a) {}`, "[line 1] Error at 'a': Already a variable with this name in this scope.")
		checkStaticError(t, `{ var a = a; }`, "[line 1] Error at 'a': Can't read local variable in its own initializer.")
		checkStaticError(t, `var a = a;`, "[line 1] Error at 'a': Can't read local variable in its own initializer.")
		checkStaticError(t, `return 1;`, "[line 1] Error at 'return': Can't return from top-level code.")
		checkStaticError(t, `class A { init() { return 1; } }`, "[line 1] Error at 'return': Can't return a value from an initializer.")
		checkStaticError(t, `print this;`, "[line 1] Error at 'this': Can't use 'this' outside of a class.")
		checkStaticError(t, `fun f() { return this; }`, "[line 1] Error at 'this': Can't use 'this' outside of a class.")
		checkStaticError(t, `fun f() { super.m(); }`, "[line 1] Error at 'super': Can't use 'super' outside of a class.")
		checkStaticError(t, `class A { m() { super.m(); } }`, "[line 1] Error at 'super': Can't use 'super' in a class with no superclass.")
		checkStaticError(t, `class A < A {}`, "[line 1] Error at 'A': A class can't inherit from itself.")
	}

	// Parser
	{
		checkStaticError(t, `print 1`, "[line 1] Error at end: Expect ';' after statement.")
		checkStaticError(t, `1 = 2;`, "[line 1] Error at '=': Invalid assignment target.")
		checkStaticError(t, `print (1;`, "[line 1] Error at ';': Expect ')' after expression.")
		checkStaticError(t, `print;`, "[line 1] Error at ';': Expect expression.")
		checkStaticError(
			t,
			"print 1;\nvar = 2;\nprint;",
			"[line 2] Error at '=': Expect variable name.\n[line 3] Error at ';': Expect expression.",
		)
	}

	// Lexer
	{
		checkStaticError(t, `print 1; @`, "[line 1] Error: Unexpected character.")
		checkStaticError(t, "\"abc", "[line 1] Error: Unterminated string.")
	}
}

func TestStaticErrorSkipsExecution(t *testing.T) {
	tp := &testPrinter{}
	err := newTestLox(tp).Run("print 1;\n{ var a = a; }")

	assert.ErrorIs(t, err, ErrStatic)
	assert.Equal(t, "[line 2] Error at 'a': Can't read local variable in its own initializer.\n", tp.printed)
}

func TestInitializerMayReturnEarly(t *testing.T) {
	tp := &testPrinter{}
	ok := RunSourceWithPrinter(`class A { init() { return; } } print A();`, tp)

	assert.True(t, ok)
	assert.Equal(t, "A instance\n", tp.printed)
}

func TestSessionKeepsState(t *testing.T) {
	tp := &testPrinter{}
	lox := newTestLox(tp)

	require.NoError(t, lox.Run("var a = 1;"))
	require.NoError(t, lox.Run("fun f() { return a + 1; }"))
	require.NoError(t, lox.Run("print f();"))
	assert.True(t, tp.Equals("2"))

	// Closures resolved on an earlier line keep their scope distances
	require.NoError(t, lox.Run("fun mk() { var x = 5; fun g() { return x; } return g; } var g = mk();"))
	require.NoError(t, lox.Run("print g();"))
	assert.True(t, tp.Equals("5"))

	// Errors leave the session usable
	assert.ErrorIs(t, lox.Run("1 / 0;"), ErrRuntime)
	tp.Reset()
	assert.ErrorIs(t, lox.Run("var ;"), ErrStatic)
	tp.Reset()
	require.NoError(t, lox.Run("print a;"))
	assert.True(t, tp.Equals("1"))
}

func TestStrictPlus(t *testing.T) {
	tp := &testPrinter{}
	cfg := DefaultConfig()
	cfg.Output.Color = false
	cfg.Runtime.StrictPlus = true
	lox := NewLox(cfg, tp, nil)

	require.NoError(t, lox.Run(`print "a" + "b"; print 1 + 2;`))
	assert.True(t, tp.Equals("ab\n3"))

	err := lox.Run(`print "a" + 1;`)
	assert.True(t, errors.Is(err, errNumbersOrStrings))
	assert.Equal(t, "Operands must be two numbers or two strings.\n[line 1]\n", tp.printed)
}

func TestNilMarker(t *testing.T) {
	tp := &testPrinter{}
	cfg := DefaultConfig()
	cfg.Output.Color = false
	cfg.Runtime.NilMarker = "null"

	require.NoError(t, NewLox(cfg, tp, nil).Run(`var a; print a;`))
	assert.True(t, tp.Equals("null"))
}

func TestTree(t *testing.T) {
	lox := newTestLox(&testPrinter{})

	tests := []struct {
		source string
		tree   string
	}{
		{`print 1 + 2 * 3;`, "(print (+ 1 (* 2 3)))"},
		{`var a = "x";`, `(var a "x")`},
		{`var a;`, "(var a)"},
		{`a = -b;`, "(; (= a (- b)))"},
		{`f(1, 2).x = nil;`, "(; (= (call f 1 2) x nil))"},
		{`if (a or b) print !a; else {}`, "(if-else (or a b) (print (! a)) (block))"},
		{`while (true) print (1);`, "(while true (print (group 1)))"},
		{`fun f(a, b) { return a; }`, "(fun f (a b) (return a))"},
		{`class B < A { m() { return super.m(this); } }`, "(class B < A (fun m () (return (call (super m) this))))"},
	}
	for _, test := range tests {
		tree, err := lox.Tree(test.source)
		require.NoError(t, err, test.source)
		assert.Equal(t, test.tree+"\n", tree, test.source)
	}

	_, err := lox.Tree(`print`)
	assert.ErrorIs(t, err, ErrStatic)
}
