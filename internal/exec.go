package internal

import (
	"github.com/sirupsen/logrus"
)

type exec struct {
	state *interpreterState
	log   logrus.FieldLogger

	globals *env
	env     *env
	locals  map[expr]int

	nilMarker  string
	strictPlus bool

	depth int
}

// maxCallDepth bounds nested calls well below the point where the Go stack
// would overflow, which no recover can catch.
const maxCallDepth = 10000

func newExec(log logrus.FieldLogger) *exec {
	globals := newEnv(nil)
	defineGlobals(globals)
	return &exec{
		log:       log,
		globals:   globals,
		env:       globals,
		locals:    make(map[expr]int),
		nilMarker: "nil",
	}
}

// interpret runs every top level statement in order and stops at the first
// runtime error, which is reported and returned.
func (e *exec) interpret(stmts []stmt) error {
	for _, s := range stmts {
		result, err := s.accept(e)
		if err != nil {
			rErr, ok := err.(*runtimeError)
			if !ok {
				rErr = newRuntimeError(nil, err)
			}
			e.log.WithField("line", rErr.line()).Debug(rErr.Error())
			e.state.runtimeErr(rErr)
			return rErr
		}
		if _, isReturn := result.(*returnValue); isReturn {
			// The resolver rejects top level returns, reaching this means
			// it let one through
			panic("return outside of a function")
		}
	}
	return nil
}

func (e *exec) resolve(locals map[expr]int) {
	for ex, depth := range locals {
		e.locals[ex] = depth
	}
}

func (e *exec) evaluate(ex expr) (interface{}, error) {
	return ex.accept(e)
}

func (e *exec) visitExprStmt(stmt *exprStmt) (R, error) {
	_, err := e.evaluate(stmt.expression)
	return nil, err
}

func (e *exec) visitPrintStmt(stmt *printStmt) (R, error) {
	value, err := e.evaluate(stmt.expression)
	if err != nil {
		return nil, err
	}
	e.state.logger.Println(stringify(value, e.nilMarker))
	return nil, nil
}

func (e *exec) visitVarStmt(stmt *varStmt) (R, error) {
	var val interface{}
	if stmt.initializer != nil {
		var err error
		if val, err = e.evaluate(stmt.initializer); err != nil {
			return nil, err
		}
	}
	e.env.define(stmt.name.lexeme, val)
	return nil, nil
}

func (e *exec) visitBlockStmt(stmt *blockStmt) (R, error) {
	return e.executeBlock(stmt.stmts, newEnv(e.env))
}

// executeBlock runs stmts inside env. The previous environment comes back on
// every way out: normal completion, return, or error.
func (e *exec) executeBlock(stmts []stmt, env *env) (R, error) {
	previous := e.env
	defer func() {
		e.env = previous
	}()
	e.env = env
	for _, s := range stmts {
		val, err := s.accept(e)
		if err != nil {
			return nil, err
		}
		if _, isReturn := val.(*returnValue); isReturn {
			return val, nil
		}
	}
	return nil, nil
}

func (e *exec) visitWhileStmt(stmt *whileStmt) (R, error) {
	for {
		cond, err := e.evaluate(stmt.condition)
		if err != nil {
			return nil, err
		}
		if !truthy(cond) {
			return nil, nil
		}
		val, err := stmt.body.accept(e)
		if err != nil {
			return nil, err
		}
		if _, isReturn := val.(*returnValue); isReturn {
			return val, nil
		}
	}
}

func (e *exec) visitReturnStmt(stmt *returnStmt) (R, error) {
	var value interface{}
	if stmt.value != nil {
		var err error
		if value, err = e.evaluate(stmt.value); err != nil {
			return nil, err
		}
	}
	return &returnValue{value: value}, nil
}

func (e *exec) visitIfStmt(stmt *ifStmt) (R, error) {
	cond, err := e.evaluate(stmt.condition)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return stmt.thenBranch.accept(e)
	}
	if stmt.elseBranch != nil {
		return stmt.elseBranch.accept(e)
	}
	return nil, nil
}

func (e *exec) visitFnStmt(stmt *fnStmt) (R, error) {
	e.env.define(stmt.name.lexeme, &loxFunction{
		declaration:   stmt,
		closure:       e.env,
		isInitializer: false,
	})
	e.log.WithFields(logrus.Fields{
		"function": stmt.name.lexeme,
		"line":     stmt.name.line,
	}).Debug("function declared")
	return nil, nil
}

func (e *exec) visitClassStmt(stmt *classStmt) (R, error) {
	var superclass *loxClass
	if stmt.superclass != nil {
		value, err := e.evaluate(stmt.superclass)
		if err != nil {
			return nil, err
		}
		class, ok := value.(*loxClass)
		if !ok {
			return nil, newRuntimeError(stmt.superclass.name, errExpectedClass)
		}
		superclass = class
	}

	e.env.define(stmt.name.lexeme, nil)

	if superclass != nil {
		e.env = newEnv(e.env)
		e.env.define("super", superclass)
	}

	methods := make(map[string]*loxFunction, len(stmt.methods))
	for _, m := range stmt.methods {
		methods[m.name.lexeme] = &loxFunction{
			declaration:   m,
			closure:       e.env,
			isInitializer: m.name.lexeme == "init",
		}
	}

	class := &loxClass{
		name:       stmt.name.lexeme,
		superclass: superclass,
		methods:    methods,
	}

	if superclass != nil {
		e.env = e.env.enclosing
	}

	e.log.WithFields(logrus.Fields{
		"class":   class.name,
		"methods": len(methods),
		"line":    stmt.name.line,
	}).Debug("class declared")

	return nil, e.env.assign(stmt.name, class)
}

func (e *exec) visitAssignExpr(expr *assignExpr) (R, error) {
	val, err := e.evaluate(expr.value)
	if err != nil {
		return nil, err
	}
	if distance, ok := e.locals[expr]; ok {
		e.env.assignAt(distance, expr.name, val)
		return val, nil
	}
	if err := e.globals.assign(expr.name, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (e *exec) visitBinaryExpr(expr *binaryExpr) (R, error) {
	left, err := e.evaluate(expr.left)
	if err != nil {
		return nil, err
	}
	right, err := e.evaluate(expr.right)
	if err != nil {
		return nil, err
	}

	switch expr.operator.token {
	case tkEqualEqual:
		return loxBool(isEqual(left, right)), nil
	case tkBangEqual:
		return loxBool(!isEqual(left, right)), nil
	case tkGreater:
		leftNum, rightNum, err := e.getNums(expr, left, right)
		return loxBool(leftNum > rightNum), err
	case tkGreaterEqual:
		leftNum, rightNum, err := e.getNums(expr, left, right)
		return loxBool(leftNum >= rightNum), err
	case tkLess:
		leftNum, rightNum, err := e.getNums(expr, left, right)
		return loxBool(leftNum < rightNum), err
	case tkLessEqual:
		leftNum, rightNum, err := e.getNums(expr, left, right)
		return loxBool(leftNum <= rightNum), err
	case tkPlus:
		return e.add(expr, left, right)
	case tkMinus:
		leftNum, rightNum, err := e.getNums(expr, left, right)
		return leftNum - rightNum, err
	case tkSlash:
		leftNum, rightNum, err := e.getNums(expr, left, right)
		if err != nil {
			return nil, err
		}
		if rightNum == 0 {
			return nil, newRuntimeError(expr.operator, errDivisionByZero)
		}
		return leftNum / rightNum, nil
	case tkStar:
		leftNum, rightNum, err := e.getNums(expr, left, right)
		return leftNum * rightNum, err
	}
	return nil, newRuntimeError(expr.operator, errUndefinedOp)
}

// add sums two numbers or concatenates two strings. Unless strictPlus is
// set, a number next to a string is rendered and concatenated too.
func (e *exec) add(expr *binaryExpr, left, right interface{}) (interface{}, error) {
	switch l := left.(type) {
	case loxNumber:
		switch r := right.(type) {
		case loxNumber:
			return l + r, nil
		case loxString:
			if !e.strictPlus {
				return loxString(l.String()) + r, nil
			}
		}
	case loxString:
		switch r := right.(type) {
		case loxString:
			return l + r, nil
		case loxNumber:
			if !e.strictPlus {
				return l + loxString(r.String()), nil
			}
		}
	}
	return nil, newRuntimeError(expr.operator, errNumbersOrStrings)
}

func (e *exec) getNums(binExpr *binaryExpr, left, right interface{}) (loxNumber, loxNumber, error) {
	leftNum, ok := left.(loxNumber)
	if !ok {
		return 0, 0, newRuntimeError(binExpr.operator, errOnlyNumbers)
	}
	rightNum, ok := right.(loxNumber)
	if !ok {
		return 0, 0, newRuntimeError(binExpr.operator, errOnlyNumbers)
	}
	return leftNum, rightNum, nil
}

func (e *exec) visitCallExpr(expr *callExpr) (R, error) {
	callee, err := e.evaluate(expr.callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]interface{}, len(expr.arguments))
	for i := range expr.arguments {
		if arguments[i], err = e.evaluate(expr.arguments[i]); err != nil {
			return nil, err
		}
	}

	fn, isFn := callee.(callable)
	if !isFn {
		return nil, newRuntimeError(expr.paren, errOnlyFunction)
	}

	if len(arguments) != fn.arity() {
		return nil, runtimeErrorf(
			expr.paren,
			errInvalidNumberArguments,
			"Expected %d arguments but got %d.",
			fn.arity(),
			len(arguments),
		)
	}

	if e.depth >= maxCallDepth {
		return nil, newRuntimeError(expr.paren, errStackOverflow)
	}
	e.depth++
	defer func() {
		e.depth--
	}()
	return fn.call(e, arguments)
}

func (e *exec) visitGetExpr(expr *getExpr) (R, error) {
	object, err := e.evaluate(expr.object)
	if err != nil {
		return nil, err
	}
	if obj, ok := object.(*loxObject); ok {
		return obj.get(expr.name)
	}
	return nil, newRuntimeError(expr.name, errOnlyInstanceProps)
}

func (e *exec) visitSetExpr(expr *setExpr) (R, error) {
	object, err := e.evaluate(expr.object)
	if err != nil {
		return nil, err
	}
	obj, ok := object.(*loxObject)
	if !ok {
		return nil, newRuntimeError(expr.name, errOnlyInstanceFields)
	}

	val, err := e.evaluate(expr.value)
	if err != nil {
		return nil, err
	}
	obj.set(expr.name, val)
	return val, nil
}

// visitSuperExpr finds the method on the superclass stored one scope above
// the scope holding "this", then binds it to the current object.
func (e *exec) visitSuperExpr(expr *superExpr) (R, error) {
	distance, ok := e.locals[expr]
	if !ok {
		return nil, runtimeErrorf(expr.keyword, errUndefinedVar, "Undefined variable '%s'.", expr.keyword.lexeme)
	}
	superclass := e.env.getAt(distance, "super").(*loxClass)
	object := e.env.getAt(distance-1, "this").(*loxObject)

	method := superclass.findMethod(expr.method.lexeme)
	if method == nil {
		return nil, runtimeErrorf(expr.method, errUndefinedProp, "Undefined property '%s'.", expr.method.lexeme)
	}
	return method.bind(object), nil
}

func (e *exec) visitGroupingExpr(expr *groupingExpr) (R, error) {
	return e.evaluate(expr.expression)
}

func (e *exec) visitLiteralExpr(expr *literalExpr) (R, error) {
	return expr.value, nil
}

func (e *exec) visitLogicalExpr(expr *logicalExpr) (R, error) {
	left, err := e.evaluate(expr.left)
	if err != nil {
		return nil, err
	}

	if expr.operator.token == tkOr {
		if truthy(left) {
			return left, nil
		}
	} else if !truthy(left) {
		return left, nil
	}

	return e.evaluate(expr.right)
}

func (e *exec) visitThisExpr(expr *thisExpr) (R, error) {
	return e.lookUpVariable(expr.keyword, expr)
}

func (e *exec) visitUnaryExpr(expr *unaryExpr) (R, error) {
	value, err := e.evaluate(expr.right)
	if err != nil {
		return nil, err
	}
	switch expr.operator.token {
	case tkBang:
		return loxBool(!truthy(value)), nil
	case tkMinus:
		valueNum, ok := value.(loxNumber)
		if !ok {
			return nil, newRuntimeError(expr.operator, errOnlyNumber)
		}
		return -valueNum, nil
	}
	return nil, newRuntimeError(expr.operator, errUndefinedOp)
}

func (e *exec) visitVariableExpr(expr *variableExpr) (R, error) {
	return e.lookUpVariable(expr.name, expr)
}

func (e *exec) lookUpVariable(name *token, ex expr) (interface{}, error) {
	if distance, ok := e.locals[ex]; ok {
		return e.env.getAt(distance, name.lexeme), nil
	}
	return e.globals.get(name)
}
