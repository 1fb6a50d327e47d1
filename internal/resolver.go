package internal

import (
	"github.com/sirupsen/logrus"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// resolver walks the tree once before execution and records, for every
// local variable use, how many scopes separate it from its declaration.
// Uses with no entry in locals are globals.
type resolver struct {
	state *interpreterState
	log   logrus.FieldLogger

	scopes          []map[string]bool
	currentFunction functionType
	currentClass    classType

	// globals whose initializer is being resolved
	pendingGlobals map[string]bool

	locals map[expr]int
}

func newResolver(state *interpreterState, log logrus.FieldLogger) *resolver {
	return &resolver{
		state:          state,
		log:            log,
		scopes:         make([]map[string]bool, 0),
		pendingGlobals: make(map[string]bool),
		locals:         make(map[expr]int),
	}
}

func (r *resolver) resolve(stmts []stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s stmt) {
	s.accept(r)
}

func (r *resolver) resolveExpr(e expr) {
	e.accept(r)
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) declare(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.lexeme]; ok {
		r.state.tokenError(name, errAlreadyDeclared)
	}
	scope[name.lexeme] = false
}

func (r *resolver) define(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.lexeme] = true
}

func (r *resolver) resolveLocal(e expr, name *token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.lexeme]; ok {
			depth := len(r.scopes) - 1 - i
			r.locals[e] = depth
			r.log.WithFields(logrus.Fields{
				"name":  name.lexeme,
				"depth": depth,
				"line":  name.line,
			}).Debug("resolved local")
			return
		}
	}
}

func (r *resolver) resolveFunction(function *fnStmt, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() {
		r.currentFunction = enclosingFunction
	}()

	r.beginScope()
	for _, param := range function.params {
		r.declare(param)
		r.define(param)
	}
	r.resolve(function.body)
	r.endScope()
}

func (r *resolver) visitBlockStmt(stmt *blockStmt) (R, error) {
	r.beginScope()
	r.resolve(stmt.stmts)
	r.endScope()
	return nil, nil
}

func (r *resolver) visitClassStmt(stmt *classStmt) (R, error) {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() {
		r.currentClass = enclosingClass
	}()

	r.declare(stmt.name)
	r.define(stmt.name)

	if stmt.superclass != nil {
		if stmt.name.lexeme == stmt.superclass.name.lexeme {
			r.state.tokenError(stmt.superclass.name, errInheritFromSelf)
		}
		r.currentClass = classSubclass
		r.resolveExpr(stmt.superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range stmt.methods {
		declaration := fnMethod
		if method.name.lexeme == "init" {
			declaration = fnInitializer
		}
		r.resolveFunction(method, declaration)
	}

	r.endScope()

	if stmt.superclass != nil {
		r.endScope()
	}
	return nil, nil
}

func (r *resolver) visitExprStmt(stmt *exprStmt) (R, error) {
	r.resolveExpr(stmt.expression)
	return nil, nil
}

func (r *resolver) visitFnStmt(stmt *fnStmt) (R, error) {
	r.declare(stmt.name)
	r.define(stmt.name)

	r.resolveFunction(stmt, fnFunction)
	return nil, nil
}

func (r *resolver) visitIfStmt(stmt *ifStmt) (R, error) {
	r.resolveExpr(stmt.condition)
	r.resolveStmt(stmt.thenBranch)
	if stmt.elseBranch != nil {
		r.resolveStmt(stmt.elseBranch)
	}
	return nil, nil
}

func (r *resolver) visitPrintStmt(stmt *printStmt) (R, error) {
	r.resolveExpr(stmt.expression)
	return nil, nil
}

func (r *resolver) visitReturnStmt(stmt *returnStmt) (R, error) {
	if r.currentFunction == fnNone {
		r.state.tokenError(stmt.keyword, errTopLevelReturn)
	}
	if stmt.value != nil {
		if r.currentFunction == fnInitializer {
			r.state.tokenError(stmt.keyword, errInitializerReturn)
		}
		r.resolveExpr(stmt.value)
	}
	return nil, nil
}

func (r *resolver) visitVarStmt(stmt *varStmt) (R, error) {
	r.declare(stmt.name)
	if stmt.initializer != nil {
		if len(r.scopes) == 0 {
			r.pendingGlobals[stmt.name.lexeme] = true
		}
		r.resolveExpr(stmt.initializer)
		delete(r.pendingGlobals, stmt.name.lexeme)
	}
	r.define(stmt.name)
	return nil, nil
}

func (r *resolver) visitWhileStmt(stmt *whileStmt) (R, error) {
	r.resolveExpr(stmt.condition)
	r.resolveStmt(stmt.body)
	return nil, nil
}

func (r *resolver) visitAssignExpr(expr *assignExpr) (R, error) {
	r.resolveExpr(expr.value)
	r.resolveLocal(expr, expr.name)
	return nil, nil
}

func (r *resolver) visitBinaryExpr(expr *binaryExpr) (R, error) {
	r.resolveExpr(expr.left)
	r.resolveExpr(expr.right)
	return nil, nil
}

func (r *resolver) visitCallExpr(expr *callExpr) (R, error) {
	r.resolveExpr(expr.callee)
	for _, argument := range expr.arguments {
		r.resolveExpr(argument)
	}
	return nil, nil
}

func (r *resolver) visitGetExpr(expr *getExpr) (R, error) {
	r.resolveExpr(expr.object)
	return nil, nil
}

func (r *resolver) visitGroupingExpr(expr *groupingExpr) (R, error) {
	r.resolveExpr(expr.expression)
	return nil, nil
}

func (r *resolver) visitLiteralExpr(expr *literalExpr) (R, error) {
	return nil, nil
}

func (r *resolver) visitLogicalExpr(expr *logicalExpr) (R, error) {
	r.resolveExpr(expr.left)
	r.resolveExpr(expr.right)
	return nil, nil
}

func (r *resolver) visitSetExpr(expr *setExpr) (R, error) {
	r.resolveExpr(expr.value)
	r.resolveExpr(expr.object)
	return nil, nil
}

func (r *resolver) visitSuperExpr(expr *superExpr) (R, error) {
	if r.currentClass == classNone {
		r.state.tokenError(expr.keyword, errSuperOutsideClass)
	} else if r.currentClass != classSubclass {
		r.state.tokenError(expr.keyword, errSuperWithoutSuperclass)
	}
	r.resolveLocal(expr, expr.keyword)
	return nil, nil
}

func (r *resolver) visitThisExpr(expr *thisExpr) (R, error) {
	if r.currentClass == classNone {
		r.state.tokenError(expr.keyword, errThisOutsideClass)
		return nil, nil
	}
	r.resolveLocal(expr, expr.keyword)
	return nil, nil
}

func (r *resolver) visitUnaryExpr(expr *unaryExpr) (R, error) {
	r.resolveExpr(expr.right)
	return nil, nil
}

func (r *resolver) visitVariableExpr(expr *variableExpr) (R, error) {
	if len(r.scopes) > 0 {
		if initialized, ok := r.scopes[len(r.scopes)-1][expr.name.lexeme]; ok && !initialized {
			r.state.tokenError(expr.name, errOwnInitializer)
		}
	} else if r.pendingGlobals[expr.name.lexeme] {
		r.state.tokenError(expr.name, errOwnInitializer)
	}
	r.resolveLocal(expr, expr.name)
	return nil, nil
}
