package internal

import (
	"fmt"
	"strings"
)

// printTree renders every parsed statement as an s-expression, one per line
func (s *interpreterState) printTree() string {
	var out strings.Builder
	for _, st := range s.stmts {
		out.WriteString(stringNode(st))
		out.WriteString("\n")
	}
	return out.String()
}

type stringVisitor struct{}

func stringNode(node interface{}) string {
	var (
		r R
		v stringVisitor
	)
	switch n := node.(type) {
	case stmt:
		r, _ = n.accept(v)
	case expr:
		r, _ = n.accept(v)
	default:
		return "nil"
	}
	return r.(string)
}

func (v stringVisitor) parenthesize(name string, parts ...interface{}) string {
	out := "(" + name
	for _, p := range parts {
		switch part := p.(type) {
		case string:
			out += " " + part
		case nil:
			out += " nil"
		default:
			out += " " + stringNode(part)
		}
	}
	return out + ")"
}

func (v stringVisitor) visitExprStmt(stmt *exprStmt) (R, error) {
	return v.parenthesize(";", stmt.expression), nil
}

func (v stringVisitor) visitPrintStmt(stmt *printStmt) (R, error) {
	return v.parenthesize("print", stmt.expression), nil
}

func (v stringVisitor) visitVarStmt(stmt *varStmt) (R, error) {
	if stmt.initializer == nil {
		return v.parenthesize("var", stmt.name.lexeme), nil
	}
	return v.parenthesize("var", stmt.name.lexeme, stmt.initializer), nil
}

func (v stringVisitor) visitFnStmt(stmt *fnStmt) (R, error) {
	params := make([]string, len(stmt.params))
	for i, param := range stmt.params {
		params[i] = param.lexeme
	}
	out := "(fun " + stmt.name.lexeme + " (" + strings.Join(params, " ") + ")"
	for _, st := range stmt.body {
		out += " " + stringNode(st)
	}
	return out + ")", nil
}

func (v stringVisitor) visitClassStmt(stmt *classStmt) (R, error) {
	out := "(class " + stmt.name.lexeme
	if stmt.superclass != nil {
		out += " < " + stmt.superclass.name.lexeme
	}
	for _, method := range stmt.methods {
		out += " " + stringNode(method)
	}
	return out + ")", nil
}

func (v stringVisitor) visitBlockStmt(stmt *blockStmt) (R, error) {
	out := "(block"
	for _, s := range stmt.stmts {
		out += " " + stringNode(s)
	}
	return out + ")", nil
}

func (v stringVisitor) visitWhileStmt(stmt *whileStmt) (R, error) {
	return v.parenthesize("while", stmt.condition, stmt.body), nil
}

func (v stringVisitor) visitReturnStmt(stmt *returnStmt) (R, error) {
	if stmt.value == nil {
		return "(return)", nil
	}
	return v.parenthesize("return", stmt.value), nil
}

func (v stringVisitor) visitIfStmt(stmt *ifStmt) (R, error) {
	if stmt.elseBranch == nil {
		return v.parenthesize("if", stmt.condition, stmt.thenBranch), nil
	}
	return v.parenthesize("if-else", stmt.condition, stmt.thenBranch, stmt.elseBranch), nil
}

func (v stringVisitor) visitAssignExpr(expr *assignExpr) (R, error) {
	return v.parenthesize("=", expr.name.lexeme, expr.value), nil
}

func (v stringVisitor) visitBinaryExpr(expr *binaryExpr) (R, error) {
	return v.parenthesize(expr.operator.lexeme, expr.left, expr.right), nil
}

func (v stringVisitor) visitCallExpr(expr *callExpr) (R, error) {
	parts := []interface{}{expr.callee}
	for _, arg := range expr.arguments {
		parts = append(parts, arg)
	}
	return v.parenthesize("call", parts...), nil
}

func (v stringVisitor) visitGetExpr(expr *getExpr) (R, error) {
	return v.parenthesize(".", expr.object, expr.name.lexeme), nil
}

func (v stringVisitor) visitSetExpr(expr *setExpr) (R, error) {
	return v.parenthesize("=", expr.object, expr.name.lexeme, expr.value), nil
}

func (v stringVisitor) visitSuperExpr(expr *superExpr) (R, error) {
	return v.parenthesize("super", expr.method.lexeme), nil
}

func (v stringVisitor) visitThisExpr(expr *thisExpr) (R, error) {
	return "this", nil
}

func (v stringVisitor) visitGroupingExpr(expr *groupingExpr) (R, error) {
	return v.parenthesize("group", expr.expression), nil
}

func (v stringVisitor) visitLiteralExpr(expr *literalExpr) (R, error) {
	if str, ok := expr.value.(loxString); ok {
		return fmt.Sprintf("%q", string(str)), nil
	}
	return stringify(expr.value, "nil"), nil
}

func (v stringVisitor) visitLogicalExpr(expr *logicalExpr) (R, error) {
	return v.parenthesize(expr.operator.lexeme, expr.left, expr.right), nil
}

func (v stringVisitor) visitUnaryExpr(expr *unaryExpr) (R, error) {
	return v.parenthesize(expr.operator.lexeme, expr.right), nil
}

func (v stringVisitor) visitVariableExpr(expr *variableExpr) (R, error) {
	return expr.name.lexeme, nil
}
