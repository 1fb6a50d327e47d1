package main

import (
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
)

//go:generate go run . -dir ../../internal

var stmtTypes = []string{
	"Block: stmts []stmt",
	"Class: name *token, superclass *variableExpr, methods []*fnStmt",
	"Expr: expression expr",
	"Fn: name *token, params []*token, body []stmt",
	"If: keyword *token, condition expr, thenBranch stmt, elseBranch stmt",
	"Print: keyword *token, expression expr",
	"Return: keyword *token, value expr",
	"Var: name *token, initializer expr",
	"While: keyword *token, condition expr, body stmt",
}

var exprTypes = []string{
	"Assign: name *token, value expr",
	"Binary: left expr, operator *token, right expr",
	"Call: callee expr, paren *token, arguments []expr",
	"Get: object expr, name *token",
	"Grouping: expression expr",
	"Literal: value interface{}",
	"Logical: left expr, operator *token, right expr",
	"Set: object expr, name *token, value expr",
	"Super: keyword *token, method *token",
	"This: keyword *token",
	"Unary: operator *token, right expr",
	"Variable: name *token",
}

func main() {
	dir := flag.String("dir", ".", "output directory for expr.go and stmt.go")
	flag.Parse()

	outputs := map[string]string{
		"stmt.go": generateAst("Stmt", stmtTypes),
		"expr.go": generateAst("Expr", exprTypes),
	}
	for name, src := range outputs {
		formatted, err := format.Source([]byte(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			os.Exit(1)
		}
		if err := os.WriteFile(filepath.Join(*dir, name), formatted, 0644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func generateAst(baseName string, types []string) string {
	out := "// Code generated by cmd/ast; DO NOT EDIT.\n\n"
	out += "package internal\n\n"

	// Start base interface
	out += "type " + strings.ToLower(baseName) + " interface {\n"
	out += "\taccept(" + strings.ToLower(baseName) + "Visitor) (R, error)\n"
	out += "}\n\n"
	// End base interface

	// Start Visitor interface
	out += fmt.Sprintf("type %sVisitor interface {\n", strings.ToLower(baseName))
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		name := strings.TrimSpace(typeDef[0])
		structType := strings.ToLower(string(name[0])) + name[1:] + baseName
		out += "\tvisit" + name + baseName + "(" + strings.ToLower(baseName) + " *" + structType + ") (R, error)\n"
	}
	out += "}\n\n"
	// End Visitor interface

	// Start  structs
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		structName := strings.TrimSpace(typeDef[0])
		structFields := strings.TrimSpace(typeDef[1])
		out += generateType(baseName, structName, structFields)
	}
	// End structs

	return out
}

func generateType(baseName, name, fields string) string {
	// Start Structure Definition
	structName := strings.ToLower(string(name[0])) + name[1:] + baseName
	out := "type " + structName + " struct {\n"
	fieldArray := strings.Split(fields, ",")
	for _, field := range fieldArray {
		out += "\t" + strings.TrimSpace(field) + "\n"
	}
	out += "}\n\n"
	// End Structure Definition

	// Start Method Definition
	out += "func (s *" + structName + ") accept(visitor " + strings.ToLower(baseName) + "Visitor) (R, error) {\n"
	out += "\treturn visitor.visit" + name + baseName + "(s)\n"
	out += "}\n\n"
	// End Method Definition

	return out
}
