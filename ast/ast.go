// Package ast defines the statement/expression tree handed to the function
// body generator by the upstream parsing and type checking layers.
package ast

import "github.com/sunhaibo2004/SOLL/report"

// The abstract interface for all AST nodes.
type ASTNode interface {
	// The text span of the AST.
	Span() *report.TextSpan
}

// A utility base struct for all AST nodes.
type ASTBase struct {
	// The span over which the AST node occurs.
	span *report.TextSpan
}

// NewASTBaseOn creates a new AST base with the given span.
func NewASTBaseOn(span *report.TextSpan) ASTBase {
	return ASTBase{span: span}
}

// NewASTBaseOver creates a new AST base spanning over two spans.
func NewASTBaseOver(start, end *report.TextSpan) ASTBase {
	if start == nil || end == nil {
		return ASTBase{}
	}

	return ASTBase{span: report.NewSpanOver(start, end)}
}

func (ab ASTBase) Span() *report.TextSpan {
	return ab.span
}

// -----------------------------------------------------------------------------

// Param is a single formal parameter of a function.
type Param struct {
	ASTBase

	// The name of the parameter.
	Name string
}

// FuncDecl is a function declaration: the unit of generation.
type FuncDecl struct {
	ASTBase

	// The name of the function.
	Name string

	// The ordered formal parameters.
	Params []*Param

	// Whether the function yields a value.  Functions which do not return a
	// value are generated with a `void` return type.
	ReturnsValue bool

	// The body of the function.
	Body Stmt
}
