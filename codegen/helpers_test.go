package codegen

import (
	"errors"
	"testing"

	"github.com/llir/llvm/ir"

	"github.com/sunhaibo2004/SOLL/ast"
)

// Tree construction shorthands.  Operators are given by their spelling.

func num(v uint64) *ast.NumberLiteral    { return &ast.NumberLiteral{Value: v} }
func boolLit(v bool) *ast.BooleanLiteral { return &ast.BooleanLiteral{Value: v} }
func strLit(s string) *ast.StringLiteral { return &ast.StringLiteral{Value: s} }
func ident(name string) *ast.Identifier  { return &ast.Identifier{Name: name} }
func paren(x ast.Expr) *ast.ParenExpr    { return &ast.ParenExpr{Inner: x} }

func binop(lhs ast.Expr, op string, rhs ast.Expr) *ast.BinaryOp {
	kind, ok := ast.BinaryOpFromName(op)
	if !ok {
		panic("unknown binary operator " + op)
	}

	return &ast.BinaryOp{Op: kind, LHS: lhs, RHS: rhs}
}

func unop(op string, operand ast.Expr) *ast.UnaryOp {
	kind, ok := ast.UnaryOpFromName(op)
	if !ok {
		panic("unknown unary operator " + op)
	}

	return &ast.UnaryOp{Op: kind, Operand: operand}
}

func assign(name string, value ast.Expr) *ast.BinaryOp {
	return binop(ident(name), "=", value)
}

func callTo(callee string, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: ident(callee), Args: args}
}

func blockOf(stmts ...ast.Stmt) *ast.Block {
	return &ast.Block{Stmts: stmts}
}

func declWord(name string, value ast.Expr) *ast.DeclStmt {
	return &ast.DeclStmt{Vars: []*ast.VarDecl{{Name: name, Type: ast.TypeWord}}, Value: value}
}

func declBool(name string, value ast.Expr) *ast.DeclStmt {
	return &ast.DeclStmt{Vars: []*ast.VarDecl{{Name: name, Type: ast.TypeBool}}, Value: value}
}

func ret(value ast.Expr) *ast.ReturnStmt {
	return &ast.ReturnStmt{Value: value}
}

func ifStmt(cond ast.Expr, then, els ast.Stmt) *ast.IfStmt {
	return &ast.IfStmt{Cond: cond, Then: then, Else: els}
}

func whileLoop(cond ast.Expr, body ...ast.Stmt) *ast.WhileStmt {
	return &ast.WhileStmt{Cond: cond, Body: blockOf(body...)}
}

func doWhileLoop(cond ast.Expr, body ...ast.Stmt) *ast.WhileStmt {
	return &ast.WhileStmt{Cond: cond, Body: blockOf(body...), IsDoWhile: true}
}

func forLoop(init ast.Stmt, cond, update ast.Expr, body ...ast.Stmt) *ast.ForStmt {
	return &ast.ForStmt{Init: init, Cond: cond, Loop: update, Body: blockOf(body...)}
}

func brk() *ast.BreakStmt     { return &ast.BreakStmt{} }
func cont() *ast.ContinueStmt { return &ast.ContinueStmt{} }

// valueFunc builds a word-returning function.
func valueFunc(name string, params []string, body ...ast.Stmt) *ast.FuncDecl {
	fd := voidFunc(name, params, body...)
	fd.ReturnsValue = true
	return fd
}

// voidFunc builds a function returning nothing.
func voidFunc(name string, params []string, body ...ast.Stmt) *ast.FuncDecl {
	fd := &ast.FuncDecl{Name: name, Body: blockOf(body...)}
	for _, param := range params {
		fd.Params = append(fd.Params, &ast.Param{Name: param})
	}

	return fd
}

// -----------------------------------------------------------------------------

// generate generates fd into a fresh module and fails the test on any fault.
func generate(t *testing.T, fd *ast.FuncDecl) *ir.Func {
	t.Helper()
	return generateWith(t, DefaultOptions(), fd)
}

func generateWith(t *testing.T, opts Options, fd *ast.FuncDecl) *ir.Func {
	t.Helper()

	g := NewGenerator(ir.NewModule(), opts)
	fn, err := g.GenerateFunc(fd)
	if err != nil {
		t.Fatalf("generating `%s`: %s", fd.Name, err)
	}

	checkWellFormed(t, fn)
	return fn
}

// expectFault generates fd and checks it fails with the given fault kind.
func expectFault(t *testing.T, opts Options, fd *ast.FuncDecl, kind error) *LoweringError {
	t.Helper()

	g := NewGenerator(ir.NewModule(), opts)
	fn, err := g.GenerateFunc(fd)
	if err == nil {
		t.Fatalf("generating `%s` succeeded, expected %q", fd.Name, kind)
	}

	if fn != nil {
		t.Errorf("a function was returned alongside the error")
	}

	if !errors.Is(err, kind) {
		t.Fatalf("generating `%s` failed with %q, expected %q", fd.Name, err, kind)
	}

	var lerr *LoweringError
	if !errors.As(err, &lerr) {
		t.Fatalf("error %q is not a *LoweringError", err)
	}

	if lerr.Func != fd.Name {
		t.Errorf("fault names function `%s`, expected `%s`", lerr.Func, fd.Name)
	}

	return lerr
}

// blockNames returns the names of the blocks of fn in order.
func blockNames(fn *ir.Func) []string {
	names := make([]string, len(fn.Blocks))
	for i, block := range fn.Blocks {
		names[i] = block.Name()
	}

	return names
}

// findBlock returns the block of fn with the given name.
func findBlock(t *testing.T, fn *ir.Func, name string) *ir.Block {
	t.Helper()

	for _, block := range fn.Blocks {
		if block.Name() == name {
			return block
		}
	}

	t.Fatalf("function `%s` has no block %s; blocks: %v", fn.Name(), name, blockNames(fn))
	return nil
}
