// Package treefile reads function trees encoded in YAML.  A tree file is a
// mapping with a single `functions` key listing the functions to generate:
//
//	functions:
//	  - name: inc
//	    params: [a]
//	    returns: true
//	    body:
//	      - decl: [x]
//	        value: {op: "+", lhs: a, rhs: 1}
//	      - return: x
//
// Expressions are written as scalars (numbers, `true`/`false` and identifiers)
// or as mappings: `{op, lhs, rhs}` for binary operators, `{op, operand}` for
// unary operators, `{call, args}`, `{paren}` and `{str}` for string literals.
// Statements are `break`, `continue`, `return` or mappings with one of the keys
// `block`, `if`, `while`, `do-while`, `for`, `return` or `decl`; any other
// expression is an expression statement.
package treefile

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sunhaibo2004/SOLL/ast"
	"github.com/sunhaibo2004/SOLL/report"
	"github.com/sunhaibo2004/SOLL/util"
)

// MustLoad reads and decodes the tree file at path.  Errors are raised as
// panics: *report.LocalCompileError values for malformed trees and plain
// errors otherwise.  It must be called under a deferred report.CatchErrors.
func MustLoad(path string) []*ast.FuncDecl {
	buff, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	return decode(buff)
}

// Decode decodes the contents of a tree file.  Decoding errors are
// *report.LocalCompileError values positioned on the offending node.
func Decode(buff []byte) (fds []*ast.FuncDecl, err error) {
	defer func() {
		if x := recover(); x != nil {
			derr, ok := x.(error)
			if _, rt := x.(runtime.Error); rt || !ok {
				panic(x)
			}

			fds, err = nil, derr
		}
	}()

	return decode(buff), nil
}

func decode(buff []byte) []*ast.FuncDecl {
	var root yaml.Node
	if err := yaml.Unmarshal(buff, &root); err != nil {
		panic(err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}

	doc := fields(root.Content[0], "functions")
	funcs, ok := doc["functions"]
	if !ok {
		return nil
	}

	fds := util.Map(sequence(funcs), decodeFunc)

	seen := make(map[string]*ast.FuncDecl)
	for _, fd := range fds {
		if prev, ok := seen[fd.Name]; ok {
			panic(report.Raise(fd.Span(), "function `%s` is already defined at %s", fd.Name, prev.Span()))
		}

		seen[fd.Name] = fd
	}

	return fds
}

// -----------------------------------------------------------------------------

// spanOf returns the span of a node.  YAML positions are one-indexed.
func spanOf(node *yaml.Node) *report.TextSpan {
	width := 1
	if node.Kind == yaml.ScalarNode && len(node.Value) > 0 {
		width = len(node.Value)
	}

	return &report.TextSpan{
		StartLine: node.Line - 1,
		StartCol:  node.Column - 1,
		EndLine:   node.Line - 1,
		EndCol:    node.Column - 1 + width,
	}
}

func raise(node *yaml.Node, msg string, args ...interface{}) {
	panic(report.Raise(spanOf(node), msg, args...))
}

func base(node *yaml.Node) ast.ASTBase {
	return ast.NewASTBaseOn(spanOf(node))
}

// fields returns the values of a mapping by key.  Keys other than the allowed
// keys are an error.
func fields(node *yaml.Node, allowed ...string) map[string]*yaml.Node {
	if node.Kind != yaml.MappingNode {
		raise(node, "expected a mapping")
	}

	m := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !util.Contains(allowed, key.Value) {
			raise(key, "unexpected key `%s`", key.Value)
		}

		if _, ok := m[key.Value]; ok {
			raise(key, "duplicate key `%s`", key.Value)
		}

		m[key.Value] = node.Content[i+1]
	}

	return m
}

// keys returns the keys of a mapping node in order.
func keys(node *yaml.Node) []string {
	var ks []string
	for i := 0; i < len(node.Content); i += 2 {
		ks = append(ks, node.Content[i].Value)
	}

	return ks
}

func sequence(node *yaml.Node) []*yaml.Node {
	if node.Kind != yaml.SequenceNode {
		raise(node, "expected a list")
	}

	return node.Content
}

func scalar(node *yaml.Node) string {
	if node.Kind != yaml.ScalarNode {
		raise(node, "expected a scalar")
	}

	return node.Value
}

// isNull returns whether node is absent or an explicit null.
func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

// -----------------------------------------------------------------------------

func decodeFunc(node *yaml.Node) *ast.FuncDecl {
	f := fields(node, "name", "params", "returns", "body")

	nameNode, ok := f["name"]
	if !ok {
		raise(node, "function is missing a name")
	}

	fd := &ast.FuncDecl{
		ASTBase: base(nameNode),
		Name:    scalar(nameNode),
	}

	if params, ok := f["params"]; ok {
		fd.Params = util.Map(sequence(params), func(p *yaml.Node) *ast.Param {
			return &ast.Param{ASTBase: base(p), Name: identName(p)}
		})
	}

	if returns, ok := f["returns"]; ok {
		fd.ReturnsValue = decodeBool(returns)
	}

	body, ok := f["body"]
	if !ok {
		raise(node, "function `%s` has no body", fd.Name)
	}

	fd.Body = decodeBlock(body)
	return fd
}

func decodeBool(node *yaml.Node) bool {
	var b bool
	if node.Kind != yaml.ScalarNode || node.Tag != "!!bool" || node.Decode(&b) != nil {
		raise(node, "expected `true` or `false`")
	}

	return b
}

// identName returns the name held by an identifier scalar.
func identName(node *yaml.Node) string {
	name := scalar(node)
	if node.Tag != "!!str" || name == "" {
		raise(node, "expected an identifier")
	}

	return name
}

func decodeBlock(node *yaml.Node) *ast.Block {
	return &ast.Block{
		ASTBase: base(node),
		Stmts:   util.Map(sequence(node), decodeStmt),
	}
}

// decodeBody decodes a statement which may be written as a list of statements.
func decodeBody(node *yaml.Node) ast.Stmt {
	if node.Kind == yaml.SequenceNode {
		return decodeBlock(node)
	}

	return decodeStmt(node)
}

func decodeStmt(node *yaml.Node) ast.Stmt {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" {
		switch node.Value {
		case "break":
			return &ast.BreakStmt{ASTBase: base(node)}
		case "continue":
			return &ast.ContinueStmt{ASTBase: base(node)}
		case "return":
			return &ast.ReturnStmt{ASTBase: base(node)}
		}
	}

	if node.Kind != yaml.MappingNode {
		return decodeExpr(node)
	}

	switch stmtKind(node) {
	case "block":
		f := fields(node, "block")
		return decodeBlock(f["block"])
	case "if":
		f := fields(node, "if", "then", "else")
		ifStmt := &ast.IfStmt{ASTBase: base(node), Cond: decodeExpr(f["if"])}

		then, ok := f["then"]
		if !ok {
			raise(node, "if statement has no `then` branch")
		}

		ifStmt.Then = decodeBody(then)
		if els, ok := f["else"]; ok {
			ifStmt.Else = decodeBody(els)
		}

		return ifStmt
	case "while", "do-while":
		kind := stmtKind(node)
		f := fields(node, kind, "body")

		body, ok := f["body"]
		if !ok {
			raise(node, "loop has no body")
		}

		return &ast.WhileStmt{
			ASTBase:   base(node),
			Cond:      decodeExpr(f[kind]),
			Body:      decodeBody(body),
			IsDoWhile: kind == "do-while",
		}
	case "for":
		f := fields(node, "for", "body")

		body, ok := f["body"]
		if !ok {
			raise(node, "loop has no body")
		}

		forStmt := &ast.ForStmt{ASTBase: base(node), Body: decodeBody(body)}
		if !isNull(f["for"]) {
			header := fields(f["for"], "init", "cond", "update")
			if init, ok := header["init"]; ok && !isNull(init) {
				forStmt.Init = decodeStmt(init)
			}

			if cond, ok := header["cond"]; ok && !isNull(cond) {
				forStmt.Cond = decodeExpr(cond)
			}

			if update, ok := header["update"]; ok && !isNull(update) {
				forStmt.Loop = decodeExpr(update)
			}
		}

		return forStmt
	case "return":
		f := fields(node, "return")
		ret := &ast.ReturnStmt{ASTBase: base(node)}
		if !isNull(f["return"]) {
			ret.Value = decodeExpr(f["return"])
		}

		return ret
	case "decl":
		return decodeDecl(node)
	}

	return decodeExpr(node)
}

// stmtKinds are the keys marking a mapping as a statement.
var stmtKinds = []string{"block", "if", "while", "do-while", "for", "return", "decl"}

// stmtKind returns the statement key of a mapping or the empty string for
// expression statements.
func stmtKind(node *yaml.Node) string {
	for _, key := range keys(node) {
		if util.Contains(stmtKinds, key) {
			return key
		}
	}

	return ""
}

func decodeDecl(node *yaml.Node) *ast.DeclStmt {
	f := fields(node, "decl", "value")

	decl := &ast.DeclStmt{
		ASTBase: base(node),
		Vars:    util.Map(sequence(f["decl"]), decodeVar),
	}

	if len(decl.Vars) == 0 {
		raise(f["decl"], "declaration declares no variables")
	}

	if value, ok := f["value"]; ok {
		decl.Value = decodeExpr(value)
	}

	return decl
}

// decodeVar decodes a declared variable: either a bare name (a word) or a
// mapping with a name and a type.
func decodeVar(node *yaml.Node) *ast.VarDecl {
	if node.Kind == yaml.ScalarNode {
		return &ast.VarDecl{ASTBase: base(node), Name: identName(node), Type: ast.TypeWord}
	}

	f := fields(node, "name", "type")
	nameNode, ok := f["name"]
	if !ok {
		raise(node, "variable is missing a name")
	}

	vd := &ast.VarDecl{ASTBase: base(nameNode), Name: identName(nameNode), Type: ast.TypeWord}
	if typ, ok := f["type"]; ok {
		switch scalar(typ) {
		case "uint", "word":
		case "bool":
			vd.Type = ast.TypeBool
		default:
			raise(typ, "unknown variable type `%s`", typ.Value)
		}
	}

	return vd
}

// -----------------------------------------------------------------------------

func decodeExpr(node *yaml.Node) ast.Expr {
	if node == nil {
		panic(report.Raise(nil, "missing expression"))
	}

	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalarExpr(node)
	case yaml.MappingNode:
	default:
		raise(node, "expected an expression")
	}

	ks := keys(node)
	switch {
	case util.Contains(ks, "lhs") || util.Contains(ks, "rhs"):
		f := fields(node, "op", "lhs", "rhs")
		op, ok := ast.BinaryOpFromName(scalar(required(node, f, "op")))
		if !ok {
			raise(f["op"], "unknown binary operator `%s`", f["op"].Value)
		}

		lhs, rhs := required(node, f, "lhs"), required(node, f, "rhs")
		return &ast.BinaryOp{
			ASTBase: ast.NewASTBaseOver(spanOf(lhs), spanOf(rhs)),
			Op:      op,
			LHS:     decodeExpr(lhs),
			RHS:     decodeExpr(rhs),
		}
	case util.Contains(ks, "operand"):
		f := fields(node, "op", "operand")
		op, ok := ast.UnaryOpFromName(scalar(required(node, f, "op")))
		if !ok {
			raise(f["op"], "unknown unary operator `%s`", f["op"].Value)
		}

		return &ast.UnaryOp{
			ASTBase: base(f["op"]),
			Op:      op,
			Operand: decodeExpr(f["operand"]),
		}
	case util.Contains(ks, "call"):
		f := fields(node, "call", "args")
		call := &ast.CallExpr{
			ASTBase: base(node),
			Callee:  decodeExpr(f["call"]),
		}

		if args, ok := f["args"]; ok {
			call.Args = util.Map(sequence(args), decodeExpr)
		}

		return call
	case util.Contains(ks, "paren"):
		f := fields(node, "paren")
		return &ast.ParenExpr{ASTBase: base(node), Inner: decodeExpr(f["paren"])}
	case util.Contains(ks, "str"):
		f := fields(node, "str")
		return &ast.StringLiteral{ASTBase: base(f["str"]), Value: scalar(f["str"])}
	}

	raise(node, "unknown expression with keys %v", ks)
	return nil
}

// required returns the value of a required key of a mapping.
func required(node *yaml.Node, f map[string]*yaml.Node, key string) *yaml.Node {
	value, ok := f[key]
	if !ok {
		raise(node, "missing `%s`", key)
	}

	return value
}

func decodeScalarExpr(node *yaml.Node) ast.Expr {
	switch node.Tag {
	case "!!int":
		v, err := strconv.ParseUint(node.Value, 0, 64)
		if err != nil {
			raise(node, "invalid number literal: %s", numError(err))
		}

		return &ast.NumberLiteral{ASTBase: base(node), Value: v}
	case "!!bool":
		return &ast.BooleanLiteral{ASTBase: base(node), Value: decodeBool(node)}
	case "!!str":
		return &ast.Identifier{ASTBase: base(node), Name: identName(node)}
	}

	raise(node, "expected a number, boolean or identifier")
	return nil
}

// numError strips the function name and input from a strconv error.
func numError(err error) string {
	if nerr, ok := err.(*strconv.NumError); ok {
		return nerr.Err.Error()
	}

	return fmt.Sprint(err)
}
