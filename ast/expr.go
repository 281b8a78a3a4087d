package ast

// Expr represents an expression simple or complex. All expression nodes
// implement the `Expr` interface.
type Expr interface {
	Stmt

	// Category is the value category of the expression. It should be one of the
	// enumerated value categories.
	Category() int

	exprNode()
}

// Enumeration of value categories.
const (
	LValue = iota
	RValue
)

// -----------------------------------------------------------------------------

// UnaryOp represents a unary operator application.
type UnaryOp struct {
	ASTBase

	Op      UnaryOpKind
	Operand Expr
}

// Category of a unary operator application: pre-increment and pre-decrement
// designate their (mutated) operand.
func (uo *UnaryOp) Category() int {
	if uo.Op == UOPreInc || uo.Op == UOPreDec {
		return LValue
	}

	return RValue
}

// BinaryOp represents a binary operator application, including assignment.
type BinaryOp struct {
	ASTBase

	Op       BinaryOpKind
	LHS, RHS Expr
}

func (bo *BinaryOp) Category() int {
	return RValue
}

// CallExpr represents a function call.
type CallExpr struct {
	ASTBase

	Callee Expr
	Args   []Expr
}

func (ce *CallExpr) Category() int {
	return RValue
}

// CalleeName returns the name of the called function if the callee is a plain
// identifier.
func (ce *CallExpr) CalleeName() (string, bool) {
	if id, ok := ce.Callee.(*Identifier); ok {
		return id.Name, true
	}

	return "", false
}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	ASTBase

	Inner Expr
}

func (pe *ParenExpr) Category() int {
	return pe.Inner.Category()
}

// -----------------------------------------------------------------------------

// Identifier represents a named value.
type Identifier struct {
	ASTBase

	Name string
}

func (id *Identifier) Category() int {
	return LValue
}

// BooleanLiteral represents `true` or `false`.
type BooleanLiteral struct {
	ASTBase

	Value bool
}

func (bl *BooleanLiteral) Category() int {
	return RValue
}

// StringLiteral represents a string literal.  The value is unescaped.
type StringLiteral struct {
	ASTBase

	Value string
}

func (sl *StringLiteral) Category() int {
	return RValue
}

// NumberLiteral represents an unsigned integer literal.
type NumberLiteral struct {
	ASTBase

	Value uint64
}

func (nl *NumberLiteral) Category() int {
	return RValue
}

func (*UnaryOp) stmtNode()        {}
func (*BinaryOp) stmtNode()       {}
func (*CallExpr) stmtNode()       {}
func (*ParenExpr) stmtNode()      {}
func (*Identifier) stmtNode()     {}
func (*BooleanLiteral) stmtNode() {}
func (*StringLiteral) stmtNode()  {}
func (*NumberLiteral) stmtNode()  {}

func (*UnaryOp) exprNode()        {}
func (*BinaryOp) exprNode()       {}
func (*CallExpr) exprNode()       {}
func (*ParenExpr) exprNode()      {}
func (*Identifier) exprNode()     {}
func (*BooleanLiteral) exprNode() {}
func (*StringLiteral) exprNode()  {}
func (*NumberLiteral) exprNode()  {}
