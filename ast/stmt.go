package ast

// Stmt is implemented by every statement node.  Every expression is also a
// statement (an expression statement).
type Stmt interface {
	ASTNode

	stmtNode()
}

// Block represents a list of statements.  Blocks do not open a new scope.
type Block struct {
	ASTBase

	// The statements of the block.
	Stmts []Stmt
}

// IfStmt represents an if statement with an optional else branch.
type IfStmt struct {
	ASTBase

	// The condition of the if statement.
	Cond Expr

	// The body executed when the condition holds.
	Then Stmt

	// The (optional) else branch.
	Else Stmt
}

// WhileStmt represents a while loop or a do-while loop.
type WhileStmt struct {
	ASTBase

	// The condition of the loop.
	Cond Expr

	// The body of the loop.
	Body Stmt

	// Whether the body runs once before the condition is first tested.
	IsDoWhile bool
}

// ForStmt represents a C-style for loop.
type ForStmt struct {
	ASTBase

	// The (optional) initializer statement.
	Init Stmt

	// The (optional) loop condition.  A missing condition loops forever.
	Cond Expr

	// The (optional) update expression run after every iteration.
	Loop Expr

	// The body of the loop.
	Body Stmt
}

// ContinueStmt represents a `continue` statement.
type ContinueStmt struct {
	ASTBase
}

// BreakStmt represents a `break` statement.
type BreakStmt struct {
	ASTBase
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	ASTBase

	// The (optional) returned value.
	Value Expr
}

// Enumeration of the storage representations a declared variable may have.
const (
	TypeWord = iota // 64-bit unsigned integer.
	TypeBool        // 1-bit boolean.
)

// VarDecl is a single variable declared by a declaration statement.
type VarDecl struct {
	ASTBase

	// The name of the variable.
	Name string

	// The storage representation of the variable: one of the enumerated
	// variable types.
	Type int
}

// DeclStmt represents a declaration of one or more variables sharing a single
// (optional) initializer.
type DeclStmt struct {
	ASTBase

	// The declared variables.
	Vars []*VarDecl

	// The (optional) initializer.  It only initializes the first variable.
	Value Expr
}

func (*Block) stmtNode()        {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode() {}
func (*BreakStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()   {}
func (*DeclStmt) stmtNode()     {}
