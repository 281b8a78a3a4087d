package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"github.com/sunhaibo2004/SOLL/ast"
)

// genStmt generates a statement into the current block.
func (fg *funcGen) genStmt(stmt ast.Stmt) {
	// blocks generate no code themselves: only their statements need an open
	// block
	if block, ok := stmt.(*ast.Block); ok {
		fg.genBlock(block)
		return
	}

	fg.openBlock()

	switch v := stmt.(type) {
	case *ast.IfStmt:
		fg.genIfStmt(v)
	case *ast.WhileStmt:
		fg.genWhileStmt(v)
	case *ast.ForStmt:
		fg.genForStmt(v)
	case *ast.ContinueStmt:
		fg.genContinueStmt(v)
	case *ast.BreakStmt:
		fg.genBreakStmt(v)
	case *ast.ReturnStmt:
		fg.genReturnStmt(v)
	case *ast.DeclStmt:
		fg.genDeclStmt(v)
	case ast.Expr:
		fg.genExpr(v)
	case nil:
		fg.raise(ErrMalformedTree, fg.decl.Span(), "missing statement")
	default:
		fg.raise(ErrMalformedTree, spanOf(v), "unknown statement %T", v)
	}
}

// genBlock generates the statements of a block in order.  Blocks do not
// introduce a new scope.
func (fg *funcGen) genBlock(block *ast.Block) {
	for _, stmt := range block.Stmts {
		fg.genStmt(stmt)
	}
}

// genReturnStmt generates a return statement.
func (fg *funcGen) genReturnStmt(ret *ast.ReturnStmt) {
	if ret.Value == nil {
		if !fg.decl.ReturnsValue {
			fg.block.NewRet(nil)
			return
		}

		if !fg.g.opts.ImplicitZeroReturn {
			fg.raise(ErrMissingReturnValue, ret.Span(), "function `%s` must return a value", fg.decl.Name)
		}

		fg.block.NewRet(constant.NewInt(types.I64, 0))
		return
	}

	if !fg.decl.ReturnsValue {
		fg.raise(ErrUnexpectedReturnValue, ret.Span(), "function `%s` does not return a value", fg.decl.Name)
	}

	fg.genExpr(ret.Value)
	fg.block.NewRet(fg.word(ret.Value, fg.rvalue(ret.Value)))
}

// genDeclStmt generates a variable declaration.  The initializer, if present,
// only initializes the first variable: every other variable is zeroed.
func (fg *funcGen) genDeclStmt(decl *ast.DeclStmt) {
	if len(decl.Vars) == 0 {
		fg.raise(ErrMalformedTree, decl.Span(), "declaration declares no variables")
	}

	// allocate every variable before the initializer is generated
	slots := make([]*ir.InstAlloca, len(decl.Vars))
	for i, vd := range decl.Vars {
		typ := types.Type(types.I64)
		if vd.Type == ast.TypeBool {
			typ = types.I1
		}

		slots[i] = fg.allocSlot(typ, vd.Name+"_addr")
		fg.res.declareLocal(vd.Name, slots[i])
	}

	for i, slot := range slots {
		if i == 0 && decl.Value != nil {
			fg.genExpr(decl.Value)
			fg.store(decl.Value, fg.rvalue(decl.Value), slot)
		} else {
			fg.block.NewStore(zeroOf(slot.ElemType), slot)
		}
	}
}
