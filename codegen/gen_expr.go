package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/sunhaibo2004/SOLL/ast"
)

// genExpr generates an expression.  Every expression caches its value before
// genExpr returns.
func (fg *funcGen) genExpr(expr ast.Expr) {
	switch v := expr.(type) {
	case *ast.UnaryOp:
		fg.genUnaryOp(v)
	case *ast.BinaryOp:
		if v.Op.IsLogical() {
			fg.genLogicalOp(v)
		} else if v.Op.IsAssignment() {
			fg.genAssignment(v)
		} else {
			fg.genBinaryOp(v)
		}
	case *ast.CallExpr:
		fg.genCall(v)
	case *ast.ParenExpr:
		if v.Inner == nil {
			fg.raise(ErrMalformedTree, v.Span(), "empty parentheses")
		}

		fg.genExpr(v.Inner)
		fg.cache[v] = fg.lookup(v.Inner)
	case *ast.Identifier:
		fg.genIdentifier(v)
	case *ast.BooleanLiteral:
		fg.cacheValue(v, constant.NewBool(v.Value))
	case *ast.NumberLiteral:
		fg.cacheValue(v, constant.NewInt(types.I64, int64(v.Value)))
	case *ast.StringLiteral:
		fg.cacheValue(v, fg.genString(v.Value))
	case nil:
		fg.raise(ErrMalformedTree, fg.decl.Span(), "missing expression")
	default:
		fg.raise(ErrMalformedTree, spanOf(v), "unknown expression %T", v)
	}
}

// genIdentifier resolves an identifier: local variables designate their
// storage and parameters their incoming values.
func (fg *funcGen) genIdentifier(id *ast.Identifier) {
	if slot, ok := fg.res.resolveAddress(id.Name); ok {
		fg.cacheAddr(id, slot)
		return
	}

	if param, ok := fg.res.resolveParameter(id.Name); ok {
		fg.cacheValue(id, param)
		return
	}

	fg.raise(ErrUnresolvedName, id.Span(), "undeclared name `%s`", id.Name)
}

// genString emits a NUL-terminated string constant and returns the global
// holding it.  The global is committed to the module when the function is.
func (fg *funcGen) genString(s string) *ir.Global {
	glob := ir.NewGlobalDef(
		fmt.Sprintf("str.%s.%d", fg.decl.Name, len(fg.globals)),
		constant.NewCharArrayFromString(s+"\x00"),
	)
	glob.Immutable = true
	glob.Linkage = enum.LinkagePrivate
	glob.UnnamedAddr = enum.UnnamedAddrUnnamedAddr

	fg.globals = append(fg.globals, glob)
	return glob
}

// -----------------------------------------------------------------------------

// genUnaryOp generates a unary operator application.
func (fg *funcGen) genUnaryOp(uop *ast.UnaryOp) {
	if uop.Operand == nil {
		fg.raise(ErrMalformedTree, uop.Span(), "unary operator has no operand")
	}

	fg.genExpr(uop.Operand)

	if uop.Op.IsIncDec() {
		addr := fg.address(uop.Operand, "modify")
		old := fg.load(addr)

		one := constant.NewInt(types.I64, 1)
		var updated value.Value
		if uop.Op == ast.UOPostInc || uop.Op == ast.UOPreInc {
			updated = fg.block.NewAdd(fg.word(uop.Operand, old), one)
		} else {
			updated = fg.block.NewSub(fg.word(uop.Operand, old), one)
		}

		fg.store(uop, updated, addr)

		if uop.Op == ast.UOPostInc || uop.Op == ast.UOPostDec {
			fg.cacheValue(uop, old)
		} else {
			fg.cacheAddr(uop, addr)
		}

		return
	}

	operand := fg.rvalue(uop.Operand)

	var result value.Value
	switch uop.Op {
	case ast.UOPlus:
		result = fg.word(uop.Operand, operand)
	case ast.UOMinus:
		result = fg.block.NewSub(constant.NewInt(types.I64, 0), fg.word(uop.Operand, operand))
	case ast.UONot:
		result = fg.block.NewXor(fg.word(uop.Operand, operand), constant.NewInt(types.I64, -1))
	case ast.UOLNot:
		result = fg.block.NewICmp(enum.IPredEQ, fg.word(uop.Operand, operand), constant.NewInt(types.I64, 0))
	default:
		fg.raise(ErrMalformedTree, uop.Span(), "unknown unary operator %s", uop.Op)
	}

	fg.cacheValue(uop, result)
}

// genBinaryOp generates an arithmetic, shift, bitwise or comparison operator
// application.
func (fg *funcGen) genBinaryOp(bop *ast.BinaryOp) {
	fg.genOperands(bop)

	lhs := fg.rvalue(bop.LHS)
	rhs := fg.rvalue(bop.RHS)

	fg.cacheValue(bop, fg.applyBinary(bop, bop.Op, lhs, rhs))
}

// genAssignment generates a plain or compound assignment.
func (fg *funcGen) genAssignment(bop *ast.BinaryOp) {
	fg.genOperands(bop)

	addr := fg.address(bop.LHS, "assign to")
	rhs := fg.rvalue(bop.RHS)

	base, compound := bop.Op.CompoundBase()
	if !compound {
		fg.store(bop.RHS, rhs, addr)
		fg.cacheValue(bop, rhs)
		return
	}

	result := fg.applyBinary(bop, base, fg.load(addr), rhs)
	fg.store(bop, result, addr)
	fg.cacheValue(bop, result)
}

// genOperands generates both operands of a binary operator, left to right.
func (fg *funcGen) genOperands(bop *ast.BinaryOp) {
	if bop.LHS == nil || bop.RHS == nil {
		fg.raise(ErrMalformedTree, bop.Span(), "binary operator `%s` is missing an operand", bop.Op)
	}

	fg.genExpr(bop.LHS)
	fg.genExpr(bop.RHS)
}

// applyBinary combines two scalar values with a non-logical, non-assignment
// operator.  All operations are unsigned.
func (fg *funcGen) applyBinary(bop *ast.BinaryOp, op ast.BinaryOpKind, lhs, rhs value.Value) value.Value {
	x := fg.word(bop.LHS, lhs)
	y := fg.word(bop.RHS, rhs)

	switch op {
	case ast.BOMul:
		return fg.block.NewMul(x, y)
	case ast.BODiv:
		return fg.block.NewUDiv(x, y)
	case ast.BORem:
		return fg.block.NewURem(x, y)
	case ast.BOAdd:
		return fg.block.NewAdd(x, y)
	case ast.BOSub:
		return fg.block.NewSub(x, y)
	case ast.BOShl:
		return fg.block.NewShl(x, y)
	case ast.BOShr:
		return fg.block.NewLShr(x, y)
	case ast.BOAnd:
		return fg.block.NewAnd(x, y)
	case ast.BOXor:
		return fg.block.NewXor(x, y)
	case ast.BOOr:
		return fg.block.NewOr(x, y)
	case ast.BOLT:
		return fg.block.NewICmp(enum.IPredULT, x, y)
	case ast.BOGT:
		return fg.block.NewICmp(enum.IPredUGT, x, y)
	case ast.BOLE:
		return fg.block.NewICmp(enum.IPredULE, x, y)
	case ast.BOGE:
		return fg.block.NewICmp(enum.IPredUGE, x, y)
	case ast.BOEQ:
		return fg.block.NewICmp(enum.IPredEQ, x, y)
	case ast.BONE:
		return fg.block.NewICmp(enum.IPredNE, x, y)
	}

	fg.raise(ErrMalformedTree, bop.Span(), "unknown binary operator %s", op)
	return nil
}

// genLogicalOp generates a short-circuiting `&&` or `||`.  The result is
// written to a boolean slot by whichever branch decides it and loaded once both
// branches join.
func (fg *funcGen) genLogicalOp(bop *ast.BinaryOp) {
	if bop.LHS == nil || bop.RHS == nil {
		fg.raise(ErrMalformedTree, bop.Span(), "binary operator `%s` is missing an operand", bop.Op)
	}

	prefix := "land"
	if bop.Op == ast.BOLOr {
		prefix = "lor"
	}

	result := fg.allocSlot(types.I1, prefix+".result")

	fg.genExpr(bop.LHS)
	lhs := fg.predicate(bop.LHS, fg.rvalue(bop.LHS))

	trueBlock := fg.newBlock(prefix + ".true")
	falseBlock := fg.newBlock(prefix + ".false")
	endBlock := fg.newBlock(prefix + ".end")

	fg.condBr(lhs, trueBlock, falseBlock)

	// the right operand is only generated on the branch that needs it
	evalBlock, shortBlock := trueBlock, falseBlock
	shortValue := constant.False
	if bop.Op == ast.BOLOr {
		evalBlock, shortBlock = falseBlock, trueBlock
		shortValue = constant.True
	}

	fg.block = shortBlock
	fg.block.NewStore(shortValue, result)
	fg.br(endBlock)

	fg.block = evalBlock
	fg.genExpr(bop.RHS)
	fg.block.NewStore(fg.predicate(bop.RHS, fg.rvalue(bop.RHS)), result)
	fg.br(endBlock)

	fg.block = endBlock
	fg.cacheValue(bop, fg.load(result))
}

// genCall generates a call.  The only supported call is the assertion
// intrinsic.
func (fg *funcGen) genCall(call *ast.CallExpr) {
	if name, ok := call.CalleeName(); ok && name == fg.g.opts.AssertFunc {
		fg.genAssert(call)
		return
	}

	if name, ok := call.CalleeName(); ok {
		fg.raise(ErrUnsupportedCall, call.Span(), "call to `%s` is not supported: only `%s` may be called", name, fg.g.opts.AssertFunc)
	}

	fg.raise(ErrUnsupportedCall, call.Span(), "only direct calls to `%s` are supported", fg.g.opts.AssertFunc)
}
