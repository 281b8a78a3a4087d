package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/sunhaibo2004/SOLL/ast"
	"github.com/sunhaibo2004/SOLL/report"
)

// All scalars are either words (i64) or booleans (i1).  Booleans are widened
// whenever they are combined with or stored as words.

// isBool returns whether typ is the boolean type.
func isBool(typ types.Type) bool {
	it, ok := typ.(*types.IntType)
	return ok && it.BitSize == 1
}

// isWord returns whether typ is the word type.
func isWord(typ types.Type) bool {
	it, ok := typ.(*types.IntType)
	return ok && it.BitSize == 64
}

// word converts a scalar value to a word.  The expression the value came from
// is only used for error reporting.
func (fg *funcGen) word(expr ast.Expr, val value.Value) value.Value {
	switch {
	case isWord(val.Type()):
		return val
	case isBool(val.Type()):
		return fg.block.NewZExt(val, types.I64)
	}

	fg.raise(ErrInvalidOperand, spanOf(expr), "operand is not a scalar value; string literals may only be assertion messages")
	return nil
}

// predicate converts a scalar value to a 1-bit truth value: the value compared
// not equal to false (or zero).
func (fg *funcGen) predicate(expr ast.Expr, val value.Value) value.Value {
	if isBool(val.Type()) {
		return fg.block.NewICmp(enum.IPredNE, val, constant.False)
	}

	return fg.block.NewICmp(enum.IPredNE, fg.word(expr, val), constant.NewInt(types.I64, 0))
}

// convertTo converts a scalar value to the representation typ of a stack slot.
func (fg *funcGen) convertTo(expr ast.Expr, val value.Value, typ types.Type) value.Value {
	if isBool(typ) {
		if isBool(val.Type()) {
			return val
		}

		return fg.predicate(expr, val)
	}

	return fg.word(expr, val)
}

// -----------------------------------------------------------------------------

// load loads the value stored at a stack slot.
func (fg *funcGen) load(addr value.Value) value.Value {
	return fg.block.NewLoad(addr.Type().(*types.PointerType).ElemType, addr)
}

// store stores the value of expr into a stack slot, converting it to the
// slot's representation.
func (fg *funcGen) store(expr ast.Expr, val, addr value.Value) {
	elemType := addr.Type().(*types.PointerType).ElemType
	fg.block.NewStore(fg.convertTo(expr, val, elemType), addr)
}

// zeroOf returns the zero value of a slot type.
func zeroOf(typ types.Type) value.Value {
	if isBool(typ) {
		return constant.False
	}

	return constant.NewInt(types.I64, 0)
}

// -----------------------------------------------------------------------------

// unparen strips any parentheses around an expression.
func unparen(expr ast.Expr) ast.Expr {
	for {
		pe, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}

		expr = pe.Inner
	}
}

// spanOf returns the span of a possibly nil node.
func spanOf(node ast.ASTNode) *report.TextSpan {
	if node == nil {
		return nil
	}

	return node.Span()
}
