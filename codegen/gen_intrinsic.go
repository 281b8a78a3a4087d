package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"github.com/sunhaibo2004/SOLL/ast"
)

// genAssert generates the assertion intrinsic `assert(cond, "message")`.  When
// the condition is false, the revert primitive is called with the message and
// its length (including the NUL terminator), and control never returns.  The
// call itself yields no value.
func (fg *funcGen) genAssert(call *ast.CallExpr) {
	if len(call.Args) != 2 {
		fg.raise(ErrUnsupportedCall, call.Span(), "`%s` takes a condition and a message, got %d arguments", fg.g.opts.AssertFunc, len(call.Args))
	}

	cond, msgExpr := call.Args[0], call.Args[1]
	if cond == nil || msgExpr == nil {
		fg.raise(ErrMalformedTree, call.Span(), "`%s` is missing an argument", fg.g.opts.AssertFunc)
	}

	msg, ok := unparen(msgExpr).(*ast.StringLiteral)
	if !ok {
		fg.raise(ErrUnsupportedCall, spanOf(msgExpr), "the message of `%s` must be a string literal", fg.g.opts.AssertFunc)
	}

	pred := fg.genCond(cond)

	fg.genExpr(msgExpr)
	glob := fg.lookup(msgExpr).val.(*ir.Global)

	revertBlock := fg.newBlock("revert")
	contBlock := fg.newBlock("continue")
	fg.condBr(pred, contBlock, revertBlock)

	revert, ok := fg.g.revertFunc()
	if !ok {
		fg.raise(ErrSignatureMismatch, call.Span(), "`%s` is already declared with a signature other than `void (i8*, i32)`", fg.g.opts.RevertFunc)
	}

	fg.block = revertBlock
	zero := constant.NewInt(types.I64, 0)
	msgPtr := fg.block.NewGetElementPtr(glob.ContentType, glob, zero, zero)
	fg.block.NewCall(
		revert,
		msgPtr,
		constant.NewInt(types.I32, int64(len(msg.Value)+1)),
	)
	fg.block.NewUnreachable()

	fg.block = contBlock
	fg.cacheValue(call, nil)
}
