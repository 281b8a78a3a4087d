package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/sunhaibo2004/SOLL/ast"
)

// genCond generates a condition and returns it as a 1-bit predicate.
func (fg *funcGen) genCond(cond ast.Expr) value.Value {
	fg.genExpr(cond)
	return fg.predicate(cond, fg.rvalue(cond))
}

// genIfStmt generates an if statement.  The generator is left positioned on
// the if statement's end block.
func (fg *funcGen) genIfStmt(ifStmt *ast.IfStmt) {
	thenBlock := fg.newBlock("if.then")

	var elseBlock *ir.Block
	if ifStmt.Else != nil {
		elseBlock = fg.newBlock("if.else")
	}

	endBlock := fg.newBlock("if.end")

	// without an else, the false branch goes straight to the end block
	if elseBlock == nil {
		elseBlock = endBlock
	}

	fg.condBr(fg.genCond(ifStmt.Cond), thenBlock, elseBlock)

	fg.block = thenBlock
	fg.genStmt(ifStmt.Then)
	fg.br(endBlock)

	if ifStmt.Else != nil {
		fg.block = elseBlock
		fg.genStmt(ifStmt.Else)
		fg.br(endBlock)
	}

	fg.block = endBlock
}

// genWhileStmt generates a while or do-while loop.
func (fg *funcGen) genWhileStmt(while *ast.WhileStmt) {
	condBlock := fg.newBlock("while.cond")
	bodyBlock := fg.newBlock("while.body")
	endBlock := fg.newBlock("while.end")

	genBody := func() {
		fg.block = bodyBlock
		fg.pushLoop(loopContext{continueTarget: condBlock, breakTarget: endBlock})
		fg.genStmt(while.Body)
		fg.popLoop()
		fg.br(condBlock)
	}

	// a do-while condition is only reachable through the body, so the body
	// is generated first
	if while.IsDoWhile {
		fg.br(bodyBlock)
		genBody()
	} else {
		fg.br(condBlock)
	}

	fg.block = condBlock
	fg.condBr(fg.genCond(while.Cond), bodyBlock, endBlock)

	if !while.IsDoWhile {
		genBody()
	}

	fg.block = endBlock
}

// genForStmt generates a C-style for loop.
func (fg *funcGen) genForStmt(forStmt *ast.ForStmt) {
	condBlock := fg.newBlock("for.cond")
	bodyBlock := fg.newBlock("for.body")
	endBlock := fg.newBlock("for.end")

	if forStmt.Init != nil {
		fg.genStmt(forStmt.Init)
	}

	fg.br(condBlock)

	fg.block = condBlock
	if forStmt.Cond != nil {
		fg.condBr(fg.genCond(forStmt.Cond), bodyBlock, endBlock)
	} else {
		fg.br(bodyBlock)
	}

	fg.block = bodyBlock
	fg.pushLoop(loopContext{continueTarget: condBlock, breakTarget: endBlock, update: forStmt.Loop})
	fg.genStmt(forStmt.Body)
	fg.popLoop()

	if forStmt.Loop != nil {
		fg.openBlock()
		fg.genExpr(forStmt.Loop)
	}

	fg.br(condBlock)

	fg.block = endBlock
}

// genContinueStmt generates a continue statement.  In a for loop, the update
// expression is generated in place before branching to the condition.
func (fg *funcGen) genContinueStmt(cont *ast.ContinueStmt) {
	loop, ok := fg.innermostLoop()
	if !ok {
		fg.raise(ErrOutsideLoop, cont.Span(), "`continue` outside of a loop")
	}

	if loop.update != nil {
		fg.genExpr(loop.update)
	}

	fg.br(loop.continueTarget)
}

// genBreakStmt generates a break statement.
func (fg *funcGen) genBreakStmt(brk *ast.BreakStmt) {
	loop, ok := fg.innermostLoop()
	if !ok {
		fg.raise(ErrOutsideLoop, brk.Span(), "`break` outside of a loop")
	}

	fg.br(loop.breakTarget)
}
