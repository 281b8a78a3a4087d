package codegen

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/sunhaibo2004/SOLL/ast"
)

// funcGen holds the state of the generation of a single function body.  It is
// created fresh for every function and is never shared between goroutines.
type funcGen struct {
	// g is the module-level generator.
	g *Generator

	// decl is the function declaration being generated.
	decl *ast.FuncDecl

	// fn is the LLVM function being generated.
	fn *ir.Func

	// entry is the entry block of fn.  All stack slots are allocated at its
	// start.
	entry *ir.Block

	// allocaCount is the number of allocas at the start of entry.
	allocaCount int

	// block is the insertion cursor: the block new instructions are appended
	// to.
	block *ir.Block

	// names counts the uses of each local LLVM name so repeated names can be
	// made unique.
	names map[string]int

	// used is the set of local LLVM names already taken.
	used map[string]bool

	// preds counts the branches into each block.
	preds map[*ir.Block]int

	// res maps source names to parameters and local storage.
	res *resolver

	// cache maps visited expressions to their values.
	cache valueCache

	// loops is the stack of enclosing loops.
	loops []loopContext

	// globals are the globals created by this function.  They are only added
	// to the module if generation succeeds.
	globals []*ir.Global
}

// loopContext is the control flow context of an enclosing loop.
type loopContext struct {
	// continueTarget is the block `continue` branches to.
	continueTarget *ir.Block

	// breakTarget is the block `break` branches to.
	breakTarget *ir.Block

	// update is the update expression of a for loop which `continue` must run
	// before branching.  It may be nil.
	update ast.Expr
}

func newFuncGen(g *Generator, decl *ast.FuncDecl, fn *ir.Func) *funcGen {
	fg := &funcGen{
		g:     g,
		decl:  decl,
		fn:    fn,
		names: make(map[string]int),
		used:  make(map[string]bool),
		preds: make(map[*ir.Block]int),
		res:   newResolver(),
		cache: make(valueCache),
	}

	for _, param := range fn.Params {
		fg.used[param.LocalName] = true
	}

	return fg
}

// genBody generates the whole function body.
func (fg *funcGen) genBody() {
	fg.entry = fg.newBlock("entry")
	fg.block = fg.entry

	for i, param := range fg.decl.Params {
		fg.res.bindParameter(param.Name, fg.fn.Params[i])
	}

	if fg.decl.Body == nil {
		fg.raise(ErrMalformedTree, fg.decl.Span(), "function has no body")
	}

	fg.genStmt(fg.decl.Body)

	fg.finishFunc()
}

// finishFunc terminates the last block of the function if the body did not.
func (fg *funcGen) finishFunc() {
	if fg.block.Term != nil {
		return
	}

	switch {
	case !fg.decl.ReturnsValue:
		fg.block.NewRet(nil)
	case fg.block != fg.entry && fg.preds[fg.block] == 0:
		// control never reaches the end of the function
		fg.block.NewUnreachable()
	case fg.g.opts.ImplicitZeroReturn:
		fg.block.NewRet(constant.NewInt(types.I64, 0))
	default:
		fg.raise(ErrMissingReturnValue, fg.decl.Span(), "missing return statement at end of function")
	}
}

// -----------------------------------------------------------------------------

// uniqueName returns name made unique among the local names of the function.
func (fg *funcGen) uniqueName(name string) string {
	n := fg.names[name]

	candidate := name
	if n > 0 {
		candidate = name + strconv.Itoa(n)
	}

	for fg.used[candidate] {
		n++
		candidate = name + strconv.Itoa(n)
	}

	fg.names[name] = n + 1
	fg.used[candidate] = true
	return candidate
}

// newBlock appends a new basic block to the function.  It does *not* move the
// insertion cursor to this new block.
func (fg *funcGen) newBlock(name string) *ir.Block {
	return fg.fn.NewBlock(fg.uniqueName(name))
}

// reachable reports whether the current block has a path from the entry
// block.  Edges out of an unreachable block are not counted as predecessors.
func (fg *funcGen) reachable() bool {
	return fg.block == fg.entry || fg.preds[fg.block] > 0
}

// br branches from the current block to target unless the current block is
// already terminated.
func (fg *funcGen) br(target *ir.Block) {
	if fg.block.Term != nil {
		return
	}

	fg.block.NewBr(target)
	if fg.reachable() {
		fg.preds[target]++
	}
}

// condBr terminates the current block with a conditional branch.
func (fg *funcGen) condBr(cond value.Value, ifTrue, ifFalse *ir.Block) {
	fg.block.NewCondBr(cond, ifTrue, ifFalse)
	if fg.reachable() {
		fg.preds[ifTrue]++
		fg.preds[ifFalse]++
	}
}

// openBlock makes sure the insertion cursor is on a block without a terminator.
// Statements following a `return`, `break` or `continue` are unreachable: they
// are generated into a fresh block with no predecessors.
func (fg *funcGen) openBlock() {
	if fg.block.Term != nil {
		fg.block = fg.newBlock("dead")
	}
}

// allocSlot allocates a stack slot of the given type at the start of the entry
// block.  An empty name leaves the slot unnamed.
func (fg *funcGen) allocSlot(typ types.Type, name string) *ir.InstAlloca {
	slot := ir.NewAlloca(typ)
	if name != "" {
		slot.SetName(fg.uniqueName(name))
	}

	insts := fg.entry.Insts
	insts = append(insts, nil)
	copy(insts[fg.allocaCount+1:], insts[fg.allocaCount:])
	insts[fg.allocaCount] = slot
	fg.entry.Insts = insts
	fg.allocaCount++

	return slot
}

// pushLoop pushes a loop context for the body of a loop.
func (fg *funcGen) pushLoop(lc loopContext) {
	fg.loops = append(fg.loops, lc)
}

// popLoop pops the innermost loop context.
func (fg *funcGen) popLoop() {
	fg.loops = fg.loops[:len(fg.loops)-1]
}

// innermostLoop returns the innermost enclosing loop.
func (fg *funcGen) innermostLoop() (loopContext, bool) {
	if len(fg.loops) == 0 {
		return loopContext{}, false
	}

	return fg.loops[len(fg.loops)-1], true
}
