package codegen

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// maxSteps bounds the number of instructions a single run may execute.
const maxSteps = 100000

// runResult is the outcome of executing a generated function.
type runResult struct {
	// ret is the returned word.  It is zero for void functions and reverts.
	ret uint64

	// reverted indicates the run ended in a call to the revert primitive.
	reverted bool

	// msg and msgLen are the arguments passed to the revert primitive.
	msg    string
	msgLen uint64

	// visits counts the executions of each block by name.
	visits map[string]int
}

// machine is a minimal interpreter for the subset of LLVM IR the generator
// produces: every value is a word, i1 values are 0 or 1, and every pointer is
// either a stack slot or an element pointer into a string global.
type machine struct {
	t *testing.T

	revertName string

	regs   map[value.Value]uint64
	mem    map[*ir.InstAlloca]uint64
	ptrs   map[value.Value]*ir.Global
	result runResult
}

// run executes fn with the given arguments.
func run(t *testing.T, fn *ir.Func, args ...uint64) runResult {
	t.Helper()

	if len(args) != len(fn.Params) {
		t.Fatalf("function `%s` takes %d arguments, got %d", fn.Name(), len(fn.Params), len(args))
	}

	m := &machine{
		t:          t,
		revertName: DefaultOptions().RevertFunc,
		regs:       make(map[value.Value]uint64),
		mem:        make(map[*ir.InstAlloca]uint64),
		ptrs:       make(map[value.Value]*ir.Global),
		result:     runResult{visits: make(map[string]int)},
	}

	for i, param := range fn.Params {
		m.regs[param] = args[i]
	}

	if len(fn.Blocks) == 0 {
		t.Fatalf("function `%s` has no body", fn.Name())
	}

	block := fn.Blocks[0]
	steps := 0
	for {
		m.result.visits[block.Name()]++

		for _, inst := range block.Insts {
			m.exec(inst)

			steps++
			if steps > maxSteps {
				t.Fatalf("function `%s` did not finish within %d steps", fn.Name(), maxSteps)
			}
		}

		switch term := block.Term.(type) {
		case *ir.TermBr:
			block = asBlock(term.Target)
		case *ir.TermCondBr:
			if m.eval(term.Cond) != 0 {
				block = asBlock(term.TargetTrue)
			} else {
				block = asBlock(term.TargetFalse)
			}
		case *ir.TermRet:
			if term.X != nil {
				m.result.ret = m.eval(term.X)
			}

			return m.result
		case *ir.TermUnreachable:
			if !m.result.reverted {
				t.Fatalf("reached `unreachable` in block %s without reverting", block.Name())
			}

			return m.result
		case nil:
			t.Fatalf("block %s has no terminator", block.Name())
		default:
			t.Fatalf("unexpected terminator %T", term)
		}
	}
}

func asBlock(target interface{}) *ir.Block {
	return target.(*ir.Block)
}

func (m *machine) eval(v value.Value) uint64 {
	m.t.Helper()

	if c, ok := v.(*constant.Int); ok {
		if c.X.Sign() < 0 {
			return uint64(c.X.Int64())
		}

		return c.X.Uint64()
	}

	x, ok := m.regs[v]
	if !ok {
		m.t.Fatalf("use of undefined value %s", v.Ident())
	}

	return x
}

func boolWord(b bool) uint64 {
	if b {
		return 1
	}

	return 0
}

func (m *machine) exec(inst ir.Instruction) {
	m.t.Helper()

	switch v := inst.(type) {
	case *ir.InstAlloca:
		// slots are created uninitialized
	case *ir.InstLoad:
		slot, ok := v.Src.(*ir.InstAlloca)
		if !ok {
			m.t.Fatalf("load from non-slot %s", v.Src.Ident())
		}

		x, ok := m.mem[slot]
		if !ok {
			m.t.Fatalf("load from uninitialized slot %s", slot.Ident())
		}

		m.regs[v] = x
	case *ir.InstStore:
		slot, ok := v.Dst.(*ir.InstAlloca)
		if !ok {
			m.t.Fatalf("store to non-slot %s", v.Dst.Ident())
		}

		m.mem[slot] = m.eval(v.Src)
	case *ir.InstAdd:
		m.regs[v] = m.eval(v.X) + m.eval(v.Y)
	case *ir.InstSub:
		m.regs[v] = m.eval(v.X) - m.eval(v.Y)
	case *ir.InstMul:
		m.regs[v] = m.eval(v.X) * m.eval(v.Y)
	case *ir.InstUDiv:
		m.regs[v] = m.eval(v.X) / m.eval(v.Y)
	case *ir.InstURem:
		m.regs[v] = m.eval(v.X) % m.eval(v.Y)
	case *ir.InstShl:
		m.regs[v] = m.eval(v.X) << m.eval(v.Y)
	case *ir.InstLShr:
		m.regs[v] = m.eval(v.X) >> m.eval(v.Y)
	case *ir.InstAnd:
		m.regs[v] = m.eval(v.X) & m.eval(v.Y)
	case *ir.InstOr:
		m.regs[v] = m.eval(v.X) | m.eval(v.Y)
	case *ir.InstXor:
		m.regs[v] = m.eval(v.X) ^ m.eval(v.Y)
	case *ir.InstZExt:
		m.regs[v] = m.eval(v.From)
	case *ir.InstICmp:
		x, y := m.eval(v.X), m.eval(v.Y)

		var r bool
		switch v.Pred {
		case enum.IPredEQ:
			r = x == y
		case enum.IPredNE:
			r = x != y
		case enum.IPredULT:
			r = x < y
		case enum.IPredUGT:
			r = x > y
		case enum.IPredULE:
			r = x <= y
		case enum.IPredUGE:
			r = x >= y
		default:
			m.t.Fatalf("unexpected predicate %s", v.Pred)
		}

		m.regs[v] = boolWord(r)
	case *ir.InstGetElementPtr:
		glob, ok := v.Src.(*ir.Global)
		if !ok {
			m.t.Fatalf("element pointer into non-global %s", v.Src.Ident())
		}

		m.ptrs[v] = glob
	case *ir.InstCall:
		callee, ok := v.Callee.(*ir.Func)
		if !ok || callee.Name() != m.revertName {
			m.t.Fatalf("unexpected call to %s", v.Callee.Ident())
		}

		glob, ok := m.ptrs[v.Args[0]]
		if !ok {
			m.t.Fatalf("revert message is not a string pointer")
		}

		data, ok := glob.Init.(*constant.CharArray)
		if !ok {
			m.t.Fatalf("revert message global %s is not a character array", glob.Ident())
		}

		m.result.reverted = true
		m.result.msgLen = m.eval(v.Args[1])
		m.result.msg = string(data.X)
	default:
		m.t.Fatalf("unexpected instruction %T", inst)
	}
}

// checkWellFormed verifies every block of fn has exactly one terminator and
// every instruction precedes it.
func checkWellFormed(t *testing.T, fn *ir.Func) {
	t.Helper()

	names := make(map[string]bool)
	for _, block := range fn.Blocks {
		if block.Term == nil {
			t.Errorf("block %s of `%s` is not terminated", block.Name(), fn.Name())
		}

		if names[block.Name()] {
			t.Errorf("block name %s is used twice in `%s`", block.Name(), fn.Name())
		}

		names[block.Name()] = true
	}
}
