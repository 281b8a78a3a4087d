package codegen

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"

	"github.com/sunhaibo2004/SOLL/ast"
)

func TestIfWithoutElseConverges(t *testing.T) {
	// f(a) { uint x = 0; if (a) x = 7; return x; }
	fd := valueFunc("f", []string{"a"},
		declWord("x", num(0)),
		ifStmt(ident("a"), assign("x", num(7)), nil),
		ret(ident("x")),
	)

	fn := generate(t, fd)

	if got := strings.Join(blockNames(fn), " "); got != "entry if.then if.end" {
		t.Fatalf("blocks are %s", got)
	}

	entryTerm, ok := fn.Blocks[0].Term.(*ir.TermCondBr)
	if !ok {
		t.Fatalf("entry ends with %T, want a conditional branch", fn.Blocks[0].Term)
	}

	end := findBlock(t, fn, "if.end")
	if asBlock(entryTerm.TargetFalse) != end {
		t.Errorf("the false edge does not lead to the end block")
	}

	thenTerm, ok := findBlock(t, fn, "if.then").Term.(*ir.TermBr)
	if !ok || asBlock(thenTerm.Target) != end {
		t.Errorf("the then block does not branch to the end block")
	}

	if got := run(t, fn, 1).ret; got != 7 {
		t.Errorf("f(1) = %d, want 7", got)
	}

	if got := run(t, fn, 0).ret; got != 0 {
		t.Errorf("f(0) = %d, want 0", got)
	}
}

func TestIfElseBothReturning(t *testing.T) {
	fd := valueFunc("f", []string{"a"},
		ifStmt(binop(ident("a"), ">", num(3)), blockOf(ret(num(1))), blockOf(ret(num(2)))),
	)

	fn := generate(t, fd)

	end := findBlock(t, fn, "if.end")
	if _, ok := end.Term.(*ir.TermUnreachable); !ok {
		t.Errorf("the unreachable end block ends with %T", end.Term)
	}

	if got := run(t, fn, 4).ret; got != 1 {
		t.Errorf("f(4) = %d, want 1", got)
	}

	if got := run(t, fn, 3).ret; got != 2 {
		t.Errorf("f(3) = %d, want 2", got)
	}
}

func TestNestedIfNames(t *testing.T) {
	fd := voidFunc("f", []string{"a"},
		ifStmt(ident("a"), ifStmt(ident("a"), blockOf(), nil), blockOf()),
		ifStmt(ident("a"), blockOf(), nil),
	)

	fn := generate(t, fd)

	want := "entry if.then if.else if.end if.then1 if.end1 if.then2 if.end2"
	if got := strings.Join(blockNames(fn), " "); got != want {
		t.Errorf("blocks are %s, want %s", got, want)
	}
}

// countBlocks counts the blocks of fn whose names start with prefix.
func countBlocks(fn *ir.Func, prefix string) int {
	n := 0
	for _, name := range blockNames(fn) {
		if strings.HasPrefix(name, prefix) {
			n++
		}
	}

	return n
}

func TestLoopsCreateThreeBlocks(t *testing.T) {
	body := []ast.Stmt{
		declWord("y", num(1)),
		binop(ident("y"), "+=", ident("x")),
		binop(ident("x"), "+=", ident("y")),
		unop("x++", ident("x")),
		assign("x", binop(ident("x"), "*", num(2))),
	}

	loops := []ast.Stmt{
		whileLoop(binop(ident("x"), "<", num(100)), body...),
		doWhileLoop(binop(ident("x"), "<", num(100)), body...),
		forLoop(nil, binop(ident("x"), "<", num(100)), unop("x++", ident("x")), body...),
	}

	prefixes := []string{"while.", "while.", "for."}

	for i, loop := range loops {
		fn := generate(t, voidFunc("f", nil, declWord("x", num(0)), loop))

		if n := countBlocks(fn, prefixes[i]); n != 3 {
			t.Errorf("loop %d created %d blocks: %v", i, n, blockNames(fn))
		}

		if n := len(fn.Blocks); n != 4 {
			t.Errorf("loop %d: function has %d blocks, want entry plus the loop's 3", i, n)
		}
	}
}

func TestWhileLoop(t *testing.T) {
	// f(n) { uint i = 0; uint s = 0; while (i < n) { s += i; i++; } return s; }
	fd := valueFunc("f", []string{"n"},
		declWord("i", num(0)),
		declWord("s", num(0)),
		whileLoop(binop(ident("i"), "<", ident("n")),
			binop(ident("s"), "+=", ident("i")),
			unop("x++", ident("i")),
		),
		ret(ident("s")),
	)

	fn := generate(t, fd)

	for n, want := range []uint64{0, 0, 1, 3, 6, 10} {
		if got := run(t, fn, uint64(n)).ret; got != want {
			t.Errorf("f(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestDoWhileRunsBodyFirst(t *testing.T) {
	fd := valueFunc("f", nil,
		declWord("x", num(0)),
		doWhileLoop(boolLit(false), unop("x++", ident("x"))),
		ret(ident("x")),
	)

	fn := generate(t, fd)

	br, ok := fn.Blocks[0].Term.(*ir.TermBr)
	if !ok || asBlock(br.Target) != findBlock(t, fn, "while.body") {
		t.Errorf("a do-while loop must enter through its body")
	}

	if got := run(t, fn).ret; got != 1 {
		t.Errorf("body ran %d times, want 1", got)
	}
}

func TestForLoop(t *testing.T) {
	// f(n) { uint s = 0; for (uint i = 0; i < n; i++) s += i; return s; }
	fd := valueFunc("f", []string{"n"},
		declWord("s", num(0)),
		forLoop(declWord("i", num(0)), binop(ident("i"), "<", ident("n")), unop("x++", ident("i")),
			binop(ident("s"), "+=", ident("i")),
		),
		ret(ident("s")),
	)

	fn := generate(t, fd)
	if got := run(t, fn, 5).ret; got != 10 {
		t.Errorf("f(5) = %d, want 10", got)
	}
}

func TestContinueRunsForUpdate(t *testing.T) {
	// for (uint i = 0; i < 10; i++) { if (i % 2) continue; s += i; }
	fd := valueFunc("f", nil,
		declWord("s", num(0)),
		forLoop(declWord("i", num(0)), binop(ident("i"), "<", num(10)), unop("x++", ident("i")),
			ifStmt(binop(ident("i"), "%", num(2)), cont(), nil),
			binop(ident("s"), "+=", ident("i")),
		),
		ret(ident("s")),
	)

	fn := generate(t, fd)
	if got := run(t, fn).ret; got != 20 {
		t.Errorf("got %d, want 0 + 2 + 4 + 6 + 8", got)
	}

	if n := countBlocks(fn, "for."); n != 3 {
		t.Errorf("loop created %d blocks", n)
	}
}

func TestBreakAndContinue(t *testing.T) {
	// for (;;) { if (i == 5) break; i++; }
	fd := valueFunc("f", nil,
		declWord("i", num(0)),
		forLoop(nil, nil, nil,
			ifStmt(binop(ident("i"), "==", num(5)), brk(), nil),
			unop("x++", ident("i")),
		),
		ret(ident("i")),
	)

	if got := run(t, generate(t, fd)).ret; got != 5 {
		t.Errorf("infinite for loop broke at %d, want 5", got)
	}

	// while (i < 10) { i++; if (i > 3) continue; n++; }
	fd = valueFunc("g", nil,
		declWord("i", num(0)),
		declWord("n", num(0)),
		whileLoop(binop(ident("i"), "<", num(10)),
			unop("x++", ident("i")),
			ifStmt(binop(ident("i"), ">", num(3)), cont(), nil),
			unop("x++", ident("n")),
		),
		ret(ident("n")),
	)

	if got := run(t, generate(t, fd)).ret; got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestBreakLeavesInnermostLoop(t *testing.T) {
	// while (i < 3) { i++; while (true) { n++; break; } }
	fd := valueFunc("f", nil,
		declWord("i", num(0)),
		declWord("n", num(0)),
		whileLoop(binop(ident("i"), "<", num(3)),
			unop("x++", ident("i")),
			whileLoop(boolLit(true), unop("x++", ident("n")), brk()),
		),
		ret(ident("n")),
	)

	if got := run(t, generate(t, fd)).ret; got != 3 {
		t.Errorf("inner loop body ran %d times, want 3", got)
	}
}

func TestLoopControlOutsideLoop(t *testing.T) {
	expectFault(t, DefaultOptions(), voidFunc("f", nil, brk()), ErrOutsideLoop)
	expectFault(t, DefaultOptions(), voidFunc("g", nil, cont()), ErrOutsideLoop)

	// the loop context ends with the loop body
	fd := voidFunc("h", nil, whileLoop(boolLit(false)), brk())
	expectFault(t, DefaultOptions(), fd, ErrOutsideLoop)
}

func TestCodeAfterTerminator(t *testing.T) {
	fd := valueFunc("f", nil,
		declWord("x", num(1)),
		ret(ident("x")),
		assign("x", num(2)),
		ret(ident("x")),
	)

	fn := generate(t, fd)

	dead := findBlock(t, fn, "dead")
	for _, block := range fn.Blocks {
		if br, ok := block.Term.(*ir.TermBr); ok && asBlock(br.Target) == dead {
			t.Errorf("block %s branches into the dead block", block.Name())
		}
	}

	if got := run(t, fn).ret; got != 1 {
		t.Errorf("got %d, want 1", got)
	}

	// break in the middle of a loop body
	fd = voidFunc("g", nil, whileLoop(boolLit(true), brk(), declWord("y", num(1))))
	fn = generate(t, fd)

	if got := run(t, fn); got.visits["dead"] != 0 {
		t.Errorf("dead block executed")
	}

	// f(a) { if (a) { return 1; 5; } else { return 2; } }
	fd = valueFunc("h", []string{"a"},
		ifStmt(ident("a"), blockOf(ret(num(1)), num(5)), blockOf(ret(num(2)))),
	)
	fn = generate(t, fd)

	if _, ok := findBlock(t, fn, "if.end").Term.(*ir.TermUnreachable); !ok {
		t.Errorf("if.end is only reached from a dead block and should be unreachable")
	}

	for a, want := range []uint64{2, 1} {
		if got := run(t, fn, uint64(a)).ret; got != want {
			t.Errorf("h(%d) = %d, want %d", a, got, want)
		}
	}

	// a do-while body that always returns never reaches the condition
	fd = valueFunc("k", nil, doWhileLoop(boolLit(true), ret(num(7)), num(1)))
	fn = generate(t, fd)

	if got := run(t, fn).ret; got != 7 {
		t.Errorf("got %d, want 7", got)
	}

	// a do-while loop that falls through still needs a return after it
	fallOff := valueFunc("m", nil,
		declWord("x", num(0)),
		doWhileLoop(binop(ident("x"), "<", num(3)), unop("x++", ident("x"))),
	)
	expectFault(t, DefaultOptions(), fallOff, ErrMissingReturnValue)
}

func TestFlatScope(t *testing.T) {
	// uint x = 1; { uint x = 2; } return x;
	fd := valueFunc("f", nil,
		declWord("x", num(1)),
		blockOf(declWord("x", num(2))),
		ret(ident("x")),
	)

	fn := generate(t, fd)
	if got := run(t, fn).ret; got != 2 {
		t.Errorf("got %d, want the inner declaration's value", got)
	}

	// both declarations have their own storage
	var slots []string
	for _, inst := range fn.Blocks[0].Insts {
		if slot, ok := inst.(*ir.InstAlloca); ok {
			slots = append(slots, slot.Name())
		}
	}

	if strings.Join(slots, " ") != "x_addr x_addr1" {
		t.Errorf("slots are %v", slots)
	}

	// the redeclaration also replaces the binding after an if statement
	fd = valueFunc("g", []string{"a"},
		declWord("x", num(1)),
		ifStmt(ident("a"), declWord("x", num(5)), nil),
		ret(ident("x")),
	)

	fn = generate(t, fd)
	if got := run(t, fn, 1).ret; got != 5 {
		t.Errorf("g(1) = %d, want 5", got)
	}
}

func TestMultiNameDeclaration(t *testing.T) {
	// uint a, b = 5; return a * 10 + b;
	decl := &ast.DeclStmt{
		Vars:  []*ast.VarDecl{{Name: "a"}, {Name: "b"}, {Name: "c", Type: ast.TypeBool}},
		Value: num(5),
	}

	fd := valueFunc("f", nil,
		decl,
		ret(binop(binop(ident("a"), "*", num(10)), "+", binop(ident("b"), "+", ident("c")))),
	)

	if got := run(t, generate(t, fd)).ret; got != 50 {
		t.Errorf("got %d, want a == 5 and b == c == 0", got)
	}

	expectFault(t, DefaultOptions(), voidFunc("g", nil, &ast.DeclStmt{}), ErrMalformedTree)
}

func TestDeclarationInLoop(t *testing.T) {
	// uint x = 3; while (x > 0) { uint y = x; x--; } return y;
	fd := valueFunc("f", nil,
		declWord("x", num(3)),
		whileLoop(binop(ident("x"), ">", num(0)),
			declWord("y", ident("x")),
			unop("x--", ident("x")),
		),
		ret(ident("y")),
	)

	if got := run(t, generate(t, fd)).ret; got != 1 {
		t.Errorf("got %d, want the value stored on the last iteration", got)
	}
}

func TestReturnPolicy(t *testing.T) {
	implicit := DefaultOptions()
	implicit.ImplicitZeroReturn = true

	bare := valueFunc("f", nil, ret(nil))
	expectFault(t, DefaultOptions(), bare, ErrMissingReturnValue)

	if got := run(t, generateWith(t, implicit, bare)).ret; got != 0 {
		t.Errorf("bare return yielded %d, want 0", got)
	}

	fallOff := valueFunc("g", []string{"a"}, ifStmt(ident("a"), ret(num(4)), nil))
	expectFault(t, DefaultOptions(), fallOff, ErrMissingReturnValue)

	fn := generateWith(t, implicit, fallOff)
	if got := run(t, fn, 1).ret; got != 4 {
		t.Errorf("g(1) = %d, want 4", got)
	}

	if got := run(t, fn, 0).ret; got != 0 {
		t.Errorf("g(0) = %d, want 0", got)
	}

	expectFault(t, DefaultOptions(), voidFunc("h", nil, ret(num(1))), ErrUnexpectedReturnValue)

	// void functions return implicitly
	fn = generate(t, voidFunc("i", []string{"a"}, ifStmt(ident("a"), ret(nil), nil)))
	for _, block := range fn.Blocks {
		if r, ok := block.Term.(*ir.TermRet); ok && r.X != nil {
			t.Errorf("void function returns a value from %s", block.Name())
		}
	}

	run(t, fn, 0)
	run(t, fn, 1)
}

func TestMalformedStatements(t *testing.T) {
	expectFault(t, DefaultOptions(), &ast.FuncDecl{Name: "f"}, ErrMalformedTree)
	expectFault(t, DefaultOptions(), voidFunc("g", nil, ifStmt(nil, blockOf(), nil)), ErrMalformedTree)
	expectFault(t, DefaultOptions(), voidFunc("h", nil, blockOf(nil)), ErrMalformedTree)
}
