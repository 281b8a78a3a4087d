package codegen

import (
	"github.com/llir/llvm/ir/value"

	"github.com/sunhaibo2004/SOLL/ast"
)

// cachedValue is the value produced by visiting an expression.
type cachedValue struct {
	// val is the produced value.  It is nil for expressions which yield
	// nothing.
	val value.Value

	// addr indicates val is the address of the expression's storage rather than
	// its value.
	addr bool
}

// valueCache associates each visited expression with its value.  Entries are
// keyed by node identity and live until the function is generated.
type valueCache map[ast.Expr]cachedValue

// cacheValue records the value of expr.
func (fg *funcGen) cacheValue(expr ast.Expr, val value.Value) {
	fg.cache[expr] = cachedValue{val: val}
}

// cacheAddr records the storage address of expr.
func (fg *funcGen) cacheAddr(expr ast.Expr, addr value.Value) {
	fg.cache[expr] = cachedValue{val: addr, addr: true}
}

// lookup returns the cached value of expr which must already be visited.
func (fg *funcGen) lookup(expr ast.Expr) cachedValue {
	cv, ok := fg.cache[expr]
	if !ok {
		fg.raise(ErrCacheMiss, spanOf(expr), "expression %T used before it was generated", expr)
	}

	return cv
}

// rvalue returns the value of a visited expression, loading it from its
// storage if the expression designates storage.
func (fg *funcGen) rvalue(expr ast.Expr) value.Value {
	cv := fg.lookup(expr)
	if cv.val == nil {
		fg.raise(ErrNoValue, spanOf(expr), "expression yields no value")
	}

	if cv.addr {
		return fg.load(cv.val)
	}

	return cv.val
}

// address returns the storage address of a visited expression.  The verb
// describes the use of the address in the error message.
func (fg *funcGen) address(expr ast.Expr, verb string) value.Value {
	cv := fg.lookup(expr)
	if !cv.addr {
		// lvalues without storage are parameters
		if id, ok := unparen(expr).(*ast.Identifier); ok && expr.Category() == ast.LValue {
			fg.raise(ErrNotAssignable, spanOf(expr), "cannot %s parameter `%s`", verb, id.Name)
		}

		fg.raise(ErrNotAssignable, spanOf(expr), "cannot %s a value which is not an lvalue", verb)
	}

	return cv.val
}
