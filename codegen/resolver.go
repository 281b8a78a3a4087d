package codegen

import (
	"github.com/llir/llvm/ir"
)

// resolver maps source names onto the function's parameters and local stack
// storage.  Both tables are flat for the whole function: declaring a name
// again replaces its storage for the rest of the function, even outside of the
// block containing the declaration.
type resolver struct {
	// locals is the storage table.
	locals map[string]*ir.InstAlloca

	// params is the parameter table.
	params map[string]*ir.Param
}

func newResolver() *resolver {
	return &resolver{
		locals: make(map[string]*ir.InstAlloca),
		params: make(map[string]*ir.Param),
	}
}

func (r *resolver) resolveAddress(name string) (*ir.InstAlloca, bool) {
	slot, ok := r.locals[name]
	return slot, ok
}

func (r *resolver) resolveParameter(name string) (*ir.Param, bool) {
	param, ok := r.params[name]
	return param, ok
}

func (r *resolver) bindParameter(name string, param *ir.Param) {
	r.params[name] = param
}

// declareLocal records slot as the storage of name.
func (r *resolver) declareLocal(name string, slot *ir.InstAlloca) {
	r.locals[name] = slot
}
