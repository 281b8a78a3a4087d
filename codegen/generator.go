// Package codegen generates LLVM IR function bodies from the statement and
// expression trees of the `ast` package.
package codegen

import (
	"errors"
	"runtime"
	"strconv"
	"sync"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/rickypai/natsort"
	"golang.org/x/sync/errgroup"

	"github.com/sunhaibo2004/SOLL/ast"
	"github.com/sunhaibo2004/SOLL/util"
)

// Options configures a Generator.
type Options struct {
	// AssertFunc is the name of the assertion intrinsic: a call of the form
	// `AssertFunc(cond, "message")`.
	AssertFunc string

	// RevertFunc is the name of the external abort primitive called when an
	// assertion fails.  It is declared as `void (i8*, i32)` if the module does
	// not already contain it.
	RevertFunc string

	// ImplicitZeroReturn makes functions which return a value return zero from
	// a bare `return` or by reaching the end of their body.  By default both are
	// lowering faults.
	ImplicitZeroReturn bool
}

// DefaultOptions returns the default generator options.
func DefaultOptions() Options {
	return Options{
		AssertFunc: "require",
		RevertFunc: "revert",
	}
}

// Generator is responsible for generating function bodies into a single LLVM
// module.  The functions themselves are generated independently so the
// generator can be used from multiple goroutines: only the accesses to the
// shared module are synchronized.
type Generator struct {
	// opts are the options the generator was created with.
	opts Options

	// mod is the LLVM module being generated.
	mod *ir.Module

	// m guards mod, funcs, claimed and declNames.
	m sync.Mutex

	// funcs indexes the functions of mod by name.
	funcs map[string]*ir.Func

	// claimed is the set of functions whose bodies are being or have been
	// generated by this generator.
	claimed map[*ir.Func]bool

	// declNames holds the original parameter names of existing declarations
	// renamed for generation, until their bodies are committed.
	declNames map[*ir.Func][]string
}

// NewGenerator creates a new generator appending into mod.  If mod is nil, a
// new module is created.
func NewGenerator(mod *ir.Module, opts Options) *Generator {
	if mod == nil {
		mod = ir.NewModule()
	}

	defaults := DefaultOptions()
	if opts.AssertFunc == "" {
		opts.AssertFunc = defaults.AssertFunc
	}

	if opts.RevertFunc == "" {
		opts.RevertFunc = defaults.RevertFunc
	}

	g := &Generator{
		opts:    opts,
		mod:     mod,
		funcs:     make(map[string]*ir.Func),
		claimed:   make(map[*ir.Func]bool),
		declNames: make(map[*ir.Func][]string),
	}

	for _, f := range mod.Funcs {
		g.funcs[f.Name()] = f
	}

	return g
}

// Module returns the module being generated.
func (g *Generator) Module() *ir.Module {
	return g.mod
}

// -----------------------------------------------------------------------------

// GenerateFunc generates the function described by fd.  If the module already
// contains a matching declaration (no body) for the function, its body is
// generated into it; otherwise, a new function is added to the module.  All
// values and parameters are 64-bit unsigned integers.
//
// If generation fails, the returned error is a *LoweringError and the module
// is left as it was before the call, apart from a declaration of the revert
// primitive.
func (g *Generator) GenerateFunc(fd *ast.FuncDecl) (fn *ir.Func, err error) {
	f, created, err := g.declareFunc(fd, true)
	if err != nil {
		return nil, err
	}

	fg := newFuncGen(g, fd, f)

	defer func() {
		if x := recover(); x != nil {
			lerr, ok := x.(*LoweringError)
			if !ok {
				panic(x)
			}

			g.discardFunc(f, created)
			fn, err = nil, lerr
		}
	}()

	fg.genBody()
	g.commitFunc(f, fg.globals)

	return f, nil
}

// GenerateAll generates every function in fds.  The functions are all declared
// up front, in order, so they may refer to each other and so the layout of the
// module does not depend on scheduling; their bodies are then generated
// concurrently.  The returned error joins every lowering fault encountered.
func (g *Generator) GenerateAll(fds []*ast.FuncDecl) error {
	errs := make([]error, len(fds))

	seen := make(map[string]bool)
	for i, fd := range fds {
		if seen[fd.Name] {
			errs[i] = &LoweringError{
				Kind:    ErrFuncRedefined,
				Func:    fd.Name,
				Span:    fd.Span(),
				Message: "function is defined more than once",
			}
			continue
		}

		seen[fd.Name] = true
		if _, _, err := g.declareFunc(fd, false); err != nil {
			errs[i] = err
		}
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, fd := range fds {
		if errs[i] != nil {
			continue
		}

		eg.Go(func() error {
			_, errs[i] = g.GenerateFunc(fd)
			return nil
		})
	}

	// No goroutine returns an error: every fault is collected in errs.
	_ = eg.Wait()

	g.SortGlobals()

	return errors.Join(errs...)
}

// SortGlobals orders the globals of the module by natural name order.
// Globals are committed in whatever order their functions finish generating,
// so this is needed for deterministic output after concurrent generation.
func (g *Generator) SortGlobals() {
	g.m.Lock()
	defer g.m.Unlock()

	byName := make(map[string]*ir.Global, len(g.mod.Globals))
	names := make([]string, 0, len(g.mod.Globals))
	var unnamed []*ir.Global
	for _, glob := range g.mod.Globals {
		name := glob.Name()
		if _, dup := byName[name]; dup || glob.GlobalName == "" {
			unnamed = append(unnamed, glob)
			continue
		}

		byName[name] = glob
		names = append(names, name)
	}

	natsort.Strings(names)

	sorted := make([]*ir.Global, 0, len(g.mod.Globals))
	for _, name := range names {
		sorted = append(sorted, byName[name])
	}

	g.mod.Globals = append(sorted, unnamed...)
}

// -----------------------------------------------------------------------------

// declareFunc looks up or creates the LLVM function for fd.  The returned
// boolean indicates whether the function was created by this call.  If claim is
// true, the function is also reserved for body generation by the caller.
func (g *Generator) declareFunc(fd *ast.FuncDecl, claim bool) (*ir.Func, bool, error) {
	g.m.Lock()
	defer g.m.Unlock()

	retType := types.Type(types.Void)
	if fd.ReturnsValue {
		retType = types.I64
	}

	paramNames := uniqueParamNames(fd.Params)

	if f, ok := g.funcs[fd.Name]; ok {
		if len(f.Blocks) > 0 || g.claimed[f] {
			return nil, false, &LoweringError{
				Kind:    ErrFuncRedefined,
				Func:    fd.Name,
				Span:    fd.Span(),
				Message: "function already has a body",
			}
		}

		if !sigMatches(f, len(fd.Params), retType) {
			return nil, false, &LoweringError{
				Kind:    ErrSignatureMismatch,
				Func:    fd.Name,
				Span:    fd.Span(),
				Message: "declaration does not match the existing declaration of the function",
			}
		}

		// the existing declaration may use different parameter names
		if _, ok := g.declNames[f]; !ok {
			g.declNames[f] = util.Map(f.Params, func(param *ir.Param) string {
				return param.Name()
			})
		}

		for i, param := range f.Params {
			param.SetName(paramNames[i])
		}

		g.claimed[f] = claim
		return f, false, nil
	}

	params := make([]*ir.Param, len(fd.Params))
	for i := range fd.Params {
		params[i] = ir.NewParam(paramNames[i], types.I64)
	}

	f := g.mod.NewFunc(fd.Name, retType, params...)
	g.funcs[fd.Name] = f
	g.claimed[f] = claim
	return f, true, nil
}

// sigMatches returns whether f has nParams 64-bit parameters and returns
// retType.
func sigMatches(f *ir.Func, nParams int, retType types.Type) bool {
	if len(f.Params) != nParams || !f.Sig.RetType.Equal(retType) || f.Sig.Variadic {
		return false
	}

	for _, param := range f.Params {
		if !param.Typ.Equal(types.I64) {
			return false
		}
	}

	return true
}

// uniqueParamNames returns the LLVM names of the given parameters.  Repeated
// source names are suffixed until they differ from every name already used,
// since LLVM local names must be unique.
func uniqueParamNames(params []*ast.Param) []string {
	names := make([]string, len(params))
	used := make(map[string]bool)
	suffixes := make(map[string]int)
	for i, param := range params {
		name := param.Name
		for used[name] {
			suffixes[param.Name]++
			name = param.Name + "." + strconv.Itoa(suffixes[param.Name])
		}

		used[name] = true
		names[i] = name
	}

	return names
}

// discardFunc undoes the generation of a function which faulted.
func (g *Generator) discardFunc(f *ir.Func, created bool) {
	g.m.Lock()
	defer g.m.Unlock()

	delete(g.claimed, f)

	if !created {
		// restore the declaration the function was generated into
		f.Blocks = nil
		if names, ok := g.declNames[f]; ok {
			for i, param := range f.Params {
				param.SetName(names[i])
			}

			delete(g.declNames, f)
		}

		return
	}

	delete(g.funcs, f.Name())
	for i, mf := range g.mod.Funcs {
		if mf == f {
			g.mod.Funcs = append(g.mod.Funcs[:i], g.mod.Funcs[i+1:]...)
			break
		}
	}
}

// commitFunc adds the globals created by a successfully generated function to
// the module.
func (g *Generator) commitFunc(f *ir.Func, globals []*ir.Global) {
	g.m.Lock()
	defer g.m.Unlock()

	delete(g.declNames, f)
	g.mod.Globals = append(g.mod.Globals, globals...)
}

// revertFunc returns the revert primitive, declaring it if necessary.  The
// boolean is false if a function of the same name with a different signature
// already exists.
func (g *Generator) revertFunc() (*ir.Func, bool) {
	g.m.Lock()
	defer g.m.Unlock()

	if f, ok := g.funcs[g.opts.RevertFunc]; ok {
		sig := f.Sig
		return f, !sig.Variadic && sig.RetType.Equal(types.Void) && len(sig.Params) == 2 &&
			sig.Params[0].Equal(types.I8Ptr) && sig.Params[1].Equal(types.I32)
	}

	f := g.mod.NewFunc(
		g.opts.RevertFunc,
		types.Void,
		ir.NewParam("msg", types.I8Ptr),
		ir.NewParam("len", types.I32),
	)
	g.funcs[g.opts.RevertFunc] = f
	return f, true
}
