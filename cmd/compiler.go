package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/llir/llvm/ir"

	"github.com/sunhaibo2004/SOLL/ast"
	"github.com/sunhaibo2004/SOLL/codegen"
	"github.com/sunhaibo2004/SOLL/common"
	"github.com/sunhaibo2004/SOLL/config"
	"github.com/sunhaibo2004/SOLL/report"
	"github.com/sunhaibo2004/SOLL/treefile"
)

// Compiler drives the generation of a single tree file.
type Compiler struct {
	// treeAbsPath is the absolute path to the tree file.
	treeAbsPath string

	// treeReprPath is the path to the tree file as it is displayed to the user.
	treeReprPath string

	// conf is the configuration of the generator.
	conf *config.Config

	// funcs are the decoded functions of the tree file.
	funcs []*ast.FuncDecl

	// mod is the module being generated.
	mod *ir.Module
}

// NewCompiler creates a new compiler for the tree file at treeRelPath.
func NewCompiler(treeRelPath string, conf *config.Config) *Compiler {
	// calculate the absolute path to the tree file
	treeAbsPath, err := filepath.Abs(treeRelPath)
	if err != nil {
		report.ReportFatal("error calculating absolute path: %s", err)
		return nil
	}

	mod := ir.NewModule()
	mod.SourceFilename = conf.SourceFileName
	if mod.SourceFilename == "" {
		mod.SourceFilename = filepath.Base(treeAbsPath)
	}

	mod.TargetTriple = conf.TargetTriple
	mod.DataLayout = conf.DataLayout

	return &Compiler{
		treeAbsPath:  treeAbsPath,
		treeReprPath: treeRelPath,
		conf:         conf,
		mod:          mod,
	}
}

// Compile loads the tree file, generates every function in it and writes the
// module.  It returns whether generation succeeded.
func (c *Compiler) Compile() bool {
	report.ReportGenerateHeader(common.SolgenVersion, c.conf.TargetTriple)

	if c.load() && c.generate() {
		c.emit()
	}

	report.ReportGenerationFinished(c.conf.OutputPath)
	return !report.AnyErrors()
}

// load decodes the tree file.
func (c *Compiler) load() (ok bool) {
	defer report.CatchErrors(c.treeAbsPath, c.treeReprPath)

	c.funcs = treefile.MustLoad(c.treeAbsPath)
	if len(c.funcs) == 0 {
		report.ReportCompileWarning(c.treeAbsPath, c.treeReprPath, nil, "tree file defines no functions")
	}

	return true
}

// generate generates all the functions of the tree file into the module.
func (c *Compiler) generate() bool {
	g := codegen.NewGenerator(c.mod, c.conf.Options())

	err := g.GenerateAll(c.funcs)
	for _, ferr := range splitErrors(err) {
		var lerr *codegen.LoweringError
		if errors.As(ferr, &lerr) && lerr.Internal() {
			report.ReportICE("%s", lerr)
		}

		report.ReportStdError(c.treeAbsPath, c.treeReprPath, ferr)
	}

	for _, f := range c.mod.Funcs {
		if len(f.Blocks) > 0 {
			report.ReportFuncGenerated(f.Name(), len(f.Blocks))
		}
	}

	return err == nil
}

// splitErrors returns the errors joined in err.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}

	return []error{err}
}

// emit writes the module to the output path.
func (c *Compiler) emit() {
	outputPath := c.conf.OutputPath
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			report.ReportFatal("failed to create output directory: %s", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		report.ReportFatal("failed to create output file: %s", err)
	}
	defer f.Close()

	if _, err := c.mod.WriteTo(f); err != nil {
		report.ReportFatal("failed to write module: %s", err)
	}
}
