package cmd

import (
	"fmt"
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/kr/pretty"

	"github.com/sunhaibo2004/SOLL/common"
	"github.com/sunhaibo2004/SOLL/config"
	"github.com/sunhaibo2004/SOLL/report"
	"github.com/sunhaibo2004/SOLL/treefile"
)

// Execute is the main entry point for the `solgen` CLI utility
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("solgen", "solgen generates LLVM IR function bodies from function trees", true)
	cli.AddSelectorArg("loglevel", "ll", "the generator log level", false, []string{"silent", "error", "warn", "verbose"})

	buildCmd := cli.AddSubcommand("build", "generate a tree file to LLVM IR", true)
	buildCmd.AddPrimaryArg("tree-path", "the path to the tree file to generate", true)
	buildCmd.AddStringArg("outpath", "o", "the path to write the LLVM IR to", false)
	buildCmd.AddStringArg("config", "c", "the path to the configuration file", false)

	dumpCmd := cli.AddSubcommand("dump", "print the decoded contents of a tree file", true)
	dumpCmd.AddPrimaryArg("tree-path", "the path to the tree file to print", true)

	cli.AddSubcommand("version", "print the solgen version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.ReportFatal("%s", err)
	}

	// the log level given on the command line overrides the configured one
	logLevel := ""
	if value, ok := result.Arguments["loglevel"]; ok {
		logLevel = value.(string)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		if !execBuildCommand(subResult, logLevel) {
			os.Exit(1)
		}
	case "dump":
		execDumpCommand(subResult)
	case "version":
		report.DisplayInfoMessage("Solgen Version", common.SolgenVersion)
	}
}

// execBuildCommand executes the build subcommand.  It returns whether
// generation succeeded.
func execBuildCommand(result *olive.ArgParseResult, logLevel string) bool {
	configPath := ""
	if value, ok := result.Arguments["config"]; ok {
		configPath = value.(string)
	}

	conf, err := config.Load(configPath)
	if err != nil {
		report.ReportFatal("%s", err)
	}

	if logLevel != "" {
		conf.LogLevel = logLevel
	}

	if value, ok := result.Arguments["outpath"]; ok {
		conf.OutputPath = value.(string)
	}

	// initialize the reporter
	report.InitReporter(conf.Level())

	// get the primary argument: the tree path
	treePath, _ := result.PrimaryArg()

	c := NewCompiler(treePath, conf)
	return c.Compile()
}

// execDumpCommand executes the dump subcommand.
func execDumpCommand(result *olive.ArgParseResult) {
	treePath, _ := result.PrimaryArg()

	if !dumpTree(treePath) {
		os.Exit(1)
	}
}

// dumpTree prints the decoded functions of a tree file.  It returns false if
// the tree could not be loaded.
func dumpTree(treePath string) (ok bool) {
	defer report.CatchErrors("", treePath)

	for _, fd := range treefile.MustLoad(treePath) {
		fmt.Printf("%# v\n", pretty.Formatter(fd))
	}

	return true
}
