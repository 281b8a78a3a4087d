// Package config loads the generator's project configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
	"github.com/xyproto/env/v2"

	"github.com/sunhaibo2004/SOLL/codegen"
	"github.com/sunhaibo2004/SOLL/common"
	"github.com/sunhaibo2004/SOLL/report"
)

// Environment variables overriding the configuration.
const (
	// EnvConfigPath is the path of the configuration file to load when none is
	// given on the command line.
	EnvConfigPath = "SOLGEN_CONFIG"

	// EnvLogLevel overrides the configured log level.
	EnvLogLevel = "SOLGEN_LOGLEVEL"
)

// Enumeration of the missing-return policies.
const (
	MissingReturnFault = "fault"
	MissingReturnZero  = "zero"
)

// tomlConfigFile represents the configuration file as it is encoded in TOML.
type tomlConfigFile struct {
	Codegen *tomlCodegen `toml:"codegen"`
	Output  *tomlOutput  `toml:"output"`
	Log     *tomlLog     `toml:"log"`
}

// tomlCodegen represents the `[codegen]` table.
type tomlCodegen struct {
	AssertFunc    string `toml:"assert-func,omitempty"`
	RevertFunc    string `toml:"revert-func,omitempty"`
	MissingReturn string `toml:"missing-return,omitempty"`
}

// tomlOutput represents the `[output]` table.
type tomlOutput struct {
	Path           string `toml:"path,omitempty"`
	SourceFileName string `toml:"source-filename,omitempty"`
	TargetTriple   string `toml:"target-triple,omitempty"`
	DataLayout     string `toml:"data-layout,omitempty"`
}

// tomlLog represents the `[log]` table.
type tomlLog struct {
	Level string `toml:"level,omitempty"`
}

// Config is the validated project configuration.
type Config struct {
	// AssertFunc is the name of the assertion intrinsic.
	AssertFunc string

	// RevertFunc is the name of the revert primitive.
	RevertFunc string

	// MissingReturn is one of the enumerated missing-return policies.
	MissingReturn string

	// OutputPath is the path the generated module is written to.
	OutputPath string

	// SourceFileName, TargetTriple and DataLayout are copied onto the
	// generated module.  Empty values are omitted from the output.
	SourceFileName string
	TargetTriple   string
	DataLayout     string

	// LogLevel is the name of the selected log level.
	LogLevel string
}

// Default returns the configuration used in the absence of a configuration
// file.
func Default() *Config {
	opts := codegen.DefaultOptions()

	return &Config{
		AssertFunc:    opts.AssertFunc,
		RevertFunc:    opts.RevertFunc,
		MissingReturn: MissingReturnFault,
		OutputPath:    common.DefaultOutputPath,
		LogLevel:      "verbose",
	}
}

// Load loads and validates the configuration file at path.  If path is empty,
// the path is taken from the environment or defaults to the standard file
// name; a missing default file is not an error.  The log level environment
// override is applied in every case.
func Load(path string) (*Config, error) {
	explicit := path != "" || env.Has(EnvConfigPath)
	if path == "" {
		path = env.Str(EnvConfigPath, common.ConfigFileName)
	}

	conf := Default()

	buff, err := os.ReadFile(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading configuration: %w", err)
		}
	} else if err := conf.decode(buff); err != nil {
		return nil, fmt.Errorf("error loading configuration from %s: %w", path, err)
	}

	if level := env.Str(EnvLogLevel); level != "" {
		conf.LogLevel = level
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// decode merges the contents of a TOML configuration file into the
// configuration.
func (c *Config) decode(buff []byte) error {
	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buff, tcf); err != nil {
		return err
	}

	if cg := tcf.Codegen; cg != nil {
		mergeString(&c.AssertFunc, cg.AssertFunc)
		mergeString(&c.RevertFunc, cg.RevertFunc)
		mergeString(&c.MissingReturn, cg.MissingReturn)
	}

	if out := tcf.Output; out != nil {
		mergeString(&c.OutputPath, out.Path)
		mergeString(&c.SourceFileName, out.SourceFileName)
		mergeString(&c.TargetTriple, out.TargetTriple)
		mergeString(&c.DataLayout, out.DataLayout)
	}

	if tcf.Log != nil {
		mergeString(&c.LogLevel, tcf.Log.Level)
	}

	return nil
}

func mergeString(dest *string, value string) {
	if value != "" {
		*dest = value
	}
}

// validate checks that the configuration values are valid.
func (c *Config) validate() error {
	if c.AssertFunc == c.RevertFunc {
		return fmt.Errorf("assert-func and revert-func must differ: both are `%s`", c.AssertFunc)
	}

	switch c.MissingReturn {
	case MissingReturnFault, MissingReturnZero:
	default:
		return fmt.Errorf("invalid missing-return policy `%s`: expected `%s` or `%s`", c.MissingReturn, MissingReturnFault, MissingReturnZero)
	}

	if _, ok := report.LogLevelFromName(c.LogLevel); !ok {
		return fmt.Errorf("invalid log level `%s`", c.LogLevel)
	}

	return nil
}

// Options returns the generator options selected by the configuration.
func (c *Config) Options() codegen.Options {
	return codegen.Options{
		AssertFunc:         c.AssertFunc,
		RevertFunc:         c.RevertFunc,
		ImplicitZeroReturn: c.MissingReturn == MissingReturnZero,
	}
}

// Level returns the enumerated log level of the configuration.
func (c *Config) Level() int {
	level, _ := report.LogLevelFromName(c.LogLevel)
	return level
}
