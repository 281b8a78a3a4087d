package common

// SolgenVersion is the current generator version as a string.
const SolgenVersion string = "0.1.0"

// ConfigFileName is the default name of the project configuration file.
const ConfigFileName string = "solgen.toml"

// IRFileExt is the file extension used for emitted LLVM IR assembly.
const IRFileExt string = ".ll"

// DefaultOutputPath is the output path used when none is configured.
const DefaultOutputPath string = "out" + IRFileExt
