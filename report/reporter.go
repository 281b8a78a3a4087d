package report

import "sync"

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors reported so far.
	errorCount int

	// The number of warnings reported so far.
	warnCount int
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all generation messages to the user (default).
)

// rep is the global reporter instance.
var rep = &Reporter{m: &sync.Mutex{}, logLevel: LogLevelVerbose}

// InitReporter (re)initializes the global error reporter to the given log
// level.  Any previously counted errors and warnings are discarded.
func InitReporter(logLevel int) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.logLevel = logLevel
	rep.errorCount = 0
	rep.warnCount = 0
}

// LogLevelFromName converts the name of a log level as it is given on the
// command line or in the configuration file into its enumerated value. The
// boolean is false if the name is not a known log level.
func LogLevelFromName(name string) (int, bool) {
	switch name {
	case "silent":
		return LogLevelSilent, true
	case "error":
		return LogLevelError, true
	case "warn", "warning":
		return LogLevelWarn, true
	case "verbose", "":
		return LogLevelVerbose, true
	}

	return LogLevelVerbose, false
}

// LogLevel returns the current log level of the global reporter.
func LogLevel() int {
	rep.m.Lock()
	defer rep.m.Unlock()

	return rep.logLevel
}
