package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// DisplayInfoMessage prints an informational message to the user regardless of
// log level.
func DisplayInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	ErrorStyleBG.Print("internal compiler error")
	ErrorColorFG.Println(" " + message)
	fmt.Print("This error was not supposed to happen: please open an issue.\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	ErrorStyleBG.Print("fatal error")
	ErrorColorFG.Println(" " + message)
	fmt.Println()
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the string to prefix the message with: eg. if we want to display an error,
// the label is "error".
func displayCompileMessage(label, absPath, reprPath string, span *TextSpan, message string) {
	style, color := ErrorStyleBG, ErrorColorFG
	if label != "error" {
		style, color = WarnStyleBG, WarnColorFG
	}

	if span == nil {
		fmt.Print(reprPath, ": ")
	} else {
		fmt.Printf("%s:%d:%d: ", reprPath, span.StartLine+1, span.StartCol+1)
	}

	style.Print(label)
	color.Println(" " + message)
	fmt.Println()

	if span != nil && absPath != "" {
		displaySourceText(absPath, span)
	}
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	fmt.Print(reprPath, ": ")
	ErrorStyleBG.Print("error")
	ErrorColorFG.Println(" " + err.Error())
	fmt.Println()
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
// Unlike in the rest of the reporter, failures here are not fatal: the message
// has already been shown and the excerpt is only a courtesy.
func displaySourceText(absPath string, span *TextSpan) {
	file, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		InfoColorFG.Print(fmt.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		// Every line but the first is underlined from its start and every line
		// but the last is underlined to its end.
		carretStart := 0
		if i == 0 {
			carretStart = span.StartCol - minIndent
		}

		carretEnd := len(line) - minIndent
		if i == len(lines)-1 {
			carretEnd = span.EndCol - minIndent
		}

		fmt.Print(strings.Repeat(" ", clampCount(carretStart)))
		ErrorColorFG.Println(strings.Repeat("^", clampCount(carretEnd-carretStart)))
	}

	fmt.Println()
}

// clampCount keeps repeat counts computed from malformed spans non-negative.
func clampCount(n int) int {
	if n < 0 {
		return 0
	}

	return n
}

// -----------------------------------------------------------------------------

// ReportGenerateHeader displays the generator's configuration before any
// functions are generated.  It only displays at verbose log level.
func ReportGenerateHeader(version, target string) {
	if LogLevel() < LogLevelVerbose {
		return
	}

	fmt.Print("solgen ")
	InfoColorFG.Print("v" + version)
	if target != "" {
		fmt.Print(" -- target: ")
		InfoColorFG.Print(target)
	}
	fmt.Println()
}

// ReportFuncGenerated notes that a function's body was generated.  It only
// displays at verbose log level.
func ReportFuncGenerated(name string, blockCount int) {
	if LogLevel() < LogLevelVerbose {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	SuccessColorFG.Print("generated ")
	fmt.Printf("%s (%d blocks)\n", name, blockCount)
}

// ReportGenerationFinished displays the concluding message of a generation run.
func ReportGenerationFinished(outputPath string) {
	if LogLevel() < LogLevelVerbose {
		return
	}

	rep.m.Lock()
	defer rep.m.Unlock()

	fmt.Println()
	if rep.errorCount == 0 {
		SuccessStyleBG.Print("Success")
		fmt.Print(" wrote ")
		InfoColorFG.Print(outputPath)
	} else {
		ErrorStyleBG.Print("Failed")
		fmt.Print(" ")
		ErrorColorFG.Print(rep.errorCount)
		fmt.Print(" errors")
	}

	switch rep.warnCount {
	case 0:
		fmt.Println()
	case 1:
		fmt.Print(" (")
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		fmt.Print(" (")
		WarnColorFG.Print(rep.warnCount)
		fmt.Println(" warnings)")
	}
}
