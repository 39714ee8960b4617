package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed, color.Bold)
	warning = color.New(color.FgYellow)
	info    = color.New(color.FgCyan)
	muted   = color.New(color.Faint)
	bold    = color.New(color.Bold)

	checkMark = color.GreenString("✓")
	crossMark = color.RedString("✗")

	// Arrow separates the old and new version in update messages
	Arrow = color.CyanString("→")
)

// InitColors turns colors off for NO_COLOR and dumb terminals
func InitColors() {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// DisableColors turns off all color output
func DisableColors() {
	color.NoColor = true
}

// PrintSuccess reports a completed step on stdout
func PrintSuccess(format string, args ...interface{}) {
	success.Fprintf(os.Stdout, "%s %s\n", checkMark, fmt.Sprintf(format, args...))
}

// PrintError reports a failure on stderr
func PrintError(format string, args ...interface{}) {
	failure.Fprintf(os.Stderr, "%s Error: %s\n", crossMark, fmt.Sprintf(format, args...))
}

// PrintWarning reports a non fatal problem on stderr
func PrintWarning(format string, args ...interface{}) {
	warning.Fprintf(os.Stderr, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints a status line on stdout
func PrintInfo(format string, args ...interface{}) {
	info.Fprintf(os.Stdout, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// PrintKeyValue prints "key: value" with the key in bold
func PrintKeyValue(key, value string) {
	bold.Fprintf(os.Stdout, "%s: ", key)
	fmt.Fprintln(os.Stdout, value)
}

// PrintHeader writes a bold title underlined to its own width
func PrintHeader(w io.Writer, title string) {
	bold.Fprintln(w, title)
	muted.Fprintln(w, strings.Repeat("─", len([]rune(title))))
}

// ColorizeVersion shows newer versions in green and others faint
func ColorizeVersion(version string, newer bool) string {
	if newer {
		return success.Sprint(version)
	}
	return muted.Sprint(version)
}
