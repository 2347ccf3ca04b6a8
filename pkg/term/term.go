// Package term prints step-oriented progress output for the CLI.
package term

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// Step prints a green step header followed by indented detail lines.
func Step(title string, lines ...string) {
	fmt.Print("-----> ")
	green.Println(title)
	for _, line := range lines {
		Line(line)
	}
}

// Line prints an indented detail line.
func Line(args ...any) {
	fmt.Print("       ")
	fmt.Println(args...)
}

// Warning prints a yellow warning header and lines.
func Warning(title string, lines ...string) {
	fmt.Print("-----> ")
	yellow.Println(title)
	for _, line := range lines {
		yellow.Print(" !     ")
		fmt.Println(line)
	}
}

// Error prints a red error header and lines to stderr.
func Error(title string, lines ...string) {
	fmt.Fprint(os.Stderr, "-----> ")
	red.Fprintln(os.Stderr, title)
	for _, line := range lines {
		red.Fprint(os.Stderr, " !     ")
		fmt.Fprintln(os.Stderr, line)
	}
}
