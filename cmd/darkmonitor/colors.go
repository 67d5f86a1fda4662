package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
)

// printSuccess writes a green status line.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, colorSuccess(fmt.Sprintf(format, args...)))
}

// printInfo writes a cyan status line.
func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, colorInfo(fmt.Sprintf(format, args...)))
}

// printWarn writes a yellow status line.
func printWarn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, colorWarn(fmt.Sprintf(format, args...)))
}
