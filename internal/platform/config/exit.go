package config

import (
	"fmt"
	"io"
	"os"
)

var (
	exitFunc           = os.Exit
	exitOut  io.Writer = os.Stderr
)

// Exitf writes a formatted error message to stderr and exits with code 1.
// Both tool mains route fatal errors through it.
func Exitf(format string, args ...any) {
	fmt.Fprintf(exitOut, format+"\n", args...)
	exitFunc(1)
}
