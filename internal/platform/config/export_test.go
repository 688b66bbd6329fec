package config

import "io"

// ExitFuncForTest swaps the exit hook and returns a restore func.
func ExitFuncForTest(fn func(int)) func() {
	prev := exitFunc
	exitFunc = fn
	return func() { exitFunc = prev }
}

// ExitOutForTest swaps the fatal message writer and returns a restore func.
func ExitOutForTest(w io.Writer) func() {
	prev := exitOut
	exitOut = w
	return func() { exitOut = prev }
}
