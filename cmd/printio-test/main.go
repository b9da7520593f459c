// Package main is the printio-test fixture binary. It is spawned by launcher
// tests and harnesses that need a subprocess with fully predictable stdout,
// stderr, exit code, and argument recording.
package main

import (
	"os"

	"github.com/printio/printio-test/internal/fixture"
)

func main() {
	os.Exit(fixture.Run(os.Args[1:], os.Stdout, os.Stderr))
}
