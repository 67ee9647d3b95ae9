// Package main is the entry point for pianolog. Without arguments it runs the
// terminal UI; subcommands give scriptable access to the same log.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newCLI()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
