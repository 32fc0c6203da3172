// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// tailsign appends Ed25519 signature footers to files and verifies
// them. Run "tailsign --help" for the command list.
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/cmd/tailsign/commands"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	err := commands.Root(os.Stdout).Execute(args)
	if err == nil {
		return 0
	}

	// Commands that print their own outcome (verify, check, inspect)
	// return an ExitError with the desired code. Don't print a
	// redundant "error:" line for those.
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		return coder.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	if cli.CategoryOf(err) == cli.CategoryValidation {
		return 2
	}
	return 1
}
