// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the tailsign CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct factory, and
// a Run function. Commands are assembled into a tree in
// cmd/tailsign/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// Flags are declared as tagged struct fields and bound by [BindFlags].
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
//
// Commands report failures as [ToolError] values classified by
// category, and signal outcome exit codes (such as "a file failed
// verification") with [ExitError].
package cli
