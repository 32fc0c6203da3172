// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the tailsign command tree.
//
// Every command accepts --config and --log-level. Configuration is
// resolved by [config.Resolve]: the --config flag, then the
// TAILSIGN_CONFIG environment variable, then built-in defaults. Human
// output goes to the writer passed to [Root]; structured logs go to
// stderr.
package commands

import (
	"io"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/config"
)

// Root builds and returns the complete tailsign command tree. Command
// output is written to out.
func Root(out io.Writer) *cli.Command {
	return &cli.Command{
		Name: "tailsign",
		Description: `tailsign: append and verify Ed25519 signatures on arbitrary files.

A signed file is the original content followed by a 256-byte footer
holding an Ed25519 signature over the BLAKE3 digest of the content, the
signer's public key, and the marker "SIG!". Signed files remain usable
by tools that ignore trailing bytes, and verification needs nothing but
the file itself.`,
		Subcommands: []*cli.Command{
			signCommand(out),
			verifyCommand(out),
			checkCommand(out),
			inspectCommand(out),
			digestCommand(out),
			keygenCommand(out),
			keyCommand(out),
			versionCommand(out),
		},
		Examples: []cli.Example{
			{
				Description: "Create a signing key in the default key directory",
				Command:     "tailsign keygen",
			},
			{
				Description: "Sign a release archive (writes release.tar.signed)",
				Command:     "tailsign sign release.tar",
			},
			{
				Description: "Verify signed files, accepting only one key",
				Command:     "tailsign verify --trusted-key 3b6a27bc... release.tar.signed",
			},
			{
				Description: "Show the footer of a signed file",
				Command:     "tailsign inspect release.tar.signed",
			},
		},
	}
}

// Configuration source precedence, shown in --config help.
var configFlagHelp = "configuration file (default: $" + config.EnvironmentVariable + ", then built-in defaults)"
