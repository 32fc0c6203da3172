// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/filesign"
)

type verifyParams struct {
	Global globalOptions
	cli.JSONOutput

	TrustedKeys     []string `json:"trusted_keys"      flag:"trusted-key"      desc:"accept only signatures by this hex public key (repeatable; adds to verify.trusted_keys)"`
	TrustedKeyFiles []string `json:"trusted_key_files" flag:"trusted-key-file" desc:"accept signatures by the raw public key in this file (repeatable)"`
	Concurrency     int      `json:"concurrency"       flag:"concurrency"      desc:"files verified in parallel (default: verify.concurrency, 0 = CPU count)"`
}

func verifyCommand(out io.Writer) *cli.Command {
	var params verifyParams

	return &cli.Command{
		Name:    "verify",
		Summary: "Verify signed files",
		Description: `Verify the signature footer of each FILE against the public key embedded
in it. With trusted keys configured (verify.trusted_keys, --trusted-key,
or --trusted-key-file), a valid signature by any other key is reported
as untrusted.

Exit status is 0 when every file is valid, 1 when any file is tampered,
unsigned, or untrusted, and 2 when any file could not be checked (not
readable, or carrying a malformed public key).`,
		Usage:  "tailsign verify FILE... [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("at least one FILE is required")
			}

			cfg, logger, err := params.Global.setup("verify")
			if err != nil {
				return err
			}

			trusted, err := trustedKeys(cfg, params.TrustedKeys, params.TrustedKeyFiles)
			if err != nil {
				return err
			}

			concurrency := cfg.Verify.Concurrency
			if params.Concurrency > 0 {
				concurrency = params.Concurrency
			}
			verifier := filesign.Verifier{
				Trusted:     trusted,
				Concurrency: concurrency,
				Logger:      logger,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := verifier.CheckAll(ctx, args)
			if err != nil {
				return cli.Internal("verification interrupted: %w", err)
			}

			if done, err := params.EmitJSON(out, results); done {
				if err != nil {
					return err
				}
			} else {
				printVerifyResults(out, results)
			}

			return verifyExit(results)
		},
		Examples: []cli.Example{
			{
				Description: "Verify against the embedded keys only",
				Command:     "tailsign verify release.tar.signed",
			},
			{
				Description: "Require a specific signer",
				Command:     "tailsign verify --trusted-key-file vendor_public.key update.bin.signed",
			},
		},
	}
}

func printVerifyResults(out io.Writer, results []filesign.Result) {
	styles := cli.NewStyles(out)
	for _, result := range results {
		switch result.Outcome {
		case filesign.OutcomeValid:
			fmt.Fprintf(out, "%s %s: signature valid %s\n",
				styles.Pass(), result.Path, styles.Dim("(key "+result.Fingerprint+")"))
		case filesign.OutcomeInvalid:
			fmt.Fprintf(out, "%s %s: signature INVALID, content does not match\n",
				styles.Fail(), result.Path)
		case filesign.OutcomeUnsigned:
			fmt.Fprintf(out, "%s %s: not signed\n", styles.Fail(), result.Path)
		case filesign.OutcomeUntrusted:
			fmt.Fprintf(out, "%s %s: signed by untrusted key %s\n",
				styles.Warn(), result.Path, result.Fingerprint)
		default:
			fmt.Fprintf(out, "%s %s: %v\n", styles.Fail(), result.Path, result.Err)
		}
	}

	if len(results) > 1 {
		counts := filesign.Summary(results)
		fmt.Fprintf(out, "%d valid, %d failed\n",
			counts[filesign.OutcomeValid], len(results)-counts[filesign.OutcomeValid])
	}
}

// verifyExit maps a batch of results to the command's exit status.
func verifyExit(results []filesign.Result) error {
	counts := filesign.Summary(results)
	switch {
	case counts[filesign.OutcomeError] > 0:
		return &cli.ExitError{Code: cli.ExitUnchecked}
	case counts[filesign.OutcomeValid] != len(results):
		return &cli.ExitError{Code: cli.ExitFailed}
	default:
		return nil
	}
}
