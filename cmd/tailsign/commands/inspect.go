// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/codec"
	"github.com/bureau-foundation/tailsign/lib/filesign"
)

type inspectParams struct {
	Global globalOptions
	cli.JSONOutput

	CBOR bool `json:"cbor" flag:"cbor" desc:"write the report as deterministic CBOR"`
}

func inspectCommand(out io.Writer) *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Show the signature footer of a file",
		Description: `Print the footer fields of FILE: signature, embedded public key and its
fingerprints, content size, and the BLAKE3 digest the signature covers,
along with whether the signature verifies.

Exit status is 0 for a signed file whose signature verifies and 1
otherwise.`,
		Usage:  "tailsign inspect FILE [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("exactly one FILE is required")
			}
			if params.OutputJSON && params.CBOR {
				return cli.Validation("--json and --cbor are mutually exclusive")
			}
			if _, _, err := params.Global.setup("inspect"); err != nil {
				return err
			}

			report, err := filesign.Inspect(args[0])
			if err != nil {
				return classify(err)
			}

			switch {
			case params.CBOR:
				data, err := codec.Marshal(report)
				if err != nil {
					return cli.Internal("encoding report: %w", err)
				}
				if _, err := out.Write(data); err != nil {
					return err
				}
			case params.OutputJSON:
				if err := cli.WriteJSON(out, report); err != nil {
					return err
				}
			default:
				printReport(out, report)
			}

			if !report.Signed || !report.Valid {
				return &cli.ExitError{Code: cli.ExitFailed}
			}
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Inspect a signed file",
				Command:     "tailsign inspect firmware.bin.signed",
			},
			{
				Description: "Decode the CBOR report for a quick look",
				Command:     "tailsign inspect --cbor firmware.bin.signed | xxd",
			},
		},
	}
}

func printReport(out io.Writer, report *filesign.Report) {
	styles := cli.NewStyles(out)
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer writer.Flush()

	fmt.Fprintf(writer, "File:\t%s\n", report.Path)
	fmt.Fprintf(writer, "File size:\t%d\n", report.FileSize)
	if !report.Signed {
		fmt.Fprintf(writer, "Signed:\t%s no\n", styles.Fail())
		fmt.Fprintf(writer, "Digest:\t%s\n", report.Digest)
		return
	}

	fmt.Fprintf(writer, "Signed:\tyes\n")
	fmt.Fprintf(writer, "Content size:\t%d\n", report.ContentSize)
	fmt.Fprintf(writer, "Digest:\t%s\n", report.Digest)
	fmt.Fprintf(writer, "Signature:\t%s\n", report.Signature)
	fmt.Fprintf(writer, "Public key:\t%s\n", report.PublicKey)
	fmt.Fprintf(writer, "Fingerprint:\t%s\n", report.Fingerprint)
	if report.SSHFingerprint != "" {
		fmt.Fprintf(writer, "SSH fingerprint:\t%s\n", report.SSHFingerprint)
	}
	switch {
	case report.KeyError != "":
		fmt.Fprintf(writer, "Valid:\t%s %s\n", styles.Fail(), report.KeyError)
	case report.Valid:
		fmt.Fprintf(writer, "Valid:\t%s yes\n", styles.Pass())
	default:
		fmt.Fprintf(writer, "Valid:\t%s no, content does not match\n", styles.Fail())
	}
}
