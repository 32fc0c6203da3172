// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/filesign"
)

type checkParams struct {
	Global globalOptions
	cli.JSONOutput
}

type checkResult struct {
	Path   string `json:"path"`
	Signed bool   `json:"signed"`
	Error  string `json:"error,omitempty"`
}

func checkCommand(out io.Writer) *cli.Command {
	var params checkParams

	return &cli.Command{
		Name:    "check",
		Summary: "Report whether files carry a signature footer",
		Description: `Check each FILE for a signature footer without verifying it. Only the
four marker bytes are read, so this is fast on large files. A file that
passes this check may still be tampered with; use "tailsign verify" to
establish authenticity.

Exit status is 0 when every file has a footer and 1 otherwise.`,
		Usage:  "tailsign check FILE... [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("at least one FILE is required")
			}
			if _, _, err := params.Global.setup("check"); err != nil {
				return err
			}

			results := make([]checkResult, 0, len(args))
			allSigned := true
			for _, path := range args {
				signed, err := filesign.IsSignedPath(path)
				result := checkResult{Path: path, Signed: signed}
				if err != nil {
					result.Error = err.Error()
				}
				allSigned = allSigned && signed
				results = append(results, result)
			}

			if done, err := params.EmitJSON(out, results); done {
				if err != nil {
					return err
				}
			} else {
				styles := cli.NewStyles(out)
				for _, result := range results {
					switch {
					case result.Error != "":
						fmt.Fprintf(out, "%s %s\n", styles.Fail(), result.Error)
					case result.Signed:
						fmt.Fprintf(out, "%s %s: signed\n", styles.Pass(), result.Path)
					default:
						fmt.Fprintf(out, "%s %s: not signed\n", styles.Fail(), result.Path)
					}
				}
			}

			if !allSigned {
				return &cli.ExitError{Code: cli.ExitFailed}
			}
			return nil
		},
	}
}
