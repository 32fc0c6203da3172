// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/filesign"
)

type digestParams struct {
	Global globalOptions
	cli.JSONOutput
}

type digestResult struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
	Signed bool   `json:"signed"`
}

func digestCommand(out io.Writer) *cli.Command {
	var params digestParams

	return &cli.Command{
		Name:    "digest",
		Summary: "Print BLAKE3 digests of file contents",
		Description: `Print the BLAKE3-256 digest of each FILE in b3sum format. For a signed
file the footer is excluded, so the digest is the one its signature
covers and matches the digest of the unsigned original.`,
		Usage:  "tailsign digest FILE... [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("at least one FILE is required")
			}
			if _, _, err := params.Global.setup("digest"); err != nil {
				return err
			}

			results := make([]digestResult, 0, len(args))
			for _, path := range args {
				hash, signed, err := filesign.ContentDigest(path)
				if err != nil {
					return classify(err)
				}
				results = append(results, digestResult{Path: path, Digest: hash.String(), Signed: signed})
			}

			if done, err := params.EmitJSON(out, results); done {
				return err
			}
			for _, result := range results {
				fmt.Fprintf(out, "%s  %s\n", result.Digest, result.Path)
			}
			return nil
		},
	}
}
