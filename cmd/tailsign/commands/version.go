// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/version"
)

type versionParams struct {
	cli.JSONOutput
}

type versionResult struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildTime  string `json:"build_time"`
	Go         string `json:"go"`
	Executable string `json:"executable,omitempty"`
	Digest     string `json:"digest,omitempty"`
}

func versionCommand(out io.Writer) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(args []string) error {
			result := versionResult{
				Version:   version.Short(),
				Commit:    version.Commit(),
				BuildTime: version.BuildTime,
				Go:        runtime.Version(),
			}
			hash, executable, err := version.SelfDigest()
			if err == nil {
				result.Executable = executable
				result.Digest = hash.String()
			}

			if done, err := params.EmitJSON(out, result); done {
				return err
			}
			fmt.Fprintf(out, "tailsign %s\n", version.Full())
			if result.Digest != "" {
				fmt.Fprintf(out, "  BLAKE3: %s\n", result.Digest)
			}
			return nil
		},
	}
}
