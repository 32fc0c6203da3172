// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/signingkey"
)

func keyCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "key",
		Summary: "Show and export public keys",
		Subcommands: []*cli.Command{
			keyFingerprintCommand(out),
			keyExportCommand(out),
		},
	}
}

type keyFingerprintParams struct {
	Global globalOptions
	cli.JSONOutput

	Public string `json:"public" flag:"public" desc:"public key file (default: the configured public key)"`
}

type fingerprintResult struct {
	Path           string `json:"path"`
	Key            string `json:"key"`
	Fingerprint    string `json:"fingerprint"`
	SSHFingerprint string `json:"ssh_fingerprint"`
}

func keyFingerprintCommand(out io.Writer) *cli.Command {
	var params keyFingerprintParams

	return &cli.Command{
		Name:    "fingerprint",
		Summary: "Print the fingerprint of a public key",
		Description: `Print a public key with its short fingerprint (the first 16 hex
characters of its SHA-256, as shown by "verify") and its OpenSSH
SHA256 fingerprint.`,
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			cfg, _, err := params.Global.setup("key/fingerprint")
			if err != nil {
				return err
			}

			path := params.Public
			if path == "" {
				path = cfg.PublicKeyPath()
			}
			public, err := signingkey.LoadPublic(path)
			if err != nil {
				return classify(err)
			}
			sshFingerprint, err := signingkey.SSHFingerprint(public)
			if err != nil {
				return classify(err)
			}

			result := fingerprintResult{
				Path:           path,
				Key:            signingkey.FormatPublicKey(public),
				Fingerprint:    signingkey.Fingerprint(public),
				SSHFingerprint: sshFingerprint,
			}
			if done, err := params.EmitJSON(out, result); done {
				return err
			}
			fmt.Fprintf(out, "Key:             %s\n", result.Key)
			fmt.Fprintf(out, "Fingerprint:     %s\n", result.Fingerprint)
			fmt.Fprintf(out, "SSH fingerprint: %s\n", result.SSHFingerprint)
			return nil
		},
	}
}

type keyExportParams struct {
	Global globalOptions

	Public  string `json:"public"  flag:"public"  desc:"public key file (default: the configured public key)"`
	Format  string `json:"format"  flag:"format"  desc:"output format: raw-hex or openssh" default:"raw-hex"`
	Comment string `json:"comment" flag:"comment" desc:"comment for the openssh format"`
}

func keyExportCommand(out io.Writer) *cli.Command {
	var params keyExportParams

	return &cli.Command{
		Name:    "export",
		Summary: "Export a public key as hex or an OpenSSH line",
		Description: `Write a public key to stdout. The raw-hex format is what --trusted-key
and verify.trusted_keys accept. The openssh format is an authorized_keys
line, usable with ssh-keygen -Y verify and other OpenSSH tooling.`,
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			cfg, _, err := params.Global.setup("key/export")
			if err != nil {
				return err
			}

			path := params.Public
			if path == "" {
				path = cfg.PublicKeyPath()
			}
			public, err := signingkey.LoadPublic(path)
			if err != nil {
				return classify(err)
			}

			switch params.Format {
			case "raw-hex":
				_, err = fmt.Fprintln(out, signingkey.FormatPublicKey(public))
				return err
			case "openssh":
				line, err := signingkey.MarshalAuthorizedKey(public, params.Comment)
				if err != nil {
					return classify(err)
				}
				_, err = out.Write(line)
				return err
			default:
				return cli.Validation("unknown format %q", params.Format).
					WithHint("Use --format raw-hex or --format openssh.")
			}
		},
		Examples: []cli.Example{
			{
				Description: "Add the signing key to an allowed signers list",
				Command:     "tailsign key export --format openssh --comment release >> allowed_keys",
			},
		},
	}
}
