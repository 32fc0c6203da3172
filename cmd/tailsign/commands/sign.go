// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/config"
	"github.com/bureau-foundation/tailsign/lib/filesign"
	"github.com/bureau-foundation/tailsign/lib/secret"
	"github.com/bureau-foundation/tailsign/lib/signingkey"
)

type signParams struct {
	Global     globalOptions
	Passphrase passphraseOptions
	cli.JSONOutput

	Key    string `json:"key"    flag:"key,k"  desc:"private key file (default: the configured key, generated on first use)"`
	Suffix string `json:"suffix" flag:"suffix" desc:"suffix appended to each input path to name the signed copy (default: sign.suffix)"`
}

type signResult struct {
	Path   string `json:"path"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

func signCommand(out io.Writer) *cli.Command {
	var params signParams

	return &cli.Command{
		Name:    "sign",
		Summary: "Write signed copies of files",
		Description: `Sign each FILE and write content plus signature footer to FILE.signed
(or FILE with the configured suffix). Inputs are never modified.

Without --key, the configured key pair is used; if its private key does
not exist yet, a new unencrypted key pair is generated there first.
Encrypted keys prompt for their passphrase unless --passphrase-file is
given.`,
		Usage:  "tailsign sign FILE... [flags]",
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("at least one FILE is required")
			}

			cfg, logger, err := params.Global.setup("sign")
			if err != nil {
				return err
			}

			seed, err := loadSigningSeed(cfg, params.Key, params.Passphrase.unlock(), logger)
			if err != nil {
				return err
			}
			defer seed.Close()

			suffix := cfg.Sign.Suffix
			if params.Suffix != "" {
				suffix = params.Suffix
			}
			signer := filesign.Signer{Suffix: suffix, Logger: logger}

			results := make([]signResult, 0, len(args))
			failed := false
			for _, path := range args {
				output, err := signer.Sign(path, seed.Bytes())
				result := signResult{Path: path, Output: output}
				if err != nil {
					failed = true
					result.Error = err.Error()
				}
				results = append(results, result)
			}

			if done, err := params.EmitJSON(out, results); done {
				if err != nil {
					return err
				}
			} else {
				styles := cli.NewStyles(out)
				for _, result := range results {
					if result.Error != "" {
						fmt.Fprintf(out, "%s %s\n", styles.Fail(), result.Error)
						continue
					}
					fmt.Fprintf(out, "%s %s -> %s\n", styles.Pass(), result.Path, result.Output)
				}
			}

			if failed {
				return &cli.ExitError{Code: cli.ExitFailed}
			}
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Sign with the configured key",
				Command:     "tailsign sign firmware.bin",
			},
			{
				Description: "Sign with an encrypted key, passphrase on stdin",
				Command:     "echo $PASS | tailsign sign --key release.key --passphrase-file - dist/*.tar",
			},
		},
	}
}

// loadSigningSeed returns the seed at keyPath, or the configured key
// when keyPath is empty. A missing configured key pair is generated.
func loadSigningSeed(cfg *config.Config, keyPath string, passphrase signingkey.PassphraseFunc, logger *slog.Logger) (*secret.Buffer, error) {
	if keyPath != "" {
		seed, err := signingkey.LoadPrivate(keyPath, passphrase)
		if err != nil {
			return nil, classify(err)
		}
		return seed, nil
	}

	if err := cfg.EnsureKeyDir(); err != nil {
		return nil, classify(err)
	}
	keypair, generated, err := signingkey.LoadOrGenerate(cfg.PrivateKeyPath(), cfg.PublicKeyPath(), passphrase, nil)
	if err != nil {
		return nil, classify(err)
	}
	if generated {
		logger.Info("generated new signing key",
			"path", cfg.PrivateKeyPath(),
			"fingerprint", signingkey.Fingerprint(keypair.Public),
		)
	}
	return keypair.Seed, nil
}
