// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/secret"
	"github.com/bureau-foundation/tailsign/lib/signingkey"
)

type keygenParams struct {
	Global     globalOptions
	Passphrase passphraseOptions
	cli.JSONOutput

	Dir     string `json:"dir"     flag:"dir"     desc:"directory for the key files (default: keys.dir)"`
	Encrypt bool   `json:"encrypt" flag:"encrypt" desc:"encrypt the private key with a passphrase"`
	Force   bool   `json:"force"   flag:"force"   desc:"replace an existing key pair"`
}

type keygenResult struct {
	PrivateKey  string `json:"private_key"`
	PublicKey   string `json:"public_key"`
	Key         string `json:"key"`
	Fingerprint string `json:"fingerprint"`
	Encrypted   bool   `json:"encrypted"`
}

func keygenCommand(out io.Writer) *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate a signing key pair",
		Description: `Generate a new Ed25519 key pair. The private key (a 32-byte seed) is
written with mode 0600, the public key with mode 0644. File names come
from keys.private_file and keys.public_file.

With --encrypt, the private key is encrypted with an age scrypt
passphrase, prompted for twice or read from --passphrase-file.`,
		Params: func() any { return &params },
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}

			cfg, logger, err := params.Global.setup("keygen")
			if err != nil {
				return err
			}
			if params.Dir != "" {
				cfg.Keys.Dir = params.Dir
			}
			privatePath, publicPath := cfg.PrivateKeyPath(), cfg.PublicKeyPath()

			if !params.Force {
				if _, err := os.Stat(privatePath); err == nil {
					return cli.Conflict("private key %s already exists", privatePath).
						WithHint("Pass --force to replace it. Files signed with the old key will no longer match it.")
				} else if !errors.Is(err, os.ErrNotExist) {
					return classify(err)
				}
			}

			if err := cfg.EnsureKeyDir(); err != nil {
				return classify(err)
			}

			var passphrase *secret.Buffer
			if params.Encrypt {
				passphrase, err = params.Passphrase.choose()()
				if err != nil {
					return classify(err)
				}
				defer passphrase.Close()
			}

			keypair, err := signingkey.Generate()
			if err != nil {
				return classify(err)
			}
			defer keypair.Close()

			if err := signingkey.Save(privatePath, publicPath, keypair, passphrase); err != nil {
				return classify(err)
			}

			result := keygenResult{
				PrivateKey:  privatePath,
				PublicKey:   publicPath,
				Key:         signingkey.FormatPublicKey(keypair.Public),
				Fingerprint: signingkey.Fingerprint(keypair.Public),
				Encrypted:   passphrase != nil,
			}
			logger.Info("generated key pair",
				"path", privatePath,
				"fingerprint", result.Fingerprint,
				"encrypted", result.Encrypted,
			)

			if done, err := params.EmitJSON(out, result); done {
				return err
			}
			fmt.Fprintf(out, "Private key: %s\n", result.PrivateKey)
			fmt.Fprintf(out, "Public key:  %s\n", result.PublicKey)
			fmt.Fprintf(out, "Key:         %s\n", result.Key)
			fmt.Fprintf(out, "Fingerprint: %s\n", result.Fingerprint)
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Generate the default key pair",
				Command:     "tailsign keygen",
			},
			{
				Description: "Generate an encrypted key pair for releases",
				Command:     "tailsign keygen --dir ./release-keys --encrypt",
			},
		},
	}
}
