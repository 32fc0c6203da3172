// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"crypto/ed25519"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/tailsign/cmd/tailsign/cli"
	"github.com/bureau-foundation/tailsign/lib/config"
	"github.com/bureau-foundation/tailsign/lib/filesign"
	"github.com/bureau-foundation/tailsign/lib/secret"
	"github.com/bureau-foundation/tailsign/lib/signedfile"
	"github.com/bureau-foundation/tailsign/lib/signingkey"
)

// globalOptions is carried by every command's parameter struct as a
// field named Global. It binds its own flags.
type globalOptions struct {
	ConfigPath string
	LogLevel   string
}

func (o *globalOptions) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.ConfigPath, "config", "", configFlagHelp)
	flagSet.StringVar(&o.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

// setup resolves and validates the configuration and builds the command
// logger.
func (o *globalOptions) setup(command string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Resolve(o.ConfigPath)
	if err != nil {
		return nil, nil, classify(err)
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, cli.Validation("invalid configuration: %w", err)
	}

	logger, err := cli.NewCommandLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.With("command", command), nil
}

// passphraseOptions selects where key passphrases come from.
type passphraseOptions struct {
	File string
}

func (p *passphraseOptions) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&p.File, "passphrase-file", "",
		"read the key passphrase from this file ('-' for the first line of stdin) instead of prompting")
}

// unlock returns the passphrase source for decrypting an existing key.
func (p *passphraseOptions) unlock() signingkey.PassphraseFunc {
	if p.File != "" {
		return func() (*secret.Buffer, error) {
			return secret.ReadFile(p.File)
		}
	}
	return func() (*secret.Buffer, error) {
		return secret.Prompt("Key passphrase: ")
	}
}

// choose returns the passphrase source for encrypting a new key. When
// prompting, the passphrase is asked for twice.
func (p *passphraseOptions) choose() signingkey.PassphraseFunc {
	if p.File != "" {
		return p.unlock()
	}
	return func() (*secret.Buffer, error) {
		first, err := secret.Prompt("New key passphrase: ")
		if err != nil {
			return nil, err
		}
		second, err := secret.Prompt("Repeat passphrase: ")
		if err != nil {
			first.Close()
			return nil, err
		}
		defer second.Close()

		if first.Len() == 0 || string(first.Bytes()) != string(second.Bytes()) {
			first.Close()
			return nil, cli.Validation("passphrases are empty or do not match")
		}
		return first, nil
	}
}

// trustedKeys merges configured trusted keys with keys given on the
// command line, as hex strings and as raw public key files.
func trustedKeys(cfg *config.Config, hexKeys, keyFiles []string) ([]ed25519.PublicKey, error) {
	var keys []ed25519.PublicKey
	for _, encoded := range append(append([]string(nil), cfg.Verify.TrustedKeys...), hexKeys...) {
		key, err := signingkey.ParsePublicKey(encoded)
		if err != nil {
			return nil, cli.Validation("trusted key %q: %w", encoded, err)
		}
		keys = append(keys, key)
	}
	for _, path := range keyFiles {
		key, err := signingkey.LoadPublic(path)
		if err != nil {
			return nil, classify(err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// classify maps library errors onto CLI error categories.
func classify(err error) error {
	var toolErr *cli.ToolError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &toolErr):
		return err
	case errors.Is(err, os.ErrNotExist):
		return cli.NotFound("%w", err)
	case errors.Is(err, signingkey.ErrKeySize),
		errors.Is(err, signingkey.ErrKeyMismatch),
		errors.Is(err, signingkey.ErrPassphraseRequired),
		errors.Is(err, signedfile.ErrInvalidSeed),
		errors.Is(err, signedfile.ErrNotSigned),
		errors.Is(err, filesign.ErrNotSignedFile),
		errors.Is(err, secret.ErrNoTerminal):
		return cli.Validation("%w", err)
	default:
		return cli.Internal("%w", err)
	}
}
