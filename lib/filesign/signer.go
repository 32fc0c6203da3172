// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filesign

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/tailsign/lib/atomicfile"
	"github.com/bureau-foundation/tailsign/lib/signedfile"
	"github.com/bureau-foundation/tailsign/lib/signingkey"
)

// DefaultSuffix is appended to the input path to name the signed copy.
const DefaultSuffix = ".signed"

// Signer writes signed copies of files. The zero value is ready to use
// with raw key files and the default suffix.
type Signer struct {
	// Suffix names the output file (path + Suffix). Empty means
	// DefaultSuffix.
	Suffix string

	// Passphrase supplies the passphrase for age-encrypted key files.
	// Nil means encrypted keys are rejected.
	Passphrase signingkey.PassphraseFunc

	// Logger receives one record per signed file. Nil discards.
	Logger *slog.Logger
}

// OutputPath returns the path a signed copy of path is written to.
func (s *Signer) OutputPath(path string) string {
	if s.Suffix == "" {
		return path + DefaultSuffix
	}
	return path + s.Suffix
}

// SignFile loads the private key at keyPath and signs path with it.
func (s *Signer) SignFile(path, keyPath string) (string, error) {
	seed, err := signingkey.LoadPrivate(keyPath, s.Passphrase)
	if err != nil {
		return "", err
	}
	defer seed.Close()

	return s.Sign(path, seed.Bytes())
}

// Sign signs the content of path with seed and atomically writes
// content ++ footer to [Signer.OutputPath]. The output keeps the input
// file's permission bits. Returns the output path.
func (s *Signer) Sign(path string, seed []byte) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		file.Close()
		return "", fmt.Errorf("%s is a directory", path)
	}
	content, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	artifact, err := signedfile.Sign(content, seed)
	if err != nil {
		return "", fmt.Errorf("signing %s: %w", path, err)
	}

	output := s.OutputPath(path)
	err = atomicfile.Write(output, info.Mode().Perm(), func(w io.Writer) error {
		_, err := artifact.WriteTo(w)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", output, err)
	}

	logger(s.Logger).Info("signed file",
		"path", path,
		"output", output,
		"size", len(content),
		"fingerprint", fingerprintOf(artifact),
	)
	return output, nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}

func fingerprintOf(artifact *signedfile.Artifact) string {
	return signingkey.Fingerprint(artifact.PublicKey[:])
}
