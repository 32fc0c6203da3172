// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filesign

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/tailsign/lib/signedfile"
	"github.com/bureau-foundation/tailsign/lib/signingkey"
)

// ErrNotSignedFile is returned by [VerifyPath] when the file has no
// signature footer. It wraps [signedfile.ErrNotSigned], so either
// sentinel matches with errors.Is.
var ErrNotSignedFile = fmt.Errorf("filesign: file is not signed: %w", signedfile.ErrNotSigned)

// SignPath signs the file at path with the raw or encrypted seed at
// keyPath and writes the result to path + ".signed". Returns the output
// path. Encrypted keys need a [Signer] with a Passphrase.
func SignPath(path, keyPath string) (string, error) {
	var signer Signer
	return signer.SignFile(path, keyPath)
}

// VerifyPath reports whether the signed file at path carries a valid
// signature under its embedded public key. A file without a footer
// returns [ErrNotSignedFile]; an embedded key that is not a valid
// Ed25519 point returns [signedfile.ErrInvalidKey]. A signature that
// does not match is (false, nil).
func VerifyPath(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	artifact, err := signedfile.Parse(data)
	if err != nil {
		if errors.Is(err, signedfile.ErrNotSigned) {
			return false, fmt.Errorf("%w: %s", ErrNotSignedFile, path)
		}
		return false, err
	}

	valid, err := artifact.Verify()
	if err != nil {
		return false, fmt.Errorf("verifying %s: %w", path, err)
	}
	return valid, nil
}

// IsSignedPath reports whether the file at path ends in a footer
// carrying the signature magic. Only the four marker bytes are read.
// This is a structural check; use [VerifyPath] for authenticity.
func IsSignedPath(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	signed, err := signedfile.LooksSignedReader(file, info.Size())
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return signed, nil
}

// GenerateKeyPair creates a new Ed25519 key pair and writes the raw
// 32-byte seed to privatePath (mode 0600) and the raw 32-byte public
// key to publicPath (mode 0644), replacing any existing files. Returns
// the two paths written.
func GenerateKeyPair(privatePath, publicPath string) (string, string, error) {
	keypair, err := signingkey.Generate()
	if err != nil {
		return "", "", err
	}
	defer keypair.Close()

	if err := signingkey.Save(privatePath, publicPath, keypair, nil); err != nil {
		return "", "", err
	}
	return privatePath, publicPath, nil
}
