// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signingkey

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Fingerprint returns the first 16 hex characters of the SHA-256 of
// the public key.
func Fingerprint(public ed25519.PublicKey) string {
	sum := sha256.Sum256(public)
	return hex.EncodeToString(sum[:8])
}

// FormatPublicKey returns the hex encoding of the public key, the form
// used for trusted keys in configuration and on the command line.
func FormatPublicKey(public ed25519.PublicKey) string {
	return hex.EncodeToString(public)
}

// ParsePublicKey parses a 64-character hex public key. Surrounding
// whitespace is ignored.
func ParsePublicKey(hexString string) (ed25519.PublicKey, error) {
	decoded, err := hex.DecodeString(strings.TrimSpace(hexString))
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key has %d bytes, want %d", ErrKeySize, len(decoded), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(decoded), nil
}

// SSHFingerprint returns the OpenSSH SHA256 fingerprint of the key
// ("SHA256:..."), as printed by ssh-keygen -l.
func SSHFingerprint(public ed25519.PublicKey) (string, error) {
	sshKey, err := ssh.NewPublicKey(public)
	if err != nil {
		return "", fmt.Errorf("converting to SSH public key: %w", err)
	}
	return ssh.FingerprintSHA256(sshKey), nil
}

// MarshalAuthorizedKey returns the key as an authorized_keys line
// ("ssh-ed25519 AAAA... comment\n"). An empty comment is omitted.
func MarshalAuthorizedKey(public ed25519.PublicKey, comment string) ([]byte, error) {
	sshKey, err := ssh.NewPublicKey(public)
	if err != nil {
		return nil, fmt.Errorf("converting to SSH public key: %w", err)
	}
	line := ssh.MarshalAuthorizedKey(sshKey)
	if comment == "" {
		return line, nil
	}
	line = bytes.TrimSuffix(line, []byte("\n"))
	return fmt.Appendf(line, " %s\n", comment), nil
}
