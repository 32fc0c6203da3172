// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package signingkey manages the Ed25519 key files used to sign files.
//
// # File formats
//
// A private key file holds the 32-byte Ed25519 seed, either raw or
// encrypted with an age scrypt passphrase. Encrypted files are
// recognized by the age header line; anything else must be exactly 32
// bytes. A public key file always holds the raw 32-byte key.
//
// Seeds are loaded into [secret.Buffer] memory and zeroed on Close.
// Public keys are plain [ed25519.PublicKey] values.
//
// # Identification
//
// [Fingerprint] returns the short form shown in CLI output (16 hex
// characters of SHA-256 over the public key). [SSHFingerprint] and
// [MarshalAuthorizedKey] express the same key in OpenSSH terms, for
// operators who already track keys that way.
package signingkey
