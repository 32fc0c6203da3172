// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package filesign applies [signedfile] to files on disk.
//
// The package-level functions are the plain path operations:
// [SignPath] writes a signed copy next to the input, [VerifyPath]
// checks a signed file against its embedded key, [IsSignedPath] tests
// for a footer by reading only the magic marker, and [GenerateKeyPair]
// creates a raw key pair at caller-chosen paths.
//
// [Signer] and [Verifier] carry the options the path functions use
// defaults for. A Verifier adds a trust policy on top of the
// cryptographic check: when its Trusted set is non-empty, a file whose
// signature is valid but whose embedded key is not in the set is
// reported as [OutcomeUntrusted]. Signing with an embedded key proves
// integrity against that key only; without a trust set any key that
// signed the file is accepted.
//
// [Verifier.CheckAll] verifies a batch of files concurrently. Per-file
// failures are recorded in each [Result] rather than aborting the
// batch.
package filesign
