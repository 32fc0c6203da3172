// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest provides the BLAKE3 content digest that tailsign
// signatures are computed over.
//
// The digest is plain (unkeyed) BLAKE3 with a 256-bit output. Signed
// files produced by other BLAKE3/Ed25519 implementations of the same
// footer format verify here only if both sides hash the content the
// same way, so this package deliberately exposes no domain-separated
// or keyed variants.
//
// The API surface is four functions:
//
//   - [Sum] -- digest of an in-memory byte slice
//   - [SumReader] -- streams a reader through BLAKE3 with constant memory
//   - [Format] -- canonical lowercase hex encoding used in logs and CLI output
//   - [Parse] -- parses a hex string back to a [Hash], validating length
//
// This package has no dependencies on other tailsign packages.
package digest
