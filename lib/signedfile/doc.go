// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package signedfile embeds an Ed25519 signature inside a file by
// appending a fixed-size footer to the file's bytes. A signed file is
// self-verifying: the footer carries both the signature and the public
// key that produced it, so no sidecar file or key lookup is needed to
// check integrity.
//
// # Wire format
//
// A signed file is the original content followed by a 256-byte footer:
//
//	[content bytes] [64-byte signature] [32-byte public key] ["SIG!"] [156 zero bytes]
//
// The split point is always len(data) - 256. There is no version field
// and no length prefix; the footer size is constant. The 4-byte magic
// marker at footer offset 96 is the only thing that distinguishes a
// signed file from an unsigned one. An incompatible layout change must
// use a different magic value.
//
// # Hash-then-sign
//
// The signature covers the BLAKE3-256 digest of the content (see
// lib/digest), never the raw content. Ed25519 signing is deterministic,
// so signing the same content with the same key always yields the same
// bytes.
//
// # Detection is not verification
//
// [LooksSigned] and [Parse] only check the magic marker. Anything can
// carry those four bytes. Authenticity is established by
// [Artifact.Verify] alone, and only relative to the embedded public
// key: callers that care who signed must compare that key against a
// trusted set (lib/filesign does this).
//
// Every function in this package is pure. Nothing here performs I/O
// except through a caller-supplied reader or writer, and no result
// aliases its input.
package signedfile
