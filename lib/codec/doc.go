// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the single CBOR configuration used for machine-
// readable tailsign output (inspect --cbor).
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encodings, definite lengths. The same report
// always encodes to the same bytes, which makes reports themselves
// suitable for signing. Decoding ignores unknown fields.
//
// Consumers import this package rather than fxamacker/cbor directly so
// the options cannot drift between encoder sites.
package codec
