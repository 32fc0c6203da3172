// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// Size is the length of a digest in bytes.
const Size = 32

// Hash is a 32-byte BLAKE3 digest.
type Hash [Size]byte

// Sum computes the BLAKE3-256 digest of data.
func Sum(data []byte) Hash {
	return Hash(blake3.Sum256(data))
}

// SumReader streams r through BLAKE3 (via io.Copy) and returns the
// digest. Memory usage is constant regardless of input size.
func SumReader(r io.Reader) (Hash, error) {
	hasher := blake3.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return Hash{}, fmt.Errorf("hashing content: %w", err)
	}
	var hash Hash
	copy(hash[:], hasher.Sum(nil))
	return hash, nil
}

// Format returns the hex-encoded string representation of a digest.
func Format(hash Hash) string {
	return hex.EncodeToString(hash[:])
}

// String implements fmt.Stringer with the same encoding as [Format].
func (h Hash) String() string {
	return Format(h)
}

// Parse parses a 64-character hex string into a Hash.
func Parse(hexString string) (Hash, error) {
	var hash Hash
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return hash, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != Size {
		return hash, fmt.Errorf("digest is %d bytes, want %d", len(decoded), Size)
	}
	copy(hash[:], decoded)
	return hash, nil
}
