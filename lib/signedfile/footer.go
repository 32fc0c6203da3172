// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signedfile

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"io"
)

// Footer layout. Offsets are relative to the first footer byte.
const (
	// FooterSize is the fixed length of the trailer appended to content.
	FooterSize = 256

	// SignatureSize is the length of an Ed25519 signature.
	SignatureSize = ed25519.SignatureSize

	// PublicKeySize is the length of an Ed25519 public key.
	PublicKeySize = ed25519.PublicKeySize

	// MagicSize is the length of the detection marker.
	MagicSize = 4

	signatureOffset = 0
	publicKeyOffset = signatureOffset + SignatureSize
	magicOffset     = publicKeyOffset + PublicKeySize
	reservedOffset  = magicOffset + MagicSize

	// ReservedSize is the zero padding that fills the footer out to
	// FooterSize. The bytes carry no meaning and are ignored on parse.
	ReservedSize = FooterSize - reservedOffset

	// magicFromEnd is the distance from the end of a signed file to
	// the first magic byte.
	magicFromEnd = FooterSize - magicOffset
)

// Magic is the detection marker stored at footer offset 96.
var Magic = [MagicSize]byte{'S', 'I', 'G', '!'}

// footer is the decoded form of the 256-byte trailer.
type footer struct {
	signature [SignatureSize]byte
	publicKey [PublicKeySize]byte
}

// appendTo appends the encoded footer to dst.
func (f *footer) appendTo(dst []byte) []byte {
	dst = append(dst, f.signature[:]...)
	dst = append(dst, f.publicKey[:]...)
	dst = append(dst, Magic[:]...)
	var reserved [ReservedSize]byte
	return append(dst, reserved[:]...)
}

// decodeFooter decodes a footer slice of exactly FooterSize bytes.
// Returns false when the magic marker does not match.
func decodeFooter(data []byte) (footer, bool) {
	var decoded footer
	if len(data) != FooterSize || !hasMagic(data[magicOffset:reservedOffset]) {
		return decoded, false
	}
	copy(decoded.signature[:], data[signatureOffset:publicKeyOffset])
	copy(decoded.publicKey[:], data[publicKeyOffset:magicOffset])
	return decoded, true
}

func hasMagic(marker []byte) bool {
	return bytes.Equal(marker, Magic[:])
}

// LooksSigned reports whether data ends in something shaped like a
// footer: at least FooterSize bytes with the magic marker at
// len(data)-160. It never hashes or checks signatures and must not be
// treated as proof of authenticity.
func LooksSigned(data []byte) bool {
	if len(data) < FooterSize {
		return false
	}
	end := len(data) - magicFromEnd
	return hasMagic(data[end : end+MagicSize])
}

// LooksSignedReader is LooksSigned for content of the given size
// behind an io.ReaderAt. Only the four magic bytes are read, so
// detection on a large file does not load the file.
func LooksSignedReader(r io.ReaderAt, size int64) (bool, error) {
	if size < FooterSize {
		return false, nil
	}
	var marker [MagicSize]byte
	if _, err := r.ReadAt(marker[:], size-magicFromEnd); err != nil {
		return false, fmt.Errorf("reading magic marker: %w", err)
	}
	return hasMagic(marker[:]), nil
}
