// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signedfile

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"

	"filippo.io/edwards25519"

	"github.com/bureau-foundation/tailsign/lib/digest"
)

// SeedSize is the length of an Ed25519 private key seed, the form in
// which tailsign stores private keys.
const SeedSize = ed25519.SeedSize

// Errors returned by Sign, Parse, and Verify.
var (
	// ErrNotSigned means the data has no footer: it is shorter than
	// FooterSize or the magic marker is missing. This is the expected
	// result for arbitrary unsigned input.
	ErrNotSigned = errors.New("signedfile: not signed")

	// ErrInvalidKey means the embedded public key does not decode to
	// an Ed25519 point. The footer is corrupt or was not produced by
	// an Ed25519 signer; this is distinct from a signature that simply
	// fails to verify.
	ErrInvalidKey = errors.New("signedfile: invalid public key")

	// ErrInvalidSeed means the private key passed to Sign is not
	// SeedSize bytes.
	ErrInvalidSeed = errors.New("signedfile: invalid private key seed")
)

// Artifact is content together with the signature and public key that
// travel in its footer. Content is always owned by the Artifact: Sign
// and Parse copy it, so no two artifacts share backing memory.
type Artifact struct {
	// Content is the protected payload.
	Content []byte

	// Signature is the Ed25519 signature over the BLAKE3 digest of
	// Content.
	Signature [SignatureSize]byte

	// PublicKey is the Ed25519 key that verifies Signature.
	PublicKey [PublicKeySize]byte
}

// Sign digests content with BLAKE3 and signs the digest with the
// Ed25519 key derived from seed. The returned artifact holds a copy of
// content. The only failure is a seed of the wrong length.
func Sign(content, seed []byte) (*Artifact, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrInvalidSeed, len(seed), SeedSize)
	}

	privateKey := ed25519.NewKeyFromSeed(seed)
	defer clear(privateKey)

	hash := digest.Sum(content)

	artifact := &Artifact{Content: cloneBytes(content)}
	copy(artifact.Signature[:], ed25519.Sign(privateKey, hash[:]))
	copy(artifact.PublicKey[:], privateKey[SeedSize:])
	return artifact, nil
}

// Parse splits data into content and footer. Returns an error wrapping
// ErrNotSigned when data is too short or the magic marker is absent.
// Success means only that data is shaped like a signed file; call
// Verify to check the signature.
func Parse(data []byte) (*Artifact, error) {
	if len(data) < FooterSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d-byte footer", ErrNotSigned, len(data), FooterSize)
	}

	split := len(data) - FooterSize
	decoded, ok := decodeFooter(data[split:])
	if !ok {
		return nil, fmt.Errorf("%w: magic marker not found", ErrNotSigned)
	}

	return &Artifact{
		Content:   cloneBytes(data[:split]),
		Signature: decoded.signature,
		PublicKey: decoded.publicKey,
	}, nil
}

// Verify recomputes the content digest and checks the signature
// against the embedded public key. A signature that does not verify is
// reported as (false, nil): tampered or foreign content is an expected
// outcome, not a fault. Returns ErrInvalidKey when the public key is
// not a valid Ed25519 point.
func (a *Artifact) Verify() (bool, error) {
	if _, err := new(edwards25519.Point).SetBytes(a.PublicKey[:]); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	hash := digest.Sum(a.Content)
	return ed25519.Verify(ed25519.PublicKey(a.PublicKey[:]), hash[:], a.Signature[:]), nil
}

// Digest returns the BLAKE3 digest the signature covers.
func (a *Artifact) Digest() digest.Hash {
	return digest.Sum(a.Content)
}

// Size returns the length of the serialized artifact.
func (a *Artifact) Size() int {
	return len(a.Content) + FooterSize
}

// Bytes serializes the artifact: content followed by the footer. The
// result is a new slice of length len(Content)+FooterSize.
func (a *Artifact) Bytes() []byte {
	return a.AppendTo(make([]byte, 0, a.Size()))
}

// AppendTo appends the serialized artifact to dst and returns the
// extended slice.
func (a *Artifact) AppendTo(dst []byte) []byte {
	dst = append(dst, a.Content...)
	trailer := footer{signature: a.Signature, publicKey: a.PublicKey}
	return trailer.appendTo(dst)
}

// WriteTo writes the serialized artifact to w. It implements
// io.WriterTo.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	written, err := w.Write(a.Content)
	total := int64(written)
	if err != nil {
		return total, err
	}

	trailer := footer{signature: a.Signature, publicKey: a.PublicKey}
	written, err = w.Write(trailer.appendTo(make([]byte, 0, FooterSize)))
	total += int64(written)
	return total, err
}

// cloneBytes copies b into a new non-nil slice.
func cloneBytes(b []byte) []byte {
	clone := make([]byte, len(b))
	copy(clone, b)
	return clone
}
