// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filesign

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/tailsign/lib/digest"
	"github.com/bureau-foundation/tailsign/lib/signedfile"
	"github.com/bureau-foundation/tailsign/lib/signingkey"
)

// Report describes the footer of a file for display. Hex strings are
// used throughout so the same struct serializes readably to JSON and
// CBOR.
type Report struct {
	Path        string `json:"path"`
	FileSize    int64  `json:"file_size"`
	Signed      bool   `json:"signed"`
	ContentSize int64  `json:"content_size"`
	Digest      string `json:"digest"`

	Signature      string `json:"signature,omitempty"`
	PublicKey      string `json:"public_key,omitempty"`
	Fingerprint    string `json:"fingerprint,omitempty"`
	SSHFingerprint string `json:"ssh_fingerprint,omitempty"`

	// Valid is meaningful only when Signed is true.
	Valid bool `json:"valid"`

	// KeyError is set when the embedded key is not a valid Ed25519
	// point.
	KeyError string `json:"key_error,omitempty"`
}

// Inspect reads the file at path and describes its footer. An unsigned
// file is not an error: the report has Signed false and the digest of
// the whole file.
func Inspect(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	report := &Report{
		Path:     path,
		FileSize: int64(len(data)),
	}

	artifact, err := signedfile.Parse(data)
	if errors.Is(err, signedfile.ErrNotSigned) {
		report.ContentSize = int64(len(data))
		report.Digest = digest.Sum(data).String()
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	report.Signed = true
	report.ContentSize = int64(len(artifact.Content))
	report.Digest = artifact.Digest().String()
	report.Signature = hex.EncodeToString(artifact.Signature[:])
	report.PublicKey = signingkey.FormatPublicKey(artifact.PublicKey[:])
	report.Fingerprint = fingerprintOf(artifact)

	valid, err := artifact.Verify()
	if err != nil {
		report.KeyError = err.Error()
		return report, nil
	}
	report.Valid = valid

	// A point that decodes is always a valid SSH key, so this only
	// fails for keys already reported above.
	if sshFingerprint, err := signingkey.SSHFingerprint(artifact.PublicKey[:]); err == nil {
		report.SSHFingerprint = sshFingerprint
	}
	return report, nil
}

// ContentDigest streams the file at path and returns the BLAKE3 digest
// of its content. For a signed file the footer is excluded, so the
// result is the digest the signature covers. Also reports whether the
// file is signed.
func ContentDigest(path string) (digest.Hash, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return digest.Hash{}, false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return digest.Hash{}, false, fmt.Errorf("stat %s: %w", path, err)
	}

	signed, err := signedfile.LooksSignedReader(file, info.Size())
	if err != nil {
		return digest.Hash{}, false, fmt.Errorf("reading %s: %w", path, err)
	}

	length := info.Size()
	if signed {
		length -= signedfile.FooterSize
	}
	hash, err := digest.SumReader(io.NewSectionReader(file, 0, length))
	if err != nil {
		return digest.Hash{}, false, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hash, signed, nil
}
