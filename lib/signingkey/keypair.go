// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signingkey

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"filippo.io/age"

	"github.com/bureau-foundation/tailsign/lib/atomicfile"
	"github.com/bureau-foundation/tailsign/lib/secret"
)

// SeedSize is the size of a raw private key file.
const SeedSize = ed25519.SeedSize

// ageHeader prefixes every binary age file.
const ageHeader = "age-encryption.org/"

// scryptWorkFactor is the scrypt log2(N) used when encrypting private
// keys. Tests lower it.
var scryptWorkFactor = 18

var (
	// ErrKeySize means a raw key file is not exactly 32 bytes.
	ErrKeySize = errors.New("signingkey: key file has wrong size")

	// ErrPassphraseRequired means the private key file is encrypted
	// and no passphrase source was supplied.
	ErrPassphraseRequired = errors.New("signingkey: private key is encrypted and no passphrase was provided")

	// ErrKeyMismatch means the public key file does not belong to the
	// private key next to it.
	ErrKeyMismatch = errors.New("signingkey: public key does not match private key")
)

// PassphraseFunc supplies the passphrase for an encrypted private key.
// It is called only when a passphrase is actually needed. The caller of
// the function that received it closes the returned buffer.
type PassphraseFunc func() (*secret.Buffer, error)

// Keypair is a private seed and its public key. The caller must Close
// it to release the seed memory.
type Keypair struct {
	// Seed is the 32-byte Ed25519 seed in locked memory.
	Seed *secret.Buffer

	// Public is the derived verification key.
	Public ed25519.PublicKey
}

// Close zeroes and releases the seed. Idempotent.
func (k *Keypair) Close() error {
	if k.Seed != nil {
		return k.Seed.Close()
	}
	return nil
}

// Generate draws a new Ed25519 keypair from crypto/rand.
func Generate() (*Keypair, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating Ed25519 keypair: %w", err)
	}
	defer clear(private)

	seed, err := secret.NewFromBytes(bytes.Clone(private.Seed()))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return &Keypair{Seed: seed, Public: public}, nil
}

// PublicFromSeed derives the public key for a 32-byte seed.
func PublicFromSeed(seed []byte) (ed25519.PublicKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("%w: seed has %d bytes, want %d", ErrKeySize, len(seed), SeedSize)
	}
	private := ed25519.NewKeyFromSeed(seed)
	defer clear(private)
	return bytes.Clone(private[SeedSize:]), nil
}

// Save writes the keypair to privatePath (mode 0600) and publicPath
// (mode 0644). When passphrase is non-nil the seed is age-encrypted
// with it; otherwise the raw seed is written. Both writes are atomic.
// Existing files are replaced.
func Save(privatePath, publicPath string, keypair *Keypair, passphrase *secret.Buffer) error {
	if passphrase == nil {
		if err := atomicfile.WriteFile(privatePath, keypair.Seed.Bytes(), 0600); err != nil {
			return fmt.Errorf("writing private key: %w", err)
		}
	} else {
		encrypted, err := encryptSeed(keypair.Seed, passphrase)
		if err != nil {
			return err
		}
		if err := atomicfile.WriteFile(privatePath, encrypted, 0600); err != nil {
			return fmt.Errorf("writing private key: %w", err)
		}
	}

	if err := atomicfile.WriteFile(publicPath, keypair.Public, 0644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	return nil
}

// LoadPrivate reads a private key file and returns the seed in locked
// memory. Encrypted files call passphrase; if passphrase is nil,
// ErrPassphraseRequired is returned. Raw files must be exactly 32
// bytes.
func LoadPrivate(path string, passphrase PassphraseFunc) (*secret.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	defer secret.Zero(data)

	if IsEncrypted(data) {
		if passphrase == nil {
			return nil, ErrPassphraseRequired
		}
		return decryptSeed(data, passphrase)
	}

	if len(data) != SeedSize {
		return nil, fmt.Errorf("%w: private key has %d bytes, want %d", ErrKeySize, len(data), SeedSize)
	}
	seed, err := secret.NewFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return seed, nil
}

// LoadPublic reads a raw 32-byte public key file.
func LoadPublic(path string) (ed25519.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	if len(data) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key has %d bytes, want %d", ErrKeySize, len(data), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(data), nil
}

// Load reads both key files and checks that they belong together.
func Load(privatePath, publicPath string, passphrase PassphraseFunc) (*Keypair, error) {
	seed, err := LoadPrivate(privatePath, passphrase)
	if err != nil {
		return nil, err
	}

	public, err := LoadPublic(publicPath)
	if err != nil {
		seed.Close()
		return nil, err
	}

	derived, err := PublicFromSeed(seed.Bytes())
	if err != nil {
		seed.Close()
		return nil, err
	}
	if !derived.Equal(public) {
		seed.Close()
		return nil, fmt.Errorf("%w: %s", ErrKeyMismatch, publicPath)
	}

	return &Keypair{Seed: seed, Public: public}, nil
}

// LoadOrGenerate loads an existing keypair, or generates and saves a
// new one if the private key file does not exist. A private key file
// that exists but cannot be loaded is an error, never silently
// replaced. When generating, newPassphrase (if non-nil) supplies the
// passphrase to encrypt the new seed with. Returns the keypair and
// whether it was newly generated.
func LoadOrGenerate(privatePath, publicPath string, passphrase, newPassphrase PassphraseFunc) (*Keypair, bool, error) {
	if _, err := os.Stat(privatePath); err == nil {
		keypair, err := Load(privatePath, publicPath, passphrase)
		if err != nil {
			return nil, false, err
		}
		return keypair, false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("checking private key: %w", err)
	}

	keypair, err := Generate()
	if err != nil {
		return nil, false, err
	}

	var encryptWith *secret.Buffer
	if newPassphrase != nil {
		encryptWith, err = newPassphrase()
		if err != nil {
			keypair.Close()
			return nil, false, fmt.Errorf("reading passphrase: %w", err)
		}
		defer encryptWith.Close()
	}

	if err := Save(privatePath, publicPath, keypair, encryptWith); err != nil {
		keypair.Close()
		return nil, false, err
	}
	return keypair, true, nil
}

// IsEncrypted reports whether private key file contents are
// age-encrypted.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(ageHeader))
}

func encryptSeed(seed, passphrase *secret.Buffer) ([]byte, error) {
	// age takes the passphrase as a string; the heap copy is brief.
	recipient, err := age.NewScryptRecipient(string(passphrase.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(scryptWorkFactor)

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(seed.Bytes()); err != nil {
		return nil, fmt.Errorf("encrypting private key: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing private key encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

func decryptSeed(data []byte, passphrase PassphraseFunc) (*secret.Buffer, error) {
	phrase, err := passphrase()
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	defer phrase.Close()

	identity, err := age.NewScryptIdentity(string(phrase.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting private key: %w", err)
	}

	// Read one byte past SeedSize to detect oversized plaintext.
	plaintext := make([]byte, SeedSize+1)
	defer secret.Zero(plaintext)
	n, err := io.ReadFull(reader, plaintext)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading decrypted private key: %w", err)
	}
	if n != SeedSize {
		return nil, fmt.Errorf("%w: decrypted private key has %d bytes, want %d", ErrKeySize, n, SeedSize)
	}

	seed, err := secret.NewFromBytes(plaintext[:SeedSize])
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return seed, nil
}
