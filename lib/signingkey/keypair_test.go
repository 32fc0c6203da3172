// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package signingkey

import (
	"crypto/ed25519"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/tailsign/lib/secret"
)

func fastScrypt(t *testing.T) {
	t.Helper()
	original := scryptWorkFactor
	scryptWorkFactor = 10
	t.Cleanup(func() { scryptWorkFactor = original })
}

func testKeypair(t *testing.T) *Keypair {
	t.Helper()
	keypair, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	t.Cleanup(func() { keypair.Close() })
	return keypair
}

func passphrase(value string) PassphraseFunc {
	return func() (*secret.Buffer, error) {
		return secret.NewFromBytes([]byte(value))
	}
}

func keyPaths(t *testing.T) (string, string) {
	t.Helper()
	directory := t.TempDir()
	return filepath.Join(directory, "private.key"), filepath.Join(directory, "public.key")
}

func TestGenerate(t *testing.T) {
	keypair := testKeypair(t)

	if keypair.Seed.Len() != SeedSize {
		t.Errorf("seed size = %d, want %d", keypair.Seed.Len(), SeedSize)
	}
	if len(keypair.Public) != ed25519.PublicKeySize {
		t.Errorf("public key size = %d, want %d", len(keypair.Public), ed25519.PublicKeySize)
	}

	derived, err := PublicFromSeed(keypair.Seed.Bytes())
	if err != nil {
		t.Fatalf("PublicFromSeed: %v", err)
	}
	if !derived.Equal(keypair.Public) {
		t.Error("public key does not derive from seed")
	}
}

func TestGenerateIsRandom(t *testing.T) {
	first := testKeypair(t)
	second := testKeypair(t)
	if first.Public.Equal(second.Public) {
		t.Error("two generated keypairs are identical")
	}
}

func TestSaveAndLoadRaw(t *testing.T) {
	keypair := testKeypair(t)
	privatePath, publicPath := keyPaths(t)

	if err := Save(privatePath, publicPath, keypair, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(privatePath)
	if err != nil {
		t.Fatalf("Stat private key: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("private key permissions = %o, want 0600", mode)
	}
	if info.Size() != SeedSize {
		t.Errorf("raw private key file is %d bytes, want %d", info.Size(), SeedSize)
	}

	info, err = os.Stat(publicPath)
	if err != nil {
		t.Fatalf("Stat public key: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0644 {
		t.Errorf("public key permissions = %o, want 0644", mode)
	}

	loaded, err := Load(privatePath, publicPath, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer loaded.Close()

	if !loaded.Public.Equal(keypair.Public) {
		t.Error("loaded public key does not match saved")
	}
	if string(loaded.Seed.Bytes()) != string(keypair.Seed.Bytes()) {
		t.Error("loaded seed does not match saved")
	}
}

func TestSaveAndLoadEncrypted(t *testing.T) {
	fastScrypt(t)
	keypair := testKeypair(t)
	privatePath, publicPath := keyPaths(t)

	phrase, err := passphrase("hunter2")()
	if err != nil {
		t.Fatal(err)
	}
	defer phrase.Close()

	if err := Save(privatePath, publicPath, keypair, phrase); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(privatePath)
	if err != nil {
		t.Fatal(err)
	}
	if !IsEncrypted(data) {
		t.Fatal("private key file should be age-encrypted")
	}

	if _, err := LoadPrivate(privatePath, nil); !errors.Is(err, ErrPassphraseRequired) {
		t.Errorf("LoadPrivate without passphrase: got %v, want ErrPassphraseRequired", err)
	}

	if _, err := LoadPrivate(privatePath, passphrase("wrong")); err == nil {
		t.Error("LoadPrivate with wrong passphrase should fail")
	}

	seed, err := LoadPrivate(privatePath, passphrase("hunter2"))
	if err != nil {
		t.Fatalf("LoadPrivate: %v", err)
	}
	defer seed.Close()
	if string(seed.Bytes()) != string(keypair.Seed.Bytes()) {
		t.Error("decrypted seed does not match saved")
	}
}

func TestLoadPrivateWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "private.key")
	for _, size := range []int{0, 31, 33, 64} {
		if err := os.WriteFile(path, make([]byte, size), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadPrivate(path, nil); !errors.Is(err, ErrKeySize) {
			t.Errorf("LoadPrivate(%d bytes): got %v, want ErrKeySize", size, err)
		}
	}
}

func TestLoadPrivateMissing(t *testing.T) {
	_, err := LoadPrivate(filepath.Join(t.TempDir(), "absent"), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadPrivate(missing): got %v, want os.ErrNotExist", err)
	}
}

func TestLoadPublicWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public.key")
	if err := os.WriteFile(path, []byte("short"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPublic(path); !errors.Is(err, ErrKeySize) {
		t.Errorf("LoadPublic: got %v, want ErrKeySize", err)
	}
}

func TestLoadDetectsMismatchedPublicKey(t *testing.T) {
	keypair := testKeypair(t)
	other := testKeypair(t)
	privatePath, publicPath := keyPaths(t)

	if err := Save(privatePath, publicPath, keypair, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(publicPath, other.Public, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(privatePath, publicPath, nil); !errors.Is(err, ErrKeyMismatch) {
		t.Errorf("Load: got %v, want ErrKeyMismatch", err)
	}
}

func TestLoadOrGenerateFirstRun(t *testing.T) {
	privatePath, publicPath := keyPaths(t)

	keypair, generated, err := LoadOrGenerate(privatePath, publicPath, nil, nil)
	if err != nil {
		t.Fatalf("LoadOrGenerate: %v", err)
	}
	defer keypair.Close()

	if !generated {
		t.Error("expected generated=true on first run")
	}
	if _, err := os.Stat(privatePath); err != nil {
		t.Errorf("private key file not created: %v", err)
	}
	if _, err := os.Stat(publicPath); err != nil {
		t.Errorf("public key file not created: %v", err)
	}
}

func TestLoadOrGenerateSubsequentRun(t *testing.T) {
	privatePath, publicPath := keyPaths(t)

	original, _, err := LoadOrGenerate(privatePath, publicPath, nil, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	defer original.Close()

	loaded, generated, err := LoadOrGenerate(privatePath, publicPath, nil, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	defer loaded.Close()

	if generated {
		t.Error("expected generated=false on second run")
	}
	if !loaded.Public.Equal(original.Public) {
		t.Error("second run loaded a different key")
	}
}

func TestLoadOrGenerateEncryptsNewKey(t *testing.T) {
	fastScrypt(t)
	privatePath, publicPath := keyPaths(t)

	keypair, generated, err := LoadOrGenerate(privatePath, publicPath, nil, passphrase("s3cret"))
	if err != nil {
		t.Fatalf("LoadOrGenerate: %v", err)
	}
	defer keypair.Close()
	if !generated {
		t.Fatal("expected a new key")
	}

	reloaded, _, err := LoadOrGenerate(privatePath, publicPath, passphrase("s3cret"), nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	defer reloaded.Close()
	if !reloaded.Public.Equal(keypair.Public) {
		t.Error("reloaded key differs from generated key")
	}
}

func TestLoadOrGenerateCorruptedReturnsError(t *testing.T) {
	privatePath, publicPath := keyPaths(t)
	if err := os.WriteFile(privatePath, []byte("corrupted"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadOrGenerate(privatePath, publicPath, nil, nil); err == nil {
		t.Fatal("LoadOrGenerate should fail with a corrupted key file")
	}

	data, err := os.ReadFile(privatePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "corrupted" {
		t.Error("corrupted key file was overwritten")
	}
}
