// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filesign

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filippo.io/edwards25519"

	"github.com/bureau-foundation/tailsign/lib/digest"
	"github.com/bureau-foundation/tailsign/lib/signedfile"
)

func signedFile(t *testing.T, keyPath string, content string) string {
	t.Helper()
	output, err := SignPath(writeFile(t, "file", []byte(content)), keyPath)
	if err != nil {
		t.Fatalf("SignPath: %v", err)
	}
	return output
}

func TestCheckOutcomes(t *testing.T) {
	keyPath, public := testKeys(t)
	_, otherPublic := testKeys(t)

	valid := signedFile(t, keyPath, "payload")

	tampered := signedFile(t, keyPath, "payload")
	data, err := os.ReadFile(tampered)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	data[2] ^= 0x80
	if err := os.WriteFile(tampered, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	unsigned := writeFile(t, "plain", []byte("payload"))
	missing := filepath.Join(t.TempDir(), "absent")

	tests := []struct {
		name    string
		trusted []ed25519.PublicKey
		path    string
		want    Outcome
	}{
		{"valid without trust set", nil, valid, OutcomeValid},
		{"valid with trusted key", []ed25519.PublicKey{otherPublic, public}, valid, OutcomeValid},
		{"untrusted key", []ed25519.PublicKey{otherPublic}, valid, OutcomeUntrusted},
		{"tampered", nil, tampered, OutcomeInvalid},
		{"tampered beats untrusted", []ed25519.PublicKey{otherPublic}, tampered, OutcomeInvalid},
		{"unsigned", nil, unsigned, OutcomeUnsigned},
		{"missing", nil, missing, OutcomeError},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			verifier := Verifier{Trusted: test.trusted}
			result := verifier.Check(test.path)
			if result.Outcome != test.want {
				t.Errorf("outcome = %s, want %s (err: %v)", result.Outcome, test.want, result.Err)
			}
			if (result.Outcome == OutcomeError) != (result.Err != nil) {
				t.Errorf("Err = %v for outcome %s", result.Err, result.Outcome)
			}
			if result.OK() != (test.want == OutcomeValid) {
				t.Errorf("OK() = %v for outcome %s", result.OK(), result.Outcome)
			}
		})
	}
}

func TestCheckResultFields(t *testing.T) {
	keyPath, _ := testKeys(t)
	path := signedFile(t, keyPath, "hello")

	var verifier Verifier
	result := verifier.Check(path)
	if result.Size != 5 {
		t.Errorf("Size = %d, want 5", result.Size)
	}
	if result.Digest != digest.Sum([]byte("hello")).String() {
		t.Errorf("Digest = %s, want digest of content", result.Digest)
	}
	if len(result.Fingerprint) != 16 {
		t.Errorf("Fingerprint = %q, want 16 hex characters", result.Fingerprint)
	}

	unsigned := verifier.Check(writeFile(t, "plain", []byte("hello")))
	if unsigned.Size != 5 || unsigned.Digest != result.Digest || unsigned.Fingerprint != "" {
		t.Errorf("unsigned result = %+v", unsigned)
	}
}

func TestCheckInvalidKey(t *testing.T) {
	keyPath, _ := testKeys(t)
	path := signedFile(t, keyPath, "payload")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	keyOffset := len(data) - signedfile.FooterSize + signedfile.SignatureSize
	copy(data[keyOffset:], invalidPoint(t))
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var verifier Verifier
	result := verifier.Check(path)
	if result.Outcome != OutcomeError {
		t.Fatalf("outcome = %s, want error", result.Outcome)
	}
	if !errors.Is(result.Err, signedfile.ErrInvalidKey) {
		t.Errorf("Err = %v, want ErrInvalidKey", result.Err)
	}

	if _, err := VerifyPath(path); !errors.Is(err, signedfile.ErrInvalidKey) {
		t.Errorf("VerifyPath error = %v, want ErrInvalidKey", err)
	}
}

// invalidPoint returns 32 bytes that do not decode to an Ed25519 point.
func invalidPoint(t *testing.T) []byte {
	t.Helper()
	point := make([]byte, ed25519.PublicKeySize)
	for candidate := range 256 {
		point[0] = byte(candidate)
		if _, err := new(edwards25519.Point).SetBytes(point); err != nil {
			return point
		}
	}
	t.Fatal("no invalid point encoding found")
	return nil
}

func TestCheckAllOrdered(t *testing.T) {
	keyPath, _ := testKeys(t)

	var paths []string
	var want []Outcome
	for index := range 20 {
		if index%3 == 0 {
			paths = append(paths, writeFile(t, "plain", []byte(fmt.Sprintf("file %d", index))))
			want = append(want, OutcomeUnsigned)
			continue
		}
		paths = append(paths, signedFile(t, keyPath, fmt.Sprintf("file %d", index)))
		want = append(want, OutcomeValid)
	}

	verifier := Verifier{Concurrency: 3}
	results, err := verifier.CheckAll(context.Background(), paths)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for index, result := range results {
		if result.Path != paths[index] {
			t.Errorf("result %d path = %s, want %s", index, result.Path, paths[index])
		}
		if result.Outcome != want[index] {
			t.Errorf("result %d outcome = %s, want %s", index, result.Outcome, want[index])
		}
	}

	counts := Summary(results)
	if counts[OutcomeUnsigned] != 7 || counts[OutcomeValid] != 13 {
		t.Errorf("Summary = %v", counts)
	}
}

func TestCheckAllPerFileErrorsDoNotAbort(t *testing.T) {
	keyPath, _ := testKeys(t)
	paths := []string{
		filepath.Join(t.TempDir(), "absent"),
		signedFile(t, keyPath, "after the failure"),
	}

	var verifier Verifier
	results, err := verifier.CheckAll(context.Background(), paths)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if results[0].Outcome != OutcomeError || results[1].Outcome != OutcomeValid {
		t.Errorf("outcomes = %s, %s", results[0].Outcome, results[1].Outcome)
	}
}

func TestCheckAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var verifier Verifier
	_, err := verifier.CheckAll(ctx, []string{writeFile(t, "a", []byte("a"))})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestCheckAllEmpty(t *testing.T) {
	var verifier Verifier
	results, err := verifier.CheckAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestResultJSON(t *testing.T) {
	result := Result{
		Path:    "x",
		Outcome: OutcomeError,
		Err:     errors.New("disk on fire"),
	}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"path":"x"`, `"outcome":"error"`, `"error":"disk on fire"`} {
		if !strings.Contains(text, want) {
			t.Errorf("JSON %s missing %s", text, want)
		}
	}

	data, err = json.Marshal(Result{Path: "y", Outcome: OutcomeValid})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), `"error"`) {
		t.Errorf("valid result should omit error: %s", data)
	}
}
