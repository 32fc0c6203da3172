// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSumEmptyInputKnownVector(t *testing.T) {
	// Reference BLAKE3-256 digest of the empty string.
	const want = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	if got := Format(Sum(nil)); got != want {
		t.Errorf("Sum(nil) = %s, want %s", got, want)
	}
}

func TestSumDeterministic(t *testing.T) {
	input := []byte("deterministic input")
	if Sum(input) != Sum(input) {
		t.Error("Sum produced different results for the same input")
	}
	if Sum([]byte("content A")) == Sum([]byte("content B")) {
		t.Error("different content should produce different digests")
	}
}

func TestSumReaderMatchesSum(t *testing.T) {
	// Larger than one BLAKE3 chunk (1 KiB) so the tree path is exercised.
	content := bytes.Repeat([]byte("tailsign streaming "), 4096)

	streamed, err := SumReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("SumReader: %v", err)
	}
	if streamed != Sum(content) {
		t.Errorf("SumReader = %s, Sum = %s", streamed, Sum(content))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestSumReaderPropagatesError(t *testing.T) {
	_, err := SumReader(failingReader{})
	if err == nil {
		t.Fatal("SumReader should fail when the reader fails")
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("error %q should wrap the reader error", err)
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := Sum([]byte("round-trip"))

	parsed, err := Parse(original.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != original {
		t.Errorf("Parse round-trip failed: %s != %s", parsed, original)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not hex", strings.Repeat("z", 64)},
		{"too short", "abcd"},
		{"too long", strings.Repeat("ab", 33)},
		{"empty", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Parse(test.input); err == nil {
				t.Errorf("Parse(%q) should fail", test.input)
			}
		})
	}
}
