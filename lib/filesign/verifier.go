// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package filesign

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/tailsign/lib/digest"
	"github.com/bureau-foundation/tailsign/lib/signedfile"
)

// Outcome classifies the result of checking one file.
type Outcome string

const (
	// OutcomeValid: the signature verifies under the embedded key, and
	// the key is trusted (or no trust set is configured).
	OutcomeValid Outcome = "valid"

	// OutcomeInvalid: the file has a footer but the signature does not
	// match its content. The file was tampered with or truncated.
	OutcomeInvalid Outcome = "invalid"

	// OutcomeUnsigned: the file has no signature footer.
	OutcomeUnsigned Outcome = "unsigned"

	// OutcomeUntrusted: the signature verifies, but the embedded key is
	// not in the verifier's trust set.
	OutcomeUntrusted Outcome = "untrusted"

	// OutcomeError: the file could not be read, or its embedded key is
	// not a valid Ed25519 point. Result.Err carries the cause.
	OutcomeError Outcome = "error"
)

func (o Outcome) String() string { return string(o) }

// Result is the outcome of checking one file.
type Result struct {
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`

	// Size is the content length, excluding the footer when the file
	// is signed. Zero when the file could not be read.
	Size int64 `json:"size"`

	// Digest is the hex BLAKE3 digest of the content (the bytes the
	// signature covers). For unsigned files it covers the whole file.
	Digest string `json:"digest,omitempty"`

	// Fingerprint identifies the embedded public key. Empty for
	// unsigned files.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Err is set when Outcome is OutcomeError.
	Err error `json:"-"`
}

// MarshalJSON renders Err as an "error" string field.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	var message string
	if r.Err != nil {
		message = r.Err.Error()
	}
	return json.Marshal(struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain(r), message})
}

// OK reports whether the outcome is OutcomeValid.
func (r Result) OK() bool { return r.Outcome == OutcomeValid }

// Verifier checks signed files against an optional trust set.
type Verifier struct {
	// Trusted is the set of accepted signing keys. Empty accepts any
	// key whose signature verifies.
	Trusted []ed25519.PublicKey

	// Concurrency bounds the number of files CheckAll verifies at
	// once. Zero or negative means runtime.NumCPU().
	Concurrency int

	// Logger receives one record per checked file. Nil discards.
	Logger *slog.Logger
}

// Check verifies the file at path and classifies the result. It never
// returns an error; failures are reported as OutcomeError with
// Result.Err set.
func (v *Verifier) Check(path string) Result {
	result := v.check(path)

	log := logger(v.Logger)
	if result.Err != nil {
		log.Warn("verification failed",
			"path", path,
			"outcome", result.Outcome,
			"error", result.Err,
		)
	} else {
		log.Debug("checked file",
			"path", path,
			"outcome", result.Outcome,
			"size", result.Size,
			"fingerprint", result.Fingerprint,
		)
	}
	return result
}

func (v *Verifier) check(path string) Result {
	result := Result{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Outcome = OutcomeError
		result.Err = fmt.Errorf("reading %s: %w", path, err)
		return result
	}

	artifact, err := signedfile.Parse(data)
	if err != nil {
		if !errors.Is(err, signedfile.ErrNotSigned) {
			result.Outcome = OutcomeError
			result.Err = err
			return result
		}
		result.Outcome = OutcomeUnsigned
		result.Size = int64(len(data))
		result.Digest = digest.Sum(data).String()
		return result
	}

	result.Size = int64(len(artifact.Content))
	result.Digest = artifact.Digest().String()
	result.Fingerprint = fingerprintOf(artifact)

	valid, err := artifact.Verify()
	switch {
	case err != nil:
		result.Outcome = OutcomeError
		result.Err = fmt.Errorf("verifying %s: %w", path, err)
	case !valid:
		result.Outcome = OutcomeInvalid
	case !v.trusts(artifact.PublicKey[:]):
		result.Outcome = OutcomeUntrusted
	default:
		result.Outcome = OutcomeValid
	}
	return result
}

// trusts reports whether public is acceptable under the trust set.
func (v *Verifier) trusts(public ed25519.PublicKey) bool {
	if len(v.Trusted) == 0 {
		return true
	}
	for _, trusted := range v.Trusted {
		if trusted.Equal(public) {
			return true
		}
	}
	return false
}

// CheckAll checks every path concurrently, at most Concurrency at a
// time, and returns the results in input order. Per-file failures are
// recorded in the corresponding Result. The only error returned is the
// context's, when it is cancelled before all files are checked.
func (v *Verifier) CheckAll(ctx context.Context, paths []string) ([]Result, error) {
	limit := v.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]Result, len(paths))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for index, path := range paths {
		if groupContext.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupContext.Err(); err != nil {
				return err
			}
			results[index] = v.Check(path)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary counts results by outcome.
func Summary(results []Result) map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, result := range results {
		counts[result.Outcome]++
	}
	return counts
}
