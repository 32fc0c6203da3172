// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bureau-foundation/tailsign/lib/digest"
)

// These variables are set via -ldflags at build time, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/tailsign/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns detailed version information including Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit SHA.
func Commit() string {
	return GitCommit
}

// SelfDigest returns the BLAKE3 digest of the running executable and
// its resolved path.
func SelfDigest() (digest.Hash, string, error) {
	executable, err := os.Executable()
	if err != nil {
		return digest.Hash{}, "", fmt.Errorf("locating executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(executable)
	if err != nil {
		return digest.Hash{}, "", fmt.Errorf("resolving %s: %w", executable, err)
	}

	file, err := os.Open(resolved)
	if err != nil {
		return digest.Hash{}, "", fmt.Errorf("opening %s for hashing: %w", resolved, err)
	}
	defer file.Close()

	hash, err := digest.SumReader(file)
	if err != nil {
		return digest.Hash{}, "", fmt.Errorf("hashing %s: %w", resolved, err)
	}
	return hash, resolved, nil
}
