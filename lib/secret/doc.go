// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds private key seeds and passphrases in memory that
// the Go runtime never sees.
//
// [Buffer] allocates with mmap(MAP_ANONYMOUS) outside the Go heap,
// mlocks the pages so they cannot be swapped, and marks them
// MADV_DONTDUMP so they stay out of core dumps. Close zeroes, unlocks,
// and unmaps the region. The garbage collector cannot copy memory it
// does not manage, so once a seed is moved into a Buffer and the
// source slice zeroed, no stray heap copy survives.
//
// Sources of secret material:
//
//   - [NewFromBytes] -- moves a slice into protected memory and zeroes it
//   - [ReadFile] -- reads a passphrase file (or stdin for "-"), trimmed
//   - [Prompt] -- reads a passphrase from the terminal with echo disabled
//
// Depends on golang.org/x/sys/unix and golang.org/x/term.
package secret
