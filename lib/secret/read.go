// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNoTerminal is returned by Prompt when stdin is not a terminal.
var ErrNoTerminal = errors.New("secret: no terminal available for passphrase prompt")

// ReadFile reads a secret from path, or the first line of stdin when
// path is "-". Surrounding whitespace is trimmed. An empty result is an
// error.
func ReadFile(path string) (*Buffer, error) {
	if path == "-" {
		return readLine(os.Stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading secret file: %w", err)
	}
	defer Zero(data)
	return trimmed(data)
}

func readLine(r io.Reader) (*Buffer, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return nil, fmt.Errorf("secret: stdin is empty")
	}
	line := scanner.Bytes()
	defer Zero(line)
	return trimmed(line)
}

func trimmed(data []byte) (*Buffer, error) {
	value := bytes.TrimSpace(data)
	if len(value) == 0 {
		return nil, fmt.Errorf("secret: value is empty")
	}
	return NewFromBytes(value)
}

// Prompt writes label to stderr and reads a line from the terminal with
// echo disabled. Returns ErrNoTerminal when stdin is not interactive.
func Prompt(label string) (*Buffer, error) {
	descriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(descriptor) {
		return nil, ErrNoTerminal
	}

	fmt.Fprint(os.Stderr, label)
	data, err := term.ReadPassword(descriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}
	defer Zero(data)
	return trimmed(data)
}
