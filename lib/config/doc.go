// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the tailsign CLI.
//
// Configuration comes from a single file named by the --config flag or
// the TAILSIGN_CONFIG environment variable (via [Resolve]). When
// neither is set, [Default] is used unchanged. There is no search path
// and no per-field environment override, so the effective settings are
// always the defaults plus exactly one file.
//
// Files ending in .json or .jsonc are parsed as JSON with comments and
// trailing commas allowed; everything else is parsed as YAML.
//
// Path fields support ${HOME}, ${TAILSIGN_KEYS}, and ${VAR:-default}
// expansion after loading.
//
// Key exports:
//
//   - [Config] -- log, key, sign, and verify sections
//   - [Default] -- the built-in configuration
//   - [Load], [LoadFile], [Resolve] -- loading entry points
//   - [Config.Validate] -- rejects unusable values before any file is touched
//
// This package depends on no other tailsign packages.
package config
