// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "info" {
		t.Errorf("expected log.level=info, got %s", cfg.Log.Level)
	}
	if cfg.Sign.Suffix != ".signed" {
		t.Errorf("expected sign.suffix=.signed, got %s", cfg.Sign.Suffix)
	}
	if filepath.Base(cfg.PrivateKeyPath()) != "tailsign_private.key" {
		t.Errorf("unexpected private key path %s", cfg.PrivateKeyPath())
	}
	if filepath.Base(cfg.PublicKeyPath()) != "tailsign_public.key" {
		t.Errorf("unexpected public key path %s", cfg.PublicKeyPath())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when TAILSIGN_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "TAILSIGN_CONFIG environment variable not set") {
		t.Errorf("unexpected error message %q", err)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "tailsign.yaml", `
log:
  level: debug
  format: json
keys:
  dir: /srv/keys
  private_file: release.key
sign:
  suffix: .sig
verify:
  concurrency: 3
  trusted_keys:
    - d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.PrivateKeyPath() != "/srv/keys/release.key" {
		t.Errorf("private key path = %s", cfg.PrivateKeyPath())
	}
	// Unset fields keep their defaults.
	if cfg.PublicKeyPath() != "/srv/keys/tailsign_public.key" {
		t.Errorf("public key path = %s", cfg.PublicKeyPath())
	}
	if cfg.Sign.Suffix != ".sig" {
		t.Errorf("suffix = %s", cfg.Sign.Suffix)
	}
	if cfg.Verify.Concurrency != 3 || len(cfg.Verify.TrustedKeys) != 1 {
		t.Errorf("verify = %+v", cfg.Verify)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeConfig(t, "tailsign.jsonc", `{
  // Release signing.
  "keys": {"dir": "/opt/keys", /* inline */ },
  "sign": {"suffix": ".tsig"},
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Keys.Dir != "/opt/keys" {
		t.Errorf("keys.dir = %s", cfg.Keys.Dir)
	}
	if cfg.Sign.Suffix != ".tsig" {
		t.Errorf("sign.suffix = %s", cfg.Sign.Suffix)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log.level default lost: %s", cfg.Log.Level)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}

	path := writeConfig(t, "broken.yaml", "log: [unterminated")
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile should fail for malformed YAML")
	}
}

func TestResolvePrecedence(t *testing.T) {
	envPath := writeConfig(t, "env.yaml", "sign:\n  suffix: .env\n")
	flagPath := writeConfig(t, "flag.yaml", "sign:\n  suffix: .flag\n")

	t.Setenv(EnvironmentVariable, envPath)

	cfg, err := Resolve(flagPath)
	if err != nil {
		t.Fatalf("Resolve(flag): %v", err)
	}
	if cfg.Sign.Suffix != ".flag" {
		t.Errorf("flag should win, got suffix %s", cfg.Sign.Suffix)
	}

	cfg, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve(env): %v", err)
	}
	if cfg.Sign.Suffix != ".env" {
		t.Errorf("environment should be used, got suffix %s", cfg.Sign.Suffix)
	}

	t.Setenv(EnvironmentVariable, "")
	cfg, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve(default): %v", err)
	}
	if cfg.Sign.Suffix != DefaultSuffix {
		t.Errorf("default should be used, got suffix %s", cfg.Sign.Suffix)
	}
}

func TestKeyDirExpansion(t *testing.T) {
	t.Setenv("HOME", "/home/signer")
	path := writeConfig(t, "tailsign.yaml", `
keys:
  dir: ${HOME}/keys
  public_file: ${TAILSIGN_KEYS}/shared/public.key
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Keys.Dir != "/home/signer/keys" {
		t.Errorf("keys.dir = %s", cfg.Keys.Dir)
	}
	if cfg.PublicKeyPath() != "/home/signer/keys/shared/public.key" {
		t.Errorf("public key path = %s", cfg.PublicKeyPath())
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{"${HOME}/keys", map[string]string{"HOME": "/home/user"}, "/home/user/keys"},
		{"${TAILSIGN_TEST_MISSING:-fallback}", map[string]string{}, "fallback"},
		{"${PRESENT:-fallback}", map[string]string{"PRESENT": "value"}, "value"},
		{"${A}/${B}", map[string]string{"A": "first", "B": "second"}, "first/second"},
		{"no variables here", map[string]string{}, "no variables here"},
	}

	for _, tt := range tests {
		if result := expandVars(tt.input, tt.vars); result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"empty suffix", func(c *Config) { c.Sign.Suffix = "" }, "sign.suffix is required"},
		{"suffix with separator", func(c *Config) { c.Sign.Suffix = "/x" }, "path separator"},
		{"negative concurrency", func(c *Config) { c.Verify.Concurrency = -1 }, "verify.concurrency"},
		{"bad trusted key", func(c *Config) { c.Verify.TrustedKeys = []string{"abcd"} }, "trusted_keys[0]"},
		{"same key files", func(c *Config) { c.Keys.PublicFile = c.Keys.PrivateFile }, "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestEnsureKeyDir(t *testing.T) {
	cfg := Default()
	cfg.Keys.Dir = filepath.Join(t.TempDir(), "nested", "keys")

	if err := cfg.EnsureKeyDir(); err != nil {
		t.Fatalf("EnsureKeyDir: %v", err)
	}
	info, err := os.Stat(cfg.Keys.Dir)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("keys.dir is not a directory")
	}
	if mode := info.Mode().Perm(); mode != 0700 {
		t.Errorf("keys.dir permissions = %o, want 0700", mode)
	}
}
