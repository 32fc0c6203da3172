// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "TAILSIGN_CONFIG"

// Default key file names inside Keys.Dir.
const (
	DefaultPrivateKeyFile = "tailsign_private.key"
	DefaultPublicKeyFile  = "tailsign_public.key"
)

// DefaultSuffix is appended to a file's path to name its signed copy.
const DefaultSuffix = ".signed"

// Config is the complete tailsign configuration.
type Config struct {
	// Log configures the command logger.
	Log LogConfig `yaml:"log" json:"log"`

	// Keys configures where signing keys live.
	Keys KeysConfig `yaml:"keys" json:"keys"`

	// Sign configures the sign command.
	Sign SignConfig `yaml:"sign" json:"sign"`

	// Verify configures verification policy.
	Verify VerifyConfig `yaml:"verify" json:"verify"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level" json:"level"`

	// Format is auto (text on a terminal, JSON otherwise), text, or json.
	// Default: auto
	Format string `yaml:"format" json:"format"`
}

// KeysConfig configures key file locations.
type KeysConfig struct {
	// Dir is the directory holding the key pair.
	// Default: ${HOME}/.config/tailsign/keys
	Dir string `yaml:"dir" json:"dir"`

	// PrivateFile is the private key file name, relative to Dir unless
	// absolute.
	PrivateFile string `yaml:"private_file" json:"private_file"`

	// PublicFile is the public key file name, relative to Dir unless
	// absolute.
	PublicFile string `yaml:"public_file" json:"public_file"`
}

// SignConfig configures signing.
type SignConfig struct {
	// Suffix is appended to the input path to form the output path.
	// Default: .signed
	Suffix string `yaml:"suffix" json:"suffix"`
}

// VerifyConfig configures verification.
type VerifyConfig struct {
	// Concurrency bounds parallel verification. Zero means one worker
	// per CPU.
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	// TrustedKeys are hex-encoded Ed25519 public keys. When non-empty,
	// a valid signature from any other key is reported as untrusted.
	TrustedKeys []string `yaml:"trusted_keys" json:"trusted_keys"`
}

// Default returns the built-in configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Keys: KeysConfig{
			Dir:         filepath.Join(homeDir, ".config", "tailsign", "keys"),
			PrivateFile: DefaultPrivateKeyFile,
			PublicFile:  DefaultPublicKeyFile,
		},
		Sign: SignConfig{
			Suffix: DefaultSuffix,
		},
	}
}

// Load loads the file named by TAILSIGN_CONFIG. Fails when the
// variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your tailsign config file, or use --config", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// Resolve picks the configuration source: flagPath if non-empty, then
// TAILSIGN_CONFIG, then Default.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	cfg := Default()
	cfg.expandVariables()
	return cfg, nil
}

// LoadFile loads configuration from path on top of Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.expandVariables()
	return cfg, nil
}

// PrivateKeyPath returns the resolved private key path.
func (c *Config) PrivateKeyPath() string {
	return c.keyPath(c.Keys.PrivateFile)
}

// PublicKeyPath returns the resolved public key path.
func (c *Config) PublicKeyPath() string {
	return c.keyPath(c.Keys.PublicFile)
}

func (c *Config) keyPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Keys.Dir, name)
}

// expandVariables expands ${VAR} and ${VAR:-default} in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Keys.Dir = expandVars(c.Keys.Dir, vars)
	vars["TAILSIGN_KEYS"] = c.Keys.Dir

	c.Keys.PrivateFile = expandVars(c.Keys.PrivateFile, vars)
	c.Keys.PublicFile = expandVars(c.Keys.PublicFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, consulting
// vars before the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		defaultValue := parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"auto", "text", "json"}
)

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", logFormats))
	}

	if c.Keys.Dir == "" {
		errs = append(errs, fmt.Errorf("keys.dir is required"))
	}
	if c.Keys.PrivateFile == "" {
		errs = append(errs, fmt.Errorf("keys.private_file is required"))
	}
	if c.Keys.PublicFile == "" {
		errs = append(errs, fmt.Errorf("keys.public_file is required"))
	}
	if c.PrivateKeyPath() == c.PublicKeyPath() {
		errs = append(errs, fmt.Errorf("keys.private_file and keys.public_file must differ"))
	}

	if c.Sign.Suffix == "" {
		errs = append(errs, fmt.Errorf("sign.suffix is required"))
	}
	if strings.ContainsRune(c.Sign.Suffix, filepath.Separator) {
		errs = append(errs, fmt.Errorf("sign.suffix must not contain a path separator"))
	}

	if c.Verify.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("verify.concurrency must not be negative"))
	}
	for index, key := range c.Verify.TrustedKeys {
		decoded, err := hex.DecodeString(strings.TrimSpace(key))
		if err != nil || len(decoded) != 32 {
			errs = append(errs, fmt.Errorf("verify.trusted_keys[%d] is not a 64-character hex Ed25519 public key", index))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsureKeyDir creates Keys.Dir with owner-only permissions if it does
// not exist.
func (c *Config) EnsureKeyDir() error {
	if err := os.MkdirAll(c.Keys.Dir, 0700); err != nil {
		return fmt.Errorf("creating %s: %w", c.Keys.Dir, err)
	}
	return nil
}
