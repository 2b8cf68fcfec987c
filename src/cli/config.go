// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	x509chain "github.com/H0llyW00dzZ/x509-trust-validator/src/internal/x509/chain"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

const (
	// EnvConfigFile names the environment variable holding the configuration file path.
	EnvConfigFile = "X509_TRUST_CONFIG_FILE"
	// EnvTrustDir names the environment variable holding the trust store directory.
	EnvTrustDir = "X509_TRUST_DIR"
)

// Config represents the validator configuration.
//
// It can be loaded from a JSON or YAML file given by --config or by the
// X509_TRUST_CONFIG_FILE environment variable. Defaults are applied for missing
// or invalid values and command-line flags override the file.
type Config struct {
	// Network: settings for AIA and CRL downloads
	Network struct {
		// Timeout: per-request timeout in seconds
		Timeout int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
		// UserAgent: overrides the default User-Agent header
		UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
		// MaxBodyBytes: largest certificate or CRL accepted
		MaxBodyBytes int64 `json:"maxBodyBytes,omitempty" yaml:"maxBodyBytes,omitempty"`
	} `json:"network" yaml:"network"`

	// Chain: chain building limits
	Chain struct {
		// MaxLength: maximum number of certificates in a chain
		MaxLength int `json:"maxLength" yaml:"maxLength"`
	} `json:"chain" yaml:"chain"`

	// CRLCache: cache shared by every certificate validated in one run
	CRLCache struct {
		// MaxSize: maximum number of cached CRLs
		MaxSize int `json:"maxSize" yaml:"maxSize"`
	} `json:"crlCache" yaml:"crlCache"`

	// Log: diagnostics output
	Log struct {
		// Format: "text" or "json"
		Format string `json:"format" yaml:"format"`
	} `json:"log" yaml:"log"`

	// TrustDir: directory of trusted root certificates
	TrustDir string `json:"trustDir,omitempty" yaml:"trustDir,omitempty"`
}

// detectConfigFormat determines the configuration file format based on file extension.
// Extension matching is case-insensitive; anything that is not YAML is read as JSON.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// defaultConfig returns the built-in configuration.
func defaultConfig() *Config {
	config := &Config{}
	config.Network.Timeout = int(x509chain.DefaultTimeout / time.Second)
	config.Network.MaxBodyBytes = x509chain.DefaultMaxBodySize
	config.Chain.MaxLength = x509chain.DefaultMaxLength
	config.CRLCache.MaxSize = 100
	config.Log.Format = "text"
	return config
}

// loadConfig loads the configuration from a JSON or YAML file or applies defaults.
//
// Configuration Priority:
//  1. Default values are set
//  2. X509_TRUST_CONFIG_FILE environment variable is checked if configPath is empty
//  3. Config file values override defaults (if a path was given)
//  4. X509_TRUST_DIR fills in the trust store directory when still empty
func loadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := unmarshalConfig(data, config, detectConfigFormat(configPath)); err != nil {
			return nil, err
		}

		defaults := defaultConfig()
		if config.Network.Timeout <= 0 {
			config.Network.Timeout = defaults.Network.Timeout
		}
		if config.Network.MaxBodyBytes <= 0 {
			config.Network.MaxBodyBytes = defaults.Network.MaxBodyBytes
		}
		if config.Chain.MaxLength <= 0 {
			config.Chain.MaxLength = defaults.Chain.MaxLength
		}
		if config.CRLCache.MaxSize < 0 {
			config.CRLCache.MaxSize = defaults.CRLCache.MaxSize
		}
		switch strings.ToLower(config.Log.Format) {
		case "text", "json":
			config.Log.Format = strings.ToLower(config.Log.Format)
		default:
			config.Log.Format = defaults.Log.Format
		}
	}

	if config.TrustDir == "" {
		config.TrustDir = os.Getenv(EnvTrustDir)
	}

	return config, nil
}
