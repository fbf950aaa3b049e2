// Package config provides configuration management for the tool gateway.
// It uses viper for loading configuration from command-line flags and
// environment variables, plus a YAML lookup file for tenant tables.
//
// Configuration priority (highest to lowest):
// 1. Command-line flags
// 2. Environment variables (with GATEWAY_ prefix)
// 3. Defaults
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values for the gateway.
type Config struct {
	// Addr is the address the HTTP server listens on.
	// Defaults to ":8000"
	Addr string

	// APIKeys is the set of accepted client credentials for the X-API-Key
	// header. An empty set disables authentication.
	APIKeys []string

	// AllowedOrigins lists origins accepted for cross-origin requests.
	// Defaults to ["*"]
	AllowedOrigins []string

	// ViterbitAPIKey authenticates outbound calls to the Viterbit API.
	// Required to serve any candidate operation.
	ViterbitAPIKey string

	// ViterbitBaseURL is the Viterbit API root.
	// Defaults to "https://api.viterbit.com/v1"
	ViterbitBaseURL string

	// HandlerTimeout bounds a single tool invocation.
	// Defaults to 60s
	HandlerTimeout time.Duration

	// PingInterval is the keepalive cadence on event streams.
	// Defaults to 30s
	PingInterval time.Duration

	// LogLevel is the minimum level emitted (debug, info, warn, error).
	// Defaults to "info"
	LogLevel string

	// LookupFile is the YAML file overriding the built-in department,
	// location and custom-field lookup tables.
	// Defaults to "lookups.yaml"
	LookupFile string
}

// Defaults returns a Config struct with all default values set.
func Defaults() *Config {
	return &Config{
		Addr:            ":8000",
		AllowedOrigins:  []string{"*"},
		ViterbitBaseURL: "https://api.viterbit.com/v1",
		HandlerTimeout:  60 * time.Second,
		PingInterval:    30 * time.Second,
		LogLevel:        "info",
		LookupFile:      "lookups.yaml",
	}
}

// LoadConfig loads and returns the configuration from viper.
// It sets up environment variable bindings with the GATEWAY_ prefix.
//
// The caller is expected to have set up viper with BindPFlag() calls
// for command-line flags before calling this function.
//
// Returns:
//   - *Config: The loaded configuration
func LoadConfig() *Config {
	// Set defaults first
	cfg := Defaults()

	// Load from viper (reads flags and env vars)
	viper.SetEnvPrefix("GATEWAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Override defaults with viper values
	if viper.IsSet("addr") {
		cfg.Addr = viper.GetString("addr")
	}
	if viper.IsSet("api_keys") {
		cfg.APIKeys = splitList(viper.GetString("api_keys"))
	}
	if viper.IsSet("allowed_origins") {
		cfg.AllowedOrigins = splitList(viper.GetString("allowed_origins"))
	}
	if viper.IsSet("viterbit_api_key") {
		cfg.ViterbitAPIKey = viper.GetString("viterbit_api_key")
	}
	if viper.IsSet("viterbit_base_url") {
		cfg.ViterbitBaseURL = viper.GetString("viterbit_base_url")
	}
	if viper.IsSet("handler_timeout") {
		cfg.HandlerTimeout = viper.GetDuration("handler_timeout")
	}
	if viper.IsSet("ping_interval") {
		cfg.PingInterval = viper.GetDuration("ping_interval")
	}
	if viper.IsSet("log_level") {
		cfg.LogLevel = viper.GetString("log_level")
	}
	if viper.IsSet("lookup_file") {
		cfg.LookupFile = viper.GetString("lookup_file")
	}

	return cfg
}

// splitList splits a comma-separated value into trimmed, non-empty entries.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
