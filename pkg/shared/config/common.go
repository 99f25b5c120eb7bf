package config

import (
	"crypto/tls"
	"time"
)

// DefaultServerURL is used when no server URL is configured anywhere.
const DefaultServerURL = "http://localhost:9000"

// DefaultMissingValue is written for metrics the server did not return.
const DefaultMissingValue = "0"

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount      int
	Timeout         time.Duration
	TLSClientConfig *tls.Config
	Proxy           string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// DefaultHttpConfig returns the base configuration applicable to all HTTP clients.
// Requests against the analysis server are never retried.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount: 0,
		Timeout:    30 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12, // Enforce a minimum TLS version
		},
		Proxy: "",
	}
}

// DefaultRestyConfig function returns a specific http config to Resty
func DefaultRestyConfig() RestyHttpClientConfig {
	baseConfig := DefaultHttpConfig()
	return RestyHttpClientConfig{
		BaseHTTPConfig: baseConfig,
		Debug:          false,
	}
}
