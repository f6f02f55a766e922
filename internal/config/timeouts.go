package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	AddressCreate     time.Duration // Timeout for waiting on floating IP creation actions
	DNSRequest        time.Duration // Timeout for a single DNS API request
	KubernetesRequest time.Duration // Timeout for a single Kubernetes API request
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - APPSTACK_TIMEOUT_ADDRESS_CREATE (default: 2m)
//   - APPSTACK_TIMEOUT_DNS_REQUEST (default: 30s)
//   - APPSTACK_TIMEOUT_KUBERNETES_REQUEST (default: 30s)
//   - APPSTACK_RETRY_MAX_ATTEMPTS (default: 5)
//   - APPSTACK_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		AddressCreate:     parseDuration("APPSTACK_TIMEOUT_ADDRESS_CREATE", 2*time.Minute),
		DNSRequest:        parseDuration("APPSTACK_TIMEOUT_DNS_REQUEST", 30*time.Second),
		KubernetesRequest: parseDuration("APPSTACK_TIMEOUT_KUBERNETES_REQUEST", 30*time.Second),
		RetryMaxAttempts:  parseInt("APPSTACK_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("APPSTACK_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
