package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	timeouts := LoadTimeouts()

	assert.Equal(t, 2*time.Minute, timeouts.AddressCreate)
	assert.Equal(t, 30*time.Second, timeouts.DNSRequest)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
	assert.Equal(t, time.Second, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_FromEnv(t *testing.T) {
	t.Setenv("APPSTACK_TIMEOUT_ADDRESS_CREATE", "45s")
	t.Setenv("APPSTACK_RETRY_MAX_ATTEMPTS", "2")
	t.Setenv("APPSTACK_TIMEOUT_DNS_REQUEST", "not-a-duration")

	timeouts := LoadTimeouts()

	assert.Equal(t, 45*time.Second, timeouts.AddressCreate)
	assert.Equal(t, 2, timeouts.RetryMaxAttempts)
	assert.Equal(t, 30*time.Second, timeouts.DNSRequest, "invalid values fall back to the default")
}
