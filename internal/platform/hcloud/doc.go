// Package hcloud wraps the Hetzner Cloud API for the resources a stack
// reserves: one floating IP per public stack.
//
// EnsureOperation provides get-or-create semantics with optional update and
// validation of an existing resource. Transient API errors (locked
// resources, rate limits) are retried with exponential backoff; all other
// errors are returned immediately.
//
// Timeouts and retry parameters come from config.Timeouts:
//
//   - APPSTACK_TIMEOUT_ADDRESS_CREATE: address reservation timeout (default: 2m)
//   - APPSTACK_RETRY_MAX_ATTEMPTS: maximum retry attempts (default: 5)
//   - APPSTACK_RETRY_INITIAL_DELAY: initial retry delay (default: 1s)
package hcloud
