// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max attempts,
// initial delay and maximum delay. Provider clients use it around Hetzner Cloud
// and DNS API calls; the stack resolver itself never retries.
package retry
