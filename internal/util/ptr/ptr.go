// Package ptr provides helper functions for creating pointers to primitive types.
package ptr

// Int32 returns a pointer to the given int32 value.
func Int32(i int32) *int32 { return &i }

// String returns a pointer to the given string value.
func String(s string) *string { return &s }

// To returns a pointer to v.
func To[T any](v T) *T { return &v }
